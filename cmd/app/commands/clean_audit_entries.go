package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/allisson/sixseal/internal/audit"
)

// RunCleanAuditEntries deletes audit entries older than the given number of
// days.
func RunCleanAuditEntries(
	ctx context.Context,
	auditUseCase *audit.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning audit entries", slog.Int("days", days))

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	count, err := auditUseCase.Clean(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete audit entries: %w", err)
	}

	if format == "json" {
		outputCleanAuditEntriesJSON(writer, count, days)
	} else {
		outputCleanAuditEntriesText(writer, count, days)
	}

	logger.Info("cleanup completed", slog.Int64("count", count), slog.Int("days", days))
	return nil
}

// outputCleanAuditEntriesText outputs the result in human-readable text format.
func outputCleanAuditEntriesText(writer io.Writer, count int64, days int) {
	_, _ = fmt.Fprintf(writer, "Successfully deleted %d audit entry(ies) older than %d day(s)\n", count, days)
}

// outputCleanAuditEntriesJSON outputs the result in JSON format for machine
// consumption.
func outputCleanAuditEntriesJSON(writer io.Writer, count int64, days int) {
	result := map[string]interface{}{
		"count": count,
		"days":  days,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}

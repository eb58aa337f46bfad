package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/sixseal/internal/audit"
	auditDomain "github.com/allisson/sixseal/internal/audit/domain"
)

// RunVerifyAuditEntries verifies the HMAC signature of every audit entry in
// the given date range and reports the ones that fail. A non-empty invalid set
// is returned as an error so the command exits non-zero for scripting.
func RunVerifyAuditEntries(
	ctx context.Context,
	auditUseCase *audit.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	startDate, endDate, format string,
) error {
	verifyRange := auditDomain.VerifyRange{StartDate: startDate, EndDate: endDate}

	start, end, err := verifyRange.Times()
	if err != nil {
		return err
	}

	logger.Info("verifying audit entries",
		slog.Time("start", start),
		slog.Time("end", end),
	)

	checked, invalid, err := auditUseCase.VerifyBetween(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to verify audit entries: %w", err)
	}

	if format == "json" {
		outputVerifyAuditEntriesJSON(writer, checked, invalid)
	} else {
		outputVerifyAuditEntriesText(writer, checked, invalid)
	}

	if len(invalid) > 0 {
		return fmt.Errorf("%d of %d audit entry(ies) failed signature verification", len(invalid), checked)
	}

	logger.Info("verification completed", slog.Int("checked", checked))
	return nil
}

// outputVerifyAuditEntriesText outputs the result in human-readable text format.
func outputVerifyAuditEntriesText(writer io.Writer, checked int, invalid []*auditDomain.Entry) {
	_, _ = fmt.Fprintf(writer, "Checked %d audit entry(ies)\n", checked)
	for _, e := range invalid {
		_, _ = fmt.Fprintf(writer, "INVALID %s %s %s\n", e.ID, e.Operation, e.Path)
	}
	if len(invalid) == 0 {
		_, _ = fmt.Fprintln(writer, "All signatures valid")
	}
}

// outputVerifyAuditEntriesJSON outputs the result in JSON format for machine
// consumption.
func outputVerifyAuditEntriesJSON(writer io.Writer, checked int, invalid []*auditDomain.Entry) {
	type invalidEntry struct {
		ID        string `json:"id"`
		Path      string `json:"path"`
		Operation string `json:"operation"`
	}

	out := struct {
		Checked int            `json:"checked"`
		Invalid []invalidEntry `json:"invalid"`
	}{Checked: checked, Invalid: []invalidEntry{}}

	for _, e := range invalid {
		out.Invalid = append(out.Invalid, invalidEntry{
			ID:        e.ID.String(),
			Path:      e.Path,
			Operation: string(e.Operation),
		})
	}

	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}

package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/sixseal/internal/audit"
	auditDomain "github.com/allisson/sixseal/internal/audit/domain"
	"github.com/allisson/sixseal/internal/filter"
	"github.com/allisson/sixseal/internal/metrics"
)

// RunClean reads working-tree content from io.Reader, encrypts it for path,
// and writes the wire blob to io.Writer. This is the body of the clean filter
// the host VCS invokes on every stage of a matching file. auditUseCase may be
// nil when no audit database is configured.
func RunClean(
	ctx context.Context,
	facade *filter.Facade,
	auditUseCase *audit.UseCase,
	business metrics.BusinessMetrics,
	logger *slog.Logger,
	streams IO,
	path string,
) error {
	start := time.Now()
	err := filter.RunClean(facade, path, streams.Reader, streams.Writer)

	recordFilterMetrics(ctx, business, "clean", time.Since(start), err == nil)
	recordAudit(ctx, auditUseCase, logger, path, auditDomain.OperationClean, err == nil)

	if err != nil {
		logger.Error("clean filter failed", slog.String("path", path), slog.Any("error", err))
		return err
	}

	logger.Debug("clean filter completed", slog.String("path", path))
	return nil
}

// RunSmudge reads stored content from io.Reader, decrypts it for path (or
// passes legacy plaintext through unchanged), and writes the result to
// io.Writer. auditUseCase may be nil when no audit database is configured.
func RunSmudge(
	ctx context.Context,
	facade *filter.Facade,
	auditUseCase *audit.UseCase,
	business metrics.BusinessMetrics,
	logger *slog.Logger,
	streams IO,
	path string,
) error {
	start := time.Now()
	err := filter.RunSmudge(facade, path, streams.Reader, streams.Writer)

	recordFilterMetrics(ctx, business, "smudge", time.Since(start), err == nil)
	recordAudit(ctx, auditUseCase, logger, path, auditDomain.OperationSmudge, err == nil)

	if err != nil {
		logger.Error("smudge filter failed", slog.String("path", path), slog.Any("error", err))
		return err
	}

	logger.Debug("smudge filter completed", slog.String("path", path))
	return nil
}

// recordFilterMetrics records one filter invocation's count and duration
// under the "filter" domain. business may be nil when no metrics provider is
// wired up.
func recordFilterMetrics(
	ctx context.Context,
	business metrics.BusinessMetrics,
	operation string,
	duration time.Duration,
	success bool,
) {
	if business == nil {
		return
	}

	status := "success"
	if !success {
		status = "error"
	}
	business.RecordOperation(ctx, "filter", operation, status)
	business.RecordDuration(ctx, "filter", operation, duration, status)
}

// recordAudit best-effort records a filter invocation. Audit persistence never
// fails the filter itself: the VCS contract is that stdout either carries the
// transformed content or stays empty, and a flaky audit database must not
// corrupt a checkout.
func recordAudit(
	ctx context.Context,
	auditUseCase *audit.UseCase,
	logger *slog.Logger,
	path string,
	op auditDomain.Operation,
	success bool,
) {
	if auditUseCase == nil {
		return
	}
	if err := auditUseCase.Record(ctx, path, op, success); err != nil {
		logger.Warn("failed to record audit entry",
			slog.String("path", path),
			slog.String("operation", string(op)),
			slog.Any("error", err),
		)
	}
}

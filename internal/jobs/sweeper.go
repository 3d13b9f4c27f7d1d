package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bountychain/report-vault/internal/metrics"
	"github.com/bountychain/report-vault/internal/services"
	"github.com/google/uuid"
)

// SweepResult lists the reports approved by one sweep.
type SweepResult struct {
	Count int
	IDs   []uuid.UUID
	// Raced counts reports that were reviewed between selection and commit.
	Raced int
}

// AutoResolver approves pending reports whose review window has closed.
type AutoResolver struct {
	reports   *services.ReportService
	batchSize int
}

// NewAutoResolver returns a sweeper that handles at most batchSize reports per
// sweep; zero means no limit.
func NewAutoResolver(reports *services.ReportService, batchSize int) *AutoResolver {
	return &AutoResolver{reports: reports, batchSize: batchSize}
}

// Sweep runs one pass. Reports are committed one at a time, so a failure part
// way through keeps the approvals already made and the rest are retried on
// the next pass.
func (a *AutoResolver) Sweep(ctx context.Context) (SweepResult, error) {
	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	var result SweepResult
	due, err := a.reports.DueReports(ctx, a.batchSize)
	if err != nil {
		metrics.SweepRuns.WithLabelValues("error").Inc()
		return result, err
	}

	var errs []error
	for i := range due {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		_, err := a.reports.AutoApprove(ctx, &due[i])
		switch {
		case err == nil:
			result.Count++
			result.IDs = append(result.IDs, due[i].ID)
		case errors.Is(err, services.ErrInvalidTransition):
			result.Raced++
		default:
			slog.Error("auto-approval failed", "report_id", due[i].ID.String(), "bounty_id", due[i].BountyID, "error", err)
			errs = append(errs, err)
		}
	}
	metrics.AutoApproved.Add(float64(result.Count))

	if result.Count > 0 {
		ids := make([]string, len(result.IDs))
		for i, id := range result.IDs {
			ids[i] = id.String()
		}
		slog.Info("auto-approved reports past review deadline", "count", result.Count, "report_ids", ids)
	}

	if err := errors.Join(errs...); err != nil {
		metrics.SweepRuns.WithLabelValues("error").Inc()
		return result, err
	}
	metrics.SweepRuns.WithLabelValues("ok").Inc()
	return result, nil
}

// Task adapts Sweep for a Runner.
func (a *AutoResolver) Task() Task {
	return func(ctx context.Context) error {
		_, err := a.Sweep(ctx)
		return err
	}
}

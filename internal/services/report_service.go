package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bountychain/report-vault/internal/clock"
	"github.com/bountychain/report-vault/internal/dto"
	"github.com/bountychain/report-vault/internal/hybrid"
	"github.com/bountychain/report-vault/internal/metrics"
	"github.com/bountychain/report-vault/internal/models"
	"github.com/bountychain/report-vault/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultReviewWindow is how long an owner has to review a report before it
// is approved automatically.
const DefaultReviewWindow = 7 * 24 * time.Hour

type ReportServiceConfig struct {
	ReviewWindow time.Duration
	Algorithm    string
	Clock        clock.Clock
	Authorize    AuthorizationCheck
	Publisher    PayoutPublisher
}

type ReportService struct {
	reports      *repository.ReportRepository
	bounties     *repository.BountyRepository
	clock        clock.Clock
	authorize    AuthorizationCheck
	publisher    PayoutPublisher
	reviewWindow time.Duration
	algorithm    string
}

// TransitionResult is the outcome of a successful status change.
// Payout is set only when the report was approved.
type TransitionResult struct {
	Report *models.Report
	Payout *models.PayoutIntent
}

func NewReportService(db *gorm.DB, cfg ReportServiceConfig) *ReportService {
	s := &ReportService{
		reports:      repository.NewReportRepository(db),
		bounties:     repository.NewBountyRepository(db),
		clock:        cfg.Clock,
		authorize:    cfg.Authorize,
		publisher:    cfg.Publisher,
		reviewWindow: cfg.ReviewWindow,
		algorithm:    cfg.Algorithm,
	}
	if s.clock == nil {
		s.clock = clock.Real{}
	}
	if s.authorize == nil {
		s.authorize = OwnerWalletCheck
	}
	if s.publisher == nil {
		s.publisher = LogPublisher{}
	}
	if s.reviewWindow <= 0 {
		s.reviewWindow = DefaultReviewWindow
	}
	if s.algorithm == "" {
		s.algorithm = hybrid.AlgorithmAESGCM
	}
	return s
}

// Submit encrypts the report body for the bounty owner and stores it as a
// pending report. Only the ciphertext is persisted.
func (s *ReportService) Submit(ctx context.Context, req *dto.SubmitReportRequest) (*models.Report, error) {
	if strings.TrimSpace(req.BountyID) == "" || strings.TrimSpace(req.HackerWallet) == "" || req.ReportText == "" {
		return nil, validationError("bounty_id, hacker_wallet and report_text are required")
	}

	bounty, err := s.bounties.FindByID(ctx, req.BountyID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBountyNotFound
	}
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !bounty.AcceptsReports(now) {
		return nil, ErrBountyInactive
	}
	if strings.TrimSpace(bounty.OwnerPublicKey) == "" {
		slog.Error("bounty has no encryption key", "bounty_id", bounty.ID)
		return nil, ErrMissingEncryptionKey
	}
	pub, err := hybrid.ParsePublicKeyPEM(bounty.OwnerPublicKey)
	if err != nil {
		slog.Error("bounty encryption key is unusable", "bounty_id", bounty.ID, "error", err)
		return nil, ErrInvalidEncryptionKey
	}

	sealed, err := hybrid.Encrypt([]byte(req.ReportText), pub, hybrid.WithAlgorithm(s.algorithm))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt report: %w", err)
	}

	report := &models.Report{
		ID:               uuid.New(),
		BountyID:         bounty.ID,
		SubmitterWallet:  strings.TrimSpace(req.HackerWallet),
		EncryptedPayload: sealed.EncryptedPayload,
		EncryptedKey:     sealed.EncryptedKey,
		EncryptionAlgo:   sealed.Algorithm,
		Status:           models.ReportStatusPending,
		AutoResolveAt:    now.Add(s.reviewWindow),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = retryOnce(ctx, "report.create", func(attempt int) error {
		err := s.reports.Create(ctx, report)
		// The first attempt committed before its error was reported.
		if attempt > 1 && errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ReportsSubmitted.Inc()
	slog.Info("encrypted report submitted",
		"report_id", report.ID.String(),
		"bounty_id", report.BountyID,
		"auto_resolve_at", report.AutoResolveAt,
	)
	return report, nil
}

// Get returns a stored report with its ciphertext and bounty.
func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	report, err := s.reports.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReportNotFound
	}
	return report, err
}

func (s *ReportService) ListByBounty(ctx context.Context, bountyID string) ([]models.Report, error) {
	return s.reports.ListByBounty(ctx, bountyID)
}

func (s *ReportService) ListBySubmitter(ctx context.Context, wallet string) ([]models.Report, error) {
	return s.reports.ListBySubmitter(ctx, wallet)
}

// Transition applies an owner review decision to a pending report.
func (s *ReportService) Transition(ctx context.Context, reportID uuid.UUID, requester, newStatus string) (*TransitionResult, error) {
	report, err := s.reports.FindByID(ctx, reportID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	if !s.authorize(requester, &report.Bounty) {
		slog.Warn("unauthorized report status change",
			"report_id", report.ID.String(),
			"bounty_id", report.BountyID,
			"requester", requester,
		)
		return nil, ErrNotBountyOwner
	}
	if report.IsTerminal() {
		return nil, ErrInvalidTransition
	}
	if !models.IsReviewStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	return s.apply(ctx, report, newStatus, requester, models.TransitionSourceOwner)
}

// DueReports returns pending reports whose review window has closed.
func (s *ReportService) DueReports(ctx context.Context, limit int) ([]models.Report, error) {
	return s.reports.ListDue(ctx, s.clock.Now(), limit)
}

// AutoApprove approves a report whose review window has closed. It yields
// ErrInvalidTransition if the report was reviewed in the meantime.
func (s *ReportService) AutoApprove(ctx context.Context, report *models.Report) (*TransitionResult, error) {
	if report.AutoResolveAt.After(s.clock.Now()) {
		return nil, fmt.Errorf("%w: review window still open", ErrInvalidState)
	}
	if report.Bounty.ID == "" {
		loaded, err := s.reports.FindByID(ctx, report.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		if err != nil {
			return nil, err
		}
		report = loaded
	}
	return s.apply(ctx, report, models.ReportStatusApproved, models.SystemActor, models.TransitionSourceAuto)
}

func (s *ReportService) apply(ctx context.Context, report *models.Report, to, actor, source string) (*TransitionResult, error) {
	now := s.clock.Now()

	var intent *models.PayoutIntent
	if to == models.ReportStatusApproved {
		intent = newPayoutIntent(report, &report.Bounty, source, now)
	}

	t := repository.Transition{
		ReportID: report.ID,
		To:       to,
		At:       now,
		Actor:    actor,
		Source:   source,
		Metadata: map[string]any{
			"auto_resolve_at": report.AutoResolveAt.UTC().Format(time.RFC3339),
		},
		Payout: intent,
	}

	var updated *models.Report
	err := retryOnce(ctx, "report.transition", func(int) error {
		var err error
		updated, err = s.reports.Apply(ctx, t)
		return err
	})
	if errors.Is(err, repository.ErrStatusConflict) {
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}

	metrics.Transitions.WithLabelValues(to, source).Inc()
	slog.Info("report status updated",
		"report_id", report.ID.String(),
		"bounty_id", report.BountyID,
		"status", to,
		"source", source,
	)

	if intent != nil {
		metrics.PayoutIntents.WithLabelValues(strconv.FormatBool(intent.Complete)).Inc()
		if !intent.Complete {
			slog.Warn("payout intent incomplete, payout must be handled out of band",
				"report_id", report.ID.String(),
				"bounty_id", report.BountyID,
				"payout_id", intent.ID.String(),
			)
		}
		if err := s.publisher.Publish(ctx, intent); err != nil {
			metrics.PayoutPublishErrors.Inc()
			slog.Error("failed to publish payout intent",
				"report_id", report.ID.String(),
				"bounty_id", report.BountyID,
				"payout_id", intent.ID.String(),
				"error", err,
			)
		}
	}

	updated.Bounty = report.Bounty
	return &TransitionResult{Report: updated, Payout: intent}, nil
}

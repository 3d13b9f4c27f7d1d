package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/bountychain/report-vault/internal/models"
	"github.com/redis/go-redis/v9"
)

// PayoutPublisher delivers payout intents to the payment collaborator.
// Intents are persisted before publishing, so a failed publish loses nothing.
type PayoutPublisher interface {
	Publish(ctx context.Context, intent *models.PayoutIntent) error
}

// LogPublisher writes intents to the structured log.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, intent *models.PayoutIntent) error {
	slog.Info("payout intent emitted",
		"payout_id", intent.ID.String(),
		"report_id", intent.ReportID.String(),
		"bounty_id", intent.BountyID,
		"recipient", intent.Recipient,
		"amount", intent.Amount,
		"source", intent.Source,
		"complete", intent.Complete,
	)
	return nil
}

// RedisStreamPublisher appends intents to a Redis stream.
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
}

func NewRedisStreamPublisher(client *redis.Client, stream string) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, stream: stream}
}

func (p *RedisStreamPublisher) Publish(ctx context.Context, intent *models.PayoutIntent) error {
	objectID := ""
	if intent.BountyObjectID != nil {
		objectID = *intent.BountyObjectID
	}
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"payout_id":        intent.ID.String(),
			"report_id":        intent.ReportID.String(),
			"bounty_id":        intent.BountyID,
			"recipient":        intent.Recipient,
			"amount":           strconv.FormatInt(intent.Amount, 10),
			"bounty_object_id": objectID,
			"source":           intent.Source,
			"complete":         strconv.FormatBool(intent.Complete),
			"created_at":       intent.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
	}).Err()
}

// MultiPublisher fans an intent out to every publisher and joins their errors.
type MultiPublisher []PayoutPublisher

func (m MultiPublisher) Publish(ctx context.Context, intent *models.PayoutIntent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, intent); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// newPayoutIntent builds the intent for an approved report. An intent without
// an on-chain object reference or a positive reward cannot be paid
// automatically and is flagged incomplete.
func newPayoutIntent(report *models.Report, bounty *models.Bounty, source string, now time.Time) *models.PayoutIntent {
	intent := &models.PayoutIntent{
		ReportID:  report.ID,
		BountyID:  report.BountyID,
		Recipient: report.SubmitterWallet,
		Amount:    bounty.RewardAmount,
		Source:    source,
		Status:    models.PayoutStatusPending,
		CreatedAt: now,
	}
	if bounty.BountyObjectID != nil && *bounty.BountyObjectID != "" {
		objectID := *bounty.BountyObjectID
		intent.BountyObjectID = &objectID
	}
	intent.Complete = intent.BountyObjectID != nil && intent.Amount > 0
	return intent
}

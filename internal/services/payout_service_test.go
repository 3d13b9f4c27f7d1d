package services

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/bountychain/report-vault/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayoutSettle(t *testing.T) {
	f := newFixture(t)
	f.seedBounty(t, "b-1")
	report := submit(t, f, "b-1", "body")
	result, err := f.reports.Transition(context.Background(), report.ID, "0xOwnerWallet", models.ReportStatusApproved)
	require.NoError(t, err)

	svc := NewPayoutService(f.db, f.clock)

	pending, err := svc.List(context.Background(), models.PayoutStatusPending, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, result.Payout.ID, pending[0].ID)

	_, err = svc.List(context.Background(), "paid", 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Settle(context.Background(), result.Payout.ID, " ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Settle(context.Background(), uuid.New(), "0xTX")
	assert.ErrorIs(t, err, ErrPayoutNotFound)

	settled, err := svc.Settle(context.Background(), result.Payout.ID, "0xTX")
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusSettled, settled.Status)
	require.NotNil(t, settled.SettledAt)
	assert.True(t, settled.SettledAt.Equal(t0))

	_, err = svc.Settle(context.Background(), result.Payout.ID, "0xOTHER")
	assert.ErrorIs(t, err, ErrPayoutSettled)

	byReport, err := svc.ForReport(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, "0xTX", *byReport.SettlementTx)

	pending, err = svc.List(context.Background(), models.PayoutStatusPending, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRedisStreamPublisher(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	objectID := "0xESCROW"
	intent := &models.PayoutIntent{
		ID:             uuid.New(),
		ReportID:       uuid.New(),
		BountyID:       "b-1",
		Recipient:      "0xHacker",
		Amount:         5 * models.MistPerSui,
		BountyObjectID: &objectID,
		Source:         models.TransitionSourceAuto,
		Complete:       true,
		CreatedAt:      t0,
	}

	pub := NewRedisStreamPublisher(client, "payout-intents")
	require.NoError(t, pub.Publish(context.Background(), intent))

	entries, err := client.XRange(context.Background(), "payout-intents", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	values := entries[0].Values
	assert.Equal(t, intent.ID.String(), values["payout_id"])
	assert.Equal(t, intent.ReportID.String(), values["report_id"])
	assert.Equal(t, "0xHacker", values["recipient"])
	assert.Equal(t, "5000000000", values["amount"])
	assert.Equal(t, "0xESCROW", values["bounty_object_id"])
	assert.Equal(t, "auto", values["source"])
	assert.Equal(t, "true", values["complete"])
}

func TestMultiPublisherJoinsErrors(t *testing.T) {
	first := &recordingPublisher{err: errors.New("first down")}
	second := &recordingPublisher{}
	intent := &models.PayoutIntent{ID: uuid.New()}

	err := MultiPublisher{first, second, LogPublisher{}}.Publish(context.Background(), intent)
	assert.ErrorContains(t, err, "first down")
	assert.Len(t, first.published(), 1)
	assert.Len(t, second.published(), 1)
}

func TestNewPayoutIntentCompleteness(t *testing.T) {
	objectID := "0xESCROW"
	empty := ""
	report := &models.Report{ID: uuid.New(), BountyID: "b-1", SubmitterWallet: "0xHacker"}

	tests := []struct {
		name     string
		bounty   models.Bounty
		complete bool
	}{
		{"complete", models.Bounty{RewardAmount: 10, BountyObjectID: &objectID}, true},
		{"no object", models.Bounty{RewardAmount: 10}, false},
		{"empty object", models.Bounty{RewardAmount: 10, BountyObjectID: &empty}, false},
		{"no reward", models.Bounty{BountyObjectID: &objectID}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := newPayoutIntent(report, &tt.bounty, models.TransitionSourceOwner, t0)
			assert.Equal(t, tt.complete, intent.Complete)
			assert.Equal(t, "0xHacker", intent.Recipient)
			assert.Equal(t, models.PayoutStatusPending, intent.Status)
		})
	}
}

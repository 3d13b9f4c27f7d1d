package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bountychain/report-vault/internal/clock"
	"github.com/bountychain/report-vault/internal/database/dbtest"
	"github.com/bountychain/report-vault/internal/hybrid"
	"github.com/bountychain/report-vault/internal/models"
	"github.com/bountychain/report-vault/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	ownerKeysOnce sync.Once
	ownerKeys     *hybrid.KeyPair
	ownerKeysErr  error
)

func testOwnerKeys(t *testing.T) *hybrid.KeyPair {
	t.Helper()
	ownerKeysOnce.Do(func() {
		ownerKeys, ownerKeysErr = hybrid.GenerateKeyPair()
	})
	require.NoError(t, ownerKeysErr)
	return ownerKeys
}

type recordingPublisher struct {
	mu      sync.Mutex
	intents []*models.PayoutIntent
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, intent *models.PayoutIntent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intents = append(p.intents, intent)
	return p.err
}

func (p *recordingPublisher) published() []*models.PayoutIntent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*models.PayoutIntent(nil), p.intents...)
}

type fixture struct {
	db        *gorm.DB
	clock     *clock.Fake
	publisher *recordingPublisher
	reports   *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	clk := clock.NewFake(t0)
	pub := &recordingPublisher{}
	return &fixture{
		db:        db,
		clock:     clk,
		publisher: pub,
		reports: NewReportService(db, ReportServiceConfig{
			Clock:     clk,
			Publisher: pub,
		}),
	}
}

func (f *fixture) seedBounty(t *testing.T, id string, mutate ...func(*models.Bounty)) *models.Bounty {
	t.Helper()
	objectID := "0xESCROW-" + id
	bounty := &models.Bounty{
		ID:             id,
		Title:          "Audit " + id,
		RewardAmount:   5 * models.MistPerSui,
		OwnerWallet:    "0xOwnerWallet",
		OwnerPublicKey: testOwnerKeys(t).PublicKeyPEM,
		BountyObjectID: &objectID,
		Status:         models.BountyStatusActive,
		CreatedAt:      t0,
		UpdatedAt:      t0,
	}
	for _, m := range mutate {
		m(bounty)
	}
	require.NoError(t, repository.NewBountyRepository(f.db).Create(context.Background(), bounty))
	return bounty
}

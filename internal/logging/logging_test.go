package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/bountychain/report-vault/internal/database/dbtest"
	"github.com/bountychain/report-vault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGHandlerStoresErrorRecords(t *testing.T) {
	db := dbtest.Open(t)
	pg := NewPGHandler(db, time.Hour)

	var stdout bytes.Buffer
	logger := slog.New(NewMultiHandler(NewJSONHandler(&stdout, "production"), pg)).
		With("request_id", "req-1")

	logger.Info("report submitted", "report_id", "r-0")
	logger.Error("auto-approval failed",
		"report_id", "r-1",
		"bounty_id", "b-1",
		"action", "sweep",
		"error", errors.New("disk full"),
		"attempt", 2,
	)
	pg.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	entry := logs[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "auto-approval failed", entry.Message)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "r-1", entry.ReportID)
	assert.Equal(t, "b-1", entry.BountyID)
	assert.Equal(t, "sweep", entry.Action)
	assert.Equal(t, "disk full", entry.Error)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.EqualValues(t, 2, extra["attempt"])

	// both records reach stdout
	assert.Equal(t, 2, bytes.Count(stdout.Bytes(), []byte("\n")))
}

func TestJSONHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, NewJSONHandler(&buf, "development").Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, NewJSONHandler(&buf, "production").Enabled(context.Background(), slog.LevelDebug))
}

func TestCleanupTaskDeletesExpiredLogs(t *testing.T) {
	db := dbtest.Open(t)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&[]models.SystemLog{
		{Timestamp: now.Add(-40 * 24 * time.Hour), Level: "ERROR", Message: "old"},
		{Timestamp: now.Add(-time.Hour), Level: "ERROR", Message: "recent"},
	}).Error)

	task := CleanupTask(db, 30*24*time.Hour, func() time.Time { return now })
	require.NoError(t, task(context.Background()))

	var remaining []models.SystemLog
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "recent", remaining[0].Message)
}

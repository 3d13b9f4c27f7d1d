package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/bountychain/report-vault/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const pgBatchSize = 50

// pgSink is the buffer shared by a PGHandler and the handlers derived from it
// with WithAttrs.
type pgSink struct {
	db       *gorm.DB
	mu       sync.Mutex
	buffer   []models.SystemLog
	ticker   *time.Ticker
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// PGHandler is an slog.Handler that batches ERROR+ logs into system_logs.
// Attributes naming a report, bounty, request or action are stored in their
// own columns; everything else lands in the extra JSON column.
type PGHandler struct {
	sink  *pgSink
	attrs []slog.Attr
}

func NewPGHandler(db *gorm.DB, flushInterval time.Duration) *PGHandler {
	s := &pgSink{
		db:      db,
		buffer:  make([]models.SystemLog, 0, pgBatchSize),
		ticker:  time.NewTicker(flushInterval),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.flushLoop()
	return &PGHandler{sink: s}
}

func (s *pgSink) flushLoop() {
	defer close(s.stopped)
	for {
		select {
		case <-s.ticker.C:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *pgSink) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, pgBatchSize)
	s.mu.Unlock()

	if err := s.db.CreateInBatches(batch, pgBatchSize).Error; err != nil {
		// Not logged through slog: an ERROR here would be routed back to us.
		slog.Warn("failed to flush system logs to DB", "error", err.Error(), "count", len(batch))
	}
}

// Stop flushes what is buffered and waits for the flush loop to exit.
func (h *PGHandler) Stop() {
	h.sink.stopOnce.Do(func() {
		h.sink.ticker.Stop()
		close(h.sink.done)
	})
	<-h.sink.stopped
}

// Enabled only handles ERROR and above.
func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time.UTC(),
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "report_id":
			entry.ReportID = a.Value.String()
		case "bounty_id":
			entry.BountyID = a.Value.String()
		case "action", "job":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		default:
			extra[a.Key] = a.Value.Resolve().Any()
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	h.sink.mu.Lock()
	h.sink.buffer = append(h.sink.buffer, entry)
	needFlush := len(h.sink.buffer) >= pgBatchSize
	h.sink.mu.Unlock()

	if needFlush {
		go h.sink.flush()
	}
	return nil
}

func (h *PGHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &PGHandler{sink: h.sink, attrs: merged}
}

// WithGroup is not supported; grouped attributes are stored flat.
func (h *PGHandler) WithGroup(string) slog.Handler {
	return h
}

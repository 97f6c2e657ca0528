package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"chargepanel/internal/models"
)

// SnapshotSource provides a consistent copy of the data to persist.
type SnapshotSource interface {
	Snapshot() ([]*models.Station, models.BrokerSettings)
}

// Flusher serializes all snapshot writes through one goroutine. It flushes on
// a periodic tick and whenever Kick is called after a mutation; concurrent
// kicks collapse into a single pending flush. Flush errors are logged, never
// surfaced — durability is best-effort.
type Flusher struct {
	source   SnapshotSource
	snapshot *Snapshot
	interval time.Duration
	kick     chan struct{}
	logger   *zap.Logger
}

// NewFlusher builds a flusher.
func NewFlusher(source SnapshotSource, snapshot *Snapshot, interval time.Duration, logger *zap.Logger) *Flusher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Flusher{
		source:   source,
		snapshot: snapshot,
		interval: interval,
		kick:     make(chan struct{}, 1),
		logger:   logger,
	}
}

// Kick requests a flush. Never blocks; a flush already pending absorbs the
// request.
func (f *Flusher) Kick() {
	select {
	case f.kick <- struct{}{}:
	default:
	}
}

// Run loops until the context is cancelled, then performs a final flush.
func (f *Flusher) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.flush()
			return
		case <-ticker.C:
			f.flush()
		case <-f.kick:
			f.flush()
		}
	}
}

func (f *Flusher) flush() {
	stations, settings := f.source.Snapshot()
	doc := &Document{Stations: stations, BrokerSettings: settings}
	if err := f.snapshot.Save(doc); err != nil {
		f.logger.Error("snapshot flush failed", zap.Error(err))
		return
	}
	f.logger.Debug("snapshot flushed", zap.Int("stations", len(stations)))
}

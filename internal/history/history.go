// Package history keeps the bounded, newest-first list of recent checks.
package history

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"spamcheck/internal/codec"
	"spamcheck/internal/domain"
	"spamcheck/internal/storage"
)

const (
	StoreKey     = "recentChecks"
	DefaultLimit = 5
)

type Log struct {
	mu      sync.RWMutex
	store   storage.Store
	codec   codec.Codec
	logger  *zap.Logger
	limit   int
	entries []domain.HistoryEntry
}

// Open loads the persisted log. DefaultLimit is also the cap: limit <= 0 or
// above it uses DefaultLimit. A persisted log longer than limit is cut to its
// newest entries.
func Open(store storage.Store, c codec.Codec, limit int, logger *zap.Logger) *Log {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	h := &Log{store: store, codec: c, logger: logger, limit: limit}

	blob, found, err := store.Load(StoreKey)
	if err != nil {
		logger.Warn("history load failed, starting empty", zap.Error(err))
		return h
	}
	if !found || len(blob) == 0 {
		return h
	}
	var loaded []domain.HistoryEntry
	if err := c.Unmarshal(blob, &loaded); err != nil {
		logger.Warn("history data corrupt, starting empty", zap.String("codec", c.Name()), zap.Error(err))
		return h
	}
	if len(loaded) > limit {
		loaded = loaded[:limit]
	}
	h.entries = loaded
	return h
}

// Append puts e at the front, evicts past the limit and persists the whole
// sequence.
func (h *Log) Append(e domain.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := make([]domain.HistoryEntry, 0, min(len(h.entries)+1, h.limit))
	next = append(next, e)
	next = append(next, h.entries...)
	if len(next) > h.limit {
		next = next[:h.limit]
	}
	h.entries = next

	blob, err := h.codec.Marshal(h.entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := h.store.Save(StoreKey, blob); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// All returns a snapshot, newest first.
func (h *Log) All() []domain.HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]domain.HistoryEntry(nil), h.entries...)
}

func (h *Log) Limit() int {
	return h.limit
}

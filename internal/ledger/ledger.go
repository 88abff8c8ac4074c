// Package ledger keeps community spam/legit report counts per canonical
// number. The whole mapping is persisted after every change.
package ledger

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"spamcheck/internal/codec"
	"spamcheck/internal/domain"
	"spamcheck/internal/storage"
)

// StoreKey is the persistence key of the serialized mapping.
const StoreKey = "reportedNumbers"

type Ledger struct {
	mu      sync.RWMutex
	store   storage.Store
	codec   codec.Codec
	logger  *zap.Logger
	records map[string]domain.ReportRecord
}

// Row is one ledger record with its number, used for rankings.
type Row struct {
	Number string
	domain.ReportRecord
}

// Open loads the persisted mapping. Missing or unreadable data starts an
// empty ledger; it is logged, not returned.
func Open(store storage.Store, c codec.Codec, logger *zap.Logger) *Ledger {
	l := &Ledger{
		store:   store,
		codec:   c,
		logger:  logger,
		records: make(map[string]domain.ReportRecord),
	}

	blob, found, err := store.Load(StoreKey)
	if err != nil {
		logger.Warn("ledger load failed, starting empty", zap.Error(err))
		return l
	}
	if !found || len(blob) == 0 {
		return l
	}
	var loaded map[string]domain.ReportRecord
	if err := c.Unmarshal(blob, &loaded); err != nil {
		logger.Warn("ledger data corrupt, starting empty", zap.String("codec", c.Name()), zap.Error(err))
		return l
	}
	for n, rec := range loaded {
		l.records[n] = domain.ReportRecord{
			SpamReports:  max(rec.SpamReports, 0),
			LegitReports: max(rec.LegitReports, 0),
		}
	}
	logger.Debug("ledger loaded", zap.Int("numbers", len(l.records)))
	return l
}

// Record adds one spam or legit report and persists the whole ledger. The
// in-memory count is kept even when the write fails.
func (l *Ledger) Record(canonical string, asSpam bool) (domain.ReportRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.records[canonical]
	if asSpam {
		rec.SpamReports++
	} else {
		rec.LegitReports++
	}
	l.records[canonical] = rec

	if err := l.saveLocked(); err != nil {
		return rec, err
	}
	return rec, nil
}

func (l *Ledger) Get(canonical string) (domain.ReportRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.records[canonical]
	return rec, ok
}

// Snapshot returns a copy of the whole mapping.
func (l *Ledger) Snapshot() map[string]domain.ReportRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]domain.ReportRecord, len(l.records))
	for k, v := range l.records {
		out[k] = v
	}
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Top ranks numbers by spam reports, then total reports, then number.
// limit <= 0 returns every row.
func (l *Ledger) Top(limit int) []Row {
	l.mu.RLock()
	rows := make([]Row, 0, len(l.records))
	for n, rec := range l.records {
		rows = append(rows, Row{Number: n, ReportRecord: rec})
	}
	l.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SpamReports != rows[j].SpamReports {
			return rows[i].SpamReports > rows[j].SpamReports
		}
		if rows[i].Total() != rows[j].Total() {
			return rows[i].Total() > rows[j].Total()
		}
		return rows[i].Number < rows[j].Number
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func (l *Ledger) saveLocked() error {
	blob, err := l.codec.Marshal(l.records)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := l.store.Save(StoreKey, blob); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// Package checker is the application service behind every surface: it runs
// a check or a report end to end and records the outcome in the history.
package checker

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"spamcheck/internal/classify"
	"spamcheck/internal/directory"
	"spamcheck/internal/domain"
	"spamcheck/internal/history"
	"spamcheck/internal/ledger"
	"spamcheck/internal/phone"
)

// TimestampLayout mirrors the en-US locale string of the browser version.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// ErrEmptyNumber is returned when the input holds no digits at all.
var ErrEmptyNumber = errors.New("please enter a phone number")

// Details is everything known about one number.
type Details struct {
	Canonical string
	Display   string
	Location  string
	AreaCode  string
	IsSpam    bool
	Rule      string
	Known     *domain.DirectoryEntry
	Community *domain.ReportRecord
}

type Outcome struct {
	Details
	Entry domain.HistoryEntry
}

type Options struct {
	SpamReportThreshold int
	Location            *time.Location
	Now                 func() time.Time
}

// Service serialises every check and report. One mutex covers classify,
// record and append so a report and its re-check are never interleaved.
type Service struct {
	mu         sync.Mutex
	dir        *directory.Directory
	ledger     *ledger.Ledger
	history    *history.Log
	classifier *classify.Classifier
	loc        *time.Location
	now        func() time.Time
	logger     *zap.Logger
}

func New(dir *directory.Directory, l *ledger.Ledger, h *history.Log, opts Options, logger *zap.Logger) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		dir:        dir,
		ledger:     l,
		history:    h,
		classifier: classify.New(dir, l, opts.SpamReportThreshold),
		loc:        loc,
		now:        now,
		logger:     logger,
	}
}

// Check classifies raw input and appends the outcome to the history.
func (s *Service) Check(raw string) (Outcome, error) {
	n := phone.Normalize(raw)
	if n == "" {
		return Outcome{}, ErrEmptyNumber
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.checkLocked(raw)
	s.logger.Info("number checked",
		zap.String("number", out.Canonical),
		zap.Bool("spam", out.IsSpam),
		zap.String("rule", out.Rule),
	)
	return out, nil
}

// Report records one community report, then re-checks the number so the
// new count is reflected immediately.
func (s *Service) Report(raw string, asSpam bool) (Outcome, error) {
	n := phone.Normalize(raw)
	if n == "" {
		return Outcome{}, ErrEmptyNumber
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.ledger.Record(n, asSpam)
	if err != nil {
		s.logger.Error("ledger persist failed", zap.String("number", n), zap.Error(err))
	}
	s.logger.Info("number reported",
		zap.String("number", n),
		zap.Bool("as_spam", asSpam),
		zap.Int("spam_reports", rec.SpamReports),
		zap.Int("legit_reports", rec.LegitReports),
	)
	return s.checkLocked(raw), nil
}

// Details describes a number without touching the history.
func (s *Service) Details(raw string) (Details, error) {
	if phone.Normalize(raw) == "" {
		return Details{}, ErrEmptyNumber
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detailsFor(s.classifier.Classify(raw)), nil
}

func (s *Service) Recent() []domain.HistoryEntry {
	return s.history.All()
}

func (s *Service) TopReported(limit int) []ledger.Row {
	return s.ledger.Top(limit)
}

// Explain lists every rule matching raw, in evaluation order.
func (s *Service) Explain(raw string) []string {
	return s.classifier.Explain(phone.Normalize(raw))
}

func (s *Service) checkLocked(raw string) Outcome {
	res := s.classifier.Classify(raw)
	d := s.detailsFor(res)
	entry := domain.HistoryEntry{
		DisplayNumber: d.Display,
		IsSpam:        d.IsSpam,
		Timestamp:     s.now().In(s.loc).Format(TimestampLayout),
		Location:      d.Location,
	}
	if err := s.history.Append(entry); err != nil {
		s.logger.Error("history persist failed", zap.String("number", res.Canonical), zap.Error(err))
	}
	return Outcome{Details: d, Entry: entry}
}

func (s *Service) detailsFor(res classify.Result) Details {
	d := Details{
		Canonical: res.Canonical,
		Display:   phone.FormatDisplay(res.Canonical),
		Location:  res.Location,
		AreaCode:  phone.AreaCode(res.Canonical),
		IsSpam:    res.Verdict,
		Rule:      res.Rule,
	}
	if e, ok := s.dir.Lookup(res.Canonical); ok {
		d.Known = &e
	}
	if rec, ok := s.ledger.Get(res.Canonical); ok {
		d.Community = &rec
	}
	return d
}

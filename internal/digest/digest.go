// Package digest posts a periodic summary of the most reported numbers.
package digest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"spamcheck/internal/config"
	"spamcheck/internal/ledger"
	"spamcheck/internal/phone"
)

type Source interface {
	TopReported(limit int) []ledger.Row
}

type Poster interface {
	Post(channelID, text string) error
}

// ParseSchedule accepts a standard 5-field cron expression
// (minute hour day-of-month month day-of-week), e.g. "0 9 * * 1".
func ParseSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return parser.Parse(strings.TrimSpace(expr))
}

// Run posts the digest on schedule until ctx is cancelled. It returns nil
// right away when no schedule or channel is configured.
func Run(ctx context.Context, cfg config.Config, src Source, poster Poster, logger *zap.Logger) error {
	if !cfg.DigestConfigured() {
		logger.Info("digest disabled (digest_schedule or digest_channel_id not set)")
		return nil
	}
	sched, err := ParseSchedule(cfg.DigestSchedule)
	if err != nil {
		return fmt.Errorf("invalid digest_schedule '%s': %w", cfg.DigestSchedule, err)
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	logger.Info("digest scheduled", zap.String("cron", cfg.DigestSchedule), zap.String("channel", cfg.DigestChannelID))

	for {
		now := time.Now().In(loc)
		next := sched.Next(now)
		wait := next.Sub(now)
		logger.Info("next digest", zap.Time("at", next), zap.Duration("in", wait.Round(time.Minute)))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		if err := Post(cfg, src, poster); err != nil {
			logger.Error("digest post failed", zap.Error(err))
			continue
		}
		logger.Info("digest posted", zap.String("channel", cfg.DigestChannelID))
	}
}

// Post sends one digest immediately.
func Post(cfg config.Config, src Source, poster Poster) error {
	text := Format(src.TopReported(cfg.DigestSize))
	return poster.Post(cfg.DigestChannelID, text)
}

func Format(rows []ledger.Row) string {
	if len(rows) == 0 {
		return "No numbers have been reported yet."
	}
	var sb strings.Builder
	sb.WriteString("*Most reported numbers*\n")
	for i, r := range rows {
		sb.WriteString(fmt.Sprintf("%d. %s: %d spam / %d legit\n",
			i+1, phone.FormatDisplay(r.Number), r.SpamReports, r.LegitReports))
	}
	return strings.TrimRight(sb.String(), "\n")
}

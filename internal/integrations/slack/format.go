package slackbot

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"spamcheck/internal/checker"
	"spamcheck/internal/domain"
)

func formatOutcome(d checker.Details) string {
	var sb strings.Builder
	if d.IsSpam {
		sb.WriteString(fmt.Sprintf(":warning: *%s* is likely a SPAM call!\n", d.Display))
	} else {
		sb.WriteString(fmt.Sprintf(":white_check_mark: *%s* appears legitimate.\n", d.Display))
	}
	sb.WriteString(fmt.Sprintf("- Location: %s\n", d.Location))
	sb.WriteString(fmt.Sprintf("- Area code: %s\n", d.AreaCode))
	if d.Known != nil {
		sb.WriteString(fmt.Sprintf("- Known as: %s\n", d.Known.Category))
		sb.WriteString(fmt.Sprintf("- Reports in database: %d\n", d.Known.KnownReports))
	}
	if d.Community != nil {
		sb.WriteString(fmt.Sprintf("- Community reports: %d spam, %d legitimate\n", d.Community.SpamReports, d.Community.LegitReports))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func outcomeBlocks(text, canonical string) []slack.Block {
	spamBtn := slack.NewButtonBlockElement(
		actionReportSpam,
		canonical,
		slack.NewTextBlockObject(slack.PlainTextType, "Report spam", false, false),
	)
	spamBtn.Style = slack.StyleDanger
	legitBtn := slack.NewButtonBlockElement(
		actionReportLegit,
		canonical,
		slack.NewTextBlockObject(slack.PlainTextType, "Report legit", false, false),
	)
	return []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
			nil, nil,
		),
		slack.NewActionBlock("", spamBtn, legitBtn),
	}
}

func formatRecent(entries []domain.HistoryEntry) string {
	if len(entries) == 0 {
		return "No recent checks."
	}
	var sb strings.Builder
	sb.WriteString("*Recent checks*\n")
	for _, e := range entries {
		tag := "Not Spam"
		if e.IsSpam {
			tag = "SPAM"
		}
		sb.WriteString(fmt.Sprintf("- %s (%s) *%s* _%s_\n", e.DisplayNumber, e.Location, tag, e.Timestamp))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func helpText() string {
	lines := []string{
		"*Spam Check Commands*",
		"",
		"`/spamcheck <number>` - Check whether a number is likely spam.",
		"`/sc` - Alias of `/spamcheck`.",
		"`/reportspam <number>` - Report a number as spam.",
		"`/reportlegit <number>` - Report a number as legitimate.",
		"`/recentchecks` - Show the most recent checks.",
		"`/spamhelp` - Show this help.",
	}
	return strings.Join(lines, "\n")
}

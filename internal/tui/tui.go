// Package tui is the interactive terminal checker.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"spamcheck/internal/checker"
	"spamcheck/internal/domain"
	"spamcheck/internal/phone"
)

// Checker is the part of checker.Service the screen drives.
type Checker interface {
	Check(raw string) (checker.Outcome, error)
	Report(raw string, asSpam bool) (checker.Outcome, error)
	Recent() []domain.HistoryEntry
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	spamStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	legitStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

type model struct {
	svc     Checker
	input   textinput.Model
	outcome *checker.Outcome
	recent  []domain.HistoryEntry
	notice  string
	err     error
}

// New returns a Bubble Tea model around svc.
func New(svc Checker) tea.Model {
	ti := textinput.New()
	ti.Placeholder = "(415) 555-1212"
	ti.Prompt = "Number: "
	ti.CharLimit = len("1 (415) 555-1212")
	ti.Focus()
	return &model{svc: svc, input: ti, recent: svc.Recent()}
}

// Run blocks until the user quits.
func Run(svc Checker, out io.Writer) error {
	_, err := tea.NewProgram(New(svc), tea.WithOutput(out)).Run()
	return err
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.check()
			return m, nil
		case "ctrl+s":
			m.report(true)
			return m, nil
		case "ctrl+l":
			m.report(false)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if masked := phone.MaskInput(m.input.Value()); masked != m.input.Value() {
		m.input.SetValue(masked)
		m.input.CursorEnd()
	}
	return m, cmd
}

func (m *model) check() {
	out, err := m.svc.Check(m.input.Value())
	m.apply(out, err, "")
}

func (m *model) report(asSpam bool) {
	out, err := m.svc.Report(m.input.Value(), asSpam)
	notice := "Thank you for reporting this number as legitimate!"
	if asSpam {
		notice = "Thank you for reporting this number as spam!"
	}
	m.apply(out, err, notice)
}

func (m *model) apply(out checker.Outcome, err error, notice string) {
	m.err = err
	m.notice = ""
	if err != nil {
		return
	}
	m.outcome = &out
	m.notice = notice
	m.recent = m.svc.Recent()
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Spam Call Checker"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(errorText(m.err)))
		b.WriteString("\n\n")
	}
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n\n")
	}
	if m.outcome != nil {
		b.WriteString(renderDetails(m.outcome.Details))
		b.WriteString("\n")
	}

	b.WriteString(titleStyle.Render("Recent checks"))
	b.WriteString("\n")
	b.WriteString(renderRecent(m.recent))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("enter: check  ctrl+s: report spam  ctrl+l: report legit  esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func errorText(err error) string {
	if errors.Is(err, checker.ErrEmptyNumber) {
		return "Please enter a phone number."
	}
	return fmt.Sprintf("Error: %v", err)
}

func renderDetails(d checker.Details) string {
	var b strings.Builder
	if d.IsSpam {
		b.WriteString(spamStyle.Render("This number is likely a SPAM call!"))
	} else {
		b.WriteString(legitStyle.Render("This number appears to be legitimate."))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Number:    %s\n", d.Display)
	fmt.Fprintf(&b, "  Location:  %s\n", d.Location)
	fmt.Fprintf(&b, "  Area code: %s\n", d.AreaCode)
	if d.Known != nil {
		fmt.Fprintf(&b, "  Known as:  %s\n", d.Known.Category)
		fmt.Fprintf(&b, "  Reports in database: %d\n", d.Known.KnownReports)
	}
	if d.Community != nil {
		fmt.Fprintf(&b, "  Community reports: %d spam, %d legitimate\n", d.Community.SpamReports, d.Community.LegitReports)
	}
	return b.String()
}

func renderRecent(entries []domain.HistoryEntry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("  No recent checks") + "\n"
	}
	var b strings.Builder
	for _, e := range entries {
		tag := legitStyle.Render("Not Spam")
		if e.IsSpam {
			tag = spamStyle.Render("SPAM")
		}
		fmt.Fprintf(&b, "  %-18s %-22s %s  %s\n", e.DisplayNumber, e.Location, tag, mutedStyle.Render(e.Timestamp))
	}
	return b.String()
}

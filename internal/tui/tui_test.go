package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"spamcheck/internal/checker"
	"spamcheck/internal/codec"
	"spamcheck/internal/directory"
	"spamcheck/internal/history"
	"spamcheck/internal/ledger"
	"spamcheck/internal/storage/memory"
)

func newModel(t *testing.T) *model {
	t.Helper()
	store := memory.New()
	svc := checker.New(
		directory.Builtin(),
		ledger.Open(store, codec.JSON(), zap.NewNop()),
		history.Open(store, codec.JSON(), history.DefaultLimit, zap.NewNop()),
		checker.Options{Location: time.UTC},
		zap.NewNop(),
	)
	return New(svc).(*model)
}

func typeText(m *model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestInputIsMaskedWhileTyping(t *testing.T) {
	m := newModel(t)

	typeText(m, "415555")
	if got := m.input.Value(); got != "(415) 555" {
		t.Fatalf("partial mask = %q", got)
	}
	typeText(m, "12129999")
	if got := m.input.Value(); got != "(415) 555-1212" {
		t.Fatalf("full mask = %q", got)
	}
}

func TestEnterChecksNumber(t *testing.T) {
	m := newModel(t)

	typeText(m, "4155551212")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if m.outcome == nil || !m.outcome.IsSpam || m.outcome.Location != "San Francisco, CA" {
		t.Fatalf("unexpected outcome: %+v", m.outcome)
	}
	if len(m.recent) != 1 || m.recent[0].DisplayNumber != "(415) 555-1212" {
		t.Fatalf("recent not refreshed: %+v", m.recent)
	}
	if !strings.Contains(m.View(), "likely a SPAM call") {
		t.Fatalf("view missing verdict:\n%s", m.View())
	}
}

func TestEnterWithoutNumberShowsError(t *testing.T) {
	m := newModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.err != checker.ErrEmptyNumber {
		t.Fatalf("expected ErrEmptyNumber, got %v", m.err)
	}
	if !strings.Contains(m.View(), "Please enter a phone number.") {
		t.Fatalf("view missing error:\n%s", m.View())
	}
}

func TestReportKeysFlipVerdict(t *testing.T) {
	m := newModel(t)

	typeText(m, "0123456789")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.outcome.IsSpam {
		t.Fatal("expected legit before reports")
	}

	for i := 1; i <= 2; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
		if m.outcome.IsSpam {
			t.Fatalf("%d spam reports should not flip the verdict", i)
		}
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.outcome.IsSpam {
		t.Fatal("three spam reports should flip the verdict")
	}
	if m.notice != "Thank you for reporting this number as spam!" {
		t.Fatalf("unexpected notice %q", m.notice)
	}
	if m.outcome.Community == nil || m.outcome.Community.SpamReports != 3 {
		t.Fatalf("unexpected community record: %+v", m.outcome.Community)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.outcome.Community.LegitReports != 1 {
		t.Fatalf("legit report not recorded: %+v", m.outcome.Community)
	}
}

func TestQuitKeys(t *testing.T) {
	m := newModel(t)

	for _, key := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", key.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: expected tea.QuitMsg", key.String())
		}
	}
}

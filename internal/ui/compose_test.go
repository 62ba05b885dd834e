package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/relicta-tech/commitkit/internal/domain/commit"
)

func send(t *testing.T, m ComposeModel, msgs ...tea.Msg) (ComposeModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var updated tea.Model
		updated, cmd = m.Update(msg)
		var ok bool
		m, ok = updated.(ComposeModel)
		if !ok {
			t.Fatalf("Update returned %T", updated)
		}
	}
	return m, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
	keyUp       = tea.KeyMsg{Type: tea.KeyUp}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestComposeModel_Accept(t *testing.T) {
	m := NewComposeModel(commit.DefaultPolicy())

	m, _ = send(t, m,
		keyDown, keyEnter, // fix
		keyRunes("api"), keyEnter,
		keyRunes("handle nil input"), keyEnter,
		keyEnter, // no body
		keyEnter, // not breaking
	)
	if m.step != stepConfirm {
		t.Fatalf("step = %d, want confirm", m.step)
	}

	m, cmd := send(t, m, keyEnter)
	if m.Result() != ComposeAccepted {
		t.Errorf("Result = %v, want %v", m.Result(), ComposeAccepted)
	}
	if cmd == nil {
		t.Error("expected quit command after accepting")
	}
	if got, want := m.Message(), "fix(api): handle nil input"; got != want {
		t.Errorf("Message = %q, want %q", got, want)
	}
}

func TestComposeModel_BreakingAndBody(t *testing.T) {
	m := NewComposeModel(commit.DefaultPolicy())

	m, _ = send(t, m,
		keyEnter, // feat
		keyEnter, // no scope
		keyRunes("drop legacy tokens"), keyEnter,
		keyRunes("Tokens older than v2 are rejected."), keyEnter,
		keyRunes("clients must re-authenticate"), keyEnter,
	)

	want := "feat!: drop legacy tokens\n\nTokens older than v2 are rejected.\n\nBREAKING CHANGE: clients must re-authenticate"
	if got := m.Message(); got != want {
		t.Errorf("Message = %q, want %q", got, want)
	}
	if !m.Validation().Valid() || len(m.Validation().Violations) != 0 {
		t.Errorf("Validation = %+v", m.Validation())
	}
}

func TestComposeModel_InvalidCannotBeAccepted(t *testing.T) {
	m := NewComposeModel(commit.DefaultPolicy())

	m, _ = send(t, m,
		keyEnter,
		keyRunes("Web UI"), keyEnter,
		keyRunes("add dark mode"), keyEnter,
		keyEnter, keyEnter,
	)
	m, cmd := send(t, m, keyEnter)

	if m.Result() != ComposePending {
		t.Errorf("Result = %v, want pending", m.Result())
	}
	if cmd != nil {
		t.Error("unexpected command for an invalid message")
	}
	if m.Message() != "" {
		t.Errorf("Message = %q, want empty", m.Message())
	}
	if !m.Validation().Has(commit.RuleInvalidScope) {
		t.Errorf("Validation = %+v, want INVALID_SCOPE", m.Validation())
	}
	if !strings.Contains(m.View(), "✗") {
		t.Error("view does not show the violation")
	}
}

func TestComposeModel_Policy(t *testing.T) {
	m := NewComposeModel(commit.Policy{RequireScope: true})

	m, _ = send(t, m, keyEnter, keyEnter, keyRunes("add dark mode"), keyEnter, keyEnter, keyEnter)
	if !m.Validation().Has(commit.RuleMissingScope) {
		t.Errorf("Validation = %+v, want MISSING_SCOPE", m.Validation())
	}
}

func TestComposeModel_Navigation(t *testing.T) {
	m := NewComposeModel(commit.DefaultPolicy())

	m, _ = send(t, m, keyUp)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	m, _ = send(t, m, keyDown, keyDown, keyRunes("j"))
	if got := m.Request().Type; got != "style" {
		t.Errorf("Type = %q, want style", got)
	}
	for range len(commit.AllTypes()) {
		m, _ = send(t, m, keyDown)
	}
	if got := m.Request().Type; got != "revert" {
		t.Errorf("Type = %q, want revert", got)
	}

	m, _ = send(t, m, keyEnter, keyRunes("ci"), keyShiftTab)
	if m.step != stepType {
		t.Errorf("step = %d, want type", m.step)
	}
	if got := m.Request().Scope; got != "ci" {
		t.Errorf("Scope = %q, want ci after going back", got)
	}

	// j is text once the type has been chosen.
	m, _ = send(t, m, keyEnter, keyRunes("j"))
	if got := m.Request().Scope; got != "cij" {
		t.Errorf("Scope = %q, want cij", got)
	}
}

func TestComposeModel_Cancel(t *testing.T) {
	m := NewComposeModel(commit.DefaultPolicy())

	m, cmd := send(t, m, keyEnter, keyEsc)
	if m.Result() != ComposeCanceled {
		t.Errorf("Result = %v, want canceled", m.Result())
	}
	if cmd == nil {
		t.Error("expected quit command on cancel")
	}
}

func TestComposeModel_View(t *testing.T) {
	m := NewComposeModel(commit.DefaultPolicy())
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})

	view := m.View()
	for _, want := range []string{"Compose a Conventional Commit", "Select the type of change", "feat", "revert", "(incomplete)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "required") {
		t.Error("missing fields should not be reported before confirm")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyF1})
	if !strings.Contains(m.View(), "shift+tab back") {
		t.Error("help view missing bindings")
	}

	m, _ = send(t, m, keyEnter, keyRunes("api"), keyEnter)
	view = m.View()
	if !strings.Contains(view, "Scope") || !strings.Contains(view, "api") {
		t.Error("view does not summarize entered fields")
	}
	if !strings.Contains(view, "Short description") {
		t.Error("view missing description prompt")
	}
}

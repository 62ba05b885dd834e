// Package ui provides terminal user interface components for commitkit.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/relicta-tech/commitkit/internal/domain/commit"
	ckerrors "github.com/relicta-tech/commitkit/internal/errors"
)

// ComposeResult represents the outcome of a compose session.
type ComposeResult int

const (
	// ComposePending means the user has not finished yet.
	ComposePending ComposeResult = iota
	// ComposeAccepted means the user confirmed a valid message.
	ComposeAccepted
	// ComposeCanceled means the user left without a message.
	ComposeCanceled
)

type composeStep int

const (
	stepType composeStep = iota
	stepScope
	stepDescription
	stepBody
	stepBreaking
	stepConfirm
)

func (s composeStep) hasInput() bool {
	return s > stepType && s < stepConfirm
}

var stepPrompts = map[composeStep]string{
	stepType:        "Select the type of change",
	stepScope:       "Scope (optional)",
	stepDescription: "Short description",
	stepBody:        "Longer body (optional)",
	stepBreaking:    "Breaking change note (leave empty if none)",
	stepConfirm:     "Review the message",
}

// ComposeModel is the Bubble Tea model for the interactive commit composer.
type ComposeModel struct {
	policy     commit.Policy
	types      []commit.TypeInfo
	cursor     int
	step       composeStep
	inputs     [stepConfirm]textinput.Model
	result     ComposeResult
	message    string
	validation commit.ValidationResult
	showHelp   bool
	width      int
	keymap     composeKeyMap
	styles     composeStyles
}

type composeKeyMap struct {
	Next   key.Binding
	Back   key.Binding
	Up     key.Binding
	Down   key.Binding
	Help   key.Binding
	Cancel key.Binding
}

type composeStyles struct {
	title   lipgloss.Style
	prompt  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	cursor  lipgloss.Style
	subtle  lipgloss.Style
	success lipgloss.Style
	error   lipgloss.Style
	warning lipgloss.Style
	preview lipgloss.Style
	help    lipgloss.Style
}

func defaultComposeKeyMap() composeKeyMap {
	return composeKeyMap{
		Next: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "next / confirm"),
		),
		Back: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("k/up", "previous type"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("j/down", "next type"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

func defaultComposeStyles() composeStyles {
	return composeStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1),
		prompt:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(14),
		value:   lipgloss.NewStyle().Bold(true),
		cursor:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		subtle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		preview: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1),
	}
}

// NewComposeModel creates a composer that validates against policy.
func NewComposeModel(policy commit.Policy) ComposeModel {
	var inputs [stepConfirm]textinput.Model
	placeholders := map[composeStep]string{
		stepScope:       "api",
		stepDescription: "add token refresh",
		stepBody:        "explain what and why",
		stepBreaking:    "clients must re-authenticate",
	}
	for s := stepScope; s < stepConfirm; s++ {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = placeholders[s]
		ti.Width = 60
		inputs[s] = ti
	}

	m := ComposeModel{
		policy: policy,
		types:  commit.ListTypes(),
		step:   stepType,
		inputs: inputs,
		keymap: defaultComposeKeyMap(),
		styles: defaultComposeStyles(),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m ComposeModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ComposeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for s := stepScope; s < stepConfirm; s++ {
			m.inputs[s].Width = max(msg.Width-6, 10)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Cancel):
			m.result = ComposeCanceled
			return m, tea.Quit

		case key.Matches(msg, m.keymap.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keymap.Next):
			return m.next()

		case key.Matches(msg, m.keymap.Back):
			return m.back()

		case m.step == stepType && key.Matches(msg, m.keymap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			m.refresh()
			return m, nil

		case m.step == stepType && key.Matches(msg, m.keymap.Down):
			if m.cursor < len(m.types)-1 {
				m.cursor++
			}
			m.refresh()
			return m, nil
		}
	}

	if !m.step.hasInput() {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.step], cmd = m.inputs[m.step].Update(msg)
	m.refresh()
	return m, cmd
}

func (m ComposeModel) next() (tea.Model, tea.Cmd) {
	if m.step == stepConfirm {
		if !m.validation.Valid() {
			return m, nil
		}
		m.result = ComposeAccepted
		return m, tea.Quit
	}
	return m.moveTo(m.step + 1)
}

func (m ComposeModel) back() (tea.Model, tea.Cmd) {
	if m.step == stepType {
		return m, nil
	}
	return m.moveTo(m.step - 1)
}

func (m ComposeModel) moveTo(step composeStep) (tea.Model, tea.Cmd) {
	if m.step.hasInput() {
		m.inputs[m.step].Blur()
	}
	m.step = step

	var cmd tea.Cmd
	if m.step.hasInput() {
		cmd = m.inputs[m.step].Focus()
	}
	m.refresh()
	return m, cmd
}

// refresh rebuilds the candidate message and its validation.
func (m *ComposeModel) refresh() {
	m.message, m.validation = commit.ConstructWithPolicy(m.Request(), m.policy)
}

// Request returns the request assembled from the current inputs.
func (m ComposeModel) Request() commit.Request {
	req := commit.Request{
		Scope:       m.inputs[stepScope].Value(),
		Description: m.inputs[stepDescription].Value(),
	}
	if len(m.types) > 0 {
		req.Type = m.types[m.cursor].Name
	}
	if body := strings.TrimSpace(m.inputs[stepBody].Value()); body != "" {
		req.Body = []string{body}
	}
	if note := strings.TrimSpace(m.inputs[stepBreaking].Value()); note != "" {
		req.Breaking = true
		req.Footers = []commit.Footer{{Token: "BREAKING CHANGE", Value: note}}
	}
	return req
}

// Result returns the outcome of the session.
func (m ComposeModel) Result() ComposeResult {
	return m.result
}

// Message returns the rendered message. It is empty while the current
// inputs do not form a valid message.
func (m ComposeModel) Message() string {
	return m.message
}

// Validation returns the validation of the current inputs.
func (m ComposeModel) Validation() commit.ValidationResult {
	return m.validation
}

// View implements tea.Model.
func (m ComposeModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Compose a Conventional Commit"))
	b.WriteString("\n\n")

	b.WriteString(m.renderFields())
	b.WriteString("\n")

	b.WriteString(m.styles.prompt.Render(stepPrompts[m.step]))
	b.WriteString("\n")
	switch m.step {
	case stepType:
		b.WriteString(m.renderTypeList())
	case stepConfirm:
		b.WriteString(m.styles.subtle.Render("Press enter to accept, shift+tab to go back"))
		b.WriteString("\n")
	default:
		b.WriteString(m.inputs[m.step].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderPreview())
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(m.renderHelp())
	} else {
		b.WriteString(m.styles.help.Render("enter next • shift+tab back • esc cancel • f1 help"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m ComposeModel) renderFields() string {
	req := m.Request()
	rows := []struct {
		label string
		value string
		step  composeStep
	}{
		{"Type", req.Type, stepType},
		{"Scope", req.Scope, stepScope},
		{"Description", req.Description, stepDescription},
	}

	var b strings.Builder
	for _, row := range rows {
		if row.step >= m.step {
			continue
		}
		value := row.value
		if value == "" {
			value = m.styles.subtle.Render("(none)")
		} else {
			value = m.styles.value.Render(value)
		}
		b.WriteString(m.styles.label.Render(row.label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	return b.String()
}

func (m ComposeModel) renderTypeList() string {
	var b strings.Builder
	for i, info := range m.types {
		line := fmt.Sprintf("%-9s %s", info.Name, info.Description)
		if i == m.cursor {
			b.WriteString(m.styles.cursor.Render("▸ " + line))
		} else {
			b.WriteString("  " + m.styles.subtle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m ComposeModel) renderPreview() string {
	var b strings.Builder

	body := m.message
	if body == "" {
		body = m.styles.subtle.Render("(incomplete)")
	}
	b.WriteString(m.styles.preview.Render(body))
	b.WriteString("\n")

	// Missing fields are only reported from the confirm step on.
	for _, v := range m.validation.Violations {
		if m.step < stepConfirm && v.Rule == commit.RuleMissingField {
			continue
		}
		switch v.Severity {
		case commit.SeverityError:
			b.WriteString(m.styles.error.Render("✗ " + v.Message))
		default:
			b.WriteString(m.styles.warning.Render("⚠ " + v.Message))
		}
		b.WriteString("\n")
	}
	if m.message != "" && len(m.validation.Violations) == 0 {
		b.WriteString(m.styles.success.Render("✓ valid"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ComposeModel) renderHelp() string {
	bindings := []key.Binding{m.keymap.Next, m.keymap.Back, m.keymap.Up, m.keymap.Down, m.keymap.Cancel, m.keymap.Help}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.help.Render(strings.Join(parts, " • "))
}

// RunComposeTUI runs the composer and returns the accepted message.
func RunComposeTUI(policy commit.Policy) (string, ComposeResult, error) {
	p := tea.NewProgram(NewComposeModel(policy))

	finalModel, err := p.Run()
	if err != nil {
		return "", ComposeCanceled, fmt.Errorf("TUI error: %w", err)
	}

	model, ok := finalModel.(ComposeModel)
	if !ok {
		return "", ComposeCanceled, ckerrors.Internal("ui.RunComposeTUI", fmt.Sprintf("unexpected model type %T returned from TUI", finalModel))
	}
	if model.Result() != ComposeAccepted {
		return "", model.Result(), nil
	}
	return model.Message(), ComposeAccepted, nil
}

package commit

import (
	"encoding/json"
	"strings"
)

// Footer is a trailer line of the form "Token: value" or "Token #value".
type Footer struct {
	Token string `json:"token"`
	Value string `json:"value"`
}

// IsBreaking reports whether the footer declares a breaking change.
// The match is case-sensitive.
func (f Footer) IsBreaking() bool {
	return f.Token == "BREAKING CHANGE" || f.Token == "BREAKING-CHANGE"
}

// String renders the footer in "Token: value" form.
func (f Footer) String() string {
	return f.Token + ": " + f.Value
}

// Message is a parsed or constructed conventional commit message.
// It is immutable once built.
type Message struct {
	// Header components
	commitType     Type
	scope          string
	hasScope       bool
	breakingMarker bool
	description    string
	headerRaw      string

	// Body components
	body    []string
	footers []Footer

	// Number of blank lines between the header and the first body or
	// footer line; zero when there is neither.
	blankLinesAfterHeader int
}

// Type returns the commit type exactly as written.
func (m *Message) Type() Type {
	return m.commitType
}

// Scope returns the scope, or "" when absent.
func (m *Message) Scope() string {
	return m.scope
}

// HasScope reports whether the header carried a scope.
func (m *Message) HasScope() bool {
	return m.hasScope
}

// BreakingMarker reports whether the header carried "!".
func (m *Message) BreakingMarker() bool {
	return m.breakingMarker
}

// Description returns the header text after ": ".
func (m *Message) Description() string {
	return m.description
}

// Body returns the body paragraphs in order.
func (m *Message) Body() []string {
	return append([]string(nil), m.body...)
}

// Footers returns the footers in declaration order.
func (m *Message) Footers() []Footer {
	return append([]Footer(nil), m.footers...)
}

// HasContent reports whether the message has a body or footers.
func (m *Message) HasContent() bool {
	return len(m.body) > 0 || len(m.footers) > 0
}

// HeaderRaw returns the first line as it appeared in the input.
func (m *Message) HeaderRaw() string {
	return m.headerRaw
}

// Header rebuilds the canonical header from the parsed fields.
func (m *Message) Header() string {
	var sb strings.Builder
	sb.Grow(len(m.commitType) + len(m.scope) + len(m.description) + 5)
	sb.WriteString(string(m.commitType))
	if m.hasScope {
		sb.WriteByte('(')
		sb.WriteString(m.scope)
		sb.WriteByte(')')
	}
	if m.breakingMarker {
		sb.WriteByte('!')
	}
	sb.WriteString(": ")
	sb.WriteString(m.description)
	return sb.String()
}

// HasBreakingFooter reports whether any footer declares a breaking change.
func (m *Message) HasBreakingFooter() bool {
	for _, f := range m.footers {
		if f.IsBreaking() {
			return true
		}
	}
	return false
}

// IsBreaking reports whether the message carries the "!" marker or a
// breaking footer.
func (m *Message) IsBreaking() bool {
	return m.breakingMarker || m.HasBreakingFooter()
}

// BreakingNote returns the value of the first breaking footer, if any.
func (m *Message) BreakingNote() string {
	for _, f := range m.footers {
		if f.IsBreaking() {
			return f.Value
		}
	}
	return ""
}

// SeparatedByBlankLine reports whether exactly one blank line separates the
// header from the body or footers. Messages without either are trivially
// separated.
func (m *Message) SeparatedByBlankLine() bool {
	if !m.HasContent() {
		return true
	}
	return m.blankLinesAfterHeader == 1
}

// ReleaseType returns the semantic version impact of the message.
func (m *Message) ReleaseType() ReleaseType {
	return ReleaseTypeFor(m.commitType, m.IsBreaking())
}

// String renders the message in canonical form.
func (m *Message) String() string {
	return render(m)
}

// MarshalJSON encodes the structured view of the message.
func (m *Message) MarshalJSON() ([]byte, error) {
	footers := m.footers
	if footers == nil {
		footers = []Footer{}
	}
	body := m.body
	if body == nil {
		body = []string{}
	}
	return json.Marshal(struct {
		Type         string   `json:"type"`
		Scope        string   `json:"scope,omitempty"`
		Breaking     bool     `json:"breaking"`
		Marker       bool     `json:"breaking_marker"`
		BreakingNote string   `json:"breaking_note,omitempty"`
		Description  string   `json:"description"`
		Header       string   `json:"header"`
		Body         []string `json:"body"`
		Footers      []Footer `json:"footers"`
		ReleaseType  string   `json:"release_type"`
	}{
		Type:         m.commitType.String(),
		Scope:        m.scope,
		Breaking:     m.IsBreaking(),
		Marker:       m.breakingMarker,
		BreakingNote: m.BreakingNote(),
		Description:  m.description,
		Header:       m.headerRaw,
		Body:         body,
		Footers:      footers,
		ReleaseType:  m.ReleaseType().String(),
	})
}

// render writes the canonical text: header, blank line, paragraphs joined by
// blank lines, blank line, one footer per line.
func render(m *Message) string {
	var sb strings.Builder
	sb.WriteString(m.Header())

	if len(m.body) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(strings.Join(m.body, "\n\n"))
	}

	if len(m.footers) > 0 {
		sb.WriteString("\n\n")
		for i, f := range m.footers {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(f.String())
		}
	}

	return sb.String()
}

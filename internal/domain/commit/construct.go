package commit

import "strings"

// Request holds the parts of a message to construct.
type Request struct {
	Type        string   `json:"type"`
	Scope       string   `json:"scope,omitempty"`
	Description string   `json:"description"`
	Body        []string `json:"body,omitempty"`
	Footers     []Footer `json:"footers,omitempty"`
	Breaking    bool     `json:"breaking,omitempty"`
}

// Construct builds canonical message text with the default policy.
func Construct(req Request) (string, ValidationResult) {
	return ConstructWithPolicy(req, DefaultPolicy())
}

// ConstructWithPolicy builds canonical message text from req. The text is
// non-empty iff the returned result is valid; warnings are returned
// alongside the text. A breaking request without a breaking footer is
// rendered as requested and reported with BREAKING_WITHOUT_FOOTER.
func ConstructWithPolicy(req Request, p Policy) (string, ValidationResult) {
	if missing := missingFields(req); len(missing) > 0 {
		return "", ValidationResult{Violations: missing}
	}

	msg := fromRequest(req)
	result := ValidateWithPolicy(msg, p)
	if !result.Valid() {
		return "", result
	}
	return render(msg), result
}

func missingFields(req Request) []Violation {
	var out []Violation
	if strings.TrimSpace(req.Type) == "" {
		out = append(out, violation(SeverityError, RuleMissingField, "type is required"))
	}
	if strings.TrimSpace(req.Description) == "" {
		out = append(out, violation(SeverityError, RuleMissingField, "description is required"))
	}
	return out
}

func fromRequest(req Request) *Message {
	scope := strings.TrimSpace(req.Scope)
	m := &Message{
		commitType:     Type(strings.TrimSpace(req.Type)),
		scope:          scope,
		hasScope:       scope != "",
		breakingMarker: req.Breaking,
		description:    strings.TrimSpace(req.Description),
	}

	for _, para := range req.Body {
		para = strings.Trim(strings.ReplaceAll(para, "\r\n", "\n"), "\n")
		if strings.TrimSpace(para) != "" {
			m.body = append(m.body, para)
		}
	}
	for _, f := range req.Footers {
		m.footers = append(m.footers, Footer{
			Token: strings.TrimSpace(f.Token),
			Value: strings.TrimSpace(f.Value),
		})
	}

	m.headerRaw = m.Header()
	if m.HasContent() {
		m.blankLinesAfterHeader = 1
	}
	return m
}

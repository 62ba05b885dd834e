package commit

import (
	"reflect"
	"strings"
	"testing"
)

func TestConstruct(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		wantText  string
		wantRules []RuleID
	}{
		{
			name:     "header only",
			req:      Request{Type: "feat", Description: "add login"},
			wantText: "feat: add login",
		},
		{
			name:     "scope and body",
			req:      Request{Type: "fix", Scope: "parser", Description: "handle empty input", Body: []string{"First paragraph.", "Second paragraph."}},
			wantText: "fix(parser): handle empty input\n\nFirst paragraph.\n\nSecond paragraph.",
		},
		{
			name: "footers in declaration order",
			req: Request{
				Type:        "fix",
				Description: "correct rounding",
				Footers:     []Footer{{Token: "Reviewed-by", Value: "Z"}, {Token: "Refs", Value: "#133"}},
			},
			wantText: "fix: correct rounding\n\nReviewed-by: Z\nRefs: #133",
		},
		{
			name: "breaking with footer",
			req: Request{
				Type:        "feat",
				Scope:       "api",
				Description: "drop v1 endpoints",
				Body:        []string{"The v1 API is gone."},
				Footers:     []Footer{{Token: "BREAKING CHANGE", Value: "clients must use /v2"}},
				Breaking:    true,
			},
			wantText: "feat(api)!: drop v1 endpoints\n\nThe v1 API is gone.\n\nBREAKING CHANGE: clients must use /v2",
		},
		{
			name:      "breaking without footer returns text and warning",
			req:       Request{Type: "feat", Description: "drop node 14", Breaking: true},
			wantText:  "feat!: drop node 14",
			wantRules: []RuleID{RuleBreakingWithoutFooter},
		},
		{
			name:     "whitespace trimmed and empty paragraphs dropped",
			req:      Request{Type: " docs ", Scope: " ", Description: "  update readme ", Body: []string{"", "  ", "text"}},
			wantText: "docs: update readme\n\ntext",
		},
		{
			name:      "long description warning keeps text",
			req:       Request{Type: "docs", Description: strings.Repeat("a", 55)},
			wantText:  "docs: " + strings.Repeat("a", 55),
			wantRules: []RuleID{RuleDescriptionTooLong},
		},
		{
			name:      "missing type and description",
			req:       Request{Scope: "api"},
			wantRules: []RuleID{RuleMissingField, RuleMissingField},
		},
		{
			name:      "missing description only",
			req:       Request{Type: "feat", Description: "   "},
			wantRules: []RuleID{RuleMissingField},
		},
		{
			name:      "unknown type",
			req:       Request{Type: "feature", Description: "add login"},
			wantRules: []RuleID{RuleUnknownType},
		},
		{
			name:      "invalid scope",
			req:       Request{Type: "feat", Scope: "Core API", Description: "add login"},
			wantRules: []RuleID{RuleInvalidScope},
		},
		{
			name:      "invalid footer token",
			req:       Request{Type: "feat", Description: "add login", Footers: []Footer{{Token: "Closes issue", Value: "4"}}},
			wantRules: []RuleID{RuleInvalidFooter},
		},
		{
			name:      "body paragraph that reads as a breaking footer",
			req:       Request{Type: "feat", Description: "add login", Body: []string{"BREAKING CHANGE: not really"}},
			wantRules: []RuleID{RuleInvalidFormat},
		},
		{
			name:      "body paragraph that reads as a footer before prose",
			req:       Request{Type: "feat", Description: "add login", Body: []string{"Refs: 1", "prose"}},
			wantRules: []RuleID{RuleInvalidFormat},
		},
		{
			name:      "footer line after a blank line inside a paragraph",
			req:       Request{Type: "feat", Description: "add login", Body: []string{"Intro.\n\nCloses #4"}},
			wantRules: []RuleID{RuleInvalidFormat},
		},
		{
			name:     "footer-like line inside a paragraph stays prose",
			req:      Request{Type: "feat", Description: "add login", Body: []string{"See the notes.\nRefs: 1 is prose here"}},
			wantText: "feat: add login\n\nSee the notes.\nRefs: 1 is prose here",
		},
		{
			name:      "footer value continuing with a breaking footer",
			req:       Request{Type: "feat", Description: "add login", Footers: []Footer{{Token: "Refs", Value: "1\nBREAKING CHANGE: y"}}},
			wantRules: []RuleID{RuleInvalidFooter},
		},
		{
			name:      "footer value with only a hash",
			req:       Request{Type: "fix", Description: "close leak", Footers: []Footer{{Token: "Closes", Value: "#"}}},
			wantRules: []RuleID{RuleInvalidFooter},
		},
		{
			name:     "multi-line footer value",
			req:      Request{Type: "fix", Description: "close leak", Footers: []Footer{{Token: "Refs", Value: "1\nand the follow-up"}}},
			wantText: "fix: close leak\n\nRefs: 1\nand the follow-up",
		},
		{
			name:      "multi-line description",
			req:       Request{Type: "feat", Description: "add\nlogin"},
			wantRules: []RuleID{RuleInvalidFormat},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, result := Construct(tt.req)
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if !reflect.DeepEqual(ruleIDs(result), tt.wantRules) {
				t.Errorf("rules = %v, want %v", ruleIDs(result), tt.wantRules)
			}
			if (text != "") != result.Valid() {
				t.Errorf("text presence %v disagrees with Valid() %v", text != "", result.Valid())
			}
		})
	}
}

func TestConstruct_MissingFieldOrder(t *testing.T) {
	_, result := Construct(Request{})
	if len(result.Violations) != 2 {
		t.Fatalf("violations = %v, want 2", result.Violations)
	}
	if !strings.HasPrefix(result.Violations[0].Message, "type") {
		t.Errorf("first violation = %q, want type first", result.Violations[0].Message)
	}
	if !strings.HasPrefix(result.Violations[1].Message, "description") {
		t.Errorf("second violation = %q, want description second", result.Violations[1].Message)
	}
}

func TestConstruct_RoundTrip(t *testing.T) {
	reqs := []Request{
		{Type: "feat", Description: "add login"},
		{Type: "fix", Scope: "parser", Description: "handle empty input", Body: []string{"Details here."}},
		{Type: "perf", Scope: "db.v2", Description: "cache prepared statements", Breaking: true,
			Footers: []Footer{{Token: "BREAKING CHANGE", Value: "cache must be sized"}, {Token: "Refs", Value: "#9"}}},
		{Type: "revert", Description: "undo the last release", Breaking: true},
		{Type: "chore", Description: "bump deps", Footers: []Footer{{Token: "Signed-off-by", Value: "A <a@example.com>"}}},
		{Type: "docs", Description: "explain footers", Body: []string{"Footers look like\nRefs: 1 mid-paragraph.", "Second."},
			Footers: []Footer{{Token: "Refs", Value: "#2\n\ncontinued"}, {Token: "BREAKING CHANGE", Value: "none"}}},
	}

	for _, req := range reqs {
		t.Run(req.Type+"/"+req.Description, func(t *testing.T) {
			text, result := Construct(req)
			if !result.Valid() {
				t.Fatalf("Construct() invalid: %v", result.Violations)
			}

			m, err := Parse(text)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", text, err)
			}
			if m.Type().String() != req.Type {
				t.Errorf("Type() = %q, want %q", m.Type(), req.Type)
			}
			if m.Scope() != req.Scope {
				t.Errorf("Scope() = %q, want %q", m.Scope(), req.Scope)
			}
			if m.BreakingMarker() != req.Breaking {
				t.Errorf("BreakingMarker() = %v, want %v", m.BreakingMarker(), req.Breaking)
			}
			if m.Description() != req.Description {
				t.Errorf("Description() = %q, want %q", m.Description(), req.Description)
			}
			if !reflect.DeepEqual(m.Body(), req.Body) {
				t.Errorf("Body() = %q, want %q", m.Body(), req.Body)
			}
			if m.IsBreaking() != (req.Breaking || hasBreakingFooter(req.Footers)) {
				t.Errorf("IsBreaking() = %v", m.IsBreaking())
			}
			if !reflect.DeepEqual(m.Footers(), req.Footers) {
				t.Errorf("Footers() = %+v, want %+v", m.Footers(), req.Footers)
			}

			if again := ValidateMessage(text); !reflect.DeepEqual(again, result) {
				t.Errorf("ValidateMessage(text) = %v, want %v", again, result)
			}
		})
	}
}

func hasBreakingFooter(footers []Footer) bool {
	for _, f := range footers {
		if f.IsBreaking() {
			return true
		}
	}
	return false
}

func TestConstructWithPolicy(t *testing.T) {
	p := Policy{RequireScope: true, Scopes: []string{"api"}}

	if _, r := ConstructWithPolicy(Request{Type: "feat", Description: "x"}, p); !r.Has(RuleMissingScope) {
		t.Errorf("rules = %v, want MISSING_SCOPE", ruleIDs(r))
	}
	if _, r := ConstructWithPolicy(Request{Type: "feat", Scope: "web", Description: "x"}, p); !r.Has(RuleScopeNotAllowed) {
		t.Errorf("rules = %v, want SCOPE_NOT_ALLOWED", ruleIDs(r))
	}
	if text, r := ConstructWithPolicy(Request{Type: "feat", Scope: "api", Description: "x"}, p); text != "feat(api): x" || !r.Valid() {
		t.Errorf("ConstructWithPolicy() = %q, %v", text, r.Violations)
	}
}

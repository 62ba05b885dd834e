package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/relicta-tech/commitkit/internal/domain/commit"
	"github.com/relicta-tech/commitkit/internal/service/version"
)

var titleCaser = cases.Title(language.English)

// messageReport is the outcome of validating one message source.
type messageReport struct {
	Source     string             `json:"source,omitempty"`
	Valid      bool               `json:"valid"`
	Violations []commit.Violation `json:"violations"`
}

func newReport(source string, res commit.ValidationResult) messageReport {
	violations := res.Violations
	if violations == nil {
		violations = []commit.Violation{}
	}
	return messageReport{
		Source:     source,
		Valid:      res.Valid(),
		Violations: violations,
	}
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// renderReport prints a styled validation report.
func renderReport(w io.Writer, r messageReport) {
	label := r.Source
	if label == "" {
		label = "message"
	}

	if r.Valid {
		suffix := ""
		if n := len(r.Violations); n > 0 {
			suffix = fmt.Sprintf(" (%d %s)", n, plural(n, "warning", "warnings"))
		}
		printSuccess(w, label+": valid conventional commit"+suffix)
	} else {
		printError(w, label+": invalid conventional commit")
	}

	renderViolations(w, r.Violations)
}

func renderViolations(w io.Writer, violations []commit.Violation) {
	for _, v := range violations {
		line := fmt.Sprintf("  %s %s", v.Rule, v.Message)
		if v.Severity == commit.SeverityError {
			fmt.Fprintln(w, styles.Error.Render(line))
		} else {
			fmt.Fprintln(w, styles.Warning.Render(line))
		}
	}
}

// renderMessage prints the structured view of a parsed message.
func renderMessage(w io.Writer, msg *commit.Message) {
	printTitle(w, msg.Header())

	row := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", styles.Subtle.Render(fmt.Sprintf("%-13s", label)), value)
	}

	row("type", msg.Type().String())
	if msg.HasScope() {
		row("scope", msg.Scope())
	}
	row("description", msg.Description())
	row("breaking", fmt.Sprintf("%t", msg.IsBreaking()))
	row("release", titleCaser.String(msg.ReleaseType().String()))

	if body := msg.Body(); len(body) > 0 {
		fmt.Fprintln(w)
		printSubtle(w, "Body")
		for i, p := range body {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, indent(p))
		}
	}

	if footers := msg.Footers(); len(footers) > 0 {
		fmt.Fprintln(w)
		printSubtle(w, "Footers")
		for _, f := range footers {
			line := indent(f.String())
			if f.IsBreaking() {
				line = styles.Warning.Render(line)
			}
			fmt.Fprintln(w, line)
		}
	}
}

// renderImpact prints the aggregated release impact.
func renderImpact(w io.Writer, impact *version.Impact, count int) {
	printTitle(w, fmt.Sprintf("Release impact of %d %s", count, plural(count, "commit", "commits")))

	rt := titleCaser.String(impact.ReleaseType.String())
	fmt.Fprintf(w, "  %s %s\n", styles.Subtle.Render("release      "), styles.Bold.Render(rt))
	if impact.Current != "" {
		fmt.Fprintf(w, "  %s %s → %s\n", styles.Subtle.Render("version      "), impact.Current, styles.Success.Render(impact.Next))
	}

	if len(impact.BreakingNotes) > 0 {
		fmt.Fprintln(w)
		printWarning(w, "Breaking changes")
		for _, note := range impact.BreakingNotes {
			fmt.Fprintln(w, indent("- "+strings.ReplaceAll(note, "\n", "\n  ")))
		}
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

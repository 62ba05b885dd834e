package commit

import (
	"fmt"
	"strings"
	"sync"

	"github.com/felixgeelhaar/statekit"

	ckerrors "github.com/relicta-tech/commitkit/internal/errors"
)

// Line events fed to the body machine.
const (
	EventBlank statekit.EventType = "BLANK"
	EventText  statekit.EventType = "TEXT"
	EventToken statekit.EventType = "TOKEN"
)

// Body machine states.
const (
	StateHeaderDone statekit.StateID = "header_done"
	StateGap        statekit.StateID = "gap"
	StateBody       statekit.StateID = "body"
	StateFooters    statekit.StateID = "footers"
)

// scanContext is the machine context. The transitions are unguarded, so it
// carries nothing.
type scanContext struct{}

// bodyInterpreters builds the machine definition once and hands out a fresh
// interpreter per parse.
var bodyInterpreters = sync.OnceValues(newBodyMachine)

func newBodyMachine() (func() *statekit.Interpreter[scanContext], error) {
	machine, err := statekit.NewMachine[scanContext]("commit-body").
		WithInitial(StateHeaderDone).
		State(StateHeaderDone).
		On(EventBlank).Target(StateGap).
		On(EventText).Target(StateBody).
		On(EventToken).Target(StateFooters).
		Done().
		State(StateGap).
		On(EventBlank).Target(StateGap).
		On(EventText).Target(StateBody).
		On(EventToken).Target(StateFooters).
		Done().
		// A token-looking line inside a paragraph is prose.
		State(StateBody).
		On(EventBlank).Target(StateGap).
		On(EventText).Target(StateBody).
		On(EventToken).Target(StateBody).
		Done().
		// Once footers start, the rest of the message belongs to them.
		State(StateFooters).
		On(EventBlank).Target(StateFooters).
		On(EventText).Target(StateFooters).
		On(EventToken).Target(StateFooters).
		Done().
		Build()
	if err != nil {
		return nil, ckerrors.InternalWrap(err, "commit.newBodyMachine", "failed to build body state machine")
	}

	return func() *statekit.Interpreter[scanContext] {
		return statekit.NewInterpreter(machine)
	}, nil
}

// bodyResult is what the body machine extracts from the lines after the header.
type bodyResult struct {
	paragraphs  []string
	footers     []Footer
	blankLeader int
}

// parseBody splits the lines following the header into paragraphs and
// footers. Trailing blank lines are ignored.
func parseBody(lines []string) (bodyResult, error) {
	var res bodyResult

	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return res, nil
	}

	newInterpreter, err := bodyInterpreters()
	if err != nil {
		return res, err
	}
	interp := newInterpreter()
	interp.Start()

	var (
		paragraph     []string
		pendingBlanks int
		seenContent   bool
	)
	flush := func() {
		if len(paragraph) > 0 {
			res.paragraphs = append(res.paragraphs, strings.Join(paragraph, "\n"))
			paragraph = nil
		}
	}

	for _, line := range lines {
		prev := interp.State().Value
		footer, isToken := parseFooterLine(line)

		event := EventText
		switch {
		case isBlank(line):
			event = EventBlank
		case isToken:
			event = EventToken
		}

		interp.Send(statekit.Event{Type: event})
		state := interp.State().Value

		if !seenContent {
			if event == EventBlank {
				res.blankLeader++
				continue
			}
			seenContent = true
		}

		switch state {
		case StateGap:
			flush()
		case StateBody:
			paragraph = append(paragraph, line)
		case StateFooters:
			if prev != StateFooters {
				flush()
			}
			switch event {
			case EventToken:
				res.footers = append(res.footers, footer)
				pendingBlanks = 0
			case EventBlank:
				pendingBlanks++
			case EventText:
				last := &res.footers[len(res.footers)-1]
				last.Value += strings.Repeat("\n", pendingBlanks+1) + line
				pendingBlanks = 0
			}
		}
	}
	flush()

	return res, nil
}

// parseFooterLine recognizes "Token: value", "Token #value" and
// "BREAKING CHANGE: value". Tokens are words of [A-Za-z0-9] joined by '-'.
func parseFooterLine(line string) (Footer, bool) {
	const breaking = "BREAKING CHANGE: "
	if strings.HasPrefix(line, breaking) {
		value := line[len(breaking):]
		if strings.TrimSpace(value) == "" {
			return Footer{}, false
		}
		return Footer{Token: "BREAKING CHANGE", Value: value}, true
	}

	pos := 0
	for {
		start := pos
		for pos < len(line) && isTokenChar(line[pos]) {
			pos++
		}
		if pos == start {
			return Footer{}, false
		}
		if pos < len(line) && line[pos] == '-' {
			pos++
			continue
		}
		break
	}

	token, rest := line[:pos], line[pos:]
	var value string
	switch {
	case strings.HasPrefix(rest, ": "):
		value = rest[2:]
	case strings.HasPrefix(rest, " #"):
		value = rest[1:]
	default:
		return Footer{}, false
	}
	if strings.TrimSpace(strings.TrimPrefix(value, "#")) == "" {
		return Footer{}, false
	}
	return Footer{Token: token, Value: value}, true
}

// ParseFooter parses a single footer line such as "Refs: #42" or
// "BREAKING CHANGE: drops v1". Surrounding whitespace is ignored.
func ParseFooter(line string) (Footer, error) {
	f, ok := parseFooterLine(strings.TrimSpace(line))
	if !ok {
		return Footer{}, &ParseError{Reason: fmt.Sprintf("%q is not a footer", strings.TrimSpace(line)), err: ErrInvalidFooter}
	}
	return f, nil
}

// IsValidFooterToken reports whether token can start a footer line.
func IsValidFooterToken(token string) bool {
	if token == "BREAKING CHANGE" {
		return true
	}
	f, ok := parseFooterLine(token + ": x")
	return ok && f.Token == token
}

func isTokenChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

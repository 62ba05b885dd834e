package commit

import "strings"

// ParseHeader parses a header line of the form
//
//	type[(scope)][!]: description
//
// The type is any run of lowercase ASCII letters; whether it is a known type
// is left to the rule engine. On failure it returns a *ParseError wrapping
// ErrInvalidFormat and no message.
func ParseHeader(line string) (*Message, error) {
	line = strings.TrimSuffix(line, "\r")

	pos := 0
	for pos < len(line) && line[pos] >= 'a' && line[pos] <= 'z' {
		pos++
	}
	if pos == 0 {
		return nil, formatError(0, "expected a lowercase commit type")
	}

	m := &Message{
		commitType: Type(line[:pos]),
		headerRaw:  line,
	}

	if pos < len(line) && line[pos] == '(' {
		open := pos
		end := strings.IndexAny(line[open+1:], "()\n")
		if end < 0 || line[open+1+end] != ')' {
			return nil, formatError(open, "unterminated scope")
		}
		m.scope = line[open+1 : open+1+end]
		m.hasScope = true
		pos = open + end + 2
	}

	if pos < len(line) && line[pos] == '!' {
		m.breakingMarker = true
		pos++
	}

	if pos >= len(line) || line[pos] != ':' {
		return nil, formatError(pos, "expected ':' after commit type")
	}
	pos++

	if pos >= len(line) || line[pos] != ' ' {
		return nil, formatError(pos, "expected a space after ':'")
	}
	pos++

	if pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
		return nil, formatError(pos, "expected exactly one space after ':'")
	}

	m.description = line[pos:]
	if strings.TrimSpace(m.description) == "" {
		return nil, formatError(pos, "missing description")
	}

	return m, nil
}

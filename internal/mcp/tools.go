package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/relicta-tech/commitkit/internal/domain/commit"
	ckerrors "github.com/relicta-tech/commitkit/internal/errors"
)

// Tool names.
const (
	toolValidate      = "validate_commit"
	toolConstruct     = "construct_commit"
	toolParse         = "parse_commit"
	toolListTypes     = "list_commit_types"
	toolReleaseImpact = "release_impact"
)

const conventionalTypesURI = "docs://conventional-types"

func toolDefinitions() []Tool {
	return []Tool{
		{
			Name:        toolValidate,
			Description: "Validate a commit message against Conventional Commits v1.0.0 and report every rule violation",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"message": {Type: "string", Description: "The full commit message"},
				},
				Required: []string{"message"},
			},
		},
		{
			Name:        toolConstruct,
			Description: "Build a correctly formatted commit message from its parts",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"type":        {Type: "string", Description: "Commit type: feat, fix, docs, style, refactor, perf, test, build, ci, chore or revert"},
					"scope":       {Type: "string", Description: "Optional scope, lowercase letters, digits, '.', '_' or '-'"},
					"description": {Type: "string", Description: "Short imperative summary"},
					"body":        {Type: "string", Description: "Optional body; blank lines separate paragraphs"},
					"footers":     {Type: "array", Description: "Optional footer lines such as 'Refs: #123' or 'BREAKING CHANGE: ...'"},
					"breaking":    {Type: "boolean", Description: "Mark the header with '!'", Default: false},
				},
				Required: []string{"type", "description"},
			},
		},
		{
			Name:        toolParse,
			Description: "Parse a commit message into type, scope, description, body and footers",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"message": {Type: "string", Description: "The full commit message"},
				},
				Required: []string{"message"},
			},
		},
		{
			Name:        toolListTypes,
			Description: "List the Conventional Commits types with their meaning",
			InputSchema: InputSchema{Type: "object"},
		},
		{
			Name:        toolReleaseImpact,
			Description: "Compute the semantic version bump implied by one or more commit messages",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"message":         {Type: "string", Description: "A single commit message"},
					"messages":        {Type: "array", Description: "Several commit messages"},
					"current_version": {Type: "string", Description: "Current version, e.g. v1.4.2, to compute the next one"},
				},
			},
		},
	}
}

type validateOutput struct {
	Valid      bool               `json:"valid"`
	Violations []commit.Violation `json:"violations"`
	Message    *commit.Message    `json:"message,omitempty"`
}

func (s *Server) toolValidateCommit(_ context.Context, args map[string]any) (*CallToolResult, error) {
	raw, err := stringArg(args, "message", true)
	if err != nil {
		return nil, err
	}

	result := commit.ValidateMessageWithPolicy(raw, s.policy)
	out := validateOutput{
		Valid:      result.Valid(),
		Violations: result.Violations,
	}
	if out.Violations == nil {
		out.Violations = []commit.Violation{}
	}
	if msg, err := commit.Parse(raw); err == nil {
		out.Message = msg
	}

	return NewToolResultJSON(out)
}

func (s *Server) toolConstructCommit(_ context.Context, args map[string]any) (*CallToolResult, error) {
	req, err := constructRequest(args)
	if err != nil {
		return nil, err
	}

	text, result := commit.ConstructWithPolicy(req, s.policy)
	if !result.Valid() {
		res, err := NewToolResultJSON(result)
		if err != nil {
			return nil, err
		}
		res.IsError = true
		return res, nil
	}

	res := NewToolResult(text)
	for _, w := range result.Warnings() {
		res.Content = append(res.Content, NewTextContent(w.String()))
	}
	return res, nil
}

func (s *Server) toolParseCommit(_ context.Context, args map[string]any) (*CallToolResult, error) {
	raw, err := stringArg(args, "message", true)
	if err != nil {
		return nil, err
	}

	msg, err := commit.Parse(raw)
	if err != nil {
		res, jsonErr := NewToolResultJSON(commit.ValidateMessageWithPolicy(raw, s.policy))
		if jsonErr != nil {
			return nil, jsonErr
		}
		res.IsError = true
		return res, nil
	}
	return NewToolResultJSON(msg)
}

func (s *Server) toolListCommitTypes(_ context.Context, _ map[string]any) (*CallToolResult, error) {
	return NewToolResultJSON(commit.ListTypes())
}

func (s *Server) toolReleaseImpact(_ context.Context, args map[string]any) (*CallToolResult, error) {
	raws, err := stringListArg(args, "messages")
	if err != nil {
		return nil, err
	}
	single, err := stringArg(args, "message", false)
	if err != nil {
		return nil, err
	}
	if single != "" {
		raws = append([]string{single}, raws...)
	}
	if len(raws) == 0 {
		return nil, ckerrors.Validation("mcp.release_impact", "message or messages is required")
	}
	current, err := stringArg(args, "current_version", false)
	if err != nil {
		return nil, err
	}

	messages := make([]*commit.Message, 0, len(raws))
	for i, raw := range raws {
		msg, err := commit.Parse(raw)
		if err != nil {
			return NewToolResultError(fmt.Sprintf("message %d: %v", i+1, err)), nil
		}
		messages = append(messages, msg)
	}

	impact, err := s.versions.Analyze(messages, current)
	if err != nil {
		if ckerrors.IsKind(err, ckerrors.KindValidation) {
			return NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	return NewToolResultJSON(impact)
}

func (s *Server) resourceConventionalTypes(_ context.Context, uri string) (*ReadResourceResult, error) {
	var sb strings.Builder
	sb.WriteString("# Conventional Commits Types (v1.0.0)\n\n")
	for _, info := range commit.ListTypes() {
		fmt.Fprintf(&sb, "- **%s**: %s\n", info.Name, info.Description)
	}

	return &ReadResourceResult{
		Contents: []ResourceContent{NewMarkdownResourceContent(uri, sb.String())},
	}, nil
}

func constructRequest(args map[string]any) (commit.Request, error) {
	var req commit.Request
	var err error

	if req.Type, err = stringArg(args, "type", false); err != nil {
		return req, err
	}
	if req.Scope, err = stringArg(args, "scope", false); err != nil {
		return req, err
	}
	if req.Description, err = stringArg(args, "description", false); err != nil {
		return req, err
	}

	body, err := stringArg(args, "body", false)
	if err != nil {
		return req, err
	}
	if body != "" {
		req.Body = strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n")
	}

	if req.Breaking, err = boolArg(args, "breaking"); err != nil {
		return req, err
	}
	if !req.Breaking {
		if req.Breaking, err = boolArg(args, "is_breaking"); err != nil {
			return req, err
		}
	}

	lines, err := stringListArg(args, "footers")
	if err != nil {
		return req, err
	}
	single, err := stringArg(args, "footer", false)
	if err != nil {
		return req, err
	}
	if single != "" {
		lines = append(lines, strings.Split(single, "\n")...)
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		f, err := commit.ParseFooter(line)
		if err != nil {
			return req, ckerrors.ValidationWrap(err, "mcp.construct_commit", "invalid footer")
		}
		req.Footers = append(req.Footers, f)
	}

	return req, nil
}

func stringArg(args map[string]any, name string, required bool) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		if required {
			return "", ckerrors.Validation("mcp.arguments", fmt.Sprintf("%s is required", name))
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", ckerrors.Validation("mcp.arguments", fmt.Sprintf("%s must be a string, got %T", name, v))
	}
	return s, nil
}

func boolArg(args map[string]any, name string) (bool, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, ckerrors.Validation("mcp.arguments", fmt.Sprintf("%s must be a boolean, got %T", name, v))
	}
	return b, nil
}

// stringListArg accepts a JSON array of strings or a single string.
func stringListArg(args map[string]any, name string) ([]string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return nil, nil
	}

	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, ckerrors.Validation("mcp.arguments", fmt.Sprintf("%s[%d] must be a string, got %T", name, i, item))
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, ckerrors.Validation("mcp.arguments", fmt.Sprintf("%s must be an array of strings, got %T", name, v))
	}
}

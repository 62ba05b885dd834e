package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relicta-tech/commitkit/internal/config"
	"github.com/relicta-tech/commitkit/internal/domain/commit"
	"github.com/relicta-tech/commitkit/internal/service/version"
)

func newTestServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()
	server, err := NewServer("1.0.0", opts...)
	require.NoError(t, err)
	return server
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) *Response {
	t.Helper()
	params, err := json.Marshal(CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return s.HandleRequest(context.Background(), &Request{
		JSONRPC: JSONRPCVersion,
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	})
}

func toolText(t *testing.T, resp *Response) (*CallToolResult, string) {
	t.Helper()
	require.NotNil(t, resp)
	require.Nil(t, resp.Error, "unexpected error: %+v", resp.Error)
	result, ok := resp.Result.(*CallToolResult)
	require.True(t, ok, "result is %T", resp.Result)
	require.NotEmpty(t, result.Content)
	return result, result.Content[0].Text
}

func TestNewServer(t *testing.T) {
	t.Run("creates server with defaults", func(t *testing.T) {
		server := newTestServer(t)
		assert.NotNil(t, server.logger)
		assert.NotNil(t, server.versions)
		assert.Len(t, server.tools, 5)
		assert.Len(t, server.resources, 1)
		assert.Equal(t, commit.DefaultPolicy().HeaderMaxLength, server.policy.HeaderMaxLength)

		_, err := uuid.Parse(server.Session())
		assert.NoError(t, err)
	})

	t.Run("applies options", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		cfg := config.DefaultConfig()
		cfg.Rules.RequireScope = true
		cfg.Rules.Scopes = []string{"api"}
		svc := version.NewService()

		server := newTestServer(t, WithLogger(logger), WithConfig(cfg), WithVersionService(svc))
		assert.Equal(t, cfg, server.config)
		assert.Equal(t, svc, server.versions)
		assert.True(t, server.policy.RequireScope)
		assert.Equal(t, []string{"api"}, server.policy.Scopes)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Rules.HeaderMaxLength = 0
		_, err := NewServer("1.0.0", WithConfig(cfg))
		assert.Error(t, err)
	})

	t.Run("sessions differ", func(t *testing.T) {
		assert.NotEqual(t, newTestServer(t).Session(), newTestServer(t).Session())
	})
}

func TestHandleRequest(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	t.Run("initialize", func(t *testing.T) {
		params, _ := json.Marshal(InitializeParams{
			ProtocolVersion: MCPVersion,
			ClientInfo:      Implementation{Name: "test", Version: "1.0"},
		})
		resp := server.HandleRequest(ctx, &Request{JSONRPC: JSONRPCVersion, ID: 1, Method: "initialize", Params: params})
		require.NotNil(t, resp)
		require.Nil(t, resp.Error)

		result, ok := resp.Result.(InitializeResult)
		require.True(t, ok)
		assert.Equal(t, MCPVersion, result.ProtocolVersion)
		assert.Equal(t, "commitkit", result.ServerInfo.Name)
		assert.Equal(t, "1.0.0", result.ServerInfo.Version)
		assert.NotNil(t, result.Capabilities.Tools)
		assert.NotNil(t, result.Capabilities.Resources)
		assert.NotEmpty(t, result.Instructions)
	})

	t.Run("initialize with bad params", func(t *testing.T) {
		resp := server.HandleRequest(ctx, &Request{JSONRPC: JSONRPCVersion, ID: 2, Method: "initialize", Params: json.RawMessage(`[1]`)})
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeInvalidParams, resp.Error.Code)
	})

	t.Run("initialized notifications", func(t *testing.T) {
		assert.Nil(t, server.HandleRequest(ctx, &Request{JSONRPC: JSONRPCVersion, Method: "initialized"}))
		assert.Nil(t, server.HandleRequest(ctx, &Request{JSONRPC: JSONRPCVersion, Method: "notifications/initialized"}))
	})

	t.Run("ping", func(t *testing.T) {
		resp := server.HandleRequest(ctx, &Request{JSONRPC: JSONRPCVersion, ID: 3, Method: "ping"})
		require.NotNil(t, resp)
		assert.Nil(t, resp.Error)
	})

	t.Run("unknown method", func(t *testing.T) {
		resp := server.HandleRequest(ctx, &Request{JSONRPC: JSONRPCVersion, ID: 4, Method: "prompts/list"})
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeMethodNotFound, resp.Error.Code)
	})

	t.Run("wrong jsonrpc version", func(t *testing.T) {
		resp := server.HandleRequest(ctx, &Request{JSONRPC: "1.0", ID: 8, Method: "ping"})
		require.NotNil(t, resp)
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeInvalidRequest, resp.Error.Code)
		assert.Contains(t, resp.Error.Data, `unsupported jsonrpc version "1.0"`)
	})

	t.Run("missing method", func(t *testing.T) {
		resp := server.HandleRequest(ctx, &Request{JSONRPC: JSONRPCVersion, ID: 9})
		require.NotNil(t, resp)
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeInvalidRequest, resp.Error.Code)
	})

	t.Run("malformed notification is ignored", func(t *testing.T) {
		assert.Nil(t, server.HandleRequest(ctx, &Request{Method: "notifications/initialized"}))
	})

	t.Run("unknown notification is ignored", func(t *testing.T) {
		assert.Nil(t, server.HandleRequest(ctx, &Request{JSONRPC: JSONRPCVersion, Method: "notifications/cancelled"}))
	})

	t.Run("tools/list", func(t *testing.T) {
		resp := server.HandleRequest(ctx, &Request{JSONRPC: JSONRPCVersion, ID: 5, Method: "tools/list"})
		require.Nil(t, resp.Error)
		result, ok := resp.Result.(ListToolsResult)
		require.True(t, ok)

		var names []string
		for _, tool := range result.Tools {
			names = append(names, tool.Name)
			assert.Equal(t, "object", tool.InputSchema.Type)
		}
		assert.Equal(t, []string{"validate_commit", "construct_commit", "parse_commit", "list_commit_types", "release_impact"}, names)
	})

	t.Run("unknown tool", func(t *testing.T) {
		resp := callTool(t, server, "commit.publish", nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeInvalidParams, resp.Error.Code)
	})

	t.Run("tools/call with bad params", func(t *testing.T) {
		resp := server.HandleRequest(ctx, &Request{JSONRPC: JSONRPCVersion, ID: 6, Method: "tools/call", Params: json.RawMessage(`"x"`)})
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeInvalidParams, resp.Error.Code)
	})
}

func TestToolValidateCommit(t *testing.T) {
	server := newTestServer(t)

	t.Run("valid message", func(t *testing.T) {
		_, text := toolText(t, callTool(t, server, "validate_commit", map[string]any{
			"message": "feat(api)!: drop v1 endpoints\n\nBREAKING CHANGE: v1 is gone",
		}))

		var out struct {
			Valid      bool               `json:"valid"`
			Violations []commit.Violation `json:"violations"`
			Message    map[string]any     `json:"message"`
		}
		require.NoError(t, json.Unmarshal([]byte(text), &out))
		assert.True(t, out.Valid)
		assert.Empty(t, out.Violations)
		assert.Equal(t, "feat", out.Message["type"])
		assert.Equal(t, "major", out.Message["release_type"])
	})

	t.Run("invalid message is data, not a tool error", func(t *testing.T) {
		result, text := toolText(t, callTool(t, server, "validate_commit", map[string]any{
			"message": "Add stuff",
		}))
		assert.False(t, result.IsError)
		assert.Contains(t, text, `"valid": false`)
		assert.Contains(t, text, "INVALID_FORMAT")
		assert.NotContains(t, text, `"message": {`)
	})

	t.Run("missing message", func(t *testing.T) {
		resp := callTool(t, server, "validate_commit", map[string]any{})
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeInvalidParams, resp.Error.Code)
	})

	t.Run("wrong argument type", func(t *testing.T) {
		resp := callTool(t, server, "validate_commit", map[string]any{"message": 42})
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeInvalidParams, resp.Error.Code)
	})

	t.Run("policy from config", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Rules.Scopes = []string{"api"}
		strict := newTestServer(t, WithConfig(cfg))

		_, text := toolText(t, callTool(t, strict, "validate_commit", map[string]any{"message": "fix(web): x"}))
		assert.Contains(t, text, "SCOPE_NOT_ALLOWED")
	})
}

func TestToolConstructCommit(t *testing.T) {
	server := newTestServer(t)

	t.Run("full message", func(t *testing.T) {
		result, text := toolText(t, callTool(t, server, "construct_commit", map[string]any{
			"type":        "feat",
			"scope":       "auth",
			"description": "add google login",
			"body":        "Uses the OIDC flow.\n\nTokens are cached.",
			"footers":     []any{"Refs: #12", "BREAKING CHANGE: sessions reset"},
			"breaking":    true,
		}))
		assert.False(t, result.IsError)
		assert.Equal(t, "feat(auth)!: add google login\n\nUses the OIDC flow.\n\nTokens are cached.\n\nRefs: #12\nBREAKING CHANGE: sessions reset", text)
		assert.Len(t, result.Content, 1)
	})

	t.Run("legacy footer and is_breaking arguments", func(t *testing.T) {
		result, text := toolText(t, callTool(t, server, "construct_commit", map[string]any{
			"type":        "fix",
			"description": "handle nil",
			"footer":      "Closes #4",
			"is_breaking": true,
		}))
		assert.Equal(t, "fix!: handle nil\n\nCloses: #4", text)
		require.Len(t, result.Content, 2)
		assert.Contains(t, result.Content[1].Text, "BREAKING_WITHOUT_FOOTER")
	})

	t.Run("violations are an error result", func(t *testing.T) {
		result, text := toolText(t, callTool(t, server, "construct_commit", map[string]any{
			"type":        "feature",
			"description": "x",
		}))
		assert.True(t, result.IsError)
		assert.Contains(t, text, "UNKNOWN_TYPE")
	})

	t.Run("missing fields", func(t *testing.T) {
		result, text := toolText(t, callTool(t, server, "construct_commit", map[string]any{}))
		assert.True(t, result.IsError)
		assert.Equal(t, 2, strings.Count(text, "MISSING_FIELD"))
	})

	t.Run("bad footer", func(t *testing.T) {
		resp := callTool(t, server, "construct_commit", map[string]any{
			"type":        "fix",
			"description": "x",
			"footers":     []any{"not a footer"},
		})
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeInvalidParams, resp.Error.Code)
	})
}

func TestToolParseCommit(t *testing.T) {
	server := newTestServer(t)

	result, text := toolText(t, callTool(t, server, "parse_commit", map[string]any{
		"message": "docs(readme): fix typo\n\nRefs #3",
	}))
	assert.False(t, result.IsError)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &parsed))
	assert.Equal(t, "docs", parsed["type"])
	assert.Equal(t, "readme", parsed["scope"])
	assert.Equal(t, "none", parsed["release_type"])

	result, text = toolText(t, callTool(t, server, "parse_commit", map[string]any{"message": "nope"}))
	assert.True(t, result.IsError)
	assert.Contains(t, text, "INVALID_FORMAT")
}

func TestToolListCommitTypes(t *testing.T) {
	server := newTestServer(t)

	_, text := toolText(t, callTool(t, server, "list_commit_types", nil))
	var types []commit.TypeInfo
	require.NoError(t, json.Unmarshal([]byte(text), &types))
	require.Len(t, types, len(commit.AllTypes()))
	assert.Equal(t, "feat", types[0].Name)
	assert.Equal(t, "revert", types[len(types)-1].Name)
}

func TestToolReleaseImpact(t *testing.T) {
	server := newTestServer(t)

	t.Run("single message with version", func(t *testing.T) {
		_, text := toolText(t, callTool(t, server, "release_impact", map[string]any{
			"message":         "feat: add export",
			"current_version": "v1.2.3",
		}))
		var impact version.Impact
		require.NoError(t, json.Unmarshal([]byte(text), &impact))
		assert.Equal(t, commit.ReleaseTypeMinor, impact.ReleaseType)
		assert.Equal(t, "v1.3.0", impact.Next)
	})

	t.Run("breaking wins", func(t *testing.T) {
		_, text := toolText(t, callTool(t, server, "release_impact", map[string]any{
			"messages":        []any{"fix: a", "chore!: drop node 16\n\nBREAKING CHANGE: node 18 required"},
			"current_version": "0.9.0",
		}))
		assert.Contains(t, text, `"release_type": "major"`)
		assert.Contains(t, text, `"next_version": "1.0.0"`)
		assert.Contains(t, text, "node 18 required")
	})

	t.Run("unparseable message", func(t *testing.T) {
		result, text := toolText(t, callTool(t, server, "release_impact", map[string]any{"messages": []any{"fix: a", "oops"}}))
		assert.True(t, result.IsError)
		assert.Contains(t, text, "message 2")
	})

	t.Run("bad version", func(t *testing.T) {
		result, _ := toolText(t, callTool(t, server, "release_impact", map[string]any{
			"message":         "fix: a",
			"current_version": "one.two",
		}))
		assert.True(t, result.IsError)
	})

	t.Run("no messages", func(t *testing.T) {
		resp := callTool(t, server, "release_impact", map[string]any{})
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeInvalidParams, resp.Error.Code)
	})
}

func TestResources(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	resp := server.HandleRequest(ctx, &Request{JSONRPC: JSONRPCVersion, ID: 1, Method: "resources/list"})
	require.Nil(t, resp.Error)
	list, ok := resp.Result.(ListResourcesResult)
	require.True(t, ok)
	require.Len(t, list.Resources, 1)
	assert.Equal(t, "docs://conventional-types", list.Resources[0].URI)

	params, _ := json.Marshal(ReadResourceParams{URI: "docs://conventional-types"})
	resp = server.HandleRequest(ctx, &Request{JSONRPC: JSONRPCVersion, ID: 2, Method: "resources/read", Params: params})
	require.Nil(t, resp.Error)
	read, ok := resp.Result.(*ReadResourceResult)
	require.True(t, ok)
	require.Len(t, read.Contents, 1)
	assert.Equal(t, "text/markdown", read.Contents[0].MIMEType)
	assert.True(t, strings.HasPrefix(read.Contents[0].Text, "# Conventional Commits Types (v1.0.0)\n\n- **feat**: A new feature"))

	params, _ = json.Marshal(ReadResourceParams{URI: "docs://missing"})
	resp = server.HandleRequest(ctx, &Request{JSONRPC: JSONRPCVersion, ID: 3, Method: "resources/read", Params: params})
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidParams, resp.Error.Code)
}

func TestServe(t *testing.T) {
	server := newTestServer(t)

	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","clientInfo":{"name":"t","version":"1"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{not json`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"validate_commit","arguments":{"message":"fix: ok"}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"ping"}`,
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, server.Serve(context.Background(), strings.NewReader(input), &out))

	var responses []map[string]any
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}

	require.Len(t, responses, 4)
	assert.EqualValues(t, 1, responses[0]["id"])
	assert.EqualValues(t, ErrCodeParseError, responses[1]["error"].(map[string]any)["code"])
	assert.EqualValues(t, 2, responses[2]["id"])
	assert.Contains(t, responses[2]["result"].(map[string]any)["content"].([]any)[0].(map[string]any)["text"], `"valid": true`)
	assert.EqualValues(t, 3, responses[3]["id"])
}

func TestServe_Canceled(t *testing.T) {
	server := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := server.Serve(ctx, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

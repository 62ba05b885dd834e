package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/relicta-tech/commitkit/internal/config"
	"github.com/relicta-tech/commitkit/internal/domain/commit"
	ckerrors "github.com/relicta-tech/commitkit/internal/errors"
	"github.com/relicta-tech/commitkit/internal/service/version"
)

// ToolHandler handles a tool call.
type ToolHandler func(ctx context.Context, args map[string]any) (*CallToolResult, error)

// ResourceHandler handles a resource read.
type ResourceHandler func(ctx context.Context, uri string) (*ReadResourceResult, error)

// Server is the MCP server exposing the commit engine.
type Server struct {
	version   string
	session   string
	logger    *slog.Logger
	config    *config.Config
	policy    commit.Policy
	versions  version.Service
	tools     map[string]ToolHandler
	resources map[string]ResourceHandler
}

// ServerOption configures the server.
type ServerOption func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithConfig sets the configuration. The rule policy is taken from it. A nil
// config keeps the defaults.
func WithConfig(cfg *config.Config) ServerOption {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithVersionService replaces the service used by release_impact.
func WithVersionService(svc version.Service) ServerOption {
	return func(s *Server) {
		s.versions = svc
	}
}

// NewServer creates a new MCP server.
func NewServer(serverVersion string, opts ...ServerOption) (*Server, error) {
	s := &Server{
		version:   serverVersion,
		session:   uuid.NewString(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		config:    config.DefaultConfig(),
		versions:  version.NewService(),
		tools:     make(map[string]ToolHandler),
		resources: make(map[string]ResourceHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	if _, err := config.Validate(s.config); err != nil {
		return nil, err
	}
	s.policy = s.config.Policy()
	s.logger = s.logger.With("session", s.session)

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Session returns the id attached to every log line of this server.
func (s *Server) Session() string {
	return s.session
}

// ServeStdio serves MCP over stdin/stdout until stdin closes or ctx ends.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve runs the message loop over the given streams.
func (s *Server) Serve(ctx context.Context, reader io.Reader, writer io.Writer) error {
	transport := NewStdioTransport(reader, writer)
	defer transport.Close()

	loop := NewMessageLoop(transport, s)

	s.logger.Info("MCP server started", "version", s.version, "name", s.config.MCP.Name)
	err := loop.Run(ctx)
	if err != nil && ctx.Err() != nil {
		return ckerrors.Canceled(err, "mcp.Serve")
	}
	s.logger.Info("MCP server stopped")
	return err
}

// HandleRequest handles a single JSON-RPC request. Notifications get no
// response.
func (s *Server) HandleRequest(ctx context.Context, req *Request) *Response {
	s.logger.Debug("handling request", "method", req.Method, "id", req.ID)

	if err := checkEnvelope(req); err != nil {
		if req.ID == nil && req.Method != "" {
			return nil
		}
		return NewErrorResponse(req.ID, ErrCodeInvalidRequest, "Invalid Request", err.Error())
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "initialized", "notifications/initialized":
		return nil
	case "ping":
		return NewResponse(req.ID, struct{}{})
	case "tools/list":
		return s.handleListTools(req)
	case "tools/call":
		return s.handleCallTool(ctx, req)
	case "resources/list":
		return s.handleListResources(req)
	case "resources/read":
		return s.handleReadResource(ctx, req)
	default:
		if req.ID == nil {
			return nil
		}
		return NewErrorResponse(req.ID, ErrCodeMethodNotFound, "Method not found", req.Method)
	}
}

// checkEnvelope rejects requests that are not JSON-RPC 2.0 calls.
func checkEnvelope(req *Request) error {
	const op = "mcp.HandleRequest"
	if req.JSONRPC != JSONRPCVersion {
		return ckerrors.Protocol(op, fmt.Sprintf("unsupported jsonrpc version %q", req.JSONRPC))
	}
	if req.Method == "" {
		return ckerrors.Protocol(op, "method is required")
	}
	return nil
}

func (s *Server) handleInitialize(req *Request) *Response {
	var params InitializeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return NewErrorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
		}
	}

	s.logger.Info("client connected",
		"client", params.ClientInfo.Name,
		"client_version", params.ClientInfo.Version,
		"protocol", params.ProtocolVersion,
	)

	return NewResponse(req.ID, InitializeResult{
		ProtocolVersion: MCPVersion,
		Capabilities: ServerCapabilities{
			Tools:     &ToolsCapability{},
			Resources: &ResourcesCapability{},
		},
		ServerInfo: Implementation{
			Name:    s.config.MCP.Name,
			Version: s.version,
		},
		Instructions: s.config.MCP.Instructions,
	})
}

func (s *Server) handleListTools(req *Request) *Response {
	return NewResponse(req.ID, ListToolsResult{Tools: toolDefinitions()})
}

func (s *Server) handleCallTool(ctx context.Context, req *Request) *Response {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return NewErrorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
	}

	handler, ok := s.tools[params.Name]
	if !ok {
		return NewErrorResponse(req.ID, ErrCodeInvalidParams, "Unknown tool", params.Name)
	}

	result, err := handler(ctx, params.Arguments)
	if err != nil {
		if ckerrors.IsKind(err, ckerrors.KindValidation) {
			return NewErrorResponse(req.ID, ErrCodeInvalidParams, "Invalid arguments", err.Error())
		}
		s.logger.Error("tool failed", "tool", params.Name, "error", err)
		return NewErrorResponse(req.ID, ErrCodeInternalError, "Tool execution failed", err.Error())
	}

	s.logger.Debug("tool called", "tool", params.Name, "is_error", result.IsError)
	return NewResponse(req.ID, result)
}

func (s *Server) handleListResources(req *Request) *Response {
	resources := []Resource{
		{
			URI:         conventionalTypesURI,
			Name:        "Conventional Commit Types",
			Description: "The commit types of Conventional Commits v1.0.0 and what they mean",
			MIMEType:    "text/markdown",
		},
	}

	return NewResponse(req.ID, ListResourcesResult{Resources: resources})
}

func (s *Server) handleReadResource(ctx context.Context, req *Request) *Response {
	var params ReadResourceParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return NewErrorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
	}

	handler, ok := s.resources[params.URI]
	if !ok {
		return NewErrorResponse(req.ID, ErrCodeInvalidParams, "Resource not found", params.URI)
	}

	result, err := handler(ctx, params.URI)
	if err != nil {
		return NewErrorResponse(req.ID, ErrCodeInternalError, "Resource read failed", err.Error())
	}

	return NewResponse(req.ID, result)
}

// registerTools registers all tool handlers.
func (s *Server) registerTools() {
	s.tools[toolValidate] = s.toolValidateCommit
	s.tools[toolConstruct] = s.toolConstructCommit
	s.tools[toolParse] = s.toolParseCommit
	s.tools[toolListTypes] = s.toolListCommitTypes
	s.tools[toolReleaseImpact] = s.toolReleaseImpact
}

// registerResources registers all resource handlers.
func (s *Server) registerResources() {
	s.resources[conventionalTypesURI] = s.resourceConventionalTypes
}

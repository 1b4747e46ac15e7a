// Package mcp exposes note capture, extraction, and the GitHub daily
// journal as MCP tools over the stdio transport.
//
// The implementation uses the MCP SDK
// (github.com/modelcontextprotocol/go-sdk/mcp) and calls the internal
// services directly.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/notesd/internal/extract"
	"github.com/fyrsmithlabs/notesd/internal/github"
	"github.com/fyrsmithlabs/notesd/internal/notes"
)

// journalClient is the slice of the GitHub client the journal tools
// use.
type journalClient interface {
	GetOrCreateTodayIssue(ctx context.Context, owner, repo string) (*github.Issue, bool, error)
	AddDailyComment(ctx context.Context, owner, repo, body string) (*github.Issue, *github.Comment, error)
}

// Server is an MCP server that calls the note services directly.
type Server struct {
	mcp          *mcp.Server
	extractor    extract.Extractor
	notes        notes.NoteService
	github       journalClient
	defaultOwner string
	defaultRepo  string
	logger       *zap.Logger
}

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "notesd").
	Name string

	// Version is the server version (default: "dev").
	Version string

	// DefaultOwner and DefaultRepo are used by the journal tools when a
	// call does not name a repository.
	DefaultOwner string
	DefaultRepo  string

	// Logger for structured logging.
	Logger *zap.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "notesd",
		Version: "dev",
		Logger:  zap.NewNop(),
	}
}

// NewServer creates an MCP server wired to the given services.
func NewServer(cfg *Config, extractor extract.Extractor, noteSvc notes.NoteService, ghClient *github.Client) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if extractor == nil {
		return nil, errors.New("extractor is required")
	}
	if noteSvc == nil {
		return nil, errors.New("note service is required")
	}
	// ghClient is optional. Without it the journal tools answer with an
	// error result instead.

	name := cfg.Name
	if name == "" {
		name = "notesd"
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    name,
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcp:          mcpServer,
		extractor:    extractor,
		notes:        noteSvc,
		defaultOwner: cfg.DefaultOwner,
		defaultRepo:  cfg.DefaultRepo,
		logger:       cfg.Logger,
	}
	if ghClient != nil {
		s.github = ghClient
	}
	s.registerTools()

	return s, nil
}

// Run serves MCP requests on the stdio transport until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport")
	transport := &mcp.StdioTransport{}
	if err := s.mcp.Run(ctx, transport); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/louisbranch/commitsmith/internal/git"
	"github.com/louisbranch/commitsmith/internal/platform/branding"
	"github.com/louisbranch/commitsmith/internal/platform/timeouts"
	"github.com/louisbranch/commitsmith/internal/prompt"
	"github.com/louisbranch/commitsmith/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// serverVersion identifies the MCP server version.
const serverVersion = "0.1.0"

// serverName identifies this MCP server to clients.
var serverName = branding.AppName + " MCP"

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over HTTP/SSE for browser or remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the HTTP server address (e.g., "localhost:8765").
	// Defaults to localhost:8765 for HTTP transport.
	HTTPAddr string
	// GitBin is the git executable name or path. Defaults to "git" on PATH.
	GitBin string
	// PromptTemplate overrides the built-in commit prompt template when set.
	PromptTemplate string
}

// Server hosts the MCP server and the active project selection.
type Server struct {
	mcpServer *mcp.Server
	project   domain.Project
	projectMu sync.RWMutex
}

// New creates a configured MCP server backed by a git CLI client. The git
// binary is probed so a missing or broken binary shows up in the log at
// startup; the server still comes up either way, and tool calls report the
// failure per call.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	gitClient := git.NewClient(cfg.GitBin)

	probeCtx, cancel := context.WithTimeout(ctx, timeouts.GitProbe)
	defer cancel()
	if _, err := gitClient.Version(probeCtx); err != nil {
		log.Printf("git probe: %v", err)
	}

	return newServer(gitClient, cfg)
}

// newServer creates MCP tool/resource handler bindings once and keeps the
// project selection shared across them.
func newServer(gitService domain.GitService, cfg Config) (*Server, error) {
	// Module registration fills resourceURIs before the server accepts any
	// session, so the subscribe handlers read it without locking.
	resourceURIs := make(map[string]struct{})
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		CompletionHandler:  completionHandler,
		SubscribeHandler:   resourceSubscribeHandler(resourceURIs),
		UnsubscribeHandler: resourceUnsubscribeHandler(resourceURIs),
	})

	server := &Server{mcpServer: mcpServer}
	resourceNotifier := func(ctx context.Context, uri string) {
		if strings.TrimSpace(uri) == "" {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}
		if err := mcpServer.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
			log.Printf("mcp resource updated notify failed: uri=%s err=%v", uri, err)
		}
	}

	adapter := newRegistryAdapter(mcpServer, resourceURIs)
	for _, module := range serverModules(server, gitService, prompt.New(cfg.PromptTemplate), resourceNotifier) {
		if err := module.register(adapter); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}

	return server, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/commitsmith/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var errMissingResourceURI = errors.New("resource uri is required")

// completionHandler answers completion/complete with an empty result. The
// server exposes no prompts or resource templates, so there is nothing to
// complete; an empty list keeps clients that probe the capability working.
func completionHandler(ctx context.Context, req *mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	return &mcp.CompleteResult{
		Completion: mcp.CompletionResultDetails{
			Values: []string{},
		},
	}, nil
}

// resourceSubscribeHandler accepts subscriptions for registered resource
// URIs. Subscribers learn about project changes through the
// resource-updated notifications emitted after initialize-project.
func resourceSubscribeHandler(uris map[string]struct{}) func(context.Context, *mcp.SubscribeRequest) error {
	return func(_ context.Context, req *mcp.SubscribeRequest) error {
		if req == nil || req.Params == nil {
			return errMissingResourceURI
		}
		return checkResourceURI(uris, req.Params.URI)
	}
}

// resourceUnsubscribeHandler accepts unsubscriptions for registered resource
// URIs.
func resourceUnsubscribeHandler(uris map[string]struct{}) func(context.Context, *mcp.UnsubscribeRequest) error {
	return func(_ context.Context, req *mcp.UnsubscribeRequest) error {
		if req == nil || req.Params == nil {
			return errMissingResourceURI
		}
		return checkResourceURI(uris, req.Params.URI)
	}
}

func checkResourceURI(uris map[string]struct{}, uri string) error {
	if strings.TrimSpace(uri) == "" {
		return errMissingResourceURI
	}
	if _, ok := uris[uri]; !ok {
		return fmt.Errorf("resource %q is not registered", uri)
	}
	return nil
}

// Run is the service entrypoint for MCP and blocks until context
// cancellation. Startup picks stdio for local agents and HTTP for
// browser or remote integrations; the tool surface is identical on both.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, cfg, &mcp.StdioTransport{})
	case TransportHTTP:
		return runWithHTTPTransport(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithTransport creates a server and serves it over the provided transport.
func runWithTransport(ctx context.Context, cfg Config, transport mcp.Transport) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return server.serveWithTransport(ctx, transport)
}

// runWithHTTPTransport creates a server and serves it over HTTP. Session and
// connection state stay inside the transport; the same domain handlers serve
// both stdio and HTTP.
func runWithHTTPTransport(ctx context.Context, cfg Config) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}

	transport := NewHTTPTransport(cfg.HTTPAddr)
	transport.server = server.mcpServer
	return transport.Start(ctx)
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
// Context cancellation is the normal shutdown path and is not reported as an
// error.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// setProject replaces the active project selection.
func (s *Server) setProject(project domain.Project) {
	if s == nil {
		return
	}
	s.projectMu.Lock()
	defer s.projectMu.Unlock()
	s.project = project
}

// getProject returns the active project selection.
func (s *Server) getProject() domain.Project {
	if s == nil {
		return domain.Project{}
	}
	s.projectMu.RLock()
	defer s.projectMu.RUnlock()
	return s.project
}

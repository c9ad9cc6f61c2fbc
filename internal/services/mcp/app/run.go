package app

import (
	"context"
	"fmt"

	"github.com/louisbranch/commitsmith/internal/services/mcp/service"
)

// Run starts the MCP app with the provided HTTP address, git binary, prompt
// template, and transport type.
func Run(ctx context.Context, httpAddr, gitBin, promptTemplate, transport string) error {
	var transportKind service.TransportKind
	switch transport {
	case "http":
		transportKind = service.TransportHTTP
	case "stdio", "":
		transportKind = service.TransportStdio
	default:
		return fmt.Errorf("invalid transport %q: must be 'stdio' or 'http'", transport)
	}

	return service.Run(ctx, service.Config{
		Transport:      transportKind,
		HTTPAddr:       httpAddr,
		GitBin:         gitBin,
		PromptTemplate: promptTemplate,
	})
}

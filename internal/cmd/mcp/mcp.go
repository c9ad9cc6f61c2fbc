// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"log"

	"github.com/louisbranch/commitsmith/internal/platform/config"
	"github.com/louisbranch/commitsmith/internal/platform/otel"
	"github.com/louisbranch/commitsmith/internal/platform/timeouts"
	mcpapp "github.com/louisbranch/commitsmith/internal/services/mcp/app"
)

// Config holds MCP command configuration. PromptTemplate has no flag on
// purpose: the commit prompt template is overridden through the environment
// only.
type Config struct {
	Transport      string `env:"COMMITSMITH_MCP_TRANSPORT" envDefault:"stdio"`
	HTTPAddr       string `env:"COMMITSMITH_MCP_HTTP_ADDR" envDefault:"localhost:8765"`
	GitBin         string `env:"COMMITSMITH_GIT_BIN"       envDefault:"git"`
	PromptTemplate string `env:"COMMITSMITH_COMMIT_PROMPT"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.GitBin, "git-bin", cfg.GitBin, "git binary to run")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "mcp")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	return mcpapp.Run(ctx, cfg.HTTPAddr, cfg.GitBin, cfg.PromptTemplate, cfg.Transport)
}

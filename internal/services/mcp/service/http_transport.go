package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/louisbranch/commitsmith/internal/platform/config"
	"github.com/louisbranch/commitsmith/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// transportEnv carries environment configuration for the HTTP transport.
type transportEnv struct {
	AllowedHosts []string `env:"COMMITSMITH_MCP_ALLOWED_HOSTS" envSeparator:","`
}

const (
	// defaultHTTPAddr keeps the server loopback-only unless an address is
	// configured explicitly.
	defaultHTTPAddr = "localhost:8765"

	// sessionChannelBuffer sizes the per-session message channels so short
	// bursts do not block the HTTP handlers.
	sessionChannelBuffer = 10

	// rpcReplyTimeout caps how long a POST waits for the matching JSON-RPC
	// reply before giving up on the exchange.
	rpcReplyTimeout = 30 * time.Second

	// httpDrainTimeout caps graceful shutdown. It exceeds rpcReplyTimeout so
	// in-flight exchanges can finish before the listener closes.
	httpDrainTimeout = 35 * time.Second

	// sessionSweepInterval is how often idle sessions are collected.
	sessionSweepInterval = 5 * time.Minute

	// sessionIdleExpiry is how long a session may sit idle before the sweeper
	// closes it.
	sessionIdleExpiry = 1 * time.Hour

	// sseKeepAliveInterval is how often an open SSE stream refreshes its
	// session's idle clock.
	sseKeepAliveInterval = 30 * time.Second

	// defaultSessionReadyWait bounds the wait for a freshly started session
	// to begin reading before request handling proceeds anyway.
	defaultSessionReadyWait = 100 * time.Millisecond
)

// HTTPTransport serves MCP over HTTP: JSON-RPC exchanges arrive as POST
// bodies and notifications stream back over Server-Sent Events. It implements
// mcp.Transport and owns the whole session lifecycle, so an abandoned client
// cannot leak connections or goroutines.
type HTTPTransport struct {
	addr         string
	allowedHosts map[string]struct{}
	server       *mcp.Server
	httpSrv      *http.Server

	sessionsMu sync.RWMutex
	sessions   map[string]*httpSession

	sessionRunsMu sync.Mutex
	sessionRuns   map[string]*sync.Once

	runCtx    context.Context
	runCancel context.CancelFunc

	readyWait    time.Duration
	randomReader func([]byte) (int, error)
	readyAfter   func(time.Duration) <-chan time.Time
}

// httpSession tracks one client's connection and idle clock.
type httpSession struct {
	id        string
	conn      *httpConnection
	createdAt time.Time
	lastUsed  time.Time
}

// NewHTTPTransport builds an HTTP transport bound to addr. An empty addr
// falls back to loopback so nothing is exposed beyond the local machine
// without explicit host configuration.
func NewHTTPTransport(addr string) *HTTPTransport {
	if addr == "" {
		addr = defaultHTTPAddr
	}
	var env transportEnv
	_ = config.ParseEnv(&env)
	ctx, cancel := context.WithCancel(context.Background())
	return &HTTPTransport{
		addr:         addr,
		allowedHosts: parseAllowedHosts(env.AllowedHosts),
		sessions:     make(map[string]*httpSession),
		sessionRuns:  make(map[string]*sync.Once),
		runCtx:       ctx,
		runCancel:    cancel,
		readyWait:    defaultSessionReadyWait,
		randomReader: rand.Read,
		readyAfter:   time.After,
	}
}

// routes wires the MCP endpoints onto a fresh mux. GET and POST share the
// /mcp path per the streamable HTTP convention.
func (t *HTTPTransport) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			t.handleSSE(w, r)
		case http.MethodPost:
			t.handleRPC(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/mcp/health", t.handleHealth)
	return mux
}

// Start runs the HTTP server until ctx is cancelled or serving fails. The
// session sweeper shares ctx, so shutdown stops it along with the listener.
func (t *HTTPTransport) Start(ctx context.Context) error {
	t.runCtx, t.runCancel = context.WithCancel(ctx)

	go t.sweepSessions(ctx)

	t.httpSrv = &http.Server{
		Addr:              t.addr,
		Handler:           t.routes(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	log.Printf("Starting MCP HTTP server on %s", t.addr)

	serveErr := make(chan error, 1)
	go func() {
		listener, err := net.Listen("tcp", t.addr)
		if err != nil {
			serveErr <- err
			return
		}
		if err := t.httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutting down MCP HTTP server")
		drainCtx, cancel := context.WithTimeout(context.Background(), httpDrainTimeout)
		defer cancel()
		if err := t.httpSrv.Shutdown(drainCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		// Stop every per-session server goroutine as well.
		if t.runCancel != nil {
			t.runCancel()
		}
		return nil
	case err := <-serveErr:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}

// handleHealth answers GET /mcp/health with a bare OK.
func (t *HTTPTransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := t.validateLocalRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Printf("write health response: %v", err)
	}
}

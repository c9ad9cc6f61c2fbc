package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Connect implements mcp.Transport. Each call mints a fresh session with its
// own connection; the server session that adopts it reads from that
// connection until the client goes away.
func (t *HTTPTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	id := t.generateSessionID()
	conn := newHTTPConnection(id)

	now := time.Now()
	t.sessionsMu.Lock()
	t.sessions[id] = &httpSession{id: id, conn: conn, createdAt: now, lastUsed: now}
	t.sessionsMu.Unlock()

	return conn, nil
}

func (t *HTTPTransport) generateSessionID() string {
	read := rand.Read
	if t != nil && t.randomReader != nil {
		read = t.randomReader
	}
	return newSessionID(read)
}

var sessionCounter atomic.Uint64

// newSessionID builds a session identifier from random bytes plus a
// process-wide counter. When the random source fails the id degrades to a
// timestamp, still unique within the process thanks to the counter.
func newSessionID(randomRead func([]byte) (int, error)) string {
	if randomRead == nil {
		randomRead = rand.Read
	}
	n := sessionCounter.Add(1)
	b := make([]byte, 8)
	if _, err := randomRead(b); err != nil {
		return fmt.Sprintf("session_%d_%d", time.Now().UnixNano(), n)
	}
	return fmt.Sprintf("session_%s_%d", hex.EncodeToString(b), n)
}

// lookupSession returns the tracked session for id, if any.
func (t *HTTPTransport) lookupSession(id string) *httpSession {
	t.sessionsMu.RLock()
	defer t.sessionsMu.RUnlock()
	return t.sessions[id]
}

// touchSession refreshes the idle clock for id.
func (t *HTTPTransport) touchSession(id string) {
	t.sessionsMu.Lock()
	if s, ok := t.sessions[id]; ok && s != nil {
		s.lastUsed = time.Now()
	}
	t.sessionsMu.Unlock()
}

// sweepSessions periodically drops sessions that have sat idle past
// sessionIdleExpiry.
func (t *HTTPTransport) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.expireSessions(time.Now().Add(-sessionIdleExpiry))
		}
	}
}

// expireSessions closes and forgets every session last used before cutoff.
func (t *HTTPTransport) expireSessions(cutoff time.Time) {
	var expired []string

	t.sessionsMu.Lock()
	for id, session := range t.sessions {
		if session.lastUsed.Before(cutoff) {
			session.conn.Close()
			delete(t.sessions, id)
			expired = append(expired, id)
		}
	}
	t.sessionsMu.Unlock()

	t.sessionRunsMu.Lock()
	for _, id := range expired {
		delete(t.sessionRuns, id)
	}
	t.sessionRunsMu.Unlock()
}

// ensureSessionServer connects the MCP server to this session's connection
// the first time traffic arrives, then waits briefly for the session to start
// reading so the first request is not dropped.
func (t *HTTPTransport) ensureSessionServer(session *httpSession) {
	if t.server == nil {
		return
	}

	t.sessionRunsMu.Lock()
	once := t.sessionRuns[session.id]
	if once == nil {
		once = &sync.Once{}
		t.sessionRuns[session.id] = once
	}
	t.sessionRunsMu.Unlock()

	once.Do(func() {
		go func() {
			// runCtx outlives individual requests, keeping the session alive
			// between HTTP round-trips.
			serverSession, err := t.server.Connect(t.runCtx, boundTransport{conn: session.conn}, nil)
			if err != nil {
				log.Printf("connect MCP session %s: %v", session.id, err)
				return
			}
			_ = serverSession.Wait()
		}()
	})

	after := t.readyAfter
	if after == nil {
		after = time.After
	}
	wait := t.readyWait
	if wait <= 0 {
		wait = defaultSessionReadyWait
	}
	select {
	case <-session.conn.ready:
	case <-after(wait):
	case <-t.runCtx.Done():
	}
}

// boundTransport hands a pre-built connection to Server.Connect.
type boundTransport struct {
	conn mcp.Connection
}

func (b boundTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	return b.conn, nil
}

package service

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// handleSSE is the GET /mcp read path. Notifications stream to the client as
// Server-Sent Events; request/reply traffic never flows here, so a slow
// consumer only delays its own notifications.
func (t *HTTPTransport) handleSSE(w http.ResponseWriter, r *http.Request) {
	if err := t.validateLocalRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := t.streamSession(r)
	if session == nil {
		http.Error(w, "Invalid or missing session ID", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flush(w)

	t.touchSession(session.id)

	keepAlive := time.NewTicker(sseKeepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-session.conn.done:
			return
		case <-keepAlive.C:
			// An open stream counts as activity even when no events flow, so
			// the sweeper never closes a connected client.
			t.touchSession(session.id)
		case msg := <-session.conn.notifications:
			t.touchSession(session.id)
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("marshal SSE event: %v", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flush(w)
		}
	}
}

// streamSession resolves the read-path session from header or cookie.
func (t *HTTPTransport) streamSession(r *http.Request) *httpSession {
	if id := strings.TrimSpace(r.Header.Get("Mcp-Session-Id")); id != "" {
		return t.lookupSession(id)
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return t.lookupSession(cookie.Value)
	}
	return nil
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

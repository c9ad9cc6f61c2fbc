package service

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

// sessionCookie is the fallback session carrier for clients that do not echo
// the Mcp-Session-Id header.
const sessionCookie = "mcp_session"

// handleRPC is the POST /mcp write path. Every JSON-RPC request and
// notification arrives here; the reply for a request is held until the server
// session produces it, so each exchange completes within one HTTP round-trip
// and one agent's project context stays contiguous across calls.
func (t *HTTPTransport) handleRPC(w http.ResponseWriter, r *http.Request) {
	if err := t.validateLocalRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("read RPC body: %v", err)
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	msg, err := jsonrpc.DecodeMessage(body)
	if err != nil {
		log.Printf("decode JSON-RPC message: %v", err)
		http.Error(w, "Invalid JSON-RPC message", http.StatusBadRequest)
		return
	}

	// Only initialize may mint a session; every other method must present one.
	initialize := false
	if req, ok := msg.(*jsonrpc.Request); ok {
		initialize = req.Method == "initialize"
	}

	session, ok := t.resolveSession(w, r, initialize)
	if !ok {
		return
	}
	t.touchSession(session.id)
	t.ensureSessionServer(session)

	switch m := msg.(type) {
	case *jsonrpc.Response:
		http.Error(w, "Invalid message type: response", http.StatusBadRequest)
	case *jsonrpc.Request:
		// A zero ID marks a notification, which gets no reply.
		if m.ID == (jsonrpc.ID{}) {
			t.forwardNotification(w, r, session, m)
			return
		}
		t.exchangeRequest(w, r, session, m)
	default:
		http.Error(w, "Invalid request type", http.StatusBadRequest)
	}
}

// resolveSession finds the session named by the request header or cookie.
// When initialize is true a missing session is minted instead of rejected,
// and the new id travels back to the client in both carriers.
func (t *HTTPTransport) resolveSession(w http.ResponseWriter, r *http.Request, initialize bool) (*httpSession, bool) {
	id := strings.TrimSpace(r.Header.Get("Mcp-Session-Id"))
	if id != "" {
		if session := t.lookupSession(id); session != nil {
			return session, true
		}
		if !initialize {
			writeSessionError(w, "Invalid session ID")
			return nil, false
		}
	} else if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if session := t.lookupSession(cookie.Value); session != nil {
			return session, true
		}
	}

	if !initialize {
		writeSessionError(w, "Invalid or missing session ID")
		return nil, false
	}

	conn, err := t.Connect(r.Context())
	if err != nil {
		log.Printf("create session: %v", err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return nil, false
	}
	id = conn.SessionID()
	session := t.lookupSession(id)
	if session == nil {
		http.Error(w, "Failed to retrieve session after creation", http.StatusInternalServerError)
		return nil, false
	}

	w.Header().Set("Mcp-Session-Id", id)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return session, true
}

// exchangeRequest queues req for the server session and relays the matching
// reply back to the HTTP client.
func (t *HTTPTransport) exchangeRequest(w http.ResponseWriter, r *http.Request, session *httpSession, req *jsonrpc.Request) {
	conn := session.conn
	waiter := make(chan jsonrpc.Message, 1)

	conn.pendingMu.Lock()
	if conn.pending == nil {
		conn.pendingMu.Unlock()
		writeSessionError(w, "Session closed")
		return
	}
	conn.pending[req.ID] = waiter
	conn.pendingMu.Unlock()

	defer func() {
		conn.pendingMu.Lock()
		if conn.pending != nil {
			delete(conn.pending, req.ID)
		}
		conn.pendingMu.Unlock()
	}()

	select {
	case conn.incoming <- req:
	case <-conn.done:
		writeSessionError(w, "Session closed")
		return
	case <-r.Context().Done():
		http.Error(w, "Request cancelled", http.StatusRequestTimeout)
		return
	}

	select {
	case reply := <-waiter:
		writeRPCReply(w, reply)
	case <-conn.done:
		// A reply that raced the shutdown still reaches the client.
		select {
		case reply := <-waiter:
			writeRPCReply(w, reply)
		default:
			writeSessionError(w, "Session closed")
		}
	case <-r.Context().Done():
		http.Error(w, "Request cancelled", http.StatusRequestTimeout)
	case <-time.After(rpcReplyTimeout):
		http.Error(w, "Request timeout", http.StatusRequestTimeout)
	}
}

// writeRPCReply encodes one JSON-RPC reply onto the HTTP response.
func writeRPCReply(w http.ResponseWriter, reply jsonrpc.Message) {
	data, err := jsonrpc.EncodeMessage(reply)
	if err != nil {
		log.Printf("encode RPC reply: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		log.Printf("write RPC reply: %v", err)
	}
}

// forwardNotification queues a fire-and-forget message; the client gets 204.
func (t *HTTPTransport) forwardNotification(w http.ResponseWriter, r *http.Request, session *httpSession, msg jsonrpc.Message) {
	select {
	case session.conn.incoming <- msg:
	case <-session.conn.done:
		writeSessionError(w, "Session closed")
		return
	case <-r.Context().Done():
		http.Error(w, "Request cancelled", http.StatusRequestTimeout)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeSessionError responds with a JSON-RPC error envelope for session
// validation failures.
func writeSessionError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	payload := map[string]any{
		"jsonrpc": "2.0",
		"error": map[string]any{
			"code":    -32000,
			"message": message,
		},
		"id": nil,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","error":{"code":-32000,"message":"Session error"},"id":null}`))
		return
	}
	_, _ = w.Write(data)
}

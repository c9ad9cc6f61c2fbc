package service

import (
	"context"
	"errors"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

var errConnClosed = errors.New("connection closed")

// httpConnection adapts the SDK's bidirectional connection model onto HTTP.
// Incoming messages queue on a channel the server session reads from; replies
// are matched back to the POST handler waiting on them, and everything else
// streams out as a notification.
type httpConnection struct {
	sessionID string

	incoming      chan jsonrpc.Message
	notifications chan jsonrpc.Message
	// done is the only shutdown signal; incoming, notifications, and the
	// pending waiter channels stay open for the life of the connection.
	done chan struct{}

	ready     chan struct{}
	readyOnce sync.Once

	mu     sync.Mutex
	closed bool

	pendingMu sync.Mutex
	pending   map[jsonrpc.ID]chan jsonrpc.Message
}

func newHTTPConnection(sessionID string) *httpConnection {
	return &httpConnection{
		sessionID:     sessionID,
		incoming:      make(chan jsonrpc.Message, sessionChannelBuffer),
		notifications: make(chan jsonrpc.Message, sessionChannelBuffer),
		done:          make(chan struct{}),
		ready:         make(chan struct{}, 1),
		pending:       make(map[jsonrpc.ID]chan jsonrpc.Message),
	}
}

// Read hands the next queued message to the server session. The first call
// signals readiness so the HTTP side knows the session is consuming.
func (c *httpConnection) Read(ctx context.Context) (jsonrpc.Message, error) {
	c.readyOnce.Do(func() {
		select {
		case c.ready <- struct{}{}:
		default:
		}
	})

	select {
	case msg := <-c.incoming:
		return msg, nil
	case <-c.done:
		return nil, errConnClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *httpConnection) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Write delivers a message from the server session back to the client. A
// reply carrying a known request ID wakes the POST waiting on it; anything
// else goes out through the notification stream so waiters never receive
// unrelated traffic.
func (c *httpConnection) Write(ctx context.Context, msg jsonrpc.Message) error {
	if c.isClosed() {
		return errConnClosed
	}

	if resp, ok := msg.(*jsonrpc.Response); ok && resp.ID != (jsonrpc.ID{}) {
		c.pendingMu.Lock()
		waiter, found := c.pending[resp.ID]
		c.pendingMu.Unlock()

		if found {
			select {
			case waiter <- msg:
				return nil
			case <-c.done:
				return errConnClosed
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		// No waiter for this ID, so it is delivered as a notification below.
	}

	select {
	case c.notifications <- msg:
		return nil
	case <-c.done:
		return errConnClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close tears the connection down exactly once. Closing done wakes every
// reader, sender, and pending waiter; dropping the pending map turns any
// late reply into a notification that the done signal then discards.
func (c *httpConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)

	c.pendingMu.Lock()
	c.pending = nil
	c.pendingMu.Unlock()

	return nil
}

// SessionID implements mcp.Connection.
func (c *httpConnection) SessionID() string { return c.sessionID }

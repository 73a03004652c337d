package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocketClient wraps a preview connection. Reads happen on the
// connection's own goroutine; writes are serialised.
type WebSocketClient struct {
	conn *websocket.Conn
	mu   sync.Mutex // Protects writes
}

// NewWebSocketClient creates a new WebSocketClient from a WebSocket connection.
func NewWebSocketClient(conn *websocket.Conn, maxMessageSize int64) *WebSocketClient {
	if maxMessageSize > 0 {
		conn.SetReadLimit(maxMessageSize)
	}
	return &WebSocketClient{conn: conn}
}

// ReadRequest blocks until the next request arrives. Empty messages are
// skipped. A message that is not valid JSON yields a decode error wrapped
// with errBadRequest, after which the connection is still usable.
func (c *WebSocketClient) ReadRequest() (Request, error) {
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return Request{}, err
		}
		if len(bytes.TrimSpace(message)) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(message, &req); err != nil {
			return Request{}, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return req, nil
	}
}

// WriteJSON sends v as one text message.
func (c *WebSocketClient) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Close closes the WebSocket connection.
func (c *WebSocketClient) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the remote address as a string.
func (c *WebSocketClient) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

// Deadlines keep a dead monitor socket from pinning its goroutine: a
// stalled write gives up quickly, while reads tolerate long idle gaps
// between client pings.
const (
	writeWait   = 10 * time.Second
	readIdleMax = 5 * time.Minute
)

// WriteTyped sends one typed payload with a bounded write deadline.
func WriteTyped(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse to the client.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{Event: EventError, Error: errMsg})
}

// ReadJSON decodes the next client message, refreshing the idle deadline.
func ReadJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetReadDeadline(time.Now().Add(readIdleMax))
	return conn.ReadJSON(v)
}

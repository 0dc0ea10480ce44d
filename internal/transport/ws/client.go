package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Sopno181818/chor-game/internal/app"
	"github.com/Sopno181818/chor-game/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection.
type Client struct {
	conn     *websocket.Conn
	hub      *app.Hub
	playerID string
	send     chan []byte
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client.
func NewClient(conn *websocket.Conn, hub *app.Hub, playerID string, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		hub:      hub,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// PlayerID implements app.ClientConnection.
func (c *Client) PlayerID() string {
	return c.playerID
}

// Send implements app.ClientConnection.
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped", "playerID", c.playerID)
		return nil
	}
}

// Close implements app.ClientConnection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c.playerID)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client.
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgJoin:
		c.handleJoin(msg.Payload)
	case MsgShuffle:
		c.handleShuffle()
	case MsgGuess:
		c.handleGuess(msg.Payload)
	case MsgRestart:
		c.handleRestart()
	case MsgPing:
		c.sendPong()
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleJoin handles a join message.
func (c *Client) handleJoin(payload interface{}) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	name, ok := payloadMap["name"].(string)
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Name is required")
		return
	}

	if err := c.hub.Join(c, name); err != nil {
		c.sendDomainError(err)
		return
	}

	c.sendConnected()
}

// handleShuffle handles a shuffle (start-round) message.
func (c *Client) handleShuffle() {
	if err := c.hub.StartRound(c.playerID); err != nil {
		c.sendDomainError(err)
	}
}

// handleGuess handles a guess message.
func (c *Client) handleGuess(payload interface{}) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	targetID, ok := payloadMap["targetId"].(string)
	if !ok || targetID == "" {
		c.sendError(ErrCodeInvalidMessage, "Target ID is required")
		return
	}

	if err := c.hub.SubmitGuess(c.playerID, targetID); err != nil {
		c.sendDomainError(err)
	}
}

// handleRestart handles a restart message.
func (c *Client) handleRestart() {
	if err := c.hub.Restart(c.playerID); err != nil {
		c.sendDomainError(err)
	}
}

// sendDomainError maps a domain error onto a wire error code.
func (c *Client) sendDomainError(err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		c.sendError(ErrCodeEmptyName, "Name cannot be empty")
	case errors.Is(err, domain.ErrAlreadyJoined):
		c.sendError(ErrCodeAlreadyJoined, "You have already joined")
	case errors.Is(err, domain.ErrNoGame), errors.Is(err, domain.ErrNotSeated):
		c.sendError(ErrCodeNoGame, "You are not in a game")
	case errors.Is(err, domain.ErrRoundInProgress):
		c.sendError(ErrCodeRoundInProgress, "A round is already in progress")
	case errors.Is(err, domain.ErrNotReady):
		c.sendError(ErrCodeNotReady, "The table is not ready for a new round")
	case errors.Is(err, domain.ErrNotAwaitingGuess):
		c.sendError(ErrCodeNotAwaiting, "No round is awaiting a guess")
	case errors.Is(err, domain.ErrNotGuesser):
		c.sendError(ErrCodeNotGuesser, "Only the Police may guess")
	case errors.Is(err, domain.ErrInvalidTarget):
		c.sendError(ErrCodeInvalidTarget, "That player cannot be accused")
	default:
		c.sendError(ErrCodeInternalError, err.Error())
	}
}

// sendConnected sends the connected message to the client.
func (c *Client) sendConnected() {
	msg := NewServerMessage(MsgConnected, &ConnectedPayload{
		PlayerID: c.playerID,
	})
	c.Send(msg)
}

// sendError sends an error message to the client.
func (c *Client) sendError(code, message string) {
	msg := NewServerMessage(MsgError, &ErrorPayload{
		Code:    code,
		Message: message,
	})
	c.Send(msg)
}

// sendPong sends a pong message in response to ping.
func (c *Client) sendPong() {
	msg := NewServerMessage(MsgPong, nil)
	c.Send(msg)
}

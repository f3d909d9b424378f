package realtime

import (
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Maximum message size allowed from the peer
	maxMessageSize = 512 * 1024 // 512KB

	// Reconnect backoff bounds
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// frame is the wire format spoken with the realtime endpoint
type frame struct {
	Type  string `json:"type"` // "join", "leave", "change"
	Table string `json:"table,omitempty"`
	Event *Event `json:"event,omitempty"`
}

// Client is a websocket Source. It joins one channel per subscribed table
// and fans incoming change frames out to subscribers. The connection is
// re-established with capped backoff after failures; missed events during a
// gap are acceptable because every reconnect is followed by a reload-worthy
// join.
type Client struct {
	url        string
	pingPeriod time.Duration
	logger     zerolog.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	subs   map[string]map[*brokerSub]struct{}
	closed bool
	done   chan struct{}
}

// NewClient creates a realtime client for the given endpoint. Run must be
// called to start the connection loop.
func NewClient(url string, heartbeat time.Duration, logger zerolog.Logger) *Client {
	if heartbeat <= 0 || heartbeat >= pongWait {
		heartbeat = (pongWait * 9) / 10
	}
	return &Client{
		url:        url,
		pingPeriod: heartbeat,
		logger:     logger,
		subs:       make(map[string]map[*brokerSub]struct{}),
		done:       make(chan struct{}),
	}
}

// Run connects and keeps the connection alive until Close is called.
// It blocks; callers run it in a goroutine.
func (c *Client) Run() {
	attempt := 0
	for {
		select {
		case <-c.done:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
		if err != nil {
			wait := backoff(attempt)
			attempt++
			c.logger.Warn().Err(err).Dur("retryIn", wait).Msg("Realtime dial failed")
			select {
			case <-time.After(wait):
				continue
			case <-c.done:
				return
			}
		}
		attempt = 0

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			conn.Close()
			return
		}
		c.conn = conn
		tables := make([]string, 0, len(c.subs))
		for table := range c.subs {
			tables = append(tables, table)
		}
		c.mu.Unlock()

		c.logger.Info().Str("url", c.url).Msg("Realtime connected")

		// Re-join every table we hold subscriptions for
		for _, table := range tables {
			if err := c.writeFrame(frame{Type: "join", Table: table}); err != nil {
				c.logger.Warn().Err(err).Str("table", table).Msg("Failed to join channel")
			}
		}

		stopPing := make(chan struct{})
		go c.pingLoop(conn, stopPing)
		c.readLoop(conn)
		close(stopPing)

		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
	}
}

func backoff(attempt int) time.Duration {
	wait := time.Duration(float64(minBackoff) * math.Pow(2, float64(attempt)))
	if wait > maxBackoff {
		wait = maxBackoff
	}
	return wait
}

// readLoop pumps frames from the websocket connection to subscribers
func (c *Client) readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().Msg("Realtime connection closed normally")
			} else {
				c.logger.Warn().Err(err).Msg("Realtime read error")
			}
			conn.Close()
			return
		}

		var f frame
		if err := json.Unmarshal(message, &f); err != nil {
			c.logger.Error().Err(err).Str("message", string(message)).Msg("Failed to unmarshal realtime frame")
			continue
		}

		if f.Type != "change" || f.Event == nil {
			continue
		}

		event := *f.Event
		if event.Table == "" {
			event.Table = f.Table
		}

		c.mu.Lock()
		for sub := range c.subs[event.Table] {
			select {
			case sub.events <- event:
			default:
			}
		}
		c.mu.Unlock()
	}
}

// pingLoop keeps the connection alive with control pings
func (c *Client) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(c.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		case <-stop:
			return
		case <-c.done:
			return
		}
	}
}

func (c *Client) writeFrame(f frame) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil // joined on next connect
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(f)
}

// Subscribe registers for events on a table, joining its channel if the
// connection is up.
func (c *Client) Subscribe(table string) (Subscription, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}

	sub := &brokerSub{
		table:  table,
		events: make(chan Event, subBuffer),
	}
	firstForTable := len(c.subs[table]) == 0
	if c.subs[table] == nil {
		c.subs[table] = make(map[*brokerSub]struct{})
	}
	c.subs[table][sub] = struct{}{}
	sub.unsub = func() { c.unsubscribe(table, sub) }
	c.mu.Unlock()

	if firstForTable {
		// rejoin on reconnect covers a failed write here
		if err := c.writeFrame(frame{Type: "join", Table: table}); err != nil {
			c.logger.Warn().Err(err).Str("table", table).Msg("Failed to join channel")
		}
	}
	return sub, nil
}

func (c *Client) unsubscribe(table string, sub *brokerSub) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if subs, ok := c.subs[table]; ok {
		if _, ok := subs[sub]; ok {
			delete(subs, sub)
			sub.once.Do(func() { close(sub.events) })
		}
		if len(subs) == 0 {
			delete(c.subs, table)
		}
	}
}

// Close tears down the connection and all subscriptions
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	conn := c.conn
	c.conn = nil
	for table, subs := range c.subs {
		for sub := range subs {
			sub.once.Do(func() { close(sub.events) })
		}
		delete(c.subs, table)
	}
	c.mu.Unlock()

	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		return conn.Close()
	}
	return nil
}

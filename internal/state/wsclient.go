package state

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"roombot/agent/internal/telemetry"
)

const (
	wsHandshakeTimeout = 5 * time.Second
	wsBackoffMin       = 250 * time.Millisecond
	wsBackoffMax       = 8 * time.Second
)

// WSClient consumes snapshots from an instrumentation layer that streams
// them over a websocket instead of rewriting a file. One snapshot per text
// frame; the newest frame-monotonic snapshot wins. The client reconnects
// with capped exponential backoff until closed.
type WSClient struct {
	url    string
	logger telemetry.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	latest    *Snapshot
	lastFrame uint64
	hasFrame  bool
	reads     uint64
	errors    uint64

	done chan struct{}
	once sync.Once
}

// DialSnapshots starts a client for url. The connection is established in
// the background; Latest returns nil until the first snapshot lands.
func DialSnapshots(url string, logger telemetry.Logger) *WSClient {
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	c := &WSClient{
		url:    url,
		logger: logger,
		done:   make(chan struct{}),
	}
	go c.run()
	return c
}

// Latest returns the most recent adopted snapshot.
func (c *WSClient) Latest() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

// Stats reports lifetime counters.
func (c *WSClient) Stats() ReaderStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ReaderStats{Reads: c.reads, Errors: c.errors, LastFrame: c.lastFrame}
}

// Close stops the read loop and drops the connection.
func (c *WSClient) Close() error {
	c.once.Do(func() { close(c.done) })
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *WSClient) run() {
	backoff := wsBackoffMin
	for {
		select {
		case <-c.done:
			return
		default:
		}

		dialer := websocket.Dialer{HandshakeTimeout: wsHandshakeTimeout}
		conn, _, err := dialer.Dial(c.url, nil)
		if err != nil {
			c.logger.Printf("snapshot stream dial %s: %v (retry in %s)", c.url, err, backoff)
			if !c.sleep(backoff) {
				return
			}
			backoff *= 2
			if backoff > wsBackoffMax {
				backoff = wsBackoffMax
			}
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		backoff = wsBackoffMin

		c.readLoop(conn)

		select {
		case <-c.done:
			return
		default:
			if !c.sleep(backoff) {
				return
			}
		}
	}
}

func (c *WSClient) readLoop(conn *websocket.Conn) {
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.logger.Printf("snapshot stream read: %v", err)
			}
			return
		}

		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			c.mu.Lock()
			c.errors++
			c.mu.Unlock()
			continue
		}
		snap.truncate()

		c.mu.Lock()
		if !c.hasFrame || snap.Frame > c.lastFrame {
			c.latest = &snap
			c.lastFrame = snap.Frame
			c.hasFrame = true
			c.reads++
		}
		c.mu.Unlock()
	}
}

func (c *WSClient) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-c.done:
		return false
	case <-timer.C:
		return true
	}
}

// Package vision receives video frames on a best-effort path, separate from
// the telemetry tick loop. Frame receipt may block with a bounded timeout;
// a timeout is logged and the previous frame stays in place.
package vision

import (
	"time"

	"github.com/banshee-data/roadview/internal/monitoring"
	"github.com/banshee-data/roadview/internal/timeutil"
)

// Frame is one received video frame. Data stays owned by the producer.
type Frame struct {
	Data      []byte
	Seq       uint64
	Timestamp time.Time
}

// DefaultRecvTimeout bounds how long one receive attempt may block.
const DefaultRecvTimeout = 100 * time.Millisecond

// Client consumes frames from a channel-backed source with drop-stale
// semantics: only the most recent frame matters.
type Client struct {
	src     <-chan Frame
	clock   timeutil.Clock
	timeout time.Duration

	connected bool
	last      *Frame
	timeouts  uint64
}

// NewClient creates a client over the given frame channel. A nil clock
// falls back to the real clock; a non-positive timeout falls back to
// DefaultRecvTimeout.
func NewClient(src <-chan Frame, clock timeutil.Clock, timeout time.Duration) *Client {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if timeout <= 0 {
		timeout = DefaultRecvTimeout
	}
	return &Client{src: src, clock: clock, timeout: timeout}
}

// Connected reports whether the client is attached to a source.
func (c *Client) Connected() bool { return c.connected && c.src != nil }

// Connect marks the client attached. It is a no-op without a source.
func (c *Client) Connect() bool {
	c.connected = c.src != nil
	return c.connected
}

// Disconnect detaches the client, keeping the last frame.
func (c *Client) Disconnect() { c.connected = false }

// Poll attempts to receive the next frame, blocking up to the configured
// timeout. On timeout the previous frame is returned and the miss is
// logged, not fatal. Returns nil until a first frame arrives.
func (c *Client) Poll() *Frame {
	if !c.Connected() {
		return c.last
	}
	select {
	case f, ok := <-c.src:
		if !ok {
			c.connected = false
			return c.last
		}
		c.last = &f
	case <-c.clock.After(c.timeout):
		c.timeouts++
		// A quiet producer times out every poll; log sparsely.
		if c.timeouts == 1 || c.timeouts%100 == 0 {
			monitoring.Logf("vision: frame receive timeout after %v (total %d)", c.timeout, c.timeouts)
		}
	}
	return c.last
}

// LastFrame returns the most recently received frame, or nil.
func (c *Client) LastFrame() *Frame { return c.last }

// Timeouts returns how many receive attempts have timed out.
func (c *Client) Timeouts() uint64 { return c.timeouts }

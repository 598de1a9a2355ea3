package vision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/roadview/internal/timeutil"
)

func TestConnectRequiresSource(t *testing.T) {
	t.Parallel()

	c := NewClient(nil, nil, 0)
	assert.False(t, c.Connect())
	assert.False(t, c.Connected())
	assert.Nil(t, c.Poll())
}

func TestPollDeliversFrames(t *testing.T) {
	t.Parallel()

	src := make(chan Frame, 2)
	c := NewClient(src, timeutil.RealClock{}, time.Second)
	require.True(t, c.Connect())

	src <- Frame{Data: []byte{1}, Seq: 1}
	src <- Frame{Data: []byte{2}, Seq: 2}

	f := c.Poll()
	require.NotNil(t, f)
	assert.Equal(t, uint64(1), f.Seq)

	f = c.Poll()
	require.NotNil(t, f)
	assert.Equal(t, uint64(2), f.Seq)
	assert.Equal(t, f, c.LastFrame())
}

func TestPollTimeoutKeepsLastFrame(t *testing.T) {
	t.Parallel()

	src := make(chan Frame, 1)
	c := NewClient(src, timeutil.RealClock{}, time.Millisecond)
	require.True(t, c.Connect())

	src <- Frame{Seq: 7}
	require.NotNil(t, c.Poll())

	// The source goes quiet; the stale frame stays in place.
	f := c.Poll()
	require.NotNil(t, f)
	assert.Equal(t, uint64(7), f.Seq)
	assert.Equal(t, uint64(1), c.Timeouts())
}

func TestPollTimeoutBeforeFirstFrame(t *testing.T) {
	t.Parallel()

	src := make(chan Frame)
	c := NewClient(src, timeutil.RealClock{}, time.Millisecond)
	require.True(t, c.Connect())

	assert.Nil(t, c.Poll())
	assert.Equal(t, uint64(1), c.Timeouts())
}

func TestClosedSourceDisconnects(t *testing.T) {
	t.Parallel()

	src := make(chan Frame, 1)
	c := NewClient(src, timeutil.RealClock{}, time.Second)
	require.True(t, c.Connect())

	src <- Frame{Seq: 3}
	require.NotNil(t, c.Poll())

	close(src)
	f := c.Poll()
	assert.False(t, c.Connected())
	require.NotNil(t, f)
	assert.Equal(t, uint64(3), f.Seq)
}

func TestDisconnectStopsReceiving(t *testing.T) {
	t.Parallel()

	src := make(chan Frame, 2)
	c := NewClient(src, timeutil.RealClock{}, time.Second)
	require.True(t, c.Connect())

	src <- Frame{Seq: 1}
	require.NotNil(t, c.Poll())

	c.Disconnect()
	src <- Frame{Seq: 2}
	f := c.Poll()
	require.NotNil(t, f)
	assert.Equal(t, uint64(1), f.Seq)
	assert.Zero(t, c.Timeouts())
}

func TestMockedTimeout(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Unix(0, 0))
	src := make(chan Frame)
	c := NewClient(src, clock, time.Second)
	require.True(t, c.Connect())

	done := make(chan *Frame, 1)
	go func() { done <- c.Poll() }()

	// Give the poll a moment to register its deadline, then expire it.
	time.Sleep(10 * time.Millisecond)
	clock.Advance(time.Second)

	select {
	case f := <-done:
		assert.Nil(t, f)
		assert.Equal(t, uint64(1), c.Timeouts())
	case <-time.After(2 * time.Second):
		t.Fatal("poll did not return after clock advance")
	}
}

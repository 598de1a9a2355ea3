package telemetry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPollSemantics(t *testing.T) {
	t.Parallel()

	t.Run("empty bus yields empty update set", func(t *testing.T) {
		t.Parallel()
		bus := NewBus()
		snap := bus.Poll()
		assert.True(t, snap.Updated.Empty())
		assert.Equal(t, uint64(1), snap.Tick)
	})

	t.Run("publish marks topic updated exactly once", func(t *testing.T) {
		t.Parallel()
		bus := NewBus()
		require.NoError(t, bus.Publish(CalibrationMsg{Roll: 0.01}))

		snap := bus.Poll()
		assert.True(t, snap.Updated.Has(TopicCalibration))
		assert.InDelta(t, 0.01, snap.Calibration.Roll, 1e-6)

		// The next poll sees no update but keeps the latest value.
		snap = bus.Poll()
		assert.True(t, snap.Updated.Empty())
		assert.InDelta(t, 0.01, snap.Calibration.Roll, 1e-6)
	})

	t.Run("latest value wins between polls", func(t *testing.T) {
		t.Parallel()
		bus := NewBus()
		require.NoError(t, bus.Publish(CarStateMsg{SpeedMPS: 10}))
		require.NoError(t, bus.Publish(CarStateMsg{SpeedMPS: 20}))

		snap := bus.Poll()
		assert.True(t, snap.Updated.Has(TopicCarState))
		assert.Equal(t, float32(20), snap.CarState.SpeedMPS)
	})

	t.Run("received and last-recv-tick bookkeeping", func(t *testing.T) {
		t.Parallel()
		bus := NewBus()
		bus.Poll() // tick 1
		require.NoError(t, bus.Publish(RadarMsg{LeadOne: LeadMsg{Valid: true}}))
		snap := bus.Poll() // tick 2

		assert.True(t, snap.Received(TopicRadar))
		assert.False(t, snap.Received(TopicModel))
		assert.Equal(t, uint64(2), snap.LastRecvTick(TopicRadar))
		assert.Equal(t, uint64(0), snap.LastRecvTick(TopicModel))

		// Silence does not advance the receipt tick.
		snap = bus.Poll() // tick 3
		assert.Equal(t, uint64(2), snap.LastRecvTick(TopicRadar))
	})

	t.Run("unknown message type is rejected", func(t *testing.T) {
		t.Parallel()
		bus := NewBus()
		err := bus.Publish(struct{}{})
		assert.Error(t, err)
	})

	t.Run("stats count per topic", func(t *testing.T) {
		t.Parallel()
		bus := NewBus()
		require.NoError(t, bus.Publish(ModelMsg{}))
		require.NoError(t, bus.Publish(ModelMsg{}))
		require.NoError(t, bus.Publish(CameraStateMsg{}))

		stats := bus.Stats()
		assert.Equal(t, uint64(3), stats.TotalPublished)
		assert.Equal(t, uint64(2), stats.PerTopic[TopicModel])
		assert.Equal(t, uint64(1), stats.PerTopic[TopicCameraState])
	})
}

func TestBusConcurrentPublish(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = bus.Publish(CarStateMsg{SpeedMPS: float32(n)})
			}
		}(i)
	}
	wg.Wait()

	stats := bus.Stats()
	assert.Equal(t, uint64(800), stats.TotalPublished)
	snap := bus.Poll()
	assert.True(t, snap.Updated.Has(TopicCarState))
}

func TestTopicNames(t *testing.T) {
	t.Parallel()

	topic, ok := TopicByName("modelV2")
	require.True(t, ok)
	assert.Equal(t, TopicModel, topic)
	assert.Equal(t, "modelV2", topic.String())

	_, ok = TopicByName("bogusTopic")
	assert.False(t, ok)
}

func TestCurveValid(t *testing.T) {
	t.Parallel()

	assert.False(t, Curve{}.Valid())
	assert.False(t, Curve{Distance: []float32{0, 1}, Lateral: []float32{0}, Vertical: []float32{0, 0}}.Valid())
	assert.True(t, Curve{
		Distance: []float32{0, 1},
		Lateral:  []float32{0, 0},
		Vertical: []float32{0, 0},
	}.Valid())
}

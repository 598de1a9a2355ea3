package telemetry

import (
	"fmt"
	"sync"
)

// Snapshot is the per-tick view handed to the consumer: the latest message
// per topic, the set of topics that changed since the previous poll, and
// per-topic receipt bookkeeping for staleness detection.
//
// A Snapshot is a value; message slices inside it (curves, per-core arrays)
// still belong to the publishing producer and must not be retained past the
// tick that received them.
type Snapshot struct {
	// Tick is the poll sequence number, starting at 1.
	Tick uint64

	// Updated marks topics whose message changed since the previous poll.
	Updated UpdateSet

	Calibration      CalibrationMsg
	Model            ModelMsg
	Radar            RadarMsg
	CarState         CarStateMsg
	DeviceState      DeviceStateMsg
	ControlsState    ControlsStateMsg
	DriverMonitoring DriverMonitoringMsg
	CameraState      CameraStateMsg

	received     [topicCount]bool
	lastRecvTick [topicCount]uint64
}

// Received reports whether any message for the topic has arrived since the
// bus was created (or reset).
func (s *Snapshot) Received(t Topic) bool { return s.received[t] }

// LastRecvTick returns the tick at which the topic last updated, or zero if
// it never has.
func (s *Snapshot) LastRecvTick(t Topic) uint64 { return s.lastRecvTick[t] }

// BusStats is a point-in-time snapshot of publish counters.
type BusStats struct {
	TotalPublished uint64
	PerTopic       [topicCount]uint64
}

// Bus retains the latest message per topic and tracks which topics changed
// between polls. All methods are safe for concurrent use; Publish never
// blocks on the consumer.
type Bus struct {
	mu sync.Mutex

	polls   uint64
	updated UpdateSet

	calibration      CalibrationMsg
	model            ModelMsg
	radar            RadarMsg
	carState         CarStateMsg
	deviceState      DeviceStateMsg
	controlsState    ControlsStateMsg
	driverMonitoring DriverMonitoringMsg
	cameraState      CameraStateMsg

	received     [topicCount]bool
	lastRecvTick [topicCount]uint64

	stats BusStats
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Publish replaces the latest value for the message's topic. The message
// type selects the topic; unknown types return an error.
func (b *Bus) Publish(msg interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var topic Topic
	switch m := msg.(type) {
	case CalibrationMsg:
		b.calibration, topic = m, TopicCalibration
	case ModelMsg:
		b.model, topic = m, TopicModel
	case RadarMsg:
		b.radar, topic = m, TopicRadar
	case CarStateMsg:
		b.carState, topic = m, TopicCarState
	case DeviceStateMsg:
		b.deviceState, topic = m, TopicDeviceState
	case ControlsStateMsg:
		b.controlsState, topic = m, TopicControlsState
	case DriverMonitoringMsg:
		b.driverMonitoring, topic = m, TopicDriverMonitoring
	case CameraStateMsg:
		b.cameraState, topic = m, TopicCameraState
	default:
		return fmt.Errorf("publish: unknown message type %T", msg)
	}

	b.updated.Add(topic)
	b.received[topic] = true
	b.stats.TotalPublished++
	b.stats.PerTopic[topic]++
	return nil
}

// Poll returns the latest-value snapshot and clears the updated set. It
// never blocks waiting for a topic. Topics updated since the previous poll
// are stamped with the new tick number.
func (b *Bus) Poll() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.polls++
	for t := Topic(0); t < topicCount; t++ {
		if b.updated.Has(t) {
			b.lastRecvTick[t] = b.polls
		}
	}

	snap := Snapshot{
		Tick:             b.polls,
		Updated:          b.updated,
		Calibration:      b.calibration,
		Model:            b.model,
		Radar:            b.radar,
		CarState:         b.carState,
		DeviceState:      b.deviceState,
		ControlsState:    b.controlsState,
		DriverMonitoring: b.driverMonitoring,
		CameraState:      b.cameraState,
		received:         b.received,
		lastRecvTick:     b.lastRecvTick,
	}
	b.updated = 0
	return snap
}

// Stats returns current publish counters.
func (b *Bus) Stats() BusStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

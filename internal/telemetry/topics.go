// Package telemetry defines the per-topic messages consumed by the scene
// pipeline and a non-blocking latest-value bus that delivers them.
//
// The bus follows a "latest value or none" model: producers publish from any
// goroutine, and the single consumer polls once per update tick, receiving a
// snapshot of the most recent message per topic together with the set of
// topics that changed since the previous poll. Messages are never queued;
// a fresh publish simply replaces the previous value.
package telemetry

// Topic identifies one asynchronous telemetry stream.
type Topic uint8

const (
	TopicCalibration Topic = iota
	TopicModel
	TopicRadar
	TopicCarState
	TopicDeviceState
	TopicControlsState
	TopicDriverMonitoring
	TopicCameraState

	topicCount
)

// TopicCount is the number of defined topics.
const TopicCount = int(topicCount)

var topicNames = [topicCount]string{
	"liveCalibration",
	"modelV2",
	"radarState",
	"carState",
	"deviceState",
	"controlsState",
	"driverMonitoringState",
	"roadCameraState",
}

func (t Topic) String() string {
	if int(t) < len(topicNames) {
		return topicNames[t]
	}
	return "unknown"
}

// TopicByName resolves a topic from its wire name. ok is false for names
// that do not map to a known topic.
func TopicByName(name string) (Topic, bool) {
	for i, n := range topicNames {
		if n == name {
			return Topic(i), true
		}
	}
	return 0, false
}

// UpdateSet is a bitset of topics that changed during one poll interval.
type UpdateSet uint16

// Add marks a topic as updated.
func (s *UpdateSet) Add(t Topic) { *s |= 1 << t }

// Has reports whether the topic is marked updated.
func (s UpdateSet) Has(t Topic) bool { return s&(1<<t) != 0 }

// Empty reports whether no topic is marked.
func (s UpdateSet) Empty() bool { return s == 0 }

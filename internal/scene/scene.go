package scene

import "github.com/banshee-data/roadview/internal/telemetry"

// Status is the rolled-up driving status consumed by the renderer for
// overall visual treatment.
type Status string

const (
	StatusDisengaged Status = "disengaged"
	StatusEngaged    Status = "engaged"
	StatusWarning    Status = "warning"
	StatusAlert      Status = "alert"
	StatusBrake      Status = "brake"
	StatusCruise     Status = "cruise"
)

// Scene is the aggregate of all derived geometry and scalar telemetry
// consumed by the renderer. The Synchronizer is its single owner: all
// mutation happens on the tick path, and consumers must only read between
// ticks. Fields for topics that did not update this tick keep their
// previous values; they are stale but valid, never cleared.
//
// Scene is a plain value with no interior pointers, so copying it yields an
// independent snapshot.
type Scene struct {
	// WorldObjectsVisible latches true on the first calibration message
	// of a session; geometry is not drawable before that.
	WorldObjectsVisible bool `json:"world_objects_visible"`

	// Derived geometry.
	TrackVertices    Polygon                                  `json:"track_vertices"`
	LaneLineVertices [telemetry.LaneLineCount]Polygon         `json:"lane_line_vertices"`
	LaneLineProbs    [telemetry.LaneLineCount]float32         `json:"lane_line_probs"`
	RoadEdgeVertices [telemetry.RoadEdgeCount]Polygon         `json:"road_edge_vertices"`
	RoadEdgeStds     [telemetry.RoadEdgeCount]float32         `json:"road_edge_stds"`
	LeadVertices     [2]Vertex                                `json:"lead_vertices"`
	Leads            [2]telemetry.LeadMsg                     `json:"leads"`
	LeadRadarVertex  Vertex                                   `json:"lead_radar_vertex"`
	LeadRadarValid   bool                                     `json:"lead_radar_valid"`

	// Session state.
	Started      bool   `json:"started"`
	Ignition     bool   `json:"ignition"`
	StartedTick  uint64 `json:"started_tick"`
	Status       Status `json:"status"`

	// Vehicle scalars.
	SpeedMPS         float32 `json:"speed_mps"`
	SteeringAngleDeg float32 `json:"steering_angle_deg"`
	GearShifter      string  `json:"gear_shifter"`
	LeftBlinker      bool    `json:"left_blinker"`
	RightBlinker     bool    `json:"right_blinker"`
	BlinkerRate      int     `json:"blinker_rate"`
	LeftBlindspot    bool    `json:"left_blindspot"`
	RightBlindspot   bool    `json:"right_blindspot"`
	BrakePressed     bool    `json:"brake_pressed"`
	BrakeLights      bool    `json:"brake_lights"`
	StandStill       bool    `json:"stand_still"`
	CruiseActive     bool    `json:"cruise_active"`
	CruiseSpeedSet   float32 `json:"cruise_speed_set"`
	CruiseGap        int     `json:"cruise_gap"`
	TirePressureFL   float32 `json:"tire_pressure_fl"`
	TirePressureFR   float32 `json:"tire_pressure_fr"`
	TirePressureRL   float32 `json:"tire_pressure_rl"`
	TirePressureRR   float32 `json:"tire_pressure_rr"`

	// Controls / monitoring scalars, refreshed at a fixed sub-rate.
	Engageable bool `json:"engageable"`
	DMActive   bool `json:"dm_active"`

	// Alert state from the controls process.
	AlertStatus telemetry.AlertStatus `json:"alert_status"`
	AlertText1  string                `json:"alert_text_1"`
	AlertText2  string                `json:"alert_text_2"`

	// Device scalars.
	CPUPercent      float32 `json:"cpu_percent"`
	CPUTempC        float32 `json:"cpu_temp_c"`
	BatteryTempC    float32 `json:"battery_temp_c"`
	AmbientTempC    float32 `json:"ambient_temp_c"`
	BatteryPercent  int     `json:"battery_percent"`
	FanSpeedPercent int     `json:"fan_speed_percent"`

	// LightSensor is the exposure-derived ambient light level in [0, 1].
	LightSensor float32 `json:"light_sensor"`

	// StaleTopics marks topics that have gone silent beyond their
	// expected interval while the session is active. Visual treatment is
	// the renderer's decision.
	StaleTopics telemetry.UpdateSet `json:"stale_topics"`
}

package telemetry

// Curve is a borrowed, cycle-scoped view over one perception curve: parallel
// samples of longitudinal distance (non-decreasing), lateral offset and
// vertical offset, all in meters in the calibrated vehicle frame. The
// pipeline must not retain the backing slices past the tick that delivered
// them; each poll re-delivers the latest message.
type Curve struct {
	Distance []float32 `json:"distance"`
	Lateral  []float32 `json:"lateral"`
	Vertical []float32 `json:"vertical"`
}

// Len returns the number of usable samples.
func (c Curve) Len() int { return len(c.Distance) }

// Valid reports whether the curve has at least one sample and consistent
// slice lengths. Invalid curves produce no geometry updates.
func (c Curve) Valid() bool {
	n := len(c.Distance)
	return n > 0 && len(c.Lateral) == n && len(c.Vertical) == n
}

// CalibrationMsg carries the camera mount orientation as Euler angles in
// radians, reported relative to the vehicle frame.
type CalibrationMsg struct {
	Roll  float32 `json:"roll"`
	Pitch float32 `json:"pitch"`
	Yaw   float32 `json:"yaw"`
}

// LaneLineCount and RoadEdgeCount are fixed by the perception model output.
const (
	LaneLineCount = 4
	RoadEdgeCount = 2
)

// ModelMsg is the perception model output consumed by the pipeline: the
// predicted path, lane lines with confidence, and road edges with
// uncertainty.
type ModelMsg struct {
	Position      Curve                    `json:"position"`
	LaneLines     [LaneLineCount]Curve     `json:"lane_lines"`
	LaneLineProbs [LaneLineCount]float32   `json:"lane_line_probs"`
	RoadEdges     [RoadEdgeCount]Curve     `json:"road_edges"`
	RoadEdgeStds  [RoadEdgeCount]float32   `json:"road_edge_stds"`
}

// LeadMsg is one tracked lead vehicle slot. LatRel uses the tracking frame
// convention of positive-left; the render frame flips the sign.
type LeadMsg struct {
	DistRel float32 `json:"dist_rel"`
	LatRel  float32 `json:"lat_rel"`
	Valid   bool    `json:"valid"`
	Radar   bool    `json:"radar"`
}

// RadarMsg carries the two fused lead slots.
type RadarMsg struct {
	LeadOne LeadMsg `json:"lead_one"`
	LeadTwo LeadMsg `json:"lead_two"`
}

// CarStateMsg carries scalar vehicle state. Speeds are m/s, angles degrees.
type CarStateMsg struct {
	SpeedMPS         float32 `json:"speed_mps"`
	SteeringAngleDeg float32 `json:"steering_angle_deg"`
	GearShifter      string  `json:"gear_shifter"`
	LeftBlinker      bool    `json:"left_blinker"`
	RightBlinker     bool    `json:"right_blinker"`
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
}

// DeviceStateMsg carries device and session state. The per-core arrays may
// arrive empty; consumers skip the dependent fields in that case.
type DeviceStateMsg struct {
	Started         bool      `json:"started"`
	Ignition        bool      `json:"ignition"`
	WideCamera      bool      `json:"wide_camera"`
	ViewportWidth   int       `json:"viewport_width"`
	ViewportHeight  int       `json:"viewport_height"`
	CPUUsagePercent []float32 `json:"cpu_usage_percent"`
	CPUTempC        []float32 `json:"cpu_temp_c"`
	BatteryTempC    float32   `json:"battery_temp_c"`
	AmbientTempC    float32   `json:"ambient_temp_c"`
	BatteryPercent  int       `json:"battery_percent"`
	FanSpeedPercent int       `json:"fan_speed_percent"`
}

// AlertStatus is the severity reported by the controls process.
type AlertStatus int

const (
	AlertNone AlertStatus = iota
	AlertUserPrompt
	AlertCritical
)

// ControlsStateMsg carries engagement and alert state.
type ControlsStateMsg struct {
	Enabled     bool        `json:"enabled"`
	Engageable  bool        `json:"engageable"`
	AlertStatus AlertStatus `json:"alert_status"`
	AlertText1  string      `json:"alert_text_1"`
	AlertText2  string      `json:"alert_text_2"`
}

// DriverMonitoringMsg carries the driver monitoring mode flag.
type DriverMonitoringMsg struct {
	ActiveMode bool `json:"active_mode"`
}

// CameraStateMsg carries road camera exposure state used to derive the
// ambient light scalar.
type CameraStateMsg struct {
	Gain       float32 `json:"gain"`
	IntegLines int     `json:"integ_lines"`
}

package scene

import (
	"github.com/banshee-data/roadview/internal/telemetry"
)

// Synchronizer owns the Scene and refreshes it once per tick from a bus
// snapshot. Recomputation is strictly incremental per topic: a topic that
// did not update leaves its derived fields untouched. No other component
// holds a mutable reference to the Scene.
type Synchronizer struct {
	cfg  SyncConfig
	proj *Projector

	scene Scene
	tick  uint64

	controlsEnabled bool
	prevStarted     bool

	// OnSessionStart, when set, is invoked on each onroad transition
	// after the session state has been reset. OnSessionEnd is invoked on
	// the matching offroad transition.
	OnSessionStart func()
	OnSessionEnd   func()
}

// NewSynchronizer creates a synchronizer with an empty scene.
func NewSynchronizer(cfg SyncConfig) *Synchronizer {
	return &Synchronizer{
		cfg:  cfg,
		proj: NewProjector(cfg.WideCamera, cfg.ViewportWidth, cfg.ViewportHeight, cfg.YOffset),
	}
}

// Scene returns the owned scene. Consumers must treat it as read-only and
// read it only between ticks; use Snapshot for a concurrent-safe copy.
func (s *Synchronizer) Scene() *Scene { return &s.scene }

// Snapshot returns an independent copy of the scene.
func (s *Synchronizer) Snapshot() Scene { return s.scene }

// Projector exposes the projection engine, for viewport resizes driven by
// the embedding process.
func (s *Synchronizer) Projector() *Projector { return s.proj }

// dispatch maps updated topics to their handlers, in evaluation order:
// calibration before geometry, device state before the session-transition
// check, model before radar so lead projection sees the freshest curve.
var dispatch = []struct {
	topic telemetry.Topic
	fn    func(*Synchronizer, *telemetry.Snapshot)
}{
	{telemetry.TopicCalibration, (*Synchronizer).updateCalibration},
	{telemetry.TopicDeviceState, (*Synchronizer).updateDeviceState},
	{telemetry.TopicCarState, (*Synchronizer).updateCarState},
	{telemetry.TopicControlsState, (*Synchronizer).updateControlsState},
	{telemetry.TopicCameraState, (*Synchronizer).updateCameraState},
	{telemetry.TopicModel, (*Synchronizer).updateModel},
	{telemetry.TopicRadar, (*Synchronizer).updateLeads},
}

// Tick runs one synchronization step. It must not run concurrently with
// scene reads; the caller drives it from a single update loop.
func (s *Synchronizer) Tick(snap telemetry.Snapshot) {
	s.tick++

	if s.scene.BlinkerRate > 0 {
		s.scene.BlinkerRate--
	}

	for _, h := range dispatch {
		if snap.Updated.Has(h.topic) {
			h.fn(s, &snap)
		}
	}

	// Sub-rate cosmetic fields refresh on the tick schedule regardless
	// of message arrival.
	if s.cfg.SubRateTicks > 0 && s.tick%uint64(s.cfg.SubRateTicks) == 0 {
		s.scene.Engageable = snap.ControlsState.Engageable
		s.scene.DMActive = snap.DriverMonitoring.ActiveMode
	}

	s.updateSession(&snap)
	s.updateStatus(&snap)
	s.updateStaleness(&snap)
}

func (s *Synchronizer) updateCalibration(snap *telemetry.Snapshot) {
	c := snap.Calibration
	s.proj.Calib.Update(c.Roll, c.Pitch, c.Yaw)
	s.scene.WorldObjectsVisible = true
}

func (s *Synchronizer) updateDeviceState(snap *telemetry.Snapshot) {
	d := snap.DeviceState
	s.scene.Ignition = d.Ignition
	s.scene.Started = d.Started && d.Ignition

	if w, h := s.proj.Viewport(); d.ViewportWidth > 0 && d.ViewportHeight > 0 &&
		(d.ViewportWidth != w || d.ViewportHeight != h) {
		s.proj.Resize(d.ViewportWidth, d.ViewportHeight)
	}

	// Per-core arrays may arrive empty; skip the derived averages then.
	if n := len(d.CPUUsagePercent); n > 0 {
		var sum float32
		for _, v := range d.CPUUsagePercent {
			sum += v
		}
		s.scene.CPUPercent = sum / float32(n)
	}
	if n := len(d.CPUTempC); n > 0 {
		var sum float32
		for _, v := range d.CPUTempC {
			sum += v
		}
		s.scene.CPUTempC = sum / float32(n)
	}
	s.scene.BatteryTempC = d.BatteryTempC
	s.scene.AmbientTempC = d.AmbientTempC
	s.scene.BatteryPercent = d.BatteryPercent
	s.scene.FanSpeedPercent = d.FanSpeedPercent
}

func (s *Synchronizer) updateCarState(snap *telemetry.Snapshot) {
	c := snap.CarState

	// Blinker transitions retrigger the blink cycle. The scene still
	// holds the previous tick's values at this point.
	if s.scene.LeftBlinker != c.LeftBlinker || s.scene.RightBlinker != c.RightBlinker {
		s.scene.BlinkerRate = s.cfg.BlinkerRetrigger
	}

	s.scene.SpeedMPS = c.SpeedMPS
	s.scene.SteeringAngleDeg = c.SteeringAngleDeg
	s.scene.GearShifter = c.GearShifter
	s.scene.LeftBlinker = c.LeftBlinker
	s.scene.RightBlinker = c.RightBlinker
	s.scene.LeftBlindspot = c.LeftBlindspot
	s.scene.RightBlindspot = c.RightBlindspot
	s.scene.BrakePressed = c.BrakePressed
	s.scene.BrakeLights = c.BrakeLights
	s.scene.StandStill = c.StandStill
	s.scene.CruiseActive = c.CruiseActive
	s.scene.CruiseSpeedSet = c.CruiseSpeedSet
	s.scene.CruiseGap = c.CruiseGap
	s.scene.TirePressureFL = c.TirePressureFL
	s.scene.TirePressureFR = c.TirePressureFR
	s.scene.TirePressureRL = c.TirePressureRL
	s.scene.TirePressureRR = c.TirePressureRR
}

func (s *Synchronizer) updateControlsState(snap *telemetry.Snapshot) {
	c := snap.ControlsState
	s.controlsEnabled = c.Enabled
	s.scene.AlertStatus = c.AlertStatus
	s.scene.AlertText1 = c.AlertText1
	s.scene.AlertText2 = c.AlertText2
}

func (s *Synchronizer) updateCameraState(snap *telemetry.Snapshot) {
	s.scene.LightSensor = LightLevel(snap.CameraState.Gain, snap.CameraState.IntegLines)
}

func (s *Synchronizer) updateModel(snap *telemetry.Snapshot) {
	model := &snap.Model
	pos := model.Position
	if !pos.Valid() {
		return
	}

	natural := clamp(pos.Distance[pos.Len()-1], MinDrawDistance, MaxDrawDistance)

	for i := 0; i < telemetry.LaneLineCount; i++ {
		s.scene.LaneLineProbs[i] = model.LaneLineProbs[i]
		line := model.LaneLines[i]
		if !line.Valid() {
			continue
		}
		halfWidth := LaneLineWidthScale * model.LaneLineProbs[i]
		if poly, ok := s.proj.SampleStrip(line, halfWidth, 0, MaxIndex(line, natural)); ok {
			s.scene.LaneLineVertices[i] = poly
		}
	}

	for i := 0; i < telemetry.RoadEdgeCount; i++ {
		s.scene.RoadEdgeStds[i] = model.RoadEdgeStds[i]
		edge := model.RoadEdges[i]
		if !edge.Valid() {
			continue
		}
		if poly, ok := s.proj.SampleStrip(edge, RoadEdgeHalfWidth, 0, MaxIndex(edge, natural)); ok {
			s.scene.RoadEdgeVertices[i] = poly
		}
	}

	maxDistance := s.pathDrawDistance(natural, snap.Radar.LeadOne)
	if poly, ok := s.proj.SampleStrip(pos, PathHalfWidth, LeadHeight, MaxIndex(pos, maxDistance)); ok {
		s.scene.TrackVertices = poly
	}
}

// pathDrawDistance truncates path geometry near a followed vehicle so the
// drawn band visually ends at the lead.
func (s *Synchronizer) pathDrawDistance(natural float32, lead telemetry.LeadMsg) float32 {
	if !lead.Valid {
		return natural
	}
	t := s.cfg.Truncation
	leadDist := lead.DistRel * t.LeadScale
	margin := leadDist * t.ComfortFraction
	if margin > t.ComfortCapMeters {
		margin = t.ComfortCapMeters
	}
	return clamp(leadDist-margin, 0, natural)
}

func (s *Synchronizer) updateLeads(snap *telemetry.Snapshot) {
	// The reference curve falls back to the latest model of the session,
	// if any; leads project at road level otherwise.
	var curve *telemetry.Curve
	if snap.Received(telemetry.TopicModel) && snap.Model.Position.Valid() {
		curve = &snap.Model.Position
	}

	leads := [2]telemetry.LeadMsg{snap.Radar.LeadOne, snap.Radar.LeadTwo}
	for i, lead := range leads {
		if lead.Valid {
			v, _ := s.proj.LocateLead(lead, curve)
			s.scene.LeadVertices[i] = v
		}
		s.scene.Leads[i] = lead
	}

	// The radar-confirmed lead tracks independently of the fused one.
	if one := snap.Radar.LeadOne; one.Valid && one.Radar {
		v, _ := s.proj.LocateLead(one, curve)
		s.scene.LeadRadarVertex = v
		s.scene.LeadRadarValid = true
	} else {
		s.scene.LeadRadarValid = false
	}
}

// updateSession handles onroad/offroad transitions: a rising started edge
// begins a new drive session, which re-reads the camera variant, resets the
// world-visibility latch and notifies the session hook.
func (s *Synchronizer) updateSession(snap *telemetry.Snapshot) {
	if s.scene.Started == s.prevStarted {
		return
	}
	s.prevStarted = s.scene.Started
	if !s.scene.Started {
		if s.OnSessionEnd != nil {
			s.OnSessionEnd()
		}
		return
	}

	s.scene.Status = StatusDisengaged
	s.scene.StartedTick = s.tick
	s.scene.WorldObjectsVisible = false
	s.proj.SetWideCamera(snap.DeviceState.WideCamera)

	if s.OnSessionStart != nil {
		s.OnSessionStart()
	}
}

// updateStatus rolls alert, brake and cruise state into a single status, in
// priority order.
func (s *Synchronizer) updateStatus(snap *telemetry.Snapshot) {
	if !s.scene.Started || !snap.Updated.Has(telemetry.TopicControlsState) {
		return
	}
	switch {
	case s.scene.AlertStatus == telemetry.AlertUserPrompt:
		s.scene.Status = StatusWarning
	case s.scene.AlertStatus == telemetry.AlertCritical:
		s.scene.Status = StatusAlert
	case s.scene.BrakePressed:
		s.scene.Status = StatusBrake
	case s.scene.CruiseActive:
		s.scene.Status = StatusCruise
	case s.controlsEnabled:
		s.scene.Status = StatusEngaged
	default:
		s.scene.Status = StatusDisengaged
	}
}

// staleWatched is the set of topics expected to keep flowing while onroad.
var staleWatched = []telemetry.Topic{
	telemetry.TopicCalibration,
	telemetry.TopicModel,
	telemetry.TopicRadar,
	telemetry.TopicCarState,
}

func (s *Synchronizer) updateStaleness(snap *telemetry.Snapshot) {
	var stale telemetry.UpdateSet
	if s.scene.Started && s.cfg.StaleTicks > 0 {
		for _, t := range staleWatched {
			if snap.Tick-snap.LastRecvTick(t) > s.cfg.StaleTicks {
				stale.Add(t)
			}
		}
	}
	s.scene.StaleTopics = stale
}

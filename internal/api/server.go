// Package api exposes the scene snapshot and telemetry ingest over HTTP.
// The scene endpoint serves a copy published between ticks; it never reads
// the synchronizer's live scene.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/banshee-data/roadview/internal/httputil"
	"github.com/banshee-data/roadview/internal/monitoring"
	"github.com/banshee-data/roadview/internal/scene"
	"github.com/banshee-data/roadview/internal/telemetry"
	"github.com/banshee-data/roadview/internal/units"
	"github.com/banshee-data/roadview/internal/version"
	"github.com/banshee-data/roadview/internal/vision"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"
const colorYellow = "\033[33m"

// Server handles scene reads and telemetry ingest.
type Server struct {
	bus   *telemetry.Bus
	units string

	frames   chan<- vision.Frame
	frameSeq atomic.Uint64

	mu     sync.RWMutex
	latest scene.Scene
	tick   uint64
}

// NewServer creates a server publishing into the given bus.
func NewServer(bus *telemetry.Bus, displayUnits string) *Server {
	if !units.IsValid(displayUnits) {
		displayUnits = units.MPS
	}
	return &Server{bus: bus, units: displayUnits}
}

// AttachFrameSink routes frames posted to /api/frame into the given
// channel. Best-effort: a full channel drops the frame.
func (s *Server) AttachFrameSink(ch chan<- vision.Frame) {
	s.frames = ch
}

// PublishScene stores a scene copy for serving. Called by the tick loop
// after each completed tick.
func (s *Server) PublishScene(sc scene.Scene, tick uint64) {
	s.mu.Lock()
	s.latest = sc
	s.tick = tick
	s.mu.Unlock()
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	}
}

func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf("%s%s%s %s %s %s", colorCyan, r.Method, colorReset,
			r.URL.Path, statusCodeColor(lrw.statusCode), time.Since(start))
	})
}

// Routes returns the HTTP handler with all endpoints registered.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/scene", s.handleScene)
	mux.HandleFunc("POST /api/telemetry/{topic}", s.handleTelemetry)
	mux.HandleFunc("POST /api/frame", s.handleFrame)
	return logRequest(mux)
}

// handleFrame ingests one video frame for the vision path. Frames are
// best-effort: when the sink is full the frame is dropped and the drop is
// reported, never an error.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if s.frames == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "frame ingest disabled")
		return
	}

	const maxFrameSize = 8 << 20
	data, err := io.ReadAll(io.LimitReader(r.Body, maxFrameSize))
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("read frame: %v", err))
		return
	}
	if len(data) == 0 {
		httputil.BadRequest(w, "empty frame")
		return
	}

	frame := vision.Frame{Data: data, Seq: s.frameSeq.Add(1), Timestamp: time.Now()}
	dropped := false
	select {
	case s.frames <- frame:
	default:
		dropped = true
	}

	httputil.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"seq":     frame.Seq,
		"dropped": dropped,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	tick := s.tick
	s.mu.RUnlock()
	stats := s.bus.Stats()

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"version":   version.Version,
		"tick":      tick,
		"published": stats.TotalPublished,
	})
}

// sceneResponse wraps the scene with display-converted speed.
type sceneResponse struct {
	Tick         uint64      `json:"tick"`
	Units        string      `json:"units"`
	SpeedDisplay float64     `json:"speed_display"`
	Scene        scene.Scene `json:"scene"`
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	displayUnits := s.units
	if u := r.URL.Query().Get("units"); u != "" {
		if !units.IsValid(u) {
			httputil.BadRequest(w, fmt.Sprintf("invalid units %q", u))
			return
		}
		displayUnits = u
	}

	s.mu.RLock()
	resp := sceneResponse{
		Tick:         s.tick,
		Units:        displayUnits,
		SpeedDisplay: units.ConvertSpeed(float64(s.latest.SpeedMPS), displayUnits),
		Scene:        s.latest,
	}
	s.mu.RUnlock()

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// handleTelemetry ingests one message for the named topic and publishes it
// to the bus. This is an in-process adapter for producers that speak HTTP;
// the bus itself stays transport-agnostic.
func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	topic, ok := telemetry.TopicByName(r.PathValue("topic"))
	if !ok {
		httputil.NotFound(w, fmt.Sprintf("unknown topic %q", r.PathValue("topic")))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("read body: %v", err))
		return
	}

	msg, err := decodeTopicMessage(topic, body)
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("decode %s: %v", topic, err))
		return
	}
	if err := s.bus.Publish(msg); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("publish: %v", err))
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"topic": topic.String()})
}

func decodeTopicMessage(topic telemetry.Topic, body []byte) (interface{}, error) {
	unmarshal := func(v interface{}) (interface{}, error) {
		if err := json.Unmarshal(body, v); err != nil {
			return nil, err
		}
		return v, nil
	}
	var msg interface{}
	var err error
	switch topic {
	case telemetry.TopicCalibration:
		msg, err = unmarshal(&telemetry.CalibrationMsg{})
	case telemetry.TopicModel:
		msg, err = unmarshal(&telemetry.ModelMsg{})
	case telemetry.TopicRadar:
		msg, err = unmarshal(&telemetry.RadarMsg{})
	case telemetry.TopicCarState:
		msg, err = unmarshal(&telemetry.CarStateMsg{})
	case telemetry.TopicDeviceState:
		msg, err = unmarshal(&telemetry.DeviceStateMsg{})
	case telemetry.TopicControlsState:
		msg, err = unmarshal(&telemetry.ControlsStateMsg{})
	case telemetry.TopicDriverMonitoring:
		msg, err = unmarshal(&telemetry.DriverMonitoringMsg{})
	case telemetry.TopicCameraState:
		msg, err = unmarshal(&telemetry.CameraStateMsg{})
	default:
		return nil, fmt.Errorf("topic %d has no message type", topic)
	}
	if err != nil {
		return nil, err
	}
	return deref(msg), nil
}

// deref unwraps the pointer produced by decoding; the bus publishes values.
func deref(msg interface{}) interface{} {
	switch m := msg.(type) {
	case *telemetry.CalibrationMsg:
		return *m
	case *telemetry.ModelMsg:
		return *m
	case *telemetry.RadarMsg:
		return *m
	case *telemetry.CarStateMsg:
		return *m
	case *telemetry.DeviceStateMsg:
		return *m
	case *telemetry.ControlsStateMsg:
		return *m
	case *telemetry.DriverMonitoringMsg:
		return *m
	case *telemetry.CameraStateMsg:
		return *m
	}
	return msg
}



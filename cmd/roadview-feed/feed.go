package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/banshee-data/roadview/internal/httputil"
	"github.com/banshee-data/roadview/internal/monitoring"
	"github.com/banshee-data/roadview/internal/timeutil"
)

// feedLine is one replay record: the topic name as the ingest endpoint
// expects it, plus the raw message payload.
type feedLine struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

// FeedStats summarizes one replay run.
type FeedStats struct {
	Posted   int
	Rejected int
	Elapsed  time.Duration
}

// Feeder posts telemetry lines to a roadviewd ingest endpoint.
type Feeder struct {
	client   httputil.HTTPClient
	baseURL  string
	interval time.Duration
	clock    timeutil.Clock
}

// NewFeeder creates a feeder targeting the given base URL.
func NewFeeder(client httputil.HTTPClient, baseURL string, interval time.Duration, clock timeutil.Clock) *Feeder {
	return &Feeder{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		interval: interval,
		clock:    clock,
	}
}

// Run replays all lines from r. Blank lines and #-comments are skipped.
// Malformed lines abort the run; server rejections are counted and the
// replay continues, since a mid-stream decode error on one topic should
// not lose the rest of the recording.
func (f *Feeder) Run(r io.Reader) (FeedStats, error) {
	var stats FeedStats
	start := f.clock.Now()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}

		var line feedLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return stats, fmt.Errorf("line %d: parse: %w", lineNo, err)
		}
		if line.Topic == "" {
			return stats, fmt.Errorf("line %d: missing topic", lineNo)
		}

		if stats.Posted+stats.Rejected > 0 && f.interval > 0 {
			f.clock.Sleep(f.interval)
		}

		accepted, err := f.post(line)
		if err != nil {
			return stats, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if accepted {
			stats.Posted++
		} else {
			stats.Rejected++
			monitoring.Logf("feed: line %d: server rejected %s message", lineNo, line.Topic)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read input: %w", err)
	}

	stats.Elapsed = f.clock.Since(start)
	return stats, nil
}

// post sends one line and reports whether the server accepted it.
func (f *Feeder) post(line feedLine) (bool, error) {
	url := f.baseURL + "/api/telemetry/" + line.Topic
	resp, err := f.client.Post(url, "application/json", bytes.NewReader(line.Data))
	if err != nil {
		return false, fmt.Errorf("post %s: %w", line.Topic, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

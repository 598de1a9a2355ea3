package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/roadview/internal/httputil"
	"github.com/banshee-data/roadview/internal/timeutil"
)

func TestFeederPostsLinesInOrder(t *testing.T) {
	t.Parallel()

	client := httputil.NewMockHTTPClient()
	client.AddResponse(202, `{"topic":"carState"}`)
	client.AddResponse(202, `{"topic":"modelV2"}`)

	f := NewFeeder(client, "http://127.0.0.1:8080/", 0, timeutil.RealClock{})
	stats, err := f.Run(strings.NewReader(
		`{"topic": "carState", "data": {"speed_mps": 12.5}}` + "\n" +
			`{"topic": "modelV2", "data": {"position": {"distance": [0], "lateral": [0], "vertical": [0]}}}` + "\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Posted)
	assert.Zero(t, stats.Rejected)
	require.Len(t, client.Requests, 2)
	assert.Equal(t, "/api/telemetry/carState", client.Requests[0].URL.Path)
	assert.Equal(t, "/api/telemetry/modelV2", client.Requests[1].URL.Path)
	assert.JSONEq(t, `{"speed_mps": 12.5}`, string(client.Bodies[0]))
}

func TestFeederSkipsBlanksAndComments(t *testing.T) {
	t.Parallel()

	client := httputil.NewMockHTTPClient()
	client.AddResponse(202, `{}`)

	f := NewFeeder(client, "http://127.0.0.1:8080", 0, timeutil.RealClock{})
	stats, err := f.Run(strings.NewReader("\n# recorded 2026-08-01\n" +
		`{"topic": "carState", "data": {}}` + "\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Posted)
	assert.Len(t, client.Requests, 1)
}

func TestFeederCountsRejections(t *testing.T) {
	t.Parallel()

	client := httputil.NewMockHTTPClient()
	client.AddResponse(400, `{"error":"decode"}`)
	client.AddResponse(202, `{}`)

	f := NewFeeder(client, "http://127.0.0.1:8080", 0, timeutil.RealClock{})
	stats, err := f.Run(strings.NewReader(
		`{"topic": "carState", "data": {"speed_mps": "bad"}}` + "\n" +
			`{"topic": "carState", "data": {}}` + "\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Posted)
	assert.Equal(t, 1, stats.Rejected)
}

func TestFeederStopsOnMalformedLine(t *testing.T) {
	t.Parallel()

	f := NewFeeder(httputil.NewMockHTTPClient(), "http://127.0.0.1:8080", 0, timeutil.RealClock{})
	_, err := f.Run(strings.NewReader("{not json}\n"))
	assert.ErrorContains(t, err, "line 1")
}

func TestFeederRequiresTopic(t *testing.T) {
	t.Parallel()

	f := NewFeeder(httputil.NewMockHTTPClient(), "http://127.0.0.1:8080", 0, timeutil.RealClock{})
	_, err := f.Run(strings.NewReader(`{"data": {}}` + "\n"))
	assert.ErrorContains(t, err, "missing topic")
}

func TestFeederStopsOnTransportError(t *testing.T) {
	t.Parallel()

	client := httputil.NewMockHTTPClient()
	client.AddErrorResponse(errors.New("connection refused"))

	f := NewFeeder(client, "http://127.0.0.1:8080", 0, timeutil.RealClock{})
	_, err := f.Run(strings.NewReader(`{"topic": "carState", "data": {}}` + "\n"))
	assert.ErrorContains(t, err, "connection refused")
}

func TestFeederPacesBetweenMessages(t *testing.T) {
	t.Parallel()

	client := httputil.NewMockHTTPClient()
	client.AddResponse(202, `{}`)
	client.AddResponse(202, `{}`)
	client.AddResponse(202, `{}`)

	clock := timeutil.NewMockClock(time.Unix(0, 0))
	f := NewFeeder(client, "http://127.0.0.1:8080", 50*time.Millisecond, clock)
	stats, err := f.Run(strings.NewReader(
		`{"topic": "carState", "data": {}}` + "\n" +
			`{"topic": "carState", "data": {}}` + "\n" +
			`{"topic": "carState", "data": {}}` + "\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Posted)

	// No pause before the first message, one between each pair after.
	assert.Equal(t, []time.Duration{50 * time.Millisecond, 50 * time.Millisecond}, clock.Sleeps())
}

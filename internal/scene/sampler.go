package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/banshee-data/roadview/internal/monitoring"
	"github.com/banshee-data/roadview/internal/telemetry"
)

// PolygonCapacity bounds the vertex count of one strip: a forward and a
// backward pass over at most TrajectorySize samples.
const PolygonCapacity = 2 * TrajectorySize

// Polygon is a closed vertex strip with insertion-order winding and bounded
// capacity. Recomputed wholesale on each relevant update, never mutated
// incrementally.
type Polygon struct {
	V     [PolygonCapacity]Vertex `json:"vertices"`
	Count int                     `json:"count"`
}

// Vertices returns the populated portion of the strip.
func (p *Polygon) Vertices() []Vertex { return p.V[:p.Count] }

func (p *Polygon) push(v Vertex) {
	if p.Count >= PolygonCapacity {
		// Upstream produced more samples than the declared capacity.
		// Contract violation: fatal under debug checks, truncated in
		// production.
		if monitoring.DebugChecks() {
			panic(fmt.Sprintf("polygon capacity exceeded: %d vertices", p.Count+1))
		}
		return
	}
	p.V[p.Count] = v
	p.Count++
}

// MaxIndex scans the curve's distance samples from index 0 and returns the
// first index whose distance reaches maxDistance, or the last index if no
// sample does. The scan is the only data-dependent stopping rule; no sample
// beyond the returned index is used by callers.
func MaxIndex(c telemetry.Curve, maxDistance float32) int {
	n := c.Len()
	for i := 0; i < n; i++ {
		if c.Distance[i] >= maxDistance {
			return i
		}
	}
	return n - 1
}

// SampleStrip projects curve samples 0..maxIdx into a closed polygon strip:
// the left edge forward (lateral minus halfWidth), then the right edge
// backward. This ordering keeps the strip fillable without
// self-intersection. Vertices outside the visibility margin are still
// emitted; clipping is advisory only.
//
// ok is false when the curve is unusable (empty or inconsistent), in which
// case the previous polygon should be left untouched.
func (p *Projector) SampleStrip(c telemetry.Curve, halfWidth, zOff float32, maxIdx int) (Polygon, bool) {
	var poly Polygon
	if !c.Valid() {
		return poly, false
	}
	if maxIdx >= c.Len() {
		if monitoring.DebugChecks() {
			panic(fmt.Sprintf("sample index %d beyond curve length %d", maxIdx, c.Len()))
		}
		maxIdx = c.Len() - 1
	}
	if maxIdx < 0 {
		return poly, false
	}

	for i := 0; i <= maxIdx; i++ {
		v, _ := p.Project(mgl32.Vec3{c.Distance[i], c.Lateral[i] - halfWidth, c.Vertical[i] + zOff})
		poly.push(v)
	}
	for i := maxIdx; i >= 0; i-- {
		v, _ := p.Project(mgl32.Vec3{c.Distance[i], c.Lateral[i] + halfWidth, c.Vertical[i] + zOff})
		poly.push(v)
	}
	return poly, true
}

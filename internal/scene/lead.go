package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/banshee-data/roadview/internal/telemetry"
)

// LocateLead projects a tracked lead vehicle to a screen vertex. When a
// reference curve is supplied, the path height at the lead's distance
// (nearest sample by the forward-scan rule) contributes to the z
// coordinate; either way the fixed mounting height is added. The lateral
// offset is negated: the tracking frame is positive-left, the render frame
// is not.
func (p *Projector) LocateLead(lead telemetry.LeadMsg, curve *telemetry.Curve) (Vertex, bool) {
	var z float32
	if curve != nil && curve.Valid() {
		z = curve.Vertical[MaxIndex(*curve, lead.DistRel)]
	}
	return p.Project(mgl32.Vec3{lead.DistRel, -lead.LatRel, z + LeadHeight})
}

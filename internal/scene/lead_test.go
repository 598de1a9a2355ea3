package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/roadview/internal/telemetry"
)

func TestLocateLeadWithoutCurve(t *testing.T) {
	t.Parallel()

	p := NewProjector(false, 1920, 1080, 0)
	p.Calib.Update(0, 0, 0)

	// With no reference curve only the mounting height contributes to z.
	lead := telemetry.LeadMsg{DistRel: 20, LatRel: 0, Valid: true}
	got, inBounds := p.LocateLead(lead, nil)
	want, _ := p.Project(mgl32.Vec3{20, 0, LeadHeight})

	assert.True(t, inBounds)
	assert.Equal(t, want, got)
}

func TestLocateLeadUsesCurveHeight(t *testing.T) {
	t.Parallel()

	p := NewProjector(false, 1920, 1080, 0)
	p.Calib.Update(0, 0, 0)

	curve := makeCurve(50, 1)
	for i := range curve.Vertical {
		curve.Vertical[i] = 2.0
	}

	lead := telemetry.LeadMsg{DistRel: 20, Valid: true}
	got, _ := p.LocateLead(lead, &curve)
	want, _ := p.Project(mgl32.Vec3{20, 0, 2.0 + LeadHeight})

	assert.Equal(t, want, got)
}

func TestLocateLeadFlipsLateralSign(t *testing.T) {
	t.Parallel()

	p := NewProjector(false, 1920, 1080, 0)
	p.Calib.Update(0, 0, 0)

	// Positive-left in the tracking frame must land left of center in
	// screen space, which means a smaller x than the mirrored lead.
	leftLead := telemetry.LeadMsg{DistRel: 30, LatRel: 2, Valid: true}
	rightLead := telemetry.LeadMsg{DistRel: 30, LatRel: -2, Valid: true}

	left, _ := p.LocateLead(leftLead, nil)
	right, _ := p.LocateLead(rightLead, nil)
	assert.Less(t, left.X, right.X)
}

func TestLocateLeadIgnoresInvalidCurve(t *testing.T) {
	t.Parallel()

	p := NewProjector(false, 1920, 1080, 0)
	p.Calib.Update(0, 0, 0)

	empty := telemetry.Curve{}
	lead := telemetry.LeadMsg{DistRel: 15, Valid: true}
	got, _ := p.LocateLead(lead, &empty)
	want, _ := p.Project(mgl32.Vec3{15, 0, LeadHeight})
	assert.Equal(t, want, got)
}

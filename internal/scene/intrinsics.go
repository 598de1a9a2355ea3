// Package scene converts per-topic telemetry into a screen-space geometric
// scene for overlay rendering: camera projection, curve-to-polygon strip
// sampling, lead vehicle tracking, and the per-tick synchronizer that keeps
// the scene aggregate consistent across asynchronous topic updates.
package scene

import "github.com/go-gl/mathgl/mgl32"

// Geometry constants shared across the pipeline.
const (
	// TrajectorySize is the maximum sample count of a perception curve.
	TrajectorySize = 50

	// MinDrawDistance and MaxDrawDistance clamp how far ahead path
	// geometry is drawn, in meters.
	MinDrawDistance float32 = 10.0
	MaxDrawDistance float32 = 100.0

	// BoundsMargin extends the viewport for the in-bounds check so
	// geometry does not visibly pop at the edges.
	BoundsMargin float32 = 500.0

	// LeadHeight approximates sensor mounting height above the road, in
	// meters; added to the path height when projecting lead vehicles.
	LeadHeight float32 = 1.22

	// PathHalfWidth is the half width of the driven path band, in meters.
	PathHalfWidth float32 = 0.25

	// LaneLineWidthScale scales lane line confidence into a half width.
	LaneLineWidthScale float32 = 0.025

	// RoadEdgeHalfWidth is the fixed road edge half width, in meters.
	RoadEdgeHalfWidth float32 = 0.025

	// UpdateFreqHz is the nominal tick rate of the synchronizer.
	UpdateFreqHz = 20

	// zoomScale is the numerator of the viewport zoom policy: zoom is
	// zoomScale over the focal length of the selected camera, halved for
	// the wide camera.
	zoomScale float32 = 2912.8
)

// Intrinsic matrices for the two camera variants: focal lengths on the
// diagonal, principal point in the last column.
var (
	fcamIntrinsics = mgl32.Mat3FromRows(
		mgl32.Vec3{910.0, 0.0, 582.0},
		mgl32.Vec3{0.0, 910.0, 437.0},
		mgl32.Vec3{0.0, 0.0, 1.0},
	)
	ecamIntrinsics = mgl32.Mat3FromRows(
		mgl32.Vec3{620.0, 0.0, 964.0},
		mgl32.Vec3{0.0, 620.0, 604.0},
		mgl32.Vec3{0.0, 0.0, 1.0},
	)
)

// IntrinsicModel is the fixed projection matrix and zoom policy for one
// camera variant. Immutable once selected for a drive session.
type IntrinsicModel struct {
	K    mgl32.Mat3
	Wide bool
}

// IntrinsicsFor selects the intrinsic model for the wide or narrow camera.
func IntrinsicsFor(wide bool) IntrinsicModel {
	if wide {
		return IntrinsicModel{K: ecamIntrinsics, Wide: true}
	}
	return IntrinsicModel{K: fcamIntrinsics, Wide: false}
}

// FocalLength returns the focal length in pixels.
func (m IntrinsicModel) FocalLength() float32 { return m.K.At(0, 0) }

// PrincipalPoint returns the optical center in image coordinates.
func (m IntrinsicModel) PrincipalPoint() (cx, cy float32) {
	return m.K.At(0, 2), m.K.At(1, 2)
}

// Zoom returns the viewport zoom for this camera variant.
func (m IntrinsicModel) Zoom() float32 {
	zoom := zoomScale / m.FocalLength()
	if m.Wide {
		zoom *= 0.5
	}
	return zoom
}

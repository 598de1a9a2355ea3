package scene

import "github.com/go-gl/mathgl/mgl32"

// Vertex is a 2D screen-space point in viewport pixels.
type Vertex struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// deviceTransform is the affine map from normalized image coordinates to
// viewport pixels: center the principal point, apply zoom, translate to the
// viewport center plus a fixed vertical offset.
type deviceTransform struct {
	scale          float32
	transX, transY float32
}

func (t deviceTransform) apply(x, y float32) Vertex {
	return Vertex{X: x*t.scale + t.transX, Y: y*t.scale + t.transY}
}

// nearPlaneEpsilon is the smallest view-space depth used for projection.
// Points at or behind the camera plane are clamped here so the division
// stays finite; the results land far outside the visibility margin.
const nearPlaneEpsilon float32 = 1e-6

// Projector maps 3D points in vehicle calibration space to viewport pixels.
// It holds the calibration rotation, the selected intrinsic model and the
// precomputed device transform; the transform is recomputed only on
// calibration, resize or camera-variant changes.
type Projector struct {
	Calib      CalibrationState
	Intrinsics IntrinsicModel

	width, height int
	yOffset       int
	transform     deviceTransform
}

// NewProjector creates a projector for the given camera variant and
// viewport. yOffset shifts the projected image down, matching the video
// placement on screen.
func NewProjector(wide bool, width, height, yOffset int) *Projector {
	p := &Projector{
		Calib:      NewCalibrationState(),
		Intrinsics: IntrinsicsFor(wide),
		width:      width,
		height:     height,
		yOffset:    yOffset,
	}
	p.recomputeTransform()
	return p
}

// Resize updates the viewport size and recomputes the device transform.
func (p *Projector) Resize(width, height int) {
	p.width = width
	p.height = height
	p.recomputeTransform()
}

// SetWideCamera switches the intrinsic variant and recomputes the device
// transform. Intended for session restarts only.
func (p *Projector) SetWideCamera(wide bool) {
	if p.Intrinsics.Wide == wide {
		return
	}
	p.Intrinsics = IntrinsicsFor(wide)
	p.recomputeTransform()
}

// Viewport returns the current viewport size in pixels.
func (p *Projector) Viewport() (width, height int) { return p.width, p.height }

func (p *Projector) recomputeTransform() {
	zoom := p.Intrinsics.Zoom()
	cx, cy := p.Intrinsics.PrincipalPoint()
	p.transform = deviceTransform{
		scale:  zoom,
		transX: float32(p.width)/2 - cx*zoom,
		transY: float32(p.height)/2 + float32(p.yOffset) - cy*zoom,
	}
}

// Project maps a point in vehicle calibration space to a viewport pixel.
// inBounds reports whether the pixel lies within BoundsMargin of the
// viewport; out-of-bounds vertices are still usable, clipping is the
// renderer's concern. Points at or behind the camera plane project through
// a clamped near-plane depth and always report out of bounds unless they
// degenerate to the origin.
func (p *Projector) Project(pt mgl32.Vec3) (Vertex, bool) {
	ep := p.Calib.ViewFromCalib.Mul3x1(pt)
	kep := p.Intrinsics.K.Mul3x1(ep)

	z := kep.Z()
	if z < nearPlaneEpsilon && z > -nearPlaneEpsilon {
		z = nearPlaneEpsilon
	}
	v := p.transform.apply(kep.X()/z, kep.Y()/z)

	inBounds := v.X >= -BoundsMargin && v.X <= float32(p.width)+BoundsMargin &&
		v.Y >= -BoundsMargin && v.Y <= float32(p.height)+BoundsMargin
	return v, inBounds
}

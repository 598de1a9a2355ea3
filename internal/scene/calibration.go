package scene

import "github.com/go-gl/mathgl/mgl32"

// viewFromDevice permutes device axes (x forward, y right, z down in image
// terms) into camera view axes. Fixed for all camera variants.
var viewFromDevice = mgl32.Mat3FromRows(
	mgl32.Vec3{0.0, 1.0, 0.0},
	mgl32.Vec3{0.0, 0.0, 1.0},
	mgl32.Vec3{1.0, 0.0, 0.0},
)

// CalibrationState holds the rotation from vehicle calibration space into
// camera view space. Recomputed only when a calibration message arrives.
// ViewFromCalib is orthonormal: it is a product of rotations and an axis
// permutation.
type CalibrationState struct {
	ViewFromCalib mgl32.Mat3
	Valid         bool
}

// NewCalibrationState returns a state with an identity view rotation,
// marked invalid until the first calibration message arrives.
func NewCalibrationState() CalibrationState {
	return CalibrationState{ViewFromCalib: viewFromDevice}
}

// Update recomputes the view rotation from Euler angles in radians,
// applied extrinsic-style as Rz(yaw)·Ry(pitch)·Rx(roll).
func (c *CalibrationState) Update(roll, pitch, yaw float32) {
	deviceFromCalib := mgl32.Rotate3DZ(yaw).
		Mul3(mgl32.Rotate3DY(pitch)).
		Mul3(mgl32.Rotate3DX(roll))
	c.ViewFromCalib = viewFromDevice.Mul3(deviceFromCalib)
	c.Valid = true
}

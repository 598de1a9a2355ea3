package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func toDense(m mgl32.Mat3) *mat.Dense {
	data := make([]float64, 9)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			data[r*3+c] = float64(m.At(r, c))
		}
	}
	return mat.NewDense(3, 3, data)
}

func TestCalibrationOrthonormal(t *testing.T) {
	t.Parallel()

	eye := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})

	cases := []struct {
		name             string
		roll, pitch, yaw float32
	}{
		{"zero", 0, 0, 0},
		{"small angles", 0.02, -0.01, 0.005},
		{"roll only", 0.3, 0, 0},
		{"pitch only", 0, -0.25, 0},
		{"yaw only", 0, 0, 0.4},
		{"combined", -0.15, 0.1, -0.2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := NewCalibrationState()
			c.Update(tc.roll, tc.pitch, tc.yaw)

			r := toDense(c.ViewFromCalib)
			var product mat.Dense
			product.Mul(r, r.T())
			assert.True(t, mat.EqualApprox(&product, eye, 1e-5),
				"R*Rt should be identity, got:\n%v", mat.Formatted(&product))
		})
	}
}

func TestCalibrationZeroAnglesIsViewFromDevice(t *testing.T) {
	t.Parallel()

	c := NewCalibrationState()
	c.Update(0, 0, 0)

	// With zero mount offsets the transform is the pure axis permutation.
	for r := 0; r < 3; r++ {
		for col := 0; col < 3; col++ {
			assert.InDelta(t, viewFromDevice.At(r, col), c.ViewFromCalib.At(r, col), 1e-6)
		}
	}
	assert.True(t, c.Valid)
}

func TestCalibrationStateStartsInvalid(t *testing.T) {
	t.Parallel()

	c := NewCalibrationState()
	assert.False(t, c.Valid)
}

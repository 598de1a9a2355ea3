package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLightLevel(t *testing.T) {
	t.Parallel()

	t.Run("zero exposure reads fully bright", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 1.0, float64(LightLevel(0, 0)), 1e-6)
	})

	t.Run("saturated exposure reads dark", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 0.0, float64(LightLevel(maxExposureGain, int(maxExposureLines))), 1e-6)
	})

	t.Run("half exposure is mid-range", func(t *testing.T) {
		t.Parallel()
		// maxEV is 1904*10/6; gain 1 at 1587 lines is half of that.
		got := LightLevel(1, 1587)
		assert.InDelta(t, 0.5, float64(got), 1e-3)
	})

	t.Run("monotonically decreasing in exposure", func(t *testing.T) {
		t.Parallel()
		prev := LightLevel(1, 0)
		for lines := 200; lines <= 1904; lines += 200 {
			cur := LightLevel(1, lines)
			assert.LessOrEqual(t, cur, prev, "lines=%d", lines)
			prev = cur
		}
	})
}

func TestPerceivedBrightness(t *testing.T) {
	t.Parallel()

	t.Run("dark clamps to minimum backlight", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, float32(10), PerceivedBrightness(0))
	})

	t.Run("full light is full brightness", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 100.0, float64(PerceivedBrightness(1)), 1e-3)
	})

	t.Run("monotonically increasing", func(t *testing.T) {
		t.Parallel()
		prev := PerceivedBrightness(0)
		for l := float32(0.1); l <= 1.0; l += 0.1 {
			cur := PerceivedBrightness(l)
			assert.GreaterOrEqual(t, cur, prev, "level=%f", l)
			prev = cur
		}
	})

	t.Run("lightness curve compresses low light", func(t *testing.T) {
		t.Parallel()
		// Half light level renders well under half brightness on the
		// perceptual curve.
		got := PerceivedBrightness(0.5)
		assert.Less(t, got, float32(50))
		assert.Greater(t, got, float32(10))
	})
}

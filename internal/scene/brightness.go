package scene

import "math"

// Exposure limits of the road camera sensor, used to normalize gain times
// integration lines into a [0, 1] light level.
const (
	maxExposureLines float32 = 1904
	maxExposureGain  float32 = 10
	exposureDivisor  float32 = 6
)

// LightLevel derives the ambient light scalar from camera exposure state:
// high exposure means a dark environment, so the level is one minus the
// normalized exposure value, clamped to [0, 1].
func LightLevel(gain float32, integLines int) float32 {
	maxEV := maxExposureLines * maxExposureGain / exposureDivisor
	ev := gain * float32(integLines)
	level := 1.0 - ev/maxEV
	return clamp(level, 0.0, 1.0)
}

// PerceivedBrightness maps a [0, 1] light level to a display brightness
// percentage using the CIE 1931 lightness curve, scaled back to the
// 10..100% usable range.
func PerceivedBrightness(lightLevel float32) float32 {
	b := float64(100.0 * lightLevel)
	if b <= 8 {
		b = b / 903.3
	} else {
		b = math.Pow((b+16.0)/116.0, 3.0)
	}
	return clamp(float32(100.0*b), 10.0, 100.0)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

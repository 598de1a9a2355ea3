package scene

// TruncationPolicy holds the tunable coefficients of the lead-aware path
// truncation: with a valid lead at distance d, geometry is cut at
// LeadScale*d minus a comfort margin of min(ComfortFraction*LeadScale*d,
// ComfortCapMeters). The clamp to [0, natural draw distance] is contract;
// the coefficients are policy.
type TruncationPolicy struct {
	LeadScale        float32
	ComfortFraction  float32
	ComfortCapMeters float32
}

// SyncConfig holds configuration parameters for the synchronizer.
type SyncConfig struct {
	ViewportWidth  int  // Initial viewport width in pixels
	ViewportHeight int  // Initial viewport height in pixels
	YOffset        int  // Vertical video placement offset in pixels
	WideCamera     bool // Initial camera variant

	SubRateTicks     int    // Refresh period for sub-rate cosmetic fields
	StaleTicks       uint64 // Silence threshold before a topic counts as stale
	BlinkerRetrigger int    // Blink rate reset value on blinker transitions

	Truncation TruncationPolicy
}

// DefaultSyncConfig returns default synchronizer configuration.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		YOffset:        0,
		WideCamera:     false,

		SubRateTicks:     UpdateFreqHz / 2, // 2Hz at the nominal tick rate
		StaleTicks:       5 * UpdateFreqHz,
		BlinkerRetrigger: 120,

		Truncation: TruncationPolicy{
			LeadScale:        2.0,
			ComfortFraction:  0.35,
			ComfortCapMeters: 10.0,
		},
	}
}

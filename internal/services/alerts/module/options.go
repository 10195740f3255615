package module

import (
	"time"

	"bandwatch/internal/platform/config"
)

// Options holds configuration settings for the alerts module
type Options struct {
	RecentSpan      time.Duration
	BaselineSpan    time.Duration
	SpikeThreshold  float64
	SendWorkers     int
	TopArtists      int
	SuppressRepeats bool
	DryRun          bool
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	af := cfg.Prefix("CORE_ALERTS_")
	return Options{
		RecentSpan:      af.MayDuration("RECENT", time.Hour),
		BaselineSpan:    af.MayDuration("BASELINE", 48*time.Hour),
		SpikeThreshold:  af.MayFloat64("SPIKE_THRESHOLD", 0.20),
		SendWorkers:     af.MayInt("SEND_WORKERS", 4),
		TopArtists:      af.MayInt("TOP_ARTISTS", 3),
		SuppressRepeats: af.MayBool("SUPPRESS_REPEATS", false),
		DryRun:          af.MayBool("DRY_RUN", false),
	}
}

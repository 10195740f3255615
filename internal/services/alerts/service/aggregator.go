package service

import (
	"time"

	"bandwatch/internal/core/trend"
	rolldom "bandwatch/internal/services/rollups/domain"
)

// windows holds the two half open comparison ranges for one run
// recent is [at-recentSpan, at), baseline is [at-baselineSpan, at-recentSpan)
type windows struct {
	Recent   rolldom.Window
	Baseline rolldom.Window
}

func windowsAt(at time.Time, recentSpan, baselineSpan time.Duration) windows {
	at = at.UTC()
	return windows{
		Recent:   rolldom.Window{Since: at.Add(-recentSpan), Until: at},
		Baseline: rolldom.Window{Since: at.Add(-baselineSpan), Until: at.Add(-recentSpan)},
	}
}

// entries converts rollup rows into rank comparison entries
func entries(rows []rolldom.Rollup) []trend.Entry {
	out := make([]trend.Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, trend.Entry{ID: r.ID, Name: r.Name, Revenue: r.Revenue})
	}
	return out
}

// spikeSamples joins the two genre windows on id and normalizes the baseline
// revenue to an hourly rate so it compares against the one hour recent window
// genres absent from either window are dropped
func spikeSamples(recent, baseline []rolldom.Rollup, baselineHours float64) []trend.Sample {
	if baselineHours <= 0 {
		return nil
	}
	base := make(map[int64]rolldom.Rollup, len(baseline))
	for _, b := range baseline {
		base[b.ID] = b
	}

	var out []trend.Sample
	for _, r := range recent {
		b, ok := base[r.ID]
		if !ok {
			continue
		}
		out = append(out, trend.Sample{
			ID:       r.ID,
			Name:     r.Name,
			Recent:   r.Revenue,
			Baseline: b.Revenue / baselineHours,
		})
	}
	return out
}

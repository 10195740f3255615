// Package trend holds the pure comparison rules for sales windows
// Rank changes compare the revenue leader of two windows
// Spikes compare recent revenue against an hourly baseline rate
package trend

import "sort"

// Entry is one ranked dimension row (an artist or a genre) with summed revenue
type Entry struct {
	ID      int64
	Name    string
	Revenue float64
}

// Leader returns the rank 1 entry by revenue
// ties are broken by the lower id so repeated runs pick the same winner
func Leader(entries []Entry) (Entry, bool) {
	if len(entries) == 0 {
		return Entry{}, false
	}
	top := entries[0]
	for _, e := range entries[1:] {
		if e.Revenue > top.Revenue || (e.Revenue == top.Revenue && e.ID < top.ID) {
			top = e
		}
	}
	return top, true
}

// Change describes a leader swap between the baseline and recent windows
type Change struct {
	From Entry
	To   Entry
}

// LeaderChanged reports whether the revenue leader differs between windows
// either window being empty means no comparison is possible
func LeaderChanged(baseline, recent []Entry) (Change, bool) {
	prev, ok := Leader(baseline)
	if !ok {
		return Change{}, false
	}
	curr, ok := Leader(recent)
	if !ok {
		return Change{}, false
	}
	if prev.ID == curr.ID {
		return Change{}, false
	}
	return Change{From: prev, To: curr}, true
}

// Sample pairs a dimension row with its recent revenue and hourly baseline rate
type Sample struct {
	ID       int64
	Name     string
	Recent   float64
	Baseline float64
}

// Spike is a sample whose recent revenue exceeded the baseline by the threshold
type Spike struct {
	ID       int64
	Name     string
	Recent   float64
	Baseline float64
	DeltaPct float64
}

// Spikes returns samples whose relative growth over baseline exceeds threshold
// samples with a zero or negative baseline are skipped, new activity alone is
// not growth
// results are ordered by growth descending, ties by lower id
func Spikes(samples []Sample, threshold float64) []Spike {
	var out []Spike
	for _, s := range samples {
		if s.Baseline <= 0 {
			continue
		}
		delta := (s.Recent - s.Baseline) / s.Baseline
		if delta <= threshold {
			continue
		}
		out = append(out, Spike{
			ID:       s.ID,
			Name:     s.Name,
			Recent:   s.Recent,
			Baseline: s.Baseline,
			DeltaPct: delta,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DeltaPct != out[j].DeltaPct {
			return out[i].DeltaPct > out[j].DeltaPct
		}
		return out[i].ID < out[j].ID
	})
	return out
}

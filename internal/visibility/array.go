package visibility

import (
	"context"
	"fmt"
	"time"

	"github.com/radionets-project/radiotools/internal/astro"
	"github.com/radionets-project/radiotools/internal/ephem"
)

// ArrayResult is the planning outcome for a whole array: the slot
// around the reference station's culmination that overlaps best with
// every other station's own preferred slot.
type ArrayResult struct {
	Station int
	Name    string
	Start   time.Time
	Center  time.Time
	End     time.Time
}

// CommonWindows intersects per-station window lists into the intervals
// where the source is visible from every station at once. The result
// keeps the scan ordering invariants; window peaks carry the limiting
// station's culmination, clamped into the overlap.
func CommonWindows(perSite [][]Window) []Window {
	if len(perSite) == 0 {
		return nil
	}
	common := append([]Window(nil), perSite[0]...)
	for _, windows := range perSite[1:] {
		common = intersectWindows(common, windows)
		if len(common) == 0 {
			return nil
		}
	}
	return common
}

func intersectWindows(a, b []Window) []Window {
	var out []Window
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := a[i].Start
		if b[j].Start.After(start) {
			start = b[j].Start
		}
		end := a[i].End
		if b[j].End.Before(end) {
			end = b[j].End
		}

		if end.After(start) {
			w := Window{Start: start, End: end}
			// The lower-peaked side limits the common view.
			if a[i].MaxElevation <= b[j].MaxElevation {
				w.MaxElevation, w.Peak = a[i].MaxElevation, a[i].Peak
			} else {
				w.MaxElevation, w.Peak = b[j].MaxElevation, b[j].Peak
			}
			if w.Peak.Before(start) {
				w.Peak = start
			}
			if w.Peak.After(end) {
				w.Peak = end
			}
			out = append(out, w)
		}

		if a[i].End.Before(b[j].End) {
			i++
		} else {
			j++
		}
	}
	return out
}

// BestArrayWindow plans one observation of the wanted length for an
// array. Each station contributes a candidate slot centered on its own
// culmination of the source; stations whose peak elevation falls
// outside the set's elevation band are skipped. Candidates are scored
// by their summed overlap with every candidate and the best scorer
// wins, so the chosen slot is the one the most stations can follow.
// All stations skipped returns ErrNoVisibility.
func BestArrayWindow(ctx context.Context, prov ephem.Provider, pos astro.SkyPosition, sites []astro.ObserverSite, set *ConstraintSet, r Range, step, want time.Duration) (ArrayResult, error) {
	if want <= 0 {
		return ArrayResult{}, fmt.Errorf("%w: requested duration %s not positive", ErrInvalidRange, want)
	}
	if len(sites) == 0 {
		return ArrayResult{}, fmt.Errorf("%w: no stations", ErrNoVisibility)
	}

	grid, err := NewGrid(r, step)
	if err != nil {
		return ArrayResult{}, err
	}

	minEl, hasMin := set.MinElevationLimit()
	maxEl, hasMax := set.MaxElevationLimit()
	scanner := Scanner{Evaluator: Evaluator{Provider: prov}}

	type candidate struct {
		station          int
		start, peak, end time.Time
	}
	var candidates []candidate

	for i, site := range sites {
		samples, err := scanner.Trace(ctx, pos, site, set, grid)
		if err != nil {
			return ArrayResult{}, fmt.Errorf("station %s: %w", site.Name, err)
		}

		peakIdx := 0
		for k := range samples {
			if samples[k].Horizontal.Elevation > samples[peakIdx].Horizontal.Elevation {
				peakIdx = k
			}
		}
		peakEl := samples[peakIdx].Horizontal.Elevation
		if hasMin && peakEl < minEl {
			continue
		}
		if hasMax && peakEl > maxEl {
			continue
		}

		peakAt := samples[peakIdx].Time
		candidates = append(candidates, candidate{
			station: i,
			start:   peakAt.Add(-want / 2),
			peak:    peakAt,
			end:     peakAt.Add(want / 2),
		})
	}

	if len(candidates) == 0 {
		return ArrayResult{}, ErrNoVisibility
	}

	best, bestScore := 0, time.Duration(-1)
	for i, ci := range candidates {
		var score time.Duration
		for _, cj := range candidates {
			score += overlap(ci.start, ci.end, cj.start, cj.end)
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	chosen := candidates[best]
	return ArrayResult{
		Station: chosen.station,
		Name:    sites[chosen.station].Name,
		Start:   chosen.start,
		Center:  chosen.peak,
		End:     chosen.end,
	}, nil
}

func overlap(aStart, aEnd, bStart, bEnd time.Time) time.Duration {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if end.After(start) {
		return end.Sub(start)
	}
	return 0
}

// Package visibility implements the observation planning engine:
// evaluating observing constraints for a source over a time grid,
// reducing the per-instant verdicts to visibility windows, and picking
// the best window for a requested observation length.
package visibility

import (
	"context"
	"fmt"
	"time"

	"github.com/radionets-project/radiotools/internal/astro"
)

// Sample is one evaluated grid instant of a scan trace.
type Sample struct {
	Time       time.Time
	Horizontal astro.HorizontalCoord
	Visible    bool
}

// Window is a maximal interval of continuous all-constraints-satisfied
// state at grid resolution. Windows from one scan are non-overlapping,
// strictly ordered by start, and have positive duration. MaxElevation
// and Peak record the culmination inside the window, refined between
// grid samples by a parabolic fit when the peak has neighbors.
type Window struct {
	Start        time.Time
	End          time.Time
	MaxElevation float64
	Peak         time.Time
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Center returns the window midpoint.
func (w Window) Center() time.Time {
	return w.Start.Add(w.Duration() / 2)
}

func (w Window) String() string {
	return fmt.Sprintf("%s .. %s (%s, peak %.1f deg)",
		w.Start.Format("2006-01-02 15:04"), w.End.Format("2006-01-02 15:04"),
		w.Duration(), w.MaxElevation)
}

// Scanner walks a grid and reduces per-instant constraint evaluations
// to visibility windows.
type Scanner struct {
	Evaluator Evaluator
}

// Trace evaluates the constraint set at every grid instant and returns
// the raw per-instant series. The context is checked each iteration;
// on cancellation all partial results are discarded and the wrapped
// context error is returned.
func (s *Scanner) Trace(ctx context.Context, pos astro.SkyPosition, site astro.ObserverSite, set *ConstraintSet, grid *Grid) ([]Sample, error) {
	samples := make([]Sample, 0, grid.Len())
	for i := 0; i < grid.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan cancelled, partial results discarded: %w", err)
		}
		at := grid.At(i)
		ev, err := s.Evaluator.Evaluate(pos, site, set, at)
		if err != nil {
			return nil, err
		}
		samples = append(samples, Sample{Time: at, Horizontal: ev.Horizontal, Visible: ev.Visible})
	}
	return samples, nil
}

// Scan returns the ordered visibility windows over the grid. An empty
// result means the source is never observable in the range under the
// given constraints; that is a legitimate outcome, not an error.
func (s *Scanner) Scan(ctx context.Context, pos astro.SkyPosition, site astro.ObserverSite, set *ConstraintSet, grid *Grid) ([]Window, error) {
	samples, err := s.Trace(ctx, pos, site, set, grid)
	if err != nil {
		return nil, err
	}
	return reduceWindows(samples), nil
}

// Reduce converts a sample series into its visibility windows. Scan is
// Trace followed by Reduce; callers that already hold a trace, such as
// the TUI chart, can reduce it directly instead of re-evaluating the
// grid.
func Reduce(samples []Sample) []Window {
	return reduceWindows(samples)
}

// reduceWindows runs the open-window state machine over a sample
// series. A window opens at the first visible instant and extends to
// the last visible instant before the next gap or the end of the
// series; nothing is extrapolated past either edge. A single isolated
// visible instant spans zero duration and yields no window.
func reduceWindows(samples []Sample) []Window {
	var windows []Window

	open := false
	var start, end time.Time
	peakIdx := 0

	for i, smp := range samples {
		if smp.Visible {
			if !open {
				open = true
				start = smp.Time
				peakIdx = i
			}
			end = smp.Time
			if smp.Horizontal.Elevation > samples[peakIdx].Horizontal.Elevation {
				peakIdx = i
			}
			continue
		}
		if open {
			open = false
			if end.After(start) {
				windows = append(windows, closeWindow(samples, start, end, peakIdx))
			}
		}
	}
	if open && end.After(start) {
		windows = append(windows, closeWindow(samples, start, end, peakIdx))
	}

	return windows
}

func closeWindow(samples []Sample, start, end time.Time, peakIdx int) Window {
	w := Window{
		Start:        start,
		End:          end,
		MaxElevation: samples[peakIdx].Horizontal.Elevation,
		Peak:         samples[peakIdx].Time,
	}

	if peakIdx > 0 && peakIdx < len(samples)-1 {
		at, el := refinePeak(samples[peakIdx-1], samples[peakIdx], samples[peakIdx+1])
		// Keep the refined culmination inside the window.
		if at.Before(start) {
			at = start
		}
		if at.After(end) {
			at = end
		}
		w.Peak, w.MaxElevation = at, el
	}

	return w
}

// refinePeak fits a parabola through the discrete peak sample and its
// grid neighbors to estimate the culmination between samples.
func refinePeak(prev, at, next Sample) (time.Time, float64) {
	y0 := prev.Horizontal.Elevation
	y1 := at.Horizontal.Elevation
	y2 := next.Horizontal.Elevation

	// Parabola y = a*t^2 + b*t + c on normalized time, with
	// t = -1, 0, +1 at the three samples.
	c := y1
	a := (y0+y2)/2 - c
	b := (y2 - y0) / 2

	// A flat or upward-opening fit has no interior maximum. The small
	// margin keeps collinear samples from producing a spurious vertex.
	if a >= -1e-9 {
		return at.Time, y1
	}

	tMax := -b / (2 * a)
	if tMax < -1 {
		tMax = -1
	} else if tMax > 1 {
		tMax = 1
	}

	dt := at.Time.Sub(prev.Time)
	return at.Time.Add(time.Duration(float64(dt) * tMax)), a*tMax*tMax + b*tMax + c
}

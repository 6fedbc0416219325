package visibility

import (
	"fmt"
	"strings"
	"time"
)

// Policy decides which fitting window wins and where the observation
// slot sits inside it.
type Policy int

const (
	// PolicyCentered prefers the fitting window whose center is
	// closest to the scan range midpoint and centers the slot on the
	// window midpoint, keeping slack on both sides.
	PolicyCentered Policy = iota

	// PolicyEarliest prefers the earliest fitting window and starts
	// the slot at the window start.
	PolicyEarliest

	// PolicyPeak prefers the fitting window with the highest peak
	// elevation and centers the slot on the culmination.
	PolicyPeak
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyCentered:
		return "centered"
	case PolicyEarliest:
		return "earliest"
	case PolicyPeak:
		return "peak"
	default:
		return "?"
	}
}

// ParsePolicy parses a policy name, case-insensitive.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "centered":
		return PolicyCentered, nil
	case "earliest":
		return PolicyEarliest, nil
	case "peak":
		return PolicyPeak, nil
	default:
		return 0, fmt.Errorf("unknown selection policy %q (want centered, earliest, or peak)", s)
	}
}

// OptimalResult is the outcome of best-window selection. When Fits is
// true the slot [Start, End] has the requested length and lies inside
// the source window; when false the slot is the whole longest window,
// the closest available answer. Window is the source window the slot
// came from.
type OptimalResult struct {
	Start     time.Time
	Center    time.Time
	End       time.Time
	Requested time.Duration
	Fits      bool
	Window    Window
}

// SelectOptimal picks the best observation slot of the wanted length
// from the scan windows. Among windows long enough, the policy decides
// the winner and the slot placement; ties go to the earlier window.
// When no window is long enough, the longest window is returned whole
// with Fits false so the caller still gets the closest available
// answer. An empty window list returns ErrNoVisibility.
func SelectOptimal(windows []Window, r Range, want time.Duration, policy Policy) (OptimalResult, error) {
	if want <= 0 {
		return OptimalResult{}, fmt.Errorf("%w: requested duration %s not positive", ErrInvalidRange, want)
	}
	if len(windows) == 0 {
		return OptimalResult{}, ErrNoVisibility
	}

	var fitting []Window
	for _, w := range windows {
		if w.Duration() >= want {
			fitting = append(fitting, w)
		}
	}

	if len(fitting) == 0 {
		longest := windows[0]
		for _, w := range windows[1:] {
			if w.Duration() > longest.Duration() {
				longest = w
			}
		}
		return OptimalResult{
			Start:     longest.Start,
			Center:    longest.Center(),
			End:       longest.End,
			Requested: want,
			Fits:      false,
			Window:    longest,
		}, nil
	}

	var chosen Window
	switch policy {
	case PolicyEarliest:
		chosen = fitting[0]
	case PolicyPeak:
		chosen = fitting[0]
		for _, w := range fitting[1:] {
			if w.MaxElevation > chosen.MaxElevation {
				chosen = w
			}
		}
	default:
		mid := r.Midpoint()
		chosen = fitting[0]
		best := absDuration(chosen.Center().Sub(mid))
		for _, w := range fitting[1:] {
			if d := absDuration(w.Center().Sub(mid)); d < best {
				chosen, best = w, d
			}
		}
	}

	var start time.Time
	switch policy {
	case PolicyEarliest:
		start = chosen.Start
	case PolicyPeak:
		start = chosen.Peak.Add(-want / 2)
	default:
		start = chosen.Center().Add(-want / 2)
	}
	start, end := clipSlot(start, want, chosen)

	return OptimalResult{
		Start:     start,
		Center:    start.Add(end.Sub(start) / 2),
		End:       end,
		Requested: want,
		Fits:      true,
		Window:    chosen,
	}, nil
}

// clipSlot slides a want-long slot to sit inside the window. The
// window is known to be at least want long.
func clipSlot(start time.Time, want time.Duration, w Window) (time.Time, time.Time) {
	if start.Before(w.Start) {
		start = w.Start
	}
	end := start.Add(want)
	if end.After(w.End) {
		end = w.End
		start = end.Add(-want)
	}
	return start, end
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

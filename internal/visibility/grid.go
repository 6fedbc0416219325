package visibility

import (
	"fmt"
	"time"
)

// Range is the scan domain, a pair of instants with Start before End.
// Instants are compared in absolute time; callers should construct
// ranges in UTC to avoid zone-dependent boundary surprises.
type Range struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the range.
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Midpoint returns the instant halfway through the range.
func (r Range) Midpoint() time.Time {
	return r.Start.Add(r.Duration() / 2)
}

func (r Range) String() string {
	return fmt.Sprintf("%s .. %s", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}

// Grid is a finite evenly spaced sequence of evaluation instants
// covering a Range: start, start+step, start+2*step and so on, never
// past the end. The end instant itself is included only when it lands
// exactly on a step. Instants are computed on demand, so a grid can be
// walked any number of times.
//
// The step is a precision/cost trade-off: a coarse grid can miss
// windows shorter than one step and mislocates window boundaries by up
// to one step. That is a documented approximation of the scanner, not
// a defect.
type Grid struct {
	Span Range
	Step time.Duration

	n int
}

// NewGrid validates the range and step and returns the grid.
func NewGrid(r Range, step time.Duration) (*Grid, error) {
	if !r.End.After(r.Start) {
		return nil, fmt.Errorf("%w: end %s not after start %s",
			ErrInvalidRange, r.End.Format(time.RFC3339), r.Start.Format(time.RFC3339))
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: step %s not positive", ErrInvalidRange, step)
	}
	return &Grid{
		Span: r,
		Step: step,
		n:    int(r.Duration()/step) + 1,
	}, nil
}

// Len returns the number of grid instants.
func (g *Grid) Len() int { return g.n }

// At returns the i-th grid instant. It panics if i is out of range,
// matching slice indexing.
func (g *Grid) At(i int) time.Time {
	if i < 0 || i >= g.n {
		panic(fmt.Sprintf("visibility: grid index %d out of range [0,%d)", i, g.n))
	}
	return g.Span.Start.Add(time.Duration(i) * g.Step)
}

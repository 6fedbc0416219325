package visibility

import (
	"fmt"
	"time"

	"github.com/radionets-project/radiotools/internal/astro"
)

// Kind identifies a constraint variant.
type Kind int

const (
	KindMinElevation Kind = iota
	KindMaxElevation
	KindMinSunSeparation
	KindMinMoonSeparation
	KindHorizonMask
	KindCustom
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMinElevation:
		return "min_elevation"
	case KindMaxElevation:
		return "max_elevation"
	case KindMinSunSeparation:
		return "sun_separation"
	case KindMinMoonSeparation:
		return "moon_separation"
	case KindHorizonMask:
		return "horizon_mask"
	case KindCustom:
		return "custom"
	default:
		return "?"
	}
}

// CustomFunc is the extension point for site- or program-specific
// conditions. It must be a pure function of its inputs.
type CustomFunc func(pos astro.SkyPosition, site astro.ObserverSite, t time.Time) bool

// Constraint is one visibility condition. Build constraints with the
// package constructors; the zero value is not meaningful. All bounds
// are inclusive: a source exactly at a threshold passes.
type Constraint struct {
	kind  Kind
	name  string
	limit float64
	mask  *astro.HorizonMask
	fn    CustomFunc
}

// MinElevation requires the source elevation to be at least deg.
func MinElevation(deg float64) Constraint {
	return Constraint{kind: KindMinElevation, name: KindMinElevation.String(), limit: deg}
}

// MaxElevation requires the source elevation to be at most deg. Dishes
// with an elevation limit near zenith use this to avoid keyholing.
func MaxElevation(deg float64) Constraint {
	return Constraint{kind: KindMaxElevation, name: KindMaxElevation.String(), limit: deg}
}

// MinSunSeparation requires the source to stay at least deg away from
// the sun.
func MinSunSeparation(deg float64) Constraint {
	return Constraint{kind: KindMinSunSeparation, name: KindMinSunSeparation.String(), limit: deg}
}

// MinMoonSeparation requires the source to stay at least deg away from
// the moon.
func MinMoonSeparation(deg float64) Constraint {
	return Constraint{kind: KindMinMoonSeparation, name: KindMinMoonSeparation.String(), limit: deg}
}

// HorizonMask requires the source elevation to clear the mask value
// interpolated at the source azimuth.
func HorizonMask(m *astro.HorizonMask) Constraint {
	return Constraint{kind: KindHorizonMask, name: KindHorizonMask.String(), mask: m}
}

// Custom wraps a caller predicate under the given name. The name must
// be unique within a set.
func Custom(name string, fn CustomFunc) Constraint {
	return Constraint{kind: KindCustom, name: name, fn: fn}
}

// Kind returns the constraint variant.
func (c Constraint) Kind() Kind { return c.kind }

// Name returns the constraint name used as key in evaluation results.
func (c Constraint) Name() string { return c.name }

// Limit returns the threshold in degrees for elevation and separation
// constraints, 0 otherwise.
func (c Constraint) Limit() float64 { return c.limit }

// String returns a human-readable description of the condition.
func (c Constraint) String() string {
	switch c.kind {
	case KindMinElevation:
		return fmt.Sprintf("elevation >= %.1f deg", c.limit)
	case KindMaxElevation:
		return fmt.Sprintf("elevation <= %.1f deg", c.limit)
	case KindMinSunSeparation:
		return fmt.Sprintf("sun separation >= %.1f deg", c.limit)
	case KindMinMoonSeparation:
		return fmt.Sprintf("moon separation >= %.1f deg", c.limit)
	case KindHorizonMask:
		return "clears horizon mask"
	case KindCustom:
		return "custom: " + c.name
	default:
		return "?"
	}
}

// ConstraintSet is a validated, order-independent collection of
// constraints. A source counts as visible at an instant only when
// every constraint in the set holds. Read-only after construction and
// safe to share across concurrent queries.
type ConstraintSet struct {
	constraints []Constraint
	needsSun    bool
	needsMoon   bool
}

// NewConstraintSet validates the constraints and builds the set.
// Rejected: elevation thresholds outside [0, 90], min elevation above
// max elevation, separation thresholds outside [0, 180], a nil horizon
// mask or custom function, and duplicate names.
func NewConstraintSet(constraints ...Constraint) (*ConstraintSet, error) {
	set := &ConstraintSet{constraints: make([]Constraint, 0, len(constraints))}

	seen := make(map[string]bool, len(constraints))
	minEl, maxEl := -1.0, -1.0

	for _, c := range constraints {
		if seen[c.name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidConstraint, c.name)
		}
		seen[c.name] = true

		switch c.kind {
		case KindMinElevation, KindMaxElevation:
			if c.limit < 0 || c.limit > 90 {
				return nil, fmt.Errorf("%w: %s %.2f outside [0, 90]", ErrInvalidConstraint, c.name, c.limit)
			}
			if c.kind == KindMinElevation {
				minEl = c.limit
			} else {
				maxEl = c.limit
			}
		case KindMinSunSeparation, KindMinMoonSeparation:
			if c.limit < 0 || c.limit > 180 {
				return nil, fmt.Errorf("%w: %s %.2f outside [0, 180]", ErrInvalidConstraint, c.name, c.limit)
			}
			if c.kind == KindMinSunSeparation {
				set.needsSun = true
			} else {
				set.needsMoon = true
			}
		case KindHorizonMask:
			if c.mask == nil {
				return nil, fmt.Errorf("%w: nil horizon mask", ErrInvalidConstraint)
			}
		case KindCustom:
			if c.name == "" {
				return nil, fmt.Errorf("%w: custom constraint without name", ErrInvalidConstraint)
			}
			if c.fn == nil {
				return nil, fmt.Errorf("%w: custom constraint %q without function", ErrInvalidConstraint, c.name)
			}
		default:
			return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidConstraint, int(c.kind))
		}

		set.constraints = append(set.constraints, c)
	}

	if minEl >= 0 && maxEl >= 0 && minEl > maxEl {
		return nil, fmt.Errorf("%w: min elevation %.2f above max elevation %.2f",
			ErrInvalidConstraint, minEl, maxEl)
	}

	return set, nil
}

// DefaultConstraintSet returns the stock observing band, elevation
// between 15 and 85 degrees.
func DefaultConstraintSet() *ConstraintSet {
	set, err := NewConstraintSet(MinElevation(15), MaxElevation(85))
	if err != nil {
		panic("visibility: default constraint set invalid: " + err.Error())
	}
	return set
}

// Constraints returns a copy of the constraints in the set.
func (s *ConstraintSet) Constraints() []Constraint {
	out := make([]Constraint, len(s.constraints))
	copy(out, s.constraints)
	return out
}

// Len returns the number of constraints.
func (s *ConstraintSet) Len() int { return len(s.constraints) }

// Has reports whether the set contains a constraint with the given
// name.
func (s *ConstraintSet) Has(name string) bool {
	for _, c := range s.constraints {
		if c.name == name {
			return true
		}
	}
	return false
}

// MinElevationLimit returns the minimum elevation threshold and
// whether the set has one.
func (s *ConstraintSet) MinElevationLimit() (float64, bool) {
	return s.limitFor(KindMinElevation)
}

// MaxElevationLimit returns the maximum elevation threshold and
// whether the set has one.
func (s *ConstraintSet) MaxElevationLimit() (float64, bool) {
	return s.limitFor(KindMaxElevation)
}

func (s *ConstraintSet) limitFor(k Kind) (float64, bool) {
	for _, c := range s.constraints {
		if c.kind == k {
			return c.limit, true
		}
	}
	return 0, false
}

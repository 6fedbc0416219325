package visibility

import (
	"context"
	"time"

	"github.com/radionets-project/radiotools/internal/astro"
	"github.com/radionets-project/radiotools/internal/ephem"
	"github.com/radionets-project/radiotools/internal/logging"
)

// SourceVisibility answers visibility questions for one source at one
// site: the windows over a range, the best slot for a requested
// observation length, and whether the source is observable at a given
// instant. Construct with New; the value is read-only afterwards, so
// independent queries may run concurrently.
type SourceVisibility struct {
	pos    astro.SkyPosition
	site   astro.ObserverSite
	set    *ConstraintSet
	prov   ephem.Provider
	policy Policy
	log    *logging.Logger
}

// Option configures a SourceVisibility.
type Option func(*SourceVisibility)

// WithConstraints replaces the default constraint set. Nil is ignored.
func WithConstraints(set *ConstraintSet) Option {
	return func(sv *SourceVisibility) {
		if set != nil {
			sv.set = set
		}
	}
}

// WithProvider replaces the default almanac provider. Nil is ignored.
func WithProvider(p ephem.Provider) Option {
	return func(sv *SourceVisibility) {
		if p != nil {
			sv.prov = p
		}
	}
}

// WithPolicy sets the best-window selection policy.
func WithPolicy(p Policy) Option {
	return func(sv *SourceVisibility) {
		sv.policy = p
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *logging.Logger) Option {
	return func(sv *SourceVisibility) {
		if l != nil {
			sv.log = l
		}
	}
}

// New builds a query handle for the source as seen from the site.
// Defaults: elevation between 15 and 85 degrees, the almanac provider,
// the centered policy, and a discarding logger. When the site carries
// a horizon mask and the constraint set has no mask constraint, the
// site mask is added to the set.
func New(pos astro.SkyPosition, site astro.ObserverSite, opts ...Option) *SourceVisibility {
	sv := &SourceVisibility{
		pos:    pos,
		site:   site,
		set:    DefaultConstraintSet(),
		prov:   ephem.NewAlmanac(),
		policy: PolicyCentered,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(sv)
	}

	if site.Mask != nil && !sv.set.Has(KindHorizonMask.String()) {
		if extended, err := NewConstraintSet(append(sv.set.Constraints(), HorizonMask(site.Mask))...); err == nil {
			sv.set = extended
		}
	}

	return sv
}

// Position returns the source position.
func (sv *SourceVisibility) Position() astro.SkyPosition { return sv.pos }

// Site returns the observer site.
func (sv *SourceVisibility) Site() astro.ObserverSite { return sv.site }

// Constraints returns the active constraint set.
func (sv *SourceVisibility) Constraints() *ConstraintSet { return sv.set }

// Policy returns the best-window selection policy.
func (sv *SourceVisibility) Policy() Policy { return sv.policy }

// Provider returns the ephemeris provider.
func (sv *SourceVisibility) Provider() ephem.Provider { return sv.prov }

// ListWindows scans the range at the given step and returns the
// ordered visibility windows. An empty result is a legitimate negative
// answer.
func (sv *SourceVisibility) ListWindows(ctx context.Context, r Range, step time.Duration) ([]Window, error) {
	grid, err := NewGrid(r, step)
	if err != nil {
		return nil, err
	}
	sv.log.Debug("scanning %s at %s from %s, %d instants", sv.pos, r, sv.site.Name, grid.Len())

	s := Scanner{Evaluator: Evaluator{Provider: sv.prov}}
	windows, err := s.Scan(ctx, sv.pos, sv.site, sv.set, grid)
	if err != nil {
		return nil, err
	}
	sv.log.Debug("%d visibility windows", len(windows))
	return windows, nil
}

// BestWindow scans the range and selects the best slot of the wanted
// length under the configured policy.
func (sv *SourceVisibility) BestWindow(ctx context.Context, r Range, step, want time.Duration) (OptimalResult, error) {
	windows, err := sv.ListWindows(ctx, r, step)
	if err != nil {
		return OptimalResult{}, err
	}
	return SelectOptimal(windows, r, want, sv.policy)
}

// VisibleAt reports whether all constraints hold at the instant.
func (sv *SourceVisibility) VisibleAt(t time.Time) (bool, error) {
	e := Evaluator{Provider: sv.prov}
	ev, err := e.Evaluate(sv.pos, sv.site, sv.set, t)
	if err != nil {
		return false, err
	}
	return ev.Visible, nil
}

// Trace returns the raw per-instant sample series over the range, the
// input the windows are reduced from. Charts and reports consume it.
func (sv *SourceVisibility) Trace(ctx context.Context, r Range, step time.Duration) ([]Sample, error) {
	grid, err := NewGrid(r, step)
	if err != nil {
		return nil, err
	}
	s := Scanner{Evaluator: Evaluator{Provider: sv.prov}}
	return s.Trace(ctx, sv.pos, sv.site, sv.set, grid)
}

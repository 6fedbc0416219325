package visibility

import (
	"time"

	"github.com/radionets-project/radiotools/internal/astro"
	"github.com/radionets-project/radiotools/internal/ephem"
)

// Evaluator checks a constraint set against the sky geometry of one
// instant. It is a pure function of its inputs and the provider's
// deterministic output; it holds no state between calls.
type Evaluator struct {
	Provider ephem.Provider
}

// Evaluation is the outcome for a single instant: the computed
// horizontal coordinates, a per-constraint verdict keyed by constraint
// name, and the aggregate of all verdicts.
type Evaluation struct {
	Time       time.Time
	Horizontal astro.HorizontalCoord
	Results    map[string]bool
	Visible    bool
}

// Evaluate computes every constraint verdict for the source at time t.
// Body positions are fetched only when the set carries a separation
// constraint, each at most once per call. A provider failure returns
// an *EphemerisError; the caller must abort its scan rather than
// treat the instant as not visible.
func (e *Evaluator) Evaluate(pos astro.SkyPosition, site astro.ObserverSite, set *ConstraintSet, t time.Time) (Evaluation, error) {
	hc, err := e.Provider.Horizontal(pos, site, t)
	if err != nil {
		return Evaluation{}, &EphemerisError{At: t, Err: err}
	}

	var sun, moon astro.SkyPosition
	if set.needsSun {
		sun, err = e.Provider.BodyPosition(ephem.BodySun, t)
		if err != nil {
			return Evaluation{}, &EphemerisError{At: t, Err: err}
		}
	}
	if set.needsMoon {
		moon, err = e.Provider.BodyPosition(ephem.BodyMoon, t)
		if err != nil {
			return Evaluation{}, &EphemerisError{At: t, Err: err}
		}
	}

	ev := Evaluation{
		Time:       t,
		Horizontal: hc,
		Results:    make(map[string]bool, set.Len()),
		Visible:    true,
	}

	for _, c := range set.constraints {
		var ok bool
		switch c.kind {
		case KindMinElevation:
			ok = hc.Elevation >= c.limit
		case KindMaxElevation:
			ok = hc.Elevation <= c.limit
		case KindMinSunSeparation:
			ok = astro.AngularSeparation(pos, sun) >= c.limit
		case KindMinMoonSeparation:
			ok = astro.AngularSeparation(pos, moon) >= c.limit
		case KindHorizonMask:
			ok = hc.Elevation >= c.mask.ElevationAt(hc.Azimuth)
		case KindCustom:
			ok = c.fn(pos, site, t)
		}
		ev.Results[c.name] = ok
		ev.Visible = ev.Visible && ok
	}

	return ev, nil
}

package ephem

import (
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/radionets-project/radiotools/internal/astro"
)

// Supported time span for the almanac theories. Requests outside return
// ErrUnavailable rather than silently degrading accuracy.
const (
	almanacMinYear = 1800
	almanacMaxYear = 2200
)

// Almanac is the default ephemeris provider. It computes apparent
// sidereal time, solar and lunar positions from the Meeus algorithms,
// accurate to well under an arcminute, which is far below the grid
// resolution of any visibility scan.
//
// The zero value is ready to use and safe for concurrent use.
type Almanac struct{}

// NewAlmanac returns an almanac-backed provider.
func NewAlmanac() *Almanac {
	return &Almanac{}
}

// Name returns the provider name.
func (a *Almanac) Name() string { return "almanac" }

// Horizontal converts a fixed equatorial position to horizontal
// coordinates via the local apparent sidereal time and hour angle.
func (a *Almanac) Horizontal(pos astro.SkyPosition, site astro.ObserverSite, t time.Time) (astro.HorizontalCoord, error) {
	jd, err := a.julianDay(t)
	if err != nil {
		return astro.HorizontalCoord{}, err
	}

	// Greenwich apparent sidereal time, seconds of time to degrees.
	gast := sidereal.Apparent(jd).Sec() / 3600 * 15
	lst := astro.NormalizeDeg(gast + site.Longitude)

	return astro.HourAngleToHorizontal(lst-pos.RA, pos.Dec, site.Latitude), nil
}

// BodyPosition returns the apparent equatorial position of the sun or
// moon at time t.
func (a *Almanac) BodyPosition(b Body, t time.Time) (astro.SkyPosition, error) {
	jd, err := a.julianDay(t)
	if err != nil {
		return astro.SkyPosition{}, err
	}

	switch b {
	case BodySun:
		ra, dec := solar.ApparentEquatorial(jd)
		return astro.SkyPosition{
			RA:  astro.NormalizeDeg(unit.Angle(ra).Deg()),
			Dec: dec.Deg(),
		}, nil

	case BodyMoon:
		lon, lat, _ := moonposition.Position(jd)
		eps := nutation.MeanObliquity(jd)
		return astro.EclipticToEquatorial(lon.Deg(), lat.Deg(), eps.Deg()), nil

	default:
		return astro.SkyPosition{}, fmt.Errorf("%w: unknown body %d", ErrUnavailable, int(b))
	}
}

func (a *Almanac) julianDay(t time.Time) (float64, error) {
	ut := t.UTC()
	if y := ut.Year(); y < almanacMinYear || y > almanacMaxYear {
		return 0, fmt.Errorf("%w: %s outside supported span %d-%d",
			ErrUnavailable, ut.Format(time.RFC3339), almanacMinYear, almanacMaxYear)
	}
	return julian.TimeToJD(ut), nil
}

// Package ephem provides ephemeris services: converting fixed sky
// positions into horizontal coordinates for a site and instant, and
// supplying solar system body positions.
package ephem

import (
	"errors"
	"time"

	"github.com/radionets-project/radiotools/internal/astro"
)

// ErrUnavailable reports that a provider cannot resolve a position for
// the requested instant. Callers must treat it as "could not determine",
// never as "not visible".
var ErrUnavailable = errors.New("ephemeris unavailable")

// Body identifies a solar system body with a computable position.
type Body int

const (
	BodySun Body = iota
	BodyMoon
)

// String returns the body name.
func (b Body) String() string {
	switch b {
	case BodySun:
		return "sun"
	case BodyMoon:
		return "moon"
	default:
		return "unknown"
	}
}

// Provider defines the interface for ephemeris computation backends.
// Implementations must be deterministic for fixed inputs and safe for
// concurrent use.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Horizontal returns the topocentric direction of a fixed equatorial
	// position as seen from the site at time t.
	Horizontal(pos astro.SkyPosition, site astro.ObserverSite, t time.Time) (astro.HorizontalCoord, error)

	// BodyPosition returns the apparent equatorial position of a solar
	// system body at time t.
	BodyPosition(b Body, t time.Time) (astro.SkyPosition, error)
}

package ephem

import (
	"fmt"
	"time"

	"github.com/radionets-project/radiotools/internal/astro"
)

// Static is a provider backed by caller-supplied functions. It is the
// building block for tests and for replaying recorded ephemerides:
// plug in whatever geometry the scenario needs and hand it to the
// scanner through the provider seam.
//
// A nil function reports ErrUnavailable instead of a zero position so
// that a misconfigured scenario fails loudly.
type Static struct {
	ProviderName string
	HorizontalFn func(pos astro.SkyPosition, site astro.ObserverSite, t time.Time) (astro.HorizontalCoord, error)
	BodyFn       func(b Body, t time.Time) (astro.SkyPosition, error)
}

// Name returns the configured provider name, or "static" if unset.
func (s *Static) Name() string {
	if s.ProviderName == "" {
		return "static"
	}
	return s.ProviderName
}

// Horizontal delegates to HorizontalFn.
func (s *Static) Horizontal(pos astro.SkyPosition, site astro.ObserverSite, t time.Time) (astro.HorizontalCoord, error) {
	if s.HorizontalFn == nil {
		return astro.HorizontalCoord{}, fmt.Errorf("%w: %s has no horizontal function", ErrUnavailable, s.Name())
	}
	return s.HorizontalFn(pos, site, t)
}

// BodyPosition delegates to BodyFn.
func (s *Static) BodyPosition(b Body, t time.Time) (astro.SkyPosition, error) {
	if s.BodyFn == nil {
		return astro.SkyPosition{}, fmt.Errorf("%w: %s has no body function", ErrUnavailable, s.Name())
	}
	return s.BodyFn(b, t)
}

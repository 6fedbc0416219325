package ephem

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/radionets-project/radiotools/internal/astro"
)

var (
	// Polaris, J2000. Within 1.5 degrees of the north celestial pole,
	// so its elevation from any northern site stays within about
	// 1.5 degrees of the site latitude at all times.
	polaris = astro.SkyPosition{RA: 37.9546, Dec: 89.2641}

	// Sigma Octantis, the southern pole star. Never rises north of
	// the equator.
	sigmaOct = astro.SkyPosition{RA: 317.1951, Dec: -88.9565}

	effelsberg = astro.ObserverSite{
		Name:      "Effelsberg",
		Latitude:  50.5248,
		Longitude: 6.8836,
		Height:    319,
	}
)

func TestAlmanacHorizontalPolaris(t *testing.T) {
	a := NewAlmanac()

	// Sample across a full day. Polaris barely moves on the sky, so
	// every sample must sit near the site latitude.
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 24; i++ {
		at := start.Add(time.Duration(i) * time.Hour)
		hc, err := a.Horizontal(polaris, effelsberg, at)
		if err != nil {
			t.Fatalf("Horizontal(polaris) at %s: %v", at, err)
		}
		if math.Abs(hc.Elevation-effelsberg.Latitude) > 1.5 {
			t.Errorf("polaris elevation at %s = %.3f, want %.3f +/- 1.5",
				at, hc.Elevation, effelsberg.Latitude)
		}
	}
}

func TestAlmanacHorizontalSouthernPole(t *testing.T) {
	a := NewAlmanac()

	at := time.Date(2024, 7, 15, 22, 0, 0, 0, time.UTC)
	hc, err := a.Horizontal(sigmaOct, effelsberg, at)
	if err != nil {
		t.Fatalf("Horizontal(sigma oct): %v", err)
	}
	if hc.Elevation > -45 {
		t.Errorf("sigma oct elevation = %.3f, want below -45 from a northern site", hc.Elevation)
	}
}

func TestAlmanacHorizontalDeterministic(t *testing.T) {
	a := NewAlmanac()

	at := time.Date(2024, 5, 5, 5, 5, 5, 0, time.UTC)
	first, err := a.Horizontal(polaris, effelsberg, at)
	if err != nil {
		t.Fatalf("Horizontal: %v", err)
	}
	second, err := a.Horizontal(polaris, effelsberg, at)
	if err != nil {
		t.Fatalf("Horizontal: %v", err)
	}
	if first != second {
		t.Errorf("repeated evaluation differs: %+v vs %+v", first, second)
	}
}

func TestAlmanacSunAtEquinox(t *testing.T) {
	a := NewAlmanac()

	// March equinox 2024, 03:06 UTC. The sun crosses the equator at
	// RA 0, so both coordinates must be near zero.
	at := time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC)
	pos, err := a.BodyPosition(BodySun, at)
	if err != nil {
		t.Fatalf("BodyPosition(sun): %v", err)
	}
	if math.Abs(pos.Dec) > 0.2 {
		t.Errorf("sun declination at equinox = %.4f, want ~0", pos.Dec)
	}
	if raDist := math.Min(pos.RA, 360-pos.RA); raDist > 0.5 {
		t.Errorf("sun RA at equinox = %.4f, want near 0/360", pos.RA)
	}
}

func TestAlmanacSunAtSolstice(t *testing.T) {
	a := NewAlmanac()

	// June solstice 2024, 20:51 UTC. Declination peaks at the
	// obliquity of the ecliptic.
	at := time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC)
	pos, err := a.BodyPosition(BodySun, at)
	if err != nil {
		t.Fatalf("BodyPosition(sun): %v", err)
	}
	if math.Abs(pos.Dec-23.436) > 0.1 {
		t.Errorf("sun declination at solstice = %.4f, want ~23.436", pos.Dec)
	}
}

func TestAlmanacSunMoonSeparation(t *testing.T) {
	a := NewAlmanac()

	tests := []struct {
		name string
		at   time.Time
		// separation bounds in degrees
		min, max float64
	}{
		{
			// Total solar eclipse of 2024-04-08, greatest eclipse
			// 18:17 UTC. Geocentric centers nearly coincide.
			name: "new moon eclipse",
			at:   time.Date(2024, 4, 8, 18, 17, 0, 0, time.UTC),
			min:  0,
			max:  2,
		},
		{
			// Full moon 2024-04-23 23:49 UTC. Opposition, modulo
			// the moon's ecliptic latitude.
			name: "full moon",
			at:   time.Date(2024, 4, 23, 23, 49, 0, 0, time.UTC),
			min:  165,
			max:  180,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sun, err := a.BodyPosition(BodySun, tt.at)
			if err != nil {
				t.Fatalf("BodyPosition(sun): %v", err)
			}
			moon, err := a.BodyPosition(BodyMoon, tt.at)
			if err != nil {
				t.Fatalf("BodyPosition(moon): %v", err)
			}
			sep := astro.AngularSeparation(sun, moon)
			if sep < tt.min || sep > tt.max {
				t.Errorf("sun-moon separation = %.3f, want in [%.0f, %.0f]", sep, tt.min, tt.max)
			}
		})
	}
}

func TestAlmanacSunNoonAzimuth(t *testing.T) {
	a := NewAlmanac()

	// Equinox noon at longitude zero. The sun sits close to due
	// south from a mid-northern site, elevation near 90 - latitude.
	at := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	site := astro.ObserverSite{Name: "greenwich", Latitude: 50, Longitude: 0}

	sun, err := a.BodyPosition(BodySun, at)
	if err != nil {
		t.Fatalf("BodyPosition(sun): %v", err)
	}
	hc, err := a.Horizontal(sun, site, at)
	if err != nil {
		t.Fatalf("Horizontal(sun): %v", err)
	}
	if hc.Azimuth < 170 || hc.Azimuth > 190 {
		t.Errorf("sun azimuth at noon = %.2f, want near 180", hc.Azimuth)
	}
	if hc.Elevation < 38 || hc.Elevation > 42 {
		t.Errorf("sun elevation at noon = %.2f, want near 40", hc.Elevation)
	}
}

func TestAlmanacOutsideSupportedSpan(t *testing.T) {
	a := NewAlmanac()

	ancient := time.Date(1750, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := a.Horizontal(polaris, effelsberg, ancient); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Horizontal in 1750: err = %v, want ErrUnavailable", err)
	}
	if _, err := a.BodyPosition(BodyMoon, ancient); !errors.Is(err, ErrUnavailable) {
		t.Errorf("BodyPosition in 1750: err = %v, want ErrUnavailable", err)
	}

	future := time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := a.BodyPosition(BodySun, future); !errors.Is(err, ErrUnavailable) {
		t.Errorf("BodyPosition in 2300: err = %v, want ErrUnavailable", err)
	}
}

func TestBodyString(t *testing.T) {
	if got := BodySun.String(); got != "sun" {
		t.Errorf("BodySun.String() = %q, want %q", got, "sun")
	}
	if got := BodyMoon.String(); got != "moon" {
		t.Errorf("BodyMoon.String() = %q, want %q", got, "moon")
	}
}

// Package astro provides the shared sky-math vocabulary: celestial and
// horizontal coordinate types, angular separation, and horizon masks.
package astro

import (
	"fmt"
	"math"
)

// SkyPosition is a fixed equatorial position (ICRS/J2000).
type SkyPosition struct {
	RA  float64 // Right Ascension in degrees (0-360)
	Dec float64 // Declination in degrees (-90 to +90)
}

func (p SkyPosition) String() string {
	return fmt.Sprintf("RA %.4f° Dec %+.4f°", p.RA, p.Dec)
}

// ObserverSite is a ground-based observer location. Immutable after
// construction; one site may be shared across concurrent queries.
type ObserverSite struct {
	Name      string
	Latitude  float64 // degrees, north positive
	Longitude float64 // degrees, east positive
	Height    float64 // meters above the reference ellipsoid

	// Mask is an optional azimuth-dependent horizon obstruction profile.
	Mask *HorizonMask
}

func (s ObserverSite) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("lat %.4f° lon %.4f°", s.Latitude, s.Longitude)
}

// HorizontalCoord is a topocentric direction at one instant.
type HorizontalCoord struct {
	Azimuth   float64 // degrees, 0=N 90=E 180=S 270=W
	Elevation float64 // degrees above the local horizon
}

// AngularSeparation returns the great-circle separation between two sky
// positions in degrees. Uses the haversine form, which stays accurate for
// small separations.
func AngularSeparation(a, b SkyPosition) float64 {
	ra1 := degToRad(a.RA)
	dec1 := degToRad(a.Dec)
	ra2 := degToRad(b.RA)
	dec2 := degToRad(b.Dec)

	dRA := ra2 - ra1
	dDec := dec2 - dec1

	h := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(dec1)*math.Cos(dec2)*math.Sin(dRA/2)*math.Sin(dRA/2)

	// Clamp against floating point drift before the asin.
	if h > 1 {
		h = 1
	}

	return radToDeg(2 * math.Asin(math.Sqrt(h)))
}

// EclipticToEquatorial converts ecliptic longitude/latitude to an
// equatorial position for a given obliquity. All angles in degrees.
func EclipticToEquatorial(lonDeg, latDeg, obliquityDeg float64) SkyPosition {
	lon := degToRad(lonDeg)
	lat := degToRad(latDeg)
	eps := degToRad(obliquityDeg)

	sinDec := math.Sin(lat)*math.Cos(eps) + math.Cos(lat)*math.Sin(eps)*math.Sin(lon)
	ra := math.Atan2(math.Sin(lon)*math.Cos(eps)-math.Tan(lat)*math.Sin(eps), math.Cos(lon))

	return SkyPosition{
		RA:  NormalizeDeg(radToDeg(ra)),
		Dec: radToDeg(math.Asin(sinDec)),
	}
}

// HourAngleToHorizontal converts an hour angle (degrees, positive west)
// and declination to horizontal coordinates for an observer latitude.
// Azimuth convention: 0° = North, 90° = East.
func HourAngleToHorizontal(haDeg, decDeg, latDeg float64) HorizontalCoord {
	ha := degToRad(haDeg)
	dec := degToRad(decDeg)
	lat := degToRad(latDeg)

	sinEl := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	el := math.Asin(clamp1(sinEl))

	cosAz := (math.Sin(dec) - math.Sin(el)*math.Sin(lat)) / (math.Cos(el) * math.Cos(lat))
	az := math.Acos(clamp1(cosAz))

	// Positive hour angle puts the source west of the meridian.
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return HorizontalCoord{
		Azimuth:   radToDeg(az),
		Elevation: radToDeg(el),
	}
}

// NormalizeDeg wraps an angle into [0, 360).
func NormalizeDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

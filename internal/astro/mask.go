package astro

import (
	"fmt"
	"sort"
)

// MaskPoint is one sample of a horizon obstruction profile.
type MaskPoint struct {
	Azimuth   float64 // degrees, 0-360
	Elevation float64 // minimum unobstructed elevation in degrees
}

// HorizonMask models azimuth-dependent obstructions (mountains, buildings)
// around a site as a piecewise-linear minimum-elevation profile.
// Lookups interpolate between neighboring points and wrap across north.
type HorizonMask struct {
	points []MaskPoint
}

// NewHorizonMask builds a mask from obstruction samples. Points are sorted
// by azimuth; at least one point is required. Azimuths outside [0, 360)
// are wrapped, elevations must lie in [-90, 90].
func NewHorizonMask(points []MaskPoint) (*HorizonMask, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("horizon mask needs at least one point")
	}

	sorted := make([]MaskPoint, len(points))
	for i, p := range points {
		if p.Elevation < -90 || p.Elevation > 90 {
			return nil, fmt.Errorf("horizon mask elevation %.1f° out of range at azimuth %.1f°", p.Elevation, p.Azimuth)
		}
		sorted[i] = MaskPoint{Azimuth: NormalizeDeg(p.Azimuth), Elevation: p.Elevation}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Azimuth < sorted[j].Azimuth
	})

	return &HorizonMask{points: sorted}, nil
}

// ElevationAt returns the minimum unobstructed elevation at the given
// azimuth, linearly interpolated between the two neighboring mask points.
// The profile wraps: the segment between the last and first point spans
// north.
func (m *HorizonMask) ElevationAt(azDeg float64) float64 {
	az := NormalizeDeg(azDeg)
	pts := m.points

	if len(pts) == 1 {
		return pts[0].Elevation
	}

	// Find the first point at or past az.
	i := sort.Search(len(pts), func(i int) bool {
		return pts[i].Azimuth >= az
	})

	var lo, hi MaskPoint
	var span, offset float64
	switch i {
	case 0, len(pts):
		// Wraparound segment between the last and first point.
		lo = pts[len(pts)-1]
		hi = pts[0]
		span = 360 - lo.Azimuth + hi.Azimuth
		if az >= lo.Azimuth {
			offset = az - lo.Azimuth
		} else {
			offset = 360 - lo.Azimuth + az
		}
	default:
		lo = pts[i-1]
		hi = pts[i]
		span = hi.Azimuth - lo.Azimuth
		offset = az - lo.Azimuth
	}

	if span == 0 {
		return lo.Elevation
	}

	f := offset / span
	return lo.Elevation + f*(hi.Elevation-lo.Elevation)
}

// Points returns a copy of the mask profile, sorted by azimuth.
func (m *HorizonMask) Points() []MaskPoint {
	out := make([]MaskPoint, len(m.points))
	copy(out, m.points)
	return out
}

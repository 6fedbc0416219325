package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/radionets-project/radiotools/internal/astro"
)

// SpeedOfLight in m/s (vacuum).
const SpeedOfLight = 299792458.0

// WGS84 ellipsoid semi-axes in meters.
const (
	wgs84A = 6378137.0
	wgs84B = 6356752.3142
)

// wgs84E2 is the first eccentricity squared.
var wgs84E2 = 1 - (wgs84B/wgs84A)*(wgs84B/wgs84A)

// ErrRelative reports an operation that needs geocentric coordinates on
// a layout stored relative to a reference site.
var ErrRelative = errors.New("layout uses relative coordinates")

// Vec3 is a 3D position in meters, in whatever frame the caller tracks.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Pos returns the station position as a vector.
func (s Station) Pos() Vec3 {
	return Vec3{X: s.X, Y: s.Y, Z: s.Z}
}

// GeodeticToITRF converts geodetic latitude, longitude (degrees) and
// ellipsoidal height (meters) to a geocentric ITRF position.
func GeodeticToITRF(latDeg, lonDeg, height float64) Vec3 {
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180

	sinLat := math.Sin(lat)
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	return Vec3{
		X: (n + height) * math.Cos(lat) * math.Cos(lon),
		Y: (n + height) * math.Cos(lat) * math.Sin(lon),
		Z: (n*(1-wgs84E2) + height) * sinLat,
	}
}

// ITRFToGeodetic converts a geocentric ITRF position to geodetic
// latitude, longitude (degrees) and ellipsoidal height (meters). The
// latitude is solved iteratively; convergence is sub-millimeter within
// a few rounds.
func ITRFToGeodetic(v Vec3) (latDeg, lonDeg, height float64) {
	lon := math.Atan2(v.Y, v.X)
	p := math.Hypot(v.X, v.Y)

	if p == 0 {
		// On the polar axis the longitude is arbitrary.
		lat := math.Pi / 2
		if v.Z < 0 {
			lat = -lat
		}
		return lat * 180 / math.Pi, 0, math.Abs(v.Z) - wgs84B
	}

	lat := math.Atan2(v.Z, p*(1-wgs84E2))
	var n float64
	for i := 0; i < 10; i++ {
		sinLat := math.Sin(lat)
		n = wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
		height = p/math.Cos(lat) - n
		next := math.Atan2(v.Z, p*(1-wgs84E2*n/(n+height)))
		if math.Abs(next-lat) < 1e-12 {
			lat = next
			break
		}
		lat = next
	}

	sinLat := math.Sin(lat)
	n = wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
	height = p/math.Cos(lat) - n

	return lat * 180 / math.Pi, lon * 180 / math.Pi, height
}

// ITRFToLocal expresses a geocentric position in the local east, north,
// up frame tangent at ref.
func ITRFToLocal(v, ref Vec3) Vec3 {
	latDeg, lonDeg, _ := ITRFToGeodetic(ref)
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180

	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	d := v.Sub(ref)
	return Vec3{
		X: -sinLon*d.X + cosLon*d.Y,
		Y: -sinLat*cosLon*d.X - sinLat*sinLon*d.Y + cosLat*d.Z,
		Z: cosLat*cosLon*d.X + cosLat*sinLon*d.Y + sinLat*d.Z,
	}
}

// LocalToITRF converts a local east, north, up position tangent at ref
// back to geocentric coordinates. Exact inverse of ITRFToLocal.
func LocalToITRF(enu, ref Vec3) Vec3 {
	latDeg, lonDeg, _ := ITRFToGeodetic(ref)
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180

	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	return ref.Add(Vec3{
		X: -sinLon*enu.X - sinLat*cosLon*enu.Y + cosLat*cosLon*enu.Z,
		Y: cosLon*enu.X - sinLat*sinLon*enu.Y + cosLat*sinLon*enu.Z,
		Z: cosLat*enu.Y + sinLat*enu.Z,
	})
}

// Centroid returns the mean station position, in the layout's frame.
func (l *Layout) Centroid() Vec3 {
	if len(l.Stations) == 0 {
		return Vec3{}
	}
	var c Vec3
	for _, st := range l.Stations {
		c = c.Add(st.Pos())
	}
	return Vec3{X: c.X / float64(len(l.Stations)), Y: c.Y / float64(len(l.Stations)), Z: c.Z / float64(len(l.Stations))}
}

// Baselines returns the lengths of all unique station pairs in meters,
// in pair order. Lengths are frame independent, so relative layouts
// work too.
func (l *Layout) Baselines() []float64 {
	n := len(l.Stations)
	if n < 2 {
		return nil
	}
	out := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, l.Stations[i].Pos().Sub(l.Stations[j].Pos()).Norm())
		}
	}
	return out
}

// MaxBaseline returns the longest baseline in meters, or 0 for fewer
// than two stations.
func (l *Layout) MaxBaseline() float64 {
	var max float64
	for _, b := range l.Baselines() {
		if b > max {
			max = b
		}
	}
	return max
}

// MinBaseline returns the shortest baseline in meters, or 0 for fewer
// than two stations.
func (l *Layout) MinBaseline() float64 {
	bls := l.Baselines()
	if len(bls) == 0 {
		return 0
	}
	min := bls[0]
	for _, b := range bls[1:] {
		if b < min {
			min = b
		}
	}
	return min
}

// MaxResolution returns the diffraction-limited angular resolution of
// the array in arcseconds at an observing frequency in Hz: the
// wavelength over the longest baseline. Returns 0 when the layout has
// fewer than two stations or the frequency is not positive.
func (l *Layout) MaxResolution(freqHz float64) float64 {
	maxB := l.MaxBaseline()
	if maxB == 0 || freqHz <= 0 {
		return 0
	}
	return 3600 * 180 / math.Pi * SpeedOfLight / (freqHz * maxB)
}

// Sites returns one observer site per station, converting geocentric
// coordinates to geodetic ones. Fails for relative layouts, which carry
// no absolute positions.
func (l *Layout) Sites() ([]astro.ObserverSite, error) {
	if l.IsRelative() {
		return nil, fmt.Errorf("%w: cannot derive station sites (relative to %s)", ErrRelative, l.RelToSite)
	}

	sites := make([]astro.ObserverSite, len(l.Stations))
	for i, st := range l.Stations {
		lat, lon, h := ITRFToGeodetic(st.Pos())
		sites[i] = astro.ObserverSite{
			Name:      st.Name,
			Latitude:  lat,
			Longitude: lon,
			Height:    h,
		}
	}
	return sites, nil
}

// Relative returns a copy of the layout with station coordinates
// expressed in the local tangent plane at ref, labeled with the
// reference site's name.
func (l *Layout) Relative(ref Vec3, refName string) (*Layout, error) {
	if l.IsRelative() {
		return nil, fmt.Errorf("%w: already relative to %s", ErrRelative, l.RelToSite)
	}

	out := &Layout{Name: l.Name, Source: l.Source, RelToSite: refName}
	out.Stations = make([]Station, len(l.Stations))
	for i, st := range l.Stations {
		enu := ITRFToLocal(st.Pos(), ref)
		ns := st
		ns.X, ns.Y, ns.Z = enu.X, enu.Y, enu.Z
		out.Stations[i] = ns
	}
	return out, nil
}

// Absolute returns a copy of the layout with station coordinates
// converted from the local tangent plane at ref back to geocentric
// ITRF.
func (l *Layout) Absolute(ref Vec3) (*Layout, error) {
	if !l.IsRelative() {
		return nil, errors.New("layout already uses geocentric coordinates")
	}

	out := &Layout{Name: l.Name, Source: l.Source}
	out.Stations = make([]Station, len(l.Stations))
	for i, st := range l.Stations {
		itrf := LocalToITRF(st.Pos(), ref)
		ns := st
		ns.X, ns.Y, ns.Z = itrf.X, itrf.Y, itrf.Z
		out.Stations[i] = ns
	}
	return out, nil
}

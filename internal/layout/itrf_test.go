package layout

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestGeodeticToITRFReference(t *testing.T) {
	// On the equator at the prime meridian the position is one equatorial
	// radius down the X axis; at the poles it is one polar radius up Z.
	tests := []struct {
		name         string
		lat, lon, h  float64
		wantX, wantY float64
		wantZ        float64
	}{
		{name: "equator prime meridian", lat: 0, lon: 0, h: 0, wantX: wgs84A, wantY: 0, wantZ: 0},
		{name: "equator 90E", lat: 0, lon: 90, h: 0, wantX: 0, wantY: wgs84A, wantZ: 0},
		{name: "north pole", lat: 90, lon: 0, h: 0, wantX: 0, wantY: 0, wantZ: wgs84B},
		{name: "south pole", lat: -90, lon: 0, h: 0, wantX: 0, wantY: 0, wantZ: -wgs84B},
		{name: "equator with height", lat: 0, lon: 0, h: 1000, wantX: wgs84A + 1000, wantY: 0, wantZ: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := GeodeticToITRF(tt.lat, tt.lon, tt.h)
			if math.Abs(v.X-tt.wantX) > 1e-6 || math.Abs(v.Y-tt.wantY) > 1e-6 || math.Abs(v.Z-tt.wantZ) > 1e-6 {
				t.Errorf("got (%.6f, %.6f, %.6f), want (%.6f, %.6f, %.6f)",
					v.X, v.Y, v.Z, tt.wantX, tt.wantY, tt.wantZ)
			}
		})
	}
}

func TestGeodeticRoundTrip(t *testing.T) {
	sites := []struct {
		name        string
		lat, lon, h float64
	}{
		{name: "effelsberg", lat: 50.5248, lon: 6.8836, h: 319},
		{name: "vla", lat: 34.0784, lon: -107.6184, h: 2124},
		{name: "meerkat", lat: -30.7130, lon: 21.4430, h: 1054},
		{name: "high latitude", lat: 78.2232, lon: 15.6267, h: 10},
		{name: "near south pole", lat: -89.99, lon: 139.27, h: 2835},
	}

	for _, s := range sites {
		t.Run(s.name, func(t *testing.T) {
			v := GeodeticToITRF(s.lat, s.lon, s.h)
			lat, lon, h := ITRFToGeodetic(v)
			if math.Abs(lat-s.lat) > 1e-8 {
				t.Errorf("lat %.10f, want %.10f", lat, s.lat)
			}
			if math.Abs(lon-s.lon) > 1e-8 {
				t.Errorf("lon %.10f, want %.10f", lon, s.lon)
			}
			if math.Abs(h-s.h) > 1e-3 {
				t.Errorf("height %.6f, want %.6f", h, s.h)
			}
		})
	}
}

func TestITRFToGeodeticPolarAxis(t *testing.T) {
	lat, lon, h := ITRFToGeodetic(Vec3{Z: wgs84B + 100})
	if lat != 90 || lon != 0 {
		t.Errorf("north axis: lat %.6f lon %.6f, want 90 0", lat, lon)
	}
	if math.Abs(h-100) > 1e-6 {
		t.Errorf("north axis height %.6f, want 100", h)
	}

	lat, _, _ = ITRFToGeodetic(Vec3{Z: -wgs84B})
	if lat != -90 {
		t.Errorf("south axis: lat %.6f, want -90", lat)
	}
}

func TestLocalFrameAtEquator(t *testing.T) {
	// At (0°, 0°) the ENU axes line up with the ITRF axes: east is +Y,
	// north is +Z, up is +X.
	ref := GeodeticToITRF(0, 0, 0)

	tests := []struct {
		name string
		enu  Vec3
		want Vec3
	}{
		{name: "east", enu: Vec3{X: 1000}, want: Vec3{X: wgs84A, Y: 1000}},
		{name: "north", enu: Vec3{Y: 1000}, want: Vec3{X: wgs84A, Z: 1000}},
		{name: "up", enu: Vec3{Z: 1000}, want: Vec3{X: wgs84A + 1000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalToITRF(tt.enu, ref)
			if got.Sub(tt.want).Norm() > 1e-6 {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLocalRoundTrip(t *testing.T) {
	ref := GeodeticToITRF(34.0784, -107.6184, 2124)

	offsets := []Vec3{
		{},
		{X: 1200},
		{Y: -5400},
		{Z: 80},
		{X: -36000, Y: 12000, Z: -40},
	}

	for _, enu := range offsets {
		abs := LocalToITRF(enu, ref)
		back := ITRFToLocal(abs, ref)
		if back.Sub(enu).Norm() > 1e-6 {
			t.Errorf("offset %+v came back as %+v", enu, back)
		}
	}
}

func TestBaselines(t *testing.T) {
	l := &Layout{Stations: []Station{
		{Name: "A"},
		{Name: "B", X: 3, Y: 4},
		{Name: "C", Z: 10},
	}}

	bls := l.Baselines()
	if len(bls) != 3 {
		t.Fatalf("got %d baselines, want 3", len(bls))
	}

	// Pair order: A-B, A-C, B-C.
	want := []float64{5, 10, math.Sqrt(125)}
	for i, b := range bls {
		if math.Abs(b-want[i]) > 1e-12 {
			t.Errorf("baseline %d = %.12f, want %.12f", i, b, want[i])
		}
	}

	if got := l.MaxBaseline(); math.Abs(got-math.Sqrt(125)) > 1e-12 {
		t.Errorf("MaxBaseline = %v", got)
	}
	if got := l.MinBaseline(); got != 5 {
		t.Errorf("MinBaseline = %v, want 5", got)
	}
}

func TestBaselinesDegenerate(t *testing.T) {
	single := &Layout{Stations: []Station{{Name: "A"}}}
	if bls := single.Baselines(); bls != nil {
		t.Errorf("single station baselines = %v, want nil", bls)
	}
	if single.MaxBaseline() != 0 || single.MinBaseline() != 0 {
		t.Error("degenerate layout baselines should be 0")
	}
}

func TestMaxResolution(t *testing.T) {
	// A 36 km baseline at 1.4 GHz resolves about 1.23 arcsec, the
	// canonical VLA A-configuration L-band figure.
	l := &Layout{Stations: []Station{
		{Name: "A"},
		{Name: "B", X: 36000},
	}}

	res := l.MaxResolution(1.4e9)
	if math.Abs(res-1.227) > 0.01 {
		t.Errorf("resolution = %.4f arcsec, want about 1.227", res)
	}

	if l.MaxResolution(0) != 0 {
		t.Error("non-positive frequency should yield 0")
	}
	empty := &Layout{}
	if empty.MaxResolution(1.4e9) != 0 {
		t.Error("empty layout should yield 0")
	}
}

func TestSites(t *testing.T) {
	pos := GeodeticToITRF(50.5248, 6.8836, 319)
	l := &Layout{Stations: []Station{
		{Name: "EB", X: pos.X, Y: pos.Y, Z: pos.Z, DishDia: 100},
	}}

	sites, err := l.Sites()
	if err != nil {
		t.Fatalf("Sites: %v", err)
	}
	if len(sites) != 1 {
		t.Fatalf("got %d sites, want 1", len(sites))
	}

	s := sites[0]
	if s.Name != "EB" {
		t.Errorf("site name %q", s.Name)
	}
	if math.Abs(s.Latitude-50.5248) > 1e-6 || math.Abs(s.Longitude-6.8836) > 1e-6 {
		t.Errorf("site at (%.6f, %.6f), want (50.5248, 6.8836)", s.Latitude, s.Longitude)
	}
	if math.Abs(s.Height-319) > 1e-3 {
		t.Errorf("site height %.4f, want 319", s.Height)
	}
}

func TestSitesRelativeFails(t *testing.T) {
	l := &Layout{RelToSite: "vla", Stations: []Station{{Name: "P1"}}}
	_, err := l.Sites()
	if !errors.Is(err, ErrRelative) {
		t.Errorf("err = %v, want ErrRelative", err)
	}
}

func TestRelativeAbsoluteRoundTrip(t *testing.T) {
	l, err := Read(strings.NewReader(vlaPadsConfig))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	ref := l.Centroid()
	rel, err := l.Relative(ref, "vla")
	if err != nil {
		t.Fatalf("Relative: %v", err)
	}
	if !rel.IsRelative() || rel.RelToSite != "vla" {
		t.Fatalf("relative layout: %+v", rel)
	}

	// Pad offsets from the array center stay within a couple kilometers.
	for _, st := range rel.Stations {
		if st.Pos().Norm() > 2000 {
			t.Errorf("station %s is %.0f m from the reference, expected nearby", st.Name, st.Pos().Norm())
		}
	}

	// The tangent plane transform is rigid, so baselines survive.
	for i, b := range rel.Baselines() {
		if math.Abs(b-l.Baselines()[i]) > 1e-6 {
			t.Errorf("baseline %d changed: %.6f vs %.6f", i, b, l.Baselines()[i])
		}
	}

	abs, err := rel.Absolute(ref)
	if err != nil {
		t.Fatalf("Absolute: %v", err)
	}
	for i, st := range abs.Stations {
		if st.Pos().Sub(l.Stations[i].Pos()).Norm() > 1e-6 {
			t.Errorf("station %s drifted: %+v vs %+v", st.Name, st.Pos(), l.Stations[i].Pos())
		}
	}

	// Converting in the wrong direction fails either way.
	if _, err := rel.Relative(ref, "vla"); !errors.Is(err, ErrRelative) {
		t.Errorf("Relative on relative layout: %v", err)
	}
	if _, err := l.Absolute(ref); err == nil {
		t.Error("Absolute on absolute layout should fail")
	}
}

func TestCentroid(t *testing.T) {
	l := &Layout{Stations: []Station{
		{X: 0, Y: 0, Z: 0},
		{X: 6, Y: -3, Z: 9},
	}}
	c := l.Centroid()
	if c != (Vec3{X: 3, Y: -1.5, Z: 4.5}) {
		t.Errorf("centroid = %+v", c)
	}

	if (&Layout{}).Centroid() != (Vec3{}) {
		t.Error("empty centroid should be the origin")
	}
}

package astro

import "testing"

func TestLookupSource(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantName string
		wantOK   bool
	}{
		{"primary name", "Virgo A", "Virgo A", true},
		{"messier alias", "M87", "Virgo A", true},
		{"case insensitive", "cygnus a", "Cygnus A", true},
		{"spaces ignored", "3c273", "3C 273", true},
		{"alias with spaces", "cas a", "Cassiopeia A", true},
		{"sgr a star", "Sgr A*", "Sagittarius A*", true},
		{"unknown source", "Betelgeuse", "", false},
		{"empty name", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, ok := LookupSource(tt.query)
			if ok != tt.wantOK {
				t.Fatalf("LookupSource(%q) ok = %v, want %v", tt.query, ok, tt.wantOK)
			}
			if ok && src.Name != tt.wantName {
				t.Errorf("LookupSource(%q) = %q, want %q", tt.query, src.Name, tt.wantName)
			}
		})
	}
}

func TestCatalog_PositionsInRange(t *testing.T) {
	for _, src := range Catalog() {
		if src.Pos.RA < 0 || src.Pos.RA >= 360 {
			t.Errorf("%s: RA %v out of range", src.Name, src.Pos.RA)
		}
		if src.Pos.Dec < -90 || src.Pos.Dec > 90 {
			t.Errorf("%s: Dec %v out of range", src.Name, src.Pos.Dec)
		}
		if src.FluxJy <= 0 {
			t.Errorf("%s: non-positive flux %v", src.Name, src.FluxJy)
		}
	}
}

func TestCatalog_M87Position(t *testing.T) {
	src, ok := LookupSource("M87")
	if !ok {
		t.Fatal("M87 missing from catalog")
	}

	// J2000: 12h30m49s +12°23'28"
	if !almostEqual(src.Pos.RA, 187.706, 0.01) {
		t.Errorf("M87 RA = %v, want ~187.706", src.Pos.RA)
	}
	if !almostEqual(src.Pos.Dec, 12.391, 0.01) {
		t.Errorf("M87 Dec = %v, want ~12.391", src.Pos.Dec)
	}
}

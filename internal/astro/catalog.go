package astro

import "strings"

// Source is a cataloged radio source.
type Source struct {
	Name    string      // Primary name (e.g., "Virgo A")
	Aliases []string    // Alternate designations
	Pos     SkyPosition // J2000 equatorial position
	FluxJy  float64     // Approximate flux density at 1.4 GHz in Jansky
}

// Catalog returns the built-in catalog of bright radio sources and
// standard calibrators. Positions are J2000; flux densities are
// approximate literature values for display and sorting only.
func Catalog() []Source {
	return catalogSources
}

// LookupSource resolves a source name against the built-in catalog.
// Matching is case-insensitive and ignores spaces, so "M87", "m 87" and
// "virgo a" all resolve.
func LookupSource(name string) (Source, bool) {
	key := normalizeName(name)
	if key == "" {
		return Source{}, false
	}
	for _, src := range catalogSources {
		if normalizeName(src.Name) == key {
			return src, true
		}
		for _, alias := range src.Aliases {
			if normalizeName(alias) == key {
				return src, true
			}
		}
	}
	return Source{}, false
}

func normalizeName(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}

// catalogSources lists the brightest radio sources in the sky plus the
// common VLA flux calibrators. Ordered roughly by flux (brightest first).
var catalogSources = []Source{
	{"Cassiopeia A", []string{"Cas A", "3C 461"}, SkyPosition{RA: 350.8500, Dec: 58.8150}, 1768},
	{"Cygnus A", []string{"Cyg A", "3C 405"}, SkyPosition{RA: 299.8682, Dec: 40.7339}, 1590},
	{"Centaurus A", []string{"Cen A", "NGC 5128"}, SkyPosition{RA: 201.3650, Dec: -43.0192}, 1330},
	{"Taurus A", []string{"Tau A", "Crab Nebula", "M1", "3C 144"}, SkyPosition{RA: 83.6331, Dec: 22.0145}, 875},
	{"Orion A", []string{"M42"}, SkyPosition{RA: 83.8208, Dec: -5.3911}, 520},
	{"Virgo A", []string{"M87", "3C 274"}, SkyPosition{RA: 187.7059, Dec: 12.3911}, 212},
	{"Fornax A", []string{"NGC 1316"}, SkyPosition{RA: 50.6738, Dec: -37.2083}, 150},
	{"Pictor A", nil, SkyPosition{RA: 79.9571, Dec: -45.7789}, 66},
	{"Hercules A", []string{"3C 348"}, SkyPosition{RA: 252.7840, Dec: 4.9926}, 45},
	{"3C 273", nil, SkyPosition{RA: 187.2779, Dec: 2.0525}, 46},
	{"Hydra A", []string{"3C 218"}, SkyPosition{RA: 139.5238, Dec: -12.0956}, 43},
	{"3C 84", []string{"Perseus A", "NGC 1275"}, SkyPosition{RA: 49.9507, Dec: 41.5117}, 23},
	{"3C 295", nil, SkyPosition{RA: 212.8354, Dec: 52.2028}, 23},
	{"3C 147", nil, SkyPosition{RA: 85.6506, Dec: 49.8520}, 22},
	{"3C 48", nil, SkyPosition{RA: 24.4221, Dec: 33.1597}, 16},
	{"PKS 1934-638", nil, SkyPosition{RA: 294.8543, Dec: -63.7127}, 15},
	{"3C 286", nil, SkyPosition{RA: 202.7845, Dec: 30.5092}, 15},
	{"3C 380", nil, SkyPosition{RA: 277.3825, Dec: 48.7461}, 14},
	{"3C 196", nil, SkyPosition{RA: 123.4000, Dec: 48.2175}, 14},
	{"3C 454.3", nil, SkyPosition{RA: 343.4904, Dec: 16.1483}, 11},
	{"3C 138", nil, SkyPosition{RA: 80.2912, Dec: 16.6395}, 9},
	{"BL Lacertae", []string{"BL Lac"}, SkyPosition{RA: 330.6804, Dec: 42.2778}, 4},
	{"OJ 287", nil, SkyPosition{RA: 133.7036, Dec: 20.1085}, 2},
	{"Sagittarius A*", []string{"Sgr A*"}, SkyPosition{RA: 266.4168, Dec: -29.0078}, 1},
}

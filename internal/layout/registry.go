package layout

// KnownArrays lists the layouts the pyvisgen catalog is known to carry.
// The live catalog may have grown since; ArrayNames asks it directly.
var KnownArrays = []string{
	"alma",
	"alma_dsharp",
	"dsa2000W",
	"dsa2000_31b",
	"eht",
	"meerkat",
	"vla",
	"vlba",
}

// IsKnownArray reports whether name is in the bundled catalog list.
func IsKnownArray(name string) bool {
	for _, n := range KnownArrays {
		if n == name {
			return true
		}
	}
	return false
}

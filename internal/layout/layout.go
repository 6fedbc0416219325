// Package layout reads, writes, and converts radio interferometer array
// configuration files, and derives observing geometry (baselines, station
// sites, resolution limits) from them.
//
// Two on-disk formats are supported: the pyvisgen format used by the
// radionets layout catalog, and the NRAO CASA simulator format.
package layout

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrFormat reports input that matches no supported layout format.
var ErrFormat = errors.New("unrecognized layout format")

// Station is one antenna of an interferometer array.
type Station struct {
	Name     string
	X, Y, Z  float64 // ITRF meters, or local tangent plane (ENU) when the layout is relative
	DishDia  float64 // dish diameter in meters
	ElLow    float64 // lower elevation drive limit in degrees
	ElHigh   float64 // upper elevation drive limit in degrees
	SEFD     float64 // system equivalent flux density in Jy
	Altitude float64 // site altitude in meters
}

// Layout is an array configuration: a named set of stations in a common
// coordinate frame.
type Layout struct {
	Name      string
	Source    string // file path or URL the layout was loaded from
	RelToSite string // reference site name when coordinates are a local tangent plane
	Stations  []Station
}

// IsRelative reports whether station coordinates are relative to a
// reference site rather than geocentric.
func (l *Layout) IsRelative() bool {
	return l.RelToSite != ""
}

// Get returns the station with the given name. Lookup is case sensitive.
func (l *Layout) Get(name string) (Station, bool) {
	for _, st := range l.Stations {
		if st.Name == name {
			return st, true
		}
	}
	return Station{}, false
}

// Format identifies an on-disk layout file format.
type Format int

const (
	// FormatPyvisgen is the radionets pyvisgen format: a named-column
	// header row followed by one whitespace-separated row per station.
	FormatPyvisgen Format = iota

	// FormatCASA is the NRAO CASA simulator format: positions and dish
	// diameter only, with the column header in a comment line.
	FormatCASA
)

func (f Format) String() string {
	switch f {
	case FormatPyvisgen:
		return "pyvisgen"
	case FormatCASA:
		return "casa"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat converts a format name to a Format. Case insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pyvisgen":
		return FormatPyvisgen, nil
	case "casa":
		return FormatCASA, nil
	default:
		return 0, fmt.Errorf("unknown layout format %q (want pyvisgen or casa)", s)
	}
}

// pyvisgenColumns are the named columns a pyvisgen header must carry.
// Column order in the file is free; rows are read by header position.
var pyvisgenColumns = []string{
	"station_name", "x", "y", "z", "dish_dia", "el_low", "el_high", "sefd", "altitude",
}

// CASA files carry no drive limits or receiver data, so reads fall back
// to conventional values.
const (
	casaDefaultElLow  = 15.0
	casaDefaultElHigh = 85.0
)

// Read parses a layout from r, detecting the format from the first
// significant line: a pyvisgen column header, or a CASA comment header
// or observatory preamble.
func Read(r io.Reader) (*Layout, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "#"),
			strings.HasPrefix(line, "observatory="),
			strings.HasPrefix(line, "coordsys="):
			return readCASA(sc, line, lineNo)
		case hasField(line, "station_name"):
			return readPyvisgen(sc, line, lineNo)
		default:
			return nil, fmt.Errorf("%w: line %d starts with %q", ErrFormat, lineNo, strings.Fields(line)[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return nil, fmt.Errorf("%w: empty input", ErrFormat)
}

// hasField reports whether a whitespace-separated field of line equals
// name, ignoring case.
func hasField(line, name string) bool {
	for _, f := range strings.Fields(line) {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}

// readPyvisgen consumes station rows after the header line. Columns are
// matched by name so files may order them freely.
func readPyvisgen(sc *bufio.Scanner, header string, lineNo int) (*Layout, error) {
	cols := make(map[string]int)
	for i, name := range strings.Fields(header) {
		cols[strings.ToLower(name)] = i
	}
	for _, want := range pyvisgenColumns {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("%w: pyvisgen header missing column %q", ErrFormat, want)
		}
	}

	l := &Layout{}
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != len(cols) {
			return nil, fmt.Errorf("line %d: %d fields, header has %d columns", lineNo, len(fields), len(cols))
		}

		st := Station{Name: fields[cols["station_name"]]}
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{"x", &st.X}, {"y", &st.Y}, {"z", &st.Z},
			{"dish_dia", &st.DishDia},
			{"el_low", &st.ElLow}, {"el_high", &st.ElHigh},
			{"sefd", &st.SEFD}, {"altitude", &st.Altitude},
		} {
			v, err := strconv.ParseFloat(fields[cols[f.col]], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad %s value %q", lineNo, f.col, fields[cols[f.col]])
			}
			*f.dst = v
		}
		l.Stations = append(l.Stations, st)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return l, nil
}

// readCASA consumes a CASA config starting from its first significant
// line. Preamble assignments record the reference site; comment lines
// (including the column header) carry no data.
func readCASA(sc *bufio.Scanner, first string, lineNo int) (*Layout, error) {
	l := &Layout{}

	line := first
	for {
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			// skip
		case strings.HasPrefix(line, "observatory="):
			l.RelToSite = strings.TrimSpace(strings.TrimPrefix(line, "observatory="))
		case strings.HasPrefix(line, "coordsys="):
			// informational only
		default:
			fields := strings.Fields(line)
			if len(fields) != 5 {
				return nil, fmt.Errorf("line %d: %d fields, want 5 (X Y Z dish_dia station_name)", lineNo, len(fields))
			}

			st := Station{
				Name:   fields[4],
				ElLow:  casaDefaultElLow,
				ElHigh: casaDefaultElHigh,
			}
			for i, dst := range []*float64{&st.X, &st.Y, &st.Z, &st.DishDia} {
				v, err := strconv.ParseFloat(fields[i], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: bad value %q", lineNo, fields[i])
				}
				*dst = v
			}
			l.Stations = append(l.Stations, st)
		}

		if !sc.Scan() {
			break
		}
		lineNo++
		line = strings.TrimSpace(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return l, nil
}

// Encode writes the layout to w in the given format.
func (l *Layout) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatPyvisgen:
		return l.encodePyvisgen(w)
	case FormatCASA:
		return l.encodeCASA(w)
	default:
		return fmt.Errorf("unknown layout format %v", f)
	}
}

func (l *Layout) encodePyvisgen(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "station_name X Y Z dish_dia el_low el_high SEFD altitude")
	for _, st := range l.Stations {
		fmt.Fprintf(bw, "%s %s %s %s %s %s %s %s %s\n",
			st.Name, ftoa(st.X), ftoa(st.Y), ftoa(st.Z),
			ftoa(st.DishDia), ftoa(st.ElLow), ftoa(st.ElHigh),
			ftoa(st.SEFD), ftoa(st.Altitude))
	}
	return bw.Flush()
}

func (l *Layout) encodeCASA(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if l.IsRelative() {
		fmt.Fprintf(bw, "observatory=%s\n", l.RelToSite)
		fmt.Fprintln(bw, "coordsys=LOC (local tangent plane)")
	}
	fmt.Fprintln(bw, "# X Y Z dish_dia station_name")
	for _, st := range l.Stations {
		fmt.Fprintf(bw, "%s %s %s %s %s\n",
			ftoa(st.X), ftoa(st.Y), ftoa(st.Z), ftoa(st.DishDia), st.Name)
	}
	return bw.Flush()
}

// ftoa renders a coordinate with the fewest digits that survive a
// round-trip, never in exponent form.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadFile loads a layout from a file, naming it after the file stem.
func ReadFile(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layout: %w", err)
	}
	defer f.Close()

	l, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.Source = path
	l.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return l, nil
}

// WriteFile writes the layout to a file in the given format.
func (l *Layout) WriteFile(path string, f Format) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create layout file: %w", err)
	}
	if err := l.Encode(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

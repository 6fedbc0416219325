// Package report renders visibility results and array layouts as text
// tables and JSON for the command line.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/radionets-project/radiotools/internal/astro"
	"github.com/radionets-project/radiotools/internal/layout"
	"github.com/radionets-project/radiotools/internal/visibility"
)

const timeLayout = time.RFC3339

// WriteWindows writes a table of visibility windows for one target and
// site over the scanned range.
func WriteWindows(w io.Writer, target string, site astro.ObserverSite, span visibility.Range, windows []visibility.Window) {
	fmt.Fprintf(w, "Visibility of %s from %s\n", target, site)
	fmt.Fprintf(w, "Scan range %s to %s\n", span.Start.Format(timeLayout), span.End.Format(timeLayout))
	fmt.Fprintln(w, strings.Repeat("─", 86))

	if len(windows) == 0 {
		fmt.Fprintln(w, "No visibility windows in this range")
		return
	}

	fmt.Fprintf(w, "%-3s %-20s %-20s %-10s %-8s %-20s\n",
		"#", "Start", "End", "Duration", "Peak El", "Peak")
	fmt.Fprintln(w, strings.Repeat("─", 86))

	var total time.Duration
	for i, win := range windows {
		total += win.Duration()
		fmt.Fprintf(w, "%-3d %-20s %-20s %-10s %6.1f°  %-20s\n",
			i+1,
			win.Start.Format(timeLayout),
			win.End.Format(timeLayout),
			fmtDuration(win.Duration()),
			win.MaxElevation,
			win.Peak.Format(timeLayout),
		)
	}

	fmt.Fprintf(w, "\nTotal: %d windows, %s visible\n", len(windows), fmtDuration(total))
}

// WriteBest writes the selected observation slot for one target.
func WriteBest(w io.Writer, target string, res visibility.OptimalResult) {
	fmt.Fprintf(w, "Best observation time for %s\n", target)
	fmt.Fprintln(w, strings.Repeat("─", 60))

	fmt.Fprintf(w, "  %-10s %s\n", "Start", res.Start.Format(timeLayout))
	fmt.Fprintf(w, "  %-10s %s\n", "Center", res.Center.Format(timeLayout))
	fmt.Fprintf(w, "  %-10s %s\n", "End", res.End.Format(timeLayout))
	fmt.Fprintf(w, "  %-10s %s (requested %s)\n", "Duration",
		fmtDuration(res.End.Sub(res.Start)), fmtDuration(res.Requested))
	fmt.Fprintf(w, "  %-10s %.1f° at %s\n", "Peak",
		res.Window.MaxElevation, res.Window.Peak.Format(timeLayout))

	if !res.Fits {
		fmt.Fprintf(w, "  %-10s requested duration does not fit; using the longest window\n", "Note")
	}
}

// WriteArrayBest writes the best common observation slot across an
// array's stations.
func WriteArrayBest(w io.Writer, target string, res visibility.ArrayResult) {
	fmt.Fprintf(w, "Best array observation time for %s\n", target)
	fmt.Fprintln(w, strings.Repeat("─", 60))

	station := fmt.Sprintf("#%d", res.Station)
	if res.Name != "" {
		station = fmt.Sprintf("%s (#%d)", res.Name, res.Station)
	}
	fmt.Fprintf(w, "  %-10s %s\n", "Station", station)
	fmt.Fprintf(w, "  %-10s %s\n", "Start", res.Start.Format(timeLayout))
	fmt.Fprintf(w, "  %-10s %s\n", "Center", res.Center.Format(timeLayout))
	fmt.Fprintf(w, "  %-10s %s\n", "End", res.End.Format(timeLayout))
	fmt.Fprintf(w, "  %-10s %s\n", "Duration", fmtDuration(res.End.Sub(res.Start)))
}

// WriteLayout writes an array layout summary and its station table.
func WriteLayout(w io.Writer, l *layout.Layout) {
	name := l.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "Layout %s: %d stations, %d baselines\n",
		name, len(l.Stations), len(l.Stations)*(len(l.Stations)-1)/2)
	if l.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", l.Source)
	}
	if l.IsRelative() {
		fmt.Fprintf(w, "Relative to site: %s\n", l.RelToSite)
	}
	if len(l.Stations) >= 2 {
		fmt.Fprintf(w, "Longest baseline: %.1f m\n", l.MaxBaseline())
		fmt.Fprintf(w, "Shortest baseline: %.1f m\n", l.MinBaseline())
	}

	fmt.Fprintln(w, strings.Repeat("─", 106))
	fmt.Fprintf(w, "%-14s %14s %14s %14s %9s %7s %8s %9s %9s\n",
		"station_name", "X", "Y", "Z", "dish_dia", "el_low", "el_high", "SEFD", "altitude")
	fmt.Fprintln(w, strings.Repeat("─", 106))

	for _, st := range l.Stations {
		fmt.Fprintf(w, "%-14s %14.3f %14.3f %14.3f %9.1f %7.1f %8.1f %9.1f %9.1f\n",
			truncate(st.Name, 14), st.X, st.Y, st.Z,
			st.DishDia, st.ElLow, st.ElHigh, st.SEFD, st.Altitude)
	}
}

// WriteBaselines writes every unique station pair with its length, and
// the array's resolution when a frequency is given.
func WriteBaselines(w io.Writer, l *layout.Layout, freqHz float64) {
	bls := l.Baselines()
	fmt.Fprintf(w, "Baselines of %s: %d unique pairs\n", l.Name, len(bls))
	fmt.Fprintln(w, strings.Repeat("─", 50))

	if len(bls) == 0 {
		fmt.Fprintln(w, "Fewer than two stations")
		return
	}

	for i, a := 0, 0; a < len(l.Stations); a++ {
		for b := a + 1; b < len(l.Stations); b++ {
			fmt.Fprintf(w, "%-14s %-14s %16.1f m\n",
				truncate(l.Stations[a].Name, 14), truncate(l.Stations[b].Name, 14), bls[i])
			i++
		}
	}

	fmt.Fprintf(w, "\nLongest: %.1f m  Shortest: %.1f m\n", l.MaxBaseline(), l.MinBaseline())
	if freqHz > 0 {
		fmt.Fprintf(w, "Resolution at %s: %g arcsec\n", fmtFrequency(freqHz), l.MaxResolution(freqHz))
	}
}

func fmtDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}

func fmtFrequency(hz float64) string {
	switch {
	case hz >= 1e9:
		return fmt.Sprintf("%.3g GHz", hz/1e9)
	case hz >= 1e6:
		return fmt.Sprintf("%.3g MHz", hz/1e6)
	case hz >= 1e3:
		return fmt.Sprintf("%.3g kHz", hz/1e3)
	default:
		return fmt.Sprintf("%g Hz", hz)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/radionets-project/radiotools/internal/astro"
	"github.com/radionets-project/radiotools/internal/ephem"
	"github.com/radionets-project/radiotools/internal/report"
	"github.com/radionets-project/radiotools/internal/ui"
	"github.com/radionets-project/radiotools/internal/visibility"
)

// visQuery carries the resolved inputs of one vis invocation.
type visQuery struct {
	name  string
	pos   astro.SkyPosition
	sites []astro.ObserverSite
	array string

	span visibility.Range
	step time.Duration
	want time.Duration

	set    *visibility.ConstraintSet
	policy visibility.Policy

	listOnly bool
	jsonOut  bool
}

func newVisCmd() *cobra.Command {
	var (
		target   string
		ra       float64
		dec      float64
		dateStr  string
		endStr   string
		days     int
		step     time.Duration
		duration time.Duration
		minEl    float64
		maxEl    float64
		sunSep   float64
		moonSep  float64
		siteSpec string
		array    string
		policy   string
		jsonOut  bool
		tuiMode  bool
		listOnly bool
	)

	c := &cobra.Command{
		Use:   "vis",
		Short: "Compute source visibility windows and the best observation slot",
		Example: `  radiotools vis --target "Cygnus A" --site 50.525,6.883 --date 2024-06-01
  radiotools vis --ra 187.28 --dec 12.39 --array vla --days 3 --duration 2h
  radiotools vis --target M87 --site 50.525,6.883,319 --tui`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			haveRADec := cmd.Flags().Changed("ra") || cmd.Flags().Changed("dec")
			name, pos, err := resolveTarget(target, haveRADec, ra, dec)
			if err != nil {
				return err
			}

			span, err := resolveSpan(dateStr, endStr, days)
			if err != nil {
				return err
			}

			sites, arrayName, err := resolveSites(ctx, siteSpec, array)
			if err != nil {
				return err
			}

			set, err := buildConstraints(minEl, maxEl, sunSep, moonSep)
			if err != nil {
				return err
			}

			pol, err := visibility.ParsePolicy(policy)
			if err != nil {
				return err
			}

			if step <= 0 {
				return fmt.Errorf("invalid --step %s (want a positive duration)", step)
			}
			if duration <= 0 {
				return fmt.Errorf("invalid --duration %s (want a positive duration)", duration)
			}

			log.Debug("planning %s over %s from %d site(s)", name, span, len(sites))

			if tuiMode {
				return ui.Run(ctx, ui.Params{
					Target:      name,
					Pos:         pos,
					Sites:       sites,
					Span:        span,
					Step:        step,
					Want:        duration,
					Constraints: set,
					Policy:      pol,
					Logger:      log,
				})
			}

			q := visQuery{
				name:     name,
				pos:      pos,
				sites:    sites,
				array:    arrayName,
				span:     span,
				step:     step,
				want:     duration,
				set:      set,
				policy:   pol,
				listOnly: listOnly,
				jsonOut:  jsonOut,
			}
			if len(sites) > 1 {
				return runArrayVis(ctx, cmd.OutOrStdout(), q)
			}
			return runSiteVis(ctx, cmd.OutOrStdout(), q)
		},
	}

	c.Flags().StringVarP(&target, "target", "t", "", "source name from the built-in catalog")
	c.Flags().Float64Var(&ra, "ra", 0, "right ascension in degrees (J2000)")
	c.Flags().Float64Var(&dec, "dec", 0, "declination in degrees (J2000)")
	c.Flags().StringVar(&dateStr, "date", "", "scan start date YYYY-MM-DD (default today, UTC)")
	c.Flags().StringVar(&endStr, "end", "", "scan end date YYYY-MM-DD (overrides --days)")
	c.Flags().IntVar(&days, "days", 1, "scan length in days")
	c.Flags().DurationVar(&step, "step", 10*time.Minute, "evaluation grid step")
	c.Flags().DurationVar(&duration, "duration", time.Hour, "wanted observation length")
	c.Flags().Float64Var(&minEl, "min-el", 15, "minimum elevation in degrees")
	c.Flags().Float64Var(&maxEl, "max-el", 85, "maximum elevation in degrees")
	c.Flags().Float64Var(&sunSep, "sun-sep", 0, "minimum sun separation in degrees (0 = off)")
	c.Flags().Float64Var(&moonSep, "moon-sep", 0, "minimum moon separation in degrees (0 = off)")
	c.Flags().StringVar(&siteSpec, "site", "", "observer site lat,lon[,height]")
	c.Flags().StringVar(&array, "array", "", "array layout name, file or URL")
	c.Flags().StringVar(&policy, "policy", "centered", "best-slot policy (centered, earliest, peak)")
	c.Flags().BoolVar(&jsonOut, "json", false, "write a JSON report to stdout")
	c.Flags().BoolVar(&tuiMode, "tui", false, "open the interactive planner")
	c.Flags().BoolVar(&listOnly, "windows", false, "list windows only, skip best-slot selection")

	return c
}

// runSiteVis plans for a single observer site.
func runSiteVis(ctx context.Context, w io.Writer, q visQuery) error {
	site := q.sites[0]
	sv := visibility.New(q.pos, site,
		visibility.WithConstraints(q.set),
		visibility.WithPolicy(q.policy),
		visibility.WithLogger(log),
	)

	windows, err := sv.ListWindows(ctx, q.span, q.step)
	if err != nil {
		return err
	}

	var best *visibility.OptimalResult
	if !q.listOnly {
		res, err := visibility.SelectOptimal(windows, q.span, q.want, q.policy)
		switch {
		case err == nil:
			best = &res
		case errors.Is(err, visibility.ErrNoVisibility):
			// Nothing to select from; the window report says so.
		default:
			return err
		}
	}

	if q.jsonOut {
		return report.NewExport(q.name, q.pos, site, q.span, q.step, windows, best).WriteJSON(w)
	}

	report.WriteWindows(w, q.name, site, q.span, windows)
	if best != nil {
		fmt.Fprintln(w)
		report.WriteBest(w, q.name, *best)
	}
	return nil
}

// runArrayVis plans for a whole array: windows common to every station
// plus the best slot scored across stations.
func runArrayVis(ctx context.Context, w io.Writer, q visQuery) error {
	prov := ephem.NewAlmanac()

	perSite := make([][]visibility.Window, len(q.sites))
	for i, site := range q.sites {
		sv := visibility.New(q.pos, site,
			visibility.WithConstraints(q.set),
			visibility.WithProvider(prov),
			visibility.WithPolicy(q.policy),
			visibility.WithLogger(log),
		)
		windows, err := sv.ListWindows(ctx, q.span, q.step)
		if err != nil {
			return fmt.Errorf("station %s: %w", site, err)
		}
		perSite[i] = windows
	}
	common := visibility.CommonWindows(perSite)

	var best *visibility.ArrayResult
	if !q.listOnly {
		res, err := visibility.BestArrayWindow(ctx, prov, q.pos, q.sites, q.set, q.span, q.step, q.want)
		switch {
		case err == nil:
			best = &res
		case errors.Is(err, visibility.ErrNoVisibility):
		default:
			return err
		}
	}

	if q.jsonOut {
		return report.NewArrayExport(q.name, q.pos, q.array, q.sites, q.span, q.step, common, best).WriteJSON(w)
	}

	hdr := astro.ObserverSite{Name: fmt.Sprintf("%s (%d stations)", q.array, len(q.sites))}
	report.WriteWindows(w, q.name, hdr, q.span, common)
	if best != nil {
		fmt.Fprintln(w)
		report.WriteArrayBest(w, q.name, *best)
	}
	return nil
}

// resolveTarget turns --target/--ra/--dec into a sky position.
// Explicit coordinates win; a name given alongside them is kept as the
// display label.
func resolveTarget(target string, haveRADec bool, ra, dec float64) (string, astro.SkyPosition, error) {
	if haveRADec {
		if dec < -90 || dec > 90 {
			return "", astro.SkyPosition{}, fmt.Errorf("invalid --dec %v (want -90..90)", dec)
		}
		return target, astro.SkyPosition{RA: astro.NormalizeDeg(ra), Dec: dec}, nil
	}

	if target == "" {
		return "", astro.SkyPosition{}, errors.New("need a target: --target <name> or --ra/--dec")
	}
	src, ok := astro.LookupSource(target)
	if !ok {
		return "", astro.SkyPosition{}, fmt.Errorf("unknown source %q (not in the built-in catalog); pass --ra/--dec", target)
	}
	return src.Name, src.Pos, nil
}

// resolveSpan builds the scan range from --date plus --end or --days.
// Dates are UTC midnights; the default range is today.
func resolveSpan(dateStr, endStr string, days int) (visibility.Range, error) {
	start := time.Now().UTC().Truncate(24 * time.Hour)
	if dateStr != "" {
		t, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return visibility.Range{}, fmt.Errorf("invalid --date (want YYYY-MM-DD): %w", err)
		}
		start = t
	}

	if endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return visibility.Range{}, fmt.Errorf("invalid --end (want YYYY-MM-DD): %w", err)
		}
		if !end.After(start) {
			return visibility.Range{}, fmt.Errorf("--end %s is not after the start date %s",
				endStr, start.Format("2006-01-02"))
		}
		return visibility.Range{Start: start, End: end}, nil
	}

	if days < 1 {
		return visibility.Range{}, fmt.Errorf("invalid --days %d (want at least 1)", days)
	}
	return visibility.Range{Start: start, End: start.AddDate(0, 0, days)}, nil
}

// resolveSites turns --site or --array into observer sites.
func resolveSites(ctx context.Context, siteSpec, array string) ([]astro.ObserverSite, string, error) {
	switch {
	case siteSpec != "" && array != "":
		return nil, "", errors.New("--site and --array are mutually exclusive")

	case siteSpec != "":
		site, err := parseSite(siteSpec)
		if err != nil {
			return nil, "", err
		}
		return []astro.ObserverSite{site}, "", nil

	case array != "":
		l, err := loadLayout(ctx, array)
		if err != nil {
			return nil, "", err
		}
		sites, err := l.Sites()
		if err != nil {
			return nil, "", err
		}
		if len(sites) == 0 {
			return nil, "", fmt.Errorf("layout %s has no stations", l.Name)
		}
		return sites, l.Name, nil

	default:
		return nil, "", errors.New("need an observer: --site lat,lon[,height] or --array <name>")
	}
}

// parseSite parses "lat,lon[,height]" in degrees and meters.
func parseSite(spec string) (astro.ObserverSite, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return astro.ObserverSite{}, fmt.Errorf("invalid --site %q (want lat,lon[,height])", spec)
	}

	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return astro.ObserverSite{}, fmt.Errorf("invalid --site %q: bad number %q", spec, p)
		}
		vals[i] = v
	}

	site := astro.ObserverSite{Latitude: vals[0], Longitude: astro.NormalizeDeg(vals[1])}
	if site.Longitude > 180 {
		site.Longitude -= 360
	}
	if len(vals) == 3 {
		site.Height = vals[2]
	}
	if site.Latitude < -90 || site.Latitude > 90 {
		return astro.ObserverSite{}, fmt.Errorf("invalid --site latitude %v (want -90..90)", site.Latitude)
	}
	return site, nil
}

// buildConstraints assembles the constraint set. Zero separations
// leave the sun and moon constraints off.
func buildConstraints(minEl, maxEl, sunSep, moonSep float64) (*visibility.ConstraintSet, error) {
	cons := []visibility.Constraint{visibility.MinElevation(minEl)}
	if maxEl > 0 {
		cons = append(cons, visibility.MaxElevation(maxEl))
	}
	if sunSep > 0 {
		cons = append(cons, visibility.MinSunSeparation(sunSep))
	}
	if moonSep > 0 {
		cons = append(cons, visibility.MinMoonSeparation(moonSep))
	}
	return visibility.NewConstraintSet(cons...)
}

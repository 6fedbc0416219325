// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Array mode: common windows, per-station slot scoring, layout fetcher
// 0.2.0 - Layout codecs (pyvisgen/CASA), ITRF geometry, baseline reports
// 0.1.0 - Initial release: visibility engine, almanac provider, TUI chart

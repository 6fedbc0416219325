package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/radionets-project/radiotools/internal/astro"
	"github.com/radionets-project/radiotools/internal/visibility"
)

// Export is the JSON-serializable result of a visibility query.
type Export struct {
	Target      string         `json:"target"`
	RA          float64        `json:"ra"`
	Dec         float64        `json:"dec"`
	Site        SiteExport     `json:"site"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	StepSeconds float64        `json:"step_seconds"`
	Windows     []WindowExport `json:"windows"`
	Best        *BestExport    `json:"best,omitempty"`
}

// SiteExport is a JSON-friendly observer location.
type SiteExport struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Height    float64 `json:"height"`
}

// WindowExport is a JSON-friendly visibility window.
type WindowExport struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationSeconds float64   `json:"duration_seconds"`
	MaxElevation    float64   `json:"max_elevation"`
	Peak            time.Time `json:"peak"`
}

// BestExport is a JSON-friendly selected observation slot.
type BestExport struct {
	Start            time.Time `json:"start"`
	Center           time.Time `json:"center"`
	End              time.Time `json:"end"`
	RequestedSeconds float64   `json:"requested_seconds"`
	Fits             bool      `json:"fits"`
}

// NewExport converts a visibility query's inputs and results to an
// exportable form. best may be nil when no slot was requested.
func NewExport(target string, pos astro.SkyPosition, site astro.ObserverSite, span visibility.Range, step time.Duration, windows []visibility.Window, best *visibility.OptimalResult) *Export {
	e := &Export{
		Target: target,
		RA:     pos.RA,
		Dec:    pos.Dec,
		Site: SiteExport{
			Name:      site.Name,
			Latitude:  site.Latitude,
			Longitude: site.Longitude,
			Height:    site.Height,
		},
		Start:       span.Start,
		End:         span.End,
		StepSeconds: step.Seconds(),
	}

	for _, win := range windows {
		e.Windows = append(e.Windows, WindowExport{
			Start:           win.Start,
			End:             win.End,
			DurationSeconds: win.Duration().Seconds(),
			MaxElevation:    win.MaxElevation,
			Peak:            win.Peak,
		})
	}

	if best != nil {
		e.Best = &BestExport{
			Start:            best.Start,
			Center:           best.Center,
			End:              best.End,
			RequestedSeconds: best.Requested.Seconds(),
			Fits:             best.Fits,
		}
	}

	return e
}

// WriteJSON writes the export as indented JSON to the given writer.
func (e *Export) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// ArrayExport is the JSON-serializable result of an array visibility
// query: the windows common to every station, plus the cross-station
// best slot.
type ArrayExport struct {
	Target      string           `json:"target"`
	RA          float64          `json:"ra"`
	Dec         float64          `json:"dec"`
	Array       string           `json:"array,omitempty"`
	Stations    []SiteExport     `json:"stations"`
	Start       time.Time        `json:"start"`
	End         time.Time        `json:"end"`
	StepSeconds float64          `json:"step_seconds"`
	Windows     []WindowExport   `json:"windows"`
	Best        *ArrayBestExport `json:"best,omitempty"`
}

// ArrayBestExport is a JSON-friendly cross-station observation slot.
type ArrayBestExport struct {
	Station int       `json:"station"`
	Name    string    `json:"name,omitempty"`
	Start   time.Time `json:"start"`
	Center  time.Time `json:"center"`
	End     time.Time `json:"end"`
}

// NewArrayExport converts an array query's inputs and results to an
// exportable form. best may be nil when no slot was selected.
func NewArrayExport(target string, pos astro.SkyPosition, array string, sites []astro.ObserverSite, span visibility.Range, step time.Duration, common []visibility.Window, best *visibility.ArrayResult) *ArrayExport {
	e := &ArrayExport{
		Target:      target,
		RA:          pos.RA,
		Dec:         pos.Dec,
		Array:       array,
		Start:       span.Start,
		End:         span.End,
		StepSeconds: step.Seconds(),
	}

	for _, site := range sites {
		e.Stations = append(e.Stations, SiteExport{
			Name:      site.Name,
			Latitude:  site.Latitude,
			Longitude: site.Longitude,
			Height:    site.Height,
		})
	}

	for _, win := range common {
		e.Windows = append(e.Windows, WindowExport{
			Start:           win.Start,
			End:             win.End,
			DurationSeconds: win.Duration().Seconds(),
			MaxElevation:    win.MaxElevation,
			Peak:            win.Peak,
		})
	}

	if best != nil {
		e.Best = &ArrayBestExport{
			Station: best.Station,
			Name:    best.Name,
			Start:   best.Start,
			Center:  best.Center,
			End:     best.End,
		}
	}

	return e
}

// WriteJSON writes the export as indented JSON to the given writer.
func (e *ArrayExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

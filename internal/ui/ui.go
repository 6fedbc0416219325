// Package ui provides the interactive observation planner using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/radionets-project/radiotools/internal/astro"
	"github.com/radionets-project/radiotools/internal/ephem"
	"github.com/radionets-project/radiotools/internal/logging"
	"github.com/radionets-project/radiotools/internal/visibility"
)

const (
	// computeTimeout bounds one background scan.
	computeTimeout = 30 * time.Second

	// tickInterval is how often the now marker advances.
	tickInterval = time.Minute
)

// Fixed row budget around the chart: header, status, footer, the
// windows panel, and the blank line separating chart and panel.
const (
	headerRows = 2
	statusRows = 1
	footerRows = 1
	panelRows  = 8
)

// Msg types for Bubble Tea
type (
	// TickMsg advances the now marker.
	TickMsg time.Time

	// traceDoneMsg delivers a finished background scan for one station.
	traceDoneMsg struct {
		station int
		span    visibility.Range
		trace   stationTrace
		err     error
	}
)

// stationTrace is one station's scan result.
type stationTrace struct {
	samples []visibility.Sample
	windows []visibility.Window
	best    *visibility.OptimalResult
}

// Params configures the planner UI. Sites must hold at least one
// station; station 0 is shown first.
type Params struct {
	Target string
	Pos    astro.SkyPosition
	Sites  []astro.ObserverSite

	Span visibility.Range
	Step time.Duration
	Want time.Duration

	Constraints *visibility.ConstraintSet
	Policy      visibility.Policy
	Provider    ephem.Provider
	Logger      *logging.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	params Params

	width  int
	height int
	ready  bool

	station   int
	span      visibility.Range
	now       time.Time
	computing bool
	err       error

	chart   ChartModel
	windows WindowsModel

	// Per-station scan cache for the current span. Panning or
	// recomputing drops it.
	traces []*stationTrace
}

// New creates the root model.
func New(p Params) Model {
	if p.Provider == nil {
		p.Provider = ephem.NewAlmanac()
	}
	if p.Constraints == nil {
		p.Constraints = visibility.DefaultConstraintSet()
	}
	if p.Logger == nil {
		p.Logger = logging.Discard()
	}

	return Model{
		params:    p,
		span:      p.Span,
		now:       time.Now().UTC(),
		computing: true,
		chart:     NewChartModel(),
		windows:   NewWindowsModel(),
		traces:    make([]*stationTrace, len(p.Sites)),
	}
}

// Run starts the planner UI and blocks until the user quits. The
// context ties the program lifetime to the caller's signal handling.
func Run(ctx context.Context, p Params) error {
	prog := tea.NewProgram(New(p), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.computeCmd())
}

// tickCmd schedules the next now-marker update.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// computeCmd scans the active station in the background.
func (m Model) computeCmd() tea.Cmd {
	if m.station >= len(m.params.Sites) {
		return nil
	}
	p := m.params
	station := m.station
	span := m.span
	site := p.Sites[station]

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), computeTimeout)
		defer cancel()

		sv := visibility.New(p.Pos, site,
			visibility.WithConstraints(p.Constraints),
			visibility.WithProvider(p.Provider),
			visibility.WithPolicy(p.Policy),
			visibility.WithLogger(p.Logger),
		)

		samples, err := sv.Trace(ctx, span, p.Step)
		if err != nil {
			return traceDoneMsg{station: station, span: span, err: err}
		}

		tr := stationTrace{samples: samples, windows: visibility.Reduce(samples)}
		if best, err := visibility.SelectOptimal(tr.windows, span, p.Want, p.Policy); err == nil {
			tr.best = &best
		}
		return traceDoneMsg{station: station, span: span, trace: tr}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "r":
			return m.recompute()

		case "tab", "right", "l":
			return m.cycleStation(1)

		case "shift+tab", "left", "h":
			return m.cycleStation(-1)

		case "[", "pgup":
			return m.pan(-1)

		case "]", "pgdown":
			return m.pan(1)

		default:
			var cmd tea.Cmd
			m.windows, cmd = m.windows.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m.layoutViews(), nil

	case TickMsg:
		m.now = time.Time(msg).UTC()
		m.chart = m.chart.SetNow(m.now)
		return m, tickCmd()

	case traceDoneMsg:
		// Results from before a pan or station switch are stale.
		if msg.station != m.station || !msg.span.Start.Equal(m.span.Start) {
			return m, nil
		}
		m.computing = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		tr := msg.trace
		m.traces[msg.station] = &tr
		return m.installTrace(&tr), nil
	}

	return m, nil
}

// cycleStation activates the next station of the array, reusing the
// cached scan when one exists.
func (m Model) cycleStation(dir int) (tea.Model, tea.Cmd) {
	n := len(m.params.Sites)
	if n < 2 {
		return m, nil
	}

	m.station = (m.station + dir + n) % n
	if tr := m.traces[m.station]; tr != nil {
		return m.installTrace(tr), nil
	}
	m.computing = true
	return m, m.computeCmd()
}

// pan shifts the scan range by a quarter of its length and rescans.
func (m Model) pan(dir int) (tea.Model, tea.Cmd) {
	shift := time.Duration(dir) * m.span.Duration() / 4
	m.span = visibility.Range{Start: m.span.Start.Add(shift), End: m.span.End.Add(shift)}
	return m.recompute()
}

// recompute drops every cached trace and rescans the active station.
func (m Model) recompute() (tea.Model, tea.Cmd) {
	m.traces = make([]*stationTrace, len(m.params.Sites))
	m.computing = true
	m.err = nil
	m.now = time.Now().UTC()
	m.chart = m.chart.SetNow(m.now)
	return m, m.computeCmd()
}

// installTrace pushes one station's scan result into the sub-models.
func (m Model) installTrace(tr *stationTrace) Model {
	floor, ok := m.params.Constraints.MinElevationLimit()
	if !ok {
		floor = -1
	}
	m.chart = m.chart.SetTrace(m.span, tr.samples, floor).SetNow(m.now)
	m.windows = m.windows.SetWindows(tr.windows, tr.best)
	return m
}

// layoutViews resizes the sub-models to the current terminal.
func (m Model) layoutViews() Model {
	chartH := m.height - headerRows - statusRows - footerRows - panelRows - 1
	if chartH < 6 {
		chartH = 6
	}
	m.chart = m.chart.SetSize(m.width, chartH)
	m.windows = m.windows.SetSize(m.width, panelRows)
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.chart.View())
	b.WriteString("\n\n")
	b.WriteString(m.windows.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))

	parts := []string{titleStyle.Render("Source Visibility")}
	if m.params.Target != "" {
		parts = append(parts, accentStyle.Render(m.params.Target))
	}
	parts = append(parts, dimStyle.Render(m.params.Pos.String()))
	line1 := strings.Join(parts, dimStyle.Render(" | "))

	site := m.params.Sites[m.station]
	station := site.String()
	if len(m.params.Sites) > 1 {
		station = fmt.Sprintf("%s (station %d/%d)", station, m.station+1, len(m.params.Sites))
	}
	line2 := dimStyle.Render(fmt.Sprintf("%s | %s | step %s", station, m.span, m.params.Step))

	return line1 + "\n" + line2
}

func (m Model) renderStatus() string {
	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		return errStyle.Render("Error: " + m.err.Error())
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	if m.computing {
		return dimStyle.Render("Computing visibility...")
	}

	tr := m.traces[m.station]
	if tr == nil {
		return ""
	}

	var total time.Duration
	for _, w := range tr.windows {
		total += w.Duration()
	}
	status := fmt.Sprintf("%d windows, %s visible", len(tr.windows), fmtPanelDuration(total))
	if el, ok := elevationAt(tr.samples, m.now); ok {
		status += fmt.Sprintf(" | now %.0f°", el)
	}
	return dimStyle.Render(status)
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	hints := []string{
		keyStyle.Render("q") + dimStyle.Render(" quit"),
		keyStyle.Render("r") + dimStyle.Render(" recompute"),
		keyStyle.Render("[/]") + dimStyle.Render(" pan range"),
		keyStyle.Render("↑/↓") + dimStyle.Render(" select window"),
	}
	if len(m.params.Sites) > 1 {
		hints = append(hints, keyStyle.Render("tab/←/→")+dimStyle.Render(" station"))
	}

	return strings.Join(hints, dimStyle.Render("  |  "))
}

// elevationAt returns the trace elevation at the grid instant at or
// before t, or false when t falls outside the trace.
func elevationAt(samples []visibility.Sample, t time.Time) (float64, bool) {
	if len(samples) == 0 || t.Before(samples[0].Time) || t.After(samples[len(samples)-1].Time) {
		return 0, false
	}
	at := 0
	for i, s := range samples {
		if s.Time.After(t) {
			break
		}
		at = i
	}
	return samples[at].Horizontal.Elevation, true
}

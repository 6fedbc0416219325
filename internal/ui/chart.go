package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/radionets-project/radiotools/internal/visibility"
)

const (
	// chartAxisWidth is the left margin for elevation labels ("  90°┤").
	chartAxisWidth = 5

	// chartAxisRows is the bottom margin for the time axis and its labels.
	chartAxisRows = 2
)

// chartBlocks are the partial block characters used to place the curve
// within a cell (0 = bottom of the cell, 7 = full cell).
var chartBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Curve color gradient endpoints, low elevation to high.
var (
	curveColorLow  = [3]uint8{0x1f, 0x4d, 0x33} // dark green
	curveColorMid  = [3]uint8{0x2e, 0x8b, 0x57} // sea green
	curveColorHigh = [3]uint8{0x7c, 0xfc, 0x00} // lawn green
)

// ChartModel renders one station's elevation trace on a rune canvas:
// time across, elevation up. Columns where every constraint holds get
// the elevation gradient, blocked columns are dimmed, and the
// minimum-elevation floor and the current instant are drawn as
// reference lines.
type ChartModel struct {
	width  int
	height int

	span    visibility.Range
	samples []visibility.Sample
	floor   float64
	now     time.Time
}

// NewChartModel creates an empty chart. A negative floor disables the
// constraint floor line.
func NewChartModel() ChartModel {
	return ChartModel{floor: -1}
}

// SetSize updates the chart dimensions.
func (m ChartModel) SetSize(width, height int) ChartModel {
	m.width = width
	m.height = height
	return m
}

// SetTrace replaces the plotted sample series.
func (m ChartModel) SetTrace(span visibility.Range, samples []visibility.Sample, floor float64) ChartModel {
	m.span = span
	m.samples = samples
	m.floor = floor
	return m
}

// SetNow moves the current-time marker.
func (m ChartModel) SetNow(t time.Time) ChartModel {
	m.now = t
	return m
}

// View renders the chart.
func (m ChartModel) View() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	plotW := m.width - chartAxisWidth
	plotH := m.height - chartAxisRows
	if plotW < 10 || plotH < 4 {
		return dimStyle.Render("Terminal too small for the elevation chart")
	}
	if len(m.samples) == 0 {
		return dimStyle.Render("No trace yet")
	}

	canvas := make([][]rune, plotH)
	colors := make([][]lipgloss.Color, plotH)
	for y := 0; y < plotH; y++ {
		canvas[y] = make([]rune, plotW)
		colors[y] = make([]lipgloss.Color, plotW)
		for x := 0; x < plotW; x++ {
			canvas[y][x] = ' '
			colors[y][x] = "236"
		}
	}

	// Constraint floor line, drawn first so the curve wins the cell.
	if m.floor >= 0 {
		y, _ := elevRow(m.floor, plotH)
		for x := 0; x < plotW; x++ {
			canvas[y][x] = '┄'
			colors[y][x] = "60"
		}
	}

	// Current-time marker column.
	if x := timeColumn(m.now, m.span, plotW); x >= 0 {
		for y := 0; y < plotH; y++ {
			canvas[y][x] = '│'
			colors[y][x] = "229"
		}
	}

	// Elevation curve. Below-horizon columns stay empty.
	for x, c := range resampleTrace(m.samples, plotW) {
		if !c.ok || c.elevation <= 0 {
			continue
		}
		y, block := elevRow(c.elevation, plotH)
		canvas[y][x] = block
		colors[y][x] = curveColor(c.elevation, c.visible)
	}

	return m.flush(canvas, colors, plotW, plotH)
}

// flush renders the canvas to a string with axis decorations.
func (m ChartModel) flush(canvas [][]rune, colors [][]lipgloss.Color, plotW, plotH int) string {
	axisStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	var b strings.Builder
	for y := 0; y < plotH; y++ {
		label := elevLabel(y, plotH)
		tick := "│"
		if label != "" {
			tick = "┤"
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%4s", label) + tick))
		for x := 0; x < plotW; x++ {
			style := lipgloss.NewStyle().Foreground(colors[y][x])
			b.WriteString(style.Render(string(canvas[y][x])))
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(strings.Repeat(" ", chartAxisWidth-1) + "└" + strings.Repeat("─", plotW)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", chartAxisWidth))
	b.WriteString(axisStyle.Render(timeAxisLabels(m.span, plotW)))

	return b.String()
}

// elevLabel returns the y-axis label for a canvas row, or "" for
// unlabeled rows. The top row is 90°, the bottom 0°.
func elevLabel(y, plotH int) string {
	switch y {
	case 0:
		return "90°"
	case plotH / 2:
		return "45°"
	case plotH - 1:
		return "0°"
	}
	return ""
}

// timeAxisLabels renders start, middle and end instants of the span
// spread across the axis width. Spans longer than two days label by
// date instead of by time.
func timeAxisLabels(span visibility.Range, width int) string {
	layout := "15:04"
	if span.Duration() > 48*time.Hour {
		layout = "Jan 02"
	}
	start := span.Start.UTC().Format(layout)
	mid := span.Midpoint().UTC().Format(layout)
	end := span.End.UTC().Format(layout)

	if len(start)+len(mid)+len(end)+4 > width {
		return start
	}
	left := (width-len(mid))/2 - len(start)
	right := width - len(start) - left - len(mid) - len(end)
	return start + strings.Repeat(" ", left) + mid + strings.Repeat(" ", right) + end
}

// chartCell is one resampled column of the trace.
type chartCell struct {
	elevation float64
	visible   bool
	ok        bool
}

// resampleTrace buckets the sample series into width columns. Bucket
// elevation is the mean over its samples; a bucket counts as visible
// when any sample in it is.
func resampleTrace(samples []visibility.Sample, width int) []chartCell {
	if len(samples) == 0 || width <= 0 {
		return nil
	}

	cells := make([]chartCell, width)
	perBucket := float64(len(samples)) / float64(width)

	for i := 0; i < width; i++ {
		lo := int(float64(i) * perBucket)
		hi := int(float64(i+1) * perBucket)
		if hi <= lo {
			hi = lo + 1
		}
		if hi > len(samples) {
			hi = len(samples)
		}
		if lo >= len(samples) {
			break
		}

		sum := 0.0
		visible := false
		for _, s := range samples[lo:hi] {
			sum += s.Horizontal.Elevation
			visible = visible || s.Visible
		}
		cells[i] = chartCell{
			elevation: sum / float64(hi-lo),
			visible:   visible,
			ok:        true,
		}
	}

	return cells
}

// elevRow maps an elevation to a canvas row (0 is the top row) and the
// partial block rune for the sub-cell remainder.
func elevRow(el float64, plotH int) (int, rune) {
	if el < 0 {
		el = 0
	}
	if el > 90 {
		el = 90
	}

	fy := el / 90 * float64(plotH)
	cell := int(fy)
	if cell >= plotH {
		cell = plotH - 1
	}
	idx := int((fy - float64(cell)) * 8)
	if idx > 7 {
		idx = 7
	}
	return plotH - 1 - cell, chartBlocks[idx]
}

// timeColumn maps an instant to a canvas column, or -1 when the
// instant falls outside the span.
func timeColumn(t time.Time, span visibility.Range, width int) int {
	total := span.Duration()
	if width <= 0 || total <= 0 {
		return -1
	}
	if t.Before(span.Start) || t.After(span.End) {
		return -1
	}
	frac := float64(t.Sub(span.Start)) / float64(total)
	return int(math.Round(frac * float64(width-1)))
}

// curveColor picks the color for one curve column. Visible columns get
// the elevation gradient; blocked columns are dimmed.
func curveColor(el float64, visible bool) lipgloss.Color {
	if !visible {
		return "240"
	}
	r, g, b := lerpCurveColor(el / 90)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

// lerpCurveColor interpolates the curve gradient for t in [0, 1].
func lerpCurveColor(t float64) (uint8, uint8, uint8) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	var r, g, b uint8
	if t < 0.5 {
		s := t * 2
		r = uint8(float64(curveColorLow[0])*(1-s) + float64(curveColorMid[0])*s)
		g = uint8(float64(curveColorLow[1])*(1-s) + float64(curveColorMid[1])*s)
		b = uint8(float64(curveColorLow[2])*(1-s) + float64(curveColorMid[2])*s)
	} else {
		s := (t - 0.5) * 2
		r = uint8(float64(curveColorMid[0])*(1-s) + float64(curveColorHigh[0])*s)
		g = uint8(float64(curveColorMid[1])*(1-s) + float64(curveColorHigh[1])*s)
		b = uint8(float64(curveColorMid[2])*(1-s) + float64(curveColorHigh[2])*s)
	}

	return r, g, b
}

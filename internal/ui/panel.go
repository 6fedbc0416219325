package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/radionets-project/radiotools/internal/visibility"
)

// Window list colors by peak elevation.
const (
	colorWinHigh = "#7CFC00" // lawn green, peak 60° and up
	colorWinMid  = "#FFD700" // gold, peak 30° to 60°
	colorWinLow  = "#FF6347" // tomato, peak under 30°
)

// windowBarWidth is the width of the duration bars.
const windowBarWidth = 12

const windowTimeLayout = "Jan 02 15:04"

// WindowsModel lists the active station's visibility windows with
// duration bars, and the best slot picked for the requested length.
type WindowsModel struct {
	width  int
	height int

	windows  []visibility.Window
	best     *visibility.OptimalResult
	selected int
	offset   int
}

// NewWindowsModel creates an empty windows panel.
func NewWindowsModel() WindowsModel {
	return WindowsModel{}
}

// SetSize updates the panel dimensions.
func (m WindowsModel) SetSize(width, height int) WindowsModel {
	m.width = width
	m.height = height
	return m
}

// SetWindows replaces the listed windows and resets the selection.
func (m WindowsModel) SetWindows(windows []visibility.Window, best *visibility.OptimalResult) WindowsModel {
	m.windows = windows
	m.best = best
	m.selected = 0
	m.offset = 0
	return m
}

// Selected returns the index of the highlighted window.
func (m WindowsModel) Selected() int {
	return m.selected
}

// Update handles window list navigation.
func (m WindowsModel) Update(msg tea.Msg) (WindowsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.windows)-1 {
			m.selected++
		}
	}

	// Keep the selection inside the scroll viewport.
	rows := m.listRows()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}

	return m, nil
}

// listRows returns how many window rows fit between the panel header
// and the best-slot line.
func (m WindowsModel) listRows() int {
	rows := m.height - 2
	if rows < 1 {
		rows = 1
	}
	return rows
}

// View renders the panel.
func (m WindowsModel) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	markStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Windows (%d)", len(m.windows))))
	b.WriteString("\n")

	if len(m.windows) == 0 {
		b.WriteString(dimStyle.Render("No visibility windows in this range"))
		b.WriteString("\n")
		b.WriteString(m.renderBest())
		return b.String()
	}

	longest := time.Duration(0)
	for _, w := range m.windows {
		if w.Duration() > longest {
			longest = w.Duration()
		}
	}

	rows := m.listRows()
	for i := m.offset; i < len(m.windows) && i < m.offset+rows; i++ {
		w := m.windows[i]

		marker := "  "
		if i == m.selected {
			marker = markStyle.Render("▶ ")
		}

		bar := renderDurationBar(w.Duration(), longest, windowBarWidth)
		tier := lipgloss.NewStyle().Foreground(lipgloss.Color(winTierColor(w.MaxElevation)))

		b.WriteString(fmt.Sprintf("%s%-3d %s – %s  %s  %-9s %s\n",
			marker,
			i+1,
			w.Start.UTC().Format(windowTimeLayout),
			w.End.UTC().Format(windowTimeLayout),
			tier.Render(bar),
			fmtPanelDuration(w.Duration()),
			tier.Render(fmt.Sprintf("peak %.0f°", w.MaxElevation)),
		))
	}
	if len(m.windows) > m.offset+rows {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more", len(m.windows)-m.offset-rows)))
		b.WriteString("\n")
	}

	b.WriteString(m.renderBest())
	return b.String()
}

// renderBest renders the best-slot line.
func (m WindowsModel) renderBest() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))

	if m.best == nil {
		return dimStyle.Render("No best slot for the requested duration")
	}

	line := accentStyle.Render(fmt.Sprintf("Best slot  %s – %s  (%s)",
		m.best.Start.UTC().Format(windowTimeLayout),
		m.best.End.UTC().Format(windowTimeLayout),
		fmtPanelDuration(m.best.End.Sub(m.best.Start)),
	))
	if !m.best.Fits {
		line += dimStyle.Render("  requested duration does not fit")
	}
	return line
}

// renderDurationBar renders a fixed-width bar filled in proportion to
// the longest window in the list. Any positive duration fills at least
// one cell.
func renderDurationBar(d, longest time.Duration, width int) string {
	if width <= 0 {
		return ""
	}

	filled := 0
	if longest > 0 {
		filled = int(float64(width) * float64(d) / float64(longest))
	}
	if filled > width {
		filled = width
	}
	if filled < 1 && d > 0 {
		filled = 1
	}

	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// winTierColor returns the display color for a window's peak elevation.
func winTierColor(maxElevation float64) string {
	switch {
	case maxElevation >= 60:
		return colorWinHigh
	case maxElevation >= 30:
		return colorWinMid
	default:
		return colorWinLow
	}
}

// fmtPanelDuration renders a duration without sub-second noise.
func fmtPanelDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}

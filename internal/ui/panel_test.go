package ui

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/radionets-project/radiotools/internal/visibility"
)

func panelWindows() []visibility.Window {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return []visibility.Window{
		{
			Start:        day.Add(8 * time.Hour),
			End:          day.Add(11 * time.Hour),
			MaxElevation: 80,
			Peak:         day.Add(10 * time.Hour),
		},
		{
			Start:        day.Add(12 * time.Hour),
			End:          day.Add(14 * time.Hour),
			MaxElevation: 25,
			Peak:         day.Add(13 * time.Hour),
		},
	}
}

func TestRenderDurationBar(t *testing.T) {
	tests := []struct {
		name       string
		d          time.Duration
		longest    time.Duration
		width      int
		wantFilled int
	}{
		{"full", 2 * time.Hour, 2 * time.Hour, 12, 12},
		{"half", time.Hour, 2 * time.Hour, 12, 6},
		{"quarter", 30 * time.Minute, 2 * time.Hour, 12, 3},
		{"tiny but positive", time.Minute, 12 * time.Hour, 12, 1},
		{"zero duration", 0, 2 * time.Hour, 12, 0},
		{"zero longest", time.Hour, 0, 12, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := renderDurationBar(tt.d, tt.longest, tt.width)

			if n := utf8.RuneCountInString(bar); n != tt.width {
				t.Errorf("bar width = %d, want %d", n, tt.width)
			}
			if filled := strings.Count(bar, "█"); filled != tt.wantFilled {
				t.Errorf("filled count = %d, want %d", filled, tt.wantFilled)
			}
		})
	}
}

func TestWinTierColor(t *testing.T) {
	tests := []struct {
		el   float64
		want string
	}{
		{80, colorWinHigh},
		{60, colorWinHigh},
		{45, colorWinMid},
		{30, colorWinMid},
		{10, colorWinLow},
		{0, colorWinLow},
	}

	for _, tt := range tests {
		if got := winTierColor(tt.el); got != tt.want {
			t.Errorf("winTierColor(%v) = %q, want %q", tt.el, got, tt.want)
		}
	}
}

func TestWindowsViewEmpty(t *testing.T) {
	m := NewWindowsModel().SetSize(80, 8)
	out := m.View()
	if !strings.Contains(out, "Windows (0)") {
		t.Errorf("empty panel header missing, got %q", out)
	}
	if !strings.Contains(out, "No visibility windows") {
		t.Errorf("empty panel body missing, got %q", out)
	}
}

func TestWindowsView(t *testing.T) {
	windows := panelWindows()
	best := &visibility.OptimalResult{
		Start:     windows[0].Start,
		Center:    windows[0].Center(),
		End:       windows[0].End,
		Requested: 3 * time.Hour,
		Fits:      true,
		Window:    windows[0],
	}

	m := NewWindowsModel().SetSize(100, 8).SetWindows(windows, best)
	out := m.View()

	if !strings.Contains(out, "Windows (2)") {
		t.Error("missing panel header")
	}
	if !strings.Contains(out, "Jun 01 08:00") || !strings.Contains(out, "Jun 01 14:00") {
		t.Error("missing window boundary times")
	}
	if !strings.Contains(out, "peak 80°") || !strings.Contains(out, "peak 25°") {
		t.Error("missing peak elevations")
	}
	if !strings.Contains(out, "▶") {
		t.Error("missing selection marker")
	}
	if !strings.Contains(out, "Best slot") {
		t.Error("missing best slot line")
	}
	if strings.Contains(out, "does not fit") {
		t.Error("fit note shown for a fitting slot")
	}
}

func TestWindowsViewUnfitBest(t *testing.T) {
	windows := panelWindows()
	best := &visibility.OptimalResult{
		Start:     windows[0].Start,
		End:       windows[0].End,
		Requested: 5 * time.Hour,
		Fits:      false,
		Window:    windows[0],
	}

	m := NewWindowsModel().SetSize(100, 8).SetWindows(windows, best)
	if out := m.View(); !strings.Contains(out, "does not fit") {
		t.Error("missing fit note for an unfit slot")
	}
}

func TestWindowsSelection(t *testing.T) {
	m := NewWindowsModel().SetSize(100, 8).SetWindows(panelWindows(), nil)

	down := tea.KeyMsg{Type: tea.KeyDown}
	up := tea.KeyMsg{Type: tea.KeyUp}

	m, _ = m.Update(down)
	if m.Selected() != 1 {
		t.Fatalf("selected = %d after down, want 1", m.Selected())
	}
	m, _ = m.Update(down)
	if m.Selected() != 1 {
		t.Fatalf("selected = %d, down should clamp at the last window", m.Selected())
	}
	m, _ = m.Update(up)
	m, _ = m.Update(up)
	if m.Selected() != 0 {
		t.Fatalf("selected = %d, up should clamp at the first window", m.Selected())
	}
}

func TestWindowsScroll(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var windows []visibility.Window
	for i := 0; i < 10; i++ {
		windows = append(windows, visibility.Window{
			Start:        day.Add(time.Duration(2*i) * time.Hour),
			End:          day.Add(time.Duration(2*i+1) * time.Hour),
			MaxElevation: 50,
			Peak:         day.Add(time.Duration(2*i) * time.Hour),
		})
	}

	// Height 5 leaves three list rows.
	m := NewWindowsModel().SetSize(100, 5).SetWindows(windows, nil)
	if out := m.View(); !strings.Contains(out, "more") {
		t.Error("overflow indicator missing")
	}

	down := tea.KeyMsg{Type: tea.KeyDown}
	for i := 0; i < 9; i++ {
		m, _ = m.Update(down)
	}
	if m.Selected() != 9 {
		t.Fatalf("selected = %d, want 9", m.Selected())
	}
	// The viewport follows the selection to the end of the list.
	if out := m.View(); !strings.Contains(out, "Jun 01 18:00") {
		t.Error("last window not scrolled into view")
	}
}

package visibility

import (
	"errors"
	"testing"
	"time"
)

// The two windows the split-ramp scan produces: 3h up to the solar
// pass, 2h after it.
func splitWindows() []Window {
	return []Window{
		{Start: at(8, 0), End: at(11, 0), MaxElevation: 80, Peak: at(11, 0)},
		{Start: at(12, 0), End: at(14, 0), MaxElevation: 60, Peak: at(12, 0)},
	}
}

func TestSelectFittingWindow(t *testing.T) {
	res, err := SelectOptimal(splitWindows(), scanRange, 3*time.Hour, PolicyCentered)
	if err != nil {
		t.Fatalf("SelectOptimal: %v", err)
	}

	if !res.Fits {
		t.Error("Fits = false, want true")
	}
	if !res.Start.Equal(at(8, 0)) || !res.End.Equal(at(11, 0)) {
		t.Errorf("slot = %s .. %s, want 08:00 .. 11:00", res.Start, res.End)
	}
	if !res.Center.Equal(at(9, 30)) {
		t.Errorf("Center = %s, want 09:30", res.Center)
	}
	if res.Requested != 3*time.Hour {
		t.Errorf("Requested = %s, want 3h", res.Requested)
	}
	if !res.Window.Start.Equal(at(8, 0)) {
		t.Errorf("Window = %+v, want the 3h window", res.Window)
	}
}

func TestSelectFallbackLongest(t *testing.T) {
	res, err := SelectOptimal(splitWindows(), scanRange, 5*time.Hour, PolicyCentered)
	if err != nil {
		t.Fatalf("SelectOptimal: %v", err)
	}

	if res.Fits {
		t.Error("Fits = true, want false")
	}
	// The whole longest window is the best available answer.
	if !res.Start.Equal(at(8, 0)) || !res.End.Equal(at(11, 0)) {
		t.Errorf("slot = %s .. %s, want 08:00 .. 11:00", res.Start, res.End)
	}
	if !res.Center.Equal(at(9, 30)) {
		t.Errorf("Center = %s, want 09:30", res.Center)
	}
}

func TestSelectEmptyWindows(t *testing.T) {
	if _, err := SelectOptimal(nil, scanRange, 2*time.Hour, PolicyCentered); !errors.Is(err, ErrNoVisibility) {
		t.Errorf("err = %v, want ErrNoVisibility", err)
	}
}

func TestSelectInvalidDuration(t *testing.T) {
	for _, want := range []time.Duration{0, -time.Hour} {
		if _, err := SelectOptimal(splitWindows(), scanRange, want, PolicyCentered); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("want %s: err = %v, want ErrInvalidRange", want, err)
		}
	}
}

func TestSelectPolicies(t *testing.T) {
	// Both windows fit one hour. Centered picks the window nearest
	// the range midpoint (12:00), earliest the first, peak the
	// highest culmination.
	tests := []struct {
		name      string
		policy    Policy
		wantStart time.Time
		wantEnd   time.Time
		wantWin   time.Time // start of the chosen source window
	}{
		{"centered", PolicyCentered, at(12, 30), at(13, 30), at(12, 0)},
		{"earliest", PolicyEarliest, at(8, 0), at(9, 0), at(8, 0)},
		// Peak sits at the window end; the slot clips to stay inside.
		{"peak", PolicyPeak, at(10, 0), at(11, 0), at(8, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := SelectOptimal(splitWindows(), scanRange, time.Hour, tt.policy)
			if err != nil {
				t.Fatalf("SelectOptimal: %v", err)
			}
			if !res.Fits {
				t.Error("Fits = false, want true")
			}
			if !res.Start.Equal(tt.wantStart) || !res.End.Equal(tt.wantEnd) {
				t.Errorf("slot = %s .. %s, want %s .. %s", res.Start, res.End, tt.wantStart, tt.wantEnd)
			}
			if !res.Window.Start.Equal(tt.wantWin) {
				t.Errorf("chosen window starts %s, want %s", res.Window.Start, tt.wantWin)
			}
		})
	}
}

func TestSelectCenteredTieBreak(t *testing.T) {
	// Centers at 10:00 and 14:00 are equidistant from the range
	// midpoint; the earlier window wins.
	windows := []Window{
		{Start: at(9, 0), End: at(11, 0), MaxElevation: 40, Peak: at(10, 0)},
		{Start: at(13, 0), End: at(15, 0), MaxElevation: 70, Peak: at(14, 0)},
	}

	res, err := SelectOptimal(windows, scanRange, time.Hour, PolicyCentered)
	if err != nil {
		t.Fatalf("SelectOptimal: %v", err)
	}
	if !res.Window.Start.Equal(at(9, 0)) {
		t.Errorf("chosen window starts %s, want 09:00", res.Window.Start)
	}
	if !res.Start.Equal(at(9, 30)) || !res.End.Equal(at(10, 30)) {
		t.Errorf("slot = %s .. %s, want 09:30 .. 10:30", res.Start, res.End)
	}
}

func TestSelectLongestTieBreak(t *testing.T) {
	// Two equally long windows, neither fits: the earlier one is
	// returned.
	windows := []Window{
		{Start: at(8, 0), End: at(10, 0), MaxElevation: 40, Peak: at(9, 0)},
		{Start: at(12, 0), End: at(14, 0), MaxElevation: 70, Peak: at(13, 0)},
	}

	res, err := SelectOptimal(windows, scanRange, 3*time.Hour, PolicyCentered)
	if err != nil {
		t.Fatalf("SelectOptimal: %v", err)
	}
	if res.Fits {
		t.Error("Fits = true, want false")
	}
	if !res.Start.Equal(at(8, 0)) || !res.End.Equal(at(10, 0)) {
		t.Errorf("slot = %s .. %s, want 08:00 .. 10:00", res.Start, res.End)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"centered", PolicyCentered, false},
		{"earliest", PolicyEarliest, false},
		{"peak", PolicyPeak, false},
		{"PEAK", PolicyPeak, false},
		{"best", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePolicy(%q) = %v, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePolicy(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if got.String() != tt.in && tt.in != "PEAK" {
			t.Errorf("String() = %q, want %q", got.String(), tt.in)
		}
	}
}

package nav

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingReporter struct{ got []report }

func (r *recordingReporter) ReportVisibility(id string, ratio float64) bool {
	r.got = append(r.got, report{id, ratio})
	return false
}

// Three 20-line sections stacked back to back.
var stacked = []Extent{
	{ID: "home", Top: 0, Height: 20},
	{ID: "about", Top: 20, Height: 20},
	{ID: "skills", Top: 40, Height: 20},
}

func TestIntersectionRatio(t *testing.T) {
	e := Extent{ID: "a", Top: 10, Height: 10}
	cases := []struct {
		top, bottom int
		want        float64
	}{
		{0, 10, 0},
		{0, 15, 0.5},
		{12, 18, 0.6},
		{0, 100, 1},
		{20, 30, 0},
	}
	for _, tc := range cases {
		require.InDelta(t, tc.want, intersectionRatio(e, tc.top, tc.bottom), 1e-9, "window [%d,%d)", tc.top, tc.bottom)
	}
	require.Zero(t, intersectionRatio(Extent{ID: "empty"}, 0, 10))
}

func TestSpy_FirstObservationReportsVisibleSections(t *testing.T) {
	r := &recordingReporter{}
	s := NewSpy(r, DefaultThresholds, Margin{})
	s.SetLayout(stacked)

	s.Observe(0, 30)
	require.Equal(t, []report{{"about", 0.5}, {"home", 1}}, r.got)
}

func TestSpy_OnlyReportsThresholdCrossings(t *testing.T) {
	r := &recordingReporter{}
	s := NewSpy(r, DefaultThresholds, Margin{})
	s.SetLayout(stacked)
	s.Observe(0, 20)
	r.got = nil

	// about becoming visible fires the pass; home rides along with its fresh ratio.
	s.Observe(1, 20)
	require.Equal(t, []report{{"about", 0.05}, {"home", 0.95}}, r.got)
	r.got = nil

	// about 0.05 -> 0.1 crosses the first threshold.
	s.Observe(2, 20)
	require.Equal(t, []report{{"about", 0.1}, {"home", 0.9}}, r.got)
	r.got = nil

	// Nothing crosses between 0.15 and 0.85.
	s.Observe(3, 20)
	require.Empty(t, r.got)

	// Scrolling home completely out reports it at zero.
	s.Observe(20, 20)
	require.Equal(t, []report{{"home", 0}, {"about", 1}}, r.got)
}

func TestSpy_MarginShrinksViewport(t *testing.T) {
	r := &recordingReporter{}
	s := NewSpy(r, DefaultThresholds, Margin{Top: -5, Bottom: -5})
	s.SetLayout(stacked)

	// Effective window is [5, 25): home 15/20, about 5/20.
	s.Observe(0, 30)
	require.Equal(t, []report{{"about", 0.25}, {"home", 0.75}}, r.got)
}

func TestSpy_MarginLargerThanViewportFallsBack(t *testing.T) {
	r := &recordingReporter{}
	s := NewSpy(r, DefaultThresholds, DefaultMargin)
	s.SetLayout(stacked)

	s.Observe(0, 10)
	require.Equal(t, []report{{"home", 0.5}}, r.got)
}

func TestSpy_SetLayoutResetsObservations(t *testing.T) {
	r := &recordingReporter{}
	s := NewSpy(r, nil, Margin{})
	s.SetLayout(stacked)
	s.Observe(0, 20)
	s.SetLayout(stacked)
	s.Observe(0, 20)
	require.Equal(t, []report{{"home", 1}, {"home", 1}}, r.got)
	require.Len(t, s.Layout(), 3)
}

func TestSpy_DrivesControllerOnScroll(t *testing.T) {
	clk := &manualClock{t: time.Unix(0, 0)}
	c, err := New(DefaultConfig("home", "about", "skills"), WithClock(clk.Now))
	require.NoError(t, err)
	s := NewSpy(c, DefaultThresholds, Margin{})
	s.SetLayout(stacked)

	require.False(t, s.Observe(0, 20))
	require.Equal(t, "home", c.Active())

	// Scroll until about dominates.
	for off := 1; off <= 15; off++ {
		s.Observe(off, 20)
	}
	require.Equal(t, "about", c.Active())

	// Explicit navigation wins over the scroll position during the grace window.
	require.NoError(t, c.NavigateTo("skills"))
	s.Observe(16, 20)
	require.Equal(t, "skills", c.Active())
}

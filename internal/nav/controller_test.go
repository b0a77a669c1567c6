package nav

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSections = []string{"home", "about", "skills", "projects", "experience", "contact"}

type manualClock struct{ t time.Time }

func (c *manualClock) Now() time.Time          { return c.t }
func (c *manualClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestController(t *testing.T, opts ...Option) (*Controller, *manualClock) {
	t.Helper()
	clk := &manualClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c, err := New(DefaultConfig(testSections...), append([]Option{WithClock(clk.Now)}, opts...)...)
	require.NoError(t, err)
	return c, clk
}

func TestNew_DefaultsToFirstSection(t *testing.T) {
	c, _ := newTestController(t)
	require.Equal(t, "home", c.Active())
	require.Equal(t, testSections, c.Sections())
}

func TestNew_ConfiguredDefault(t *testing.T) {
	cfg := DefaultConfig(testSections...)
	cfg.Default = "skills"
	c, err := New(cfg)
	require.NoError(t, err)
	require.Equal(t, "skills", c.Active())

	cfg.Default = "blog"
	_, err = New(cfg)
	var ise *InvalidSectionError
	require.True(t, errors.As(err, &ise))
	require.Equal(t, "blog", ise.ID)
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cases := map[string]Config{
		"empty":     DefaultConfig(),
		"duplicate": DefaultConfig("home", "about", "home"),
		"blank id":  DefaultConfig("home", " "),
		"threshold": {Sections: []string{"home"}, Thresholds: []float64{0, 0.3}},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(cfg)
			require.Error(t, err)
		})
	}
}

func TestNavigateTo_UnknownSectionFails(t *testing.T) {
	c, _ := newTestController(t)
	err := c.NavigateTo("resume")
	var ise *InvalidSectionError
	require.ErrorAs(t, err, &ise)
	require.Contains(t, err.Error(), `"resume"`)
	require.Equal(t, "home", c.Active())
}

func TestNavigateTo_SetsActiveAndScrolls(t *testing.T) {
	var scrolled []string
	var changes [][2]string
	c, _ := newTestController(t,
		WithScroller(ScrollerFunc(func(id string) { scrolled = append(scrolled, id) })),
		WithOnChange(func(from, to string) { changes = append(changes, [2]string{from, to}) }),
	)

	require.NoError(t, c.NavigateTo("projects"))
	require.Equal(t, "projects", c.Active())
	require.Equal(t, []string{"projects"}, scrolled)
	require.Equal(t, [][2]string{{"home", "projects"}}, changes)

	// Re-navigating to the active section still scrolls but isn't a change.
	require.NoError(t, c.NavigateTo("projects"))
	require.Equal(t, []string{"projects", "projects"}, scrolled)
	require.Len(t, changes, 1)
}

func TestReportVisibility_IgnoredDuringGrace(t *testing.T) {
	c, clk := newTestController(t)

	require.NoError(t, c.NavigateTo("projects"))
	require.True(t, c.InGrace())
	require.False(t, c.ReportVisibility("about", 0.5))
	require.Equal(t, "projects", c.Active())

	clk.Advance(DefaultGracePeriod - time.Millisecond)
	require.False(t, c.ReportVisibility("about", 0.9))
	require.Equal(t, "projects", c.Active())

	clk.Advance(time.Millisecond)
	require.False(t, c.InGrace())
	require.True(t, c.ReportVisibility("about", 0.9))
	require.Equal(t, "about", c.Active())
}

func TestReportVisibility_RatiosDuringGraceFeedTieBreak(t *testing.T) {
	c, clk := newTestController(t)

	require.NoError(t, c.NavigateTo("projects"))
	c.ReportVisibility("projects", 1)
	clk.Advance(time.Second)

	// projects is still fully visible, so a partially visible neighbour doesn't win.
	require.False(t, c.ReportVisibility("experience", 0.4))
	require.Equal(t, "projects", c.Active())
}

func TestReportVisibility_BelowThresholdNeverActivates(t *testing.T) {
	c, _ := newTestController(t)
	require.False(t, c.ReportVisibility("about", 0.05))
	require.Equal(t, "home", c.Active())
	require.Equal(t, 0.05, c.Ratio("about"))
}

func TestReportVisibility_TieBreakKeepsActiveUnlessStrictlyMoreVisible(t *testing.T) {
	c, _ := newTestController(t)

	require.False(t, c.ReportVisibility("home", 0.6))
	require.False(t, c.ReportVisibility("about", 0.6), "equal ratio must not switch")
	require.Equal(t, "home", c.Active())

	require.True(t, c.ReportVisibility("about", 0.61))
	require.Equal(t, "about", c.Active())

	// home re-crossing at a lower ratio keeps about.
	require.False(t, c.ReportVisibility("home", 0.3))
	require.Equal(t, "about", c.Active())
}

func TestReportVisibility_SwitchesWhenActiveNoLongerQualifies(t *testing.T) {
	c, _ := newTestController(t)

	c.ReportVisibility("home", 0.9)
	c.ReportVisibility("home", 0.05)
	require.True(t, c.ReportVisibility("about", 0.1))
	require.Equal(t, "about", c.Active())
}

func TestReportVisibility_NaNCountsAsHidden(t *testing.T) {
	c, _ := newTestController(t)

	require.False(t, c.ReportVisibility("about", math.NaN()))
	require.Equal(t, "home", c.Active())
	require.Equal(t, 0.0, c.Ratio("about"))

	c.ReportVisibility("home", 0.5)
	require.False(t, c.ReportVisibility("home", math.NaN()))
	require.Equal(t, 0.0, c.Ratio("home"))
	require.True(t, c.ReportVisibility("skills", 0.1))
	require.Equal(t, "skills", c.Active())

	require.False(t, c.ReportVisibility("about", 0.1), "equal ratio keeps the active section")
	require.Equal(t, "skills", c.Active())
}

func TestReportVisibility_UnknownSectionIgnored(t *testing.T) {
	c, _ := newTestController(t)
	require.False(t, c.ReportVisibility("blog", 1))
	require.Equal(t, "home", c.Active())
}

func TestNeighbor_Wraps(t *testing.T) {
	c, _ := newTestController(t)
	require.Equal(t, "about", c.Neighbor(1))
	require.Equal(t, "contact", c.Neighbor(-1))
	require.NoError(t, c.NavigateTo("contact"))
	require.Equal(t, "home", c.Neighbor(1))
	require.Equal(t, 5, c.ActiveIndex())
}

func TestMargin(t *testing.T) {
	require.Equal(t, "-80px 0px -80px 0px", DefaultMargin.String())
	require.Equal(t, Margin{Top: -5, Bottom: -5}, DefaultMargin.Scaled(16))
	require.Equal(t, DefaultMargin, DefaultMargin.Scaled(0))
}

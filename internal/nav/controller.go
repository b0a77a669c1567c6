package nav

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Default scroll-spy tuning. Thresholds are fractions of a section's height; the
// margin shrinks the viewport used for intersection testing so sections sliding
// under a sticky header/footer don't flicker the active tab.
const DefaultGracePeriod = 500 * time.Millisecond

var DefaultThresholds = []float64{0.1, 0.3}

var DefaultMargin = Margin{Top: -80, Right: 0, Bottom: -80, Left: 0}

// Margin insets (negative) or grows (positive) the viewport on each edge,
// like an IntersectionObserver rootMargin.
type Margin struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// String renders the margin in CSS rootMargin form ("-80px 0px -80px 0px").
func (m Margin) String() string {
	return fmt.Sprintf("%dpx %dpx %dpx %dpx", m.Top, m.Right, m.Bottom, m.Left)
}

// Scaled converts a pixel margin into another unit (e.g. terminal rows).
// unit is the number of pixels per target unit; values are truncated toward zero.
func (m Margin) Scaled(unit int) Margin {
	if unit <= 1 {
		return m
	}
	return Margin{Top: m.Top / unit, Right: m.Right / unit, Bottom: m.Bottom / unit, Left: m.Left / unit}
}

type Config struct {
	Sections    []string
	Default     string
	Thresholds  []float64
	Margin      Margin
	GracePeriod time.Duration
}

func DefaultConfig(sections ...string) Config {
	return Config{
		Sections:    append([]string(nil), sections...),
		Thresholds:  append([]float64(nil), DefaultThresholds...),
		Margin:      DefaultMargin,
		GracePeriod: DefaultGracePeriod,
	}
}

// InvalidSectionError reports a section id that isn't configured. It always
// indicates a mismatch between the nav items and the section list.
type InvalidSectionError struct {
	ID    string
	Known []string
}

func (e *InvalidSectionError) Error() string {
	return fmt.Sprintf("nav: unknown section %q (known: %s)", e.ID, strings.Join(e.Known, ", "))
}

// Scroller is the view's hook for bringing a section's anchor into view.
type Scroller interface {
	ScrollTo(id string)
}

type ScrollerFunc func(id string)

func (f ScrollerFunc) ScrollTo(id string) { f(id) }

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

func WithScroller(s Scroller) Option {
	return func(c *Controller) { c.scroller = s }
}

// WithOnChange registers a callback invoked after every change of the active section.
func WithOnChange(fn func(from, to string)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// Controller owns the active section. It is driven by a single event loop and is
// not safe for concurrent use.
type Controller struct {
	sections []string
	index    map[string]int
	active   string

	// ratios holds the last reported visibility per section.
	ratios map[string]float64
	floor  float64

	grace      time.Duration
	graceUntil time.Time

	now      func() time.Time
	scroller Scroller
	onChange func(from, to string)
}

func New(cfg Config, opts ...Option) (*Controller, error) {
	if len(cfg.Sections) == 0 {
		return nil, fmt.Errorf("nav: no sections configured")
	}
	c := &Controller{
		sections: append([]string(nil), cfg.Sections...),
		index:    make(map[string]int, len(cfg.Sections)),
		ratios:   map[string]float64{},
		grace:    cfg.GracePeriod,
		now:      time.Now,
	}
	for i, id := range c.sections {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("nav: empty section id at position %d", i)
		}
		if _, dup := c.index[id]; dup {
			return nil, fmt.Errorf("nav: duplicate section id %q", id)
		}
		c.sections[i] = id
		c.index[id] = i
	}

	thresholds := append([]float64(nil), cfg.Thresholds...)
	if len(thresholds) == 0 {
		thresholds = append(thresholds, DefaultThresholds...)
	}
	sort.Float64s(thresholds)
	for _, t := range thresholds {
		if t <= 0 || t > 1 {
			return nil, fmt.Errorf("nav: threshold %v out of range (0,1]", t)
		}
	}
	c.floor = thresholds[0]

	c.active = c.sections[0]
	if d := strings.TrimSpace(cfg.Default); d != "" {
		if !c.Has(d) {
			return nil, c.invalid(d)
		}
		c.active = d
	}

	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Controller) invalid(id string) error {
	return &InvalidSectionError{ID: id, Known: c.Sections()}
}

// Sections returns a copy of the configured section order.
func (c *Controller) Sections() []string {
	return append([]string(nil), c.sections...)
}

func (c *Controller) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

func (c *Controller) Active() string { return c.active }

// ActiveIndex is the position of the active section in Sections().
func (c *Controller) ActiveIndex() int { return c.index[c.active] }

// Neighbor returns the section delta steps away from the active one, wrapping around.
func (c *Controller) Neighbor(delta int) string {
	n := len(c.sections)
	i := ((c.index[c.active]+delta)%n + n) % n
	return c.sections[i]
}

// InGrace reports whether passive visibility signals are currently suppressed.
func (c *Controller) InGrace() bool {
	return c.now().Before(c.graceUntil)
}

// NavigateTo makes id active immediately, opens the grace window, and asks the
// view to scroll to the section.
func (c *Controller) NavigateTo(id string) error {
	if !c.Has(id) {
		return c.invalid(id)
	}
	c.graceUntil = c.now().Add(c.grace)
	c.setActive(id)
	if c.scroller != nil {
		c.scroller.ScrollTo(id)
	}
	return nil
}

// ReportVisibility feeds one intersection observation. It returns true when the
// observation changed the active section.
//
// Ratios are recorded even while the grace window is open so the tie-break works
// on fresh data once it closes; they just can't activate anything until then.
func (c *Controller) ReportVisibility(id string, ratio float64) bool {
	if !c.Has(id) {
		return false
	}
	if ratio < 0 || math.IsNaN(ratio) {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	c.ratios[id] = ratio

	if c.InGrace() || id == c.active || ratio < c.floor {
		return false
	}
	// Both qualify: keep the current section unless the newcomer is strictly more visible.
	if cur := c.ratios[c.active]; cur >= c.floor && ratio <= cur {
		return false
	}
	c.setActive(id)
	return true
}

// Ratio is the last reported visibility of id (0 when never reported).
func (c *Controller) Ratio(id string) float64 { return c.ratios[id] }

func (c *Controller) setActive(id string) {
	prev := c.active
	c.active = id
	if prev != id && c.onChange != nil {
		c.onChange(prev, id)
	}
}

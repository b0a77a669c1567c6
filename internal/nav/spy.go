package nav

import "sort"

// Extent is a section's vertical placement in a scrollable document.
type Extent struct {
	ID     string
	Top    int
	Height int
}

// Reporter receives visibility observations (usually a *Controller).
type Reporter interface {
	ReportVisibility(id string, ratio float64) bool
}

// Spy plays the role of an intersection observer for views that lay every
// section out in one scrollable column. An Observe pass stays silent unless
// some section's visible ratio crossed a threshold (or became visible for the
// first time); a pass that does fire reports every intersecting section, plus
// the ones that just left, in ascending ratio order so the most visible
// section is judged last against fresh ratios.
type Spy struct {
	r          Reporter
	thresholds []float64
	margin     Margin

	extents []Extent
	last    map[string]float64
}

func NewSpy(r Reporter, thresholds []float64, margin Margin) *Spy {
	ts := append([]float64(nil), thresholds...)
	if len(ts) == 0 {
		ts = append(ts, DefaultThresholds...)
	}
	sort.Float64s(ts)
	return &Spy{r: r, thresholds: ts, margin: margin, last: map[string]float64{}}
}

// SetLayout replaces the observed sections. Previous observations are
// forgotten, so the next Observe reports every visible section again.
func (s *Spy) SetLayout(extents []Extent) {
	s.extents = append([]Extent(nil), extents...)
	s.last = map[string]float64{}
}

// Layout returns the observed extents.
func (s *Spy) Layout() []Extent { return append([]Extent(nil), s.extents...) }

// Observe evaluates the viewport [offset, offset+height). It returns true when
// a forwarded report changed the active section.
func (s *Spy) Observe(offset, height int) bool {
	top, bottom := s.window(offset, height)

	fired := false
	entries := make([]report, 0, len(s.extents))
	for _, e := range s.extents {
		ratio := intersectionRatio(e, top, bottom)
		prev, seen := s.last[e.ID]
		s.last[e.ID] = ratio

		crossed := ratio > 0
		if seen {
			crossed = s.crossed(prev, ratio)
		}
		fired = fired || crossed
		if ratio > 0 || crossed {
			entries = append(entries, report{id: e.ID, ratio: ratio})
		}
	}
	if !fired {
		return false
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ratio < entries[j].ratio })
	changed := false
	for _, en := range entries {
		if s.r.ReportVisibility(en.id, en.ratio) {
			changed = true
		}
	}
	return changed
}

type report struct {
	id    string
	ratio float64
}

// window applies the margin; when the inset swallows the viewport entirely
// (tiny terminals) the raw viewport is used instead.
func (s *Spy) window(offset, height int) (int, int) {
	top := offset - s.margin.Top
	bottom := offset + height + s.margin.Bottom
	if bottom <= top {
		return offset, offset + height
	}
	return top, bottom
}

func (s *Spy) crossed(prev, next float64) bool {
	if (prev > 0) != (next > 0) {
		return true
	}
	for _, t := range s.thresholds {
		if (prev >= t) != (next >= t) {
			return true
		}
	}
	return false
}

func intersectionRatio(e Extent, top, bottom int) float64 {
	if e.Height <= 0 {
		return 0
	}
	lo := max(e.Top, top)
	hi := min(e.Top+e.Height, bottom)
	if hi <= lo {
		return 0
	}
	return float64(hi-lo) / float64(e.Height)
}

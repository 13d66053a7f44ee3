package timeline

import "fmt"

// Kind tags a composition segment.
type Kind int

const (
	Intro Kind = iota
	Core
	Outro
)

func (k Kind) String() string {
	switch k {
	case Intro:
		return "intro"
	case Core:
		return "core"
	case Outro:
		return "outro"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Segment is one file in the final join.
type Segment struct {
	Kind     Kind
	Path     string
	Duration float64
}

// Timeline is the ordered list of segments: Intro?, Core, Outro?.
type Timeline struct {
	Segments []Segment
}

// Assemble folds the optional intro and outro around the core segment. The
// Kind of each argument is overwritten to match its position.
func Assemble(core Segment, intro, outro *Segment) Timeline {
	core.Kind = Core
	parts := []*Segment{intro, &core, outro}
	kinds := []Kind{Intro, Core, Outro}

	var tl Timeline
	for i, part := range parts {
		if part == nil {
			continue
		}
		seg := *part
		seg.Kind = kinds[i]
		tl.Segments = append(tl.Segments, seg)
	}
	return tl
}

// Duration is the sum of segment durations.
func (t Timeline) Duration() float64 {
	var sum float64
	for _, s := range t.Segments {
		sum += s.Duration
	}
	return sum
}

// Offset returns the start time of the first segment of kind k.
func (t Timeline) Offset(k Kind) (float64, bool) {
	var at float64
	for _, s := range t.Segments {
		if s.Kind == k {
			return at, true
		}
		at += s.Duration
	}
	return 0, false
}

// CoreOnly reports whether no branding segments surround the core.
func (t Timeline) CoreOnly() bool {
	return len(t.Segments) == 1 && t.Segments[0].Kind == Core
}

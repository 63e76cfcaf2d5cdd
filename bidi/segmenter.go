package bidi

import "fmt"

// Direction is the visual direction of a run.
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

func (d Direction) String() string {
	if d == RightToLeft {
		return "RTL"
	}
	return "LTR"
}

// MarshalText renders the direction as "LTR" or "RTL".
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Level returns the paragraph embedding level that corresponds to d.
func (d Direction) Level() Level {
	if d == RightToLeft {
		return 1
	}
	return 0
}

// Level is an embedding level. Odd levels are right-to-left.
type Level uint8

// Direction returns the direction implied by the parity of l.
func (l Level) Direction() Direction {
	if l&1 == 1 {
		return RightToLeft
	}
	return LeftToRight
}

// Run is a directional run of text in absolute buffer coordinates.
type Run struct {
	Start int       `json:"start"`
	End   int       `json:"end"`
	Level Level     `json:"level"`
	Dir   Direction `json:"dir"`
}

func (r Run) String() string {
	return fmt.Sprintf("[%d,%d)%s@%d", r.Start, r.End, r.Dir, r.Level)
}

// Segmenter produces visual runs. The zero value is an algorithmic segmenter
// without default level.
type Segmenter struct {
	forced       bool
	dir          Direction
	defaultLevel *Level
	remembered   *Level
	lastBase     Level
}

// NewForced returns a segmenter that tags all input with dir.
func NewForced(dir Direction) *Segmenter {
	return &Segmenter{forced: true, dir: dir}
}

// NewAlgorithmic returns a segmenter that detects the base level per paragraph.
func NewAlgorithmic() *Segmenter {
	return &Segmenter{}
}

// NewAlgorithmicWithDefault returns a segmenter that uses base level l for
// every paragraph instead of detecting it.
func NewAlgorithmicWithDefault(l Level) *Segmenter {
	return &Segmenter{defaultLevel: &l}
}

// Remembered returns the first auto-detected base level, if any.
func (s *Segmenter) Remembered() (Level, bool) {
	if s.remembered == nil {
		return 0, false
	}
	return *s.remembered, true
}

// StartDirection is the best-known direction: forced, then explicit default,
// then remembered, then left-to-right.
func (s *Segmenter) StartDirection() Direction {
	return s.baseLevel().Direction()
}

func (s *Segmenter) baseLevel() Level {
	switch {
	case s.forced:
		return s.dir.Level()
	case s.defaultLevel != nil:
		return *s.defaultLevel
	case s.remembered != nil:
		return *s.remembered
	}
	return 0
}

// ParagraphDirection is the base direction of the last paragraph passed
// through VisualRuns.
func (s *Segmenter) ParagraphDirection() Direction {
	return s.lastBase.Direction()
}

// VisualRuns returns the directional runs of text in visual order, paragraph
// by paragraph. Offsets are shifted by bias. A forced segmenter always yields
// exactly one run; an algorithmic one yields at least one run, falling back to
// a single run in StartDirection when nothing else can be derived.
func (s *Segmenter) VisualRuns(text string, bias int) []Run {
	if s.forced {
		s.lastBase = s.dir.Level()
		return []Run{{Start: bias, End: bias + len(text), Level: s.dir.Level(), Dir: s.dir}}
	}
	var runs []Run
	for _, p := range splitParagraphs(text) {
		runs = append(runs, s.paragraphRuns(text[p.start:p.end], bias+p.start)...)
	}
	if len(runs) == 0 {
		l := s.baseLevel()
		s.lastBase = l
		return []Run{{Start: bias, End: bias + len(text), Level: l, Dir: l.Direction()}}
	}
	return runs
}

func (s *Segmenter) paragraphRuns(text string, bias int) []Run {
	p := newParagraph(text)
	if len(p.classes) == 0 {
		return nil
	}
	var base Level
	switch detected, ok := p.firstStrong(); {
	case s.defaultLevel != nil:
		base = *s.defaultLevel
	case ok:
		base = detected
		if s.remembered == nil {
			s.remembered = &detected
			tracer().Debugf("bidi: remembering base level %d", detected)
		}
	case s.remembered != nil:
		base = *s.remembered
	default:
		base = s.baseLevel()
	}
	s.lastBase = base
	p.resolve(base)
	runs := p.levelRuns()
	reorderRuns(runs)
	for i := range runs {
		runs[i].Start += bias
		runs[i].End += bias
	}
	return runs
}

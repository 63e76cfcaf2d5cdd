package bidi

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/bidi"
)

type textSpan struct{ start, end int }

// splitParagraphs cuts text after every paragraph separator (class B).
// CR LF stays together.
func splitParagraphs(text string) []textSpan {
	var out []textSpan
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if classOf(r) != bidi.B {
			continue
		}
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		out = append(out, textSpan{start, i})
		start = i
	}
	if start < len(text) {
		out = append(out, textSpan{start, len(text)})
	}
	return out
}

func classOf(r rune) bidi.Class {
	props, _ := bidi.LookupRune(r)
	return props.Class()
}

// paragraph holds per-rune state while levels are resolved.
type paragraph struct {
	text    string
	pos     []int        // byte offset of each rune
	orig    []bidi.Class // classes as looked up
	classes []bidi.Class // classes after resolution
	levels  []Level
	base    Level
}

func newParagraph(text string) *paragraph {
	n := utf8.RuneCountInString(text)
	p := &paragraph{
		text:    text,
		pos:     make([]int, 0, n),
		orig:    make([]bidi.Class, 0, n),
		classes: make([]bidi.Class, 0, n),
	}
	for i, r := range text {
		c := classOf(r)
		p.pos = append(p.pos, i)
		p.orig = append(p.orig, c)
		switch c {
		case bidi.BN, bidi.Control, bidi.LRE, bidi.RLE, bidi.LRO, bidi.RLO, bidi.PDF,
			bidi.LRI, bidi.RLI, bidi.FSI, bidi.PDI:
			c = bidi.ON
		}
		p.classes = append(p.classes, c)
	}
	return p
}

// firstStrong implements P2/P3.
func (p *paragraph) firstStrong() (Level, bool) {
	for _, c := range p.classes {
		switch c {
		case bidi.L:
			return 0, true
		case bidi.R, bidi.AL:
			return 1, true
		}
	}
	return 0, false
}

func strongClass(l Level) bidi.Class {
	if l.Direction() == RightToLeft {
		return bidi.R
	}
	return bidi.L
}

func isNeutral(c bidi.Class) bool {
	switch c {
	case bidi.B, bidi.S, bidi.WS, bidi.ON:
		return true
	}
	return false
}

// resolve runs the weak type rules W1-W7, the neutral rules N1/N2, the
// implicit level rules I1/I2 and the whitespace rule L1.
func (p *paragraph) resolve(base Level) {
	p.base = base
	t := p.classes
	n := len(t)
	sos := strongClass(base)

	// W1
	prev := sos
	for i := range t {
		if t[i] == bidi.NSM {
			t[i] = prev
		}
		prev = t[i]
	}
	// W2, W3
	last := sos
	for i := range t {
		switch t[i] {
		case bidi.L, bidi.R:
			last = t[i]
		case bidi.AL:
			last = bidi.AL
			t[i] = bidi.R
		case bidi.EN:
			if last == bidi.AL {
				t[i] = bidi.AN
			}
		}
	}
	// W4
	for i := 1; i+1 < n; i++ {
		switch {
		case t[i] == bidi.ES && t[i-1] == bidi.EN && t[i+1] == bidi.EN:
			t[i] = bidi.EN
		case t[i] == bidi.CS && (t[i-1] == bidi.EN || t[i-1] == bidi.AN) && t[i+1] == t[i-1]:
			t[i] = t[i-1]
		}
	}
	// W5
	for i := 0; i < n; {
		if t[i] != bidi.ET {
			i++
			continue
		}
		j := i
		for j < n && t[j] == bidi.ET {
			j++
		}
		if (i > 0 && t[i-1] == bidi.EN) || (j < n && t[j] == bidi.EN) {
			for k := i; k < j; k++ {
				t[k] = bidi.EN
			}
		}
		i = j
	}
	// W6
	for i := range t {
		switch t[i] {
		case bidi.ES, bidi.ET, bidi.CS:
			t[i] = bidi.ON
		}
	}
	// W7
	last = sos
	for i := range t {
		switch t[i] {
		case bidi.L, bidi.R:
			last = t[i]
		case bidi.EN:
			if last == bidi.L {
				t[i] = bidi.L
			}
		}
	}
	// N1, N2
	for i := 0; i < n; {
		if !isNeutral(t[i]) {
			i++
			continue
		}
		j := i
		for j < n && isNeutral(t[j]) {
			j++
		}
		before, after := sos, sos
		if i > 0 {
			before = asStrong(t[i-1])
		}
		if j < n {
			after = asStrong(t[j])
		}
		fill := sos
		if before == after {
			fill = before
		}
		for k := i; k < j; k++ {
			t[k] = fill
		}
		i = j
	}
	// I1, I2
	p.levels = make([]Level, n)
	for i, c := range t {
		l := base
		if base&1 == 0 {
			switch c {
			case bidi.R:
				l++
			case bidi.AN, bidi.EN:
				l += 2
			}
		} else if c == bidi.L || c == bidi.EN || c == bidi.AN {
			l++
		}
		p.levels[i] = l
	}
	// L1
	trailing := true
	for i := n - 1; i >= 0; i-- {
		switch c := p.orig[i]; {
		case c == bidi.S || c == bidi.B:
			p.levels[i] = base
			trailing = true
		case isWhitespaceLike(c):
			if trailing {
				p.levels[i] = base
			}
		default:
			trailing = false
		}
	}
}

// asStrong maps a resolved class to L or R for N1; numbers count as R.
func asStrong(c bidi.Class) bidi.Class {
	if c == bidi.L {
		return bidi.L
	}
	return bidi.R
}

func isWhitespaceLike(c bidi.Class) bool {
	switch c {
	case bidi.WS, bidi.BN, bidi.LRE, bidi.RLE, bidi.LRO, bidi.RLO, bidi.PDF,
		bidi.LRI, bidi.RLI, bidi.FSI, bidi.PDI:
		return true
	}
	return false
}

// levelRuns groups consecutive runes of equal level, in logical order and
// relative to the paragraph start.
func (p *paragraph) levelRuns() []Run {
	var runs []Run
	for i, l := range p.levels {
		if len(runs) > 0 && runs[len(runs)-1].Level == l {
			continue
		}
		if len(runs) > 0 {
			runs[len(runs)-1].End = p.pos[i]
		}
		runs = append(runs, Run{Start: p.pos[i], Level: l, Dir: l.Direction()})
	}
	if len(runs) > 0 {
		runs[len(runs)-1].End = len(p.text)
	}
	return runs
}

// reorderRuns applies rule L2 at run granularity: from the highest level down
// to the lowest odd level, every maximal sequence of runs at that level or
// higher is reversed.
func reorderRuns(runs []Run) {
	if len(runs) < 2 {
		return
	}
	hi, lo := runs[0].Level, runs[0].Level
	for _, r := range runs[1:] {
		hi = max(hi, r.Level)
		lo = min(lo, r.Level)
	}
	lowestOdd := lo | 1
	for k := hi; k >= lowestOdd; k-- {
		for i := 0; i < len(runs); {
			if runs[i].Level < k {
				i++
				continue
			}
			j := i
			for j < len(runs) && runs[j].Level >= k {
				j++
			}
			reverse(runs[i:j])
			i = j
		}
	}
}

func reverse(runs []Run) {
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
}

package layout

import (
	"math"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/ByLCY/scroll/bidi"
)

// place 把整形结果按视觉顺序排成行，再依次完成水平对齐、行堆叠与垂直对齐。
func place(res *Layout, plans []linePlan, jobs []shapeJob) {
	lines := make([]Line, len(plans))
	widest := 0.0
	for i, p := range plans {
		line := Line{Start: p.start, End: p.end, Direction: p.dir}
		for _, ji := range p.visual {
			j := &jobs[ji]
			line.Runs = append(line.Runs, Run{
				Start:     j.start,
				End:       j.end,
				Direction: j.dir,
				Props:     j.props,
				Face:      j.face.Name(),
				Advance:   j.result.Advance,
				Metrics:   j.result.Metrics,
				Glyphs:    slices.Clone(j.result.Glyphs),
			})
			line.Width += j.result.Advance
			line.Metrics = maxMetrics(line.Metrics, j.result.Metrics)
		}
		widest = max(widest, line.Width)
		lines[i] = line
	}

	box := res.Policy.BoxWidth
	if box <= 0 {
		box = widest
	}
	for i := range lines {
		alignLine(res.Text, &lines[i], res.Policy.Align, box, i == len(lines)-1)
	}

	// 行堆叠：下一行基线 = 上一行基线 + 上一行 descent + 行距 + 本行 ascent
	baseline := 0.0
	for i := range lines {
		if i == 0 {
			baseline = lines[i].Metrics.Ascent
		} else {
			prev := lines[i-1].Metrics
			baseline += prev.Descent + prev.LineGap + lines[i].Metrics.Ascent
		}
		lines[i].Baseline = baseline
	}
	last := &lines[len(lines)-1]
	height := last.Baseline + last.Metrics.Descent

	dy := verticalShift(lines, height, res.Policy.VerAlign)
	for i := range lines {
		line := &lines[i]
		line.Baseline += dy
		for k := range line.Runs {
			run := &line.Runs[k]
			run.Baseline = line.Baseline
			for g := range run.Glyphs {
				run.Glyphs[g].Y += line.Baseline
			}
		}
	}

	res.BoxWidth = box
	res.TotalHeight = height
	res.Lines = lines
	res.BBox = boundingBox(lines)
}

func maxMetrics(a, b Metrics) Metrics {
	return Metrics{
		Ascent:    max(a.Ascent, b.Ascent),
		Descent:   max(a.Descent, b.Descent),
		LineGap:   max(a.LineGap, b.LineGap),
		CapHeight: max(a.CapHeight, b.CapHeight),
		XHeight:   max(a.XHeight, b.XHeight),
	}
}

// alignLine 计算行的水平起点并把 run 与字形换算为绝对横坐标。
// 两端对齐优先把余量分给空白字形，没有空白时分给 run 之间的间隙；最后一行不做两端对齐。
func alignLine(text string, l *Line, align Align, box float64, last bool) {
	extra := box - l.Width
	offset := 0.0
	var perSpace, perGap float64
	switch align {
	case AlignCenter:
		offset = extra / 2
	case AlignRight:
		offset = extra
	case AlignStart, AlignEnd, AlignJustify:
		atEnd := (align == AlignEnd) != (l.Direction == bidi.RightToLeft)
		if align == AlignJustify && !last && extra > 0 {
			if n := countSpaces(text, l); n > 0 {
				perSpace = extra / float64(n)
				atEnd = false
			} else if len(l.Runs) > 1 {
				perGap = extra / float64(len(l.Runs)-1)
				atEnd = false
			}
		}
		if atEnd {
			offset = extra
		}
	}

	x := offset
	for k := range l.Runs {
		run := &l.Runs[k]
		if k > 0 {
			x += perGap
		}
		run.X = x
		natural := 0.0
		for g := range run.Glyphs {
			gl := &run.Glyphs[g]
			shift := gl.X - natural
			natural += gl.Advance
			if perSpace > 0 && isSpaceAt(text, gl.Cluster) {
				gl.Advance += perSpace
			}
			gl.X = x + shift
			x += gl.Advance
		}
		// 字形步进之和与 run 步进不一致时以 run 步进为准
		if d := run.Advance - natural; math.Abs(d) > 1e-9 {
			x += d
		}
		run.Advance = x - run.X
	}
	l.X = offset
	l.Width = x - offset
}

func countSpaces(text string, l *Line) int {
	n := 0
	for _, run := range l.Runs {
		for _, g := range run.Glyphs {
			if isSpaceAt(text, g.Cluster) {
				n++
			}
		}
	}
	return n
}

func isSpaceAt(text string, off int) bool {
	if off < 0 || off >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[off:])
	return unicode.IsSpace(r)
}

// verticalShift 返回使块的指定参考线落在锚点 y=0 上的位移。
// 行号超出范围时取最后一行。
func verticalShift(lines []Line, height float64, va VerAlign) float64 {
	switch va.Kind {
	case VerCenter:
		return -height / 2
	case VerBottom:
		return -height
	case VerLine:
		i := min(max(va.Line, 0), len(lines)-1)
		l := &lines[i]
		switch va.LineAlign {
		case LineTop:
			return -(l.Baseline - l.Metrics.Ascent)
		case LineBottom:
			return -(l.Baseline + l.Metrics.Descent)
		case LineMiddle:
			return -(l.Baseline - l.Metrics.XHeight/2)
		case LineHanging:
			return -(l.Baseline - l.Metrics.CapHeight)
		}
		return -l.Baseline
	}
	return 0
}

func boundingBox(lines []Line) Rect {
	if len(lines) == 0 {
		return Rect{}
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	for i := range lines {
		minX = min(minX, lines[i].X)
		maxX = max(maxX, lines[i].X+lines[i].Width)
	}
	top := lines[0].Top()
	bottom := lines[len(lines)-1].Bottom()
	return Rect{X: minX, Y: top, Width: maxX - minX, Height: bottom - top}
}

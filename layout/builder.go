package layout

import (
	"fmt"
	"runtime"
	"slices"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/scroll/bidi"
	"github.com/ByLCY/scroll/markup"
	"github.com/ByLCY/scroll/segment"
	"github.com/ByLCY/scroll/style"
)

// Builder 收集纯文本、根样式与样式覆盖，Finalize 时一次性完成分段、整形与定位。
type Builder struct {
	text   string
	root   style.TextProps
	spans  []style.Span
	policy Policy
	opts   BuildOptions
	err    error
}

// NewBuilder 以纯文本和根样式创建 Builder。
func NewBuilder(text string, root style.TextProps) *Builder {
	return &Builder{text: text, root: root, policy: DefaultPolicy()}
}

// FromMarkup 以标记解析结果创建 Builder。
func FromMarkup(parsed *markup.Parsed, root style.TextProps) *Builder {
	if parsed == nil {
		return NewBuilder("", root)
	}
	return NewBuilder(parsed.Text, root).AddSpans(parsed.Spans...)
}

// AddSpan 为 [start, end) 添加样式覆盖，语义与标记标签相同。
// 区间越界或不在字符边界上时记录错误，由 Finalize 返回。
func (b *Builder) AddSpan(start, end int, o style.Override) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.checkSpan(start, end); err != nil {
		b.err = err
		return b
	}
	b.spans = append(b.spans, style.Span{Start: start, End: end, Override: o})
	return b
}

// AddSpans 依次添加多个 span。
func (b *Builder) AddSpans(spans ...style.Span) *Builder {
	for _, s := range spans {
		b.AddSpan(s.Start, s.End, s.Override)
	}
	return b
}

// WithLayout 设置排版策略。
func (b *Builder) WithLayout(p Policy) *Builder {
	b.policy = p
	return b
}

// WithOptions 设置执行选项。
func (b *Builder) WithOptions(o BuildOptions) *Builder {
	b.opts = o
	return b
}

func (b *Builder) checkSpan(start, end int) error {
	if start < 0 || end < start || end > len(b.text) {
		return &Error{Kind: InvalidSpan, Start: start, End: end, Err: fmt.Errorf("超出文本范围 [0,%d)", len(b.text))}
	}
	if !isCharBoundary(b.text, start) || !isCharBoundary(b.text, end) {
		return &Error{Kind: InvalidSpan, Start: start, End: end, Err: fmt.Errorf("不在 UTF-8 字符边界上")}
	}
	return nil
}

func isCharBoundary(s string, i int) bool {
	return i == len(s) || utf8.RuneStart(s[i])
}

// shapeJob 是一个待整形的原子 run，按逻辑顺序编号。
type shapeJob struct {
	start, end int
	dir        bidi.Direction
	props      style.TextProps
	face       FontFace
	result     *GlyphRun
}

// linePlan 记录一行的原子 run 在视觉顺序下的编号。
type linePlan struct {
	start, end int
	dir        bidi.Direction
	visual     []int
}

// Finalize 计算排版结果。任一 run 的字体族全部缺失时返回 NoSuchFont，不返回部分结果。
// 相同输入与确定性的字体后端总是得到相同的几何结果。
func (b *Builder) Finalize(catalog FontCatalog, shaper Shaper) (*Layout, error) {
	if b.err != nil {
		return nil, b.err
	}
	if catalog == nil || shaper == nil {
		return nil, fmt.Errorf("layout: 缺少字体目录或整形后端")
	}
	res := &Layout{Text: b.text, Policy: b.policy, BoxWidth: max(b.policy.BoxWidth, 0)}
	ranges := splitLines(b.text)
	if len(ranges) == 0 {
		return res, nil
	}

	seg := newSegmenter(b.policy.Direction)
	var jobs []shapeJob
	plans := make([]linePlan, len(ranges))
	for i, r := range ranges {
		plans[i] = b.planLine(r, seg, &jobs)
	}
	tracer().Debugf("layout: %d lines, %d atomic runs", len(plans), len(jobs))

	if err := resolveFonts(jobs, catalog); err != nil {
		return nil, err
	}
	if err := shapeAll(b.text, jobs, shaper, b.opts.Workers); err != nil {
		return nil, err
	}
	place(res, plans, jobs)

	if b.opts.Debug.CheckCoverage {
		if err := res.CheckFlatCoverage(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func newSegmenter(d Direction) *bidi.Segmenter {
	switch d {
	case DirLTR:
		return bidi.NewForced(bidi.LeftToRight)
	case DirRTL:
		return bidi.NewForced(bidi.RightToLeft)
	case DirAutoLTR:
		return bidi.NewAlgorithmicWithDefault(0)
	case DirAutoRTL:
		return bidi.NewAlgorithmicWithDefault(1)
	}
	return bidi.NewAlgorithmic()
}

// planLine 求样式切分与方向切分的并集，得到原子 run，并记录其视觉顺序。
func (b *Builder) planLine(lr segment.Range, seg *bidi.Segmenter, jobs *[]shapeJob) linePlan {
	runs := seg.VisualRuns(b.text[lr.Start:lr.End], lr.Start)
	plan := linePlan{start: lr.Start, end: lr.End, dir: seg.ParagraphDirection()}
	if lr.Start == lr.End {
		// 空行仍需根字体的度量
		*jobs = append(*jobs, shapeJob{start: lr.Start, end: lr.End, dir: plan.dir, props: b.root})
		plan.visual = []int{len(*jobs) - 1}
		return plan
	}

	bounds := segment.New(lr.Start, lr.End)
	for _, s := range b.spans {
		bounds.CheckInRange(s.Start, s.End)
	}
	for _, r := range runs {
		bounds.CheckInRange(r.Start, r.End)
	}
	atoms := bounds.Ranges()
	first := len(*jobs)
	for _, a := range atoms {
		*jobs = append(*jobs, shapeJob{start: a.Start, end: a.End, props: b.propsFor(a.Start, a.End)})
	}

	plan.visual = make([]int, 0, len(atoms))
	for _, r := range runs {
		var idx []int
		for k, a := range atoms {
			if a.Start >= r.Start && a.End <= r.End {
				(*jobs)[first+k].dir = r.Dir
				idx = append(idx, first+k)
			}
		}
		if r.Dir == bidi.RightToLeft {
			slices.Reverse(idx)
		}
		plan.visual = append(plan.visual, idx...)
	}
	return plan
}

// propsFor 按声明顺序应用覆盖 [start, end) 的所有 span。
func (b *Builder) propsFor(start, end int) style.TextProps {
	props := b.root
	for _, s := range b.spans {
		if s.Covers(start, end) {
			props = props.Apply(s.Override)
		}
	}
	return props
}

func resolveFonts(jobs []shapeJob, catalog FontCatalog) error {
	cache := make(map[string]FontFace)
	for i := range jobs {
		j := &jobs[i]
		key := j.props.Font.Key()
		face, ok := cache[key]
		if !ok {
			face, ok = catalog.Resolve(j.props.Font)
			if !ok || face == nil {
				return &Error{Kind: NoSuchFont, Families: slices.Clone(j.props.Font.Families), Start: j.start, End: j.end}
			}
			cache[key] = face
		}
		j.face = face
	}
	return nil
}

// shapeAll 在有限的 goroutine 中整形，结果按编号写回，错误按编号取最小者。
func shapeAll(text string, jobs []shapeJob, shaper Shaper, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	errs := make([]error, len(jobs))
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range jobs {
		g.Go(func() error {
			j := &jobs[i]
			run, err := shaper.Shape(ShapeRequest{
				Text:      text[j.start:j.end],
				Start:     j.start,
				Face:      j.face,
				Size:      j.props.Size,
				Direction: j.dir,
			})
			if err == nil && run == nil {
				err = fmt.Errorf("整形后端返回空结果")
			}
			if err != nil {
				errs[i] = err
				return err
			}
			j.result = run
			return nil
		})
	}
	if g.Wait() == nil {
		return nil
	}
	// Wait 只返回最先结束的错误，这里按编号取最小者
	for i, err := range errs {
		if err != nil {
			return &Error{Kind: ShapingFailed, Start: jobs[i].start, End: jobs[i].end, Err: err}
		}
	}
	return nil
}

// splitLines 按 \n、\r\n、U+0085、U+2028、U+2029 分行，末尾的换行不产生额外空行。
func splitLines(text string) []segment.Range {
	var out []segment.Range
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == '\r' && i+1 < len(text) && text[i+1] == '\n':
			out = append(out, segment.Range{Start: start, End: i})
			i += 2
			start = i
			continue
		case r == '\n' || r == '\u0085' || r == '\u2028' || r == '\u2029':
			out = append(out, segment.Range{Start: start, End: i})
			start = i + size
		}
		i += size
	}
	if start < len(text) {
		out = append(out, segment.Range{Start: start, End: len(text)})
	}
	return out
}

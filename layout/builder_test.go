package layout

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/ByLCY/scroll/bidi"
	"github.com/ByLCY/scroll/markup"
	"github.com/ByLCY/scroll/style"
)

// stubFace / stubCatalog / stubShaper 是测试用的最小字体后端：
// 每个字符步进 size*0.5，度量按字号固定比例。
type stubFace struct{ name string }

func (f stubFace) Name() string { return f.name }

type stubCatalog struct{ known []string }

func (c stubCatalog) Resolve(font style.Font) (FontFace, bool) {
	for _, fam := range font.Families {
		if slices.Contains(c.known, fam) {
			return stubFace{name: fmt.Sprintf("%s-%s", fam, font.Weight)}, true
		}
	}
	return nil, false
}

type stubShaper struct {
	fail string // 文本包含该子串时返回错误
}

func (s stubShaper) Shape(req ShapeRequest) (*GlyphRun, error) {
	if s.fail != "" && strings.Contains(req.Text, s.fail) {
		return nil, fmt.Errorf("无法整形 %q", req.Text)
	}
	adv := req.Size * 0.5
	var glyphs []Glyph
	for off, r := range req.Text {
		glyphs = append(glyphs, Glyph{ID: uint32(r), Cluster: req.Start + off, Advance: adv})
	}
	if req.Direction == bidi.RightToLeft {
		slices.Reverse(glyphs)
	}
	x := 0.0
	for i := range glyphs {
		glyphs[i].X = x
		x += glyphs[i].Advance
	}
	return &GlyphRun{
		Glyphs:  glyphs,
		Advance: x,
		Metrics: Metrics{
			Ascent:    req.Size * 0.8,
			Descent:   req.Size * 0.2,
			CapHeight: req.Size * 0.7,
			XHeight:   req.Size * 0.5,
		},
	}, nil
}

var testCatalog = stubCatalog{known: []string{"sans-serif", "serif"}}

func root(size float64) style.TextProps {
	p := style.Default()
	p.Size = size
	return p
}

func finalize(t *testing.T, b *Builder) *Layout {
	t.Helper()
	res, err := b.WithOptions(BuildOptions{Debug: DebugOptions{CheckCoverage: true}}).Finalize(testCatalog, stubShaper{})
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	return res
}

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func runStarts(l *Line) []int {
	var out []int
	for _, r := range l.Runs {
		out = append(out, r.Start)
	}
	return out
}

func TestHorizontalAlignment(t *testing.T) {
	cases := []struct {
		align Align
		text  string
		x     float64
	}{
		{AlignStart, "Hello", 0},
		{AlignLeft, "Hello", 0},
		{AlignCenter, "Hello", 35},
		{AlignEnd, "Hello", 70},
		{AlignRight, "Hello", 70},
		{AlignStart, "שלום", 76},
		{AlignEnd, "שלום", 0},
		{AlignLeft, "שלום", 0},
		{AlignRight, "שלום", 76},
	}
	for _, c := range cases {
		pol := DefaultPolicy()
		pol.Align, pol.BoxWidth = c.align, 100
		res := finalize(t, NewBuilder(c.text, root(12)).WithLayout(pol))
		if res.NumLines() != 1 {
			t.Fatalf("%s %q: 期望 1 行，得到 %d", c.align, c.text, res.NumLines())
		}
		if l := res.Line(0); !almost(l.X, c.x) {
			t.Fatalf("%s %q: 期望 X=%v，得到 %v", c.align, c.text, c.x, l.X)
		}
	}
}

func TestBoxWidthDefaultsToWidestLine(t *testing.T) {
	pol := DefaultPolicy()
	pol.Align = AlignRight
	res := finalize(t, NewBuilder("abcd\nab", root(10)).WithLayout(pol))
	if !almost(res.Width(), 20) {
		t.Fatalf("期望宽度 20，得到 %v", res.Width())
	}
	if !almost(res.Line(1).X, 10) {
		t.Fatalf("第二行应右对齐到 10，得到 %v", res.Line(1).X)
	}
}

func TestMarkupSizeResolution(t *testing.T) {
	parsed, err := markup.Parse("[size=32]Hi[/size] there")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	res := finalize(t, FromMarkup(parsed, root(12)))
	l := res.Line(0)
	if len(l.Runs) != 2 {
		t.Fatalf("期望 2 个 run，得到 %d", len(l.Runs))
	}
	first := l.Runs[0]
	if first.Start != 0 || first.End != 2 || first.Props.Size != 32 {
		t.Fatalf("第一个 run 不正确: [%d,%d) size=%v", first.Start, first.End, first.Props.Size)
	}
	if l.Runs[1].Props.Size != 12 {
		t.Fatalf("其余文本应为根字号，得到 %v", l.Runs[1].Props.Size)
	}
	if !almost(l.Metrics.Ascent, 32*0.8) {
		t.Fatalf("行度量应取最大值，得到 ascent=%v", l.Metrics.Ascent)
	}
}

func TestAtomicRunsUnionStyleCuts(t *testing.T) {
	b := NewBuilder("abc def", root(12)).
		AddSpan(1, 3, style.Override{}.WithWeight(style.Bold)).
		AddSpan(2, 5, style.Override{}.WithStyle(style.Italic))
	res := finalize(t, b)
	got := runStarts(res.Line(0))
	if want := []int{0, 1, 2, 3, 5}; !slices.Equal(got, want) {
		t.Fatalf("期望切分 %v，得到 %v", want, got)
	}
	r := res.Line(0).Runs[2] // [2,3)
	if r.Props.Font.Weight != style.Bold || r.Props.Font.Style != style.Italic {
		t.Fatalf("重叠区应同时加粗与倾斜: %+v", r.Props.Font)
	}
}

func TestLaterSpanWins(t *testing.T) {
	b := NewBuilder("abc", root(12)).
		AddSpan(0, 3, style.Override{}.WithSize(20)).
		AddSpan(0, 3, style.Override{}.WithSize(30))
	res := finalize(t, b)
	if got := res.Line(0).Runs[0].Props.Size; got != 30 {
		t.Fatalf("后声明的 span 应优先，得到 %v", got)
	}
}

func TestMixedDirectionVisualOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scroll")
	defer teardown()

	text := "abc שלום"
	// 加粗 "abc ש"，在希伯来文内部产生样式切分
	b := NewBuilder(text, root(10)).AddSpan(0, 6, style.Override{}.WithWeight(style.Bold))
	res := finalize(t, b)
	l := res.Line(0)
	if l.Direction != bidi.LeftToRight {
		t.Fatalf("段落方向应为 LTR")
	}
	got := runStarts(l)
	if want := []int{0, 6, 4}; !slices.Equal(got, want) {
		t.Fatalf("视觉顺序应为 %v，得到 %v", want, got)
	}
	if l.Runs[1].Direction != bidi.RightToLeft || l.Runs[0].Direction != bidi.LeftToRight {
		t.Fatalf("run 方向不正确")
	}
	// run 从左到右紧密排列
	x := l.X
	for _, r := range l.Runs {
		if !almost(r.X, x) {
			t.Fatalf("run [%d,%d) 期望 X=%v，得到 %v", r.Start, r.End, x, r.X)
		}
		x += r.Advance
	}
	// RTL run 内字形逻辑顺序从右向左
	rtl := l.Runs[1]
	if len(rtl.Glyphs) != 3 || rtl.Glyphs[0].Cluster <= rtl.Glyphs[2].Cluster {
		t.Fatalf("RTL 字形顺序不正确: %+v", rtl.Glyphs)
	}
}

func TestForcedDirection(t *testing.T) {
	pol := DefaultPolicy()
	pol.Direction, pol.BoxWidth = DirRTL, 100
	res := finalize(t, NewBuilder("abc", root(10)).WithLayout(pol))
	l := res.Line(0)
	if l.Direction != bidi.RightToLeft || len(l.Runs) != 1 || l.Runs[0].Direction != bidi.RightToLeft {
		t.Fatalf("强制 RTL 失败: %+v", l)
	}
	if !almost(l.X, 85) {
		t.Fatalf("RTL 行 Start 对齐应靠右，得到 X=%v", l.X)
	}
}

func TestFinalizeIsDeterministic(t *testing.T) {
	b := NewBuilder("Hello, עולם 123\nsecond line", root(12)).
		AddSpan(2, 9, style.Override{}.WithFill(style.Color{R: 255, A: 255}))
	a, err := b.Finalize(testCatalog, stubShaper{})
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	c, err := b.Finalize(testCatalog, stubShaper{})
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if !reflect.DeepEqual(a, c) {
		t.Fatalf("两次 Finalize 结果不一致")
	}
}

func TestWorkerCountDoesNotChangeResult(t *testing.T) {
	var sb strings.Builder
	for i := range 40 {
		fmt.Fprintf(&sb, "line %d مرحبا %d\n", i, i*7)
	}
	text := sb.String()
	build := func(workers int) *Layout {
		res, err := NewBuilder(text, root(11)).
			AddSpan(0, 4, style.Override{}.WithSize(14)).
			WithOptions(BuildOptions{Workers: workers}).
			Finalize(testCatalog, stubShaper{})
		if err != nil {
			t.Fatalf("排版失败: %v", err)
		}
		return res
	}
	if !reflect.DeepEqual(build(1), build(8)) {
		t.Fatalf("并发整形结果与串行不一致")
	}
}

func TestNoSuchFont(t *testing.T) {
	p := root(12)
	p.Font.Families = []string{"Nope", "Missing"}
	_, err := NewBuilder("abc", p).Finalize(testCatalog, stubShaper{})
	if !errors.Is(err, ErrNoSuchFont) {
		t.Fatalf("期望 NoSuchFont，得到 %v", err)
	}
	var le *Error
	if !errors.As(err, &le) || !slices.Equal(le.Families, []string{"Nope", "Missing"}) {
		t.Fatalf("错误应携带字体族列表: %v", err)
	}
}

func TestFallbackFamily(t *testing.T) {
	b := NewBuilder("abc", root(12)).AddSpan(0, 3, style.Override{}.WithFamilies("Nope", "serif"))
	res := finalize(t, b)
	if face := res.Line(0).Runs[0].Face; !strings.HasPrefix(face, "serif") {
		t.Fatalf("应回退到 serif，得到 %q", face)
	}
}

func TestInvalidSpan(t *testing.T) {
	cases := []struct{ start, end int }{{-1, 2}, {2, 1}, {0, 99}, {1, 2}}
	for _, c := range cases {
		_, err := NewBuilder("שלום", root(12)).AddSpan(c.start, c.end, style.Override{}).Finalize(testCatalog, stubShaper{})
		if !errors.Is(err, ErrInvalidSpan) {
			t.Fatalf("[%d,%d): 期望 InvalidSpan，得到 %v", c.start, c.end, err)
		}
	}
}

func TestShapingFailureReportsFirstRun(t *testing.T) {
	_, err := NewBuilder("ax\nbx\ncx", root(12)).
		WithOptions(BuildOptions{Workers: 4}).
		Finalize(testCatalog, stubShaper{fail: "x"})
	var le *Error
	if !errors.As(err, &le) || le.Kind != ShapingFailed {
		t.Fatalf("期望 ShapingFailed，得到 %v", err)
	}
	if le.Start != 0 || le.End != 2 {
		t.Fatalf("应报告第一个失败的 run，得到 [%d,%d)", le.Start, le.End)
	}
}

func TestShapingFailureIgnoresCompletionOrder(t *testing.T) {
	text := strings.Repeat("okx\n", 64)
	for range 20 {
		_, err := NewBuilder(text, root(12)).
			WithOptions(BuildOptions{Workers: 8}).
			Finalize(testCatalog, stubShaper{fail: "x"})
		var le *Error
		if !errors.As(err, &le) || le.Kind != ShapingFailed || le.Start != 0 || le.End != 3 {
			t.Fatalf("应始终报告编号最小的失败 run，得到 %v", err)
		}
	}
}

func TestJustify(t *testing.T) {
	pol := DefaultPolicy()
	pol.Align, pol.BoxWidth = AlignJustify, 100
	res := finalize(t, NewBuilder("a b c\nxy", root(12)).WithLayout(pol))
	first := res.Line(0)
	if !almost(first.X, 0) || !almost(first.Width, 100) {
		t.Fatalf("首行应撑满文本框，得到 X=%v 宽度=%v", first.X, first.Width)
	}
	glyphs := first.Runs[0].Glyphs
	if last := glyphs[len(glyphs)-1]; !almost(last.X+last.Advance, 100) {
		t.Fatalf("末字形应到达右边界，得到 %v", last.X+last.Advance)
	}
	// 空白 1 的步进为 6+35
	if !almost(glyphs[1].Advance, 41) {
		t.Fatalf("空白步进不正确: %v", glyphs[1].Advance)
	}
	lastLine := res.Line(1)
	if !almost(lastLine.Width, 12) || !almost(lastLine.X, 0) {
		t.Fatalf("最后一行不应两端对齐: X=%v 宽度=%v", lastLine.X, lastLine.Width)
	}
}

func TestLineStacking(t *testing.T) {
	res := finalize(t, NewBuilder("ab\ncd", root(10)))
	if !almost(res.Line(0).Baseline, 8) || !almost(res.Line(1).Baseline, 18) {
		t.Fatalf("基线不正确: %v, %v", res.Line(0).Baseline, res.Line(1).Baseline)
	}
	if !almost(res.Height(), 20) {
		t.Fatalf("总高度应为 20，得到 %v", res.Height())
	}
	if bb := res.BBox; !almost(bb.Y, 0) || !almost(bb.Height, 20) || !almost(bb.Width, 10) {
		t.Fatalf("包围盒不正确: %+v", bb)
	}
	g := res.Line(1).Runs[0].Glyphs[0]
	if !almost(g.Y, 18) {
		t.Fatalf("字形应位于基线上，得到 y=%v", g.Y)
	}
}

func TestVerticalAlignment(t *testing.T) {
	cases := []struct {
		va    VerAlign
		first float64 // 首行基线
	}{
		{VerAlign{Kind: VerTop}, 8},
		{VerAlign{Kind: VerCenter}, -2},
		{VerAlign{Kind: VerBottom}, -12},
		{AtLine(0, LineBaseline), 0},
		{AtLine(1, LineBaseline), -10},
		{AtLine(9, LineBaseline), -10},
		{AtLine(0, LineTop), 8},
		{AtLine(0, LineBottom), -2},
		{AtLine(0, LineMiddle), 2.5},
		{AtLine(0, LineHanging), 7},
	}
	for _, c := range cases {
		pol := DefaultPolicy()
		pol.VerAlign = c.va
		res := finalize(t, NewBuilder("ab\ncd", root(10)).WithLayout(pol))
		if got := res.Line(0).Baseline; !almost(got, c.first) {
			t.Fatalf("%s: 期望首行基线 %v，得到 %v", c.va, c.first, got)
		}
		if d := res.Line(1).Baseline - res.Line(0).Baseline; !almost(d, 10) {
			t.Fatalf("%s: 行距不应改变，得到 %v", c.va, d)
		}
	}
}

func TestLineBreaks(t *testing.T) {
	res := finalize(t, NewBuilder("a\n\nb\r\nc\u2028d e\n", root(10)))
	if res.NumLines() != 5 {
		t.Fatalf("期望 5 行，得到 %d", res.NumLines())
	}
	empty := res.Line(1)
	if empty.Start != empty.End || len(empty.Runs) != 1 || !almost(empty.Metrics.Ascent, 8) {
		t.Fatalf("空行应保留根字体度量: %+v", empty)
	}
	var texts []string
	for i := range res.NumLines() {
		l := res.Line(i)
		texts = append(texts, res.Text[l.Start:l.End])
	}
	if want := []string{"a", "", "b", "c", "d e"}; !slices.Equal(texts, want) {
		t.Fatalf("期望 %q，得到 %q", want, texts)
	}
}

func TestEmptyText(t *testing.T) {
	res := finalize(t, NewBuilder("", root(12)))
	if res.NumLines() != 0 || res.Height() != 0 {
		t.Fatalf("空文本应无行: %+v", res)
	}
}

func TestRunsIterator(t *testing.T) {
	res := finalize(t, NewBuilder("ab\ncd\nef", root(10)))
	n := 0
	for line, run := range res.Runs() {
		if run.Start < line.Start || run.End > line.End {
			t.Fatalf("run 不在行内")
		}
		n++
	}
	if n != 3 {
		t.Fatalf("期望 3 个 run，得到 %d", n)
	}
}

func TestCoverageCheckDetectsOverlap(t *testing.T) {
	res := finalize(t, NewBuilder("abcd", root(10)))
	res.Lines[0].Runs = append(res.Lines[0].Runs, res.Lines[0].Runs[0])
	if err := res.CheckFlatCoverage(); err == nil {
		t.Fatalf("重复覆盖应被检测到")
	}
}

func TestGlyphClustersAreValidOffsets(t *testing.T) {
	text := "Hi مرحبا!"
	res := finalize(t, NewBuilder(text, root(10)))
	for _, run := range res.Line(0).Runs {
		for _, g := range run.Glyphs {
			if g.Cluster < run.Start || g.Cluster >= run.End || !utf8.RuneStart(text[g.Cluster]) {
				t.Fatalf("字形 cluster %d 不在 run [%d,%d) 内", g.Cluster, run.Start, run.End)
			}
		}
	}
}

func TestSizeOverrideInheritsRest(t *testing.T) {
	parsed, err := markup.Parse("[size=32]Hi[/size]")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	rootProps := root(16)
	res := finalize(t, FromMarkup(parsed, rootProps))
	runs := res.Line(0).Runs
	if len(runs) != 1 || runs[0].Start != 0 || runs[0].End != 2 {
		t.Fatalf("期望一个 [0,2) 的 run，得到 %+v", runs)
	}
	want := rootProps
	want.Size = 32
	if !reflect.DeepEqual(runs[0].Props, want) {
		t.Fatalf("样式应只覆盖字号: %+v", runs[0].Props)
	}
}

func TestAtomicBoundariesAreUnionOfCuts(t *testing.T) {
	text := "Hello עולם and مرحبا 42 end"
	spans := []style.Span{
		{Start: 3, End: 8, Override: style.Override{}.WithWeight(style.Bold)},
		{Start: 10, End: 21, Override: style.Override{}.WithSize(20)},
		{Start: 0, End: len(text), Override: style.Override{}.WithUnderline(true)},
	}
	res := finalize(t, NewBuilder(text, root(10)).AddSpans(spans...))

	want := map[int]bool{0: true}
	for _, s := range spans {
		for _, off := range []int{s.Start, s.End} {
			if off > 0 && off < len(text) {
				want[off] = true
			}
		}
	}
	for _, r := range bidi.NewAlgorithmic().VisualRuns(text, 0) {
		if r.Start > 0 {
			want[r.Start] = true
		}
	}
	got := map[int]bool{}
	for _, r := range res.Line(0).Runs {
		got[r.Start] = true
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("原子 run 起点应为样式与方向切分的并集: 期望 %v，得到 %v", want, got)
	}
}

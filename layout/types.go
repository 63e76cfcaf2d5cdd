package layout

import (
	"iter"

	"github.com/ByLCY/scroll/bidi"
	"github.com/ByLCY/scroll/style"
)

// 该文件定义排版结果，供查询、后端与调试 JSON 共用。
// 所有长度单位为 pt，坐标系 y 轴向下，锚点位于 (0, 0)。

// Metrics 是字体度量，Descent 取正值。
type Metrics struct {
	Ascent    float64 `json:"ascent"`
	Descent   float64 `json:"descent"`
	LineGap   float64 `json:"lineGap"`
	CapHeight float64 `json:"capHeight"`
	XHeight   float64 `json:"xHeight"`
}

// Height 返回 ascent + descent。
func (m Metrics) Height() float64 { return m.Ascent + m.Descent }

// Glyph 是一个已定位的字形。Cluster 为其在纯文本中的起始字节偏移。
type Glyph struct {
	ID      uint32  `json:"id"`
	Cluster int     `json:"cluster"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Advance float64 `json:"advance"`
}

// GlyphRun 是整形后端对一个原子 run 的输出，字形按从左到右的视觉顺序排列，
// X/Y 相对于 run 的起点与基线。
type GlyphRun struct {
	Glyphs  []Glyph `json:"glyphs"`
	Advance float64 `json:"advance"`
	Metrics Metrics `json:"metrics"`
}

// Rect 是轴对齐矩形。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Run 是一个已定位的原子 run：样式与方向单一。
type Run struct {
	Start     int             `json:"start"`
	End       int             `json:"end"`
	Direction bidi.Direction  `json:"direction"`
	Props     style.TextProps `json:"props"`
	Face      string          `json:"face"`
	X         float64         `json:"x"`
	Baseline  float64         `json:"baseline"`
	Advance   float64         `json:"advance"`
	Metrics   Metrics         `json:"metrics"`
	Glyphs    []Glyph         `json:"glyphs"` // 绝对坐标
}

// Line 是一行文本，Runs 按视觉顺序（从左到右）排列。
type Line struct {
	Start     int            `json:"start"`
	End       int            `json:"end"`
	Direction bidi.Direction `json:"direction"`
	X         float64        `json:"x"`
	Baseline  float64        `json:"baseline"`
	Width     float64        `json:"width"`
	Metrics   Metrics        `json:"metrics"`
	Runs      []Run          `json:"runs"`
}

// Top 返回行框上沿的 y 坐标。
func (l *Line) Top() float64 { return l.Baseline - l.Metrics.Ascent }

// Bottom 返回行框下沿的 y 坐标。
func (l *Line) Bottom() float64 { return l.Baseline + l.Metrics.Descent }

// Layout 是 Finalize 的结果，创建后不再修改，可被多个 goroutine 并发读取。
type Layout struct {
	Text        string  `json:"text"`
	Policy      Policy  `json:"policy"`
	BoxWidth    float64 `json:"width"`
	TotalHeight float64 `json:"height"`
	BBox        Rect    `json:"bbox"` // 所有字形行框的包围盒
	Lines       []Line  `json:"lines"`
}

// Width 返回文本框宽度：策略给定的宽度，或未指定时最宽行的宽度。
func (l *Layout) Width() float64 { return l.BoxWidth }

// Height 返回所有行的总高度。
func (l *Layout) Height() float64 { return l.TotalHeight }

// NumLines 返回行数。
func (l *Layout) NumLines() int { return len(l.Lines) }

// Line 返回第 i 行。
func (l *Layout) Line(i int) *Line { return &l.Lines[i] }

// Runs 依次产出每行的每个 run（视觉顺序）。
func (l *Layout) Runs() iter.Seq2[*Line, *Run] {
	return func(yield func(*Line, *Run) bool) {
		for i := range l.Lines {
			line := &l.Lines[i]
			for j := range line.Runs {
				if !yield(line, &line.Runs[j]) {
					return
				}
			}
		}
	}
}

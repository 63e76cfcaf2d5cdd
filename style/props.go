package style

import (
	"fmt"
	"slices"
	"strings"
)

// Weight 是 CSS 风格的字重，取值 1..1000，常用值为 100 的整数倍。
type Weight uint16

const (
	Thin       Weight = 100
	ExtraLight Weight = 200
	Light      Weight = 300
	Normal     Weight = 400
	Medium     Weight = 500
	SemiBold   Weight = 600
	Bold       Weight = 700
	ExtraBold  Weight = 800
	Black      Weight = 900
)

func (w Weight) String() string {
	switch w {
	case Thin:
		return "thin"
	case ExtraLight:
		return "extra-light"
	case Light:
		return "light"
	case Normal:
		return "normal"
	case Medium:
		return "medium"
	case SemiBold:
		return "semi-bold"
	case Bold:
		return "bold"
	case ExtraBold:
		return "extra-bold"
	case Black:
		return "black"
	}
	return fmt.Sprintf("%d", uint16(w))
}

// FontStyle 区分正体、斜体与倾斜体。
type FontStyle uint8

const (
	Upright FontStyle = iota
	Italic
	Oblique
)

func (s FontStyle) String() string {
	switch s {
	case Italic:
		return "italic"
	case Oblique:
		return "oblique"
	default:
		return "normal"
	}
}

// Width 是字宽（font-stretch），1 为最窄，9 为最宽，5 为常规。
type Width uint8

const (
	UltraCondensed Width = iota + 1
	ExtraCondensed
	Condensed
	SemiCondensed
	NormalWidth
	SemiExpanded
	Expanded
	ExtraExpanded
	UltraExpanded
)

var widthLabels = [...]string{
	"", "ultra-condensed", "extra-condensed", "condensed", "semi-condensed",
	"normal", "semi-expanded", "expanded", "extra-expanded", "ultra-expanded",
}

func (w Width) String() string {
	if int(w) < len(widthLabels) && w > 0 {
		return widthLabels[w]
	}
	return "normal"
}

// Font 描述字体选择条件：按顺序回退的字体族列表以及字重、字形和字宽。
type Font struct {
	Families []string  `json:"families"`
	Weight   Weight    `json:"weight"`
	Style    FontStyle `json:"style"`
	Width    Width     `json:"width"`
}

// Key 返回可用于缓存的稳定字符串。
func (f Font) Key() string {
	return fmt.Sprintf("%s|%d|%d|%d", strings.Join(f.Families, ","), f.Weight, f.Style, f.Width)
}

// TextProps 是一个 run 完全解析后的样式。
type TextProps struct {
	Font      Font    `json:"font"`
	Size      float64 `json:"size"` // pt
	Fill      Color   `json:"fill"`
	Stroke    *Color  `json:"stroke,omitempty"`
	Underline bool    `json:"underline,omitempty"`
	Strikeout bool    `json:"strikeout,omitempty"`
}

// Default 返回根样式的缺省值：12pt 常规黑色 sans-serif。
func Default() TextProps {
	return TextProps{
		Font: Font{
			Families: []string{"sans-serif"},
			Weight:   Normal,
			Style:    Upright,
			Width:    NormalWidth,
		},
		Size: 12,
		Fill: Color{A: 255},
	}
}

// Apply 返回以 o 覆盖后的新样式，o 未设置的字段保持继承值。
func (p TextProps) Apply(o Override) TextProps {
	out := p
	if o.Families != nil {
		out.Font.Families = slices.Clone(o.Families)
	}
	if o.Weight != nil {
		out.Font.Weight = *o.Weight
	}
	if o.Style != nil {
		out.Font.Style = *o.Style
	}
	if o.Width != nil {
		out.Font.Width = *o.Width
	}
	if o.Size != nil {
		out.Size = *o.Size
	}
	if o.Fill != nil {
		out.Fill = *o.Fill
	}
	if o.Stroke != nil {
		c := *o.Stroke
		out.Stroke = &c
	}
	if o.Underline != nil {
		out.Underline = *o.Underline
	}
	if o.Strikeout != nil {
		out.Strikeout = *o.Strikeout
	}
	return out
}

// Override 是部分样式，nil 字段表示不覆盖。
type Override struct {
	Families  []string   `json:"families,omitempty"`
	Weight    *Weight    `json:"weight,omitempty"`
	Style     *FontStyle `json:"style,omitempty"`
	Width     *Width     `json:"width,omitempty"`
	Size      *float64   `json:"size,omitempty"`
	Fill      *Color     `json:"fill,omitempty"`
	Stroke    *Color     `json:"stroke,omitempty"`
	Underline *bool      `json:"underline,omitempty"`
	Strikeout *bool      `json:"strikeout,omitempty"`
}

func (o Override) WithFamilies(families ...string) Override {
	o.Families = slices.Clone(families)
	return o
}

func (o Override) WithWeight(w Weight) Override { o.Weight = &w; return o }

func (o Override) WithStyle(s FontStyle) Override { o.Style = &s; return o }

func (o Override) WithWidth(w Width) Override { o.Width = &w; return o }

func (o Override) WithSize(size float64) Override { o.Size = &size; return o }

func (o Override) WithFill(c Color) Override { o.Fill = &c; return o }

func (o Override) WithStroke(c Color) Override { o.Stroke = &c; return o }

func (o Override) WithUnderline(v bool) Override { o.Underline = &v; return o }

func (o Override) WithStrikeout(v bool) Override { o.Strikeout = &v; return o }

// Merge 返回 o 与 later 的合并结果，later 中设置的字段优先。
func (o Override) Merge(later Override) Override {
	if later.Families != nil {
		o.Families = slices.Clone(later.Families)
	}
	if later.Weight != nil {
		o.Weight = later.Weight
	}
	if later.Style != nil {
		o.Style = later.Style
	}
	if later.Width != nil {
		o.Width = later.Width
	}
	if later.Size != nil {
		o.Size = later.Size
	}
	if later.Fill != nil {
		o.Fill = later.Fill
	}
	if later.Stroke != nil {
		o.Stroke = later.Stroke
	}
	if later.Underline != nil {
		o.Underline = later.Underline
	}
	if later.Strikeout != nil {
		o.Strikeout = later.Strikeout
	}
	return o
}

// Span 是作用于纯文本 [Start, End) 字节区间的样式覆盖。
type Span struct {
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Override Override `json:"override"`
}

// Covers 报告 span 是否完整覆盖 [start, end)。
func (s Span) Covers(start, end int) bool {
	return s.Start <= start && end <= s.End && s.Start < s.End
}

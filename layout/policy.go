package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Direction 是排版方向策略。
type Direction int

const (
	DirAuto    Direction = iota // 按内容检测，无强方向字符时为 LTR
	DirAutoLTR                  // 双向算法，段落基础方向为 LTR
	DirAutoRTL                  // 双向算法，段落基础方向为 RTL
	DirLTR                      // 强制 LTR，不做双向分析
	DirRTL                      // 强制 RTL，不做双向分析
)

var directionNames = [...]string{"auto", "auto-ltr", "auto-rtl", "ltr", "rtl"}

func (d Direction) String() string {
	if d >= 0 && int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "auto"
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// ParseDirection 规范化方向字符串。
func ParseDirection(v string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "auto":
		return DirAuto, nil
	case "auto-ltr", "autoltr":
		return DirAutoLTR, nil
	case "auto-rtl", "autortl":
		return DirAutoRTL, nil
	case "ltr", "left-to-right":
		return DirLTR, nil
	case "rtl", "right-to-left":
		return DirRTL, nil
	}
	return DirAuto, fmt.Errorf("未知的排版方向 %q", v)
}

// Align 是行内水平对齐方式。Start/End 随行的主方向变化，Left/Right 不随方向变化。
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignLeft
	AlignRight
	AlignJustify
)

var alignNames = [...]string{"start", "center", "end", "left", "right", "justify"}

func (a Align) String() string {
	if a >= 0 && int(a) < len(alignNames) {
		return alignNames[a]
	}
	return "start"
}

func (a Align) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// ParseAlign 规范化对齐字符串。
func ParseAlign(v string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "start":
		return AlignStart, nil
	case "center", "middle":
		return AlignCenter, nil
	case "end":
		return AlignEnd, nil
	case "left":
		return AlignLeft, nil
	case "right":
		return AlignRight, nil
	case "justify", "justified":
		return AlignJustify, nil
	}
	return AlignStart, fmt.Errorf("未知的对齐方式 %q", v)
}

// VerAlignKind 区分整块对齐与按某一行对齐。
type VerAlignKind int

const (
	VerTop VerAlignKind = iota
	VerCenter
	VerBottom
	VerLine
)

// LineAlign 选择按行对齐时该行上的参考线。
type LineAlign int

const (
	LineBaseline LineAlign = iota
	LineTop
	LineBottom
	LineMiddle  // 基线之上 x-height 的一半
	LineHanging // 基线之上 cap-height
)

var lineAlignNames = [...]string{"baseline", "top", "bottom", "middle", "hanging"}

func (a LineAlign) String() string {
	if a >= 0 && int(a) < len(lineAlignNames) {
		return lineAlignNames[a]
	}
	return "baseline"
}

// VerAlign 是文本块相对锚点的垂直对齐方式。
type VerAlign struct {
	Kind      VerAlignKind
	Line      int
	LineAlign LineAlign
}

// AtLine 返回把第 line 行的参考线对齐到锚点的垂直对齐方式。
func AtLine(line int, align LineAlign) VerAlign {
	return VerAlign{Kind: VerLine, Line: line, LineAlign: align}
}

func (v VerAlign) String() string {
	switch v.Kind {
	case VerCenter:
		return "center"
	case VerBottom:
		return "bottom"
	case VerLine:
		return fmt.Sprintf("line:%d:%s", v.Line, v.LineAlign)
	}
	return "top"
}

func (v VerAlign) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// ParseVerAlign 接受 top、center、bottom、baseline（即 line:0:baseline）
// 以及 line:<行号>[:<baseline|top|bottom|middle|hanging>]。
func ParseVerAlign(v string) (VerAlign, error) {
	s := strings.ToLower(strings.TrimSpace(v))
	switch s {
	case "", "top":
		return VerAlign{Kind: VerTop}, nil
	case "center", "middle":
		return VerAlign{Kind: VerCenter}, nil
	case "bottom":
		return VerAlign{Kind: VerBottom}, nil
	case "baseline":
		return AtLine(0, LineBaseline), nil
	}
	parts := strings.Split(s, ":")
	if parts[0] != "line" || len(parts) < 2 || len(parts) > 3 {
		return VerAlign{}, fmt.Errorf("未知的垂直对齐方式 %q", v)
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 {
		return VerAlign{}, fmt.Errorf("垂直对齐的行号无效 %q", v)
	}
	align := LineBaseline
	if len(parts) == 3 {
		found := false
		for i, name := range lineAlignNames {
			if name == parts[2] {
				align, found = LineAlign(i), true
				break
			}
		}
		if !found {
			return VerAlign{}, fmt.Errorf("未知的行对齐参考线 %q", parts[2])
		}
	}
	return AtLine(idx, align), nil
}

// Policy 汇总排版策略。BoxWidth<=0 时以最宽行作为文本框宽度。
type Policy struct {
	Direction Direction `json:"direction"`
	Align     Align     `json:"align"`
	VerAlign  VerAlign  `json:"verAlign"`
	BoxWidth  float64   `json:"boxWidth"`
}

// DefaultPolicy 返回 Auto 方向、Start 对齐、顶部对齐的策略。
func DefaultPolicy() Policy {
	return Policy{Direction: DirAuto, Align: AlignStart, VerAlign: VerAlign{Kind: VerTop}}
}

package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color 是 8 位 RGBA 颜色。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGBA 实现 image/color.Color，返回预乘 alpha 的分量。
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A) * 0x101
	r = uint32(c.R) * 0x101 * a / 0xffff
	g = uint32(c.G) * 0x101 * a / 0xffff
	b = uint32(c.B) * 0x101 * a / 0xffff
	return
}

// Hex 返回 #rrggbb 或 #rrggbbaa（非不透明时）。
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) String() string { return c.Hex() }

// ParseColor 解析 #rgb、#rrggbb、#rrggbbaa、CSS 颜色名以及 transparent。
func ParseColor(value string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Color{}, fmt.Errorf("颜色不能为空")
	}
	if v == "transparent" || v == "none" {
		return Color{}, nil
	}
	if strings.HasPrefix(v, "#") {
		return parseHexColor(v)
	}
	if named, ok := colornames.Map[v]; ok {
		return Color{R: named.R, G: named.G, B: named.B, A: named.A}, nil
	}
	return Color{}, fmt.Errorf("无法识别的颜色 %q", value)
}

func parseHexColor(v string) (Color, error) {
	alpha := uint8(255)
	switch len(v) {
	case 4, 7:
	case 9:
		a, err := strconv.ParseUint(v[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("无效的颜色 alpha %q: %w", v, err)
		}
		alpha = uint8(a)
		v = v[:7]
	default:
		return Color{}, fmt.Errorf("无效的十六进制颜色 %q", v)
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return Color{}, fmt.Errorf("无效的十六进制颜色 %q: %w", v, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: alpha}, nil
}

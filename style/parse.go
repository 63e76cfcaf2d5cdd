package style

import (
	"fmt"
	"strconv"
	"strings"
)

var weightNames = map[string]Weight{
	"thin":        Thin,
	"hairline":    Thin,
	"extra-light": ExtraLight,
	"extralight":  ExtraLight,
	"ultra-light": ExtraLight,
	"light":       Light,
	"normal":      Normal,
	"regular":     Normal,
	"medium":      Medium,
	"semi-bold":   SemiBold,
	"semibold":    SemiBold,
	"demi-bold":   SemiBold,
	"bold":        Bold,
	"extra-bold":  ExtraBold,
	"extrabold":   ExtraBold,
	"ultra-bold":  ExtraBold,
	"black":       Black,
	"heavy":       Black,
}

var widthNames = map[string]Width{
	"ultra-condensed": UltraCondensed,
	"extra-condensed": ExtraCondensed,
	"condensed":       Condensed,
	"semi-condensed":  SemiCondensed,
	"normal":          NormalWidth,
	"semi-expanded":   SemiExpanded,
	"expanded":        Expanded,
	"extra-expanded":  ExtraExpanded,
	"ultra-expanded":  UltraExpanded,
}

// LookupWeight 按名称查找字重，不接受数字。
func LookupWeight(name string) (Weight, bool) {
	w, ok := weightNames[strings.ToLower(strings.TrimSpace(name))]
	return w, ok
}

// LookupWidth 按名称查找字宽。
func LookupWidth(name string) (Width, bool) {
	w, ok := widthNames[strings.ToLower(strings.TrimSpace(name))]
	return w, ok
}

// ParseWeight 接受名称（bold、semi-bold…）或 1..1000 的数字。
func ParseWeight(value string) (Weight, error) {
	if w, ok := LookupWeight(value); ok {
		return w, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("无法识别的字重 %q", value)
	}
	if n < 1 || n > 1000 {
		return 0, fmt.Errorf("字重 %d 超出范围 1..1000", n)
	}
	return Weight(n), nil
}

// ParseStyle 接受 normal、italic、oblique。
func ParseStyle(value string) (FontStyle, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "normal", "upright", "roman":
		return Upright, nil
	case "italic":
		return Italic, nil
	case "oblique":
		return Oblique, nil
	}
	return Upright, fmt.Errorf("无法识别的字形 %q", value)
}

// ParseWidth 接受字宽名称或 1..9 的数字。
func ParseWidth(value string) (Width, error) {
	if w, ok := LookupWidth(value); ok {
		return w, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < int(UltraCondensed) || n > int(UltraExpanded) {
		return 0, fmt.Errorf("无法识别的字宽 %q", value)
	}
	return Width(n), nil
}

// ParseFamilies 将逗号分隔的字体族列表拆开，去掉引号与空白。
func ParseFamilies(value string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(value, ",") {
		name := strings.TrimSpace(part)
		name = strings.Trim(name, `"'`)
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("字体族列表 %q 含空项", value)
		}
		out = append(out, name)
	}
	return out, nil
}

package markup

import (
	"fmt"
	"strings"

	"github.com/ByLCY/scroll/style"
)

// Canonical names of valued attributes.
const (
	attrSize   = "size"
	attrFamily = "family"
	attrWeight = "weight"
	attrStyle  = "style"
	attrWidth  = "width"
	attrFill   = "fill"
	attrStroke = "stroke"
)

var attrAliases = map[string]string{
	"font-size":    attrSize,
	"size":         attrSize,
	"sz":           attrSize,
	"font-family":  attrFamily,
	"family":       attrFamily,
	"font":         attrFamily,
	"ff":           attrFamily,
	"font-weight":  attrWeight,
	"weight":       attrWeight,
	"fw":           attrWeight,
	"font-style":   attrStyle,
	"style":        attrStyle,
	"fs":           attrStyle,
	"font-width":   attrWidth,
	"width":        attrWidth,
	"font-stretch": attrWidth,
	"stretch":      attrWidth,
	"color":        attrFill,
	"fill":         attrFill,
	"outline":      attrStroke,
	"stroke":       attrStroke,
}

var classAliases = map[string]string{
	"b":          "bold",
	"i":          "italic",
	"u":          "underline",
	"s":          "strikeout",
	"extrabold":  "extra-bold",
	"extralight": "extra-light",
	"semibold":   "semi-bold",
}

// Classes maps user-defined class names to their overrides.
type Classes map[string]style.Override

// canonicalName maps an attribute or class name to the name used for
// matching open and close tags.
func canonicalName(name string, classes Classes) string {
	if _, ok := classes[name]; ok {
		return name
	}
	lower := strings.ToLower(name)
	if c, ok := attrAliases[lower]; ok {
		return c
	}
	if c, ok := classAliases[lower]; ok {
		return c
	}
	return lower
}

// valuedAttr turns name=value into an override.
func valuedAttr(name, value string) (string, style.Override, error) {
	var o style.Override
	canon, ok := attrAliases[strings.ToLower(name)]
	if !ok {
		return "", o, fmt.Errorf("unknown attribute %q", name)
	}
	var err error
	switch canon {
	case attrSize:
		var size float64
		if size, err = style.ParseSize(value); err == nil {
			o = o.WithSize(size)
		}
	case attrFamily:
		var families []string
		if families, err = style.ParseFamilies(value); err == nil {
			o = o.WithFamilies(families...)
		}
	case attrWeight:
		var w style.Weight
		if w, err = style.ParseWeight(value); err == nil {
			o = o.WithWeight(w)
		}
	case attrStyle:
		var fs style.FontStyle
		if fs, err = style.ParseStyle(value); err == nil {
			o = o.WithStyle(fs)
		}
	case attrWidth:
		var w style.Width
		if w, err = style.ParseWidth(value); err == nil {
			o = o.WithWidth(w)
		}
	case attrFill:
		var c style.Color
		if c, err = style.ParseColor(value); err == nil {
			o = o.WithFill(c)
		}
	case attrStroke:
		var c style.Color
		if c, err = style.ParseColor(value); err == nil {
			o = o.WithStroke(c)
		}
	}
	if err != nil {
		return "", o, fmt.Errorf("%s=%s: %w", name, value, err)
	}
	return canon, o, nil
}

// classAttr resolves a value-less attribute to the tag kinds it opens and
// its override. User classes take precedence over built-in ones; anything
// else must be a colour, which sets the fill.
func classAttr(name string, classes Classes) ([]string, style.Override, bool) {
	if o, ok := classes[name]; ok {
		return []string{name}, o, true
	}
	canon := canonicalName(name, nil)
	var o style.Override
	if w, ok := style.LookupWeight(canon); ok && canon != "normal" && canon != "regular" {
		return []string{canon}, o.WithWeight(w), true
	}
	if w, ok := style.LookupWidth(canon); ok && canon != "normal" {
		return []string{canon}, o.WithWidth(w), true
	}
	switch canon {
	case "italic":
		return []string{canon}, o.WithStyle(style.Italic), true
	case "oblique":
		return []string{canon}, o.WithStyle(style.Oblique), true
	case "normal", "regular":
		return []string{canon}, o.WithWeight(style.Normal).WithStyle(style.Upright).WithWidth(style.NormalWidth), true
	case "underline":
		return []string{canon}, o.WithUnderline(true), true
	case "strikeout":
		return []string{canon}, o.WithStrikeout(true), true
	}
	if c, err := style.ParseColor(canon); err == nil {
		return []string{canon, attrFill}, o.WithFill(c), true
	}
	return nil, o, false
}

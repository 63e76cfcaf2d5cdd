// Package fonts 提供内置字体，使 canvas 后端在没有系统字体时也能工作。
package fonts

import (
	"fmt"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/scroll/style"
)

// Face 是一个内置字体文件及其样式。
type Face struct {
	Name   string // 如 "Go-Bold"，可用 "embed:Go-Bold" 引用
	Family string
	Weight style.Weight
	Style  style.FontStyle
	Data   []byte
}

var bundled = []Face{
	{"Go-Regular", "Go", style.Normal, style.Upright, goregular.TTF},
	{"Go-Bold", "Go", style.Bold, style.Upright, gobold.TTF},
	{"Go-Italic", "Go", style.Normal, style.Italic, goitalic.TTF},
	{"Go-BoldItalic", "Go", style.Bold, style.Italic, gobolditalic.TTF},
	{"Go-Mono", "Go Mono", style.Normal, style.Upright, gomono.TTF},
	{"Go-Mono-Bold", "Go Mono", style.Bold, style.Upright, gomonobold.TTF},
	{"LMRoman10-Regular", "Latin Modern Roman", style.Normal, style.Upright, lmroman10regular.TTF},
	{"LMRoman10-Bold", "Latin Modern Roman", style.Bold, style.Upright, lmroman10bold.TTF},
	{"LMRoman10-Italic", "Latin Modern Roman", style.Normal, style.Italic, lmroman10italic.TTF},
	{"LMRoman10-BoldItalic", "Latin Modern Roman", style.Bold, style.Italic, lmroman10bolditalic.TTF},
}

// generic 将 CSS 通用字体族映射到内置字体族。
var generic = map[string]string{
	"sans-serif": "Go",
	"sans":       "Go",
	"system-ui":  "Go",
	"serif":      "Latin Modern Roman",
	"monospace":  "Go Mono",
	"mono":       "Go Mono",
}

// Bundled 返回所有内置字体。
func Bundled() []Face {
	out := make([]Face, len(bundled))
	copy(out, bundled)
	return out
}

// Generic 返回通用字体族名对应的内置字体族。
func Generic(name string) (string, bool) {
	fam, ok := generic[strings.ToLower(strings.TrimSpace(name))]
	return fam, ok
}

// Load 返回内置字体的字节数据，name 可写为 "embed:Go-Regular" 或直接 "Go-Regular"。
func Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "embed:")
	for _, f := range bundled {
		if strings.EqualFold(f.Name, name) {
			return f.Data, nil
		}
	}
	return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
}

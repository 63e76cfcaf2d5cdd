package canvasbackend

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/scroll/fonts"
	"github.com/ByLCY/scroll/layout"
	"github.com/ByLCY/scroll/style"
)

// Options configures the font catalog.
type Options struct {
	BaseDir   string     // 相对字体路径的根目录
	Fonts     []Resource // 额外注册的字体
	NoBundled bool       // 不注册 fonts 包中的内置字体
}

// Resource can be provided either by Bytes or by Path.
// Path 以 "embed:" 开头时指内置字体，如 "embed:Go-Bold"。
type Resource struct {
	Family string
	Style  string // 如 "regular"、"bold"、"semibold italic"
	Bytes  []byte
	Path   string
}

// Catalog maps family names to loaded canvas font families.
type Catalog struct {
	baseDir string

	mu       sync.Mutex
	families map[string]*familyEntry // 键为小写族名
}

var _ layout.FontCatalog = (*Catalog)(nil)

type familyEntry struct {
	name   string
	family *canvas.FontFamily
	styles []canvas.FontStyle

	// canvas 的字体面不保证并发安全，同族的测量串行进行
	measure sync.Mutex
}

// Face is a resolved family plus one of its loaded styles.
type Face struct {
	entry *familyEntry
	style canvas.FontStyle
}

// Name 返回形如 "Go Bold Italic" 的字体面名称。
func (f *Face) Name() string {
	return f.entry.name + " " + styleName(f.style)
}

// NewCatalog creates a catalog with the bundled fonts plus opts.Fonts.
func NewCatalog(opts Options) (*Catalog, error) {
	c := &Catalog{baseDir: opts.BaseDir, families: map[string]*familyEntry{}}
	if !opts.NoBundled {
		for _, f := range fonts.Bundled() {
			st := toCanvasStyle(f.Weight, f.Style)
			if err := c.load(f.Family, f.Data, st); err != nil {
				return nil, fmt.Errorf("加载内置字体 %s 失败: %w", f.Name, err)
			}
		}
	}
	for _, res := range opts.Fonts {
		if err := c.Register(res); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register loads one font file into its family.
func (c *Catalog) Register(res Resource) error {
	if strings.TrimSpace(res.Family) == "" {
		return fmt.Errorf("字体缺少 family")
	}
	data, err := c.loadFontBytes(res)
	if err != nil {
		return err
	}
	if err := c.load(res.Family, data, parseFontStyle(res.Style)); err != nil {
		return fmt.Errorf("加载字体 %s (%s) 失败: %w", res.Family, res.Style, err)
	}
	return nil
}

func (c *Catalog) load(name string, data []byte, st canvas.FontStyle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := strings.ToLower(strings.TrimSpace(name))
	entry, ok := c.families[key]
	if !ok {
		entry = &familyEntry{name: strings.TrimSpace(name), family: canvas.NewFontFamily(name)}
	}
	if slices.Contains(entry.styles, st) {
		return fmt.Errorf("样式 %s 已注册", styleName(st))
	}
	if err := entry.family.LoadFont(data, 0, st); err != nil {
		return err
	}
	entry.styles = append(entry.styles, st)
	c.families[key] = entry
	return nil
}

func (c *Catalog) loadFontBytes(res Resource) ([]byte, error) {
	if len(res.Bytes) > 0 {
		return res.Bytes, nil
	}
	if res.Path == "" {
		return nil, fmt.Errorf("字体 %s 缺少数据或路径", res.Family)
	}
	if strings.HasPrefix(res.Path, "embed:") {
		return fonts.Load(res.Path)
	}
	path := res.Path
	if !filepath.IsAbs(path) && c.baseDir != "" {
		path = filepath.Join(c.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return data, nil
}

// Families 返回已注册的族名（按字母排序）。
func (c *Catalog) Families() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.families))
	for _, e := range c.families {
		out = append(out, e.name)
	}
	slices.Sort(out)
	return out
}

// Resolve walks the fallback list and returns the first family that is
// registered, choosing the loaded style nearest to the requested one.
// Generic names (serif, sans-serif, monospace) map to bundled families
// unless a family of that name was registered explicitly.
func (c *Catalog) Resolve(font style.Font) (layout.FontFace, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range font.Families {
		key := strings.ToLower(strings.TrimSpace(name))
		entry, ok := c.families[key]
		if !ok {
			if fam, isGeneric := fonts.Generic(key); isGeneric {
				entry, ok = c.families[strings.ToLower(fam)]
			}
		}
		if !ok || len(entry.styles) == 0 {
			continue
		}
		return &Face{entry: entry, style: nearestStyle(entry.styles, font)}, true
	}
	return nil, false
}

// nearestStyle 先匹配倾斜与否，再取字重最接近者；距离相同时取先注册的样式。
func nearestStyle(styles []canvas.FontStyle, font style.Font) canvas.FontStyle {
	wantItalic := font.Style != style.Upright
	best, bestScore := styles[0], -1
	for _, st := range styles {
		score := abs(int(weightOf(st)) - int(font.Weight))
		if (st&canvas.FontItalic != 0) != wantItalic {
			score += 10000
		}
		if bestScore < 0 || score < bestScore {
			best, bestScore = st, score
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func toCanvasStyle(w style.Weight, s style.FontStyle) canvas.FontStyle {
	var result canvas.FontStyle
	switch {
	case w >= style.Black:
		result = canvas.FontBlack
	case w >= style.ExtraBold:
		result = canvas.FontExtraBold
	case w >= style.Bold:
		result = canvas.FontBold
	case w >= style.SemiBold:
		result = canvas.FontSemiBold
	case w >= style.Medium:
		result = canvas.FontMedium
	case w <= style.Light:
		result = canvas.FontLight
	default:
		result = canvas.FontRegular
	}
	if s != style.Upright {
		result |= canvas.FontItalic
	}
	return result
}

func weightOf(st canvas.FontStyle) style.Weight {
	switch st &^ canvas.FontItalic {
	case canvas.FontBlack:
		return style.Black
	case canvas.FontExtraBold:
		return style.ExtraBold
	case canvas.FontBold:
		return style.Bold
	case canvas.FontSemiBold:
		return style.SemiBold
	case canvas.FontMedium:
		return style.Medium
	case canvas.FontLight:
		return style.Light
	}
	return style.Normal
}

func styleName(st canvas.FontStyle) string {
	name := "Regular"
	switch st &^ canvas.FontItalic {
	case canvas.FontBlack:
		name = "Black"
	case canvas.FontExtraBold:
		name = "ExtraBold"
	case canvas.FontBold:
		name = "Bold"
	case canvas.FontSemiBold:
		name = "SemiBold"
	case canvas.FontMedium:
		name = "Medium"
	case canvas.FontLight:
		name = "Light"
	}
	if st&canvas.FontItalic != 0 {
		if name == "Regular" {
			return "Italic"
		}
		return name + " Italic"
	}
	return name
}

// parseFontStyle 解析 "bold italic"、"Semi-Bold Oblique" 这类样式描述。
func parseFontStyle(desc string) canvas.FontStyle {
	s := strings.ReplaceAll(strings.ToLower(desc), "-", "")
	w := style.Normal
	for _, field := range strings.Fields(strings.ReplaceAll(s, "_", " ")) {
		if field == "demibold" {
			field = "semibold"
		}
		if v, ok := style.LookupWeight(field); ok {
			w = v
		}
	}
	st := style.Upright
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		st = style.Italic
	}
	return toCanvasStyle(w, st)
}

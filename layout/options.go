package layout

import (
	"github.com/ByLCY/scroll/bidi"
	"github.com/ByLCY/scroll/style"
)

// BuildOptions 配置 Finalize 阶段的执行方式。
type BuildOptions struct {
	Workers int // 并发整形的最大 goroutine 数，<=0 时按 GOMAXPROCS
	Debug   DebugOptions
}

// DebugOptions 控制调试相关检查。
type DebugOptions struct {
	CheckCoverage bool // Finalize 结束前校验每行 run 恰好覆盖一次
}

// FontFace 是字体目录解析出的字体句柄。
type FontFace interface {
	Name() string
}

// FontCatalog 按字体族回退列表查找字体；找不到任何一个族时返回 false。
type FontCatalog interface {
	Resolve(font style.Font) (FontFace, bool)
}

// ShapeRequest 描述一次整形请求：Text 为原子 run 的文本，Start 为其在纯文本中的偏移。
type ShapeRequest struct {
	Text      string
	Start     int
	Face      FontFace
	Size      float64
	Direction bidi.Direction
}

// Shaper 负责把一个样式与方向单一的文本片段转换为字形与步进。
// 实现需要支持并发调用。
type Shaper interface {
	Shape(req ShapeRequest) (*GlyphRun, error)
}

package canvasbackend

import (
	"context"
	"fmt"
	"math"
	"slices"

	pool "github.com/jolestar/go-commons-pool"
	"github.com/rivo/uniseg"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/scroll/bidi"
	"github.com/ByLCY/scroll/layout"
	"github.com/ByLCY/scroll/style"
)

// Shaper measures grapheme clusters with canvas font faces.
// 每个字素簇生成一个字形，不做连字与字距调整。
type Shaper struct {
	ctx   context.Context
	opool *pool.ObjectPool
}

var _ layout.Shaper = (*Shaper)(nil)

// glyphBuffer 是整形时的临时字形切片，放入对象池复用。
type glyphBuffer struct {
	glyphs []layout.Glyph
}

// NewShaper creates a shaper with its own scratch buffer pool.
func NewShaper() *Shaper {
	factory := pool.NewPooledObjectFactorySimple(
		func(context.Context) (interface{}, error) {
			return &glyphBuffer{glyphs: make([]layout.Glyph, 0, 64)}, nil
		})
	config := pool.NewDefaultPoolConfig()
	config.MaxTotal = -1 // infinity
	config.BlockWhenExhausted = false
	ctx := context.Background()
	return &Shaper{ctx: ctx, opool: pool.NewObjectPool(ctx, factory, config)}
}

func (s *Shaper) borrow() *glyphBuffer {
	o, err := s.opool.BorrowObject(s.ctx)
	if err != nil {
		return &glyphBuffer{}
	}
	return o.(*glyphBuffer)
}

func (s *Shaper) release(buf *glyphBuffer) {
	buf.glyphs = buf.glyphs[:0]
	_ = s.opool.ReturnObject(s.ctx, buf)
}

// Shape implements layout.Shaper. Glyphs come out left to right, so RTL
// runs list their clusters in reverse logical order.
func (s *Shaper) Shape(req layout.ShapeRequest) (*layout.GlyphRun, error) {
	face, ok := req.Face.(*Face)
	if !ok || face == nil {
		return nil, fmt.Errorf("canvas 后端无法使用字体 %T", req.Face)
	}
	if !(req.Size > 0) || math.IsInf(req.Size, 0) {
		return nil, fmt.Errorf("字号无效: %v", req.Size)
	}

	buf := s.borrow()
	defer s.release(buf)

	e := face.entry
	e.measure.Lock()
	ff := e.family.Face(req.Size, canvas.Black, face.style, canvas.FontNormal)
	g := uniseg.NewGraphemes(req.Text)
	for g.Next() {
		from, _ := g.Positions()
		runes := g.Runes()
		buf.glyphs = append(buf.glyphs, layout.Glyph{
			ID:      uint32(ff.Font.GlyphIndex(runes[0])),
			Cluster: req.Start + from,
			Advance: toPt(ff.TextWidth(g.Str())),
		})
	}
	m := ff.Metrics()
	e.measure.Unlock()

	if req.Direction == bidi.RightToLeft {
		slices.Reverse(buf.glyphs)
	}
	run := &layout.GlyphRun{
		Glyphs: make([]layout.Glyph, len(buf.glyphs)),
		Metrics: layout.Metrics{
			Ascent:    toPt(m.Ascent),
			Descent:   toPt(math.Abs(m.Descent)),
			LineGap:   toPt(m.LineGap),
			CapHeight: toPt(m.CapHeight),
			XHeight:   toPt(m.XHeight),
		},
	}
	x := 0.0
	for i, gl := range buf.glyphs {
		gl.X = x
		x += gl.Advance
		run.Glyphs[i] = gl
	}
	run.Advance = x
	return run, nil
}

// toPt 将 canvas 返回的毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * style.MmToPt }

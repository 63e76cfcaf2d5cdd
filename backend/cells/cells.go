// Package cells is a deterministic fixed-pitch font backend. Every terminal
// cell is 0.6 em wide; wide East Asian characters take two cells and
// combining marks none. Metrics are fixed fractions of the font size.
//
// It needs no font files, which makes it useful for tests and for layouts
// that only care about relative geometry.
package cells

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/ByLCY/scroll/bidi"
	"github.com/ByLCY/scroll/layout"
	"github.com/ByLCY/scroll/style"
)

// CellWidth is the advance of one cell, in em.
const CellWidth = 0.6

// Face is a named fixed-pitch face.
type Face struct {
	family string
	weight style.Weight
	style  style.FontStyle
}

func (f Face) Name() string {
	name := f.family + " " + f.weight.String()
	if f.style != style.Upright {
		name += " " + f.style.String()
	}
	return name
}

// Catalog resolves any family from its list, or only the listed ones when
// constructed with NewCatalog(families...).
type Catalog struct {
	families []string
}

var _ layout.FontCatalog = (*Catalog)(nil)

// NewCatalog returns a catalog that knows the given families. Without
// arguments every family resolves.
func NewCatalog(families ...string) *Catalog {
	c := &Catalog{}
	for _, f := range families {
		c.families = append(c.families, strings.ToLower(strings.TrimSpace(f)))
	}
	return c
}

func (c *Catalog) Resolve(font style.Font) (layout.FontFace, bool) {
	for _, fam := range font.Families {
		if len(c.families) == 0 || slices.Contains(c.families, strings.ToLower(strings.TrimSpace(fam))) {
			return Face{family: fam, weight: font.Weight, style: font.Style}, true
		}
	}
	return nil, false
}

// Shaper measures grapheme clusters in cells.
type Shaper struct {
	cond *runewidth.Condition
}

var _ layout.Shaper = (*Shaper)(nil)

// NewShaper creates a shaper. Ambiguous-width characters count as one cell.
func NewShaper() *Shaper {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	return &Shaper{cond: cond}
}

func (s *Shaper) Shape(req layout.ShapeRequest) (*layout.GlyphRun, error) {
	if _, ok := req.Face.(Face); !ok {
		return nil, fmt.Errorf("cells backend cannot use face %T", req.Face)
	}
	if !(req.Size > 0) {
		return nil, fmt.Errorf("invalid font size %v", req.Size)
	}
	em := req.Size
	var glyphs []layout.Glyph
	g := uniseg.NewGraphemes(req.Text)
	for g.Next() {
		from, _ := g.Positions()
		runes := g.Runes()
		glyphs = append(glyphs, layout.Glyph{
			ID:      uint32(runes[0]),
			Cluster: req.Start + from,
			Advance: float64(s.cells(g.Str())) * CellWidth * em,
		})
	}
	if req.Direction == bidi.RightToLeft {
		slices.Reverse(glyphs)
	}
	x := 0.0
	for i := range glyphs {
		glyphs[i].X = x
		x += glyphs[i].Advance
	}
	return &layout.GlyphRun{
		Glyphs:  glyphs,
		Advance: x,
		Metrics: layout.Metrics{
			Ascent:    0.8 * em,
			Descent:   0.2 * em,
			CapHeight: 0.7 * em,
			XHeight:   0.5 * em,
		},
	}, nil
}

// cells returns the width of one grapheme cluster; control characters and
// tabs occupy a single cell so that every cluster stays visible.
func (s *Shaper) cells(cluster string) int {
	w := s.cond.StringWidth(cluster)
	if w == 0 {
		for _, r := range cluster {
			if r == '\t' || r < 0x20 {
				return 1
			}
		}
	}
	return w
}

// Package backend selects a font catalog and shaper pair by name.
package backend

import (
	"fmt"
	"strings"

	canvasbackend "github.com/ByLCY/scroll/backend/canvas"
	"github.com/ByLCY/scroll/backend/cells"
	"github.com/ByLCY/scroll/layout"
)

// Backend bundles the two collaborators layout.Builder.Finalize needs.
type Backend struct {
	Name    string
	Catalog layout.FontCatalog
	Shaper  layout.Shaper
}

// Names lists the available backends.
func Names() []string { return []string{"canvas", "cells"} }

// Select returns the backend called name. Extra fonts are only used by the
// canvas backend.
func Select(name string, fonts ...canvasbackend.Resource) (*Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "canvas":
		cat, err := canvasbackend.NewCatalog(canvasbackend.Options{Fonts: fonts})
		if err != nil {
			return nil, fmt.Errorf("初始化 canvas 后端失败: %w", err)
		}
		return &Backend{Name: "canvas", Catalog: cat, Shaper: canvasbackend.NewShaper()}, nil
	case "cells":
		return &Backend{Name: "cells", Catalog: cells.NewCatalog(), Shaper: cells.NewShaper()}, nil
	}
	return nil, fmt.Errorf("未知的后端 %q，可选 %s", name, strings.Join(Names(), "、"))
}

// Finalize runs b.Finalize with this backend's catalog and shaper.
func (be *Backend) Finalize(b *layout.Builder) (*layout.Layout, error) {
	return b.Finalize(be.Catalog, be.Shaper)
}

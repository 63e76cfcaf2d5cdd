/*
Package bidi splits text into directional runs in visual order.

A Segmenter works in one of two modes. A forced segmenter tags the whole
input with a single direction. An algorithmic segmenter runs a variant of the
Unicode Bidirectional Algorithm (UAX#9) per paragraph: character classes come
from golang.org/x/text/unicode/bidi, weak and neutral types are resolved,
implicit levels assigned, and level runs are reordered for display (rule L2).

Explicit embeddings, overrides and isolates are treated as neutrals; there is
no directional status stack. This is good enough for titles and labels, which
is what the layout engine needs.

An algorithmic segmenter remembers the base level it detected for the first
paragraph carrying a strong character, and reuses it for later paragraphs
that are direction-neutral. Segmenters are therefore stateful and must not be
shared between goroutines or layout calls.
*/
package bidi

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'scroll'
func tracer() tracing.Trace {
	return tracing.Select("scroll")
}

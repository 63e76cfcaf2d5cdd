package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/ByLCY/scroll/markup"
)

// printDiagnostic 输出出错的那一行标记，并在出错位置下方标出 ^。
func printDiagnostic(w io.Writer, src string, pe *markup.ParseError) {
	off := min(max(pe.Offset, 0), len(src))
	start := strings.LastIndexByte(src[:off], '\n') + 1
	end := len(src)
	if i := strings.IndexByte(src[off:], '\n'); i >= 0 {
		end = off + i
	}
	lineNo := strings.Count(src[:start], "\n") + 1
	line := src[start:end]
	col := runewidth.StringWidth(src[start:off])

	red := color.New(color.FgRed, color.Bold)
	red.Fprintf(w, "error: ")
	fmt.Fprintf(w, "%v\n", pe)
	fmt.Fprintf(w, "%4d | %s\n", lineNo, line)
	fmt.Fprintf(w, "     | %s", strings.Repeat(" ", col))
	red.Fprintln(w, "^")
}

func printWarning(w io.Writer, format string, args ...any) {
	color.New(color.FgYellow).Fprint(w, "warning: ")
	fmt.Fprintf(w, format+"\n", args...)
}

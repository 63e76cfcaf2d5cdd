package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/ByLCY/scroll/layout"
	"github.com/ByLCY/scroll/markup"
)

func defaultOptions() options {
	return options{backend: "cells", family: "sans-serif", size: "12pt", align: "start", dir: "auto", valign: "top"}
}

func TestRun(t *testing.T) {
	o := defaultOptions()
	o.align, o.width = "center", 100
	res, err := run("[b]Hi[/b] there", o)
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if res.NumLines() != 1 || res.Policy.Align != layout.AlignCenter || res.Width() != 100 {
		t.Fatalf("unexpected layout %+v", res)
	}
}

func TestRunRejectsBadOptions(t *testing.T) {
	for _, mutate := range []func(*options){
		func(o *options) { o.align = "diagonal" },
		func(o *options) { o.dir = "up" },
		func(o *options) { o.valign = "line:x" },
		func(o *options) { o.size = "-3pt" },
		func(o *options) { o.family = "a,,b" },
		func(o *options) { o.backend = "nope" },
	} {
		o := defaultOptions()
		mutate(&o)
		if _, err := run("x", o); err == nil {
			t.Fatalf("options %+v should fail", o)
		}
	}
}

func TestDiagnosticCaret(t *testing.T) {
	color.NoColor = true
	src := "first line\nab[bold]cd"
	_, err := run(src, defaultOptions())
	var pe *markup.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected parse error, got %v", err)
	}
	var buf bytes.Buffer
	printDiagnostic(&buf, src, pe)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("unexpected diagnostic:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[1], "   2 | ab[bold]cd") {
		t.Fatalf("unexpected source line %q", lines[1])
	}
	if lines[2] != "     |   ^" {
		t.Fatalf("caret misplaced: %q", lines[2])
	}
}

package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/scroll/backend"
	"github.com/ByLCY/scroll/binding"
	"github.com/ByLCY/scroll/layout"
	"github.com/ByLCY/scroll/markup"
	"github.com/ByLCY/scroll/style"
)

type options struct {
	text, input, data     string
	backend, family, size string
	align, dir, valign    string
	width                 float64
	workers               int
	check                 bool
	output                string
}

func main() {
	var o options
	flag.StringVar(&o.text, "text", "", "标记文本，如 \"[b]Hi[/b]\"")
	flag.StringVar(&o.input, "in", "", "标记文件路径（与 -text 二选一）")
	flag.StringVar(&o.data, "data", "", "绑定到 ${path} 占位符的 JSON 数据")
	flag.StringVar(&o.backend, "backend", "canvas", "字体后端："+strings.Join(backend.Names(), "|"))
	flag.StringVar(&o.family, "family", "sans-serif", "根字体族，逗号分隔的回退列表")
	flag.StringVar(&o.size, "size", "12pt", "根字号，支持 pt/mm/cm/in/px")
	flag.Float64Var(&o.width, "width", 0, "文本框宽度 (pt)，0 表示取最宽行")
	flag.StringVar(&o.align, "align", "start", "水平对齐：start|center|end|left|right|justify")
	flag.StringVar(&o.dir, "dir", "auto", "方向：auto|auto-ltr|auto-rtl|ltr|rtl")
	flag.StringVar(&o.valign, "valign", "top", "垂直对齐：top|center|bottom|baseline|line:N[:top|bottom|middle|hanging|baseline]")
	flag.IntVar(&o.workers, "workers", 0, "并发整形的 goroutine 数，0 表示按 CPU 数")
	flag.BoolVar(&o.check, "check", false, "校验每行 run 的覆盖")
	flag.StringVar(&o.output, "out", "", "布局 JSON 输出路径，留空时输出到标准输出")
	flag.Parse()

	src, err := o.source()
	if err != nil {
		log.Fatalf("读取输入失败: %v", err)
	}
	if o.data != "" {
		var data any
		if err := json.Unmarshal([]byte(o.data), &data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
		for _, path := range binding.Missing(src, data) {
			printWarning(os.Stderr, "占位符 ${%s} 在数据中不存在，保持原样", path)
		}
		src = binding.Interpolate(src, data)
	}
	res, err := run(src, o)
	if err != nil {
		var pe *markup.ParseError
		if errors.As(err, &pe) {
			printDiagnostic(os.Stderr, src, pe)
			os.Exit(1)
		}
		log.Fatalf("排版失败: %v", err)
	}
	if err := write(res, o.output); err != nil {
		log.Fatalf("输出布局失败: %v", err)
	}
}

func (o options) source() (string, error) {
	switch {
	case o.text != "" && o.input != "":
		return "", fmt.Errorf("-text 与 -in 只能指定一个")
	case o.input != "":
		data, err := os.ReadFile(o.input)
		if err != nil {
			return "", fmt.Errorf("无法打开标记文件 %s: %w", o.input, err)
		}
		return string(data), nil
	}
	return o.text, nil
}

// run 串联数据绑定、标记解析与排版。src 为绑定后的标记文本，便于错误定位。
func run(src string, o options) (*layout.Layout, error) {
	policy, err := o.policy()
	if err != nil {
		return nil, err
	}
	root := style.Default()
	if root.Font.Families, err = style.ParseFamilies(o.family); err != nil {
		return nil, fmt.Errorf("解析 -family 失败: %w", err)
	}
	if root.Size, err = style.ParseSize(o.size); err != nil {
		return nil, fmt.Errorf("解析 -size 失败: %w", err)
	}
	be, err := backend.Select(o.backend)
	if err != nil {
		return nil, err
	}

	parsed, err := markup.Parse(src)
	if err != nil {
		return nil, err
	}
	return be.Finalize(layout.FromMarkup(parsed, root).
		WithLayout(policy).
		WithOptions(layout.BuildOptions{Workers: o.workers, Debug: layout.DebugOptions{CheckCoverage: o.check}}))
}

func (o options) policy() (layout.Policy, error) {
	p := layout.DefaultPolicy()
	var err error
	if p.Direction, err = layout.ParseDirection(o.dir); err != nil {
		return p, err
	}
	if p.Align, err = layout.ParseAlign(o.align); err != nil {
		return p, err
	}
	if p.VerAlign, err = layout.ParseVerAlign(o.valign); err != nil {
		return p, err
	}
	p.BoxWidth = o.width
	return p, nil
}

func write(res *layout.Layout, path string) error {
	if path == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(res, path); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	fmt.Fprintf(os.Stderr, "已生成布局：%s\n", path)
	return nil
}

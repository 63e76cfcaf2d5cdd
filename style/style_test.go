package style

import (
	"math"
	"testing"
)

func TestApplyOnlyOverridesSetFields(t *testing.T) {
	root := Default()
	root.Size = 16
	got := root.Apply(Override{}.WithSize(32))
	if got.Size != 32 {
		t.Fatalf("字号应为 32，实际 %g", got.Size)
	}
	if got.Font.Key() != root.Font.Key() || got.Fill != root.Fill {
		t.Fatalf("未覆盖字段应继承根样式: %+v", got)
	}
	if root.Size != 16 {
		t.Fatalf("Apply 不应修改原值")
	}
}

func TestApplyInDeclarationOrder(t *testing.T) {
	root := Default()
	outer := Override{}.WithWeight(Bold).WithSize(20)
	inner := Override{}.WithSize(8)
	got := root.Apply(outer).Apply(inner)
	if got.Size != 8 || got.Font.Weight != Bold {
		t.Fatalf("内层应只覆盖字号: %+v", got)
	}
}

func TestMergeLaterWins(t *testing.T) {
	a := Override{}.WithSize(10).WithStyle(Italic)
	b := Override{}.WithSize(12)
	m := a.Merge(b)
	if *m.Size != 12 || *m.Style != Italic {
		t.Fatalf("合并结果不正确: size=%v style=%v", *m.Size, *m.Style)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#ff0000", Color{R: 255, A: 255}},
		{"#0f0", Color{G: 255, A: 255}},
		{"#0000ff80", Color{B: 255, A: 128}},
		{"red", Color{R: 255, A: 255}},
		{"SteelBlue", Color{R: 70, G: 130, B: 180, A: 255}},
		{"transparent", Color{}},
	}
	for _, c := range cases {
		got, err := ParseColor(c.in)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("解析 %q 期望 %+v，实际 %+v", c.in, c.want, got)
		}
	}
	for _, bad := range []string{"", "#12", "#gggggg", "notacolor"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("期望 %q 解析失败", bad)
		}
	}
	if got := (Color{R: 1, G: 2, B: 3, A: 255}).Hex(); got != "#010203" {
		t.Fatalf("Hex 输出错误: %s", got)
	}
}

func TestParseWeightStyleWidth(t *testing.T) {
	if w, err := ParseWeight("semi-bold"); err != nil || w != SemiBold {
		t.Fatalf("semi-bold: %v %v", w, err)
	}
	if w, err := ParseWeight("350"); err != nil || w != 350 {
		t.Fatalf("350: %v %v", w, err)
	}
	if _, err := ParseWeight("1001"); err == nil {
		t.Fatalf("1001 应报错")
	}
	if s, err := ParseStyle("Italic"); err != nil || s != Italic {
		t.Fatalf("italic: %v %v", s, err)
	}
	if _, err := ParseStyle("slanted"); err == nil {
		t.Fatalf("slanted 应报错")
	}
	if w, err := ParseWidth("condensed"); err != nil || w != Condensed {
		t.Fatalf("condensed: %v %v", w, err)
	}
	if w, err := ParseWidth("9"); err != nil || w != UltraExpanded {
		t.Fatalf("9: %v %v", w, err)
	}
	if Bold.String() != "bold" || Condensed.String() != "condensed" || Oblique.String() != "oblique" {
		t.Fatalf("String 输出错误")
	}
}

func TestParseFamilies(t *testing.T) {
	got, err := ParseFamilies(` "DejaVu Sans", serif `)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(got) != 2 || got[0] != "DejaVu Sans" || got[1] != "serif" {
		t.Fatalf("解析结果错误: %q", got)
	}
	if _, err := ParseFamilies("a,,b"); err == nil {
		t.Fatalf("空项应报错")
	}
}

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度。
func TestPtMmRoundTrip(t *testing.T) {
	for _, pt := range []float64{0, 0.001, 1, 12, 14.4, 72, 1000} {
		back := pt * PtToMm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%g back=%g", pt, back)
		}
	}
}

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"32", 32},
		{"12pt", 12},
		{"1in", 72},
		{"16px", 12},
		{"2.54cm", 72},
	}
	for _, c := range cases {
		got, err := ParseSize(c.in)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", c.in, err)
		}
		if math.Abs(got-c.want) > 1e-3 {
			t.Fatalf("解析 %q 期望 %g，实际 %g", c.in, c.want, got)
		}
	}
	for _, bad := range []string{"", "abc", "-3", "0", "NaN", "inf"} {
		if _, err := ParseSize(bad); err == nil {
			t.Fatalf("期望 %q 解析失败", bad)
		}
	}
}

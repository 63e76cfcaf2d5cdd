package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'scroll'
func tracer() tracing.Trace {
	return tracing.Select("scroll")
}

// WriteDebugJSON 将排版结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Layout, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// CheckFlatCoverage 校验每一行的 run 恰好覆盖该行的每个字节一次。
func (l *Layout) CheckFlatCoverage() error {
	for i := range l.Lines {
		line := &l.Lines[i]
		counts := make([]int, line.End-line.Start)
		for _, r := range line.Runs {
			if r.Start < line.Start || r.End > line.End || r.End < r.Start {
				return fmt.Errorf("layout: 第 %d 行的 run [%d,%d) 超出行范围 [%d,%d)", i, r.Start, r.End, line.Start, line.End)
			}
			for k := r.Start; k < r.End; k++ {
				counts[k-line.Start]++
			}
		}
		for k, c := range counts {
			if c != 1 {
				return fmt.Errorf("layout: 第 %d 行偏移 %d 被覆盖 %d 次", i, line.Start+k, c)
			}
		}
	}
	return nil
}

package chart

import (
	"fmt"
	"math"
	"strings"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline 把序列压成一行字符，width<=0 表示不限宽（取最后 width 个点）
func Sparkline(values []float64, width int) string {
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	if len(values) == 0 {
		return ""
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	var sb strings.Builder
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(lo, 0) {
			sb.WriteRune(' ')
			continue
		}
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		sb.WriteRune(sparkRunes[idx])
	}
	return sb.String()
}

// HBar 一条水平条：value 相对 max 的比例，width 为最大字符数
func HBar(value, max float64, width int) string {
	if width <= 0 || max <= 0 || value <= 0 {
		return ""
	}
	n := int(math.Round(value / max * float64(width)))
	if n > width {
		n = width
	}
	return strings.Repeat("█", n)
}

// Range 在 [lo, hi] 区间上标出 mark 的位置，例如 "[====|=====]"
func Range(lo, hi, mark float64, width int) string {
	if width < 3 {
		width = 3
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	cells := []rune(strings.Repeat("=", width))
	pos := -1
	switch {
	case hi == lo:
		pos = width / 2
	case mark >= lo && mark <= hi:
		pos = int((mark - lo) / (hi - lo) * float64(width-1))
	}
	if pos >= 0 {
		cells[pos] = '|'
	}
	left, right := "[", "]"
	if mark < lo {
		left = "<"
	}
	if mark > hi {
		right = ">"
	}
	return fmt.Sprintf("%s%s%s", left, string(cells), right)
}

// Numbers 取 trace 数据数组里的数值（非数值跳过）
func Numbers(values []any) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		switch n := v.(type) {
		case float64:
			out = append(out, n)
		case float32:
			out = append(out, float64(n))
		case int:
			out = append(out, float64(n))
		case int64:
			out = append(out, float64(n))
		}
	}
	return out
}

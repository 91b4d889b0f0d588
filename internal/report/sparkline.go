package report

import (
	"strings"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width points of data as block characters,
// padded with spaces to width.
func Sparkline(data []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(data) == 0 {
		return strings.Repeat("▁", width)
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	lo, hi := minMax(data)

	var result strings.Builder
	for _, value := range data {
		if lo == hi {
			result.WriteRune('▄')
			continue
		}
		index := int((value - lo) / (hi - lo) * float64(len(sparkChars)-1))
		if index < 0 {
			index = 0
		} else if index >= len(sparkChars) {
			index = len(sparkChars) - 1
		}
		result.WriteRune(sparkChars[index])
	}
	result.WriteString(strings.Repeat(" ", width-len(data)))

	return result.String()
}

// Trend compares the first and last point.
func Trend(data []float64) string {
	if len(data) < 2 {
		return "→"
	}
	first, last := data[0], data[len(data)-1]
	switch {
	case last > first:
		return "↗"
	case last < first:
		return "↘"
	default:
		return "→"
	}
}

func minMax(data []float64) (float64, float64) {
	lo, hi := data[0], data[0]
	for _, v := range data {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

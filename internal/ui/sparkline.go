package ui

import "strings"

// sparklineBlocks are the eight vertical block levels, lowest to highest.
var sparklineBlocks = []rune("▁▂▃▄▅▆▇█")

// sparkline renders the most recent width samples of a microsecond series.
// Zero values (losses) show as spaces.
func sparkline(data []uint64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	var min, max uint64
	first := true
	for _, v := range data {
		if v == 0 {
			continue
		}
		if first {
			min, max = v, v
			first = false
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if first {
		return strings.Repeat(" ", len(data))
	}

	levels := len(sparklineBlocks)
	span := max - min

	var sb strings.Builder
	sb.Grow(len(data) * 3)
	for _, v := range data {
		if v == 0 {
			sb.WriteRune(' ')
			continue
		}
		level := levels / 2
		if span > 0 {
			level = int(float64(v-min) / float64(span) * float64(levels-1))
			if level < 0 {
				level = 0
			}
			if level >= levels {
				level = levels - 1
			}
		}
		sb.WriteRune(sparklineBlocks[level])
	}
	return sb.String()
}

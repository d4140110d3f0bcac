package render

import (
	"math"
	"strings"
)

// LevelBar draws level (0..1, clamped) as a bar of width cells using eighth blocks.
func LevelBar(level float64, width int) string {
	if width <= 0 {
		return ""
	}
	level = math.Max(0, math.Min(1, level))

	eighths := int(math.Round(level * float64(width*8)))
	full := eighths / 8
	partial := eighths % 8

	var sb strings.Builder
	sb.WriteString(strings.Repeat("█", full))
	if partial > 0 {
		sb.WriteRune([]rune(" ▏▎▍▌▋▊▉")[partial])
	}
	if pad := width - full - min(partial, 1); pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	return sb.String()
}

// ScopeRows maps samples onto width columns of a height-row oscilloscope.
// Each column takes the sample at its position and returns the row it lands
// on, 0 being the top (+1) and height-1 the bottom (-1).
func ScopeRows(samples []float32, width, height int) []int {
	if width <= 0 || height <= 0 {
		return nil
	}
	rows := make([]int, width)
	if len(samples) == 0 {
		for i := range rows {
			rows[i] = height / 2
		}
		return rows
	}

	for x := range rows {
		v := float64(samples[x*len(samples)/width])
		v = math.Max(-1, math.Min(1, v))
		rows[x] = int(math.Round((1 - v) / 2 * float64(height-1)))
	}
	return rows
}

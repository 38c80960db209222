package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	if width <= 0 {
		return
	}
	col := x
	for _, r := range text {
		if col >= x+width {
			return
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
}

func padOrTrim(value string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) > width {
		return string(runes[:width])
	}
	if len(runes) < width {
		return value + strings.Repeat(" ", width-len(runes))
	}
	return value
}

func gradeStyle(grade string) tcell.Style {
	switch grade {
	case "A", "B":
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case "C":
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case "D":
		return tcell.StyleDefault.Foreground(tcell.ColorOrange)
	case "F":
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
}

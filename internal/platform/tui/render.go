package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arcade-motion/internal/render"
)

// colorStyles maps render.Color to lipgloss styles.
var colorStyles = map[render.Color]lipgloss.Style{
	render.ColorDefault:      lipgloss.NewStyle(),
	render.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	render.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	render.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	render.ColorBlue:         lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	render.ColorMagenta:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	render.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	render.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	render.ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	render.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	render.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	render.ColorBrightBlue:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	render.ColorBrightCyan:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	render.ColorBrightWhite:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	render.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	render.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderCanvas converts a canvas to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderCanvas(c *render.Canvas) string {
	var sb strings.Builder
	sb.Grow(c.Width()*c.Height()*2 + c.Height())

	for y := range c.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < c.Width() {
			startColor := c.CellAt(x, y).Color

			var run strings.Builder
			for x < c.Width() {
				cell := c.CellAt(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[render.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

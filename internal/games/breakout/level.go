// Package breakout implements Breakout on the motion engine: a paddle, one
// ball and a grid of blocks, with levels, lives and a level bonus.
package breakout

// Cell is one block position in a layout.
type Cell struct {
	Col, Row int
	Points   int // 0 uses the configured default
}

// Layout is a block arrangement for one level.
type Layout struct {
	ID     string
	Name   string
	Width  int // Number of block columns
	Height int // Number of block rows
	Cells  []Cell
}

// ParseLayout creates a Layout from an ASCII map.
// Characters:
//
//	'#' = block worth the configured points
//	'.' = empty
//	'1'-'9' = block with custom points (10 * digit)
func ParseLayout(id, name string, lines []string) *Layout {
	layout := &Layout{ID: id, Name: name, Height: len(lines)}

	for row, line := range lines {
		if len(line) > layout.Width {
			layout.Width = len(line)
		}
		for col := range len(line) {
			ch := line[col]
			switch {
			case ch == '#':
				layout.Cells = append(layout.Cells, Cell{Col: col, Row: row})
			case ch >= '1' && ch <= '9':
				layout.Cells = append(layout.Cells, Cell{Col: col, Row: row, Points: int(ch-'0') * 10})
			}
		}
	}

	return layout
}

// BuiltinLayouts returns all built-in layouts in play order.
func BuiltinLayouts() []*Layout {
	return []*Layout{
		// Level 1: the classic six full rows
		ParseLayout("classic", "Classic", []string{
			"##################",
			"##################",
			"##################",
			"##################",
			"##################",
			"##################",
		}),

		ParseLayout("pyramid", "Pyramid", []string{
			"........##........",
			"......######......",
			"....##########....",
			"..##############..",
			"##################",
		}),

		ParseLayout("checker", "Checkerboard", []string{
			"#.#.#.#.#.#.#.#.#.",
			".#.#.#.#.#.#.#.#.#",
			"#.#.#.#.#.#.#.#.#.",
			".#.#.#.#.#.#.#.#.#",
			"#.#.#.#.#.#.#.#.#.",
			".#.#.#.#.#.#.#.#.#",
		}),

		ParseLayout("diamond", "Diamond", []string{
			"........##........",
			".......####.......",
			"......######......",
			".....########.....",
			"....##########....",
			".....########.....",
			"......######......",
			".......####.......",
			"........##........",
		}),

		ParseLayout("striped", "Striped", []string{
			"555555555555555555",
			"..................",
			"333333333333333333",
			"..................",
			"##################",
			"..................",
			"##################",
		}),

		ParseLayout("invaders", "Invaders", []string{
			"..#..........#....",
			".###........###...",
			"#####......#####..",
			"#.#.#......#.#.#..",
			"#####......#####..",
		}),
	}
}

// GetLayout returns the layout for a 1-based level, cycling through the
// built-in layouts.
func GetLayout(level int) *Layout {
	layouts := BuiltinLayouts()
	if level < 1 {
		level = 1
	}
	return layouts[(level-1)%len(layouts)]
}

// LayoutCount returns the number of built-in layouts.
func LayoutCount() int {
	return len(BuiltinLayouts())
}

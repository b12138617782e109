package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

const (
	defaultHeight       = 8
	minWidth            = 10
	axisLabelTop        = "max"
	axisLabelBottom     = "min"
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	colorLine           = "\x1b[36m"
	terminalWidthBackup = 80
)

// LoadingText is drawn in place of a chart while the buffer is empty.
const LoadingText = "Memuat data monitoring..."

// Render draws values as a braille polyline scaled to the buffer's own range.
// An empty buffer renders the loading placeholder.
func Render(w io.Writer, title, unit string, values []float64, width, height int, color bool) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if len(values) == 0 {
		_, err := fmt.Fprintln(w, LoadingText)
		return err
	}
	if height <= 0 {
		height = defaultHeight
	}
	if width <= 0 {
		width = WidthFor(terminalWidth())
	}
	if width < minWidth {
		width = minWidth
	}

	cells := makeCells(height, width)
	dotsX := width*2 - 1
	dotsY := height*4 - 1
	prevX, prevY := -1, -1
	for _, p := range Normalize(values) {
		x := int(math.Round(p.X / 100 * float64(dotsX)))
		y := int(math.Round((1 - p.Y/100) * float64(dotsY)))
		if prevX >= 0 {
			drawLine(prevX, prevY, x, y, func(dx, dy int) {
				setBrailleDot(cells, dx, dy)
			})
		} else {
			setBrailleDot(cells, x, y)
		}
		prevX, prevY = x, y
	}

	minVal, maxVal := Bounds(values)
	labelWidth := utf8.RuneCountInString(axisLabelTop)
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = axisLabelTop
		case height - 1:
			label = axisLabelBottom
		}
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", labelWidth, label, axisSeparator))
		if color {
			row.WriteString(colorLine)
		}
		for x := 0; x < width; x++ {
			row.WriteRune(brailleFromMask(cells[y][x]))
		}
		if color {
			row.WriteString(colorReset)
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	last := values[len(values)-1]
	_, err := fmt.Fprintf(w, "min=%.2f max=%.2f now=%.2f %s (%d titik)\n", minVal, maxVal, last, unit, len(values))
	return err
}

// WidthFor computes a plot width that fits within the total available width.
func WidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minWidth
	}
	axisWidth := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	width := totalWidth - axisWidth
	if width < minWidth {
		width = minWidth
	}
	return width
}

// UseColor reports whether ANSI colors should be written to w.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cellY, cellX := y/4, x/2
	if cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

// brailleDotMask maps a dot inside a 2×4 cell to its Unicode braille bit.
func brailleDotMask(x, y int) uint8 {
	masks := [2][4]uint8{
		{0x01, 0x02, 0x04, 0x40},
		{0x08, 0x10, 0x20, 0x80},
	}
	return masks[x][y]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

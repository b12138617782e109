package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// RenderTabs draws the top navigation with the active tab highlighted.
func RenderTabs(tabs []string, active int) string {
	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		if i == active {
			parts = append(parts, ActiveNavStyle.Render(tab))
		} else {
			parts = append(parts, InactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// RenderSubTabs draws a single-line secondary navigation.
func RenderSubTabs(tabs []string, active int) string {
	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		if i == active {
			parts = append(parts, SubNavActiveStyle.Render(tab))
		} else {
			parts = append(parts, SubNavInactiveStyle.Render(tab))
		}
	}
	return strings.Join(parts, "  ")
}

// TabsHeight is the rendered height of RenderTabs.
func TabsHeight() int {
	h := lipgloss.Height(ActiveNavStyle.Render("X"))
	if h < 1 {
		return 1
	}
	return h
}

// MoveIndex cycles idx by delta within [0, count).
func MoveIndex(idx, delta, count int) int {
	if count == 0 {
		return 0
	}
	next := idx + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	return next
}

// MetricCard renders a bordered label/value tile.
func MetricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", CardTitleStyle.Render(label), CardValueStyle.Render(value))
	return CardStyle.Render(content)
}

// CardGrid lays cards out in rows of perRow; narrow terminals get one column.
func CardGrid(cards []string, width, perRow int) string {
	if width < 80 || perRow <= 1 {
		return strings.Join(cards, "\n")
	}
	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := minInt(i+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Modal centers body in a bordered box over the full screen.
func Modal(body string, width, height int) string {
	box := ModalStyle.Width(ModalWidth(width)).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// TableStyles is the muted table look used across screens.
func TableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#3A3A3A")).
		Bold(true)
	return styles
}

// ModalWidth is the outer width of a modal for a terminal of width.
func ModalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

// ModalInnerWidth is the content width inside ModalWidth.
func ModalInnerWidth(width int) int {
	w := ModalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}

// PadLines pads each line of s to width cells.
func PadLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

// FitLines pads or cuts s to exactly width×height cells.
func FitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// TruncateLine shortens s to width runes with an ellipsis.
func TruncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

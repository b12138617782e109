// Package ui holds the styles, layout helpers and widgets shared by the
// terminal screens.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	ActiveNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	InactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	SubNavActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true).Underline(true)
	SubNavInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	HeaderStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	ErrorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	SuccessStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	WarningStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
	CardStyle           = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	CardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	CardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	TableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	ModalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
	LabelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")).Width(22)
	ReadOnlyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
)

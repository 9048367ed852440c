package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Box drawing characters
const (
	TopLeft     = "╭"
	TopRight    = "╮"
	BottomLeft  = "╰"
	BottomRight = "╯"
	Horizontal  = "─"
	Vertical    = "│"
	LeftT       = "├"
	RightT      = "┤"
	TopT        = "┬"
	BottomT     = "┴"
	Cross       = "┼"
)

// Color palette
const (
	ColorBorder  = "240"
	ColorHeader  = "252"
	ColorHost    = "81"
	ColorGateway = "214"
	ColorText    = "252"
	ColorOK      = "82"
	ColorRenew   = "214"
	ColorExpired = "196"
	ColorMuted   = "240"
	ColorHint    = "245"
)

// Shared styles
var (
	BorderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder))
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorHeader))
	HostStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHost))
	GatewayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGateway))
	TextStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorText))
	OKStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOK))
	RenewStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRenew))
	ExpiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorExpired))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))
	HintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHint))
)

// padRight pads a string to the specified display width using runewidth
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "...")
	}
	return s + strings.Repeat(" ", width-sw)
}

func formatOptional(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Provider colors
var (
	AzureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	AWSStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	GCPStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

// ProviderStyle returns the style used to render a provider name
func ProviderStyle(provider string) lipgloss.Style {
	switch provider {
	case "azure":
		return AzureStyle
	case "aws":
		return AWSStyle
	case "gcp":
		return GCPStyle
	default:
		return MutedStyle
	}
}

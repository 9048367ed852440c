package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cell is one styled table value
type cell struct {
	text  string
	style lipgloss.Style
}

// table renders rows inside a rounded box with a header row
type table struct {
	headers []string
	widths  []int
	rows    [][]cell
}

func newTable(headers []string, widths []int) *table {
	return &table{headers: headers, widths: widths}
}

func (t *table) addRow(cells ...cell) {
	t.rows = append(t.rows, cells)
}

func (t *table) border(left, mid, right string) string {
	var sb strings.Builder
	sb.WriteString(BorderStyle.Render(left))
	for i, w := range t.widths {
		sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w+2)))
		if i < len(t.widths)-1 {
			sb.WriteString(BorderStyle.Render(mid))
		}
	}
	sb.WriteString(BorderStyle.Render(right))
	sb.WriteString("\n")
	return sb.String()
}

func (t *table) render(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString(t.border(TopLeft, TopT, TopRight))

	// Header row
	sb.WriteString(BorderStyle.Render(Vertical))
	for i, h := range t.headers {
		sb.WriteString(HeaderStyle.Render(" " + padRight(h, t.widths[i]) + " "))
		sb.WriteString(BorderStyle.Render(Vertical))
	}
	sb.WriteString("\n")

	sb.WriteString(t.border(LeftT, Cross, RightT))

	// Data rows
	for _, row := range t.rows {
		sb.WriteString(BorderStyle.Render(Vertical))
		for i, c := range row {
			sb.WriteString(c.style.Render(" " + padRight(c.text, t.widths[i]) + " "))
			sb.WriteString(BorderStyle.Render(Vertical))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(t.border(BottomLeft, BottomT, BottomRight))

	_, err := io.WriteString(w, sb.String())
	return err
}

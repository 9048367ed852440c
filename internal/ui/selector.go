package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	pkgtypes "github.com/vietdv277/gatecert/pkg/types"
)

const (
	listHeight = 8
	minWidth   = 60
	maxWidth   = 120
	// Fixed column widths
	colWidthSubscriptionID = 36
	colWidthState          = 9
)

// SubscriptionModel is the bubbletea model for picking the subscriptions
// to scan
type SubscriptionModel struct {
	subs         []pkgtypes.Subscription
	filtered     []int // indexes into subs
	chosen       map[string]bool
	cursor       int
	offset       int // for scrolling
	search       string
	quitting     bool
	cancelled    bool
	termWidth    int
	contentWidth int
	nameWidth    int
}

// NewSubscriptionModel creates a selector over subs. Enabled subscriptions
// start out chosen.
func NewSubscriptionModel(subs []pkgtypes.Subscription) SubscriptionModel {
	m := SubscriptionModel{
		subs:      subs,
		chosen:    make(map[string]bool),
		termWidth: 80, // default
	}
	for _, s := range subs {
		if s.State == "Enabled" {
			m.chosen[s.ID] = true
		}
	}
	m.filter()
	m.calculateWidths()
	return m
}

// calculateWidths computes responsive column widths based on terminal size
func (m *SubscriptionModel) calculateWidths() {
	m.contentWidth = min(max(m.termWidth-2, minWidth), maxWidth)

	// cursor(3) + checkbox(4) + name + spacing(2) + ID + spacing(2) + state
	fixedWidth := 3 + 4 + 2 + colWidthSubscriptionID + 2 + colWidthState
	m.nameWidth = max(m.contentWidth-fixedWidth, 10)
}

// Init implements tea.Model
func (m SubscriptionModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model
func (m SubscriptionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.calculateWidths()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			m.cancelled = true
			return m, tea.Quit

		case tea.KeyEnter:
			if len(m.chosen) == 0 && len(m.filtered) > 0 {
				m.chosen[m.subs[m.filtered[m.cursor]].ID] = true
			}
			if len(m.chosen) > 0 {
				m.quitting = true
				return m, tea.Quit
			}

		case tea.KeySpace:
			if len(m.filtered) > 0 {
				id := m.subs[m.filtered[m.cursor]].ID
				if m.chosen[id] {
					delete(m.chosen, id)
				} else {
					m.chosen[id] = true
				}
			}

		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}

		case tea.KeyDown:
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				if m.cursor >= m.offset+listHeight {
					m.offset = m.cursor - listHeight + 1
				}
			}

		case tea.KeyBackspace:
			if len(m.search) > 0 {
				m.search = m.search[:len(m.search)-1]
				m.filter()
			}

		case tea.KeyRunes:
			m.search += string(msg.Runes)
			m.filter()
		}
	}

	return m, nil
}

// filter narrows the list to subscriptions whose name or ID contains the
// search query
func (m *SubscriptionModel) filter() {
	query := strings.ToLower(m.search)
	m.filtered = nil
	for i, s := range m.subs {
		if query == "" ||
			strings.Contains(strings.ToLower(s.DisplayName), query) ||
			strings.Contains(strings.ToLower(s.ID), query) {
			m.filtered = append(m.filtered, i)
		}
	}
	// Reset cursor if out of bounds
	if m.cursor >= len(m.filtered) {
		m.cursor = max(len(m.filtered)-1, 0)
	}
	m.offset = 0
}

// Selected returns the chosen subscriptions in listing order
func (m SubscriptionModel) Selected() []pkgtypes.Subscription {
	var out []pkgtypes.Subscription
	for _, s := range m.subs {
		if m.chosen[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// Cancelled reports whether the selection was aborted
func (m SubscriptionModel) Cancelled() bool {
	return m.cancelled
}

// View implements tea.Model
func (m SubscriptionModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	w := m.contentWidth

	sb.WriteString(frameBorder(TopLeft, TopRight, w))
	sb.WriteString(frameLine(HostStyle.Render(padToWidth(" > "+m.search, w))))
	sb.WriteString(frameLine(strings.Repeat(" ", w)))

	visibleEnd := min(m.offset+listHeight, len(m.filtered))
	for i := m.offset; i < visibleEnd; i++ {
		sb.WriteString(frameLine(m.renderRow(i)))
	}
	// Fill remaining lines if list is short
	for i := visibleEnd; i < m.offset+listHeight; i++ {
		sb.WriteString(frameLine(strings.Repeat(" ", w)))
	}

	sb.WriteString(frameBorder(BottomLeft, BottomRight, w))
	sb.WriteString(m.renderStatusBar())

	return sb.String()
}

func (m SubscriptionModel) renderRow(idx int) string {
	s := m.subs[m.filtered[idx]]

	var line strings.Builder
	if idx == m.cursor {
		line.WriteString(" > ")
	} else {
		line.WriteString("   ")
	}

	if m.chosen[s.ID] {
		line.WriteString(OKStyle.Render("[x] "))
	} else {
		line.WriteString(MutedStyle.Render("[ ] "))
	}

	line.WriteString(HostStyle.Render(padRight(s.DisplayName, m.nameWidth)))
	line.WriteString("  ")
	line.WriteString(GatewayStyle.Render(padRight(s.ID, colWidthSubscriptionID)))
	line.WriteString("  ")

	stateStyle := MutedStyle
	if s.State == "Enabled" {
		stateStyle = OKStyle
	}
	line.WriteString(stateStyle.Render(padRight(s.State, colWidthState)))

	plainWidth := 3 + 4 + m.nameWidth + 2 + colWidthSubscriptionID + 2 + colWidthState
	if plainWidth < m.contentWidth {
		line.WriteString(strings.Repeat(" ", m.contentWidth-plainWidth))
	}
	return line.String()
}

func (m SubscriptionModel) renderStatusBar() string {
	w := m.contentWidth + 2 // include border width for status bar

	countInfo := fmt.Sprintf("  %d/%d subscriptions, %d selected", len(m.filtered), len(m.subs), len(m.chosen))
	hintsPlain := "[Space:toggle] [Enter:scan] [Esc:cancel]"

	padding := w - runewidth.StringWidth(countInfo) - runewidth.StringWidth(hintsPlain)

	var sb strings.Builder
	sb.WriteString(countInfo)
	if padding > 0 {
		sb.WriteString(strings.Repeat(" ", padding))
	}
	sb.WriteString(HintStyle.Render(hintsPlain))
	sb.WriteString("\n")
	return sb.String()
}

func frameBorder(left, right string, width int) string {
	return BorderStyle.Render(left) +
		BorderStyle.Render(strings.Repeat(Horizontal, width)) +
		BorderStyle.Render(right) + "\n"
}

func frameLine(content string) string {
	return BorderStyle.Render(Vertical) + content + BorderStyle.Render(Vertical) + "\n"
}

func padToWidth(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "...")
	}
	return s + strings.Repeat(" ", width-sw)
}

// SelectSubscriptions displays an interactive multi-selector for Azure
// subscriptions and returns the chosen ones
func SelectSubscriptions(subs []pkgtypes.Subscription) ([]pkgtypes.Subscription, error) {
	if len(subs) == 0 {
		return nil, fmt.Errorf("no subscriptions available")
	}

	p := tea.NewProgram(NewSubscriptionModel(subs))

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running selector: %w", err)
	}

	result := finalModel.(SubscriptionModel)
	if result.Cancelled() {
		return nil, fmt.Errorf("selection cancelled")
	}

	return result.Selected(), nil
}

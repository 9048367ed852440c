package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/vietdv277/gatecert/internal/config"
)

// contextItem holds display data for a single context entry.
type contextItem struct {
	name    string
	ctx     *config.Context
	current bool
}

// ContextModel is the bubbletea model for interactive context selection.
type ContextModel struct {
	items        []contextItem
	filtered     []contextItem
	cursor       int
	offset       int
	search       string
	selected     string
	quitting     bool
	cancelled    bool
	termWidth    int
	contentWidth int
	colWidths    []int // [Name, Provider, Source]
}

func newContextModel(items []contextItem) ContextModel {
	m := ContextModel{
		items:     items,
		filtered:  items,
		termWidth: 80,
	}
	m.calculateContextWidths()
	return m
}

// ContextSource describes where a context reads gateways from: its
// subscriptions, profile, project or file
func ContextSource(ctx *config.Context) string {
	var parts []string
	switch ctx.Provider {
	case config.ProviderAzure:
		if len(ctx.Subscriptions) == 0 {
			parts = append(parts, "all subscriptions")
		} else {
			parts = append(parts, strings.Join(ctx.Subscriptions, ","))
		}
	case config.ProviderAWS:
		parts = append(parts, formatOptional(ctx.Profile))
	case config.ProviderGCP:
		parts = append(parts, formatOptional(ctx.Project))
	case config.ProviderFile:
		parts = append(parts, ctx.File)
	}
	if ctx.Region != "" {
		parts = append(parts, ctx.Region)
	}
	return strings.Join(parts, " / ")
}

func (m *ContextModel) calculateContextWidths() {
	m.contentWidth = min(max(m.termWidth-2, minWidth), maxWidth)

	provW := runewidth.StringWidth("AZURE")
	srcW := 10
	for _, item := range m.items {
		srcW = max(srcW, runewidth.StringWidth(ContextSource(item.ctx)))
	}
	srcW = min(srcW, m.contentWidth/2)

	// cursor+marker(3) + name + sp(2) + provider + sp(2) + source
	nameW := max(m.contentWidth-(3+2+provW+2+srcW), 10)
	m.colWidths = []int{nameW, provW, srcW}
}

// Init implements tea.Model.
func (m ContextModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m ContextModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.calculateContextWidths()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			m.cancelled = true
			return m, tea.Quit

		case tea.KeyEnter:
			if len(m.filtered) > 0 {
				m.selected = m.filtered[m.cursor].name
				m.quitting = true
				return m, tea.Quit
			}

		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
				m.offset = min(m.offset, m.cursor)
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
				m.filterContexts()
			}

		case tea.KeyRunes:
			m.search += string(msg.Runes)
			m.filterContexts()
		}
	}

	return m, nil
}

func (m *ContextModel) filterContexts() {
	query := strings.ToLower(m.search)
	m.filtered = nil
	for _, item := range m.items {
		if query == "" || strings.Contains(strings.ToLower(item.name), query) {
			m.filtered = append(m.filtered, item)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(len(m.filtered)-1, 0)
	}
	m.offset = 0
}

// View implements tea.Model.
func (m ContextModel) View() string {
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
		sb.WriteString(frameLine(m.renderContextRow(i)))
	}
	for i := visibleEnd; i < m.offset+listHeight; i++ {
		sb.WriteString(frameLine(strings.Repeat(" ", w)))
	}

	sb.WriteString(frameBorder(BottomLeft, BottomRight, w))

	countInfo := fmt.Sprintf("  %d/%d contexts", len(m.filtered), len(m.items))
	hintsPlain := "[Enter:select] [Esc:quit]"
	padding := w + 2 - runewidth.StringWidth(countInfo) - runewidth.StringWidth(hintsPlain)
	sb.WriteString(countInfo)
	if padding > 0 {
		sb.WriteString(strings.Repeat(" ", padding))
	}
	sb.WriteString(HintStyle.Render(hintsPlain))
	sb.WriteString("\n")

	return sb.String()
}

func (m ContextModel) renderContextRow(idx int) string {
	item := m.filtered[idx]

	var line strings.Builder

	// 3-char prefix: space + cursor(>) + current-marker(*)
	cursor := " "
	if idx == m.cursor {
		cursor = ">"
	}
	marker := " "
	if item.current {
		marker = "*"
	}
	line.WriteString(" " + cursor + marker)

	nameStyle := HostStyle
	if item.current {
		nameStyle = OKStyle
	}
	line.WriteString(nameStyle.Render(padRight(item.name, m.colWidths[0])))
	line.WriteString("  ")

	line.WriteString(ProviderStyle(item.ctx.Provider).Render(padRight(strings.ToUpper(item.ctx.Provider), m.colWidths[1])))
	line.WriteString("  ")

	line.WriteString(MutedStyle.Render(padRight(ContextSource(item.ctx), m.colWidths[2])))

	plainWidth := 3 + m.colWidths[0] + 2 + m.colWidths[1] + 2 + m.colWidths[2]
	if plainWidth < m.contentWidth {
		line.WriteString(strings.Repeat(" ", m.contentWidth-plainWidth))
	}
	return line.String()
}

// SelectContext runs the interactive context selector TUI and returns the selected context name.
// The current context is pre-highlighted in the list.
func SelectContext(contexts map[string]*config.Context, current string) (string, error) {
	if len(contexts) == 0 {
		return "", fmt.Errorf("no contexts available")
	}

	names := make([]string, 0, len(contexts))
	for name := range contexts {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]contextItem, len(names))
	for i, name := range names {
		items[i] = contextItem{
			name:    name,
			ctx:     contexts[name],
			current: name == current,
		}
	}

	m := newContextModel(items)

	// Pre-position cursor on the current context
	for i, item := range items {
		if item.current {
			m.cursor = i
			break
		}
	}

	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("error running selector: %w", err)
	}

	result := finalModel.(ContextModel)
	if result.cancelled {
		return "", fmt.Errorf("selection cancelled")
	}

	return result.selected, nil
}

package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"canvas-portal/internal/catalog"
	"canvas-portal/internal/config"
	"canvas-portal/internal/models"

	tea "github.com/charmbracelet/bubbletea"
	lipgloss "github.com/charmbracelet/lipgloss"
)

const requestTimeout = 30 * time.Second

// ─────────────────────────────────────────────
// Messages
// ─────────────────────────────────────────────

type pageLoadedMsg struct{}

type detailLoadedMsg struct {
	id int64
}

/**
 * Terminal catalog browser
 * @description
 * - Wraps a catalog.Browser; every remote call runs as a tea.Cmd
 * - "/" edits the filter, which is applied on each keystroke
 * - Failed loads keep the current page; the catalog client logs them
 */
type Model struct {
	browser *catalog.Browser
	title   string

	width  int
	height int

	cursor      int
	filtering   bool
	filter      string
	loading     bool
	statusLine  string
	statusIsErr bool
}

// NewModel creates the browser model; title is shown in the header.
func NewModel(browser *catalog.Browser, title string) Model {
	return Model{browser: browser, title: title, loading: browser.Client() != nil}
}

func (m Model) Init() tea.Cmd {
	if m.browser.Client() == nil {
		return nil
	}
	return m.pageCmd(m.browser.Load)
}

func (m Model) pageCmd(op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_ = op(ctx)
		return pageLoadedMsg{}
	}
}

func (m Model) detailCmd(id int64, selected bool) tea.Cmd {
	client := m.browser.Client()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if selected {
			client.ToggleSelected(ctx, id)
		} else {
			client.ToggleVisible(ctx, id)
		}
		return detailLoadedMsg{id: id}
	}
}

// ─────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case pageLoadedMsg:
		m.loading = false
		m.clampCursor()

	case detailLoadedMsg:
		// 详情在客户端缓存中，下次渲染时读取

	case tea.KeyMsg:
		m.statusLine = ""
		if m.filtering {
			return m, m.handleFilterKey(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit

	case "/":
		m.filtering = true
		return nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil

	case "down", "j":
		if m.cursor < len(m.browser.View().Entries)-1 {
			m.cursor++
		}
		return nil

	case "right", "l", "n":
		return m.navigate(func(ctx context.Context) error { return m.browser.Next(ctx, 0) })

	case "left", "h", "p":
		return m.navigate(func(ctx context.Context) error { return m.browser.Previous(ctx, 0) })

	case "g", "home":
		return m.navigate(m.browser.First)

	case "G", "end":
		return m.navigate(m.browser.Last)

	case "enter", " ":
		return m.toggle(false)

	case "s":
		return m.toggle(true)
	}
	return nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.setFilter("")
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyBackspace:
		if r := []rune(m.filter); len(r) > 0 {
			m.setFilter(string(r[:len(r)-1]))
		}
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeySpace:
		m.setFilter(m.filter + " ")
	case tea.KeyRunes:
		m.setFilter(m.filter + string(msg.Runes))
	}
	return nil
}

func (m *Model) setFilter(needle string) {
	m.filter = needle
	m.browser.SetFilter(needle)
	m.cursor = 0
}

// navigate runs op synchronously for local lists and as a command for remote ones.
func (m *Model) navigate(op func(ctx context.Context) error) tea.Cmd {
	if m.loading {
		return nil
	}
	if m.browser.Client() == nil || m.browser.Options().Paging != config.PagingRemote || m.filter != "" {
		_ = op(context.Background())
		m.cursor = 0
		return nil
	}
	m.loading = true
	m.cursor = 0
	return m.pageCmd(op)
}

func (m *Model) toggle(selected bool) tea.Cmd {
	entry, ok := m.current()
	if !ok {
		return nil
	}
	if m.browser.Client() == nil || entry.ID <= 0 {
		m.statusLine = "⚠ No details for " + entry.Name
		m.statusIsErr = true
		return nil
	}
	return m.detailCmd(entry.ID, selected)
}

func (m *Model) current() (models.CatalogEntry, bool) {
	entries := m.browser.View().Entries
	if m.cursor < 0 || m.cursor >= len(entries) {
		return models.CatalogEntry{}, false
	}
	return entries[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.browser.View().Entries)
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// ─────────────────────────────────────────────
// View
// ─────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	if m.loading && !m.havePage() {
		return lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			styleAccent.Render("Fetching catalog..."),
		)
	}

	listW := m.width * 3 / 5
	detailW := m.width - listW
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderList(listW),
		m.renderDetail(detailW),
	)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m Model) havePage() bool {
	client := m.browser.Client()
	if client == nil {
		return true
	}
	_, ok := client.Page()
	return ok
}

func (m Model) bodyHeight() int {
	// header 2 lines, footer 2 lines, panel borders 2 lines
	return max(m.height-6, 3)
}

func (m Model) renderHeader() string {
	title := styleHeaderTitle.Render("◈ Canvas")
	subtitle := styleSubtle.Render(m.title)
	return styleHeaderBar.Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", subtitle))
}

func (m Model) renderList(w int) string {
	view := m.browser.View()
	client := m.browser.Client()
	h := m.bodyHeight()

	var lines []string
	if m.filtering || m.filter != "" {
		prompt := styleAccentBold.Render("/") + styleText.Render(m.filter)
		if m.filtering {
			prompt += styleAccent.Render("▏")
		}
		lines = append(lines, prompt)
	}

	// keep the cursor row visible
	rows := h - len(lines) - 1
	offset := 0
	if m.cursor >= rows {
		offset = m.cursor - rows + 1
	}
	for i := offset; i < len(view.Entries) && len(lines) < h-1; i++ {
		e := view.Entries[i]
		marker := "  "
		if client != nil && client.IsDetailSelected(e.ID) {
			marker = styleGreen.Render("● ")
		}
		name := truncate(e.Name, max(w/2, 8))
		line := marker + padRight(name, max(w/2, 8)) + " " + styleSubtle.Render(e.EVR()) + " " + styleMuted.Render(e.Arch)
		if e.IsPinned() {
			line += " " + stylePurple.Render("pinned")
		}
		if i == m.cursor {
			line = styleTextBold.Render("▸") + line
		} else {
			line = " " + line
		}
		lines = append(lines, line)
	}
	if len(view.Entries) == 0 {
		lines = append(lines, styleMuted.Render("No packages"))
	}
	lines = append(lines, m.renderPager(view))

	return stylePanel.Width(w - 2).Height(h).Render(strings.Join(lines, "\n"))
}

func (m Model) renderPager(view catalog.View) string {
	var parts []string
	for _, p := range view.PageList {
		label := fmt.Sprintf("%d", p+1)
		if p == view.State.Page {
			parts = append(parts, styleAccentBold.Render("["+label+"]"))
		} else {
			parts = append(parts, styleSubtle.Render(label))
		}
	}
	s := view.State
	summary := styleMuted.Render(fmt.Sprintf("  %d-%d of %d", s.FirstVisible, s.LastVisible, s.ItemCount))
	return strings.Join(parts, " ") + summary
}

func (m Model) renderDetail(w int) string {
	h := m.bodyHeight()
	entry, ok := m.current()
	client := m.browser.Client()
	if !ok {
		return stylePanel.Width(w - 2).Height(h).Render(styleMuted.Render("Nothing selected"))
	}

	lines := []string{
		styleAccentBold.Render(entry.Name),
		styleSubtle.Render(entry.EVR() + " " + entry.Arch),
	}
	if client != nil {
		if d, found := client.Detail(entry.ID); found && d.Visible {
			if d.Loading {
				lines = append(lines, styleYellow.Render("loading..."))
			}
			keys := make([]string, 0, len(d.Fields))
			for k := range d.Fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				lines = append(lines, "", styleTextBold.Render(k), wordWrap(fmt.Sprint(d.Fields[k]), max(w-6, 10)))
			}
		} else {
			lines = append(lines, "", styleMuted.Render("enter to show details"))
		}
	}
	return stylePanel.Width(w - 2).Height(h).Render(strings.Join(lines, "\n"))
}

func (m Model) renderFooter() string {
	type kv struct{ k, v string }
	keys := []kv{
		{"↑↓", "move"},
		{"←→", "page"},
		{"g/G", "first/last"},
		{"/", "filter"},
		{"enter", "details"},
		{"s", "select"},
		{"q", "quit"},
	}

	var parts []string
	for _, pair := range keys {
		parts = append(parts, styleAccentBold.Render(pair.k)+" "+styleSubtle.Render(pair.v))
	}
	if m.loading {
		parts = append(parts, styleAccent.Render("loading..."))
	} else if m.statusLine != "" {
		style := styleGreen
		if m.statusIsErr {
			style = styleRed
		}
		parts = append(parts, style.Render(m.statusLine))
	}
	return styleFooterBar.Width(m.width).Render(strings.Join(parts, "  ·  "))
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// padRight pads a styled string to the given visible width.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func wordWrap(s string, width int) string {
	words := strings.Fields(s)
	var lines []string
	var cur strings.Builder
	for _, w := range words {
		if cur.Len() > 0 && cur.Len()+len(w)+1 > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return strings.Join(lines, "\n")
}

// Run starts the full screen browser.
func Run(browser *catalog.Browser, title string) error {
	_, err := tea.NewProgram(NewModel(browser, title), tea.WithAltScreen()).Run()
	return err
}

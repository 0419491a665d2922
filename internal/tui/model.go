// Package tui is a terminal browser over the catalog tables. It keeps one
// session.State for the lifetime of the program, the same state the HTTP
// server keeps per client.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	btable "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/meur/skyatlas/internal/catalog"
	"github.com/meur/skyatlas/internal/dataset"
	"github.com/meur/skyatlas/internal/models"
	"github.com/meur/skyatlas/internal/session"
	"github.com/meur/skyatlas/internal/table"
)

type mode int

const (
	modeTable mode = iota
	modeFilters
	modeDetail
)

type loadedMsg struct {
	data *models.Dataset
	err  error
}

type filterLine struct {
	dim   table.Dimension
	entry table.FilterEntry
}

// Model is the root bubbletea model
type Model struct {
	ctx        context.Context
	loader     *dataset.Loader
	spriteBase string

	width  int
	height int

	index  *catalog.Index
	state  *session.State
	err    error
	loaded bool

	tables  []catalog.Listing
	current int
	column  int
	result  catalog.Result
	grid    btable.Model

	mode         mode
	filterCursor int
	page         *catalog.ShipPage
	message      string
}

// New creates the browser. The loader is started by Init if it has not been already.
func New(ctx context.Context, loader *dataset.Loader, spriteBase string) Model {
	grid := btable.New(
		btable.WithFocused(true),
		btable.WithHeight(20),
	)
	grid.SetStyles(gridStyles())

	return Model{
		ctx:        ctx,
		loader:     loader,
		spriteBase: spriteBase,
		tables:     catalog.Tables(),
		grid:       grid,
	}
}

func (m Model) Init() tea.Cmd {
	m.loader.Start(m.ctx)
	loader, ctx := m.loader, m.ctx
	return func() tea.Msg {
		d, err := loader.Wait(ctx)
		return loadedMsg{data: d, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.loaded = true
		m.index = catalog.NewIndex(msg.data, m.spriteBase)
		m.state = session.New(msg.data)
		m.refresh()
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if h := msg.Height - 8; h > 3 {
			m.grid.SetHeight(h)
		}
		m.grid.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		if !m.loaded {
			return m, nil
		}
		switch m.mode {
		case modeFilters:
			return m.updateFilters(msg)
		case modeDetail:
			return m.updateDetail(msg)
		}
		return m.updateTable(msg)
	}
	return m, nil
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	switch msg.String() {
	case "tab":
		m.selectTable(m.current + 1)
		return m, nil
	case "shift+tab":
		m.selectTable(m.current - 1)
		return m, nil
	case "left", "h":
		if m.column > 0 {
			m.column--
			m.refresh()
		}
		return m, nil
	case "right", "l":
		if m.column < len(m.listing().Labels())-1 {
			m.column++
			m.refresh()
		}
		return m, nil
	case "s", "enter":
		labels := m.listing().Labels()
		m.state.ToggleOrdering(m.listing().ID(), labels[m.column])
		m.refresh()
		return m, nil
	case "f":
		if !m.listing().Filterable() {
			m.message = m.listing().Title() + " cannot be filtered"
			return m, nil
		}
		m.state.ToggleFiltersVisibility()
		m.mode = modeFilters
		m.filterCursor = 0
		return m, nil
	case "d":
		m.openDetail()
		return m, nil
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m Model) updateFilters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := m.filterLines()
	switch msg.String() {
	case "up", "k":
		if m.filterCursor > 0 {
			m.filterCursor--
		}
	case "down", "j":
		if m.filterCursor < len(lines)-1 {
			m.filterCursor++
		}
	case " ", "x":
		if m.filterCursor < len(lines) {
			line := lines[m.filterCursor]
			if _, err := m.state.ToggleFilter(line.dim, line.entry.Value); err != nil {
				m.message = err.Error()
			}
			m.refresh()
		}
	case "f", "esc":
		m.state.ToggleFiltersVisibility()
		m.mode = modeTable
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "d", "backspace":
		m.mode = modeTable
		m.page = nil
	case "m":
		m.nextModification()
	}
	return m, nil
}

func (m *Model) listing() catalog.Listing {
	return m.tables[m.current]
}

func (m *Model) selectTable(i int) {
	n := len(m.tables)
	m.current = ((i % n) + n) % n
	m.column = 0
	m.grid.SetCursor(0)
	m.refresh()
}

// refresh re-renders the current table from the session state
func (m *Model) refresh() {
	if !m.loaded {
		return
	}
	m.result = m.state.List(m.listing(), m.index.Dataset())

	columns := make([]btable.Column, len(m.result.Headers))
	for i, h := range m.result.Headers {
		columns[i] = btable.Column{Title: headerTitle(h, i == m.column), Width: lipgloss.Width(headerTitle(h, true))}
	}
	rows := make([]btable.Row, len(m.result.Rows))
	for i, r := range m.result.Rows {
		cells := r.Cells()
		row := make(btable.Row, len(columns))
		for j := range columns {
			if j < len(cells) {
				row[j] = FormatCell(cells[j])
			}
			if w := lipgloss.Width(row[j]); w > columns[j].Width {
				columns[j].Width = min(w, maxCellWidth)
			}
		}
		rows[i] = row
	}
	for i, r := range rows {
		for j := range r {
			rows[i][j] = truncate(r[j], columns[j].Width)
		}
	}

	// columns and rows must agree in length while the grid re-renders
	m.grid.SetRows(nil)
	m.grid.SetColumns(columns)
	m.grid.SetRows(rows)
	switch c := m.grid.Cursor(); {
	case len(rows) == 0:
	case c < 0:
		m.grid.SetCursor(0)
	case c >= len(rows):
		m.grid.SetCursor(len(rows) - 1)
	}
}

func headerTitle(h table.Header, selected bool) string {
	title := h.Label
	switch h.Direction {
	case table.Ascending.String():
		title += " ▲"
	case table.Descending.String():
		title += " ▼"
	}
	if selected {
		title = "[" + title + "]"
	}
	return title
}

func (m *Model) filterLines() []filterLine {
	filter := m.state.ShipFilter()
	var lines []filterLine
	for _, dim := range table.Dimensions {
		for _, e := range filter.Entries(dim) {
			lines = append(lines, filterLine{dim: dim, entry: e})
		}
	}
	return lines
}

func (m *Model) openDetail() {
	if m.listing().ID() != catalog.ShipsTable {
		m.message = "Detail pages exist for ships only"
		return
	}
	i := m.grid.Cursor()
	if i < 0 || i >= len(m.result.Rows) {
		return
	}
	row, ok := m.result.Rows[i].(catalog.ShipRow)
	if !ok {
		return
	}
	page, err := m.index.ShipPage(row.Slug, "")
	if err != nil {
		m.message = err.Error()
		return
	}
	m.page = page
	m.mode = modeDetail
}

// nextModification cycles the detail page through the ship's variants and back to the base hull
func (m *Model) nextModification() {
	if m.page == nil || len(m.page.Modifications) == 0 {
		return
	}
	next := m.page.Modifications[0].Slug
	for i, link := range m.page.Modifications {
		if link.Slug == m.page.Selected {
			next = ""
			if i+1 < len(m.page.Modifications) {
				next = m.page.Modifications[i+1].Slug
			}
			break
		}
	}
	page, err := m.index.ShipPage(m.page.Slug, next)
	if err != nil {
		m.message = err.Error()
		return
	}
	m.page = page
}

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("Failed to load ship data") + "\n\n" +
			m.err.Error() + "\n\n" + helpStyle.Render("q quit") + "\n"
	}
	if !m.loaded {
		return titleStyle.Render("Sky Atlas") + "\n\n" + statusStyle.Render("Loading ship and outfit data...") + "\n"
	}
	if m.mode == modeDetail && m.page != nil {
		return m.viewDetail()
	}

	var b strings.Builder
	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")
	b.WriteString(m.grid.View())
	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	if m.mode == modeFilters {
		b.WriteString(m.viewFilters())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ move • space toggle • f close • q quit"))
	} else {
		b.WriteString(helpStyle.Render("tab table • ←/→ column • s sort • f filters • d details • q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewTabs() string {
	tabs := make([]string, len(m.tables))
	for i, t := range m.tables {
		if i == m.current {
			tabs[i] = activeTabStyle.Render(t.Title())
		} else {
			tabs[i] = tabStyle.Render(t.Title())
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	status := fmt.Sprintf("%d of %d shown", m.result.Shown, m.result.Total)
	if col, ok := m.result.Ordering.Column(); ok {
		status += fmt.Sprintf(" • sorted by %s %s", col, m.result.Ordering.Direction())
	}
	if m.message != "" {
		status += " • " + m.message
	}
	return statusStyle.Render(status)
}

func (m Model) viewFilters() string {
	var b strings.Builder
	var last table.Dimension
	for i, line := range m.filterLines() {
		if line.dim != last {
			if last != "" {
				b.WriteString("\n")
			}
			b.WriteString(titleStyle.Render(strings.ToUpper(string(line.dim))))
			b.WriteString("\n")
			last = line.dim
		}
		prefix := "  "
		if i == m.filterCursor {
			prefix = cursorStyle.Render("> ")
		}
		box, label := "[x] ", line.entry.Value
		if !line.entry.Included {
			box, label = "[ ] ", excludedStyle.Render(label)
		}
		b.WriteString(prefix + box + label + "\n")
	}
	return paneStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) viewDetail() string {
	p := m.page
	s := p.Ship

	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Name))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(strings.TrimSpace(s.Category + " • " + s.Race)))
	b.WriteString("\n\n")

	stats := [][2]string{
		{"Cost", FormatNumber(s.Cost)},
		{"Hull", FormatNumber(s.Hull)},
		{"Shields", FormatNumber(s.Shields)},
		{"Mass", FormatNumber(s.Mass)},
		{"Engine capacity", FormatNumber(s.EngineCapacity)},
		{"Weapon capacity", FormatNumber(s.WeaponCapacity)},
		{"Fuel capacity", FormatNumber(s.FuelCapacity)},
		{"Outfit space", FormatNumber(s.OutfitSpace)},
		{"Cargo space", FormatNumber(s.CargoSpace)},
		{"Crew / bunks", FormatCell(catalog.CrewBunks{Crew: s.RequiredCrew, Bunks: s.Bunks})},
		{"Licenses", strings.Join(s.Licenses, ", ")},
		{"Sprite", p.ImageURL},
	}
	for _, st := range stats {
		b.WriteString(fmt.Sprintf("%-16s %s\n", st[0], st[1]))
	}

	if len(p.Modifications) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Variants"))
		b.WriteString("\n")
		base := "  " + s.Name
		if p.Selected == p.Slug {
			base = cursorStyle.Render("> ") + s.Name
		}
		b.WriteString(base + "\n")
		for _, link := range p.Modifications {
			if link.Slug == p.Selected {
				b.WriteString(cursorStyle.Render("> ") + link.Name + "\n")
			} else {
				b.WriteString("  " + link.Name + "\n")
			}
		}
	}

	if len(p.Outfits) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Outfits"))
		b.WriteString("\n")
		for _, o := range p.Outfits {
			b.WriteString(fmt.Sprintf("%3d × %s\n", o.Quantity, o.Name))
		}
	}

	for _, line := range s.Description {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(max(m.width-2, 40)).Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("m next variant • esc back • q quit"))
	b.WriteString("\n")
	return b.String()
}

// Run starts the program on the terminal
func Run(ctx context.Context, loader *dataset.Loader, spriteBase string) error {
	p := tea.NewProgram(New(ctx, loader, spriteBase), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fmt.Errorf("load dataset: %w", fm.err)
	}
	return nil
}

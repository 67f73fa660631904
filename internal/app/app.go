package app

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tablefit"
	"tablefit/engine"
	"tablefit/grid"
	"tablefit/internal/config"
	"tablefit/internal/db"
	"tablefit/internal/ui"
	"tablefit/tui"
)

const sidebarWidth = 30

// pane is which half of the screen owns the keyboard.
type pane int

const (
	paneTables pane = iota
	paneData
)

// clockMsg drives the status bar's flash expiry.
type clockMsg struct{}

func clock() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return clockMsg{}
	})
}

// pageMsg carries one fetched page back to the app.
type pageMsg struct {
	name string
	page *db.TablePage
	pks  []string
	err  error
}

// reconnectedMsg carries the result of a reconnect attempt.
type reconnectedMsg struct {
	tables []string
	err    error
}

// Model wires the table sidebar, the fitted data pane, and the status
// bar together over one database session.
type Model struct {
	focus     pane
	sidebar   ui.Sidebar
	statusbar ui.StatusBar
	table     tui.Model
	hasTable  bool

	manager  *tablefit.Manager
	db       *db.DB
	profiles config.Profiles

	currentTable string
	offset       int
	total        int64

	width  int
	height int
}

// NewModel builds the root model over an open session. With debug set,
// fit events go to the default logger, which main points at a file.
func NewModel(database *db.DB, tables []string, profiles config.Profiles, debug bool) Model {
	sidebar := ui.NewSidebar(tables)
	sidebar.SetFocused(true)

	manager := tablefit.NewManager()
	if debug {
		manager.Subscribe(func(ev engine.Event) {
			log.Printf("tablefit: %s table=%s key=%q", ev.Kind, ev.Table, ev.Key)
		})
	}

	return Model{
		sidebar:   sidebar,
		statusbar: ui.NewStatusBar(),
		manager:   manager,
		db:        database,
		profiles:  profiles,
	}
}

// Init starts the flash-expiry clock.
func (m Model) Init() tea.Cmd {
	return clock()
}

// Update routes messages to the owning pane after handling the global
// ones itself.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		if m.hasTable {
			return m, m.table.RefitCmd()
		}
		return m, nil

	case clockMsg:
		m.statusbar.Tick()
		return m, clock()

	case spinner.TickMsg:
		// The spinner reschedules itself until loading ends.
		if m.statusbar.Loading() {
			return m, m.statusbar.UpdateSpinner(msg)
		}
		return m, nil

	case tui.RefitMsg:
		if !m.hasTable {
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		m.syncFitStatus()
		return m, cmd

	case ui.TablePickedMsg:
		m.statusbar.Flash("opening "+msg.Name, ui.LevelInfo)
		m.statusbar.SetLoading(true)
		return m, tea.Batch(m.loadTable(msg.Name, 0), m.statusbar.SpinnerTick())

	case pageMsg:
		m.statusbar.SetLoading(false)
		if msg.err != nil {
			m.statusbar.Flash(msg.err.Error(), ui.LevelError)
			return m, nil
		}
		return m.showPage(msg)

	case reconnectedMsg:
		if msg.err != nil {
			m.statusbar.Flash(msg.err.Error(), ui.LevelError)
			return m, nil
		}
		m.sidebar.SetTables(msg.tables)
		m.statusbar.Flash(fmt.Sprintf("reconnected, %d tables", len(msg.tables)), ui.LevelOK)
		if m.currentTable != "" {
			m.statusbar.SetLoading(true)
			return m, tea.Batch(m.loadTable(m.currentTable, m.offset), m.statusbar.SpinnerTick())
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab", "shift+tab":
			if m.focus == paneTables && m.sidebar.Filtering() {
				break
			}
			m.cycleFocus()
			return m, nil
		case "ctrl+r":
			m.statusbar.Flash("reconnecting", ui.LevelInfo)
			return m, m.reconnect()
		case "n":
			if m.canPage() && m.offset+db.DefaultPageSize < int(m.total) {
				m.statusbar.SetLoading(true)
				return m, tea.Batch(
					m.loadTable(m.currentTable, m.offset+db.DefaultPageSize),
					m.statusbar.SpinnerTick(),
				)
			}
		case "p":
			if m.canPage() && m.offset > 0 {
				next := max(m.offset-db.DefaultPageSize, 0)
				m.statusbar.SetLoading(true)
				return m, tea.Batch(m.loadTable(m.currentTable, next), m.statusbar.SpinnerTick())
			}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case paneTables:
		m.sidebar, cmd = m.sidebar.Update(msg)
		m.statusbar.SetFiltering(m.sidebar.Filtering())
	case paneData:
		if m.hasTable {
			m.table, cmd = m.table.Update(msg)
			m.syncFitStatus()
		}
	}
	return m, cmd
}

// View stacks the title bar, the two panes, and the status bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "starting"
	}

	title := ui.TitleBarStyle.Width(m.width).Render(
		fmt.Sprintf("pgbrowse │ %s", m.db.ConnInfo()),
	)

	dataW, paneH := m.paneSizes()
	var dataView string
	if m.hasTable {
		dataView = m.table.View()
	} else {
		dataView = placeholder(dataW, paneH)
	}

	middle := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), dataView)
	return lipgloss.JoinVertical(lipgloss.Left, title, middle, m.statusbar.View())
}

// placeholder fills the data pane before any table is opened.
func placeholder(w, h int) string {
	body := lipgloss.Place(max(w-2, 10), max(h-2, 3), lipgloss.Center, lipgloss.Center,
		ui.DimText.Render("select a table"))
	return ui.UnfocusedBorder.Render(body)
}

// showPage swaps the displayed grid for a freshly fetched page.
func (m Model) showPage(msg pageMsg) (tea.Model, tea.Cmd) {
	if m.hasTable {
		if err := m.manager.Detach(m.table.Table()); err != nil {
			m.statusbar.Flash("detach: "+err.Error(), ui.LevelError)
		}
		m.hasTable = false
	}

	tbl := buildGrid(msg.name, msg.page, msg.pks, m.profiles.Table(msg.name))
	ctrl, err := m.manager.Attach(tbl,
		tablefit.WithDetailsProvider(typedDetails(msg.page.ColumnTypes)),
	)
	if err != nil {
		m.statusbar.Flash("attach: "+err.Error(), ui.LevelError)
		return m, nil
	}

	m.table = tui.New(tbl, ctrl)
	m.table.SetFocused(m.focus == paneData)
	m.hasTable = true
	m.currentTable = msg.name
	m.offset = msg.page.Offset
	m.total = msg.page.Total
	m.layout()
	m.syncFitStatus()

	start := msg.page.Offset + 1
	end := msg.page.Offset + len(msg.page.Rows)
	if len(msg.page.Rows) == 0 {
		start = 0
	}
	m.statusbar.SetPageInfo(start, end, msg.page.Total, msg.page.ExecTime)
	m.statusbar.Flash("loaded "+msg.name, ui.LevelOK)

	return m, m.table.RefitCmd()
}

func (m Model) canPage() bool {
	return m.hasTable && m.focus == paneData && m.currentTable != ""
}

func (m *Model) cycleFocus() {
	if m.focus == paneTables && m.hasTable {
		m.focus = paneData
	} else {
		m.focus = paneTables
	}
	m.sidebar.SetFocused(m.focus == paneTables)
	m.table.SetFocused(m.focus == paneData)
	m.statusbar.SetPane(int(m.focus))
}

func (m *Model) syncFitStatus() {
	if !m.hasTable {
		m.statusbar.SetHiddenColumns(0)
		return
	}
	if ctrl, ok := m.manager.Controller(m.table.Table()); ok {
		m.statusbar.SetHiddenColumns(ctrl.Hidden().Len())
	}
}

// paneSizes is the one place the split is computed: title and status
// bars take a row each, the sidebar a fixed strip on the left.
func (m Model) paneSizes() (dataW, paneH int) {
	return m.width - sidebarWidth - 1, max(m.height-3, 6)
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	dataW, paneH := m.paneSizes()
	m.sidebar.SetSize(sidebarWidth, paneH)
	if m.hasTable {
		m.table.SetSize(dataW, paneH)
	}
	m.statusbar.SetWidth(m.width)
}

func (m *Model) loadTable(name string, offset int) tea.Cmd {
	database := m.db
	return func() tea.Msg {
		pks, err := database.PrimaryKeys(name)
		if err != nil {
			return pageMsg{err: fmt.Errorf("primary keys: %w", err)}
		}
		page, err := database.FetchPage(name, pks, offset, db.DefaultPageSize)
		if err != nil {
			return pageMsg{err: fmt.Errorf("fetch %s: %w", name, err)}
		}
		return pageMsg{name: name, page: page, pks: pks}
	}
}

func (m *Model) reconnect() tea.Cmd {
	database := m.db
	return func() tea.Msg {
		if err := database.Reconnect(); err != nil {
			return reconnectedMsg{err: fmt.Errorf("reconnect: %w", err)}
		}
		tables, err := database.ListTables()
		if err != nil {
			return reconnectedMsg{err: fmt.Errorf("list tables: %w", err)}
		}
		return reconnectedMsg{tables: tables}
	}
}

// buildGrid turns a fetched page into a grid with fit attributes:
// profile overrides first, then primary keys locked at priority 1, and
// everything else hiding in positional order. Rows with a primary key
// carry stable keys so expansion survives reloads of the same page.
func buildGrid(name string, page *db.TablePage, pks []string, profile config.TableProfile) *grid.Table {
	pkSet := make(map[string]bool, len(pks))
	for _, pk := range pks {
		pkSet[pk] = true
	}

	var pkIdx []int
	cols := make([]*grid.HeaderCell, 0, len(page.Columns))
	for i, colName := range page.Columns {
		var opts []grid.ColOption
		p := profile[colName]
		switch {
		case p.Priority > 0:
			opts = append(opts, grid.Priority(p.Priority))
		case pkSet[colName]:
			opts = append(opts, grid.Priority(1))
		}
		if p.MinWidth > 0 {
			opts = append(opts, grid.MinWidth(p.MinWidth))
		}
		if p.Label != "" {
			opts = append(opts, grid.Label(p.Label))
		}
		cols = append(cols, grid.Col(colName, opts...))
		if pkSet[colName] {
			pkIdx = append(pkIdx, i)
		}
	}

	tbl := grid.New("tbl-"+name, cols...)
	for _, row := range page.Rows {
		if len(pkIdx) > 0 {
			parts := make([]string, len(pkIdx))
			for j, i := range pkIdx {
				parts[j] = row[i]
			}
			tbl.AppendKeyedRow(name+"/"+strings.Join(parts, "/"), row...)
		} else {
			tbl.AppendRow(row...)
		}
	}
	return tbl
}

// typedDetails annotates hidden-column labels with their data types.
// Engine column index i maps to fetched column i-1, past the control
// column.
func typedDetails(types []string) engine.DetailsProvider {
	return func(row engine.RowView) ([]engine.Field, bool) {
		fields := make([]engine.Field, 0, len(row.Hidden))
		for _, ci := range row.Hidden {
			if ci == 0 || ci >= len(row.Labels) {
				continue
			}
			label := row.Labels[ci]
			if ti := ci - 1; ti < len(types) {
				label = fmt.Sprintf("%s (%s)", label, types[ti])
			}
			var value string
			if ci < len(row.Cells) {
				value = row.Cells[ci]
			}
			fields = append(fields, engine.Field{Label: label, Value: value})
		}
		return fields, true
	}
}

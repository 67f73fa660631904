package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tablefit/internal/config"
	"tablefit/internal/db"
	"tablefit/internal/ui"
)

type pickerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	New    key.Binding
	Delete key.Binding
	Quit   key.Binding
}

func defaultPickerKeys() pickerKeys {
	return pickerKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "connect")),
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Delete: key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// pickerModel offers the saved connections before the browser proper
// starts. Picking one dials it; n falls through to the blank form.
type pickerModel struct {
	store   *config.Config
	keys    pickerKeys
	cursor  int
	dialing string
	errMsg  string

	session *db.DB
	tables  []string
	wantNew bool
	done    bool
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.dialing != "" {
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		}
		return m.handleKey(msg)

	case openedMsg:
		m.dialing = ""
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.session = msg.session
		m.tables = msg.tables
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m pickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.store.Connections)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.New):
		m.wantNew = true
		m.done = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Delete):
		return m.deleteSelected()

	case key.Matches(msg, m.keys.Open):
		if len(m.store.Connections) == 0 {
			return m, nil
		}
		saved := m.store.Connections[m.cursor]
		m.dialing = saved.Name
		m.errMsg = ""
		return m, openCmd(func() (*db.DB, error) {
			if saved.URI != "" {
				return db.ConnectURI(saved.URI)
			}
			return db.Connect(saved.Host, saved.Port, saved.User, saved.Password, saved.Database)
		})
	}

	return m, nil
}

func (m pickerModel) deleteSelected() (tea.Model, tea.Cmd) {
	if len(m.store.Connections) == 0 {
		return m, nil
	}
	m.store.Delete(m.cursor)
	if err := m.store.Save(); err != nil {
		m.errMsg = err.Error()
	}
	if m.cursor >= len(m.store.Connections) && m.cursor > 0 {
		m.cursor--
	}
	if len(m.store.Connections) == 0 {
		// Nothing left to pick from, fall through to the form.
		m.wantNew = true
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// hintLine renders key bindings as a one-line footer hint.
func hintLine(bs ...key.Binding) string {
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

func (m pickerModel) View() string {
	var b strings.Builder

	b.WriteString(banner.Render("pgbrowse"))
	b.WriteString("\n\n")
	b.WriteString(ui.TitleStyle.Render("  Saved connections"))
	b.WriteString("\n\n")

	for i, conn := range m.store.Connections {
		marker, name := "    ", conn.Name
		if i == m.cursor {
			marker = "  ▸ "
			name = ui.AccentText.Bold(true).Render(name)
		}
		b.WriteString(marker + name + ui.DimText.Render("  "+conn.Target()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(ui.ErrorText.Render("  " + m.errMsg))
		b.WriteString("\n\n")
	}

	if m.dialing != "" {
		b.WriteString(ui.DimText.Render("  connecting to " + m.dialing))
	} else {
		b.WriteString(ui.DimText.Render("  " + hintLine(m.keys.Open, m.keys.New, m.keys.Delete, m.keys.Quit)))
	}
	b.WriteString("\n")

	return b.String()
}

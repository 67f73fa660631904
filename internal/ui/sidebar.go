package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	runewidth "github.com/mattn/go-runewidth"
)

// TablePickedMsg reports the table chosen in the sidebar.
type TablePickedMsg struct {
	Name string
}

// Sidebar lists the browsable tables. A "/" filter narrows the list by
// case-insensitive subsequence, the way fuzzy finders do.
type Sidebar struct {
	all     []string
	shown   []string
	cursor  int
	top     int
	open    string
	focused bool
	typing  bool
	query   textinput.Model
	width   int
	height  int
}

// NewSidebar builds the sidebar over the connection's table names.
func NewSidebar(tables []string) Sidebar {
	q := textinput.New()
	q.Prompt = "/"
	q.Placeholder = "filter"
	q.CharLimit = 48
	q.PromptStyle = AccentText
	q.TextStyle = AccentText
	return Sidebar{all: tables, shown: tables, query: q}
}

// SetFocused sets whether the sidebar receives keys.
func (s *Sidebar) SetFocused(f bool) { s.focused = f }

// Focused reports whether the sidebar receives keys.
func (s Sidebar) Focused() bool { return s.focused }

// Filtering reports whether the filter input is capturing keys.
func (s Sidebar) Filtering() bool { return s.typing }

// SetSize sets the rendered dimensions, border included.
func (s *Sidebar) SetSize(w, h int) {
	s.width = w
	s.height = h
}

// SetTables swaps the table list, keeping any active filter applied.
func (s *Sidebar) SetTables(tables []string) {
	s.all = tables
	s.refine()
}

// Selected returns the name of the table currently open.
func (s Sidebar) Selected() string { return s.open }

// Init satisfies tea.Model.
func (s Sidebar) Init() tea.Cmd { return nil }

// Update handles navigation and filter keys while focused.
func (s Sidebar) Update(msg tea.Msg) (Sidebar, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok || !s.focused {
		return s, nil
	}
	if s.typing {
		return s.updateQuery(k)
	}

	switch k.String() {
	case "up", "k":
		s.move(-1)
	case "down", "j":
		s.move(1)
	case "g":
		s.cursor, s.top = 0, 0
	case "G":
		s.move(len(s.shown))
	case "/":
		s.typing = true
		return s, s.query.Focus()
	case "enter":
		return s.pick()
	}
	return s, nil
}

func (s Sidebar) updateQuery(k tea.KeyMsg) (Sidebar, tea.Cmd) {
	switch k.String() {
	case "esc":
		s.typing = false
		s.query.Blur()
		s.query.SetValue("")
		s.refine()
		return s, nil
	case "enter":
		s.typing = false
		s.query.Blur()
		return s.pick()
	}

	var cmd tea.Cmd
	s.query, cmd = s.query.Update(k)
	s.refine()
	return s, cmd
}

func (s Sidebar) pick() (Sidebar, tea.Cmd) {
	if s.cursor >= len(s.shown) {
		return s, nil
	}
	s.open = s.shown[s.cursor]
	name := s.open
	return s, func() tea.Msg { return TablePickedMsg{Name: name} }
}

func (s *Sidebar) move(delta int) {
	s.cursor = max(min(s.cursor+delta, len(s.shown)-1), 0)
	s.scroll()
}

// scroll keeps the cursor inside the visible window.
func (s *Sidebar) scroll() {
	rows := s.listRows()
	if s.cursor < s.top {
		s.top = s.cursor
	}
	if s.cursor >= s.top+rows {
		s.top = s.cursor - rows + 1
	}
	if s.top < 0 {
		s.top = 0
	}
}

func (s *Sidebar) refine() {
	if q := s.query.Value(); q == "" {
		s.shown = s.all
	} else {
		var out []string
		for _, name := range s.all {
			if subseqFold(name, q) {
				out = append(out, name)
			}
		}
		s.shown = out
	}
	s.cursor = max(min(s.cursor, len(s.shown)-1), 0)
	s.scroll()
}

// subseqFold reports whether every rune of query appears in name in
// order, ignoring case, so "ord" matches both orders and purchase_orders.
func subseqFold(name, query string) bool {
	name = strings.ToLower(name)
	for _, r := range strings.ToLower(query) {
		i := strings.IndexRune(name, r)
		if i < 0 {
			return false
		}
		name = name[i+utf8.RuneLen(r):]
	}
	return true
}

// listRows is how many table names fit under the title and filter lines.
func (s Sidebar) listRows() int {
	return max(s.height-4, 1)
}

// View renders the bordered list.
func (s Sidebar) View() string {
	frame := UnfocusedBorder
	if s.focused {
		frame = FocusedBorder
	}
	w := max(s.width-2, 8)
	h := max(s.height-2, 3)

	lines := make([]string, 0, h)
	lines = append(lines,
		TitleStyle.Render("Tables")+DimText.Render(fmt.Sprintf(" %d", len(s.shown))))
	if s.typing || s.query.Value() != "" {
		lines = append(lines, s.query.View())
	} else {
		lines = append(lines, CaptionStyle.Render(" public schema"))
	}

	if len(s.shown) == 0 {
		lines = append(lines, DimText.Render(" no tables"))
	}
	end := min(s.top+s.listRows(), len(s.shown))
	for i := s.top; i < end; i++ {
		name := runewidth.Truncate(s.shown[i], w-2, "…")
		st := ListItem
		switch {
		case i == s.cursor && s.focused && !s.typing:
			st = ListCursor
		case s.shown[i] == s.open:
			st = ListOpen
		}
		lines = append(lines, st.Width(w).Render(name))
	}

	body := lipgloss.NewStyle().Width(w).Height(h).Render(strings.Join(lines, "\n"))
	return frame.Render(body)
}

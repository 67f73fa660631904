// pgbrowse is a terminal browser for Postgres tables. Columns adapt to
// the terminal width and whatever cannot fit stays reachable through
// per-row detail panes.
package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tablefit"
	"tablefit/internal/app"
	"tablefit/internal/config"
	"tablefit/internal/db"
	"tablefit/internal/ui"
)

var banner = lipgloss.NewStyle().Foreground(ui.ColorAccent).Bold(true)

func main() {
	debug := os.Getenv("PGBROWSE_DEBUG") != ""
	if debug {
		f, err := tea.LogToFile("pgbrowse.log", "debug")
		if err != nil {
			fail(err)
		}
		defer f.Close()
		tablefit.SetDiagnostics(log.Default())
	}

	session, tables, err := openSession()
	if err != nil {
		fail(err)
	}
	if session == nil {
		// User backed out before connecting.
		return
	}
	defer session.Close()

	profiles, err := config.LoadProfiles()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		profiles = config.Profiles{}
	}

	p := tea.NewProgram(app.NewModel(session, tables, profiles, debug), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fail(err)
	}
}

// openSession resolves a database session: the PGBROWSE_URL environment
// variable wins, then the saved-connection picker, then the form. A nil
// session with a nil error means the user quit.
func openSession() (*db.DB, []string, error) {
	if uri := os.Getenv("PGBROWSE_URL"); uri != "" {
		session, err := db.ConnectURI(uri)
		if err != nil {
			return nil, nil, err
		}
		return withTables(session)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if len(cfg.Connections) > 0 {
		final, err := tea.NewProgram(pickerModel{store: cfg, keys: defaultPickerKeys()}, tea.WithAltScreen()).Run()
		if err != nil {
			return nil, nil, err
		}
		pm, ok := final.(pickerModel)
		if !ok || !pm.done {
			return nil, nil, nil
		}
		if !pm.wantNew {
			return pm.session, pm.tables, nil
		}
	}

	final, err := tea.NewProgram(newConnectModel(cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, nil, err
	}
	cm, ok := final.(connectModel)
	if !ok || !cm.done {
		return nil, nil, nil
	}
	return cm.session, cm.tables, nil
}

// withTables lists the session's tables, closing it when that fails.
// Both startup paths need the list before the browser can draw.
func withTables(session *db.DB) (*db.DB, []string, error) {
	tables, err := session.ListTables()
	if err != nil {
		session.Close()
		return nil, nil, fmt.Errorf("list tables: %w", err)
	}
	return session, tables, nil
}

// openedMsg reports the outcome of a dial started by the picker or the
// form.
type openedMsg struct {
	session *db.DB
	tables  []string
	err     error
}

// openCmd runs dial off the update loop and follows it with the table
// listing every session needs.
func openCmd(dial func() (*db.DB, error)) tea.Cmd {
	return func() tea.Msg {
		session, err := dial()
		if err != nil {
			return openedMsg{err: err}
		}
		session, tables, err := withTables(session)
		return openedMsg{session: session, tables: tables, err: err}
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

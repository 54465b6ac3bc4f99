package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicer/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/database"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/importer/csvfile"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/invoicer/internal/invoice/store"
	"github.com/MrJamesThe3rd/invoicer/internal/logging"
)

type model struct {
	importService  *importer.Service
	invoiceService *invoice.Service

	currentView View

	importView view.ImportModel
	listView   view.ListModel
}

type View int

const (
	ViewMenu   View = 0
	ViewImport View = 1
	ViewList   View = 2
)

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", err)
	}

	// stdout belongs to the TUI
	logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		fatal("failed to connect to database", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		fatal("failed to migrate database", err)
	}

	delimiter, err := cfg.DelimiterRune()
	if err != nil {
		fatal("invalid delimiter", err)
	}

	reader, err := csvfile.NewReader(cfg.Import.BaseDir, delimiter)
	if err != nil {
		fatal("failed to create reader", err)
	}

	schema, err := cfg.Schema()
	if err != nil {
		fatal("failed to load schema", err)
	}

	impSvc, err := importer.NewService(reader, schema)
	if err != nil {
		fatal("failed to create importer", err)
	}

	invSvc := invoice.NewService(invoiceStore.New(db))

	return model{
		importService:  impSvc,
		invoiceService: invSvc,
		currentView:    ViewMenu,
		importView:     view.NewImportModel(impSvc, invSvc),
		listView:       view.NewListModel(invSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.importService, m.invoiceService)

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.invoiceService)

				return m, m.listView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Invoicer TUI\n\n" +
				"1. Import Invoice File\n" +
				"2. Browse Invoices\n\n" +
				"q. Quit",
		)
	case ViewImport:
		return m.importView.View() + "\n" + helpStyle.Render(m.importView.ShortHelp())
	case ViewList:
		return m.listView.View() + "\n" + helpStyle.Render(m.listView.ShortHelp())
	}

	return "Unknown View"
}

var helpStyle = lipgloss.NewStyle().Faint(true).PaddingLeft(2)

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

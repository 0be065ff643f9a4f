package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/ahorros/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/ahorros/internal/config"
	"github.com/MrJamesThe3rd/ahorros/internal/export"
	"github.com/MrJamesThe3rd/ahorros/internal/goal"
	"github.com/MrJamesThe3rd/ahorros/internal/importer"
	"github.com/MrJamesThe3rd/ahorros/internal/store"
	"github.com/MrJamesThe3rd/ahorros/internal/transaction"
)

type model struct {
	appName string
	docs    *store.Store

	txService     *transaction.Service
	goalService   *goal.Service
	importService *importer.Service
	exportService *export.Service

	currentView View
	size        tea.WindowSizeMsg

	dashboardView    view.DashboardModel
	transactionsView view.TransactionsModel
	goalsView        view.GoalsModel
	importView       view.ImportModel
	simulatorView    view.SimulatorModel
	exportView       view.ExportModel
}

type View int

const (
	ViewMenu View = iota
	ViewDashboard
	ViewTransactions
	ViewGoals
	ViewImport
	ViewSimulator
	ViewExport
)

func initialModel() (model, func() error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	docs, closeStore, err := store.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}

	txSvc := transaction.NewService(docs.Transactions())
	goalSvc := goal.NewService(docs.Goals())

	var importOpts []importer.Option
	if d, ok := cfg.ImportDelimiter(); ok {
		importOpts = append(importOpts, importer.WithDelimiter(d))
	}

	impSvc := importer.NewService(txSvc, docs, importOpts...)
	expSvc := export.NewService(docs)

	return model{
		appName:       cfg.App.Name,
		docs:          docs,
		txService:     txSvc,
		goalService:   goalSvc,
		importService: impSvc,
		exportService: expSvc,
		currentView:   ViewMenu,
	}, closeStore
}

func (m model) Init() tea.Cmd {
	return nil
}

// open switches to v with a fresh screen model so every visit reloads data.
func (m model) open(v View) (tea.Model, tea.Cmd) {
	m.currentView = v

	var cmd tea.Cmd

	switch v {
	case ViewDashboard:
		m.dashboardView = view.NewDashboardModel(m.docs)
		cmd = m.dashboardView.Init()
	case ViewTransactions:
		m.transactionsView = view.NewTransactionsModel(m.txService, m.docs)
		cmd = m.transactionsView.Init()
	case ViewGoals:
		m.goalsView = view.NewGoalsModel(m.goalService, m.docs)
		cmd = m.goalsView.Init()
	case ViewImport:
		m.importView = view.NewImportModel(m.importService)
		cmd = m.importView.Init()
	case ViewSimulator:
		m.simulatorView = view.NewSimulatorModel(m.docs)
		cmd = m.simulatorView.Init()
	case ViewExport:
		m.exportView = view.NewExportModel(m.exportService, m.docs)
		cmd = m.exportView.Init()
	}

	if m.size.Width > 0 {
		size := m.size
		cmd = tea.Batch(cmd, func() tea.Msg { return size })
	}

	return m, cmd
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				return m.open(ViewDashboard)
			case "2":
				return m.open(ViewTransactions)
			case "3":
				return m.open(ViewGoals)
			case "4":
				return m.open(ViewImport)
			case "5":
				return m.open(ViewSimulator)
			case "6":
				return m.open(ViewExport)
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	var cmd tea.Cmd

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewGoals:
		var newModel tea.Model
		newModel, cmd = m.goalsView.Update(msg)
		m.goalsView = newModel.(view.GoalsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewSimulator:
		var newModel tea.Model
		newModel, cmd = m.simulatorView.Update(msg)
		m.simulatorView = newModel.(view.SimulatorModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Dashboard\n" +
				"2. Transactions\n" +
				"3. Savings Goals\n" +
				"4. Import / Restore\n" +
				"5. Savings Simulator\n" +
				"6. Backup\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewGoals:
		return m.goalsView.View()
	case ViewImport:
		return m.importView.View()
	case ViewSimulator:
		return m.simulatorView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	m, closeStore := initialModel()
	defer closeStore()

	// The screen belongs to bubbletea from here on; service logs go to a file.
	logFile, err := tea.LogToFile(filepath.Join(os.TempDir(), "ahorros-tui.log"), "")
	if err == nil {
		defer logFile.Close()
		slog.SetDefault(slog.New(slog.NewTextHandler(logFile, nil)))
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		closeStore()
		os.Exit(1)
	}
}

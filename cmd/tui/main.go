package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/fintrack/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/fintrack/internal/app"
	"github.com/MrJamesThe3rd/fintrack/internal/config"
	"github.com/MrJamesThe3rd/fintrack/internal/logging"
)

type model struct {
	app *app.App

	currentView View
	size        tea.WindowSizeMsg

	ledgerView  view.LedgerModel
	importView  view.ImportModel
	invoiceView view.InvoiceModel
	backupView  view.BackupModel
}

type View int

const (
	ViewMenu    View = 0
	ViewLedger  View = 1
	ViewImport  View = 2
	ViewInvoice View = 3
	ViewBackup  View = 4
)

func initialModel(a *app.App) model {
	return model{
		app:         a,
		currentView: ViewMenu,
		ledgerView:  view.NewLedgerModel(a.Ledger, a.Settings),
		importView:  view.NewImportModel(a.Ledger, a.Importer),
		invoiceView: view.NewInvoiceModel(a.Invoices),
		backupView:  view.NewBackupModel(a.Backup),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

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
				m.currentView = ViewLedger
				m.ledgerView = resized(view.NewLedgerModel(m.app.Ledger, m.app.Settings), m.size)

				return m, m.ledgerView.Init()
			case "2":
				m.currentView = ViewImport
				m.importView = resized(view.NewImportModel(m.app.Ledger, m.app.Importer), m.size)

				return m, m.importView.Init()
			case "3":
				m.currentView = ViewInvoice
				m.invoiceView = resized(view.NewInvoiceModel(m.app.Invoices), m.size)

				return m, m.invoiceView.Init()
			case "4":
				m.currentView = ViewBackup
				m.backupView = resized(view.NewBackupModel(m.app.Backup), m.size)

				return m, m.backupView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewLedger:
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewInvoice:
		var newModel tea.Model
		newModel, cmd = m.invoiceView.Update(msg)
		m.invoiceView = newModel.(view.InvoiceModel)
	case ViewBackup:
		var newModel tea.Model
		newModel, cmd = m.backupView.Update(msg)
		m.backupView = newModel.(view.BackupModel)
	}

	return m, cmd
}

// resized replays the last known terminal size into a freshly built screen.
func resized[T tea.Model](v T, size tea.WindowSizeMsg) T {
	if size.Height == 0 {
		return v
	}

	next, _ := v.Update(size)

	return next.(T)
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"FinTrack\n\n" +
				"1. Ledger\n" +
				"2. Import CSV\n" +
				"3. Invoices\n" +
				"4. Backup\n\n" +
				"q. Quit",
		)
	case ViewLedger:
		return m.ledgerView.View()
	case ViewImport:
		return m.importView.View()
	case ViewInvoice:
		return m.invoiceView.View()
	case ViewBackup:
		return m.backupView.View()
	}

	return "Unknown View"
}

// logOutput opens the TUI log file. The terminal belongs to bubbletea, so
// nothing may be written to stderr while the program runs.
func logOutput() (io.WriteCloser, error) {
	return os.OpenFile(filepath.Join(os.TempDir(), "fintrack-tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := logOutput()
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	if _, err := logging.New(logFile, cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	a, err := app.Open(context.Background(), cfg)
	if err != nil {
		return err
	}

	_, runErr := tea.NewProgram(initialModel(a), tea.WithAltScreen()).Run()

	if err := a.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("closing store: %w", err)
	}

	return runErr
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

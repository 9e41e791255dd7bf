package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fintrack/internal/backup"
)

const backupTimeout = 2 * time.Minute

type backupState int

const (
	backupStateMenu backupState = iota
	backupStatePath
	backupStatePick
	backupStateConfirm
	backupStateWorking
	backupStateResult
)

// BackupModel exports the store to a zip archive or restores one.
type BackupModel struct {
	CommonModel
	backupService *backup.Service

	state   backupState
	cursor  int
	current backup.Counts

	form       *huh.Form
	dir        *string
	confirm    *bool
	filePicker filepicker.Model
	archive    string

	spinner spinner.Model
	result  string
	err     error
}

var backupActions = []string{"Export backup", "Restore from backup"}

func NewBackupModel(svc *backup.Service) BackupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".zip"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return BackupModel{
		backupService: svc,
		spinner:       s,
		filePicker:    fp,
		dir:           new("."),
		confirm:       new(false),
	}
}

func (m BackupModel) Title() string { return "Backup" }

func (m BackupModel) ShortHelp() string {
	switch m.state {
	case backupStateResult:
		return "Esc: back"
	case backupStateWorking:
		return "Working..."
	}

	return "Esc: back | Enter: confirm"
}

func (m BackupModel) Init() tea.Cmd {
	return m.previewCmd()
}

func (m BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case backupPreviewMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = backupStateResult

			return m, nil
		}

		m.current = msg.counts

		return m, nil

	case backupDoneMsg:
		m.state = backupStateResult
		m.err = msg.err
		m.result = msg.result

		return m, m.previewCmd()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}
	}

	switch m.state {
	case backupStateMenu:
		return m.updateMenu(msg)
	case backupStatePath, backupStateConfirm:
		return m.updateForm(msg)
	case backupStatePick:
		return m.updatePick(msg)
	case backupStateWorking:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m BackupModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case backupStateMenu:
		return m, Back
	case backupStateWorking:
		return m, nil
	}

	m.state = backupStateMenu
	m.form = nil
	m.err = nil

	return m, nil
}

func (m BackupModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(backupActions)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		if m.cursor == 0 {
			m.form = huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Key("dir").
						Title("Output Directory").
						Description("The archive is named fintrack_backup_<date>.zip").
						Value(m.dir),
				),
			).WithWidth(50).WithShowHelp(false)
			m.state = backupStatePath

			return m, m.form.Init()
		}

		m.state = backupStatePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m BackupModel) updatePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.archive = path
		*m.confirm = false
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Replace all data?").
					Description(fmt.Sprintf("Current data (%d entries, %d invoices, %d clients) will be replaced by %s.",
						m.current.Entries, m.current.Invoices, m.current.Clients, filepath.Base(path))).
					Affirmative("Replace").
					Negative("Cancel").
					Value(m.confirm),
			),
		).WithWidth(60).WithShowHelp(false)
		m.state = backupStateConfirm

		return m, m.form.Init()
	}

	return m, cmd
}

func (m BackupModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == backupStateConfirm && !*m.confirm {
		m.state = backupStateMenu
		m.form = nil

		return m, nil
	}

	work := m.exportCmd(*m.dir)
	if m.state == backupStateConfirm {
		work = m.importCmd(m.archive)
	}

	m.state = backupStateWorking
	m.form = nil

	return m, tea.Batch(m.spinner.Tick, work)
}

func (m BackupModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case backupStateMenu:
		s := fmt.Sprintf("Stored: %d entries, %d invoices, %d clients\n\n",
			m.current.Entries, m.current.Invoices, m.current.Clients)

		for i, a := range backupActions {
			cursor := " "
			if i == m.cursor {
				cursor = ">"
			}

			s += fmt.Sprintf("%s %s\n", cursor, a)
		}

		return style.Render(s + "\n(Enter to select, Esc to back)")

	case backupStatePath, backupStateConfirm:
		return style.Render(m.form.View())

	case backupStatePick:
		return style.Render("Select a backup archive:\n\n" + m.filePicker.View())

	case backupStateWorking:
		return style.Render(m.spinner.View() + " Working...")

	case backupStateResult:
		if m.err != nil {
			return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
		}

		return style.Render(successStyle.Render(m.result) + "\n\n(Esc to go back)")
	}

	return ""
}

// Messages

type backupPreviewMsg struct {
	counts backup.Counts
	err    error
}

type backupDoneMsg struct {
	result string
	err    error
}

func (m BackupModel) previewCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		counts, err := m.backupService.Preview(ctx)

		return backupPreviewMsg{counts: counts, err: err}
	}
}

func (m BackupModel) exportCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
		defer cancel()

		archive, err := m.backupService.Export(ctx)
		if err != nil {
			return backupDoneMsg{err: err}
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return backupDoneMsg{err: err}
		}

		path := filepath.Join(dir, archive.Name)
		if err := os.WriteFile(path, archive.Data, 0o644); err != nil {
			return backupDoneMsg{err: err}
		}

		return backupDoneMsg{result: "Backup written to " + path}
	}
}

func (m BackupModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return backupDoneMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
		defer cancel()

		counts, err := m.backupService.Import(ctx, data)
		if err != nil {
			return backupDoneMsg{err: err}
		}

		return backupDoneMsg{result: fmt.Sprintf("Restored %d entries, %d invoices, %d clients.",
			counts.Entries, counts.Invoices, counts.Clients)}
	}
}

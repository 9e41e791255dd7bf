package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fintrack/internal/importer"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFormatSelect importState = iota
	importStateFilePick
	importStateParsing
	importStatePreview
	importStateResult
)

// ImportModel reads a CSV file, shows the parsed rows and appends them to
// the ledger once confirmed.
type ImportModel struct {
	CommonModel
	ledgerService *ledger.Service
	importService *importer.Service

	state        importState
	filePicker   filepicker.Model
	formats      []importer.Format
	formatCursor int

	pending     []ledger.CreateParams
	previewList list.Model

	status string
	err    error
}

func NewImportModel(ledgerSvc *ledger.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		ledgerService: ledgerSvc,
		importService: impSvc,
		filePicker:    fp,
		formats:       impSvc.Formats(),
	}
}

func (m ImportModel) Title() string { return "Import CSV" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Enter: import all | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return nil
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateFormatSelect:
			return m.updateFormatSelect(msg)
		case importStatePreview:
			return m.updatePreview(msg)
		}

	case parsedMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.params) == 0 {
			m.state = importStateResult
			m.status = "The file has no entries to import."

			return m, nil
		}

		m.pending = msg.params
		m.state = importStatePreview

		items := make([]list.Item, len(msg.params))
		for i, p := range msg.params {
			items[i] = pendingItem{params: p}
		}

		m.previewList = list.New(items, pendingDelegate{}, 80, 20)
		m.previewList.Title = fmt.Sprintf("%d entries to import", len(items))
		m.previewList.SetShowStatusBar(false)
		m.previewList.SetFilteringEnabled(false)
		m.previewList.SetShowHelp(false)

		return m, nil

	case importedMsg:
		m.state = importStateResult
		m.pending = nil

		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d entries.", msg.count)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateParsing
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.parseCmd(m.formats[m.formatCursor], path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick, importStatePreview, importStateResult:
		m.state = importStateFormatSelect
		m.pending = nil
		m.err = nil
		m.status = ""

		return m, nil
	case importStateParsing:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateFormatSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.formatCursor > 0 {
			m.formatCursor--
		}
	case tea.KeyDown:
		if m.formatCursor < len(m.formats)-1 {
			m.formatCursor++
		}
	case tea.KeyEnter:
		if len(m.formats) == 0 {
			return m, nil
		}

		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		m.state = importStateParsing
		m.status = fmt.Sprintf("Importing %d entries...", len(m.pending))

		return m, m.importCmd(m.pending)
	}

	var cmd tea.Cmd
	m.previewList, cmd = m.previewList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFormatSelect:
		return m.viewFormatSelect()
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select file to import (%s):\n\n%s", m.formats[m.formatCursor], m.filePicker.View()),
		)
	case importStateParsing:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return lipgloss.NewStyle().Padding(1).Render(m.previewList.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewFormatSelect() string {
	s := "Select Format:\n\n"

	for i, f := range m.formats {
		cursor := " "
		if i == m.formatCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, f)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(successStyle.Render(m.status) + "\n\n(Esc to go back)")
}

// Messages

type parsedMsg struct {
	params []ledger.CreateParams
	err    error
}

type importedMsg struct {
	count int
	err   error
}

func (m ImportModel) parseCmd(format importer.Format, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parsedMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Parse(format, f)

		return parsedMsg{params: params, err: err}
	}
}

func (m ImportModel) importCmd(params []ledger.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		entries, err := m.ledgerService.ImportBatch(ctx, params)
		if err != nil {
			return importedMsg{err: err}
		}

		return importedMsg{count: len(entries)}
	}
}

// Preview list

type pendingItem struct {
	params ledger.CreateParams
}

func (i pendingItem) FilterValue() string { return i.params.Description }

type pendingDelegate struct{}

func (d pendingDelegate) Height() int                             { return 1 }
func (d pendingDelegate) Spacing() int                            { return 0 }
func (d pendingDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d pendingDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(pendingItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	p := item.params

	amount := creditStyle.Render("+" + p.Amount)
	if p.Type == ledger.TypeExpense {
		amount = expenseStyle.Render("-" + p.Amount)
	}

	line := fmt.Sprintf("%s%s  %10s  %s", cursor, p.Date, amount, p.Description)
	if p.Category != "" {
		line += lipgloss.NewStyle().Faint(true).Render("  [" + p.Category + "]")
	}

	_, _ = fmt.Fprintln(w, line)
}

package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
	"github.com/MrJamesThe3rd/fintrack/internal/settings"
)

type ledgerState int

const (
	ledgerStateBrowse ledgerState = iota
	ledgerStateTimeframe
	ledgerStateAdd
	ledgerStateConfirmDelete
)

// LedgerModel shows entries oldest first with the running balance, and lets
// the user add or delete entries.
type LedgerModel struct {
	CommonModel
	ledgerService   *ledger.Service
	settingsService *settings.Service

	state  ledgerState
	table  table.Model
	sorted ledger.Sorted
	symbol string

	picker      TimeframePicker
	filter      ledger.ListFilter
	filterLabel string

	// Form bindings live behind pointers so they survive model copies.
	form    *huh.Form
	draft   *entryDraft
	confirm *bool

	loading bool
	err     error
	status  string
}

// entryDraft holds the add-entry form bindings.
type entryDraft struct {
	date        string
	description string
	amount      string
	typ         ledger.Type
	category    string
}

func NewLedgerModel(ledgerSvc *ledger.Service, settingsSvc *settings.Service) LedgerModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Description", Width: 30},
		{Title: "Category", Width: 16},
		{Title: "Type", Width: 8},
		{Title: "Amount", Width: 12},
		{Title: "Balance", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return LedgerModel{
		ledgerService:   ledgerSvc,
		settingsService: settingsSvc,
		table:           t,
		picker:          NewTimeframePicker(TimeframeAll),
		filterLabel:     TimeframeAll.String(),
		loading:         true,
	}
}

func (m LedgerModel) Title() string { return "Ledger" }

func (m LedgerModel) ShortHelp() string {
	switch m.state {
	case ledgerStateAdd:
		return "Navigate form | Esc: cancel"
	case ledgerStateTimeframe:
		return "Enter: select | Esc: cancel"
	}

	return "Esc: back | a: add | x: delete | t: timeframe | r: refresh"
}

func (m LedgerModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ledgerLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.sorted = msg.sorted
		m.symbol = msg.symbol
		m.refreshTable()

		return m, nil

	case ledgerSavedMsg:
		m.state = ledgerStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, m.loadCmd()

	case TimeframeSelectedMsg:
		m.state = ledgerStateBrowse
		m.filter = msg.Filter
		m.filterLabel = msg.Label
		m.picker.Reset()
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Resize(msg)
		m.table.SetHeight(m.Rows(12))

		return m, nil
	}

	switch m.state {
	case ledgerStateTimeframe:
		return m.updateTimeframe(msg)
	case ledgerStateAdd, ledgerStateConfirmDelete:
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m LedgerModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			m.state = ledgerStateTimeframe
			m.table.Blur()

			return m, nil
		case "a":
			return m.enterAdd()
		case "x":
			return m.enterDelete()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LedgerModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
		m.state = ledgerStateBrowse
		m.table.Focus()

		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m LedgerModel) enterAdd() (tea.Model, tea.Cmd) {
	m.draft = &entryDraft{date: time.Now().Format(time.DateOnly), typ: ledger.TypeExpense}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.draft.date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.draft.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&m.draft.amount),
			huh.NewSelect[ledger.Type]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption(ledger.TypeExpense.Label(), ledger.TypeExpense),
					huh.NewOption(ledger.TypeCredit.Label(), ledger.TypeCredit),
				).
				Value(&m.draft.typ),
			huh.NewInput().
				Key("category").
				Title("Category").
				Placeholder("optional").
				Value(&m.draft.category),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ledgerStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m LedgerModel) enterDelete() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= m.sorted.Len() {
		return m, nil
	}

	e := m.sorted.Entry(idx)
	m.confirm = new(false)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q from %s?", e.Description, e.Date)).
				Affirmative("Delete").
				Negative("Keep").
				Value(m.confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ledgerStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m LedgerModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = ledgerStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == ledgerStateAdd {
		return m, m.addCmd()
	}

	if !*m.confirm {
		m.state = ledgerStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.deleteCmd(m.sorted.Entry(m.table.Cursor()))
}

func (m LedgerModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading ledger...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to back)")
	}

	if m.state == ledgerStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	}

	totals := m.sorted.Totals()

	header := fmt.Sprintf("[t] Timeframe: %s\n\nCredits: %s   Expenses: %s   Net: %s",
		activeStyle(m.filterLabel),
		creditStyle.Render(Money(m.symbol, totals.Credits)),
		expenseStyle.Render(Money(m.symbol, totals.Expenses)),
		Money(m.symbol, totals.Net),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)

	if m.form != nil && (m.state == ledgerStateAdd || m.state == ledgerStateConfirmDelete) {
		title := "New Entry"
		if m.state == ledgerStateConfirmDelete {
			title = "Delete Entry"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *LedgerModel) refreshTable() {
	rows := make([]table.Row, 0, m.sorted.Len())

	for i, e := range m.sorted.Entries() {
		amount := Money(m.symbol, e.Amount)
		if e.Type == ledger.TypeExpense {
			amount = "-" + amount
		}

		rows = append(rows, table.Row{
			e.Date,
			e.Description,
			e.CategoryLabel(),
			e.Type.Label(),
			amount,
			Money(m.symbol, m.sorted.RunningBalance(i)),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type ledgerLoadedMsg struct {
	sorted ledger.Sorted
	symbol string
	err    error
}

type ledgerSavedMsg struct {
	status string
	err    error
}

func (m LedgerModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		s, err := m.settingsService.Get(ctx)
		if err != nil {
			return ledgerLoadedMsg{err: err}
		}

		sorted, err := m.ledgerService.Ledger(ctx, filter)

		return ledgerLoadedMsg{sorted: sorted, symbol: s.CurrencySymbol, err: err}
	}
}

func (m LedgerModel) addCmd() tea.Cmd {
	d := *m.draft

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		e, err := m.ledgerService.Add(ctx, ledger.CreateParams{
			Date:        d.date,
			Description: d.description,
			Amount:      d.amount,
			Type:        d.typ,
			Category:    d.category,
		})
		if err != nil {
			return ledgerSavedMsg{err: err}
		}

		return ledgerSavedMsg{status: fmt.Sprintf("Added %s", e.Description)}
	}
}

func (m LedgerModel) deleteCmd(e ledger.Entry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		if err := m.ledgerService.Delete(ctx, e.ID); err != nil {
			return ledgerSavedMsg{err: err}
		}

		return ledgerSavedMsg{status: fmt.Sprintf("Deleted %s", e.Description)}
	}
}

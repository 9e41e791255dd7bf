package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fintrack/internal/finance"
	"github.com/MrJamesThe3rd/fintrack/internal/invoice"
)

type InvoiceModel struct {
	CommonModel
	invoiceService *invoice.Service

	table    table.Model
	invoices []invoice.Invoice
	summary  invoice.Summary
	detail   bool

	form    *huh.Form
	confirm *bool

	loading bool
	status  string
	err     error
}

func NewInvoiceModel(svc *invoice.Service) InvoiceModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Number", Width: 11},
			{Title: "Date", Width: 12},
			{Title: "Client", Width: 28},
			{Title: "Kind", Width: 9},
			{Title: "Total", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return InvoiceModel{
		invoiceService: svc,
		table:          t,
		loading:        true,
	}
}

func (m InvoiceModel) Title() string { return "Invoices" }

func (m InvoiceModel) ShortHelp() string {
	if m.form != nil {
		return "Esc: cancel"
	}

	return "Esc: back | Enter: details | x: delete | r: refresh"
}

func (m InvoiceModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case invoicesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.invoices = msg.invoices
		m.summary = msg.summary
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.Resize(msg)
		m.table.SetHeight(m.Rows(14))

		return m, nil

	case invoiceDeletedMsg:
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Deleted %s", msg.number)

		return m, m.loadCmd()

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateConfirm(msg)
		}

		switch msg.String() {
		case "esc":
			if m.detail {
				m.detail = false
				return m, nil
			}

			return m, Back
		case "enter":
			m.detail = !m.detail
			return m, nil
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "x":
			return m.enterDelete()
		}
	}

	if m.form != nil {
		return m.updateConfirm(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoiceModel) selected() (invoice.Invoice, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return invoice.Invoice{}, false
	}

	return m.invoices[idx], true
}

func (m InvoiceModel) enterDelete() (tea.Model, tea.Cmd) {
	inv, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.confirm = new(false)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete invoice %s for %s?", inv.InvoiceNumber, inv.Client)).
				Description("Numbers of other invoices are not changed.").
				Affirmative("Delete").
				Negative("Keep").
				Value(m.confirm),
		),
	).WithWidth(50).WithShowHelp(false)
	m.table.Blur()

	return m, m.form.Init()
}

func (m InvoiceModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
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

	inv, ok := m.selected()
	if !ok || !*m.confirm {
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.deleteCmd(inv)
}

func (m InvoiceModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to back)")
	}

	if len(m.invoices) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("No invoices yet.\n\n(Esc to back)")
	}

	header := fmt.Sprintf("%d invoices, %s invoiced", m.summary.Count, finance.Format(m.summary.Invoiced))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		m.table.View(),
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)

	var side string

	switch {
	case m.form != nil:
		side = m.form.View()
	case m.detail:
		if inv, ok := m.selected(); ok {
			side = renderInvoice(inv)
		}
	}

	if side != "" {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(52).
			Render(side)

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// renderInvoice shows itemized and legacy invoices through the same view.
func renderInvoice(inv invoice.Invoice) string {
	v := inv.Normalize()
	sym := inv.Symbol()

	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n%s\n\n", inv.InvoiceNumber, inv.Date, inv.Client)

	if v.Kind == invoice.KindLegacy {
		fmt.Fprintf(&b, "%s\n\n", v.ItemsText)
	}

	for _, l := range v.Lines {
		fmt.Fprintf(&b, "%s\n  %s x %s = %s\n", l.Description, l.Quantity.String(), Money(sym, l.Rate), Money(sym, l.Amount))
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", Money(sym, v.Subtotal))

	if v.Kind == invoice.KindItemized {
		fmt.Fprintf(&b, "%s (%s%%): %s\n", inv.TaxName, inv.TaxPercentage.String(), Money(sym, v.TaxAmount))
	}

	fmt.Fprintf(&b, "Total: %s", Money(sym, v.Total))

	return b.String()
}

func (m *InvoiceModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))

	for _, inv := range m.invoices {
		rows = append(rows, table.Row{
			inv.InvoiceNumber,
			inv.Date,
			inv.Client,
			inv.Kind().String(),
			Money(inv.Symbol(), inv.GrandTotal()),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type invoicesLoadedMsg struct {
	invoices []invoice.Invoice
	summary  invoice.Summary
	err      error
}

type invoiceDeletedMsg struct {
	number string
	err    error
}

func (m InvoiceModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		invoices, err := m.invoiceService.List(ctx)
		if err != nil {
			return invoicesLoadedMsg{err: err}
		}

		summary, err := m.invoiceService.Summary(ctx)

		return invoicesLoadedMsg{invoices: invoices, summary: summary, err: err}
	}
}

func (m InvoiceModel) deleteCmd(inv invoice.Invoice) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		err := m.invoiceService.Delete(ctx, inv.ID)

		return invoiceDeletedMsg{number: inv.InvoiceNumber, err: err}
	}
}

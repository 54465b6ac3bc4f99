package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateFilter
)

var statusFilters = []invoice.Status{"", invoice.StatusIssued, invoice.StatusDraft, invoice.StatusPaid}

type ListModel struct {
	CommonModel
	invoiceService *invoice.Service

	state    listState
	table    table.Model
	invoices []*invoice.Record
	form     *huh.Form
	owner    *string

	statusFilterIdx int

	filter  invoice.ListFilter
	loading bool
	err     error
}

func NewListModel(invSvc *invoice.Service) ListModel {
	columns := []table.Column{
		{Title: "Code", Width: 12},
		{Title: "Issued", Width: 12},
		{Title: "Owner", Width: 20},
		{Title: "Contact", Width: 20},
		{Title: "Total", Width: 12},
		{Title: "Status", Width: 8},
		{Title: "Imported", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	return ListModel{
		invoiceService: invSvc,
		table:          t,
		owner:          new(string),
		loading:        true,
	}
}

func tableStyles() table.Styles {
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

	return s
}

func (m ListModel) Title() string { return "Invoices" }

func (m ListModel) ShortHelp() string {
	if m.state == listStateFilter {
		return "Enter: apply | Esc: cancel"
	}

	return "Esc: back | s: status filter | o: owner filter | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadInvoicesCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.invoices = msg.invoices
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateFilter:
		return m.updateFilter(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadInvoicesCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			m.applyFilter()

			return m, m.loadInvoicesCmd()
		case "o":
			return m.enterFilterMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) enterFilterMode() (tea.Model, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("owner").
				Title("Owner name contains").
				Placeholder("leave empty for all").
				Value(m.owner),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = listStateFilter
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
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

	m.state = listStateBrowse
	m.form = nil
	m.table.Focus()
	m.applyFilter()

	return m, m.loadInvoicesCmd()
}

func (m *ListModel) applyFilter() {
	if st := statusFilters[m.statusFilterIdx]; st != "" {
		m.filter.Status = &st
	} else {
		m.filter.Status = nil
	}

	if owner := strings.TrimSpace(*m.owner); owner != "" {
		m.filter.OwnerName = &owner
	} else {
		m.filter.OwnerName = nil
	}
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))
	for _, rec := range m.invoices {
		rows = append(rows, table.Row{
			rec.Code,
			rec.IssuedDate,
			rec.OwnerName,
			rec.ContactName,
			FormatAmount(rec.Total),
			string(rec.Status),
			FormatDate(rec.CreatedAt),
		})
	}

	m.table.SetRows(rows)
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	statusLabel := "All"
	if st := statusFilters[m.statusFilterIdx]; st != "" {
		statusLabel = string(st)
	}

	ownerLabel := "Any"
	if m.filter.OwnerName != nil {
		ownerLabel = *m.filter.OwnerName
	}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [o] Owner: %s | %d invoices",
		activeStyle(statusLabel),
		activeStyle(ownerLabel),
		len(m.invoices),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateFilter && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(44).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

// Messages

type loadListMsg struct {
	invoices []*invoice.Record
	err      error
}

func (m ListModel) loadInvoicesCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invoices, err := m.invoiceService.List(ctx, filter)

		return loadListMsg{invoices: invoices, err: err}
	}
}

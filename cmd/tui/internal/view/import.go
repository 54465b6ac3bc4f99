package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
	importStateSaving
	importStateDone
)

type ImportModel struct {
	CommonModel
	importService  *importer.Service
	invoiceService *invoice.Service

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model
	failed     table.Model
	form       *huh.Form
	save       *bool

	file   string
	result *importer.Result

	status string
	err    error
}

func NewImportModel(impSvc *importer.Service, invSvc *invoice.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService:  impSvc,
		invoiceService: invSvc,
		filePicker:     fp,
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot)),
		failed:         newFailedTable(),
	}
}

func newFailedTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Line", Width: 6},
			{Title: "Errors", Width: 70},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())

	return t
}

func (m ImportModel) Title() string { return "Import Invoices" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult && m.form != nil {
		return "↑/↓: failed rows | ←/→: choose | Enter: confirm | Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.filePicker.SetHeight(max(msg.Height-8, 5))
		m.failed.SetHeight(max(msg.Height-14, 5))

		return m, nil

	case spinner.TickMsg:
		if m.state != importStateImporting && m.state != importStateSaving {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case importResultMsg:
		if msg.err != nil {
			m.state = importStateDone
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		return m.showResult(msg.result)

	case saveResultMsg:
		m.state = importStateDone
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Saved %d invoices from %s.", msg.count, m.file)

		return m, nil
	}

	switch m.state {
	case importStateFilePick:
		return m.updateFilePick(msg)
	case importStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.file = filepath.Base(path)
		m.status = fmt.Sprintf("Importing %s...", m.file)

		return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
	}

	return m, cmd
}

func (m ImportModel) showResult(res *importer.Result) (tea.Model, tea.Cmd) {
	m.result = res
	m.state = importStateResult
	m.status = fmt.Sprintf("%s: %d rows, %d valid, %d failed", m.file, res.Rows(), len(res.OK), len(res.KO))

	rows := make([]table.Row, 0, len(res.KO))
	for _, ko := range res.KO {
		reasons := make([]string, len(ko.Errors))
		for i, e := range ko.Errors {
			reasons[i] = e.Error()
		}

		rows = append(rows, table.Row{fmt.Sprint(ko.Line), strings.Join(reasons, ", ")})
	}

	m.failed.SetRows(rows)
	m.failed.GotoTop()

	if len(res.OK) == 0 {
		m.form = nil
		return m, nil
	}

	m.save = new(bool)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Save %d valid invoices?", len(res.OK))).
				Affirmative("Save").
				Negative("Discard").
				Value(m.save),
		),
	).WithShowHelp(false)

	return m, m.form.Init()
}

func (m ImportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	var cmd tea.Cmd
	m.failed, cmd = m.failed.Update(msg)
	cmds = append(cmds, cmd)

	if m.form == nil {
		return m, tea.Batch(cmds...)
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if !*m.save {
			m.state = importStateDone
			m.status = fmt.Sprintf("Discarded %d valid invoices.", len(m.result.OK))

			return m, nil
		}

		m.state = importStateSaving
		m.status = fmt.Sprintf("Saving %d invoices...", len(m.result.OK))

		return m, tea.Batch(m.spinner.Tick, m.saveCmd(m.result.OK))
	case huh.StateAborted:
		return m.handleEsc()
	}

	return m, tea.Batch(cmds...)
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateResult, importStateDone:
		m.state = importStateFilePick
		m.result = nil
		m.form = nil
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case importStateImporting, importStateSaving:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select invoice file to import:\n\n%s", m.filePicker.View()),
		)
	case importStateImporting, importStateSaving:
		return lipgloss.NewStyle().Padding(2).Render(m.spinner.View() + " " + m.status)
	case importStateResult:
		return m.viewResult()
	case importStateDone:
		return m.viewDone()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	parts := []string{lipgloss.NewStyle().Bold(true).Render(m.status)}

	if len(m.result.KO) > 0 {
		parts = append(parts, "",
			lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")).
				Render(m.failed.View()),
		)
	}

	if m.form != nil {
		parts = append(parts, "", m.form.View())
	} else {
		parts = append(parts, "", "Nothing to save. (Esc to go back)")
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m ImportModel) viewDone() string {
	color := lipgloss.Color("46")
	if m.err != nil {
		color = lipgloss.Color("196")
	}

	return lipgloss.NewStyle().Padding(2).Render(
		lipgloss.NewStyle().Foreground(color).Render(m.status) +
			"\n\n(Esc to import another file)",
	)
}

// Messages

type importResultMsg struct {
	result *importer.Result
	err    error
}

type saveResultMsg struct {
	count int
	err   error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	name := m.file

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		res, err := m.importService.ImportReader(ctx, name, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: res}
	}
}

func (m ImportModel) saveCmd(invoices []invoice.Invoice) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		recs, err := m.invoiceService.SaveBatch(ctx, invoices)
		if err != nil {
			return saveResultMsg{err: err}
		}

		return saveResultMsg{count: len(recs)}
	}
}

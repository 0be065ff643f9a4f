package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ahorros/internal/export"
)

const exportTimeout = 30 * time.Second

type exportState int

const (
	exportStatePath exportState = iota
	exportStateExporting
	exportStateResult
)

type ExportModel struct {
	CommonModel
	exportService *export.Service
	docs          Snapshotter

	state   exportState
	err     error
	form    *huh.Form
	dir     *string
	spinner spinner.Model
	summary viewport.Model
	path    string
	count   int
}

func NewExportModel(svc *export.Service, docs Snapshotter) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		exportService: svc,
		docs:          docs,
		dir:           new("./backups"),
		spinner:       s,
		summary:       viewport.New(80, 15),
	}
	m.form = m.buildPathForm()

	return m
}

func (m ExportModel) Title() string { return "Backup" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu | ↑/↓: scroll"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.SetSize(size)
		m.summary.Width = max(20, size.Width-4)
		m.summary.Height = max(5, size.Height-12)

		return m, nil
	}

	switch m.state {
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m, Back
	case huh.StateCompleted:
		m.state = exportStateExporting
		m.err = nil

		return m, tea.Batch(m.spinner.Tick, m.runExportCmd(*m.dir))
	}

	return m, cmd
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.path = result.path
		m.count = result.count
		m.summary.SetContent(result.body)
		m.summary.GotoTop()

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	var cmd tea.Cmd
	m.summary, cmd = m.summary.Update(msg)

	return m, cmd
}

func (m ExportModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output directory").
				Description("Created if it doesn't exist").
				Placeholder("./backups").
				Value(m.dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case exportStatePath:
		return style.Render(m.form.View())

	case exportStateExporting:
		return style.Render(fmt.Sprintf("%s Writing backup...", m.spinner.View()))

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Backup written!")

	return style.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			m.path,
			"",
			fmt.Sprintf("Transactions (%d):", m.count),
			"",
			m.summary.View(),
			"",
			faintStyle.Render(m.ShortHelp()),
		),
	)
}

type exportResultMsg struct {
	path  string
	body  string
	count int
	err   error
}

func (m ExportModel) runExportCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		path, err := m.exportService.WriteFile(ctx, dir)
		if err != nil {
			return exportResultMsg{err: err}
		}

		doc, err := m.docs.Snapshot(ctx)
		if err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{
			path:  path,
			body:  export.Summary(doc.Transactions, doc.Meta.Currency),
			count: len(doc.Transactions),
		}
	}
}

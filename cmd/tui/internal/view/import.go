package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
	"github.com/MrJamesThe3rd/ahorros/internal/importer"
	"github.com/MrJamesThe3rd/ahorros/internal/mapping"
	"github.com/MrJamesThe3rd/ahorros/internal/tabular"
)

const (
	importTimeout   = 2 * time.Minute
	previewRows     = 5
	maxRejectsShown = 5
)

type importState int

const (
	importStateSource importState = iota
	importStateFilePick
	importStatePaste
	importStateMapping
	importStatePreview
	importStateRestoreConfirm
	importStateImporting
	importStateResult
)

type importSource int

const (
	sourceFile importSource = iota
	sourcePaste
	sourceBackup
)

func (s importSource) String() string {
	switch s {
	case sourceFile:
		return "Import a file (CSV, Excel, TSV)"
	case sourcePaste:
		return "Paste rows copied from a spreadsheet"
	case sourceBackup:
		return "Restore a backup (JSON)"
	}

	return "Unknown"
}

var importSources = []importSource{sourceFile, sourcePaste, sourceBackup}

// importInputs holds the huh bindings of the wizard forms.
type importInputs struct {
	pasted  string
	columns map[mapping.Field]*string
	confirm bool
}

type ImportModel struct {
	CommonModel
	importService *importer.Service

	state        importState
	source       importSource
	sourceCursor int
	filePicker   filepicker.Model
	spinner      spinner.Model
	form         *huh.Form
	inputs       *importInputs
	preview      table.Model

	table   tabular.Table
	mapping mapping.Mapping
	backup  []byte
	path    string

	// pending is set while a parse or import runs; input is ignored until
	// the result arrives.
	pending bool
	status  string
	err     error
}

func NewImportModel(impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ImportModel{
		importService: impSvc,
		filePicker:    fp,
		spinner:       s,
	}
}

func (m ImportModel) Title() string { return "Import" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStatePreview:
		return "Enter: import | m: change mapping | Esc: start over"
	case importStateImporting:
		return "Working..."
	case importStateResult:
		return "Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return nil
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tableParsedMsg:
		m.pending = false

		if msg.err != nil {
			return m.fail(msg.err)
		}

		m.table = msg.table

		return m.startMapping(mapping.Guess(msg.table.Headers))

	case backupParsedMsg:
		m.pending = false

		if msg.err != nil {
			return m.fail(msg.err)
		}

		m.backup = msg.payload

		return m.startRestoreConfirm(msg.transactions, msg.goals)

	case importDoneMsg:
		m.pending = false
		m.state = importStateResult
		m.err = msg.err
		m.status = msg.summary

		return m, nil

	case tea.WindowSizeMsg:
		m.SetSize(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if m.pending {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.handleEsc()
	}

	switch m.state {
	case importStateSource:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			return m.updateSource(keyMsg)
		}
	case importStateFilePick:
		return m.updateFilePick(msg)
	case importStatePaste, importStateMapping, importStateRestoreConfirm:
		return m.updateForm(msg)
	case importStatePreview:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			return m.updatePreview(keyMsg)
		}
	}

	return m, nil
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateSource:
		return m, Back
	case importStateMapping:
		if m.source == sourcePaste {
			return m.startPaste()
		}

		m.state = importStateFilePick

		return m, m.filePicker.Init()
	case importStatePreview:
		return m.startMapping(m.mapping)
	}

	m.reset()

	return m, nil
}

func (m *ImportModel) reset() {
	m.state = importStateSource
	m.form = nil
	m.inputs = nil
	m.table = tabular.Table{}
	m.mapping = nil
	m.backup = nil
	m.path = ""
	m.status = ""
	m.err = nil
}

func (m ImportModel) fail(err error) (tea.Model, tea.Cmd) {
	m.state = importStateResult
	m.err = err
	m.status = ""

	return m, nil
}

func (m ImportModel) updateSource(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.sourceCursor > 0 {
			m.sourceCursor--
		}
	case tea.KeyDown:
		if m.sourceCursor < len(importSources)-1 {
			m.sourceCursor++
		}
	case tea.KeyEnter:
		m.source = importSources[m.sourceCursor]

		if m.source == sourcePaste {
			return m.startPaste()
		}

		m.filePicker.AllowedTypes = []string{".csv", ".txt", ".xlsx", ".xlsm", ".tsv", ".tab"}
		if m.source == sourceBackup {
			m.filePicker.AllowedTypes = []string{".json"}
		}

		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.pending = true
		m.status = fmt.Sprintf("Reading %s...", path)
		m.state = importStateImporting

		return m, tea.Batch(m.spinner.Tick, m.readFileCmd(path))
	}

	return m, cmd
}

func (m ImportModel) startPaste() (tea.Model, tea.Cmd) {
	in := &importInputs{}
	if m.inputs != nil {
		in.pasted = m.inputs.pasted
	}

	m.inputs = in
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Paste your rows").
				Description("Copy cells from a spreadsheet, headers included. Columns are split on tabs.").
				Lines(12).
				CharLimit(0).
				Value(&in.pasted).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("nothing pasted")
					}
					return nil
				}),
		),
	).WithWidth(80).WithShowHelp(false)

	m.state = importStatePaste

	return m, m.form.Init()
}

// startMapping asks which column feeds each field, seeded with m.
func (m ImportModel) startMapping(seed mapping.Mapping) (tea.Model, tea.Cmd) {
	in := &importInputs{columns: make(map[mapping.Field]*string, len(mapping.Fields))}

	options := []huh.Option[string]{huh.NewOption("(none)", mapping.Ignored)}
	for _, h := range m.table.Headers {
		options = append(options, huh.NewOption(h, h))
	}

	fields := make([]huh.Field, 0, len(mapping.Fields))

	for _, f := range mapping.Fields {
		col := seed.Column(f)
		if col == "" {
			col = mapping.Ignored
		}

		in.columns[f] = &col

		title := f.Label()
		if f.Required() {
			title += " *"
		}

		sel := huh.NewSelect[string]().
			Title(title).
			Options(options...).
			Value(in.columns[f])

		if f.Required() {
			sel = sel.Validate(func(s string) error {
				if s == "" || s == mapping.Ignored {
					return fmt.Errorf("%s needs a column", f.Label())
				}
				return nil
			})
		}

		fields = append(fields, sel)
	}

	m.inputs = in
	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(60).WithShowHelp(false)
	m.state = importStateMapping

	return m, m.form.Init()
}

func (m ImportModel) startRestoreConfirm(transactions, goals int) (tea.Model, tea.Cmd) {
	in := &importInputs{}

	m.inputs = in
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Replace all data with this backup?").
				Description(fmt.Sprintf("%d transactions and %d goals. Current data will be lost.", transactions, goals)).
				Affirmative("Restore").
				Negative("Cancel").
				Value(&in.confirm),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = importStateRestoreConfirm

	return m, m.form.Init()
}

func (m ImportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.reset()
		return m, nil
	case huh.StateCompleted:
	default:
		return m, cmd
	}

	switch m.state {
	case importStatePaste:
		m.pending = true
		m.state = importStateImporting
		m.status = "Reading pasted rows..."

		return m, tea.Batch(m.spinner.Tick, m.parseCmd(importer.FormatPasted, []byte(m.inputs.pasted)))

	case importStateMapping:
		m.mapping = make(mapping.Mapping, len(m.inputs.columns))
		for f, col := range m.inputs.columns {
			if *col != mapping.Ignored {
				m.mapping[f] = *col
			}
		}

		m.preview = previewTable(importer.PreviewTable(m.table, m.mapping, previewRows))
		m.state = importStatePreview

		return m, nil

	case importStateRestoreConfirm:
		if !m.inputs.confirm {
			m.reset()
			return m, nil
		}

		m.pending = true
		m.state = importStateImporting
		m.status = "Restoring backup..."

		return m, tea.Batch(m.spinner.Tick, m.restoreCmd(m.backup))
	}

	return m, cmd
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.pending = true
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing %d rows...", m.table.Len())

		return m, tea.Batch(m.spinner.Tick, m.importCmd(m.table, m.mapping))
	case "m":
		return m.startMapping(m.mapping)
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)

	return m, cmd
}

func previewTable(p importer.Preview) table.Model {
	rows := make([]table.Row, 0, len(p.Candidates))
	for _, c := range p.Candidates {
		rows = append(rows, table.Row{c.Date, c.Name, c.Amount, c.Type, c.Category, c.Recurrence})
	}

	return table.New(
		table.WithColumns([]table.Column{
			{Title: mapping.FieldDate.Label(), Width: 12},
			{Title: mapping.FieldName.Label(), Width: 22},
			{Title: mapping.FieldAmount.Label(), Width: 12},
			{Title: mapping.FieldType.Label(), Width: 10},
			{Title: mapping.FieldCategory.Label(), Width: 14},
			{Title: mapping.FieldRecurrence.Label(), Width: 10},
		}),
		table.WithRows(rows),
		table.WithHeight(previewRows+1),
	)
}

func (m ImportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case importStateSource:
		return lipgloss.NewStyle().Padding(2).Render(m.viewSource())
	case importStateFilePick:
		return style.Render(fmt.Sprintf("Select file to import:\n\n%s", m.filePicker.View()))
	case importStatePaste, importStateRestoreConfirm:
		return style.Render(m.form.View())
	case importStateMapping:
		return style.Render(fmt.Sprintf("Map the columns of %d rows (* required):\n\n%s", m.table.Len(), m.form.View()))
	case importStatePreview:
		return style.Render(lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("Preview of the first %d of %d rows:", min(previewRows, m.table.Len()), m.table.Len()),
			"",
			m.preview.View(),
			"",
			faintStyle.Render(m.ShortHelp()),
		))
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("%s %s", m.spinner.View(), m.status))
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewSource() string {
	var b strings.Builder

	b.WriteString("What do you want to bring in?\n\n")

	for i, s := range importSources {
		cursor := " "
		if i == m.sourceCursor {
			cursor = ">"
		}

		fmt.Fprintf(&b, "%s %s\n", cursor, s)
	}

	return b.String()
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.err != nil {
		return style.Render(errorStyle.Render(describeImportError(m.err)) + "\n\n" + m.status + "\n\n(Esc to go back)")
	}

	return style.Render(successStyle.Render(m.status) + "\n\n(Esc to go back)")
}

// describeImportError turns the import sentinels into user-facing text.
func describeImportError(err error) string {
	var perr *apperrors.ParseError

	switch {
	case errors.Is(err, apperrors.ErrNoValidRows):
		return "No row had a valid positive amount. Nothing was imported."
	case errors.Is(err, apperrors.ErrMissingRequiredMapping):
		return "Name and amount need a column."
	case errors.Is(err, apperrors.ErrEmptySpreadsheet):
		return "The workbook has no rows."
	case errors.Is(err, apperrors.ErrInsufficientRows):
		return "Paste a header row and at least one data row."
	case errors.Is(err, apperrors.ErrInvalidBackupFormat):
		return fmt.Sprintf("Not a valid backup: %v", err)
	case errors.As(err, &perr):
		return fmt.Sprintf("Could not read the %s file: %v", perr.Format, err)
	}

	return fmt.Sprintf("Error: %v", err)
}

// Messages

type tableParsedMsg struct {
	table tabular.Table
	err   error
}

type backupParsedMsg struct {
	payload      []byte
	transactions int
	goals        int
	err          error
}

type importDoneMsg struct {
	summary string
	err     error
}

// readFileCmd loads the picked file and parses it by extension.
func (m ImportModel) readFileCmd(path string) tea.Cmd {
	svc := m.importService

	return func() tea.Msg {
		payload, err := os.ReadFile(path)
		if err != nil {
			return tableParsedMsg{err: err}
		}

		format, err := importer.FormatFromFilename(path)
		if err != nil {
			return tableParsedMsg{err: err}
		}

		if !format.IsRows() {
			parsed, err := svc.Parse(format, payload)
			if err != nil {
				return backupParsedMsg{err: err}
			}

			return backupParsedMsg{
				payload:      payload,
				transactions: len(parsed.Document.Transactions),
				goals:        len(parsed.Document.Goals),
			}
		}

		table, err := svc.ParseTable(format, payload)

		return tableParsedMsg{table: table, err: err}
	}
}

func (m ImportModel) parseCmd(format importer.Format, payload []byte) tea.Cmd {
	svc := m.importService

	return func() tea.Msg {
		table, err := svc.ParseTable(format, payload)
		return tableParsedMsg{table: table, err: err}
	}
}

func (m ImportModel) importCmd(table tabular.Table, mp mapping.Mapping) tea.Cmd {
	svc := m.importService

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		res, err := svc.ImportTable(ctx, table, mp)

		return importDoneMsg{summary: importSummary(res), err: err}
	}
}

func (m ImportModel) restoreCmd(payload []byte) tea.Cmd {
	svc := m.importService

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		doc, err := svc.Restore(ctx, payload)
		if err != nil {
			return importDoneMsg{err: err}
		}

		return importDoneMsg{summary: fmt.Sprintf("Restored %d transactions and %d goals.",
			len(doc.Transactions), len(doc.Goals))}
	}
}

func importSummary(res importer.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Imported %d transactions.", res.Imported)

	if res.Rejected > 0 {
		fmt.Fprintf(&b, "\nSkipped %d rows:", res.Rejected)

		for i, r := range res.Report.Rejections {
			if i == maxRejectsShown {
				fmt.Fprintf(&b, "\n  ... and %d more", len(res.Report.Rejections)-maxRejectsShown)
				break
			}

			fmt.Fprintf(&b, "\n  row %d: %s", r.Row, r.Reason)
		}
	}

	if res.Report.DateFallbacks > 0 {
		fmt.Fprintf(&b, "\n%d rows had no readable date and were stamped with today.", res.Report.DateFallbacks)
	}

	return b.String()
}

package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ahorros/internal/finance"
	"github.com/MrJamesThe3rd/ahorros/internal/state"
)

// DocumentStore reads and edits the persisted document.
type DocumentStore interface {
	Snapshotter
	Update(ctx context.Context, fn func(doc *state.Document) error) error
	Reset(ctx context.Context) error
}

type dashboardState int

const (
	dashboardStateSummary dashboardState = iota
	dashboardStateSettings
	dashboardStateReset
)

type settingsForm struct {
	userName string
	rate     string
	months   string
}

type DashboardModel struct {
	CommonModel
	docs DocumentStore

	state      dashboardState
	summary    finance.Summary
	settings   state.Settings
	categories table.Model
	form       *huh.Form
	fields     *settingsForm
	confirm    *bool

	loading bool
	status  string
	err     error
}

func NewDashboardModel(docs DocumentStore) DashboardModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 18},
			{Title: "Spent", Width: 16},
			{Title: "Share", Width: 8},
		}),
		table.WithHeight(8),
	)

	return DashboardModel{
		docs:       docs,
		categories: t,
		loading:    true,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	if m.state == dashboardStateSettings {
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	if m.state == dashboardStateReset {
		return "Esc: cancel | ←/→: choose | Enter: confirm"
	}

	return "Esc: back | r: refresh | s: settings | x: reset data"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.summary = msg.summary
			m.settings = msg.settings
			m.categories.SetRows(categoryRows(msg.summary))
		}

		return m, nil

	case settingsSavedMsg:
		m.state = dashboardStateSummary
		m.form = nil

		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.status = successStyle.Render("Settings saved.")

		return m, m.loadCmd()

	case dataResetMsg:
		m.state = dashboardStateSummary
		m.form = nil

		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.status = successStyle.Render("All data was reset.")

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.SetSize(msg)
		return m, nil
	}

	switch m.state {
	case dashboardStateSettings:
		return m.updateSettings(msg)
	case dashboardStateReset:
		return m.updateReset(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			m.status = ""

			return m, m.loadCmd()
		case "s":
			return m.startSettings()
		case "x":
			return m.startReset()
		}
	}

	return m, nil
}

func (m DashboardModel) startSettings() (tea.Model, tea.Cmd) {
	f := &settingsForm{
		userName: m.settings.UserName,
		rate:     strconv.FormatFloat(m.settings.MonthlyInterestRate, 'f', -1, 64),
		months:   strconv.Itoa(m.settings.EmergencyFundMonths),
	}

	m.fields = f
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Your name").
				Value(&f.userName),

			huh.NewInput().
				Title("Annual interest rate (%)").
				Description("Used by the savings simulator").
				Value(&f.rate).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || v < 0 {
						return fmt.Errorf("must be a number of zero or more")
					}
					return nil
				}),

			huh.NewInput().
				Title("Emergency fund months").
				Value(&f.months).
				Validate(func(s string) error {
					v, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || v < 1 {
						return fmt.Errorf("must be a whole number of at least 1")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = dashboardStateSettings

	return m, m.form.Init()
}

func (m DashboardModel) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = dashboardStateSummary
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.state = dashboardStateSummary
		m.form = nil

		return m, nil
	case huh.StateCompleted:
		return m, m.saveSettingsCmd()
	}

	return m, cmd
}

func (m DashboardModel) startReset() (tea.Model, tea.Cmd) {
	m.confirm = new(false)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete every transaction and goal?").
				Description("Settings go back to their defaults. This cannot be undone.").
				Affirmative("Reset").
				Negative("Cancel").
				Value(m.confirm),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = dashboardStateReset

	return m, m.form.Init()
}

func (m DashboardModel) updateReset(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = dashboardStateSummary
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.state = dashboardStateSummary
		m.form = nil

		return m, nil
	case huh.StateCompleted:
		if !*m.confirm {
			m.state = dashboardStateSummary
			m.form = nil

			return m, nil
		}

		return m, m.resetCmd()
	}

	return m, cmd
}

func (m DashboardModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.state == dashboardStateSettings && m.form != nil {
		return style.Render(headerStyle.Render("Settings") + "\n\n" + m.form.View())
	}

	if m.state == dashboardStateReset && m.form != nil {
		return style.Render(headerStyle.Render("Reset data") + "\n\n" + m.form.View())
	}

	if m.loading {
		return style.Render("Loading summary...")
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	s := m.summary
	cur := s.Currency

	savings := FormatAmount(s.Savings, cur)
	if s.Savings.IsNegative() {
		savings = expenseStyle.Render(savings)
	} else {
		savings = incomeStyle.Render(savings)
	}

	totals := boxStyle.Render(fmt.Sprintf(
		"Income    %s\nExpenses  %s\nSavings   %s\n\nSavings rate   %.1f%%\nExpense ratio  %.1f%%",
		incomeStyle.Render(FormatAmount(s.Income, cur)),
		expenseStyle.Render(FormatAmount(s.Expenses, cur)),
		savings,
		s.SavingsRate,
		s.ExpenseRatio,
	))

	fund := boxStyle.Render(fmt.Sprintf(
		"Emergency fund (%d months)\nTarget  %s\n%s",
		s.EmergencyFund.Months,
		FormatAmount(s.EmergencyFund.Target, cur),
		emergencyETA(s.EmergencyFund),
	))

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", headerStyle.Render(fmt.Sprintf("Hola, %s", m.settings.UserName)))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, totals, "  ", fund))
	b.WriteString("\n\n")

	if len(s.ByCategory) > 0 {
		b.WriteString("Expenses by category\n")
		b.WriteString(m.categories.View())
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "%d transactions · %d goals\n", s.TransactionCount, len(s.Goals))

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	b.WriteString("\n" + faintStyle.Render(m.ShortHelp()))

	return style.Render(b.String())
}

func emergencyETA(f finance.EmergencyFund) string {
	switch {
	case f.Target.IsZero():
		return faintStyle.Render("no fixed expenses recorded")
	case !f.NeededKnown:
		return faintStyle.Render("no savings to estimate")
	}

	return fmt.Sprintf("%d months of saving to cover it", f.MonthsNeeded)
}

func categoryRows(s finance.Summary) []table.Row {
	rows := make([]table.Row, 0, len(s.ByCategory))

	for _, c := range s.ByCategory {
		share := "-"
		if s.Expenses.IsPositive() {
			share = c.Total.Div(s.Expenses).Shift(2).StringFixed(1) + "%"
		}

		rows = append(rows, table.Row{c.Category, FormatAmount(c.Total, s.Currency), share})
	}

	return rows
}

// Messages

type dashboardLoadedMsg struct {
	summary  finance.Summary
	settings state.Settings
	err      error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		doc, err := m.docs.Snapshot(ctx)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		return dashboardLoadedMsg{summary: finance.Summarize(doc), settings: doc.Settings}
	}
}

type settingsSavedMsg struct {
	err error
}

func (m DashboardModel) saveSettingsCmd() tea.Cmd {
	f := *m.fields

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rate, _ := strconv.ParseFloat(strings.TrimSpace(f.rate), 64)
		months, _ := strconv.Atoi(strings.TrimSpace(f.months))
		name := strings.TrimSpace(f.userName)

		update := state.SettingsUpdate{
			UserName:            &name,
			MonthlyInterestRate: &rate,
			EmergencyFundMonths: &months,
		}

		err := m.docs.Update(ctx, func(doc *state.Document) error {
			next := update.Apply(doc.Settings)
			if err := next.Validate(); err != nil {
				return err
			}

			doc.Settings = next

			return nil
		})

		return settingsSavedMsg{err: err}
	}
}

type dataResetMsg struct {
	err error
}

func (m DashboardModel) resetCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return dataResetMsg{err: m.docs.Reset(ctx)}
	}
}

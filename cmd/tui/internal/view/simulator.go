package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ahorros/internal/finance"
)

const (
	defaultSimulationMonths = 24
	maxSimulationMonths     = 600
)

type simState int

const (
	simStateLoading simState = iota
	simStateForm
	simStateResult
)

type simForm struct {
	monthly string
	rate    string
	months  string
}

type SimulatorModel struct {
	CommonModel
	docs Snapshotter

	state    simState
	form     *huh.Form
	fields   *simForm
	currency string
	points   table.Model

	monthly float64
	rate    float64
	months  int
	final   finance.ProjectionPoint
	gain    float64

	err error
}

func NewSimulatorModel(docs Snapshotter) SimulatorModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Month", Width: 6},
			{Title: "With interest", Width: 18},
			{Title: "Without", Width: 18},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return SimulatorModel{docs: docs, points: t}
}

func (m SimulatorModel) Title() string { return "Savings Simulator" }

func (m SimulatorModel) ShortHelp() string {
	if m.state == simStateResult {
		return "Esc: back | ↑/↓: scroll | e: edit inputs"
	}

	return "Esc: back | Enter/Tab: navigate form"
}

func (m SimulatorModel) Init() tea.Cmd {
	return m.loadDefaultsCmd()
}

func (m SimulatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case simDefaultsMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = simStateResult

			return m, nil
		}

		m.currency = msg.currency

		return m.startForm(&simForm{
			monthly: strconv.FormatFloat(msg.monthly, 'f', 2, 64),
			rate:    strconv.FormatFloat(msg.rate, 'f', -1, 64),
			months:  strconv.Itoa(defaultSimulationMonths),
		})

	case tea.WindowSizeMsg:
		m.SetSize(msg)
		m.points.SetHeight(max(5, msg.Height-16))

		return m, nil
	}

	switch m.state {
	case simStateForm:
		return m.updateForm(msg)
	case simStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				return m, Back
			case "e":
				if m.fields != nil {
					return m.startForm(m.fields)
				}
			}
		}

		var cmd tea.Cmd
		m.points, cmd = m.points.Update(msg)

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	return m, nil
}

func (m SimulatorModel) startForm(f *simForm) (tea.Model, tea.Cmd) {
	m.fields = f
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly contribution").
				Description("Defaults to your current savings").
				Value(&f.monthly).
				Validate(func(s string) error {
					if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil || v < 0 {
						return fmt.Errorf("must be a number of zero or more")
					}
					return nil
				}),

			huh.NewInput().
				Title("Annual interest rate (%)").
				Value(&f.rate).
				Validate(func(s string) error {
					if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil || v < 0 {
						return fmt.Errorf("must be a number of zero or more")
					}
					return nil
				}),

			huh.NewInput().
				Title("Months").
				Value(&f.months).
				Validate(func(s string) error {
					if v, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || v < 1 || v > maxSimulationMonths {
						return fmt.Errorf("must be between 1 and %d", maxSimulationMonths)
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = simStateForm

	return m, m.form.Init()
}

func (m SimulatorModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		m.simulate()
		m.state = simStateResult

		return m, nil
	}

	return m, cmd
}

// simulate runs the projection for the submitted inputs.
func (m *SimulatorModel) simulate() {
	m.monthly, _ = strconv.ParseFloat(strings.TrimSpace(m.fields.monthly), 64)
	m.rate, _ = strconv.ParseFloat(strings.TrimSpace(m.fields.rate), 64)
	m.months, _ = strconv.Atoi(strings.TrimSpace(m.fields.months))

	points := finance.Projection(m.monthly, m.rate, m.months)
	m.final = points[len(points)-1]
	m.gain = finance.InterestGain(points)

	rows := make([]table.Row, 0, len(points)-1)
	for _, p := range points[1:] {
		rows = append(rows, table.Row{
			strconv.Itoa(p.Month),
			m.money(p.WithInterest),
			m.money(p.WithoutInterest),
		})
	}

	m.points.SetRows(rows)
	m.points.GotoTop()
}

func (m SimulatorModel) money(v float64) string {
	return FormatAmount(decimal.NewFromFloat(v), m.currency)
}

func (m SimulatorModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case simStateLoading:
		return style.Render("Loading...")
	case simStateForm:
		return style.Render(headerStyle.Render(m.Title()) + "\n\n" + m.form.View())
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	header := boxStyle.Render(fmt.Sprintf(
		"Saving %s a month at %.2f%% for %d months\n\nWith interest     %s\nWithout interest  %s\nInterest earned   %s",
		m.money(m.monthly),
		m.rate,
		m.months,
		incomeStyle.Render(m.money(m.final.WithInterest)),
		m.money(m.final.WithoutInterest),
		successStyle.Render(m.money(m.gain)),
	))

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.points.View(),
		"",
		faintStyle.Render(m.ShortHelp()),
	))
}

// Messages

type simDefaultsMsg struct {
	monthly  float64
	rate     float64
	currency string
	err      error
}

// loadDefaultsCmd seeds the form with the current savings, never below
// zero, and the stored interest rate.
func (m SimulatorModel) loadDefaultsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		doc, err := m.docs.Snapshot(ctx)
		if err != nil {
			return simDefaultsMsg{err: err}
		}

		return simDefaultsMsg{
			monthly:  max(0, finance.MonthlySavings(doc.Transactions).InexactFloat64()),
			rate:     doc.Settings.MonthlyInterestRate,
			currency: doc.Meta.Currency,
		}
	}
}

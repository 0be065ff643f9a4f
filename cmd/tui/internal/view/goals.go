package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ahorros/internal/finance"
	"github.com/MrJamesThe3rd/ahorros/internal/goal"
	"github.com/MrJamesThe3rd/ahorros/internal/normalize"
)

type goalsState int

const (
	goalsStateList goalsState = iota
	goalsStateCreate
	goalsStateDeposit
	goalsStateDelete
)

// goalForm holds the huh bindings shared by the create and deposit forms.
type goalForm struct {
	name    string
	target  string
	current string
	icon    string
	amount  string
	confirm bool
}

type GoalsModel struct {
	CommonModel
	goalService *goal.Service
	docs        Snapshotter

	state    goalsState
	goals    []finance.GoalStatus
	currency string
	cursor   int
	bar      progress.Model
	form     *huh.Form
	fields   *goalForm

	loading bool
	status  string
	err     error
}

func NewGoalsModel(svc *goal.Service, docs Snapshotter) GoalsModel {
	return GoalsModel{
		goalService: svc,
		docs:        docs,
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
		loading:     true,
	}
}

func (m GoalsModel) Title() string { return "Savings Goals" }

func (m GoalsModel) ShortHelp() string {
	if m.state != goalsStateList {
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return "Esc: back | ↑/↓: move | Enter: deposit | n: new | d: delete"
}

func (m GoalsModel) Init() tea.Cmd {
	return m.loadGoalsCmd()
}

func (m GoalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadGoalsMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.goals = msg.goals
			m.currency = msg.currency
			m.cursor = min(m.cursor, max(0, len(m.goals)-1))
		}

		return m, nil

	case goalResultMsg:
		m.state = goalsStateList
		m.form = nil

		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.status = successStyle.Render(msg.message)

		return m, m.loadGoalsCmd()

	case tea.WindowSizeMsg:
		m.SetSize(msg)
		m.bar.Width = max(10, min(40, msg.Width-40))

		return m, nil
	}

	if m.state != goalsStateList {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.goals)-1 {
			m.cursor++
		}
	case "n":
		return m.startCreate()
	case "enter":
		return m.startDeposit()
	case "d":
		return m.startDelete()
	}

	return m, nil
}

func (m GoalsModel) selected() (finance.GoalStatus, bool) {
	if m.cursor < 0 || m.cursor >= len(m.goals) {
		return finance.GoalStatus{}, false
	}

	return m.goals[m.cursor], true
}

func (m GoalsModel) startCreate() (tea.Model, tea.Cmd) {
	f := &goalForm{current: "0"}

	m.fields = f
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&f.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Title("Target amount").
				Value(&f.target).
				Validate(validateAmount),

			huh.NewInput().
				Title("Already saved").
				Value(&f.current).
				Validate(func(s string) error {
					if amount, ok := normalize.ParseAmount(s); !ok || amount.IsNegative() {
						return fmt.Errorf("must be zero or more")
					}
					return nil
				}),

			huh.NewInput().
				Title("Icon (optional)").
				Placeholder(goal.DefaultIcon).
				CharLimit(16).
				Value(&f.icon),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = goalsStateCreate

	return m, m.form.Init()
}

func (m GoalsModel) startDeposit() (tea.Model, tea.Cmd) {
	g, ok := m.selected()
	if !ok {
		return m, nil
	}

	if g.Goal.Reached() {
		m.status = faintStyle.Render(fmt.Sprintf("%q is already complete.", g.Goal.Name))
		return m, nil
	}

	f := &goalForm{}
	remaining := g.Goal.Remaining()

	m.fields = f
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Deposit into %s", g.Goal.Name)).
				Description(fmt.Sprintf("Missing %s", FormatAmount(remaining, m.currency))).
				Value(&f.amount).
				Validate(func(s string) error {
					if err := validateAmount(s); err != nil {
						return err
					}

					if amount, _ := normalize.ParseAmount(s); amount.GreaterThan(remaining) {
						return fmt.Errorf("exceeds the %s still missing", FormatAmount(remaining, m.currency))
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = goalsStateDeposit

	return m, m.form.Init()
}

func (m GoalsModel) startDelete() (tea.Model, tea.Cmd) {
	g, ok := m.selected()
	if !ok {
		return m, nil
	}

	f := &goalForm{}

	m.fields = f
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", g.Goal.Name)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&f.confirm),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = goalsStateDelete

	return m, m.form.Init()
}

func (m GoalsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = goalsStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.state = goalsStateList
		m.form = nil

		return m, nil
	case huh.StateCompleted:
		return m, m.submitCmd()
	}

	return m, cmd
}

func (m GoalsModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.state != goalsStateList && m.form != nil {
		return style.Render(m.form.View())
	}

	if m.loading {
		return style.Render("Loading goals...")
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("Savings Goals") + "\n\n")

	if len(m.goals) == 0 {
		b.WriteString(faintStyle.Render("No goals yet. Press n to create one.") + "\n")
	}

	for i, g := range m.goals {
		cursor := "  "
		if i == m.cursor {
			cursor = headerStyle.Render("> ")
		}

		fmt.Fprintf(&b, "%s%s %s\n", cursor, g.Goal.Icon, g.Goal.Name)
		fmt.Fprintf(&b, "    %s %5.1f%%\n", m.bar.ViewAs(g.Percent/100), g.Percent)
		fmt.Fprintf(&b, "    %s of %s · %s\n\n",
			FormatAmount(g.Goal.CurrentAmount, m.currency),
			FormatAmount(g.Goal.TargetAmount, m.currency),
			faintStyle.Render(goalETA(g)),
		)
	}

	if m.status != "" {
		b.WriteString(m.status + "\n\n")
	}

	b.WriteString(faintStyle.Render(m.ShortHelp()))

	return style.Render(b.String())
}

func goalETA(g finance.GoalStatus) string {
	switch {
	case g.Goal.Reached():
		return "complete"
	case !g.MonthsKnown:
		return "no savings to estimate"
	case g.MonthsLeft == 1:
		return "about 1 month left"
	}

	return fmt.Sprintf("about %d months left", g.MonthsLeft)
}

// Messages

type loadGoalsMsg struct {
	goals    []finance.GoalStatus
	currency string
	err      error
}

func (m GoalsModel) loadGoalsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		doc, err := m.docs.Snapshot(ctx)
		if err != nil {
			return loadGoalsMsg{err: err}
		}

		return loadGoalsMsg{goals: finance.Summarize(doc).Goals, currency: doc.Meta.Currency}
	}
}

type goalResultMsg struct {
	message string
	err     error
}

func (m GoalsModel) submitCmd() tea.Cmd {
	f := *m.fields
	state := m.state
	selected, _ := m.selected()
	svc := m.goalService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		switch state {
		case goalsStateCreate:
			target, _ := normalize.ParseAmount(f.target)
			current, _ := normalize.ParseAmount(f.current)

			g, err := svc.Create(ctx, goal.CreateParams{
				Name:          f.name,
				TargetAmount:  target,
				CurrentAmount: current,
				Icon:          strings.TrimSpace(f.icon),
			})
			if err != nil {
				return goalResultMsg{err: err}
			}

			return goalResultMsg{message: fmt.Sprintf("Created %q.", g.Name)}

		case goalsStateDeposit:
			amount, _ := normalize.ParseAmount(f.amount)

			g, err := svc.Deposit(ctx, selected.Goal.ID, amount)
			if err != nil {
				return goalResultMsg{err: err}
			}

			if g.Reached() {
				return goalResultMsg{message: fmt.Sprintf("%q reached its target!", g.Name)}
			}

			return goalResultMsg{message: fmt.Sprintf("Deposited into %q.", g.Name)}

		case goalsStateDelete:
			if !f.confirm {
				return goalResultMsg{message: "Kept."}
			}

			if err := svc.Delete(ctx, selected.Goal.ID); err != nil {
				return goalResultMsg{err: err}
			}

			return goalResultMsg{message: fmt.Sprintf("Deleted %q.", selected.Goal.Name)}
		}

		return goalResultMsg{err: fmt.Errorf("unexpected goal state %d", state)}
	}
}

package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ahorros/internal/finance"
	"github.com/MrJamesThe3rd/ahorros/internal/normalize"
	"github.com/MrJamesThe3rd/ahorros/internal/transaction"
)

type txState int

const (
	txStateTimeframe txState = iota
	txStateList
	txStateEditing
	txStateDeleting
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx       transaction.Transaction
	currency string
}

func (i txItem) Title() string {
	amount := finance.FormatSigned(i.tx.Signed(), i.currency)
	if i.tx.Type == transaction.TypeExpense {
		amount = expenseStyle.Render(amount)
	} else {
		amount = incomeStyle.Render(amount)
	}

	return fmt.Sprintf("%s  %s  %s", FormatDate(i.tx.CreatedAt), amount, i.tx.Name)
}

func (i txItem) Description() string {
	return fmt.Sprintf("%s · %s", i.tx.Category, i.tx.Recurrence)
}

func (i txItem) FilterValue() string {
	return i.tx.Name + " " + i.tx.Category
}

// txForm holds the huh bindings for the add/edit form.
type txForm struct {
	kind       string
	name       string
	amount     string
	category   string
	recurrence string
	date       string
}

type TransactionsModel struct {
	CommonModel
	txService *transaction.Service
	docs      Snapshotter

	state           txState
	timeframePicker TimeframePicker
	timeframe       TimeframeSelectedMsg
	list            list.Model
	form            *huh.Form
	fields          *txForm
	confirmDelete   *bool
	txs             []transaction.Transaction
	currency        string
	editing         *transaction.Transaction

	loading bool
	status  string
}

func NewTransactionsModel(txSvc *transaction.Service, docs Snapshotter) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return TransactionsModel{
		txService:       txSvc,
		docs:            docs,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		list:            l,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateTimeframe:
		return "Esc: back | Enter: select"
	case txStateList:
		return "Esc: back | Enter: edit | n: new | d: delete | t: timeframe | /: filter"
	case txStateEditing, txStateDeleting:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.timeframe = msg
		m.loading = true
		m.state = txStateList

		return m, m.loadTxsCmd()

	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.txs = msg.txs
		m.currency = msg.currency
		m.refreshListItems()

		m.status = fmt.Sprintf("%s · %d transactions", m.timeframe.Label, len(msg.txs))
		if len(msg.txs) == 0 {
			m.status = fmt.Sprintf("%s · no transactions found", m.timeframe.Label)
		}

		return m, nil

	case saveTxResultMsg:
		m.state = txStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = msg.message

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.SetSize(msg)
		m.list.SetSize(msg.Width-4, msg.Height-8)

		return m, nil
	}

	switch m.state {
	case txStateTimeframe:
		return m.updateTimeframe(msg)
	case txStateList:
		return m.updateList(msg)
	case txStateEditing, txStateDeleting:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "enter":
			if selected, ok := m.list.SelectedItem().(txItem); ok {
				return m.startEditing(&selected.tx)
			}

			return m, nil
		case "n":
			return m.startEditing(nil)
		case "d":
			return m.startDeleting()
		case "t":
			m.state = txStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

// startEditing opens the form for tx, or for a new transaction when tx is nil.
func (m TransactionsModel) startEditing(tx *transaction.Transaction) (tea.Model, tea.Cmd) {
	f := &txForm{
		kind:       string(transaction.TypeExpense),
		recurrence: string(transaction.RecurrenceVariable),
		date:       FormatDate(time.Now()),
	}

	if tx != nil {
		f.kind = string(tx.Type)
		f.name = tx.Name
		f.amount = tx.Amount.String()
		f.category = tx.Category
		f.recurrence = string(tx.Recurrence)
		f.date = FormatDate(tx.CreatedAt)
	}

	m.editing = tx
	m.fields = f
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Expense", string(transaction.TypeExpense)),
					huh.NewOption("Income", string(transaction.TypeIncome)),
				).
				Value(&f.kind),

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
				Title("Amount").
				Placeholder("0.00").
				Value(&f.amount).
				Validate(validateAmount),

			huh.NewSelect[string]().
				Title("Category").
				OptionsFunc(func() []huh.Option[string] {
					return huh.NewOptions(transaction.Categories(transaction.Type(f.kind))...)
				}, &f.kind).
				Value(&f.category),

			huh.NewSelect[string]().
				Title("Recurrence").
				Options(
					huh.NewOption("Variable", string(transaction.RecurrenceVariable)),
					huh.NewOption("Fixed", string(transaction.RecurrenceFixed)),
				).
				Value(&f.recurrence),

			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.date).
				Validate(func(s string) error {
					if _, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), time.Local); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateEditing

	return m, m.form.Init()
}

func (m TransactionsModel) startDeleting() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	m.editing = &selected.tx
	m.confirmDelete = new(false)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", selected.tx.Name)).
				Affirmative("Delete").
				Negative("Keep").
				Value(m.confirmDelete),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateDeleting

	return m, m.form.Init()
}

func (m TransactionsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.state == txStateDeleting {
			if !*m.confirmDelete {
				m.state = txStateList
				m.form = nil

				return m, nil
			}

			return m, m.deleteTxCmd(m.editing.ID)
		}

		return m, m.saveTxCmd()
	case huh.StateAborted:
		m.state = txStateList
		m.form = nil

		return m, nil
	}

	return m, cmd
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case txStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = faintStyle.Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(
			statusLine + m.list.View() + "\n" + faintStyle.Render(m.ShortHelp()),
		)

	case txStateEditing, txStateDeleting:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.txInfoView() + "\n" + m.form.View())
	}

	return ""
}

func (m TransactionsModel) txInfoView() string {
	if m.editing == nil {
		return headerStyle.Render("New transaction")
	}

	return boxStyle.Render(fmt.Sprintf(
		"Date: %s  |  Type: %s  |  Amount: %s\nCategory: %s  |  ID: %s",
		FormatDate(m.editing.CreatedAt),
		m.editing.Type,
		FormatAmount(m.editing.Amount, m.currency),
		m.editing.Category,
		m.editing.ID,
	))
}

func (m *TransactionsModel) refreshListItems() {
	items := make([]list.Item, len(m.txs))
	for i, tx := range m.txs {
		items[i] = txItem{tx: tx, currency: m.currency}
	}

	m.list.SetItems(items)
}

func validateAmount(s string) error {
	amount, ok := normalize.ParseAmount(s)
	if !ok {
		return fmt.Errorf("not a number")
	}

	if !amount.IsPositive() {
		return fmt.Errorf("must be greater than zero")
	}

	return nil
}

// Messages

type loadTxsMsg struct {
	txs      []transaction.Transaction
	currency string
	err      error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	tf := m.timeframe

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		doc, err := m.docs.Snapshot(ctx)
		if err != nil {
			return loadTxsMsg{err: err}
		}

		filter := transaction.ListFilter{}

		if !tf.All {
			start, end := tf.Start, tf.End
			filter.StartDate = &start
			filter.EndDate = &end
		}

		txs, err := m.txService.List(ctx, filter)

		return loadTxsMsg{txs: txs, currency: doc.Meta.Currency, err: err}
	}
}

type saveTxResultMsg struct {
	message string
	err     error
}

func (m TransactionsModel) saveTxCmd() tea.Cmd {
	f := *m.fields
	editing := m.editing
	txSvc := m.txService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		amount, _ := normalize.ParseAmount(f.amount)

		date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(f.date), time.Local)
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		if editing != nil && FormatDate(editing.CreatedAt) == FormatDate(date) {
			date = editing.CreatedAt
		}

		kind := transaction.Type(f.kind)
		recurrence := transaction.Recurrence(f.recurrence)

		if editing == nil {
			tx, err := txSvc.Create(ctx, transaction.CreateParams{
				Name:       f.name,
				Amount:     amount,
				Category:   f.category,
				Type:       kind,
				Recurrence: recurrence,
				Date:       date,
			})
			if err != nil {
				return saveTxResultMsg{err: err}
			}

			return saveTxResultMsg{message: fmt.Sprintf("Added %q.", tx.Name)}
		}

		tx, err := txSvc.Update(ctx, editing.ID, transaction.UpdateParams{
			Name:       &f.name,
			Amount:     &amount,
			Category:   &f.category,
			Type:       &kind,
			Recurrence: &recurrence,
			Date:       &date,
		})
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		return saveTxResultMsg{message: fmt.Sprintf("Saved %q.", tx.Name)}
	}
}

func (m TransactionsModel) deleteTxCmd(id string) tea.Cmd {
	txSvc := m.txService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := txSvc.Delete(ctx, id); err != nil {
			return saveTxResultMsg{err: err}
		}

		return saveTxResultMsg{message: "Deleted."}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = headerStyle.Render("> ") + title
	} else {
		title = "  " + title
	}

	fmt.Fprintf(w, "%s\n    %s\n", title, faintStyle.Render(i.Description()))
}

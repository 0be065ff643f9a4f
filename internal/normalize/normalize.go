// Package normalize turns mapped import candidates into canonical
// transactions. Rows that cannot qualify are dropped, never returned as
// errors.
package normalize

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ahorros/internal/mapping"
	"github.com/MrJamesThe3rd/ahorros/internal/transaction"
)

// Raw type markers that classify a row as income.
var incomeMarkers = []string{"ingreso", "income", "fijo +"}

// Layouts tried in order when reading an imported date. Day-first forms win
// over month-first ones.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02/01/06",
	"01-02-06",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// Rejection explains why one candidate was dropped. Row is zero-based.
type Rejection struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Report summarizes one normalization run.
type Report struct {
	Total      int         `json:"total"`
	Accepted   int         `json:"accepted"`
	Rejected   int         `json:"rejected"`
	Rejections []Rejection `json:"rejections,omitempty"`
	// DateFallbacks counts rows whose date could not be read and got the
	// import time instead.
	DateFallbacks int `json:"dateFallbacks,omitempty"`
}

type Normalizer struct {
	now   func() time.Time
	newID func() string
	loc   *time.Location
}

type Option func(*Normalizer)

func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

func WithIDs(newID func() string) Option {
	return func(n *Normalizer) { n.newID = newID }
}

// WithLocation sets the zone for dates that carry no offset.
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) { n.loc = loc }
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		now:   time.Now,
		newID: transaction.NewID,
		loc:   time.Local,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Normalize converts every candidate it can and reports the rest. All
// accepted rows without a readable date share one import timestamp.
func (n *Normalizer) Normalize(cands []mapping.Candidate) ([]transaction.Transaction, Report) {
	importedAt := n.now()
	report := Report{Total: len(cands)}
	out := make([]transaction.Transaction, 0, len(cands))

	for i, c := range cands {
		tx, fellBack, reason := n.normalizeOne(c, importedAt)
		if reason != "" {
			report.Rejections = append(report.Rejections, Rejection{Row: i, Reason: reason})
			continue
		}

		if fellBack {
			report.DateFallbacks++
		}

		out = append(out, tx)
	}

	report.Accepted = len(out)
	report.Rejected = len(report.Rejections)

	return out, report
}

func (n *Normalizer) normalizeOne(c mapping.Candidate, importedAt time.Time) (transaction.Transaction, bool, string) {
	raw, ok := ParseAmount(c.Amount)

	tx := transaction.Transaction{
		Name:       orDefault(c.Name, transaction.DefaultName),
		Amount:     raw.Abs(),
		Category:   orDefault(c.Category, transaction.DefaultCategory),
		Type:       InferType(c.Type, raw),
		Recurrence: ParseRecurrence(c.Recurrence),
	}

	createdAt, fellBack := importedAt, false

	if strings.TrimSpace(c.Date) != "" {
		if d, err := n.ParseDate(c.Date); err == nil {
			createdAt = d
		} else {
			fellBack = true
		}
	}

	tx.CreatedAt = createdAt
	tx.ID = n.newID()

	if !tx.Amount.IsPositive() {
		switch {
		case strings.TrimSpace(c.Amount) == "":
			return tx, false, "amount is empty"
		case !ok:
			return tx, false, "amount is not a number: " + c.Amount
		default:
			return tx, false, "amount must be greater than zero"
		}
	}

	return tx, fellBack, ""
}

// ParseAmount strips currency symbols, thousands separators and whitespace
// and parses the rest. Unreadable input yields zero and false.
func ParseAmount(s string) (decimal.Decimal, bool) {
	clean := strings.Map(func(r rune) rune {
		if r == '$' || r == ',' || unicode.IsSpace(r) {
			return -1
		}

		return r
	}, s)

	if clean == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

// InferType classifies a row as income when the raw type names it as such or
// when the raw amount is positive. Everything else is an expense, so an
// unsigned amount with no type column counts as income.
func InferType(rawType string, rawAmount decimal.Decimal) transaction.Type {
	t := strings.ToLower(rawType)

	for _, marker := range incomeMarkers {
		if strings.Contains(t, marker) {
			return transaction.TypeIncome
		}
	}

	if rawAmount.IsPositive() {
		return transaction.TypeIncome
	}

	return transaction.TypeExpense
}

// ParseRecurrence maps free text onto the recurrence enum. Only values that
// read as "fixed" (fijo, fija, fixed) produce RecurrenceFixed.
func ParseRecurrence(raw string) transaction.Recurrence {
	r := strings.ToLower(strings.TrimSpace(raw))

	if strings.Contains(r, "fij") || strings.Contains(r, "fixed") {
		return transaction.RecurrenceFixed
	}

	return transaction.RecurrenceVariable
}

// ParseDate reads s with the first matching layout.
func (n *Normalizer) ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	var err error

	for _, layout := range dateLayouts {
		var t time.Time

		t, err = time.ParseInLocation(layout, s, n.loc)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, err
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}

	return def
}

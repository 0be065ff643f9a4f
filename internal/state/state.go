// Package state defines the single persisted application document.
package state

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
	"github.com/MrJamesThe3rd/ahorros/internal/goal"
	"github.com/MrJamesThe3rd/ahorros/internal/transaction"
)

// Version gates compatibility. A stored document with any other version is
// discarded and replaced by defaults; there is no migration path.
const Version = "1.0.0"

const (
	DefaultCurrency            = "MXN"
	DefaultUserName            = "Usuario"
	DefaultMonthlyInterestRate = 11.0
	DefaultEmergencyFundMonths = 3
)

func init() {
	// Persisted documents and backups carry amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Meta struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Currency  string    `json:"currency"`
}

type Settings struct {
	UserName string `json:"userName"`
	// MonthlyInterestRate is an annual percentage despite its name; the
	// stored key is kept for compatibility with existing backups.
	MonthlyInterestRate float64 `json:"monthlyInterestRate"`
	EmergencyFundMonths int     `json:"emergencyFundMonths"`
}

// Document is the whole persisted application state.
type Document struct {
	Meta         Meta                      `json:"meta"`
	Settings     Settings                  `json:"settings"`
	Transactions []transaction.Transaction `json:"transactions"`
	Goals        []goal.Goal               `json:"goals"`
}

// Default returns a fresh document stamped with now.
func Default(now time.Time) Document {
	return Document{
		Meta: Meta{
			Version:   Version,
			CreatedAt: now,
			UpdatedAt: now,
			Currency:  DefaultCurrency,
		},
		Settings: Settings{
			UserName:            DefaultUserName,
			MonthlyInterestRate: DefaultMonthlyInterestRate,
			EmergencyFundMonths: DefaultEmergencyFundMonths,
		},
		Transactions: []transaction.Transaction{},
		Goals:        []goal.Goal{},
	}
}

// Compatible reports whether the document can be used as-is.
func (d Document) Compatible() bool {
	return d.Meta.Version == Version
}

// Clone returns a copy whose collections can be mutated independently.
func (d Document) Clone() Document {
	out := d
	out.Transactions = slices.Clone(d.Transactions)
	out.Goals = slices.Clone(d.Goals)

	if out.Transactions == nil {
		out.Transactions = []transaction.Transaction{}
	}

	if out.Goals == nil {
		out.Goals = []goal.Goal{}
	}

	return out
}

// SettingsUpdate is a partial settings edit.
type SettingsUpdate struct {
	UserName            *string  `json:"userName,omitempty"`
	MonthlyInterestRate *float64 `json:"monthlyInterestRate,omitempty"`
	EmergencyFundMonths *int     `json:"emergencyFundMonths,omitempty"`
}

// Apply merges the non-nil fields into s.
func (u SettingsUpdate) Apply(s Settings) Settings {
	if u.UserName != nil {
		s.UserName = *u.UserName
	}

	if u.MonthlyInterestRate != nil {
		s.MonthlyInterestRate = *u.MonthlyInterestRate
	}

	if u.EmergencyFundMonths != nil {
		s.EmergencyFundMonths = *u.EmergencyFundMonths
	}

	return s
}

func (s Settings) Validate() error {
	if s.EmergencyFundMonths < 1 {
		return fmt.Errorf("%w: emergencyFundMonths must be at least 1", apperrors.ErrValidation)
	}

	if s.MonthlyInterestRate < 0 {
		return fmt.Errorf("%w: monthlyInterestRate cannot be negative", apperrors.ErrValidation)
	}

	return nil
}

package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusPaid     BillStatus = "paid"
	StatusOverdue  BillStatus = "overdue"
	StatusSoon     BillStatus = "soon"
	StatusUpcoming BillStatus = "upcoming"
)

// Expected bills become "soon" when due within this many days of the
// reference date.
const SoonWindowDays = 5

type (
	BillStatus string

	Money struct {
		Cents int64
	}

	// Transaction is a single posted movement on a user's account.
	// Negative cents are debits, positive cents are credits.
	Transaction struct {
		ID           string
		Counterparty string
		Avatar       string
		Amount       Money
		Date         time.Time
		Category     string
		IsRecurring  bool
	}

	// Budget is a monthly spending cap for one category.
	Budget struct {
		ID        string
		Category  string
		Amount    Money // cap, always positive
		Color     string
		CreatedAt time.Time
	}

	// RecurringBill is derived from the transaction history on every
	// query; it is never persisted. Paid bills are this month's
	// recurring transactions, the rest are synthesized expectations.
	RecurringBill struct {
		ID           string
		Counterparty string
		Avatar       string
		Amount       Money
		Date         time.Time
		Status       BillStatus
	}

	User struct {
		ID           string
		Name         string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}
)

var (
	ErrEmptyCounterparty = errors.New("empty counterparty name")
	ErrEmptyCategory     = errors.New("empty category")
	ErrZeroAmount        = errors.New("amount cannot be zero")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrZeroDate          = errors.New("date cannot be zero")
	ErrEmptyColor        = errors.New("empty color")
)

// Abs returns the magnitude of the amount. Bill and budget math works
// on magnitudes, not signs.
func (m Money) Abs() int64 {
	if m.Cents < 0 {
		return -m.Cents
	}
	return m.Cents
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Counterparty) == "" {
		return ErrEmptyCounterparty
	}
	if len(t.Counterparty) > 200 {
		return errors.New("counterparty too long (max 200 characters)")
	}
	if t.Amount.Cents == 0 {
		return ErrZeroAmount
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(b.Color) == "" {
		return ErrEmptyColor
	}
	return nil
}

// StartOfMonth truncates t to midnight on the first of its month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

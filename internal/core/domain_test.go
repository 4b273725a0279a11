package core

import (
	"errors"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Counterparty: "Spark Electric Solutions",
		Amount:       Money{Cents: -10000},
		Date:         time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC),
		Category:     "Bills",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		tx   Transaction
		want error
	}{
		{"empty counterparty", Transaction{Amount: Money{Cents: 1}, Date: time.Now(), Category: "c"}, ErrEmptyCounterparty},
		{"whitespace counterparty", Transaction{Counterparty: "   ", Amount: Money{Cents: 1}, Date: time.Now(), Category: "c"}, ErrEmptyCounterparty},
		{"zero amount", Transaction{Counterparty: "a", Date: time.Now(), Category: "c"}, ErrZeroAmount},
		{"zero date", Transaction{Counterparty: "a", Amount: Money{Cents: 1}, Category: "c"}, ErrZeroDate},
		{"empty category", Transaction{Counterparty: "a", Amount: Money{Cents: 1}, Date: time.Now()}, ErrEmptyCategory},
	}
	for _, tc := range cases {
		if err := tc.tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Category: "Bills", Amount: Money{Cents: 75000}, Color: "Cyan"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		b    Budget
		want error
	}{
		{"empty category", Budget{Amount: Money{Cents: 1}, Color: "Cyan"}, ErrEmptyCategory},
		{"zero amount", Budget{Category: "Bills", Color: "Cyan"}, ErrInvalidAmount},
		{"negative amount", Budget{Category: "Bills", Amount: Money{Cents: -1}, Color: "Cyan"}, ErrInvalidAmount},
		{"empty color", Budget{Category: "Bills", Amount: Money{Cents: 1}}, ErrEmptyColor},
	}
	for _, tc := range cases {
		if err := tc.b.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestStartOfMonth(t *testing.T) {
	in := time.Date(2024, 8, 19, 15, 30, 45, 0, time.UTC)
	want := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	if got := StartOfMonth(in); !got.Equal(want) {
		t.Fatalf("StartOfMonth = %v, want %v", got, want)
	}
}

func TestSameMonth(t *testing.T) {
	a := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 8, 31, 23, 59, 0, 0, time.UTC)
	if !SameMonth(a, b) {
		t.Fatalf("same month not detected")
	}
	// Same month number, different year.
	c := time.Date(2023, 8, 15, 0, 0, 0, 0, time.UTC)
	if SameMonth(a, c) {
		t.Fatalf("different years must not match")
	}
}

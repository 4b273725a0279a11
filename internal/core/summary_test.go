package core

import (
	"testing"
	"time"
)

func bill(status BillStatus, cents int64) RecurringBill {
	return RecurringBill{Status: status, Amount: Money{Cents: cents}}
}

func TestSummarizeBills(t *testing.T) {
	bills := []RecurringBill{
		bill(StatusPaid, -1000),
		bill(StatusPaid, -2550),
		bill(StatusSoon, -500),
		bill(StatusUpcoming, -9999),
		bill(StatusOverdue, -3000),
	}

	s := SummarizeBills(bills)

	if s.All.Count != 5 || s.All.Total.Cents != 17049 {
		t.Fatalf("all bucket: %+v", s.All)
	}
	if s.Paid.Count != 2 || s.Paid.Total.Cents != 3550 {
		t.Fatalf("paid bucket: %+v", s.Paid)
	}
	if s.Soon.Count != 1 || s.Soon.Total.Cents != 500 {
		t.Fatalf("soon bucket: %+v", s.Soon)
	}
	if s.Upcoming.Count != 1 || s.Upcoming.Total.Cents != 9999 {
		t.Fatalf("upcoming bucket: %+v", s.Upcoming)
	}

	// Overdue contributes to All but has no bucket of its own.
	if got := s.Paid.Count + s.Soon.Count + s.Upcoming.Count; got != 4 {
		t.Fatalf("overdue leaked into a status bucket: %+v", s)
	}
}

func TestSummarizeBillsUsesMagnitudes(t *testing.T) {
	s := SummarizeBills([]RecurringBill{bill(StatusPaid, -1000), bill(StatusPaid, 1000)})
	if s.All.Total.Cents != 2000 {
		t.Fatalf("totals should sum magnitudes, got %d", s.All.Total.Cents)
	}
}

func TestSummarizeBillsEmpty(t *testing.T) {
	s := SummarizeBills(nil)
	if s.All.Count != 0 || s.All.Total.Cents != 0 {
		t.Fatalf("empty summary: %+v", s)
	}
}

func TestBudgetSpent(t *testing.T) {
	current := time.Date(2024, 8, 19, 0, 0, 0, 0, time.UTC)
	b := Budget{Category: "Dining Out", Amount: Money{Cents: 7500}}

	transactions := []Transaction{
		{Category: "Dining Out", Amount: Money{Cents: -5550}, Date: time.Date(2024, 8, 19, 0, 0, 0, 0, time.UTC)},
		{Category: "Dining Out", Amount: Money{Cents: -3250}, Date: time.Date(2024, 8, 13, 0, 0, 0, 0, time.UTC)},
		// Wrong month
		{Category: "Dining Out", Amount: Money{Cents: -6920}, Date: time.Date(2024, 7, 27, 0, 0, 0, 0, time.UTC)},
		// Wrong category
		{Category: "Groceries", Amount: Money{Cents: -2750}, Date: time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)},
	}

	spent := BudgetSpent(b, transactions, current)
	if spent.Cents != 8800 {
		t.Fatalf("spent = %d, want 8800", spent.Cents)
	}
}

func TestBudgetFreeFlooredAtZero(t *testing.T) {
	b := Budget{Category: "Dining Out", Amount: Money{Cents: 7500}}

	if free := BudgetFree(b, Money{Cents: 5000}); free.Cents != 2500 {
		t.Fatalf("free = %d, want 2500", free.Cents)
	}
	if free := BudgetFree(b, Money{Cents: 8800}); free.Cents != 0 {
		t.Fatalf("overspent budget must report zero free, got %d", free.Cents)
	}
}

func TestMoneyAbs(t *testing.T) {
	if (Money{Cents: -123}).Abs() != 123 || (Money{Cents: 123}).Abs() != 123 || (Money{}).Abs() != 0 {
		t.Fatalf("Abs is wrong")
	}
}

package core

import "time"

// TotalAndCount is one bucket of a bill summary: the summed magnitude
// of the amounts and how many bills contributed.
type TotalAndCount struct {
	Total Money
	Count int
}

// BillSummary breaks the classified bill set down by status. Overdue
// bills are counted in All but get no bucket of their own, matching
// the dashboard cards.
type BillSummary struct {
	All      TotalAndCount
	Paid     TotalAndCount
	Soon     TotalAndCount
	Upcoming TotalAndCount
}

// SummarizeBills reduces a classified bill set to per-status totals.
// It must run over the full classified set, before any search
// filtering: search narrows what is listed, never what is owed.
func SummarizeBills(bills []RecurringBill) BillSummary {
	var s BillSummary
	for _, bill := range bills {
		add(&s.All, bill)
		switch bill.Status {
		case StatusPaid:
			add(&s.Paid, bill)
		case StatusSoon:
			add(&s.Soon, bill)
		case StatusUpcoming:
			add(&s.Upcoming, bill)
		}
	}
	return s
}

func add(tc *TotalAndCount, bill RecurringBill) {
	tc.Total.Cents += bill.Amount.Abs()
	tc.Count++
}

// BudgetSpent sums the magnitude of the reference month's transactions
// for a budget's category. Transactions from other months are ignored.
func BudgetSpent(b Budget, transactions []Transaction, currentDate time.Time) Money {
	var total int64
	for _, t := range transactions {
		if t.Category != b.Category {
			continue
		}
		if !SameMonth(t.Date, currentDate) {
			continue
		}
		total += t.Amount.Cents
	}
	if total < 0 {
		total = -total
	}
	return Money{Cents: total}
}

// BudgetFree is the remaining headroom under the cap, floored at zero:
// an overspent budget reports nothing free rather than a negative
// balance.
func BudgetFree(b Budget, spent Money) Money {
	free := b.Amount.Cents - spent.Cents
	if free < 0 {
		free = 0
	}
	return Money{Cents: free}
}

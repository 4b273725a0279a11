// Package services provides business logic over the storage layer:
// recurring-bill classification, the shared list pipeline and budget
// math.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/core"
)

// BillStore is the slice of storage the bill classifier needs.
type BillStore interface {
	RecurringTransactions(ctx context.Context, userID string, from, to time.Time) ([]core.Transaction, error)
	LatestTransactionDate(ctx context.Context, userID string) (time.Time, error)
}

type BillService struct {
	store BillStore
}

func NewBillService(store BillStore) *BillService {
	return &BillService{store: store}
}

// LatestTransactionDate is the dashboard's reference "today".
func (s *BillService) LatestTransactionDate(ctx context.Context, userID string) (time.Time, error) {
	return s.store.LatestTransactionDate(ctx, userID)
}

// RecurringBills derives the user's bill list for the month containing
// currentDate. Recurring transactions already posted this month are
// paid. A counterparty that billed last month but not yet this month
// gets a synthesized bill one calendar month after its last occurrence,
// bucketed by urgency against currentDate. The counterparty name is
// the join key between months: exact, case-sensitive string equality.
func (s *BillService) RecurringBills(ctx context.Context, userID string, currentDate time.Time, sortKey core.SortKey) ([]core.RecurringBill, error) {
	startOfCurrentMonth := core.StartOfMonth(currentDate)
	startOfLastMonth := core.StartOfMonth(startOfCurrentMonth.AddDate(0, 0, -1))

	thisMonth, err := s.store.RecurringTransactions(ctx, userID, startOfCurrentMonth, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("fetch this month's bills: %w", err)
	}
	lastMonth, err := s.store.RecurringTransactions(ctx, userID, startOfLastMonth, startOfCurrentMonth)
	if err != nil {
		return nil, fmt.Errorf("fetch last month's bills: %w", err)
	}

	billedThisMonth := make(map[string]bool, len(thisMonth))
	for _, t := range thisMonth {
		billedThisMonth[t.Counterparty] = true
	}

	bills := make([]core.RecurringBill, 0, len(thisMonth)+len(lastMonth))
	for _, t := range thisMonth {
		bills = append(bills, billFromTransaction(t, core.StatusPaid))
	}
	for _, t := range lastMonth {
		if billedThisMonth[t.Counterparty] {
			continue
		}
		expected := billFromTransaction(t, "")
		expected.Date = addCalendarMonth(t.Date)
		expected.Status = classifyExpected(expected.Date, currentDate)
		bills = append(bills, expected)
	}

	core.SortSlice(bills, sortKey)
	return bills, nil
}

func billFromTransaction(t core.Transaction, status core.BillStatus) core.RecurringBill {
	return core.RecurringBill{
		ID:           t.ID,
		Counterparty: t.Counterparty,
		Avatar:       t.Avatar,
		Amount:       t.Amount,
		Date:         t.Date,
		Status:       status,
	}
}

func classifyExpected(billDate, currentDate time.Time) core.BillStatus {
	if billDate.Before(currentDate) {
		return core.StatusOverdue
	}
	if billDate.Before(currentDate.AddDate(0, 0, core.SoonWindowDays)) {
		return core.StatusSoon
	}
	return core.StatusUpcoming
}

// addCalendarMonth advances a date by one month, clamping to the last
// day of the target month so Jan 31 becomes Feb 28/29 rather than
// spilling into March.
func addCalendarMonth(t time.Time) time.Time {
	year, month, day := t.Date()
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfNext.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day, 0, 0, 0, 0, t.Location())
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/core"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/services"
)

type overviewResponse struct {
	BalanceCents       int64               `json:"balanceCents"`
	IncomeCents        int64               `json:"incomeCents"`
	ExpensesCents      int64               `json:"expensesCents"`
	Bills              billSummaryResponse `json:"bills"`
	TotalSpentCents    int64               `json:"totalSpentCents"`
	TotalBudgetedCents int64               `json:"totalBudgetedCents"`
}

// handleOverview serves the dashboard landing data: all-time balance,
// the reference month's income and expenses, the bill summary and the
// budget totals.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request, userID string) {
	ov, found := s.overviewCache.Get(userID)
	if found {
		slog.DebugContext(r.Context(), "Overview cache hit", "user_id", userID)
	} else {
		currentDate, err := s.bills.LatestTransactionDate(r.Context(), userID)
		if err != nil {
			writeStorageError(w, r, err)
			return
		}
		ov, err = s.transactions.Overview(r.Context(), userID, currentDate)
		if err != nil {
			writeStorageError(w, r, err)
			return
		}
		s.overviewCache.Set(userID, ov)
	}

	bills, err := s.classifiedBills(r, userID, core.DefaultSortKey)
	if err != nil {
		writeStorageError(w, r, err)
		return
	}
	summary := core.SummarizeBills(bills)

	currentDate, err := s.bills.LatestTransactionDate(r.Context(), userID)
	if err != nil {
		writeStorageError(w, r, err)
		return
	}
	views, err := s.budgets.List(r.Context(), userID, currentDate)
	if err != nil {
		writeStorageError(w, r, err)
		return
	}
	spent, budgeted := s.budgets.Totals(views)

	writeJSON(w, http.StatusOK, toOverviewResponse(ov, summary, spent, budgeted))
}

func toOverviewResponse(ov services.Overview, summary core.BillSummary, spent, budgeted core.Money) overviewResponse {
	return overviewResponse{
		BalanceCents:  ov.Balance.Cents,
		IncomeCents:   ov.Income.Cents,
		ExpensesCents: ov.Expenses.Cents,
		Bills: billSummaryResponse{
			All:      toBillBucket(summary.All),
			Paid:     toBillBucket(summary.Paid),
			Soon:     toBillBucket(summary.Soon),
			Upcoming: toBillBucket(summary.Upcoming),
		},
		TotalSpentCents:    spent.Cents,
		TotalBudgetedCents: budgeted.Cents,
	}
}

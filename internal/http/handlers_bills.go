package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/core"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/search"
)

type billResponse struct {
	ID           string `json:"id"`
	Counterparty string `json:"counterparty"`
	Avatar       string `json:"avatar,omitempty"`
	AmountCents  int64  `json:"amountCents"`
	Date         string `json:"date"`
	Status       string `json:"status"`
}

type billBucketResponse struct {
	TotalCents int64 `json:"totalCents"`
	Count      int   `json:"count"`
}

type billSummaryResponse struct {
	All      billBucketResponse `json:"all"`
	Paid     billBucketResponse `json:"paid"`
	Soon     billBucketResponse `json:"soon"`
	Upcoming billBucketResponse `json:"upcoming"`
}

type billListResponse struct {
	Items       []billResponse      `json:"items"`
	Count       int                 `json:"count"`
	Page        int                 `json:"page"`
	PageCount   int                 `json:"pageCount"`
	PageNumbers []int               `json:"pageNumbers,omitempty"`
	Summary     billSummaryResponse `json:"summary"`
}

func toBillBucket(tc core.TotalAndCount) billBucketResponse {
	return billBucketResponse{TotalCents: tc.Total.Cents, Count: tc.Count}
}

// handleRecurringBills derives, summarizes and lists the user's bills.
// The summary always reflects the full classified set; search and
// pagination only narrow the listed items.
func (s *Server) handleRecurringBills(w http.ResponseWriter, r *http.Request, userID string) {
	sortKey, ok := parseSortKey(w, r)
	if !ok {
		return
	}

	bills, err := s.classifiedBills(r, userID, sortKey)
	if err != nil {
		writeStorageError(w, r, err)
		return
	}

	summary := core.SummarizeBills(bills)

	if q := strings.TrimSpace(r.URL.Query().Get("search")); q != "" {
		bills = search.Rank(bills, q, func(b core.RecurringBill) string {
			return b.Counterparty
		})
	}

	pageReq := parsePageRequest(r)
	page := core.Paginate(bills, pageReq)

	resp := billListResponse{
		Items: make([]billResponse, 0, len(page.Items)),
		Count: page.Count,
		Page:  pageReq.Page,
		Summary: billSummaryResponse{
			All:      toBillBucket(summary.All),
			Paid:     toBillBucket(summary.Paid),
			Soon:     toBillBucket(summary.Soon),
			Upcoming: toBillBucket(summary.Upcoming),
		},
	}
	for _, b := range page.Items {
		resp.Items = append(resp.Items, billResponse{
			ID:           b.ID,
			Counterparty: b.Counterparty,
			Avatar:       b.Avatar,
			AmountCents:  b.Amount.Cents,
			Date:         formatDate(b.Date),
			Status:       string(b.Status),
		})
	}
	if pageReq.Size > 0 {
		resp.PageCount = core.PageCount(page.Count, pageReq.Size)
		resp.PageNumbers = core.PageNumbers(pageReq.Page, resp.PageCount)
	}

	writeJSON(w, http.StatusOK, resp)
}

// classifiedBills returns the cached classified set for the user and
// sort key, deriving it on a miss.
func (s *Server) classifiedBills(r *http.Request, userID string, sortKey core.SortKey) ([]core.RecurringBill, error) {
	key := billsCacheKey(userID, sortKey)
	if cached, found := s.billsCache.Get(key); found {
		slog.DebugContext(r.Context(), "Bills cache hit", "user_id", userID, "sort", string(sortKey))
		result := make([]core.RecurringBill, len(cached))
		copy(result, cached)
		return result, nil
	}

	currentDate, err := s.bills.LatestTransactionDate(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	bills, err := s.bills.RecurringBills(r.Context(), userID, currentDate, sortKey)
	if err != nil {
		return nil, err
	}

	s.billsCache.Set(key, bills)
	return bills, nil
}

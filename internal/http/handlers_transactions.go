package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/amqp"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/core"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/services"
)

type transactionResponse struct {
	ID           string `json:"id"`
	Counterparty string `json:"counterparty"`
	Avatar       string `json:"avatar,omitempty"`
	AmountCents  int64  `json:"amountCents"`
	Date         string `json:"date"`
	Category     string `json:"category"`
	IsRecurring  bool   `json:"isRecurring"`
}

type transactionListResponse struct {
	Items       []transactionResponse `json:"items"`
	Count       int                   `json:"count"`
	Page        int                   `json:"page"`
	PageCount   int                   `json:"pageCount"`
	PageNumbers []int                 `json:"pageNumbers,omitempty"`
}

type createTransactionRequest struct {
	Counterparty string `json:"counterparty"`
	Avatar       string `json:"avatar"`
	AmountCents  int64  `json:"amountCents"`
	Date         string `json:"date"`
	Category     string `json:"category"`
	IsRecurring  bool   `json:"isRecurring"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:           t.ID,
		Counterparty: t.Counterparty,
		Avatar:       t.Avatar,
		AmountCents:  t.Amount.Cents,
		Date:         formatDate(t.Date),
		Category:     t.Category,
		IsRecurring:  t.IsRecurring,
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, userID string) {
	sortKey, ok := parseSortKey(w, r)
	if !ok {
		return
	}

	query := services.TransactionQuery{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Sort:     sortKey,
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		Page:     parsePageRequest(r),
	}

	page, err := s.transactions.List(r.Context(), userID, query)
	if err != nil {
		writeStorageError(w, r, err)
		return
	}

	resp := transactionListResponse{
		Items: make([]transactionResponse, 0, len(page.Items)),
		Count: page.Count,
		Page:  query.Page.Page,
	}
	for _, t := range page.Items {
		resp.Items = append(resp.Items, toTransactionResponse(t))
	}
	if query.Page.Size > 0 {
		resp.PageCount = core.PageCount(page.Count, query.Page.Size)
		resp.PageNumbers = core.PageNumbers(query.Page.Page, resp.PageCount)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, userID string) {
	var req createTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := parseDate(strings.TrimSpace(req.Date))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}

	tx := core.Transaction{
		Counterparty: sanitizeInput(req.Counterparty),
		Avatar:       sanitizeInput(req.Avatar),
		Amount:       core.Money{Cents: req.AmountCents},
		Date:         date,
		Category:     sanitizeInput(req.Category),
		IsRecurring:  req.IsRecurring,
	}

	created, err := s.transactions.Create(r.Context(), userID, tx)
	if err != nil {
		if validationErr := tx.Validate(); validationErr != nil {
			writeError(w, http.StatusUnprocessableEntity, validationErr.Error())
			return
		}
		writeStorageError(w, r, err)
		return
	}

	s.invalidateDerived(userID)
	s.publishEvent(r, created.ID, userID, amqp.ActionCreated)

	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, userID string) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	if err := s.transactions.Delete(r.Context(), userID, id); err != nil {
		writeStorageError(w, r, err)
		return
	}

	s.invalidateDerived(userID)
	s.publishEvent(r, id, userID, amqp.ActionDeleted)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request, userID string) {
	categories, err := s.transactions.Categories(r.Context(), userID)
	if err != nil {
		writeStorageError(w, r, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

// publishEvent emits a transaction event when a publisher is wired.
// Event delivery is best effort: the write already committed, so a
// broker failure is logged rather than surfaced to the client.
func (s *Server) publishEvent(r *http.Request, transactionID, userID, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(r.Context(), transactionID, userID, action); err != nil {
		slog.ErrorContext(r.Context(), "Failed publishing transaction event",
			"error", err,
			"transaction_id", transactionID,
			"action", action)
	}
}

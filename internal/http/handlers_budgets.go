package http

import (
	"net/http"
	"strings"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/core"
)

type budgetResponse struct {
	ID           string                `json:"id"`
	Category     string                `json:"category"`
	AmountCents  int64                 `json:"amountCents"`
	Color        string                `json:"color"`
	Background   string                `json:"background"`
	Foreground   string                `json:"foreground"`
	SpentCents   int64                 `json:"spentCents"`
	FreeCents    int64                 `json:"freeCents"`
	SpentPercent float64               `json:"spentPercent"`
	Recent       []transactionResponse `json:"recent"`
}

type budgetListResponse struct {
	Items              []budgetResponse `json:"items"`
	TotalSpentCents    int64            `json:"totalSpentCents"`
	TotalBudgetedCents int64            `json:"totalBudgetedCents"`
}

type createBudgetRequest struct {
	Category    string `json:"category"`
	AmountCents int64  `json:"amountCents"`
	Color       string `json:"color"`
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request, userID string) {
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

	resp := budgetListResponse{
		Items:              make([]budgetResponse, 0, len(views)),
		TotalSpentCents:    spent.Cents,
		TotalBudgetedCents: budgeted.Cents,
	}
	for _, v := range views {
		recent := make([]transactionResponse, 0, len(v.Recent))
		for _, t := range v.Recent {
			recent = append(recent, toTransactionResponse(t))
		}
		resp.Items = append(resp.Items, budgetResponse{
			ID:           v.ID,
			Category:     v.Category,
			AmountCents:  v.Amount.Cents,
			Color:        v.Color,
			Background:   v.Colors.Background,
			Foreground:   v.Colors.Foreground,
			SpentCents:   v.Spent.Cents,
			FreeCents:    v.Free.Cents,
			SpentPercent: v.SpentPercent,
			Recent:       recent,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request, userID string) {
	var req createBudgetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	budget := core.Budget{
		Category: sanitizeInput(req.Category),
		Amount:   core.Money{Cents: req.AmountCents},
		Color:    sanitizeInput(req.Color),
	}

	created, err := s.budgets.Create(r.Context(), userID, budget)
	if err != nil {
		if validationErr := budget.Validate(); validationErr != nil {
			writeError(w, http.StatusUnprocessableEntity, validationErr.Error())
			return
		}
		writeStorageError(w, r, err)
		return
	}

	colors := core.ColorFor(created.Color)
	writeJSON(w, http.StatusCreated, budgetResponse{
		ID:          created.ID,
		Category:    created.Category,
		AmountCents: created.Amount.Cents,
		Color:       created.Color,
		Background:  colors.Background,
		Foreground:  colors.Foreground,
		FreeCents:   created.Amount.Cents,
		Recent:      []transactionResponse{},
	})
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request, userID string) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing budget id")
		return
	}

	if err := s.budgets.Delete(r.Context(), userID, id); err != nil {
		writeStorageError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBudgetColors(w http.ResponseWriter, r *http.Request, userID string) {
	writeJSON(w, http.StatusOK, map[string][]string{"colors": core.ColorNames()})
}

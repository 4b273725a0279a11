package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/core"
)

// BudgetStore is the slice of storage budget views need. Spent/free
// are computed here from the raw transactions, never persisted.
type BudgetStore interface {
	Budgets(ctx context.Context, userID string) ([]core.Budget, error)
	Transactions(ctx context.Context, userID string) ([]core.Transaction, error)
	CreateBudget(ctx context.Context, userID string, b core.Budget) error
	DeleteBudget(ctx context.Context, userID, id string) error
}

type BudgetService struct {
	store BudgetStore
}

func NewBudgetService(store BudgetStore) *BudgetService {
	return &BudgetService{store: store}
}

// How many of the category's latest transactions each budget card
// shows.
const recentTransactionCount = 3

// BudgetView is a budget with its derived numbers attached.
type BudgetView struct {
	core.Budget
	Spent        core.Money
	Free         core.Money
	SpentPercent float64
	Colors       core.ColorClasses
	Recent       []core.Transaction
}

// List returns the user's budgets newest first, each with spent/free
// computed over the month containing currentDate and the category's
// three most recent transactions. Transactions whose category has no
// budget simply don't contribute anywhere.
func (s *BudgetService) List(ctx context.Context, userID string, currentDate time.Time) ([]BudgetView, error) {
	budgets, err := s.store.Budgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch budgets: %w", err)
	}
	transactions, err := s.store.Transactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	views := make([]BudgetView, 0, len(budgets))
	for _, b := range budgets {
		spent := core.BudgetSpent(b, transactions, currentDate)

		percent := 0.0
		if b.Amount.Cents > 0 {
			percent = float64(spent.Cents) / float64(b.Amount.Cents)
			if percent > 1 {
				percent = 1
			}
			percent *= 100
		}

		var recent []core.Transaction
		for _, t := range transactions {
			if t.Category != b.Category {
				continue
			}
			recent = append(recent, t)
			if len(recent) == recentTransactionCount {
				break
			}
		}

		views = append(views, BudgetView{
			Budget:       b,
			Spent:        spent,
			Free:         core.BudgetFree(b, spent),
			SpentPercent: percent,
			Colors:       core.ColorFor(b.Color),
			Recent:       recent,
		})
	}
	return views, nil
}

// Totals sums budget caps and month-to-date spending across the user's
// budgets, for the "spent of budgeted" headline.
func (s *BudgetService) Totals(views []BudgetView) (spent, budgeted core.Money) {
	for _, v := range views {
		spent.Cents += v.Spent.Cents
		budgeted.Cents += v.Amount.Cents
	}
	return spent, budgeted
}

// Create validates and persists a new budget. One budget per category
// per user; a duplicate surfaces storage.ErrBudgetExists.
func (s *BudgetService) Create(ctx context.Context, userID string, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if err := s.store.CreateBudget(ctx, userID, b); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	return s.store.DeleteBudget(ctx, userID, id)
}

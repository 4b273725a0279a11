package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/core"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/search"
)

// TransactionStore is the slice of storage the transaction list needs.
type TransactionStore interface {
	Transactions(ctx context.Context, userID string) ([]core.Transaction, error)
	CreateTransaction(ctx context.Context, userID string, t core.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
}

type TransactionService struct {
	store TransactionStore
}

func NewTransactionService(store TransactionStore) *TransactionService {
	return &TransactionService{store: store}
}

// TransactionQuery shapes the transactions list. Sort must already be
// validated; Category and Search are optional.
type TransactionQuery struct {
	Category string
	Sort     core.SortKey
	Search   string
	Page     core.PageRequest
}

// List runs the shared pipeline: sort, category filter, fuzzy search,
// paginate. Search runs after sorting so equally ranked matches keep
// the sorted order, and before pagination so the count reflects every
// match.
func (s *TransactionService) List(ctx context.Context, userID string, q TransactionQuery) (core.Page[core.Transaction], error) {
	transactions, err := s.store.Transactions(ctx, userID)
	if err != nil {
		return core.Page[core.Transaction]{}, fmt.Errorf("fetch transactions: %w", err)
	}

	core.SortSlice(transactions, q.Sort)

	if q.Category != "" {
		filtered := transactions[:0]
		for _, t := range transactions {
			if strings.EqualFold(t.Category, q.Category) {
				filtered = append(filtered, t)
			}
		}
		transactions = filtered
	}

	transactions = search.Rank(transactions, q.Search, func(t core.Transaction) string {
		return t.Counterparty
	})

	page := core.Paginate(transactions, q.Page)
	if page.Items == nil {
		page.Items = []core.Transaction{}
	}
	return page, nil
}

// Categories lists the distinct category names present in the user's
// transactions, alphabetically, for the filter dropdown.
func (s *TransactionService) Categories(ctx context.Context, userID string) ([]string, error) {
	transactions, err := s.store.Transactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	seen := make(map[string]bool)
	var names []string
	for _, t := range transactions {
		if !seen[t.Category] {
			seen[t.Category] = true
			names = append(names, t.Category)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Create validates and persists a new transaction, assigning its id.
func (s *TransactionService) Create(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := s.store.CreateTransaction(ctx, userID, t); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	return s.store.DeleteTransaction(ctx, userID, id)
}

// Overview aggregates the numbers the dashboard landing page shows.
type Overview struct {
	Balance  core.Money
	Income   core.Money
	Expenses core.Money
}

// Overview computes the all-time balance plus the reference month's
// income and expense totals.
func (s *TransactionService) Overview(ctx context.Context, userID string, currentDate time.Time) (Overview, error) {
	transactions, err := s.store.Transactions(ctx, userID)
	if err != nil {
		return Overview{}, fmt.Errorf("fetch transactions: %w", err)
	}

	var ov Overview
	for _, t := range transactions {
		ov.Balance.Cents += t.Amount.Cents
		if !core.SameMonth(t.Date, currentDate) {
			continue
		}
		if t.Amount.Cents > 0 {
			ov.Income.Cents += t.Amount.Cents
		} else {
			ov.Expenses.Cents += -t.Amount.Cents
		}
	}
	return ov, nil
}

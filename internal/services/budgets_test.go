package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/core"
)

type fakeBudgetStore struct {
	budgets      []core.Budget
	transactions []core.Transaction
	created      []core.Budget
	deleted      []string
}

func (f *fakeBudgetStore) Budgets(ctx context.Context, userID string) ([]core.Budget, error) {
	return f.budgets, nil
}

func (f *fakeBudgetStore) Transactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	return f.transactions, nil
}

func (f *fakeBudgetStore) CreateBudget(ctx context.Context, userID string, b core.Budget) error {
	f.created = append(f.created, b)
	return nil
}

func (f *fakeBudgetStore) DeleteBudget(ctx context.Context, userID, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestBudgetList(t *testing.T) {
	current := day(2024, 8, 19)
	store := &fakeBudgetStore{
		budgets: []core.Budget{
			{ID: "b1", Category: "Dining Out", Amount: core.Money{Cents: 7500}, Color: "Yellow", CreatedAt: time.Now()},
		},
		transactions: []core.Transaction{
			plain("t1", "Savory Bites Bistro", -5550, day(2024, 8, 19), "Dining Out"),
			plain("t2", "Ethan Clark", -3250, day(2024, 8, 13), "Dining Out"),
			plain("t3", "Flavor Fiesta", -6920, day(2024, 7, 27), "Dining Out"),
			plain("t4", "Sun Park", 12070, day(2024, 8, 17), "General"),
		},
	}

	svc := NewBudgetService(store)
	views, err := svc.List(context.Background(), "u1", current)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}

	v := views[0]
	if v.Spent.Cents != 8800 {
		t.Fatalf("spent = %d, want 8800", v.Spent.Cents)
	}
	// Overspent: free floors at zero and percent caps at 100.
	if v.Free.Cents != 0 {
		t.Fatalf("free = %d, want 0", v.Free.Cents)
	}
	if v.SpentPercent != 100 {
		t.Fatalf("percent = %v, want 100", v.SpentPercent)
	}
	if v.Colors.Background != "bg-yellow" {
		t.Fatalf("colors = %+v", v.Colors)
	}
	// Recent shows this category's latest transactions, any month.
	if len(v.Recent) != 3 || v.Recent[0].ID != "t1" || v.Recent[2].ID != "t3" {
		t.Fatalf("recent = %v", v.Recent)
	}
}

func TestBudgetListPercentUnderCap(t *testing.T) {
	store := &fakeBudgetStore{
		budgets: []core.Budget{
			{ID: "b1", Category: "Groceries", Amount: core.Money{Cents: 10000}, Color: "Green"},
		},
		transactions: []core.Transaction{
			plain("t1", "Green Plate Eatery", -2500, day(2024, 8, 10), "Groceries"),
		},
	}

	svc := NewBudgetService(store)
	views, err := svc.List(context.Background(), "u1", day(2024, 8, 19))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if views[0].SpentPercent != 25 {
		t.Fatalf("percent = %v, want 25", views[0].SpentPercent)
	}
	if views[0].Free.Cents != 7500 {
		t.Fatalf("free = %d, want 7500", views[0].Free.Cents)
	}
}

func TestBudgetTotals(t *testing.T) {
	svc := NewBudgetService(&fakeBudgetStore{})
	spent, budgeted := svc.Totals([]BudgetView{
		{Budget: core.Budget{Amount: core.Money{Cents: 5000}}, Spent: core.Money{Cents: 1000}},
		{Budget: core.Budget{Amount: core.Money{Cents: 7500}}, Spent: core.Money{Cents: 8800}},
	})
	if spent.Cents != 9800 || budgeted.Cents != 12500 {
		t.Fatalf("totals = %d/%d", spent.Cents, budgeted.Cents)
	}
}

func TestBudgetCreateValidates(t *testing.T) {
	store := &fakeBudgetStore{}
	svc := NewBudgetService(store)

	created, err := svc.Create(context.Background(), "u1", core.Budget{
		Category: "Bills",
		Amount:   core.Money{Cents: 75000},
		Color:    "Cyan",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("id/created_at not assigned: %+v", created)
	}

	_, err = svc.Create(context.Background(), "u1", core.Budget{Category: "Bills", Color: "Cyan"})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected amount validation error, got %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("invalid budget must not be persisted")
	}
}

func TestBudgetDelete(t *testing.T) {
	store := &fakeBudgetStore{}
	svc := NewBudgetService(store)
	if err := svc.Delete(context.Background(), "u1", "b1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "b1" {
		t.Fatalf("delete not forwarded: %v", store.deleted)
	}
}

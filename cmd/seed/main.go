// Command seed loads a demo user with a fixed transaction history so
// the dashboard has deterministic data to show.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/auth"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/config"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/core"
	applog "github.com/AlexKMarshall/fm-personal-finance-app/internal/log"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/storage"
)

const (
	demoEmail    = "demo@example.com"
	demoName     = "Demo User"
	demoPassword = "demo-password"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type seedTransaction struct {
	counterparty string
	avatar       string
	cents        int64
	date         time.Time
	category     string
	recurring    bool
}

// Fixed dates keep the derived "today" (the latest transaction date)
// stable, so bill classification always produces the same buckets.
var demoTransactions = []seedTransaction{
	{"Emma Richardson", "emma-richardson.jpg", 7550, date(2024, 8, 19), "General", false},
	{"Savory Bites Bistro", "savory-bites-bistro.jpg", -5550, date(2024, 8, 19), "Dining Out", false},
	{"Daniel Carter", "daniel-carter.jpg", -4230, date(2024, 8, 18), "General", false},
	{"Sun Park", "sun-park.jpg", 12070, date(2024, 8, 17), "General", false},
	{"Urban Services Hub", "urban-services-hub.jpg", -6550, date(2024, 8, 17), "General", false},
	{"Liam Hughes", "liam-hughes.jpg", 6575, date(2024, 8, 15), "Groceries", false},
	{"Lily Ramirez", "lily-ramirez.jpg", 5000, date(2024, 8, 14), "General", false},
	{"Ethan Clark", "ethan-clark.jpg", -3250, date(2024, 8, 13), "Dining Out", false},
	{"Rina Sato", "rina-sato.jpg", -1000, date(2024, 8, 11), "Entertainment", false},
	{"James Thompson", "james-thompson.jpg", -500, date(2024, 8, 11), "Lifestyle", false},
	{"Spark Electric Solutions", "spark-electric-solutions.jpg", -10000, date(2024, 8, 2), "Bills", true},
	{"Serenity Spa & Wellness", "serenity-spa-and-wellness.jpg", -3000, date(2024, 8, 3), "Personal Care", true},
	{"Elevate Education", "elevate-education.jpg", -5000, date(2024, 8, 4), "Education", true},

	{"Spark Electric Solutions", "spark-electric-solutions.jpg", -10000, date(2024, 7, 2), "Bills", true},
	{"Serenity Spa & Wellness", "serenity-spa-and-wellness.jpg", -3000, date(2024, 7, 3), "Personal Care", true},
	{"Elevate Education", "elevate-education.jpg", -5000, date(2024, 7, 4), "Education", true},
	{"Pixel Playground", "pixel-playground.jpg", -1000, date(2024, 7, 11), "Entertainment", true},
	{"Nimbus Data Storage", "nimbus-data-storage.jpg", -995, date(2024, 7, 21), "Bills", true},
	{"ByteWise", "bytewise.jpg", -4935, date(2024, 7, 23), "Lifestyle", true},
	{"Aqua Flow Utilities", "aqua-flow-utilities.jpg", -10000, date(2024, 7, 30), "Bills", true},
	{"EcoFuel Energy", "ecofuel-energy.jpg", -3500, date(2024, 7, 29), "Bills", true},

	{"Flavor Fiesta", "flavor-fiesta.jpg", -6920, date(2024, 7, 27), "Dining Out", false},
	{"Harper Edwards", "harper-edwards.jpg", 4550, date(2024, 7, 25), "General", false},
	{"Buzz Marketing Group", "buzz-marketing-group.jpg", 337725, date(2024, 7, 26), "General", false},
	{"TechNova Innovations", "technova-innovations.jpg", -2950, date(2024, 7, 24), "Lifestyle", false},
	{"Mason Martinez", "mason-martinez.jpg", -6500, date(2024, 7, 23), "Lifestyle", false},
	{"Sofia Peterson", "sofia-peterson.jpg", -1250, date(2024, 7, 22), "Transportation", false},
	{"Green Plate Eatery", "green-plate-eatery.jpg", -2750, date(2024, 7, 21), "Groceries", false},
	{"Sebastian Cook", "sebastian-cook.jpg", -10000, date(2024, 7, 20), "Transportation", false},
	{"William Harris", "william-harris.jpg", 2000, date(2024, 7, 19), "Personal Care", false},
}

type seedBudget struct {
	category string
	cents    int64
	color    string
}

var demoBudgets = []seedBudget{
	{"Entertainment", 5000, "Green"},
	{"Bills", 75000, "Cyan"},
	{"Dining Out", 7500, "Yellow"},
	{"Personal Care", 10000, "Navy"},
}

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)
	seedLogger := logger.WithComponent(applog.ComponentStorage)

	cfg := config.Load()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		seedLogger.Error("Failed to open repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()

	authService := auth.NewService("seed-only-secret-not-used-for-sessions", time.Hour)
	hash, err := authService.HashPassword(demoPassword)
	if err != nil {
		seedLogger.Error("Failed to hash demo password", "error", err)
		os.Exit(1)
	}

	user := core.User{
		ID:           uuid.NewString(),
		Name:         demoName,
		Email:        demoEmail,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			seedLogger.Info("Demo user already seeded, nothing to do", "email", demoEmail)
			return
		}
		seedLogger.Error("Failed to create demo user", "error", err)
		os.Exit(1)
	}

	for _, st := range demoTransactions {
		tx := core.Transaction{
			ID:           uuid.NewString(),
			Counterparty: st.counterparty,
			Avatar:       st.avatar,
			Amount:       core.Money{Cents: st.cents},
			Date:         st.date,
			Category:     st.category,
			IsRecurring:  st.recurring,
		}
		if err := repo.CreateTransaction(ctx, user.ID, tx); err != nil {
			seedLogger.Error("Failed to seed transaction", "error", err, "counterparty", st.counterparty)
			os.Exit(1)
		}
	}

	for _, sb := range demoBudgets {
		budget := core.Budget{
			ID:        uuid.NewString(),
			Category:  sb.category,
			Amount:    core.Money{Cents: sb.cents},
			Color:     sb.color,
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.CreateBudget(ctx, user.ID, budget); err != nil {
			seedLogger.Error("Failed to seed budget", "error", err, "category", sb.category)
			os.Exit(1)
		}
	}

	seedLogger.Info("Seed complete",
		"email", demoEmail,
		"transactions", len(demoTransactions),
		"budgets", len(demoBudgets))
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/core"

	_ "modernc.org/sqlite"
)

// Calendar dates carry no time-of-day semantics, so they are stored as
// plain ISO strings.
const dateLayout = "2006-01-02"

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrBudgetExists enforces the one-budget-per-category rule.
	ErrBudgetExists = errors.New("budget already exists for category")
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UserByEmail(ctx context.Context, email string) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *SQLiteRepository) UserByID(ctx context.Context, id string) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	var createdAt string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return core.User{}, fmt.Errorf("parse user created_at: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, userID string, t core.Transaction) error {
	isRecurring := 0
	if t.IsRecurring {
		isRecurring = 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, counterparty, avatar, amount_cents, date, category, is_recurring)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, userID, t.Counterparty, t.Avatar, t.Amount.Cents,
		t.Date.Format(dateLayout), t.Category, isRecurring)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Transactions returns every transaction belonging to the user, newest
// first. Shaping (sort key, filter, search, pagination) happens in the
// service layer over this materialized set.
func (r *SQLiteRepository) Transactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, counterparty, avatar, amount_cents, date, category, is_recurring
		 FROM transactions WHERE user_id = ?
		 ORDER BY date DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// Transaction fetches one transaction regardless of owner; the export
// worker uses it to materialize event payloads.
func (r *SQLiteRepository) Transaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, counterparty, avatar, amount_cents, date, category, is_recurring
		 FROM transactions WHERE id = ?`, id)

	t, err := scanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// RecurringTransactions returns the user's recurring transactions with
// date in [from, to). A zero "to" leaves the range open-ended.
func (r *SQLiteRepository) RecurringTransactions(ctx context.Context, userID string, from, to time.Time) ([]core.Transaction, error) {
	query := `SELECT id, counterparty, avatar, amount_cents, date, category, is_recurring
		 FROM transactions WHERE user_id = ? AND is_recurring = 1 AND date >= ?`
	args := []any{userID, from.Format(dateLayout)}
	if !to.IsZero() {
		query += ` AND date < ?`
		args = append(args, to.Format(dateLayout))
	}
	query += ` ORDER BY date DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recurring transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// LatestTransactionDate is the reference "today" for the whole
// dashboard: demo data has fixed dates, so deriving the current date
// from the data keeps classification deterministic. A user with no
// transactions falls back to the wall clock.
func (r *SQLiteRepository) LatestTransactionDate(ctx context.Context, userID string) (time.Time, error) {
	var raw sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(date) FROM transactions WHERE user_id = ?`, userID).Scan(&raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("latest transaction date: %w", err)
	}
	if !raw.Valid {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(dateLayout, raw.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse latest transaction date: %w", err)
	}
	return date, nil
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func scanTransaction(scan func(...any) error) (core.Transaction, error) {
	var t core.Transaction
	var date string
	var isRecurring int
	if err := scan(&t.ID, &t.Counterparty, &t.Avatar, &t.Amount.Cents, &date, &t.Category, &isRecurring); err != nil {
		return core.Transaction{}, err
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	t.Date = parsed
	t.IsRecurring = isRecurring != 0
	return t, nil
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, userID string, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, category, amount_cents, color, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, userID, b.Category, b.Amount.Cents, b.Color,
		b.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrBudgetExists
		}
		return fmt.Errorf("create budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Budgets returns the user's budgets, newest first (the default
// ordering the dashboard shows).
func (r *SQLiteRepository) Budgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, amount_cents, color, created_at
		 FROM budgets WHERE user_id = ?
		 ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		var createdAt string
		if err := rows.Scan(&b.ID, &b.Category, &b.Amount.Cents, &b.Color, &createdAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse budget created_at: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

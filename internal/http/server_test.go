package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/auth"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/core"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/services"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/storage"
)

// memStore is an in-memory stand-in for the SQLite repository.
type memStore struct {
	mu           sync.Mutex
	users        map[string]core.User
	transactions map[string][]core.Transaction
	budgets      map[string][]core.Budget
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[string]core.User),
		transactions: make(map[string][]core.Transaction),
		budgets:      make(map[string][]core.Budget),
	}
}

func (m *memStore) CreateUser(ctx context.Context, u core.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return storage.ErrDuplicateEmail
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memStore) UserByEmail(ctx context.Context, email string) (core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, storage.ErrNotFound
}

func (m *memStore) UserByID(ctx context.Context, id string) (core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return core.User{}, storage.ErrNotFound
}

func (m *memStore) Transactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Transaction, len(m.transactions[userID]))
	copy(out, m.transactions[userID])
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *memStore) CreateTransaction(ctx context.Context, userID string, t core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[userID] = append(m.transactions[userID], t)
	return nil
}

func (m *memStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.transactions[userID]
	for i, t := range list {
		if t.ID == id {
			m.transactions[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memStore) RecurringTransactions(ctx context.Context, userID string, from, to time.Time) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Transaction
	for _, t := range m.transactions[userID] {
		if !t.IsRecurring || t.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !t.Date.Before(to) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) LatestTransactionDate(ctx context.Context, userID string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest time.Time
	for _, t := range m.transactions[userID] {
		if t.Date.After(latest) {
			latest = t.Date
		}
	}
	if latest.IsZero() {
		now := time.Now().UTC()
		latest = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return latest, nil
}

func (m *memStore) Budgets(ctx context.Context, userID string) ([]core.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Budget, len(m.budgets[userID]))
	copy(out, m.budgets[userID])
	return out, nil
}

func (m *memStore) CreateBudget(ctx context.Context, userID string, b core.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.budgets[userID] {
		if existing.Category == b.Category {
			return storage.ErrBudgetExists
		}
	}
	m.budgets[userID] = append(m.budgets[userID], b)
	return nil
}

func (m *memStore) DeleteBudget(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.budgets[userID]
	for i, b := range list {
		if b.ID == id {
			m.budgets[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func newTestServer(t *testing.T) (*Server, *memStore) {
	t.Helper()
	store := newMemStore()
	srv := NewServer(Options{
		Addr:               ":0",
		AuthService:        auth.NewService("0123456789abcdef0123456789abcdef", time.Hour),
		Users:              store,
		Transactions:       services.NewTransactionService(store),
		Bills:              services.NewBillService(store),
		Budgets:            services.NewBudgetService(store),
		RateLimitPerMinute: 10000,
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, store
}

func doJSON(t *testing.T, srv *Server, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, r)
	return w
}

func signUp(t *testing.T, srv *Server) *http.Cookie {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/auth/signup", map[string]string{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "long-enough-password",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: %d %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	t.Fatalf("no session cookie set")
	return nil
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealthAndReady(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/healthz", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz: %d", w.Code)
	}
	w = doJSON(t, srv, http.MethodGet, "/readyz", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("readyz: %d", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/transactions", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestSignUpLoginFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := signUp(t, srv)

	w := doJSON(t, srv, http.MethodGet, "/auth/me", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("me: %d %s", w.Code, w.Body.String())
	}
	me := decode[userResponse](t, w)
	if me.Email != "test@example.com" {
		t.Fatalf("me = %+v", me)
	}

	// Duplicate email is a conflict.
	w = doJSON(t, srv, http.MethodPost, "/auth/signup", map[string]string{
		"name": "Again", "email": "test@example.com", "password": "long-enough-password",
	}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate signup: %d", w.Code)
	}

	// Wrong password is indistinguishable from a missing account.
	w = doJSON(t, srv, http.MethodPost, "/auth/login", map[string]string{
		"email": "test@example.com", "password": "wrong",
	}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d", w.Code)
	}
	w = doJSON(t, srv, http.MethodPost, "/auth/login", map[string]string{
		"email": "missing@example.com", "password": "wrong",
	}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email login: %d", w.Code)
	}

	// Correct login issues a fresh session.
	w = doJSON(t, srv, http.MethodPost, "/auth/login", map[string]string{
		"email": "test@example.com", "password": "long-enough-password",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
}

func TestTransactionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := signUp(t, srv)

	w := doJSON(t, srv, http.MethodPost, "/transactions", map[string]any{
		"counterparty": "Savory Bites Bistro",
		"amountCents":  -5550,
		"date":         "2024-08-19",
		"category":     "Dining Out",
	}, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	created := decode[transactionResponse](t, w)
	if created.ID == "" || created.AmountCents != -5550 {
		t.Fatalf("created = %+v", created)
	}

	// Validation failures are 422.
	w = doJSON(t, srv, http.MethodPost, "/transactions", map[string]any{
		"counterparty": "", "amountCents": -100, "date": "2024-08-19", "category": "General",
	}, cookie)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid create: %d", w.Code)
	}

	// Bad dates are 422 too.
	w = doJSON(t, srv, http.MethodPost, "/transactions", map[string]any{
		"counterparty": "X", "amountCents": -100, "date": "August 19th", "category": "General",
	}, cookie)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad date create: %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/transactions?page=1&size=10", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	list := decode[transactionListResponse](t, w)
	if list.Count != 1 || len(list.Items) != 1 {
		t.Fatalf("list = %+v", list)
	}
	if list.PageCount != 1 {
		t.Fatalf("pageCount = %d", list.PageCount)
	}

	// Unknown sort key fails fast.
	w = doJSON(t, srv, http.MethodGet, "/transactions?sort=date:sideways", nil, cookie)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad sort: %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodDelete, "/transactions/"+created.ID, nil, cookie)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	w = doJSON(t, srv, http.MethodDelete, "/transactions/"+created.ID, nil, cookie)
	if w.Code != http.StatusNotFound {
		t.Fatalf("repeat delete: %d", w.Code)
	}
}

func TestRecurringBillsEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	cookie := signUp(t, srv)

	userID := singleUserID(t, store)
	seed := []core.Transaction{
		{ID: "t1", Counterparty: "Dyno Fitness", Amount: core.Money{Cents: -2500}, Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Category: "Bills", IsRecurring: true},
		{ID: "t2", Counterparty: "Acme Power", Amount: core.Money{Cents: -10000}, Date: time.Date(2023, 12, 5, 0, 0, 0, 0, time.UTC), Category: "Bills", IsRecurring: true},
		{ID: "t3", Counterparty: "Bolt Internet", Amount: core.Money{Cents: -4500}, Date: time.Date(2023, 12, 12, 0, 0, 0, 0, time.UTC), Category: "Bills", IsRecurring: true},
		// Anchors the derived "today" at 2024-01-10.
		{ID: "t4", Counterparty: "Pay Day", Amount: core.Money{Cents: 100000}, Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Category: "General"},
	}
	for _, tx := range seed {
		if err := store.CreateTransaction(context.Background(), userID, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	w := doJSON(t, srv, http.MethodGet, "/recurring-bills?sort=name:asc", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("bills: %d %s", w.Code, w.Body.String())
	}
	resp := decode[billListResponse](t, w)

	if resp.Count != 3 {
		t.Fatalf("count = %d, want 3", resp.Count)
	}
	if resp.Summary.All.Count != 3 || resp.Summary.Paid.Count != 1 {
		t.Fatalf("summary = %+v", resp.Summary)
	}
	if resp.Items[0].Counterparty != "Acme Power" || resp.Items[0].Status != "overdue" {
		t.Fatalf("first bill = %+v", resp.Items[0])
	}

	// Search narrows the list but never the summary.
	w = doJSON(t, srv, http.MethodGet, "/recurring-bills?search=bolt", nil, cookie)
	resp = decode[billListResponse](t, w)
	if resp.Count != 1 || resp.Summary.All.Count != 3 {
		t.Fatalf("search must not shrink the summary: %+v", resp)
	}
	if resp.Items[0].Counterparty != "Bolt Internet" || resp.Items[0].Status != "soon" {
		t.Fatalf("search result = %+v", resp.Items[0])
	}
}

func TestBudgetsEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	cookie := signUp(t, srv)

	userID := singleUserID(t, store)
	tx := core.Transaction{
		ID: "t1", Counterparty: "Savory Bites Bistro",
		Amount: core.Money{Cents: -5550},
		Date:   time.Date(2024, 8, 19, 0, 0, 0, 0, time.UTC), Category: "Dining Out",
	}
	if err := store.CreateTransaction(context.Background(), userID, tx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := doJSON(t, srv, http.MethodPost, "/budgets", map[string]any{
		"category": "Dining Out", "amountCents": 7500, "color": "Yellow",
	}, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("create budget: %d %s", w.Code, w.Body.String())
	}
	created := decode[budgetResponse](t, w)
	if created.Background != "bg-yellow" {
		t.Fatalf("created = %+v", created)
	}

	// One budget per category.
	w = doJSON(t, srv, http.MethodPost, "/budgets", map[string]any{
		"category": "Dining Out", "amountCents": 100, "color": "Red",
	}, cookie)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate budget: %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/budgets", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("list budgets: %d", w.Code)
	}
	list := decode[budgetListResponse](t, w)
	if len(list.Items) != 1 {
		t.Fatalf("list = %+v", list)
	}
	if list.Items[0].SpentCents != 5550 || list.Items[0].FreeCents != 1950 {
		t.Fatalf("budget math wrong: %+v", list.Items[0])
	}
	if list.TotalSpentCents != 5550 || list.TotalBudgetedCents != 7500 {
		t.Fatalf("totals wrong: %+v", list)
	}

	w = doJSON(t, srv, http.MethodDelete, "/budgets/"+created.ID, nil, cookie)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete budget: %d", w.Code)
	}
}

func TestOverviewEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	cookie := signUp(t, srv)

	userID := singleUserID(t, store)
	seed := []core.Transaction{
		{ID: "t1", Counterparty: "Pay Day", Amount: core.Money{Cents: 100000}, Date: time.Date(2024, 8, 19, 0, 0, 0, 0, time.UTC), Category: "General"},
		{ID: "t2", Counterparty: "Rent", Amount: core.Money{Cents: -40000}, Date: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), Category: "Bills"},
		{ID: "t3", Counterparty: "Old Rent", Amount: core.Money{Cents: -40000}, Date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Category: "Bills"},
	}
	for _, tx := range seed {
		if err := store.CreateTransaction(context.Background(), userID, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	w := doJSON(t, srv, http.MethodGet, "/overview", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("overview: %d %s", w.Code, w.Body.String())
	}
	ov := decode[overviewResponse](t, w)
	if ov.BalanceCents != 20000 || ov.IncomeCents != 100000 || ov.ExpensesCents != 40000 {
		t.Fatalf("overview = %+v", ov)
	}

	// Second read comes from the cache and must match.
	w = doJSON(t, srv, http.MethodGet, "/overview", nil, cookie)
	cached := decode[overviewResponse](t, w)
	if cached != ov {
		t.Fatalf("cached overview diverged: %+v vs %+v", cached, ov)
	}
}

func singleUserID(t *testing.T, store *memStore) string {
	t.Helper()
	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.users) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(store.users))
	}
	for id := range store.users {
		return id
	}
	return ""
}

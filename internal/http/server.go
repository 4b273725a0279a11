// Package http exposes the dashboard as a JSON API.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/auth"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/cache"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/core"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/middleware/ratelimit"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/middleware/security"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/middleware/trace"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/services"
)

// UserStore is the slice of storage the auth handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, u core.User) error
	UserByEmail(ctx context.Context, email string) (core.User, error)
	UserByID(ctx context.Context, id string) (core.User, error)
}

// EventPublisher emits transaction change events. A nil publisher
// disables eventing without touching the handlers.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, transactionID, userID, action string) error
}

type Server struct {
	http.Server

	authService  *auth.Service
	users        UserStore
	transactions *services.TransactionService
	bills        *services.BillService
	budgets      *services.BudgetService
	publisher    EventPublisher

	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware

	// Derived data is cheap to rebuild but hot on the dashboard, so
	// classified bills and overview totals are cached per user.
	billsCache    *cache.LRUCache[[]core.RecurringBill]
	overviewCache *cache.LRUCache[services.Overview]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// Options bundles the server's collaborators.
type Options struct {
	Addr               string
	AuthService        *auth.Service
	Users              UserStore
	Transactions       *services.TransactionService
	Bills              *services.BillService
	Budgets            *services.BudgetService
	Publisher          EventPublisher
	RateLimitPerMinute int
	TrustedProxies     []string
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		authService:  opts.AuthService,
		users:        opts.Users,
		transactions: opts.Transactions,
		bills:        opts.Bills,
		budgets:      opts.Budgets,
		publisher:    opts.Publisher,

		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
			CleanupInterval:   5 * time.Minute,
		}),

		billsCache:    cache.NewLRUCache[[]core.RecurringBill](200, 5*time.Minute),
		overviewCache: cache.NewLRUCache[services.Overview](100, 5*time.Minute),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.billsCache)
	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	configureTrustedProxies(opts.TrustedProxies)
	s.tracer = trace.NewMiddleware(extractClientIP)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("POST /auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.HandleFunc("GET /auth/me", s.requireAuth(s.handleMe))

	mux.HandleFunc("GET /transactions", s.requireAuth(s.handleListTransactions))
	mux.HandleFunc("POST /transactions", s.requireAuth(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /transactions/{id}", s.requireAuth(s.handleDeleteTransaction))
	mux.HandleFunc("GET /transactions/categories", s.requireAuth(s.handleCategories))

	mux.HandleFunc("GET /recurring-bills", s.requireAuth(s.handleRecurringBills))

	mux.HandleFunc("GET /budgets", s.requireAuth(s.handleListBudgets))
	mux.HandleFunc("POST /budgets", s.requireAuth(s.handleCreateBudget))
	mux.HandleFunc("DELETE /budgets/{id}", s.requireAuth(s.handleDeleteBudget))
	mux.HandleFunc("GET /budgets/colors", s.requireAuth(s.handleBudgetColors))

	mux.HandleFunc("GET /overview", s.requireAuth(s.handleOverview))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limited := s.rateLimiter.Middleware(extractClientIP, nil)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           headers.Middleware(s.tracer.Middleware(limited(mux))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Shutdown stops the server and its background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// requireAuth validates the session cookie and passes the user id on.
func (s *Server) requireAuth(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.authService.UserIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r, userID)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := s.tracer.GetMetrics()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total_requests":         m.TotalRequests,
		"avg_response_time_us":   m.AverageResponseTime,
		"rate_limited_clients":   s.rateLimiter.ActiveClients(),
		"bills_cache_entries":    s.billsCache.Size(),
		"overview_cache_entries": s.overviewCache.Size(),
	})
}

// invalidateDerived drops a user's cached derived data after a write.
func (s *Server) invalidateDerived(userID string) {
	for key := range allSortKeys() {
		s.billsCache.Delete(billsCacheKey(userID, key))
	}
	s.overviewCache.Delete(userID)
}

func allSortKeys() map[core.SortKey]bool {
	return map[core.SortKey]bool{
		core.SortDateDesc:   true,
		core.SortDateAsc:    true,
		core.SortNameAsc:    true,
		core.SortNameDesc:   true,
		core.SortAmountDesc: true,
		core.SortAmountAsc:  true,
	}
}

func billsCacheKey(userID string, key core.SortKey) string {
	return userID + "|" + string(key)
}

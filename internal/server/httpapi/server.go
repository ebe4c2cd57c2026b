// Package httpapi exposes the wallet's JSON REST API: auth endpoints,
// ownership-scoped space and transaction CRUD, the sync feed, a health
// probe, and the Prometheus exposition endpoint.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/wallet/internal/logging"
	"github.com/dmitrijs2005/wallet/internal/server/metrics"
	"github.com/dmitrijs2005/wallet/internal/server/models"
	"github.com/dmitrijs2005/wallet/internal/server/services"
)

// AuthService is the slice of services.AuthService the transport needs.
type AuthService interface {
	SignUp(ctx context.Context, username, email, password string) (*models.User, error)
	SignIn(ctx context.Context, usernameOrEmail, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	ResolveIdentity(ctx context.Context, subject string) (*models.User, error)
	VerifyTokenFor(tokenString string, user *models.User) bool
	ExtractSubject(tokenString string) (string, error)
}

// SpaceService is the slice of services.SpaceService the transport needs.
type SpaceService interface {
	Create(ctx context.Context, userID, name, description, currency string) (*models.Space, error)
	GetByID(ctx context.Context, userID, spaceID string) (*models.Space, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Space, error)
	Update(ctx context.Context, userID, spaceID, name, description string) (*models.Space, error)
	Delete(ctx context.Context, userID, spaceID string) error
}

// TransactionService is the slice of services.TransactionService the
// transport needs.
type TransactionService interface {
	Create(ctx context.Context, userID, spaceID string, txType models.TransactionType,
		amount decimal.Decimal, date time.Time, description string) (*models.Transaction, error)
	GetByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	ListForSpace(ctx context.Context, userID, spaceID string) ([]*models.Transaction, error)
	ListForUserSince(ctx context.Context, userID string, since time.Time) ([]*models.Transaction, error)
	Update(ctx context.Context, userID, transactionID string,
		amount decimal.Decimal, date time.Time, description string) (*models.Transaction, error)
	Delete(ctx context.Context, userID, transactionID string) error
}

// Server wires handlers, middleware and metrics into one http.Handler.
type Server struct {
	logger       logging.Logger
	auth         AuthService
	spaces       SpaceService
	transactions TransactionService
	metrics      *metrics.Metrics
}

// New constructs the API server.
func New(logger logging.Logger, auth AuthService, spaces SpaceService,
	transactions TransactionService, m *metrics.Metrics) *Server {
	return &Server{
		logger:       logger,
		auth:         auth,
		spaces:       spaces,
		transactions: transactions,
		metrics:      m,
	}
}

// Handler builds the route table. Identity resolution and logging wrap the
// whole mux; metric instrumentation is attached per route so the route label
// stays low-cardinality.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "GET /api/v1/ping", "ping", s.handlePing)

	s.route(mux, "POST /api/v1/auth/signup", "auth_signup", s.handleSignUp)
	s.route(mux, "POST /api/v1/auth/signin", "auth_signin", s.handleSignIn)
	s.route(mux, "POST /api/v1/auth/refresh", "auth_refresh", s.handleRefresh)

	s.route(mux, "POST /api/v1/spaces", "spaces_create", s.requireAuth(s.handleCreateSpace))
	s.route(mux, "GET /api/v1/spaces", "spaces_list", s.requireAuth(s.handleListSpaces))
	s.route(mux, "GET /api/v1/spaces/{spaceId}", "spaces_get", s.requireAuth(s.handleGetSpace))
	s.route(mux, "PUT /api/v1/spaces/{spaceId}", "spaces_update", s.requireAuth(s.handleUpdateSpace))
	s.route(mux, "DELETE /api/v1/spaces/{spaceId}", "spaces_delete", s.requireAuth(s.handleDeleteSpace))

	s.route(mux, "POST /api/v1/transactions", "transactions_create", s.requireAuth(s.handleCreateTransaction))
	s.route(mux, "GET /api/v1/transactions/sync", "transactions_sync", s.requireAuth(s.handleSyncTransactions))
	s.route(mux, "GET /api/v1/transactions/space/{spaceId}", "transactions_list_space", s.requireAuth(s.handleListSpaceTransactions))
	s.route(mux, "GET /api/v1/transactions/{transactionId}", "transactions_get", s.requireAuth(s.handleGetTransaction))
	s.route(mux, "PUT /api/v1/transactions/{transactionId}", "transactions_update", s.requireAuth(s.handleUpdateTransaction))
	s.route(mux, "DELETE /api/v1/transactions/{transactionId}", "transactions_delete", s.requireAuth(s.handleDeleteTransaction))

	mux.Handle("GET /metrics", s.metrics.Handler())

	return s.withLogging(s.withIdentityResolution(mux))
}

func (s *Server) route(mux *http.ServeMux, pattern, name string, h http.HandlerFunc) {
	mux.Handle(pattern, s.metrics.Instrument(name, h))
}

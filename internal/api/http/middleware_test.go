package http

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-admin/internal/api/http/handlers"
	"github.com/spec-kit/ticket-admin/internal/auth"
	"github.com/spec-kit/ticket-admin/internal/domain"
	"github.com/spec-kit/ticket-admin/internal/observability"
	"github.com/spec-kit/ticket-admin/internal/persistence"
	"github.com/spec-kit/ticket-admin/internal/service"
	"github.com/spec-kit/ticket-admin/internal/session"
	"github.com/spec-kit/ticket-admin/internal/store"
)

// ctxCaptureTicketStore records whether the context handed to the store
// carried a deadline.
type ctxCaptureTicketStore struct {
	hasDeadline bool
}

func (s *ctxCaptureTicketStore) List(ctx context.Context, _ store.TicketFilter) ([]domain.Ticket, error) {
	_, s.hasDeadline = ctx.Deadline()
	return nil, nil
}

func (s *ctxCaptureTicketStore) ListForProject(ctx context.Context, _ string, _ store.TicketFilter) ([]domain.Ticket, bool, error) {
	_, s.hasDeadline = ctx.Deadline()
	return nil, true, nil
}

func (s *ctxCaptureTicketStore) GetByID(context.Context, int64) (*domain.Ticket, error) {
	return nil, store.ErrNotFound
}

func (s *ctxCaptureTicketStore) Insert(context.Context, *domain.Ticket) error { return nil }
func (s *ctxCaptureTicketStore) Update(context.Context, *domain.Ticket) error { return nil }
func (s *ctxCaptureTicketStore) Delete(context.Context, int64) error          { return nil }

// singleUserStore serves one fixed account, enough for the auth middleware.
type singleUserStore struct {
	user domain.User
}

func (s *singleUserStore) List(context.Context) ([]domain.User, error) {
	return []domain.User{s.user}, nil
}

func (s *singleUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if id != s.user.ID {
		return nil, store.ErrNotFound
	}
	u := s.user
	return &u, nil
}

func (s *singleUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if username != s.user.Username {
		return nil, store.ErrNotFound
	}
	u := s.user
	return &u, nil
}

func (s *singleUserStore) GetByCredentials(context.Context, string, string) (*domain.User, error) {
	return nil, store.ErrNotFound
}

func (s *singleUserStore) UsernameExists(context.Context, string, *int64) (bool, error) {
	return false, nil
}

func (s *singleUserStore) Insert(context.Context, *domain.User) error { return nil }
func (s *singleUserStore) Update(context.Context, *domain.User) error { return nil }
func (s *singleUserStore) Delete(context.Context, int64) error        { return nil }

func newTestApp(t *testing.T, tickets store.TicketStore, timeout time.Duration) (*fiber.App, *observability.Metrics, string) {
	t.Helper()

	user := domain.User{ID: 1, Username: "alice", Project: "Apollo", IsAdmin: true}
	users := &singleUserStore{user: user}
	tokens := auth.NewTokenManager("test-secret", 5)
	token, _, err := tokens.GenerateToken(auth.SessionFromUser(&user))
	require.NoError(t, err)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, timeout)

	remember := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", nil, &persistence.Redis{}, metrics),
		Auth:           handlers.NewAuthHandler(service.NewAuthService(users, tokens, remember, logger)),
		Tickets:        handlers.NewTicketsHandler(service.NewTicketService(tickets, logger)),
		Users:          handlers.NewUsersHandler(service.NewUserService(users, logger)),
		AuthMiddleware: auth.NewMiddleware(tokens, users),
	})
	return app, metrics, token
}

func TestRequestDeadlineReachesStore(t *testing.T) {
	tickets := &ctxCaptureTicketStore{}
	app, _, token := newTestApp(t, tickets, 5*time.Second)

	req := httptest.NewRequest(fiber.MethodGet, "/tickets", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The configured request timeout must arrive at the store call, not
	// stop at the transport layer.
	assert.True(t, tickets.hasDeadline)
}

func TestFailedRequestsRecordFinalStatus(t *testing.T) {
	tickets := &ctxCaptureTicketStore{}
	app, metrics, token := newTestApp(t, tickets, 0)

	// noi_dung missing, so the service rejects the payload with a 400.
	body := strings.NewReader(`{"phan_loai":"Lỗi","nen_tang":"Web"}`)
	req := httptest.NewRequest(fiber.MethodPost, "/tickets", body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// The counters carry the status the client saw, not a premature 200.
	requests, errs := metrics.Snapshot()
	assert.Contains(t, requests, "/tickets|POST|400")
	assert.NotContains(t, requests, "/tickets|POST|200")
	assert.Contains(t, errs, "/tickets|POST|VALIDATION_FAILED")
}

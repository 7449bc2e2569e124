package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/suttonsam862/RichHabitsOMS-sub001/internal/api/http"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/auth"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/observability"
	apperrors "github.com/suttonsam862/RichHabitsOMS-sub001/pkg/util/errorutil"
)

type staticUserDirectory struct {
	users map[string]*domain.User
}

func (d *staticUserDirectory) Create(_ context.Context, user *domain.User) error {
	d.users[user.ID] = user
	return nil
}

func (d *staticUserDirectory) Update(_ context.Context, user *domain.User) error {
	d.users[user.ID] = user
	return nil
}

func (d *staticUserDirectory) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := d.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (d *staticUserDirectory) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range d.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (d *staticUserDirectory) ListByRole(_ context.Context, role domain.Role, _, _ int) ([]domain.User, error) {
	var out []domain.User
	for _, user := range d.users {
		if user.Role == role {
			out = append(out, *user)
		}
	}
	return out, nil
}

type middlewareFixture struct {
	app     *fiber.App
	tokens  *auth.TokenManager
	authMW  *auth.Middleware
	metrics *observability.Metrics
	users   *staticUserDirectory
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()

	users := &staticUserDirectory{users: map[string]*domain.User{}}
	tokens := auth.NewTokenManager("middleware-test-secret", 15)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), metrics, 2*time.Second)

	return &middlewareFixture{
		app:     app,
		tokens:  tokens,
		authMW:  auth.NewMiddleware(tokens, users),
		metrics: metrics,
		users:   users,
	}
}

func (f *middlewareFixture) addUser(t *testing.T, id string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{ID: id, Name: id, Email: id + "@example.com", Role: role}
	f.users.users[id] = user
	return user
}

func (f *middlewareFixture) bearerFor(t *testing.T, user *domain.User) string {
	t.Helper()
	token, _, err := f.tokens.GenerateToken(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func (f *middlewareFixture) request(t *testing.T, method, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeErrorEnvelope(t *testing.T, resp *http.Response) (code, message string, details map[string]any) {
	t.Helper()
	defer resp.Body.Close()

	var body struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code, body.Error.Message, body.Error.Details
}

func TestDomainErrorsRenderTheEnvelope(t *testing.T) {
	fx := newMiddlewareFixture(t)
	fx.app.Get("/transition", func(c *fiber.Ctx) error {
		return apperrors.NewInvalidTransition("in_production", "draft", nil)
	})

	resp := fx.request(t, http.MethodGet, "/transition", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	code, _, details := decodeErrorEnvelope(t, resp)
	assert.Equal(t, "INVALID_TRANSITION", code)
	assert.Equal(t, "in_production", details["from"])
	assert.Equal(t, "draft", details["to"])

	_, errCounts, _ := fx.metrics.Snapshot()
	assert.Equal(t, int64(1), errCounts["/transition|GET|INVALID_TRANSITION"])
}

func TestUnknownErrorsAreMaskedAsInternal(t *testing.T) {
	fx := newMiddlewareFixture(t)
	fx.app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("pool exhausted")
	})

	resp := fx.request(t, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	code, message, _ := decodeErrorEnvelope(t, resp)
	assert.Equal(t, "INTERNAL_ERROR", code)
	assert.Equal(t, "internal server error", message)
}

func TestMissingRowsSurfaceAsNotFound(t *testing.T) {
	fx := newMiddlewareFixture(t)
	fx.app.Get("/orders/none", func(c *fiber.Ctx) error {
		return fmt.Errorf("load order: %w", pgx.ErrNoRows)
	})

	resp := fx.request(t, http.MethodGet, "/orders/none", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	code, _, _ := decodeErrorEnvelope(t, resp)
	assert.Equal(t, "NOT_FOUND", code)
}

func TestPanicsAreRecovered(t *testing.T) {
	fx := newMiddlewareFixture(t)
	fx.app.Get("/panic", func(c *fiber.Ctx) error {
		panic("unreachable branch")
	})

	resp := fx.request(t, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	code, _, _ := decodeErrorEnvelope(t, resp)
	assert.Equal(t, "INTERNAL_ERROR", code)
}

func TestUnmatchedRoutesUseTheEnvelope(t *testing.T) {
	fx := newMiddlewareFixture(t)

	resp := fx.request(t, http.MethodGet, "/no-such-route", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	code, _, _ := decodeErrorEnvelope(t, resp)
	assert.Equal(t, "NOT_FOUND", code)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	fx := newMiddlewareFixture(t)
	fx.app.Get("/private", fx.authMW.Handle, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp := fx.request(t, http.MethodGet, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	code, _, _ := decodeErrorEnvelope(t, resp)
	assert.Equal(t, "UNAUTHORIZED", code)
}

func TestAuthMiddlewareRejectsTokensForDeletedUsers(t *testing.T) {
	fx := newMiddlewareFixture(t)
	fx.app.Get("/private", fx.authMW.Handle, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	ghost := &domain.User{ID: "ghost-1", Role: domain.RoleCustomer}
	resp := fx.request(t, http.MethodGet, "/private", fx.bearerFor(t, ghost))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	code, _, _ := decodeErrorEnvelope(t, resp)
	assert.Equal(t, "UNAUTHORIZED", code)
}

func TestRoleGateAllowsAndForbids(t *testing.T) {
	fx := newMiddlewareFixture(t)
	fx.app.Get("/admin-only", fx.authMW.Handle, auth.RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		actor, _ := auth.UserFromContext(c)
		return c.JSON(fiber.Map{"actor": actor.ID})
	})

	admin := fx.addUser(t, "admin-1", domain.RoleAdmin)
	designer := fx.addUser(t, "designer-1", domain.RoleDesigner)

	resp := fx.request(t, http.MethodGet, "/admin-only", fx.bearerFor(t, designer))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	code, _, _ := decodeErrorEnvelope(t, resp)
	assert.Equal(t, "FORBIDDEN", code)

	resp = fx.request(t, http.MethodGet, "/admin-only", fx.bearerFor(t, admin))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "admin-1", body["actor"])
}

func TestRequestDeadlineComesFromConfigTimeout(t *testing.T) {
	fx := newMiddlewareFixture(t)
	fx.app.Get("/deadline", func(c *fiber.Ctx) error {
		_, bounded := c.UserContext().Deadline()
		return c.JSON(fiber.Map{"bounded": bounded})
	})

	resp := fx.request(t, http.MethodGet, "/deadline", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body["bounded"])
}

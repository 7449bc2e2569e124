package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/config"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
)

func newAuthServiceFixture(users ...*domain.User) (*AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo(users...)
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret-key-for-service-tests",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            bcrypt.MinCost,
		},
	}
	return NewAuthService(cfg, repo), repo
}

func TestRegisterCreatesCustomerAndIssuesToken(t *testing.T) {
	svc, repo := newAuthServiceFixture()

	user, token, exp, err := svc.Register(context.Background(), "Casey", "Casey@Example.com ", "hunter2hunter2")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role, "self-registration only opens customer accounts")
	assert.Equal(t, "casey@example.com", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)

	stored, err := repo.GetByEmail(context.Background(), "casey@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newAuthServiceFixture()

	_, _, _, err := svc.Register(context.Background(), "Casey", "casey@example.com", "short")
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newAuthServiceFixture()

	_, _, _, err := svc.Register(context.Background(), "Casey", "casey@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), "Other Casey", "casey@example.com", "hunter2hunter2")
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc, _ := newAuthServiceFixture()

	_, err := svc.CreateUser(context.Background(), "Pat", "pat@example.com", "hunter2hunter2", domain.Role("wizard"))
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestCreateUserProvisionsStaffRole(t *testing.T) {
	svc, _ := newAuthServiceFixture()

	user, err := svc.CreateUser(context.Background(), "Dana", "dana@example.com", "hunter2hunter2", domain.RoleDesigner)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDesigner, user.Role)
}

func TestLoginHappyPath(t *testing.T) {
	svc, _ := newAuthServiceFixture()
	_, _, _, err := svc.Register(context.Background(), "Casey", "casey@example.com", "hunter2hunter2")
	require.NoError(t, err)

	user, token, _, err := svc.Login(context.Background(), "casey@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "casey@example.com", user.Email)
	assert.NotEmpty(t, token)
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	svc, _ := newAuthServiceFixture()
	_, _, _, err := svc.Register(context.Background(), "Casey", "casey@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "casey@example.com", "wrong-password")
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
}

func TestLoginUnknownEmailUnauthorized(t *testing.T) {
	svc, _ := newAuthServiceFixture()

	_, _, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever123")
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err),
		"unknown accounts and bad passwords are indistinguishable to callers")
}

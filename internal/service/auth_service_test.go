package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ardenlabs/timetable-api/internal/models"
	appErrors "github.com/ardenlabs/timetable-api/pkg/errors"
)

const testPassword = "sup3r-secret"

func TestAuthServiceLogin(t *testing.T) {
	repo := newAuthRepoStub(t)
	service := NewAuthService(repo, nil, nil, testAuthConfig())

	resp, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "admin@school.test",
		Password: testPassword,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "u1", resp.User.ID)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
	assert.True(t, repo.lastLoginSet)

	claims, err := service.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "admin@school.test", claims.Email)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := newAuthRepoStub(t)
	service := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "admin@school.test",
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	repo := newAuthRepoStub(t)
	repo.findEmailErr = sql.ErrNoRows
	service := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "ghost@school.test",
		Password: testPassword,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	repo := newAuthRepoStub(t)
	repo.user.Active = false
	service := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "admin@school.test",
		Password: testPassword,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInvalidPayload(t *testing.T) {
	service := NewAuthService(newAuthRepoStub(t), nil, nil, testAuthConfig())

	_, err := service.Login(context.Background(), models.LoginRequest{Email: "nope", Password: "short"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsWrongSecret(t *testing.T) {
	repo := newAuthRepoStub(t)
	issuer := NewAuthService(repo, nil, nil, AuthConfig{Secret: "one-secret", Expiration: time.Hour, Issuer: "timetable-api"})
	verifier := NewAuthService(repo, nil, nil, AuthConfig{Secret: "another-secret", Expiration: time.Hour, Issuer: "timetable-api"})

	resp, err := issuer.Login(context.Background(), models.LoginRequest{
		Email:    "admin@school.test",
		Password: testPassword,
	})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenGarbage(t *testing.T) {
	service := NewAuthService(newAuthRepoStub(t), nil, nil, testAuthConfig())

	_, err := service.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceMe(t *testing.T) {
	repo := newAuthRepoStub(t)
	service := NewAuthService(repo, nil, nil, testAuthConfig())

	user, err := service.Me(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "admin@school.test", user.Email)

	repo.findIDErr = sql.ErrNoRows
	_, err = service.Me(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

// --- Fixtures ---

func testAuthConfig() AuthConfig {
	return AuthConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "timetable-api"}
}

type authRepoStub struct {
	user         *models.User
	findEmailErr error
	findIDErr    error
	lastLoginSet bool
}

func newAuthRepoStub(t *testing.T) *authRepoStub {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return &authRepoStub{
		user: &models.User{
			ID:           "u1",
			Email:        "admin@school.test",
			FullName:     "Admin",
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			Active:       true,
		},
	}
}

func (r *authRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.findEmailErr != nil {
		return nil, r.findEmailErr
	}
	return r.user, nil
}

func (r *authRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if r.findIDErr != nil {
		return nil, r.findIDErr
	}
	return r.user, nil
}

func (r *authRepoStub) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	r.lastLoginSet = true
	return nil
}

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dverenik/coursegrade/internal/models"
	appErrors "github.com/dverenik/coursegrade/pkg/errors"
)

type mockUserRepo struct {
	byUsername map[string]models.User
	created    *models.User
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if u, ok := m.byUsername[username]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range m.byUsername {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := m.byUsername[username]
	return ok, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.byUsername == nil {
		m.byUsername = make(map[string]models.User)
	}
	if user.ID == "" {
		user.ID = "user-new"
	}
	m.byUsername[user.Username] = *user
	m.created = user
	return nil
}

func newAuthService(repo *mockUserRepo) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "coursegrade-test",
	})
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceRegister(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newAuthService(repo)

	result, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice", Password1: "secret", Password2: "secret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, "alice", result.User.Username)
	assert.False(t, result.User.Staff)
	require.NotNil(t, repo.created)
	assert.NotEqual(t, "secret", repo.created.PasswordHash)

	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
}

func TestAuthServiceRegisterPasswordMismatch(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice", Password1: "secret", Password2: "other",
	})
	require.Error(t, err)
	assert.Equal(t, ErrPasswordMismatch.Message, appErrors.FromError(err).Message)
}

func TestAuthServiceRegisterMissingFields(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "alice"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRegisterUsernameTaken(t *testing.T) {
	repo := &mockUserRepo{byUsername: map[string]models.User{
		"alice": {ID: "user-1", Username: "alice"},
	}}
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice", Password1: "secret", Password2: "secret",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLogin(t *testing.T) {
	repo := &mockUserRepo{byUsername: map[string]models.User{
		"alice": {ID: "user-1", Username: "alice", PasswordHash: hashPassword(t, "secret")},
	}}
	svc := newAuthService(repo)

	result, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestAuthServiceLoginDistinctFailures(t *testing.T) {
	repo := &mockUserRepo{byUsername: map[string]models.User{
		"alice": {ID: "user-1", Username: "alice", PasswordHash: hashPassword(t, "secret")},
	}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "nobody", Password: "secret"})
	require.Error(t, err)
	assert.Equal(t, ErrUserNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, ErrWrongPassword.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "alice"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})
	other := NewAuthService(&mockUserRepo{}, nil, nil, AuthConfig{
		TokenSecret: "other-secret", TokenExpiry: time.Hour, Issuer: "coursegrade-test",
	})

	result, err := other.Register(context.Background(), RegisterRequest{
		Username: "alice", Password1: "secret", Password2: "secret",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(result.Token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-results-api/internal/models"
	appErrors "github.com/noah-isme/school-results-api/pkg/errors"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeSessionStore, *fakeRecorder) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	admins := &fakeAdminRepo{admins: map[string]*models.Admin{
		"admin": {ID: "a1", Username: "admin", PasswordHash: string(hash)},
	}}
	sessions := newFakeSessionStore()
	recorder := &fakeRecorder{}
	svc := NewAuthService(admins, sessions, recorder, nil, nil, AuthConfig{Secret: "test-secret", TTL: time.Hour})
	return svc, sessions, recorder
}

func TestAuthLoginAndAuthenticate(t *testing.T) {
	svc, sessions, recorder := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "s3cret-pass", IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin", resp.Session.Username)
	assert.Equal(t, time.Hour, sessions.ttl)
	assert.Contains(t, sessions.sessions, resp.Session.SessionID)
	assert.Equal(t, []bool{true}, recorder.logins)

	session, err := svc.Authenticate(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Session.SessionID, session.ID)
	assert.Equal(t, "a1", session.AdminID)
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	svc, sessions, recorder := newAuthFixture(t)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "wrong"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), LoginRequest{Username: "nobody", Password: "s3cret-pass"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), LoginRequest{Username: "admin"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	assert.Empty(t, sessions.sessions)
	assert.Equal(t, []bool{false, false}, recorder.logins)
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(context.Background(), resp.Session.SessionID))

	_, err = svc.Authenticate(context.Background(), resp.Token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthAuthenticateRejectsForeignTokens(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)

	other := NewAuthService(&fakeAdminRepo{}, newFakeSessionStore(), nil, nil, nil, AuthConfig{Secret: "other-secret"})
	_, err = other.Authenticate(context.Background(), resp.Token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	_, err = svc.Authenticate(context.Background(), "")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthAuthenticateRejectsExpiredToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Authenticate(context.Background(), resp.Token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthEnsureAdmin(t *testing.T) {
	admins := &fakeAdminRepo{}
	svc := NewAuthService(admins, newFakeSessionStore(), nil, nil, nil, AuthConfig{Secret: "x"})

	admin, err := svc.EnsureAdmin(context.Background(), AdminCredentials{Username: "admin", Password: "long-enough"})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("long-enough")))

	again, err := svc.EnsureAdmin(context.Background(), AdminCredentials{Username: "admin", Password: "another-one"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	_, err = svc.EnsureAdmin(context.Background(), AdminCredentials{Username: "admin", Password: "short"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

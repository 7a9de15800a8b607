package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"wastewise/apperr"
	"wastewise/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	session, err := env.svc.Register(ctx, RegisterInput{Name: "Kofi", Email: " Kofi@Example.com", Password: "recycle-more"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "kofi@example.com", session.User.Email)
	assert.Equal(t, []string{"user"}, session.User.Role)
	assert.NotEqual(t, "recycle-more", session.User.PasswordHash)

	_, err = env.svc.Register(ctx, RegisterInput{Name: "Kofi", Email: "kofi@example.com", Password: "recycle-more"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	login, err := env.svc.Login(ctx, "kofi@example.com", "recycle-more")
	require.NoError(t, err)
	assert.Equal(t, session.User.UserID, login.User.UserID)

	_, err = env.svc.Login(ctx, "kofi@example.com", "wrong-password")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = env.svc.Login(ctx, "ghost@example.com", "recycle-more")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	cases := []RegisterInput{
		{Email: "a@example.com", Password: "long-enough"},
		{Name: "A", Email: "not-an-email", Password: "long-enough"},
		{Name: "A", Email: "a@example.com", Password: "short"},
	}
	for _, in := range cases {
		_, err := env.svc.Register(ctx, in)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "%+v", in)
	}
}

func TestRegisterStoreFailure(t *testing.T) {
	env := newTestEnv()
	env.store.createErr = errors.New("no primary")

	_, err := env.svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "long-enough"})
	assert.True(t, apperr.Is(err, apperr.KindInternal))
}

func TestLoginAfterReset(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, err := env.svc.Register(ctx, RegisterInput{Name: "Ama", Email: "ama@example.com", Password: "old-password"})
	require.NoError(t, err)

	code := requestCode(t, env)
	_, err = env.svc.ResetPassword(ctx, ResetInput{Email: "ama@example.com", OTP: code, Password: "new-password", ConfirmPassword: "new-password"})
	require.NoError(t, err)

	_, err = env.svc.Login(ctx, "ama@example.com", "old-password")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	_, err = env.svc.Login(ctx, "ama@example.com", "new-password")
	assert.NoError(t, err)
}

func TestIssuedTokenParses(t *testing.T) {
	issuer := NewJWTIssuer("test-secret", time.Hour)
	user := testUser()

	token, expiresAt, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := middleware.NewAuth("test-secret", nil, zap.NewNop().Sugar()).ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, claims.UserID)
	assert.Equal(t, user.Role, claims.Role)
	assert.NotEmpty(t, claims.ID)

	_, err = middleware.NewAuth("other-secret", nil, zap.NewNop().Sugar()).ParseToken(token)
	assert.Error(t, err)
}

func TestLogoutRevokesUntilExpiry(t *testing.T) {
	env := newTestEnv()
	until := time.Now().Add(time.Hour)

	require.NoError(t, env.svc.Logout(context.Background(), "jti-1", until))
	assert.Equal(t, until, env.revoker.revoked["jti-1"])

	assert.True(t, apperr.Is(env.svc.Logout(context.Background(), "", until), apperr.KindValidation))

	env.revoker.err = errors.New("redis down")
	assert.True(t, apperr.Is(env.svc.Logout(context.Background(), "jti-2", until), apperr.KindInternal))
}

func TestMe(t *testing.T) {
	env := newTestEnv(testUser())

	user, err := env.svc.Me(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "ama@example.com", user.Email)

	_, err = env.svc.Me(context.Background(), "u-404")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

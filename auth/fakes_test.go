package auth

import (
	"context"
	"sync"
	"time"

	"wastewise/models"

	"go.uber.org/zap"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User

	createErr error
	findErr   error
	setErr    error
	clearErr  error
	resetErr  error
	// resetNoMatch simulates another request consuming the code first.
	resetNoMatch bool

	clearCalls int
	resetCalls int
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		clone := *u
		f.users[u.UserID] = &clone
	}
	return f
}

func (f *fakeUserStore) get(userID string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil
	}
	clone := *u
	return &clone
}

func (f *fakeUserStore) Create(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	clone := *u
	f.users[u.UserID] = &clone
	return nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserStore) FindByID(ctx context.Context, userID string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if u := f.get(userID); u != nil {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserStore) SetResetOTP(ctx context.Context, userID, otpHash string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	u, ok := f.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordResetOTPHash = &otpHash
	u.PasswordResetExpiresAt = &expiresAt
	return nil
}

func (f *fakeUserStore) ClearResetOTP(ctx context.Context, userID, otpHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	if f.clearErr != nil {
		return f.clearErr
	}
	if u, ok := f.users[userID]; ok && u.PasswordResetOTPHash != nil && *u.PasswordResetOTPHash == otpHash {
		u.PasswordResetOTPHash = nil
		u.PasswordResetExpiresAt = nil
	}
	return nil
}

func matchesReset(u *models.User, otpHash string, now time.Time) bool {
	return u.PasswordResetOTPHash != nil && *u.PasswordResetOTPHash == otpHash &&
		u.PasswordResetExpiresAt != nil && u.PasswordResetExpiresAt.After(now)
}

func (f *fakeUserStore) FindByResetOTP(ctx context.Context, email, otpHash string, now time.Time) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.Email == email && matchesReset(u, otpHash, now) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserStore) ResetPassword(ctx context.Context, userID, otpHash, passwordHash string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetCalls++
	if f.resetErr != nil {
		return false, f.resetErr
	}
	if f.resetNoMatch {
		return false, nil
	}
	u, ok := f.users[userID]
	if !ok || !matchesReset(u, otpHash, now) {
		return false, nil
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = now
	u.PasswordResetOTPHash = nil
	u.PasswordResetExpiresAt = nil
	return true, nil
}

type sentMail struct {
	email string
	otp   string
}

type fakeMailer struct {
	sent []sentMail
	err  error
	// beforeSend runs once, ahead of the next delivery.
	beforeSend func()
}

func (f *fakeMailer) SendPasswordReset(ctx context.Context, email, otp string) error {
	if hook := f.beforeSend; hook != nil {
		f.beforeSend = nil
		hook()
	}
	f.sent = append(f.sent, sentMail{email: email, otp: otp})
	return f.err
}

type fakeRevoker struct {
	revoked map[string]time.Time
	err     error
}

func (f *fakeRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if f.err != nil {
		return f.err
	}
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[tokenID] = until
	return nil
}

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type testEnv struct {
	svc     *Service
	store   *fakeUserStore
	mailer  *fakeMailer
	revoker *fakeRevoker
	clock   *clock
	hasher  Hasher
}

func newTestEnv(users ...*models.User) *testEnv {
	store := newFakeUserStore(users...)
	mailer := &fakeMailer{}
	revoker := &fakeRevoker{}
	c := &clock{t: time.Date(2025, 10, 30, 9, 0, 0, 0, time.UTC)}
	hasher := NewHasher("")
	tokens := NewJWTIssuer("test-secret", time.Hour)

	svc := NewService(store, mailer, hasher, tokens, revoker, 10*time.Minute, zap.NewNop().Sugar())
	svc.now = c.now

	return &testEnv{svc: svc, store: store, mailer: mailer, revoker: revoker, clock: c, hasher: hasher}
}

func testUser() *models.User {
	return &models.User{
		UserID:       "u-1",
		Name:         "Ama Mensah",
		Email:        "ama@example.com",
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderplacehol",
		Role:         []string{"user"},
	}
}

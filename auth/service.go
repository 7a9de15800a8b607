package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"wastewise/apperr"
	"wastewise/globals"
	"wastewise/models"
	"wastewise/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// Revoker records that a token id may no longer be used.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
}

// Session is what a successful login, registration or reset hands back.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type Service struct {
	users   UserStore
	mailer  Mailer
	hasher  Hasher
	tokens  TokenIssuer
	revoker Revoker
	otpTTL  time.Duration
	now     func() time.Time
	log     *zap.SugaredLogger
}

func NewService(users UserStore, mailer Mailer, hasher Hasher, tokens TokenIssuer, revoker Revoker, otpTTL time.Duration, log *zap.SugaredLogger) *Service {
	return &Service{
		users:   users,
		mailer:  mailer,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
		otpTTL:  otpTTL,
		now:     time.Now,
		log:     log,
	}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperr.Validation("password must be at least 8 characters long")
	}
	return nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("invalid email")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("could not register", err)
	}

	now := s.now()
	user := &models.User{
		UserID:       "u" + utils.GetUUID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         []string{globals.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Internal("could not register", err)
	}

	s.log.Infow("user registered", "userid", user.UserID)
	return s.issueSession(user, "account created but sign-in failed, please log in")
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, apperr.Internal("could not log in", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	return s.issueSession(user, "could not log in")
}

// Logout revokes the token id until the token would have expired anyway.
func (s *Service) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return apperr.Validation("token has no id")
	}
	if err := s.revoker.Revoke(ctx, tokenID, expiresAt); err != nil {
		return apperr.Internal("failed to invalidate session", err)
	}
	return nil
}

func (s *Service) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("could not load user", err)
	}
	return user, nil
}

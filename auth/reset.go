package auth

import (
	"context"
	"errors"
	"strings"

	"wastewise/apperr"
	"wastewise/models"

	"golang.org/x/crypto/bcrypt"
)

type ResetInput struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ForgotPassword stores a fresh OTP hash with its expiry on the account and
// mails the plaintext code. The hash is persisted before delivery so a failed
// send can simply be retried; on a failed send the fields are cleared again, unless a newer
// request has replaced the code in the meantime.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperr.Validation("email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return apperr.NotFound("no account for this email")
	}
	if err != nil {
		return apperr.Internal("could not start password reset", err)
	}

	code, err := GenerateOTP()
	if err != nil {
		return apperr.Internal("could not start password reset", err)
	}
	otpHash := s.hasher.Hash(code)
	expiresAt := s.now().Add(s.otpTTL)
	if err := s.users.SetResetOTP(ctx, user.UserID, otpHash, expiresAt); err != nil {
		return apperr.Internal("could not start password reset", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, code); err != nil {
		if clearErr := s.users.ClearResetOTP(context.WithoutCancel(ctx), user.UserID, otpHash); clearErr != nil {
			s.log.Errorw("clear undeliverable otp", "userid", user.UserID, "err", clearErr)
		}
		return apperr.Internal("could not send reset code, please try again", err)
	}

	s.log.Infow("password reset code sent", "userid", user.UserID)
	return nil
}

// ResetPassword redeems an OTP. A wrong code, an expired code and an unknown
// email all yield the same InvalidOrExpired error. A confirmation mismatch
// leaves the OTP in place so the caller can retry within the window.
func (s *Service) ResetPassword(ctx context.Context, in ResetInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	otp := strings.TrimSpace(in.OTP)
	if email == "" || otp == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, apperr.Validation("email, otp, password and confirmPassword are required")
	}

	otpHash := s.hasher.Hash(otp)
	now := s.now()
	user, err := s.users.FindByResetOTP(ctx, email, otpHash, now)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperr.InvalidOrExpired()
	}
	if err != nil {
		return nil, apperr.Internal("could not reset password", err)
	}

	if in.Password != in.ConfirmPassword {
		return nil, apperr.Validation("passwords do not match")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("could not reset password", err)
	}

	matched, err := s.users.ResetPassword(ctx, user.UserID, otpHash, string(hashed), now)
	if err != nil {
		return nil, apperr.Internal("could not reset password", err)
	}
	if !matched {
		// Consumed by a concurrent redeem or expired between the two calls.
		return nil, apperr.InvalidOrExpired()
	}

	user.PasswordHash = string(hashed)
	user.PasswordResetOTPHash = nil
	user.PasswordResetExpiresAt = nil
	user.UpdatedAt = now

	s.log.Infow("password reset", "userid", user.UserID)
	return s.issueSession(user, "password was reset but sign-in failed, please log in")
}

func (s *Service) issueSession(user *models.User, failMsg string) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperr.Internal(failMsg, err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

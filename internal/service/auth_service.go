package service

import (
	"context"
	"strings"

	"eau-clair-web/internal/mailer"
	"eau-clair-web/internal/metrics"
	"eau-clair-web/internal/repository"
	"eau-clair-web/pkg/supabase"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CallbackPath is where password reset links land.
const CallbackPath = "/auth/callback"

// AuthBackend is the hosted auth server.
type AuthBackend interface {
	SignUp(ctx context.Context, email, password string) (*supabase.User, error)
	SignIn(ctx context.Context, email, password string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*supabase.Session, error)
	VerifyOTP(ctx context.Context, tokenHash, otpType string) (*supabase.Session, error)
	UpdatePassword(ctx context.Context, accessToken, password string) error
	SendPasswordReset(ctx context.Context, email, redirectTo, codeChallenge string) error
}

// SignUpInput is the signup form.
type SignUpInput struct {
	Email    string `form:"email" validate:"required,allowed_email_domain"`
	Password string `form:"password" validate:"required,min=6"`
}

// ResetPasswordInput is the new-password form.
type ResetPasswordInput struct {
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required"`
}

type AuthService interface {
	SignUp(ctx context.Context, in *SignUpInput) (*supabase.User, error)
	SignIn(ctx context.Context, email, password string) (*supabase.Session, error)
	AdminSignIn(ctx context.Context, email, password string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	ForgotPassword(ctx context.Context, email string) (codeVerifier string, err error)
	Callback(ctx context.Context, code, codeVerifier, tokenHash, otpType string) (*supabase.Session, error)
	ResetPassword(ctx context.Context, accessToken string, in *ResetPasswordInput) error
}

type authService struct {
	backend     AuthBackend
	profileRepo repository.ProfileRepository
	mail        mailer.WelcomeSender
	siteURL     string
}

func NewAuthService(backend AuthBackend, profileRepo repository.ProfileRepository, mail mailer.WelcomeSender, siteURL string) AuthService {
	return &authService{
		backend:     backend,
		profileRepo: profileRepo,
		mail:        mail,
		siteURL:     strings.TrimRight(siteURL, "/"),
	}
}

// SignUp creates the account and sends the welcome email. The email domain is
// checked before the backend is contacted; a failed welcome email is only logged.
func (s *authService) SignUp(ctx context.Context, in *SignUpInput) (*supabase.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validate(in); err != nil {
		metrics.AuthAttempts.WithLabelValues("signup", metrics.ResultError).Inc()
		if verr, ok := err.(*ValidationError); ok && verr.HasField("email") {
			return nil, ErrEmailDomainNotAllowed
		}
		return nil, err
	}

	user, err := s.backend.SignUp(ctx, in.Email, in.Password)
	metrics.AuthAttempts.WithLabelValues("signup", metrics.Result(err)).Inc()
	if err != nil {
		zap.L().Warn("signup rejected", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}

	if err := s.mail.SendWelcome(ctx, in.Email, localPart(in.Email)); err != nil {
		zap.L().Error("failed to send welcome email", zap.String("email", in.Email), zap.Error(err))
	}
	return user, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*supabase.Session, error) {
	session, err := s.backend.SignIn(ctx, strings.TrimSpace(email), password)
	metrics.AuthAttempts.WithLabelValues("login", metrics.Result(err)).Inc()
	if err != nil {
		zap.L().Info("sign in rejected", zap.String("email", email), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	return session, nil
}

// AdminSignIn signs in and keeps the session only when the profile is flagged admin.
func (s *authService) AdminSignIn(ctx context.Context, email, password string) (*supabase.Session, error) {
	session, err := s.backend.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("admin_login", metrics.ResultError).Inc()
		zap.L().Info("admin sign in rejected", zap.String("email", email), zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	profile, err := s.profileRepo.FindByID(ctx, session.User.ID)
	switch {
	case err != nil:
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Error("profile lookup", zap.String("user_id", session.User.ID.String()), zap.Error(err))
		}
		err = ErrProfileNotFound
	case !profile.IsAdmin:
		err = ErrNotAdmin
	}
	metrics.AuthAttempts.WithLabelValues("admin_login", metrics.Result(err)).Inc()
	if err != nil {
		if signOutErr := s.backend.SignOut(ctx, session.AccessToken); signOutErr != nil {
			zap.L().Warn("sign out after refused admin login", zap.Error(signOutErr))
		}
		return nil, err
	}
	return session, nil
}

func (s *authService) SignOut(ctx context.Context, accessToken string) error {
	return s.backend.SignOut(ctx, accessToken)
}

// ForgotPassword sends a reset link pointing at the callback route. The
// returned verifier must be presented again when the link is followed.
func (s *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	verifier, challenge, err := supabase.NewCodeVerifier()
	if err != nil {
		return "", err
	}
	err = s.backend.SendPasswordReset(ctx, strings.TrimSpace(email), s.siteURL+CallbackPath, challenge)
	metrics.AuthAttempts.WithLabelValues("forgot_password", metrics.Result(err)).Inc()
	if err != nil {
		return "", err
	}
	return verifier, nil
}

// Callback redeems whatever the reset link carried: a PKCE code, a token
// hash, or both. With neither it returns a nil session and no error.
func (s *authService) Callback(ctx context.Context, code, codeVerifier, tokenHash, otpType string) (*supabase.Session, error) {
	var session *supabase.Session
	if code != "" {
		sess, err := s.backend.ExchangeCode(ctx, code, codeVerifier)
		if err != nil {
			zap.L().Warn("exchange auth code", zap.Error(err))
			return nil, errors.Wrap(err, "exchange code")
		}
		session = sess
	}
	if tokenHash != "" && otpType != "" {
		sess, err := s.backend.VerifyOTP(ctx, tokenHash, otpType)
		if err != nil {
			zap.L().Warn("verify otp", zap.Error(err))
			return nil, errors.Wrap(err, "verify otp")
		}
		session = sess
	}
	return session, nil
}

func (s *authService) ResetPassword(ctx context.Context, accessToken string, in *ResetPasswordInput) error {
	if accessToken == "" {
		return ErrInvalidResetLink
	}
	if in.Password != in.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if err := validate(in); err != nil {
		return err
	}
	err := s.backend.UpdatePassword(ctx, accessToken, in.Password)
	metrics.AuthAttempts.WithLabelValues("reset_password", metrics.Result(err)).Inc()
	if supabase.IsStatus(err, 401) || errors.Is(err, supabase.ErrNoSession) {
		return ErrInvalidResetLink
	}
	return err
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

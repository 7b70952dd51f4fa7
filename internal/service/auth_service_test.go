package service

import (
	"context"
	"errors"
	"testing"

	"eau-clair-web/internal/model"
	"eau-clair-web/pkg/supabase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthFixture() (*MockAuthBackend, *MockProfileRepository, *MockWelcomeSender, AuthService) {
	backend := new(MockAuthBackend)
	profiles := new(MockProfileRepository)
	mail := new(MockWelcomeSender)
	return backend, profiles, mail, NewAuthService(backend, profiles, mail, "https://eauclair.example/")
}

func TestAuthService_SignUpDisallowedDomain(t *testing.T) {
	backend, _, mail, svc := newAuthFixture()

	_, err := svc.SignUp(context.Background(), &SignUpInput{Email: "ana@outlook.com", Password: "secret123"})

	assert.ErrorIs(t, err, ErrEmailDomainNotAllowed)
	backend.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
	mail.AssertNotCalled(t, "SendWelcome", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_SignUpSendsWelcome(t *testing.T) {
	backend, _, mail, svc := newAuthFixture()
	user := &supabase.User{ID: uuid.New(), Email: "ana@gmail.com"}
	backend.On("SignUp", mock.Anything, "ana@gmail.com", "secret123").Return(user, nil)
	mail.On("SendWelcome", mock.Anything, "ana@gmail.com", "ana").Return(nil)

	got, err := svc.SignUp(context.Background(), &SignUpInput{Email: " ana@gmail.com ", Password: "secret123"})

	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	mail.AssertExpectations(t)
}

func TestAuthService_SignUpWelcomeFailureDoesNotBlock(t *testing.T) {
	backend, _, mail, svc := newAuthFixture()
	backend.On("SignUp", mock.Anything, "bo@yahoo.com", "secret123").Return(&supabase.User{ID: uuid.New()}, nil)
	mail.On("SendWelcome", mock.Anything, "bo@yahoo.com", "bo").Return(errors.New("mailgun down"))

	_, err := svc.SignUp(context.Background(), &SignUpInput{Email: "bo@yahoo.com", Password: "secret123"})

	assert.NoError(t, err)
}

func TestAuthService_SignUpShortPassword(t *testing.T) {
	backend, _, mail, svc := newAuthFixture()

	_, err := svc.SignUp(context.Background(), &SignUpInput{Email: "bo@gmail.com", Password: "12345"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("password"))
	backend.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
	mail.AssertNotCalled(t, "SendWelcome", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_SignUpBackendError(t *testing.T) {
	backend, _, mail, svc := newAuthFixture()
	backend.On("SignUp", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &supabase.APIError{Status: 422, Message: "User already registered"})

	_, err := svc.SignUp(context.Background(), &SignUpInput{Email: "bo@hotmail.com", Password: "secret123"})

	assert.EqualError(t, err, "User already registered")
	mail.AssertNotCalled(t, "SendWelcome", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_SignInMapsRejection(t *testing.T) {
	backend, _, _, svc := newAuthFixture()
	backend.On("SignIn", mock.Anything, "ana@gmail.com", "wrong").
		Return(nil, &supabase.APIError{Status: 400, Message: "Invalid login credentials"})

	_, err := svc.SignIn(context.Background(), "ana@gmail.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_AdminSignIn(t *testing.T) {
	userID := uuid.New()
	session := &supabase.Session{AccessToken: "tok", User: supabase.User{ID: userID}}

	t.Run("admin", func(t *testing.T) {
		backend, profiles, _, svc := newAuthFixture()
		backend.On("SignIn", mock.Anything, "root@gmail.com", "pw").Return(session, nil)
		profiles.On("FindByID", mock.Anything, userID).Return(&model.Profile{ID: userID, IsAdmin: true}, nil)

		got, err := svc.AdminSignIn(context.Background(), "root@gmail.com", "pw")

		require.NoError(t, err)
		assert.Equal(t, "tok", got.AccessToken)
		backend.AssertNotCalled(t, "SignOut", mock.Anything, mock.Anything)
	})

	t.Run("not admin signs out", func(t *testing.T) {
		backend, profiles, _, svc := newAuthFixture()
		backend.On("SignIn", mock.Anything, "ana@gmail.com", "pw").Return(session, nil)
		backend.On("SignOut", mock.Anything, "tok").Return(nil).Once()
		profiles.On("FindByID", mock.Anything, userID).Return(&model.Profile{ID: userID}, nil)

		_, err := svc.AdminSignIn(context.Background(), "ana@gmail.com", "pw")

		assert.ErrorIs(t, err, ErrNotAdmin)
		backend.AssertExpectations(t)
	})

	t.Run("missing profile signs out", func(t *testing.T) {
		backend, profiles, _, svc := newAuthFixture()
		backend.On("SignIn", mock.Anything, "ana@gmail.com", "pw").Return(session, nil)
		backend.On("SignOut", mock.Anything, "tok").Return(nil).Once()
		profiles.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.AdminSignIn(context.Background(), "ana@gmail.com", "pw")

		assert.ErrorIs(t, err, ErrProfileNotFound)
		backend.AssertExpectations(t)
	})

	t.Run("bad password", func(t *testing.T) {
		backend, profiles, _, svc := newAuthFixture()
		backend.On("SignIn", mock.Anything, "ana@gmail.com", "bad").Return(nil, errors.New("invalid"))

		_, err := svc.AdminSignIn(context.Background(), "ana@gmail.com", "bad")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		profiles.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestAuthService_ForgotPassword(t *testing.T) {
	backend, _, _, svc := newAuthFixture()
	var challenge string
	backend.On("SendPasswordReset", mock.Anything, "ana@gmail.com", "https://eauclair.example/auth/callback", mock.Anything).
		Run(func(args mock.Arguments) { challenge = args.String(3) }).
		Return(nil)

	verifier, err := svc.ForgotPassword(context.Background(), "ana@gmail.com")

	require.NoError(t, err)
	assert.NotEmpty(t, verifier)
	assert.Equal(t, supabase.CodeChallenge(verifier), challenge)
}

func TestAuthService_Callback(t *testing.T) {
	t.Run("code", func(t *testing.T) {
		backend, _, _, svc := newAuthFixture()
		backend.On("ExchangeCode", mock.Anything, "c0de", "verifier").Return(&supabase.Session{AccessToken: "a"}, nil)

		s, err := svc.Callback(context.Background(), "c0de", "verifier", "", "")

		require.NoError(t, err)
		assert.Equal(t, "a", s.AccessToken)
	})

	t.Run("token hash", func(t *testing.T) {
		backend, _, _, svc := newAuthFixture()
		backend.On("VerifyOTP", mock.Anything, "hash", supabase.OTPRecovery).Return(&supabase.Session{AccessToken: "b"}, nil)

		s, err := svc.Callback(context.Background(), "", "", "hash", supabase.OTPRecovery)

		require.NoError(t, err)
		assert.Equal(t, "b", s.AccessToken)
	})

	t.Run("exchange fails", func(t *testing.T) {
		backend, _, _, svc := newAuthFixture()
		backend.On("ExchangeCode", mock.Anything, "c0de", "").Return(nil, errors.New("invalid flow state"))

		_, err := svc.Callback(context.Background(), "c0de", "", "", "")

		assert.Error(t, err)
	})

	t.Run("nothing to redeem", func(t *testing.T) {
		_, _, _, svc := newAuthFixture()

		s, err := svc.Callback(context.Background(), "", "", "", "")

		assert.NoError(t, err)
		assert.Nil(t, s)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Run("mismatch makes no backend call", func(t *testing.T) {
		backend, _, _, svc := newAuthFixture()

		err := svc.ResetPassword(context.Background(), "tok", &ResetPasswordInput{Password: "a", ConfirmPassword: "b"})

		assert.ErrorIs(t, err, ErrPasswordMismatch)
		backend.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("short password makes no backend call", func(t *testing.T) {
		backend, _, _, svc := newAuthFixture()

		err := svc.ResetPassword(context.Background(), "tok", &ResetPasswordInput{Password: "abc", ConfirmPassword: "abc"})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.HasField("password"))
		backend.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no session", func(t *testing.T) {
		_, _, _, svc := newAuthFixture()

		err := svc.ResetPassword(context.Background(), "", &ResetPasswordInput{Password: "a", ConfirmPassword: "a"})

		assert.ErrorIs(t, err, ErrInvalidResetLink)
	})

	t.Run("expired session", func(t *testing.T) {
		backend, _, _, svc := newAuthFixture()
		backend.On("UpdatePassword", mock.Anything, "tok", "newpass").
			Return(&supabase.APIError{Status: 401, Message: "invalid JWT"})

		err := svc.ResetPassword(context.Background(), "tok", &ResetPasswordInput{Password: "newpass", ConfirmPassword: "newpass"})

		assert.ErrorIs(t, err, ErrInvalidResetLink)
	})

	t.Run("ok", func(t *testing.T) {
		backend, _, _, svc := newAuthFixture()
		backend.On("UpdatePassword", mock.Anything, "tok", "newpass").Return(nil)

		err := svc.ResetPassword(context.Background(), "tok", &ResetPasswordInput{Password: "newpass", ConfirmPassword: "newpass"})

		assert.NoError(t, err)
	})
}

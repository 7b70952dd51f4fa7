package service

import (
	"context"

	"eau-clair-web/internal/model"
	"eau-clair-web/pkg/supabase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListActive(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProfileRepository is a mock implementation of ProfileRepository.
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindUserIDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockProfileRepository) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error {
	args := m.Called(ctx, id, isAdmin)
	return args.Error(0)
}

// MockAuthBackend is a mock implementation of AuthBackend.
type MockAuthBackend struct {
	mock.Mock
}

func (m *MockAuthBackend) SignUp(ctx context.Context, email, password string) (*supabase.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.User), args.Error(1)
}

func (m *MockAuthBackend) SignIn(ctx context.Context, email, password string) (*supabase.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.Session), args.Error(1)
}

func (m *MockAuthBackend) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

func (m *MockAuthBackend) ExchangeCode(ctx context.Context, code, codeVerifier string) (*supabase.Session, error) {
	args := m.Called(ctx, code, codeVerifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.Session), args.Error(1)
}

func (m *MockAuthBackend) VerifyOTP(ctx context.Context, tokenHash, otpType string) (*supabase.Session, error) {
	args := m.Called(ctx, tokenHash, otpType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.Session), args.Error(1)
}

func (m *MockAuthBackend) UpdatePassword(ctx context.Context, accessToken, password string) error {
	args := m.Called(ctx, accessToken, password)
	return args.Error(0)
}

func (m *MockAuthBackend) SendPasswordReset(ctx context.Context, email, redirectTo, codeChallenge string) error {
	args := m.Called(ctx, email, redirectTo, codeChallenge)
	return args.Error(0)
}

// MockWelcomeSender is a mock implementation of mailer.WelcomeSender.
type MockWelcomeSender struct {
	mock.Mock
}

func (m *MockWelcomeSender) SendWelcome(ctx context.Context, email, name string) error {
	args := m.Called(ctx, email, name)
	return args.Error(0)
}

// recordingInvalidator remembers every route it was asked to drop.
type recordingInvalidator struct {
	calls [][]string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, routes ...string) {
	r.calls = append(r.calls, routes)
}

package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/partner"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/config"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newTestAuthService() (*AuthService, *MockUserRepository, *MockCustomerRepository) {
	userRepo := new(MockUserRepository)
	customerRepo := new(MockCustomerRepository)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-service-tests",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shopfront-test",
	})
	service := NewAuthService(userRepo, customerRepo, jwtService, zap.NewNop())
	return service, userRepo, customerRepo
}

func TestAuthService_Register(t *testing.T) {
	service, userRepo, customerRepo := newTestAuthService()

	userRepo.On("ExistsByEmail", mock.Anything, "budi@example.com").Return(false, nil)
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)
	customerRepo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)

	resp, err := service.Register(context.Background(), RegisterRequest{
		Email:    "Budi@Example.com",
		Password: "rahasia-besar",
		FullName: "Budi Santoso",
		Phone:    "+628123456789",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "budi@example.com", resp.User.Email)
	assert.Equal(t, string(identity.UserRoleCustomer), resp.User.Role)

	customerRepo.AssertExpectations(t)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	service, userRepo, _ := newTestAuthService()

	userRepo.On("ExistsByEmail", mock.Anything, "budi@example.com").Return(true, nil)

	_, err := service.Register(context.Background(), RegisterRequest{
		Email:    "budi@example.com",
		Password: "rahasia-besar",
		FullName: "Budi Santoso",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
}

func TestAuthService_Login(t *testing.T) {
	service, userRepo, _ := newTestAuthService()

	user, err := identity.NewUser("budi@example.com", "rahasia-besar", "Budi Santoso", identity.UserRoleCustomer)
	require.NoError(t, err)

	userRepo.On("FindByEmail", mock.Anything, "budi@example.com").Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	resp, err := service.Login(context.Background(), LoginRequest{
		Email:    "budi@example.com",
		Password: "rahasia-besar",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotNil(t, user.LastLoginAt)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service, userRepo, _ := newTestAuthService()

	user, err := identity.NewUser("budi@example.com", "rahasia-besar", "Budi Santoso", identity.UserRoleCustomer)
	require.NoError(t, err)

	userRepo.On("FindByEmail", mock.Anything, "budi@example.com").Return(user, nil)

	_, err = service.Login(context.Background(), LoginRequest{
		Email:    "budi@example.com",
		Password: "salah",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Login_UnknownEmailSameError(t *testing.T) {
	service, userRepo, _ := newTestAuthService()

	userRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, shared.ErrNotFound)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "apapun",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	service, userRepo, _ := newTestAuthService()

	user, err := identity.NewUser("budi@example.com", "rahasia-besar", "Budi Santoso", identity.UserRoleCustomer)
	require.NoError(t, err)
	user.Disable()

	userRepo.On("FindByEmail", mock.Anything, "budi@example.com").Return(user, nil)

	_, err = service.Login(context.Background(), LoginRequest{
		Email:    "budi@example.com",
		Password: "rahasia-besar",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_DISABLED", domainErr.Code)
}

func TestAuthService_Refresh(t *testing.T) {
	service, userRepo, _ := newTestAuthService()

	user, err := identity.NewUser("budi@example.com", "rahasia-besar", "Budi Santoso", identity.UserRoleCustomer)
	require.NoError(t, err)

	userRepo.On("FindByEmail", mock.Anything, "budi@example.com").Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	login, err := service.Login(context.Background(), LoginRequest{
		Email:    "budi@example.com",
		Password: "rahasia-besar",
	})
	require.NoError(t, err)

	refreshed, err := service.Refresh(context.Background(), RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestAuthService_Refresh_DisabledAccount(t *testing.T) {
	service, userRepo, _ := newTestAuthService()

	user, err := identity.NewUser("budi@example.com", "rahasia-besar", "Budi Santoso", identity.UserRoleCustomer)
	require.NoError(t, err)

	userRepo.On("FindByEmail", mock.Anything, "budi@example.com").Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	login, err := service.Login(context.Background(), LoginRequest{
		Email:    "budi@example.com",
		Password: "rahasia-besar",
	})
	require.NoError(t, err)

	user.Disable()
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	_, err = service.Refresh(context.Background(), RefreshRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_DISABLED", domainErr.Code)
}

func TestAuthService_ChangePassword(t *testing.T) {
	service, userRepo, _ := newTestAuthService()

	user, err := identity.NewUser("budi@example.com", "rahasia-besar", "Budi Santoso", identity.UserRoleCustomer)
	require.NoError(t, err)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	err = service.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		CurrentPassword: "rahasia-besar",
		NewPassword:     "rahasia-baru-sekali",
	})
	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("rahasia-baru-sekali"))
}

package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/backend/internal/domain/partner"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// MockAddressRepository is a mock implementation of partner.AddressRepository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Address), args.Error(1)
}

func (m *MockAddressRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]partner.Address, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]partner.Address), args.Error(1)
}

func (m *MockAddressRepository) FindDefault(ctx context.Context, customerID uuid.UUID) (*partner.Address, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Address), args.Error(1)
}

func (m *MockAddressRepository) Save(ctx context.Context, address *partner.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAddressRepository) ClearDefault(ctx context.Context, customerID uuid.UUID) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func validAddressRequest() AddressRequest {
	return AddressRequest{
		Label:         "Rumah",
		RecipientName: "Budi Santoso",
		Phone:         "+628123456789",
		Province:      "Jawa Barat",
		City:          "Bandung",
		District:      "Coblong",
		Detail:        "Jl. Dago No. 15",
		PostalCode:    "40135",
		DestinationID: 17473,
		PinPoint:      "-6.914744,107.609810",
	}
}

func buildAddress(t *testing.T, customerID uuid.UUID) *partner.Address {
	t.Helper()
	location, err := valueobject.NewAddress("Jawa Barat", "Bandung", "Coblong", "Jl. Dago No. 15")
	require.NoError(t, err)
	address, err := partner.NewAddress(customerID, "Rumah", "Budi Santoso", "+628123456789", location, 17473)
	require.NoError(t, err)
	return address
}

func TestAddressService_Create_FirstBecomesDefault(t *testing.T) {
	repo := new(MockAddressRepository)
	service := NewAddressService(repo)
	customerID := uuid.New()

	repo.On("FindByCustomer", mock.Anything, customerID).Return([]partner.Address{}, nil)
	repo.On("ClearDefault", mock.Anything, customerID).Return(nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Address")).Return(nil)

	resp, err := service.Create(context.Background(), customerID, validAddressRequest())
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	assert.Equal(t, 17473, resp.DestinationID)
	assert.Equal(t, "Bandung", resp.City)
	repo.AssertExpectations(t)
}

func TestAddressService_Create_SecondNotDefault(t *testing.T) {
	repo := new(MockAddressRepository)
	service := NewAddressService(repo)
	customerID := uuid.New()

	existing := buildAddress(t, customerID)
	repo.On("FindByCustomer", mock.Anything, customerID).Return([]partner.Address{*existing}, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Address")).Return(nil)

	req := validAddressRequest()
	req.Label = "Kantor"

	resp, err := service.Create(context.Background(), customerID, req)
	require.NoError(t, err)
	assert.False(t, resp.IsDefault)
	repo.AssertNotCalled(t, "ClearDefault", mock.Anything, mock.Anything)
}

func TestAddressService_Create_RejectsBadPinPoint(t *testing.T) {
	repo := new(MockAddressRepository)
	service := NewAddressService(repo)

	req := validAddressRequest()
	req.PinPoint = "not-a-pin"

	_, err := service.Create(context.Background(), uuid.New(), req)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PIN_POINT", domainErr.Code)
}

func TestAddressService_Get_ForeignAddressHidden(t *testing.T) {
	repo := new(MockAddressRepository)
	service := NewAddressService(repo)

	owner := uuid.New()
	address := buildAddress(t, owner)
	repo.On("FindByID", mock.Anything, address.ID).Return(address, nil)

	_, err := service.Get(context.Background(), uuid.New(), address.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAddressService_SetDefault(t *testing.T) {
	repo := new(MockAddressRepository)
	service := NewAddressService(repo)

	customerID := uuid.New()
	address := buildAddress(t, customerID)

	repo.On("FindByID", mock.Anything, address.ID).Return(address, nil)
	repo.On("ClearDefault", mock.Anything, customerID).Return(nil)
	repo.On("Save", mock.Anything, address).Return(nil)

	require.NoError(t, service.SetDefault(context.Background(), customerID, address.ID))
	assert.True(t, address.IsDefault)
}

func TestAddressService_Delete(t *testing.T) {
	repo := new(MockAddressRepository)
	service := NewAddressService(repo)

	customerID := uuid.New()
	address := buildAddress(t, customerID)

	repo.On("FindByID", mock.Anything, address.ID).Return(address, nil)
	repo.On("Delete", mock.Anything, address.ID).Return(nil)

	require.NoError(t, service.Delete(context.Background(), customerID, address.ID))
	repo.AssertExpectations(t)
}

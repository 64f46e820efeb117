package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopfront/backend/internal/domain/partner"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// AddressService handles address book operations. All operations are
// scoped to a customer so one customer can never touch another's
// addresses.
type AddressService struct {
	addressRepo partner.AddressRepository
}

// NewAddressService creates a new AddressService
func NewAddressService(addressRepo partner.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// Create adds an address to the customer's address book. The first
// address becomes the default automatically.
func (s *AddressService) Create(ctx context.Context, customerID uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	location, err := valueobject.NewAddress(req.Province, req.City, req.District, req.Detail,
		valueobject.WithPostalCode(req.PostalCode))
	if err != nil {
		return nil, err
	}

	address, err := partner.NewAddress(customerID, req.Label, req.RecipientName, req.Phone, location, req.DestinationID)
	if err != nil {
		return nil, err
	}

	if req.PinPoint != "" {
		pin, err := valueobject.ParsePinPoint(req.PinPoint)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PIN_POINT", err.Error())
		}
		address.SetPinPoint(pin)
	}

	existing, err := s.addressRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 || req.IsDefault {
		if err := s.addressRepo.ClearDefault(ctx, customerID); err != nil {
			return nil, err
		}
		address.MarkDefault()
	}

	if err := s.addressRepo.Save(ctx, address); err != nil {
		return nil, err
	}

	response := ToAddressResponse(address)
	return &response, nil
}

// Get retrieves one of the customer's addresses
func (s *AddressService) Get(ctx context.Context, customerID, addressID uuid.UUID) (*AddressResponse, error) {
	address, err := s.findOwned(ctx, customerID, addressID)
	if err != nil {
		return nil, err
	}

	response := ToAddressResponse(address)
	return &response, nil
}

// List retrieves the customer's address book, default address first
func (s *AddressService) List(ctx context.Context, customerID uuid.UUID) ([]AddressResponse, error) {
	addresses, err := s.addressRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	responses := make([]AddressResponse, 0, len(addresses))
	for i := range addresses {
		responses = append(responses, ToAddressResponse(&addresses[i]))
	}
	return responses, nil
}

// Update updates an address book entry
func (s *AddressService) Update(ctx context.Context, customerID, addressID uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	address, err := s.findOwned(ctx, customerID, addressID)
	if err != nil {
		return nil, err
	}

	location, err := valueobject.NewAddress(req.Province, req.City, req.District, req.Detail,
		valueobject.WithPostalCode(req.PostalCode))
	if err != nil {
		return nil, err
	}

	if err := address.Update(req.Label, req.RecipientName, req.Phone, location, req.DestinationID); err != nil {
		return nil, err
	}

	if req.PinPoint != "" {
		pin, err := valueobject.ParsePinPoint(req.PinPoint)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PIN_POINT", err.Error())
		}
		address.SetPinPoint(pin)
	} else {
		address.SetPinPoint(valueobject.PinPoint{})
	}

	if req.IsDefault && !address.IsDefault {
		if err := s.addressRepo.ClearDefault(ctx, customerID); err != nil {
			return nil, err
		}
		address.MarkDefault()
	}

	if err := s.addressRepo.Save(ctx, address); err != nil {
		return nil, err
	}

	response := ToAddressResponse(address)
	return &response, nil
}

// SetDefault marks an address as the customer's default
func (s *AddressService) SetDefault(ctx context.Context, customerID, addressID uuid.UUID) error {
	address, err := s.findOwned(ctx, customerID, addressID)
	if err != nil {
		return err
	}

	if err := s.addressRepo.ClearDefault(ctx, customerID); err != nil {
		return err
	}
	address.MarkDefault()
	return s.addressRepo.Save(ctx, address)
}

// Delete removes an address from the customer's address book
func (s *AddressService) Delete(ctx context.Context, customerID, addressID uuid.UUID) error {
	address, err := s.findOwned(ctx, customerID, addressID)
	if err != nil {
		return err
	}
	return s.addressRepo.Delete(ctx, address.ID)
}

// findOwned loads an address and checks it belongs to the customer.
// A foreign address is reported as not found so address IDs cannot be
// probed across customers.
func (s *AddressService) findOwned(ctx context.Context, customerID, addressID uuid.UUID) (*partner.Address, error) {
	address, err := s.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if address.CustomerID != customerID {
		return nil, shared.ErrNotFound
	}
	return address, nil
}

package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a physical address
// It is immutable - all operations return new Address instances
type Address struct {
	province   string
	city       string
	district   string
	detail     string
	postalCode string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithPostalCode sets the postal code for the address
func WithPostalCode(postalCode string) AddressOption {
	return func(a *Address) {
		a.postalCode = strings.TrimSpace(postalCode)
	}
}

// NewAddress creates a new Address with the required fields
// Province, city, and detail are required; district and postal code are optional
func NewAddress(province, city, district, detail string, opts ...AddressOption) (Address, error) {
	province = strings.TrimSpace(province)
	city = strings.TrimSpace(city)
	district = strings.TrimSpace(district)
	detail = strings.TrimSpace(detail)

	if province == "" {
		return Address{}, fmt.Errorf("address province cannot be empty")
	}
	if city == "" {
		return Address{}, fmt.Errorf("address city cannot be empty")
	}
	if detail == "" {
		return Address{}, fmt.Errorf("address detail cannot be empty")
	}

	addr := Address{
		province: province,
		city:     city,
		district: district,
		detail:   detail,
	}
	for _, opt := range opts {
		opt(&addr)
	}
	return addr, nil
}

// Province returns the province
func (a Address) Province() string { return a.province }

// City returns the city
func (a Address) City() string { return a.city }

// District returns the district
func (a Address) District() string { return a.district }

// Detail returns the street-level detail
func (a Address) Detail() string { return a.detail }

// PostalCode returns the postal code
func (a Address) PostalCode() string { return a.postalCode }

// IsZero returns true if the address is the zero value
func (a Address) IsZero() bool {
	return a.province == "" && a.city == "" && a.detail == ""
}

// FullAddress returns the address formatted as a single line
func (a Address) FullAddress() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.detail, a.district, a.city, a.province, a.postalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// addressJSON is the JSON wire representation of Address
type addressJSON struct {
	Province   string `json:"province"`
	City       string `json:"city"`
	District   string `json:"district,omitempty"`
	Detail     string `json:"detail"`
	PostalCode string `json:"postal_code,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Province:   a.province,
		City:       a.city,
		District:   a.district,
		Detail:     a.detail,
		PostalCode: a.postalCode,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var aj addressJSON
	if err := json.Unmarshal(data, &aj); err != nil {
		return err
	}
	a.province = aj.Province
	a.city = aj.City
	a.district = aj.District
	a.detail = aj.Detail
	a.postalCode = aj.PostalCode
	return nil
}

// Value implements driver.Valuer for database storage (JSONB column)
func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}
}

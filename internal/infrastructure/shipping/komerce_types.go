package shipping

import (
	domain "github.com/shopfront/backend/internal/domain/shipping"
)

// calculateEndpoint is the tariff calculation path on the Komerce API
const calculateEndpoint = "/tariff/api/v1/calculate"

// komerceMeta is the meta block present on every Komerce response
type komerceMeta struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Status  string `json:"status"`
}

// komerceCalculateData holds the tariff lists grouped by service class.
// Only the regular class is consumed; cargo and instant classes exist on
// the wire but are not offered at checkout.
type komerceCalculateData struct {
	CalculateReguler []domain.RawTariff `json:"calculate_reguler"`
	CalculateCargo   []domain.RawTariff `json:"calculate_cargo"`
	CalculateInstant []domain.RawTariff `json:"calculate_instant"`
}

// komerceCalculateResponse is the full calculate endpoint envelope
type komerceCalculateResponse struct {
	Meta komerceMeta          `json:"meta"`
	Data komerceCalculateData `json:"data"`
}

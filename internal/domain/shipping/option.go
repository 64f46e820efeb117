package shipping

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// defaultETD is used when the upstream ETD is absent or the "-" sentinel.
const defaultETD = "2-4"

// etdDaySuffix matches a trailing "day"/"days" word (any case) with
// surrounding whitespace, e.g. "2-3 day", "4 Days ".
var etdDaySuffix = regexp.MustCompile(`(?i)\s*days?\s*$`)

// ShippingOption is the normalized internal representation of a RawTariff.
// Options are created fresh on every rate lookup and held only until the
// customer selects one or abandons the checkout step.
type ShippingOption struct {
	ID                 int             `json:"id"`
	CourierName        string          `json:"courier_name"`
	CourierServiceName string          `json:"courier_service_name"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	ETD                string          `json:"etd"`
	IsCOD              bool            `json:"is_cod"`
}

// NormalizeTariffs maps raw carrier tariffs into uniform shipping options.
// It is a pure function: 1:1, order-preserving, no sorting, no dedup, no
// filtering. Partial records are kept rather than dropped: a tariff with a
// missing courier or service name still yields an option with a sparse label.
func NormalizeTariffs(tariffs []RawTariff) []ShippingOption {
	options := make([]ShippingOption, 0, len(tariffs))
	for i, t := range tariffs {
		options = append(options, ShippingOption{
			ID:                 i,
			CourierName:        t.ShippingName,
			CourierServiceName: t.ServiceName,
			Description:        describeTariff(t),
			Price:              t.ShippingCost,
			ETD:                cleanETD(t.ETD),
			IsCOD:              t.IsCOD,
		})
	}
	return options
}

// describeTariff builds the customer-facing label for a tariff:
// "{courier} - {service}", with a COD annotation when supported.
func describeTariff(t RawTariff) string {
	desc := t.ShippingName + " - " + t.ServiceName
	if t.IsCOD {
		desc += " (COD Available)"
	}
	return desc
}

// cleanETD reduces the upstream free-form ETD to a bare day count or range.
// "3 days" becomes "3", "2-3 day" becomes "2-3". Absent or "-" values fall
// back to the default range. The result is never empty.
func cleanETD(etd string) string {
	etd = strings.TrimSpace(etd)
	if etd == "" || etd == "-" {
		return defaultETD
	}
	cleaned := strings.TrimSpace(etdDaySuffix.ReplaceAllString(etd, ""))
	if cleaned == "" {
		return defaultETD
	}
	return cleaned
}

package shipping

import "github.com/shopspring/decimal"

// RawTariff is a single carrier+service quote as returned by the external
// rate-calculation service. It is producer-defined: fields may be absent or
// carry sentinel values, and the ETD string is free-form. RawTariff records
// are received once per rate lookup, normalized, and discarded.
type RawTariff struct {
	ShippingName     string          `json:"shipping_name"`
	ServiceName      string          `json:"service_name"`
	Weight           decimal.Decimal `json:"weight"`
	IsCOD            bool            `json:"is_cod"`
	ShippingCost     decimal.Decimal `json:"shipping_cost"`
	ShippingCashback decimal.Decimal `json:"shipping_cashback"`
	ShippingCostNet  decimal.Decimal `json:"shipping_cost_net"`
	GrandTotal       decimal.Decimal `json:"grandtotal"`
	ServiceFee       decimal.Decimal `json:"service_fee"`
	NetIncome        decimal.Decimal `json:"net_income"`
	ETD              string          `json:"etd"`
}

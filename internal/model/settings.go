package model

import "github.com/shopspring/decimal"

type Settings struct {
	CODEnabled        *bool           `json:"cod_enabled,omitempty"`
	ShippingThreshold decimal.Decimal `json:"shipping_threshold"`
	ShippingFee       decimal.Decimal `json:"shipping_fee"`
	CODFee            decimal.Decimal `json:"cod_fee"`
}

// CODAllowed treats an absent flag as enabled, matching the storefront's fallback
// when settings cannot be read at all.
func (s Settings) CODAllowed() bool {
	return s.CODEnabled == nil || *s.CODEnabled
}

type DeliveryStates struct {
	EnabledStates []string `json:"enabled_states"`
}

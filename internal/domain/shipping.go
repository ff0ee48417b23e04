package domain

type ShippingRatesRequest struct {
	Recipient *Recipient `json:"recipient"`
	Items     []CartItem `json:"items"`
}

type ShippingRatesResponse struct {
	Success bool           `json:"success"`
	Rates   []ShippingRate `json:"rates"`
}

// FlatShippingRates is the fixed rate table offered for every destination.
// Real rate computation is not implemented.
func FlatShippingRates() []ShippingRate {
	return []ShippingRate{
		{ID: "standard", Name: "Standard Shipping", Rate: "5.99", Currency: "USD"},
		{ID: "express", Name: "Express Shipping", Rate: "12.99", Currency: "USD"},
	}
}

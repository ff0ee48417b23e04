package domain

import (
	"fmt"
	"math"
)

type CartItem struct {
	ProductID int64  `json:"productId"`
	VariantID int64  `json:"variantId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int64  `json:"quantity"`
	Image     string `json:"image,omitempty"`
}

type Customer struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Name  string `json:"name,omitempty"`
}

type ShippingRate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Rate     string `json:"rate"`
	Currency string `json:"currency"`
}

type CheckoutSessionRequest struct {
	Items    []CartItem    `json:"items"`
	Customer *Customer     `json:"customer,omitempty"`
	Shipping *ShippingRate `json:"shipping,omitempty"`
}

type CheckoutSessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CustomerEmail returns the customer's email or an empty string.
func (r *CheckoutSessionRequest) CustomerEmail() string {
	if r.Customer == nil {
		return ""
	}
	return r.Customer.Email
}

// PricedLine is a cart line converted to minor currency units.
type PricedLine struct {
	Item       CartItem
	UnitAmount int64
	LineTotal  int64
}

// CartTotals holds per-line minor-unit amounts and their sum. Total is always
// the exact sum of the line totals.
type CartTotals struct {
	Lines []PricedLine
	Total int64
}

// PriceCart validates every item and prices it in minor units. Unit prices are
// rounded half-even to two places before being multiplied by the quantity.
func PriceCart(items []CartItem) (*CartTotals, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Field: "items", Message: ErrEmptyCart.Error()}
	}

	totals := &CartTotals{Lines: make([]PricedLine, 0, len(items))}
	for i, item := range items {
		field := fmt.Sprintf("items[%d]", i)
		if item.Quantity <= 0 {
			return nil, NewValidationError(field+".quantity", "must be a positive integer, got %d", item.Quantity)
		}
		price, err := ParseAmount(field+".price", item.Price)
		if err != nil {
			return nil, err
		}

		unit := ToMinorUnits(price)
		if unit > 0 && item.Quantity > math.MaxInt64/unit {
			return nil, NewValidationError(field+".quantity", "line total overflows for quantity %d", item.Quantity)
		}
		line := PricedLine{
			Item:       item,
			UnitAmount: unit,
			LineTotal:  unit * item.Quantity,
		}
		if totals.Total > math.MaxInt64-line.LineTotal {
			return nil, NewValidationError("items", "cart total overflows")
		}
		totals.Lines = append(totals.Lines, line)
		totals.Total += line.LineTotal
	}

	return totals, nil
}

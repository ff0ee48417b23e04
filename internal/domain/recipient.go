package domain

import (
	"encoding/json"
	"fmt"
)

// Recipient is a shipping address. Keys the storefront does not know about
// are kept in Extra and written back out unchanged.
type Recipient struct {
	Name        string
	Address1    string
	Address2    string
	City        string
	StateCode   string
	CountryCode string
	Zip         string
	Phone       string
	Email       string
	Extra       map[string]any
}

func (r *Recipient) fields() map[string]*string {
	return map[string]*string{
		"name":         &r.Name,
		"address1":     &r.Address1,
		"address2":     &r.Address2,
		"city":         &r.City,
		"state_code":   &r.StateCode,
		"country_code": &r.CountryCode,
		"zip":          &r.Zip,
		"phone":        &r.Phone,
		"email":        &r.Email,
	}
}

func (r *Recipient) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("recipient must be an object: %w", err)
	}

	known := r.fields()
	for key, value := range raw {
		if dst, ok := known[key]; ok {
			if string(value) == "null" {
				continue
			}
			if err := json.Unmarshal(value, dst); err != nil {
				return fmt.Errorf("recipient.%s must be a string", key)
			}
			continue
		}

		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return fmt.Errorf("recipient.%s: %w", key, err)
		}
		if r.Extra == nil {
			r.Extra = make(map[string]any)
		}
		r.Extra[key] = v
	}
	return nil
}

func (r Recipient) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+9)
	for k, v := range r.Extra {
		out[k] = v
	}
	for key, value := range r.fields() {
		if *value != "" {
			out[key] = *value
		}
	}
	return json.Marshal(out)
}

package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Product mirrors one catalog record as last confirmed by the server.
// The client never invents product state: the local list only ever holds
// server-returned records.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// UnmarshalJSON accepts the price both as a JSON number and as a quoted
// decimal string. APIs backed by decimal database columns commonly serialise
// prices as strings ("9.99").
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          int64           `json:"id"`
		Name        string          `json:"name"`
		Price       json.RawMessage `json:"price"`
		Description string          `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.ID = raw.ID
	p.Name = raw.Name
	p.Description = raw.Description
	p.Price = 0
	if len(raw.Price) == 0 {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw.Price, &n); err == nil {
		p.Price = n
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.Price, &s); err != nil {
		return fmt.Errorf("product price: unsupported JSON value %s", raw.Price)
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("product price: %w", err)
	}
	p.Price = n
	return nil
}

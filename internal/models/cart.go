package models

import "time"

// CartLine is one product entry in a cart. The product snapshot is kept
// with the line so totals stay stable while the cart is open.
type CartLine struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	MinimumOrder int    `json:"minimum_order"`
	CODAvailable bool   `json:"cod_available"`
	Quantity     int    `json:"quantity"`
}

// Cart is a session-scoped shopping cart held in Redis under an opaque ID.
type Cart struct {
	ID        string     `json:"id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Total returns the cart value as the sum of price times quantity.
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.Price * int64(line.Quantity)
	}
	return total
}

// OrderConfirmation is the terminal result of a checkout. No payment is
// processed; the order number is handed to the school for offline follow-up.
type OrderConfirmation struct {
	OrderNumber  string     `json:"order_number"`
	Lines        []CartLine `json:"lines"`
	Total        int64      `json:"total"`
	CODAvailable bool       `json:"cod_available"`
	PlacedAt     time.Time  `json:"placed_at"`
}

package transactions

import "time"

// Status of a point-of-sale transaction.
const (
	StatusPaid   = "paid"
	StatusVoided = "voided"
)

// Line is one sold item within a transaction.
type Line struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Qty        int    `json:"qty"`
	PriceCents int64  `json:"price_cents"`
}

// Transaction is one register sale. Rows are owned by both a tenant and a
// store: cashiers only ever see their own register's sales.
type Transaction struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	StoreID    string    `json:"store_id"`
	CashierID  string    `json:"cashier_id"`
	CustomerID string    `json:"customer_id,omitempty"`
	Status     string    `json:"status"`
	Currency   string    `json:"currency"`
	TotalCents int64     `json:"total_cents"`
	Lines      []Line    `json:"lines"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Total sums the line amounts.
func (t Transaction) Total() int64 {
	var total int64
	for _, line := range t.Lines {
		total += line.PriceCents * int64(line.Qty)
	}
	return total
}

// ListFilters narrows transaction listings.
type ListFilters struct {
	Status string
	Limit  int
	Offset int
}

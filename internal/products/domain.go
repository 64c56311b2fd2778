package products

import "time"

// Product is one catalog entry. Rows are owned by a tenant and optionally
// pinned to a single store; tenant-wide products have an empty StoreID.
type Product struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	StoreID    string    `json:"store_id,omitempty"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Category   string    `json:"category,omitempty"`
	PriceCents int64     `json:"price_cents"`
	Stock      int64     `json:"stock"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListFilters narrows product listings.
type ListFilters struct {
	Search string
	Limit  int
	Offset int
}

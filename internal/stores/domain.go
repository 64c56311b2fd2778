package stores

import "time"

// Store is a physical point-of-sale location owned by a tenant. Cashiers and
// store-admins are pinned to exactly one store; tenant-admins manage all of
// the tenant's stores.
type Store struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

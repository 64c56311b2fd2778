package users

import (
	"time"

	"github.com/vendapos/venda/internal/authz"
)

// User is the management view of an account. The password hash never
// leaves the repository layer.
type User struct {
	ID        string      `json:"id"`
	TenantID  string      `json:"tenant_id"`
	StoreID   string      `json:"store_id,omitempty"`
	Username  string      `json:"username"`
	FullName  string      `json:"full_name"`
	Level     authz.Level `json:"level"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CreateInput carries the fields needed to provision an account.
type CreateInput struct {
	TenantID string      `json:"tenant_id"`
	StoreID  string      `json:"store_id"`
	Username string      `json:"username"`
	FullName string      `json:"full_name"`
	Password string      `json:"password"`
	Level    authz.Level `json:"level"`
}

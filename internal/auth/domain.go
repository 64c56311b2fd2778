package auth

import (
	"time"

	"github.com/vendapos/venda/internal/authz"
)

// Account represents a user account row. Unlike the request-lifetime
// Principal, accounts are persisted and mutable.
type Account struct {
	ID           string
	TenantID     string
	StoreID      string // empty for tenant-wide accounts
	Username     string
	FullName     string
	PasswordHash string
	Level        authz.Level
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal builds the request principal for an account. Level aliases are
// kept as stored; the capability matrix resolves them.
func (a Account) Principal() authz.Principal {
	return authz.Principal{
		ID:       a.ID,
		TenantID: a.TenantID,
		StoreID:  a.StoreID,
		Level:    a.Level,
	}
}

// TokenPair carries an access token and the refresh token issued with it.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

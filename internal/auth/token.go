package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vendapos/venda/internal/authz"
)

// Claims is the JWT payload for one principal assertion. The root flag is
// carried explicitly rather than inferred from the level so a renumbered
// hierarchy can never mint an unrestricted token by accident.
type Claims struct {
	TenantID string `json:"tenant_id"`
	StoreID  string `json:"store_id,omitempty"`
	Level    int    `json:"level"`
	Root     bool   `json:"root,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies principal assertions with an HMAC secret.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer constructs a TokenIssuer.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Issue signs an access/refresh token pair for the principal.
func (i *TokenIssuer) Issue(p authz.Principal) (TokenPair, error) {
	now := time.Now().UTC()
	access, err := i.sign(p, now, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.sign(p, now, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(i.accessTTL),
	}, nil
}

func (i *TokenIssuer) sign(p authz.Principal, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		TenantID: p.TenantID,
		StoreID:  p.StoreID,
		Level:    int(p.Level),
		Root:     p.Unrestricted,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a signed assertion and reconstructs the principal
// strictly from its claims. It does not consult storage; liveness is the
// caller's separate concern.
func (i *TokenIssuer) Verify(raw string) (authz.Principal, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return authz.Principal{}, authz.ErrUnauthenticated
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return authz.Principal{}, authz.ErrUnauthenticated
	}
	if claims.Root {
		return authz.RootPrincipal(claims.Subject), nil
	}
	if claims.TenantID == "" {
		return authz.Principal{}, authz.ErrUnauthenticated
	}
	return authz.Principal{
		ID:       claims.Subject,
		TenantID: claims.TenantID,
		StoreID:  claims.StoreID,
		Level:    authz.Level(claims.Level),
	}, nil
}

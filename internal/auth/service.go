package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vendapos/venda/internal/authz"
)

// livenessTimeout bounds the account lookup during token verification so a
// slow collaborator fails the request instead of hanging the auth path.
const livenessTimeout = 3 * time.Second

// RootCredentials holds the single out-of-band root login. The password is
// stored as a bcrypt hash in configuration, never in the database.
type RootCredentials struct {
	Username     string
	PasswordHash string
}

// Service wraps authentication business rules: credential login, principal
// assertion verification with liveness refresh, and the root bypass.
type Service struct {
	repo   Repository
	tokens *TokenIssuer
	root   RootCredentials
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenIssuer, root RootCredentials, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, tokens: tokens, root: root, logger: logger}
}

// Login validates credentials and issues a token pair. An empty tenant id
// selects the root bypass path: the hard-coded root username/password is
// checked out of band and yields the unrestricted principal with reserved
// tenant and store ids.
func (s *Service) Login(ctx context.Context, tenantID, username, password string) (authz.Principal, TokenPair, error) {
	if tenantID == "" && username == s.root.Username {
		return s.rootLogin(username, password)
	}

	account, err := s.repo.FindByUsername(ctx, tenantID, username)
	if err != nil {
		return authz.Principal{}, TokenPair{}, authz.ErrUnauthenticated
	}
	if !account.Active {
		return authz.Principal{}, TokenPair{}, authz.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return authz.Principal{}, TokenPair{}, authz.ErrUnauthenticated
	}

	principal := account.Principal()
	pair, err := s.tokens.Issue(principal)
	if err != nil {
		return authz.Principal{}, TokenPair{}, err
	}
	s.logger.Info("login",
		slog.String("account_id", account.ID),
		slog.String("tenant_id", account.TenantID),
		slog.Int("level", int(account.Level)))
	return principal, pair, nil
}

func (s *Service) rootLogin(username, password string) (authz.Principal, TokenPair, error) {
	if s.root.Username == "" || s.root.PasswordHash == "" {
		return authz.Principal{}, TokenPair{}, authz.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.root.PasswordHash), []byte(password)); err != nil {
		return authz.Principal{}, TokenPair{}, authz.ErrUnauthenticated
	}
	principal := authz.RootPrincipal(username)
	pair, err := s.tokens.Issue(principal)
	if err != nil {
		return authz.Principal{}, TokenPair{}, err
	}
	s.logger.Info("root login", slog.String("username", username))
	return principal, pair, nil
}

// Authenticate verifies a raw bearer token and confirms the account is
// still live. The principal comes strictly from the token's claims; the
// liveness check then refreshes mutable attributes (store assignment,
// level) and rejects accounts that were deactivated or removed since the
// token was issued.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (authz.Principal, error) {
	principal, err := s.tokens.Verify(rawToken)
	if err != nil {
		return authz.Principal{}, authz.ErrUnauthenticated
	}
	if principal.Unrestricted {
		return principal, nil
	}

	ctx, cancel := context.WithTimeout(ctx, livenessTimeout)
	defer cancel()
	account, err := s.repo.GetActiveAccount(ctx, principal.ID, principal.TenantID)
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			s.logger.Warn("liveness check failed", slog.Any("error", err))
		}
		return authz.Principal{}, authz.ErrUnauthenticated
	}

	principal.StoreID = account.StoreID
	principal.Level = account.Level
	return principal, nil
}

// Refresh verifies a refresh token and issues a fresh pair for the still
// live account.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	principal, err := s.Authenticate(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	return s.tokens.Issue(principal)
}

// ChangePassword replaces an account's password after verifying the
// current one.
func (s *Service) ChangePassword(ctx context.Context, principal authz.Principal, current, next string) error {
	account, err := s.repo.GetActiveAccount(ctx, principal.ID, principal.TenantID)
	if err != nil {
		return authz.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(current)); err != nil {
		return authz.ErrUnauthenticated
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, account.ID, account.TenantID, string(hash))
}

package transactions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/httpx"
	"github.com/vendapos/venda/internal/webhooks"
)

type memoryRepo struct {
	items map[string]Transaction
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[string]Transaction)}
}

func (r *memoryRepo) visible(scope authz.AccessScope, tx Transaction) bool {
	if scope.Unrestricted {
		return true
	}
	if tx.TenantID != scope.TenantID {
		return false
	}
	if scope.StoreID != "" && scope.Level.StoreScoped() && tx.StoreID != scope.StoreID {
		return false
	}
	return true
}

func (r *memoryRepo) List(_ context.Context, scope authz.AccessScope, _ ListFilters) ([]Transaction, error) {
	var out []Transaction
	for _, tx := range r.items {
		if r.visible(scope, tx) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, scope authz.AccessScope, id string) (Transaction, error) {
	tx, ok := r.items[id]
	if !ok || !r.visible(scope, tx) {
		return Transaction{}, httpx.ErrNotFound
	}
	return tx, nil
}

func (r *memoryRepo) Create(_ context.Context, tx Transaction) (Transaction, error) {
	r.items[tx.ID] = tx
	return tx, nil
}

func (r *memoryRepo) SetStatus(_ context.Context, scope authz.AccessScope, id, status string) error {
	tx, ok := r.items[id]
	if !ok || !r.visible(scope, tx) {
		return httpx.ErrNotFound
	}
	tx.Status = status
	r.items[id] = tx
	return nil
}

func cashier() (authz.AccessScope, string) {
	scope := authz.ResolveScope(authz.Principal{ID: "u-kasir", TenantID: "T1", StoreID: "S1", Level: authz.LevelCashier})
	return scope, "u-kasir"
}

func TestCashierCreatesSaleInOwnStore(t *testing.T) {
	svc := NewService(newMemoryRepo(), authz.NewAuthorizer(nil, nil), nil, nil)
	scope, actor := cashier()

	created, err := svc.Create(context.Background(), scope, actor, Transaction{
		Lines: []Line{{ProductID: "p-1", Name: "Kopi", Qty: 2, PriceCents: 1500}},
	})
	require.NoError(t, err)
	require.Equal(t, "T1", created.TenantID)
	require.Equal(t, "S1", created.StoreID)
	require.Equal(t, "u-kasir", created.CashierID)
	require.Equal(t, StatusPaid, created.Status)
	require.Equal(t, int64(3000), created.TotalCents)
}

func TestCashierDeniedForeignStore(t *testing.T) {
	svc := NewService(newMemoryRepo(), authz.NewAuthorizer(nil, nil), nil, nil)
	scope, actor := cashier()

	_, err := svc.Create(context.Background(), scope, actor, Transaction{
		StoreID: "S2",
		Lines:   []Line{{ProductID: "p-1", Name: "Kopi", Qty: 1, PriceCents: 1500}},
	})
	require.ErrorIs(t, err, authz.ErrStoreMismatch)
}

func TestReviewerCannotVoid(t *testing.T) {
	repo := newMemoryRepo()
	repo.items["tx-1"] = Transaction{ID: "tx-1", TenantID: "T1", StoreID: "S1", Status: StatusPaid}
	svc := NewService(repo, authz.NewAuthorizer(nil, nil), nil, nil)
	scope := authz.ResolveScope(authz.Principal{ID: "u-rev", TenantID: "T1", Level: authz.LevelReviewer})

	err := svc.Void(context.Background(), scope, "u-rev", "tx-1")
	require.ErrorIs(t, err, authz.ErrInsufficientLevel)
}

func TestVoidMarksVoided(t *testing.T) {
	repo := newMemoryRepo()
	repo.items["tx-1"] = Transaction{ID: "tx-1", TenantID: "T1", StoreID: "S1", Status: StatusPaid}
	svc := NewService(repo, authz.NewAuthorizer(nil, nil), nil, nil)
	scope, actor := cashier()

	require.NoError(t, svc.Void(context.Background(), scope, actor, "tx-1"))
	require.Equal(t, StatusVoided, repo.items["tx-1"].Status)
}

func TestCreateRequiresLines(t *testing.T) {
	svc := NewService(newMemoryRepo(), authz.NewAuthorizer(nil, nil), nil, nil)
	scope, actor := cashier()

	_, err := svc.Create(context.Background(), scope, actor, Transaction{})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestReceiptContainsLinesAndTotal(t *testing.T) {
	tx := Transaction{
		ID:         "tx-9",
		Currency:   "IDR",
		TotalCents: 4500,
		Lines: []Line{
			{Name: "Kopi", Qty: 2, PriceCents: 1500},
			{Name: "Roti", Qty: 1, PriceCents: 1500},
		},
	}
	receipt := FormatReceipt(tx)
	require.True(t, strings.Contains(receipt, "tx-9"))
	require.True(t, strings.Contains(receipt, "Kopi"))
	require.True(t, strings.Contains(receipt, "TOTAL"))
}

type captureSink struct {
	events []string
}

func (c *captureSink) Emit(_ context.Context, _ string, event string, _ json.RawMessage) error {
	c.events = append(c.events, event)
	return nil
}

func TestCreateAndVoidEmitEvents(t *testing.T) {
	sink := &captureSink{}
	svc := NewService(newMemoryRepo(), authz.NewAuthorizer(nil, nil), sink, nil)
	scope, actor := cashier()

	created, err := svc.Create(context.Background(), scope, actor, Transaction{
		Lines: []Line{{ProductID: "p-1", Name: "Kopi", Qty: 1, PriceCents: 1500}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Void(context.Background(), scope, actor, created.ID))

	require.Equal(t, []string{webhooks.EventTransactionCreated, webhooks.EventTransactionVoided}, sink.events)
}

// An unrestricted operator creating a sale on behalf of a tenant must
// stamp the row with that tenant, never the reserved root placeholder.
func TestRootCreateKeepsRequestedTenant(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, authz.NewAuthorizer(nil, nil), nil, nil)
	scope := authz.ResolveScope(authz.Principal{ID: "root", Level: authz.LevelRoot, Unrestricted: true})

	created, err := svc.Create(context.Background(), scope, "root", Transaction{
		TenantID: "T7",
		StoreID:  "S7",
		Lines:    []Line{{ProductID: "p-1", Name: "Teh", Qty: 1, PriceCents: 800}},
	})
	require.NoError(t, err)
	require.Equal(t, "T7", created.TenantID)
	require.NotEqual(t, authz.ReservedRootTenantID, created.TenantID)
	require.Equal(t, "T7", repo.items[created.ID].TenantID)
}

type failingSink struct{}

func (failingSink) Emit(context.Context, string, string, json.RawMessage) error {
	return errors.New("queue unavailable")
}

// A failed enqueue must not fail the committed sale, but it must leave a
// trace in the log.
func TestEmitFailureIsLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	svc := NewService(newMemoryRepo(), authz.NewAuthorizer(nil, nil), failingSink{}, logger)
	scope, actor := cashier()

	_, err := svc.Create(context.Background(), scope, actor, Transaction{
		Lines: []Line{{ProductID: "p-1", Name: "Kopi", Qty: 1, PriceCents: 1500}},
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "webhook enqueue failed")
}

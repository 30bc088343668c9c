package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopscribe/shopscribe-backend/internal/domain/pos"
	"github.com/shopscribe/shopscribe-backend/internal/pkg/logger"
	"github.com/shopscribe/shopscribe-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func mustPrice(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

type fakeCatalog struct {
	products map[uuid.UUID]*types.Product
}

func (f *fakeCatalog) AddProduct(ctx context.Context, ownerID uuid.UUID, in NewProduct) (*types.Product, error) {
	return nil, nil
}

func (f *fakeCatalog) UpdateProduct(ctx context.Context, ownerID, productID uuid.UUID, in ProductUpdate) (*types.Product, error) {
	return nil, nil
}

func (f *fakeCatalog) RemoveProduct(ctx context.Context, ownerID, productID uuid.UUID) error {
	return nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, ownerID, productID uuid.UUID) (*types.Product, error) {
	p, ok := f.products[productID]
	if !ok || p.OwnerID != ownerID {
		return nil, pos.NewError(pos.CodeNotFound, "Catalog.GetProduct", "unknown product", nil)
	}
	return p, nil
}

func (f *fakeCatalog) ListProducts(ctx context.Context, ownerID uuid.UUID, sortByName bool) ([]*types.Product, error) {
	return nil, nil
}

func (f *fakeCatalog) ListLowStock(ctx context.Context, ownerID uuid.UUID, threshold int) ([]*types.Product, error) {
	return nil, nil
}

type fakeCheckout struct {
	result pos.CheckoutResult
	err    error
	inputs []pos.CheckoutInput
}

func (f *fakeCheckout) Contract() pos.Contract { return pos.CheckoutAggregateContract }

func (f *fakeCheckout) Checkout(ctx context.Context, in pos.CheckoutInput) (pos.CheckoutResult, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return pos.CheckoutResult{}, f.err
	}
	return f.result, nil
}

func newCartFixture(t *testing.T, products ...*types.Product) (CartService, *fakeCheckout, uuid.UUID) {
	t.Helper()
	owner := uuid.New()
	byID := make(map[uuid.UUID]*types.Product, len(products))
	for _, p := range products {
		p.OwnerID = owner
		byID[p.ID] = p
	}
	checkout := &fakeCheckout{}
	svc := NewCartService(testLogger(t), NewMemoryCartStore(), &fakeCatalog{products: byID}, checkout)
	return svc, checkout, owner
}

func TestCartService_AddItem(t *testing.T) {
	mug := &types.Product{ID: uuid.New(), Name: "Mug", Price: mustPrice(t, "19.99")}
	svc, _, owner := newCartFixture(t, mug)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, owner, mug.ID, 2)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart: %+v", cart.Items)
	}

	// Same product again merges into the existing line.
	cart, err = svc.AddItem(ctx, owner, mug.ID, 1)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 {
		t.Fatalf("expected merged line with quantity 3, got %+v", cart.Items)
	}

	if _, err := svc.AddItem(ctx, owner, mug.ID, 0); !pos.IsCode(err, pos.CodeValidation) {
		t.Fatalf("expected validation for zero quantity, got %v", err)
	}
	if _, err := svc.AddItem(ctx, owner, uuid.New(), 1); !pos.IsCode(err, pos.CodeNotFound) {
		t.Fatalf("expected not_found for unknown product, got %v", err)
	}
}

func TestCartService_SetQuantityAndRemove(t *testing.T) {
	mug := &types.Product{ID: uuid.New(), Name: "Mug", Price: mustPrice(t, "19.99")}
	svc, _, owner := newCartFixture(t, mug)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, owner, mug.ID, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	cart, err := svc.SetQuantity(ctx, owner, mug.ID, 5)
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cart.Items[0].Quantity)
	}

	cart, err = svc.SetQuantity(ctx, owner, mug.ID, 0)
	if err != nil {
		t.Fatalf("SetQuantity(0): %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("SetQuantity(0) must remove the line")
	}

	// Removing an absent product stays a no-op.
	if _, err := svc.RemoveItem(ctx, owner, mug.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
}

func TestCartService_TotalAndPersistence(t *testing.T) {
	mug := &types.Product{ID: uuid.New(), Name: "Mug", Price: mustPrice(t, "19.99")}
	pen := &types.Product{ID: uuid.New(), Name: "Pen", Price: mustPrice(t, "1.25")}
	svc, _, owner := newCartFixture(t, mug, pen)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, owner, mug.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.AddItem(ctx, owner, pen.ID, 4); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	total, err := svc.Total(ctx, owner)
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if !total.Equal(mustPrice(t, "24.99")) {
		t.Fatalf("expected total 24.99, got %s", total)
	}

	// A fresh Get sees the stored lines.
	cart, err := svc.Get(ctx, owner)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Items))
	}
}

func TestCartService_CheckoutClearsOnlyOnSuccess(t *testing.T) {
	mug := &types.Product{ID: uuid.New(), Name: "Mug", Price: mustPrice(t, "19.99")}
	svc, checkout, owner := newCartFixture(t, mug)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, owner, mug.ID, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	checkout.err = pos.NewError(pos.CodeInsufficientStock, "POS.Checkout", "insufficient stock", nil)
	if _, err := svc.Checkout(ctx, owner, CustomerInfo{}); !pos.IsCode(err, pos.CodeInsufficientStock) {
		t.Fatalf("expected insufficient_stock, got %v", err)
	}
	cart, err := svc.Get(ctx, owner)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cart.IsEmpty() {
		t.Fatalf("failed checkout must leave the cart intact")
	}

	checkout.err = nil
	checkout.result = pos.CheckoutResult{Receipt: &types.Receipt{
		ID:      uuid.New(),
		OwnerID: owner,
		Total:   mustPrice(t, "39.98"),
	}}
	result, err := svc.Checkout(ctx, owner, CustomerInfo{Name: "Ada"})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if result.Receipt == nil || !result.Receipt.Total.Equal(mustPrice(t, "39.98")) {
		t.Fatalf("unexpected receipt: %+v", result.Receipt)
	}

	last := checkout.inputs[len(checkout.inputs)-1]
	if last.CustomerName != "Ada" || len(last.Items) != 1 {
		t.Fatalf("unexpected checkout input: %+v", last)
	}

	cart, err = svc.Get(ctx, owner)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("successful checkout must clear the cart")
	}
}

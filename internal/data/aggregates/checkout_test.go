package aggregates

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopscribe/shopscribe-backend/internal/domain/pos"
	"github.com/shopscribe/shopscribe-backend/internal/types"
)

type fakeProductRepo struct {
	products   map[uuid.UUID]*types.Product
	decrements map[uuid.UUID]int
	failDecr   bool
}

func newFakeProductRepo(products ...*types.Product) *fakeProductRepo {
	byID := make(map[uuid.UUID]*types.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &fakeProductRepo{products: byID, decrements: map[uuid.UUID]int{}}
}

func (f *fakeProductRepo) Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error) {
	return products, nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID) (*types.Product, error) {
	p, ok := f.products[productID]
	if !ok || p.OwnerID != ownerID {
		return nil, nil
	}
	return p, nil
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, productIDs []uuid.UUID) ([]*types.Product, error) {
	var out []*types.Product
	for _, id := range productIDs {
		if p, ok := f.products[id]; ok && p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, sortByName bool) ([]*types.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) ListLowStock(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, threshold int) ([]*types.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID, updates map[string]any) (int64, error) {
	return 0, nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeProductRepo) DecrementStock(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID, by int) (int64, error) {
	if f.failDecr {
		return 0, nil
	}
	p, ok := f.products[productID]
	if !ok || p.OwnerID != ownerID || p.Quantity == nil || *p.Quantity < by {
		return 0, nil
	}
	next := *p.Quantity - by
	p.Quantity = &next
	f.decrements[productID] += by
	return 1, nil
}

type fakeReceiptRepo struct {
	created []*types.Receipt
}

func (f *fakeReceiptRepo) Create(ctx context.Context, tx *gorm.DB, receipt *types.Receipt) (*types.Receipt, error) {
	f.created = append(f.created, receipt)
	return receipt, nil
}

func (f *fakeReceiptRepo) GetByID(ctx context.Context, tx *gorm.DB, ownerID, receiptID uuid.UUID) (*types.Receipt, error) {
	return nil, nil
}

func (f *fakeReceiptRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Receipt, error) {
	return nil, nil
}

func (f *fakeReceiptRepo) ListByOwnerSince(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, since time.Time) ([]*types.Receipt, error) {
	return nil, nil
}

func (f *fakeReceiptRepo) ListRecent(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, limit int) ([]*types.Receipt, error) {
	return nil, nil
}

func (f *fakeReceiptRepo) Delete(ctx context.Context, tx *gorm.DB, ownerID, receiptID uuid.UUID) (int64, error) {
	return 0, nil
}

func intPtr(v int) *int { return &v }

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func cartLine(p *types.Product, qty int) pos.CartItem {
	return pos.CartItem{
		Product: pos.ItemSnapshot{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
		},
		Quantity: qty,
	}
}

func newTestCheckout(products *fakeProductRepo, receipts *fakeReceiptRepo, runner *stubRunner) pos.CheckoutAggregate {
	return NewCheckoutAggregate(CheckoutAggregateDeps{
		Base:     BaseDeps{Runner: runner, Hooks: NoopHooks()},
		Products: products,
		Receipts: receipts,
	})
}

func TestCheckout_EmptyCartHasNoSideEffects(t *testing.T) {
	products := newFakeProductRepo()
	receipts := &fakeReceiptRepo{}
	runner := &stubRunner{}
	agg := newTestCheckout(products, receipts, runner)

	_, err := agg.Checkout(context.Background(), pos.CheckoutInput{OwnerID: uuid.New()})
	if !pos.IsCode(err, pos.CodeEmptyCart) {
		t.Fatalf("expected empty_cart, got %v", err)
	}
	if runner.calls != 0 {
		t.Fatalf("empty cart must fail before opening a transaction, saw %d", runner.calls)
	}
	if len(receipts.created) != 0 {
		t.Fatalf("no receipt may exist for an empty cart")
	}
}

func TestCheckout_Success(t *testing.T) {
	owner := uuid.New()
	mug := &types.Product{
		ID:       uuid.New(),
		OwnerID:  owner,
		Name:     "Mug",
		Price:    mustDecimal(t, "19.99"),
		Quantity: intPtr(50),
	}
	products := newFakeProductRepo(mug)
	receipts := &fakeReceiptRepo{}
	agg := newTestCheckout(products, receipts, &stubRunner{})

	result, err := agg.Checkout(context.Background(), pos.CheckoutInput{
		OwnerID:      owner,
		Items:        []pos.CartItem{cartLine(mug, 2)},
		CustomerName: "  Ada  ",
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if *mug.Quantity != 48 {
		t.Fatalf("expected stock 48, got %d", *mug.Quantity)
	}
	if len(receipts.created) != 1 {
		t.Fatalf("expected 1 receipt, got %d", len(receipts.created))
	}
	receipt := result.Receipt
	if !receipt.Total.Equal(mustDecimal(t, "39.98")) {
		t.Fatalf("expected total 39.98, got %s", receipt.Total)
	}
	if receipt.CustomerName != "Ada" {
		t.Fatalf("expected trimmed customer name, got %q", receipt.CustomerName)
	}
	items, err := receipt.ItemList()
	if err != nil {
		t.Fatalf("ItemList: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Mug" || items[0].Quantity != 2 {
		t.Fatalf("unexpected receipt items: %+v", items)
	}
	if !items[0].LineTotal.Equal(mustDecimal(t, "39.98")) {
		t.Fatalf("expected line total 39.98, got %s", items[0].LineTotal)
	}
}

func TestCheckout_InsufficientStock(t *testing.T) {
	owner := uuid.New()
	mug := &types.Product{
		ID:       uuid.New(),
		OwnerID:  owner,
		Name:     "Mug",
		Price:    mustDecimal(t, "19.99"),
		Quantity: intPtr(1),
	}
	products := newFakeProductRepo(mug)
	receipts := &fakeReceiptRepo{}
	agg := newTestCheckout(products, receipts, &stubRunner{})

	_, err := agg.Checkout(context.Background(), pos.CheckoutInput{
		OwnerID: owner,
		Items:   []pos.CartItem{cartLine(mug, 5)},
	})
	if !pos.IsCode(err, pos.CodeInsufficientStock) {
		t.Fatalf("expected insufficient_stock, got %v", err)
	}
	if *mug.Quantity != 1 {
		t.Fatalf("stock must stay untouched, got %d", *mug.Quantity)
	}
	if len(receipts.created) != 0 {
		t.Fatalf("no receipt may exist for a failed checkout")
	}
}

func TestCheckout_UnknownProduct(t *testing.T) {
	owner := uuid.New()
	ghost := &types.Product{
		ID:    uuid.New(),
		Name:  "Ghost",
		Price: mustDecimal(t, "1.00"),
	}
	products := newFakeProductRepo()
	agg := newTestCheckout(products, &fakeReceiptRepo{}, &stubRunner{})

	_, err := agg.Checkout(context.Background(), pos.CheckoutInput{
		OwnerID: owner,
		Items:   []pos.CartItem{cartLine(ghost, 1)},
	})
	if !pos.IsCode(err, pos.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestCheckout_UntrackedStockSells(t *testing.T) {
	owner := uuid.New()
	service := &types.Product{
		ID:      uuid.New(),
		OwnerID: owner,
		Name:    "Gift Wrap",
		Price:   mustDecimal(t, "2.50"),
	}
	products := newFakeProductRepo(service)
	receipts := &fakeReceiptRepo{}
	agg := newTestCheckout(products, receipts, &stubRunner{})

	result, err := agg.Checkout(context.Background(), pos.CheckoutInput{
		OwnerID: owner,
		Items:   []pos.CartItem{cartLine(service, 3)},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if len(products.decrements) != 0 {
		t.Fatalf("untracked stock must never be decremented")
	}
	if !result.Receipt.Total.Equal(mustDecimal(t, "7.50")) {
		t.Fatalf("expected total 7.50, got %s", result.Receipt.Total)
	}
}

func TestCheckout_GuardedDecrementRace(t *testing.T) {
	owner := uuid.New()
	mug := &types.Product{
		ID:       uuid.New(),
		OwnerID:  owner,
		Name:     "Mug",
		Price:    mustDecimal(t, "19.99"),
		Quantity: intPtr(10),
	}
	products := newFakeProductRepo(mug)
	products.failDecr = true
	receipts := &fakeReceiptRepo{}
	agg := newTestCheckout(products, receipts, &stubRunner{})

	_, err := agg.Checkout(context.Background(), pos.CheckoutInput{
		OwnerID: owner,
		Items:   []pos.CartItem{cartLine(mug, 2)},
	})
	if !pos.IsCode(err, pos.CodeInsufficientStock) {
		t.Fatalf("expected insufficient_stock from guarded decrement, got %v", err)
	}
	if len(receipts.created) != 0 {
		t.Fatalf("no receipt may exist when a decrement loses the race")
	}
}

func TestCheckout_InputValidation(t *testing.T) {
	agg := newTestCheckout(newFakeProductRepo(), &fakeReceiptRepo{}, &stubRunner{})

	_, err := agg.Checkout(context.Background(), pos.CheckoutInput{
		Items: []pos.CartItem{{Quantity: 1, Product: pos.ItemSnapshot{ProductID: uuid.New()}}},
	})
	if !pos.IsCode(err, pos.CodeValidation) {
		t.Fatalf("missing owner: expected validation, got %v", err)
	}

	_, err = agg.Checkout(context.Background(), pos.CheckoutInput{
		OwnerID: uuid.New(),
		Items:   []pos.CartItem{{Quantity: 0, Product: pos.ItemSnapshot{ProductID: uuid.New()}}},
	})
	if !pos.IsCode(err, pos.CodeValidation) {
		t.Fatalf("zero quantity line: expected validation, got %v", err)
	}
}

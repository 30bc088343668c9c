package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopscribe/shopscribe-backend/internal/domain/pos"
	"github.com/shopscribe/shopscribe-backend/internal/types"
)

func intPtr(v int) *int { return &v }

// memProductRepo mimics the relevant repo semantics in memory: owner scoping,
// RowsAffected on updates and deletes, guarded stock decrements.
type memProductRepo struct {
	products map[uuid.UUID]*types.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[uuid.UUID]*types.Product{}}
}

func (m *memProductRepo) Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error) {
	for _, p := range products {
		m.products[p.ID] = p
	}
	return products, nil
}

func (m *memProductRepo) GetByID(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID) (*types.Product, error) {
	p, ok := m.products[productID]
	if !ok || p.OwnerID != ownerID {
		return nil, nil
	}
	return p, nil
}

func (m *memProductRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, productIDs []uuid.UUID) ([]*types.Product, error) {
	var out []*types.Product
	for _, id := range productIDs {
		if p, ok := m.products[id]; ok && p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProductRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, sortByName bool) ([]*types.Product, error) {
	var out []*types.Product
	for _, p := range m.products {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	if sortByName {
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return out, nil
}

func (m *memProductRepo) ListLowStock(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, threshold int) ([]*types.Product, error) {
	var out []*types.Product
	for _, p := range m.products {
		if p.OwnerID == ownerID && p.Quantity != nil && *p.Quantity <= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProductRepo) Update(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID, updates map[string]any) (int64, error) {
	p, ok := m.products[productID]
	if !ok || p.OwnerID != ownerID {
		return 0, nil
	}
	for col, val := range updates {
		switch col {
		case "name":
			p.Name = val.(string)
		case "price":
			p.Price = val.(decimal.Decimal)
		case "category":
			p.Category = val.(string)
		case "quantity":
			if val == nil {
				p.Quantity = nil
			} else {
				q := val.(int)
				p.Quantity = &q
			}
		case "image_url":
			p.ImageURL = val.(string)
		}
	}
	return 1, nil
}

func (m *memProductRepo) Delete(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID) (int64, error) {
	p, ok := m.products[productID]
	if !ok || p.OwnerID != ownerID {
		return 0, nil
	}
	delete(m.products, productID)
	return 1, nil
}

func (m *memProductRepo) DecrementStock(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID, by int) (int64, error) {
	p, ok := m.products[productID]
	if !ok || p.OwnerID != ownerID || p.Quantity == nil || *p.Quantity < by {
		return 0, nil
	}
	next := *p.Quantity - by
	p.Quantity = &next
	return 1, nil
}

type memReceiptRepo struct {
	receipts []*types.Receipt
}

func (m *memReceiptRepo) Create(ctx context.Context, tx *gorm.DB, receipt *types.Receipt) (*types.Receipt, error) {
	m.receipts = append(m.receipts, receipt)
	return receipt, nil
}

func (m *memReceiptRepo) GetByID(ctx context.Context, tx *gorm.DB, ownerID, receiptID uuid.UUID) (*types.Receipt, error) {
	for _, r := range m.receipts {
		if r.ID == receiptID && r.OwnerID == ownerID {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memReceiptRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Receipt, error) {
	var out []*types.Receipt
	for _, r := range m.receipts {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memReceiptRepo) ListByOwnerSince(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, since time.Time) ([]*types.Receipt, error) {
	var out []*types.Receipt
	for _, r := range m.receipts {
		if r.OwnerID == ownerID && !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReceiptRepo) ListRecent(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, limit int) ([]*types.Receipt, error) {
	out, _ := m.ListByOwner(ctx, tx, ownerID)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memReceiptRepo) Delete(ctx context.Context, tx *gorm.DB, ownerID, receiptID uuid.UUID) (int64, error) {
	for i, r := range m.receipts {
		if r.ID == receiptID && r.OwnerID == ownerID {
			m.receipts = append(m.receipts[:i], m.receipts[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func TestCatalogService_AddProduct(t *testing.T) {
	repo := newMemProductRepo()
	svc := NewCatalogService(nil, testLogger(t), repo)
	owner := uuid.New()
	ctx := context.Background()

	t.Run("valid input", func(t *testing.T) {
		qty := 10
		product, err := svc.AddProduct(ctx, owner, NewProduct{
			Name:     "  Mug  ",
			Price:    mustPrice(t, "19.99"),
			Category: "Kitchen",
			Quantity: &qty,
		})
		if err != nil {
			t.Fatalf("AddProduct: %v", err)
		}
		if product.Name != "Mug" {
			t.Fatalf("expected trimmed name, got %q", product.Name)
		}
		if product.ID == uuid.Nil {
			t.Fatalf("expected assigned id")
		}
	})

	t.Run("rejections", func(t *testing.T) {
		cases := []struct {
			name string
			in   NewProduct
		}{
			{"empty name", NewProduct{Name: "   ", Price: mustPrice(t, "1.00")}},
			{"negative price", NewProduct{Name: "x", Price: mustPrice(t, "-1.00")}},
			{"negative quantity", NewProduct{Name: "x", Price: mustPrice(t, "1.00"), Quantity: intPtr(-1)}},
		}
		for _, tc := range cases {
			if _, err := svc.AddProduct(ctx, owner, tc.in); !pos.IsCode(err, pos.CodeValidation) {
				t.Fatalf("%s: expected validation, got %v", tc.name, err)
			}
		}
		if _, err := svc.AddProduct(ctx, uuid.Nil, NewProduct{Name: "x", Price: mustPrice(t, "1.00")}); !pos.IsCode(err, pos.CodeValidation) {
			t.Fatalf("nil owner: expected validation, got %v", err)
		}
	})

	// Zero price is allowed (giveaways, comped items).
	if _, err := svc.AddProduct(ctx, owner, NewProduct{Name: "Sample", Price: decimal.Zero}); err != nil {
		t.Fatalf("zero price must be accepted: %v", err)
	}
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	repo := newMemProductRepo()
	svc := NewCatalogService(nil, testLogger(t), repo)
	owner := uuid.New()
	ctx := context.Background()

	qty := 3
	product, err := svc.AddProduct(ctx, owner, NewProduct{Name: "Mug", Price: mustPrice(t, "19.99"), Quantity: &qty})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}

	t.Run("partial update", func(t *testing.T) {
		price := mustPrice(t, "24.99")
		updated, err := svc.UpdateProduct(ctx, owner, product.ID, ProductUpdate{Price: &price})
		if err != nil {
			t.Fatalf("UpdateProduct: %v", err)
		}
		if !updated.Price.Equal(price) {
			t.Fatalf("expected price 24.99, got %s", updated.Price)
		}
		if updated.Name != "Mug" {
			t.Fatalf("untouched fields must survive, got %q", updated.Name)
		}
	})

	t.Run("untrack stock", func(t *testing.T) {
		updated, err := svc.UpdateProduct(ctx, owner, product.ID, ProductUpdate{UntrackStock: true})
		if err != nil {
			t.Fatalf("UpdateProduct: %v", err)
		}
		if updated.StockTracked() {
			t.Fatalf("expected untracked stock")
		}
	})

	t.Run("quantity and untrack are exclusive", func(t *testing.T) {
		_, err := svc.UpdateProduct(ctx, owner, product.ID, ProductUpdate{Quantity: intPtr(5), UntrackStock: true})
		if !pos.IsCode(err, pos.CodeValidation) {
			t.Fatalf("expected validation, got %v", err)
		}
	})

	t.Run("empty update returns current record", func(t *testing.T) {
		got, err := svc.UpdateProduct(ctx, owner, product.ID, ProductUpdate{})
		if err != nil {
			t.Fatalf("UpdateProduct: %v", err)
		}
		if got.ID != product.ID {
			t.Fatalf("expected current record back")
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		name := "Renamed"
		_, err := svc.UpdateProduct(ctx, owner, uuid.New(), ProductUpdate{Name: &name})
		if !pos.IsCode(err, pos.CodeNotFound) {
			t.Fatalf("expected not_found, got %v", err)
		}
	})

	t.Run("other owner cannot touch it", func(t *testing.T) {
		name := "Hijacked"
		_, err := svc.UpdateProduct(ctx, uuid.New(), product.ID, ProductUpdate{Name: &name})
		if !pos.IsCode(err, pos.CodeNotFound) {
			t.Fatalf("expected not_found for foreign owner, got %v", err)
		}
	})
}

func TestCatalogService_RemoveProduct(t *testing.T) {
	repo := newMemProductRepo()
	svc := NewCatalogService(nil, testLogger(t), repo)
	owner := uuid.New()
	ctx := context.Background()

	product, err := svc.AddProduct(ctx, owner, NewProduct{Name: "Mug", Price: mustPrice(t, "19.99")})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}

	if err := svc.RemoveProduct(ctx, owner, product.ID); err != nil {
		t.Fatalf("RemoveProduct: %v", err)
	}
	if err := svc.RemoveProduct(ctx, owner, product.ID); !pos.IsCode(err, pos.CodeNotFound) {
		t.Fatalf("expected not_found for second delete, got %v", err)
	}
	if _, err := svc.GetProduct(ctx, owner, product.ID); !pos.IsCode(err, pos.CodeNotFound) {
		t.Fatalf("expected not_found after delete, got %v", err)
	}
}

func TestCatalogService_ListLowStock(t *testing.T) {
	repo := newMemProductRepo()
	svc := NewCatalogService(nil, testLogger(t), repo)
	owner := uuid.New()
	ctx := context.Background()

	add := func(name string, qty *int) {
		t.Helper()
		if _, err := svc.AddProduct(ctx, owner, NewProduct{Name: name, Price: mustPrice(t, "1.00"), Quantity: qty}); err != nil {
			t.Fatalf("AddProduct %s: %v", name, err)
		}
	}
	add("Low", intPtr(2))
	add("AtThreshold", intPtr(5))
	add("Plenty", intPtr(80))
	add("Untracked", nil)

	low, err := svc.ListLowStock(ctx, owner, 0)
	if err != nil {
		t.Fatalf("ListLowStock: %v", err)
	}
	names := map[string]bool{}
	for _, p := range low {
		names[p.Name] = true
	}
	if len(low) != 2 || !names["Low"] || !names["AtThreshold"] {
		t.Fatalf("expected Low and AtThreshold, got %v", names)
	}
}

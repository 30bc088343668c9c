package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	redisclient "github.com/shopscribe/shopscribe-backend/internal/clients/redis"
	"github.com/shopscribe/shopscribe-backend/internal/domain/pos"
	"github.com/shopscribe/shopscribe-backend/internal/pkg/logger"
)

// CustomerInfo is the optional buyer detail attached to a receipt at checkout.
type CustomerInfo struct {
	Name  string
	Phone string
}

// CartService owns the per-operator cart session. Each operator acts
// sequentially on their own cart; the store keeps it across requests.
type CartService interface {
	Get(ctx context.Context, ownerID uuid.UUID) (*pos.Cart, error)
	AddItem(ctx context.Context, ownerID, productID uuid.UUID, quantity int) (*pos.Cart, error)
	SetQuantity(ctx context.Context, ownerID, productID uuid.UUID, quantity int) (*pos.Cart, error)
	RemoveItem(ctx context.Context, ownerID, productID uuid.UUID) (*pos.Cart, error)
	Clear(ctx context.Context, ownerID uuid.UUID) error
	Total(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error)
	Checkout(ctx context.Context, ownerID uuid.UUID, customer CustomerInfo) (*pos.CheckoutResult, error)
}

type cartService struct {
	log      *logger.Logger
	store    redisclient.CartStore
	catalog  CatalogService
	checkout pos.CheckoutAggregate
}

func NewCartService(log *logger.Logger, store redisclient.CartStore, catalog CatalogService, checkout pos.CheckoutAggregate) CartService {
	serviceLog := log.With("service", "CartService")
	return &cartService{log: serviceLog, store: store, catalog: catalog, checkout: checkout}
}

func (s *cartService) Get(ctx context.Context, ownerID uuid.UUID) (*pos.Cart, error) {
	return s.store.Load(ctx, ownerID)
}

// AddItem snapshots the product from the catalog and merges it into the cart.
// quantity <= 0 is rejected; handlers pass 1 for the default path.
func (s *cartService) AddItem(ctx context.Context, ownerID, productID uuid.UUID, quantity int) (*pos.Cart, error) {
	const op = "Cart.AddItem"
	if quantity <= 0 {
		return nil, pos.NewError(pos.CodeValidation, op, "quantity must be positive", nil)
	}

	product, err := s.catalog.GetProduct(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.store.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	snapshot := pos.ItemSnapshot{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
	}
	if err := cart.AddItem(snapshot, quantity); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, ownerID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) SetQuantity(ctx context.Context, ownerID, productID uuid.UUID, quantity int) (*pos.Cart, error) {
	cart, err := s.store.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := cart.SetQuantity(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, ownerID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) RemoveItem(ctx context.Context, ownerID, productID uuid.UUID) (*pos.Cart, error) {
	cart, err := s.store.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(productID)
	if err := s.store.Save(ctx, ownerID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) Clear(ctx context.Context, ownerID uuid.UUID) error {
	return s.store.Delete(ctx, ownerID)
}

func (s *cartService) Total(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	cart, err := s.store.Load(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}
	return cart.Total(), nil
}

// Checkout hands the cart to the checkout aggregate. The cart is cleared only
// after the aggregate succeeds; on any failure it stays as it was.
func (s *cartService) Checkout(ctx context.Context, ownerID uuid.UUID, customer CustomerInfo) (*pos.CheckoutResult, error) {
	cart, err := s.store.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result, err := s.checkout.Checkout(ctx, pos.CheckoutInput{
		OwnerID:       ownerID,
		Items:         cart.Items,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, ownerID); err != nil {
		// The sale is committed; a stale cart document is an annoyance,
		// not a correctness problem. It also expires on its own.
		s.log.Warn("Failed to clear cart after checkout", "owner_id", ownerID.String(), "error", err)
	}
	s.log.Info("Checkout complete", "owner_id", ownerID.String(), "receipt_id", result.Receipt.ID.String(), "total", result.Receipt.Total.String())
	return &result, nil
}

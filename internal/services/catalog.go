package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopscribe/shopscribe-backend/internal/domain/pos"
	"github.com/shopscribe/shopscribe-backend/internal/pkg/logger"
	"github.com/shopscribe/shopscribe-backend/internal/repos"
	"github.com/shopscribe/shopscribe-backend/internal/types"
)

// DefaultLowStockThreshold matches the dashboard's "running low" cutoff.
const DefaultLowStockThreshold = 5

// NewProduct carries the caller-settable fields for a catalog insert; the id
// is always assigned fresh.
type NewProduct struct {
	Name     string
	Price    decimal.Decimal
	Category string
	Quantity *int
	ImageURL string
}

// ProductUpdate enumerates which fields a partial update may touch. Nil means
// "leave unchanged"; UntrackStock explicitly switches a product to untracked
// stock (Quantity and UntrackStock are mutually exclusive).
type ProductUpdate struct {
	Name         *string
	Price        *decimal.Decimal
	Category     *string
	Quantity     *int
	UntrackStock bool
	ImageURL     *string
}

type CatalogService interface {
	AddProduct(ctx context.Context, ownerID uuid.UUID, in NewProduct) (*types.Product, error)
	UpdateProduct(ctx context.Context, ownerID, productID uuid.UUID, in ProductUpdate) (*types.Product, error)
	RemoveProduct(ctx context.Context, ownerID, productID uuid.UUID) error
	GetProduct(ctx context.Context, ownerID, productID uuid.UUID) (*types.Product, error)
	ListProducts(ctx context.Context, ownerID uuid.UUID, sortByName bool) ([]*types.Product, error)
	ListLowStock(ctx context.Context, ownerID uuid.UUID, threshold int) ([]*types.Product, error)
}

type catalogService struct {
	db          *gorm.DB
	log         *logger.Logger
	productRepo repos.ProductRepo
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, productRepo repos.ProductRepo) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{db: db, log: serviceLog, productRepo: productRepo}
}

func (cs *catalogService) AddProduct(ctx context.Context, ownerID uuid.UUID, in NewProduct) (*types.Product, error) {
	const op = "Catalog.AddProduct"
	if ownerID == uuid.Nil {
		return nil, pos.NewError(pos.CodeValidation, op, "missing owner_id", nil)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, pos.NewError(pos.CodeValidation, op, "product name must not be empty", nil)
	}
	if in.Price.IsNegative() {
		return nil, pos.NewError(pos.CodeValidation, op, "product price must not be negative", nil)
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, pos.NewError(pos.CodeValidation, op, "product quantity must not be negative", nil)
	}

	product := &types.Product{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Name:     name,
		Price:    in.Price,
		Category: strings.TrimSpace(in.Category),
		Quantity: in.Quantity,
		ImageURL: strings.TrimSpace(in.ImageURL),
	}
	created, err := cs.productRepo.Create(ctx, nil, []*types.Product{product})
	if err != nil {
		return nil, pos.Wrap(pos.CodeInternal, op, err)
	}
	cs.log.Info("Product added", "owner_id", ownerID.String(), "product_id", product.ID.String())
	return created[0], nil
}

func (cs *catalogService) UpdateProduct(ctx context.Context, ownerID, productID uuid.UUID, in ProductUpdate) (*types.Product, error) {
	const op = "Catalog.UpdateProduct"
	updates := map[string]any{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, pos.NewError(pos.CodeValidation, op, "product name must not be empty", nil)
		}
		updates["name"] = name
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, pos.NewError(pos.CodeValidation, op, "product price must not be negative", nil)
		}
		updates["price"] = *in.Price
	}
	if in.Category != nil {
		updates["category"] = strings.TrimSpace(*in.Category)
	}
	if in.Quantity != nil && in.UntrackStock {
		return nil, pos.NewError(pos.CodeValidation, op, "quantity and untrack_stock are mutually exclusive", nil)
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, pos.NewError(pos.CodeValidation, op, "product quantity must not be negative", nil)
		}
		updates["quantity"] = *in.Quantity
	}
	if in.UntrackStock {
		updates["quantity"] = nil
	}
	if in.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*in.ImageURL)
	}

	if len(updates) == 0 {
		// Nothing settable was provided; report the current record.
		product, err := cs.GetProduct(ctx, ownerID, productID)
		if err != nil {
			return nil, err
		}
		return product, nil
	}

	affected, err := cs.productRepo.Update(ctx, nil, ownerID, productID, updates)
	if err != nil {
		return nil, pos.Wrap(pos.CodeInternal, op, err)
	}
	if affected == 0 {
		return nil, pos.NewError(pos.CodeNotFound, op, fmt.Sprintf("unknown product: %s", productID), nil)
	}
	return cs.GetProduct(ctx, ownerID, productID)
}

// RemoveProduct deletes the record. Removing an unknown id fails with
// not_found; historical receipts keep their frozen snapshots either way.
func (cs *catalogService) RemoveProduct(ctx context.Context, ownerID, productID uuid.UUID) error {
	const op = "Catalog.RemoveProduct"
	affected, err := cs.productRepo.Delete(ctx, nil, ownerID, productID)
	if err != nil {
		return pos.Wrap(pos.CodeInternal, op, err)
	}
	if affected == 0 {
		return pos.NewError(pos.CodeNotFound, op, fmt.Sprintf("unknown product: %s", productID), nil)
	}
	cs.log.Info("Product removed", "owner_id", ownerID.String(), "product_id", productID.String())
	return nil
}

func (cs *catalogService) GetProduct(ctx context.Context, ownerID, productID uuid.UUID) (*types.Product, error) {
	const op = "Catalog.GetProduct"
	product, err := cs.productRepo.GetByID(ctx, nil, ownerID, productID)
	if err != nil {
		return nil, pos.Wrap(pos.CodeInternal, op, err)
	}
	if product == nil {
		return nil, pos.NewError(pos.CodeNotFound, op, fmt.Sprintf("unknown product: %s", productID), nil)
	}
	return product, nil
}

func (cs *catalogService) ListProducts(ctx context.Context, ownerID uuid.UUID, sortByName bool) ([]*types.Product, error) {
	const op = "Catalog.ListProducts"
	products, err := cs.productRepo.ListByOwner(ctx, nil, ownerID, sortByName)
	if err != nil {
		return nil, pos.Wrap(pos.CodeInternal, op, err)
	}
	return products, nil
}

func (cs *catalogService) ListLowStock(ctx context.Context, ownerID uuid.UUID, threshold int) ([]*types.Product, error) {
	const op = "Catalog.ListLowStock"
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	products, err := cs.productRepo.ListLowStock(ctx, nil, ownerID, threshold)
	if err != nil {
		return nil, pos.Wrap(pos.CodeInternal, op, err)
	}
	return products, nil
}

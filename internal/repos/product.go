package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopscribe/shopscribe-backend/internal/pkg/logger"
	"github.com/shopscribe/shopscribe-backend/internal/types"
)

type ProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error)
	GetByID(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID) (*types.Product, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, productIDs []uuid.UUID) ([]*types.Product, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, sortByName bool) ([]*types.Product, error)
	ListLowStock(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, threshold int) ([]*types.Product, error)
	Update(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID, updates map[string]any) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID) (int64, error)
	DecrementStock(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID, by int) (int64, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	repoLog := baseLog.With("repo", "ProductRepo")
	return &productRepo{db: db, log: repoLog}
}

func (pr *productRepo) Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(products) == 0 {
		return []*types.Product{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (pr *productRepo) GetByID(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID) (*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Product
	err := transaction.WithContext(ctx).
		Where("id = ? AND owner_id = ?", productID, ownerID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *productRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, productIDs []uuid.UUID) ([]*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Product
	if len(productIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("owner_id = ? AND id IN ?", ownerID, productIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *productRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, sortByName bool) ([]*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	query := transaction.WithContext(ctx).Where("owner_id = ?", ownerID)
	if sortByName {
		query = query.Order("name ASC")
	}

	var results []*types.Product
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *productRepo) ListLowStock(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, threshold int) ([]*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Product
	if err := transaction.WithContext(ctx).
		Where("owner_id = ? AND quantity IS NOT NULL AND quantity <= ?", ownerID, threshold).
		Order("quantity ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *productRepo) Update(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID, updates map[string]any) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(updates) == 0 {
		return 0, nil
	}
	updates["updated_at"] = time.Now().UTC()

	res := transaction.WithContext(ctx).
		Model(&types.Product{}).
		Where("id = ? AND owner_id = ?", productID, ownerID).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (pr *productRepo) Delete(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	res := transaction.WithContext(ctx).
		Unscoped().
		Where("id = ? AND owner_id = ?", productID, ownerID).
		Delete(&types.Product{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// DecrementStock applies the guarded decrement. The quantity check and the
// write are one statement, so no reader ever observes a negative count and a
// concurrent sale of the last unit makes exactly one caller win.
// RowsAffected == 0 means the product is missing, untracked, or short.
func (pr *productRepo) DecrementStock(ctx context.Context, tx *gorm.DB, ownerID, productID uuid.UUID, by int) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Product{}).
		Where("id = ? AND owner_id = ? AND quantity IS NOT NULL AND quantity >= ?", productID, ownerID, by).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", by),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

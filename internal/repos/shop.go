package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopscribe/shopscribe-backend/internal/pkg/logger"
	"github.com/shopscribe/shopscribe-backend/internal/types"
)

type ShopRepo interface {
	GetByOwnerID(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (*types.Shop, error)
	Upsert(ctx context.Context, tx *gorm.DB, shop *types.Shop) (*types.Shop, error)
}

type shopRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShopRepo(db *gorm.DB, baseLog *logger.Logger) ShopRepo {
	repoLog := baseLog.With("repo", "ShopRepo")
	return &shopRepo{db: db, log: repoLog}
}

func (sr *shopRepo) GetByOwnerID(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (*types.Shop, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.Shop
	err := transaction.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *shopRepo) Upsert(ctx context.Context, tx *gorm.DB, shop *types.Shop) (*types.Shop, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	existing, err := sr.GetByOwnerID(ctx, transaction, shop.OwnerID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if shop.ID == uuid.Nil {
			shop.ID = uuid.New()
		}
		if err := transaction.WithContext(ctx).Create(shop).Error; err != nil {
			return nil, err
		}
		return shop, nil
	}

	updates := map[string]any{
		"name":    shop.Name,
		"phone":   shop.Phone,
		"address": shop.Address,
	}
	if shop.LogoKey != "" {
		updates["logo_key"] = shop.LogoKey
		updates["logo_url"] = shop.LogoURL
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Shop{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return sr.GetByOwnerID(ctx, transaction, shop.OwnerID)
}

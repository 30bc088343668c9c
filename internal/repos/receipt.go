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

// ReceiptRepo is append-only apart from wholesale deletes: receipts are never
// updated after creation.
type ReceiptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, receipt *types.Receipt) (*types.Receipt, error)
	GetByID(ctx context.Context, tx *gorm.DB, ownerID, receiptID uuid.UUID) (*types.Receipt, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Receipt, error)
	ListByOwnerSince(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, since time.Time) ([]*types.Receipt, error)
	ListRecent(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, limit int) ([]*types.Receipt, error)
	Delete(ctx context.Context, tx *gorm.DB, ownerID, receiptID uuid.UUID) (int64, error)
}

type receiptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReceiptRepo(db *gorm.DB, baseLog *logger.Logger) ReceiptRepo {
	repoLog := baseLog.With("repo", "ReceiptRepo")
	return &receiptRepo{db: db, log: repoLog}
}

func (rr *receiptRepo) Create(ctx context.Context, tx *gorm.DB, receipt *types.Receipt) (*types.Receipt, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if receipt == nil {
		return nil, nil
	}
	if err := transaction.WithContext(ctx).Create(receipt).Error; err != nil {
		return nil, err
	}
	return receipt, nil
}

func (rr *receiptRepo) GetByID(ctx context.Context, tx *gorm.DB, ownerID, receiptID uuid.UUID) (*types.Receipt, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.Receipt
	err := transaction.WithContext(ctx).
		Where("id = ? AND owner_id = ?", receiptID, ownerID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *receiptRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Receipt, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Receipt
	if err := transaction.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *receiptRepo) ListByOwnerSince(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, since time.Time) ([]*types.Receipt, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Receipt
	if err := transaction.WithContext(ctx).
		Where("owner_id = ? AND created_at >= ?", ownerID, since).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *receiptRepo) ListRecent(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, limit int) ([]*types.Receipt, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if limit <= 0 {
		limit = 10
	}

	var results []*types.Receipt
	if err := transaction.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *receiptRepo) Delete(ctx context.Context, tx *gorm.DB, ownerID, receiptID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	res := transaction.WithContext(ctx).
		Unscoped().
		Where("id = ? AND owner_id = ?", receiptID, ownerID).
		Delete(&types.Receipt{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

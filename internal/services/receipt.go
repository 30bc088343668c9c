package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopscribe/shopscribe-backend/internal/domain/pos"
	"github.com/shopscribe/shopscribe-backend/internal/pkg/logger"
	"github.com/shopscribe/shopscribe-backend/internal/repos"
	"github.com/shopscribe/shopscribe-backend/internal/types"
)

// ReceiptService reads the sales ledger. Receipts are created exclusively by
// checkout and never edited afterwards.
type ReceiptService interface {
	ListReceipts(ctx context.Context, ownerID uuid.UUID) ([]*types.Receipt, error)
	GetReceipt(ctx context.Context, ownerID, receiptID uuid.UUID) (*types.Receipt, error)
	DeleteReceipt(ctx context.Context, ownerID, receiptID uuid.UUID) error
}

type receiptService struct {
	log         *logger.Logger
	receiptRepo repos.ReceiptRepo
}

func NewReceiptService(log *logger.Logger, receiptRepo repos.ReceiptRepo) ReceiptService {
	serviceLog := log.With("service", "ReceiptService")
	return &receiptService{
		log:         serviceLog,
		receiptRepo: receiptRepo,
	}
}

func (rs *receiptService) ListReceipts(ctx context.Context, ownerID uuid.UUID) ([]*types.Receipt, error) {
	if ownerID == uuid.Nil {
		return nil, pos.NewError(pos.CodeValidation, "receipt.list", "owner id is required", nil)
	}
	receipts, err := rs.receiptRepo.ListByOwner(ctx, nil, ownerID)
	if err != nil {
		return nil, pos.NewError(pos.CodeInternal, "receipt.list", "failed to list receipts", err)
	}
	return receipts, nil
}

func (rs *receiptService) GetReceipt(ctx context.Context, ownerID, receiptID uuid.UUID) (*types.Receipt, error) {
	if ownerID == uuid.Nil || receiptID == uuid.Nil {
		return nil, pos.NewError(pos.CodeValidation, "receipt.get", "owner id and receipt id are required", nil)
	}
	receipt, err := rs.receiptRepo.GetByID(ctx, nil, ownerID, receiptID)
	if err != nil {
		return nil, pos.NewError(pos.CodeInternal, "receipt.get", "failed to load receipt", err)
	}
	if receipt == nil {
		return nil, pos.NewError(pos.CodeNotFound, "receipt.get", "receipt not found", nil)
	}
	return receipt, nil
}

func (rs *receiptService) DeleteReceipt(ctx context.Context, ownerID, receiptID uuid.UUID) error {
	if ownerID == uuid.Nil || receiptID == uuid.Nil {
		return pos.NewError(pos.CodeValidation, "receipt.delete", "owner id and receipt id are required", nil)
	}
	affected, err := rs.receiptRepo.Delete(ctx, nil, ownerID, receiptID)
	if err != nil {
		return pos.NewError(pos.CodeInternal, "receipt.delete", "failed to delete receipt", err)
	}
	if affected == 0 {
		return pos.NewError(pos.CodeNotFound, "receipt.delete", "receipt not found", nil)
	}
	rs.log.Info("Receipt deleted", "owner_id", ownerID.String(), "receipt_id", receiptID.String())
	return nil
}

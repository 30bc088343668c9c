package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shopscribe/shopscribe-backend/internal/domain/pos"
)

func TestReceiptService_OwnerScoping(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	now := time.Now()

	mine := receiptAt(owner, "39.98", now)
	theirs := receiptAt(stranger, "10.00", now)
	receiptRepo := &memReceiptRepo{}
	receiptRepo.Create(context.Background(), nil, mine)
	receiptRepo.Create(context.Background(), nil, theirs)

	svc := NewReceiptService(testLogger(t), receiptRepo)
	ctx := context.Background()

	t.Run("list is owner scoped", func(t *testing.T) {
		receipts, err := svc.ListReceipts(ctx, owner)
		if err != nil {
			t.Fatalf("ListReceipts: %v", err)
		}
		if len(receipts) != 1 || receipts[0].ID != mine.ID {
			t.Fatalf("expected only own receipts, got %+v", receipts)
		}
	})

	t.Run("get rejects foreign receipt", func(t *testing.T) {
		if _, err := svc.GetReceipt(ctx, owner, theirs.ID); !pos.IsCode(err, pos.CodeNotFound) {
			t.Fatalf("expected not_found for foreign receipt, got %v", err)
		}
		got, err := svc.GetReceipt(ctx, owner, mine.ID)
		if err != nil {
			t.Fatalf("GetReceipt: %v", err)
		}
		if got.ID != mine.ID {
			t.Fatalf("unexpected receipt %v", got.ID)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := svc.DeleteReceipt(ctx, owner, theirs.ID); !pos.IsCode(err, pos.CodeNotFound) {
			t.Fatalf("expected not_found deleting foreign receipt, got %v", err)
		}
		if err := svc.DeleteReceipt(ctx, owner, mine.ID); err != nil {
			t.Fatalf("DeleteReceipt: %v", err)
		}
		if _, err := svc.GetReceipt(ctx, owner, mine.ID); !pos.IsCode(err, pos.CodeNotFound) {
			t.Fatalf("expected not_found after delete, got %v", err)
		}
	})
}

func TestReceiptService_Validation(t *testing.T) {
	svc := NewReceiptService(testLogger(t), &memReceiptRepo{})
	ctx := context.Background()

	if _, err := svc.ListReceipts(ctx, uuid.Nil); !pos.IsCode(err, pos.CodeValidation) {
		t.Fatalf("expected validation, got %v", err)
	}
	if _, err := svc.GetReceipt(ctx, uuid.New(), uuid.Nil); !pos.IsCode(err, pos.CodeValidation) {
		t.Fatalf("expected validation, got %v", err)
	}
}

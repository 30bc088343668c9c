package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shopscribe/shopscribe-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		Name:     "Owner",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, name string, price string, quantity *int) *types.Product {
	tb.Helper()
	p, err := decimal.NewFromString(price)
	if err != nil {
		tb.Fatalf("seed product price: %v", err)
	}
	prod := &types.Product{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Name:     name,
		Price:    p,
		Quantity: quantity,
	}
	if err := tx.WithContext(ctx).Create(prod).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return prod
}

func SeedReceipt(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, total string) *types.Receipt {
	tb.Helper()
	t, err := decimal.NewFromString(total)
	if err != nil {
		tb.Fatalf("seed receipt total: %v", err)
	}
	r := &types.Receipt{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Items:   datatypes.JSON([]byte("[]")),
		Total:   t,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed receipt: %v", err)
	}
	return r
}

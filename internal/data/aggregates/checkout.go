package aggregates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopscribe/shopscribe-backend/internal/domain/pos"
	"github.com/shopscribe/shopscribe-backend/internal/pkg/dbctx"
	"github.com/shopscribe/shopscribe-backend/internal/repos"
	"github.com/shopscribe/shopscribe-backend/internal/types"
)

type CheckoutAggregateDeps struct {
	Base BaseDeps

	Products repos.ProductRepo
	Receipts repos.ReceiptRepo
}

type checkoutAggregate struct {
	deps CheckoutAggregateDeps
}

func NewCheckoutAggregate(deps CheckoutAggregateDeps) pos.CheckoutAggregate {
	deps.Base = deps.Base.withDefaults()
	return &checkoutAggregate{deps: deps}
}

func (a *checkoutAggregate) Contract() pos.Contract {
	return pos.CheckoutAggregateContract
}

// Checkout drains a cart into a receipt. The empty-cart check happens before
// any side effect; stock levels for every line are validated before the first
// decrement; decrements and the receipt insert share one transaction, so a
// failure anywhere rolls the whole sale back.
func (a *checkoutAggregate) Checkout(ctx context.Context, in pos.CheckoutInput) (pos.CheckoutResult, error) {
	const op = "POS.Checkout"
	var out pos.CheckoutResult

	if in.OwnerID == uuid.Nil {
		return out, pos.NewError(pos.CodeValidation, op, "missing owner_id", nil)
	}
	if len(in.Items) == 0 {
		return out, pos.NewError(pos.CodeEmptyCart, op, "cannot checkout with an empty cart", nil)
	}
	for _, item := range in.Items {
		if item.Product.ProductID == uuid.Nil {
			return out, pos.NewError(pos.CodeValidation, op, "cart line missing product id", nil)
		}
		if item.Quantity < 1 {
			return out, pos.NewError(pos.CodeValidation, op,
				fmt.Sprintf("cart line for %q has non-positive quantity %d", item.Product.Name, item.Quantity), nil)
		}
	}
	if a.deps.Products == nil || a.deps.Receipts == nil {
		return out, pos.NewError(pos.CodeInternal, op, "checkout aggregate repos not configured", nil)
	}

	at := in.At.UTC()
	if at.IsZero() {
		at = time.Now().UTC()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		ids := make([]uuid.UUID, 0, len(in.Items))
		for _, item := range in.Items {
			ids = append(ids, item.Product.ProductID)
		}

		rows, err := a.deps.Products.GetByIDs(dbc.Ctx, dbc.Tx, in.OwnerID, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*types.Product, len(rows))
		for _, p := range rows {
			byID[p.ID] = p
		}

		// Pre-validate every line before touching any stock count.
		for _, item := range in.Items {
			product, ok := byID[item.Product.ProductID]
			if !ok {
				return pos.NewError(pos.CodeNotFound, op,
					fmt.Sprintf("product no longer in catalog: %s", item.Product.ProductID), nil)
			}
			if product.StockTracked() && *product.Quantity < item.Quantity {
				return pos.NewError(pos.CodeInsufficientStock, op,
					fmt.Sprintf("insufficient stock for %q: have %d, want %d", product.Name, *product.Quantity, item.Quantity), nil)
			}
		}

		receiptItems := make([]types.ReceiptItem, 0, len(in.Items))
		total := decimal.Zero
		for _, item := range in.Items {
			product := byID[item.Product.ProductID]

			if product.StockTracked() {
				affected, err := a.deps.Products.DecrementStock(dbc.Ctx, dbc.Tx, in.OwnerID, product.ID, item.Quantity)
				if err != nil {
					return err
				}
				// Guarded decrement lost a race after pre-validation;
				// the surrounding transaction undoes earlier lines.
				if affected == 0 {
					return pos.NewError(pos.CodeInsufficientStock, op,
						fmt.Sprintf("insufficient stock for %q", product.Name), nil)
				}
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			receiptItems = append(receiptItems, types.ReceiptItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  item.Quantity,
				LineTotal: lineTotal,
			})
			total = total.Add(lineTotal)
		}

		receipt := &types.Receipt{
			ID:            uuid.New(),
			OwnerID:       in.OwnerID,
			Total:         total,
			CustomerName:  strings.TrimSpace(in.CustomerName),
			CustomerPhone: strings.TrimSpace(in.CustomerPhone),
			CreatedAt:     at,
			UpdatedAt:     at,
		}
		if err := receipt.EncodeItems(receiptItems); err != nil {
			return err
		}
		if _, err := a.deps.Receipts.Create(dbc.Ctx, dbc.Tx, receipt); err != nil {
			return err
		}

		out.Receipt = receipt
		return nil
	})
	if err != nil {
		return pos.CheckoutResult{}, err
	}
	return out, nil
}

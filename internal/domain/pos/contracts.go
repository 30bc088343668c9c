package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopscribe/shopscribe-backend/internal/types"
)

// WriteTxOwnership defines who owns write transaction boundaries.
type WriteTxOwnership string

const (
	// WriteTxOwnedByAggregate means aggregate write methods start/manage atomic DB transactions internally.
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
)

// ReadPolicy defines how aggregate contracts should expose reads.
type ReadPolicy string

const (
	// ReadPolicyInvariantScoped allows only reads needed for invariant decisions in write flows.
	ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"
)

// Contract describes aggregate-level policy expectations.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	Notes            string
}

// CheckoutInput carries everything the checkout aggregate needs to turn a
// non-empty cart into a receipt.
type CheckoutInput struct {
	OwnerID       uuid.UUID
	Items         []CartItem
	CustomerName  string
	CustomerPhone string
	// At overrides the receipt timestamp; zero means time.Now().UTC().
	At time.Time
}

// CheckoutResult returns the persisted, immutable receipt.
type CheckoutResult struct {
	Receipt *types.Receipt
}

// CheckoutAggregate converts a cart into a receipt while decrementing tracked
// stock. All stock levels are validated before any decrement, and the
// decrements plus the receipt insert share one transaction: a failed checkout
// leaves catalog and receipt store untouched.
type CheckoutAggregate interface {
	Contract() Contract
	Checkout(ctx context.Context, in CheckoutInput) (CheckoutResult, error)
}

// CheckoutAggregateContract is the policy for the checkout write boundary.
var CheckoutAggregateContract = Contract{
	Name:             "POS.Checkout",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "stock pre-validation and receipt insert are atomic",
}

// RequiresAggregateOwnedTx returns true when write transaction ownership is aggregate-owned.
func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}

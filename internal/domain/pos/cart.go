package pos

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemSnapshot is the slice of a product a cart line holds on to. Price and
// name are frozen into the receipt at checkout; while the cart is active they
// mirror the catalog record they were added from.
type ItemSnapshot struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// CartItem pairs a product snapshot with a positive quantity.
// Quantity is always >= 1; a non-positive update removes the line instead.
type CartItem struct {
	Product  ItemSnapshot `json:"product"`
	Quantity int          `json:"quantity"`
}

// LineTotal returns price * quantity for this line.
func (ci CartItem) LineTotal() decimal.Decimal {
	return ci.Product.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// Cart is the ephemeral, per-operator collection of items pending purchase.
// Items keep insertion order and hold at most one line per product id.
type Cart struct {
	Items []CartItem `json:"items"`
}

// AddItem merges qty into an existing line for the same product id, or appends
// a new line. qty must be positive; the default-quantity path at the API edge
// passes 1.
func (c *Cart) AddItem(product ItemSnapshot, qty int) error {
	const op = "Cart.AddItem"
	if product.ProductID == uuid.Nil {
		return NewError(CodeValidation, op, "missing product id", nil)
	}
	if qty <= 0 {
		return NewError(CodeValidation, op, fmt.Sprintf("quantity must be positive, got %d", qty), nil)
	}
	for i := range c.Items {
		if c.Items[i].Product.ProductID == product.ProductID {
			c.Items[i].Quantity += qty
			c.Items[i].Product = product
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{Product: product, Quantity: qty})
	return nil
}

// SetQuantity overwrites the stored quantity for a line. A non-positive qty
// deliberately aliases to RemoveItem; that is documented behavior, not an error.
func (c *Cart) SetQuantity(productID uuid.UUID, qty int) error {
	const op = "Cart.SetQuantity"
	if qty <= 0 {
		c.RemoveItem(productID)
		return nil
	}
	for i := range c.Items {
		if c.Items[i].Product.ProductID == productID {
			c.Items[i].Quantity = qty
			return nil
		}
	}
	return NewError(CodeNotFound, op, fmt.Sprintf("product not in cart: %s", productID), nil)
}

// RemoveItem deletes the line for productID if present; absent ids are a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for i := range c.Items {
		if c.Items[i].Product.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total recomputes the sum of price*quantity over current lines on demand.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

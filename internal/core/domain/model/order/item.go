package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Item is a value object describing one line of an order: a product
// reference, a quantity, and the unit price captured at ordering time.
// Prices are integer cents; the subtotal is computed once and never revised.
type Item struct {
	productID      string
	name           string
	quantity       int
	unitPriceCents int64
}

// NewItem validates and builds an order line.
func NewItem(productID, name string, quantity int, unitPriceCents int64) (Item, error) {
	if productID == "" {
		return Item{}, errs.NewValueIsRequiredError("productId")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if unitPriceCents < 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("unitPrice", fmt.Errorf("%d is negative", unitPriceCents))
	}

	return Item{
		productID:      productID,
		name:           name,
		quantity:       quantity,
		unitPriceCents: unitPriceCents,
	}, nil
}

// ProductID returns the referenced product.
func (i Item) ProductID() string {
	return i.productID
}

// Name returns the display name captured at ordering time.
func (i Item) Name() string {
	return i.name
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPriceCents returns the unit price in cents.
func (i Item) UnitPriceCents() int64 {
	return i.unitPriceCents
}

// SubtotalCents returns quantity times unit price.
func (i Item) SubtotalCents() int64 {
	return int64(i.quantity) * i.unitPriceCents
}

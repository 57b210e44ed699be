package cart

import (
	"context"
	"errors"
)

var ErrNoSession = errors.New("cart session id is empty")

// Store keeps one cart per client session: product id -> quantity.
// Quantities stored are always positive.
type Store interface {
	Get(ctx context.Context, sid string) (map[uint]int, error)
	// Add increments the quantity and returns the new value.
	Add(ctx context.Context, sid string, productID uint, qty int) (int, error)
	// Set replaces the quantity; qty <= 0 removes the line.
	Set(ctx context.Context, sid string, productID uint, qty int) error
	Remove(ctx context.Context, sid string, productID uint) error
	Clear(ctx context.Context, sid string) error
}

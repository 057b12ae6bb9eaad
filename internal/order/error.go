package order

import "errors"

var (
	// -- Resource State --
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCart     = errors.New("cart is empty")
)

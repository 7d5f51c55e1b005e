package portfolio

import "errors"

// Validation errors. They are returned before any state is touched.
var (
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrInsufficientCash   = errors.New("insufficient cash")
	ErrInvalidQuantity    = errors.New("shares must be positive")
	ErrInvalidPrice       = errors.New("price must not be negative")
	ErrMissingSymbol      = errors.New("symbol is required")
)

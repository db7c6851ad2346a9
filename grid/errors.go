package grid

import "errors"

var (
	// ErrInvalidConfig rejects a grid construction with a non-positive grid
	// count, non-positive prices/quantities or inverted bounds.
	ErrInvalidConfig = errors.New("invalid grid configuration")

	// ErrInvalidParameter rejects a setter value (leverage outside [1,125],
	// negative maintenance margin rate).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidStrategy rejects an unrecognized strategy tag.
	ErrInvalidStrategy = errors.New("invalid strategy")

	// ErrZeroQuantity means a liquidation estimate had nothing to divide by:
	// no grid level at or above the reference price, or 1x leverage leaving a
	// zero margin multiplier. Returned instead of a NaN/Inf price.
	ErrZeroQuantity = errors.New("no position quantity for liquidation estimate")
)

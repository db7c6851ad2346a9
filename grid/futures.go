package grid

import (
	"fmt"

	"github.com/shopspring/decimal"

	"gridcalc/config"
	"gridcalc/exchange"
)

// Leverage bounds accepted by SetLeverage, matching Binance USD-M futures.
const (
	MinLeverage = 1
	MaxLeverage = 125
)

// FuturesConfig extends a grid configuration with leverage, a directional
// strategy and a maintenance margin rate, and derives position sizing and
// liquidation estimates from the shared levels.
//
// The embedded grid stays immutable; the two setters are the only mutable
// state and assume a single owner. Callers sharing one instance across
// goroutines must synchronize SetLeverage and SetMaintenanceMarginRate
// themselves.
type FuturesConfig struct {
	*Config

	strategy              Strategy
	leverage              int
	maintenanceMarginRate decimal.Decimal
}

// NewFutures builds the underlying grid and wraps it with futures
// parameters. Leverage and maintenance margin rate start from the global
// config defaults.
func NewFutures(p Params, strategy Strategy, meta exchange.MetadataProvider) (*FuturesConfig, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStrategy, strategy)
	}
	base, err := New(p, meta)
	if err != nil {
		return nil, err
	}
	defaults := config.Get()
	return &FuturesConfig{
		Config:                base,
		strategy:              strategy,
		leverage:              defaults.DefaultLeverage,
		maintenanceMarginRate: defaults.MaintenanceMarginRate,
	}, nil
}

// Strategy returns the directional strategy chosen at construction.
func (f *FuturesConfig) Strategy() Strategy { return f.strategy }

// Leverage returns the current leverage.
func (f *FuturesConfig) Leverage() int { return f.leverage }

// MaintenanceMarginRate returns the current maintenance margin rate.
func (f *FuturesConfig) MaintenanceMarginRate() decimal.Decimal {
	return f.maintenanceMarginRate
}

// SetLeverage updates the leverage, rejecting values outside [1, 125].
func (f *FuturesConfig) SetLeverage(leverage int) error {
	if leverage < MinLeverage || leverage > MaxLeverage {
		return fmt.Errorf("%w: leverage must be between %d and %d, got %d",
			ErrInvalidParameter, MinLeverage, MaxLeverage, leverage)
	}
	f.leverage = leverage
	return nil
}

// SetMaintenanceMarginRate updates the maintenance margin rate, rejecting
// negative values.
func (f *FuturesConfig) SetMaintenanceMarginRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("%w: maintenance margin rate must be non-negative, got %s",
			ErrInvalidParameter, rate)
	}
	f.maintenanceMarginRate = rate
	return nil
}

// InitialPositionSize returns the initial position size at the entry price.
func (f *FuturesConfig) InitialPositionSize() (decimal.Decimal, error) {
	return f.InitialPositionSizeAt(f.entryPrice)
}

// InitialPositionSizeAt returns the position the grid opens at start:
// long grids cover the sell levels above price minus the top boundary,
// short grids cover the buy levels below price minus the bottom boundary,
// neutral grids start flat.
//
// A price outside the grid range yields a negative size; treating such
// prices as a usage error is left to the caller.
func (f *FuturesConfig) InitialPositionSizeAt(price decimal.Decimal) (decimal.Decimal, error) {
	switch f.strategy {
	case StrategyLong:
		_, sellCount := f.OrderCount(price, false)
		return f.qtyPerOrder.Mul(decimal.NewFromInt(int64(sellCount - 1))), nil
	case StrategyShort:
		buyCount, _ := f.OrderCount(price, false)
		return f.qtyPerOrder.Mul(decimal.NewFromInt(int64(buyCount - 1))), nil
	case StrategyNeutral:
		return decimal.Zero, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidStrategy, f.strategy)
	}
}

// InitialMarginRequired returns the margin needed at the entry price.
func (f *FuturesConfig) InitialMarginRequired() (decimal.Decimal, error) {
	return f.InitialMarginRequiredAt(f.entryPrice)
}

// InitialMarginRequiredAt returns initialPositionSize * price / leverage.
func (f *FuturesConfig) InitialMarginRequiredAt(price decimal.Decimal) (decimal.Decimal, error) {
	size, err := f.InitialPositionSizeAt(price)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return size.Mul(price).Div(decimal.NewFromInt(int64(f.leverage))), nil
}

// LiquidationPrice estimates the cross-margin liquidation price once every
// grid level at or above price has filled.
//
// The accrual assumes a short-biased unrealized loss from the levels above
// price regardless of the declared strategy; this is a deliberately
// conservative simplification carried over from the reference model, not a
// per-strategy PnL projection.
func (f *FuturesConfig) LiquidationPrice(investedAmount, price decimal.Decimal) (decimal.Decimal, error) {
	var totalNotional, totalQty, unrealizedPnl decimal.Decimal

	// The synthetic top boundary level is excluded.
	for _, level := range f.levels[:f.gridCount] {
		if level.GreaterThanOrEqual(price) {
			totalNotional = totalNotional.Add(f.qtyPerOrder.Mul(level))
			totalQty = totalQty.Add(f.qtyPerOrder)
			unrealizedPnl = unrealizedPnl.Sub(f.qtyPerOrder.Mul(level.Sub(price)))
		}
	}

	if totalQty.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("%w: no grid level at or above %s", ErrZeroQuantity, price)
	}

	one := decimal.NewFromInt(1)
	multiplier := one.Sub(one.Div(decimal.NewFromInt(int64(f.leverage))))
	if multiplier.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("%w: 1x leverage leaves a zero margin multiplier", ErrZeroQuantity)
	}

	maintenanceMargin := totalNotional.Mul(f.maintenanceMarginRate)
	crossMargin := investedAmount.Add(unrealizedPnl)

	return f.entryPrice.Sub(crossMargin.Sub(maintenanceMargin).Div(totalQty.Mul(multiplier))), nil
}

// BestDeleveragePrice walks down from the highest non-boundary level in tick
// steps and returns the first price whose liquidation estimate has caught up
// with it, i.e. the last point at which deleveraging still helps.
//
// Since cross margin absorbs unrealized PnL, the liquidation price depends
// on the price the position is evaluated at, so the search has to test each
// candidate price individually from the top down.
//
// If every price down to the lower bound still has its liquidation estimate
// below it, the walk runs past the range and the final, below-range price is
// returned as-is; callers see that as "no deleverage point inside the grid".
func (f *FuturesConfig) BestDeleveragePrice(investedAmount decimal.Decimal) (decimal.Decimal, error) {
	price := f.levels[len(f.levels)-2]

	for price.GreaterThanOrEqual(f.lowerPrice) {
		liquidation, err := f.LiquidationPrice(investedAmount, price)
		if err != nil {
			return decimal.Decimal{}, err
		}
		if liquidation.LessThan(price) {
			price = price.Sub(f.tickSize)
			continue
		}
		break
	}

	return price, nil
}

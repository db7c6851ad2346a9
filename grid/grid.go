// Package grid computes grid-trading parameters: it partitions a price range
// into evenly spaced, tick-snapped levels and, for leveraged futures grids,
// estimates position size, margin and liquidation prices. It is a pure
// calculation layer; order placement and persistence belong to the caller.
package grid

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gridcalc/exchange"
)

// Params are the construction inputs of a grid.
type Params struct {
	BaseAsset  string
	QuoteAsset string

	// GridCount is the number of intervals; the grid has GridCount+1 levels.
	GridCount int

	EntryPrice  decimal.Decimal
	LowerPrice  decimal.Decimal
	UpperPrice  decimal.Decimal
	QtyPerOrder decimal.Decimal
}

// Config is an immutable grid configuration. Levels are computed once at
// construction and never change, so all query methods are safe for
// concurrent readers.
type Config struct {
	id          string
	baseAsset   string
	quoteAsset  string
	gridCount   int
	entryPrice  decimal.Decimal
	lowerPrice  decimal.Decimal
	upperPrice  decimal.Decimal
	qtyPerOrder decimal.Decimal
	tickSize    decimal.Decimal
	interval    decimal.Decimal
	levels      []decimal.Decimal
}

// New validates params, resolves the instrument tick size through meta and
// generates the grid levels.
//
// The first GridCount levels are lowerPrice + i*interval, each floor-snapped
// to a multiple of the tick size; the final level is the exact, unsnapped
// upper price.
func New(p Params, meta exchange.MetadataProvider) (*Config, error) {
	if p.GridCount < 1 {
		return nil, fmt.Errorf("%w: grid count must be at least 1, got %d", ErrInvalidConfig, p.GridCount)
	}
	for _, check := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"entry price", p.EntryPrice},
		{"lower price", p.LowerPrice},
		{"upper price", p.UpperPrice},
		{"qty per order", p.QtyPerOrder},
	} {
		if check.value.Sign() <= 0 {
			return nil, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidConfig, check.name, check.value)
		}
	}
	if !p.LowerPrice.LessThan(p.UpperPrice) {
		return nil, fmt.Errorf("%w: lower price %s must be below upper price %s",
			ErrInvalidConfig, p.LowerPrice, p.UpperPrice)
	}

	tick, err := meta.TickSize(p.BaseAsset, p.QuoteAsset)
	if err != nil {
		return nil, err
	}
	if tick.Sign() <= 0 {
		return nil, fmt.Errorf("%w: non-positive tick size %s for %s",
			exchange.ErrCollaborator, tick, exchange.Symbol(p.BaseAsset, p.QuoteAsset))
	}

	interval := p.UpperPrice.Sub(p.LowerPrice).Div(decimal.NewFromInt(int64(p.GridCount)))

	levels := make([]decimal.Decimal, 0, p.GridCount+1)
	for i := 0; i < p.GridCount; i++ {
		price := p.LowerPrice.Add(interval.Mul(decimal.NewFromInt(int64(i))))
		levels = append(levels, price.Div(tick).Floor().Mul(tick))
	}
	levels = append(levels, p.UpperPrice)

	return &Config{
		id:          uuid.New().String(),
		baseAsset:   p.BaseAsset,
		quoteAsset:  p.QuoteAsset,
		gridCount:   p.GridCount,
		entryPrice:  p.EntryPrice,
		lowerPrice:  p.LowerPrice,
		upperPrice:  p.UpperPrice,
		qtyPerOrder: p.QtyPerOrder,
		tickSize:    tick,
		interval:    interval,
		levels:      levels,
	}, nil
}

// Levels returns a copy of the grid levels, ascending, GridCount+1 entries.
func (c *Config) Levels() []decimal.Decimal {
	return append([]decimal.Decimal(nil), c.levels...)
}

// OrderCount reports how many grid levels lie strictly below and strictly
// above price; a level equal to price is counted in neither. With align set,
// price is first replaced by its closest grid level.
//
// This models the buy-side orders below and sell-side orders above the
// current price.
func (c *Config) OrderCount(price decimal.Decimal, align bool) (buyCount, sellCount int) {
	if align {
		price = c.ClosestLevel(price)
	}
	for _, level := range c.levels {
		switch {
		case level.LessThan(price):
			buyCount++
		case level.GreaterThan(price):
			sellCount++
		}
	}
	return buyCount, sellCount
}

// ClosestLevel returns the grid level nearest to price. Ties go to the
// lowest level, which makes the result deterministic and idempotent.
func (c *Config) ClosestLevel(price decimal.Decimal) decimal.Decimal {
	best := c.levels[0]
	bestDist := best.Sub(price).Abs()
	for _, level := range c.levels[1:] {
		dist := level.Sub(price).Abs()
		if dist.LessThan(bestDist) {
			best = level
			bestDist = dist
		}
	}
	return best
}

// ID returns the opaque identifier assigned at construction, for log
// correlation by callers.
func (c *Config) ID() string { return c.id }

func (c *Config) BaseAsset() string { return c.baseAsset }

func (c *Config) QuoteAsset() string { return c.quoteAsset }

func (c *Config) GridCount() int { return c.gridCount }

func (c *Config) EntryPrice() decimal.Decimal { return c.entryPrice }

func (c *Config) LowerPrice() decimal.Decimal { return c.lowerPrice }

func (c *Config) UpperPrice() decimal.Decimal { return c.upperPrice }

func (c *Config) QtyPerOrder() decimal.Decimal { return c.qtyPerOrder }

// TickSize returns the minimum price increment resolved at construction.
func (c *Config) TickSize() decimal.Decimal { return c.tickSize }

// Interval returns the ideal (unsnapped) spacing between adjacent levels.
func (c *Config) Interval() decimal.Decimal { return c.interval }

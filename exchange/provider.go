// Package exchange resolves instrument metadata needed by the grid
// calculator. The only fact the calculator needs from an exchange is the
// minimum price increment (tick size) of a symbol.
package exchange

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrCollaborator wraps every failure of a metadata lookup. Callers see one
// opaque error kind at this boundary; nothing is retried here.
var ErrCollaborator = errors.New("exchange metadata lookup failed")

// MetadataProvider supplies the tick size for an instrument. Lookups are
// synchronous and expected to be cached by implementations.
type MetadataProvider interface {
	TickSize(baseAsset, quoteAsset string) (decimal.Decimal, error)
}

// Symbol builds the exchange symbol for an asset pair, e.g. ("eth", "usdt")
// -> "ETHUSDT".
func Symbol(baseAsset, quoteAsset string) string {
	return strings.ToUpper(baseAsset + quoteAsset)
}

// StaticProvider serves tick sizes from a fixed table. Useful for tests,
// backtests and offline runs where the live exchange is unavailable.
type StaticProvider struct {
	ticks map[string]decimal.Decimal
}

// NewStaticProvider creates a provider backed by the given symbol -> tick
// size table. Keys are exchange symbols as built by Symbol.
func NewStaticProvider(ticks map[string]decimal.Decimal) *StaticProvider {
	copied := make(map[string]decimal.Decimal, len(ticks))
	for sym, tick := range ticks {
		copied[strings.ToUpper(sym)] = tick
	}
	return &StaticProvider{ticks: copied}
}

// TickSize implements MetadataProvider.
func (p *StaticProvider) TickSize(baseAsset, quoteAsset string) (decimal.Decimal, error) {
	sym := Symbol(baseAsset, quoteAsset)
	tick, ok := p.ticks[sym]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: symbol %s not in static table", ErrCollaborator, sym)
	}
	return tick, nil
}

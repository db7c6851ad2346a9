package exchange

import (
	"context"
	"fmt"
	"sync"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"

	"gridcalc/config"
	"gridcalc/logger"
)

// BinanceProvider resolves tick sizes from the Binance USD-M futures
// exchangeInfo endpoint. Results are cached per symbol; the endpoint is
// public, so no API credentials are required.
type BinanceProvider struct {
	client *futures.Client

	mu    sync.RWMutex
	cache map[string]decimal.Decimal
}

// NewBinanceProvider creates a provider using the default futures client.
// BINANCE_FUTURES_BASE_URL from the global config overrides the endpoint.
func NewBinanceProvider() *BinanceProvider {
	client := futures.NewClient("", "")
	if base := config.Get().BinanceBaseURL; base != "" {
		client.BaseURL = base
	}
	return NewBinanceProviderWithClient(client)
}

// NewBinanceProviderWithClient creates a provider with a caller-supplied
// futures client.
func NewBinanceProviderWithClient(client *futures.Client) *BinanceProvider {
	return &BinanceProvider{
		client: client,
		cache:  make(map[string]decimal.Decimal),
	}
}

// TickSize implements MetadataProvider. The first lookup fetches the full
// exchange info and caches the tick size of every trading symbol in the
// response, so later lookups for other symbols are served from memory.
func (p *BinanceProvider) TickSize(baseAsset, quoteAsset string) (decimal.Decimal, error) {
	sym := Symbol(baseAsset, quoteAsset)

	p.mu.RLock()
	tick, ok := p.cache[sym]
	p.mu.RUnlock()
	if ok {
		return tick, nil
	}

	if err := p.refresh(); err != nil {
		return decimal.Decimal{}, err
	}

	p.mu.RLock()
	tick, ok = p.cache[sym]
	p.mu.RUnlock()
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: symbol %s not listed", ErrCollaborator, sym)
	}
	return tick, nil
}

// refresh fetches exchange info and rebuilds the tick size cache.
func (p *BinanceProvider) refresh() error {
	info, err := p.client.NewExchangeInfoService().Do(context.Background())
	if err != nil {
		return fmt.Errorf("%w: exchange info: %v", ErrCollaborator, err)
	}

	ticks := make(map[string]decimal.Decimal, len(info.Symbols))
	for i := range info.Symbols {
		s := &info.Symbols[i]
		filter := s.PriceFilter()
		if filter == nil {
			continue
		}
		tick, err := decimal.NewFromString(filter.TickSize)
		if err != nil || tick.Sign() <= 0 {
			logger.Warnf("[exchange] %s has unusable tick size %q, skipping", s.Symbol, filter.TickSize)
			continue
		}
		ticks[s.Symbol] = tick
	}
	if len(ticks) == 0 {
		return fmt.Errorf("%w: exchange info contained no usable symbols", ErrCollaborator)
	}

	p.mu.Lock()
	p.cache = ticks
	p.mu.Unlock()

	logger.Infof("[exchange] cached tick sizes for %d symbols", len(ticks))
	return nil
}

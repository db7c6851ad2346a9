package grid

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridcalc/exchange"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testMeta(tick string) exchange.MetadataProvider {
	return exchange.NewStaticProvider(map[string]decimal.Decimal{
		"ETHUSDT": d(tick),
	})
}

// testParams is the worked example from the reference model: four intervals
// over [100, 200] with a tick size of 1 give levels 100/125/150/175/200.
func testParams() Params {
	return Params{
		BaseAsset:   "ETH",
		QuoteAsset:  "USDT",
		GridCount:   4,
		EntryPrice:  d("150"),
		LowerPrice:  d("100"),
		UpperPrice:  d("200"),
		QtyPerOrder: d("1"),
	}
}

func TestNew_GeneratesLevels(t *testing.T) {
	cfg, err := New(testParams(), testMeta("1"))
	require.NoError(t, err)

	levels := cfg.Levels()
	require.Len(t, levels, 5)
	for i, want := range []string{"100", "125", "150", "175", "200"} {
		assert.True(t, levels[i].Equal(d(want)), "level %d: want %s, got %s", i, want, levels[i])
	}
	assert.True(t, cfg.Interval().Equal(d("25")))
	assert.True(t, cfg.TickSize().Equal(d("1")))
	assert.NotEmpty(t, cfg.ID())
}

func TestNew_SnapsLevelsToTick(t *testing.T) {
	p := testParams()
	p.GridCount = 3
	p.LowerPrice = d("100.3")
	p.UpperPrice = d("200.3")
	p.EntryPrice = d("150")

	cfg, err := New(p, testMeta("0.5"))
	require.NoError(t, err)

	levels := cfg.Levels()
	require.Len(t, levels, 4)

	// All but the boundary entry are floor-snapped multiples of the tick.
	tick := cfg.TickSize()
	for i := 0; i < p.GridCount; i++ {
		assert.True(t, levels[i].Mod(tick).IsZero(), "level %d = %s not on tick", i, levels[i])
		ideal := p.LowerPrice.Add(cfg.Interval().Mul(decimal.NewFromInt(int64(i))))
		assert.True(t, levels[i].LessThanOrEqual(ideal), "level %d = %s above ideal %s", i, levels[i], ideal)
	}

	assert.True(t, levels[0].Equal(d("100")))
	assert.True(t, levels[1].Equal(d("133.5")))
	assert.True(t, levels[2].Equal(d("166.5")))
	// The top boundary keeps the exact upper price, unsnapped.
	assert.True(t, levels[3].Equal(d("200.3")))
}

func TestNew_Ascending(t *testing.T) {
	cfg, err := New(testParams(), testMeta("0.01"))
	require.NoError(t, err)

	levels := cfg.Levels()
	for i := 1; i < len(levels); i++ {
		assert.True(t, levels[i-1].LessThan(levels[i]), "levels not ascending at %d", i)
	}
	assert.True(t, levels[len(levels)-1].Equal(testParams().UpperPrice))
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero grid count", func(p *Params) { p.GridCount = 0 }},
		{"negative grid count", func(p *Params) { p.GridCount = -3 }},
		{"zero qty", func(p *Params) { p.QtyPerOrder = decimal.Zero }},
		{"zero entry", func(p *Params) { p.EntryPrice = decimal.Zero }},
		{"negative lower", func(p *Params) { p.LowerPrice = d("-1") }},
		{"equal bounds", func(p *Params) { p.LowerPrice = d("200") }},
		{"inverted bounds", func(p *Params) { p.LowerPrice, p.UpperPrice = d("200"), d("100") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.mutate(&p)
			_, err := New(p, testMeta("1"))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNew_CollaboratorError(t *testing.T) {
	p := testParams()
	p.BaseAsset = "DOGE"
	_, err := New(p, testMeta("1"))
	assert.ErrorIs(t, err, exchange.ErrCollaborator)
}

func TestOrderCount(t *testing.T) {
	cfg, err := New(testParams(), testMeta("1"))
	require.NoError(t, err)

	tests := []struct {
		price string
		buy   int
		sell  int
	}{
		{"150", 2, 2}, // exact level counted in neither side
		{"160", 3, 2},
		{"100", 0, 4},
		{"99", 0, 5},
		{"201", 5, 0},
	}

	for _, tt := range tests {
		buy, sell := cfg.OrderCount(d(tt.price), false)
		assert.Equal(t, tt.buy, buy, "buy count at %s", tt.price)
		assert.Equal(t, tt.sell, sell, "sell count at %s", tt.price)
		assert.LessOrEqual(t, buy+sell, cfg.GridCount()+1)
	}
}

func TestOrderCount_Align(t *testing.T) {
	cfg, err := New(testParams(), testMeta("1"))
	require.NoError(t, err)

	// 160 aligns down to 150, 170 aligns up to 175.
	buy, sell := cfg.OrderCount(d("160"), true)
	assert.Equal(t, 2, buy)
	assert.Equal(t, 2, sell)

	buy, sell = cfg.OrderCount(d("170"), true)
	assert.Equal(t, 3, buy)
	assert.Equal(t, 1, sell)
}

func TestClosestLevel(t *testing.T) {
	cfg, err := New(testParams(), testMeta("1"))
	require.NoError(t, err)

	tests := []struct {
		price string
		want  string
	}{
		{"125", "125"},
		{"130", "125"},
		{"112.5", "100"}, // tie breaks to the lowest level
		{"137.5", "125"},
		{"50", "100"},
		{"500", "200"},
	}

	for _, tt := range tests {
		got := cfg.ClosestLevel(d(tt.price))
		assert.True(t, got.Equal(d(tt.want)), "closest(%s): want %s, got %s", tt.price, tt.want, got)
	}
}

func TestClosestLevel_Idempotent(t *testing.T) {
	cfg, err := New(testParams(), testMeta("1"))
	require.NoError(t, err)

	for _, price := range []string{"99", "112.5", "137.5", "150", "163", "210"} {
		once := cfg.ClosestLevel(d(price))
		twice := cfg.ClosestLevel(once)
		assert.True(t, once.Equal(twice), "closest not idempotent at %s", price)
	}
}

func TestLevels_ReturnsCopy(t *testing.T) {
	cfg, err := New(testParams(), testMeta("1"))
	require.NoError(t, err)

	levels := cfg.Levels()
	levels[0] = d("1")
	assert.True(t, cfg.Levels()[0].Equal(d("100")))
}

func TestNew_SingleInterval(t *testing.T) {
	p := testParams()
	p.GridCount = 1
	cfg, err := New(p, testMeta("1"))
	require.NoError(t, err)

	levels := cfg.Levels()
	require.Len(t, levels, 2)
	assert.True(t, levels[0].Equal(d("100")))
	assert.True(t, levels[1].Equal(d("200")))
}

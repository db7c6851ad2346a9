package grid

// Strategy is the directional bias of a futures grid.
type Strategy string

const (
	// StrategyLong holds an initial long position covering the sell levels
	// above entry.
	StrategyLong Strategy = "long"
	// StrategyShort holds an initial short position covering the buy levels
	// below entry.
	StrategyShort Strategy = "short"
	// StrategyNeutral starts with no initial position.
	StrategyNeutral Strategy = "neutral"
)

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyLong, StrategyShort, StrategyNeutral:
		return true
	}
	return false
}

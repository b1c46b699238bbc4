package window

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how a closed window's accumulator becomes its aggregate.
type Mode int

const (
	// SimpleSum scales the window sum to MB per time unit, assuming
	// ten windows per unit.
	SimpleSum Mode = iota
	// NormalizedRate divides the window sum by the time elapsed since the
	// previous window closed.
	NormalizedRate
)

var ErrUnknownMode = errors.New("unknown aggregation mode")

func (m Mode) String() string {
	switch m {
	case SimpleSum:
		return "sum"
	case NormalizedRate:
		return "rate"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a configuration value onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sum", "simple-sum", "simplesum":
		return SimpleSum, nil
	case "rate", "normalized-rate", "normalizedrate":
		return NormalizedRate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

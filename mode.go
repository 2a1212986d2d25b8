package portfolio

import "fmt"

// Mode selects which ledger a portfolio operates on.
type Mode string

const (
	// Live is the user's own ledger, backed by the configured Store.
	Live Mode = "live"
	// Demo is a fixed demonstration ledger. Changes to it are never persisted.
	Demo Mode = "demo"
)

// ParseMode parses "live" or "demo".
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case Live, Demo:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

func (m Mode) String() string { return string(m) }

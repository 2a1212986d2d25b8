package portfolio

import "fmt"

// QuantityMethod tells how the value of an order is expressed.
type QuantityMethod int

const (
	// ByAmount orders for a money amount; shares are derived from the price.
	ByAmount QuantityMethod = iota + 1
	// ByShares orders a number of shares; the amount is derived from the price.
	ByShares
)

func (m QuantityMethod) String() string {
	switch m {
	case ByAmount:
		return "amount"
	case ByShares:
		return "shares"
	default:
		return "unknown"
	}
}

// ParseQuantityMethod parses "amount" or "shares".
func ParseQuantityMethod(s string) (QuantityMethod, error) {
	switch s {
	case "amount":
		return ByAmount, nil
	case "shares":
		return ByShares, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMethod, s)
	}
}

func (m QuantityMethod) MarshalText() ([]byte, error) {
	if m != ByAmount && m != ByShares {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMethod, int(m))
	}
	return []byte(m.String()), nil
}

func (m *QuantityMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseQuantityMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

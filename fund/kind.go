package fund

import (
	"fmt"
	"strings"
)

// Kind names one of the three sub-balances of an account.
type Kind uint8

const (
	Active Kind = iota + 1
	Reserve
	Profit
)

// Kinds lists every fund kind in display order.
var Kinds = []Kind{Active, Reserve, Profit}

func (k Kind) String() string {
	switch k {
	case Active:
		return "active"
	case Reserve:
		return "reserve"
	case Profit:
		return "profit"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of Active, Reserve or Profit.
func (k Kind) Valid() bool {
	return k >= Active && k <= Profit
}

// ParseKind accepts "active", "reserve" or "profit" (case-insensitive, with an
// optional "_fund" suffix).
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "_fund")
	switch s {
	case "active":
		return Active, nil
	case "reserve":
		return Reserve, nil
	case "profit":
		return Profit, nil
	}
	return 0, fmt.Errorf("%w: unknown fund %q", ErrInvalidAmount, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid fund kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

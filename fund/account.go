package fund

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Key identifies an account. SubAccount is empty for the main account.
type Key struct {
	Owner      string `json:"owner" yaml:"owner"`
	Mode       string `json:"mode" yaml:"mode"`
	SubAccount string `json:"sub_account,omitempty" yaml:"sub_account,omitempty"`
}

func (k Key) String() string {
	if k.SubAccount == "" {
		return k.Owner + "/" + k.Mode
	}
	return k.Owner + "/" + k.Mode + "/" + k.SubAccount
}

// Validate requires an owner and a mode.
func (k Key) Validate() error {
	if k.Owner == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidAmount)
	}
	if k.Mode == "" {
		return fmt.Errorf("%w: mode is required", ErrInvalidAmount)
	}
	return nil
}

// Account holds the three fund balances of one (owner, mode, sub-account).
type Account struct {
	ID  string
	Key Key

	Active  decimal.Decimal
	Reserve decimal.Decimal
	Profit  decimal.Decimal
	Total   decimal.Decimal

	InitialCapital decimal.Decimal
	TargetReserve  decimal.Decimal

	Policy Policy

	// Version is bumped on every successful update and used for
	// compare-and-swap by the store.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Balance returns the balance of fund k.
func (a *Account) Balance(k Kind) decimal.Decimal {
	switch k {
	case Active:
		return a.Active
	case Reserve:
		return a.Reserve
	case Profit:
		return a.Profit
	}
	return decimal.Zero
}

// Credit adds amount to fund k and recomputes the total.
func (a *Account) Credit(k Kind, amount decimal.Decimal) {
	a.set(k, a.Balance(k).Add(amount))
}

// Debit subtracts amount from fund k and recomputes the total. It does not
// check sufficiency.
func (a *Account) Debit(k Kind, amount decimal.Decimal) {
	a.set(k, a.Balance(k).Sub(amount))
}

func (a *Account) set(k Kind, v decimal.Decimal) {
	switch k {
	case Active:
		a.Active = v
	case Reserve:
		a.Reserve = v
	case Profit:
		a.Profit = v
	}
	a.Recompute()
}

// Recompute derives Total from the three funds. The stored total is never
// trusted on its own.
func (a *Account) Recompute() {
	a.Total = a.Active.Add(a.Reserve).Add(a.Profit)
}

// Check verifies the balance-sum and non-negativity invariants.
func (a *Account) Check() error {
	for _, k := range Kinds {
		if a.Balance(k).IsNegative() {
			return fmt.Errorf("account %s: %s fund is negative (%s)", a.Key, k, a.Balance(k))
		}
	}
	sum := a.Active.Add(a.Reserve).Add(a.Profit)
	if !sum.Equal(a.Total) {
		return fmt.Errorf("account %s: total %s != funds sum %s", a.Key, a.Total, sum)
	}
	return nil
}

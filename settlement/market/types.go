// Package market is the typed data model for a settlement scenario: the
// parties involved, their balances and optional currency-conversion
// rules, and the DvP transactions requested between them.
package market

import (
	"fmt"

	"github.com/aristath/qumo-reducer/settlement/serr"
)

// PartyID identifies a market participant. Displayed as "P<id>".
type PartyID int

func (id PartyID) String() string { return fmt.Sprintf("P%d", int(id)) }

// TransactionID identifies a requested DvP transaction. Displayed as
// "T<id>".
type TransactionID int

func (id TransactionID) String() string { return fmt.Sprintf("T%d", int(id)) }

// ExchangeFactor is the rule "security units of security convert to
// currency units of cash". Both fields must be > 0.
type ExchangeFactor struct {
	Security uint32
	Currency uint32
}

// Ratio returns the conversion ratio currency/security used downstream.
func (f ExchangeFactor) Ratio() float64 {
	return float64(f.Currency) / float64(f.Security)
}

// Validate checks the positivity invariant.
func (f ExchangeFactor) Validate() error {
	if f.Security == 0 || f.Currency == 0 {
		return &serr.InvalidScenario{Detail: "exchange factor must have security > 0 and currency > 0"}
	}
	return nil
}

// PartyInfo describes one market participant.
type PartyInfo struct {
	ID               PartyID
	SecurityBalance  float64
	CurrencyBalance  float64
	ExchangeFactor   *ExchangeFactor // nil when the party has no conversion rule
}

// Validate checks PartyInfo's local invariants.
func (p PartyInfo) Validate() error {
	if p.SecurityBalance < 0 {
		return &serr.InvalidScenario{Detail: fmt.Sprintf("party %s: security balance must be >= 0", p.ID)}
	}
	if p.CurrencyBalance < 0 {
		return &serr.InvalidScenario{Detail: fmt.Sprintf("party %s: currency balance must be >= 0", p.ID)}
	}
	if p.ExchangeFactor != nil {
		if err := p.ExchangeFactor.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TransactionInfo describes one requested DvP transaction: sa units of
// security move from SecurityFrom to SecurityTo, and ca units of cash
// move from CashFrom to CashTo.
type TransactionInfo struct {
	ID              TransactionID
	SecurityFrom    PartyID
	SecurityTo      PartyID
	SecurityAmount  float64
	CashFrom        PartyID
	CashTo          PartyID
	CashAmount      float64
}

// Validate checks TransactionInfo's local invariants, including the DvP
// invariant: the security leg's counterparties must be the cash leg's
// counterparties in opposite roles, and a party cannot trade with itself.
func (t TransactionInfo) Validate() error {
	if t.SecurityAmount <= 0 {
		return &serr.InvalidScenario{Detail: fmt.Sprintf("transaction %s: security amount must be > 0", t.ID)}
	}
	if t.CashAmount <= 0 {
		return &serr.InvalidScenario{Detail: fmt.Sprintf("transaction %s: cash amount must be > 0", t.ID)}
	}
	if t.SecurityFrom == t.SecurityTo {
		return &serr.InvalidScenario{Detail: fmt.Sprintf("transaction %s: security_from must differ from security_to", t.ID)}
	}
	if t.SecurityFrom != t.CashTo || t.SecurityTo != t.CashFrom {
		return &serr.InvalidScenario{Detail: fmt.Sprintf("transaction %s: DvP invariant violated (security_from must equal cash_to and security_to must equal cash_from)", t.ID)}
	}
	return nil
}

package market

import (
	"fmt"

	"github.com/aristath/qumo-reducer/settlement/serr"
)

// Scenario is an ordered collection of parties and requested transactions.
// Order is preserved because it determines the column/row ordering used
// by the assembler and, ultimately, variable numbering in the IP.
type Scenario struct {
	Parties      []PartyInfo
	Transactions []TransactionInfo
}

// Validate checks every element's local invariants plus the scenario-wide
// invariants: party and transaction ids must be unique, and every
// transaction must reference parties present in the scenario.
func (s Scenario) Validate() error {
	partyIdx := make(map[PartyID]int, len(s.Parties))
	for i, p := range s.Parties {
		if _, dup := partyIdx[p.ID]; dup {
			return &serr.InvalidScenario{Detail: fmt.Sprintf("duplicate party id %s", p.ID)}
		}
		partyIdx[p.ID] = i
		if err := p.Validate(); err != nil {
			return err
		}
	}

	txIdx := make(map[TransactionID]int, len(s.Transactions))
	for i, t := range s.Transactions {
		if _, dup := txIdx[t.ID]; dup {
			return &serr.InvalidScenario{Detail: fmt.Sprintf("duplicate transaction id %s", t.ID)}
		}
		txIdx[t.ID] = i
		if err := t.Validate(); err != nil {
			return err
		}
		for _, pid := range []PartyID{t.SecurityFrom, t.SecurityTo, t.CashFrom, t.CashTo} {
			if _, ok := partyIdx[pid]; !ok {
				return &serr.InvalidScenario{Detail: fmt.Sprintf("transaction %s references unknown party %s", t.ID, pid)}
			}
		}
	}
	return nil
}

// PartyIndex returns the position of id within Parties, and whether it
// was found.
func (s Scenario) PartyIndex(id PartyID) (int, bool) {
	for i, p := range s.Parties {
		if p.ID == id {
			return i, true
		}
	}
	return 0, false
}

// TransactionIndex returns the position of id within Transactions, and
// whether it was found.
func (s Scenario) TransactionIndex(id TransactionID) (int, bool) {
	for i, t := range s.Transactions {
		if t.ID == id {
			return i, true
		}
	}
	return 0, false
}

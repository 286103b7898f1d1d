package assembler

import (
	"testing"

	"github.com/aristath/qumo-reducer/settlement/market"
)

func twoPartyScenario() market.Scenario {
	return market.Scenario{
		Parties: []market.PartyInfo{
			{ID: 1, SecurityBalance: 100, CurrencyBalance: 10, ExchangeFactor: &market.ExchangeFactor{Security: 2, Currency: 5}},
			{ID: 2, SecurityBalance: 0, CurrencyBalance: 200},
		},
		Transactions: []market.TransactionInfo{
			{ID: 1, SecurityFrom: 1, SecurityTo: 2, SecurityAmount: 10, CashFrom: 2, CashTo: 1, CashAmount: 25},
		},
	}
}

func TestAssembleSetup(t *testing.T) {
	mkt, err := Assemble(twoPartyScenario())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if mkt.Setup.Currency[0] != 10 || mkt.Setup.Security[0] != 100 {
		t.Fatalf("setup[0] = %+v, want currency=10 security=100", mkt.Setup)
	}
	if mkt.Setup.Conversion[0] != 2.5 {
		t.Fatalf("conversion[0] = %v, want 2.5", mkt.Setup.Conversion[0])
	}
	if mkt.Setup.Conversion[1] != 0 {
		t.Fatalf("conversion[1] = %v, want 0 (no exchange factor)", mkt.Setup.Conversion[1])
	}
}

func TestAssembleTransactionDeltas(t *testing.T) {
	mkt, err := Assemble(twoPartyScenario())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	secRow0 := mkt.Transactions.SecurityRow(0)
	if len(secRow0) != 1 || secRow0[0].Value != -10 {
		t.Fatalf("security row for party 0 = %+v, want single -10 entry", secRow0)
	}
	secRow1 := mkt.Transactions.SecurityRow(1)
	if len(secRow1) != 1 || secRow1[0].Value != 10 {
		t.Fatalf("security row for party 1 = %+v, want single +10 entry", secRow1)
	}

	curRow0 := mkt.Transactions.CurrencyRow(0)
	if len(curRow0) != 1 || curRow0[0].Value != 25 {
		t.Fatalf("currency row for party 0 = %+v, want single +25 entry (cash_to)", curRow0)
	}
	curRow1 := mkt.Transactions.CurrencyRow(1)
	if len(curRow1) != 1 || curRow1[0].Value != -25 {
		t.Fatalf("currency row for party 1 = %+v, want single -25 entry (cash_from)", curRow1)
	}
}

func TestAssembleRejectsInvalidScenario(t *testing.T) {
	s := twoPartyScenario()
	s.Transactions[0].SecurityAmount = -1
	if _, err := Assemble(s); err == nil {
		t.Fatal("expected Assemble to reject an invalid scenario")
	}
}

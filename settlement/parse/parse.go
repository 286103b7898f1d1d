// Package parse reads the settlement scenario text format: two
// comma-separated sections, parties then transactions, separated by a
// blank line.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aristath/qumo-reducer/settlement/market"
)

const (
	partyHeader       = "Party Id,Security Balance,Currency Balance,CCF Exchange Factor"
	transactionHeader = "Transaction Id,From,To,Security Amount,From,To,Cash Amount"
)

// Scenario parses r into a market.Scenario. It does not validate the
// result; call Scenario.Validate on the returned value before assembling it.
func Scenario(r io.Reader) (market.Scenario, error) {
	lines, err := readNonEmptyLinesBySection(r)
	if err != nil {
		return market.Scenario{}, err
	}
	if len(lines) != 2 {
		return market.Scenario{}, fmt.Errorf("parse: expected exactly two sections separated by a blank line, got %d", len(lines))
	}

	parties, err := parsePartySection(lines[0])
	if err != nil {
		return market.Scenario{}, err
	}
	transactions, err := parseTransactionSection(lines[1])
	if err != nil {
		return market.Scenario{}, err
	}
	return market.Scenario{Parties: parties, Transactions: transactions}, nil
}

// readNonEmptyLinesBySection splits the input into sections on blank
// lines, trimming whitespace from every line and dropping blank lines
// within a section boundary.
func readNonEmptyLinesBySection(r io.Reader) ([][]string, error) {
	var sections [][]string
	var current []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if len(current) > 0 {
				sections = append(sections, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse: reading input: %w", err)
	}
	if len(current) > 0 {
		sections = append(sections, current)
	}
	return sections, nil
}

func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func parsePartyID(s string) (market.PartyID, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "P")
	n, err := strconv.Atoi(trimmed)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("parse: invalid party id %q", s)
	}
	return market.PartyID(n), nil
}

func parseTransactionID(s string) (market.TransactionID, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "T")
	n, err := strconv.Atoi(trimmed)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("parse: invalid transaction id %q", s)
	}
	return market.TransactionID(n), nil
}

func parseNonNegative(s string) (float64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse: invalid non-negative integer %q", s)
	}
	return float64(n), nil
}

func parsePositiveUint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("parse: invalid positive integer %q", s)
	}
	return uint32(n), nil
}

func parsePartySection(lines []string) ([]market.PartyInfo, error) {
	if len(lines) == 0 || lines[0] != partyHeader {
		return nil, fmt.Errorf("parse: party section must start with header %q", partyHeader)
	}

	var parties []market.PartyInfo
	for _, line := range lines[1:] {
		fields := splitFields(line)
		if len(fields) != 3 && len(fields) != 4 {
			return nil, fmt.Errorf("parse: party row %q: expected 3 or 4 fields, got %d", line, len(fields))
		}

		id, err := parsePartyID(fields[0])
		if err != nil {
			return nil, err
		}
		securityBalance, err := parseNonNegative(fields[1])
		if err != nil {
			return nil, err
		}
		currencyBalance, err := parseNonNegative(fields[2])
		if err != nil {
			return nil, err
		}

		p := market.PartyInfo{ID: id, SecurityBalance: securityBalance, CurrencyBalance: currencyBalance}
		if len(fields) == 4 {
			factor, err := parseExchangeClause(fields[3], id)
			if err != nil {
				return nil, err
			}
			p.ExchangeFactor = factor
		}
		parties = append(parties, p)
	}
	return parties, nil
}

// parseExchangeClause parses "P<id> converts <s> S into <c> C" and checks
// that the clause's party id matches the owning row.
func parseExchangeClause(clause string, owner market.PartyID) (*market.ExchangeFactor, error) {
	tokens := strings.Fields(clause)
	if len(tokens) != 7 || tokens[1] != "converts" || tokens[3] != "S" || tokens[4] != "into" || tokens[6] != "C" {
		return nil, fmt.Errorf("parse: malformed exchange clause %q, want \"P<id> converts <s> S into <c> C\"", clause)
	}
	clauseOwner, err := parsePartyID(tokens[0])
	if err != nil {
		return nil, err
	}
	if clauseOwner != owner {
		return nil, fmt.Errorf("parse: exchange clause party %s does not match row party %s", clauseOwner, owner)
	}
	security, err := parsePositiveUint32(tokens[2])
	if err != nil {
		return nil, err
	}
	currency, err := parsePositiveUint32(tokens[5])
	if err != nil {
		return nil, err
	}
	return &market.ExchangeFactor{Security: security, Currency: currency}, nil
}

func parseTransactionSection(lines []string) ([]market.TransactionInfo, error) {
	if len(lines) == 0 || lines[0] != transactionHeader {
		return nil, fmt.Errorf("parse: transaction section must start with header %q", transactionHeader)
	}

	var txs []market.TransactionInfo
	for _, line := range lines[1:] {
		fields := splitFields(line)
		if len(fields) != 7 {
			return nil, fmt.Errorf("parse: transaction row %q: expected 7 fields, got %d", line, len(fields))
		}

		id, err := parseTransactionID(fields[0])
		if err != nil {
			return nil, err
		}
		sf, err := parsePartyID(fields[1])
		if err != nil {
			return nil, err
		}
		st, err := parsePartyID(fields[2])
		if err != nil {
			return nil, err
		}
		sa, err := parseNonNegative(fields[3])
		if err != nil {
			return nil, err
		}
		cf, err := parsePartyID(fields[4])
		if err != nil {
			return nil, err
		}
		ct, err := parsePartyID(fields[5])
		if err != nil {
			return nil, err
		}
		ca, err := parseNonNegative(fields[6])
		if err != nil {
			return nil, err
		}

		txs = append(txs, market.TransactionInfo{
			ID:             id,
			SecurityFrom:   sf,
			SecurityTo:     st,
			SecurityAmount: sa,
			CashFrom:       cf,
			CashTo:         ct,
			CashAmount:     ca,
		})
	}
	return txs, nil
}

// Command qumoctl is a thin CLI over the settlement core: parse_from_file
// dumps a scenario file as JSON, solve drives it through
// parse -> assemble -> solve -> validate, both without standing up the
// HTTP server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/aristath/qumo-reducer/internal/solver"
	"github.com/aristath/qumo-reducer/internal/solver/highs"
	"github.com/aristath/qumo-reducer/internal/solver/reference"
	"github.com/aristath/qumo-reducer/settlement/assembler"
	"github.com/aristath/qumo-reducer/settlement/formulation"
	"github.com/aristath/qumo-reducer/settlement/market"
	"github.com/aristath/qumo-reducer/settlement/parse"
	"github.com/aristath/qumo-reducer/settlement/validate"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "parse_from_file":
		runParseFromFile(os.Args[2:])
	case "solve":
		runSolve(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: qumoctl parse_from_file -scenario <path>")
	fmt.Fprintln(os.Stderr, "       qumoctl solve -scenario <path> [-backend reference|highs]")
}

func runParseFromFile(args []string) {
	fs := flag.NewFlagSet("parse_from_file", flag.ExitOnError)
	scenarioPath := fs.String("scenario", "", "path to a settlement scenario text file")
	fs.Parse(args)

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "parse_from_file: -scenario is required")
		os.Exit(2)
	}

	f, err := os.Open(*scenarioPath)
	if err != nil {
		fatal("parse_from_file: opening scenario file: %v", err)
	}
	defer f.Close()

	scenario, err := parse.Scenario(f)
	if err != nil {
		fatal("parse_from_file: parsing scenario: %v", err)
	}

	printScenario(scenario)
}

func printScenario(scenario market.Scenario) {
	type party struct {
		ID              string   `json:"id"`
		SecurityBalance float64  `json:"security_balance"`
		CurrencyBalance float64  `json:"currency_balance"`
		ExchangeFactor  *float64 `json:"exchange_ratio,omitempty"`
	}
	type transaction struct {
		ID             string  `json:"id"`
		SecurityFrom   string  `json:"security_from"`
		SecurityTo     string  `json:"security_to"`
		SecurityAmount float64 `json:"security_amount"`
		CashFrom       string  `json:"cash_from"`
		CashTo         string  `json:"cash_to"`
		CashAmount     float64 `json:"cash_amount"`
	}
	out := struct {
		Parties      []party       `json:"parties"`
		Transactions []transaction `json:"transactions"`
	}{}

	for _, p := range scenario.Parties {
		entry := party{
			ID:              p.ID.String(),
			SecurityBalance: p.SecurityBalance,
			CurrencyBalance: p.CurrencyBalance,
		}
		if p.ExchangeFactor != nil {
			ratio := p.ExchangeFactor.Ratio()
			entry.ExchangeFactor = &ratio
		}
		out.Parties = append(out.Parties, entry)
	}
	for _, t := range scenario.Transactions {
		out.Transactions = append(out.Transactions, transaction{
			ID:             t.ID.String(),
			SecurityFrom:   t.SecurityFrom.String(),
			SecurityTo:     t.SecurityTo.String(),
			SecurityAmount: t.SecurityAmount,
			CashFrom:       t.CashFrom.String(),
			CashTo:         t.CashTo.String(),
			CashAmount:     t.CashAmount,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatal("parse_from_file: encoding scenario: %v", err)
	}
}

func runSolve(args []string) {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	scenarioPath := fs.String("scenario", "", "path to a settlement scenario text file")
	backendName := fs.String("backend", "reference", "solver backend: reference or highs")
	fs.Parse(args)

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "solve: -scenario is required")
		os.Exit(2)
	}

	f, err := os.Open(*scenarioPath)
	if err != nil {
		fatal("solve: opening scenario file: %v", err)
	}
	defer f.Close()

	scenario, err := parse.Scenario(f)
	if err != nil {
		fatal("solve: parsing scenario: %v", err)
	}

	mkt, err := assembler.Assemble(scenario)
	if err != nil {
		fatal("solve: assembling market: %v", err)
	}

	backend := newBackend(*backendName)
	selected, err := formulation.Solve(context.Background(), backend, mkt)
	if err != nil {
		fatal("solve: %v", err)
	}

	result, err := validate.Validate(mkt, selected)
	if err != nil {
		fatal("solve: validating result: %v", err)
	}

	printResult(scenario, selected, result)
}

func newBackend(name string) solver.Backend {
	if name == "highs" {
		return highs.New()
	}
	return reference.New()
}

func printResult(scenario market.Scenario, selected []int, result *validate.Result) {
	out := struct {
		Selected   []string `json:"selected_transactions"`
		Feasible   bool     `json:"feasible"`
		Violations []string `json:"violations,omitempty"`
	}{Feasible: result.Feasible()}

	for _, t := range selected {
		out.Selected = append(out.Selected, scenario.Transactions[t].ID.String())
	}
	for _, v := range result.Violations {
		out.Violations = append(out.Violations, v.String())
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatal("solve: encoding result: %v", err)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// Package report renders a finished simulation run for the console.
package report

import (
	"fmt"
	"io"

	"github.com/ayo6706/transfer-simulator/internal/domain"
	"github.com/ayo6706/transfer-simulator/internal/simulation"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// View is the structured form of a report. Amounts are fixed two-decimal strings.
type View struct {
	RunID          string             `json:"run_id" yaml:"run_id"`
	Seed           uint64             `json:"seed" yaml:"seed"`
	Workers        int                `json:"workers" yaml:"workers"`
	Amount         string             `json:"amount" yaml:"amount"`
	Accounts       int                `json:"accounts" yaml:"accounts"`
	ElapsedMS      int64              `json:"elapsed_ms" yaml:"elapsed_ms"`
	Transactions   uint64             `json:"transactions" yaml:"transactions"`
	Attempts       uint64             `json:"attempts" yaml:"attempts"`
	Terminal       TerminalView       `json:"terminal_account" yaml:"terminal_account"`
	Reconciliation ReconciliationView `json:"reconciliation" yaml:"reconciliation"`
}

type TerminalView struct {
	ID           int    `json:"id" yaml:"id"`
	StartBalance string `json:"start_balance" yaml:"start_balance"`
	Balance      string `json:"balance" yaml:"balance"`
	Credits      uint64 `json:"credits" yaml:"credits"`
	Debits       uint64 `json:"debits" yaml:"debits"`
	Transactions uint64 `json:"transactions" yaml:"transactions"`
}

type ReconciliationView struct {
	Balanced     bool     `json:"balanced" yaml:"balanced"`
	StartTotal   string   `json:"start_total" yaml:"start_total"`
	EndTotal     string   `json:"end_total" yaml:"end_total"`
	Debits       uint64   `json:"debits" yaml:"debits"`
	Credits      uint64   `json:"credits" yaml:"credits"`
	ZeroAccounts int      `json:"zero_accounts" yaml:"zero_accounts"`
	FailedChecks []string `json:"failed_checks,omitempty" yaml:"failed_checks,omitempty"`
}

// NewView converts a report to its structured form.
func NewView(r *simulation.Report) View {
	rec := r.Reconciliation
	return View{
		RunID:        r.RunID.String(),
		Seed:         r.Seed,
		Workers:      r.Workers,
		Amount:       domain.FormatAmount(r.Amount),
		Accounts:     r.Accounts,
		ElapsedMS:    r.Elapsed.Milliseconds(),
		Transactions: r.Transactions,
		Attempts:     r.Attempts,
		Terminal: TerminalView{
			ID:           r.Terminal.ID,
			StartBalance: domain.FormatAmount(r.Terminal.StartBalance),
			Balance:      domain.FormatAmount(r.Terminal.Balance),
			Credits:      r.Terminal.Credits,
			Debits:       r.Terminal.Debits,
			Transactions: r.Terminal.Transactions,
		},
		Reconciliation: ReconciliationView{
			Balanced:     rec.Balanced(),
			StartTotal:   domain.FormatAmount(rec.StartTotal),
			EndTotal:     domain.FormatAmount(rec.EndTotal),
			Debits:       rec.Debits,
			Credits:      rec.Credits,
			ZeroAccounts: rec.ZeroAccounts,
			FailedChecks: rec.Failed,
		},
	}
}

// Render writes r to w in the given format.
func Render(w io.Writer, format string, r *simulation.Report) error {
	if r == nil {
		return fmt.Errorf("render report: nil report")
	}
	switch format {
	case FormatText, "":
		return renderText(w, r)
	case FormatJSON:
		out, err := json.MarshalIndent(NewView(r), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewView(r)); err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("render report: unknown format %q", format)
	}
}

func renderText(w io.Writer, r *simulation.Report) error {
	t := r.Terminal
	_, err := fmt.Fprintf(w,
		"Zero balance account ID: %d, initial bal: %s, credits: %d, debits: %d, total: %d\n"+
			"Time: %.3fs, transactions: %d\n"+
			"threads: %d, amt: %s, accounts: %d\n",
		t.ID, domain.FormatAmount(t.StartBalance), t.Credits, t.Debits, t.Transactions,
		r.Elapsed.Seconds(), r.Transactions,
		r.Workers, domain.FormatAmount(r.Amount), r.Accounts,
	)
	return err
}

// Command billsplit splits a bill described in a YAML file.
//
//	billsplit -f dinner.yaml
//	billsplit -f dinner.yaml -format csv -o breakdown.csv
//	billsplit -f dinner.yaml -payer Alice
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mmynk/billsplit/internal/billfile"
	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/export"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	flags := parseFlags(os.Args[1:])
	if err := run(flags, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "billsplit: %v\n", err)
		os.Exit(1)
	}
}

func run(flags Flags, stdout io.Writer) error {
	if flags.File == "" {
		return fmt.Errorf("-f is required")
	}
	format, err := export.ParseFormat(flags.Format)
	if err != nil {
		return err
	}
	fallback, err := calculator.ParseFallbackSubtotal(flags.Fallback)
	if err != nil {
		return err
	}

	bill, err := billfile.Load(flags.File)
	if err != nil {
		return err
	}
	slog.Debug("Bill loaded", "file", flags.File, "participants", len(bill.Participants))

	breakdown, err := calculator.ComputeBreakdown(bill.Config, bill.Participants, calculator.WithFallbackSubtotal(fallback))
	if err != nil {
		return err
	}
	if breakdown.EqualSplit {
		slog.Warn("No item prices were entered for any participant, falling back to equal split")
	}

	if err := writeOutput(stdout, flags.Output, format, breakdown); err != nil {
		return err
	}

	if flags.Payer != "" {
		return printTransfers(stdout, breakdown, bill.Participants, flags.Payer)
	}
	return nil
}

// writeOutput writes the breakdown to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, format export.Format, b *models.Breakdown) error {
	if path == "" {
		return export.Write(stdout, format, b)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.Write(f, format, b); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// printTransfers settles up against the first participant named payer.
func printTransfers(w io.Writer, b *models.Breakdown, participants []models.Participant, payer string) error {
	payerID := ""
	for _, p := range participants {
		if strings.EqualFold(p.Name, payer) {
			payerID = p.ID
			break
		}
	}
	if payerID == "" {
		return fmt.Errorf("payer %q is not a participant", payer)
	}

	transfers, err := calculator.Settle(b, payerID)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	if len(transfers) == 0 {
		fmt.Fprintf(w, "Nothing to settle.\n")
		return nil
	}
	for _, t := range transfers {
		fmt.Fprintf(w, "%s pays %s %s\n", t.FromName, t.ToName, t.Amount.StringFixed(2))
	}
	return nil
}

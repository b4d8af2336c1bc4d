package main

import (
	"flag"
)

// Flags are the command line options.
type Flags struct {
	File     string
	Format   string
	Output   string
	Payer    string
	Fallback string
}

func parseFlags(args []string) Flags {
	var flags Flags
	fs := flag.NewFlagSet("billsplit", flag.ExitOnError)
	fs.StringVar(&flags.File, "f", "", "Bill file (YAML)")
	fs.StringVar(&flags.Format, "format", "text", "Output format: text or csv")
	fs.StringVar(&flags.Output, "o", "", "Write output to this file instead of stdout")
	fs.StringVar(&flags.Payer, "payer", "", "Name of the participant who paid; prints who owes them")
	fs.StringVar(&flags.Fallback, "fallback-subtotal", "grand_total", "Subtotal in the equal-split fallback: grand_total or bill_base")
	fs.Parse(args)
	return flags
}

// Command tabsplit summarizes and analyzes exported bill history offline.
//
// Usage:
//
//	tabsplit summary FILE
//	tabsplit analytics [-base USD] [-period 30d] [-person ID] FILE
//	tabsplit convert AMOUNT FROM TO
//
// FILE is a JSON history export as produced by the ExportHistory RPC.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/tabsplit/internal/analytics"
	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/currency"
	"github.com/mmynk/tabsplit/internal/history"
	"github.com/mmynk/tabsplit/internal/models"
	"github.com/mmynk/tabsplit/pkg/logging"
)

var errUsage = errors.New("usage: tabsplit summary|analytics|convert ...")

func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"), "text")

	if err := run(os.Args[1:], os.Stdout, time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func run(args []string, out io.Writer, now time.Time) error {
	if len(args) == 0 {
		return errUsage
	}
	calc := calculator.New(currency.NewConverter(currency.Default()))

	switch args[0] {
	case "summary":
		return runSummary(args[1:], out, calc)
	case "analytics":
		return runAnalytics(args[1:], out, calc, now)
	case "convert":
		return runConvert(args[1:], out, calc.Converter())
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runSummary(args []string, out io.Writer, calc *calculator.Calculator) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: tabsplit summary FILE")
	}

	bills, err := loadBills(fs.Arg(0))
	if err != nil {
		return err
	}
	for _, bill := range bills {
		fmt.Fprintln(out, renderBillSummary(bill, calc))
	}
	return nil
}

func runAnalytics(args []string, out io.Writer, calc *calculator.Calculator, now time.Time) error {
	fs := flag.NewFlagSet("analytics", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	base := fs.String("base", "USD", "base currency for all totals")
	period := fs.String("period", "all", "time window: all, 30d, 90d or 1y")
	person := fs.String("person", "", "show analytics for one person ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: tabsplit analytics [-base CODE] [-period P] [-person ID] FILE")
	}

	code := strings.ToUpper(*base)
	if !calc.Converter().Table().Has(code) {
		return fmt.Errorf("unsupported currency %q", *base)
	}
	p, err := analytics.ParsePeriod(*period)
	if err != nil {
		return err
	}

	bills, err := loadBills(fs.Arg(0))
	if err != nil {
		return err
	}
	bills = analytics.FilterByPeriod(bills, p, now)
	agg := analytics.New(calc)

	if *person != "" {
		pa := agg.ForPerson(bills, *person, code)
		if pa == nil {
			return fmt.Errorf("no bills found for person %q", *person)
		}
		fmt.Fprintln(out, renderPersonAnalytics(*pa, code, calc.Converter()))
		return nil
	}

	fmt.Fprintln(out, renderAnalytics(agg.Aggregate(bills, code), code, calc.Converter()))
	return nil
}

func runConvert(args []string, out io.Writer, conv *currency.Converter) error {
	if len(args) != 3 {
		return errors.New("usage: tabsplit convert AMOUNT FROM TO")
	}
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[0], err)
	}
	from, to := strings.ToUpper(args[1]), strings.ToUpper(args[2])
	for _, code := range []string{from, to} {
		if !conv.Table().Has(code) {
			return fmt.Errorf("unsupported currency %q", code)
		}
	}

	fmt.Fprintf(out, "%s = %s\n", conv.Format(amount, from), conv.Format(conv.Convert(amount, from, to), to))
	if rate := conv.ExchangeRateText(from, to); rate != "" {
		fmt.Fprintln(out, mutedStyle.Render(rate))
	}
	return nil
}

func loadBills(path string) ([]models.Bill, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return history.Import(f)
}

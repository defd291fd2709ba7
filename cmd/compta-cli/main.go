package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"compta/internal/backend"
	"compta/internal/cli"
	"compta/internal/core"
	"compta/internal/log"
)

const commandTimeout = 30 * time.Second

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger(envOr("LOG_LEVEL", "warn"), log.ComponentCLI)

	var run func(ctx context.Context, b backend.Backend, args []string) error
	switch os.Args[1] {
	case "accounts":
		run = runAccounts
	case "list":
		run = runList
	case "record":
		run = runRecord
	case "reverse":
		run = runReverse
	case "summary":
		run = runSummary
	case "stats":
		run = runStats
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	cfg := cli.LoadAndValidateConfig(logger)
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res := cli.OpenBackend(ctx, logger, cli.BackendConfig(logger, cfg))
	err := run(ctx, res.Backend, os.Args[2:])
	if cerr := res.Cleanup(); cerr != nil {
		logger.Warn("Backend cleanup failed", log.FieldError, cerr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func printUsage() {
	fmt.Println("compta ledger CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  compta-cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  accounts  Show the chart of accounts with balances")
	fmt.Println("  list      List transactions, newest first")
	fmt.Println("  record    Record a transaction")
	fmt.Println("  reverse   Reverse a transaction by ID")
	fmt.Println("  summary   Show expenses per category for a month")
	fmt.Println("  stats     Show ledger totals")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'compta-cli <command> -h' for more information on a command.")
}

// exitCode separates bad input (2) from other failures (1).
func exitCode(err error) int {
	if errors.Is(err, core.ErrValidation) || errors.Is(err, core.ErrNotFound) {
		return 2
	}
	return 1
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func runAccounts(ctx context.Context, b backend.Backend, args []string) error {
	fs := flag.NewFlagSet("accounts", flag.ExitOnError)
	_ = fs.Parse(args)

	accounts, err := b.Accounts(ctx)
	if err != nil {
		return err
	}
	return printAccounts(os.Stdout, accounts)
}

func runList(ctx context.Context, b backend.Backend, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	from := fs.String("from", "", "First date included (YYYY-MM-DD)")
	to := fs.String("to", "", "Last date included (YYYY-MM-DD)")
	limit := fs.Int("limit", 50, "Maximum number of transactions, 0 for all")
	account := fs.String("account", "", "Only transactions touching this account")
	category := fs.String("category", "", "Only transactions in this category")
	_ = fs.Parse(args)

	f := core.TransactionFilter{
		Account:  core.ParseAccountCode(*account),
		Category: *category,
		Limit:    *limit,
	}
	var err error
	if *from != "" {
		if f.From, err = core.ParseDate(*from); err != nil {
			return fmt.Errorf("-from: %w", err)
		}
	}
	if *to != "" {
		if f.To, err = core.ParseDate(*to); err != nil {
			return fmt.Errorf("-to: %w", err)
		}
	}

	txs, err := b.ListTransactions(ctx, f)
	if err != nil {
		return err
	}
	return printTransactions(os.Stdout, txs)
}

func runRecord(ctx context.Context, b backend.Backend, args []string) error {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	date := fs.String("date", time.Now().Format("2006-01-02"), "Transaction date (YYYY-MM-DD)")
	debit := fs.String("debit", "", "Debited account code (receives the amount)")
	credit := fs.String("credit", "", "Credited account code (gives the amount)")
	amount := fs.String("amount", "", "Amount, e.g. 12.50 or 12,50")
	desc := fs.String("desc", "", "Description")
	category := fs.String("category", "", "Category (default "+core.DefaultCategory+")")
	ref := fs.String("ref", "", "External reference")
	owner := fs.String("owner", "", "Owner")
	_ = fs.Parse(args)

	d, err := core.ParseDate(*date)
	if err != nil {
		return fmt.Errorf("-date: %w", err)
	}
	amt, err := core.ParseAmount(*amount)
	if err != nil {
		return fmt.Errorf("-amount: %w", err)
	}

	t, err := b.Record(ctx, core.TransactionDraft{
		Date:          d,
		DebitAccount:  core.ParseAccountCode(*debit),
		CreditAccount: core.ParseAccountCode(*credit),
		Amount:        amt,
		Description:   *desc,
		Category:      *category,
		ExternalRef:   *ref,
		Owner:         *owner,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Recorded %s\n", t)
	return nil
}

func runReverse(ctx context.Context, b backend.Backend, args []string) error {
	fs := flag.NewFlagSet("reverse", flag.ExitOnError)
	id := fs.Int64("id", 0, "Transaction ID to reverse")
	_ = fs.Parse(args)

	if *id <= 0 {
		return errors.New("-id is required")
	}
	t, err := b.Reverse(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("Reversed %s\n", t)
	return nil
}

func runSummary(ctx context.Context, b backend.Backend, args []string) error {
	now := time.Now()
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	year := fs.Int("year", now.Year(), "Year")
	month := fs.Int("month", int(now.Month()), "Month (1-12)")
	_ = fs.Parse(args)

	o, err := b.MonthOverview(ctx, *year, *month)
	if err != nil {
		return err
	}
	return printOverview(os.Stdout, o)
}

func runStats(ctx context.Context, b backend.Backend, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	_ = fs.Parse(args)

	s, err := b.Stats(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Transactions\t%d\n", s.TransactionCount)
	fmt.Fprintf(tw, "Total assets\t%s\n", core.FormatAmount(s.TotalAssets))
	fmt.Fprintf(tw, "Total expenses\t%s\n", core.FormatAmount(s.TotalExpenses))
	if !s.LastTransaction.IsZero() {
		fmt.Fprintf(tw, "Last transaction\t%s\n", s.LastTransaction)
	}
	return tw.Flush()
}

func printAccounts(w io.Writer, accounts []core.Account) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CODE\tNAME\tTYPE\tBALANCE\t")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", a.Code, a.Name, a.Type, core.FormatAmount(a.Balance))
	}
	return tw.Flush()
}

func printTransactions(w io.Writer, txs []core.Transaction) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tDEBIT\tCREDIT\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, t := range txs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date, t.DebitAccount, t.CreditAccount,
			core.FormatAmount(t.Amount), t.Category, t.Description)
	}
	return tw.Flush()
}

func printOverview(w io.Writer, o core.MonthOverview) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%04d-%02d\n", o.Year, o.Month)
	for _, c := range o.Categories() {
		fmt.Fprintf(tw, "  %s\t%s\n", c.Name, core.FormatAmount(c.Amount))
	}
	fmt.Fprintf(tw, "  Total\t%s\n", core.FormatAmount(o.Total))
	return tw.Flush()
}

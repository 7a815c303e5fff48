package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/interchange"
	"fintrack/internal/log"
)

const usage = `usage: fintrack <command> [flags]

commands:
  add           add a transaction (prompts for missing fields)
  list          list transactions with optional filters
  summary       print totals and the category breakdown
  edit          update fields of an existing transaction
  delete        remove a transaction by id
  backup        snapshot the backing file
  export-json   write the ledger to a JSON file
  export-xlsx   write the ledger to an XLSX workbook
  export-sheets push the ledger to a Google Sheets spreadsheet
  export-all    run the JSON and XLSX exports together
  import-json   import transactions from a JSON file
`

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	res := cli.OpenLedger(ctx, logger, cfg)
	defer func() {
		if res.Cleanup != nil {
			if err := res.Cleanup(); err != nil {
				logger.Warn("ledger cleanup failed", log.FieldError, err.Error())
			}
		}
	}()

	app := &app{ledger: res.Ledger, cfg: cfg, logger: logger.WithComponent(log.ComponentCLI)}

	var err error
	switch cmd := os.Args[1]; cmd {
	case "add":
		err = app.add(ctx, os.Args[2:])
	case "list":
		err = app.list(ctx, os.Args[2:])
	case "summary":
		err = app.summary(ctx, os.Args[2:])
	case "edit":
		err = app.edit(ctx, os.Args[2:])
	case "delete":
		err = app.delete(ctx, os.Args[2:])
	case "backup":
		err = app.backup(ctx, os.Args[2:])
	case "export-json":
		err = app.exportJSON(ctx, os.Args[2:])
	case "export-xlsx":
		err = app.exportXLSX(ctx, os.Args[2:])
	case "export-sheets":
		err = app.exportSheets(ctx)
	case "export-all":
		err = app.exportAll(ctx, os.Args[2:])
	case "import-json":
		err = app.importJSON(ctx, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", log.FieldError, err.Error())
		os.Exit(1)
	}
}

type app struct {
	ledger backend.Ledger
	cfg    *config.Config
	logger *log.Logger
}

// add reads missing fields interactively with bounded retries.
func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	date := fs.String("date", "", "transaction date (DD-MM-YYYY, empty means today)")
	amount := fs.String("amount", "", "positive decimal amount")
	category := fs.String("category", "", "Income or Expense")
	desc := fs.String("desc", "", "description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p := cli.NewPrompter(os.Stdin, os.Stdout)
	var err error
	if *date == "" {
		if *date, err = p.Date("Enter the date (DD-MM-YYYY) or press Enter for today: ", true); err != nil {
			return err
		}
	}
	if *amount == "" {
		if *amount, err = p.Amount(); err != nil {
			return err
		}
	}
	if *category == "" {
		if *category, err = p.Category(); err != nil {
			return err
		}
	}
	if *desc == "" {
		if *desc, err = p.Description(); err != nil {
			return err
		}
	}

	t, err := a.ledger.Add(ctx, *date, *amount, *category, *desc)
	if err != nil {
		return err
	}
	fmt.Printf("Transaction #%d added.\n", t.ID)
	return nil
}

func parseFilter(fs *flag.FlagSet, args []string) (core.Filter, error) {
	from := fs.String("from", "", "start date (inclusive, DD-MM-YYYY)")
	to := fs.String("to", "", "end date (inclusive, DD-MM-YYYY)")
	category := fs.String("category", "", "Income or Expense")
	search := fs.String("search", "", "case-insensitive description substring")
	min := fs.String("min", "", "minimum amount (inclusive)")
	max := fs.String("max", "", "maximum amount (inclusive)")
	if err := fs.Parse(args); err != nil {
		return core.Filter{}, err
	}

	var f core.Filter
	if *from != "" {
		d, err := core.ParseDate(*from)
		if err != nil {
			return f, fmt.Errorf("-from: %w", err)
		}
		f.StartDate = &d
	}
	if *to != "" {
		d, err := core.ParseDate(*to)
		if err != nil {
			return f, fmt.Errorf("-to: %w", err)
		}
		f.EndDate = &d
	}
	if *category != "" {
		c, err := core.ParseCategory(*category)
		if err != nil {
			return f, fmt.Errorf("-category: %w", err)
		}
		f.Category = &c
	}
	f.Description = *search
	if *min != "" {
		m, err := core.ParseAmount(*min)
		if err != nil {
			return f, fmt.Errorf("-min: %w", err)
		}
		f.MinAmount = &m
	}
	if *max != "" {
		m, err := core.ParseAmount(*max)
		if err != nil {
			return f, fmt.Errorf("-max: %w", err)
		}
		f.MaxAmount = &m
	}
	return f, nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	f, err := parseFilter(fs, args)
	if err != nil {
		return err
	}

	ts, err := a.ledger.Query(ctx, f)
	if err != nil {
		return err
	}
	if len(ts) == 0 {
		fmt.Println("No transactions found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, t := range ts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date, t.Category, core.FormatAmount(t.Amount, a.cfg.CurrencySymbol), t.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return a.printSummary(ts)
}

func (a *app) summary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	f, err := parseFilter(fs, args)
	if err != nil {
		return err
	}
	ts, err := a.ledger.Query(ctx, f)
	if err != nil {
		return err
	}
	return a.printSummary(ts)
}

func (a *app) printSummary(ts []core.Transaction) error {
	s := core.Summarize(ts)
	sym := a.cfg.CurrencySymbol
	fmt.Printf("\nTotal income:  %s\n", core.FormatAmount(s.TotalIncome, sym))
	fmt.Printf("Total expense: %s\n", core.FormatAmount(s.TotalExpense, sym))
	fmt.Printf("Net savings:   %s%s\n", sym, s.NetSavings.StringFixed(2))
	fmt.Printf("Savings rate:  %.1f%%\n", s.SavingsRate())
	fmt.Printf("Transactions:  %d\n", s.TransactionCount)
	for _, ca := range core.CategoryBreakdown(ts) {
		fmt.Printf("  %-8s %s\n", ca.Category, core.FormatAmount(ca.Amount, sym))
	}
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.Int64("id", 0, "transaction id")
	date := fs.String("date", "", "new date")
	amount := fs.String("amount", "", "new amount")
	category := fs.String("category", "", "new category")
	desc := fs.String("desc", "", "new description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		p := cli.NewPrompter(os.Stdin, os.Stdout)
		var err error
		if *id, err = p.TransactionID(); err != nil {
			return err
		}
	}

	cur, found, err := a.ledger.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if !found {
		fmt.Printf("Transaction #%d not found.\n", *id)
		return nil
	}
	fmt.Printf("Editing #%d: %s %s %s %q\n",
		cur.ID, cur.Date, cur.Category, core.FormatAmount(cur.Amount, a.cfg.CurrencySymbol), cur.Description)

	var patch core.Patch
	if *date != "" {
		patch.Date = date
	}
	if *amount != "" {
		patch.Amount = amount
	}
	if *category != "" {
		patch.Category = category
	}
	if *desc != "" {
		patch.Description = desc
	}

	ok, err := a.ledger.Update(ctx, *id, patch)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("Transaction #%d was not updated (invalid fields).\n", *id)
		return nil
	}
	fmt.Printf("Transaction #%d updated.\n", *id)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int64("id", 0, "transaction id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		p := cli.NewPrompter(os.Stdin, os.Stdout)
		var err error
		if *id, err = p.TransactionID(); err != nil {
			return err
		}
	}

	removed, err := a.ledger.Delete(ctx, *id)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("Transaction #%d not found.\n", *id)
		return nil
	}
	fmt.Printf("Transaction #%d deleted.\n", *id)
	return nil
}

func (a *app) backup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	path := fs.String("path", "", "destination path (default: timestamped sibling)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	used, err := a.ledger.Backup(ctx, *path)
	if err != nil {
		return err
	}
	fmt.Printf("Backup written to %s\n", used)
	return nil
}

func (a *app) exportJSON(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export-json", flag.ExitOnError)
	path := fs.String("path", "finance_data.json", "destination file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := interchange.ExportJSON(ctx, a.ledger, *path, a.logger); err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", *path)
	return nil
}

func (a *app) exportXLSX(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export-xlsx", flag.ExitOnError)
	path := fs.String("path", "finance_data.xlsx", "destination file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := interchange.ExportExcel(ctx, a.ledger, *path, a.logger); err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", *path)
	return nil
}

func (a *app) exportSheets(ctx context.Context) error {
	exp, err := interchange.NewSheetsExporterFromEnv(ctx, a.logger)
	if err != nil {
		return err
	}
	ref, err := exp.Export(ctx, a.ledger)
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", ref)
	return nil
}

// exportAll writes both local formats. The exports only read the
// ledger, so they can run concurrently.
func (a *app) exportAll(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export-all", flag.ExitOnError)
	jsonPath := fs.String("json", "finance_data.json", "JSON destination")
	xlsxPath := fs.String("xlsx", "finance_data.xlsx", "XLSX destination")
	if err := fs.Parse(args); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return interchange.ExportJSON(gctx, a.ledger, *jsonPath, a.logger)
	})
	g.Go(func() error {
		return interchange.ExportExcel(gctx, a.ledger, *xlsxPath, a.logger)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Printf("Exported to %s and %s\n", *jsonPath, *xlsxPath)
	return nil
}

func (a *app) importJSON(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import-json", flag.ExitOnError)
	path := fs.String("path", "", "source file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("import-json: -path is required")
	}
	count, err := interchange.ImportJSON(ctx, a.ledger, *path, a.logger)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d transaction(s) from %s\n", count, *path)
	return nil
}

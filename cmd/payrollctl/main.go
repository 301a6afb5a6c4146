// payrollctl exports payroll runs from the platform into a spreadsheet for
// bookkeeping. It shares the kiosk agent's stored session, so it works on any
// machine the agent is signed in on.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"github.com/arcadehq/workforce-client-go/internal/config"
	"github.com/arcadehq/workforce-client-go/internal/domain/employee"
	"github.com/arcadehq/workforce-client-go/internal/domain/payroll"
	"github.com/arcadehq/workforce-client-go/internal/pkg/apiclient"
	"github.com/arcadehq/workforce-client-go/internal/pkg/export"
	"github.com/arcadehq/workforce-client-go/internal/pkg/session"
	"github.com/arcadehq/workforce-client-go/internal/repository/rest"
	timesheetService "github.com/arcadehq/workforce-client-go/internal/service/timesheet"
)

func main() {
	var (
		shopID     = flag.String("shop", "", "shop ID (defaults to SHOP_ID from the environment)")
		runID      = flag.String("run", "", "export a single payroll run by ID")
		generate   = flag.Bool("generate", false, "generate a new run for the given period before exporting")
		start      = flag.String("start", "", "period start (YYYY-MM-DD), required with -generate")
		end        = flag.String("end", "", "period end (YYYY-MM-DD), required with -generate")
		timesheets = flag.Bool("timesheets", false, "export the weekly timesheet grid instead of payroll runs")
		offset     = flag.Int("offset", 0, "week offset for -timesheets (0 = current week, -1 = last week)")
		out        = flag.String("out", "payroll.xlsx", "output workbook path")
	)
	flag.Parse()

	if err := run(options{
		shopID:     *shopID,
		runID:      *runID,
		generate:   *generate,
		start:      *start,
		end:        *end,
		timesheets: *timesheets,
		offset:     *offset,
		out:        *out,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "payrollctl:", err)
		os.Exit(1)
	}
}

type options struct {
	shopID     string
	runID      string
	generate   bool
	start      string
	end        string
	timesheets bool
	offset     int
	out        string
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.shopID == "" {
		opts.shopID = cfg.Kiosk.ShopID
	}
	if opts.shopID == "" && opts.runID == "" {
		return fmt.Errorf("a shop is required: pass -shop or set SHOP_ID")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	store, err := session.NewFileStore(cfg.Agent.StateDir)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	api := apiclient.New(apiclient.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Session: session.NewManager(store),
		Logger:  logger,
	})

	ctx := context.Background()

	file, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.out, err)
	}
	defer func() { _ = file.Close() }()

	if opts.timesheets {
		if err := exportTimesheets(ctx, api, opts.shopID, opts.offset, logger, file); err != nil {
			return err
		}
		fmt.Printf("wrote timesheet grid to %s\n", opts.out)
		return nil
	}

	runs, err := collectRuns(ctx, rest.NewPayrollRepository(api), opts)
	if err != nil {
		return err
	}
	if err := export.PayrollWorkbook(file, runs); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	fmt.Printf("wrote %d run(s) to %s\n", len(runs), opts.out)
	return nil
}

func exportTimesheets(ctx context.Context, api *apiclient.Client, shopID string, offset int, logger *slog.Logger, file *os.File) error {
	svc := timesheetService.NewTimesheetService(rest.NewTimesheetRepository(api), logger)
	groups, err := svc.LoadWeek(ctx, shopID, offset)
	if err != nil {
		return fmt.Errorf("load week: %w", err)
	}
	if len(groups) == 0 {
		return fmt.Errorf("no timesheet entries for that week")
	}

	// Hourly rates come from the roster; employees missing from it simply get
	// no gross column.
	rates := map[string]decimal.Decimal{}
	employees, err := rest.NewEmployeeRepository(api).List(ctx, employee.ListFilter{ShopID: shopID})
	if err != nil {
		logger.Warn("could not load employee roster, omitting gross amounts", "error", err)
	} else {
		for _, emp := range employees {
			rates[emp.ID] = emp.HourlyRate
		}
	}

	if err := export.TimesheetWorkbook(file, groups[0].WeekStart, groups, rates); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func collectRuns(ctx context.Context, repo payroll.Repository, opts options) ([]payroll.Run, error) {
	if opts.generate {
		run, err := repo.Generate(ctx, payroll.GenerateRequest{
			ShopID:      opts.shopID,
			PeriodStart: opts.start,
			PeriodEnd:   opts.end,
		})
		if err != nil {
			return nil, fmt.Errorf("generate run: %w", err)
		}
		return []payroll.Run{run}, nil
	}

	if opts.runID != "" {
		run, err := repo.Get(ctx, opts.runID)
		if err != nil {
			return nil, fmt.Errorf("fetch run %s: %w", opts.runID, err)
		}
		return []payroll.Run{run}, nil
	}

	summaries, err := repo.List(ctx, payroll.ListFilter{ShopID: opts.shopID})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	// The list endpoint omits lines; fetch each run in full.
	runs := make([]payroll.Run, 0, len(summaries))
	for _, summary := range summaries {
		run, err := repo.Get(ctx, summary.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch run %s: %w", summary.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tradesync/internal/export"
	"tradesync/internal/logger"
	"tradesync/internal/runlog"
	"tradesync/internal/store"
	"tradesync/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config file")
		filePath   = flag.String("file", "", "statement or CSV file to import")
		broker     = flag.String("broker", "", "broker id (defaults to import.default_broker)")
		symbols    = flag.String("symbols", "", "comma-separated symbols for API imports and mapping reports")
		statement  = flag.String("url", "", "fetch and import an MT4/MT5 statement URL")
		preview    = flag.Bool("preview", false, "parse and map without importing")
		report     = flag.Bool("report", false, "print a mapping report for -symbols and exit")
		from       = flag.String("from", "", "start of date range (2006-01-02)")
		to         = flag.String("to", "", "end of date range (2006-01-02)")
		exportPath = flag.String("export", "", "write the normalized trades to this CSV file")
		summary    = flag.String("summary", "", "write a per-symbol summary to this CSV file")
	)
	flag.Parse()

	must(initializeSystem())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer logger.Shutdown(context.Background())

	cfg, err := store.LoadConfig(*configPath)
	must(err)

	if v := os.Getenv("TRADESYNC_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		_ = runlog.CompressOlder(n)
	}

	sys, err := buildSystem(cfg)
	must(err)

	brokerID := *broker
	if brokerID == "" {
		brokerID = cfg.Import.DefaultBroker
	}

	if *report {
		rep := sys.svc.MappingReport(ctx, splitSymbols(*symbols), brokerID)
		printJSON(rep)
		return
	}

	dryRun := cfg.Mode == "DRY_RUN" && !*preview
	if dryRun {
		logger.Info(ctx, "DRY_RUN mode: previewing only, no run log entry", "broker", brokerID)
	}

	res, err := runImport(ctx, sys, importArgs{
		file:     *filePath,
		url:      *statement,
		brokerID: brokerID,
		symbols:  splitSymbols(*symbols),
		preview:  *preview || dryRun,
		from:     *from,
		to:       *to,
	})
	if err != nil && res == nil {
		log.Fatal(err)
	}
	if !*preview && !dryRun {
		if err := runlog.Append(res); err != nil {
			logger.Warn(ctx, "run log append failed", "error", err)
		}
	}
	if *exportPath != "" {
		must(export.WriteTrades(*exportPath, res))
	}
	if *summary != "" {
		must(export.WriteSummary(*summary, res))
	}
	printJSON(res)
	if !res.Success {
		os.Exit(1)
	}
}

type importArgs struct {
	file     string
	url      string
	brokerID string
	symbols  []string
	preview  bool
	from, to string
}

func runImport(ctx context.Context, sys *system, args importArgs) (*types.ImportResult, error) {
	if args.url != "" {
		return sys.mt5.ParseURL(ctx, args.url, args.brokerID)
	}

	src := types.ImportSource{BrokerID: args.brokerID, Symbols: args.symbols}
	if args.file != "" {
		data, err := os.ReadFile(args.file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", args.file, err)
		}
		src.Data = data
		src.Filename = args.file
	}
	if t, ok := parseDay(args.from); ok {
		src.From = t
	}
	if t, ok := parseDay(args.to); ok {
		src.To = t
	}

	if args.preview {
		return sys.svc.Preview(ctx, src)
	}
	return sys.svc.Import(ctx, src)
}

func splitSymbols(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, sym := range strings.Split(s, ",") {
		if sym = strings.TrimSpace(sym); sym != "" {
			out = append(out, sym)
		}
	}
	return out
}

func parseDay(s string) (*time.Time, bool) {
	if s == "" {
		return nil, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		log.Fatalf("bad date %q: expected 2006-01-02", s)
	}
	return &t, true
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

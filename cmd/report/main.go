package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"onhostel/internal/config"
	"onhostel/internal/database"
	"onhostel/internal/logging"
	"onhostel/internal/reports"
)

// Офлайн-генерация месячного отчета без запуска панели.
func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "configs/config.yaml", "path to config file")
		monthFlag  = flag.String("month", "", "report month in YYYY-MM format (default: current)")
		outDir     = flag.String("out", "", "output directory (default: reports path from config)")
		barReport  = flag.Bool("bar", false, "generate the bar ledger report instead of the monthly one")
	)
	flag.Parse()

	if env := os.Getenv("CONFIG_PATH"); env != "" && *configPath == "configs/config.yaml" {
		*configPath = env
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	logger := baseLogger.With().Str("component", "report-main").Logger()

	month := time.Now()
	if *monthFlag != "" {
		month, err = time.ParseInLocation("2006-01", *monthFlag, time.Local)
		if err != nil {
			return fmt.Errorf("invalid -month %q: expected YYYY-MM", *monthFlag)
		}
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	path := cfg.Reports.Path
	if *outDir != "" {
		path = *outDir
	}
	generator := reports.NewGenerator(db, path, &logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var file string
	if *barReport {
		file, err = generator.BarReport(ctx, month)
	} else {
		file, err = generator.MonthlyReport(ctx, month)
	}
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	fmt.Println(file)
	return nil
}

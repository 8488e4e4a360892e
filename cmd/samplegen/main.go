package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"autobi/adapters/excel"
	"autobi/internal/testkit"
)

func main() {
	out := flag.String("out", "vendas_exemplo.xlsx", "output file path (.xlsx or .csv)")
	rows := flag.Int("rows", 500, "number of sales")
	days := flag.Int("days", 180, "number of days covered")
	growth := flag.Float64("growth", 2, "extra units per sale reached by the last day")
	seed := flag.Int64("seed", 42, "RNG seed (deterministic)")
	start := flag.String("start", "2024-01-01", "start date (YYYY-MM-DD)")
	flag.Parse()

	if *rows <= 0 || *days <= 0 {
		fmt.Fprintln(os.Stderr, "rows and days must be > 0")
		os.Exit(2)
	}

	startDate, err := time.ParseInLocation("2006-01-02", *start, time.UTC)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -start (expected YYYY-MM-DD):", err)
		os.Exit(2)
	}

	cfg := testkit.DefaultSalesConfig()
	cfg.Rows = *rows
	cfg.Days = *days
	cfg.Growth = *growth
	cfg.Seed = *seed
	cfg.StartDate = startDate

	ds := testkit.NewSalesGenerator(cfg).Generate()
	if err := excel.WriteFile(*out, ds); err != nil {
		fmt.Fprintln(os.Stderr, "error writing sample:", err)
		os.Exit(1)
	}

	fmt.Printf("Sample sales file created: %s\n", *out)
	fmt.Printf("Columns: %d | Rows: %d\n", ds.Width(), ds.Rows())
}

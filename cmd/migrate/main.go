package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"autobi/adapters/postgres"
	"autobi/domain/core"
	"autobi/domain/report"
	"autobi/internal/migration"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [report_dir]")
	}

	databaseURL := os.Args[1]
	ctx := context.Background()

	// Connect to database
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema at version %s", runner.Version())

	if len(os.Args) < 3 {
		return
	}

	// Import reports previously written by `autobi analyze --output`
	reportDir := os.Args[2]
	files, err := findReportFiles(reportDir)
	if err != nil {
		log.Fatalf("Failed to find report files: %v", err)
	}
	log.Printf("Found %d report files to import", len(files))

	repo := postgres.NewReportRepository(db)
	imported := 0
	skipped := 0

	for _, file := range files {
		rep, err := loadReportFromFile(file)
		if err != nil {
			log.Printf("Failed to load report from %s: %v", file, err)
			skipped++
			continue
		}

		if err := repo.Save(ctx, filepath.Base(file), rep); err != nil {
			log.Printf("Failed to save report %s: %v", rep.ID, err)
			skipped++
			continue
		}

		imported++
		log.Printf("Imported report %s from %s", rep.ID, filepath.Base(file))
	}

	log.Printf("Import complete: %d imported, %d skipped", imported, skipped)
}

func findReportFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(path, ".json") {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

func loadReportFromFile(filePath string) (*report.Report, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var result report.Report
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	if _, err := core.ParseReportID(result.ID.String()); err != nil {
		return nil, err
	}

	return &result, nil
}

package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"autobi/adapters/excel"
	"autobi/adapters/llm"
	"autobi/adapters/postgres"
	"autobi/internal"
	"autobi/internal/config"
	"autobi/internal/dashboard"
	"autobi/internal/enhance"
	"autobi/internal/migration"
	"autobi/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer); nil without a database
	Reports ports.ReportRepository

	// Enhancement
	LLM       ports.LLMClient
	Enhancers *enhance.Router

	// Analysis
	Reader       *excel.DataReader
	Orchestrator *dashboard.Orchestrator
}

// New creates a new dependency injection container. Components that need a
// database are wired later by Connect or InitWithDatabase.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.initEnhancement(); err != nil {
		return nil, fmt.Errorf("failed to initialize enhancement: %w", err)
	}

	readerConfig := excel.DefaultConfig()
	readerConfig.MaxRows = cfg.Data.MaxRows
	c.Reader = excel.NewDataReader(readerConfig, logger)
	c.Orchestrator = dashboard.NewOrchestrator(cfg.Heuristics, nil, c.Enhancers, logger)
	return c, nil
}

// initEnhancement wires the language-model provider when a key is configured
func (c *Container) initEnhancement() error {
	settings := c.Config.Heuristics.Enhance
	settings.Model = c.Config.AI.Model
	settings.Timeout = c.Config.AI.Timeout

	deterministic := enhance.NewDeterministic(settings)
	if !c.Config.AI.Enabled() {
		c.Enhancers = enhance.NewRouter(settings, deterministic, nil)
		c.Logger.Debug("no LLM key configured, using deterministic enhancement only")
		return nil
	}

	client, err := llm.NewClient(llm.Config{
		Model:       c.Config.AI.Model,
		APIKey:      c.Config.AI.APIKey,
		BaseURL:     c.Config.AI.BaseURL,
		Temperature: c.Config.AI.Temperature,
		Timeout:     c.Config.AI.Timeout,
	})
	if err != nil {
		return err
	}
	c.LLM = client
	c.Enhancers = enhance.NewRouter(settings, deterministic, enhance.NewLLMDecorator(settings, client, deterministic, c.Logger))
	return nil
}

// Connect opens the configured database, if any, and wires report history
func (c *Container) Connect(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		return nil
	}
	db, err := sqlx.Open("postgres", c.Config.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := c.InitWithDatabase(ctx, db); err != nil {
		db.Close()
		return err
	}
	return nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.DB = db
	c.Reports = postgres.NewReportRepository(db)
	c.Logger.Info("report history enabled")
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	// Close database connection
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

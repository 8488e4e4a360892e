package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"autobi/domain/report"
	"autobi/internal"
	"autobi/internal/config"
	"autobi/internal/container"
	"autobi/internal/dashboard"
	"autobi/internal/kpi"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:          "autobi",
		Short:        "Automatic dashboards from spreadsheets",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newProfileCmd(),
		newTemplatesCmd(),
		newAskCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newContainer(ctx context.Context) (*container.Container, error) {
	appConfig, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	c, err := container.New(appConfig, logger)
	if err != nil {
		return nil, err
	}
	if err := c.Connect(ctx); err != nil {
		logger.Warn("report history unavailable: %v", err)
	}
	return c, nil
}

func newAnalyzeCmd() *cobra.Command {
	var (
		opts    dashboard.Request
		goals   []string
		now     string
		output  string
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Build the dashboard report of a CSV or XLSX file",
		Long: `Build the dashboard report of a CSV or XLSX file and print it as JSON.

Example: autobi analyze vendas.csv --template sales --plan pro --period 90d --goal revenue=50000:2024-12-31`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedGoals, err := parseGoals(goals)
			if err != nil {
				return err
			}
			if now != "" {
				t, err := parseNow(now)
				if err != nil {
					return err
				}
				opts.Now = t
			}

			if err := dashboard.ValidateTemplate(opts.Template); err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := newContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			ds, err := c.Reader.ReadFile(ctx, args[0])
			if err != nil {
				return err
			}
			opts.Dataset = ds
			opts.Goals = parsedGoals

			rep, err := c.Orchestrator.Analyze(ctx, opts)
			if err != nil {
				return err
			}
			if c.Reports != nil {
				if err := c.Reports.Save(ctx, args[0], rep); err != nil {
					c.Logger.Warn("report %s not stored: %v", rep.ID, err)
				}
			}
			return writeOutput(cmd.OutOrStdout(), output, rep, !compact)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Template, "template", "sales", "Dashboard template: sales, financial, performance, custom")
	flags.StringVar(&opts.Plan, "plan", "free", "Plan tier: free, starter, pro, enterprise")
	flags.StringVar(&opts.Period, "period", "all", "Period filter: all, 30d, 90d, ytd")
	flags.BoolVar(&opts.Compare, "compare", false, "Flag the report as a period comparison")
	flags.StringVar(&opts.Industry, "industry", "", "Industry used for benchmarking")
	flags.BoolVar(&opts.AutoMapping, "auto-mapping", false, "Ask the enhancement provider for a column mapping")
	flags.StringVar(&opts.Mapping.Value, "value-column", "", "Column holding the monetary value")
	flags.StringVar(&opts.Mapping.Quantity, "quantity-column", "", "Column holding quantities")
	flags.StringVar(&opts.Mapping.Date, "date-column", "", "Column holding the transaction date")
	flags.StringVar(&opts.Mapping.Product, "product-column", "", "Column holding the product name")
	flags.StringArrayVar(&goals, "goal", nil, "Goal as metric=target[:deadline], repeatable")
	flags.StringVar(&now, "now", "", "Reference date for relative periods (YYYY-MM-DD or RFC3339)")
	flags.StringVarP(&output, "output", "o", "", "Write the report to a file instead of stdout")
	flags.BoolVar(&compact, "compact", false, "Print compact JSON")

	return cmd
}

func newProfileCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "profile FILE",
		Short: "Classify the columns of a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := newContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			ds, err := c.Reader.ReadFile(ctx, args[0])
			if err != nil {
				return err
			}
			profile, err := c.Orchestrator.Profile(ctx, ds)
			if err != nil {
				return err
			}
			if output != "" {
				return writeOutput(cmd.OutOrStdout(), output, profile, true)
			}
			return printProfile(cmd.OutOrStdout(), profile)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the profile as JSON to a file")
	return cmd
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List dashboard templates and their default KPIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TEMPLATE\tKPI\tAGGREGATION\tFORMAT")
			for _, t := range report.Templates {
				defs, err := kpi.SuggestedKPIs(string(t))
				if err != nil {
					return err
				}
				if len(defs) == 0 {
					fmt.Fprintf(w, "%s\t(automatic)\t\t\n", t)
				}
				for _, d := range defs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t, d.Label, d.Aggregation, d.Format)
				}
			}
			return w.Flush()
		},
	}
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask REPORT.json QUESTION",
		Short: "Answer a short question about a saved report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var rep report.Report
			if err := json.Unmarshal(raw, &rep); err != nil {
				return fmt.Errorf("invalid report file %s: %w", args[0], err)
			}
			answer := dashboard.AnswerQuestion(&rep, args[1])
			fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
			for _, a := range answer.SuggestedActions {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s (%s)\n", a.Label, a.Action)
			}
			return nil
		},
	}
}

// parseGoals reads metric=target[:deadline] flags
func parseGoals(raw []string) ([]dashboard.Goal, error) {
	goals := make([]dashboard.Goal, 0, len(raw))
	for _, g := range raw {
		metric, rest, ok := strings.Cut(g, "=")
		if !ok || strings.TrimSpace(metric) == "" {
			return nil, fmt.Errorf("invalid goal %q, expected metric=target[:deadline]", g)
		}
		target, deadline, _ := strings.Cut(rest, ":")
		value, err := strconv.ParseFloat(strings.TrimSpace(target), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid goal target %q: %w", target, err)
		}
		goals = append(goals, dashboard.Goal{
			Metric:   strings.TrimSpace(metric),
			Target:   value,
			Deadline: strings.TrimSpace(deadline),
		})
	}
	return goals, nil
}

func parseNow(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q (use YYYY-MM-DD or RFC3339)", s)
	}
	return t, nil
}

func writeOutput(stdout io.Writer, path string, v interface{}, pretty bool) error {
	var (
		raw []byte
		err error
	)
	if pretty {
		raw, err = json.MarshalIndent(v, "", "  ")
	} else {
		raw, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	if path == "" {
		_, err = stdout.Write(raw)
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func printProfile(out io.Writer, p *dashboard.Profile) error {
	fmt.Fprintf(out, "%d rows, quality %.1f (%s)\n\n", p.Rows, float64(p.Analysis.QualityScore), p.Analysis.QualityLevel)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tSEMANTIC TYPE\tROLE\tCONFIDENCE")
	for _, col := range p.Analysis.Columns {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n", col.Name, col.SemanticType, col.Role, col.Confidence)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(p.Analysis.Relationships) > 0 {
		fmt.Fprintln(out, "\nRelationships:")
		for _, e := range p.Analysis.Relationships {
			fmt.Fprintf(out, "  %s -> %s (%s, %.2f)\n", e.From, e.To, e.Type, e.Confidence)
		}
	}
	if len(p.DataQuality) > 0 {
		fmt.Fprintln(out, "\nData quality:")
		for _, problem := range p.DataQuality {
			fmt.Fprintf(out, "  [%s] %s\n", problem.Severity, problem.Message)
		}
	}
	return nil
}

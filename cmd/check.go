package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"db-verify/internal/dataset"
	"db-verify/internal/dialect"
	"db-verify/internal/schema"
	"db-verify/internal/verify"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	snapshotPath string
	outDir       string
	tables       []string
	workers      int
	timeout      time.Duration
	dryRun       bool
	skipPreviews bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the import snapshot against the live database",
	RunE: func(cmd *cobra.Command, args []string) error {
		// New Config Logic
		var config DBConfig
		activeConfig, err := GetActiveDBConfig()
		if err == nil {
			config = *activeConfig
		} else {
			// Fallback to CLI flags if config file is missing or invalid.
			// RootCmd.PersistentPreRunE already set DriverName and DB.
			if DriverName == "" {
				return fmt.Errorf("could not determine driver: ensure config file exists or use --dsn and --driver flags")
			}
			config = DBConfig{
				Name:   "CLI Wrapper",
				Driver: DriverName,
				DSN:    dsn,
				Active: true,
			}
		}

		fmt.Printf("🔍 Connected via %s (%s)\n", config.Driver, config.DSN)

		if DB == nil {
			db, err := sql.Open(config.Driver, config.DSN)
			if err != nil {
				return fmt.Errorf("failed to open db: %w", err)
			}
			DB = db
		}

		db := DB
		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}

		DriverName = config.Driver
		if SchemaName == "" {
			if config.Driver == "mysql" {
				db.QueryRow("SELECT DATABASE()").Scan(&SchemaName)
			} else if config.Driver == "sqlserver" || config.Driver == "mssql" {
				SchemaName = "dbo"
			} else {
				SchemaName = "public"
			}
		}

		// 0. Get Dialect
		d := dialect.GetDialect(DriverName)
		log.Printf("Using Dialect: %s\n", DriverName)

		// 1. Load declaration
		decl, err := loadDeclaration()
		if err != nil {
			return err
		}

		// Filter tables strategy:
		// 1. Check CLI flag --tables
		// 2. If empty, check config settings.tables
		// 3. If both empty, check all declared tables.
		targetTableNames := tables
		if len(targetTableNames) == 0 {
			targetTableNames = viper.GetStringSlice("settings.tables")
		}
		if len(targetTableNames) > 0 {
			decl, err = filterDeclaration(decl, targetTableNames)
			if err != nil {
				return err
			}
		}

		// Dry Run
		if dryRun {
			log.Println("[SIMULATION] Dry-Run Mode Active: No checks will be executed.")
			fmt.Printf("🔍 Planned checks:\n")
			for i, t := range decl.Tables {
				fmt.Printf("[%02d] %s (PK: %s)\n", i+1, t.Name, strings.Join(t.PrimaryKey, ", "))
			}
			for _, e := range decl.Edges {
				fmt.Printf("     edge %s\n", e)
			}
			return nil
		}

		// 2. Load snapshot
		path := snapshotPath
		if path == "" {
			path = viper.GetString("snapshot.path")
		}
		if path == "" {
			path = "app.json"
		}
		log.Printf("Loading snapshot %s...", path)
		data, err := dataset.LoadJSON(path)
		if err != nil {
			return err
		}

		// 3. Options
		opts := loadOptions()
		if workers > 0 {
			opts.Workers = workers
		}
		if !skipPreviews {
			opts.Previews, err = loadPreviews()
			if err != nil {
				return err
			}
		}

		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		runner := verify.NewRunner(db, d, SchemaName, decl, data, opts)

		log.Printf("Starting verification of %d tables and %d edges...", len(decl.Tables), len(decl.Edges))
		start := time.Now()

		// 4. Setup Progress Bar
		uiprogress.Start()
		bar := uiprogress.AddBar(runner.Steps()).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Verifying: "
		})

		// 5. Run all audits
		report, err := runner.Run(ctx, func() {
			bar.Incr()
		})

		uiprogress.Stop()

		if err != nil {
			return err
		}

		// 6. Final Report
		report.Render(os.Stdout)

		if outDir != "" {
			if err := report.WriteCSV(outDir); err != nil {
				return err
			}
			log.Printf("Anomaly lists written to %s", outDir)
		}

		elapsed := time.Since(start)
		if !report.Clean() {
			fmt.Printf("\n❌ Integrity findings detected (%.2fs). Review mismatches and orphans above.\n", elapsed.Seconds())
			os.Exit(1)
		}
		fmt.Printf("\n✅ Integrity check finished clean in %.2fs.\n", elapsed.Seconds())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "path to the import snapshot JSON (default from config, then app.json)")
	checkCmd.Flags().StringVar(&outDir, "out-dir", "", "directory for CSV anomaly exports (disabled when empty)")
	checkCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "comma-separated tables to verify (default: all declared)")
	checkCmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of concurrent audits (default from config)")
	checkCmd.Flags().DurationVar(&timeout, "timeout", 0, "abort the run after this duration (0 = no timeout)")
	checkCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print planned checks without touching the database")
	checkCmd.Flags().BoolVar(&skipPreviews, "no-previews", false, "skip the sample previews section")
}

// filterDeclaration keeps only the requested tables, plus the edges whose
// both endpoints survive.
func filterDeclaration(decl *schema.Declaration, names []string) (*schema.Declaration, error) {
	req := make(map[string]bool)
	for _, n := range names {
		req[strings.ToLower(n)] = true
	}

	out := &schema.Declaration{}
	for _, t := range decl.Tables {
		if req[strings.ToLower(t.Name)] {
			out.Tables = append(out.Tables, t)
		}
	}
	if len(out.Tables) == 0 {
		return nil, fmt.Errorf("no matching tables found for inputs: %v", names)
	}
	kept := make(map[string]bool)
	for _, t := range out.Tables {
		kept[t.Name] = true
	}
	for _, e := range decl.Edges {
		if kept[e.ChildTable] && kept[e.ParentTable] {
			out.Edges = append(out.Edges, e)
		}
	}
	return out, nil
}

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"db-verify/internal/dataset"
	"db-verify/internal/dialect"
	"db-verify/internal/verify"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	previewSnapshot string
	previewTables   []string
	previewLimit    int
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show snapshot plaintext next to the store's ciphertext for spot audits",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Connection is established by RootCmd.PersistentPreRunE.
		if DB == nil {
			return fmt.Errorf("no database connection; check --dsn or the config file")
		}

		d := dialect.GetDialect(DriverName)

		decl, err := loadDeclaration()
		if err != nil {
			return err
		}

		path := previewSnapshot
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

		opts := loadOptions()
		if previewLimit > 0 {
			opts.SampleLimit = previewLimit
		}
		opts.Previews, err = loadPreviews()
		if err != nil {
			return err
		}

		// Narrow to requested tables, if any.
		if len(previewTables) > 0 {
			req := make(map[string]bool)
			for _, t := range previewTables {
				req[t] = true
			}
			var specs []verify.PreviewSpec
			for _, s := range opts.Previews {
				if req[s.Table] {
					specs = append(specs, s)
				}
			}
			for _, t := range previewTables {
				found := false
				for _, s := range specs {
					if s.Table == t {
						found = true
						break
					}
				}
				if !found {
					// tables without preview config still get generic discovery
					specs = append(specs, verify.PreviewSpec{Table: t})
				}
			}
			opts.Previews = specs
		}

		runner := verify.NewRunner(DB, d, SchemaName, decl, data, opts)
		previews, err := runner.Previews(context.Background())
		if err != nil {
			return err
		}

		report := &verify.Report{Previews: previews}
		report.Render(os.Stdout)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVar(&previewSnapshot, "snapshot", "", "path to the import snapshot JSON (default from config, then app.json)")
	previewCmd.Flags().StringSliceVarP(&previewTables, "tables", "t", []string{}, "tables to preview (default: configured previews)")
	previewCmd.Flags().IntVarP(&previewLimit, "limit", "n", 0, "sample rows per table (default from config, then 10)")
}

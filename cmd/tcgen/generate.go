package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TailGuy/Telegraf-conf-generator/internal/generator"
	"github.com/TailGuy/Telegraf-conf-generator/internal/history"
	"github.com/TailGuy/Telegraf-conf-generator/internal/infrastructure/database"
)

// Generate command flag values. Flags override config and environment.
var (
	flagCSVFile    string
	flagOutputFile string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the Telegraf configuration file",
	Long: `Run the full pipeline: load node descriptors from the CSV file,
build and validate an MQTT topic for every node (sanitising illegal
names), render the Telegraf document, verify it parses as TOML, and
write it to the output file. When run history is enabled the run is
recorded in the SQLite history database.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&flagCSVFile, "csv", "",
		"CSV file of node descriptors (overrides config)")
	generateCmd.Flags().StringVar(&flagOutputFile, "output", "",
		"output file path (overrides config)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagCSVFile != "" {
		cfg.Generator.CSVFile = flagCSVFile
	}
	if flagOutputFile != "" {
		cfg.Generator.OutputFile = flagOutputFile
	}

	log := newLogger(cfg)
	log.Info("starting generation",
		"version", version,
		"csv_file", cfg.Generator.CSVFile,
		"output_file", cfg.Generator.OutputFile,
	)

	// History is optional: the artifact matters more than the ledger,
	// but a history database that cannot be opened at all is a
	// configuration problem worth failing on.
	var runs history.Repository
	if cfg.History.Enabled {
		db, dbErr := database.Open(database.Config{
			Path:        cfg.History.Path,
			WALMode:     cfg.History.WALMode,
			BusyTimeout: cfg.History.BusyTimeout,
		})
		if dbErr != nil {
			return fmt.Errorf("opening history database: %w", dbErr)
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing history database", "error", closeErr)
			}
		}()

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("migrating history database: %w", migrateErr)
		}

		runs = history.NewSQLiteRepository(db.DB)
	}

	summary, err := generator.New(cfg, log, runs, version).Run(ctx)
	if err != nil {
		return err
	}

	printSummary(cmd, summary)
	return nil
}

// printSummary writes the human-readable summary block to stdout. The
// same counters are logged structurally by the generator; this block is
// for operators running the tool by hand.
func printSummary(cmd *cobra.Command, s *generator.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "--- Generation Summary ---")
	fmt.Fprintf(out, "Rows read:        %d\n", s.RowsRead)
	fmt.Fprintf(out, "Nodes processed:  %d\n", s.NodesProcessed)
	fmt.Fprintf(out, "Rows skipped:     %d\n", s.RowsSkipped)
	fmt.Fprintf(out, "Topics sanitised: %d\n", s.TopicsSanitized)
	fmt.Fprintf(out, "Topics rejected:  %d\n", s.TopicsRejected)
	fmt.Fprintf(out, "Duplicate topics: %d\n", s.DuplicateTopics)
	fmt.Fprintf(out, "Output:           %s (%d bytes)\n", s.OutputPath, s.OutputBytes)
	fmt.Fprintf(out, "SHA-256:          %s\n", s.OutputSHA256)
	fmt.Fprintf(out, "Duration:         %s\n", s.Duration)
}

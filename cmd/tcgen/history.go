package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/TailGuy/Telegraf-conf-generator/internal/history"
	"github.com/TailGuy/Telegraf-conf-generator/internal/infrastructure/database"
)

// History command flag values.
var (
	flagHistoryLimit int
	flagHistoryCSV   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded generation runs",
	Long: `List past generation runs from the SQLite history database, newest
first. Requires history.enabled in the configuration.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 0,
		"maximum runs to list (default 50, max 200)")
	historyCmd.Flags().StringVar(&flagHistoryCSV, "csv", "",
		"only list runs for this CSV file")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("run history is disabled; set history.enabled: true in the configuration")
	}

	db, err := database.Open(database.Config{
		Path:        cfg.History.Path,
		WALMode:     cfg.History.WALMode,
		BusyTimeout: cfg.History.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Read-only listing; nothing to lose on close

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating history database: %w", err)
	}

	repo := history.NewSQLiteRepository(db.DB)
	res, err := repo.List(ctx, history.Filter{
		CSVFile: flagHistoryCSV,
		Limit:   flagHistoryLimit,
	})
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(res.Runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tCSV\tNODES\tSANITISED\tREJECTED\tOUTPUT")
	for _, r := range res.Runs {
		fmt.Fprintf(w, "%s\t%s\t%dms\t%s\t%d\t%d\t%d\t%s\n",
			r.ID,
			r.StartedAt.Local().Format(time.RFC3339),
			r.DurationMS,
			r.CSVFile,
			r.NodesProcessed,
			r.TopicsSanitized,
			r.TopicsRejected,
			r.OutputFile,
		)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing run table: %w", err)
	}

	fmt.Fprintf(out, "\nShowing %d of %d run(s)\n", len(res.Runs), res.Total)
	return nil
}

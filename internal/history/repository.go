// Package history provides access to the generation_runs table for
// querying past generator runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Run represents a single recorded generation run.
type Run struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	DurationMS      int64     `json:"duration_ms"`
	CSVFile         string    `json:"csv_file"`
	OutputFile      string    `json:"output_file"`
	RowsRead        int       `json:"rows_read"`
	NodesProcessed  int       `json:"nodes_processed"`
	RowsSkipped     int       `json:"rows_skipped"`
	TopicsSanitized int       `json:"topics_sanitized"`
	TopicsRejected  int       `json:"topics_rejected"`
	DuplicateTopics int       `json:"duplicate_topics"`
	OutputBytes     int64     `json:"output_bytes"`
	OutputSHA256    string    `json:"output_sha256"`
	ToolVersion     string    `json:"tool_version,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Filter controls which runs to return.
type Filter struct {
	CSVFile string // optional: filter by source CSV file
	Limit   int    // default 50, max 200
	Offset  int    // pagination offset
}

// ListResult contains the paginated run results.
type ListResult struct {
	Runs   []Run `json:"runs"`
	Total  int   `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// Repository defines the interface for run history operations.
type Repository interface {
	Record(ctx context.Context, run *Run) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
}

// SQLiteRepository stores generation runs in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new run history repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Record inserts a new run. The ID, StartedAt and CreatedAt are generated
// if empty.
func (r *SQLiteRepository) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = "run-" + uuid.NewString()[:8]
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.CreatedAt
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO generation_runs (
			id, started_at, duration_ms, csv_file, output_file,
			rows_read, nodes_processed, rows_skipped,
			topics_sanitized, topics_rejected, duplicate_topics,
			output_bytes, output_sha256, tool_version, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339), run.DurationMS,
		run.CSVFile, run.OutputFile,
		run.RowsRead, run.NodesProcessed, run.RowsSkipped,
		run.TopicsSanitized, run.TopicsRejected, run.DuplicateTopics,
		run.OutputBytes, run.OutputSHA256,
		nullableString(run.ToolVersion),
		run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting generation run: %w", err)
	}

	return nil
}

// nullableString returns nil for empty strings, or the string otherwise.
// Used for nullable TEXT columns in SQLite.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// List returns runs matching the filter, ordered by most recent first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	// Clamp limit.
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 { //nolint:mnd // max page size for history queries
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	// Build WHERE clause dynamically.
	var conditions []string
	var args []any

	if filter.CSVFile != "" {
		conditions = append(conditions, "csv_file = ?")
		args = append(args, filter.CSVFile)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Get total count.
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM generation_runs %s", where) //nolint:gosec // WHERE built from parameterised conditions, not user input
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting generation runs: %w", err)
	}

	// Get paginated results.
	query := fmt.Sprintf( //nolint:gosec // WHERE built from parameterised conditions, not user input
		`SELECT id, started_at, duration_ms, csv_file, output_file,
			rows_read, nodes_processed, rows_skipped,
			topics_sanitized, topics_rejected, duplicate_topics,
			output_bytes, output_sha256, tool_version, created_at
		FROM generation_runs %s ORDER BY started_at DESC, id LIMIT ? OFFSET ?`,
		where,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying generation runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var toolVersion sql.NullString
		var startedAt, createdAt string

		if err := rows.Scan(&run.ID, &startedAt, &run.DurationMS,
			&run.CSVFile, &run.OutputFile,
			&run.RowsRead, &run.NodesProcessed, &run.RowsSkipped,
			&run.TopicsSanitized, &run.TopicsRejected, &run.DuplicateTopics,
			&run.OutputBytes, &run.OutputSHA256, &toolVersion, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning generation run: %w", err)
		}

		if toolVersion.Valid {
			run.ToolVersion = toolVersion.String
		}

		if run.StartedAt, err = parseTimestamp(startedAt); err != nil {
			return nil, fmt.Errorf("parsing run started_at %q: %w", startedAt, err)
		}
		if run.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("parsing run created_at %q: %w", createdAt, err)
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating generation runs: %w", err)
	}

	if runs == nil {
		runs = []Run{}
	}

	return &ListResult{
		Runs:   runs,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// parseTimestamp reads a stored timestamp, tolerating the second-precision
// form older rows may carry.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05Z", s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t, nil
}

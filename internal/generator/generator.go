package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/TailGuy/Telegraf-conf-generator/internal/history"
	"github.com/TailGuy/Telegraf-conf-generator/internal/infrastructure/config"
	"github.com/TailGuy/Telegraf-conf-generator/internal/infrastructure/logging"
	"github.com/TailGuy/Telegraf-conf-generator/internal/nodes"
	"github.com/TailGuy/Telegraf-conf-generator/internal/telegraf"
	"github.com/TailGuy/Telegraf-conf-generator/internal/topic"
)

// Output file permission constants.
const (
	// outputDirPermissions is the permission mode for created output directories.
	outputDirPermissions = 0750

	// outputFilePermissions is the permission mode for the generated document.
	outputFilePermissions = 0644
)

// Generator runs the CSV to Telegraf configuration pipeline.
type Generator struct {
	cfg     *config.Config
	log     *logging.Logger
	runs    history.Repository
	version string
}

// New creates a Generator.
//
// Parameters:
//   - cfg: validated configuration
//   - log: structured logger
//   - runs: run history repository, nil when history is disabled
//   - version: tool version recorded with each run
func New(cfg *config.Config, log *logging.Logger, runs history.Repository, version string) *Generator {
	return &Generator{
		cfg:     cfg,
		log:     log,
		runs:    runs,
		version: version,
	}
}

// Summary reports what a run did.
type Summary struct {
	// RowsRead is the number of CSV data rows read (header excluded).
	RowsRead int

	// NodesProcessed is the number of nodes rendered into the document.
	NodesProcessed int

	// RowsSkipped is the number of rows dropped during CSV parsing.
	RowsSkipped int

	// TopicsSanitized is the number of topics rewritten to become valid.
	TopicsSanitized int

	// TopicsRejected is the number of nodes dropped because their topic
	// stayed invalid after sanitising.
	TopicsRejected int

	// DuplicateTopics is the number of nodes sharing an earlier node's
	// final topic. Duplicates are rendered, not dropped.
	DuplicateTopics int

	// OutputPath is where the document was written.
	OutputPath string

	// OutputBytes is the rendered document size.
	OutputBytes int64

	// OutputSHA256 is the hex SHA-256 of the rendered document.
	OutputSHA256 string

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// Run executes one generation pass.
//
// Parameters:
//   - ctx: Context for timeout/cancellation of history writes
//
// Returns:
//   - *Summary: counters and output details for the run
//   - error: If the CSV cannot be read, rendering fails, the rendered
//     document does not verify, or the output cannot be written
func (g *Generator) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	res, err := nodes.LoadFile(g.cfg.Generator.CSVFile)
	if err != nil {
		return nil, fmt.Errorf("loading node descriptors: %w", err)
	}

	for _, w := range res.Warnings {
		g.log.Warn("skipping CSV row", "line", w.Line, "code", w.Code, "detail", w.Detail)
	}

	summary := &Summary{
		RowsRead:    res.RowsRead,
		RowsSkipped: len(res.Warnings),
		OutputPath:  g.cfg.Generator.OutputFile,
	}

	kept := g.assignTopics(res.Nodes, summary)
	summary.NodesProcessed = len(kept)

	if len(kept) == 0 {
		g.log.Warn("no usable nodes in CSV; generating empty configuration",
			"csv_file", g.cfg.Generator.CSVFile)
	}

	doc, err := telegraf.Render(settingsFromConfig(g.cfg), kept)
	if err != nil {
		return nil, err
	}

	if err := telegraf.Verify(doc); err != nil {
		return nil, fmt.Errorf("verifying rendered document: %w", err)
	}

	if err := writeDocument(summary.OutputPath, doc); err != nil {
		return nil, err
	}

	digest := sha256.Sum256(doc)
	summary.OutputBytes = int64(len(doc))
	summary.OutputSHA256 = hex.EncodeToString(digest[:])
	summary.Duration = time.Since(start)

	g.recordRun(ctx, start, summary)

	g.log.Info("generation complete",
		"csv_file", g.cfg.Generator.CSVFile,
		"output_file", summary.OutputPath,
		"rows_read", summary.RowsRead,
		"nodes", summary.NodesProcessed,
		"rows_skipped", summary.RowsSkipped,
		"topics_sanitised", summary.TopicsSanitized,
		"topics_rejected", summary.TopicsRejected,
		"duplicate_topics", summary.DuplicateTopics,
		"bytes", summary.OutputBytes,
		"sha256", summary.OutputSHA256,
		"duration", summary.Duration.String(),
	)

	return summary, nil
}

// assignTopics builds each node's MQTT topic from the configured prefix,
// sanitising where needed. Nodes whose topics stay invalid after
// sanitising (over the byte or depth limits) are dropped entirely, so the
// input stanzas and MQTT outputs stay paired one-to-one.
func (g *Generator) assignTopics(nodeList []nodes.Node, summary *Summary) []nodes.Node {
	prefix := g.cfg.Generator.TopicPrefix
	kept := make([]nodes.Node, 0, len(nodeList))
	seen := make(map[string]string, len(nodeList))

	for _, node := range nodeList {
		name := prefix + topic.Separator + node.Identifier

		if !topic.Validate(name) {
			sanitised := topic.Sanitize(name)
			if !topic.Validate(sanitised) {
				summary.TopicsRejected++
				g.log.Error("dropping node: topic invalid after sanitising",
					"node_id", node.ID, "topic", name, "error", topic.Check(sanitised))
				continue
			}
			summary.TopicsSanitized++
			g.log.Warn("sanitised MQTT topic",
				"node_id", node.ID, "topic", name, "sanitised", sanitised)
			name = sanitised
		}

		if firstID, dup := seen[name]; dup {
			summary.DuplicateTopics++
			g.log.Warn("duplicate MQTT topic",
				"topic", name, "node_id", node.ID, "first_node_id", firstID)
		} else {
			seen[name] = node.ID
		}

		node.Topic = name
		kept = append(kept, node)
	}

	return kept
}

// recordRun stores the run in the history repository. History is best
// effort: a failed insert is logged and never fails the run.
func (g *Generator) recordRun(ctx context.Context, start time.Time, summary *Summary) {
	if g.runs == nil {
		return
	}

	run := &history.Run{
		StartedAt:       start.UTC(),
		DurationMS:      summary.Duration.Milliseconds(),
		CSVFile:         g.cfg.Generator.CSVFile,
		OutputFile:      summary.OutputPath,
		RowsRead:        summary.RowsRead,
		NodesProcessed:  summary.NodesProcessed,
		RowsSkipped:     summary.RowsSkipped,
		TopicsSanitized: summary.TopicsSanitized,
		TopicsRejected:  summary.TopicsRejected,
		DuplicateTopics: summary.DuplicateTopics,
		OutputBytes:     summary.OutputBytes,
		OutputSHA256:    summary.OutputSHA256,
		ToolVersion:     g.version,
	}

	if err := g.runs.Record(ctx, run); err != nil {
		g.log.Warn("failed to record run history", "error", err)
	}
}

// settingsFromConfig maps the loaded configuration onto the renderer's
// settings.
func settingsFromConfig(cfg *config.Config) telegraf.Settings {
	return telegraf.Settings{
		Agent: telegraf.AgentSettings{
			Interval:          cfg.Agent.Interval,
			RoundInterval:     cfg.Agent.RoundInterval,
			MetricBatchSize:   cfg.Agent.MetricBatchSize,
			MetricBufferLimit: cfg.Agent.MetricBufferLimit,
			CollectionJitter:  cfg.Agent.CollectionJitter,
			FlushInterval:     cfg.Agent.FlushInterval,
			FlushJitter:       cfg.Agent.FlushJitter,
			Precision:         cfg.Agent.Precision,
			Hostname:          cfg.Agent.Hostname,
			OmitHostname:      cfg.Agent.OmitHostname,
		},
		OPCUA: telegraf.OPCUASettings{
			Endpoint:       cfg.OPCUA.Endpoint,
			SecurityPolicy: cfg.OPCUA.SecurityPolicy,
			SecurityMode:   cfg.OPCUA.SecurityMode,
			Certificate:    cfg.OPCUA.Certificate,
			PrivateKey:     cfg.OPCUA.PrivateKey,
			AuthMethod:     cfg.OPCUA.AuthMethod,
			Username:       cfg.OPCUA.Username,
			Password:       cfg.OPCUA.Password,
			ConnectTimeout: cfg.OPCUA.ConnectTimeout,
			RequestTimeout: cfg.OPCUA.RequestTimeout,
		},
		InfluxDB: telegraf.InfluxDBSettings{
			URL:          cfg.InfluxDB.URL,
			Token:        cfg.InfluxDB.Token,
			Organization: cfg.InfluxDB.Org,
			Bucket:       cfg.InfluxDB.Bucket,
		},
		MQTT: telegraf.MQTTSettings{
			Broker:     cfg.MQTT.Broker,
			QoS:        cfg.MQTT.QoS,
			Retain:     cfg.MQTT.Retain,
			DataFormat: cfg.MQTT.DataFormat,
		},
	}
}

// writeDocument writes the rendered document, creating the output
// directory if needed.
func writeDocument(path string, doc []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, outputDirPermissions); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, doc, outputFilePermissions); err != nil { //nolint:gosec // Generated config is read by the Telegraf service, not a secret
		return fmt.Errorf("writing output file: %w", err)
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/TailGuy/Telegraf-conf-generator/internal/topic"
)

// DefaultPath is where the CLI looks for a configuration file when none is
// given. A missing file at this path is not an error; the built-in
// defaults are used instead.
const DefaultPath = "configs/config.yaml"

// Config is the root configuration structure for the generator.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Generator GeneratorConfig `yaml:"generator"`
	Agent     AgentConfig     `yaml:"agent"`
	OPCUA     OPCUAConfig     `yaml:"opcua"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	History   HistoryConfig   `yaml:"history"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GeneratorConfig contains the input, output and topic settings for a run.
type GeneratorConfig struct {
	CSVFile     string `yaml:"csv_file"`
	OutputFile  string `yaml:"output_file"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// AgentConfig contains the values rendered into the [agent] section.
// Durations are kept as strings because they pass straight through to the
// document; Validate checks that they parse.
type AgentConfig struct {
	Interval          string `yaml:"interval"`
	RoundInterval     bool   `yaml:"round_interval"`
	MetricBatchSize   int    `yaml:"metric_batch_size"`
	MetricBufferLimit int    `yaml:"metric_buffer_limit"`
	CollectionJitter  string `yaml:"collection_jitter"`
	FlushInterval     string `yaml:"flush_interval"`
	FlushJitter       string `yaml:"flush_jitter"`
	Precision         string `yaml:"precision"`
	Hostname          string `yaml:"hostname"`
	OmitHostname      bool   `yaml:"omit_hostname"`
}

// OPCUAConfig contains the values rendered into the [[inputs.opcua]] block.
type OPCUAConfig struct {
	Endpoint       string `yaml:"endpoint"`
	SecurityPolicy string `yaml:"security_policy"`
	SecurityMode   string `yaml:"security_mode"`
	Certificate    string `yaml:"certificate"`
	PrivateKey     string `yaml:"private_key"`
	AuthMethod     string `yaml:"auth_method"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	ConnectTimeout string `yaml:"connect_timeout"`
	RequestTimeout string `yaml:"request_timeout"`
}

// MQTTConfig contains the values rendered into the per-node
// [[outputs.mqtt]] blocks.
type MQTTConfig struct {
	Broker     string `yaml:"broker"`
	QoS        int    `yaml:"qos"`
	Retain     bool   `yaml:"retain"`
	DataFormat string `yaml:"data_format"`
}

// InfluxDBConfig contains the values rendered into the
// [[outputs.influxdb_v2]] block. Token and Org may hold "$VAR" references
// for Telegraf to expand at its own startup.
type InfluxDBConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

// HistoryConfig contains settings for the SQLite run history.
type HistoryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: TCGEN_SECTION_KEY
// For example: TCGEN_CSV_FILE, TCGEN_OPCUA_ENDPOINT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration with environment variable
// overrides applied. Used when no configuration file exists at
// DefaultPath.
//
// Returns:
//   - *Config: Default configuration, validated
//   - error: If an environment override fails validation
func Default() (*Config, error) {
	cfg := defaultConfig()

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			CSVFile:     "nodes_output_new.csv",
			OutputFile:  "telegraf.conf",
			TopicPrefix: "telegraf/opcua",
		},
		Agent: AgentConfig{
			Interval:          "10s",
			RoundInterval:     true,
			MetricBatchSize:   1000,
			MetricBufferLimit: 10000,
			CollectionJitter:  "0s",
			FlushInterval:     "10s",
			FlushJitter:       "0s",
			Precision:         "",
			Hostname:          "",
			OmitHostname:      true,
		},
		OPCUA: OPCUAConfig{
			Endpoint:       "opc.tcp://100.94.111.58:4841",
			SecurityPolicy: "None",
			SecurityMode:   "None",
			AuthMethod:     "Anonymous",
			ConnectTimeout: "10s",
			RequestTimeout: "5s",
		},
		MQTT: MQTTConfig{
			Broker:     "tcp://mosquitto:1883",
			QoS:        0,
			Retain:     false,
			DataFormat: "json",
		},
		InfluxDB: InfluxDBConfig{
			URL:    "http://64.226.126.250:8086",
			Token:  "$DOCKER_INFLUXDB_INIT_ADMIN_TOKEN",
			Org:    "$DOCKER_INFLUXDB_INIT_ORG",
			Bucket: "OPC UA",
		},
		History: HistoryConfig{
			Enabled:     true,
			Path:        "./data/tcgen.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: TCGEN_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Generator
	if v := os.Getenv("TCGEN_CSV_FILE"); v != "" {
		cfg.Generator.CSVFile = v
	}
	if v := os.Getenv("TCGEN_OUTPUT_FILE"); v != "" {
		cfg.Generator.OutputFile = v
	}

	// OPC UA
	if v := os.Getenv("TCGEN_OPCUA_ENDPOINT"); v != "" {
		cfg.OPCUA.Endpoint = v
	}
	if v := os.Getenv("TCGEN_OPCUA_USERNAME"); v != "" {
		cfg.OPCUA.Username = v
	}
	if v := os.Getenv("TCGEN_OPCUA_PASSWORD"); v != "" {
		cfg.OPCUA.Password = v
	}

	// MQTT
	if v := os.Getenv("TCGEN_MQTT_BROKER"); v != "" {
		cfg.MQTT.Broker = v
	}

	// InfluxDB
	if v := os.Getenv("TCGEN_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("TCGEN_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// History
	if v := os.Getenv("TCGEN_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}

	// Logging
	if v := os.Getenv("TCGEN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Generator validation
	if c.Generator.CSVFile == "" {
		errs = append(errs, "generator.csv_file is required")
	}
	if c.Generator.OutputFile == "" {
		errs = append(errs, "generator.output_file is required")
	}
	if err := topic.Check(c.Generator.TopicPrefix); err != nil {
		errs = append(errs, fmt.Sprintf("generator.topic_prefix: %v", err))
	}

	// Agent validation
	if c.Agent.MetricBatchSize < 1 {
		errs = append(errs, "agent.metric_batch_size must be positive")
	}
	if c.Agent.MetricBufferLimit < c.Agent.MetricBatchSize {
		errs = append(errs, "agent.metric_buffer_limit must be at least agent.metric_batch_size")
	}

	// OPC UA validation
	if !strings.HasPrefix(c.OPCUA.Endpoint, "opc.tcp://") {
		errs = append(errs, "opcua.endpoint must start with opc.tcp://")
	}
	if !oneOf(c.OPCUA.SecurityPolicy, "None", "Basic128Rsa15", "Basic256", "Basic256Sha256") {
		errs = append(errs, "opcua.security_policy must be None, Basic128Rsa15, Basic256 or Basic256Sha256")
	}
	if !oneOf(c.OPCUA.SecurityMode, "None", "Sign", "SignAndEncrypt") {
		errs = append(errs, "opcua.security_mode must be None, Sign or SignAndEncrypt")
	}
	if c.OPCUA.SecurityMode != "None" {
		if c.OPCUA.Certificate == "" {
			errs = append(errs, "opcua.certificate is required when opcua.security_mode is not None")
		}
		if c.OPCUA.PrivateKey == "" {
			errs = append(errs, "opcua.private_key is required when opcua.security_mode is not None")
		}
	}
	if !oneOf(c.OPCUA.AuthMethod, "Anonymous", "UserName", "Certificate") {
		errs = append(errs, "opcua.auth_method must be Anonymous, UserName or Certificate")
	}
	if c.OPCUA.AuthMethod == "UserName" && c.OPCUA.Username == "" {
		errs = append(errs, "opcua.username is required when opcua.auth_method is UserName")
	}

	// Duration fields pass through to the document as-is; they still have
	// to parse, or Telegraf would reject the generated file.
	durations := []struct{ key, value string }{
		{"agent.interval", c.Agent.Interval},
		{"agent.collection_jitter", c.Agent.CollectionJitter},
		{"agent.flush_interval", c.Agent.FlushInterval},
		{"agent.flush_jitter", c.Agent.FlushJitter},
		{"opcua.connect_timeout", c.OPCUA.ConnectTimeout},
		{"opcua.request_timeout", c.OPCUA.RequestTimeout},
	}
	for _, d := range durations {
		if _, err := time.ParseDuration(d.value); err != nil {
			errs = append(errs, fmt.Sprintf("%s is not a valid duration: %q", d.key, d.value))
		}
	}

	// MQTT validation
	if !strings.Contains(c.MQTT.Broker, "://") {
		errs = append(errs, "mqtt.broker must include a scheme, e.g. tcp://host:1883")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.DataFormat == "" {
		errs = append(errs, "mqtt.data_format is required")
	}

	// InfluxDB validation
	if !strings.Contains(c.InfluxDB.URL, "://") {
		errs = append(errs, "influxdb.url must include a scheme, e.g. http://host:8086")
	}
	if c.InfluxDB.Bucket == "" {
		errs = append(errs, "influxdb.bucket is required")
	}

	// History validation
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, "history.path is required when history.enabled is true")
	}
	if c.History.BusyTimeout < 0 {
		errs = append(errs, "history.busy_timeout must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// oneOf reports whether value matches one of the allowed alternatives.
func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// IsNotExist reports whether err from Load means the file was absent, as
// opposed to unreadable or invalid. The CLI uses this to fall back to
// Default when DefaultPath has no file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

package telegraf

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"github.com/TailGuy/Telegraf-conf-generator/internal/nodes"
)

// Settings carries every value the document template interpolates. The
// generator builds one from the loaded configuration; tests build them
// literally.
type Settings struct {
	Agent    AgentSettings
	OPCUA    OPCUASettings
	InfluxDB InfluxDBSettings
	MQTT     MQTTSettings
}

// AgentSettings populates the [agent] section.
type AgentSettings struct {
	Interval          string
	RoundInterval     bool
	MetricBatchSize   int
	MetricBufferLimit int
	CollectionJitter  string
	FlushInterval     string
	FlushJitter       string
	Precision         string
	Hostname          string
	OmitHostname      bool
}

// OPCUASettings populates the [[inputs.opcua]] block. Username and
// Password are only rendered when AuthMethod is "UserName"; otherwise the
// template emits the commented-out placeholders.
type OPCUASettings struct {
	Endpoint       string
	SecurityPolicy string
	SecurityMode   string
	Certificate    string
	PrivateKey     string
	AuthMethod     string
	Username       string
	Password       string
	ConnectTimeout string
	RequestTimeout string
}

// InfluxDBSettings populates the [[outputs.influxdb_v2]] block. Token and
// Organization commonly hold env var references such as
// "$DOCKER_INFLUXDB_INIT_ADMIN_TOKEN"; they are passed through verbatim
// for Telegraf to expand.
type InfluxDBSettings struct {
	URL          string
	Token        string
	Organization string
	Bucket       string
}

// MQTTSettings populates the per-node [[outputs.mqtt]] blocks.
type MQTTSettings struct {
	Broker     string
	QoS        int
	Retain     bool
	DataFormat string
}

type document struct {
	Settings Settings
	Nodes    []nodes.Node
}

// Render produces the complete Telegraf configuration document for the
// given settings and node list. Output is deterministic: nodes are
// rendered in slice order and no timestamps or other varying values are
// embedded. An empty node list yields a valid document with no node
// stanzas and no MQTT outputs.
//
// Parameters:
//   - settings: interpolated agent, input and output values
//   - nodeList: parsed nodes in CSV row order, with topics already assigned
//
// Returns:
//   - []byte: the rendered document
//   - error: template execution failure
func Render(settings Settings, nodeList []nodes.Node) ([]byte, error) {
	var buf bytes.Buffer

	err := documentTemplate.Execute(&buf, document{Settings: settings, Nodes: nodeList})
	if err != nil {
		return nil, fmt.Errorf("rendering document: %w", err)
	}

	return buf.Bytes(), nil
}

// quote renders s as a TOML basic string. strconv.Quote escapes the
// double quotes and backslashes that would otherwise terminate the string
// early; plain values render unchanged apart from the surrounding quotes.
func quote(s string) string {
	return strconv.Quote(s)
}

var documentTemplate = template.Must(template.New("telegraf").
	Funcs(template.FuncMap{"quote": quote}).
	Parse(documentTemplateText))

// documentTemplateText is the whole document. Node identifiers render as
// multi-line literal strings ('''), which keeps identifiers containing
// double quotes or backslashes intact without escaping.
const documentTemplateText = `# Telegraf Configuration for OPC UA Monitoring
# Generated from CSV file

###############################################################################
#                            AGENT SETTINGS                                   #
###############################################################################
[agent]
  interval = {{ quote .Settings.Agent.Interval }}
  round_interval = {{ .Settings.Agent.RoundInterval }}
  metric_batch_size = {{ .Settings.Agent.MetricBatchSize }}
  metric_buffer_limit = {{ .Settings.Agent.MetricBufferLimit }}
  collection_jitter = {{ quote .Settings.Agent.CollectionJitter }}
  flush_interval = {{ quote .Settings.Agent.FlushInterval }}
  flush_jitter = {{ quote .Settings.Agent.FlushJitter }}
  precision = {{ quote .Settings.Agent.Precision }}
  hostname = {{ quote .Settings.Agent.Hostname }}
  omit_hostname = {{ .Settings.Agent.OmitHostname }}

###############################################################################
#                            INPUT PLUGINS                                    #
###############################################################################

# Read data from an OPC UA server
[[inputs.opcua]]
  ## OPC UA Server Endpoint URL.
  endpoint = {{ quote .Settings.OPCUA.Endpoint }} # Replace with your OPC UA Server URL

  ## Security policy: "None", "Basic128Rsa15", "Basic256", "Basic256Sha256".
  security_policy = {{ quote .Settings.OPCUA.SecurityPolicy }}
  ## Security mode: "None", "Sign", "SignAndEncrypt".
  security_mode = {{ quote .Settings.OPCUA.SecurityMode }}

  ## Path to certificate file (Required if SecurityMode != "None").
  certificate = {{ quote .Settings.OPCUA.Certificate }}
  ## Path to private key file (Required if SecurityMode != "None").
  private_key = {{ quote .Settings.OPCUA.PrivateKey }}

  ## Authentication method: "Anonymous", "UserName", "Certificate".
  auth_method = {{ quote .Settings.OPCUA.AuthMethod }}
{{- if eq .Settings.OPCUA.AuthMethod "UserName" }}
  username = {{ quote .Settings.OPCUA.Username }}
  password = {{ quote .Settings.OPCUA.Password }}
{{- else }}
  # username = "" # Required if AuthMethod="UserName"
  # password = "" # Required if AuthMethod="UserName"
{{- end }}

  ## Connection timeout for establishing the OPC UA connection.
  connect_timeout = {{ quote .Settings.OPCUA.ConnectTimeout }}
  ## Request timeout for individual OPC UA read requests.
  request_timeout = {{ quote .Settings.OPCUA.RequestTimeout }}

  ## Node Configuration: Define the OPC UA nodes to read data from.
{{ range .Nodes }}  [[inputs.opcua.nodes]]
    name = {{ quote .Name }}
    namespace = {{ quote .Namespace }}
    identifier_type = {{ quote .IdentifierType }}
    identifier = '''{{ .Identifier }}'''
{{ end }}
###############################################################################
#                            OUTPUT PLUGINS                                   #
###############################################################################

# --- InfluxDB v2 Output ---
[[outputs.influxdb_v2]]
  urls = [{{ quote .Settings.InfluxDB.URL }}] # Replace with your InfluxDB URL
  token = {{ quote .Settings.InfluxDB.Token }} # Replace with your InfluxDB Token or env var
  organization = {{ quote .Settings.InfluxDB.Organization }} # Replace with your InfluxDB Org or env var
  bucket = {{ quote .Settings.InfluxDB.Bucket }}

# --- MQTT Outputs: One per Node (Filtering on 'id' tag) ---
{{ range .Nodes }}# MQTT Output for Node: {{ .Identifier }}
[[outputs.mqtt]]
  servers = [{{ quote $.Settings.MQTT.Broker }}] # Replace with your MQTT broker address
  topic = {{ quote .Topic }}
  tagpass = { id = [{{ quote .ID }}] }
  qos = {{ $.Settings.MQTT.QoS }}
  retain = {{ $.Settings.MQTT.Retain }}
  data_format = {{ quote $.Settings.MQTT.DataFormat }}
{{ end }}`

package telegraf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/TailGuy/Telegraf-conf-generator/internal/nodes"
)

func defaultSettings() Settings {
	return Settings{
		Agent: AgentSettings{
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
		OPCUA: OPCUASettings{
			Endpoint:       "opc.tcp://100.94.111.58:4841",
			SecurityPolicy: "None",
			SecurityMode:   "None",
			Certificate:    "",
			PrivateKey:     "",
			AuthMethod:     "Anonymous",
			ConnectTimeout: "10s",
			RequestTimeout: "5s",
		},
		InfluxDB: InfluxDBSettings{
			URL:          "http://64.226.126.250:8086",
			Token:        "$DOCKER_INFLUXDB_INIT_ADMIN_TOKEN",
			Organization: "$DOCKER_INFLUXDB_INIT_ORG",
			Bucket:       "OPC UA",
		},
		MQTT: MQTTSettings{
			Broker:     "tcp://mosquitto:1883",
			QoS:        0,
			Retain:     false,
			DataFormat: "json",
		},
	}
}

func testNode(identifier, name string) nodes.Node {
	return nodes.Node{
		ID:             "ns=2;s=" + identifier,
		Name:           name,
		Namespace:      "2",
		IdentifierType: "s",
		Identifier:     identifier,
		Topic:          "telegraf/opcua/" + identifier,
	}
}

const singleNodeDocument = `# Telegraf Configuration for OPC UA Monitoring
# Generated from CSV file

###############################################################################
#                            AGENT SETTINGS                                   #
###############################################################################
[agent]
  interval = "10s"
  round_interval = true
  metric_batch_size = 1000
  metric_buffer_limit = 10000
  collection_jitter = "0s"
  flush_interval = "10s"
  flush_jitter = "0s"
  precision = ""
  hostname = ""
  omit_hostname = true

###############################################################################
#                            INPUT PLUGINS                                    #
###############################################################################

# Read data from an OPC UA server
[[inputs.opcua]]
  ## OPC UA Server Endpoint URL.
  endpoint = "opc.tcp://100.94.111.58:4841" # Replace with your OPC UA Server URL

  ## Security policy: "None", "Basic128Rsa15", "Basic256", "Basic256Sha256".
  security_policy = "None"
  ## Security mode: "None", "Sign", "SignAndEncrypt".
  security_mode = "None"

  ## Path to certificate file (Required if SecurityMode != "None").
  certificate = ""
  ## Path to private key file (Required if SecurityMode != "None").
  private_key = ""

  ## Authentication method: "Anonymous", "UserName", "Certificate".
  auth_method = "Anonymous"
  # username = "" # Required if AuthMethod="UserName"
  # password = "" # Required if AuthMethod="UserName"

  ## Connection timeout for establishing the OPC UA connection.
  connect_timeout = "10s"
  ## Request timeout for individual OPC UA read requests.
  request_timeout = "5s"

  ## Node Configuration: Define the OPC UA nodes to read data from.
  [[inputs.opcua.nodes]]
    name = "Furnace Temperature"
    namespace = "2"
    identifier_type = "s"
    identifier = '''Device1.Temperature'''

###############################################################################
#                            OUTPUT PLUGINS                                   #
###############################################################################

# --- InfluxDB v2 Output ---
[[outputs.influxdb_v2]]
  urls = ["http://64.226.126.250:8086"] # Replace with your InfluxDB URL
  token = "$DOCKER_INFLUXDB_INIT_ADMIN_TOKEN" # Replace with your InfluxDB Token or env var
  organization = "$DOCKER_INFLUXDB_INIT_ORG" # Replace with your InfluxDB Org or env var
  bucket = "OPC UA"

# --- MQTT Outputs: One per Node (Filtering on 'id' tag) ---
# MQTT Output for Node: Device1.Temperature
[[outputs.mqtt]]
  servers = ["tcp://mosquitto:1883"] # Replace with your MQTT broker address
  topic = "telegraf/opcua/Device1.Temperature"
  tagpass = { id = ["ns=2;s=Device1.Temperature"] }
  qos = 0
  retain = false
  data_format = "json"
`

func TestRenderSingleNodeDocument(t *testing.T) {
	got, err := Render(defaultSettings(), []nodes.Node{testNode("Device1.Temperature", "Furnace Temperature")})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if string(got) != singleNodeDocument {
		t.Errorf("Render() mismatch\ngot:\n%s\nwant:\n%s", got, singleNodeDocument)
	}
}

func TestRenderEmptyNodeList(t *testing.T) {
	got, err := Render(defaultSettings(), nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	doc := string(got)

	if strings.Contains(doc, "[[inputs.opcua.nodes]]") {
		t.Error("Render() emitted node stanzas for an empty node list")
	}
	if strings.Contains(doc, "[[outputs.mqtt]]") {
		t.Error("Render() emitted MQTT outputs for an empty node list")
	}
	if !strings.Contains(doc, "[[outputs.influxdb_v2]]") {
		t.Error("Render() dropped the InfluxDB output")
	}
	if !strings.HasSuffix(doc, "# --- MQTT Outputs: One per Node (Filtering on 'id' tag) ---\n") {
		t.Errorf("Render() unexpected document tail: %q", doc[len(doc)-80:])
	}
	if err := Verify(got); err != nil {
		t.Errorf("Verify() rejected empty-list document: %v", err)
	}
}

func TestRenderPreservesNodeOrder(t *testing.T) {
	nodeList := []nodes.Node{
		testNode("Device1.Temperature", "Temperature"),
		testNode("Device1.Pressure", "Pressure"),
		testNode("Device2.Flow", "Flow"),
	}

	got, err := Render(defaultSettings(), nodeList)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	doc := string(got)
	last := -1
	for _, node := range nodeList {
		idx := strings.Index(doc, "# MQTT Output for Node: "+node.Identifier+"\n")
		if idx < 0 {
			t.Fatalf("Render() missing MQTT block for %q", node.Identifier)
		}
		if idx < last {
			t.Errorf("Render() emitted %q out of CSV order", node.Identifier)
		}
		last = idx
	}

	// Consecutive MQTT blocks sit flush against each other.
	if !strings.Contains(doc, "data_format = \"json\"\n# MQTT Output for Node: Device1.Pressure") {
		t.Error("Render() separated adjacent MQTT blocks")
	}
}

func TestRenderUserNameAuth(t *testing.T) {
	settings := defaultSettings()
	settings.OPCUA.AuthMethod = "UserName"
	settings.OPCUA.Username = "operator"
	settings.OPCUA.Password = "s3cret"

	got, err := Render(settings, nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	doc := string(got)

	if !strings.Contains(doc, "  username = \"operator\"\n  password = \"s3cret\"\n") {
		t.Error("Render() missing credential lines for UserName auth")
	}
	if strings.Contains(doc, "# username = \"\"") {
		t.Error("Render() kept commented credential placeholders alongside real credentials")
	}
}

func TestRenderEscapesQuotedValues(t *testing.T) {
	node := testNode("Device1.Temperature", `Line "A" Sensor`)

	got, err := Render(defaultSettings(), []nodes.Node{node})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(string(got), `name = "Line \"A\" Sensor"`) {
		t.Error("Render() did not escape double quotes in the node name")
	}
	if err := Verify(got); err != nil {
		t.Errorf("Verify() rejected document with escaped name: %v", err)
	}
}

func TestRenderDeterministic(t *testing.T) {
	nodeList := []nodes.Node{
		testNode("Device1.Temperature", "Temperature"),
		testNode("Device1.Pressure", "Pressure"),
	}

	first, err := Render(defaultSettings(), nodeList)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	second, err := Render(defaultSettings(), nodeList)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("Render() output differs between identical calls")
	}
}

func TestRenderParsesAsTOML(t *testing.T) {
	nodeList := []nodes.Node{
		testNode("Device1.Temperature", "Temperature"),
		testNode(`Recipe"7".Step`, "Recipe Step"),
	}

	got, err := Render(defaultSettings(), nodeList)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(got, &doc); err != nil {
		t.Fatalf("rendered document is not valid TOML: %v", err)
	}

	outputs, ok := doc["outputs"].(map[string]any)
	if !ok {
		t.Fatal("rendered document missing [outputs] tables")
	}
	mqtt, ok := outputs["mqtt"].([]map[string]any)
	if !ok {
		t.Fatalf("outputs.mqtt decoded as %T, want array of tables", outputs["mqtt"])
	}
	if len(mqtt) != len(nodeList) {
		t.Errorf("decoded %d MQTT outputs, want %d", len(mqtt), len(nodeList))
	}
}

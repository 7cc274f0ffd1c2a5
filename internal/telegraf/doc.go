// Package telegraf renders the generated Telegraf configuration document.
//
// The document layout is fixed: a banner header, the [agent] section, one
// [[inputs.opcua]] block with a [[inputs.opcua.nodes]] stanza per node,
// one [[outputs.influxdb_v2]] block, and one [[outputs.mqtt]] block per
// node filtering on the node's id tag. Everything variable comes from
// Settings and the node list; rendering is deterministic, so the same
// inputs always produce byte-identical output.
//
// Telegraf reads its configuration as TOML. Verify re-parses a rendered
// document to catch malformed output (an unescaped quote smuggled in via
// a CSV field, for instance) before it reaches disk. It is a syntax check
// only: no knowledge of Telegraf's plugin schema is applied.
package telegraf

// Package generator orchestrates a configuration generation run.
//
// A run reads the node descriptor CSV, assigns each node an MQTT topic
// under the configured prefix (sanitising names that carry illegal
// characters and dropping the rare node whose topic cannot be made
// valid), renders the Telegraf document, verifies it parses as TOML,
// writes it to the output path and records the run in the history store.
//
// The run is deliberately all-or-nothing on the output side: the file is
// only written after the rendered document has passed verification, so a
// half-broken telegraf.conf never lands on disk.
package generator

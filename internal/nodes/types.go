package nodes

import (
	"fmt"
	"strings"
)

// Node is one OPC UA node descriptor taken from a CSV row.
type Node struct {
	// ID is the raw NodeId column value, e.g. "ns=2;s=Device1.Temperature".
	// It is embedded verbatim in generated tag filters.
	ID string

	// Name is the CustomName column value, used as the metric name.
	Name string

	// Namespace is the namespace index parsed from ID (the "ns=" part).
	Namespace string

	// IdentifierType is the OPC UA identifier form: "s" (string),
	// "i" (numeric), "g" (guid) or "b" (bytestring).
	IdentifierType string

	// Identifier is the node identifier within the namespace.
	Identifier string

	// Topic is the MQTT topic assigned after validation/sanitisation.
	// Empty until the generator fills it in.
	Topic string
}

// Warning records a row that was skipped during a read and why.
type Warning struct {
	// Line is the 1-based line number in the input file.
	Line int

	// Code is one of the Warn* constants.
	Code string

	// Detail carries the offending value or a short description.
	Detail string
}

// Result is the outcome of reading a descriptor file.
type Result struct {
	// Nodes contains the usable descriptors in file order.
	Nodes []Node

	// Warnings contains one entry per skipped row.
	Warnings []Warning

	// RowsRead is the number of data rows seen, including skipped ones.
	RowsRead int
}

// identifierTypePrefixes maps NodeId identifier prefixes to their
// single-letter type codes, in the order they are probed.
var identifierTypePrefixes = [...]string{"s=", "i=", "g=", "b="}

// ParseNodeID splits a raw NodeId into namespace, identifier type and
// identifier.
//
// The expected form is "ns=<index>;<type>=<identifier>", e.g.
// "ns=2;s=Device1.Temperature" or "ns=4;i=2045". A second part with no
// recognised type prefix is taken verbatim as a string identifier, which
// matches how loosely real-world CSV exports follow the convention.
//
// Parameters:
//   - raw: NodeId column value
//
// Returns:
//   - namespace: Namespace index as written (without "ns=")
//   - identifierType: "s", "i", "g" or "b"
//   - identifier: Identifier within the namespace
//   - error: ErrInvalidNodeID if raw does not split into two ';' parts
func ParseNodeID(raw string) (namespace, identifierType, identifier string, err error) {
	parts := strings.Split(raw, ";")
	if len(parts) != 2 {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidNodeID, raw)
	}

	namespace = strings.TrimPrefix(parts[0], "ns=")
	identifierType, identifier = splitIdentifier(parts[1])
	return namespace, identifierType, identifier, nil
}

// splitIdentifier separates the identifier-type prefix from the
// identifier. Unprefixed identifiers are treated as strings.
func splitIdentifier(s string) (identifierType, identifier string) {
	for _, p := range identifierTypePrefixes {
		if strings.HasPrefix(s, p) {
			return p[:1], s[len(p):]
		}
	}
	return "s", s
}

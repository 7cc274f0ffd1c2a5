package nodes

import "errors"

// Sentinel errors for descriptor file reads.
var (
	// ErrNoHeader indicates the file is empty or has no header row.
	ErrNoHeader = errors.New("nodes: no header row")

	// ErrMissingColumn indicates the header lacks a required column.
	ErrMissingColumn = errors.New("nodes: required column missing")

	// ErrInvalidNodeID indicates a NodeId value is not in
	// "ns=<index>;<identifier>" form.
	ErrInvalidNodeID = errors.New("nodes: invalid NodeId format")
)

// Warning codes for skipped rows.
const (
	WarnMissingFields = "MISSING_REQUIRED_FIELDS"
	WarnShortRow      = "SHORT_ROW"
	WarnBadNodeID     = "INVALID_NODE_ID"
)

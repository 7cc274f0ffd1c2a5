package nodes

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column aliases accepted in the header row, all lowercase. Exports from
// different tooling disagree on word separation, so a few spellings of
// each required column are recognised.
var (
	nodeIDAliases = []string{"nodeid", "node_id", "node id"}
	nameAliases   = []string{"customname", "custom_name", "custom name"}
)

// LoadFile reads node descriptors from the CSV file at path.
//
// A missing or unreadable file is an error (fatal for a generation run, as
// opposed to row-level problems, which become Warnings on the Result).
func LoadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening descriptor file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	result, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return result, nil
}

// Read parses node descriptors from r.
//
// The first record is the header; NodeId and CustomName columns are
// located case-insensitively. Each subsequent record becomes a Node, or a
// Warning when it is short, has blank required fields, or carries a
// malformed NodeId. Structurally broken CSV (unterminated quotes and the
// like) aborts the read.
//
// Parameters:
//   - r: CSV input
//
// Returns:
//   - *Result: Parsed nodes plus per-row warnings
//   - error: Header or file-level failures only
func Read(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // Row widths vary across exports; checked per row below.
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	colIndex := indexColumns(header)
	idCol := findColumn(colIndex, nodeIDAliases...)
	nameCol := findColumn(colIndex, nameAliases...)
	if idCol < 0 {
		return nil, fmt.Errorf("%w: NodeId", ErrMissingColumn)
	}
	if nameCol < 0 {
		return nil, fmt.Errorf("%w: CustomName", ErrMissingColumn)
	}

	result := &Result{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		line, _ := cr.FieldPos(0)
		result.RowsRead++

		if idCol >= len(record) || nameCol >= len(record) {
			result.warn(line, WarnShortRow, fmt.Sprintf("%d fields", len(record)))
			continue
		}

		id := strings.TrimSpace(record[idCol])
		name := strings.TrimSpace(record[nameCol])
		if id == "" || name == "" {
			result.warn(line, WarnMissingFields, strings.Join(record, ","))
			continue
		}

		namespace, identifierType, identifier, err := ParseNodeID(id)
		if err != nil {
			result.warn(line, WarnBadNodeID, id)
			continue
		}

		result.Nodes = append(result.Nodes, Node{
			ID:             id,
			Name:           name,
			Namespace:      namespace,
			IdentifierType: identifierType,
			Identifier:     identifier,
		})
	}

	return result, nil
}

// warn appends a skipped-row warning.
func (r *Result) warn(line int, code, detail string) {
	r.Warnings = append(r.Warnings, Warning{Line: line, Code: code, Detail: detail})
}

// indexColumns maps lowercased, trimmed header names to their positions.
// A UTF-8 BOM on the first cell is stripped.
func indexColumns(header []string) map[string]int {
	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		colIndex[strings.ToLower(col)] = i
	}
	return colIndex
}

// findColumn returns the position of the first matching alias, or -1.
func findColumn(colIndex map[string]int, names ...string) int {
	for _, name := range names {
		if idx, ok := colIndex[name]; ok {
			return idx
		}
	}
	return -1
}

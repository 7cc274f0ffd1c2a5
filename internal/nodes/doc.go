// Package nodes reads OPC UA node descriptors from CSV exports.
//
// The expected input is a header row containing at least the NodeId and
// CustomName columns (matched case-insensitively, extra columns ignored),
// followed by one row per node:
//
//	NodeId,CustomName
//	ns=2;s=Device1.Temperature,Furnace Temperature
//	ns=2;i=2045,Line Pressure
//
// NodeId values follow the OPC UA "ns=<index>;<type>=<identifier>" form
// with string (s), numeric (i), guid (g) and bytestring (b) identifier
// types; an identifier with no recognised type prefix is treated as a
// string.
//
// Row-level problems (missing fields, malformed NodeId) never abort a
// read: the offending row is skipped and reported as a Warning on the
// Result, so one bad export line cannot lose the rest. A header missing a
// required column is an error.
package nodes

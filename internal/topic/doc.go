// Package topic implements MQTT topic name validation and sanitisation.
//
// Topic names generated from external data (OPC UA node identifiers, CSV
// exports) routinely contain characters that brokers reject or that collide
// with wildcard syntax. This package decides legality and rewrites illegal
// names into guaranteed-publishable ones.
//
// # Rules
//
// A topic name is legal when all of the following hold:
//
//   - It contains none of the wildcard/SMF characters '+', '#', '*', '>'
//     anywhere in the string.
//   - It does not start with '$' unless it starts with one of the reserved
//     prefixes "$SYS/", "$share/" or "$noexport/" (case-sensitive).
//   - Its UTF-8 encoding is at most 250 bytes.
//   - Splitting on '/' yields at most 128 levels. The empty string counts
//     as one level; consecutive separators produce empty levels, each
//     counted.
//
// # Sanitisation
//
// Sanitize replaces every occurrence of '+', '#', '*' and '>' with '_',
// then, if the result still starts with an unreserved '$', replaces that
// first character with '_'. Reserved-prefix names pass through untouched.
// The transform is deterministic and idempotent, and its output always
// satisfies the character and prefix rules. It never truncates: a name
// over the byte or level limit stays over the limit, and callers must
// check for that (see Check).
//
// # Usage
//
//	name := "telegraf/opcua/Temp#1"
//	if !topic.Validate(name) {
//	    name = topic.Sanitize(name) // "telegraf/opcua/Temp_1"
//	}
//	if err := topic.Check(name); err != nil {
//	    // still illegal: over length or depth limits, cannot be rewritten
//	}
//
// Both functions are pure: no state, no side effects, safe for concurrent
// use.
package topic

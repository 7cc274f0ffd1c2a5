package topic

import (
	"errors"
	"fmt"
	"strings"
)

// Topic name limits. Byte length and level count follow the strictest
// published broker restrictions (Solace) so that generated names are
// portable across broker implementations.
const (
	// MaxNameBytes is the maximum UTF-8 encoded length of a topic name.
	MaxNameBytes = 250

	// MaxNameLevels is the maximum number of '/'-delimited levels.
	MaxNameLevels = 128

	// Separator delimits topic levels.
	Separator = "/"
)

// illegalChars are rejected anywhere in a name: the MQTT wildcards '+' and
// '#', and the SMF wildcards '*' and '>'. A leading '$' is a separate,
// positional rule handled via reservedPrefixes.
const illegalChars = "+#*>"

// reservedPrefixes are the only prefixes under which a leading '$' is
// legal. Matching is case-sensitive and includes the trailing separator,
// so "$SYS" alone is still illegal.
var reservedPrefixes = [...]string{"$SYS/", "$share/", "$noexport/"}

// sanitiser rewrites every illegal character to '_'. Built once; the rule
// set never changes after initialisation.
var sanitiser = strings.NewReplacer("+", "_", "#", "_", "*", "_", ">", "_")

// Validate reports whether name is a legal MQTT topic name.
//
// The checks run in order: character legality, leading-'$' legality, byte
// length, level count. Any UTF-8 string is an acceptable input, including
// the empty string (which is legal: zero bytes, one level).
//
// Parameters:
//   - name: Candidate topic name
//
// Returns:
//   - bool: true if the name passes every rule
func Validate(name string) bool {
	if strings.ContainsAny(name, illegalChars) {
		return false
	}
	if strings.HasPrefix(name, "$") && !hasReservedPrefix(name) {
		return false
	}
	if len(name) > MaxNameBytes {
		return false
	}
	// Count levels without splitting; empty string is one level.
	return strings.Count(name, Separator)+1 <= MaxNameLevels
}

// Sanitize rewrites name so that it satisfies the character and prefix
// rules:
//
//  1. Every occurrence of '+', '#', '*' and '>' becomes '_'.
//  2. If the result still starts with '$' and no reserved prefix matches,
//     only the first character becomes '_'.
//
// Reserved-prefix names ("$SYS/...", "$share/...", "$noexport/...") are
// never mangled. The transform is idempotent and never alters byte length
// or level count, so it cannot fix — or introduce — a length or depth
// violation. Callers that need a publishable name must re-check with
// Validate or Check after sanitising.
//
// Parameters:
//   - name: Candidate topic name
//
// Returns:
//   - string: Rewritten name satisfying the character/prefix rules
func Sanitize(name string) string {
	s := sanitiser.Replace(name)
	if strings.HasPrefix(s, "$") && !hasReservedPrefix(s) {
		s = "_" + s[1:]
	}
	return s
}

// Check diagnoses name against every rule and returns all violations
// joined into a single error, or nil when the name is legal.
//
// Each violation wraps one of the package sentinels (ErrIllegalCharacter,
// ErrReservedPrefix, ErrTooLong, ErrTooDeep), so callers can test
// individual rules with errors.Is. Check and Validate always agree:
// Validate(name) == (Check(name) == nil).
func Check(name string) error {
	var errs []error

	for _, c := range illegalChars {
		if strings.ContainsRune(name, c) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrIllegalCharacter, string(c)))
		}
	}
	if strings.HasPrefix(name, "$") && !hasReservedPrefix(name) {
		errs = append(errs, ErrReservedPrefix)
	}
	if n := len(name); n > MaxNameBytes {
		errs = append(errs, fmt.Errorf("%w: %d bytes", ErrTooLong, n))
	}
	if n := strings.Count(name, Separator) + 1; n > MaxNameLevels {
		errs = append(errs, fmt.Errorf("%w: %d levels", ErrTooDeep, n))
	}

	return joinErrors(errs)
}

// hasReservedPrefix reports whether name starts with one of the reserved
// '$' prefixes.
func hasReservedPrefix(name string) bool {
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// joinErrors flattens the violation list: nil for none, the sole error for
// one, and a combined error otherwise.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

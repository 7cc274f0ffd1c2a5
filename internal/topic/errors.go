package topic

import "errors"

// Violation sentinels reported by Check.
// Use errors.Is() to test which rules a name breaks.
var (
	// ErrIllegalCharacter indicates the name contains a wildcard or SMF
	// character ('+', '#', '*', '>'). Sanitize removes these.
	ErrIllegalCharacter = errors.New("topic: illegal character")

	// ErrReservedPrefix indicates the name starts with '$' but not with a
	// reserved prefix ($SYS/, $share/, $noexport/). Sanitize removes this.
	ErrReservedPrefix = errors.New("topic: leading '$' outside reserved prefixes")

	// ErrTooLong indicates the UTF-8 encoding exceeds 250 bytes.
	// Sanitize does NOT correct this.
	ErrTooLong = errors.New("topic: name exceeds 250 bytes")

	// ErrTooDeep indicates the name has more than 128 levels.
	// Sanitize does NOT correct this.
	ErrTooDeep = errors.New("topic: name exceeds 128 levels")
)

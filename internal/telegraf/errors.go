package telegraf

import "errors"

// ErrMalformed indicates that a rendered document failed to parse as TOML.
// Rendering escapes every interpolated value, so in practice this points at
// a template edit that broke the document structure.
var ErrMalformed = errors.New("telegraf: malformed document")

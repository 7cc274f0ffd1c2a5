package telegraf

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Verify parses data as TOML and reports ErrMalformed if it does not
// parse. It is a syntax gate only: key names, plugin sections and value
// types are Telegraf's business, not ours.
//
// Parameters:
//   - data: a rendered configuration document
//
// Returns:
//   - error: nil if data is well-formed TOML, ErrMalformed (with the
//     parser's position detail) otherwise
func Verify(data []byte) error {
	var doc map[string]any

	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	return nil
}

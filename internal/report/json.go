package report

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// EncodeJSON renders v with two-space indentation and a trailing newline. A
// nil value (such as a nil slice of rows) renders as an empty array.
func EncodeJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "report: encode json")
	}
	if string(data) == "null" {
		return []byte("[]\n"), nil
	}
	return append(data, '\n'), nil
}

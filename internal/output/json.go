package output

import (
	"encoding/json"
	"io"

	"github.com/buemura/recon/pkg/types"
)

// JSONFormatter renders the result in its wire shape as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(w io.Writer, result *types.ScanResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

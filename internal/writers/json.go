package writers

import (
	"encoding/json"
	"io"

	"lacthermo/internal/jsonlutil"
)

func init() {
	Register(FormatJSON, writeJSON)
	Register(FormatJSONL, writeJSONL)
}

// writeJSON buffers every record and emits one indented array.
func writeJSON(out io.Writer, in <-chan Row, _ Options) error {
	recs := make([]any, 0, 64)
	for r := range in {
		recs = append(recs, r.Record)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

// writeJSONL streams one compact record per line.
func writeJSONL(out io.Writer, in <-chan Row, _ Options) error {
	return jsonlutil.Drain(out, in, func(enc *json.Encoder, r Row) error {
		return enc.Encode(r.Record)
	})
}

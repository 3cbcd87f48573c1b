// internal/jsonlutil/jsonlutil.go
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// Pooled 64 KiB buffered writers shared by every JSONL stream.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// Drain encodes each value received on in as one JSON line until in closes.
//   - encode: converts one value to its wire type and calls enc.Encode
//
// The first encode error stops the stream; remaining values are left for the
// caller to drain.
func Drain[T any](out io.Writer, in <-chan T, encode func(*json.Encoder, T) error) error {
	bw := bwPool.Get().(*bufio.Writer)
	bw.Reset(out)
	defer func() {
		bw.Reset(io.Discard)
		bwPool.Put(bw)
	}()

	enc := json.NewEncoder(bw)
	for v := range in {
		if err := encode(enc, v); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Output formats.
const (
	FormatTSV    = "tsv"
	FormatJSON   = "json"
	FormatJSONL  = "jsonl"
	FormatPretty = "pretty"
)

// Row is one output record: TSV/pretty cells plus the pkg/api wire value used
// for JSON and JSONL.
type Row struct {
	Cells  []string
	Record any
}

// Options control rendering shared by all formats.
type Options struct {
	Columns []string
	Header  bool
}

// WriterFunc consumes rows until in is closed.
type WriterFunc func(out io.Writer, in <-chan Row, opt Options) error

// registry maps format → writer. Filled from init() in the format files.
var registry = map[string]WriterFunc{}

// Register installs fn for format (last registration wins).
func Register(format string, fn WriterFunc) { registry[format] = fn }

// Formats lists registered formats in sorted order.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Known reports whether format has a writer.
func Known(format string) bool {
	_, ok := registry[format]
	return ok
}

// Start spins up a writer goroutine for format. Send rows on the returned
// channel, close it, then read the single error from done.
func Start(out io.Writer, format string, opt Options, bufSize int) (chan<- Row, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan Row, bufSize)
	done := make(chan error, 1)

	go func() {
		fn, ok := registry[format]
		if !ok {
			for range in {
			}
			done <- fmt.Errorf("unknown output format %q (no writer registered)", format)
			return
		}
		err := fn(out, in, opt)
		for range in {
		}
		if IsBrokenPipe(err) {
			err = nil
		}
		done <- err
	}()
	return in, done
}

// WriteAll is Start for an in-memory row set.
func WriteAll(out io.Writer, format string, opt Options, rows []Row) error {
	in, done := Start(out, format, opt, len(rows))
	for _, r := range rows {
		in <- r
	}
	close(in)
	return <-done
}

// Float formats v for TSV/pretty cells (shortest exact representation).
func Float(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

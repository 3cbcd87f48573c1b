package writers

import (
	"bufio"
	"io"
	"strings"
)

func init() { Register(FormatTSV, writeTSV) }

// writeTSV streams rows as tab-separated cells, optionally after a header.
func writeTSV(out io.Writer, in <-chan Row, opt Options) error {
	bw := bufio.NewWriter(out)
	if opt.Header && len(opt.Columns) > 0 {
		if _, err := bw.WriteString(strings.Join(opt.Columns, "\t") + "\n"); err != nil {
			return err
		}
	}
	for r := range in {
		if _, err := bw.WriteString(strings.Join(r.Cells, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

package writers

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func init() { Register(FormatPretty, writePretty) }

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// writePretty buffers all rows and renders a bordered terminal table.
func writePretty(out io.Writer, in <-chan Row, opt Options) error {
	var rows [][]string
	for r := range in {
		rows = append(rows, r.Cells)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Rows(rows...)
	if opt.Header && len(opt.Columns) > 0 {
		t = t.Headers(opt.Columns...)
	}
	_, err := fmt.Fprintln(out, t.String())
	return err
}

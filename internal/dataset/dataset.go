// internal/dataset/dataset.go
// Fold-change measurement tables as written by the flow-cytometry processing
// scripts: one CSV per run, one row per (strain, IPTG) measurement.

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Required and optional column names.
const (
	ColDate       = "date"
	ColRunNumber  = "run_number"
	ColStrain     = "strain"
	ColOperator   = "operator"
	ColRepressors = "repressors"
	ColIPTG       = "IPTGuM"
	ColFoldChange = "fold_change"
)

var required = []string{ColStrain, ColOperator, ColRepressors, ColIPTG, ColFoldChange}

// Control strains that carry no fold-change information.
const (
	StrainAuto  = "auto"
	StrainDelta = "delta"
)

// Measurement is one fold-change observation.
type Measurement struct {
	Date       string
	RunNumber  string
	Strain     string
	Operator   string
	Repressors float64
	IPTGuM     float64
	FoldChange float64
	SourceFile string
}

// Group is every measurement of one (repressors, operator) combination.
type Group struct {
	Repressors float64
	Operator   string
	Rows       []Measurement
}

// ReadCSV parses a fold-change table. Columns are matched by header name;
// extra columns are ignored.
func ReadCSV(r io.Reader, source string) ([]Measurement, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty table", source)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", source, name)
		}
	}

	get := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	num := func(rec []string, name string, line int) (float64, error) {
		s := get(rec, name)
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%s:%d: bad %s %q", source, line, name, s)
		}
		return v, nil
	}

	var out []Measurement
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		m := Measurement{
			Date:       get(rec, ColDate),
			RunNumber:  get(rec, ColRunNumber),
			Strain:     get(rec, ColStrain),
			Operator:   get(rec, ColOperator),
			SourceFile: source,
		}
		if m.Repressors, err = num(rec, ColRepressors, line); err != nil {
			return nil, err
		}
		if m.IPTGuM, err = num(rec, ColIPTG, line); err != nil {
			return nil, err
		}
		// Control strains may leave fold_change blank.
		if s := get(rec, ColFoldChange); s == "" {
			m.FoldChange = math.NaN()
		} else if m.FoldChange, err = num(rec, ColFoldChange, line); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// ReadFiles reads and concatenates the tables at paths.
func ReadFiles(paths []string) ([]Measurement, error) {
	var all []Measurement
	for _, p := range paths {
		rows, err := readFile(p)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	return all, nil
}

func readFile(path string) ([]Measurement, error) {
	if path == "-" {
		return ReadCSV(os.Stdin, "stdin")
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	return ReadCSV(fh, path)
}

// Experimental drops the auto-fluorescence and Δlac control strains.
func Experimental(rows []Measurement) []Measurement {
	out := make([]Measurement, 0, len(rows))
	for _, m := range rows {
		if m.Strain == StrainAuto || m.Strain == StrainDelta {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Groups buckets rows by (repressors, operator), sorted by repressors then
// operator; rows inside a group are sorted by IPTG.
func Groups(rows []Measurement) []Group {
	type key struct {
		r  float64
		op string
	}
	idx := map[key]int{}
	var out []Group
	for _, m := range rows {
		k := key{m.Repressors, m.Operator}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Group{Repressors: m.Repressors, Operator: m.Operator})
		}
		out[i].Rows = append(out[i].Rows, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Repressors != out[j].Repressors {
			return out[i].Repressors < out[j].Repressors
		}
		return out[i].Operator < out[j].Operator
	})
	for _, g := range out {
		sort.SliceStable(g.Rows, func(i, j int) bool { return g.Rows[i].IPTGuM < g.Rows[j].IPTGuM })
	}
	return out
}

// UniqueRepressors returns the distinct strictly positive repressor counts in
// ascending order.
func UniqueRepressors(rows []Measurement) []float64 {
	seen := map[float64]bool{}
	var out []float64
	for _, m := range rows {
		if m.Repressors > 0 && !seen[m.Repressors] {
			seen[m.Repressors] = true
			out = append(out, m.Repressors)
		}
	}
	sort.Float64s(out)
	return out
}

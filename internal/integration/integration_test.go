// internal/integration/integration_test.go
package integration

import (
	"bufio"
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"lacthermo/internal/app"
	"lacthermo/pkg/api"
)

func write(t *testing.T, name, data string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fn, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return fn
}

func run(t *testing.T, argv ...string) (int, string, string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.Run(argv, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func mustRun(t *testing.T, argv ...string) string {
	t.Helper()
	code, out, stderr := run(t, argv...)
	if code != 0 {
		t.Fatalf("%v: exit %d, stderr=%s", argv, code, stderr)
	}
	return out
}

func tsvRows(t *testing.T, out string) [][]string {
	t.Helper()
	var rows [][]string
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		rows = append(rows, strings.Split(line, "\t"))
	}
	return rows
}

func num(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		t.Fatalf("not a number: %q", s)
	}
	return v
}

func jsonl[T any](t *testing.T, out string) []T {
	t.Helper()
	var recs []T
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var v T
		if err := json.Unmarshal(sc.Bytes(), &v); err != nil {
			t.Fatalf("bad json line: %v\n%s", err, sc.Text())
		}
		recs = append(recs, v)
	}
	return recs
}

func TestCurve_TSV(t *testing.T) {
	out := mustRun(t, "curve", "-q", "--operator", "O2", "--repressors", "260",
		"--iptg-min", "1", "--iptg-max", "100", "--points", "3", "--include-zero")
	rows := tsvRows(t, out)
	if len(rows) != 5 {
		t.Fatalf("want header + 4 rows, got %d:\n%s", len(rows), out)
	}
	if strings.Join(rows[0], ",") != "operator,operator_energy,repressors,iptg_uM,pact,fold_change" {
		t.Fatalf("header: %v", rows[0])
	}
	first := rows[1]
	if first[0] != "O2" || first[1] != "-13.9" || first[2] != "260" || first[3] != "0" {
		t.Fatalf("first row: %v", first)
	}
	if fc := num(t, first[5]); math.Abs(fc-0.0162) > 5e-4 {
		t.Fatalf("leakiness of O2/R260: %g", fc)
	}
	if got := num(t, rows[3][3]); math.Abs(got-10) > 1e-9 {
		t.Fatalf("log grid midpoint: %g", got)
	}
}

func TestCurve_JSONL_RowsPerRepressor(t *testing.T) {
	out := mustRun(t, "curve", "-q", "-o", "jsonl", "--repressors", "22,RBS1027", "--points", "10")
	recs := jsonl[api.CurvePointV1](t, out)
	if len(recs) != 20 {
		t.Fatalf("want 20 records, got %d", len(recs))
	}
	for i, r := range recs {
		want := 22.0
		if i >= 10 {
			want = 260
		}
		if r.Repressors != want {
			t.Fatalf("record %d: repressors %g, want %g", i, r.Repressors, want)
		}
		if i%10 > 0 && r.FoldChange <= recs[i-1].FoldChange {
			t.Fatalf("fold-change not increasing with IPTG at %d", i)
		}
	}
}

func TestCurve_EnergyOverride(t *testing.T) {
	out := mustRun(t, "curve", "-q", "--energy", "-15.3", "--repressors", "260", "--points", "2", "--no-header")
	rows := tsvRows(t, out)
	if len(rows) != 2 || rows[0][0] != "" || rows[0][1] != "-15.3" {
		t.Fatalf("rows: %v", rows)
	}
}

func TestTitration(t *testing.T) {
	out := mustRun(t, "titration", "-q", "-o", "jsonl", "--operator", "O1", "--iptg", "0,1mM", "--points", "4")
	recs := jsonl[api.CurvePointV1](t, out)
	if len(recs) != 8 {
		t.Fatalf("want 8 records, got %d", len(recs))
	}
	if recs[0].IPTGuM != 0 || recs[4].IPTGuM != 1000 {
		t.Fatalf("iptg blocks: %g %g", recs[0].IPTGuM, recs[4].IPTGuM)
	}
	if math.Abs(recs[0].Repressors-10) > 1e-9 || math.Abs(recs[3].Repressors-2000) > 1e-6 {
		t.Fatalf("repressor grid: %g..%g", recs[0].Repressors, recs[3].Repressors)
	}
	for i := 1; i < 4; i++ {
		if recs[i].FoldChange >= recs[i-1].FoldChange {
			t.Fatalf("fold-change must fall with repressors")
		}
	}
}

func TestProperties_JSON(t *testing.T) {
	out := mustRun(t, "properties", "-q", "-o", "json", "--repressors", "260,0")
	var props []api.PropertiesV1
	if err := json.Unmarshal([]byte(out), &props); err != nil {
		t.Fatalf("json: %v\n%s", err, out)
	}
	if len(props) != 2 {
		t.Fatalf("want 2, got %d", len(props))
	}
	p := props[0]
	if !(p.Leakiness < p.Saturation) || math.Abs(p.DynamicRange-(p.Saturation-p.Leakiness)) > 1e-12 {
		t.Fatalf("limits: %+v", p)
	}
	if !(p.EC50uM > 0.53 && p.EC50uM < 139) || !(p.Hill > 1 && p.Hill < 2) {
		t.Fatalf("ec50/hill: %+v", p)
	}
	flat := props[1]
	if flat.Leakiness != 1 || flat.Saturation != 1 || flat.EC50uM != 0 {
		t.Fatalf("repressor-free strain: %+v", flat)
	}
}

const foldChangeCSV = `date,run_number,strain,operator,repressors,IPTGuM,fold_change
20191101,1,auto,none,0,0,
20191101,1,delta,O2,0,0,
20191101,1,R260,O2,260,0,0.02
20191101,1,R260,O2,260,50,0.45
20191101,1,R1220,O1,1220,0,0.001
20191101,1,R60,Ox,60,0,0.3
`

func TestCompare(t *testing.T) {
	fn := write(t, "run_fold_change.csv", foldChangeCSV)
	out := mustRun(t, "compare", "-q", "-o", "jsonl", filepath.Join(filepath.Dir(fn), "*_fold_change.csv"))
	recs := jsonl[api.ComparisonV1](t, out)
	if len(recs) != 3 {
		t.Fatalf("want 3 comparisons (controls and unknown operator dropped), got %d", len(recs))
	}
	for _, r := range recs {
		if math.Abs(r.Residual-(r.Measured-r.Theory)) > 1e-15 {
			t.Fatalf("residual: %+v", r)
		}
		if math.Abs(r.Theory-1/(1+math.Exp(-r.Bohr))) > 1e-12 {
			t.Fatalf("bohr collapse: %+v", r)
		}
		if r.SourceFile != fn {
			t.Fatalf("source file: %q", r.SourceFile)
		}
	}
	if recs[0].Repressors != 260 || recs[0].IPTGuM != 0 || recs[2].Repressors != 1220 {
		t.Fatalf("group order: %+v", recs)
	}
}

func TestCompare_NoRows(t *testing.T) {
	fn := write(t, "controls.csv", "strain,operator,repressors,IPTGuM,fold_change\nauto,none,0,0,\n")
	if code, _, _ := run(t, "compare", "-q", fn); code != 1 {
		t.Fatalf("want exit 1, got %d", code)
	}
	if code, _, _ := run(t, "compare", "-q", "--no-match-exit-code", "0", fn); code != 0 {
		t.Fatalf("want exit 0, got %d", code)
	}
}

func TestSeqmat(t *testing.T) {
	out := mustRun(t, "seqmat", "-q", "acgt")
	rows := tsvRows(t, out)
	if strings.Join(rows[0], ",") != "column,symbol,A,C,G,T" || len(rows) != 5 {
		t.Fatalf("matrix:\n%s", out)
	}
	if strings.Join(rows[3], ",") != "3,G,0,0,1,0" {
		t.Fatalf("column 3: %v", rows[3])
	}

	out = mustRun(t, "seqmat", "-q", "-o", "jsonl", "--model", "nbr", "ACG")
	cols := jsonl[api.MatrixColumnV1](t, out)
	if len(cols) != 2 || cols[0].Symbol != "AC" || len(cols[0].Values) != 16 || cols[1].Symbol != "CG" {
		t.Fatalf("nbr columns: %+v", cols)
	}
}

func TestConstants_Overlay(t *testing.T) {
	fn := write(t, "consts.yaml", "operators:\n  O1: -16.1\n")
	out := mustRun(t, "constants", "-q", "--constants", fn)
	if !strings.Contains(out, "operator\tO1\t-16.1\tkBT\n") || !strings.Contains(out, "allostery\tKa\t139\tuM\n") {
		t.Fatalf("constants:\n%s", out)
	}
}

func TestVersionAndHelp(t *testing.T) {
	if out := mustRun(t, "--version"); !strings.HasPrefix(out, "lacthermo version ") {
		t.Fatalf("version: %q", out)
	}
	if out := mustRun(t, "--help"); !strings.Contains(out, "curve") || !strings.Contains(out, "compare") {
		t.Fatalf("help:\n%s", out)
	}
}

func TestExitCodes(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")
	cases := []struct {
		name string
		argv []string
		want int
	}{
		{"unknown command", []string{"plot"}, 2},
		{"unknown flag", []string{"curve", "--bogus"}, 2},
		{"bad output", []string{"curve", "-o", "xml"}, 2},
		{"negative Ka", []string{"curve", "--ka", "-1"}, 2},
		{"negative repressors", []string{"properties", "--repressors", "-5"}, 2},
		{"unknown operator", []string{"curve", "--operator", "O9"}, 2},
		{"unknown strain", []string{"curve", "--repressors", "RBS9"}, 2},
		{"bad concentration", []string{"titration", "--iptg", "5kM"}, 2},
		{"bad alphabet", []string{"seqmat", "--alphabet", "klingon", "ACGT"}, 2},
		{"bad symbol", []string{"seqmat", "ACGX"}, 2},
		{"missing csv", []string{"compare", missing}, 3},
		{"missing constants", []string{"constants", "--constants", missing + ".yaml"}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := run(t, append(tc.argv, "-q")...)
			if code != tc.want {
				t.Fatalf("exit %d, want %d (stderr=%s)", code, tc.want, stderr)
			}
			if !strings.HasPrefix(stderr, "lacthermo: ") {
				t.Fatalf("stderr: %q", stderr)
			}
		})
	}
}

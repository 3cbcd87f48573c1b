// Package constants holds the published parameter table of the lac
// simple-repression model: operator binding energies, repressor copy numbers
// per strain and the allosteric constants of LacI.
//
// The default table is embedded; a user table (YAML or TOML) overrides any
// subset of it.
package constants

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"lacthermo/internal/thermo"
)

//go:embed constants.yaml
var defaultYAML []byte

// Table is a parameter set. Energies are in k_BT; Ka and Ki share the unit of
// the effector concentrations they are used with (µM by default).
type Table struct {
	Operators  map[string]float64 // operator → Δε_RA
	Repressors map[string]float64 // strain → repressors per cell
	Ka         float64
	Ki         float64
	EpAI       float64
	NSites     int
	NNS        float64
}

// file mirrors Table with optional scalars so a partial file keeps defaults.
type file struct {
	Operators  map[string]float64 `yaml:"operators" toml:"operators"`
	Repressors map[string]float64 `yaml:"repressors" toml:"repressors"`
	Ka         *float64           `yaml:"Ka" toml:"Ka"`
	Ki         *float64           `yaml:"Ki" toml:"Ki"`
	EpAI       *float64           `yaml:"ep_AI" toml:"ep_AI"`
	NSites     *int               `yaml:"n_sites" toml:"n_sites"`
	NNS        *float64           `yaml:"n_ns" toml:"n_ns"`
}

var loadDefault = sync.OnceValues(func() (Table, error) {
	var f file
	if err := yaml.Unmarshal(defaultYAML, &f); err != nil {
		return Table{}, fmt.Errorf("embedded constants: %w", err)
	}
	return Table{}.merge(f), nil
})

// Default returns a copy of the embedded table.
func Default() Table {
	t, err := loadDefault()
	if err != nil {
		panic(err)
	}
	return t.clone()
}

// Load reads a .yaml/.yml or .toml table from path and overlays it on Default.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	t, err := Parse(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes data in format (yaml, yml or toml) and overlays it on Default.
func Parse(data []byte, format string) (Table, error) {
	var f file
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return Table{}, err
		}
	case "toml":
		if _, err := toml.Decode(string(data), &f); err != nil {
			return Table{}, err
		}
	default:
		return Table{}, fmt.Errorf("unsupported constants format %q (want yaml or toml)", format)
	}
	t := Default().merge(f)
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

func (t Table) merge(f file) Table {
	out := t.clone()
	if out.Operators == nil {
		out.Operators = map[string]float64{}
	}
	if out.Repressors == nil {
		out.Repressors = map[string]float64{}
	}
	for k, v := range f.Operators {
		out.Operators[k] = v
	}
	for k, v := range f.Repressors {
		out.Repressors[k] = v
	}
	if f.Ka != nil {
		out.Ka = *f.Ka
	}
	if f.Ki != nil {
		out.Ki = *f.Ki
	}
	if f.EpAI != nil {
		out.EpAI = *f.EpAI
	}
	if f.NSites != nil {
		out.NSites = *f.NSites
	}
	if f.NNS != nil {
		out.NNS = *f.NNS
	}
	return out
}

func (t Table) clone() Table {
	out := t
	out.Operators = make(map[string]float64, len(t.Operators))
	for k, v := range t.Operators {
		out.Operators[k] = v
	}
	out.Repressors = make(map[string]float64, len(t.Repressors))
	for k, v := range t.Repressors {
		out.Repressors[k] = v
	}
	return out
}

// Validate checks the allosteric constants and every table entry.
func (t Table) Validate() error {
	if _, err := t.Allostery().Pact(0); err != nil {
		return err
	}
	if !(t.NNS > 0) || math.IsInf(t.NNS, 0) {
		return &thermo.InvalidParameterError{Param: "n_ns", Value: t.NNS, Reason: "must be finite and > 0"}
	}
	for k, v := range t.Repressors {
		if !(v >= 0) || math.IsInf(v, 0) {
			return &thermo.InvalidParameterError{Param: "repressors." + k, Value: v, Reason: "must be finite and ≥ 0"}
		}
	}
	for k, v := range t.Operators {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &thermo.InvalidParameterError{Param: "operators." + k, Value: v, Reason: "must be finite"}
		}
	}
	return nil
}

// Allostery returns the MWC constants of the table.
func (t Table) Allostery() thermo.Allostery {
	return thermo.Allostery{Ka: t.Ka, Ki: t.Ki, EpAI: t.EpAI, NSites: t.NSites}
}

// Energy returns the binding energy of operator op (exact match first, then
// case-insensitive).
func (t Table) Energy(op string) (float64, error) {
	if v, ok := lookupFold(t.Operators, op); ok {
		return v, nil
	}
	return 0, fmt.Errorf("unknown operator %q; known: %s", op, strings.Join(t.OperatorNames(), " "))
}

// RepressorCount returns the repressors per cell of strain.
func (t Table) RepressorCount(strain string) (float64, error) {
	if v, ok := lookupFold(t.Repressors, strain); ok {
		return v, nil
	}
	return 0, fmt.Errorf("unknown strain %q; known: %s", strain, strings.Join(t.StrainNames(), " "))
}

// Lookup resolves a flat key as the analysis notebooks do: operator names,
// strain names, Ka, Ki, ep_AI, n_sites and n_ns.
func (t Table) Lookup(key string) (float64, bool) {
	switch key {
	case "Ka":
		return t.Ka, true
	case "Ki":
		return t.Ki, true
	case "ep_AI":
		return t.EpAI, true
	case "n_sites":
		return float64(t.NSites), true
	case "n_ns":
		return t.NNS, true
	}
	if v, ok := t.Operators[key]; ok {
		return v, true
	}
	v, ok := t.Repressors[key]
	return v, ok
}

// OperatorNames lists operators sorted by binding energy, strongest first.
func (t Table) OperatorNames() []string {
	return sortedKeys(t.Operators)
}

// StrainNames lists strains sorted by repressor copy number.
func (t Table) StrainNames() []string {
	return sortedKeys(t.Repressors)
}

// RepressorCounts returns the distinct copy numbers in ascending order.
func (t Table) RepressorCounts() []float64 {
	seen := map[float64]bool{}
	var out []float64
	for _, v := range t.Repressors {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] < m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func lookupFold(m map[string]float64, key string) (float64, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return 0, false
}

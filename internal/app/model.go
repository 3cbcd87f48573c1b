package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"lacthermo/internal/cliutil"
	"lacthermo/internal/constants"
	"lacthermo/internal/thermo"
)

// modelFlags override the constants table for one invocation.
type modelFlags struct {
	operator string
	energy   float64
	ka       float64
	ki       float64
	epAI     float64
	nSites   int
	nns      float64
}

// model is the resolved operator and allosteric parameters of a run.
type model struct {
	operator string
	energy   float64
	allo     thermo.Allostery
	nns      float64
}

func (f *modelFlags) registerOperator(fs *pflag.FlagSet) {
	fs.StringVar(&f.operator, "operator", "O2", "operator name from the constants table")
	fs.Float64Var(&f.energy, "energy", 0, "operator binding energy in k_BT (overrides --operator)")
}

func (f *modelFlags) registerAllostery(fs *pflag.FlagSet) {
	fs.Float64Var(&f.ka, "ka", 0, "Ka in µM (default from constants table)")
	fs.Float64Var(&f.ki, "ki", 0, "Ki in µM (default from constants table)")
	fs.Float64Var(&f.epAI, "ep-ai", 0, "ε_AI in k_BT (default from constants table)")
	fs.IntVar(&f.nSites, "n-sites", 0, "effector binding sites per repressor (default from constants table)")
	fs.Float64Var(&f.nns, "nns", 0, "non-specific binding sites (default from constants table)")
}

// allostery applies changed flags on top of the table values.
func (f *modelFlags) allostery(fs *pflag.FlagSet, t constants.Table) (thermo.Allostery, float64) {
	a, nns := t.Allostery(), t.NNS
	if fs.Changed("ka") {
		a.Ka = f.ka
	}
	if fs.Changed("ki") {
		a.Ki = f.ki
	}
	if fs.Changed("ep-ai") {
		a.EpAI = f.epAI
	}
	if fs.Changed("n-sites") {
		a.NSites = f.nSites
	}
	if fs.Changed("nns") {
		nns = f.nns
	}
	return a, nns
}

// resolve returns the full model; --energy wins over --operator.
func (f *modelFlags) resolve(fs *pflag.FlagSet, t constants.Table) (model, error) {
	m := model{operator: f.operator}
	m.allo, m.nns = f.allostery(fs, t)
	if fs.Changed("energy") {
		m.energy = f.energy
		if !fs.Changed("operator") {
			m.operator = ""
		}
		return m, nil
	}
	e, err := t.Energy(f.operator)
	if err != nil {
		return m, usageErr(err)
	}
	m.energy = e
	return m, nil
}

// parseRepressors reads a list of copy numbers or strain names; an empty list
// selects every strain in the table.
func parseRepressors(s string, t constants.Table) ([]float64, error) {
	items := cliutil.SplitList(s)
	if len(items) == 0 {
		return t.RepressorCounts(), nil
	}
	out := make([]float64, 0, len(items))
	for _, it := range items {
		if v, err := strconv.ParseFloat(it, 64); err == nil {
			out = append(out, v)
			continue
		}
		v, err := t.RepressorCount(it)
		if err != nil {
			return nil, usageErr(fmt.Errorf("--repressors: %w", err))
		}
		out = append(out, v)
	}
	return out, nil
}

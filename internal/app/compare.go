package app

import (
	"errors"
	"io/fs"
	"math"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"lacthermo/internal/cliutil"
	"lacthermo/internal/dataset"
	"lacthermo/internal/ndarray"
	"lacthermo/internal/thermo"
	"lacthermo/internal/writers"
	"lacthermo/pkg/api"
)

var compareColumns = []string{
	"strain", "operator", "operator_energy", "repressors", "iptg_uM",
	"fold_change", "fold_change_theory", "residual", "bohr_parameter", "source_file",
}

func newCompareCmd(rt *runtime) *cobra.Command {
	var (
		mf          modelFlags
		noMatchCode int
	)
	cmd := &cobra.Command{
		Use:   "compare <fold_change.csv>...",
		Short: "Compare measured fold-change tables with the model",
		Long: `compare reads fold-change CSV files (globs and '-' for stdin are accepted),
drops the auto and delta control strains and evaluates the model at every
measured (repressors, operator, IPTG) point. The RMSE of each group is logged.`,
		Example: `  lacthermo compare 'data/*_IPTG_titration_MACSQuant.csv'
  lacthermo compare --ka 200 --ki 0.6 runs.csv -o jsonl`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := cliutil.ExpandPositionals(args)
			if err != nil {
				return usageErr(err)
			}
			rows, err := dataset.ReadFiles(paths)
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				return ioErr(err)
			}
			if err != nil {
				return usageErr(err)
			}
			allo, nns := mf.allostery(cmd.Flags(), rt.table)

			type job struct {
				group  dataset.Group
				energy float64
			}
			var jobs []job
			for _, g := range dataset.Groups(dataset.Experimental(rows)) {
				if g.Repressors <= 0 {
					rt.log.Debug("skipping repressor-free group", "operator", g.Operator, "rows", len(g.Rows))
					continue
				}
				e, err := rt.table.Energy(g.Operator)
				if err != nil {
					rt.log.Warn("skipping group", "operator", g.Operator, "repressors", g.Repressors, "err", err)
					continue
				}
				jobs = append(jobs, job{g, e})
			}
			if len(jobs) == 0 {
				return &exitError{code: noMatchCode, err: errNoRows}
			}
			rt.log.Debug("compare", "files", len(paths), "rows", len(rows), "groups", len(jobs))

			var allMeas, allTheory []float64
			err = rt.write(compareColumns, func(out chan<- writers.Row) error {
				for _, j := range jobs {
					if err := cmd.Context().Err(); err != nil {
						return err
					}
					res, err := compareGroup(j.group, j.energy, allo, nns)
					if err != nil {
						return err
					}
					var meas, theory []float64
					for _, c := range res {
						// blank fold_change cells cannot be compared (or encoded as JSON)
						if math.IsNaN(c.Measured) {
							continue
						}
						out <- compareRow(c)
						meas = append(meas, c.Measured)
						theory = append(theory, c.Theory)
					}
					if len(meas) > 0 {
						rt.log.Info("group fit", "operator", j.group.Operator, "repressors", j.group.Repressors,
							"n", len(meas), "rmse", rmse(meas, theory))
					}
					allMeas = append(allMeas, meas...)
					allTheory = append(allTheory, theory...)
				}
				return nil
			})
			if err != nil {
				return err
			}
			if len(allMeas) > 0 {
				rt.log.Info("overall fit", "groups", len(jobs), "n", len(allMeas), "rmse", rmse(allMeas, allTheory))
			}
			return nil
		},
	}
	flags := cmd.Flags()
	mf.registerAllostery(flags)
	flags.IntVar(&noMatchCode, "no-match-exit-code", exitNoMatch, "exit code when the input holds no experimental rows")
	return cmd
}

// compareGroup evaluates the model along the IPTG axis of one group.
func compareGroup(g dataset.Group, energy float64, allo thermo.Allostery, nns float64) ([]api.ComparisonV1, error) {
	iptg := make([]float64, len(g.Rows))
	for i, m := range g.Rows {
		iptg[i] = m.IPTGuM
	}
	sr := thermo.SimpleRepression{
		Repressors:     ndarray.Scalar(g.Repressors),
		OperatorEnergy: ndarray.Scalar(energy),
		Effector:       ndarray.Vector(iptg),
		Allostery:      allo,
		NNS:            nns,
	}
	fc, err := sr.FoldChange()
	if err != nil {
		return nil, err
	}
	bohr, err := sr.BohrParameter()
	if err != nil {
		return nil, err
	}

	out := make([]api.ComparisonV1, len(g.Rows))
	for i, m := range g.Rows {
		th := fc.At(i)
		out[i] = api.ComparisonV1{
			Strain:         m.Strain,
			Operator:       m.Operator,
			OperatorEnergy: energy,
			Repressors:     m.Repressors,
			IPTGuM:         m.IPTGuM,
			Measured:       m.FoldChange,
			Theory:         th,
			Residual:       m.FoldChange - th,
			Bohr:           bohr.At(i),
			SourceFile:     m.SourceFile,
		}
	}
	return out, nil
}

func compareRow(c api.ComparisonV1) writers.Row {
	return writers.Row{
		Cells: []string{
			c.Strain,
			c.Operator,
			writers.Float(c.OperatorEnergy),
			writers.Float(c.Repressors),
			writers.Float(c.IPTGuM),
			writers.Float(c.Measured),
			writers.Float(c.Theory),
			writers.Float(c.Residual),
			writers.Float(c.Bohr),
			c.SourceFile,
		},
		Record: c,
	}
}

func rmse(a, b []float64) float64 {
	return floats.Distance(a, b, 2) / math.Sqrt(float64(len(a)))
}

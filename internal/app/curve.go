package app

import (
	"github.com/spf13/cobra"

	"lacthermo/internal/cliutil"
	"lacthermo/internal/ndarray"
	"lacthermo/internal/thermo"
	"lacthermo/internal/writers"
	"lacthermo/pkg/api"
)

var curveColumns = []string{"operator", "operator_energy", "repressors", "iptg_uM", "pact", "fold_change"}

func newCurveCmd(rt *runtime) *cobra.Command {
	var (
		mf          modelFlags
		repressors  string
		includeZero bool
	)
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Induction curves: fold-change against IPTG for each repressor count",
		Example: `  lacthermo curve --operator O2 --repressors 22,260,1740
  lacthermo curve --energy -15.3 --iptg-max 1000 --points 20 -o jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := mf.resolve(cmd.Flags(), rt.table)
			if err != nil {
				return err
			}
			reps, err := parseRepressors(repressors, rt.table)
			if err != nil {
				return err
			}
			g := rt.cfg.Grid
			iptg := ndarray.LogspaceBetween(g.IPTGMin, g.IPTGMax, g.Points)
			if includeZero {
				iptg = append([]float64{0}, iptg...)
			}

			// (iptg × repressors) grid, transposed so rows run along each curve
			rr, cc := ndarray.Meshgrid(reps, iptg)
			sr := thermo.SimpleRepression{
				Repressors:     rr,
				OperatorEnergy: ndarray.Scalar(m.energy),
				Effector:       cc,
				Allostery:      m.allo,
				NNS:            m.nns,
			}
			pact, err := sr.Pact()
			if err != nil {
				return err
			}
			fc, err := sr.FoldChange()
			if err != nil {
				return err
			}
			pact, fc = pact.T(), fc.T()
			rt.log.Debug("curve", "operator", m.operator, "energy", m.energy,
				"repressors", len(reps), "points", len(iptg))

			return rt.write(curveColumns, func(out chan<- writers.Row) error {
				for i, r := range reps {
					for j, c := range iptg {
						if err := cmd.Context().Err(); err != nil {
							return err
						}
						out <- curveRow(api.CurvePointV1{
							Operator:       m.operator,
							OperatorEnergy: m.energy,
							Repressors:     r,
							IPTGuM:         c,
							Pact:           pact.At(i, j),
							FoldChange:     fc.At(i, j),
						})
					}
				}
				return nil
			})
		},
	}
	fs := cmd.Flags()
	mf.registerOperator(fs)
	mf.registerAllostery(fs)
	fs.StringVar(&repressors, "repressors", "", "repressors per cell or strain names, comma separated (default every strain)")
	fs.Float64("iptg-min", 0.1, "lowest IPTG concentration in µM")
	fs.Float64("iptg-max", 5000, "highest IPTG concentration in µM")
	fs.Int("points", 50, "log-spaced points per curve")
	fs.BoolVar(&includeZero, "include-zero", false, "prepend IPTG = 0 to every curve")
	return cmd
}

func newTitrationCmd(rt *runtime) *cobra.Command {
	var (
		mf   modelFlags
		iptg string
	)
	cmd := &cobra.Command{
		Use:   "titration",
		Short: "Repressor titration: fold-change against repressor count at fixed IPTG",
		Example: `  lacthermo titration --operator O1 --iptg 0
  lacthermo titration --iptg 0,50uM,1mM --rep-min 1 --rep-max 10000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := mf.resolve(cmd.Flags(), rt.table)
			if err != nil {
				return err
			}
			conc, err := cliutil.ParseConcentrations(iptg)
			if err != nil {
				return usageErr(err)
			}
			if len(conc) == 0 {
				conc = []float64{0}
			}
			g := rt.cfg.Grid
			reps := ndarray.LogspaceBetween(g.RepMin, g.RepMax, g.Points)

			// rows of rr/cc are one titration per IPTG concentration
			rr, cc := ndarray.Meshgrid(reps, conc)
			sr := thermo.SimpleRepression{
				Repressors:     rr,
				OperatorEnergy: ndarray.Scalar(m.energy),
				Effector:       cc,
				Allostery:      m.allo,
				NNS:            m.nns,
			}
			pact, err := sr.Pact()
			if err != nil {
				return err
			}
			fc, err := sr.FoldChange()
			if err != nil {
				return err
			}

			return rt.write(curveColumns, func(out chan<- writers.Row) error {
				for i, c := range conc {
					for j, r := range reps {
						if err := cmd.Context().Err(); err != nil {
							return err
						}
						out <- curveRow(api.CurvePointV1{
							Operator:       m.operator,
							OperatorEnergy: m.energy,
							Repressors:     r,
							IPTGuM:         c,
							Pact:           pact.At(i, j),
							FoldChange:     fc.At(i, j),
						})
					}
				}
				return nil
			})
		},
	}
	fs := cmd.Flags()
	mf.registerOperator(fs)
	mf.registerAllostery(fs)
	fs.StringVar(&iptg, "iptg", "0", "IPTG concentration(s), comma separated; bare numbers are µM (e.g. 50, 500nM, 1mM)")
	fs.Float64("rep-min", 10, "lowest repressor count per cell")
	fs.Float64("rep-max", 2000, "highest repressor count per cell")
	fs.Int("points", 50, "log-spaced repressor counts")
	return cmd
}

func curveRow(p api.CurvePointV1) writers.Row {
	return writers.Row{
		Cells: []string{
			p.Operator,
			writers.Float(p.OperatorEnergy),
			writers.Float(p.Repressors),
			writers.Float(p.IPTGuM),
			writers.Float(p.Pact),
			writers.Float(p.FoldChange),
		},
		Record: p,
	}
}

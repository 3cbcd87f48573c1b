package app

import (
	"errors"

	"github.com/spf13/cobra"

	"lacthermo/internal/thermo"
	"lacthermo/internal/writers"
	"lacthermo/pkg/api"
)

var propertiesColumns = []string{
	"operator", "operator_energy", "repressors",
	"leakiness", "saturation", "dynamic_range", "ec50_uM", "effective_hill",
}

func newPropertiesCmd(rt *runtime) *cobra.Command {
	var (
		mf         modelFlags
		repressors string
	)
	cmd := &cobra.Command{
		Use:   "properties",
		Short: "Leakiness, saturation, dynamic range, EC50 and effective Hill coefficient",
		Example: `  lacthermo properties --operator O1 -o pretty
  lacthermo properties --energy -9.7 --repressors RBS1027,1740`,
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

			props := make([]api.PropertiesV1, 0, len(reps))
			for _, r := range reps {
				p, err := induction(m, r)
				if err != nil {
					return err
				}
				if p.EC50uM == 0 {
					rt.log.Warn("flat induction response; EC50 undefined", "operator", m.operator, "repressors", r)
				}
				props = append(props, p)
			}

			return rt.write(propertiesColumns, func(out chan<- writers.Row) error {
				for _, p := range props {
					out <- writers.Row{
						Cells: []string{
							p.Operator,
							writers.Float(p.OperatorEnergy),
							writers.Float(p.Repressors),
							writers.Float(p.Leakiness),
							writers.Float(p.Saturation),
							writers.Float(p.DynamicRange),
							optFloat(p.EC50uM),
							optFloat(p.Hill),
						},
						Record: p,
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
	return cmd
}

// induction evaluates one strain. A flat response (no repressor, or Ka = Ki)
// still reports its limits and leaves EC50 and Hill unset.
func induction(m model, r float64) (api.PropertiesV1, error) {
	p := thermo.Params{Repressors: r, OperatorEnergy: m.energy, Allostery: m.allo, NNS: m.nns}
	out := api.PropertiesV1{Operator: m.operator, OperatorEnergy: m.energy, Repressors: r}

	ind, err := p.Induction()
	var pe *thermo.InvalidParameterError
	if errors.As(err, &pe) && pe.Param == "dynamic_range" {
		if ind.Leakiness, err = p.Leakiness(); err != nil {
			return out, err
		}
		if ind.Saturation, err = p.Saturation(); err != nil {
			return out, err
		}
		ind.DynamicRange = ind.Saturation - ind.Leakiness
	} else if err != nil {
		return out, err
	}

	out.Leakiness = ind.Leakiness
	out.Saturation = ind.Saturation
	out.DynamicRange = ind.DynamicRange
	out.EC50uM = ind.EC50
	out.Hill = ind.Hill
	return out, nil
}

// optFloat leaves undefined (zero) properties blank in TSV.
func optFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return writers.Float(v)
}

package app

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lacthermo/internal/seqmat"
	"lacthermo/internal/writers"
	"lacthermo/pkg/api"
)

func newSeqmatCmd(rt *runtime) *cobra.Command {
	var alphabet, modelName string
	cmd := &cobra.Command{
		Use:   "seqmat <sequence | ->",
		Short: "One-hot encode a sequence as a symbol × position matrix",
		Long: `seqmat prints one row per matrix column: its 1-based position, the symbol
it encodes and the one-hot values in alphabet order. Models are MAT (one
column per residue), NBR (neighbouring pairs) and PAIR (all pairs).`,
		Example: `  lacthermo seqmat ACGTTG
  lacthermo seqmat --alphabet protein --model NBR MKV -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := seqmat.ParseModel(modelName)
			if err != nil {
				return usageErr(err)
			}
			a, err := seqmat.Lookup(alphabet, model)
			if err != nil {
				return err
			}
			seq := args[0]
			if seq == "-" {
				if seq, err = readSequence(os.Stdin); err != nil {
					return ioErr(err)
				}
			}
			m, err := seqmat.SeqToMatrix(seq, a)
			if err != nil {
				return err
			}

			rows, cols := m.Dims()
			rt.log.Debug("sequence encoded", "residues", len([]rune(seqmat.Normalize(seq))),
				"alphabet", a.Name(), "model", string(model), "columns", cols)
			header := append([]string{"column", "symbol"}, a.Symbols()...)
			return rt.write(header, func(out chan<- writers.Row) error {
				for j := 0; j < cols; j++ {
					if err := cmd.Context().Err(); err != nil {
						return err
					}
					rec := api.MatrixColumnV1{Column: j + 1, Values: make([]float64, rows)}
					cells := make([]string, 2, rows+2)
					cells[0] = strconv.Itoa(j + 1)
					for i := 0; i < rows; i++ {
						v := m.At(i, j)
						rec.Values[i] = v
						if v == 1 {
							rec.Symbol = a.Symbol(i)
						}
						cells = append(cells, writers.Float(v))
					}
					cells[1] = rec.Symbol
					out <- writers.Row{Cells: cells, Record: rec}
				}
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&alphabet, "alphabet", "dna", "alphabet: "+strings.Join(seqmat.Names(), " | "))
	flags.StringVar(&modelName, "model", string(seqmat.ModelMAT), "encoding: MAT | NBR | PAIR")
	return cmd
}

// readSequence reads a raw or FASTA-formatted sequence, skipping '>' headers.
func readSequence(r io.Reader) (string, error) {
	var b strings.Builder
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, ">") {
			continue
		}
		b.WriteString(line)
	}
	return b.String(), sc.Err()
}

var constantsColumns = []string{"kind", "name", "value", "unit"}

func newConstantsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "constants",
		Short: "Print the active constants table",
		Long: `constants prints operator binding energies, repressor copy numbers per strain
and the allosteric constants, after any --constants overlay.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := rt.table
			var entries []api.ConstantV1
			for _, op := range t.OperatorNames() {
				entries = append(entries, api.ConstantV1{Kind: "operator", Name: op, Value: t.Operators[op], Unit: "kBT"})
			}
			for _, s := range t.StrainNames() {
				entries = append(entries, api.ConstantV1{Kind: "strain", Name: s, Value: t.Repressors[s], Unit: "per cell"})
			}
			entries = append(entries,
				api.ConstantV1{Kind: "allostery", Name: "Ka", Value: t.Ka, Unit: "uM"},
				api.ConstantV1{Kind: "allostery", Name: "Ki", Value: t.Ki, Unit: "uM"},
				api.ConstantV1{Kind: "allostery", Name: "ep_AI", Value: t.EpAI, Unit: "kBT"},
				api.ConstantV1{Kind: "allostery", Name: "n_sites", Value: float64(t.NSites)},
				api.ConstantV1{Kind: "allostery", Name: "n_ns", Value: t.NNS},
			)

			return rt.write(constantsColumns, func(out chan<- writers.Row) error {
				for _, c := range entries {
					out <- writers.Row{
						Cells:  []string{c.Kind, c.Name, writers.Float(c.Value), c.Unit},
						Record: c,
					}
				}
				return nil
			})
		},
	}
}

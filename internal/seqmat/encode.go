package seqmat

import (
	"errors"
	"fmt"
	"unicode"

	"gonum.org/v1/gonum/mat"
)

// ErrEmptySequence is returned for sequences with no residues.
var ErrEmptySequence = errors.New("empty sequence")

// UnknownSymbolError reports a residue absent from the chosen alphabet.
type UnknownSymbolError struct {
	Symbol   string
	Pos      int // 1-based rune offset in the caller's input
	Alphabet string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("invalid symbol %q at %d for alphabet %s", e.Symbol, e.Pos, e.Alphabet)
}

// Normalize removes whitespace and quotes and uppercases residues.
func Normalize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if ignored(r) {
			continue
		}
		out = append(out, unicode.ToUpper(r))
	}
	return string(out)
}

func ignored(r rune) bool { return unicode.IsSpace(r) || r == '\'' || r == '"' }

// Encode is SeqToMatrix with a MAT alphabet looked up by name.
func Encode(seq, alphabet string) (*mat.Dense, error) {
	a, err := Lookup(alphabet, ModelMAT)
	if err != nil {
		return nil, err
	}
	return SeqToMatrix(seq, a)
}

// SeqToMatrix one-hot encodes seq. Each column holds a single 1 in the row of
// its symbol.
//
//	MAT:  Size() × len(seq)
//	NBR:  Size() × (len(seq)-1), column i is seq[i:i+2]
//	PAIR: Size() × len(seq)(len(seq)-1)/2, columns ordered (0,1) (0,2) … (1,2) …
func SeqToMatrix(seq string, a *Alphabet) (*mat.Dense, error) {
	rows, err := residueRows(seq, a.residueAlphabet())
	if err != nil {
		return nil, err
	}
	n := len(rows)
	size := a.residueAlphabet().Size()

	switch a.model {
	case ModelNBR:
		if n < 2 {
			return nil, fmt.Errorf("NBR encoding needs at least 2 residues, got %d", n)
		}
		m := mat.NewDense(a.Size(), n-1, nil)
		for i := 0; i < n-1; i++ {
			m.Set(rows[i]*size+rows[i+1], i, 1)
		}
		return m, nil

	case ModelPAIR:
		if n < 2 {
			return nil, fmt.Errorf("PAIR encoding needs at least 2 residues, got %d", n)
		}
		m := mat.NewDense(a.Size(), n*(n-1)/2, nil)
		col := 0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				m.Set(rows[i]*size+rows[j], col, 1)
				col++
			}
		}
		return m, nil
	}

	m := mat.NewDense(a.Size(), n, nil)
	for i, r := range rows {
		m.Set(r, i, 1)
	}
	return m, nil
}

func residueRows(seq string, a *Alphabet) ([]int, error) {
	var rows []int
	pos := 0
	for _, r := range seq {
		pos++
		if ignored(r) {
			continue
		}
		sym := string(unicode.ToUpper(r))
		row, ok := a.Index(sym)
		if !ok {
			return nil, &UnknownSymbolError{Symbol: sym, Pos: pos, Alphabet: a.Name()}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmptySequence
	}
	return rows, nil
}

// MatrixToSeq decodes a MAT one-hot matrix back into its sequence.
func MatrixToSeq(m mat.Matrix, a *Alphabet) (string, error) {
	if a.model != ModelMAT {
		return "", fmt.Errorf("cannot decode %s matrices", a.model)
	}
	r, c := m.Dims()
	if r != a.Size() {
		return "", fmt.Errorf("matrix has %d rows, alphabet %s has %d symbols", r, a.Name(), a.Size())
	}
	out := make([]byte, 0, c)
	for j := 0; j < c; j++ {
		hit := -1
		for i := 0; i < r; i++ {
			switch v := m.At(i, j); {
			case v == 1 && hit < 0:
				hit = i
			case v != 0:
				return "", fmt.Errorf("column %d is not one-hot", j+1)
			}
		}
		if hit < 0 {
			return "", fmt.Errorf("column %d is empty", j+1)
		}
		out = append(out, a.Symbol(hit)...)
	}
	return string(out), nil
}

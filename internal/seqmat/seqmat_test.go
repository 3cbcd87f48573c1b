package seqmat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestEncode_DNAIdentity(t *testing.T) {
	m, err := Encode("ACGT", "dna")
	require.NoError(t, err)
	r, c := m.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 4, c)
	id := mat.NewDiagDense(4, []float64{1, 1, 1, 1})
	assert.True(t, mat.Equal(m, id), "got\n%v", mat.Formatted(m))
}

func TestEncode_ColumnsAreOneHot(t *testing.T) {
	cases := []struct {
		alphabet string
		seq      string
		rows     int
	}{
		{"dna", "TTGACA", 4},
		{"rna", "acgu acgu", 4},
		{"protein", "MKV*", 21},
	}
	for _, tc := range cases {
		t.Run(tc.alphabet, func(t *testing.T) {
			m, err := Encode(tc.seq, tc.alphabet)
			require.NoError(t, err)
			r, c := m.Dims()
			assert.Equal(t, tc.rows, r)
			assert.Equal(t, len(Normalize(tc.seq)), c)
			for j := 0; j < c; j++ {
				assert.Equal(t, 1.0, mat.Sum(m.ColView(j)), "column %d", j)
			}
		})
	}
}

func TestEncode_ProteinStopIsRowZero(t *testing.T) {
	m, err := Encode("*", "protein")
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.At(0, 0))
}

func TestEncode_UnknownAlphabet(t *testing.T) {
	_, err := Encode("ACGT", "dnaa")
	var ua *UnknownAlphabetError
	require.True(t, errors.As(err, &ua), "got %v", err)
	assert.Equal(t, "dnaa", ua.Name)
	assert.Contains(t, err.Error(), "dna protein rna")
}

func TestEncode_UnknownSymbol(t *testing.T) {
	cases := []struct {
		alphabet, seq, sym string
		pos                int
	}{
		{"dna", "ACGU", "U", 4},
		{"rna", "ACGT", "T", 4},
		{"dna", "ACNGT", "N", 3},
		{"protein", "MKXV", "X", 3},
		{"dna", "AC GX", "X", 5},
		{"dna", "\"acg\" n", "N", 7},
		{"rna", "ac\n\tgt", "T", 6},
	}
	for _, tc := range cases {
		t.Run(tc.alphabet+"/"+tc.seq, func(t *testing.T) {
			_, err := Encode(tc.seq, tc.alphabet)
			var us *UnknownSymbolError
			require.True(t, errors.As(err, &us), "got %v", err)
			assert.Equal(t, tc.sym, us.Symbol)
			assert.Equal(t, tc.pos, us.Pos)
		})
	}
}

func TestEncode_Empty(t *testing.T) {
	_, err := Encode("  ", "dna")
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestPairModels(t *testing.T) {
	nbr, err := Lookup("dna", ModelNBR)
	require.NoError(t, err)
	assert.Equal(t, 16, nbr.Size())
	i, ok := nbr.Index("CG")
	require.True(t, ok)
	assert.Equal(t, 1*4+2, i)

	m, err := SeqToMatrix("ACGT", nbr)
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 16, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 1.0, m.At(1, 0))  // AC
	assert.Equal(t, 1.0, m.At(6, 1))  // CG
	assert.Equal(t, 1.0, m.At(11, 2)) // GT

	pair, err := Lookup("dna", ModelPAIR)
	require.NoError(t, err)
	m, err = SeqToMatrix("ACGT", pair)
	require.NoError(t, err)
	_, c = m.Dims()
	assert.Equal(t, 6, c)
	assert.Equal(t, 1.0, m.At(3, 2))  // (0,3) = AT
	assert.Equal(t, 1.0, m.At(11, 5)) // (2,3) = GT

	_, err = SeqToMatrix("A", nbr)
	assert.Error(t, err)

	_, err = SeqToMatrix("ANGT", pair)
	var us *UnknownSymbolError
	require.True(t, errors.As(err, &us))
	assert.Equal(t, 2, us.Pos)
}

func TestParseModel(t *testing.T) {
	for in, want := range map[string]Model{"": ModelMAT, "mat": ModelMAT, "NBR": ModelNBR, " pair ": ModelPAIR} {
		got, err := ParseModel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseModel("triplet")
	assert.Error(t, err)
}

func TestMatrixToSeq(t *testing.T) {
	a, err := Lookup("rna", ModelMAT)
	require.NoError(t, err)
	m, err := SeqToMatrix("GAUUACA", a)
	require.NoError(t, err)
	got, err := MatrixToSeq(m, a)
	require.NoError(t, err)
	assert.Equal(t, "GAUUACA", got)

	m.Set(0, 0, 1) // second 1 in column 0
	_, err = MatrixToSeq(m, a)
	assert.Error(t, err)
}

// internal/seqmat/alphabet.go
package seqmat

import (
	"fmt"
	"sort"
	"strings"
)

// Model selects how a sequence is projected onto matrix rows.
type Model string

const (
	ModelMAT  Model = "MAT"  // one residue per column
	ModelNBR  Model = "NBR"  // neighbouring residue pairs, seq[i:i+2]
	ModelPAIR Model = "PAIR" // every position pair i<j
)

// ParseModel accepts MAT, NBR or PAIR in any case; empty means MAT.
func ParseModel(s string) (Model, error) {
	switch m := Model(strings.ToUpper(strings.TrimSpace(s))); m {
	case "":
		return ModelMAT, nil
	case ModelMAT, ModelNBR, ModelPAIR:
		return m, nil
	}
	return "", fmt.Errorf("unknown model type %q; allowed: MAT NBR PAIR", s)
}

// UnknownAlphabetError reports an alphabet name with no symbol table.
type UnknownAlphabetError struct {
	Name string
}

func (e *UnknownAlphabetError) Error() string {
	return fmt.Sprintf("unknown alphabet %q; allowed: %s", e.Name, strings.Join(Names(), " "))
}

// Residue orders. Row i of an encoded matrix is residue i.
var residues = map[string][]string{
	"dna": {"A", "C", "G", "T"},
	"rna": {"A", "C", "G", "U"},
	"protein": {
		"*", "A", "C", "D", "E", "F", "G", "H", "I", "K", "L",
		"M", "N", "P", "Q", "R", "S", "T", "V", "W", "Y",
	},
}

// Alphabet is an immutable symbol ↔ row-index mapping.
type Alphabet struct {
	name    string
	model   Model
	symbols []string
	index   map[string]int
	single  *Alphabet // residue alphabet behind an NBR/PAIR alphabet
}

// Names lists the recognised alphabet names.
func Names() []string {
	out := make([]string, 0, len(residues))
	for k := range residues {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func newAlphabet(name string, model Model, symbols []string) *Alphabet {
	a := &Alphabet{name: name, model: model, symbols: symbols, index: make(map[string]int, len(symbols))}
	for i, s := range symbols {
		a.index[s] = i
	}
	return a
}

// Lookup returns the alphabet for name (dna, rna, protein) under model.
// Pair models index the two-residue symbol xy as index(x)*size + index(y).
func Lookup(name string, model Model) (*Alphabet, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	res, ok := residues[key]
	if !ok {
		return nil, &UnknownAlphabetError{Name: name}
	}
	single := newAlphabet(key, ModelMAT, append([]string(nil), res...))
	switch model {
	case ModelMAT, "":
		return single, nil
	case ModelNBR, ModelPAIR:
		pairs := make([]string, 0, len(res)*len(res))
		for _, x := range res {
			for _, y := range res {
				pairs = append(pairs, x+y)
			}
		}
		a := newAlphabet(key, model, pairs)
		a.single = single
		return a, nil
	}
	return nil, fmt.Errorf("unknown model type %q; allowed: MAT NBR PAIR", model)
}

// Name is the alphabet name (dna, rna, protein).
func (a *Alphabet) Name() string { return a.name }

// Model is the projection the alphabet was built for.
func (a *Alphabet) Model() Model { return a.model }

// Size is the number of symbols (matrix rows).
func (a *Alphabet) Size() int { return len(a.symbols) }

// Symbols returns the symbols in row order.
func (a *Alphabet) Symbols() []string { return append([]string(nil), a.symbols...) }

// Index returns the row of sym.
func (a *Alphabet) Index(sym string) (int, bool) {
	i, ok := a.index[sym]
	return i, ok
}

// Symbol returns the symbol of row i.
func (a *Alphabet) Symbol(i int) string { return a.symbols[i] }

// residueAlphabet is the single-residue alphabet used to validate input.
func (a *Alphabet) residueAlphabet() *Alphabet {
	if a.single != nil {
		return a.single
	}
	return a
}

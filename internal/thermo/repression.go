// internal/thermo/repression.go
// Simple repression: one operator competing with n_ns non-specific sites for R
// repressors, of which only the active fraction binds.
//
//	fold-change = 1 / (1 + pact(c) · (R / n_ns) · e^{-Δε_RA})
//
// The fold-change is the probability that the operator is free relative to a
// strain without repressor. R = 0 gives exactly 1.

package thermo

import (
	"math"

	"lacthermo/internal/ndarray"
)

// Params is a scalar evaluation point of the simple-repression model.
type Params struct {
	Repressors     float64 // repressors per cell (≥ 0)
	OperatorEnergy float64 // Δε_RA, repressor–operator binding energy (k_BT)
	Effector       float64 // effector (inducer) concentration (≥ 0)
	Allostery
	NNS float64 // non-specific binding sites (> 0)
}

func (p Params) validate() error {
	if err := p.Allostery.validate(); err != nil {
		return err
	}
	if err := checkNNS(p.NNS); err != nil {
		return err
	}
	if err := checkRepressors(p.Repressors); err != nil {
		return err
	}
	if err := checkEnergy(p.OperatorEnergy); err != nil {
		return err
	}
	return checkEffector(p.Effector)
}

func checkNNS(v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return invalid("n_ns", v, "must be finite and > 0")
	}
	return nil
}

func checkRepressors(r float64) error {
	if !(r >= 0) || math.IsInf(r, 0) {
		return invalid("repressor_count", r, "must be finite and ≥ 0")
	}
	return nil
}

func checkEnergy(e float64) error {
	if math.IsNaN(e) || math.IsInf(e, 0) {
		return invalid("operator_energy", e, "must be finite")
	}
	return nil
}

// foldChange is evaluated as e^{-softplus(L)}, L = log(pact·r/n_ns) - Δε_RA,
// so no factor overflows for strong operators. No repressor is exactly 1.
func foldChange(logPact, r, nns, epR float64) float64 {
	if r == 0 {
		return 1
	}
	return math.Exp(-softplus(logPact + math.Log(r) - math.Log(nns) - epR))
}

func bohr(logPact, r, nns, epR float64) float64 {
	return -logPact - math.Log(r) + math.Log(nns) + epR
}

// Pact returns the active-repressor probability at p.Effector.
func (p Params) Pact() (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	return p.pact(p.Effector), nil
}

// FoldChange returns the fold-change in expression at p.
func (p Params) FoldChange() (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	return foldChange(p.logPact(p.Effector), p.Repressors, p.NNS, p.OperatorEnergy), nil
}

// BohrParameter returns F such that fold-change = 1/(1 + e^{-F}).
// It is +Inf when there is no repressor.
func (p Params) BohrParameter() (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	return bohr(p.logPact(p.Effector), p.Repressors, p.NNS, p.OperatorEnergy), nil
}

// SimpleRepression evaluates the model over arrays. Repressors, OperatorEnergy
// and Effector broadcast together; an unset Effector means no inducer.
type SimpleRepression struct {
	Repressors     ndarray.Array
	OperatorEnergy ndarray.Array
	Effector       ndarray.Array
	Allostery
	NNS float64
}

// NewSimpleRepression builds a model with default n_sites and n_ns.
func NewSimpleRepression(repressors, operatorEnergy, effector ndarray.Array, ka, ki, epAI float64) SimpleRepression {
	return SimpleRepression{
		Repressors:     repressors,
		OperatorEnergy: operatorEnergy,
		Effector:       effector,
		Allostery:      Allostery{Ka: ka, Ki: ki, EpAI: epAI, NSites: DefaultNSites},
		NNS:            DefaultNNS,
	}
}

func (m SimpleRepression) inputs() (r, e, c ndarray.Array, err error) {
	if err = m.Allostery.validate(); err != nil {
		return
	}
	if err = checkNNS(m.NNS); err != nil {
		return
	}
	r, e, c = m.Repressors, m.OperatorEnergy, m.Effector
	if r.IsEmpty() {
		return r, e, c, &InvalidParameterError{Param: "repressor_count", Value: math.NaN(), Reason: "not set"}
	}
	if e.IsEmpty() {
		return r, e, c, &InvalidParameterError{Param: "operator_energy", Value: math.NaN(), Reason: "not set"}
	}
	if c.IsEmpty() {
		c = ndarray.Scalar(0)
	}
	for _, v := range r.Data() {
		if err = checkRepressors(v); err != nil {
			return
		}
	}
	for _, v := range e.Data() {
		if err = checkEnergy(v); err != nil {
			return
		}
	}
	err = checkEffectorArray(c)
	return
}

// Pact returns the active-repressor probability broadcast to the model shape.
func (m SimpleRepression) Pact() (ndarray.Array, error) {
	r, e, c, err := m.inputs()
	if err != nil {
		return ndarray.Array{}, err
	}
	pact, err := m.Allostery.PactArray(c)
	if err != nil {
		return ndarray.Array{}, err
	}
	return ndarray.Apply(func(xs []float64) float64 { return xs[2] }, r, e, pact)
}

// FoldChange evaluates the fold-change elementwise over the broadcast of the
// model's array inputs.
func (m SimpleRepression) FoldChange() (ndarray.Array, error) {
	r, e, c, err := m.inputs()
	if err != nil {
		return ndarray.Array{}, err
	}
	return ndarray.Apply(func(xs []float64) float64 {
		return foldChange(m.logPact(xs[2]), xs[0], m.NNS, xs[1])
	}, r, e, c)
}

// BohrParameter evaluates F elementwise.
func (m SimpleRepression) BohrParameter() (ndarray.Array, error) {
	r, e, c, err := m.inputs()
	if err != nil {
		return ndarray.Array{}, err
	}
	return ndarray.Apply(func(xs []float64) float64 {
		return bohr(m.logPact(xs[2]), xs[0], m.NNS, xs[1])
	}, r, e, c)
}

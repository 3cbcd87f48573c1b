// internal/thermo/mwc.go
// Monod–Wyman–Changeux two-state allostery for an inducible repressor.
//
// The repressor flips between an active (DNA-binding) and an inactive state
// separated by ε_AI (k_BT). Each of n effector sites binds with dissociation
// constant Ka in the active state and Ki in the inactive state:
//
//	pact(c) = (1 + c/Ka)^n / [ (1 + c/Ka)^n + e^{-ε_AI} (1 + c/Ki)^n ]
//
// Evaluated as 1 / (1 + e^{-ε_AI} ((1 + c/Ki)/(1 + c/Ka))^n), which stays finite
// for large c and is exactly 1/(1 + e^{-ε_AI}) at c = 0.
//
// Concentrations c, Ka and Ki only need to share a unit (µM throughout the CLI).

package thermo

import (
	"math"

	"lacthermo/internal/ndarray"
)

const (
	// DefaultNSites is the number of effector binding sites per repressor (dimer).
	DefaultNSites = 2
	// DefaultNNS is the number of non-specific binding sites in the E. coli genome.
	DefaultNNS = 4.6e6
)

// Allostery holds the effector-binding constants of the repressor.
type Allostery struct {
	Ka     float64 // effector dissociation constant, active state (> 0)
	Ki     float64 // effector dissociation constant, inactive state (> 0)
	EpAI   float64 // ε_AI in k_BT: inactive minus active free energy
	NSites int     // effector binding sites per repressor (≥ 0)
}

func (a Allostery) validate() error {
	if !(a.Ka > 0) || math.IsInf(a.Ka, 0) {
		return invalid("Ka", a.Ka, "must be finite and > 0")
	}
	if !(a.Ki > 0) || math.IsInf(a.Ki, 0) {
		return invalid("Ki", a.Ki, "must be finite and > 0")
	}
	if math.IsNaN(a.EpAI) || math.IsInf(a.EpAI, 0) {
		return invalid("ep_AI", a.EpAI, "must be finite")
	}
	if a.NSites < 0 {
		return invalid("n_sites", float64(a.NSites), "must be ≥ 0")
	}
	return nil
}

func checkEffector(c float64) error {
	if !(c >= 0) || math.IsInf(c, 0) {
		return invalid("effector_concentration", c, "must be finite and ≥ 0")
	}
	return nil
}

// pact is the unchecked MWC probability.
func (a Allostery) pact(c float64) float64 {
	ratio := (1 + c/a.Ki) / (1 + c/a.Ka)
	return 1 / (1 + math.Exp(-a.EpAI)*math.Pow(ratio, float64(a.NSites)))
}

// logPact is log pact(c). It stays finite where pact itself underflows.
func (a Allostery) logPact(c float64) float64 {
	return -softplus(float64(a.NSites)*math.Log((1+c/a.Ki)/(1+c/a.Ka)) - a.EpAI)
}

// logPactSaturated is the c → ∞ limit of logPact.
func (a Allostery) logPactSaturated() float64 {
	return -softplus(float64(a.NSites)*math.Log(a.Ka/a.Ki) - a.EpAI)
}

// softplus is log(1 + e^x) without overflow.
func softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}

// Pact returns the probability that the repressor is active at effector
// concentration c.
func (a Allostery) Pact(c float64) (float64, error) {
	if err := a.validate(); err != nil {
		return 0, err
	}
	if err := checkEffector(c); err != nil {
		return 0, err
	}
	return a.pact(c), nil
}

// PactArray evaluates Pact elementwise.
func (a Allostery) PactArray(c ndarray.Array) (ndarray.Array, error) {
	if err := a.validate(); err != nil {
		return ndarray.Array{}, err
	}
	if err := checkEffectorArray(c); err != nil {
		return ndarray.Array{}, err
	}
	return c.Map(a.pact), nil
}

func checkEffectorArray(c ndarray.Array) error {
	for _, v := range c.Data() {
		if err := checkEffector(v); err != nil {
			return err
		}
	}
	return nil
}

package thermo

import (
	"math"
)

// Induction summarises the fold-change response to effector for one strain.
type Induction struct {
	Leakiness    float64 // fold-change without effector
	Saturation   float64 // fold-change at saturating effector
	DynamicRange float64 // Saturation - Leakiness
	EC50         float64 // effector concentration at the midpoint response
	Hill         float64 // effective Hill coefficient at EC50
}

// Leakiness is the fold-change at zero effector. p.Effector is ignored.
func (p Params) Leakiness() (float64, error) {
	p.Effector = 0
	return p.FoldChange()
}

// Saturation is the fold-change in the limit of infinite effector.
// p.Effector is ignored.
func (p Params) Saturation() (float64, error) {
	p.Effector = 0
	if err := p.validate(); err != nil {
		return 0, err
	}
	return foldChange(p.logPactSaturated(), p.Repressors, p.NNS, p.OperatorEnergy), nil
}

// DynamicRange is Saturation minus Leakiness.
func (p Params) DynamicRange() (float64, error) {
	leak, err := p.Leakiness()
	if err != nil {
		return 0, err
	}
	sat, err := p.Saturation()
	if err != nil {
		return 0, err
	}
	return sat - leak, nil
}

// fcAt is the unchecked fold-change at effector c.
func (p Params) fcAt(c float64) float64 {
	return foldChange(p.logPact(c), p.Repressors, p.NNS, p.OperatorEnergy)
}

// minDynamicRange below which the response is treated as flat.
const minDynamicRange = 1e-12

// EC50 returns the effector concentration at which the fold-change is halfway
// between leakiness and saturation. p.Effector is ignored.
func (p Params) EC50() (float64, error) {
	ind, err := p.bounds()
	if err != nil {
		return 0, err
	}
	return p.ec50(ind)
}

// EffectiveHill returns the effective Hill coefficient,
// 4/(sat - leak) · d fc / d ln c at EC50, which is n for a pure Hill curve.
func (p Params) EffectiveHill() (float64, error) {
	ind, err := p.Induction()
	if err != nil {
		return 0, err
	}
	return ind.Hill, nil
}

// Induction computes every induction property at once.
func (p Params) Induction() (Induction, error) {
	ind, err := p.bounds()
	if err != nil {
		return Induction{}, err
	}
	if ind.EC50, err = p.ec50(ind); err != nil {
		return Induction{}, err
	}

	const h = 1e-5
	lnc := math.Log(ind.EC50)
	slope := (p.fcAt(math.Exp(lnc+h)) - p.fcAt(math.Exp(lnc-h))) / (2 * h)
	ind.Hill = 4 / ind.DynamicRange * slope
	return ind, nil
}

func (p Params) bounds() (Induction, error) {
	var ind Induction
	var err error
	if ind.Leakiness, err = p.Leakiness(); err != nil {
		return ind, err
	}
	if ind.Saturation, err = p.Saturation(); err != nil {
		return ind, err
	}
	ind.DynamicRange = ind.Saturation - ind.Leakiness
	if math.Abs(ind.DynamicRange) < minDynamicRange {
		return ind, invalid("dynamic_range", ind.DynamicRange, "induction response is flat; EC50 is undefined")
	}
	return ind, nil
}

// ec50 bisects in log-concentration; fc is monotone in c between the two limits.
func (p Params) ec50(ind Induction) (float64, error) {
	target := (ind.Leakiness + ind.Saturation) / 2
	rising := ind.DynamicRange > 0
	below := func(c float64) bool {
		if rising {
			return p.fcAt(c) < target
		}
		return p.fcAt(c) > target
	}

	lo := math.Log(math.Min(p.Ka, p.Ki)) - math.Log(1e3)
	hi := math.Log(math.Max(p.Ka, p.Ki)) + math.Log(1e3)
	for i := 0; i < 64 && !below(math.Exp(lo)); i++ {
		lo -= math.Log(1e3)
	}
	for i := 0; i < 64 && below(math.Exp(hi)); i++ {
		hi += math.Log(1e3)
	}
	if !below(math.Exp(lo)) || below(math.Exp(hi)) {
		return 0, invalid("dynamic_range", ind.DynamicRange, "could not bracket EC50")
	}

	for i := 0; i < 200 && hi-lo > 1e-13; i++ {
		mid := (lo + hi) / 2
		if below(math.Exp(mid)) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return math.Exp((lo + hi) / 2), nil
}

// pkg/api/curves_v1.go
package api

// CurvePointV1 is the stable JSON/JSONL schema for one model evaluation
// (induction curve or repressor titration). Keep fields, names, and types
// stable. Add new fields only with ",omitempty".
type CurvePointV1 struct {
	Operator       string  `json:"operator,omitempty"`
	OperatorEnergy float64 `json:"operator_energy"` // k_BT
	Repressors     float64 `json:"repressors"`      // per cell
	IPTGuM         float64 `json:"iptg_uM"`
	Pact           float64 `json:"pact"`
	FoldChange     float64 `json:"fold_change"`
}

// PropertiesV1 is the stable schema for the induction summary of one strain.
type PropertiesV1 struct {
	Operator       string  `json:"operator,omitempty"`
	OperatorEnergy float64 `json:"operator_energy"`
	Repressors     float64 `json:"repressors"`
	Leakiness      float64 `json:"leakiness"`
	Saturation     float64 `json:"saturation"`
	DynamicRange   float64 `json:"dynamic_range"`
	EC50uM         float64 `json:"ec50_uM,omitempty"`
	Hill           float64 `json:"effective_hill,omitempty"`
}

// ComparisonV1 pairs one measurement with the model prediction.
type ComparisonV1 struct {
	Strain         string  `json:"strain"`
	Operator       string  `json:"operator"`
	OperatorEnergy float64 `json:"operator_energy"`
	Repressors     float64 `json:"repressors"`
	IPTGuM         float64 `json:"iptg_uM"`
	Measured       float64 `json:"fold_change"`
	Theory         float64 `json:"fold_change_theory"`
	Residual       float64 `json:"residual"`       // measured - theory
	Bohr           float64 `json:"bohr_parameter"` // k_BT
	SourceFile     string  `json:"source_file,omitempty"`
}

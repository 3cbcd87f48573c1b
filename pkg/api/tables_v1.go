// pkg/api/tables_v1.go
package api

// MatrixColumnV1 is one column of a one-hot sequence matrix.
type MatrixColumnV1 struct {
	Column int       `json:"column"` // 1-based
	Symbol string    `json:"symbol"`
	Values []float64 `json:"values"`
}

// ConstantV1 is one entry of the parameter table.
type ConstantV1 struct {
	Kind  string  `json:"kind"` // "operator" | "strain" | "allostery"
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

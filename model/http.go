package model

type RealizeRequestBody struct {
	Tonic     string `json:"tonic" validate:"required"`
	Scale     string `json:"scale"`
	Node      string `json:"node"`
	Min       string `json:"min,omitempty"`
	Max       string `json:"max,omitempty"`
	Direction string `json:"direction,omitempty" validate:"omitempty,oneof=bi ascending descending"`
}

type RealizeResponse struct {
	Pitches []string `json:"pitches"`
	NodeIDs []string `json:"node_ids"`
}

type FindRequestBody struct {
	Pitches []string `json:"pitches" validate:"required,min=1"`
	Scale   string   `json:"scale"`
	Results int      `json:"results" validate:"min=0"`
}

type FindResult struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type FindResponse struct {
	Results []FindResult `json:"results"`
}

// FiguredRequestBody asks for a figured bass realization. Each segment tries
// every tuple of candidate pitches for the upper parts, about 12^(parts-1),
// so parts are capped at 6.
type FiguredRequestBody struct {
	Key      string `json:"key" validate:"required"`
	Mode     string `json:"mode"`
	Line     string `json:"line" validate:"required"`
	NumParts int    `json:"num_parts,omitempty" validate:"omitempty,min=2,max=6"`
	MaxPitch string `json:"max_pitch,omitempty"`
	Count    int    `json:"count,omitempty" validate:"min=0,max=1000"`
	Uniform  bool   `json:"uniform,omitempty"`
	Seed     int64  `json:"seed,omitempty"`
}

type FiguredResponse struct {
	ID           string     `json:"id"`
	NumSolutions string     `json:"num_solutions"`
	Progressions [][]string `json:"progressions"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

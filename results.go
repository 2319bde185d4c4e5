package forecaster

import "time"

// ModelInfo describes how a forecast was produced.
type ModelInfo struct {
	Type             string    `json:"type"`
	Methods          []string  `json:"methods"`
	Weights          []float64 `json:"weights"`
	LastTrainingDate time.Time `json:"lastTrainingDate"`
}

// Results holds a dated forecast sequence with confidence bounds and the
// model metadata that produced it. All slices have the same length, one
// entry per horizon step.
type Results struct {
	T        []time.Time `json:"time"`
	Forecast []float64   `json:"forecast"`
	Upper    []float64   `json:"upper"`
	Lower    []float64   `json:"lower"`
	Model    ModelInfo   `json:"model"`
}

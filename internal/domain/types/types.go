// Package types contains common types used across the application
package types

import "github.com/okian/surfcast/internal/domain/model"

// Ranking is the result of one ranking request.
type Ranking struct {
	RequestID string             `json:"request_id"`
	Month     int                `json:"month"`
	Spots     []model.RankedSpot `json:"spots"`
}

// Dataset is one series of a chart.
type Dataset struct {
	Label string    `json:"label,omitempty"`
	Data  []float64 `json:"data"`
}

// Chart is a labelled set of series for the forecast chart.
type Chart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

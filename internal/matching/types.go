// Package matching scores candidates against job postings, first by asking
// the model and then with a weighted heuristic when the model cannot answer.
package matching

import (
	"strings"
)

const (
	MethodModel     = "model"
	MethodHeuristic = "heuristic"

	// MaxHeuristicScore caps heuristic scores; only the model may claim a perfect fit.
	MaxHeuristicScore = 0.98
)

// JobPosting is read-only input.
type JobPosting struct {
	ID           string `json:"id,omitempty" mapstructure:"id"`
	Title        string `json:"title" mapstructure:"title" binding:"required"`
	Description  string `json:"description" mapstructure:"description"`
	Requirements string `json:"requirements" mapstructure:"requirements"`
	Location     string `json:"location" mapstructure:"location"`
	Company      string `json:"company" mapstructure:"company"`
}

// Text joins the fields that describe the work itself.
func (j JobPosting) Text() string {
	return strings.Join([]string{j.Title, j.Description, j.Requirements}, "\n")
}

type MatchResult struct {
	Score          float64  `json:"score"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	Recommendation string   `json:"recommendation"`
	Method         string   `json:"method"`
}

// Package scoring implements the risk scoring engine. The engine grades
// an evidence bundle through an external language-model classifier and,
// whenever that path fails in any way, falls back to a deterministic
// local heuristic built from the same rubric. Score never returns an
// error: every submission receives a complete, bounded assessment.
package scoring

import (
	"encoding/json"
	"math"

	"github.com/vigiapix/vigia/internal/risk"
)

// Assessment is the immutable result of scoring one evidence bundle.
type Assessment struct {
	Score           int            `json:"score"`
	Confidence      float64        `json:"confidence"`
	Reasons         []string       `json:"reasons"`
	Recommendations []string       `json:"recommendations"`
	Metadata        map[string]any `json:"metadata"`
}

// Level derives the presentation tier from the score.
func (a Assessment) Level() risk.Level {
	return risk.LevelOf(a.Score)
}

// ClampScore bounds a raw score value to [0, 100]. Non-finite values
// resolve to 0.
func ClampScore(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Min(100, math.Max(0, v)))
}

// ClampConfidence bounds a raw confidence value to [0, 1]. Non-finite
// values resolve to 0.
func ClampConfidence(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}

// rawResponse holds the classifier output before field-level
// validation. Raw fields tolerate type drift in any single field
// without rejecting the whole response.
type rawResponse struct {
	Score           json.RawMessage `json:"score"`
	Confidence      json.RawMessage `json:"confidence"`
	Reasons         json.RawMessage `json:"reasons"`
	Recommendations json.RawMessage `json:"recommendations"`
	Metadata        json.RawMessage `json:"metadata"`
}

// sanitize converts a raw classifier response into a clamped
// Assessment: score missing or non-numeric resolves to 0, confidence to
// 0.5, and the list and map fields coerce to empty values when absent
// or not shaped as lists/objects.
func (r rawResponse) sanitize() Assessment {
	score := 0.0
	if r.Score != nil {
		json.Unmarshal(r.Score, &score)
	}

	confidence := 0.5
	if r.Confidence != nil {
		var c float64
		if err := json.Unmarshal(r.Confidence, &c); err == nil {
			confidence = c
		}
	}

	reasons := []string{}
	if r.Reasons != nil {
		var parsed []string
		if err := json.Unmarshal(r.Reasons, &parsed); err == nil && parsed != nil {
			reasons = parsed
		}
	}

	recommendations := []string{}
	if r.Recommendations != nil {
		var parsed []string
		if err := json.Unmarshal(r.Recommendations, &parsed); err == nil && parsed != nil {
			recommendations = parsed
		}
	}

	metadata := map[string]any{}
	if r.Metadata != nil {
		var parsed map[string]any
		if err := json.Unmarshal(r.Metadata, &parsed); err == nil && parsed != nil {
			metadata = parsed
		}
	}

	return Assessment{
		Score:           ClampScore(score),
		Confidence:      ClampConfidence(confidence),
		Reasons:         reasons,
		Recommendations: recommendations,
		Metadata:        metadata,
	}
}

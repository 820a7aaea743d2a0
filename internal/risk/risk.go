// Package risk maps numeric risk scores to discrete presentation tiers.
// Every surface that renders an assessment derives its tier, label, and
// color from this package; the tier is never stored alongside the score.
package risk

import (
	"encoding/json"
	"slices"
)

// Level represents a discrete risk tier derived from a numeric score.
type Level string

// Valid risk levels.
const (
	Safe      Level = "safe"
	Attention Level = "attention"
	HighRisk  Level = "high_risk"
)

var levels = []Level{
	Safe,
	Attention,
	HighRisk,
}

// Tier boundaries. A score of exactly 40 is safe and exactly 70 is
// attention; the lower tier is inclusive at both boundaries.
const (
	SafeMax      = 40
	AttentionMax = 70
)

// LevelOf derives the risk level for a score. It is total over all
// integers: out-of-range scores resolve to the nearest tier.
func LevelOf(score int) Level {
	switch {
	case score <= SafeMax:
		return Safe
	case score <= AttentionMax:
		return Attention
	default:
		return HighRisk
	}
}

// Levels returns the list of valid risk levels.
func Levels() []Level {
	return levels
}

// ParseLevel validates a string as a known risk level.
// Returns ErrInvalidLevel if the value is not recognized.
func ParseLevel(s string) (Level, error) {
	v := Level(s)
	if !slices.Contains(levels, v) {
		return "", ErrInvalidLevel
	}
	return v, nil
}

// Label returns the user-facing display label for the level.
func (l Level) Label() string {
	switch l {
	case Safe:
		return "Seguro"
	case Attention:
		return "Atenção"
	case HighRisk:
		return "Alto Risco"
	default:
		return "Desconhecido"
	}
}

// Color returns the display color token for the level.
func (l Level) Color() string {
	switch l {
	case Safe:
		return "#10B981"
	case Attention:
		return "#FFD200"
	case HighRisk:
		return "#EF4444"
	default:
		return "#6B7280"
	}
}

// UnmarshalJSON validates that the decoded string is a known level value.
func (l *Level) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Level(raw)
	if !slices.Contains(levels, v) {
		return ErrInvalidLevel
	}
	*l = v
	return nil
}

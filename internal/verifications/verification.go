// Package verifications implements the verification domain for Vigia.
// A verification is the stored record of one scored evidence bundle,
// owned by the user who submitted it. Analysis always succeeds when the
// bundle is valid; persistence is attempted afterwards and its failure
// is reported separately so the caller can retry the save with the
// assessment it already holds.
package verifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/vigiapix/vigia/internal/evidence"
	"github.com/vigiapix/vigia/internal/risk"
	"github.com/vigiapix/vigia/internal/scoring"
)

// Verification represents a stored assessment of one evidence bundle.
// Text fields are persisted masked; raw personal data never reaches the
// database.
type Verification struct {
	ID              uuid.UUID        `json:"id"`
	UserID          string           `json:"user_id"`
	Kind            evidence.Kind    `json:"kind"`
	RawText         string           `json:"raw_text,omitempty"`
	OCRText         string           `json:"ocr_text,omitempty"`
	QRPayload       string           `json:"qr_payload,omitempty"`
	LinkURL         string           `json:"link_url,omitempty"`
	Fields          *evidence.Fields `json:"extracted_fields,omitempty"`
	Score           int              `json:"score"`
	RiskLevel       risk.Level       `json:"risk_level"`
	Confidence      float64          `json:"confidence"`
	Reasons         []string         `json:"reasons"`
	Recommendations []string         `json:"recommendations"`
	Metadata        map[string]any   `json:"metadata,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// AnalyzeCommand is the wire shape of an analysis submission. FilePath
// references a previously uploaded evidence artifact; Metadata carries
// client context that is stored with the result but never read by
// scoring.
type AnalyzeCommand struct {
	Type      evidence.Kind  `json:"type"`
	InputText string         `json:"input_text,omitempty"`
	InputURL  string         `json:"input_url,omitempty"`
	FilePath  string         `json:"file_path,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Bundle converts the command into the internal evidence bundle.
func (c AnalyzeCommand) Bundle() evidence.Bundle {
	return evidence.Bundle{
		Kind:    c.Type,
		RawText: c.InputText,
		LinkURL: c.InputURL,
	}
}

// SaveCommand carries a previously produced assessment back for
// persistence after a failed save during analysis.
type SaveCommand struct {
	Bundle     evidence.Bundle    `json:"bundle"`
	Assessment scoring.Assessment `json:"assessment"`
}

// AnalyzeResult is the outcome of scoring a bundle plus the attempted
// save. Verification is non-nil only when the save succeeded. SaveError
// carries the persistence failure without affecting the assessment.
type AnalyzeResult struct {
	Verification *Verification
	Assessment   scoring.Assessment
	Kind         evidence.Kind
	Saved        bool
	SaveError    string
}

// Package evidence defines the normalized evidence bundle submitted for
// fraud analysis, plus the deterministic field extraction and masking
// passes that run before a bundle is scored or stored. Extraction is a
// pure derived view: re-running it over the same text always produces
// the same fields.
package evidence

import (
	"encoding/json"
	"slices"
	"strings"
)

// Kind identifies which submission channel produced the evidence.
type Kind string

// Valid evidence kinds.
const (
	KindPix  Kind = "pix"
	KindQR   Kind = "qr"
	KindLink Kind = "link"
	KindText Kind = "text"
)

var kinds = []Kind{
	KindPix,
	KindQR,
	KindLink,
	KindText,
}

// Kinds returns the list of valid evidence kinds.
func Kinds() []Kind {
	return kinds
}

// ParseKind validates a string as a known evidence kind.
// Returns ErrInvalidKind if the value is not recognized.
func ParseKind(s string) (Kind, error) {
	v := Kind(s)
	if !slices.Contains(kinds, v) {
		return "", ErrInvalidKind
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known kind value.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseKind(raw)
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Fields is the structured view derived from evidence text by
// ExtractFields. Pointer fields are nil when no candidate was found.
type Fields struct {
	CandidateKey          *string  `json:"candidate_key,omitempty"`
	Amount                *float64 `json:"amount,omitempty"`
	HasUrgentLanguage     bool     `json:"has_urgent_language"`
	HasPromiseLanguage    bool     `json:"has_promise_language"`
	HasThreatLanguage     bool     `json:"has_threat_language"`
	RequestsSensitiveData bool     `json:"requests_sensitive_data"`
}

// Bundle is the normalized evidence for one submission. At least one of
// the text fields must be present.
type Bundle struct {
	Kind      Kind    `json:"kind"`
	RawText   string  `json:"raw_text,omitempty"`
	OCRText   string  `json:"ocr_text,omitempty"`
	QRPayload string  `json:"qr_payload,omitempty"`
	LinkURL   string  `json:"link_url,omitempty"`
	Fields    *Fields `json:"extracted_fields,omitempty"`
}

// Validate checks that the bundle carries a known kind and at least one
// evidence field.
func (b *Bundle) Validate() error {
	if !slices.Contains(kinds, b.Kind) {
		return ErrInvalidKind
	}
	if b.RawText == "" && b.OCRText == "" && b.QRPayload == "" && b.LinkURL == "" {
		return ErrEmptyBundle
	}
	return nil
}

// CombinedText joins all present text and URL fields into a single
// string for rule scanning.
func (b *Bundle) CombinedText() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{b.RawText, b.OCRText, b.QRPayload, b.LinkURL} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

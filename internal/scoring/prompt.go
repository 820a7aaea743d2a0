package scoring

import (
	"encoding/json"
	"strings"

	"github.com/vigiapix/vigia/internal/evidence"
)

// BuildPrompt serializes an evidence bundle into the user message sent
// to the classifier: the analysis kind, every present text field, and
// the extracted-fields view as a structured listing.
func BuildPrompt(b evidence.Bundle) string {
	parts := []string{
		"Tipo de análise: " + string(b.Kind),
	}

	if b.RawText != "" {
		parts = append(parts, "Texto bruto: "+b.RawText)
	}
	if b.OCRText != "" {
		parts = append(parts, "Texto extraído (OCR): "+b.OCRText)
	}
	if b.QRPayload != "" {
		parts = append(parts, "Conteúdo do QR Code: "+b.QRPayload)
	}
	if b.LinkURL != "" {
		parts = append(parts, "URL do link: "+b.LinkURL)
	}

	if b.Fields != nil {
		if fields, err := json.MarshalIndent(b.Fields, "", "  "); err == nil {
			parts = append(parts, "Campos extraídos: "+string(fields))
		}
	}

	return strings.Join(parts, "\n\n")
}

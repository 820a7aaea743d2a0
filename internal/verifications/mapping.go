package verifications

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/vigiapix/vigia/internal/evidence"
	"github.com/vigiapix/vigia/internal/risk"
	"github.com/vigiapix/vigia/pkg/query"
	"github.com/vigiapix/vigia/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "verifications", "v").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("kind", "Kind").
	Project("raw_text", "RawText").
	Project("ocr_text", "OCRText").
	Project("qr_payload", "QRPayload").
	Project("link_url", "LinkURL").
	Project("extracted_fields", "Fields").
	Project("score", "Score").
	Project("risk_level", "RiskLevel").
	Project("confidence", "Confidence").
	Project("reasons", "Reasons").
	Project("recommendations", "Recommendations").
	Project("metadata", "Metadata").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for verification queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Kind      *string `json:"kind,omitempty"`
	RiskLevel *string `json:"risk_level,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Kind", f.Kind).
		WhereEquals("RiskLevel", f.RiskLevel)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unknown kind and risk level values are ignored rather than rejected.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if k := values.Get("kind"); k != "" {
		if _, err := evidence.ParseKind(k); err == nil {
			f.Kind = &k
		}
	}

	if l := values.Get("risk_level"); l != "" {
		if _, err := risk.ParseLevel(l); err == nil {
			f.RiskLevel = &l
		}
	}

	return f
}

func scanVerification(s repository.Scanner) (Verification, error) {
	var v Verification
	var fieldsRaw, reasonsRaw, recommendationsRaw, metadataRaw []byte

	err := s.Scan(
		&v.ID,
		&v.UserID,
		&v.Kind,
		&v.RawText,
		&v.OCRText,
		&v.QRPayload,
		&v.LinkURL,
		&fieldsRaw,
		&v.Score,
		&v.RiskLevel,
		&v.Confidence,
		&reasonsRaw,
		&recommendationsRaw,
		&metadataRaw,
		&v.CreatedAt,
	)

	if err != nil {
		return v, err
	}

	if len(fieldsRaw) > 0 {
		var fields evidence.Fields
		if err := json.Unmarshal(fieldsRaw, &fields); err != nil {
			return v, fmt.Errorf("unmarshal extracted_fields: %w", err)
		}
		v.Fields = &fields
	}

	if len(reasonsRaw) > 0 {
		if err := json.Unmarshal(reasonsRaw, &v.Reasons); err != nil {
			return v, fmt.Errorf("unmarshal reasons: %w", err)
		}
	}
	if v.Reasons == nil {
		v.Reasons = []string{}
	}

	if len(recommendationsRaw) > 0 {
		if err := json.Unmarshal(recommendationsRaw, &v.Recommendations); err != nil {
			return v, fmt.Errorf("unmarshal recommendations: %w", err)
		}
	}
	if v.Recommendations == nil {
		v.Recommendations = []string{}
	}

	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &v.Metadata); err != nil {
			return v, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}

	return v, nil
}

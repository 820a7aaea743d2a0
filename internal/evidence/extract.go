package evidence

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/vigiapix/vigia/internal/rubric"
)

var (
	emailPattern = regexp.MustCompile(`[\w.\-]+@[\w.\-]+\.\w+`)
	phonePattern = regexp.MustCompile(`\+?55\s?\(?\d{2}\)?\s?\d{4,5}-?\d{4}`)
	cpfPattern   = regexp.MustCompile(`\d{3}\.\d{3}\.\d{3}-\d{2}`)
	cnpjPattern  = regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}`)
	uuidPattern  = regexp.MustCompile(`[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{12}`)

	amountPrefixed = regexp.MustCompile(`R\$\s?(\d{1,3}(?:\.\d{3})*(?:,\d{2})?)`)
	amountBare     = regexp.MustCompile(`(\d{1,3}(?:\.\d{3})*(?:,\d{2}))`)
)

// flagKeys maps rubric rule keys to the boolean flags they populate.
var flagKeys = map[string]func(*Fields){
	"urgent_language":     func(f *Fields) { f.HasUrgentLanguage = true },
	"unrealistic_promise": func(f *Fields) { f.HasPromiseLanguage = true },
	"threat_language":     func(f *Fields) { f.HasThreatLanguage = true },
	"sensitive_data":      func(f *Fields) { f.RequestsSensitiveData = true },
}

// ExtractFields derives the structured field view from evidence text.
// It is pure and deterministic; identical input always yields identical
// fields.
func ExtractFields(text string) Fields {
	f := Fields{
		CandidateKey: extractKey(text),
		Amount:       extractAmount(text),
	}

	for _, rule := range rubric.TextRules {
		set, ok := flagKeys[rule.Key]
		if !ok {
			continue
		}
		if rule.Pattern.MatchString(text) {
			set(&f)
		}
	}

	return f
}

// extractKey returns the first PIX key candidate in priority order:
// email, phone, CPF, CNPJ, random (UUID) key.
func extractKey(text string) *string {
	if m := emailPattern.FindString(text); m != "" {
		return &m
	}
	if m := phonePattern.FindString(text); m != "" && validPhone(m) {
		return &m
	}
	if m := cpfPattern.FindString(text); m != "" {
		return &m
	}
	if m := cnpjPattern.FindString(text); m != "" {
		return &m
	}
	if m := uuidPattern.FindString(text); m != "" {
		return &m
	}
	return nil
}

// validPhone checks a phone candidate against the BR numbering plan.
func validPhone(candidate string) bool {
	num, err := phonenumbers.Parse(candidate, "BR")
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// extractAmount returns the first monetary value in the text, preferring
// R$-prefixed values. Thousands separators are stripped and the decimal
// comma converted before parsing.
func extractAmount(text string) *float64 {
	for _, pattern := range []*regexp.Regexp{amountPrefixed, amountBare} {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		normalized := strings.ReplaceAll(m[1], ".", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")

		value, err := strconv.ParseFloat(normalized, 64)
		if err != nil {
			continue
		}
		return &value
	}
	return nil
}

package evidence

import (
	"regexp"
	"strings"
)

var (
	maskCPF   = regexp.MustCompile(`\d{3}\.\d{3}\.\d{3}-\d{2}`)
	maskCNPJ  = regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}`)
	maskPhone = regexp.MustCompile(`\(\d{2}\)\s?\d{4,5}-\d{4}`)
	maskEmail = regexp.MustCompile(`[\w.\-]+@[\w.\-]+\.\w+`)
)

// Mask irreversibly redacts tax IDs, phone numbers, and email addresses
// in text, preserving only a short non-identifying suffix or prefix.
// Masking is idempotent: already-masked text no longer matches any of
// the patterns, so a second pass is a no-op.
func Mask(text string) string {
	text = maskCPF.ReplaceAllStringFunc(text, func(m string) string {
		return "***.***.***-" + m[len(m)-2:]
	})

	text = maskCNPJ.ReplaceAllStringFunc(text, func(m string) string {
		return "**.***.***/****-" + m[len(m)-2:]
	})

	text = maskPhone.ReplaceAllString(text, "(**) ****-****")

	text = maskEmail.ReplaceAllStringFunc(text, func(m string) string {
		user, domain, _ := strings.Cut(m, "@")
		prefix := user
		if len(prefix) > 2 {
			prefix = prefix[:2]
		}
		return prefix + "***@" + domain
	})

	return text
}

// MaskBundle returns a copy of the bundle with all text fields masked.
// The link URL is left intact; URLs are evidence, not personal data.
func MaskBundle(b Bundle) Bundle {
	b.RawText = Mask(b.RawText)
	b.OCRText = Mask(b.OCRText)
	b.QRPayload = Mask(b.QRPayload)
	return b
}

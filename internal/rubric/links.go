package rubric

import (
	"math"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/net/publicsuffix"
)

// shortenedDomains are registrable domains of known URL shorteners.
var shortenedDomains = []string{
	"bit.ly",
	"tinyurl.com",
	"t.co",
	"goo.gl",
	"cutt.ly",
	"is.gd",
	"rebrand.ly",
	"encurtador.com.br",
}

// trustedDomains are registrable domains of financial institutions and
// the central bank, used for the lookalike-impersonation check.
var trustedDomains = []string{
	"bcb.gov.br",
	"bb.com.br",
	"caixa.gov.br",
	"nubank.com.br",
	"itau.com.br",
	"bradesco.com.br",
	"santander.com.br",
	"inter.co",
	"sicredi.com.br",
	"picpay.com",
}

// RegistrableDomain reduces a hostname to its effective TLD plus one
// (e.g. "pay.bit.ly" -> "bit.ly"). Falls back to the lowercased host
// when the public suffix list cannot resolve it.
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return registrable
}

// IsShortenedDomain reports whether the host belongs to a known URL
// shortener.
func IsShortenedDomain(host string) bool {
	return slices.Contains(shortenedDomains, RegistrableDomain(host))
}

// IsTrustedDomain reports whether the host is a known institution domain.
func IsTrustedDomain(host string) bool {
	return slices.Contains(trustedDomains, RegistrableDomain(host))
}

// LookalikeDomain reports whether the host closely resembles a trusted
// institution domain without being one, returning the impersonated
// domain on a match. Exact trusted matches never count as lookalikes.
func LookalikeDomain(host string) (string, bool) {
	registrable := RegistrableDomain(host)
	if slices.Contains(trustedDomains, registrable) {
		return "", false
	}

	threshold := lookalikeThreshold(len(registrable))
	for _, trusted := range trustedDomains {
		if fuzzy.LevenshteinDistance(registrable, trusted) <= threshold {
			return trusted, true
		}
	}

	return "", false
}

// lookalikeThreshold scales the allowed edit distance with domain
// length: 1 for short names, 2 for medium, ~15% for long.
func lookalikeThreshold(length int) int {
	switch {
	case length <= 11:
		return 1
	case length <= 15:
		return 2
	default:
		return int(math.Ceil(float64(length) * 0.15))
	}
}

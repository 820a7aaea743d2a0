package scoring

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vigiapix/vigia/internal/evidence"
	"github.com/vigiapix/vigia/internal/rubric"
)

// FallbackConfidence is the fixed confidence for heuristic assessments.
// It is deliberately lower than typical classifier confidence to signal
// reduced trust in the result.
const FallbackConfidence = 0.6

// PlaceholderReason is reported when no heuristic rule matched.
const PlaceholderReason = "Análise heurística aplicada"

// Fallback scores a bundle with the local heuristic. It is fully
// deterministic: the same bundle always produces the same assessment.
// Each rubric rule contributes at most once per bundle, no matter how
// many evidence fields match it; the clamp applies only to the final
// accumulated score.
func Fallback(b evidence.Bundle) Assessment {
	score := 0
	reasons := []string{}
	matched := []string{}
	seen := map[string]bool{}

	apply := func(key string, weight int, reason string) {
		if seen[key] {
			return
		}
		seen[key] = true
		score += weight
		reasons = append(reasons, reason)
		matched = append(matched, key)
	}

	text := strings.ToLower(b.CombinedText())
	for _, rule := range rubric.TextRules {
		if rule.Pattern.MatchString(text) {
			apply(rule.Key, rule.Weight, rule.Reason)
		}
	}

	if b.LinkURL != "" {
		applyLinkRules(b.LinkURL, apply)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, PlaceholderReason)
	}

	return Assessment{
		Score:           ClampScore(float64(score)),
		Confidence:      FallbackConfidence,
		Reasons:         reasons,
		Recommendations: rubric.Recommendations(score),
		Metadata: map[string]any{
			"fallback":      true,
			"matched_rules": matched,
			"analysis_type": string(b.Kind),
		},
	}
}

func applyLinkRules(rawurl string, apply func(key string, weight int, reason string)) {
	u, err := url.Parse(rawurl)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		apply(rubric.KeyMalformedURL, rubric.WeightMalformedURL, "URL inválida ou malformada")
		return
	}

	host := u.Hostname()

	if rubric.IsShortenedDomain(host) {
		apply(rubric.KeyShortenedURL, rubric.WeightShortenedURL, "Domínio de link encurtado detectado")
	}

	if u.Scheme != "https" {
		apply(rubric.KeyInsecureTransport, rubric.WeightInsecureTransport, "Link sem HTTPS (não seguro)")
	}

	if impersonated, ok := rubric.LookalikeDomain(host); ok {
		apply(
			rubric.KeyLookalikeDomain,
			rubric.WeightLookalikeDomain,
			fmt.Sprintf("Domínio semelhante a %s (possível falsificação)", impersonated),
		)
	}
}

// Package rubric defines the fixed grading rubric for PIX fraud analysis.
// It is the single source of truth for risk factors and point weights:
// the classifier system instruction and the local heuristic fallback are
// both derived from the tables in this package, so the two scoring paths
// cannot drift apart.
package rubric

import (
	"fmt"
	"regexp"
	"strings"
)

// Factor is one weighted criterion in the grading rubric.
type Factor struct {
	Key         string
	Weight      int
	Description string
}

// Factors enumerates the rubric criteria presented to the classifier,
// in prompt order.
var Factors = []Factor{
	{Key: "untrusted_link", Weight: 30, Description: "Domínio de link não confiável ou encurtado"},
	{Key: "language_errors", Weight: 10, Description: "Erros graves de português ou formatação"},
	{Key: "urgent_language", Weight: 20, Description: "Linguagem urgente, ameaças ou pressão"},
	{Key: "unrealistic_promise", Weight: 15, Description: "Promessa de reembolso, prêmio ou dinheiro fácil"},
	{Key: "suspicious_key", Weight: 25, Description: "Chave PIX com formato suspeito ou inconsistente"},
	{Key: "shortened_qr", Weight: 20, Description: "QR Code com domínio encurtado ou desconhecido"},
	{Key: "identity_mismatch", Weight: 20, Description: "Nome/CPF/CNPJ incompatível com contexto"},
	{Key: "personal_account", Weight: 15, Description: "Conta PF (pessoa física) em nome de empresa"},
	{Key: "anomalous_amount", Weight: 10, Description: "Valor muito alto ou inconsistente"},
	{Key: "sensitive_data", Weight: 25, Description: "Solicitação de dados pessoais sensíveis"},
	{Key: "missing_beneficiary", Weight: 15, Description: "Falta de informações básicas do beneficiário"},
}

// TextRule is a keyword rule applied by the heuristic fallback against
// the combined evidence text. Keys shared with link rules guarantee a
// rule contributes at most once per bundle regardless of which field
// matched it.
type TextRule struct {
	Key     string
	Weight  int
	Pattern *regexp.Regexp
	Reason  string
}

// TextRules enumerates the heuristic keyword rules. Patterns are
// matched case-insensitively against stemmed Portuguese keywords so
// inflected forms (bloqueada, suspensa) still match.
var TextRules = []TextRule{
	{
		Key:     KeyShortenedURL,
		Weight:  30,
		Pattern: regexp.MustCompile(`(?i)bit\.ly|tinyurl|encurtador`),
		Reason:  "Link encurtado detectado",
	},
	{
		Key:     "urgent_language",
		Weight:  20,
		Pattern: regexp.MustCompile(`(?i)urgente|rápido|agora|última chance`),
		Reason:  "Linguagem urgente detectada",
	},
	{
		Key:     "unrealistic_promise",
		Weight:  15,
		Pattern: regexp.MustCompile(`(?i)reembolso|prêmio|ganhou|sorteio`),
		Reason:  "Promessa de benefício suspeita",
	},
	{
		Key:     "threat_language",
		Weight:  20,
		Pattern: regexp.MustCompile(`(?i)bloquead|suspens|cancelad`),
		Reason:  "Ameaça de bloqueio/suspensão",
	},
	{
		Key:     "action_request",
		Weight:  15,
		Pattern: regexp.MustCompile(`(?i)clique aqui|acesse|confirme seus dados`),
		Reason:  "Solicitação de ação imediata",
	},
	{
		Key:     "sensitive_data",
		Weight:  25,
		Pattern: regexp.MustCompile(`(?i)cpf|senha|cartão|dados pessoais`),
		Reason:  "Solicitação de dados sensíveis",
	},
}

// Link rule keys and weights, applied by the heuristic to LinkURL.
const (
	KeyShortenedURL      = "shortened_url"
	KeyInsecureTransport = "insecure_transport"
	KeyMalformedURL      = "malformed_url"
	KeyLookalikeDomain   = "lookalike_domain"

	WeightShortenedURL      = 30
	WeightInsecureTransport = 10
	WeightMalformedURL      = 20
	WeightLookalikeDomain   = 25
)

// Recommendation selection thresholds. These are inclusive lower bounds
// and intentionally distinct from the tier boundaries in internal/risk,
// where 40 and 70 still belong to the lower tier.
const (
	RecommendHighMin    = 70
	RecommendCautionMin = 40
)

var (
	highRiskRecommendations = []string{
		"NÃO efetue o pagamento - alto risco de golpe",
		"Bloqueie o contato imediatamente",
		"Denuncie ao Banco Central",
	}

	cautionRecommendations = []string{
		"Verifique a autenticidade antes de prosseguir",
		"Entre em contato com a instituição pelos canais oficiais",
		"Não forneça dados pessoais",
	}

	lowRiskRecommendations = []string{
		"Parece seguro, mas sempre verifique a origem",
		"Confirme os dados do beneficiário",
	}
)

// Recommendations returns the action set for a final score. Selection is
// driven by the accumulated score, never by individual matched rules.
func Recommendations(score int) []string {
	switch {
	case score >= RecommendHighMin:
		return append([]string(nil), highRiskRecommendations...)
	case score >= RecommendCautionMin:
		return append([]string(nil), cautionRecommendations...)
	default:
		return append([]string(nil), lowRiskRecommendations...)
	}
}

// SystemInstruction renders the classifier system prompt from the factor
// table. The response contract mirrors the engine's parsed structure:
// score, reasons, recommendations, metadata, confidence.
func SystemInstruction() string {
	var b strings.Builder

	b.WriteString(`Você é um especialista em fraudes financeiras e segurança de pagamentos PIX no Brasil.

Analise os dados fornecidos e retorne um JSON com as seguintes chaves:
- score (0-100): pontuação de risco, onde 0 é seguro e 100 é golpe confirmado
- reasons (array de strings): explicações curtas e claras dos sinais de fraude detectados
- recommendations (array de strings): ações práticas que o usuário deve tomar
- metadata (objeto): detalhes técnicos da análise
- confidence (0-1): nível de confiança na análise

CRITÉRIOS DE AVALIAÇÃO (pesos sugeridos):
`)

	for _, f := range Factors {
		fmt.Fprintf(&b, "- %s: +%d pontos\n", f.Description, f.Weight)
	}

	b.WriteString(`
FORMATO DE RESPOSTA (JSON válido):
{
  "score": 85,
  "reasons": ["Link encurtado detectado (bit.ly) - comum em golpes"],
  "recommendations": ["NÃO efetue o pagamento"],
  "metadata": {"detected_patterns": ["urgency", "shortened_url"]},
  "confidence": 0.92
}

Seja preciso, claro e objetivo. Priorize a segurança do usuário.`)

	return b.String()
}

package rubric_test

import (
	"strings"
	"testing"

	"github.com/vigiapix/vigia/internal/rubric"
)

func matchingRules(text string) []string {
	var keys []string
	for _, rule := range rubric.TextRules {
		if rule.Pattern.MatchString(text) {
			keys = append(keys, rule.Key)
		}
	}
	return keys
}

func TestTextRules(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "clean text",
			text: "pagamento da mensalidade de março",
			want: nil,
		},
		{
			name: "shortener",
			text: "acesse bit.ly/promo",
			want: []string{rubric.KeyShortenedURL, "action_request"},
		},
		{
			name: "urgency uppercase",
			text: "URGENTE: responda AGORA",
			want: []string{"urgent_language"},
		},
		{
			name: "promise",
			text: "você ganhou um prêmio",
			want: []string{"unrealistic_promise"},
		},
		{
			name: "inflected threat",
			text: "sua conta foi bloqueada",
			want: []string{"threat_language"},
		},
		{
			name: "suspended threat",
			text: "chave pix suspensa",
			want: []string{"threat_language"},
		},
		{
			name: "sensitive data",
			text: "informe seu CPF e senha",
			want: []string{"sensitive_data"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchingRules(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("matched %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("matched %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestTextRuleWeights(t *testing.T) {
	want := map[string]int{
		rubric.KeyShortenedURL: 30,
		"urgent_language":      20,
		"unrealistic_promise":  15,
		"threat_language":      20,
		"action_request":       15,
		"sensitive_data":       25,
	}

	for _, rule := range rubric.TextRules {
		if w, ok := want[rule.Key]; !ok || rule.Weight != w {
			t.Errorf("rule %s weight = %d, want %d", rule.Key, rule.Weight, w)
		}
	}
}

func TestRecommendations(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  string
	}{
		{"low risk", 0, "Parece seguro, mas sempre verifique a origem"},
		{"just below caution", 39, "Parece seguro, mas sempre verifique a origem"},
		{"caution lower bound inclusive", 40, "Verifique a autenticidade antes de prosseguir"},
		{"just below high", 69, "Verifique a autenticidade antes de prosseguir"},
		{"high lower bound inclusive", 70, "NÃO efetue o pagamento - alto risco de golpe"},
		{"max", 100, "NÃO efetue o pagamento - alto risco de golpe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rubric.Recommendations(tt.score)
			if len(got) == 0 {
				t.Fatal("no recommendations returned")
			}
			if got[0] != tt.want {
				t.Errorf("Recommendations(%d)[0] = %q, want %q", tt.score, got[0], tt.want)
			}
		})
	}
}

func TestRecommendationsReturnsCopy(t *testing.T) {
	first := rubric.Recommendations(0)
	first[0] = "mutated"

	second := rubric.Recommendations(0)
	if second[0] == "mutated" {
		t.Error("Recommendations shares backing array between calls")
	}
}

func TestSystemInstruction(t *testing.T) {
	instruction := rubric.SystemInstruction()

	for _, want := range []string{
		"score",
		"reasons",
		"recommendations",
		"confidence",
		"JSON",
	} {
		if !strings.Contains(instruction, want) {
			t.Errorf("instruction missing %q", want)
		}
	}

	for _, f := range rubric.Factors {
		if !strings.Contains(instruction, f.Description) {
			t.Errorf("instruction missing factor %q", f.Key)
		}
	}
}

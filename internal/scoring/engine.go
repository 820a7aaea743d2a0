package scoring

import (
	"context"
	"log/slog"
	"time"

	"github.com/vigiapix/vigia/internal/evidence"
	"github.com/vigiapix/vigia/internal/rubric"
	"github.com/vigiapix/vigia/pkg/formatting"
)

// Classifier is the boundary to the external language-model grader.
// Classify submits a system instruction and user prompt and returns the
// raw response content.
type Classifier interface {
	Classify(ctx context.Context, instruction, prompt string) (string, error)
}

// Engine scores evidence bundles. The primary path is the classifier;
// any failure there (error, timeout, unparseable response) triggers a
// single deterministic fallback to the local heuristic. The primary
// path is never retried and failures never reach the caller.
type Engine struct {
	classifier Classifier
	timeout    time.Duration
	logger     *slog.Logger
}

// NewEngine creates a scoring engine. A nil classifier is allowed and
// routes every submission through the heuristic.
func NewEngine(classifier Classifier, timeout time.Duration, logger *slog.Logger) *Engine {
	return &Engine{
		classifier: classifier,
		timeout:    timeout,
		logger:     logger.With("system", "scoring"),
	}
}

// Score grades an evidence bundle. It always returns a complete,
// clamped assessment and never an error.
func (e *Engine) Score(ctx context.Context, b evidence.Bundle) Assessment {
	if e.classifier == nil {
		return Fallback(b)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	content, err := e.classifier.Classify(callCtx, rubric.SystemInstruction(), BuildPrompt(b))
	if err != nil {
		e.logger.Warn("classifier call failed, using heuristic fallback", "error", err)
		return Fallback(b)
	}

	raw, err := formatting.Parse[rawResponse](content)
	if err != nil {
		e.logger.Warn("classifier response unparseable, using heuristic fallback", "error", err)
		return Fallback(b)
	}

	a := raw.sanitize()

	e.logger.Info("bundle scored",
		"kind", b.Kind,
		"score", a.Score,
		"confidence", a.Confidence,
	)
	return a
}

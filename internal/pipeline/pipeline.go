// Package pipeline sequences normalization, currency detection, extraction,
// classification and scoring into the caller-facing amount detection
// pipeline. A Pipeline holds only immutable tables and is safe for arbitrary
// concurrent invocation; every request gets fresh state.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/medsift/medsift/internal/classify"
	"github.com/medsift/medsift/internal/common"
	"github.com/medsift/medsift/internal/config"
	"github.com/medsift/medsift/internal/currency"
	"github.com/medsift/medsift/internal/extract"
	"github.com/medsift/medsift/internal/model"
	"github.com/medsift/medsift/internal/normalize"
	"github.com/medsift/medsift/internal/score"
)

// Request is one pipeline invocation: raw text plus optional per-token
// confidences from the OCR collaborator, aligned to lines by token position.
type Request struct {
	Text   string           `json:"text"`
	Tokens []model.RawToken `json:"tokens,omitempty"`
}

// Pipeline orchestrates a single extraction run.
type Pipeline struct {
	normalizer *normalize.Normalizer
	detector   *currency.Detector
	extractor  *extract.Extractor
	classifier *classify.Classifier
	scorer     *score.Scorer
	cfg        config.Config
}

// New builds the full pipeline: layered extraction patterns with labeled,
// currency-prefixed and guarded standalone rules.
func New(cfg config.Config) (*Pipeline, error) {
	return build(cfg, extract.FullPatterns())
}

// NewDirect builds the direct-mode pipeline: the flat per-line label rule
// table, with the same classifier, scorer and orchestration.
func NewDirect(cfg config.Config) (*Pipeline, error) {
	return build(cfg, extract.DirectPatterns())
}

func build(cfg config.Config, patterns []extract.Pattern) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	normalizer, err := normalize.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("building normalizer: %w", err)
	}
	detector, err := currency.New(cfg.Currencies)
	if err != nil {
		return nil, fmt.Errorf("building currency detector: %w", err)
	}
	extractor, err := extract.New(cfg, patterns)
	if err != nil {
		return nil, fmt.Errorf("building extractor: %w", err)
	}
	return &Pipeline{
		cfg:        cfg,
		normalizer: normalizer,
		detector:   detector,
		extractor:  extractor,
		classifier: classify.New(cfg.Taxonomy),
		scorer:     score.New(),
	}, nil
}

// ValidateInput rejects requests before they enter the pipeline. Empty text
// is not an error here: the pipeline reports it as no_amounts_found.
func (p *Pipeline) ValidateInput(text string) error {
	if len(text) > p.cfg.MaxInputLength {
		return common.NewUserError(
			fmt.Sprintf("text input too long (maximum %d characters)", p.cfg.MaxInputLength),
			common.ErrInputTooLarge,
		)
	}
	return nil
}

// Process runs one request through the pipeline. It always returns a
// well-formed result: stage panics are caught and reported as status=error
// with a normalized reason, never propagated to the caller.
func (p *Pipeline) Process(_ context.Context, req Request) (result model.PipelineResult) {
	defer func() {
		if r := recover(); r != nil {
			reason := fmt.Sprintf("Processing error: %v", r)
			common.LogError(common.ErrPipelineFault, "recovered pipeline fault", common.Fields{"reason": reason})
			result = model.PipelineResult{
				Status:  model.StatusError,
				Reason:  &reason,
				Amounts: []model.ClassifiedAmount{},
			}
		}
	}()

	lines := p.normalizer.Normalize(req.Text)
	if !hasContent(lines) {
		return noAmounts("no non-empty lines after normalization")
	}

	cur := p.detector.Detect(lines)

	candidates, stats := p.extractor.Extract(lines, cur)
	common.LogDebug("extraction finished", common.Fields{
		"candidates": len(candidates),
		"rejected":   stats.Rejected,
	})
	if len(candidates) == 0 {
		return noAmounts("no valid amounts found after extraction")
	}

	amounts := make([]model.ClassifiedAmount, 0, len(candidates))
	total := 0.0
	for _, candidate := range candidates {
		confidence := p.scorer.Score(candidate, p.tokenConfidence(req.Tokens, candidate.LineIndex))
		total += confidence
		amounts = append(amounts, model.ClassifiedAmount{
			Type:       p.classifier.Classify(candidate),
			Value:      candidate.ParsedValue,
			Currency:   currencyString(cur),
			Confidence: confidence,
			SourceLine: candidate.SourceLine,
		})
	}

	// Candidates arrive in line order from the extractor, so the amounts
	// slice is already in document order.
	overall := total / float64(len(amounts))
	result = model.PipelineResult{
		Status:     model.StatusOK,
		Currency:   cur,
		Amounts:    amounts,
		Confidence: overall,
		Notes:      relationshipNotes(amounts),
	}
	if overall < p.cfg.ProcessingConfidenceThreshold {
		reason := fmt.Sprintf("overall confidence %.2f below threshold %.2f", overall, p.cfg.ProcessingConfidenceThreshold)
		result.Status = model.StatusLowConfidence
		result.Reason = &reason
	}

	slog.Info("pipeline completed",
		"status", result.Status,
		"amounts", len(result.Amounts),
		"confidence", fmt.Sprintf("%.2f", overall))
	return result
}

// tokenConfidence averages the OCR confidences reported for a line, skipping
// reports below the configured floor. Nil means the confidence-free scoring
// path.
func (p *Pipeline) tokenConfidence(tokens []model.RawToken, lineIndex int) *float64 {
	sum := 0.0
	n := 0
	for _, t := range tokens {
		if t.Line != lineIndex || t.Confidence < p.cfg.MinOCRConfidence {
			continue
		}
		sum += t.Confidence
		n++
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

func hasContent(lines []model.NormalizedLine) bool {
	for _, l := range lines {
		if strings.TrimSpace(l.Text) != "" {
			return true
		}
	}
	return false
}

func noAmounts(reason string) model.PipelineResult {
	return model.PipelineResult{
		Status:  model.StatusNoAmounts,
		Reason:  &reason,
		Amounts: []model.ClassifiedAmount{},
	}
}

func currencyString(cur *model.Currency) string {
	if cur == nil {
		return ""
	}
	return string(*cur)
}

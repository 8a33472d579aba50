// Package score computes composite per-candidate confidence from pattern
// specificity, OCR token confidence and correction history.
package score

import "github.com/medsift/medsift/internal/model"

// Base confidences by extraction pattern specificity.
const (
	baseLabeled    = 0.9
	baseCurrency   = 0.7
	baseStandalone = 0.4

	// Weights blending pattern base with OCR-reported token confidence.
	patternWeight = 0.6
	tokenWeight   = 0.4

	// Penalty applied when a digit-correction rule touched the candidate's
	// numeric text: corrected digits stay less trustworthy than clean ones.
	correctionPenalty = 0.1
)

// Scorer is stateless; the zero value is ready to use.
type Scorer struct{}

// New returns a Scorer.
func New() *Scorer {
	return &Scorer{}
}

// Score returns the composite confidence in [0,1] for a candidate.
// tokenConfidence is the OCR collaborator's per-token confidence when
// available; nil selects the confidence-free path where the score is the
// pattern base alone.
func (s *Scorer) Score(candidate model.AmountCandidate, tokenConfidence *float64) float64 {
	base := baseStandalone
	switch candidate.Pattern {
	case model.PatternLabeledAmount:
		base = baseLabeled
	case model.PatternCurrencyPrefixed:
		base = baseCurrency
	case model.PatternStandaloneNumber:
		base = baseStandalone
	}

	score := base
	if tokenConfidence != nil {
		score = patternWeight*base + tokenWeight**tokenConfidence
	}

	if candidate.DigitCorrected {
		score -= correctionPenalty
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

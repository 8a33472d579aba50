package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medsift/medsift/internal/model"
)

func TestScorer_Score(t *testing.T) {
	tests := []struct {
		tokenConfidence *float64
		name            string
		kind            model.PatternKind
		corrected       bool
		want            float64
	}{
		{
			name: "labeled base",
			kind: model.PatternLabeledAmount,
			want: 0.9,
		},
		{
			name: "currency base",
			kind: model.PatternCurrencyPrefixed,
			want: 0.7,
		},
		{
			name: "standalone base",
			kind: model.PatternStandaloneNumber,
			want: 0.4,
		},
		{
			name:            "token confidence blends with base",
			kind:            model.PatternLabeledAmount,
			tokenConfidence: ptr(0.8),
			want:            0.6*0.9 + 0.4*0.8,
		},
		{
			name:            "low token confidence drags the score down",
			kind:            model.PatternStandaloneNumber,
			tokenConfidence: ptr(0.1),
			want:            0.6*0.4 + 0.4*0.1,
		},
		{
			name:      "digit correction penalty",
			kind:      model.PatternLabeledAmount,
			corrected: true,
			want:      0.8,
		},
		{
			name:            "penalty applies after blending",
			kind:            model.PatternCurrencyPrefixed,
			tokenConfidence: ptr(0.5),
			corrected:       true,
			want:            0.6*0.7 + 0.4*0.5 - 0.1,
		},
		{
			name:            "zero token confidence with penalty",
			kind:            model.PatternStandaloneNumber,
			tokenConfidence: ptr(0.0),
			corrected:       true,
			want:            0.6*0.4 - 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			got := s.Score(model.AmountCandidate{
				Pattern:        tt.kind,
				DigitCorrected: tt.corrected,
			}, tt.tokenConfidence)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestScorer_ClampsToUnitInterval(t *testing.T) {
	s := New()

	over := s.Score(model.AmountCandidate{Pattern: model.PatternLabeledAmount}, ptr(1.5))
	assert.Equal(t, 1.0, over)

	under := s.Score(model.AmountCandidate{Pattern: model.PatternStandaloneNumber, DigitCorrected: true}, ptr(-1.0))
	assert.Equal(t, 0.0, under)
}

func ptr(f float64) *float64 {
	return &f
}

package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medsift/medsift/internal/config"
	"github.com/medsift/medsift/internal/model"
)

func candidate(label string) model.AmountCandidate {
	return model.AmountCandidate{RawLabel: label}
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  model.Category
	}{
		{name: "consultation", label: "Consultation", want: model.Known(model.TagConsultation)},
		{name: "x-ray", label: "X-Ray", want: model.Known(model.TagXRay)},
		{name: "generic total", label: "Total", want: model.Known(model.TagTotalBill)},
		{name: "grand total", label: "Grand Total", want: model.Known(model.TagTotalBill)},
		{name: "longest match beats total", label: "Sub Total", want: model.Known(model.TagSubTotal)},
		{name: "final amount beats amount", label: "Final Amount", want: model.Known(model.TagFinalAmount)},
		{name: "balance due", label: "Balance Due", want: model.Known(model.TagDue)},
		{name: "ct requires word boundary", label: "Doctor Visit", want: model.Unknown("doctor visit")},
		{name: "unmatched label is preserved", label: "Registration Fee", want: model.Unknown("registration fee")},
		{name: "label is normalized before matching", label: "  AMOUNT   PAID  ", want: model.Known(model.TagPaid)},
		{name: "empty label", label: "", want: model.Unknown("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(config.DefaultTaxonomy())
			got := c.Classify(candidate(tt.label))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_PriorityBreaksLengthTies(t *testing.T) {
	taxonomy := []config.TaxonomyEntry{
		{Category: "ward_charge", Keywords: []string{"ward"}, Priority: 60},
		{Category: "nursing_care", Keywords: []string{"care"}, Priority: 80},
	}
	c := New(taxonomy)

	got := c.Classify(candidate("Ward Care"))
	assert.Equal(t, model.Known("nursing_care"), got)
}

func TestClassifier_UnknownKeepsNormalizedLabel(t *testing.T) {
	// A taxonomy with no physiotherapy entry must not swallow the label.
	taxonomy := []config.TaxonomyEntry{
		{Category: model.TagTotalBill, Keywords: []string{"total"}, Priority: 50},
	}
	c := New(taxonomy)

	got := c.Classify(candidate("Physiotherapy Session Fee"))
	assert.Equal(t, "unknown:physiotherapy session fee", got.String())
	assert.False(t, got.IsKnown())
}

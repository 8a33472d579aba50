package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medsift/medsift/internal/config"
	"github.com/medsift/medsift/internal/model"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := New(config.Default())
	require.NoError(t, err)
	return n
}

func TestNormalizer_Normalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean text passes through",
			input: "Consultation: Rs.500",
			want:  "Consultation: Rs.500",
		},
		{
			name:  "word correction for mangled label",
			input: "T0tal: 800",
			want:  "Total: 800",
		},
		{
			name:  "digit correction next to confirmed digit",
			input: "Total: Rs l200",
			want:  "Total: Rs 1200",
		},
		{
			name:  "cascading digit correction",
			input: "Due: 2OO",
			want:  "Due: 200",
		},
		{
			name:  "ocr noise across piped segments",
			input: "T0tal: Rs l200 | Pald: I000 | Due: 2OO",
			want:  "Total: Rs 1200 | Paid: 1000 | Due: 200",
		},
		{
			name:  "currency context without any confirmed digit",
			input: "Paid: Rs lOO",
			want:  "Paid: Rs 100",
		},
		{
			name:  "attached currency marker is preserved",
			input: "Sub Total Rs.470.40",
			want:  "Sub Total Rs.470.40",
		},
		{
			name:  "attached marker with ambiguous digits",
			input: "Total: Rs.l50",
			want:  "Total: Rs.150",
		},
		{
			name:  "letters in real words stay letters",
			input: "Blood Test for patient",
			want:  "Blood Test for patient",
		},
		{
			name:  "decimal separator does not block adjacency",
			input: "Amount: 47O.40",
			want:  "Amount: 470.40",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newTestNormalizer(t)
			lines := n.Normalize(tt.input)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, lines[0].Text)
			assert.Equal(t, tt.input, lines[0].OriginalText)
		})
	}
}

func TestNormalizer_Idempotence(t *testing.T) {
	inputs := []string{
		"T0tal: Rs l200 | Pald: I000 | Due: 2OO",
		"Consultation: Rs.500\nX-Ray: Rs.300\nTotal: Rs.800",
		"Sub Total Rs.470.40\nDiscount Rs.50.00\nFinal Amount Rs.420.40",
		"Paid: Rs lOO",
		"",
		"no numbers here at all",
	}

	n := newTestNormalizer(t)
	for _, input := range inputs {
		first := n.Normalize(input)

		once := make([]string, len(first))
		for i, line := range first {
			once[i] = line.Text
		}

		second := n.Normalize(joinLines(first))
		for i, line := range second {
			assert.Equal(t, once[i], line.Text, "second pass changed %q", once[i])
			assert.Empty(t, line.Corrections, "second pass corrected %q", once[i])
		}
	}
}

func TestNormalizer_LineBookkeeping(t *testing.T) {
	n := newTestNormalizer(t)

	lines := n.Normalize("first\n\nT0tal: l23")
	require.Len(t, lines, 3)

	assert.Equal(t, 0, lines[0].Index)
	assert.Empty(t, lines[0].Corrections)

	assert.Equal(t, "", lines[1].Text)

	assert.Equal(t, 2, lines[2].Index)
	assert.Equal(t, "Total: 123", lines[2].Text)
	assert.True(t, lines[2].DigitCorrected())

	var kinds []model.CorrectionKind
	for _, c := range lines[2].Corrections {
		kinds = append(kinds, c.Kind)
	}
	assert.Contains(t, kinds, model.CorrectionWord)
	assert.Contains(t, kinds, model.CorrectionDigit)
}

func joinLines(lines []model.NormalizedLine) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l.Text
	}
	return out
}

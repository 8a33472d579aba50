// Package classify maps extraction labels onto semantic amount categories
// using the keyword taxonomy: longest contained keyword wins, entry priority
// breaks length ties. Labels matching nothing become unknown categories that
// preserve the original label.
package classify

import (
	"strings"

	"github.com/medsift/medsift/internal/config"
	"github.com/medsift/medsift/internal/model"
)

// Classifier resolves candidate labels against the taxonomy. Immutable after
// construction; safe for concurrent use.
type Classifier struct {
	taxonomy []config.TaxonomyEntry
}

// New builds a classifier over the given taxonomy. The taxonomy slice is not
// copied; it must not be mutated afterwards.
func New(taxonomy []config.TaxonomyEntry) *Classifier {
	return &Classifier{taxonomy: taxonomy}
}

// Classify returns the category for a candidate's raw label. The label is
// lowercased, trimmed and whitespace-collapsed before matching. An amount is
// never discarded for an unrecognized label: it falls back to an unknown
// category carrying the normalized label.
func (c *Classifier) Classify(candidate model.AmountCandidate) model.Category {
	label := NormalizeLabel(candidate.RawLabel)
	if label == "" {
		return model.Unknown(label)
	}

	bestLen := 0
	bestPriority := 0
	var best string
	found := false

	for _, entry := range c.taxonomy {
		for _, kw := range entry.Keywords {
			if len(kw) < bestLen {
				continue
			}
			if len(kw) == bestLen && entry.Priority <= bestPriority {
				continue
			}
			if containsWord(label, kw) {
				best = entry.Category
				bestLen = len(kw)
				bestPriority = entry.Priority
				found = true
			}
		}
	}

	if !found {
		return model.Unknown(label)
	}
	return model.Known(best)
}

// NormalizeLabel lowercases, trims and collapses whitespace in a raw label.
func NormalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

// containsWord reports whether kw occurs in s on word boundaries, so "ct"
// matches "ct scan" but not "doctor".
func containsWord(s, kw string) bool {
	for from := 0; ; {
		idx := strings.Index(s[from:], kw)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(kw)
		startOK := start == 0 || !isWordChar(s[start-1])
		endOK := end == len(s) || !isWordChar(s[end])
		if startOK && endOK {
			return true
		}
		from = start + 1
	}
}

func isWordChar(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

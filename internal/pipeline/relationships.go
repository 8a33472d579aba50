package pipeline

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/medsift/medsift/internal/model"
)

// relationshipTolerance absorbs rounding noise when checking whether one
// amount is the sum of the others.
var relationshipTolerance = decimal.NewFromFloat(0.01)

// relationshipNotes inspects the final amounts for arithmetic structure:
// when the largest amount equals the sum of all the others, the document
// very likely lists line items plus their total. Notes are advisory only.
func relationshipNotes(amounts []model.ClassifiedAmount) []string {
	if len(amounts) < 2 {
		return nil
	}

	largestIdx := 0
	for i, a := range amounts {
		if a.Value.GreaterThan(amounts[largestIdx].Value) {
			largestIdx = i
		}
	}

	rest := decimal.Zero
	for i, a := range amounts {
		if i != largestIdx {
			rest = rest.Add(a.Value)
		}
	}

	largest := amounts[largestIdx]
	if largest.Value.Sub(rest).Abs().LessThanOrEqual(relationshipTolerance) {
		return []string{fmt.Sprintf("%s %s appears to be the total of the other %d amounts",
			largest.Type, largest.Value, len(amounts)-1)}
	}
	return nil
}

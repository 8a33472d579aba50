// Package testutil builds synthetic bill documents for tests: composable
// line items, realistic OCR noise and a handful of canned fixtures.
package testutil

import (
	"fmt"
	"strings"
)

// BillBuilder assembles bill text line by line. The zero value is ready to
// use; methods return the builder for chaining.
type BillBuilder struct {
	lines []string
}

// NewBill returns an empty builder.
func NewBill() *BillBuilder {
	return &BillBuilder{}
}

// Line appends a raw line verbatim.
func (b *BillBuilder) Line(text string) *BillBuilder {
	b.lines = append(b.lines, text)
	return b
}

// Item appends a labeled amount line, e.g. "Consultation: Rs.500".
func (b *BillBuilder) Item(label, amount string) *BillBuilder {
	return b.Line(fmt.Sprintf("%s: %s", label, amount))
}

// Noise appends a line with common OCR digit confusions applied, turning
// "Total: 1200" into "Total: l2O0".
func (b *BillBuilder) Noise(text string) *BillBuilder {
	return b.Line(garble(text))
}

// Build joins the accumulated lines into bill text.
func (b *BillBuilder) Build() string {
	return strings.Join(b.lines, "\n")
}

// garble swaps digits the way cheap OCR misreads them: a 1 followed by
// another digit becomes l, a 0 followed by another digit becomes O.
func garble(text string) string {
	var out strings.Builder
	for i, r := range text {
		switch {
		case r == '1' && i+1 < len(text) && isDigitByte(text[i+1]):
			out.WriteRune('l')
		case r == '0' && i+1 < len(text) && isDigitByte(text[i+1]):
			out.WriteRune('O')
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

// Canned fixtures used across package tests.

// CleanINRBill is a well-formed Indian hospital bill with a consistent total.
func CleanINRBill() string {
	return NewBill().
		Item("Consultation", "Rs.500").
		Item("X-Ray", "Rs.300").
		Item("Medicine", "Rs.200").
		Item("Total", "Rs.1000").
		Build()
}

// NoisyINRBill is a bill after a bad OCR pass: mangled labels and digits
// that the normalizer's correction tables can repair.
func NoisyINRBill() string {
	return NewBill().
		Noise("Total: Rs 1200").
		Line("Pald: 1000").
		Noise("Due: 200").
		Build()
}

// USDStatement is a small insurance statement in dollars.
func USDStatement() string {
	return NewBill().
		Item("Copay", "$25.00").
		Item("Deductible", "$150.00").
		Item("Insurance Covered", "$825.00").
		Item("Total", "$1000.00").
		Build()
}

// ProseNote contains no monetary amounts at all.
func ProseNote() string {
	return NewBill().
		Line("Patient was advised rest.").
		Line("Follow up in two weeks.").
		Build()
}

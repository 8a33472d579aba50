// Package model defines the core data structures for the medsift pipeline.
package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Currency identifies a supported currency.
type Currency string

// Supported currencies, in tie-break priority order.
const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// PatternKind identifies which extraction pattern produced a candidate.
type PatternKind string

// Extraction pattern kinds, most specific first.
const (
	PatternLabeledAmount    PatternKind = "labeled_amount"
	PatternCurrencyPrefixed PatternKind = "currency_prefixed"
	PatternStandaloneNumber PatternKind = "standalone_numeric"
)

// RawToken is a per-token confidence report from the upstream OCR collaborator.
type RawToken struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Line       int     `json:"line"`
	Column     int     `json:"column"`
}

// CorrectionKind distinguishes word-level from digit-level OCR corrections.
type CorrectionKind string

// Correction kinds.
const (
	CorrectionWord  CorrectionKind = "word"
	CorrectionDigit CorrectionKind = "digit"
)

// Correction records a single OCR correction applied during normalization.
type Correction struct {
	Kind CorrectionKind
	From string
	To   string
}

// NormalizedLine is one line of input after OCR correction. The original
// text is retained for audit.
type NormalizedLine struct {
	Text         string
	OriginalText string
	Corrections  []Correction
	Index        int
}

// DigitCorrected reports whether any digit-level correction fired on this line.
func (l NormalizedLine) DigitCorrected() bool {
	for _, c := range l.Corrections {
		if c.Kind == CorrectionDigit {
			return true
		}
	}
	return false
}

// AmountCandidate is a provisionally extracted numeric amount before
// classification and scoring.
type AmountCandidate struct {
	RawLabel       string
	NumericText    string
	SourceLine     string
	Pattern        PatternKind
	ParsedValue    decimal.Decimal
	LineIndex      int
	DigitCorrected bool
}

// ClassifiedAmount is the unit returned to callers: a typed, scored,
// currency-tagged monetary value.
type ClassifiedAmount struct {
	Type       Category
	Currency   string
	SourceLine string
	Value      decimal.Decimal
	Confidence float64
}

// MarshalJSON emits the caller-facing wire shape, with the value as a JSON
// number rather than shopspring's default quoted string.
func (a ClassifiedAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       Category    `json:"type"`
		Value      json.Number `json:"value"`
		Currency   string      `json:"currency"`
		Confidence float64     `json:"confidence"`
		SourceLine string      `json:"source_line"`
	}{
		Type:       a.Type,
		Value:      json.Number(a.Value.String()),
		Currency:   a.Currency,
		Confidence: a.Confidence,
		SourceLine: a.SourceLine,
	})
}

// UnmarshalJSON reads the wire shape back.
func (a *ClassifiedAmount) UnmarshalJSON(data []byte) error {
	var wire struct {
		Type       Category        `json:"type"`
		Value      decimal.Decimal `json:"value"`
		Currency   string          `json:"currency"`
		Confidence float64         `json:"confidence"`
		SourceLine string          `json:"source_line"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*a = ClassifiedAmount{
		Type:       wire.Type,
		Value:      wire.Value,
		Currency:   wire.Currency,
		Confidence: wire.Confidence,
		SourceLine: wire.SourceLine,
	}
	return nil
}

// Status is the overall outcome of a pipeline invocation.
type Status string

// Pipeline statuses.
const (
	StatusOK            Status = "ok"
	StatusLowConfidence Status = "low_confidence"
	StatusNoAmounts     Status = "no_amounts_found"
	StatusError         Status = "error"
)

// PipelineResult is the final, caller-facing result of one invocation.
type PipelineResult struct {
	Currency   *Currency          `json:"currency"`
	Reason     *string            `json:"reason"`
	Status     Status             `json:"status"`
	Amounts    []ClassifiedAmount `json:"amounts"`
	Notes      []string           `json:"notes,omitempty"`
	Confidence float64            `json:"confidence"`
}

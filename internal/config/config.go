// Package config holds the immutable configuration tables and thresholds for
// the extraction pipeline. A Config is built once at process start and passed
// into the pipeline entry point; nothing mutates it afterwards, so concurrent
// readers need no locking.
package config

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/medsift/medsift/internal/common"
	"github.com/medsift/medsift/internal/model"
)

// CurrencyPattern describes how one currency appears in bill text. Forms are
// ordered regex alternatives; registration order doubles as the tie-break
// priority when occurrence counts are equal.
type CurrencyPattern struct {
	Code    model.Currency `yaml:"code"`
	Symbols []string       `yaml:"symbols"`
	Forms   []string       `yaml:"forms"`
}

// TaxonomyEntry maps label keywords onto a semantic category. Priority breaks
// ties when multiple entries match keywords of the same length.
type TaxonomyEntry struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
	Priority int      `yaml:"priority"`
}

// Config is the full configuration surface of the pipeline.
type Config struct {
	// DigitCorrections maps ambiguous OCR letters onto the digits they are
	// usually misread from. Applied only in numeric context.
	DigitCorrections map[string]string

	// WordCorrections maps exact mangled tokens onto their intended words.
	// Applied before digit corrections.
	WordCorrections map[string]string

	Currencies []CurrencyPattern
	Taxonomy   []TaxonomyEntry

	MinAmountValue decimal.Decimal
	MaxAmountValue decimal.Decimal

	MinOCRConfidence              float64
	ProcessingConfidenceThreshold float64

	// MaxInputLength bounds the raw text accepted by callers, in bytes.
	MaxInputLength int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DigitCorrections: defaultDigitCorrections(),
		WordCorrections:  defaultWordCorrections(),
		Currencies:       DefaultCurrencies(),
		Taxonomy:         DefaultTaxonomy(),

		MinAmountValue: decimal.NewFromFloat(0.01),
		MaxAmountValue: decimal.NewFromInt(1_000_000),

		MinOCRConfidence:              0.1,
		ProcessingConfidenceThreshold: 0.3,

		MaxInputLength: 10_000,
	}
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if len(c.Currencies) == 0 {
		return fmt.Errorf("%w: no currency patterns", common.ErrInvalidConfig)
	}
	if len(c.Taxonomy) == 0 {
		return fmt.Errorf("%w: empty taxonomy", common.ErrInvalidConfig)
	}
	for _, entry := range c.Taxonomy {
		if entry.Category == "" {
			return fmt.Errorf("%w: taxonomy entry without category", common.ErrInvalidConfig)
		}
		if len(entry.Keywords) == 0 {
			return fmt.Errorf("%w: taxonomy entry %q without keywords", common.ErrInvalidConfig, entry.Category)
		}
	}
	for from, to := range c.DigitCorrections {
		if len([]rune(from)) != 1 || len([]rune(to)) != 1 {
			return fmt.Errorf("%w: digit correction %q -> %q must map single characters", common.ErrInvalidConfig, from, to)
		}
	}
	if c.MinAmountValue.GreaterThan(c.MaxAmountValue) {
		return fmt.Errorf("%w: min amount above max amount", common.ErrInvalidConfig)
	}
	if c.ProcessingConfidenceThreshold < 0 || c.ProcessingConfidenceThreshold > 1 {
		return fmt.Errorf("%w: processing confidence threshold outside [0,1]", common.ErrInvalidConfig)
	}
	return nil
}

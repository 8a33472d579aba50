package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/medsift/medsift/internal/common"
	"github.com/medsift/medsift/internal/model"
)

func defaultDigitCorrections() map[string]string {
	return map[string]string{
		"l": "1", "I": "1",
		"O": "0", "o": "0",
		"S": "5", "s": "5",
		"G": "6", "b": "6",
		"T": "7",
		"B": "8",
		"g": "9",
		"Z": "2", "z": "2",
	}
}

func defaultWordCorrections() map[string]string {
	return map[string]string{
		"Am0unt": "Amount", "am0unt": "amount",
		"T0tal": "Total", "t0tal": "total",
		"Tota1": "Total", "tota1": "total",
		"Ba1ance": "Balance", "ba1ance": "balance",
		"Fina1": "Final", "fina1": "final",
		"Pa1d": "Paid", "pa1d": "paid",
		"Pald": "Paid", "pald": "paid",
		"D1scount": "Discount", "d1scount": "discount",
		"Du0": "Due", "du0": "due",
	}
}

// DefaultCurrencies returns the built-in currency pattern registry.
// Declaration order is the documented tie-break priority.
func DefaultCurrencies() []CurrencyPattern {
	return []CurrencyPattern{
		{
			Code:    model.CurrencyINR,
			Symbols: []string{"₹", "Rs.", "Rs"},
			Forms:   []string{`INR`, `Rs\.?`, `₹`, `Rupees?`},
		},
		{
			Code:    model.CurrencyUSD,
			Symbols: []string{"$"},
			Forms:   []string{`USD`, `\$`, `Dollars?`},
		},
		{
			Code:    model.CurrencyEUR,
			Symbols: []string{"€"},
			Forms:   []string{`EUR`, `€`, `Euros?`},
		},
		{
			Code:    model.CurrencyGBP,
			Symbols: []string{"£"},
			Forms:   []string{`GBP`, `£`, `Pounds?`},
		},
	}
}

// DefaultTaxonomy returns the built-in keyword taxonomy. Longest keyword
// match wins; Priority breaks length ties.
func DefaultTaxonomy() []TaxonomyEntry {
	return []TaxonomyEntry{
		// Specific financial lines outrank the generic total bucket.
		{Category: model.TagSubTotal, Keywords: []string{"sub total", "subtotal"}, Priority: 90},
		{Category: model.TagFinalAmount, Keywords: []string{"final amount", "net amount"}, Priority: 90},
		{Category: model.TagPaid, Keywords: []string{"amount paid", "paid", "payment", "received", "collected"}, Priority: 80},
		{Category: model.TagDue, Keywords: []string{"amount due", "balance due", "due", "balance", "outstanding", "pending", "owed"}, Priority: 80},
		{Category: model.TagDiscount, Keywords: []string{"discount", "concession", "reduction"}, Priority: 80},
		{Category: model.TagTax, Keywords: []string{"service tax", "tax", "gst", "vat"}, Priority: 80},
		{Category: model.TagCopay, Keywords: []string{"copay", "co-pay", "patient share"}, Priority: 80},
		{Category: model.TagDeductible, Keywords: []string{"deductible", "excess"}, Priority: 80},
		{Category: model.TagInsuranceCovered, Keywords: []string{"insurance", "covered", "claim", "reimbursed"}, Priority: 70},
		{Category: model.TagTotalBill, Keywords: []string{"grand total", "total amount", "total", "amount", "bill", "invoice"}, Priority: 50},

		// Medical services.
		{Category: model.TagConsultation, Keywords: []string{"consultation", "consult"}, Priority: 70},
		{Category: model.TagXRay, Keywords: []string{"x-ray", "x ray", "xray"}, Priority: 70},
		{Category: model.TagMRI, Keywords: []string{"mri"}, Priority: 70},
		{Category: model.TagCTScan, Keywords: []string{"ct scan", "ct"}, Priority: 70},
		{Category: model.TagPETScan, Keywords: []string{"pet scan", "pet"}, Priority: 70},
		{Category: model.TagUltrasound, Keywords: []string{"ultrasound"}, Priority: 70},
		{Category: model.TagBloodTest, Keywords: []string{"blood test", "blood"}, Priority: 70},
		{Category: model.TagLabTest, Keywords: []string{"lab test", "laboratory", "lab"}, Priority: 70},
		{Category: model.TagPathology, Keywords: []string{"pathology"}, Priority: 70},
		{Category: model.TagRadiology, Keywords: []string{"radiology"}, Priority: 70},
		{Category: model.TagMedicine, Keywords: []string{"medicine", "medication", "medicines", "pharmacy", "drug", "drugs"}, Priority: 70},
		{Category: model.TagInjection, Keywords: []string{"injection"}, Priority: 70},
		{Category: model.TagSurgery, Keywords: []string{"surgery", "operation"}, Priority: 70},
		{Category: model.TagEndoscopy, Keywords: []string{"endoscopy"}, Priority: 70},
		{Category: model.TagBiopsy, Keywords: []string{"biopsy"}, Priority: 70},
		{Category: model.TagPhysiotherapy, Keywords: []string{"physiotherapy", "physio"}, Priority: 70},
		{Category: model.TagNursing, Keywords: []string{"nursing"}, Priority: 70},
		{Category: model.TagECG, Keywords: []string{"ecg", "ekg"}, Priority: 70},
		// Generic scan sits below the named modalities.
		{Category: model.TagScan, Keywords: []string{"scan"}, Priority: 60},
	}
}

// tablesFile is the YAML shape for rule-table overrides.
type tablesFile struct {
	DigitCorrections map[string]string `yaml:"digit_corrections"`
	WordCorrections  map[string]string `yaml:"word_corrections"`
	Currencies       []CurrencyPattern `yaml:"currencies"`
	Taxonomy         []TaxonomyEntry   `yaml:"taxonomy"`
}

// WithTablesFile returns a copy of the configuration with any tables present
// in the YAML file at path replacing the built-in ones. Absent sections keep
// their defaults.
func (c Config) WithTablesFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading rule tables: %w", err)
	}

	var tables tablesFile
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return c, fmt.Errorf("%w: parsing %s: %v", common.ErrBadRuleTable, path, err)
	}

	if len(tables.DigitCorrections) > 0 {
		c.DigitCorrections = tables.DigitCorrections
	}
	if len(tables.WordCorrections) > 0 {
		c.WordCorrections = tables.WordCorrections
	}
	if len(tables.Currencies) > 0 {
		c.Currencies = tables.Currencies
	}
	if len(tables.Taxonomy) > 0 {
		c.Taxonomy = tables.Taxonomy
	}

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

package model

import (
	"encoding/json"
	"strings"
)

// UnknownPrefix tags categories synthesized from unrecognized labels.
const UnknownPrefix = "unknown:"

// Category is a tagged variant: either a known taxonomy tag, or an unknown
// category that preserves the original free-text label. The zero value is an
// unknown category with an empty label.
type Category struct {
	tag   string
	label string
	known bool
}

// Known taxonomy tags. The taxonomy in internal/classify maps label keywords
// onto these; the set is open-ended for medical services.
const (
	TagTotalBill        = "total_bill"
	TagPaid             = "paid"
	TagDue              = "due"
	TagDiscount         = "discount"
	TagTax              = "tax"
	TagSubTotal         = "sub_total"
	TagFinalAmount      = "final_amount"
	TagCopay            = "copay"
	TagDeductible       = "deductible"
	TagInsuranceCovered = "insurance_covered"

	TagConsultation  = "consultation"
	TagXRay          = "x_ray"
	TagMRI           = "mri"
	TagCTScan        = "ct_scan"
	TagPETScan       = "pet_scan"
	TagUltrasound    = "ultrasound"
	TagScan          = "scan"
	TagBloodTest     = "blood_test"
	TagLabTest       = "lab_test"
	TagPathology     = "pathology"
	TagRadiology     = "radiology"
	TagMedicine      = "medicine"
	TagInjection     = "injection"
	TagSurgery       = "surgery"
	TagEndoscopy     = "endoscopy"
	TagBiopsy        = "biopsy"
	TagPhysiotherapy = "physiotherapy"
	TagNursing       = "nursing"
	TagECG           = "ecg"
)

// Known returns a category for a recognized taxonomy tag.
func Known(tag string) Category {
	return Category{tag: tag, known: true}
}

// Unknown returns a category that preserves an unrecognized label verbatim.
func Unknown(label string) Category {
	return Category{label: label}
}

// IsKnown reports whether the category carries a taxonomy tag.
func (c Category) IsKnown() bool {
	return c.known
}

// Tag returns the taxonomy tag, or the empty string for unknown categories.
func (c Category) Tag() string {
	if !c.known {
		return ""
	}
	return c.tag
}

// Label returns the preserved original label for unknown categories.
func (c Category) Label() string {
	return c.label
}

// String renders the category in its wire form: the tag for known
// categories, "unknown:<label>" otherwise.
func (c Category) String() string {
	if c.known {
		return c.tag
	}
	return UnknownPrefix + c.label
}

// MarshalJSON encodes the category as its wire string.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a wire string back into the tagged variant.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if rest, ok := strings.CutPrefix(s, UnknownPrefix); ok {
		*c = Unknown(rest)
		return nil
	}
	*c = Known(s)
	return nil
}

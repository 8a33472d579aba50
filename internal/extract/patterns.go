package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/medsift/medsift/internal/config"
	"github.com/medsift/medsift/internal/model"
)

// numberExpr matches a numeric amount with optional thousands/decimal
// separators. Locale handling happens at parse time, not here.
const numberExpr = `\d+(?:[.,]\d+)*`

// Pattern is one ordered extraction rule. Patterns are tried most specific
// first; the first match in a segment wins.
type Pattern struct {
	// ID names the rule for diagnostics and candidate provenance.
	ID string
	// Kind drives the scorer's base confidence.
	Kind model.PatternKind
	// Expr is the rule regex. It must expose a "num" group and may expose a
	// "label" group; a missing label falls back to the generic "amount".
	Expr string
}

// compile expands the CUR placeholder into the configured currency marker
// alternation and compiles each rule.
func compile(patterns []Pattern, currencies []config.CurrencyPattern) ([]compiledRule, error) {
	forms := make([]string, 0)
	for _, cp := range currencies {
		forms = append(forms, cp.Forms...)
	}
	curExpr := `(?:` + strings.Join(forms, `|`) + `)`

	rules := make([]compiledRule, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)` + strings.ReplaceAll(p.Expr, "CUR", curExpr))
		if err != nil {
			return nil, fmt.Errorf("compiling extraction pattern %s: %w", p.ID, err)
		}
		rules = append(rules, compiledRule{pattern: p, re: re})
	}
	return rules, nil
}

type compiledRule struct {
	re      *regexp.Regexp
	pattern Pattern
}

// FullPatterns returns the pipeline's ordered extraction rules: labeled
// amounts, then currency-prefixed values, then guarded standalone numbers.
func FullPatterns() []Pattern {
	const label = `(?P<label>[A-Za-z][A-Za-z0-9 .\-/&']*?)`
	return []Pattern{
		{
			ID:   "labeled_separator",
			Kind: model.PatternLabeledAmount,
			Expr: `^\s*` + label + `\s*[:\-]\s*(?:CUR\s*)?(?P<num>` + numberExpr + `)`,
		},
		{
			ID:   "labeled_currency",
			Kind: model.PatternLabeledAmount,
			Expr: `^\s*` + label + `\s+CUR\s*(?P<num>` + numberExpr + `)`,
		},
		{
			ID:   "currency_prefix",
			Kind: model.PatternCurrencyPrefixed,
			Expr: `CUR\s*(?P<num>` + numberExpr + `)`,
		},
		{
			ID:   "currency_suffix",
			Kind: model.PatternCurrencyPrefixed,
			Expr: `(?P<num>` + numberExpr + `)\s*CUR`,
		},
		{
			ID:   "standalone_number",
			Kind: model.PatternStandaloneNumber,
			Expr: `(?P<num>` + numberExpr + `)`,
		},
	}
}

// DirectPatterns returns the flat pattern set of the direct extraction mode:
// one rule per well-known bill line, ordered most specific first, all treated
// as labeled matches. Same classifier, scorer and orchestrator downstream;
// only the rule table differs.
func DirectPatterns() []Pattern {
	line := func(id, words string) Pattern {
		return Pattern{
			ID:   "direct_" + id,
			Kind: model.PatternLabeledAmount,
			Expr: `\b(?P<label>` + words + `)\b.*?(?P<num>` + numberExpr + `)`,
		}
	}
	return []Pattern{
		line("sub_total", `sub\s+total|subtotal`),
		line("grand_total", `grand\s+total|total\s+amount`),
		line("final_amount", `final\s+amount|net\s+amount`),
		line("paid", `amount\s+paid|paid\s+amount|payment`),
		line("due", `balance\s+due|balance|outstanding|due`),
		line("discount", `discount|concession|reduction`),
		line("tax", `service\s+tax|tax|gst|vat`),
		line("copay", `co-?pay|patient\s+share`),
		line("deductible", `deductible|excess`),
		line("insurance", `insurance|covered|claim`),
		line("consultation", `consultation|consult`),
		line("x_ray", `x-?\s?ray`),
		line("medicine", `medicine|medication|drugs?`),
		line("blood_test", `blood\s+test|blood`),
		line("ultrasound", `ultrasound`),
		line("injection", `injection`),
		line("ecg", `ecg|ekg`),
		line("mri", `mri`),
		line("ct_scan", `ct\s+scan|ct`),
		line("scan", `scan`),
		line("total", `total`),
	}
}

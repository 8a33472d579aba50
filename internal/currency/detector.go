// Package currency detects the dominant currency of a document from symbol
// and code occurrences.
package currency

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/medsift/medsift/internal/config"
	"github.com/medsift/medsift/internal/model"
)

type compiledPattern struct {
	code  model.Currency
	forms []*regexp.Regexp
}

// Detector counts currency markers across normalized lines. Immutable after
// construction; safe for concurrent use.
type Detector struct {
	patterns []compiledPattern
}

// New compiles the configured currency patterns. Registration order is kept:
// it is the documented tie-break priority (INR > USD > EUR > GBP with the
// default tables).
func New(patterns []config.CurrencyPattern) (*Detector, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		cp := compiledPattern{code: p.Code}
		for _, form := range p.Forms {
			expr := form
			// Letter-led forms get a leading boundary so "Rs" does not
			// fire inside words like "Hours".
			if r := []rune(form)[0]; unicode.IsLetter(r) && r < 128 {
				expr = `\b` + expr
			}
			re, err := regexp.Compile(`(?i)` + expr)
			if err != nil {
				return nil, fmt.Errorf("compiling currency form %q for %s: %w", form, p.Code, err)
			}
			cp.forms = append(cp.forms, re)
		}
		compiled = append(compiled, cp)
	}
	return &Detector{patterns: compiled}, nil
}

// Detect returns the currency with the most marker occurrences across all
// lines, or nil when no marker is found anywhere. Ties resolve to the
// earliest registered pattern.
func (d *Detector) Detect(lines []model.NormalizedLine) *model.Currency {
	best := -1
	bestCount := 0

	for i, p := range d.patterns {
		count := 0
		for _, line := range lines {
			for _, re := range p.forms {
				count += len(re.FindAllStringIndex(line.Text, -1))
			}
		}
		if count > bestCount {
			best = i
			bestCount = count
		}
	}

	if best < 0 {
		return nil
	}
	code := d.patterns[best].code
	return &code
}

// Marker reports whether s contains any marker of any registered currency.
func (d *Detector) Marker(s string) bool {
	for _, p := range d.patterns {
		for _, re := range p.forms {
			if re.MatchString(s) {
				return true
			}
		}
	}
	return false
}

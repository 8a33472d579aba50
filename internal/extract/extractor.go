// Package extract scans normalized lines for monetary amount candidates
// using an ordered pattern-rule table. Two rule tables exist (full pipeline
// and direct mode); everything downstream of the table is shared.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/medsift/medsift/internal/common"
	"github.com/medsift/medsift/internal/config"
	"github.com/medsift/medsift/internal/model"
)

// segmentSplit separates clearly delimited label:value pairs on one line.
var segmentSplit = regexp.MustCompile(`[|;\t]`)

// nonAmountLabels are label suffixes that mark identifiers rather than
// monetary values (invoice numbers, dates, registration ids).
var nonAmountLabels = []string{"no", "no.", "number", "date", "id", "phone", "reg", "regn"}

// percentKeywords license a percentage value: "Discount: 10%" is worth
// keeping, a bare "10%" is not.
var percentKeywords = []string{"discount", "concession", "reduction", "tax", "gst", "vat"}

// Stats carries low-level extraction diagnostics. Rejections are counted,
// never surfaced as errors.
type Stats struct {
	Matched  int
	Rejected int
}

// Extractor applies an ordered pattern table per line segment. Immutable
// after construction; safe for concurrent use.
type Extractor struct {
	keywords []string
	rules    []compiledRule
	minValue decimal.Decimal
	maxValue decimal.Decimal
}

// New builds an extractor over the given pattern table. Financial keywords
// for the standalone-number guard come from the taxonomy.
func New(cfg config.Config, patterns []Pattern) (*Extractor, error) {
	if len(patterns) == 0 {
		return nil, common.ErrBadPattern
	}
	rules, err := compile(patterns, cfg.Currencies)
	if err != nil {
		return nil, err
	}

	var keywords []string
	for _, entry := range cfg.Taxonomy {
		keywords = append(keywords, entry.Keywords...)
	}

	return &Extractor{
		rules:    rules,
		keywords: keywords,
		minValue: cfg.MinAmountValue,
		maxValue: cfg.MaxAmountValue,
	}, nil
}

// Extract scans each line for amount candidates. A line yields at most one
// candidate per clearly delimited segment; the first matching pattern wins.
// Candidates failing numeric parsing or range validation are dropped
// silently and only counted in the returned stats.
func (e *Extractor) Extract(lines []model.NormalizedLine, cur *model.Currency) ([]model.AmountCandidate, Stats) {
	var candidates []model.AmountCandidate
	var stats Stats
	seen := make(map[string]bool)

	for _, line := range lines {
		if strings.TrimSpace(line.Text) == "" {
			continue
		}
		for _, segment := range splitSegments(line.Text) {
			candidate, ok := e.scanSegment(segment, line, cur, &stats)
			if !ok {
				continue
			}
			key := candidate.RawLabel + "\x00" + candidate.ParsedValue.String() + "\x00" + strconv.Itoa(candidate.LineIndex)
			if seen[key] {
				continue
			}
			seen[key] = true
			candidates = append(candidates, candidate)
		}
	}

	return candidates, stats
}

func splitSegments(line string) []string {
	parts := segmentSplit.Split(line, -1)
	segments := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

func (e *Extractor) scanSegment(segment string, line model.NormalizedLine, cur *model.Currency, stats *Stats) (model.AmountCandidate, bool) {
	for _, rule := range e.rules {
		match := rule.re.FindStringSubmatchIndex(segment)
		if match == nil {
			continue
		}

		num := group(rule.re, segment, match, "num")
		if num == "" || dateLike(segment, match, rule.re) {
			continue
		}

		percent := percentLike(segment, match, rule.re)
		if percent && !hasKeyword(segment, percentKeywords) {
			continue
		}

		label := strings.TrimSpace(group(rule.re, segment, match, "label"))
		if label == "" {
			label = labelFromContext(segment, rule.pattern.Kind, num)
		}
		if identifierLabel(label) {
			continue
		}

		if rule.pattern.Kind == model.PatternStandaloneNumber && !e.hasFinancialKeyword(segment) {
			continue
		}

		stats.Matched++
		value, err := parseNumeric(num, cur)
		if err != nil {
			stats.Rejected++
			return model.AmountCandidate{}, false
		}
		if value.LessThan(e.minValue) || value.GreaterThan(e.maxValue) {
			stats.Rejected++
			return model.AmountCandidate{}, false
		}
		if percent && value.GreaterThan(decimal.NewFromInt(100)) {
			stats.Rejected++
			return model.AmountCandidate{}, false
		}

		return model.AmountCandidate{
			RawLabel:       label,
			NumericText:    num,
			ParsedValue:    value,
			LineIndex:      line.Index,
			Pattern:        rule.pattern.Kind,
			SourceLine:     strings.TrimSpace(line.Text),
			DigitCorrected: line.DigitCorrected() && !strings.Contains(line.OriginalText, num),
		}, true
	}

	return model.AmountCandidate{}, false
}

// group extracts a named subgroup from a FindStringSubmatchIndex result.
func group(re *regexp.Regexp, s string, match []int, name string) string {
	for i, n := range re.SubexpNames() {
		if n == name && match[2*i] >= 0 {
			return s[match[2*i]:match[2*i+1]]
		}
	}
	return ""
}

// numEnd returns the end offset of the num group, or -1.
func numEnd(re *regexp.Regexp, match []int) int {
	for i, n := range re.SubexpNames() {
		if n == "num" && match[2*i] >= 0 {
			return match[2*i+1]
		}
	}
	return -1
}

// dateLike reports whether the numeric match runs straight into a date or
// identifier separator, e.g. the 12 of "12/04/2023".
func dateLike(segment string, match []int, re *regexp.Regexp) bool {
	end := numEnd(re, match)
	return end >= 0 && end < len(segment) && (segment[end] == '/' || segment[end] == '-')
}

// percentLike reports whether the numeric match is immediately followed by a
// percent sign, optionally after spaces.
func percentLike(segment string, match []int, re *regexp.Regexp) bool {
	end := numEnd(re, match)
	if end < 0 {
		return false
	}
	rest := strings.TrimLeft(segment[end:], " ")
	return strings.HasPrefix(rest, "%")
}

// labelFromContext derives a label for unlabeled matches: the text before
// the number for standalone candidates, the generic "amount" otherwise.
func labelFromContext(segment string, kind model.PatternKind, num string) string {
	if kind == model.PatternStandaloneNumber {
		if idx := strings.Index(segment, num); idx > 0 {
			prefix := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(segment[:idx]), ":-"))
			if prefix != "" {
				return prefix
			}
		}
	}
	return "amount"
}

func identifierLabel(label string) bool {
	lower := strings.ToLower(label)
	for _, suffix := range nonAmountLabels {
		if lower == suffix || strings.HasSuffix(lower, " "+suffix) {
			return true
		}
	}
	return false
}

func (e *Extractor) hasFinancialKeyword(segment string) bool {
	return hasKeyword(segment, e.keywords)
}

func hasKeyword(segment string, keywords []string) bool {
	lower := strings.ToLower(segment)
	for _, kw := range keywords {
		if containsWord(lower, kw) {
			return true
		}
	}
	return false
}

// containsWord reports whether kw occurs in s on word boundaries.
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

// parseNumeric parses a matched numeric string using the decimal-mark
// convention of the detected currency: EUR reads "1.234,56", everything else
// reads "1,234.56". Unparseable or non-finite values surface as errors so
// the caller can drop the candidate.
func parseNumeric(num string, cur *model.Currency) (decimal.Decimal, error) {
	cleaned := num
	if cur != nil && *cur == model.CurrencyEUR {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	return decimal.NewFromString(cleaned)
}

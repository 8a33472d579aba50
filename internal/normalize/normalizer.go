// Package normalize implements the OCR-error-correction pass that precedes
// extraction. Corrections come from the immutable tables in config: exact
// word replacements first, then character-level digit corrections restricted
// to numeric context so that already-clean text passes through untouched.
package normalize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/medsift/medsift/internal/config"
	"github.com/medsift/medsift/internal/model"
)

// wordRule is a compiled exact-token replacement.
type wordRule struct {
	re   *regexp.Regexp
	from string
	to   string
}

// Normalizer applies correction tables to raw text. It is immutable after
// construction and safe for concurrent use.
type Normalizer struct {
	digitMap       map[rune]rune
	currencyMarker *regexp.Regexp
	wordRules      []wordRule
}

// New builds a Normalizer from the configured correction tables.
func New(cfg config.Config) (*Normalizer, error) {
	words := make([]string, 0, len(cfg.WordCorrections))
	for from := range cfg.WordCorrections {
		words = append(words, from)
	}
	// Deterministic application order regardless of map iteration.
	sort.Strings(words)

	rules := make([]wordRule, 0, len(words))
	for _, from := range words {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(from) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("compiling word correction %q: %w", from, err)
		}
		rules = append(rules, wordRule{re: re, from: from, to: cfg.WordCorrections[from]})
	}

	digitMap := make(map[rune]rune, len(cfg.DigitCorrections))
	for from, to := range cfg.DigitCorrections {
		digitMap[[]rune(from)[0]] = []rune(to)[0]
	}

	symbols := make([]string, 0)
	for _, cp := range cfg.Currencies {
		for _, s := range cp.Symbols {
			symbols = append(symbols, regexp.QuoteMeta(s))
		}
		symbols = append(symbols, regexp.QuoteMeta(string(cp.Code)))
	}
	// Longest alternative first so "Rs." wins over "Rs".
	sort.Slice(symbols, func(i, j int) bool { return len(symbols[i]) > len(symbols[j]) })
	marker, err := regexp.Compile(`^(?:` + strings.Join(symbols, "|") + `)$`)
	if err != nil {
		return nil, fmt.Errorf("compiling currency marker: %w", err)
	}

	return &Normalizer{
		wordRules:      rules,
		digitMap:       digitMap,
		currencyMarker: marker,
	}, nil
}

// Normalize splits raw text into lines and applies the correction tables to
// each. Line order and original text are preserved; lines needing no
// correction pass through unchanged. Normalize is idempotent.
func (n *Normalizer) Normalize(raw string) []model.NormalizedLine {
	rawLines := strings.Split(raw, "\n")
	lines := make([]model.NormalizedLine, 0, len(rawLines))

	for i, rawLine := range rawLines {
		text, corrections := n.normalizeLine(rawLine)
		lines = append(lines, model.NormalizedLine{
			Index:        i,
			Text:         text,
			OriginalText: rawLine,
			Corrections:  corrections,
		})
	}

	return lines
}

func (n *Normalizer) normalizeLine(line string) (string, []model.Correction) {
	var corrections []model.Correction

	// Word-level corrections first, exact token matches only.
	for _, rule := range n.wordRules {
		if rule.re.MatchString(line) {
			line = rule.re.ReplaceAllString(line, rule.to)
			corrections = append(corrections, model.Correction{
				Kind: model.CorrectionWord,
				From: rule.from,
				To:   rule.to,
			})
		}
	}

	// Digit-level corrections inside numeric-context tokens.
	fields := splitFields(line)
	var prevToken string
	for _, f := range fields {
		corrected := n.correctToken(f.text, prevToken)
		if corrected != f.text {
			line = line[:f.start] + corrected + line[f.start+len(f.text):]
			corrections = append(corrections, model.Correction{
				Kind: model.CorrectionDigit,
				From: f.text,
				To:   corrected,
			})
		}
		prevToken = corrected
	}

	return line, corrections
}

// field is a whitespace-delimited token and its byte offset in the line.
type field struct {
	text  string
	start int
}

// splitFields returns whitespace-separated tokens with byte offsets. Token
// lengths are unchanged by digit correction (single rune to single rune), so
// offsets stay valid while rewriting left to right.
func splitFields(line string) []field {
	var fields []field
	start := -1
	for i, r := range line {
		if r == ' ' || r == '\t' {
			if start >= 0 {
				fields = append(fields, field{text: line[start:i], start: start})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, field{text: line[start:], start: start})
	}
	return fields
}

// correctToken rewrites ambiguous letters inside a single token. A letter is
// rewritten only when adjacent to a confirmed digit in the same token, so
// real words keep their letters and a second pass changes nothing. Tokens
// with no digits at all are still corrected when a currency marker puts them
// in numeric context and they contain nothing but ambiguous letters, digits
// and separators.
func (n *Normalizer) correctToken(token, prevToken string) string {
	runes := []rune(token)

	if !containsDigit(runes) {
		prefix, rest, ok := n.splitCurrencyContext(token, prevToken)
		if ok && n.allAmbiguous(rest) {
			out := []rune(rest)
			for i, r := range out {
				if d, mapped := n.digitMap[r]; mapped {
					out[i] = d
				}
			}
			return prefix + string(out)
		}
		return token
	}

	// An attached currency marker is not fair game for digit correction:
	// the "s" of "Rs.470.40" must not become a 5.
	prefix := ""
	for plen := len(token) - 1; plen > 0; plen-- {
		if n.currencyMarker.MatchString(token[:plen]) {
			prefix = token[:plen]
			runes = []rune(token[plen:])
			break
		}
	}

	// Fixpoint: each pass may confirm new digits that unlock neighbours,
	// e.g. "2OO" -> "20O" -> "200".
	for changed := true; changed; {
		changed = false
		for i, r := range runes {
			d, ok := n.digitMap[r]
			if !ok {
				continue
			}
			if digitAdjacent(runes, i) {
				runes[i] = d
				changed = true
			}
		}
	}

	return prefix + string(runes)
}

// splitCurrencyContext decides whether token sits in currency-marked numeric
// context and, if the marker is attached ("Rs.lOO"), splits it off so only
// the numeric tail is rewritten.
func (n *Normalizer) splitCurrencyContext(token, prevToken string) (prefix, rest string, ok bool) {
	if n.currencyMarker.MatchString(strings.TrimSuffix(prevToken, ":")) {
		return "", token, true
	}
	for prefixLen := len(token) - 1; prefixLen > 0; prefixLen-- {
		if n.currencyMarker.MatchString(token[:prefixLen]) {
			return token[:prefixLen], token[prefixLen:], true
		}
	}
	return "", "", false
}

// allAmbiguous reports whether s holds only ambiguous letters, digits and
// separators, with at least one ambiguous letter to rewrite.
func (n *Normalizer) allAmbiguous(s string) bool {
	seen := false
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '.' || r == ',' {
			continue
		}
		if _, ok := n.digitMap[r]; !ok {
			return false
		}
		seen = true
	}
	return seen
}

func containsDigit(runes []rune) bool {
	for _, r := range runes {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// digitAdjacent reports whether the rune at i neighbours a digit, looking
// through a single '.' or ',' separator.
func digitAdjacent(runes []rune, i int) bool {
	isDigit := func(j int) bool { return j >= 0 && j < len(runes) && runes[j] >= '0' && runes[j] <= '9' }
	isSep := func(j int) bool { return j >= 0 && j < len(runes) && (runes[j] == '.' || runes[j] == ',') }

	if isDigit(i-1) || isDigit(i+1) {
		return true
	}
	if isSep(i-1) && isDigit(i-2) {
		return true
	}
	if isSep(i+1) && isDigit(i+2) {
		return true
	}
	return false
}

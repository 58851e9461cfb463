package engine

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/venueup/kassad/internal/domain"
)

// LineItemParser extracts {product, quantity} pairs from a raw sale
// description. Implementations must be pure and deterministic.
type LineItemParser interface {
	Parse(description string) []domain.LineItem
}

var (
	itemPattern   = regexp.MustCompile(`(?i)(\d+)\s*x\s*`)
	datePattern   = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.$`)
	personPattern = regexp.MustCompile(`(?i)^\d+\s*p$`)
)

// defaultStopWords are category markers staff append to descriptions.
// They label a sale, they are not products.
var defaultStopWords = []string{"essen", "trinken", "coins", "sticker", "figuren"}

// PatternParser scans for `<qty> x <name>` occurrences where the name
// fragment runs until the next '+', '|' or end of string.
type PatternParser struct {
	stopWords map[string]struct{}
}

func NewPatternParser(extraStopWords ...string) *PatternParser {
	p := &PatternParser{stopWords: make(map[string]struct{})}
	for _, w := range defaultStopWords {
		p.stopWords[w] = struct{}{}
	}
	for _, w := range extraStopWords {
		p.stopWords[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return p
}

// Parse returns one line item per matched occurrence. Duplicate product
// names are not merged here; allocation sums over the full sequence.
func (p *PatternParser) Parse(description string) []domain.LineItem {
	matches := itemPattern.FindAllStringSubmatchIndex(description, -1)
	if len(matches) == 0 {
		return nil
	}

	items := make([]domain.LineItem, 0, len(matches))
	for _, m := range matches {
		qty, err := strconv.Atoi(description[m[2]:m[3]])
		if err != nil || qty <= 0 {
			continue
		}
		fragment := description[m[1]:]
		if i := strings.IndexAny(fragment, "+|"); i >= 0 {
			fragment = fragment[:i]
		}
		name := strings.TrimSpace(fragment)
		if p.rejected(name) {
			continue
		}
		items = append(items, domain.LineItem{Product: name, Quantity: qty})
	}
	if len(items) == 0 {
		return nil
	}
	return items
}

// rejected filters fragments that denote dates, person counts or
// category stop words rather than products.
func (p *PatternParser) rejected(name string) bool {
	if utf8.RuneCountInString(name) <= 1 {
		return true
	}
	if datePattern.MatchString(name) || personPattern.MatchString(name) {
		return true
	}
	_, stop := p.stopWords[strings.ToLower(name)]
	return stop
}

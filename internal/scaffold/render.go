package scaffold

import (
	"regexp"
	"sort"
	"strings"
)

// maxReportedSpans caps how many offending spans a diagnostic lists.
const maxReportedSpans = 10

// The five malformed placeholder shapes: a space splitting the opening
// brace pair, a space splitting the closing pair, both at once, and
// whitespace just inside either delimiter.
var (
	splitOpenRe   = regexp.MustCompile(`\{[ \t]+\{`)
	splitCloseRe  = regexp.MustCompile(`\}[ \t]+\}`)
	innerLeadRe   = regexp.MustCompile(`\{\{[ \t]+`)
	innerTrailRe  = regexp.MustCompile(`[ \t]+\}\}`)
	malformedScan = regexp.MustCompile(`\{[ \t]*\{[ \t]*[A-Za-z0-9_#/]+[ \t]*\}[ \t]*\}`)
)

// ScanMalformed reports placeholder-like spans whose brace syntax is not
// canonical. Detection is advisory: the caller gets up to ten distinct
// spans for its diagnostic and rendering proceeds regardless.
func ScanMalformed(text string) []string {
	seen := make(map[string]bool)
	var spans []string
	for _, span := range malformedScan.FindAllString(text, -1) {
		if span == canonicalForm(span) {
			continue
		}
		if seen[span] {
			continue
		}
		seen[span] = true
		spans = append(spans, span)
		if len(spans) == maxReportedSpans {
			break
		}
	}
	return spans
}

func canonicalForm(span string) string {
	inner := strings.Trim(span, "{} \t")
	return "{{" + inner + "}}"
}

// Normalize collapses the malformed shapes into canonical {{Key}} form.
// The rewrites must run in this order: first collapse split brace pairs,
// then trim whitespace inside the delimiters. That order makes a single
// pass sufficient even when several malformations overlap in one span.
func Normalize(text string) string {
	text = splitOpenRe.ReplaceAllString(text, "{{")
	text = splitCloseRe.ReplaceAllString(text, "}}")
	text = innerLeadRe.ReplaceAllString(text, "{{")
	text = innerTrailRe.ReplaceAllString(text, "}}")
	return text
}

// Render normalizes the template and substitutes every placeholder whose
// key is present in the map. Keys are matched longest-first so a shorter
// key (EntityName) never partially consumes a longer key's placeholder
// (EntityNamePlural). Keys absent from the map are left in place; leaks
// are the validator's business, so Render never fails.
func Render(template string, replacements ReplacementMap) string {
	text := Normalize(template)

	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, key := range keys {
		pattern := regexp.MustCompile(`\{\{\s*` + regexp.QuoteMeta(key) + `\s*\}\}`)
		text = pattern.ReplaceAllString(text, replaceEscape(replacements[key]))
	}
	return text
}

// replaceEscape protects $ in replacement values from expansion by
// regexp.ReplaceAllString.
func replaceEscape(value string) string {
	return strings.ReplaceAll(value, "$", "$$")
}

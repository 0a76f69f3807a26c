package scaffold

import (
	"fmt"
	"regexp"
	"strings"
)

// residualSpanRe finds any double-brace span left after substitution,
// tolerating the same malformed shapes Normalize repairs since
// normalization is best-effort.
var residualSpanRe = regexp.MustCompile(`\{[ \t]*\{([^{}]*)\}[ \t]*\}`)

// pascalIdentRe matches a PascalCase identifier.
var pascalIdentRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// blockDirectiveRe matches the template dialect's block markers, which a
// later rendering pass resolves; they are expected residue, not leaks.
var blockDirectiveRe = regexp.MustCompile(`^[#/](if|each|with|unless)\b`)

// domainKeywords flag identifier-shaped residue as generated-code
// placeholders rather than incidental braces.
var domainKeywords = []string{"Entity", "Input", "Output", "DTO", "Config", "Service", "Provider"}

// LeakError reports unresolved placeholders in rendered output. It is
// the only fatal error class of the pipeline: shipping a file with a
// leaked placeholder means shipping broken generated source.
type LeakError struct {
	File  string
	Spans []string
}

func (e *LeakError) Error() string {
	return fmt.Sprintf("%d unresolved placeholder(s) in %s: %s",
		len(e.Spans), e.File, strings.Join(e.Spans, ", "))
}

// Remediation returns the checklist printed alongside a leak report.
func (e *LeakError) Remediation() []string {
	return []string{
		"check for mismatched brace spacing in the template (e.g. '{ {Key}}')",
		"check that the replacement map defines every key the template references",
		"check for case-sensitive typos in placeholder keys",
	}
}

// ValidateRendered scans rendered text for placeholder leaks. A residual
// span is a true leak when its inner content names a known replacement
// key, or is a PascalCase identifier carrying a domain keyword. Block
// directives pass. The text is never mutated; on zero leaks the result
// is nil.
func ValidateRendered(rendered, file string, knownKeys ReplacementMap) error {
	seen := make(map[string]bool)
	var leaks []string

	for _, match := range residualSpanRe.FindAllStringSubmatch(rendered, -1) {
		span := match[0]
		inner := strings.TrimSpace(match[1])

		if blockDirectiveRe.MatchString(inner) {
			continue
		}
		if !isLeak(inner, knownKeys) {
			continue
		}
		if seen[span] {
			continue
		}
		seen[span] = true
		if len(leaks) < maxReportedSpans {
			leaks = append(leaks, span)
		}
	}

	if len(leaks) > 0 {
		return &LeakError{File: file, Spans: leaks}
	}
	return nil
}

func isLeak(inner string, knownKeys ReplacementMap) bool {
	for key := range knownKeys {
		if strings.Contains(inner, key) {
			return true
		}
	}
	if pascalIdentRe.MatchString(inner) {
		for _, kw := range domainKeywords {
			if strings.Contains(inner, kw) {
				return true
			}
		}
	}
	return false
}

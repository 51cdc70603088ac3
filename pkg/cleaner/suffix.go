package cleaner

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultRoadMarker is the pinyin for "road" (路). street names like "Huaihailu" end with it.
const DefaultRoadMarker = "lu"

// SuffixMatcher extracts the street type token of a street name. the marker alternative is tried
// before the generic last token one, and both are heuristics: "Xinzhalu Bridge" yields "Xinzhalu Bridge".
type SuffixMatcher struct {
	re *regexp.Regexp
}

func NewSuffixMatcher(marker string) *SuffixMatcher {
	pattern := `(?i)(\b\S+` + regexp.QuoteMeta(marker) + `.*|\b\S+\.?$)`
	return &SuffixMatcher{re: regexp.MustCompile(pattern)}
}

func (m *SuffixMatcher) Extract(name string) (string, bool) {
	loc := m.re.FindStringIndex(name)
	if loc == nil {
		return "", false
	}
	return name[loc[0]:loc[1]], true
}

// ReplaceLongest finds the longest table key contained in name and replaces every occurrence of it.
// only that one key is applied. ties keep the earliest key of the table. name is returned as is when
// no key matches.
func ReplaceLongest(name string, table CorrectionTable) string {
	better := name
	prevLen := 0
	for _, c := range table {
		keyLen := utf8.RuneCountInString(c.From)
		if keyLen <= prevLen || !strings.Contains(name, c.From) {
			continue
		}
		better = strings.ReplaceAll(name, c.From, c.To)
		prevLen = keyLen
	}
	return better
}

type SuffixNormalizer struct {
	table    CorrectionTable
	expected map[string]struct{}
	matcher  *SuffixMatcher
}

func NewSuffixNormalizer(table CorrectionTable, expected []string, matcher *SuffixMatcher) *SuffixNormalizer {
	set := make(map[string]struct{}, len(expected))
	for _, s := range expected {
		set[s] = struct{}{}
	}
	return &SuffixNormalizer{
		table:    table,
		expected: set,
		matcher:  matcher,
	}
}

func (n *SuffixNormalizer) IsExpected(suffix string) bool {
	_, ok := n.expected[suffix]
	return ok
}

// Normalize rewrites the street type of name with the correction table. names already ending in an
// expected suffix are left alone, otherwise "Main Street" would become "Main Streetreet" through "St".
// the result is not guaranteed to be stable: "Jinqiao Ave." -> "Jinqiao Avenue." -> "Jinqiao Avenueenue.".
func (n *SuffixNormalizer) Normalize(name string) string {
	if suffix, ok := n.matcher.Extract(name); ok && n.IsExpected(suffix) {
		return name
	}
	return ReplaceLongest(name, n.table)
}

func (n *SuffixNormalizer) Matcher() *SuffixMatcher {
	return n.matcher
}

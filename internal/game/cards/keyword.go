package cards

import (
	"strconv"
	"strings"
)

// ParseKeyword splits a keyword such as "Restore 2" into its name and numeric value.
// Keywords without a trailing number report a value of 0.
func ParseKeyword(raw string) (string, int) {
	raw = strings.TrimSpace(raw)
	idx := strings.LastIndex(raw, " ")
	if idx < 0 {
		return raw, 0
	}
	n, err := strconv.Atoi(raw[idx+1:])
	if err != nil {
		return raw, 0
	}
	return strings.TrimSpace(raw[:idx]), n
}

// KeywordName returns the keyword without its numeric value.
func KeywordName(raw string) string {
	name, _ := ParseKeyword(raw)
	return name
}

func containsKeyword(list []string, name string) bool {
	for _, k := range list {
		if strings.EqualFold(KeywordName(k), name) {
			return true
		}
	}
	return false
}

// keywordValue returns the largest value recorded for name in list.
func keywordValue(list []string, name string) (int, bool) {
	best, found := 0, false
	for _, k := range list {
		n, v := ParseKeyword(k)
		if !strings.EqualFold(n, name) {
			continue
		}
		if !found || v > best {
			best = v
		}
		found = true
	}
	return best, found
}

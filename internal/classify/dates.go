package classify

import (
	"regexp"
	"strings"
	"time"
)

// defaultDateLayouts is the ordered list of accepted date layouts. Day-first
// layouts precede month-first ones, so 01/02/2024 reads as 1 February.
func defaultDateLayouts() []string {
	return []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-1-2",
		"2006/1/2",
		"2/1/2006",
		"2-1-2006",
		"2.1.2006",
		"1/2/2006",
		"1-2-2006",
		"20060102",
		"02012006",
	}
}

var dateLike = regexp.MustCompile(`^(\d{4}[\-/]\d{1,2}[\-/]\d{1,2}([ T]\d{2}:\d{2}(:\d{2})?.*)?|\d{1,2}[\-/.]\d{1,2}[\-/.]\d{2,4}|\d{8})$`)

// LooksLikeDate reports whether s has a date shape
func LooksLikeDate(s string) bool {
	return dateLike.MatchString(strings.TrimSpace(s))
}

// ParseDate parses s with a single layout
func ParseDate(layout, s string) (time.Time, bool) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// LayoutForAll returns the first of layouts that parses every sample value
func LayoutForAll(layouts, sample []string) (string, bool) {
	if len(sample) == 0 {
		return "", false
	}
	for _, layout := range layouts {
		ok := true
		for _, s := range sample {
			if _, parsed := ParseDate(layout, s); !parsed {
				ok = false
				break
			}
		}
		if ok {
			return layout, true
		}
	}
	return "", false
}

// LayoutForShare returns the first of layouts parsing at least minShare of
// sample
func LayoutForShare(layouts, sample []string, minShare float64) (string, bool) {
	if len(sample) == 0 {
		return "", false
	}
	for _, layout := range layouts {
		parsed := 0
		for _, s := range sample {
			if _, ok := ParseDate(layout, s); ok {
				parsed++
			}
		}
		if float64(parsed)/float64(len(sample)) >= minShare {
			return layout, true
		}
	}
	return "", false
}

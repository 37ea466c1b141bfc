package xbrl

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/tablex"
)

var (
	previousTokens = []string{"前期", "前連結", "前年度"}
	currentTokens  = []string{"当期", "当連結", "当年度", "単位"}

	columnKeyRe = regexp.MustCompile(`^Column (\d+)$`)
)

// Mapping assigns record keys to statement roles. Empty strings mark roles
// that no column fills.
type Mapping struct {
	Levels   [tablex.MaxLevel]string
	Previous string
	Current  string
}

// HasLevels reports whether any level column is mapped.
func (m Mapping) HasLevels() bool {
	for _, key := range m.Levels {
		if key != "" {
			return true
		}
	}
	return false
}

// ColumnMapping derives the column roles from the label record.
//
// Keys named "Column 1" to "Column 5" are level columns. Other keys are
// period columns when the key or its label value mentions a period token.
// Without a token match the two highest remaining "Column N" keys serve as
// previous and current period. Without any level column the first
// unassigned key becomes level 1.
func ColumnMapping(first tablex.Record) Mapping {
	var m Mapping
	var spare []int

	for _, key := range first.Keys() {
		if strings.HasSuffix(key, tablex.TagSuffix) {
			continue
		}

		n, numbered := columnIndex(key)
		if numbered && n >= 1 && n <= tablex.MaxLevel {
			if m.Levels[n-1] == "" {
				m.Levels[n-1] = key
			}
			continue
		}

		text := key + " " + first.Value(key)
		switch {
		case m.Previous == "" && containsAny(text, previousTokens):
			m.Previous = key
		case m.Current == "" && containsAny(text, currentTokens):
			m.Current = key
		case numbered:
			spare = append(spare, n)
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(spare)))
	if m.Current == "" && len(spare) > 0 {
		m.Current = tablex.ColumnName(spare[0])
		spare = spare[1:]
	}
	if m.Previous == "" && len(spare) > 0 {
		m.Previous = tablex.ColumnName(spare[0])
	}

	if !m.HasLevels() {
		for _, key := range first.Keys() {
			if strings.HasSuffix(key, tablex.TagSuffix) || key == m.Previous || key == m.Current {
				continue
			}
			m.Levels[0] = key
			break
		}
	}
	return m
}

func columnIndex(key string) (int, bool) {
	match := columnKeyRe.FindStringSubmatch(key)
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

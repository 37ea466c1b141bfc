package tablex

import (
	"strings"
	"unicode/utf8"
)

// headerScanRows is how many leading rows are considered as header candidates.
const headerScanRows = 3

// headerIndicators are words that mark a first row as column labels.
var headerIndicators = []string{"id", "name", "title", "date", "total", "sum", "average", "price", "amount", "quantity"}

var numericNoise = strings.NewReplacer("%", "", "¥", "", "￥", "", "$", "", "€", "", "£", "", "(", "", ")", "", " ", "")

// IsNumeric reports whether a cell text reads as a number, ignoring
// separators, currency symbols and percent signs.
func IsNumeric(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return ParseFinancialValue(numericNoise.Replace(s)).IsNumber()
}

// DetectHeaderRow returns the index of the row holding column labels, or -1.
//
// Only the first three rows are candidates and the first match wins:
// row 0 when a cell mentions a typical header word, row 0 when its cells are
// uniformly short, any row whose cells are all non-numeric while the next
// row's numeric pattern differs. When no rule matches, row 0 is the header
// if detect is set and no row is otherwise.
func DetectHeaderRow(rows [][]Cell, detect bool) int {
	if len(rows) == 0 {
		return -1
	}

	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		if i == 0 && (hasHeaderIndicator(rows[0]) || uniformlyShort(rows[0])) {
			return 0
		}
		if i+1 < len(rows) && allNonNumeric(rows[i]) && patternDiffers(rows[i], rows[i+1]) {
			return i
		}
	}
	if !detect {
		return -1
	}
	return 0
}

func hasHeaderIndicator(row []Cell) bool {
	for _, c := range row {
		text := strings.ToLower(CellValue(c))
		for _, word := range headerIndicators {
			if strings.Contains(text, word) {
				return true
			}
		}
	}
	return false
}

func uniformlyShort(row []Cell) bool {
	if len(row) == 0 {
		return false
	}

	lengths := make([]float64, len(row))
	var sum float64
	for i, c := range row {
		lengths[i] = float64(utf8.RuneCountInString(CellValue(c)))
		sum += lengths[i]
	}
	mean := sum / float64(len(row))
	if mean >= 15 {
		return false
	}
	for _, l := range lengths {
		if l-mean > 5 || mean-l > 5 {
			return false
		}
	}
	return true
}

func allNonNumeric(row []Cell) bool {
	for _, c := range row {
		if IsNumeric(CellValue(c)) {
			return false
		}
	}
	return true
}

func patternDiffers(row, next []Cell) bool {
	n := max(len(row), len(next))
	for i := 0; i < n; i++ {
		var a, b bool
		if i < len(row) {
			a = IsNumeric(CellValue(row[i]))
		}
		if i < len(next) {
			b = IsNumeric(CellValue(next[i]))
		}
		if a != b {
			return true
		}
	}
	return false
}

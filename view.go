package tablex

import (
	"sort"
	"strings"
)

// DefaultPageSize is the number of rows per page when none is given.
const DefaultPageSize = 20

// Page is one page of table rows.
type Page struct {
	Rows       [][]Cell `json:"rows"`
	Page       int      `json:"page"`
	Size       int      `json:"size"`
	TotalRows  int      `json:"totalRows"`
	TotalPages int      `json:"totalPages"`
}

// Sort returns a copy of the table with rows ordered by column col.
// Numeric cells compare by value and sort before text; the sort is stable.
func (t *Table) Sort(col int, desc bool) (*Table, error) {
	if err := t.checkColumn(col); err != nil {
		return nil, err
	}

	sorted := t.Clone()
	sort.SliceStable(sorted.Rows, func(i, j int) bool {
		a := CellValue(sorted.Rows[i][col])
		b := CellValue(sorted.Rows[j][col])
		if desc {
			return compareCells(b, a) < 0
		}
		return compareCells(a, b) < 0
	})
	return sorted, nil
}

func compareCells(a, b string) int {
	va, vb := ParseFinancialValue(a), ParseFinancialValue(b)
	switch {
	case va.IsNumber() && vb.IsNumber():
		switch {
		case va.Number < vb.Number:
			return -1
		case va.Number > vb.Number:
			return 1
		}
		return 0
	case va.IsNumber():
		return -1
	case vb.IsNumber():
		return 1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Filter returns a copy of the table keeping only rows where some cell
// contains query, case-insensitively. An empty query keeps every row.
func (t *Table) Filter(query string) *Table {
	filtered := t.Clone()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return filtered
	}

	filtered.Rows = filtered.Rows[:0]
	for _, row := range t.Rows {
		for _, c := range row {
			if strings.Contains(strings.ToLower(CellValue(c)), query) {
				filtered.Rows = append(filtered.Rows, append([]Cell(nil), row...))
				break
			}
		}
	}
	filtered.Recompute()
	return filtered
}

// Paginate returns the 1-based page of rows. Pages past the end are empty.
func (t *Table) Paginate(page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(t.Rows)
	p := Page{
		Page:       page,
		Size:       size,
		TotalRows:  total,
		TotalPages: (total + size - 1) / size,
	}

	start := (page - 1) * size
	if start >= total {
		p.Rows = [][]Cell{}
		return p
	}
	end := min(start+size, total)
	p.Rows = t.Rows[start:end]
	return p
}

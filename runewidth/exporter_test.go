package runewidth_test

import (
	"bytes"
	"testing"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainTable(label string, headers []string, rows ...[]string) *tablex.Table {
	t := &tablex.Table{Label: label, Mode: tablex.ModePlain}
	for _, h := range headers {
		t.Headers = append(t.Headers, tablex.PlainCell(h))
	}
	for _, row := range rows {
		cells := make([]tablex.Cell, len(row))
		for i, v := range row {
			cells[i] = tablex.PlainCell(v)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("aligns columns and right-aligns numbers", func(t *testing.T) {
		t.Parallel()

		table := plainTable("table-1", []string{"Name", "Amount"},
			[]string{"Item A", "1,000"},
			[]string{"Item BB", "25"},
		)

		var buf bytes.Buffer
		require.NoError(t, runewidth.NewExporter().Export(&buf, []*tablex.Table{table}, tablex.ExportOptions{}))

		assert.Equal(t, "table-1\n"+
			"Name    | Amount\n"+
			"--------+-------\n"+
			"Item A  |  1,000\n"+
			"Item BB |     25\n", buf.String())
	})

	t.Run("measures wide characters by display width", func(t *testing.T) {
		t.Parallel()

		table := plainTable("", []string{"科目", "当期"}, []string{"売上高", "1,000"})

		var buf bytes.Buffer
		require.NoError(t, runewidth.NewExporter().Export(&buf, []*tablex.Table{table}, tablex.ExportOptions{}))

		assert.Equal(t, "科目   | 当期\n"+
			"-------+------\n"+
			"売上高 | 1,000\n", buf.String())
	})

	t.Run("truncates wide columns", func(t *testing.T) {
		t.Parallel()

		table := plainTable("", []string{"Note"}, []string{"a very long explanatory note"})

		var buf bytes.Buffer
		require.NoError(t, runewidth.NewExporter(runewidth.WithMaxWidth(10)).Export(&buf, []*tablex.Table{table}, tablex.ExportOptions{}))

		assert.Contains(t, buf.String(), "a very ...\n")
	})

	t.Run("adds tag columns", func(t *testing.T) {
		t.Parallel()

		table := &tablex.Table{
			Mode:    tablex.ModeXBRL,
			Headers: []tablex.Cell{tablex.TaggedCell("当期", "", nil)},
			Rows:    [][]tablex.Cell{{tablex.TaggedCell("1", "jppfs_cor:Cash", nil)}},
		}

		var buf bytes.Buffer
		require.NoError(t, runewidth.NewExporter().Export(&buf, []*tablex.Table{table}, tablex.ExportOptions{IncludeXBRL: true}))

		assert.Contains(t, buf.String(), "当期_XBRL")
		assert.Contains(t, buf.String(), "jppfs_cor:Cash")
	})
}

func TestExporter_RenderComparative(t *testing.T) {
	t.Parallel()

	statement := &tablex.Statement{
		Metadata: tablex.StatementMetadata{
			ReportType: "貸借対照表",
			Unit:       "百万円",
			Periods:    tablex.Periods{Previous: "前期末", Current: "当期末"},
		},
		Data: []*tablex.Node{{
			ItemName:       "資産",
			Level:          1,
			PreviousPeriod: tablex.NumberValue(100),
			CurrentPeriod:  tablex.NumberValue(120),
			Children: []*tablex.Node{{
				ItemName:       "現金",
				Level:          2,
				PreviousPeriod: tablex.NumberValue(0),
				CurrentPeriod:  tablex.NumberValue(10),
			}},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, runewidth.NewExporter().RenderComparative(&buf, statement))

	assert.Equal(t, "貸借対照表（単位：百万円）\n"+
		"科目   | 前期末 | 当期末 | 増減 | 増減率\n"+
		"-------+--------+--------+------+-------\n"+
		"資産   |    100 |    120 |   20 | 20.00%\n"+
		"　現金 |      0 |     10 |   10 |\n", buf.String())
}

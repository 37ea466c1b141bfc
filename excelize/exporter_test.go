package excelize_test

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/tablex"
	tablexcel "github.com/fwojciec/tablex/excelize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func incomeTable(label string) *tablex.Table {
	return &tablex.Table{
		Label:   label,
		Mode:    tablex.ModeXBRL,
		Headers: []tablex.Cell{tablex.TaggedCell("科目", "", nil), tablex.TaggedCell("当期", "", nil)},
		Rows: [][]tablex.Cell{
			{tablex.TaggedCell("売上高", "", nil), tablex.TaggedCell("1,000", "jppfs_cor:NetSales", nil)},
			{tablex.TaggedCell("営業損失", "", nil), tablex.TaggedCell("△200", "jppfs_cor:OperatingIncome", nil)},
			{tablex.TaggedCell("注記", "", nil), tablex.TaggedCell("※1", "", nil)},
		},
	}
}

func export(t *testing.T, tables []*tablex.Table, opts tablex.ExportOptions) *excelize.File {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, tablexcel.NewExporter().Export(&buf, tables, opts))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("writes one sheet per table", func(t *testing.T) {
		t.Parallel()

		f := export(t, []*tablex.Table{incomeTable("PL"), incomeTable("BS")}, tablex.ExportOptions{})

		assert.Equal(t, []string{"PL", "BS"}, f.GetSheetList())
		rows, err := f.GetRows("PL")
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, []string{"科目", "当期"}, rows[0])
		assert.Equal(t, "売上高", rows[1][0])
	})

	t.Run("stores amounts as numbers", func(t *testing.T) {
		t.Parallel()

		f := export(t, []*tablex.Table{incomeTable("PL")}, tablex.ExportOptions{})

		amount, err := f.GetCellValue("PL", "B2")
		require.NoError(t, err)
		assert.Equal(t, "1000", amount)

		loss, err := f.GetCellValue("PL", "B3")
		require.NoError(t, err)
		assert.Equal(t, "-200", loss)

		note, err := f.GetCellValue("PL", "B4")
		require.NoError(t, err)
		assert.Equal(t, "※1", note)
	})

	t.Run("makes header row bold", func(t *testing.T) {
		t.Parallel()

		f := export(t, []*tablex.Table{incomeTable("PL")}, tablex.ExportOptions{})

		id, err := f.GetCellStyle("PL", "A1")
		require.NoError(t, err)
		style, err := f.GetStyle(id)
		require.NoError(t, err)
		require.NotNil(t, style.Font)
		assert.True(t, style.Font.Bold)
	})

	t.Run("adds tag frequency sheet", func(t *testing.T) {
		t.Parallel()

		f := export(t, []*tablex.Table{incomeTable("PL"), incomeTable("BS")}, tablex.ExportOptions{IncludeXBRL: true})

		assert.Equal(t, []string{"PL", "BS", tablexcel.TagSheet}, f.GetSheetList())
		rows, err := f.GetRows(tablexcel.TagSheet)
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"XBRL Tag", "Count"},
			{"jppfs_cor:NetSales", "2"},
			{"jppfs_cor:OperatingIncome", "2"},
		}, rows)
	})

	t.Run("rejects empty table list", func(t *testing.T) {
		t.Parallel()

		err := tablexcel.NewExporter().Export(&bytes.Buffer{}, nil, tablex.ExportOptions{})

		assert.Equal(t, tablex.EINVALID, tablex.ErrorCode(err))
	})
}

func TestSheetNames(t *testing.T) {
	t.Parallel()

	t.Run("replaces invalid characters", func(t *testing.T) {
		t.Parallel()

		names := tablexcel.SheetNames([]*tablex.Table{{Label: "a/b:c[1]?"}})

		assert.Equal(t, []string{"a_b_c_1__"}, names)
	})

	t.Run("truncates to 31 characters", func(t *testing.T) {
		t.Parallel()

		names := tablexcel.SheetNames([]*tablex.Table{{Label: strings.Repeat("連結貸借対照表", 6)}})

		assert.Equal(t, 31, utf8.RuneCountInString(names[0]))
	})

	t.Run("makes names unique ignoring case", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("x", 40)
		names := tablexcel.SheetNames([]*tablex.Table{{Label: "PL"}, {Label: "pl"}, {Label: long}, {Label: long}})

		assert.Equal(t, "PL", names[0])
		assert.Equal(t, "pl (2)", names[1])
		assert.Equal(t, strings.Repeat("x", 31), names[2])
		assert.Equal(t, strings.Repeat("x", 27)+" (2)", names[3])
	})

	t.Run("names blank labels and avoids reserved names", func(t *testing.T) {
		t.Parallel()

		names := tablexcel.SheetNames([]*tablex.Table{{Label: " "}, {Label: "XBRL Tags"}}, tablexcel.TagSheet)

		assert.Equal(t, []string{"Table 1", "XBRL Tags (2)"}, names)
	})
}

package csv_test

import (
	"bytes"
	"testing"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/csv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesTable() *tablex.Table {
	return &tablex.Table{
		Label: "table-1",
		Mode:  tablex.ModeXBRL,
		Headers: []tablex.Cell{
			tablex.TaggedCell("科目", "", nil),
			tablex.TaggedCell("当期", "", nil),
		},
		Rows: [][]tablex.Cell{
			{tablex.TaggedCell("売上高", "", nil), tablex.TaggedCell("1,000", "jppfs_cor:NetSales", nil)},
			{tablex.TaggedCell(`say "hi"`, "", nil), tablex.TaggedCell("", "", nil)},
		},
	}
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("writes header row and quotes values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := csv.NewExporter().Export(&buf, []*tablex.Table{salesTable()}, tablex.ExportOptions{})

		require.NoError(t, err)
		assert.Equal(t, "科目,当期\n売上高,\"1,000\"\n\"say \"\"hi\"\"\",\n", buf.String())
	})

	t.Run("adds tag column after every column", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := csv.NewExporter().Export(&buf, []*tablex.Table{salesTable()}, tablex.ExportOptions{IncludeXBRL: true})

		require.NoError(t, err)
		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 3)
		assert.Equal(t, "科目,科目_XBRL,当期,当期_XBRL", string(lines[0]))
		assert.Equal(t, `売上高,,"1,000",jppfs_cor:NetSales`, string(lines[1]))
	})

	t.Run("separates tables with a blank line", func(t *testing.T) {
		t.Parallel()

		plain := &tablex.Table{
			Label:   "table-2",
			Mode:    tablex.ModePlain,
			Headers: []tablex.Cell{tablex.PlainCell("Name"), tablex.PlainCell("")},
			Rows:    [][]tablex.Cell{{tablex.PlainCell("A"), tablex.PlainCell("1")}},
		}

		var buf bytes.Buffer
		err := csv.NewExporter().Export(&buf, []*tablex.Table{salesTable(), plain}, tablex.ExportOptions{})

		require.NoError(t, err)
		assert.Contains(t, buf.String(), ",\n\nName,Column 2\nA,1\n")
	})

	t.Run("writes nothing for no tables", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, csv.NewExporter().Export(&buf, nil, tablex.ExportOptions{}))
		assert.Empty(t, buf.String())
	})
}

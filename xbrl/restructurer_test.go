package xbrl_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/xbrl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record builds a record from alternating keys and values.
func record(kv ...string) tablex.Record {
	var rec tablex.Record
	for i := 0; i+1 < len(kv); i += 2 {
		rec = append(rec, tablex.Field{Key: kv[i], Value: kv[i+1]})
	}
	return rec
}

func row(c1, c2, c3, prev, cur string) tablex.Record {
	return record(
		"Column 1", c1, "Column 1_XBRL", "",
		"Column 2", c2, "Column 2_XBRL", "",
		"Column 3", c3, "Column 3_XBRL", "",
		"Column 6", prev, "Column 6_XBRL", "",
		"Column 7", cur, "Column 7_XBRL", "",
	)
}

// balanceSheet is a three level statement with a subtotal row per section.
func balanceSheet() []tablex.Record {
	return []tablex.Record{
		row("貸借対照表", "", "", "前期", "当期"),
		row("資産の部", "", "", "", ""),
		row("", "流動資産", "", "", ""),
		row("", "", "現金及び預金", "100", "120"),
		row("", "", "売掛金", "50", "△30"),
		row("", "", "流動資産合計", "150", "90"),
		row("", "固定資産", "", "", ""),
		row("", "", "建物", "200", "200"),
		row("", "", "固定資産合計", "200", "200"),
		row("", "資産合計", "", "350", "290"),
	}
}

func TestColumnMapping(t *testing.T) {
	t.Parallel()

	t.Run("maps level and period columns by token", func(t *testing.T) {
		t.Parallel()

		m := xbrl.ColumnMapping(balanceSheet()[0])

		assert.Equal(t, "Column 1", m.Levels[0])
		assert.Equal(t, "Column 2", m.Levels[1])
		assert.Equal(t, "Column 3", m.Levels[2])
		assert.Empty(t, m.Levels[3])
		assert.Equal(t, "Column 6", m.Previous)
		assert.Equal(t, "Column 7", m.Current)
	})

	t.Run("matches period tokens in key names", func(t *testing.T) {
		t.Parallel()

		m := xbrl.ColumnMapping(record("Column 1", "", "前連結会計年度", "", "当連結会計年度", ""))

		assert.Equal(t, "前連結会計年度", m.Previous)
		assert.Equal(t, "当連結会計年度", m.Current)
	})

	t.Run("falls back to the two highest numbered columns", func(t *testing.T) {
		t.Parallel()

		m := xbrl.ColumnMapping(record(
			"Column 1", "", "Column 2", "",
			"Column 6", "", "Column 8", "", "Column 7", "",
			"Column 8_XBRL", "",
		))

		assert.Equal(t, "Column 7", m.Previous)
		assert.Equal(t, "Column 8", m.Current)
	})

	t.Run("uses first unassigned key as level one without numbered columns", func(t *testing.T) {
		t.Parallel()

		m := xbrl.ColumnMapping(record("科目", "", "科目_XBRL", "", "前期", "", "当期", ""))

		assert.Equal(t, "科目", m.Levels[0])
		assert.Equal(t, "前期", m.Previous)
		assert.Equal(t, "当期", m.Current)
	})
}

func TestRestructurer_Restructure(t *testing.T) {
	t.Parallel()

	t.Run("builds hierarchy with subtotals written to parents", func(t *testing.T) {
		t.Parallel()

		s, err := xbrl.NewRestructurer().Restructure(balanceSheet())
		require.NoError(t, err)

		require.Len(t, s.Data, 1)
		assets := s.Data[0]
		assert.Equal(t, "資産の部", assets.ItemName)
		assert.Equal(t, 1, assets.Level)
		assert.Equal(t, tablex.NumberValue(350), assets.PreviousPeriod)
		assert.Equal(t, tablex.NumberValue(290), assets.CurrentPeriod)

		require.Len(t, assets.Children, 2)
		current := assets.Children[0]
		assert.Equal(t, "流動資産", current.ItemName)
		assert.Equal(t, 2, current.Level)
		assert.Equal(t, tablex.NumberValue(150), current.PreviousPeriod)
		assert.Equal(t, tablex.NumberValue(90), current.CurrentPeriod)

		require.Len(t, current.Children, 2)
		assert.Equal(t, "現金及び預金", current.Children[0].ItemName)
		assert.Equal(t, tablex.NumberValue(120), current.Children[0].CurrentPeriod)
		assert.Equal(t, tablex.NumberValue(-30), current.Children[1].CurrentPeriod)

		fixed := assets.Children[1]
		assert.Equal(t, "固定資産", fixed.ItemName)
		assert.Equal(t, tablex.NumberValue(200), fixed.CurrentPeriod)
		require.Len(t, fixed.Children, 1)
		assert.Equal(t, "建物", fixed.Children[0].ItemName)
	})

	t.Run("does not create nodes for subtotal rows", func(t *testing.T) {
		t.Parallel()

		s, err := xbrl.NewRestructurer().Restructure(balanceSheet())
		require.NoError(t, err)

		s.Walk(func(n *tablex.Node, _ int) {
			assert.NotContains(t, n.ItemName, "合計")
		})
	})

	t.Run("fills metadata from the label record", func(t *testing.T) {
		t.Parallel()

		s, err := xbrl.NewRestructurer().Restructure(balanceSheet())
		require.NoError(t, err)

		assert.Equal(t, "貸借対照表", s.Metadata.ReportType)
		assert.Equal(t, xbrl.DefaultUnit, s.Metadata.Unit)
		assert.Equal(t, "前期", s.Metadata.Periods.Previous)
		assert.Equal(t, "当期", s.Metadata.Periods.Current)
	})

	t.Run("reads unit notice and defaults report type", func(t *testing.T) {
		t.Parallel()

		records := []tablex.Record{
			row("（単位：百万円）", "", "", "前期", "当期"),
			row("売上高", "", "", "1,000", "1,200"),
		}

		s, err := xbrl.NewRestructurer().Restructure(records)
		require.NoError(t, err)

		assert.Equal(t, "百万円", s.Metadata.Unit)
		assert.Equal(t, xbrl.DefaultReportType, s.Metadata.ReportType)
		require.Len(t, s.Data, 1)
		assert.Equal(t, tablex.NumberValue(1000), s.Data[0].PreviousPeriod)
	})

	t.Run("attaches to nearest shallower node when levels are skipped", func(t *testing.T) {
		t.Parallel()

		records := []tablex.Record{
			row("", "", "", "前期", "当期"),
			row("負債の部", "", "", "", ""),
			row("", "", "買掛金", "10", "20"),
		}

		s, err := xbrl.NewRestructurer().Restructure(records)
		require.NoError(t, err)

		require.Len(t, s.Data, 1)
		require.Len(t, s.Data[0].Children, 1)
		child := s.Data[0].Children[0]
		assert.Equal(t, "買掛金", child.ItemName)
		assert.Equal(t, 3, child.Level)
	})

	t.Run("creates a node for a subtotal without a tracked parent", func(t *testing.T) {
		t.Parallel()

		records := []tablex.Record{
			row("", "", "", "前期", "当期"),
			row("", "営業費用合計", "", "5", "6"),
		}

		s, err := xbrl.NewRestructurer().Restructure(records)
		require.NoError(t, err)

		require.Len(t, s.Data, 1)
		assert.Equal(t, "営業費用合計", s.Data[0].ItemName)
	})

	t.Run("keeps deeper subtotal rows as nodes", func(t *testing.T) {
		t.Parallel()

		deep := func(c3, c4, prev, cur string) tablex.Record {
			return record(
				"Column 1", "", "Column 2", "", "Column 3", c3, "Column 4", c4,
				"Column 6", prev, "Column 7", cur,
			)
		}
		records := []tablex.Record{
			deep("", "", "前期", "当期"),
			deep("有形固定資産", "", "", ""),
			deep("", "建物", "10", "20"),
			deep("", "建物合計", "10", "20"),
		}

		s, err := xbrl.NewRestructurer().Restructure(records)
		require.NoError(t, err)

		require.Len(t, s.Data, 1)
		section := s.Data[0]
		assert.Equal(t, tablex.Value{}, section.CurrentPeriod)
		require.Len(t, section.Children, 2)
		assert.Equal(t, "建物合計", section.Children[1].ItemName)
		assert.Equal(t, 4, section.Children[1].Level)
		assert.Equal(t, tablex.NumberValue(20), section.Children[1].CurrentPeriod)
	})

	t.Run("reads the level-three subtotal marker whatever level the row starts at", func(t *testing.T) {
		t.Parallel()

		records := []tablex.Record{
			row("", "", "", "前期", "当期"),
			row("", "流動負債", "", "", ""),
			row("", "", "買掛金", "10", "20"),
			row("負債の部", "", "流動負債合計", "30", "40"),
		}

		s, err := xbrl.NewRestructurer().Restructure(records)
		require.NoError(t, err)

		require.Len(t, s.Data, 2)
		assert.Equal(t, tablex.NumberValue(40), s.Data[0].CurrentPeriod)
		assert.Equal(t, tablex.NumberValue(30), s.Data[0].PreviousPeriod)
		assert.Equal(t, "負債の部", s.Data[1].ItemName)
		assert.Equal(t, 1, s.Data[1].Level)
	})

	t.Run("takes tag from level column then period columns", func(t *testing.T) {
		t.Parallel()

		records := []tablex.Record{
			row("", "", "", "前期", "当期"),
			record(
				"Column 1", "売上高", "Column 1_XBRL", "jppfs_cor:NetSales",
				"Column 6", "1", "Column 6_XBRL", "jppfs_cor:Prior",
				"Column 7", "2", "Column 7_XBRL", "jppfs_cor:Current",
			),
			record(
				"Column 1", "売上原価", "Column 1_XBRL", "",
				"Column 6", "1", "Column 6_XBRL", "jppfs_cor:CostPrior",
				"Column 7", "2", "Column 7_XBRL", "jppfs_cor:CostOfSales",
			),
			record(
				"Column 1", "粗利", "Column 1_XBRL", "",
				"Column 6", "1", "Column 6_XBRL", "jppfs_cor:GrossPrior",
				"Column 7", "2", "Column 7_XBRL", "",
			),
		}

		s, err := xbrl.NewRestructurer().Restructure(records)
		require.NoError(t, err)

		require.Len(t, s.Data, 3)
		assert.Equal(t, "jppfs_cor:NetSales", s.Data[0].XBRLTag)
		assert.Equal(t, "jppfs_cor:CostOfSales", s.Data[1].XBRLTag)
		assert.Equal(t, "jppfs_cor:GrossPrior", s.Data[2].XBRLTag)
	})

	t.Run("registers footnote markers", func(t *testing.T) {
		t.Parallel()

		records := []tablex.Record{
			row("", "", "", "前期", "当期"),
			row("のれん※1", "", "", "※2 1,000", "900"),
			row("投資有価証券※1", "", "", "10", "20"),
		}

		s, err := xbrl.NewRestructurer().Restructure(records)
		require.NoError(t, err)

		assert.Equal(t, map[string]string{
			"※1": xbrl.AnnotationPlaceholder,
			"※2": xbrl.AnnotationPlaceholder,
		}, s.Annotations)
		assert.Equal(t, tablex.NumberValue(1000), s.Data[0].PreviousPeriod)
	})

	t.Run("keeps non-numeric values as text", func(t *testing.T) {
		t.Parallel()

		records := []tablex.Record{
			row("", "", "", "前期", "当期"),
			row("備考", "", "", "該当なし", ""),
		}

		s, err := xbrl.NewRestructurer().Restructure(records)
		require.NoError(t, err)

		assert.Equal(t, tablex.TextValue("該当なし"), s.Data[0].PreviousPeriod)
		assert.True(t, s.Data[0].CurrentPeriod.IsNull())
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		r := xbrl.NewRestructurer()
		first, err := r.Restructure(balanceSheet())
		require.NoError(t, err)
		second, err := r.Restructure(balanceSheet())
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := xbrl.NewRestructurer().Restructure(nil)

		require.Error(t, err)
		assert.Equal(t, tablex.EINVALID, tablex.ErrorCode(err))
	})
}

func TestRestructurer_Comparative(t *testing.T) {
	t.Parallel()

	s, err := xbrl.NewRestructurer().Restructure(balanceSheet())
	require.NoError(t, err)

	rows := tablex.Comparative(s)

	require.Len(t, rows, 6)
	assert.Equal(t, "資産の部", rows[0].ItemName)
	assert.Equal(t, "　流動資産", rows[1].ItemName)
	assert.Equal(t, "　　現金及び預金", rows[2].ItemName)
	require.NotNil(t, rows[2].Change)
	assert.InDelta(t, 20, *rows[2].Change, 0.0001)
	require.NotNil(t, rows[2].ChangeRate)
	assert.Equal(t, "20.00%", *rows[2].ChangeRate)
	require.NotNil(t, rows[3].ChangeRate)
	assert.Equal(t, "-160.00%", *rows[3].ChangeRate)
}

func TestRestructurer_RestructureJSON(t *testing.T) {
	t.Parallel()

	t.Run("restructures a JSON array of records", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(balanceSheet())
		require.NoError(t, err)

		result := xbrl.NewRestructurer().RestructureJSON(data)

		require.True(t, result.Success, result.Message)
		require.NotNil(t, result.Statement)
		assert.Equal(t, "資産の部", result.Statement.Data[0].ItemName)
	})

	t.Run("reports malformed JSON as a failed result", func(t *testing.T) {
		t.Parallel()

		result := xbrl.NewRestructurer().RestructureJSON([]byte(`[{"Column 1": "x",}`))

		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "failed to parse JSON")
		assert.Nil(t, result.Statement)
	})

	t.Run("repairs malformed JSON when lenient", func(t *testing.T) {
		t.Parallel()

		data := `[{"Column 1": "", "Column 6": "前期", "Column 7": "当期",}, {"Column 1": "売上高", "Column 6": "1", "Column 7": "2",}]`

		result := xbrl.NewRestructurer(xbrl.WithLenient(true)).RestructureJSON([]byte(data))

		require.True(t, result.Success, result.Message)
		require.Len(t, result.Statement.Data, 1)
		assert.Equal(t, tablex.NumberValue(2), result.Statement.Data[0].CurrentPeriod)
	})

	t.Run("reports restructuring failures as a failed result", func(t *testing.T) {
		t.Parallel()

		result := xbrl.NewRestructurer().RestructureJSON([]byte(`[]`))

		assert.False(t, result.Success)
		assert.Equal(t, "no records to restructure", result.Message)
	})
}

func TestDecodeRecords(t *testing.T) {
	t.Parallel()

	t.Run("keeps key order and scalar text", func(t *testing.T) {
		t.Parallel()

		records, err := xbrl.DecodeRecords([]byte(`[{"b": 1, "a": "x", "c": null}]`), false)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, []string{"b", "a", "c"}, records[0].Keys())
		assert.Equal(t, "1", records[0].Value("b"))
		assert.Equal(t, "", records[0].Value("c"))
	})

	t.Run("returns parse error when strict", func(t *testing.T) {
		t.Parallel()

		_, err := xbrl.DecodeRecords([]byte(`[{"a": "x",}]`), false)

		assert.Error(t, err)
	})

	t.Run("repairs trailing commas when lenient", func(t *testing.T) {
		t.Parallel()

		records, err := xbrl.DecodeRecords([]byte(`[{"a": "x",},]`), true)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "x", records[0].Value("a"))
	})
}

package tablex_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/tablex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_JSON(t *testing.T) {
	t.Parallel()

	t.Run("encodes plain cells as strings", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(tablex.PlainCell("Item A"))
		require.NoError(t, err)

		assert.Equal(t, `"Item A"`, string(data))
	})

	t.Run("encodes tagged cells as objects", func(t *testing.T) {
		t.Parallel()

		info := &tablex.XBRLInfo{Type: tablex.XBRLNonFraction, Name: "jppfs_cor:Assets", ContextRef: "CurrentYearInstant"}
		data, err := json.Marshal([]tablex.Cell{
			tablex.TaggedCell("100", "jppfs_cor:Assets", info),
			tablex.TaggedCell("x", "", nil),
		})
		require.NoError(t, err)

		assert.JSONEq(t, `[
			{"value":"100","xbrlTag":"jppfs_cor:Assets","xbrlInfo":{"type":"nonfraction","name":"jppfs_cor:Assets","contextRef":"CurrentYearInstant"}},
			{"value":"x","xbrlTag":null}
		]`, string(data))
	})

	t.Run("decodes both forms", func(t *testing.T) {
		t.Parallel()

		var cells []tablex.Cell
		err := json.Unmarshal([]byte(`["a", {"value":"b","xbrlTag":"x:B"}, {"value":"c","xbrlTag":null}]`), &cells)
		require.NoError(t, err)

		assert.Equal(t, []tablex.Cell{
			tablex.PlainCell("a"),
			tablex.TaggedCell("b", "x:B", nil),
			tablex.TaggedCell("c", "", nil),
		}, cells)
	})
}

func TestCellValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a", tablex.CellValue(tablex.PlainCell("a")))
	assert.Equal(t, "b", tablex.CellValue(tablex.TaggedCell("b", "x:B", nil)))
}

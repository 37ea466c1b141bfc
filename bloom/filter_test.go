package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/tablex/bloom"
	"github.com/stretchr/testify/assert"
)

func TestSourceSet(t *testing.T) {
	t.Parallel()

	t.Run("reports repeated sources", func(t *testing.T) {
		t.Parallel()

		set := bloom.NewSourceSet(0)

		assert.False(t, set.Add("reports/2024.html"))
		assert.False(t, set.Add("https://example.com/2024.html"))
		assert.True(t, set.Add("reports/2024.html"))
		assert.Equal(t, 2, set.Len())
	})

	t.Run("never drops a new source", func(t *testing.T) {
		t.Parallel()

		const n = 5000
		set := bloom.NewSourceSet(n)
		for i := range n {
			set.Add(fmt.Sprintf("filings/added/%d.htm", i))
		}
		probes := set.Probes()

		for i := range n {
			assert.False(t, set.Add(fmt.Sprintf("filings/other/%d.htm", i)))
		}
		assert.Equal(t, 2*n, set.Len())
		assert.Less(t, set.Probes()-probes, n/20, "bloom filter should answer most new sources")
	})
}

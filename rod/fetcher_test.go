//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ tablex.Fetcher = (*rod.Fetcher)(nil)

// Each report page inserts its statement table from script after load.
func reportServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/report", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html><body>
<div id="bs">読み込み中</div>
<script>
setTimeout(function () {
  document.getElementById('bs').innerHTML =
    '<table><tr><th>科目</th><th>当期</th></tr><tr><td>現金及び預金</td><td>1,000</td></tr></table>';
}, 50);
</script>
</body></html>`))
	})
	mux.HandleFunc("/stalled", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	srv := reportServer(t)
	fetcher, err := rod.NewFetcher(
		rod.WithWaitSelector("table"),
		rod.WithFetchTimeout(300*time.Millisecond),
	)
	require.NoError(t, err)
	t.Cleanup(func() { fetcher.Close() })

	// Subtests share one browser and run in order.
	t.Run("waits for script-rendered table", func(t *testing.T) {
		html, err := fetcher.Fetch(context.Background(), srv.URL+"/report")

		require.NoError(t, err)
		assert.Contains(t, html, "<td>現金及び預金</td>")
		assert.NotContains(t, html, "読み込み中")
	})

	t.Run("gives up on stalled pages", func(t *testing.T) {
		begin := time.Now()
		_, err := fetcher.Fetch(context.Background(), srv.URL+"/stalled")

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(begin), 2*time.Second)
	})

	t.Run("does not navigate with a done context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.Fetch(ctx, srv.URL+"/report")

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("refuses non-http schemes", func(t *testing.T) {
		_, err := fetcher.Fetch(context.Background(), "file:///etc/passwd")

		assert.Equal(t, tablex.EINVALID, tablex.ErrorCode(err))
	})
}

func TestFetcher_Close(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)

	require.NoError(t, fetcher.Close())
	require.NoError(t, fetcher.Close())

	_, err = fetcher.Fetch(context.Background(), "https://example.com/report.html")
	assert.Equal(t, tablex.EINVALID, tablex.ErrorCode(err))
	assert.Contains(t, tablex.ErrorMessage(err), "closed")
}

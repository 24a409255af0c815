package statsrv

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rdbdump/internal/rdb"
)

func TestServeHealthzAndStats(t *testing.T) {
	var stats rdb.Stats
	stats.Entries.Store(3)
	stats.DbSelects.Store(1)
	stats.Bytes.Store(42)

	srv := New(":0", &stats)
	ready := make(chan string, 1)

	go func() {
		_ = srv.Start(ready)
	}()

	var addr string
	select {
	case addr = <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start in time")
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	var health healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	require.Equal(t, "ok", health.Status)

	resp2, err := http.Get("http://" + addr + "/stats")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var got statsResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&got))
	require.Equal(t, int64(3), got.Entries)
	require.Equal(t, int64(1), got.DbSelects)
	require.Equal(t, int64(42), got.Bytes)
}

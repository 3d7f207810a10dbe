package forestlib

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testFetcher(baseURL string) *DemFetcher {
	f := NewDemFetcher()
	f.BaseURL = baseURL
	f.Delay = time.Millisecond
	return f
}

func TestFetchRetriesTransient(t *testing.T) {
	tile := TileId{Lat: 61, Lon: 25}
	wantPath := "/" + tile.Object() + "/" + tile.Object() + ".tif"
	payload := []byte("not really a cog")
	tries := 0
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wantPath {
			t.Errorf("request path = %s, want %s", r.URL.Path, wantPath)
		}
		tries++
		if tries <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(payload)
	}))
	defer svr.Close()
	dir := t.TempDir()
	path, err := testFetcher(svr.URL).Fetch(tile, dir)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "N61E025"+DEM_TIF_SUFFIX); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
	if tries != 3 {
		t.Errorf("tries = %d, want 3", tries)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Errorf("tile content mismatch: %q", got)
	}
	// 未遗留临时文件
	parts, _ := filepath.Glob(filepath.Join(dir, "*.part"))
	if len(parts) != 0 {
		t.Errorf("leftover temp files: %v", parts)
	}
}

func TestFetchPermanentFailure(t *testing.T) {
	tries := 0
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tries++
		http.NotFound(w, r)
	}))
	defer svr.Close()
	if _, err := testFetcher(svr.URL).Fetch(TileId{Lat: 61, Lon: 25}, t.TempDir()); err == nil {
		t.Fatal("missing tile fetch succeeded")
	}
	if tries != 1 {
		t.Errorf("tries = %d, want 1 (no retry on 4xx)", tries)
	}
}

func TestFetchGivesUpAfterRetries(t *testing.T) {
	tries := 0
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tries++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer svr.Close()
	f := testFetcher(svr.URL)
	f.Retries = 2
	if _, err := f.Fetch(TileId{Lat: 61, Lon: 25}, t.TempDir()); err == nil {
		t.Fatal("fetch succeeded against dead bucket")
	}
	if tries != 3 {
		t.Errorf("tries = %d, want 3", tries)
	}
}

func TestFetchUsesCachedTile(t *testing.T) {
	tile := TileId{Lat: 61, Lon: 25}
	dir := t.TempDir()
	cached := filepath.Join(dir, tile.String()+DEM_TIF_SUFFIX)
	if err := os.WriteFile(cached, []byte("cached"), 0644); err != nil {
		t.Fatal(err)
	}
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("cached tile re-fetched")
	}))
	defer svr.Close()
	path, err := testFetcher(svr.URL).Fetch(tile, dir)
	if err != nil {
		t.Fatal(err)
	}
	if path != cached {
		t.Errorf("path = %s, want %s", path, cached)
	}
}

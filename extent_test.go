package forestlib

import "testing"

func TestTileOfPoint(t *testing.T) {
	cases := []struct {
		lon, lat float64
		want     string
	}{
		{25.0843, 61.1901, "N61E025"},
		{25.1016, 61.2033, "N61E025"},
		{-0.5, -0.5, "S01W001"},
		{-110.2, 35.7, "N35W111"},
		{138.7, -34.9, "S35E138"},
		{0, 0, "N00E000"},
	}
	for _, c := range cases {
		tile, err := TileOfPoint(c.lon, c.lat)
		if err != nil {
			t.Fatalf("TileOfPoint(%f, %f): %v", c.lon, c.lat, err)
		}
		if tile.String() != c.want {
			t.Errorf("TileOfPoint(%f, %f) = %s, want %s", c.lon, c.lat, tile, c.want)
		}
	}
	if _, err := TileOfPoint(181, 0); err == nil {
		t.Error("out of range lon accepted")
	}
	if _, err := TileOfPoint(0, -91); err == nil {
		t.Error("out of range lat accepted")
	}
}

func TestTileOfSpan(t *testing.T) {
	tile, err := TileOfSpan([4]float64{25.0843, 25.1016, 61.1901, 61.2033})
	if err != nil {
		t.Fatal(err)
	}
	if got := tile.String(); got != "N61E025" {
		t.Errorf("tile = %s, want N61E025", got)
	}
	if _, err = TileOfSpan([4]float64{24.9, 25.1, 61.1, 61.2}); err != ErrSpanAcrossTiles {
		t.Errorf("cross tile span err = %v, want ErrSpanAcrossTiles", err)
	}
}

func TestTileObjectURL(t *testing.T) {
	tile := TileId{Lat: 61, Lon: 25}
	wantObj := "Copernicus_DSM_COG_10_N61_00_E025_00_DEM"
	if got := tile.Object(); got != wantObj {
		t.Errorf("object = %s, want %s", got, wantObj)
	}
	wantURL := DEM_BUCKET_URL + "/" + wantObj + "/" + wantObj + ".tif"
	if got := tile.URL(); got != wantURL {
		t.Errorf("url = %s, want %s", got, wantURL)
	}
}

package forestlib

import (
	"math"
	"testing"
)

// 坐标系往返重投影误差应在投影精度范围内
func TestTransformRoundTrip(t *testing.T) {
	g := NewGdalToolbox()
	if g == nil {
		t.Fatal()
	}
	span := [4]float64{25.0843, 25.1016, 61.1901, 61.2033}
	wkt := SpanToWkt(span)
	fin, err := g.TransformWkt(wkt, UNIVERSAL_SRID, 3067) // ETRS-TM35FIN
	if err != nil {
		t.Fatal(err)
	}
	back, err := g.TransformWkt(fin, 3067, UNIVERSAL_SRID)
	if err != nil {
		t.Fatal(err)
	}
	got, err := g.GetWktSpan(back, UNIVERSAL_SRID)
	if err != nil {
		t.Fatal(err)
	}
	for i := range span {
		if math.Abs(got[i]-span[i]) > 1e-6 {
			t.Errorf("span[%d] = %.8f, want %.8f", i, got[i], span[i])
		}
	}
}

func TestWGS84SpanNoop(t *testing.T) {
	g := NewGdalToolbox()
	span := [4]float64{25.0, 25.1, 61.1, 61.2}
	out, err := g.WGS84Span(span, UNIVERSAL_SRID)
	if err != nil || out != span {
		t.Errorf("same srid span = %v (%v), want unchanged", out, err)
	}
}

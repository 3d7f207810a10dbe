package forestlib

import (
	"math"
	"testing"
)

func TestBuildChm(t *testing.T) {
	dsm := flatGrid(4, 4, 120)
	dtm := flatGrid(4, 4, 100)
	dsm.Data[5] = 95 // 开运算高估时DSM可低于DTM，差值为负且不截断
	dsm.Data[6] = voidCell
	dtm.Data[7] = voidCell
	chm, err := BuildChm(dsm, dtm)
	if err != nil {
		t.Fatal(err)
	}
	if !chm.SameShape(dsm) {
		t.Fatal("chm shape differs from inputs")
	}
	for i, v := range chm.Data {
		switch i {
		case 5:
			if v != -5 {
				t.Fatalf("chm[5] = %f, want -5", v)
			}
		case 6, 7:
			if !math.IsNaN(float64(v)) {
				t.Fatalf("chm[%d] = %f, want NaN", i, v)
			}
		default:
			if v != 20 {
				t.Fatalf("chm[%d] = %f, want 20", i, v)
			}
		}
	}
}

func TestBuildChmMismatch(t *testing.T) {
	if _, err := BuildChm(flatGrid(4, 4, 0), flatGrid(4, 5, 0)); err != ErrGridMismatch {
		t.Fatalf("err = %v, want ErrGridMismatch", err)
	}
	moved := flatGrid(4, 4, 0)
	moved.GeoTransform[0] = 1
	if _, err := BuildChm(flatGrid(4, 4, 0), moved); err != ErrGridMismatch {
		t.Fatalf("shifted transform err = %v, want ErrGridMismatch", err)
	}
}

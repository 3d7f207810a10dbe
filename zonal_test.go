package forestlib

import "testing"

func TestMaskedMean(t *testing.T) {
	data := []float32{10, 10, 10, 10}
	mask := []byte{255, 255, 255, 255}
	mean, valid := maskedMean(data, mask)
	if !valid || mean != 10 {
		t.Fatalf("uniform mean = %f (%v), want exactly 10", mean, valid)
	}
	// 无效像元剔除
	data[1] = voidCell
	data[2] = 40
	mean, valid = maskedMean(data, mask)
	if !valid || mean != 20 {
		t.Fatalf("mean = %f (%v), want 20", mean, valid)
	}
	// 掩膜外不计入
	mask = []byte{255, 0, 0, 0}
	mean, valid = maskedMean(data, mask)
	if !valid || mean != 10 {
		t.Fatalf("masked mean = %f (%v), want 10", mean, valid)
	}
	// 空掩膜必须表示为缺失，不得坍缩为0
	if mean, valid = maskedMean(data, []byte{0, 0, 0, 0}); valid {
		t.Fatalf("empty mask yielded %f, want missing", mean)
	}
	if _, valid = maskedMean([]float32{voidCell}, []byte{255}); valid {
		t.Fatal("all-void zone yielded a value, want missing")
	}
}

func TestPixelWindow(t *testing.T) {
	gt := [6]float64{0, 1, 0, 10, 0, -1} // 左上角(0,10)，1x1像元，10行10列
	offX, offY, cx, cy, err := pixelWindow(gt, [4]float64{2.2, 4.8, 3.1, 6.9}, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if offX != 2 || cx != 3 {
		t.Errorf("x window = (%d,%d), want (2,3)", offX, cx)
	}
	if offY != 3 || cy != 4 {
		t.Errorf("y window = (%d,%d), want (3,4)", offY, cy)
	}
	// 与栅格无交集
	if _, _, cx, cy, err = pixelWindow(gt, [4]float64{20, 21, 3, 4}, 10, 10); err != nil || cx > 0 && cy > 0 {
		t.Errorf("disjoint env window = (%d,%d), want empty", cx, cy)
	}
	// 超界部分截断
	offX, _, cx, _, err = pixelWindow(gt, [4]float64{-2.5, 2.5, 3, 4}, 10, 10)
	if err != nil || offX != 0 || cx != 3 {
		t.Errorf("clamped x window = (%d,%d), want (0,3)", offX, cx)
	}
	if _, _, _, _, err = pixelWindow([6]float64{0, 1, 0.1, 10, 0, -1}, [4]float64{0, 1, 0, 1}, 10, 10); err != ErrRotatedRaster {
		t.Errorf("rotated gt err = %v, want ErrRotatedRaster", err)
	}
}

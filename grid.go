package forestlib

import "math"

// 单波段浮点高程栅格及其地理参考。无效像元在内存中统一表示为NaN，
// 读写tif时与nodata哨兵值互转
type DemGrid struct {
	Data         []float32
	Width        int
	Height       int
	NoData       float64
	GeoTransform [6]float64
	Projection   string // 投影WKT
}

func (d *DemGrid) Idx(x, y int) int {
	return y*d.Width + x
}

// 形状与地理参考相同的空白栅格
func (d *DemGrid) CloneShape() *DemGrid {
	return &DemGrid{
		Data:         make([]float32, len(d.Data)),
		Width:        d.Width,
		Height:       d.Height,
		NoData:       d.NoData,
		GeoTransform: d.GeoTransform,
		Projection:   d.Projection,
	}
}

func (d *DemGrid) SameShape(o *DemGrid) bool {
	return d.Width == o.Width && d.Height == o.Height &&
		d.GeoTransform == o.GeoTransform && d.Projection == o.Projection
}

func isVoid(v float32) bool {
	return math.IsNaN(float64(v))
}

var voidCell = float32(math.NaN())

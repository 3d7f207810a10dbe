package forestlib

// 灰度形态学滤波，用于从DSM近似裸地DTM。结构元为全1的奇数方窗，
// 方窗滤波可按行列两个一维窗口分离计算。边界按最近邻（下标钳位）延拓，
// 边缘像元的结果置信度较低。NaN（无效）像元不参与窗口取值，
// 且开运算输出中原无效像元保持为NaN

func checkWindow(window int) (err error) {
	if window < 3 || window%2 == 0 {
		err = ErrBadWindow
	}
	return
}

// 一维滑动窗口取最值，NaN跳过；窗口内全为NaN时输出NaN
func slideMinMax(line, out []float32, radius int, takeMax bool) {
	n := len(line)
	for i := 0; i < n; i++ {
		lo := i - radius
		if lo < 0 {
			lo = 0
		}
		hi := i + radius
		if hi > n-1 {
			hi = n - 1
		}
		best := voidCell
		for j := lo; j <= hi; j++ {
			v := line[j]
			if isVoid(v) {
				continue
			}
			if isVoid(best) || (takeMax && v > best) || (!takeMax && v < best) {
				best = v
			}
		}
		out[i] = best
	}
}

// 先行后列的两趟一维滤波
func filterGrid(src []float32, w, h, radius int, takeMax bool) (dst []float32) {
	dst = make([]float32, len(src))
	for y := 0; y < h; y++ {
		slideMinMax(src[y*w:(y+1)*w], dst[y*w:(y+1)*w], radius, takeMax)
	}
	col := make([]float32, h)
	out := make([]float32, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = dst[y*w+x]
		}
		slideMinMax(col, out, radius, takeMax)
		for y := 0; y < h; y++ {
			dst[y*w+x] = out[y]
		}
	}
	return
}

// 灰度腐蚀：窗口内取最小
func GreyErode(grid *DemGrid, window int) (ret *DemGrid, err error) {
	if err = checkWindow(window); err != nil {
		return
	}
	ret = grid.CloneShape()
	ret.Data = filterGrid(grid.Data, grid.Width, grid.Height, window/2, false)
	return
}

// 灰度膨胀：窗口内取最大
func GreyDilate(grid *DemGrid, window int) (ret *DemGrid, err error) {
	if err = checkWindow(window); err != nil {
		return
	}
	ret = grid.CloneShape()
	ret.Data = filterGrid(grid.Data, grid.Width, grid.Height, window/2, true)
	return
}

// 灰度开运算（腐蚀+膨胀），抹平窄于窗口的正向凸起（树冠），保留大尺度地形
func GreyOpening(grid *DemGrid, window int) (ret *DemGrid, err error) {
	eroded, err := GreyErode(grid, window)
	if err != nil {
		return
	}
	if ret, err = GreyDilate(eroded, window); err != nil {
		return
	}
	for i, v := range grid.Data {
		if isVoid(v) {
			ret.Data[i] = voidCell
		}
	}
	return
}

package forestlib

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/wgdzlh/forestlib/log"
	"github.com/wgdzlh/forestlib/utils"

	godal "github.com/airbusgeo/godal"
	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 图斑外包范围对应的像元窗口。仅支持无旋转的geotransform；
// 与栅格无交集时返回cx=0
func pixelWindow(gt [6]float64, env [4]float64, w, h int) (offX, offY, cx, cy int, err error) {
	if gt[2] != 0 || gt[4] != 0 {
		err = ErrRotatedRaster
		return
	}
	px0 := (env[0] - gt[0]) / gt[1]
	px1 := (env[1] - gt[0]) / gt[1]
	py0 := (env[2] - gt[3]) / gt[5]
	py1 := (env[3] - gt[3]) / gt[5]
	offX = int(math.Floor(math.Min(px0, px1)))
	offY = int(math.Floor(math.Min(py0, py1)))
	cx = int(math.Ceil(math.Max(px0, px1))) - offX
	cy = int(math.Ceil(math.Max(py0, py1))) - offY
	if cx == 0 {
		cx++
	}
	if cy == 0 {
		cy++
	}
	if offX < 0 {
		cx += offX
		offX = 0
	}
	if offY < 0 {
		cy += offY
		offY = 0
	}
	if offX+cx > w {
		cx = w - offX
	}
	if offY+cy > h {
		cy = h - offY
	}
	if cx < 0 {
		cx = 0
	}
	if cy < 0 {
		cy = 0
	}
	return
}

// 掩膜内有效像元均值；无有效像元时valid为false
func maskedMean(data []float32, mask []byte) (mean float64, valid bool) {
	var (
		sum float64
		cnt int
	)
	for i, m := range mask {
		if m == 0 || isVoid(data[i]) {
			continue
		}
		sum += float64(data[i])
		cnt++
	}
	if cnt > 0 {
		mean = sum / float64(cnt)
		valid = true
	}
	return
}

// 单图斑单栅格的区域统计：将图斑栅格化为窗口大小的字节掩膜
// （像元中心落入图斑才计入，ALL_TOUCHED关闭），均值剔除无效像元
func (g *GdalToolbox) zonalMean(grid *DemGrid, wkb GdalGeo, env [4]float64) (mean float64, valid bool, err error) {
	offX, offY, cx, cy, err := pixelWindow(grid.GeoTransform, env, grid.Width, grid.Height)
	if err != nil || cx == 0 || cy == 0 {
		return
	}
	mds, err := godal.Create(godal.Memory, "", 1, godal.Byte, cx, cy)
	if err != nil {
		log.Error(g.logTag+"create mask dataset failed", zap.Error(err))
		return
	}
	defer mds.Close()
	gt := grid.GeoTransform
	winGT := [6]float64{
		gt[0] + float64(offX)*gt[1], gt[1], 0,
		gt[3] + float64(offY)*gt[5], 0, gt[5],
	}
	if err = mds.SetGeoTransform(winGT); err != nil {
		return
	}
	if grid.Projection != "" {
		if err = mds.SetProjection(grid.Projection); err != nil {
			return
		}
	}
	geom, err := godal.NewGeometryFromWKB(wkb, nil)
	if err != nil {
		log.Error(g.logTag+"parse stand wkb failed", zap.Error(err))
		return
	}
	defer geom.Close()
	if err = mds.RasterizeGeometry(geom, godal.Values(255)); err != nil {
		log.Error(g.logTag+"rasterize stand failed", zap.Error(err))
		return
	}
	mask := make([]byte, cx*cy)
	if err = mds.Bands()[0].IO(godal.IORead, 0, 0, mask, cx, cy); err != nil {
		err = ErrTifReadFailed
		return
	}
	win := make([]float32, cx*cy)
	for y := 0; y < cy; y++ {
		copy(win[y*cx:(y+1)*cx], grid.Data[grid.Idx(offX, offY+y):grid.Idx(offX+cx, offY+y)])
	}
	mean, valid = maskedMean(win, mask)
	return
}

// 栅格投影对应的srid
func (g *GdalToolbox) gridSrid(grid *DemGrid) (srid int, err error) {
	sp := gdal.CreateSpatialReference(grid.Projection)
	defer sp.Destroy()
	return g.getSrid(sp)
}

// 为每个林分图斑计算各栅格的均值属性并写回shp，再导出为WGS84 GeoJSON。
// 图斑坐标系与栅格不一致时先行重投影；无覆盖像元的图斑属性置空，不写0
func (g *GdalToolbox) EnrichStands(shp string, stats []StandStat, outGeoJson string, utf8Enc bool) (results map[string][]StandResult, err error) {
	if len(stats) == 0 {
		return
	}
	grids := make([]*DemGrid, len(stats))
	rasterSrid := 0
	for i, st := range stats {
		if grids[i], err = g.ReadDemRaster(st.Tif); err != nil {
			return
		}
		srid, e := g.gridSrid(grids[i])
		if e != nil {
			err = e
			return
		}
		if i == 0 {
			rasterSrid = srid
		} else if srid != rasterSrid {
			log.Error(g.logTag+"rasters in different srid", zap.Int("srid", srid), zap.Int("want", rasterSrid))
			err = ErrSridMismatch
			return
		}
	}
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Open(shp, 1)
	if !ok {
		err = ErrGdalDriverOpen
		return
	}
	defer ds.Destroy()
	layer := ds.LayerByIndex(0)
	sRef := layer.SpatialReference()
	srid, err := g.getSrid(sRef)
	if err != nil {
		return
	}
	var trans gdal.CoordinateTransform
	needTrans := srid != rasterSrid
	if needTrans {
		var tRef gdal.SpatialReference
		if tRef, err = g.getSridRef(rasterSrid); err != nil {
			return
		}
		trans = gdal.CreateCoordinateTransform(sRef, tRef)
		defer trans.Destroy()
	}
	def := layer.Definition()
	fieldIdx := make([]int, len(stats))
	for i, st := range stats {
		if fieldIdx[i] = def.FieldIndex(st.Field); fieldIdx[i] < 0 {
			fd := gdal.CreateFieldDefinition(st.Field, gdal.FT_Real)
			if err = layer.CreateField(fd, false); err != nil {
				return
			}
			fieldIdx[i] = def.FieldIndex(st.Field)
		}
	}
	idIdx := def.FieldIndex(SHP_FIELD_STAND_ID)
	results = make(map[string][]StandResult, len(stats))
	var (
		feature *gdal.Feature
		geo     gdal.Geometry
		wkb     GdalGeo
		standId string
		cnt     int
		e       error
		gc      []destroyable
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	for {
		if feature = layer.NextFeature(); feature == nil {
			break
		}
		gc = append(gc, *feature)
		if idIdx >= 0 {
			standId = feature.FieldAsString(idIdx)
			if !utf8Enc && !utf8.ValidString(standId) {
				standId, _ = utils.GbkStrToUtf8(standId)
			}
			standId = utils.PurifyForUtf8(standId)
		} else {
			standId = fmt.Sprintf("%d", feature.FID())
		}
		// 统计用几何需重投影到栅格坐标系，但shp中原几何保持不动，故取克隆
		geo = feature.Geometry().Clone()
		gc = append(gc, geo)
		if needTrans {
			if e = geo.Transform(trans); e != nil {
				log.Error(g.logTag+"stand transform failed", zap.String("stand", standId), zap.Error(e))
				continue
			}
		}
		if wkb, e = geo.ToWKB(); e != nil {
			log.Error(g.logTag+"stand wkb failed", zap.String("stand", standId), zap.Error(e))
			continue
		}
		envelop := geo.Envelope()
		env := [4]float64{envelop.MinX(), envelop.MaxX(), envelop.MinY(), envelop.MaxY()}
		for i := range stats {
			mean, valid, e := g.zonalMean(grids[i], wkb, env)
			if e != nil {
				err = e
				return
			}
			if valid {
				feature.SetFieldFloat64(fieldIdx[i], mean)
			}
			results[stats[i].Field] = append(results[stats[i].Field], StandResult{
				StandId: standId,
				Mean:    mean,
				Valid:   valid,
			})
		}
		if e = layer.SetFeature(*feature); e != nil {
			log.Error(g.logTag+"err in set feature of layer", zap.Error(e))
		}
		cnt++
	}
	if cnt == 0 {
		err = ErrGdalEmptyLayer
		return
	}
	log.Info(g.logTag+"stands enriched", zap.String("shp", shp), zap.Int("stands", cnt), zap.Int("rasters", len(stats)))
	if outGeoJson != "" {
		err = g.exportStandsGeoJSON(shp, outGeoJson)
	}
	return
}

// 将补全属性后的shp导出为WGS84 GeoJSON
func (g *GdalToolbox) exportStandsGeoJSON(shp, out string) (err error) {
	sds, err := gdal.OpenEx(shp, gdal.OFVector, nil, nil, nil)
	if err != nil {
		log.Error(g.logTag+"open shp error", zap.Error(err))
		return
	}
	defer sds.Close()
	dds, err := gdal.VectorTranslate(out, []gdal.Dataset{sds},
		[]string{"-f", "GeoJSON", "-t_srs", fmt.Sprintf("epsg:%d", GEOJSON_SRID)})
	if err != nil {
		log.Error(g.logTag + "VectorTranslate failed")
		return
	}
	dds.Close() // 生成转换后的json文件
	log.Info(g.logTag+"stands geojson written", zap.String("out", out))
	return
}

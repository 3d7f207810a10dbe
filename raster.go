package forestlib

import (
	"github.com/wgdzlh/forestlib/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// 读取单波段浮点DSM/DTM/CHM Tif
func (g *GdalToolbox) ReadDemRaster(tif string) (grid *DemGrid, err error) {
	sds, err := gdal.Open(tif, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open dem tif failed", zap.String("tif", tif), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	defer sds.Close()
	tifBands := sds.Bands()
	if bc := len(tifBands); bc != 1 {
		log.Error(g.logTag+"dem tif can have only one band", zap.Int("bands", bc))
		err = ErrWrongTif
		return
	}
	band := tifBands[0]
	bandStruct := band.Structure()
	dt := bandStruct.DataType
	x := bandStruct.SizeX
	y := bandStruct.SizeY
	if dt != gdal.Float32 {
		log.Error(g.logTag+"dem tif is malformed", zap.String("dataType", dt.String()))
		err = ErrWrongTif
		return
	}
	gt, err := sds.GeoTransform()
	if err != nil {
		log.Error(g.logTag+"dem tif has no geotransform", zap.Error(err))
		err = ErrWrongTif
		return
	}
	grid = &DemGrid{
		Data:         make([]float32, x*y),
		Width:        x,
		Height:       y,
		NoData:       DEM_OUT_NODATA,
		GeoTransform: gt,
		Projection:   sds.Projection(),
	}
	if err = band.IO(gdal.IORead, 0, 0, grid.Data, x, y); err != nil {
		log.Error(g.logTag+"read dem tif band failed", zap.Error(err))
		err = ErrTifReadFailed
		return
	}
	if nodata, ok := band.NoData(); ok {
		grid.NoData = nodata
		nd := float32(nodata)
		for i, v := range grid.Data {
			if v == nd {
				grid.Data[i] = voidCell
			}
		}
	}
	log.Info(g.logTag+"read dem tif", zap.String("tif", tif), zap.Int("width", x), zap.Int("height", y))
	return
}

// 将栅格写为GTiff，地理参考沿用grid内的元数据
func (g *GdalToolbox) WriteDemRaster(tif string, grid *DemGrid) (err error) {
	sds, err := gdal.Create(gdal.GTiff, tif, 1, gdal.Float32, grid.Width, grid.Height,
		gdal.CreationOption("COMPRESS=LZW", "TILED=YES"))
	if err != nil {
		log.Error(g.logTag+"create dem tif failed", zap.String("tif", tif), zap.Error(err))
		err = ErrTifWriteFailed
		return
	}
	defer sds.Close()
	if err = sds.SetGeoTransform(grid.GeoTransform); err != nil {
		return
	}
	if grid.Projection != "" {
		if err = sds.SetProjection(grid.Projection); err != nil {
			return
		}
	}
	band := sds.Bands()[0]
	if err = band.SetNoData(grid.NoData); err != nil {
		return
	}
	buf := make([]float32, len(grid.Data))
	nd := float32(grid.NoData)
	for i, v := range grid.Data {
		if isVoid(v) {
			buf[i] = nd
		} else {
			buf[i] = v
		}
	}
	if err = band.IO(gdal.IOWrite, 0, 0, buf, grid.Width, grid.Height); err != nil {
		log.Error(g.logTag+"write dem tif band failed", zap.Error(err))
		err = ErrTifWriteFailed
		return
	}
	log.Info(g.logTag+"dem tif written", zap.String("tif", tif), zap.Int("width", grid.Width), zap.Int("height", grid.Height))
	return
}

package forestlib

import (
	"fmt"
	"math"

	"github.com/wgdzlh/forestlib/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 1°x1°高程瓦片标识，按瓦片左下角取整度命名（如N61E025）
type TileId struct {
	Lat int
	Lon int
}

func (t TileId) latPart() string {
	if t.Lat < 0 {
		return fmt.Sprintf("S%02d", -t.Lat)
	}
	return fmt.Sprintf("N%02d", t.Lat)
}

func (t TileId) lonPart() string {
	if t.Lon < 0 {
		return fmt.Sprintf("W%03d", -t.Lon)
	}
	return fmt.Sprintf("E%03d", t.Lon)
}

func (t TileId) String() string {
	return t.latPart() + t.lonPart()
}

// Copernicus GLO-30桶中的对象名
func (t TileId) Object() string {
	return fmt.Sprintf(DEM_OBJECT_TEMPLATE, t.latPart(), t.lonPart())
}

func (t TileId) URL() string {
	obj := t.Object()
	return DEM_BUCKET_URL + "/" + obj + "/" + obj + FILE_EXT_TIF
}

// 单点所在瓦片
func TileOfPoint(lon, lat float64) (t TileId, err error) {
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		err = fmt.Errorf(ErrBadTileCoordTemplate, lon, lat)
		return
	}
	t.Lon = int(math.Floor(lon))
	t.Lat = int(math.Floor(lat))
	return
}

// 经纬度范围所在的瓦片；范围跨多张瓦片时报错，不做镶嵌
func TileOfSpan(span [4]float64) (t TileId, err error) {
	t, err = TileOfPoint(span[0], span[2])
	if err != nil {
		return
	}
	tMax, err := TileOfPoint(span[1], span[3])
	if err != nil {
		return
	}
	if t != tMax {
		err = ErrSpanAcrossTiles
	}
	return
}

// 读取shp的srid及全部图斑的外包范围（源坐标系下的[lonMin,lonMax,latMin,latMax]）
func (g *GdalToolbox) VectorExtent(shp string) (span [4]float64, srid int, err error) {
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Open(shp, 0)
	if !ok {
		err = ErrGdalDriverOpen
		return
	}
	defer ds.Destroy()
	layer := ds.LayerByIndex(0)
	if srid, err = g.getSrid(layer.SpatialReference()); err != nil {
		return
	}
	var (
		feature *gdal.Feature
		cnt     int
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
		envelop := feature.Geometry().Envelope()
		if cnt == 0 {
			span[0], span[1] = envelop.MinX(), envelop.MaxX()
			span[2], span[3] = envelop.MinY(), envelop.MaxY()
		} else {
			span[0] = math.Min(span[0], envelop.MinX())
			span[1] = math.Max(span[1], envelop.MaxX())
			span[2] = math.Min(span[2], envelop.MinY())
			span[3] = math.Max(span[3], envelop.MaxY())
		}
		cnt++
	}
	if cnt == 0 {
		err = ErrGdalEmptyLayer
		return
	}
	log.Info(g.logTag+"got vector extent", zap.String("shp", shp), zap.Int("srid", srid),
		zap.Int("features", cnt), zap.Any("span", span))
	return
}

// 将源坐标系范围转为WGS84经纬度范围
func (g *GdalToolbox) WGS84Span(span [4]float64, srid int) (out [4]float64, err error) {
	if srid == UNIVERSAL_SRID {
		out = span
		return
	}
	wkt, err := g.TransformWkt(SpanToWkt(span), srid, UNIVERSAL_SRID)
	if err != nil {
		return
	}
	out, err = g.GetWktSpan(wkt, UNIVERSAL_SRID)
	return
}

// 定位覆盖矢量范围的高程瓦片
func (g *GdalToolbox) ResolveDemTile(shp string) (t TileId, err error) {
	span, srid, err := g.VectorExtent(shp)
	if err != nil {
		return
	}
	geoSpan, err := g.WGS84Span(span, srid)
	if err != nil {
		return
	}
	t, err = TileOfSpan(geoSpan)
	if err != nil {
		log.Error(g.logTag+"dem tile unresolved", zap.Any("span", geoSpan), zap.Error(err))
		return
	}
	log.Info(g.logTag+"resolved dem tile", zap.String("tile", t.String()))
	return
}

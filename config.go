package forestlib

import "time"

const (
	FILE_EXT_TIF  = ".tif"
	FILE_EXT_JSON = ".geojson"

	SHP_DRIVER_NAME = "ESRI Shapefile"

	UNIVERSAL_SRID = 4326
	GEOJSON_SRID   = 4326

	// Copernicus GLO-30 DSM公共桶，对象命名规则见
	// https://registry.opendata.aws/copernicus-dem/
	DEM_BUCKET_URL      = "https://copernicus-dem-30m.s3.amazonaws.com"
	DEM_OBJECT_TEMPLATE = "Copernicus_DSM_COG_10_%s_00_%s_00_DEM"

	DEM_TIF_SUFFIX = "_copernicus" + FILE_EXT_TIF
	DTM_TIF_SUFFIX = "_dtm_approx" + FILE_EXT_TIF
	CHM_TIF_SUFFIX = "_chm" + FILE_EXT_TIF

	STANDS_OUT_NAME = "forest_stands_with_elev" + FILE_EXT_JSON

	SHP_FIELD_STAND_ID = "StandID"
	FIELD_MEAN_ELEV    = "mean_elev"
	FIELD_MEAN_CANOPY  = "mean_canopy"

	// GLO-30约10米分辨率，15x15窗口对应约150米见方的结构元
	DEFAULT_OPENING_WINDOW = 15

	DEM_OUT_NODATA = -9999

	FETCH_RETRIES     = 3
	FETCH_RETRY_DELAY = 2 * time.Second
	FETCH_TIMEOUT     = 5 * time.Minute

	ErrBadTileCoordTemplate = `非法的瓦片坐标【%f,%f】`
)

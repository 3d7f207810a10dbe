package forestlib

import "errors"

var (
	ErrGdalDriverOpen  = errors.New("gdal driver open err")
	ErrGdalEmptyLayer  = errors.New("gdal layer is empty")
	ErrVoidSrid        = errors.New("gdal shp with void srid")
	ErrInvalidWKT      = errors.New("invalid WKT")
	ErrInvalidTif      = errors.New("invalid tif")
	ErrWrongTif        = errors.New("wrong tif")
	ErrTifReadFailed   = errors.New("tif read failed")
	ErrTifWriteFailed  = errors.New("tif write failed")
	ErrSpanAcrossTiles = errors.New("extent spans more than one dem tile")
	ErrBadWindow       = errors.New("opening window must be an odd integer >= 3")
	ErrGridMismatch    = errors.New("grid shape or georeference mismatch")
	ErrSridMismatch    = errors.New("polygon srid differs from raster srid")
	ErrRotatedRaster   = errors.New("rotated geotransform not supported")
	ErrDemFetchFailed  = errors.New("dem tile fetch failed")
)

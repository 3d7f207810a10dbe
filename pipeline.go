package forestlib

import (
	"os"
	"path/filepath"

	"github.com/wgdzlh/forestlib/log"

	"go.uber.org/zap"
)

// 林分冠层统计批处理流水线。各阶段严格串行，中间产物全部落盘，
// 后续阶段只从磁盘读取前一阶段的完整输出
type Pipeline struct {
	Toolbox   *GdalToolbox
	Fetcher   *DemFetcher
	Shapefile string // 林分图斑shp路径
	DataDir   string // 产物输出目录
	Window    int    // 开运算窗口（奇数），0取默认值
	Utf8      bool   // shp属性编码是否为UTF-8
}

type PipelineResult struct {
	Tile    TileId
	DemTif  string
	DtmTif  string
	ChmTif  string
	GeoJson string
	Stats   map[string][]StandResult
}

func NewPipeline(shp, dataDir string, window int) *Pipeline {
	if window <= 0 {
		window = DEFAULT_OPENING_WINDOW
	}
	return &Pipeline{
		Toolbox:   NewGdalToolbox(dataDir),
		Fetcher:   NewDemFetcher(),
		Shapefile: shp,
		DataDir:   dataDir,
		Window:    window,
		Utf8:      true,
	}
}

func (p *Pipeline) Run() (res *PipelineResult, err error) {
	const logTag = "Pipeline:"
	if err = os.MkdirAll(p.DataDir, os.ModePerm); err != nil {
		return
	}
	g := p.Toolbox
	// 1. 矢量范围 -> 瓦片号
	tile, err := g.ResolveDemTile(p.Shapefile)
	if err != nil {
		return
	}
	// 2. 下载DSM瓦片
	demTif, err := p.Fetcher.Fetch(tile, p.DataDir)
	if err != nil {
		return
	}
	// 3. 开运算近似裸地DTM
	dsm, err := g.ReadDemRaster(demTif)
	if err != nil {
		return
	}
	dtm, err := GreyOpening(dsm, p.Window)
	if err != nil {
		return
	}
	dtmTif := filepath.Join(p.DataDir, tile.String()+DTM_TIF_SUFFIX)
	if err = g.WriteDemRaster(dtmTif, dtm); err != nil {
		return
	}
	log.Info(logTag+"dtm approximated", zap.String("tif", dtmTif), zap.Int("window", p.Window))
	// 4. CHM = DSM - DTM
	chm, err := BuildChm(dsm, dtm)
	if err != nil {
		return
	}
	chmTif := filepath.Join(p.DataDir, tile.String()+CHM_TIF_SUFFIX)
	if err = g.WriteDemRaster(chmTif, chm); err != nil {
		return
	}
	// 5. 区域统计并导出GeoJSON
	outJson := filepath.Join(p.DataDir, STANDS_OUT_NAME)
	stats := []StandStat{
		{Field: FIELD_MEAN_ELEV, Tif: demTif},
		{Field: FIELD_MEAN_CANOPY, Tif: chmTif},
	}
	results, err := g.EnrichStands(p.Shapefile, stats, outJson, p.Utf8)
	if err != nil {
		return
	}
	res = &PipelineResult{
		Tile:    tile,
		DemTif:  demTif,
		DtmTif:  dtmTif,
		ChmTif:  chmTif,
		GeoJson: outJson,
		Stats:   results,
	}
	log.Info(logTag+"pipeline done", zap.String("tile", tile.String()), zap.String("out", outJson))
	return
}

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/wgdzlh/forestlib"
	"github.com/wgdzlh/forestlib/log"
	"github.com/wgdzlh/forestlib/utils"

	"go.uber.org/zap"
)

var (
	shpPath = flag.String("shp", "", "forest stands shapefile (.shp, or .zip containing one)")
	dataDir = flag.String("data", "", "output data dir (default: a unique dir under the system temp dir)")
	window  = flag.Int("window", forestlib.DEFAULT_OPENING_WINDOW, "morphological opening window size in pixels (odd)")
	serve   = flag.String("serve", "", "if set, serve the map dashboard on this address after the run, e.g. :8080")
)

func main() {
	flag.Parse()
	defer log.Sync()
	if *shpPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	dir := *dataDir
	if dir == "" {
		var err error
		if dir, err = utils.GetUniqSubDir(os.TempDir()); err != nil {
			log.Error("create data dir failed", zap.Error(err))
			os.Exit(1)
		}
	}
	shp := *shpPath
	utf8Enc := true
	if strings.HasSuffix(shp, utils.FILE_EXT_ZIP) {
		var err error
		if shp, utf8Enc, err = utils.GetShpInZip(shp, dir); err != nil {
			log.Error("extract shp from zip failed", zap.String("zip", *shpPath), zap.Error(err))
			os.Exit(1)
		}
	}
	p := forestlib.NewPipeline(shp, dir, *window)
	p.Utf8 = utf8Enc
	res, err := p.Run()
	if err != nil {
		log.Error("pipeline failed", zap.Error(err))
		os.Exit(1)
	}
	printStats(res)
	if *serve != "" {
		if err = serveDashboard(*serve, res.GeoJson, utils.GetFilenameWithoutExt(shp)); err != nil {
			log.Error("dashboard server failed", zap.Error(err))
			os.Exit(1)
		}
	}
}

func printStats(res *forestlib.PipelineResult) {
	elev := res.Stats[forestlib.FIELD_MEAN_ELEV]
	canopy := res.Stats[forestlib.FIELD_MEAN_CANOPY]
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\n", forestlib.SHP_FIELD_STAND_ID,
		forestlib.FIELD_MEAN_ELEV, forestlib.FIELD_MEAN_CANOPY)
	for i, r := range elev {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.StandId, fmtMean(r), fmtMean(canopy[i]))
	}
	w.Flush()
}

func fmtMean(r forestlib.StandResult) string {
	if !r.Valid {
		return "null"
	}
	return fmt.Sprintf("%.2f", r.Mean)
}

package forestlib

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/wgdzlh/forestlib/log"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 高程瓦片下载器。瞬时故障（网络错误、5xx）做有限次重试，4xx视为永久失败
type DemFetcher struct {
	BaseURL string
	Retries int
	Delay   time.Duration
	client  *http.Client
	logTag  string
}

func NewDemFetcher() *DemFetcher {
	return &DemFetcher{
		Retries: FETCH_RETRIES,
		Delay:   FETCH_RETRY_DELAY,
		client:  &http.Client{Timeout: FETCH_TIMEOUT},
		logTag:  "DemFetcher:",
	}
}

func (f *DemFetcher) tileURL(tile TileId) string {
	if f.BaseURL == "" {
		return tile.URL()
	}
	obj := tile.Object()
	return f.BaseURL + "/" + obj + "/" + obj + FILE_EXT_TIF
}

// 下载瓦片DSM到destDir下的<tile>_copernicus.tif；本地已有时直接复用
func (f *DemFetcher) Fetch(tile TileId, destDir string) (path string, err error) {
	path = filepath.Join(destDir, tile.String()+DEM_TIF_SUFFIX)
	if _, e := os.Stat(path); e == nil {
		log.Info(f.logTag+"dem tile cached", zap.String("tif", path))
		return
	}
	url := f.tileURL(tile)
	delay := f.Delay
	for i := 0; ; i++ {
		if err = f.fetchOnce(url, path); err == nil {
			log.Info(f.logTag+"dem tile fetched", zap.String("tile", tile.String()),
				zap.String("tif", path), zap.Int("tries", i+1))
			return
		}
		if _, transient := err.(*fetchError); !transient || i >= f.Retries {
			log.Error(f.logTag+"dem tile fetch failed", zap.String("url", url),
				zap.Int("tries", i+1), zap.Error(err))
			return
		}
		log.Warn(f.logTag+"retrying dem tile fetch", zap.String("url", url),
			zap.Duration("delay", delay), zap.Error(err))
		time.Sleep(delay)
		delay *= 2
	}
}

// 瞬时故障，可重试
type fetchError struct {
	cause error
}

func (e *fetchError) Error() string {
	return "dem tile fetch: " + e.cause.Error()
}

func (e *fetchError) Unwrap() error {
	return e.cause
}

func (f *DemFetcher) fetchOnce(url, dest string) (err error) {
	resp, err := f.client.Get(url)
	if err != nil {
		return &fetchError{err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("%w: http status %d", ErrDemFetchFailed, resp.StatusCode)
		if resp.StatusCode >= 500 {
			err = &fetchError{err}
		}
		return
	}
	// 先写入临时文件，成功后改名，避免半成品被后续阶段读到
	tmp := dest + "." + uuid.NewString() + ".part"
	file, err := os.Create(tmp)
	if err != nil {
		return
	}
	_, err = io.Copy(file, resp.Body)
	file.Close()
	if err != nil {
		os.Remove(tmp)
		return &fetchError{err}
	}
	return os.Rename(tmp, dest)
}

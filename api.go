package forestlib

type GdalGeo = []byte

// 林分图斑统计任务：指定栅格文件与写入的属性字段名
type StandStat struct {
	Field string // 写入矢量的属性列名
	Tif   string // 统计用栅格路径
}

// 单个图斑的统计结果
type StandResult struct {
	StandId string
	Mean    float64
	Valid   bool // 图斑内无有效像元时为false，输出为null
}

package forestlib

// 冠层高度模型：CHM = DSM - DTM，逐像元相减。任一输入无效则输出无效；
// 负值（开运算高估裸地时出现）原样保留，是否截断由展示层决定
func BuildChm(dsm, dtm *DemGrid) (chm *DemGrid, err error) {
	if !dsm.SameShape(dtm) {
		err = ErrGridMismatch
		return
	}
	chm = dsm.CloneShape()
	for i, v := range dsm.Data {
		b := dtm.Data[i]
		if isVoid(v) || isVoid(b) {
			chm.Data[i] = voidCell
			continue
		}
		chm.Data[i] = v - b
	}
	return
}

package game

// ReelStrip 单个转轮：展开后的停止位序列，停止位总数即该轮的概率分母
type ReelStrip struct {
	stops []int64
	total int64
}

// TotalStops 停止位总数
func (s *ReelStrip) TotalStops() int64 { return s.total }

// SymbolAt 指定停止位上的符号
func (s *ReelStrip) SymbolAt(stop int64) int64 {
	return s.stops[stop%s.total]
}

// WindowAt 从停止位开始的连续3行可见窗口（环绕）
func (s *ReelStrip) WindowAt(stop int64) [RowCount]int64 {
	var rows [RowCount]int64
	for r := int64(0); r < RowCount; r++ {
		rows[r] = s.stops[(stop+r)%s.total]
	}
	return rows
}

// SymbolStops 指定符号占用的停止位数
func (s *ReelStrip) SymbolStops(symbol int64) int64 {
	count := int64(0)
	for _, v := range s.stops {
		if v == symbol {
			count++
		}
	}
	return count
}

// SymbolProbability 单个停止位落在指定符号上的概率
func (s *ReelStrip) SymbolProbability(symbol int64) float64 {
	return float64(s.SymbolStops(symbol)) / float64(s.total)
}

// Window 去重后的可见窗口及其停止位权重
type Window struct {
	Rows   [RowCount]int64
	Weight int64
}

// DistinctWindows 去重的窗口集合：内容相同的窗口合并权重。
// 精确枚举在窗口集合上进行，复杂度由各轮去重后的窗口数相乘决定
func (s *ReelStrip) DistinctWindows() []Window {
	index := make(map[[RowCount]int64]int, s.total)
	windows := make([]Window, 0, s.total)
	for stop := int64(0); stop < s.total; stop++ {
		rows := s.WindowAt(stop)
		if i, ok := index[rows]; ok {
			windows[i].Weight++
			continue
		}
		index[rows] = len(windows)
		windows = append(windows, Window{Rows: rows, Weight: 1})
	}
	return windows
}

// ReelSet 固定5个转轮，构造后不可变
type ReelSet struct {
	strips [ColCount]*ReelStrip
}

// Strip 第col个转轮
func (rs *ReelSet) Strip(col int64) *ReelStrip { return rs.strips[col] }

// Combinations 原始停止位组合总数
func (rs *ReelSet) Combinations() int64 {
	total := int64(1)
	for _, s := range rs.strips {
		total *= s.total
	}
	return total
}

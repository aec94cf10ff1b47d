package game

const (
	RowCount int64 = 3 // 行数
	ColCount int64 = 5 // 列数（转轮数）
)

// 空符号固定为 0，付费符号/百搭/夺宝的 id 由配置给出
const BlankSymbol int64 = 0

const _minMatchCount int64 = 3 // 最小连线数量
const _maxMatchCount        = ColCount

const _defaultScatterTrigger int64 = 3

// 赢分分档（相对总注的倍数区间），沿用行业分类
const (
	_bucketLoss = iota // 未中奖
	_bucketPush        // (0, 1x]
	_bucketSmall       // (1x, 5x]
	_bucketMedium      // (5x, 25x]
	_bucketLarge       // (25x, 100x]
	_bucketMega        // > 100x
	WinBucketCount
)

// WinBucketNames 分档名称，导出顺序与 WinBucketIndex 一致
var WinBucketNames = [WinBucketCount]string{"loss", "push", "small", "medium", "large", "mega"}

// WinBucketIndex 按「赢分/总注」比值归档
func WinBucketIndex(win, totalBet int64) int {
	switch ratio := float64(win) / float64(totalBet); {
	case win <= 0:
		return _bucketLoss
	case ratio <= 1:
		return _bucketPush
	case ratio <= 5:
		return _bucketSmall
	case ratio <= 25:
		return _bucketMedium
	case ratio <= 100:
		return _bucketLarge
	default:
		return _bucketMega
	}
}

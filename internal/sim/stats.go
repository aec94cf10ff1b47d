package sim

import (
	"math"

	"slotmath/internal/game"
)

// Checkpoint 收敛检查点：每批结束时的运行值
type Checkpoint struct {
	Spins   int64   `json:"spins"`
	RTP     float64 `json:"rtp"`
	HitFreq float64 `json:"hitFreq"`
	StdDev  float64 `json:"stdDev"`
}

// AggregateStats 跨批次的流式聚合。只保留可交换可结合的累加量，
// 任意批次划分合并后结果一致；单次旋转的盘面在折叠后即丢弃
type AggregateStats struct {
	Spins           int64                       `json:"spins"`
	TotalBet        int64                       `json:"totalBet"`
	TotalWin        int64                       `json:"totalWin"`
	TotalWinSq      float64                     `json:"totalWinSq"`
	HitCount        int64                       `json:"hitCount"`
	ScatterTriggers int64                       `json:"scatterTriggers"`
	Buckets         [game.WinBucketCount]int64  `json:"buckets"`
	Checkpoints     []Checkpoint                `json:"checkpoints,omitempty"`
}

// Fold 单次旋转结果折叠进聚合
func (a *AggregateStats) Fold(eval *game.WinEvaluation, totalBet, scatterTrigger int64) {
	win := eval.TotalMultiplier
	a.Spins++
	a.TotalBet += totalBet
	a.TotalWin += win
	a.TotalWinSq += float64(win) * float64(win)
	if eval.HasWin() {
		a.HitCount++
	}
	if eval.ScatterCount >= scatterTrigger {
		a.ScatterTriggers++
	}
	a.Buckets[game.WinBucketIndex(win, totalBet)]++
}

// Merge 聚合合并，满足交换律与结合律；检查点按先后顺序拼接
func (a *AggregateStats) Merge(o *AggregateStats) {
	a.Spins += o.Spins
	a.TotalBet += o.TotalBet
	a.TotalWin += o.TotalWin
	a.TotalWinSq += o.TotalWinSq
	a.HitCount += o.HitCount
	a.ScatterTriggers += o.ScatterTriggers
	for i := range a.Buckets {
		a.Buckets[i] += o.Buckets[i]
	}
	a.Checkpoints = append(a.Checkpoints, o.Checkpoints...)
}

// RTP 运行RTP：总赢分/总投注
func (a *AggregateStats) RTP() float64 {
	if a.TotalBet == 0 {
		return 0
	}
	return float64(a.TotalWin) / float64(a.TotalBet)
}

// HitFrequency 中奖率
func (a *AggregateStats) HitFrequency() float64 {
	if a.Spins == 0 {
		return 0
	}
	return float64(a.HitCount) / float64(a.Spins)
}

// Variance 单次旋转赢分的总体方差（由和与平方和导出，无需二次遍历）
func (a *AggregateStats) Variance() float64 {
	if a.Spins == 0 {
		return 0
	}
	n := float64(a.Spins)
	mean := float64(a.TotalWin) / n
	v := a.TotalWinSq/n - mean*mean
	if v < 0 {
		v = 0 // 浮点舍入
	}
	return v
}

// StdDev 单次旋转赢分的标准差
func (a *AggregateStats) StdDev() float64 { return math.Sqrt(a.Variance()) }

// RecordCheckpoint 记录一次运行值检查点（批次边界调用）
func (a *AggregateStats) RecordCheckpoint() {
	a.Checkpoints = append(a.Checkpoints, Checkpoint{
		Spins:   a.Spins,
		RTP:     a.RTP(),
		HitFreq: a.HitFrequency(),
		StdDev:  a.StdDev(),
	})
}

// Summary 自包含的导出摘要，不依赖任何原始记录存储
type Summary struct {
	Spins              int64              `json:"spins"`
	TotalBet           int64              `json:"totalBet"`
	TotalWin           int64              `json:"totalWin"`
	RTP                float64            `json:"rtp"`
	StdDev             float64            `json:"stdDev"`
	Variance           float64            `json:"variance"`
	HitFrequency       float64            `json:"hitFrequency"`
	ScatterTriggerRate float64            `json:"scatterTriggerRate"`
	Histogram          map[string]int64   `json:"histogram"`
	Checkpoints        []Checkpoint       `json:"checkpoints"`
}

// Summarize .
func (a *AggregateStats) Summarize() *Summary {
	hist := make(map[string]int64, game.WinBucketCount)
	for i, name := range game.WinBucketNames {
		hist[name] = a.Buckets[i]
	}
	rate := 0.0
	if a.Spins > 0 {
		rate = float64(a.ScatterTriggers) / float64(a.Spins)
	}
	return &Summary{
		Spins:              a.Spins,
		TotalBet:           a.TotalBet,
		TotalWin:           a.TotalWin,
		RTP:                a.RTP(),
		StdDev:             a.StdDev(),
		Variance:           a.Variance(),
		HitFrequency:       a.HitFrequency(),
		ScatterTriggerRate: rate,
		Histogram:          hist,
		Checkpoints:        a.Checkpoints,
	}
}

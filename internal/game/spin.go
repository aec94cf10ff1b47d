package game

import (
	"math/rand/v2"
)

// Spinner 按转轮权重生成盘面。生成器显式传入并独占持有，
// 同一（seed, stream）序列完全可复现；并行批次各自携带独立的流
type Spinner struct {
	cfg *Config
	rng *rand.Rand
}

// NewSpinner 创建可复现的盘面生成器，stream 区分并行批次
func NewSpinner(cfg *Config, seed, stream uint64) *Spinner {
	return &Spinner{cfg: cfg, rng: rand.New(rand.NewPCG(seed, stream))}
}

// SpinAt 第index次旋转的盘面。随机流仅由（seed, index）决定，
// 与批次划分、并行度无关，这是全量复现与合并等价性的基础
func SpinAt(cfg *Config, seed uint64, index int64) Grid {
	return NewSpinner(cfg, seed, uint64(index)).Spin()
}

// Spin 每个转轮独立取一个停止位，窗口3行落盘
func (sp *Spinner) Spin() Grid {
	var grid Grid
	for c := int64(0); c < ColCount; c++ {
		strip := sp.cfg.Reels.Strip(c)
		stop := sp.rng.Int64N(strip.TotalStops())
		rows := strip.WindowAt(stop)
		for r := int64(0); r < RowCount; r++ {
			grid[r][c] = rows[r]
		}
	}
	return grid
}

package calc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"slotmath/internal/game"
)

var (
	// ErrEnumerationTooLarge 枚举规模超出精确计算上限，调用方应降级为模拟
	ErrEnumerationTooLarge = errors.New("exceeds exact computation bound")
	// ErrMassInvariant 概率质量求和偏离1，内部一致性故障
	ErrMassInvariant = errors.New("probability mass invariant violated")
)

const (
	_defaultMaxCombinations = int64(100_000_000)
	_massTolerance          = 1e-9
)

// ExactResult 精确计算结果，无采样误差
type ExactResult struct {
	RTP                float64                        `json:"rtp"`
	HitFrequency       float64                        `json:"hitFrequency"`
	Variance           float64                        `json:"variance"`
	StdDev             float64                        `json:"stdDev"`
	Histogram          [game.WinBucketCount]float64   `json:"histogram"` // 赢分分档概率质量
	ScatterTriggerProb float64                        `json:"scatterTriggerProb"`
	Combinations       int64                          `json:"combinations"` // 去重窗口组合数
	TotalMass          float64                        `json:"totalMass"`
}

// ExactCalculator 在各转轮去重窗口的笛卡尔积上做精确枚举。
// 复杂度为各轮窗口数之积，5轮为精确计算的上限，超出配置阈值直接拒绝
type ExactCalculator struct {
	cfg *game.Config
	ev  *game.Evaluator
	log *zap.Logger

	maxCombinations int64
	workers         int
}

// Option .
type Option func(*ExactCalculator)

// WithMaxCombinations 调整枚举规模上限
func WithMaxCombinations(n int64) Option {
	return func(c *ExactCalculator) { c.maxCombinations = n }
}

// WithWorkers 调整外层并行度
func WithWorkers(n int) Option {
	return func(c *ExactCalculator) { c.workers = n }
}

// NewExactCalculator .
func NewExactCalculator(cfg *game.Config, logger *zap.Logger, opts ...Option) *ExactCalculator {
	c := &ExactCalculator{
		cfg:             cfg,
		ev:              game.NewEvaluator(cfg),
		log:             logger,
		maxCombinations: _defaultMaxCombinations,
		workers:         4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// 单个外层任务的局部累加器，最终按外层下标顺序归并，保证结果确定
type exactPartial struct {
	mass    float64
	win     float64
	winSq   float64
	hit     float64
	scatter float64
	hist    [game.WinBucketCount]float64
}

func (p *exactPartial) merge(o *exactPartial) {
	p.mass += o.mass
	p.win += o.win
	p.winSq += o.winSq
	p.hit += o.hit
	p.scatter += o.scatter
	for i := range p.hist {
		p.hist[i] += o.hist[i]
	}
}

// Calculate 精确RTP/中奖率/赢分分布。枚举结束后校验概率质量和，
// 偏离容差视为内部故障并中止，绝不静默返回错误数字
func (c *ExactCalculator) Calculate(ctx context.Context) (*ExactResult, error) {
	var windows [game.ColCount][]game.Window
	combinations := int64(1)
	for col := int64(0); col < game.ColCount; col++ {
		windows[col] = c.cfg.Reels.Strip(col).DistinctWindows()
		combinations *= int64(len(windows[col]))
		if combinations > c.maxCombinations {
			return nil, fmt.Errorf("%w: >%d combinations (limit %d)",
				ErrEnumerationTooLarge, combinations, c.maxCombinations)
		}
	}
	c.log.Debug("exact enumeration",
		zap.Int64("combinations", combinations),
		zap.Int64("rawStops", c.cfg.Reels.Combinations()),
	)

	// 每个转轮的权重分母
	var totals [game.ColCount]float64
	for col := int64(0); col < game.ColCount; col++ {
		totals[col] = float64(c.cfg.Reels.Strip(col).TotalStops())
	}

	partials := make([]exactPartial, len(windows[0]))
	pool, err := ants.NewPool(c.workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var cancelled error
	var mu sync.Mutex
	for i := range windows[0] {
		wg.Add(1)
		outer := i
		err = pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				mu.Lock()
				cancelled = ctx.Err()
				mu.Unlock()
				return
			}
			partials[outer] = c.enumerateFrom(windows, totals, outer)
		})
		if err != nil {
			wg.Done()
			return nil, err
		}
	}
	wg.Wait()
	if cancelled != nil {
		return nil, cancelled
	}

	var sum exactPartial
	for i := range partials {
		sum.merge(&partials[i])
	}
	if math.Abs(sum.mass-1) > _massTolerance {
		return nil, fmt.Errorf("%w: mass=%.15f", ErrMassInvariant, sum.mass)
	}

	bet := float64(c.cfg.TotalBet())
	mean := sum.win
	variance := sum.winSq - mean*mean
	if variance < 0 {
		variance = 0
	}
	return &ExactResult{
		RTP:                mean / bet,
		HitFrequency:       sum.hit,
		Variance:           variance,
		StdDev:             math.Sqrt(variance),
		Histogram:          sum.hist,
		ScatterTriggerProb: sum.scatter,
		Combinations:       combinations,
		TotalMass:          sum.mass,
	}, nil
}

// enumerateFrom 固定第0轮窗口，展开其余4轮的嵌套枚举
func (c *ExactCalculator) enumerateFrom(windows [game.ColCount][]game.Window, totals [game.ColCount]float64, outer int) exactPartial {
	var p exactPartial
	var grid game.Grid

	w0 := windows[0][outer]
	p0 := float64(w0.Weight) / totals[0]
	fill(&grid, 0, w0.Rows)

	for _, w1 := range windows[1] {
		p1 := p0 * float64(w1.Weight) / totals[1]
		fill(&grid, 1, w1.Rows)
		for _, w2 := range windows[2] {
			p2 := p1 * float64(w2.Weight) / totals[2]
			fill(&grid, 2, w2.Rows)
			for _, w3 := range windows[3] {
				p3 := p2 * float64(w3.Weight) / totals[3]
				fill(&grid, 3, w3.Rows)
				for _, w4 := range windows[4] {
					prob := p3 * float64(w4.Weight) / totals[4]
					fill(&grid, 4, w4.Rows)
					c.accumulate(&p, &grid, prob)
				}
			}
		}
	}
	return p
}

func (c *ExactCalculator) accumulate(p *exactPartial, grid *game.Grid, prob float64) {
	eval := c.ev.Evaluate(grid)
	win := float64(eval.TotalMultiplier)
	p.mass += prob
	p.win += prob * win
	p.winSq += prob * win * win
	if eval.HasWin() {
		p.hit += prob
	}
	if eval.ScatterCount >= c.cfg.ScatterTrigger {
		p.scatter += prob
	}
	p.hist[game.WinBucketIndex(eval.TotalMultiplier, c.cfg.TotalBet())] += prob
}

func fill(grid *game.Grid, col int64, rows [game.RowCount]int64) {
	for r := int64(0); r < game.RowCount; r++ {
		grid[r][col] = rows[r]
	}
}

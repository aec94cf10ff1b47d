package calc

import (
	"math"

	"slotmath/internal/game"
)

const (
	_chainStateCap  = 512  // 马尔可夫链剩余次数状态上限
	_chainLengthCap = 2000 // 轮长分布截断
)

// BonusResult 免费游戏（夺宝触发）数学指标
type BonusResult struct {
	// 全盘夺宝数量分布，下标即数量
	ScatterDist []float64 `json:"scatterDist"`
	// 触发概率：达到阈值的各数量及合计
	TriggerProbByCount map[int64]float64 `json:"triggerProbByCount"`
	TriggerProb        float64           `json:"triggerProb"`
	// 触发时的期望初始免费次数（按触发数量加权）
	AvgInitialSpins float64 `json:"avgInitialSpins"`
	// 免费局内单次旋转的再触发概率（与基础触发同模型）
	RetriggerProb float64 `json:"retriggerProb"`
	// 期望免费轮总长度；再触发期望增量>=1时发散为+Inf
	ExpectedTotalSpins float64 `json:"expectedTotalSpins"`
	// 免费轮长度分布（吸收态为剩余0次），LengthDist[t]=P(轮长=t)
	LengthDist     []float64 `json:"lengthDist"`
	LengthDistTail float64   `json:"lengthDistTail"` // 截断外的剩余质量
}

// ContributionToRTP 免费游戏对RTP的贡献（以总注为基准）。
// baseWinPerSpin 为基础模式单次旋转的期望赢分（总注倍数*总注）
func (r *BonusResult) ContributionToRTP(baseWinPerSpin, totalBet float64) float64 {
	if math.IsInf(r.ExpectedTotalSpins, 1) {
		return math.Inf(1)
	}
	return r.TriggerProb * baseWinPerSpin * r.ExpectedTotalSpins / totalBet
}

// BonusCalculator 夺宝触发与再触发的精确模型：
// 触发概率沿用与精确RTP相同的逐轮窗口枚举，只统计夺宝数量；
// 再触发用剩余免费次数的马尔可夫链建模，0为吸收态
type BonusCalculator struct {
	cfg *game.Config
}

// NewBonusCalculator .
func NewBonusCalculator(cfg *game.Config) *BonusCalculator {
	return &BonusCalculator{cfg: cfg}
}

// ScatterDistribution 全盘夺宝数量的精确分布：
// 每轮窗口内数量的边际分布做5轮卷积（各轮独立）
func (b *BonusCalculator) ScatterDistribution() []float64 {
	dist := []float64{1}
	for col := int64(0); col < game.ColCount; col++ {
		strip := b.cfg.Reels.Strip(col)
		total := float64(strip.TotalStops())

		// 单轮窗口内夺宝数量（0..RowCount）的概率
		var reel [game.RowCount + 1]float64
		for _, w := range strip.DistinctWindows() {
			count := 0
			for _, symbol := range w.Rows {
				if b.cfg.Scatter >= 0 && symbol == b.cfg.Scatter {
					count++
				}
			}
			reel[count] += float64(w.Weight) / total
		}

		next := make([]float64, len(dist)+int(game.RowCount))
		for n, p := range dist {
			if p == 0 {
				continue
			}
			for k, q := range reel {
				next[n+k] += p * q
			}
		}
		dist = next
	}
	return dist
}

// Calculate 触发概率与免费轮长度指标
func (b *BonusCalculator) Calculate() *BonusResult {
	res := &BonusResult{
		ScatterDist:        b.ScatterDistribution(),
		TriggerProbByCount: make(map[int64]float64),
	}

	trigger := b.cfg.ScatterTrigger
	weightedAward := 0.0
	for count := trigger; count < int64(len(res.ScatterDist)); count++ {
		p := res.ScatterDist[count]
		if p == 0 {
			continue
		}
		res.TriggerProbByCount[count] = p
		res.TriggerProb += p
		weightedAward += p * float64(b.cfg.FreeSpinAward(count))
	}
	if res.TriggerProb > 0 {
		res.AvgInitialSpins = weightedAward / res.TriggerProb
	}
	res.RetriggerProb = res.TriggerProb

	b.chainMetrics(res)
	return res
}

// chainMetrics 剩余次数马尔可夫链：每次旋转消耗1次，
// 以再触发概率追加 RetriggerSpins 次。期望总长有封闭解
// E = F / (1 - p*R)，p*R>=1 时发散
func (b *BonusCalculator) chainMetrics(res *BonusResult) {
	p := res.RetriggerProb
	extra := float64(b.cfg.RetriggerSpins)
	if drift := p * extra; drift >= 1 {
		res.ExpectedTotalSpins = math.Inf(1)
	} else {
		res.ExpectedTotalSpins = res.AvgInitialSpins / (1 - p*extra)
	}

	if res.TriggerProb == 0 {
		res.LengthDist = []float64{1}
		return
	}

	// 初始状态：按触发数量加权的初始免费次数
	state := make([]float64, _chainStateCap+1)
	for count, prob := range res.TriggerProbByCount {
		award := b.cfg.FreeSpinAward(count)
		if award > _chainStateCap {
			award = _chainStateCap
		}
		state[award] += prob / res.TriggerProb
	}

	lengthDist := make([]float64, 0, 64)
	lengthDist = append(lengthDist, state[0]) // 轮长0：触发但0奖励的退化配置
	state[0] = 0

	remaining := 1 - lengthDist[0]
	for t := 1; t <= _chainLengthCap && remaining > 1e-12; t++ {
		next := make([]float64, _chainStateCap+1)
		for s := 1; s <= _chainStateCap; s++ {
			mass := state[s]
			if mass == 0 {
				continue
			}
			retriggered := s - 1 + int(b.cfg.RetriggerSpins)
			if retriggered > _chainStateCap {
				retriggered = _chainStateCap
			}
			next[retriggered] += mass * p
			next[s-1] += mass * (1 - p)
		}
		lengthDist = append(lengthDist, next[0])
		remaining -= next[0]
		next[0] = 0
		state = next
	}
	res.LengthDist = lengthDist
	if remaining > 0 {
		res.LengthDistTail = remaining
	}
}

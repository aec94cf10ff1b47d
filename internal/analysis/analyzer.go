package analysis

import (
	"math"

	"slotmath/internal/calc"
	"slotmath/internal/sim"
)

const (
	_z95                 = 1.96
	_defaultConvergeSpan = 10 // 收敛判定的尾部检查点数量
)

// 默认破产风险曲线的本金档位（以总注为单位）
var _defaultBankrolls = []int64{50, 100, 200, 500}

// RiskProfile 聚合统计之上的只读风险视图
type RiskProfile struct {
	Spins        int64   `json:"spins"`
	RTP          float64 `json:"rtp"`
	Variance     float64 `json:"variance"`
	StdDev       float64 `json:"stdDev"`
	HitFrequency float64 `json:"hitFrequency"`

	// RTP的95%置信区间（正态近似）
	CILower float64 `json:"ciLower"`
	CIUpper float64 `json:"ciUpper"`

	// 破产风险曲线：本金（总注单位）-> 概率。
	// 经典赌徒破产近似，对变赔付游戏并非精确值
	RiskOfRuin map[int64]float64 `json:"riskOfRuin"`

	// 波动等级：Low / Medium / High / Very High
	Volatility string `json:"volatility"`

	Converged   bool             `json:"converged"`
	Checkpoints []sim.Checkpoint `json:"checkpoints"`
}

// Option .
type Option func(*analyzer)

type analyzer struct {
	bankrolls    []int64
	convergeSpan int
}

// WithBankrolls 自定义破产风险的本金档位
func WithBankrolls(bankrolls []int64) Option {
	return func(a *analyzer) { a.bankrolls = bankrolls }
}

// WithConvergeSpan 自定义收敛判定的尾部窗口
func WithConvergeSpan(n int) Option {
	return func(a *analyzer) { a.convergeSpan = n }
}

// Analyze 由聚合统计导出风险视图。纯函数，不修改输入
func Analyze(stats *sim.AggregateStats, opts ...Option) *RiskProfile {
	a := &analyzer{bankrolls: _defaultBankrolls, convergeSpan: _defaultConvergeSpan}
	for _, opt := range opts {
		opt(a)
	}

	p := &RiskProfile{
		Spins:        stats.Spins,
		RTP:          stats.RTP(),
		Variance:     stats.Variance(),
		StdDev:       stats.StdDev(),
		HitFrequency: stats.HitFrequency(),
		RiskOfRuin:   make(map[int64]float64, len(a.bankrolls)),
		Checkpoints:  stats.Checkpoints,
	}

	// 标准误按单注单位换算进RTP区间
	betPerSpin := 0.0
	if stats.Spins > 0 {
		betPerSpin = float64(stats.TotalBet) / float64(stats.Spins)
	}
	if stats.Spins > 0 && betPerSpin > 0 {
		se := p.StdDev / math.Sqrt(float64(stats.Spins)) / betPerSpin
		p.CILower = p.RTP - _z95*se
		p.CIUpper = p.RTP + _z95*se
	}

	for _, bankroll := range a.bankrolls {
		p.RiskOfRuin[bankroll] = RiskOfRuin(p.HitFrequency, bankroll)
	}

	p.Volatility = classifyVolatility(p, stats)
	p.Converged = converged(stats.Checkpoints, p.RTP, p.CIUpper-p.RTP, a.convergeSpan)
	return p
}

// RiskOfRuin 经典赌徒破产公式的近似：以中奖率为单步胜率，
// RoR = ((1-p)/p)^bankroll 并截断到[0,1]。
// 该公式针对等额赔付推导，对变赔付的老虎机只是粗略近似，
// 调用方不应据此推断更强的保证
func RiskOfRuin(hitFreq float64, bankroll int64) float64 {
	switch {
	case bankroll <= 0 || hitFreq <= 0:
		return 1
	case hitFreq >= 0.5:
		return 0
	}
	ratio := (1 - hitFreq) / hitFreq
	ror := math.Pow(ratio, float64(bankroll))
	if math.IsInf(ror, 1) || ror > 1 {
		return 1
	}
	return ror
}

// converged 尾部span个检查点的运行RTP全部落入置信带即认为收敛
func converged(cps []sim.Checkpoint, rtp, halfWidth float64, span int) bool {
	if len(cps) < span || halfWidth <= 0 {
		return false
	}
	for _, cp := range cps[len(cps)-span:] {
		if math.Abs(cp.RTP-rtp) > halfWidth {
			return false
		}
	}
	return true
}

// classifyVolatility 行业惯例的波动分级：未中奖占比 + 变异系数
func classifyVolatility(p *RiskProfile, stats *sim.AggregateStats) string {
	lossPct := 0.0
	if stats.Spins > 0 {
		lossPct = float64(stats.Buckets[0]) / float64(stats.Spins) * 100
	}
	mean := 0.0
	if stats.Spins > 0 {
		mean = float64(stats.TotalWin) / float64(stats.Spins)
	}
	cv := 0.0
	if mean > 0 {
		cv = p.StdDev / mean
	}
	switch {
	case lossPct > 80 && cv > 2.0:
		return "Very High"
	case lossPct > 70 && cv > 1.5:
		return "High"
	case lossPct > 60 && cv > 1.0:
		return "Medium"
	default:
		return "Low"
	}
}

// Comparison 模拟结果与精确结果的对照
type Comparison struct {
	ExactRTP     float64 `json:"exactRtp"`
	SimulatedRTP float64 `json:"simulatedRtp"`
	AbsDeviation float64 `json:"absDeviation"`
	WithinCI     bool    `json:"withinCi"`
}

// Compare 模拟RTP相对精确RTP的偏差及是否落入置信区间
func Compare(stats *sim.AggregateStats, exact *calc.ExactResult) *Comparison {
	p := Analyze(stats)
	dev := math.Abs(p.RTP - exact.RTP)
	return &Comparison{
		ExactRTP:     exact.RTP,
		SimulatedRTP: p.RTP,
		AbsDeviation: dev,
		WithinCI:     exact.RTP >= p.CILower && exact.RTP <= p.CIUpper,
	}
}

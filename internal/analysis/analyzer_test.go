package analysis

import (
	"math"
	"testing"

	"slotmath/internal/calc"
	"slotmath/internal/game"
	"slotmath/internal/sim"
)

// makeStats 构造指定局数的确定性聚合
func makeStats(spins int) *sim.AggregateStats {
	stats := &sim.AggregateStats{}
	for i := 0; i < spins; i++ {
		// 大致9成不中奖，偶有大奖的低RTP轮廓
		win := int64(0)
		switch {
		case i%97 == 0:
			win = 120
		case i%11 == 0:
			win = 6
		case i%7 == 0:
			win = 2
		}
		stats.Fold(&game.WinEvaluation{TotalMultiplier: win}, 3, 3)
	}
	return stats
}

func TestAnalyze(t *testing.T) {
	stats := makeStats(10_000)
	p := Analyze(stats)

	if p.Spins != 10_000 {
		t.Fatalf("spins=%d", p.Spins)
	}
	if p.RTP != stats.RTP() || p.StdDev != stats.StdDev() {
		t.Fatal("基础量应与聚合一致")
	}
	// 置信区间必须夹住点估计
	if p.CILower >= p.RTP || p.CIUpper <= p.RTP {
		t.Fatalf("ci=[%v,%v] rtp=%v", p.CILower, p.CIUpper, p.RTP)
	}
	if p.CIUpper-p.CILower <= 0 {
		t.Fatal("置信区间宽度应为正")
	}
	for _, b := range []int64{50, 100, 200, 500} {
		if _, ok := p.RiskOfRuin[b]; !ok {
			t.Fatalf("缺少本金档%d", b)
		}
	}
}

func TestRiskOfRuin(t *testing.T) {
	// 概率性质：落在[0,1]
	for _, hitFreq := range []float64{0, 0.1, 0.3, 0.5, 0.6, 1} {
		for _, bankroll := range []int64{10, 100, 1000} {
			ror := RiskOfRuin(hitFreq, bankroll)
			if ror < 0 || ror > 1 {
				t.Fatalf("ror(%v,%d)=%v", hitFreq, bankroll, ror)
			}
		}
	}

	// 边界：等额赔付近似在中奖率两侧退化
	if RiskOfRuin(0, 100) != 1 {
		t.Fatal("从不中奖必然破产")
	}
	if RiskOfRuin(0.3, 0) != 1 {
		t.Fatal("零本金必然破产")
	}
	if RiskOfRuin(0.6, 100) != 0 {
		t.Fatal("胜率过半近似为不破产")
	}
	if RiskOfRuin(0.3, 50) != 1 {
		t.Fatal("胜率不足一半时近似收敛到1")
	}
}

func TestConverged(t *testing.T) {
	stats := makeStats(10_000)
	for i := 0; i < 12; i++ {
		stats.RecordCheckpoint() // 检查点全部等于终值，必然收敛
	}
	p := Analyze(stats)
	if !p.Converged {
		t.Fatal("恒定检查点应判定收敛")
	}

	// 末端仍大幅波动则不收敛
	stats.Checkpoints[len(stats.Checkpoints)-1].RTP += 1
	if Analyze(stats).Converged {
		t.Fatal("末端跳变不应判定收敛")
	}

	// 检查点不足
	few := makeStats(1_000)
	few.RecordCheckpoint()
	if Analyze(few).Converged {
		t.Fatal("检查点不足不应判定收敛")
	}
}

func TestVolatilityClassification(t *testing.T) {
	// 全部不中奖且偶发巨奖 -> 高波动；均匀小奖 -> 低波动
	high := &sim.AggregateStats{}
	for i := 0; i < 10_000; i++ {
		win := int64(0)
		if i%500 == 0 {
			win = 900
		}
		high.Fold(&game.WinEvaluation{TotalMultiplier: win}, 3, 3)
	}
	if got := Analyze(high).Volatility; got != "Very High" {
		t.Fatalf("volatility=%q want Very High", got)
	}

	low := &sim.AggregateStats{}
	for i := 0; i < 10_000; i++ {
		low.Fold(&game.WinEvaluation{TotalMultiplier: int64(2 + i%3)}, 3, 3)
	}
	if got := Analyze(low).Volatility; got != "Low" {
		t.Fatalf("volatility=%q want Low", got)
	}
}

func TestCompare(t *testing.T) {
	stats := makeStats(100_000)
	exact := &calc.ExactResult{RTP: stats.RTP()}

	cmp := Compare(stats, exact)
	if cmp.AbsDeviation != 0 || !cmp.WithinCI {
		t.Fatalf("%+v", cmp)
	}

	far := &calc.ExactResult{RTP: stats.RTP() + 0.5}
	cmp = Compare(stats, far)
	if math.Abs(cmp.AbsDeviation-0.5) > 1e-12 || cmp.WithinCI {
		t.Fatalf("%+v", cmp)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"slotmath/internal/analysis"
	"slotmath/internal/calc"
	"slotmath/internal/conf"
	"slotmath/internal/data"
	"slotmath/internal/game"
	"slotmath/internal/sim"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewReportService)

// Report 一次完整测算的汇总结果，同时作为上报的消息体
type Report struct {
	ConfigHash string                `json:"configHash"`
	Exact      *calc.ExactResult     `json:"exact,omitempty"`
	Bonus      *calc.BonusResult     `json:"bonus"`
	Simulated  *sim.Summary          `json:"simulated"`
	Risk       *analysis.RiskProfile `json:"risk"`
	Comparison *analysis.Comparison  `json:"comparison,omitempty"`
	Elapsed    string                `json:"elapsed"`
}

// ReportService 串起精确计算、奖励数学、模拟与统计分析，产出数学报告
type ReportService struct {
	cache data.ResultCache
	store sim.RecordStore
	pub   *data.Publisher
	log   *zap.Logger
}

// NewReportService .
func NewReportService(cache data.ResultCache, store sim.RecordStore, pub *data.Publisher, logger *zap.Logger) *ReportService {
	return &ReportService{
		cache: cache,
		store: store,
		pub:   pub,
		log:   logger,
	}
}

// Run 执行完整测算流程并打印报告
func (s *ReportService) Run(ctx context.Context, rc *conf.Run) error {
	raw, err := os.ReadFile(rc.GameConfig)
	if err != nil {
		return fmt.Errorf("读取游戏配置失败: %w", err)
	}
	cfg, err := game.LoadConfig(raw)
	if err != nil {
		return fmt.Errorf("解析游戏配置失败: %w", err)
	}

	start := time.Now()
	report := &Report{ConfigHash: cfg.Hash()}

	report.Exact, err = s.exact(ctx, cfg, rc)
	if err != nil {
		// 组合数超限不致命，退化为纯模拟
		if !errors.Is(err, calc.ErrEnumerationTooLarge) {
			return err
		}
		s.log.Warn("exact enumeration skipped", zap.Error(err))
	}

	report.Bonus = calc.NewBonusCalculator(cfg).Calculate()

	stats, err := s.simulate(ctx, cfg, rc)
	if err != nil {
		return err
	}
	report.Simulated = stats.Summarize()
	report.Risk = analysis.Analyze(stats)
	if report.Exact != nil {
		report.Comparison = analysis.Compare(stats, report.Exact)
	}
	report.Elapsed = time.Since(start).Round(time.Millisecond).String()

	buf := &strings.Builder{}
	s.render(buf, cfg, report)
	fmt.Print(buf.String())

	if err = s.pub.Publish(report); err != nil {
		// 上报失败不影响本地结果
		s.log.Warn("publish report failed", zap.Error(err))
	}
	return nil
}

func (s *ReportService) exact(ctx context.Context, cfg *game.Config, rc *conf.Run) (*calc.ExactResult, error) {
	if cached, err := s.cache.Get(ctx, cfg.Hash()); err == nil {
		s.log.Info("exact result cache hit", zap.String("hash", cfg.Hash()))
		return cached, nil
	} else if !errors.Is(err, data.ErrCacheMiss) {
		s.log.Warn("exact result cache unavailable", zap.Error(err))
	}

	opts := []calc.Option{}
	if rc.MaxCombinations > 0 {
		opts = append(opts, calc.WithMaxCombinations(rc.MaxCombinations))
	}
	result, err := calc.NewExactCalculator(cfg, s.log, opts...).Calculate(ctx)
	if err != nil {
		return nil, err
	}
	if err = s.cache.Set(ctx, cfg.Hash(), result); err != nil {
		s.log.Warn("cache exact result failed", zap.Error(err))
	}
	return result, nil
}

func (s *ReportService) simulate(ctx context.Context, cfg *game.Config, rc *conf.Run) (*sim.AggregateStats, error) {
	req := &sim.Request{
		Spins:     rc.Spins,
		BatchSize: rc.BatchSize,
		Seed:      rc.Seed,
		Workers:   rc.Workers,
		Persist:   rc.Persist,
	}
	return sim.NewSimulator(cfg, s.log, s.store).Run(ctx, req)
}

func (s *ReportService) render(buf *strings.Builder, cfg *game.Config, r *Report) {
	w := func(format string, args ...interface{}) { _, _ = fmt.Fprintf(buf, format, args...) }

	w("\n[总计]\n")
	w("配置hash: %s，用时: %s\n", r.ConfigHash, r.Elapsed)
	w("赔付线数: %d，单局总注(倍数): %d\n", len(cfg.Paylines), cfg.TotalBet())

	if r.Exact != nil {
		w("\n[精确计算]\n")
		w("组合总数: %d\n", r.Exact.Combinations)
		w("理论回报率(RTP): %.4f%%\n", r.Exact.RTP*100)
		w("理论中奖率: %.4f%%\n", r.Exact.HitFrequency*100)
		w("理论标准差: %.4f\n", r.Exact.StdDev)
		w("免费局触发概率: %.6f%%\n", r.Exact.ScatterTriggerProb*100)
	}

	sm := r.Simulated
	w("\n[模拟统计]\n")
	w("模拟局数: %d\n", sm.Spins)
	w("模拟总投注(倍数): %d\n", sm.TotalBet)
	w("模拟总奖金(倍数): %d\n", sm.TotalWin)
	w("模拟回报率(RTP): %.4f%%\n", sm.RTP*100)
	w("模拟中奖率: %.4f%%\n", sm.HitFrequency*100)
	w("免费局触发率: %.6f%%\n", sm.ScatterTriggerRate*100)
	for _, name := range game.WinBucketNames {
		w("  奖金档位 %s: %d\n", name, sm.Histogram[name])
	}

	w("\n[免费模式数学]\n")
	w("触发概率: %.6f%%\n", r.Bonus.TriggerProb*100)
	w("平均初始免费次数: %.4f\n", r.Bonus.AvgInitialSpins)
	w("再触发概率: %.6f%%\n", r.Bonus.RetriggerProb*100)
	w("期望总免费次数: %.4f\n", r.Bonus.ExpectedTotalSpins)
	if sm.Spins > 0 {
		baseWin := float64(sm.TotalWin) / float64(sm.Spins)
		w("免费游戏RTP贡献(估算): %.4f%%\n", r.Bonus.ContributionToRTP(baseWin, float64(cfg.TotalBet()))*100)
	}

	rk := r.Risk
	w("\n[风险分析]\n")
	w("95%%置信区间: [%.4f%%, %.4f%%]\n", rk.CILower*100, rk.CIUpper*100)
	w("波动等级: %s，是否收敛: %v\n", rk.Volatility, rk.Converged)
	for _, b := range []int64{50, 100, 200, 500} {
		if ror, ok := rk.RiskOfRuin[b]; ok {
			w("破产风险(本金%d倍总注): %.4f%%\n", b, ror*100)
		}
	}

	if r.Comparison != nil {
		w("\n[模拟与理论对照]\n")
		w("理论RTP: %.4f%% | 模拟RTP: %.4f%% | 绝对偏差: %.4f%%\n",
			r.Comparison.ExactRTP*100, r.Comparison.SimulatedRTP*100, r.Comparison.AbsDeviation*100)
		w("模拟值落入置信区间: %v\n", r.Comparison.WithinCI)
	}
	w("\n")
}

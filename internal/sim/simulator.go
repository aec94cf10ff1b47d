package sim

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"slotmath/internal/game"
)

var (
	ErrInvalidSpinCount = errors.New("invalid spin count")
	ErrInvalidBatchSize = errors.New("invalid batch size")
)

const _defaultBatchSize = int64(100_000)

// Request 模拟请求
type Request struct {
	Spins     int64   // 旋转次数，必须为正
	BatchSize int64   // 批大小，0取默认10万
	Seed      uint64  // 主种子；单次旋转的随机流仅由（种子，旋转序号）决定
	Workers   int     // 并行批数，0取CPU数
	BaseMoney float64 // 线注金额，0取1
	Multiple  int64   // 投注倍数，0取1
	Persist   bool    // 是否落库原始记录
}

func (r *Request) normalize() error {
	if r.Spins <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSpinCount, r.Spins)
	}
	if r.BatchSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBatchSize, r.BatchSize)
	}
	if r.BatchSize == 0 {
		r.BatchSize = _defaultBatchSize
	}
	if r.Workers <= 0 {
		r.Workers = runtime.NumCPU()
	}
	if r.BaseMoney <= 0 {
		r.BaseMoney = 1
	}
	if r.Multiple <= 0 {
		r.Multiple = 1
	}
	return nil
}

// lineBetAmount 单线投注金额
func (r *Request) lineBetAmount() decimal.Decimal {
	return decimal.NewFromFloat(r.BaseMoney).Mul(decimal.NewFromInt(r.Multiple))
}

// SpinRecord 单次旋转的原始记录（可选持久化），核心统计不依赖它
type SpinRecord struct {
	SpinIndex      int64
	TotalWin       int64 // 总注倍数单位
	ScatterWin     int64
	WinAmount      float64 // 金额 = 线注 * 倍数，四舍五入2位
	IsBonusTrigger bool
	LineWins       []game.LineWin
}

// RecordStore 批内追加写入。单批失败只影响该批的落库，
// 不污染已提交批次，也不中断统计
type RecordStore interface {
	SaveSpinBatch(ctx context.Context, batch []*SpinRecord) error
	// SaveCheckpoints 整次运行结束后落地收敛轨迹，run为配置hash
	SaveCheckpoints(ctx context.Context, run string, cps []Checkpoint) error
}

// Simulator 蒙特卡洛模拟器：按批生成、结算、折叠、丢弃，
// 峰值内存为 O(批大小*并行度)，与总旋转数无关
type Simulator struct {
	cfg   *game.Config
	ev    *game.Evaluator
	log   *zap.Logger
	store RecordStore
}

// NewSimulator store 可为 nil（不持久化）
func NewSimulator(cfg *game.Config, logger *zap.Logger, store RecordStore) *Simulator {
	return &Simulator{cfg: cfg, ev: game.NewEvaluator(cfg), log: logger, store: store}
}

// Run 执行模拟。相同种子与旋转数产出逐位一致的统计值，
// 与批大小、并行度无关；取消只在批边界生效，
// 返回的聚合始终覆盖整批完成的前缀，可直接使用
func (s *Simulator) Run(ctx context.Context, req *Request) (*AggregateStats, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	batches := (req.Spins + req.BatchSize - 1) / req.BatchSize
	partials := make([]*AggregateStats, batches)

	pool, err := ants.NewPool(req.Workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	submitted := int64(0)
	for b := int64(0); b < batches; b++ {
		if ctx.Err() != nil {
			break
		}
		batchIdx := b
		wg.Add(1)
		if err = pool.Submit(func() {
			defer wg.Done()
			partials[batchIdx] = s.runBatch(ctx, req, batchIdx)
		}); err != nil {
			wg.Done()
			break
		}
		submitted++
	}
	wg.Wait()

	// 按批次顺序折叠，保证确定性；检查点记录在每批边界
	stats := &AggregateStats{}
	for _, p := range partials {
		if p == nil {
			break
		}
		stats.Merge(p)
		stats.RecordCheckpoint()
	}

	s.log.Info("simulation done",
		zap.Int64("spins", stats.Spins),
		zap.Int64("batches", submitted),
		zap.Float64("rtp", stats.RTP()),
		zap.Float64("hitFreq", stats.HitFrequency()),
	)

	if req.Persist && s.store != nil {
		if serr := s.store.SaveCheckpoints(ctx, s.cfg.Hash(), stats.Checkpoints); serr != nil {
			s.log.Warn("save checkpoints", zap.Error(serr))
		}
	}

	switch {
	case err != nil:
		return stats, err
	case ctx.Err() != nil:
		return stats, ctx.Err()
	default:
		return stats, nil
	}
}

// runBatch 生成并结算一批，批内记录用完即弃
func (s *Simulator) runBatch(ctx context.Context, req *Request, batchIdx int64) *AggregateStats {
	start := batchIdx * req.BatchSize
	count := req.BatchSize
	if remaining := req.Spins - start; remaining < count {
		count = remaining
	}

	stats := &AggregateStats{}
	var records []*SpinRecord
	persist := req.Persist && s.store != nil
	if persist {
		records = make([]*SpinRecord, 0, count)
	}

	totalBet := s.cfg.TotalBet()
	lineBet := req.lineBetAmount()
	for i := int64(0); i < count; i++ {
		spinIndex := start + i
		grid := game.SpinAt(s.cfg, req.Seed, spinIndex)
		eval := s.ev.Evaluate(&grid)
		stats.Fold(eval, totalBet, s.cfg.ScatterTrigger)

		if persist {
			amount := lineBet.Mul(decimal.NewFromInt(eval.TotalMultiplier)).Round(2)
			records = append(records, &SpinRecord{
				SpinIndex:      spinIndex,
				TotalWin:       eval.TotalMultiplier,
				ScatterWin:     eval.ScatterMultiplier,
				WinAmount:      amount.InexactFloat64(),
				IsBonusTrigger: eval.ScatterCount >= s.cfg.ScatterTrigger,
				LineWins:       eval.LineWins,
			})
		}
	}

	if persist {
		if err := s.store.SaveSpinBatch(ctx, records); err != nil {
			// 落库与统计解耦：失败只记日志，聚合照常有效
			s.log.Warn("save spin batch", zap.Int64("batch", batchIdx), zap.Error(err))
		}
	}
	return stats
}

package data

import (
	"context"
	"time"

	"slotmath/internal/sim"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var _json = jsoniter.ConfigCompatibleWithStandardLibrary

// SpinOrder 逐次旋转的落地记录
type SpinOrder struct {
	Id             int64     `xorm:"pk autoincr 'id'"`
	SpinIndex      int64     `xorm:"'spin_index' index"`
	TotalWin       int64     `xorm:"'total_win'"`
	ScatterWin     int64     `xorm:"'scatter_win'"`
	WinAmount      float64   `xorm:"'win_amount'"`
	IsBonusTrigger bool      `xorm:"'is_bonus_trigger'"`
	LineWins       string    `xorm:"'line_wins' text"` // JSON
	CreatedAt      time.Time `xorm:"created 'created_at'"`
}

// TableName .
func (SpinOrder) TableName() string { return "spin_order" }

// ConvergenceOrder 收敛检查点，按配置hash归档
type ConvergenceOrder struct {
	Id         int64     `xorm:"pk autoincr 'id'"`
	ConfigHash string    `xorm:"'config_hash' index varchar(64)"`
	Spins      int64     `xorm:"'spins'"`
	Rtp        float64   `xorm:"'rtp'"`
	HitFreq    float64   `xorm:"'hit_freq'"`
	StdDev     float64   `xorm:"'std_dev'"`
	CreatedAt  time.Time `xorm:"created 'created_at'"`
}

// TableName .
func (ConvergenceOrder) TableName() string { return "convergence_order" }

type recordStore struct {
	data *Data
	log  *zap.Logger
}

// NewRecordStore 基于MySQL的旋转记录落地。未配置数据库时返回空实现
func NewRecordStore(data *Data, logger *zap.Logger) (sim.RecordStore, error) {
	if data.db == nil {
		return nopRecordStore{}, nil
	}
	if err := data.db.Sync(new(SpinOrder), new(ConvergenceOrder)); err != nil {
		return nil, err
	}
	return &recordStore{data: data, log: logger}, nil
}

func (s *recordStore) SaveSpinBatch(ctx context.Context, records []*sim.SpinRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]*SpinOrder, 0, len(records))
	for _, r := range records {
		lines, err := _json.MarshalToString(r.LineWins)
		if err != nil {
			return err
		}
		rows = append(rows, &SpinOrder{
			SpinIndex:      r.SpinIndex,
			TotalWin:       r.TotalWin,
			ScatterWin:     r.ScatterWin,
			WinAmount:      r.WinAmount,
			IsBonusTrigger: r.IsBonusTrigger,
			LineWins:       lines,
		})
	}
	_, err := s.data.db.Context(ctx).Insert(&rows)
	return err
}

func (s *recordStore) SaveCheckpoints(ctx context.Context, run string, cps []sim.Checkpoint) error {
	if len(cps) == 0 {
		return nil
	}
	rows := make([]*ConvergenceOrder, 0, len(cps))
	for _, cp := range cps {
		rows = append(rows, &ConvergenceOrder{
			ConfigHash: run,
			Spins:      cp.Spins,
			Rtp:        cp.RTP,
			HitFreq:    cp.HitFreq,
			StdDev:     cp.StdDev,
		})
	}
	_, err := s.data.db.Context(ctx).Insert(&rows)
	return err
}

type nopRecordStore struct{}

func (nopRecordStore) SaveSpinBatch(context.Context, []*sim.SpinRecord) error { return nil }

func (nopRecordStore) SaveCheckpoints(context.Context, string, []sim.Checkpoint) error { return nil }

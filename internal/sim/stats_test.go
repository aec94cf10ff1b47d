package sim

import (
	"testing"

	"slotmath/internal/game"
)

func makeEvals(n int) []*game.WinEvaluation {
	evals := make([]*game.WinEvaluation, 0, n)
	for i := 0; i < n; i++ {
		// 构造覆盖各分档的确定性序列
		win := int64(i%7) * int64(i%11)
		scatter := int64(i % 6)
		evals = append(evals, &game.WinEvaluation{
			ScatterCount:    scatter,
			TotalMultiplier: win,
		})
	}
	return evals
}

func foldAll(evals []*game.WinEvaluation) *AggregateStats {
	stats := &AggregateStats{}
	for _, e := range evals {
		stats.Fold(e, 3, 3)
	}
	return stats
}

func sameCore(a, b *AggregateStats) bool {
	return a.Spins == b.Spins &&
		a.TotalBet == b.TotalBet &&
		a.TotalWin == b.TotalWin &&
		a.TotalWinSq == b.TotalWinSq &&
		a.HitCount == b.HitCount &&
		a.ScatterTriggers == b.ScatterTriggers &&
		a.Buckets == b.Buckets
}

func TestMergeEquivalence(t *testing.T) {
	evals := makeEvals(1000)
	whole := foldAll(evals)

	// 任意批次划分合并后与整体折叠一致
	for _, batch := range []int{1, 7, 100, 333, 1000} {
		merged := &AggregateStats{}
		for lo := 0; lo < len(evals); lo += batch {
			hi := min(lo+batch, len(evals))
			merged.Merge(foldAll(evals[lo:hi]))
		}
		if !sameCore(whole, merged) {
			t.Fatalf("批大小%d合并结果不一致", batch)
		}
	}
}

func TestFoldCounting(t *testing.T) {
	stats := &AggregateStats{}
	stats.Fold(&game.WinEvaluation{TotalMultiplier: 0}, 3, 3)
	stats.Fold(&game.WinEvaluation{TotalMultiplier: 2}, 3, 3)   // push: 2/3 <= 1
	stats.Fold(&game.WinEvaluation{TotalMultiplier: 12}, 3, 3)  // small: 4x
	stats.Fold(&game.WinEvaluation{TotalMultiplier: 400, ScatterCount: 4}, 3, 3) // mega: 133x

	if stats.Spins != 4 || stats.TotalBet != 12 || stats.TotalWin != 414 {
		t.Fatalf("%+v", stats)
	}
	if stats.HitCount != 3 {
		t.Fatalf("hitCount=%d want 3", stats.HitCount)
	}
	if stats.ScatterTriggers != 1 {
		t.Fatalf("scatterTriggers=%d want 1", stats.ScatterTriggers)
	}
	want := [game.WinBucketCount]int64{1, 1, 1, 0, 0, 1}
	if stats.Buckets != want {
		t.Fatalf("buckets=%v want %v", stats.Buckets, want)
	}
}

func TestVariance(t *testing.T) {
	stats := &AggregateStats{}
	// 赢分恒定时方差为0
	for i := 0; i < 10; i++ {
		stats.Fold(&game.WinEvaluation{TotalMultiplier: 5}, 1, 3)
	}
	if stats.Variance() != 0 {
		t.Fatalf("常数序列方差=%v", stats.Variance())
	}

	// 两点分布 {0,10} 各半：均值5，方差25
	stats = &AggregateStats{}
	for i := 0; i < 10; i++ {
		stats.Fold(&game.WinEvaluation{TotalMultiplier: int64(i%2) * 10}, 1, 3)
	}
	if stats.Variance() != 25 {
		t.Fatalf("方差=%v want 25", stats.Variance())
	}

	empty := &AggregateStats{}
	if empty.Variance() != 0 || empty.RTP() != 0 || empty.HitFrequency() != 0 {
		t.Fatal("空聚合应全为0")
	}
}

func TestCheckpointsAndSummary(t *testing.T) {
	stats := foldAll(makeEvals(100))
	stats.RecordCheckpoint()
	stats.Fold(&game.WinEvaluation{TotalMultiplier: 3}, 3, 3)
	stats.RecordCheckpoint()

	if len(stats.Checkpoints) != 2 {
		t.Fatalf("checkpoints=%d want 2", len(stats.Checkpoints))
	}
	if stats.Checkpoints[0].Spins != 100 || stats.Checkpoints[1].Spins != 101 {
		t.Fatalf("%+v", stats.Checkpoints)
	}

	sm := stats.Summarize()
	if sm.Spins != stats.Spins || sm.RTP != stats.RTP() {
		t.Fatalf("%+v", sm)
	}
	total := int64(0)
	for _, name := range game.WinBucketNames {
		total += sm.Histogram[name]
	}
	if total != stats.Spins {
		t.Fatalf("分档合计=%d want %d", total, stats.Spins)
	}
}

package game

import "testing"

func TestReelWindowWraparound(t *testing.T) {
	cfg := mustLoadTestConfig(t)
	strip := cfg.Reels.Strip(0) // [1,1,1,1,2,2,2,8,9,0]

	rows := strip.WindowAt(8)
	want := [RowCount]int64{9, 0, 1}
	if rows != want {
		t.Fatalf("window(8)=%v want %v", rows, want)
	}
	rows = strip.WindowAt(9)
	want = [RowCount]int64{0, 1, 1}
	if rows != want {
		t.Fatalf("window(9)=%v want %v", rows, want)
	}
}

func TestDistinctWindowsWeight(t *testing.T) {
	cfg := mustLoadTestConfig(t)

	for col := int64(0); col < ColCount; col++ {
		strip := cfg.Reels.Strip(col)
		windows := strip.DistinctWindows()

		// 权重之和必须还原为停止位总数
		sum := int64(0)
		for _, w := range windows {
			sum += w.Weight
		}
		if sum != strip.TotalStops() {
			t.Fatalf("reel%d 权重和=%d want %d", col, sum, strip.TotalStops())
		}
		if int64(len(windows)) > strip.TotalStops() {
			t.Fatalf("reel%d 去重窗口数超过停止位数", col)
		}

		// 去重后不存在重复窗口
		seen := map[[RowCount]int64]bool{}
		for _, w := range windows {
			if seen[w.Rows] {
				t.Fatalf("reel%d 窗口重复: %v", col, w.Rows)
			}
			seen[w.Rows] = true
		}
	}
}

func TestSymbolProbability(t *testing.T) {
	cfg := mustLoadTestConfig(t)
	strip := cfg.Reels.Strip(0)

	if got := strip.SymbolStops(1); got != 4 {
		t.Fatalf("symbolStops(1)=%d want 4", got)
	}
	if got := strip.SymbolProbability(9); got != 0.1 {
		t.Fatalf("p(scatter)=%v want 0.1", got)
	}
	if got := strip.SymbolProbability(7); got != 0 {
		t.Fatalf("不在轮上的符号概率应为0, got %v", got)
	}
}

func TestCombinations(t *testing.T) {
	cfg := mustLoadTestConfig(t)
	if got := cfg.Reels.Combinations(); got != 100000 {
		t.Fatalf("combinations=%d want 100000", got)
	}
}

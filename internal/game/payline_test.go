package game

import "testing"

// gridWithMiddleRow 中线填指定符号，其余行填空
func gridWithMiddleRow(symbols [ColCount]int64) *Grid {
	grid := &Grid{}
	for c := int64(0); c < ColCount; c++ {
		grid[1][c] = symbols[c]
	}
	return grid
}

func TestEvaluateLine(t *testing.T) {
	cfg := mustLoadTestConfig(t)
	ev := NewEvaluator(cfg)

	cases := []struct {
		name       string
		middle     [ColCount]int64
		symbol     int64
		count      int64
		multiplier int64
	}{
		{"三连", [ColCount]int64{1, 1, 1, 2, 2}, 1, 3, 5},
		{"五连", [ColCount]int64{2, 2, 2, 2, 2}, 2, 5, 80},
		{"两连不派彩", [ColCount]int64{1, 1, 2, 2, 0}, 0, 0, 0},
		{"百搭补位", [ColCount]int64{1, 8, 1, 1, 2}, 1, 4, 15},
		{"百搭前缀延迟定符", [ColCount]int64{8, 8, 2, 2, 1}, 2, 4, 25},
		{"全百搭按百搭结算", [ColCount]int64{8, 8, 8, 8, 8}, 8, 5, 1000},
		{"百搭前缀后遇空", [ColCount]int64{8, 8, 0, 1, 1}, 0, 0, 0},
		{"空终止连线", [ColCount]int64{1, 0, 1, 1, 1}, 0, 0, 0},
		{"夺宝终止连线", [ColCount]int64{1, 1, 9, 1, 1}, 0, 0, 0},
		{"不匹配终止但前段成立", [ColCount]int64{1, 1, 1, 2, 1}, 1, 3, 5},
		{"首列空整线无效", [ColCount]int64{0, 1, 1, 1, 1}, 0, 0, 0},
	}

	middleLine := Payline{1, 1, 1, 1, 1}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grid := gridWithMiddleRow(tc.middle)
			win, ok := ev.evaluateLine(grid, 0, middleLine)
			if tc.multiplier == 0 {
				if ok {
					t.Fatalf("不应中奖: %+v", win)
				}
				return
			}
			if !ok {
				t.Fatal("应中奖但未中")
			}
			if win.Symbol != tc.symbol || win.SymbolCount != tc.count || win.Multiplier != tc.multiplier {
				t.Fatalf("got symbol=%d count=%d mult=%d, want %d/%d/%d",
					win.Symbol, win.SymbolCount, win.Multiplier, tc.symbol, tc.count, tc.multiplier)
			}
		})
	}
}

func TestEvaluateMultiLine(t *testing.T) {
	cfg := mustLoadTestConfig(t)
	ev := NewEvaluator(cfg)

	// 上中下三行各一条线：上行三连A，中行五连B，下行空
	grid := &Grid{}
	for c := int64(0); c < ColCount; c++ {
		grid[1][c] = 2
	}
	grid[0][0], grid[0][1], grid[0][2] = 1, 1, 1

	eval := ev.Evaluate(grid)
	if len(eval.LineWins) != 2 {
		t.Fatalf("中奖线数=%d want 2", len(eval.LineWins))
	}
	if eval.TotalMultiplier != 5+80 {
		t.Fatalf("总倍数=%d want 85", eval.TotalMultiplier)
	}
	if eval.ScatterCount != 0 || eval.ScatterMultiplier != 0 {
		t.Fatalf("不应有夺宝奖励: %+v", eval)
	}
}

func TestScatterAnywhere(t *testing.T) {
	cfg := mustLoadTestConfig(t)
	ev := NewEvaluator(cfg)

	// 夺宝与位置无关：同样3个夺宝换位置，结果一致
	g1 := &Grid{}
	g1[0][0], g1[1][2], g1[2][4] = 9, 9, 9
	g2 := &Grid{}
	g2[2][0], g2[0][1], g2[1][3] = 9, 9, 9

	e1, e2 := ev.Evaluate(g1), ev.Evaluate(g2)
	if e1.ScatterCount != 3 || e2.ScatterCount != 3 {
		t.Fatalf("scatterCount=%d/%d want 3", e1.ScatterCount, e2.ScatterCount)
	}
	if e1.ScatterMultiplier != e2.ScatterMultiplier || e1.ScatterMultiplier != cfg.ScatterPay(3) {
		t.Fatalf("夺宝奖励不一致: %d vs %d", e1.ScatterMultiplier, e2.ScatterMultiplier)
	}

	// 同一列堆叠的夺宝同样计数
	g3 := &Grid{}
	g3[0][0], g3[1][0], g3[2][0] = 9, 9, 9
	if got := ev.ScatterCount(g3); got != 3 {
		t.Fatalf("同列夺宝计数=%d want 3", got)
	}
}

func TestSpinDeterministic(t *testing.T) {
	cfg := mustLoadTestConfig(t)

	for i := int64(0); i < 100; i++ {
		g1 := SpinAt(cfg, 7, i)
		g2 := SpinAt(cfg, 7, i)
		if g1 != g2 {
			t.Fatalf("同参数旋转结果不一致: spin=%d", i)
		}
	}
	// 不同种子应产生不同序列（概率上必然）
	diff := false
	for i := int64(0); i < 100; i++ {
		if SpinAt(cfg, 7, i) != SpinAt(cfg, 8, i) {
			diff = true
			break
		}
	}
	if !diff {
		t.Fatal("不同种子产生了完全相同的序列")
	}
}

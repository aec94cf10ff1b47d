package game

// Evaluator 支付线结算器。对给定盘面从左到右扫描每条支付线，
// 百搭前缀的目标符号延迟确定，无需回溯（最多5步）
type Evaluator struct {
	cfg *Config
}

// NewEvaluator .
func NewEvaluator(cfg *Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate 结算全部支付线及全盘夺宝
func (e *Evaluator) Evaluate(grid *Grid) *WinEvaluation {
	eval := &WinEvaluation{}
	for i, line := range e.cfg.Paylines {
		if win, ok := e.evaluateLine(grid, int64(i), line); ok {
			eval.LineWins = append(eval.LineWins, win)
			eval.TotalMultiplier += win.Multiplier
		}
	}
	eval.ScatterCount = e.ScatterCount(grid)
	eval.ScatterMultiplier = e.cfg.ScatterPay(eval.ScatterCount)
	eval.TotalMultiplier += eval.ScatterMultiplier
	return eval
}

// evaluateLine 单条线扫描：
// 目标符号由第一个非百搭的付费符号确定，此前的百搭计入连线；
// 空、夺宝或不匹配的付费符号立即终止（不回绕、不反向）。
// 全百搭按百搭自身的赔付行结算
func (e *Evaluator) evaluateLine(grid *Grid, idx int64, line Payline) (LineWin, bool) {
	target := int64(-1)
	count := int64(0)

scan:
	for c := int64(0); c < ColCount; c++ {
		symbol := grid[line[c]][c]
		switch {
		case symbol == e.cfg.Wild && e.cfg.Wild >= 0:
			count++
		case e.cfg.Kind(symbol) == KindPaying:
			switch target {
			case -1:
				target = symbol
				count++
			case symbol:
				count++
			default:
				break scan
			}
		default:
			// 空或夺宝都终止连线
			break scan
		}
	}

	if target == -1 {
		target = e.cfg.Wild
	}
	multiplier := e.cfg.LinePay(target, count)
	if multiplier <= 0 {
		return LineWin{}, false
	}
	return LineWin{Line: idx, Symbol: target, SymbolCount: count, Multiplier: multiplier}, true
}

// ScatterCount 全盘夺宝数量，与支付线无关
func (e *Evaluator) ScatterCount(grid *Grid) int64 {
	if e.cfg.Scatter < 0 {
		return 0
	}
	count := int64(0)
	for r := int64(0); r < RowCount; r++ {
		for c := int64(0); c < ColCount; c++ {
			if grid[r][c] == e.cfg.Scatter {
				count++
			}
		}
	}
	return count
}

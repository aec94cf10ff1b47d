package game

import (
	"fmt"
	"strings"
)

// SymbolKind 符号类别，封闭枚举
type SymbolKind int64

const (
	KindBlank   SymbolKind = iota // 空
	KindPaying                    // 付费符号
	KindWild                      // 百搭
	KindScatter                   // 夺宝
)

// Symbol 符号定义，配置加载后不可变
type Symbol struct {
	ID   int64      `json:"id"`
	Name string     `json:"name"`
	Kind SymbolKind `json:"kind"`
}

// Grid 5x3 盘面，以'行'为组
type Grid [RowCount][ColCount]int64

// Payline 支付线：每列一个行号，从左到右
type Payline [ColCount]int64

// LineWin 单条支付线的中奖结果
type LineWin struct {
	Line        int64 `json:"line"`        // 支付线编号，从0开始
	Symbol      int64 `json:"symbol"`      // 结算符号（全百搭时为百搭本身）
	SymbolCount int64 `json:"symbolCount"` // 连线数量
	Multiplier  int64 `json:"multiplier"`  // 线注倍数
}

// WinEvaluation 单次旋转的完整中奖结果
type WinEvaluation struct {
	LineWins          []LineWin `json:"lineWins"`
	ScatterCount      int64     `json:"scatterCount"`
	ScatterMultiplier int64     `json:"scatterMultiplier"` // 夺宝奖励，按总注倍数
	TotalMultiplier   int64     `json:"totalMultiplier"`   // 线奖合计 + 夺宝奖励
}

// HasWin 是否有任何奖励
func (w *WinEvaluation) HasWin() bool { return w.TotalMultiplier > 0 }

// GridToString 盘面打印（调试用）
func GridToString(grid *Grid) string {
	if grid == nil {
		return "(空)\n"
	}
	var buf strings.Builder
	for r := int64(0); r < RowCount; r++ {
		for c := int64(0); c < ColCount; c++ {
			symbol := grid[r][c]
			if symbol == BlankSymbol {
				buf.WriteString("    |")
			} else {
				fmt.Fprintf(&buf, " %2d |", symbol)
			}
			if c < ColCount-1 {
				buf.WriteString(" ")
			}
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

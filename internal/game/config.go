package game

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var (
	ErrConfigSymbol   = errors.New("invalid symbol config")
	ErrConfigReel     = errors.New("invalid reel config")
	ErrConfigPayline  = errors.New("invalid payline config")
	ErrConfigPayTable = errors.New("invalid pay table config")
)

type symbolJson struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"` // paying | wild | scatter
}

type reelRunJson struct {
	Symbol int64 `json:"symbol"`
	Stops  int64 `json:"stops"`
}

// gameConfigJson 数学配置文档的外部形态
type gameConfigJson struct {
	Symbols        []symbolJson       `json:"symbols"`
	Reels          [][]reelRunJson    `json:"reels"`           // 每个转轮为有序的（符号，停止位数）段
	Paylines       [][]int64          `json:"paylines"`        // 每条线5个行号
	PayTable       map[string][]int64 `json:"pay_table"`       // 符号id -> 按连线数索引的倍率表（下标即连线数）
	ScatterPays    []int64            `json:"scatter_pays"`    // 夺宝数量 -> 总注倍数（下标即数量）
	ScatterTrigger int64              `json:"scatter_trigger"` // 触发免费的夺宝数量，默认3
	FreeSpinCount  []int64            `json:"free_spin_count"` // 夺宝数量 -> 免费次数，如 [0,0,0,7,10,15]
	RetriggerSpins int64              `json:"retrigger_spins"` // 免费中再触发的追加次数
}

// Config 加载校验后的游戏数学配置，整个运行期间不可变
type Config struct {
	Symbols map[int64]Symbol
	Wild    int64 // 百搭符号id，-1为未配置
	Scatter int64 // 夺宝符号id，-1为未配置

	Reels    *ReelSet
	Paylines []Payline

	PayTable       map[int64][]int64
	ScatterPays    []int64
	ScatterTrigger int64
	FreeSpinCount  []int64
	RetriggerSpins int64

	hash string
}

// LoadConfig 解析并校验配置文档。结构性错误一律拒绝，不做默认值兜底
func LoadConfig(raw []byte) (*Config, error) {
	var doc gameConfigJson
	if err := jsoniter.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigSymbol, err)
	}

	cfg := &Config{
		Symbols:        make(map[int64]Symbol, len(doc.Symbols)+1),
		Wild:           -1,
		Scatter:        -1,
		PayTable:       make(map[int64][]int64, len(doc.PayTable)),
		ScatterPays:    doc.ScatterPays,
		ScatterTrigger: doc.ScatterTrigger,
		FreeSpinCount:  doc.FreeSpinCount,
		RetriggerSpins: doc.RetriggerSpins,
	}
	cfg.Symbols[BlankSymbol] = Symbol{ID: BlankSymbol, Name: "BLANK", Kind: KindBlank}

	if err := cfg.loadSymbols(doc.Symbols); err != nil {
		return nil, err
	}
	if err := cfg.loadReels(doc.Reels); err != nil {
		return nil, err
	}
	if err := cfg.loadPaylines(doc.Paylines); err != nil {
		return nil, err
	}
	if err := cfg.loadPayTable(doc.PayTable); err != nil {
		return nil, err
	}

	if cfg.ScatterTrigger <= 0 {
		cfg.ScatterTrigger = _defaultScatterTrigger
	}

	sum := sha1.Sum(raw)
	cfg.hash = hex.EncodeToString(sum[:])
	return cfg, nil
}

func (c *Config) loadSymbols(symbols []symbolJson) error {
	for i, s := range symbols {
		if s.ID <= BlankSymbol {
			return fmt.Errorf("%w: symbols[%d].id=%d must be positive", ErrConfigSymbol, i, s.ID)
		}
		if _, ok := c.Symbols[s.ID]; ok {
			return fmt.Errorf("%w: symbols[%d].id=%d duplicated", ErrConfigSymbol, i, s.ID)
		}
		var kind SymbolKind
		switch s.Kind {
		case "paying":
			kind = KindPaying
		case "wild":
			if c.Wild >= 0 {
				return fmt.Errorf("%w: symbols[%d] second wild symbol", ErrConfigSymbol, i)
			}
			kind = KindWild
			c.Wild = s.ID
		case "scatter":
			if c.Scatter >= 0 {
				return fmt.Errorf("%w: symbols[%d] second scatter symbol", ErrConfigSymbol, i)
			}
			kind = KindScatter
			c.Scatter = s.ID
		default:
			return fmt.Errorf("%w: symbols[%d].kind=%q unknown", ErrConfigSymbol, i, s.Kind)
		}
		c.Symbols[s.ID] = Symbol{ID: s.ID, Name: s.Name, Kind: kind}
	}
	return nil
}

func (c *Config) loadReels(reels [][]reelRunJson) error {
	if int64(len(reels)) != ColCount {
		return fmt.Errorf("%w: reels count=%d want %d", ErrConfigReel, len(reels), ColCount)
	}
	var strips [ColCount]*ReelStrip
	for i, runs := range reels {
		if len(runs) == 0 {
			return fmt.Errorf("%w: reels[%d] is empty", ErrConfigReel, i)
		}
		strip := &ReelStrip{}
		for j, run := range runs {
			if run.Stops <= 0 {
				return fmt.Errorf("%w: reels[%d][%d].stops=%d must be positive", ErrConfigReel, i, j, run.Stops)
			}
			if _, ok := c.Symbols[run.Symbol]; !ok {
				return fmt.Errorf("%w: reels[%d][%d].symbol=%d undefined", ErrConfigReel, i, j, run.Symbol)
			}
			for k := int64(0); k < run.Stops; k++ {
				strip.stops = append(strip.stops, run.Symbol)
			}
		}
		strip.total = int64(len(strip.stops))
		strips[i] = strip
	}
	c.Reels = &ReelSet{strips: strips}
	return nil
}

func (c *Config) loadPaylines(lines [][]int64) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: paylines is empty", ErrConfigPayline)
	}
	for i, rows := range lines {
		if int64(len(rows)) != ColCount {
			return fmt.Errorf("%w: paylines[%d] length=%d want %d", ErrConfigPayline, i, len(rows), ColCount)
		}
		var line Payline
		for j, row := range rows {
			if row < 0 || row >= RowCount {
				return fmt.Errorf("%w: paylines[%d][%d].row=%d out of range", ErrConfigPayline, i, j, row)
			}
			line[j] = row
		}
		c.Paylines = append(c.Paylines, line)
	}
	return nil
}

func (c *Config) loadPayTable(table map[string][]int64) error {
	for key, pays := range table {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: pay_table[%q] invalid symbol id", ErrConfigPayTable, key)
		}
		symbol, ok := c.Symbols[id]
		if !ok {
			return fmt.Errorf("%w: pay_table[%q] references undefined symbol", ErrConfigPayTable, key)
		}
		if symbol.Kind != KindPaying && symbol.Kind != KindWild {
			return fmt.Errorf("%w: pay_table[%q] symbol is not paying/wild", ErrConfigPayTable, key)
		}
		if int64(len(pays)) != _maxMatchCount+1 {
			return fmt.Errorf("%w: pay_table[%q] length=%d want %d", ErrConfigPayTable, key, len(pays), _maxMatchCount+1)
		}
		c.PayTable[id] = pays
	}
	for id, symbol := range c.Symbols {
		if symbol.Kind != KindPaying && symbol.Kind != KindWild {
			continue
		}
		if _, ok := c.PayTable[id]; !ok {
			return fmt.Errorf("%w: pay_table missing entry for symbol %d", ErrConfigPayTable, id)
		}
	}
	if c.Scatter >= 0 && int64(len(c.ScatterPays)) != _maxMatchCount+1 {
		return fmt.Errorf("%w: scatter_pays length=%d want %d", ErrConfigPayTable, len(c.ScatterPays), _maxMatchCount+1)
	}
	return nil
}

// Kind 符号类别，未定义的符号按空处理
func (c *Config) Kind(symbol int64) SymbolKind {
	return c.Symbols[symbol].Kind
}

// LinePay 支付线倍率：连线数不足最小要求时为0
func (c *Config) LinePay(symbol, count int64) int64 {
	if count < _minMatchCount || count > _maxMatchCount {
		return 0
	}
	pays, ok := c.PayTable[symbol]
	if !ok {
		return 0
	}
	return pays[count]
}

// ScatterPay 夺宝奖励：按全盘数量查表，超出表尾按满档计
func (c *Config) ScatterPay(count int64) int64 {
	if c.Scatter < 0 || count < c.ScatterTrigger {
		return 0
	}
	if count > _maxMatchCount {
		count = _maxMatchCount
	}
	return c.ScatterPays[count]
}

// FreeSpinAward 触发的免费次数，按夺宝数量查表
func (c *Config) FreeSpinAward(count int64) int64 {
	if count >= int64(len(c.FreeSpinCount)) {
		count = int64(len(c.FreeSpinCount)) - 1
	}
	if count < 0 || len(c.FreeSpinCount) == 0 {
		return 0
	}
	return c.FreeSpinCount[count]
}

// TotalBet 单次旋转的总注（每线1注）
func (c *Config) TotalBet() int64 { return int64(len(c.Paylines)) }

// Hash 配置指纹，用于结果缓存
func (c *Config) Hash() string { return c.hash }

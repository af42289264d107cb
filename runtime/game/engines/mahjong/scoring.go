package mahjong

// WinningHand 和了时的牌姿，From 为放铳家（自摸时等于 Winner）
type WinningHand struct {
	Winner    Wind
	From      Wind
	Concealed []Tile // 不含和了牌
	WinTile   Tile
	Melds     []Meld
}

func (h WinningHand) IsTsumo() bool {
	return h.Winner == h.From
}

// Tiles 门内全部牌（含和了牌）
func (h WinningHand) Tiles() []Tile {
	return append(append([]Tile(nil), h.Concealed...), h.WinTile)
}

// SituationFlags 役种判定需要的场况
type SituationFlags struct {
	Tsumo        bool
	Dealer       bool
	FirstAround  bool // 第一巡（天和/地和）
	AfterKan     bool // 岭上开花
	Chankan      bool // 抢杠
	LastTile     bool // 海底/河底
	Riichi       bool
	DoubleRiichi bool
	Ippatsu      bool
	SeatWind     Wind
	RoundWind    Wind
	Dora         []Tile // 宝牌指示牌
	Ura          []Tile // 里宝牌指示牌，仅立直时提供
}

// Score 已算好的和了，按风位给出点数变动
type Score interface {
	// PaymentsFor 含供托和本场的点数变动，按风位索引
	PaymentsFor(deposits, honba int) [4]int
}

// ScoringEngine 点数计算，外部提供
type ScoringEngine interface {
	// ScoreWin 不能和了时返回包装了 ErrNotWinningHand 的错误
	ScoreWin(hand WinningHand, flags SituationFlags) (Score, error)
	// ScoreRiverLimit 流局满贯
	ScoreRiverLimit(winner Wind) Score
}

package scoring

import (
	"fmt"

	"gomahjong/runtime/game/engines/mahjong"
)

// Score 一次和了的计算结果
type Score struct {
	Winner      mahjong.Wind
	From        mahjong.Wind
	Dealer      bool
	Han         int
	Fu          int
	YakumanMult int
	Base        int // 基本点
	Yakus       []Yaku
	Dora        int
}

func (s *Score) IsTsumo() bool {
	return s.Winner == s.From
}

// PaymentsFor 按风位给出点数变动，含本场和供托
func (s *Score) PaymentsFor(deposits, honba int) [4]int {
	var pay [4]int
	if s.IsTsumo() {
		for _, w := range mahjong.Winds {
			if w == s.Winner {
				continue
			}
			var p int
			if s.Dealer || w == mahjong.WindEast {
				p = roundUpTo100(s.Base*2) + 100*honba
			} else {
				p = roundUpTo100(s.Base) + 100*honba
			}
			pay[w] -= p
			pay[s.Winner] += p
		}
	} else {
		mult := 4
		if s.Dealer {
			mult = 6
		}
		p := roundUpTo100(s.Base*mult) + 300*honba
		pay[s.From] -= p
		pay[s.Winner] += p
	}
	pay[s.Winner] += 1000 * deposits
	return pay
}

func (s *Score) String() string {
	if s.YakumanMult > 0 {
		return fmt.Sprintf("%s 役满x%d %v", s.Winner, s.YakumanMult, s.Yakus)
	}
	return fmt.Sprintf("%s %d番%d符 基本点%d %v", s.Winner, s.Han, s.Fu, s.Base, s.Yakus)
}

// BasicScorer 日麻四人标准计分
type BasicScorer struct {
	registry []YakuChecker
}

func NewBasicScorer() *BasicScorer {
	return &BasicScorer{registry: RiichiMahjong4pYakuRegistry}
}

// ScoreWin 取所有和了形解释中基本点最高的
func (bs *BasicScorer) ScoreWin(hand mahjong.WinningHand, flags mahjong.SituationFlags) (mahjong.Score, error) {
	candidates := forms(hand)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%s 的手牌 %v 无法拆解: %w", hand.Winner, hand.Tiles(), mahjong.ErrNotWinningHand)
	}

	var best *Score
	for _, f := range candidates {
		sc := bs.evaluate(hand, flags, f)
		if sc == nil {
			continue
		}
		if best == nil || sc.Base > best.Base {
			best = sc
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%s 无役: %w", hand.Winner, mahjong.ErrNotWinningHand)
	}
	return best, nil
}

// ScoreRiverLimit 流局满贯按满贯自摸支付
func (bs *BasicScorer) ScoreRiverLimit(winner mahjong.Wind) mahjong.Score {
	return &Score{
		Winner: winner,
		From:   winner,
		Dealer: winner == mahjong.WindEast,
		Han:    5,
		Base:   2000,
	}
}

func (bs *BasicScorer) evaluate(hand mahjong.WinningHand, flags mahjong.SituationFlags, f form) *Score {
	ctx := newYakuContext(hand, flags, f)
	sc := &Score{
		Winner: hand.Winner,
		From:   hand.From,
		Dealer: flags.Dealer,
	}

	var yakus, yakumans []Yaku
	totalHan, mult := 0, 0
	for _, checker := range bs.registry {
		h, m := checker.Check(ctx)
		if m > 0 {
			mult += m
			yakumans = append(yakumans, checker.ID())
		} else if h > 0 {
			totalHan += h
			yakus = append(yakus, checker.ID())
		}
	}

	if mult > 0 {
		sc.YakumanMult = mult
		sc.Yakus = yakumans
		sc.Base = 8000 * mult
		return sc
	}
	if totalHan == 0 {
		return nil
	}

	sc.Dora = countDora(ctx)
	sc.Han = totalHan + sc.Dora
	sc.Yakus = yakus
	sc.Fu = calculateFu(ctx)
	sc.Base = calculateBasePoints(sc.Han, sc.Fu)
	return sc
}

// countDora 宝牌、红宝牌、里宝牌
func countDora(ctx *YakuContext) int {
	n := 0
	for _, ind := range ctx.Flags.Dora {
		n += int(ctx.counts[ind.Type.DoraOf()])
	}
	if ctx.Flags.Riichi {
		for _, ind := range ctx.Flags.Ura {
			n += int(ctx.counts[ind.Type.DoraOf()])
		}
	}
	for _, t := range ctx.Hand.Tiles() {
		if t.Red {
			n++
		}
	}
	for _, m := range ctx.Hand.Melds {
		for _, t := range m.Tiles {
			if t.Red {
				n++
			}
		}
	}
	return n
}

// calculateBasePoints 基本点 = 符 × 2^(2+番)，满贯以上取固定值
func calculateBasePoints(han, fu int) int {
	switch {
	case han >= 13:
		return 8000 // 累计役满
	case han >= 11:
		return 6000 // 三倍满
	case han >= 8:
		return 4000 // 倍满
	case han >= 6:
		return 3000 // 跳满
	}
	base := fu * (1 << (2 + han))
	if base > 2000 {
		base = 2000
	}
	return base
}

// calculateFu 计算符数
func calculateFu(ctx *YakuContext) int {
	f := ctx.form
	if f.chiitoi {
		return 25
	}
	tsumo := ctx.Hand.IsTsumo()
	if checkPinfu(ctx) {
		if tsumo {
			return 20
		}
		return 30
	}

	fu := 20 // 副底
	concealed := ctx.concealed()
	if concealed && !tsumo {
		fu += 10 // 门前荣和
	}
	if tsumo {
		fu += 2
	}

	for _, g := range f.groups {
		switch g.kind {
		case groupPair:
			// 连风雀头计 4 符
			if g.first.IsDragon() {
				fu += 2
			}
			if g.first == ctx.Flags.SeatWind.TileType() {
				fu += 2
			}
			if g.first == ctx.Flags.RoundWind.TileType() {
				fu += 2
			}
		case groupTriplet:
			fu += tripletFu(g)
		}
	}

	if f.win >= 0 {
		fu += waitFu(f.groups[f.win], ctx.Hand.WinTile.Type)
	}

	fu = ((fu + 9) / 10) * 10
	if fu == 20 && !concealed {
		fu = 30 // 副露平和形
	}
	return fu
}

func tripletFu(g group) int {
	fu := 2
	if g.first.IsOrphan() {
		fu = 4
	}
	if !g.open {
		fu *= 2
	}
	if g.quad {
		fu *= 4
	}
	return fu
}

// waitFu 单骑、嵌张、边张 2 符；两面、双碰 0 符
func waitFu(g group, win mahjong.TileType) int {
	switch g.kind {
	case groupPair:
		return 2
	case groupRun:
		if win == g.first+1 {
			return 2
		}
		if g.first.Number() == 1 && win == g.first+2 {
			return 2
		}
		if g.first.Number() == 7 && win == g.first {
			return 2
		}
	}
	return 0
}

// roundUpTo100 向上取整到100的倍数
func roundUpTo100(points int) int {
	return ((points + 99) / 100) * 100
}

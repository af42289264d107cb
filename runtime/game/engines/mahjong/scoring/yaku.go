package scoring

import (
	"gomahjong/runtime/game/engines/mahjong"
)

// Yaku 役种
type Yaku int

const (
	// 场况役
	YakuRiichi       Yaku = iota // 立直
	YakuDoubleRiichi             // 两立直
	YakuIppatsu                  // 一发
	YakuTsumo                    // 门前清自摸和
	YakuHaitei                   // 海底摸月
	YakuHoutei                   // 河底捞鱼
	YakuRinshan                  // 岭上开花
	YakuChankan                  // 抢杠

	// 手役
	YakuPinfu    // 平和：4顺子+非役牌雀头，两面听牌
	YakuTanyao   // 断幺九：全部由 2-8 数牌组成
	YakuYakuhai  // 役牌：场风、自风、三元牌的刻子/杠子
	YakuChiitoi  // 七对子
	YakuToitoi   // 对对和
	YakuHonitsu  // 混一色
	YakuChinitsu // 清一色

	// 役满
	YakuTenhou        // 天和
	YakuChiihou       // 地和
	YakuKokushi       // 国士无双
	YakuKokushi13     // 国士十三面（双倍）
	YakuSuuankou      // 四暗刻
	YakuSuuankouTanki // 四暗刻单骑（双倍）
	YakuDaisushi      // 大四喜（双倍）
	YakuJunseiChuuren // 纯正九莲宝灯（双倍）
)

var yakuNames = map[Yaku]string{
	YakuRiichi:        "立直",
	YakuDoubleRiichi:  "两立直",
	YakuIppatsu:       "一发",
	YakuTsumo:         "门前清自摸和",
	YakuHaitei:        "海底摸月",
	YakuHoutei:        "河底捞鱼",
	YakuRinshan:       "岭上开花",
	YakuChankan:       "抢杠",
	YakuPinfu:         "平和",
	YakuTanyao:        "断幺九",
	YakuYakuhai:       "役牌",
	YakuChiitoi:       "七对子",
	YakuToitoi:        "对对和",
	YakuHonitsu:       "混一色",
	YakuChinitsu:      "清一色",
	YakuTenhou:        "天和",
	YakuChiihou:       "地和",
	YakuKokushi:       "国士无双",
	YakuKokushi13:     "国士无双十三面",
	YakuSuuankou:      "四暗刻",
	YakuSuuankouTanki: "四暗刻单骑",
	YakuDaisushi:      "大四喜",
	YakuJunseiChuuren: "纯正九莲宝灯",
}

func (y Yaku) String() string {
	if name, ok := yakuNames[y]; ok {
		return name
	}
	return "未知役"
}

// YakuContext 判役需要的全部信息
type YakuContext struct {
	Hand   mahjong.WinningHand
	Flags  mahjong.SituationFlags
	form   form
	counts mahjong.Hand34 // 含副露的全部牌
}

func newYakuContext(hand mahjong.WinningHand, flags mahjong.SituationFlags, f form) *YakuContext {
	ctx := &YakuContext{Hand: hand, Flags: flags, form: f}
	for _, t := range hand.Tiles() {
		ctx.counts[t.Type]++
	}
	for _, m := range hand.Melds {
		for _, t := range m.Tiles {
			ctx.counts[t.Type]++
		}
	}
	return ctx
}

func (ctx *YakuContext) concealed() bool {
	for _, m := range ctx.Hand.Melds {
		if !m.IsConcealed() {
			return false
		}
	}
	return true
}

// YakuChecker 返回 番数、役满倍数
type YakuChecker interface {
	ID() Yaku
	Check(ctx *YakuContext) (int, int)
}

type yakuCheckerFunc struct {
	id    Yaku
	check func(ctx *YakuContext) (int, int)
}

func (f yakuCheckerFunc) ID() Yaku { return f.id }

func (f yakuCheckerFunc) Check(ctx *YakuContext) (int, int) { return f.check(ctx) }

func han(ok bool, n int) (int, int) {
	if ok {
		return n, 0
	}
	return 0, 0
}

func yakuman(ok bool, mult int) (int, int) {
	if ok {
		return 0, mult
	}
	return 0, 0
}

var RiichiMahjong4pYakuRegistry = []YakuChecker{
	// 役满
	yakuCheckerFunc{id: YakuTenhou, check: func(ctx *YakuContext) (int, int) {
		return yakuman(ctx.Flags.FirstAround && ctx.Flags.Tsumo && ctx.Flags.Dealer, 1)
	}},
	yakuCheckerFunc{id: YakuChiihou, check: func(ctx *YakuContext) (int, int) {
		return yakuman(ctx.Flags.FirstAround && ctx.Flags.Tsumo && !ctx.Flags.Dealer, 1)
	}},
	yakuCheckerFunc{id: YakuKokushi, check: func(ctx *YakuContext) (int, int) {
		return yakuman(ctx.form.kokushi && !checkKokushi13(ctx), 1)
	}},
	yakuCheckerFunc{id: YakuKokushi13, check: func(ctx *YakuContext) (int, int) {
		return yakuman(ctx.form.kokushi && checkKokushi13(ctx), 2)
	}},
	yakuCheckerFunc{id: YakuSuuankou, check: func(ctx *YakuContext) (int, int) {
		return yakuman(concealedTriplets(ctx) == 4 && !winsOnPair(ctx), 1)
	}},
	yakuCheckerFunc{id: YakuSuuankouTanki, check: func(ctx *YakuContext) (int, int) {
		return yakuman(concealedTriplets(ctx) == 4 && winsOnPair(ctx), 2)
	}},
	yakuCheckerFunc{id: YakuDaisushi, check: func(ctx *YakuContext) (int, int) {
		return yakuman(checkDaisushi(ctx), 2)
	}},
	yakuCheckerFunc{id: YakuJunseiChuuren, check: func(ctx *YakuContext) (int, int) {
		return yakuman(checkJunseiChuuren(ctx), 2)
	}},

	// 场况役
	yakuCheckerFunc{id: YakuRiichi, check: func(ctx *YakuContext) (int, int) {
		return han(ctx.Flags.Riichi && !ctx.Flags.DoubleRiichi, 1)
	}},
	yakuCheckerFunc{id: YakuDoubleRiichi, check: func(ctx *YakuContext) (int, int) {
		return han(ctx.Flags.DoubleRiichi, 2)
	}},
	yakuCheckerFunc{id: YakuIppatsu, check: func(ctx *YakuContext) (int, int) {
		return han(ctx.Flags.Riichi && ctx.Flags.Ippatsu, 1)
	}},
	yakuCheckerFunc{id: YakuTsumo, check: func(ctx *YakuContext) (int, int) {
		return han(ctx.Flags.Tsumo && ctx.concealed(), 1)
	}},
	yakuCheckerFunc{id: YakuHaitei, check: func(ctx *YakuContext) (int, int) {
		return han(ctx.Flags.LastTile && ctx.Flags.Tsumo, 1)
	}},
	yakuCheckerFunc{id: YakuHoutei, check: func(ctx *YakuContext) (int, int) {
		return han(ctx.Flags.LastTile && !ctx.Flags.Tsumo, 1)
	}},
	yakuCheckerFunc{id: YakuRinshan, check: func(ctx *YakuContext) (int, int) {
		return han(ctx.Flags.AfterKan && ctx.Flags.Tsumo, 1)
	}},
	yakuCheckerFunc{id: YakuChankan, check: func(ctx *YakuContext) (int, int) {
		return han(ctx.Flags.Chankan, 1)
	}},

	// 手役
	yakuCheckerFunc{id: YakuPinfu, check: func(ctx *YakuContext) (int, int) {
		return han(checkPinfu(ctx), 1)
	}},
	yakuCheckerFunc{id: YakuTanyao, check: func(ctx *YakuContext) (int, int) {
		return han(checkTanyao(ctx), 1)
	}},
	yakuCheckerFunc{id: YakuYakuhai, check: func(ctx *YakuContext) (int, int) {
		return countYakuhai(ctx), 0
	}},
	yakuCheckerFunc{id: YakuChiitoi, check: func(ctx *YakuContext) (int, int) {
		return han(ctx.form.chiitoi, 2)
	}},
	yakuCheckerFunc{id: YakuToitoi, check: func(ctx *YakuContext) (int, int) {
		return han(checkToitoi(ctx), 2)
	}},
	yakuCheckerFunc{id: YakuHonitsu, check: func(ctx *YakuContext) (int, int) {
		if !checkHonitsu(ctx) {
			return 0, 0
		}
		if ctx.concealed() {
			return 3, 0
		}
		return 2, 0
	}},
	yakuCheckerFunc{id: YakuChinitsu, check: func(ctx *YakuContext) (int, int) {
		if !checkChinitsu(ctx) {
			return 0, 0
		}
		if ctx.concealed() {
			return 6, 0
		}
		return 5, 0
	}},
}

// concealedTriplets 暗刻（含暗杠），荣和完成的刻子算明刻
func concealedTriplets(ctx *YakuContext) int {
	n := 0
	for _, g := range ctx.form.groups {
		if g.kind == groupTriplet && !g.open {
			n++
		}
	}
	return n
}

func winsOnPair(ctx *YakuContext) bool {
	return ctx.form.win >= 0 && ctx.form.groups[ctx.form.win].kind == groupPair
}

// checkKokushi13 和牌前已有 13 种幺九各一张
func checkKokushi13(ctx *YakuContext) bool {
	h := mahjong.Hand34FromTiles(ctx.Hand.Concealed)
	for _, t := range kokushiTileTypes() {
		if h[t] != 1 {
			return false
		}
	}
	return true
}

func kokushiTileTypes() []mahjong.TileType {
	return []mahjong.TileType{
		mahjong.Man1, mahjong.Man9, mahjong.Pin1, mahjong.Pin9, mahjong.So1, mahjong.So9,
		mahjong.East, mahjong.South, mahjong.West, mahjong.North, mahjong.White, mahjong.Green, mahjong.Red,
	}
}

// checkDaisushi 大四喜
func checkDaisushi(ctx *YakuContext) bool {
	c := ctx.counts
	return c[mahjong.East] >= 3 && c[mahjong.South] >= 3 && c[mahjong.West] >= 3 && c[mahjong.North] >= 3
}

// checkJunseiChuuren 纯正九莲宝灯：和牌前为 1112345678999
func checkJunseiChuuren(ctx *YakuContext) bool {
	if len(ctx.Hand.Melds) != 0 || ctx.form.kokushi {
		return false
	}
	win := ctx.Hand.WinTile.Type
	if !win.IsNumbered() {
		return false
	}
	suit := win.Suit()
	base := [9]uint8{3, 1, 1, 1, 1, 1, 1, 1, 3}
	h := mahjong.Hand34FromTiles(ctx.Hand.Concealed)
	for t := 0; t < mahjong.TileKinds; t++ {
		tt := mahjong.TileType(t)
		if tt.Suit() != suit {
			if h[t] != 0 {
				return false
			}
			continue
		}
		if h[t] != base[tt.Number()-1] {
			return false
		}
	}
	return true
}

// checkPinfu 门清、4 顺子、非役牌雀头、两面听
func checkPinfu(ctx *YakuContext) bool {
	if len(ctx.Hand.Melds) != 0 || ctx.form.win < 0 {
		return false
	}
	for _, g := range ctx.form.groups {
		switch g.kind {
		case groupTriplet:
			return false
		case groupPair:
			if isValuePair(ctx, g.first) {
				return false
			}
		}
	}
	return waitFu(ctx.form.groups[ctx.form.win], ctx.Hand.WinTile.Type) == 0 &&
		ctx.form.groups[ctx.form.win].kind == groupRun
}

func checkTanyao(ctx *YakuContext) bool {
	for t, c := range ctx.counts {
		if c > 0 && mahjong.TileType(t).IsOrphan() {
			return false
		}
	}
	return true
}

// countYakuhai 每组役牌刻子一番，连风牌两番
func countYakuhai(ctx *YakuContext) int {
	n := 0
	for _, g := range ctx.form.groups {
		if g.kind != groupTriplet {
			continue
		}
		if g.first.IsDragon() {
			n++
		}
		if g.first == ctx.Flags.SeatWind.TileType() {
			n++
		}
		if g.first == ctx.Flags.RoundWind.TileType() {
			n++
		}
	}
	return n
}

func isValuePair(ctx *YakuContext, t mahjong.TileType) bool {
	return t.IsDragon() || t == ctx.Flags.SeatWind.TileType() || t == ctx.Flags.RoundWind.TileType()
}

func checkToitoi(ctx *YakuContext) bool {
	if ctx.form.win < 0 {
		return false
	}
	for _, g := range ctx.form.groups {
		if g.kind == groupRun {
			return false
		}
	}
	return true
}

func suitsAndHonors(ctx *YakuContext) (map[int]struct{}, bool) {
	suits := make(map[int]struct{}, 3)
	honors := false
	for t, c := range ctx.counts {
		if c == 0 {
			continue
		}
		tt := mahjong.TileType(t)
		if tt.IsHonor() {
			honors = true
		} else {
			suits[tt.Suit()] = struct{}{}
		}
	}
	return suits, honors
}

func checkHonitsu(ctx *YakuContext) bool {
	suits, honors := suitsAndHonors(ctx)
	return len(suits) == 1 && honors
}

func checkChinitsu(ctx *YakuContext) bool {
	suits, honors := suitsAndHonors(ctx)
	return len(suits) == 1 && !honors
}

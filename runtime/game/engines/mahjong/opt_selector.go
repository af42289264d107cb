package mahjong

import "slices"

// TurnContext 枚举摸牌后行动需要的场况
type TurnContext struct {
	CallTurn      bool // 鸣牌后的出牌，不能自摸、杠、立直
	FirstAround   bool // 第一巡未被打断且本家还没打过牌
	DrawableCount int
	KanCount      int
	Points        int
	CanTsumo      bool // 点数计算确认可以自摸
}

type CallSource int

const (
	FromDiscard CallSource = iota // 打出的牌
	FromKakan                     // 加杠的牌
	FromAnkan                     // 暗杠的牌
)

// CallContext 枚举鸣牌响应需要的场况
type CallContext struct {
	Discarder     Wind
	Tile          Tile
	Source        CallSource
	DrawableCount int
	KanCount      int
	CanRon        bool // 点数计算确认可以荣和
}

const (
	maxKanCount     = 4
	riichiCost      = 1000
	riichiMinWall   = 4
	nineTilesNeeded = 9
)

// TurnActions 本家持 14 张时的合法行动
func (s *Seat) TurnActions(ctx TurnContext) []TurnAction {
	s.mustHold(14, "枚举行动")
	var out []TurnAction

	if ctx.CallTurn {
		for _, t := range s.discardChoices() {
			if !s.IsForbidden(t.Type) {
				out = append(out, TurnAction{Kind: TurnDiscard, Tile: t})
			}
		}
		return out
	}

	if ctx.CanTsumo {
		out = append(out, TurnAction{Kind: TurnTsumo})
	}
	if ctx.FirstAround && len(s.melds) == 0 && IsNineTerminals(Hand34FromTiles(s.FullHand())) {
		out = append(out, TurnAction{Kind: TurnNineTiles})
	}

	canKan := ctx.DrawableCount > 0 && ctx.KanCount < maxKanCount
	if canKan {
		out = append(out, s.ankanChoices()...)
		if !s.IsReady() {
			out = append(out, s.kakanChoices()...)
		}
	}

	if s.IsReady() {
		drawn, _ := s.Drawn()
		return append(out, TurnAction{Kind: TurnDiscard, Tile: drawn})
	}

	discards := s.discardChoices()
	for _, t := range discards {
		out = append(out, TurnAction{Kind: TurnDiscard, Tile: t})
	}
	if s.canDeclareReady(ctx) {
		for _, t := range discards {
			if s.tenpaiWithout(t) {
				out = append(out, TurnAction{Kind: TurnDiscard, Tile: t, Riichi: true})
			}
		}
	}
	return out
}

// CallActions 他家出牌时本家持 13 张的合法响应，第一个总是 Pass
func (s *Seat) CallActions(ctx CallContext) []CallAction {
	s.mustHold(13, "枚举响应")
	out := []CallAction{PassAction}

	if ctx.CanRon && s.canRon(ctx) {
		out = append(out, RonAction)
	}
	if ctx.Source != FromDiscard || ctx.DrawableCount <= 0 || s.IsReady() {
		return out
	}

	if ctx.KanCount < maxKanCount {
		if g, ok := s.gangChoice(ctx.Tile); ok {
			out = append(out, g)
		}
	}
	out = append(out, s.pengChoices(ctx.Tile)...)
	if s.wind.SideOf(ctx.Discarder) == SideLeft {
		out = append(out, s.chiChoices(ctx.Tile)...)
	}
	return out
}

// CouldRon 听牌且不振听，点数计算之前的预判
func (s *Seat) CouldRon(t Tile, source CallSource) bool {
	return s.canRon(CallContext{Tile: t, Source: source})
}

func (s *Seat) canRon(ctx CallContext) bool {
	if s.Furiten() || !s.IsTarget(ctx.Tile.Type) {
		return false
	}
	if ctx.Source == FromAnkan {
		return IsAgariKokushi(Hand34FromTiles(append(s.Hand(), ctx.Tile)))
	}
	return true
}

func (s *Seat) canDeclareReady(ctx TurnContext) bool {
	return !s.IsReady() &&
		s.IsConcealed() &&
		ctx.Points >= riichiCost &&
		ctx.DrawableCount >= riichiMinWall
}

// tenpaiWithout 打出 t 后是否听牌
func (s *Seat) tenpaiWithout(t Tile) bool {
	h := Hand34FromTiles(s.FullHand())
	h[t.Type]--
	return len(s.searcher.Waits(h, len(s.melds))) > 0
}

// discardChoices 可打的牌，同种牌按赤/非赤去重，优先摸切
func (s *Seat) discardChoices() []Tile {
	var out []Tile
	if drawn, ok := s.Drawn(); ok {
		out = append(out, drawn)
	}
	for _, t := range s.hand {
		if !slices.ContainsFunc(out, func(o Tile) bool { return o.Type == t.Type && o.Red == t.Red }) {
			out = append(out, t)
		}
	}
	return out
}

func (s *Seat) ankanChoices() []TurnAction {
	h := Hand34FromTiles(s.FullHand())
	if s.IsReady() {
		drawn, _ := s.Drawn()
		if h[drawn.Type] != 4 || !s.waitsUnchangedByAnkan(drawn.Type) {
			return nil
		}
		return []TurnAction{{Kind: TurnAnkan, Tile: drawn}}
	}
	var out []TurnAction
	for _, t := range s.FullHand() {
		if h[t.Type] == 4 && !slices.ContainsFunc(out, func(a TurnAction) bool { return a.Tile.Same(t) }) {
			out = append(out, TurnAction{Kind: TurnAnkan, Tile: t})
		}
	}
	return out
}

// waitsUnchangedByAnkan 立直后暗杠不能改变听牌
func (s *Seat) waitsUnchangedByAnkan(face TileType) bool {
	h := Hand34FromTiles(s.FullHand())
	h[face] = 0
	after := s.searcher.Waits(h, len(s.melds)+1)
	return slices.Equal(after, s.targets)
}

func (s *Seat) kakanChoices() []TurnAction {
	var out []TurnAction
	for _, m := range s.melds {
		if m.Type != MeldPeng {
			continue
		}
		for _, t := range s.FullHand() {
			if t.Same(m.Called) {
				out = append(out, TurnAction{Kind: TurnKakan, Tile: t})
			}
		}
	}
	return out
}

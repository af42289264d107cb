package mahjong

import (
	"slices"
)

type ReadyState int

const (
	ReadyNone      ReadyState = iota // 未立直
	ReadyDeclared                    // 已宣言，宣言牌尚未通过
	ReadyConfirmed                   // 立直成立
)

// Seat 一局内某个风位的状态，只由对局主循环驱动
type Seat struct {
	wind     Wind
	searcher *Searcher

	hand  []Tile // 手牌（不含刚摸的牌）
	drawn *Tile  // 刚摸的牌
	melds []Meld
	river []Tile // 牌河，被鸣走的牌也保留

	discardedTypes map[TileType]struct{} // 打过的牌种（振听判断）
	targets        []TileType            // 听牌，手牌变化后重算
	forbidden      map[TileType]struct{} // 食替禁打的牌

	riverFuriten bool // 舍张振听，一旦成立本局不解除
	tempFuriten  bool // 同巡振听，立直后不解除
	ready        ReadyState
	doubleReady  bool
	ippatsu      bool
	riverCalled  bool // 牌河被鸣过（流局满贯判定）
}

func NewSeat(wind Wind, searcher *Searcher) *Seat {
	if searcher == nil {
		searcher = DefaultSearcher()
	}
	return &Seat{
		wind:           wind,
		searcher:       searcher,
		hand:           make([]Tile, 0, 14),
		melds:          make([]Meld, 0, 4),
		river:          make([]Tile, 0, 24),
		discardedTypes: make(map[TileType]struct{}),
		forbidden:      make(map[TileType]struct{}),
	}
}

func (s *Seat) Wind() Wind { return s.wind }

// Count 手牌 + 3×副露 + 摸牌，等摸牌时为 13，持牌时为 14
func (s *Seat) Count() int {
	n := len(s.hand) + 3*len(s.melds)
	if s.drawn != nil {
		n++
	}
	return n
}

func (s *Seat) mustHold(n int, op string) {
	if c := s.Count(); c != n {
		panic(NewInvariantError("%s家 %s 需要 %d 张牌, 实际 %d", s.wind, op, n, c))
	}
}

// CheckCount 校验张数不变量
func (s *Seat) CheckCount() {
	c := s.Count()
	if c != 13 && c != 14 {
		panic(NewInvariantError("%s家张数错误: %d", s.wind, c))
	}
	if c == 13 && s.drawn != nil {
		panic(NewInvariantError("%s家 13 张时不应持有摸牌", s.wind))
	}
}

// Deal 配牌
func (s *Seat) Deal(tiles []Tile) {
	if len(tiles) != 13 || s.Count() != 0 {
		panic(NewInvariantError("%s家配牌需要 13 张, 实际 %d", s.wind, len(tiles)))
	}
	s.hand = append(s.hand[:0], tiles...)
	s.sortHand()
	s.refreshTargets()
}

func (s *Seat) Draw(t Tile) {
	s.mustHold(13, "摸牌")
	s.drawn = &t
}

// Discard 打牌，返回打出的牌
func (s *Seat) Discard(t Tile, riichi bool) Tile {
	s.mustHold(14, "打牌")
	if s.drawn != nil && s.drawn.Identical(t) {
		s.drawn = nil
	} else {
		var ok bool
		if s.hand, ok = removeIdentical(s.hand, t); !ok {
			panic(NewInvariantError("%s家手里没有 %s", s.wind, t))
		}
		s.absorbDrawn()
	}

	if s.ready == ReadyConfirmed {
		s.ippatsu = false
	}
	if s.ready == ReadyNone {
		s.tempFuriten = false
	}
	if riichi {
		s.ready = ReadyDeclared
	}
	clear(s.forbidden)

	s.river = append(s.river, t)
	s.discardedTypes[t.Type] = struct{}{}
	s.refreshTargets()
	return t
}

// Ankan 暗杠 face 的四张
func (s *Seat) Ankan(face TileType) Meld {
	s.mustHold(14, "暗杠")
	s.absorbDrawn()
	var taken []Tile
	rest := s.hand[:0:0]
	for _, t := range s.hand {
		if t.Type == face {
			taken = append(taken, t)
		} else {
			rest = append(rest, t)
		}
	}
	if len(taken) != 4 {
		panic(NewInvariantError("%s家暗杠 %s 只有 %d 张", s.wind, face, len(taken)))
	}
	s.hand = rest
	m := Meld{Type: MeldAnkan, Tiles: taken, From: SideSelf, Called: taken[0]}
	s.melds = append(s.melds, m)
	s.refreshTargets()
	return m
}

// Kakan 把 t 加到同牌的碰上
func (s *Seat) Kakan(t Tile) Meld {
	s.mustHold(14, "加杠")
	idx := slices.IndexFunc(s.melds, func(m Meld) bool {
		return m.Type == MeldPeng && m.Called.Same(t)
	})
	if idx < 0 {
		panic(NewInvariantError("%s家没有 %s 的碰", s.wind, t))
	}
	s.absorbDrawn()
	var ok bool
	if s.hand, ok = removeIdentical(s.hand, t); !ok {
		panic(NewInvariantError("%s家手里没有 %s", s.wind, t))
	}
	m := s.melds[idx]
	m.Type = MeldKakan
	m.Tiles = append(append([]Tile(nil), m.Tiles...), t)
	s.melds[idx] = m
	s.refreshTargets()
	return m
}

// Call 吃/碰/明杠 from 方位打出的 tile
func (s *Seat) Call(action CallAction, tile Tile, from Side) Meld {
	s.mustHold(13, "鸣牌")
	var mt MeldType
	switch action.Kind {
	case CallChi:
		mt = MeldChi
	case CallPeng:
		mt = MeldPeng
	case CallGang:
		mt = MeldGang
	default:
		panic(NewInvariantError("%s家不能以 %s 副露", s.wind, action.Kind))
	}
	for _, t := range action.Tiles {
		var ok bool
		if s.hand, ok = removeIdentical(s.hand, t); !ok {
			panic(NewInvariantError("%s家手里没有 %s", s.wind, t))
		}
	}
	tiles := append(append([]Tile(nil), action.Tiles...), tile)
	slices.SortFunc(tiles, compareTiles)
	m := Meld{Type: mt, Tiles: tiles, From: from, Called: tile}
	s.melds = append(s.melds, m)

	clear(s.forbidden)
	for _, f := range kuikaeFaces(action, tile) {
		s.forbidden[f] = struct{}{}
	}
	// 吃碰后持 14 张，听牌等打牌后再算
	if s.Count() == 13 {
		s.refreshTargets()
	} else {
		s.targets = nil
	}
	return m
}

// MarkRiverCalled 自己打出的牌被鸣
func (s *Seat) MarkRiverCalled() {
	s.riverCalled = true
}

// ConfirmReady 立直宣言牌通过
func (s *Seat) ConfirmReady(double bool) {
	if s.ready != ReadyDeclared {
		panic(NewInvariantError("%s家没有待确认的立直", s.wind))
	}
	s.ready = ReadyConfirmed
	s.doubleReady = double
	s.ippatsu = true
}

func (s *Seat) ClearIppatsu() {
	s.ippatsu = false
}

// PassWinningTile 见逃和了牌：同巡振听，立直中则本局不解除
func (s *Seat) PassWinningTile(t TileType) {
	if s.IsTarget(t) {
		s.tempFuriten = true
	}
}

func (s *Seat) absorbDrawn() {
	if s.drawn != nil {
		s.hand = append(s.hand, *s.drawn)
		s.drawn = nil
	}
	s.sortHand()
}

func (s *Seat) sortHand() {
	slices.SortFunc(s.hand, compareTiles)
}

// refreshTargets 13 张状态下重算听牌和舍张振听
func (s *Seat) refreshTargets() {
	s.targets = s.searcher.Waits(Hand34FromTiles(s.hand), len(s.melds))
	for _, t := range s.targets {
		if _, ok := s.discardedTypes[t]; ok {
			s.riverFuriten = true
		}
	}
}

func (s *Seat) Hand() []Tile {
	return append([]Tile(nil), s.hand...)
}

// FullHand 手牌加摸牌
func (s *Seat) FullHand() []Tile {
	out := s.Hand()
	if s.drawn != nil {
		out = append(out, *s.drawn)
	}
	return out
}

func (s *Seat) Drawn() (Tile, bool) {
	if s.drawn == nil {
		return Tile{}, false
	}
	return *s.drawn, true
}

func (s *Seat) Melds() []Meld {
	return append([]Meld(nil), s.melds...)
}

func (s *Seat) River() []Tile {
	return append([]Tile(nil), s.river...)
}

func (s *Seat) Targets() []TileType {
	return append([]TileType(nil), s.targets...)
}

func (s *Seat) IsTarget(t TileType) bool {
	return slices.Contains(s.targets, t)
}

func (s *Seat) IsTenpai() bool {
	return len(s.targets) > 0
}

func (s *Seat) Furiten() bool {
	return s.riverFuriten || s.tempFuriten
}

func (s *Seat) RiverFuriten() bool {
	return s.riverFuriten
}

// IsConcealed 门清，暗杠不破门清
func (s *Seat) IsConcealed() bool {
	for _, m := range s.melds {
		if !m.IsConcealed() {
			return false
		}
	}
	return true
}

func (s *Seat) Ready() ReadyState {
	return s.ready
}

func (s *Seat) IsReady() bool {
	return s.ready != ReadyNone
}

func (s *Seat) IsDoubleReady() bool {
	return s.doubleReady
}

func (s *Seat) Ippatsu() bool {
	return s.ippatsu
}

func (s *Seat) RiverCalled() bool {
	return s.riverCalled
}

// IsRiverLimit 流局满贯：牌河全是幺九且没被鸣过
func (s *Seat) IsRiverLimit() bool {
	if s.riverCalled || len(s.river) == 0 {
		return false
	}
	for _, t := range s.river {
		if !t.Type.IsOrphan() {
			return false
		}
	}
	return true
}

func (s *Seat) IsForbidden(t TileType) bool {
	_, ok := s.forbidden[t]
	return ok
}

// WinningHand 和了形，win 为和了牌（自摸时即摸牌）
func (s *Seat) WinningHand(win Tile, from Wind) WinningHand {
	return WinningHand{
		Winner:    s.wind,
		From:      from,
		Concealed: s.Hand(),
		WinTile:   win,
		Melds:     s.Melds(),
	}
}

func removeIdentical(tiles []Tile, t Tile) ([]Tile, bool) {
	for i := range tiles {
		if tiles[i].Identical(t) {
			return append(tiles[:i], tiles[i+1:]...), true
		}
	}
	return tiles, false
}

func compareTiles(a, b Tile) int {
	if a.Type != b.Type {
		return int(a.Type) - int(b.Type)
	}
	return a.ID - b.ID
}

// kuikaeFaces 鸣牌后不能立即打出的牌种：鸣到的牌，吃两面时另一端
func kuikaeFaces(action CallAction, called Tile) []TileType {
	switch action.Kind {
	case CallPeng:
		return []TileType{called.Type}
	case CallChi:
		faces := []TileType{called.Type}
		lo, hi := action.Tiles[0].Type, action.Tiles[1].Type
		if lo > hi {
			lo, hi = hi, lo
		}
		if called.Type < lo {
			if t, ok := called.Type.Shift(3); ok {
				faces = append(faces, t)
			}
		} else if called.Type > hi {
			if t, ok := called.Type.Shift(-3); ok {
				faces = append(faces, t)
			}
		}
		return faces
	default:
		return nil
	}
}

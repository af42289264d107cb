package mahjong

import "slices"

// matching 手牌里与 t 同种的牌，赤牌排在前面
func (s *Seat) matching(t TileType) []Tile {
	var out []Tile
	for _, h := range s.hand {
		if h.Type == t {
			out = append(out, h)
		}
	}
	slices.SortStableFunc(out, func(a, b Tile) int {
		switch {
		case a.Red && !b.Red:
			return -1
		case !a.Red && b.Red:
			return 1
		default:
			return 0
		}
	})
	return out
}

// gangChoice 大明杠
func (s *Seat) gangChoice(tile Tile) (CallAction, bool) {
	same := s.matching(tile.Type)
	if len(same) < 3 {
		return CallAction{}, false
	}
	return CallAction{Kind: CallGang, Tiles: same[:3]}, true
}

// pengChoices 碰，赤牌参与与否算不同选择
func (s *Seat) pengChoices(tile Tile) []CallAction {
	same := s.matching(tile.Type)
	if len(same) < 2 {
		return nil
	}
	var out []CallAction
	for i := 0; i < len(same); i++ {
		for j := i + 1; j < len(same); j++ {
			pair := []Tile{same[i], same[j]}
			if containsRedVariant(out, pair) {
				continue
			}
			action := CallAction{Kind: CallPeng, Tiles: pair}
			if s.hasDiscardAfterCall(action, tile) {
				out = append(out, action)
			}
		}
	}
	return out
}

// chiChoices 吃，只能吃上家
func (s *Seat) chiChoices(tile Tile) []CallAction {
	if !tile.Type.IsNumbered() {
		return nil
	}
	var out []CallAction
	for _, offsets := range [][2]int{{-2, -1}, {-1, 1}, {1, 2}} {
		a, okA := tile.Type.Shift(offsets[0])
		b, okB := tile.Type.Shift(offsets[1])
		if !okA || !okB {
			continue
		}
		for _, ta := range uniqueByRed(s.matching(a)) {
			for _, tb := range uniqueByRed(s.matching(b)) {
				action := CallAction{Kind: CallChi, Tiles: []Tile{ta, tb}}
				if s.hasDiscardAfterCall(action, tile) {
					out = append(out, action)
				}
			}
		}
	}
	return out
}

// hasDiscardAfterCall 鸣牌后至少还有一张不受食替限制的牌可打
func (s *Seat) hasDiscardAfterCall(action CallAction, tile Tile) bool {
	rest := s.Hand()
	for _, t := range action.Tiles {
		rest, _ = removeIdentical(rest, t)
	}
	banned := kuikaeFaces(action, tile)
	for _, t := range rest {
		if !slices.Contains(banned, t.Type) {
			return true
		}
	}
	return false
}

func uniqueByRed(tiles []Tile) []Tile {
	var out []Tile
	for _, t := range tiles {
		if !slices.ContainsFunc(out, func(o Tile) bool { return o.Red == t.Red }) {
			out = append(out, t)
		}
	}
	return out
}

func containsRedVariant(actions []CallAction, tiles []Tile) bool {
	reds := func(ts []Tile) int {
		n := 0
		for _, t := range ts {
			if t.Red {
				n++
			}
		}
		return n
	}
	for _, a := range actions {
		if reds(a.Tiles) == reds(tiles) {
			return true
		}
	}
	return false
}

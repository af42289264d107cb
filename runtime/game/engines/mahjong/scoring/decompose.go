package scoring

import (
	"gomahjong/runtime/game/engines/mahjong"
)

type groupKind int

const (
	groupRun groupKind = iota
	groupTriplet
	groupPair
)

// group 面子或雀头，first 为顺子的最小牌
type group struct {
	kind  groupKind
	first mahjong.TileType
	open  bool // 明（副露或荣和完成的刻子）
	quad  bool
	meld  bool // 来自副露
}

func (g group) contains(t mahjong.TileType) bool {
	if g.kind == groupRun {
		return t >= g.first && t <= g.first+2 && t.Suit() == g.first.Suit()
	}
	return t == g.first
}

// form 一种和了形的解释，win 为和了牌所在的组（-1 表示七对/国士）
type form struct {
	groups  []group // 雀头在最前
	win     int
	chiitoi bool
	kokushi bool
}

// decompose 门内 14-3n 张拆成雀头 + need 个面子的所有方式
func decompose(h mahjong.Hand34, need int) [][]group {
	var out [][]group
	for j := 0; j < mahjong.TileKinds; j++ {
		if h[j] < 2 {
			continue
		}
		work := h
		work[j] -= 2
		pair := group{kind: groupPair, first: mahjong.TileType(j)}
		collectSets(&work, need, []group{pair}, &out)
	}
	return out
}

func collectSets(h *mahjong.Hand34, need int, acc []group, out *[][]group) {
	i := -1
	for k := 0; k < mahjong.TileKinds; k++ {
		if (*h)[k] > 0 {
			i = k
			break
		}
	}
	if i == -1 {
		if need == 0 {
			*out = append(*out, append([]group(nil), acc...))
		}
		return
	}
	if need == 0 {
		return
	}

	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		collectSets(h, need-1, append(acc, group{kind: groupTriplet, first: mahjong.TileType(i)}), out)
		(*h)[i] += 3
	}
	t := mahjong.TileType(i)
	if t.Number() >= 1 && t.Number() <= 7 && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
		(*h)[i]--
		(*h)[i+1]--
		(*h)[i+2]--
		collectSets(h, need-1, append(acc, group{kind: groupRun, first: t}), out)
		(*h)[i]++
		(*h)[i+1]++
		(*h)[i+2]++
	}
}

func meldGroup(m mahjong.Meld) group {
	first := m.Tiles[0].Type
	for _, t := range m.Tiles {
		if t.Type < first {
			first = t.Type
		}
	}
	switch m.Type {
	case mahjong.MeldChi:
		return group{kind: groupRun, first: first, open: true, meld: true}
	case mahjong.MeldPeng:
		return group{kind: groupTriplet, first: first, open: true, meld: true}
	case mahjong.MeldAnkan:
		return group{kind: groupTriplet, first: first, quad: true, meld: true}
	default:
		return group{kind: groupTriplet, first: first, open: true, quad: true, meld: true}
	}
}

// forms 枚举所有和了形解释，和了牌落在不同的组算不同的解释
func forms(hand mahjong.WinningHand) []form {
	h := mahjong.Hand34FromTiles(hand.Tiles())
	winType := hand.WinTile.Type
	if len(hand.Melds) == 0 && mahjong.IsAgariKokushi(h) {
		return []form{{win: -1, kokushi: true}}
	}

	var out []form
	for _, concealed := range decompose(h, 4-len(hand.Melds)) {
		for i, g := range concealed {
			if !g.contains(winType) {
				continue
			}
			groups := append([]group(nil), concealed...)
			if g.kind == groupTriplet && !hand.IsTsumo() {
				groups[i].open = true
			}
			for _, m := range hand.Melds {
				groups = append(groups, meldGroup(m))
			}
			out = append(out, form{groups: groups, win: i})
		}
	}
	if len(hand.Melds) == 0 && mahjong.IsAgariChiitoi(h) {
		out = append(out, form{win: -1, chiitoi: true})
	}
	return out
}

package mahjong

import (
	"sync"

	"gomahjong/common/cache"
	"gomahjong/common/log"
)

type Hand34 [34]uint8

// Searcher 和牌/听牌判定，结果缓存在 ristretto 里，所有对局共享
type Searcher struct {
	agari *cache.GeneralCache // 和牌缓存
	waits *cache.GeneralCache // 听牌缓存
}

const searcherCacheSize = 1 << 16

var (
	sharedSearcher     *Searcher
	sharedSearcherOnce sync.Once
)

// DefaultSearcher 进程内共享的 Searcher
func DefaultSearcher() *Searcher {
	sharedSearcherOnce.Do(func() {
		sharedSearcher = NewSearcher(searcherCacheSize)
	})
	return sharedSearcher
}

// NewSearcher 缓存创建失败时退化为不缓存
func NewSearcher(maxCost int64) *Searcher {
	s := &Searcher{}
	agari, err := cache.NewGeneralCache(maxCost, 0)
	if err != nil {
		log.Warn("和牌缓存创建失败，不使用缓存: %v", err)
		return s
	}
	waits, err := cache.NewGeneralCache(maxCost, 0)
	if err != nil {
		log.Warn("听牌缓存创建失败，不使用缓存: %v", err)
		agari.Close()
		return s
	}
	s.agari = agari
	s.waits = waits
	return s
}

// Waits 枚举 13 张（去掉副露后）手牌的听牌
func (s *Searcher) Waits(h13 Hand34, fixedMelds int) []TileType {
	key := h13.keyWithFixedMelds(fixedMelds)
	if s.waits != nil {
		if v, ok := s.waits.Get(key); ok {
			if cached, ok := v.([]TileType); ok {
				return append([]TileType(nil), cached...)
			}
		}
	}

	var waits []TileType
	for t := 0; t < TileKinds; t++ {
		if h13[t] >= 4 {
			continue
		}
		work := h13
		work[t]++
		if s.IsAgariAll(work, fixedMelds) {
			waits = append(waits, TileType(t))
		}
	}

	if s.waits != nil {
		s.waits.Set(key, append([]TileType(nil), waits...))
	}
	return waits
}

// IsAgariAll 是否和牌
func (s *Searcher) IsAgariAll(h Hand34, fixedMelds int) bool {
	key := h.keyWithFixedMelds(fixedMelds)
	if s.agari != nil {
		if v, ok := s.agari.GetBool(key); ok {
			return v
		}
	}

	var ok bool
	if fixedMelds > 0 {
		ok = IsAgariNormal(h, fixedMelds)
	} else {
		ok = IsAgariNormal(h, 0) || IsAgariChiitoi(h) || IsAgariKokushi(h)
	}

	if s.agari != nil {
		s.agari.Set(key, ok)
	}
	return ok
}

// IsAgariNormal 普通牌型是否和牌，核心思想，找雀头、组面子
func IsAgariNormal(h Hand34, fixedMelds int) bool {
	need := 4 - fixedMelds // 需要组成的面子数
	if need < 0 {
		return false
	}

	for j := 0; j < TileKinds; j++ {
		if h[j] < 2 {
			continue
		}
		work := h
		work[j] -= 2
		if canFormMelds(&work, need) {
			return true
		}
	}
	return false
}

// IsAgariChiitoi 七对子是否和牌，四张同牌不算两对
func IsAgariChiitoi(h Hand34) bool {
	pairs := 0
	for i := 0; i < TileKinds; i++ {
		switch h[i] {
		case 0:
		case 2:
			pairs++
		default:
			return false
		}
	}
	return pairs == 7
}

// IsAgariKokushi 国士无双是否和牌
func IsAgariKokushi(h Hand34) bool {
	unique := 0
	pair := false
	total := 0
	for i := 0; i < TileKinds; i++ {
		total += int(h[i])
	}
	for _, idx := range kokushiTiles {
		if h[idx] > 0 {
			unique++
			if h[idx] >= 2 {
				pair = true
			}
		}
	}
	return total == 14 && unique == 13 && pair
}

func canFormMelds(h *Hand34, need int) bool {
	if need == 0 {
		for i := 0; i < TileKinds; i++ {
			if (*h)[i] != 0 {
				return false
			}
		}
		return true
	}

	// 找第一个非 0
	i := -1
	for k := 0; k < TileKinds; k++ {
		if (*h)[k] > 0 {
			i = k
			break
		}
	}
	if i == -1 {
		return false
	}
	// 刻子
	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		if canFormMelds(h, need-1) {
			(*h)[i] += 3
			return true
		}
		(*h)[i] += 3
	}
	// 顺子（仅数牌）
	if isNumberTile(i) && i+2 < TileKinds && suitOf(i) == suitOf(i+1) && suitOf(i) == suitOf(i+2) {
		if (*h)[i] > 0 && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
			(*h)[i]--
			(*h)[i+1]--
			(*h)[i+2]--
			if canFormMelds(h, need-1) {
				(*h)[i]++
				(*h)[i+1]++
				(*h)[i+2]++
				return true
			}
			(*h)[i]++
			(*h)[i+1]++
			(*h)[i+2]++
		}
	}

	return false
}

// -------------- 基础工具：转换与 key --------------

func Hand34FromTiles(tiles []Tile) Hand34 {
	var h Hand34
	for _, t := range tiles {
		h[int(t.Type)]++
	}
	return h
}

// IsNineTerminals 九种九牌：幺九牌种类数
func IsNineTerminals(h Hand34) bool {
	kinds := 0
	for _, idx := range kokushiTiles {
		if h[idx] > 0 {
			kinds++
		}
	}
	return kinds >= 9
}

func (h Hand34) keyWithFixedMelds(fixedMelds int) string {
	var b [35]byte
	for i := 0; i < TileKinds; i++ {
		b[i] = byte(h[i])
	}
	b[34] = byte(fixedMelds)
	return string(b[:])
}

func isNumberTile(i int) bool { return i >= int(Man1) && i <= int(So9) }

func suitOf(i int) int {
	return TileType(i).Suit()
}

var kokushiTiles = [13]int{
	int(Man1), int(Man9),
	int(Pin1), int(Pin9),
	int(So1), int(So9),
	int(East), int(South), int(West), int(North),
	int(White), int(Green), int(Red),
}

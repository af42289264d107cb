package mahjong

import (
	"fmt"
	"math/rand"
	"time"
)

// TileSource 牌山，由对局单线程驱动
type TileSource interface {
	TakeLiveTile() Tile
	// TakeDeadWallTile 岭上摸牌，第五次调用违反不变量
	TakeDeadWallTile() Tile
	DrawableCount() int
	// RevealNextIndicatorIfEligible 已翻指示牌数不超过岭上已取张数时翻下一张
	RevealNextIndicatorIfEligible() (Tile, bool)
	DoraIndicators() []Tile
	UraDoraIndicators() []Tile
}

const (
	deadWallSize      = 14
	rinshanSize       = 4
	maxIndicatorCount = 5
	liveWallSize      = TileLimit - deadWallSize
)

// Wall 标准牌山：122 张活牌 + 14 张王牌（4 张岭上、5 张宝牌指示、5 张里宝牌指示）
type Wall struct {
	live      []Tile
	liveIndex int
	rinshan   []Tile
	dora      []Tile
	ura       []Tile
	deadTaken int
	revealed  int
}

// NewWall 洗牌生成新牌山，seed 为 0 时按时间
func NewWall(useRedFives bool, seed int64) *Wall {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	tiles := NewTileSet(useRedFives)
	rng.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})
	return NewWallFromTiles(tiles)
}

// NewWallFromTiles 按给定顺序建牌山：前 122 张为活牌，之后依次是岭上、宝牌指示、里宝牌指示
func NewWallFromTiles(tiles []Tile) *Wall {
	if len(tiles) != TileLimit {
		panic(NewInvariantError("牌山需要 %d 张牌, 实际 %d", TileLimit, len(tiles)))
	}
	dead := tiles[liveWallSize:]
	return &Wall{
		live:    append([]Tile(nil), tiles[:liveWallSize]...),
		rinshan: append([]Tile(nil), dead[:rinshanSize]...),
		dora:    append([]Tile(nil), dead[rinshanSize:rinshanSize+maxIndicatorCount]...),
		ura:     append([]Tile(nil), dead[rinshanSize+maxIndicatorCount:]...),
	}
}

// NewTileSet 一副 136 张的牌，useRedFives 时每种 5 的 ID=0 为赤牌
func NewTileSet(useRedFives bool) []Tile {
	tiles := make([]Tile, 0, TileLimit)
	for tileType := Man1; tileType <= Red; tileType++ {
		for i := 0; i < 4; i++ {
			tiles = append(tiles, Tile{
				Type: tileType,
				ID:   i,
				Red:  useRedFives && i == 0 && tileType.IsFive(),
			})
		}
	}
	return tiles
}

func (w *Wall) TakeLiveTile() Tile {
	if w.DrawableCount() <= 0 {
		panic(NewInvariantError("牌山已无可摸的牌"))
	}
	t := w.live[w.liveIndex]
	w.liveIndex++
	return t
}

func (w *Wall) TakeDeadWallTile() Tile {
	if w.deadTaken >= rinshanSize {
		panic(NewInvariantError("岭上牌已取完，不能摸第 %d 张", w.deadTaken+1))
	}
	t := w.rinshan[w.deadTaken]
	w.deadTaken++
	return t
}

// DrawableCount 每摸一张岭上牌，海底前移一张
func (w *Wall) DrawableCount() int {
	n := len(w.live) - w.liveIndex - w.deadTaken
	if n < 0 {
		return 0
	}
	return n
}

func (w *Wall) RevealNextIndicatorIfEligible() (Tile, bool) {
	if w.revealed > w.deadTaken {
		return Tile{}, false
	}
	if w.revealed >= maxIndicatorCount {
		panic(NewInvariantError("不能翻开第 %d 张宝牌指示牌", w.revealed+1))
	}
	t := w.dora[w.revealed]
	w.revealed++
	return t, true
}

func (w *Wall) DoraIndicators() []Tile {
	return append([]Tile(nil), w.dora[:w.revealed]...)
}

func (w *Wall) UraDoraIndicators() []Tile {
	return append([]Tile(nil), w.ura[:w.revealed]...)
}

func (w *Wall) DeadTaken() int {
	return w.deadTaken
}

func (w *Wall) String() string {
	return fmt.Sprintf("Wall{drawable:%d dead:%d indicators:%d}", w.DrawableCount(), w.deadTaken, w.revealed)
}

package mahjong

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"gomahjong/common/config"
)

func tl(t TileType, id int) Tile {
	return Tile{Type: t, ID: id}
}

// tiles 同种牌依次分配 ID
func tiles(types ...TileType) []Tile {
	var used [TileKinds]int
	out := make([]Tile, 0, len(types))
	for _, t := range types {
		out = append(out, Tile{Type: t, ID: used[t]})
		used[t]++
	}
	return out
}

func mustPanicInvariant(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("%s: 期望 InvariantError panic", name)
		}
		if _, ok := r.(*InvariantError); !ok {
			t.Fatalf("%s: 期望 *InvariantError, 得到 %T %v", name, r, r)
		}
	}()
	fn()
}

// wallSpec 按座位配牌、摸牌顺序、王牌构造牌山，其余位置用剩下的牌按牌种顺序填充
type wallSpec struct {
	hands   [4][]TileType
	draws   []TileType
	rinshan []TileType
	dora    []TileType
	ura     []TileType
}

func (ws wallSpec) build(t *testing.T) *Wall {
	t.Helper()
	var used [TileKinds]int
	take := func(tt TileType) Tile {
		if used[tt] >= 4 {
			t.Fatalf("牌 %s 超过 4 张", tt)
		}
		tile := Tile{Type: tt, ID: used[tt]}
		used[tt]++
		return tile
	}

	slots := make([]Tile, TileLimit)
	filled := make([]bool, TileLimit)
	put := func(i int, tt TileType) {
		slots[i] = take(tt)
		filled[i] = true
	}

	for w, hand := range ws.hands {
		if len(hand) != 13 {
			t.Fatalf("%s家配牌 %d 张", Wind(w), len(hand))
		}
	}
	for i := 0; i < 13*4; i++ {
		put(i, ws.hands[i%4][i/4])
	}
	for i, tt := range ws.draws {
		put(13*4+i, tt)
	}
	for i, tt := range ws.rinshan {
		put(liveWallSize+i, tt)
	}
	for i, tt := range ws.dora {
		put(liveWallSize+rinshanSize+i, tt)
	}
	for i, tt := range ws.ura {
		put(liveWallSize+rinshanSize+maxIndicatorCount+i, tt)
	}

	next := 0
	for i := range slots {
		if filled[i] {
			continue
		}
		for next < TileKinds && used[next] >= 4 {
			next++
		}
		if next >= TileKinds {
			t.Fatalf("填充牌不足")
		}
		slots[i] = take(TileType(next))
	}
	return NewWallFromTiles(slots)
}

// 互不听牌、没有对子的配牌，不含西风和 9s
var (
	notenEast  = []TileType{Man1, Man4, Man7, Pin2, Pin5, Pin8, So3, So6, East, South, North, White, Green}
	notenSouth = []TileType{Man2, Man5, Man8, Pin3, Pin6, Pin9, So1, So4, So7, East, South, North, Green}
	notenWest  = []TileType{Man3, Man6, Man9, Pin1, Pin4, Pin7, So2, So5, So8, East, South, White, Red}
	notenNorth = []TileType{Man1, Man4, Man7, Pin2, Pin5, Pin8, So3, So6, East, North, White, Green, Red}

	// 234567m 234p 678p 9s，单骑 9s
	tankiNineSo = []TileType{Man2, Man3, Man4, Man5, Man6, Man7, Pin2, Pin3, Pin4, Pin6, Pin7, Pin8, So9}
)

type fakeScore struct {
	winner, from Wind
}

// PaymentsFor 荣和 1000 + 300×本场，自摸每家 500 + 100×本场
func (s fakeScore) PaymentsFor(deposits, honba int) [4]int {
	var pay [4]int
	if s.winner == s.from {
		for _, w := range Winds {
			if w != s.winner {
				pay[w] -= 500 + 100*honba
				pay[s.winner] += 500 + 100*honba
			}
		}
	} else {
		pay[s.from] -= 1000 + 300*honba
		pay[s.winner] += 1000 + 300*honba
	}
	pay[s.winner] += 1000 * deposits
	return pay
}

// fakeScorer 只要是和牌形就接受
type fakeScorer struct {
	mu    sync.Mutex
	flags []SituationFlags
}

func (f *fakeScorer) ScoreWin(hand WinningHand, flags SituationFlags) (Score, error) {
	h := Hand34FromTiles(hand.Tiles())
	if !DefaultSearcher().IsAgariAll(h, len(hand.Melds)) {
		return nil, fmt.Errorf("%v: %w", hand.Tiles(), ErrNotWinningHand)
	}
	f.mu.Lock()
	f.flags = append(f.flags, flags)
	f.mu.Unlock()
	return fakeScore{winner: hand.Winner, from: hand.From}, nil
}

func (f *fakeScorer) ScoreRiverLimit(winner Wind) Score {
	return fakeScore{winner: winner, from: winner}
}

func (f *fakeScorer) lastFlags() SituationFlags {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flags[len(f.flags)-1]
}

// scriptedAgent 先按 pick 选，没选中时摸切；记录收到的事件
type scriptedAgent struct {
	TsumogiriAgent
	pickTurn func(offered []TurnAction) (TurnAction, bool)
	pickCall func(offered []CallAction) (CallAction, bool)

	mu     sync.Mutex
	events []Event
}

func (a *scriptedAgent) Notify(ev Event) {
	a.mu.Lock()
	a.events = append(a.events, ev)
	a.mu.Unlock()
}

func (a *scriptedAgent) ChooseTurnAction(ctx context.Context, offered []TurnAction) TurnAction {
	if a.pickTurn != nil {
		if choice, ok := a.pickTurn(offered); ok {
			return choice
		}
	}
	return a.TsumogiriAgent.ChooseTurnAction(ctx, offered)
}

func (a *scriptedAgent) ChooseCallAction(ctx context.Context, offered []CallAction) CallAction {
	if a.pickCall != nil {
		if choice, ok := a.pickCall(offered); ok {
			return choice
		}
	}
	return a.TsumogiriAgent.ChooseCallAction(ctx, offered)
}

func (a *scriptedAgent) eventsOf(kind EventKind) []Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []Event
	for _, ev := range a.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func pickKind(kind TurnKind) func([]TurnAction) (TurnAction, bool) {
	return func(offered []TurnAction) (TurnAction, bool) {
		for _, a := range offered {
			if a.Kind == kind {
				return a, true
			}
		}
		return TurnAction{}, false
	}
}

func tsumogiriAgents() [4]Agent {
	return [4]Agent{&scriptedAgent{}, &scriptedAgent{}, &scriptedAgent{}, &scriptedAgent{}}
}

func newTestRound(wall TileSource, agents [4]Agent, situation Situation, observers ...Observer) (*Round, *fakeScorer) {
	scorer := &fakeScorer{}
	rd := NewRound(RoundConfig{
		Situation: situation,
		Points:    [4]int{25000, 25000, 25000, 25000},
		Agents:    agents,
		Wall:      wall,
		Scorer:    scorer,
		Mediator:  NewCallMediator(config.DefaultCallTimeout),
		Observers: observers,
	})
	return rd, scorer
}

func sumPoints(points [4]int, deposits int) int {
	sum := 1000 * deposits
	for _, p := range points {
		sum += p
	}
	return sum
}

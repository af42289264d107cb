package mahjong

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestRound_ExhaustiveDrawAllNoten(t *testing.T) {
	wall := wallSpec{hands: [4][]TileType{notenEast, notenSouth, notenWest, notenNorth}}.build(t)
	agents := tsumogiriAgents()
	rd, _ := newTestRound(wall, agents, Situation{RoundWind: WindEast, RoundNumber: 1})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if outcome.Result.EndKind != RoundEndDrawExhaustive {
		t.Fatalf("期望荒牌流局, 得到 %s", outcome.Result)
	}
	if len(outcome.Result.Advantaged) != 0 {
		t.Fatalf("无人听牌, 得到 %v", outcome.Result.Advantaged)
	}
	if outcome.Payments != [4]int{} {
		t.Fatalf("全员不听不应有点数变动: %v", outcome.Payments)
	}
	if wall.DrawableCount() != 0 {
		t.Fatalf("牌山应摸完, 剩 %d", wall.DrawableCount())
	}

	east := agents[WindEast].(*scriptedAgent)
	if got := len(east.eventsOf(EventTileDiscarded)); got != 70 {
		t.Fatalf("期望 70 次打牌, 得到 %d", got)
	}
	for _, ev := range east.eventsOf(EventTileDrawn) {
		if ev.Wind != WindEast && (ev.Tile != nil || !ev.Masked) {
			t.Fatalf("他家摸牌应被隐藏: %+v", ev)
		}
		if ev.Wind == WindEast && ev.Tile == nil {
			t.Fatalf("自己摸牌应可见: %+v", ev)
		}
	}
	if fin := east.eventsOf(EventRoundFinished); len(fin) != 1 || fin[0].Outcome == nil {
		t.Fatalf("缺少回合结束事件")
	}
}

type observerFunc func(Event)

func (f observerFunc) Notify(ev Event) { f(ev) }

func TestRound_FirstDiscardPassesToSouth(t *testing.T) {
	wall := wallSpec{hands: [4][]TileType{notenEast, notenSouth, notenWest, notenNorth}}.build(t)
	var (
		rd      *Round
		checked bool
	)
	watch := observerFunc(func(ev Event) {
		if checked || ev.Kind != EventTileDrawn || ev.Wind != WindSouth {
			return
		}
		checked = true
		east := rd.Seat(WindEast)
		if east.Count() != 13 || len(east.Hand()) != 13 || len(east.River()) != 1 {
			t.Errorf("庄家打牌后应为 13 张手牌, 得到 %d 张, 牌河 %d", len(east.Hand()), len(east.River()))
		}
		if _, ok := east.Drawn(); ok {
			t.Errorf("庄家打牌后不应有摸牌")
		}
		if rd.Seat(WindSouth).Count() != 14 {
			t.Errorf("南家摸牌后应为 14 张")
		}
	})
	rd, _ = newTestRound(wall, tsumogiriAgents(), Situation{RoundWind: WindEast, RoundNumber: 1}, watch)

	if _, err := rd.Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !checked {
		t.Fatalf("南家没有摸牌")
	}
}

func TestRound_ExhaustiveDrawTenpaiPayments(t *testing.T) {
	wall := wallSpec{
		hands: [4][]TileType{tankiNineSo, notenSouth, notenWest, notenNorth},
		ura:   []TileType{So9, So9, So9},
	}.build(t)
	rd, _ := newTestRound(wall, tsumogiriAgents(), Situation{RoundWind: WindEast, RoundNumber: 1, Deposits: 1})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if outcome.Result.EndKind != RoundEndDrawExhaustive {
		t.Fatalf("期望荒牌流局, 得到 %s", outcome.Result)
	}
	if !slices.Equal(outcome.Result.Advantaged, []Wind{WindEast}) {
		t.Fatalf("期望东家听牌, 得到 %v", outcome.Result.Advantaged)
	}
	want := [4]int{3000, -1000, -1000, -1000}
	if outcome.Payments != want {
		t.Fatalf("期望 %v, 得到 %v", want, outcome.Payments)
	}
	if outcome.After.Deposits != 1 || outcome.Result.Deposits != 1 {
		t.Fatalf("流局供托应保留, 得到 %d", outcome.After.Deposits)
	}
	if outcome.After.Ranks != [4]int{1, 2, 3, 4} {
		t.Fatalf("同点按座位排序, 得到 %v", outcome.After.Ranks)
	}
}

func TestRound_Tsumo(t *testing.T) {
	wall := wallSpec{
		hands: [4][]TileType{tankiNineSo, notenSouth, notenWest, notenNorth},
		draws: []TileType{So9},
	}.build(t)
	rd, scorer := newTestRound(wall, tsumogiriAgents(), Situation{RoundWind: WindEast, RoundNumber: 1, Honba: 1})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if outcome.Result.EndKind != RoundEndTsumo || !slices.Equal(outcome.Result.Winners, []Wind{WindEast}) {
		t.Fatalf("期望东家自摸, 得到 %s", outcome.Result)
	}
	if want := [4]int{1800, -600, -600, -600}; outcome.Payments != want {
		t.Fatalf("期望 %v, 得到 %v", want, outcome.Payments)
	}
	flags := scorer.lastFlags()
	if !flags.Tsumo || !flags.Dealer || !flags.FirstAround || flags.AfterKan || flags.Riichi {
		t.Fatalf("场况错误: %+v", flags)
	}
	if len(flags.Dora) != 1 {
		t.Fatalf("只翻了一张宝牌指示牌, 得到 %d", len(flags.Dora))
	}
	if len(outcome.Wins) != 1 || outcome.Wins[0].From != WindEast {
		t.Fatalf("和了记录错误: %+v", outcome.Wins)
	}
}

func TestRound_RonTakesDeposits(t *testing.T) {
	wall := wallSpec{
		hands: [4][]TileType{tankiNineSo, notenSouth, notenWest, notenNorth},
		draws: []TileType{West, So9},
		ura:   []TileType{So9, So9},
	}.build(t)
	rd, scorer := newTestRound(wall, tsumogiriAgents(), Situation{RoundWind: WindEast, RoundNumber: 1, Honba: 1, Deposits: 2})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if outcome.Result.EndKind != RoundEndRon || !slices.Equal(outcome.Result.Winners, []Wind{WindEast}) {
		t.Fatalf("期望东家荣和, 得到 %s", outcome.Result)
	}
	if want := [4]int{3300, -1300, 0, 0}; outcome.Payments != want {
		t.Fatalf("期望 %v, 得到 %v", want, outcome.Payments)
	}
	if outcome.After.Deposits != 0 {
		t.Fatalf("和了后供托应清零, 得到 %d", outcome.After.Deposits)
	}
	if sumPoints(outcome.After.Points, 0) != 100000+2000 {
		t.Fatalf("点数加供托不守恒: %v", outcome.After.Points)
	}
	if flags := scorer.lastFlags(); flags.Tsumo || flags.FirstAround {
		t.Fatalf("荣和场况错误: %+v", flags)
	}
}

// 南、西单骑 9s，北不听
var (
	tankiNineSoNorth = []TileType{So1, So2, So3, So4, So5, So6, Man1, Man1, Man1, Pin5, Pin5, Pin5, So9}
	notenNorthRon    = []TileType{So1, So4, So7, Man1, Man4, Man7, Pin1, Pin4, Pin7, Pin5, Man9, Red, Red}
	pairedEast       = []TileType{East, East, South, South, West, West, North, North, White, Green, Red, Man8, Pin8}
)

func TestRound_DoubleRonOrderAndPayments(t *testing.T) {
	wall := wallSpec{
		hands: [4][]TileType{pairedEast, tankiNineSo, tankiNineSo, notenNorthRon},
		draws: []TileType{So9},
		ura:   []TileType{So9},
	}.build(t)
	rd, _ := newTestRound(wall, tsumogiriAgents(), Situation{RoundWind: WindEast, RoundNumber: 1, Honba: 2, Deposits: 1})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if outcome.Result.EndKind != RoundEndRon {
		t.Fatalf("期望荣和, 得到 %s", outcome.Result)
	}
	if !slices.Equal(outcome.Result.Winners, []Wind{WindSouth, WindWest}) {
		t.Fatalf("应从放铳家下家开始结算, 得到 %v", outcome.Result.Winners)
	}
	// 南拿本场和供托，西只拿基本点
	if want := [4]int{-2600, 2600, 1000, 0}; outcome.Payments != want {
		t.Fatalf("期望 %v, 得到 %v", want, outcome.Payments)
	}
}

func TestRound_TripleRonAborts(t *testing.T) {
	wall := wallSpec{
		hands: [4][]TileType{pairedEast, tankiNineSo, tankiNineSo, tankiNineSoNorth},
		draws: []TileType{So9},
	}.build(t)
	rd, _ := newTestRound(wall, tsumogiriAgents(), Situation{RoundWind: WindEast, RoundNumber: 1, Deposits: 1})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if outcome.Result.EndKind != RoundEndDraw3Ron || !outcome.Result.IsDraw() {
		t.Fatalf("期望三家荣和流局, 得到 %s", outcome.Result)
	}
	if outcome.Payments != [4]int{} || outcome.After.Deposits != 1 {
		t.Fatalf("途中流局不结算: %v 供托 %d", outcome.Payments, outcome.After.Deposits)
	}
}

func TestRound_FourWinds(t *testing.T) {
	wall := wallSpec{
		hands: [4][]TileType{notenEast, notenSouth, notenWest, notenNorth},
		draws: []TileType{West, West, West, West},
	}.build(t)
	agents := tsumogiriAgents()
	rd, _ := newTestRound(wall, agents, Situation{RoundWind: WindEast, RoundNumber: 1})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if outcome.Result.EndKind != RoundEndDraw4Wind {
		t.Fatalf("期望四风连打, 得到 %s", outcome.Result)
	}
	if got := len(agents[WindEast].(*scriptedAgent).eventsOf(EventTileDiscarded)); got != 4 {
		t.Fatalf("期望 4 次打牌, 得到 %d", got)
	}
}

func TestRound_NineTerminals(t *testing.T) {
	nine := []TileType{Man1, Man9, Pin1, Pin9, So1, So9, East, South, West, North, Man5, Pin5, So5}
	wall := wallSpec{hands: [4][]TileType{nine, notenSouth, notenWest, notenNorth}}.build(t)
	agents := tsumogiriAgents()
	agents[WindEast] = &scriptedAgent{pickTurn: pickKind(TurnNineTiles)}
	rd, _ := newTestRound(wall, agents, Situation{RoundWind: WindEast, RoundNumber: 1})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if outcome.Result.EndKind != RoundEndDraw9Terminals || !outcome.Result.EndKind.IsAbortive() {
		t.Fatalf("期望九种九牌, 得到 %s", outcome.Result)
	}
}

func TestRound_RiichiConfirmedPaysDeposit(t *testing.T) {
	wall := wallSpec{
		hands: [4][]TileType{tankiNineSo, notenSouth, notenWest, notenNorth},
		draws: []TileType{West},
		ura:   []TileType{So9, So9, So9},
	}.build(t)
	agents := tsumogiriAgents()
	east := &scriptedAgent{pickTurn: func(offered []TurnAction) (TurnAction, bool) {
		for _, a := range offered {
			if a.Kind == TurnDiscard && a.Riichi && a.Tile.Type == West {
				return a, true
			}
		}
		return TurnAction{}, false
	}}
	agents[WindEast] = east
	rd, _ := newTestRound(wall, agents, Situation{RoundWind: WindEast, RoundNumber: 1})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	seat := rd.Seat(WindEast)
	if seat.Ready() != ReadyConfirmed || !seat.IsDoubleReady() {
		t.Fatalf("第一巡立直应为两立直, 状态 %v", seat.Ready())
	}
	if len(east.eventsOf(EventReadyDeclared)) != 1 {
		t.Fatalf("缺少立直成立事件")
	}
	if outcome.After.Deposits != 1 {
		t.Fatalf("立直棒应进入供托, 得到 %d", outcome.After.Deposits)
	}
	if want := [4]int{27000, 24000, 24000, 24000}; outcome.After.Points != want {
		t.Fatalf("期望 %v, 得到 %v", want, outcome.After.Points)
	}
	for _, a := range east.eventsOf(EventTileDiscarded) {
		if a.Wind == WindEast && a.Riichi && a.Tile.Type != West {
			t.Fatalf("只有宣言牌带立直标记")
		}
	}
}

// 东家暗杠 1m 2m 3m，南家暗杠 4p：四杠来自两家
func TestRound_FourKansFromTwoSeatsAbort(t *testing.T) {
	east := []TileType{Man1, Man1, Man1, Man1, Man2, Man2, Man2, Man2, Man3, Man3, Man3, Man3, So8}
	south := []TileType{Pin4, Pin4, Pin4, Pin4, Man5, Man8, So1, So4, So7, East, South, North, Green}
	west := []TileType{Man6, Man9, Pin1, Pin2, Pin7, Pin8, So2, So5, So9, East, South, White, Red}
	north := []TileType{Man4, Man7, Pin3, Pin5, Pin6, Pin9, So3, So6, North, White, Green, Red, West}
	wall := wallSpec{
		hands: [4][]TileType{east, south, west, north},
		draws: []TileType{So5, Man7},
	}.build(t)

	agents := [4]Agent{}
	for _, w := range Winds {
		agents[w] = &scriptedAgent{pickTurn: pickKind(TurnAnkan)}
	}
	rd, _ := newTestRound(wall, agents, Situation{RoundWind: WindEast, RoundNumber: 1})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if outcome.Result.EndKind != RoundEndDraw4Kan {
		t.Fatalf("期望四杠散了, 得到 %s", outcome.Result)
	}
	if len(rd.Seat(WindEast).Melds()) != 3 || len(rd.Seat(WindSouth).Melds()) != 1 {
		t.Fatalf("杠数错误: 东 %d 南 %d", len(rd.Seat(WindEast).Melds()), len(rd.Seat(WindSouth).Melds()))
	}
}

// 同一家四杠不流局，继续打到荒牌
func TestRound_FourKansBySameSeatContinue(t *testing.T) {
	east := []TileType{Man1, Man1, Man1, Man1, Man2, Man2, Man2, Man2, Man3, Man3, Man3, Man3, Pin9}
	south := []TileType{Man4, Man7, Pin1, Pin4, Pin7, So2, So5, So8, East, South, North, White, Green}
	west := []TileType{Man5, Man8, Pin2, Pin5, Pin8, So3, So6, So9, East, South, North, White, Red}
	north := []TileType{Man6, Man9, Pin3, Pin4, Pin6, So1, So4, So7, East, South, Green, Red, White}
	wall := wallSpec{
		hands:   [4][]TileType{east, south, west, north},
		draws:   []TileType{Pin9},
		rinshan: []TileType{Pin9, Pin9, West, So5},
		ura:     []TileType{West, West, West},
	}.build(t)

	agents := [4]Agent{}
	for _, w := range Winds {
		agents[w] = &scriptedAgent{pickTurn: pickKind(TurnAnkan)}
	}
	rd, _ := newTestRound(wall, agents, Situation{RoundWind: WindEast, RoundNumber: 1})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if outcome.Result.EndKind != RoundEndDrawExhaustive {
		t.Fatalf("期望荒牌流局, 得到 %s", outcome.Result)
	}
	if got := len(rd.Seat(WindEast).Melds()); got != 4 {
		t.Fatalf("东家应有 4 个暗杠, 得到 %d", got)
	}
	if got := len(wall.DoraIndicators()); got != 5 {
		t.Fatalf("四杠后应有 5 张宝牌指示牌, 得到 %d", got)
	}
	if !slices.Equal(outcome.Result.Advantaged, []Wind{WindEast}) {
		t.Fatalf("东家单骑西风听牌, 得到 %v", outcome.Result.Advantaged)
	}
}

type illegalAgent struct {
	TsumogiriAgent
}

func (illegalAgent) ChooseTurnAction(context.Context, []TurnAction) TurnAction {
	return TurnAction{Kind: TurnDiscard, Tile: Tile{Type: Red, ID: 3}}
}

func TestRound_IllegalChoiceAborts(t *testing.T) {
	wall := wallSpec{hands: [4][]TileType{notenEast, notenSouth, notenWest, notenNorth}}.build(t)
	agents := tsumogiriAgents()
	agents[WindEast] = illegalAgent{}
	rd, _ := newTestRound(wall, agents, Situation{RoundWind: WindEast, RoundNumber: 1})

	outcome, err := rd.Play(context.Background())
	if err == nil || outcome != nil {
		t.Fatalf("非法选择应中止本局")
	}
	if !IsInvariantError(err) {
		t.Fatalf("期望 InvariantError, 得到 %v", err)
	}
	if _, err := rd.Play(context.Background()); !IsInvariantError(err) {
		t.Fatalf("同一局不能打两次, 得到 %v", err)
	}
}

func TestRound_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rd, _ := newTestRound(NewWall(false, 1), tsumogiriAgents(), Situation{RoundWind: WindEast, RoundNumber: 1})
	if _, err := rd.Play(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("期望 context.Canceled, 得到 %v", err)
	}
}

// 随机合法行动下张数不变量和点数守恒都成立
func TestRound_RandomPlayKeepsInvariants(t *testing.T) {
	for seed := int64(1); seed <= 40; seed++ {
		var agents [4]Agent
		for _, w := range Winds {
			agents[w] = NewRandomAgent(seed*10 + int64(w))
		}
		situation := Situation{RoundWind: WindEast, RoundNumber: 1, Honba: int(seed % 3), Deposits: int(seed % 2)}
		rd, _ := newTestRound(NewWall(seed%2 == 0, seed), agents, situation)

		outcome, err := rd.Play(context.Background())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		before := sumPoints(outcome.Before.Points, outcome.Before.Deposits)
		after := sumPoints(outcome.After.Points, outcome.After.Deposits)
		if before != after {
			t.Fatalf("seed %d: 点数不守恒 %d -> %d (%s)", seed, before, after, outcome.Result)
		}
		for _, w := range Winds {
			if c := rd.Seat(w).Count(); c != 13 && c != 14 {
				t.Fatalf("seed %d: %s家张数 %d", seed, w, c)
			}
		}
	}
}

func TestRound_AnkanDoesNotFuritenOrdinaryWaits(t *testing.T) {
	wall := wallSpec{
		hands: [4][]TileType{
			{Man4, Man4, Man4, Man4, Pin2, Pin5, Pin8, So3, So6, East, South, North, White},
			// 23m 123456p 789s 发发，听 1m 4m
			{Man2, Man3, Pin1, Pin2, Pin3, Pin4, Pin5, Pin6, So7, So8, So9, Green, Green},
			notenWest,
			{Man5, Man8, Pin3, Pin6, Pin9, So1, So4, So7, East, North, White, Red, Red},
		},
		draws:   []TileType{Pin9},
		rinshan: []TileType{Man1},
	}.build(t)
	agents := tsumogiriAgents()
	agents[WindEast] = &scriptedAgent{pickTurn: pickKind(TurnAnkan)}
	rd, scorer := newTestRound(wall, agents, Situation{RoundWind: WindEast, RoundNumber: 1})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if outcome.Result.EndKind != RoundEndRon || !slices.Equal(outcome.Result.Winners, []Wind{WindSouth}) {
		t.Fatalf("暗杠的 4m 不能抢，南家之后仍可荣和岭上牌, 得到 %s", outcome.Result)
	}
	if len(outcome.Wins) != 1 || outcome.Wins[0].From != WindEast {
		t.Fatalf("应由东家放铳: %+v", outcome.Wins)
	}
	if scorer.lastFlags().Chankan {
		t.Fatalf("打出岭上牌被荣和不是抢杠")
	}
}

func TestRound_ChankanOnKakan(t *testing.T) {
	wall := wallSpec{
		hands: [4][]TileType{
			{Man4, Man7, Pin1, Pin2, Pin8, So5, So8, East, South, West, White, Green, Red},
			{Pin5, Pin5, Man5, Man9, Pin9, So4, So7, So9, East, South, White, Green, Red},
			// 123m 789m 123s 北北 46p，坎张 5p
			{Man1, Man2, Man3, Man7, Man8, Man9, So1, So2, So3, Pin4, Pin6, North, North},
			{Man3, Man6, Pin3, Pin7, So2, So6, East, South, West, White, Green, Red, North},
		},
		// 东打 5p 南碰；西摸切 So5 解除同巡振听；南摸到第四张 5p 加杠
		draws: []TileType{Pin5, So5, Pin8, Man4, Pin5},
	}.build(t)
	agents := tsumogiriAgents()
	agents[WindSouth] = &scriptedAgent{
		pickTurn: pickKind(TurnKakan),
		pickCall: func(offered []CallAction) (CallAction, bool) {
			for _, a := range offered {
				if a.Kind == CallPeng {
					return a, true
				}
			}
			return CallAction{}, false
		},
	}
	ronOffers := 0
	agents[WindWest] = &scriptedAgent{pickCall: func(offered []CallAction) (CallAction, bool) {
		if slices.ContainsFunc(offered, func(a CallAction) bool { return a.Kind == CallRon }) {
			ronOffers++
			if ronOffers == 1 {
				return PassAction, true
			}
		}
		return CallAction{}, false
	}}
	rd, scorer := newTestRound(wall, agents, Situation{RoundWind: WindEast, RoundNumber: 1})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if outcome.Result.EndKind != RoundEndRon || !slices.Equal(outcome.Result.Winners, []Wind{WindWest}) {
		t.Fatalf("期望西家抢杠, 得到 %s", outcome.Result)
	}
	if ronOffers != 2 {
		t.Fatalf("西家应被询问两次荣和, 得到 %d", ronOffers)
	}
	if len(outcome.Wins) != 1 || outcome.Wins[0].From != WindSouth {
		t.Fatalf("抢杠由加杠家支付: %+v", outcome.Wins)
	}
	if !scorer.lastFlags().Chankan {
		t.Fatalf("缺少抢杠标记: %+v", scorer.lastFlags())
	}
	if want := [4]int{0, -1000, 1000, 0}; outcome.Payments != want {
		t.Fatalf("期望 %v, 得到 %v", want, outcome.Payments)
	}
}

func pickRiichi(offered []TurnAction) (TurnAction, bool) {
	for _, a := range offered {
		if a.Kind == TurnDiscard && a.Riichi {
			return a, true
		}
	}
	return TurnAction{}, false
}

func TestRound_FourRiichiAborts(t *testing.T) {
	wall := wallSpec{
		hands: [4][]TileType{
			tankiNineSo,
			{So1, So2, So3, So4, So5, So6, Man1, Man1, Man1, Pin5, Pin5, Pin5, West},
			{Man8, Man8, Man8, Pin9, Pin9, Pin9, So7, So7, So7, White, White, White, Green},
			{East, East, East, South, South, South, Red, Red, Red, Pin1, Pin2, Pin3, North},
		},
		draws: []TileType{Man9, So8, Man9, So8},
	}.build(t)
	var agents [4]Agent
	for _, w := range Winds {
		agents[w] = &scriptedAgent{pickTurn: pickRiichi}
	}
	rd, _ := newTestRound(wall, agents, Situation{RoundWind: WindEast, RoundNumber: 1})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if outcome.Result.EndKind != RoundEndDraw4Riichi || !outcome.Result.EndKind.IsAbortive() {
		t.Fatalf("期望四家立直, 得到 %s", outcome.Result)
	}
	for _, w := range Winds {
		if rd.Seat(w).Ready() != ReadyConfirmed {
			t.Fatalf("%s家立直应成立", w)
		}
	}
	if outcome.After.Deposits != 4 || outcome.Payments != [4]int{} {
		t.Fatalf("四根立直棒留在场上且不结算: 供托 %d %v", outcome.After.Deposits, outcome.Payments)
	}
	if want := [4]int{24000, 24000, 24000, 24000}; outcome.After.Points != want {
		t.Fatalf("期望 %v, 得到 %v", want, outcome.After.Points)
	}
}

// riverLimitDraws 生成 70 张摸牌：limit 中的家只摸幺九牌，其余家只摸中张
func riverLimitDraws(t *testing.T, hands [4][]TileType, limit ...Wind) []TileType {
	t.Helper()
	var left [TileKinds]int
	for i := range left {
		left[i] = 4
	}
	for _, h := range hands {
		for _, tt := range h {
			left[tt]--
		}
	}
	take := func(orphan bool) TileType {
		for i := 0; i < TileKinds; i++ {
			if tt := TileType(i); left[tt] > 0 && tt.IsOrphan() == orphan {
				left[tt]--
				return tt
			}
		}
		t.Fatalf("剩余牌不足")
		return 0
	}
	draws := make([]TileType, 0, liveWallSize-13*4)
	for k := 0; k < liveWallSize-13*4; k++ {
		draws = append(draws, take(slices.Contains(limit, Wind(k%4))))
	}
	return draws
}

func TestRound_RiverLimitDraw(t *testing.T) {
	hands := [4][]TileType{notenEast, notenSouth, notenWest, notenNorth}
	wall := wallSpec{hands: hands, draws: riverLimitDraws(t, hands, WindNorth)}.build(t)
	rd, _ := newTestRound(wall, tsumogiriAgents(), Situation{RoundWind: WindEast, RoundNumber: 1, Deposits: 1})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if outcome.Result.EndKind != RoundEndDrawNagashi {
		t.Fatalf("期望流局满贯, 得到 %s", outcome.Result)
	}
	if len(outcome.Result.Advantaged) != 0 {
		t.Fatalf("无人听牌, 得到 %v", outcome.Result.Advantaged)
	}
	if len(outcome.Wins) != 1 || outcome.Wins[0].Winner != WindNorth {
		t.Fatalf("北家流局满贯: %+v", outcome.Wins)
	}
	// 按自摸支付，供托留到下一局
	if want := [4]int{-500, -500, -500, 1500}; outcome.Payments != want {
		t.Fatalf("期望 %v, 得到 %v", want, outcome.Payments)
	}
	if outcome.After.Deposits != 1 {
		t.Fatalf("流局满贯不取供托, 得到 %d", outcome.After.Deposits)
	}
}

func TestRound_ThreeRiverLimitsAbort(t *testing.T) {
	// 只含 2、3、5、6、8 的配牌，互不成对也不听牌
	hands := [4][]TileType{
		{Man2, Man3, Man5, Man6, Man8, Pin2, Pin3, Pin5, Pin6, Pin8, So2, So5, So8},
		{Man2, Man3, Man5, Man6, Man8, Pin2, Pin5, Pin8, So2, So3, So5, So6, So8},
		{Man2, Man5, Man8, Pin2, Pin3, Pin5, Pin6, Pin8, So2, So3, So5, So6, So8},
		{Man2, Man3, Man5, Man6, Man8, Pin2, Pin3, Pin5, Pin8, So2, So3, So5, So8},
	}
	wall := wallSpec{hands: hands, draws: riverLimitDraws(t, hands, WindSouth, WindWest, WindNorth)}.build(t)
	rd, _ := newTestRound(wall, tsumogiriAgents(), Situation{RoundWind: WindEast, RoundNumber: 1})

	outcome, err := rd.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if outcome.Result.EndKind != RoundEndDraw3Ron {
		t.Fatalf("三家流局满贯按三家和了流局, 得到 %s", outcome.Result)
	}
	if outcome.Payments != [4]int{} || len(outcome.Wins) != 0 {
		t.Fatalf("流局不结算: %v %+v", outcome.Payments, outcome.Wins)
	}
}

func TestRound_CallClearsIppatsu(t *testing.T) {
	westPair := []TileType{Man3, Man3, Man6, Man9, Pin1, Pin4, Pin7, So2, So5, So8, East, South, White}
	wall := wallSpec{
		hands: [4][]TileType{tankiNineSo, notenSouth, westPair, notenNorth},
		draws: []TileType{West, Man3},
	}.build(t)
	agents := tsumogiriAgents()
	agents[WindEast] = &scriptedAgent{pickTurn: func(offered []TurnAction) (TurnAction, bool) {
		for _, a := range offered {
			if a.Riichi && a.Tile.Type == West {
				return a, true
			}
		}
		return TurnAction{}, false
	}}
	agents[WindWest] = &scriptedAgent{pickCall: func(offered []CallAction) (CallAction, bool) {
		for _, a := range offered {
			if a.Kind == CallPeng && a.Tiles[0].Type == Man3 {
				return a, true
			}
		}
		return CallAction{}, false
	}}

	var (
		rd                  *Round
		declared, afterMeld []bool
	)
	watch := observerFunc(func(ev Event) {
		switch ev.Kind {
		case EventReadyDeclared:
			declared = append(declared, rd.Seat(WindEast).Ippatsu())
		case EventMeldFormed:
			afterMeld = append(afterMeld, rd.Seat(WindEast).Ippatsu())
		}
	})
	rd, _ = newTestRound(wall, agents, Situation{RoundWind: WindEast, RoundNumber: 1}, watch)

	if _, err := rd.Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if len(declared) != 1 || !declared[0] {
		t.Fatalf("立直成立时应有一发: %v", declared)
	}
	if len(afterMeld) == 0 || afterMeld[0] {
		t.Fatalf("西家碰牌后东家一发应消失: %v", afterMeld)
	}
}

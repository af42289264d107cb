package mahjong

import (
	"context"
	"fmt"
	"slices"

	"gomahjong/common/config"
	"gomahjong/common/log"
)

const exhaustiveDrawPool = 3000 // 荒牌流局罚符

/*
	一局的状态机：
		配牌、翻第一张宝牌指示牌后，庄家（东）进入 DrawTurn
		DrawTurn 从牌山摸牌，QuadTurn 从岭上摸牌，CallTurn 鸣牌后不摸牌直接出牌
		摸牌后向本家要一个行动（自摸、九种九牌、暗杠、加杠、打牌/立直）
		杠和打牌都要通过 Mediator 询问其余三家（抢杠只能荣和）
	终局：
		自摸、荣和（三家荣和流局）、九种九牌、四风连打、四杠散了、四家立直、荒牌流局（含流局满贯）
	计分交给 ScoringEngine，本局只负责把点数变动一次性加到四家
*/

// Situation 场况
type Situation struct {
	RoundWind   Wind `json:"roundWind"`   // 场风
	RoundNumber int  `json:"roundNumber"` // 局数(1-4)
	Honba       int  `json:"honba"`       // 本场数
	Deposits    int  `json:"deposits"`    // 供托（立直棒数量）
}

// Snapshot 某一时刻的点数、顺位、供托，按风位索引
type Snapshot struct {
	Points   [4]int `json:"points"`
	Ranks    [4]int `json:"ranks"`
	Deposits int    `json:"deposits"`
}

// WinRecord 一次和了（或流局满贯）的结算
type WinRecord struct {
	Winner   Wind   `json:"winner"`
	From     Wind   `json:"from"`
	Payments [4]int `json:"payments"`
}

// RoundOutcome 一局的结果，Payments 为结算时的点数变动（不含本局立直棒支出）
type RoundOutcome struct {
	Result   RoundResult `json:"result"`
	Before   Snapshot    `json:"before"`
	After    Snapshot    `json:"after"`
	Payments [4]int      `json:"payments"`
	Wins     []WinRecord `json:"wins,omitempty"`
}

// RoundConfig 创建一局需要的协作者，Points 按风位索引
type RoundConfig struct {
	Situation Situation
	Points    [4]int
	Agents    [4]Agent
	Wall      TileSource
	Scorer    ScoringEngine
	Mediator  *CallMediator
	Searcher  *Searcher
	Observers []Observer
}

type scoredWin struct {
	winner Wind
	from   Wind
	score  Score
}

// Round 日麻四人一局，座位按风位索引，庄家总是东
type Round struct {
	situation   *Situation
	points      [4]int
	seats       [4]*Seat
	agents      [4]Agent
	wall        TileSource
	scorer      ScoringEngine
	mediator    *CallMediator
	observers   []Observer
	turnManager *TurnManager

	readyCount  int               // 本局立直成立的家数
	kanCount    int               // 本局杠的总数
	kanWinds    map[Wind]struct{} // 开过杠的风位
	ankanReveal bool              // 暗杠后岭上摸牌立即翻指示牌
	wins        []scoredWin
	seq         int
	played      bool
}

func NewRound(cfg RoundConfig) *Round {
	mediator := cfg.Mediator
	if mediator == nil {
		mediator = NewCallMediator(config.DefaultCallTimeout)
	}
	situation := cfg.Situation
	rd := &Round{
		situation:   &situation,
		points:      cfg.Points,
		agents:      cfg.Agents,
		wall:        cfg.Wall,
		scorer:      cfg.Scorer,
		mediator:    mediator,
		observers:   cfg.Observers,
		turnManager: NewTurnManager(),
		kanWinds:    make(map[Wind]struct{}, 4),
	}
	for _, w := range Winds {
		rd.seats[w] = NewSeat(w, cfg.Searcher)
	}
	return rd
}

func (rd *Round) Seat(w Wind) *Seat {
	return rd.seats[w]
}

func (rd *Round) Situation() Situation {
	return *rd.situation
}

func (rd *Round) Points() [4]int {
	return rd.points
}

// Play 打完一局。违反不变量时中止并原样返回 *InvariantError
func (rd *Round) Play(ctx context.Context) (outcome *RoundOutcome, err error) {
	if rd.played {
		return nil, NewInvariantError("同一局不能打两次")
	}
	rd.played = true

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InvariantError)
			if !ok {
				panic(r)
			}
			rd.HappenDamageError(ie)
			outcome, err = nil, ie
		}
	}()

	before := rd.snapshot()
	rd.distributeCard()
	result, err := rd.loop(ctx)
	if err != nil {
		return nil, err
	}
	outcome = rd.settle(result)
	outcome.Before = before
	rd.broadcastRoundFinished(outcome)
	log.Info("%s%d局 %d本场 结束: %s 点数 %v", rd.situation.RoundWind, rd.situation.RoundNumber, rd.situation.Honba, outcome.Result, outcome.After.Points)
	return outcome, nil
}

// distributeCard 每家轮流发 13 张，翻开第一张宝牌指示牌
func (rd *Round) distributeCard() {
	var hands [4][]Tile
	for i := 0; i < 13*4; i++ {
		w := Wind(i % 4)
		hands[w] = append(hands[w], rd.wall.TakeLiveTile())
	}
	for _, w := range Winds {
		rd.seats[w].Deal(hands[w])
	}
	rd.broadcastRoundStart()
	rd.revealIndicator()
}

func (rd *Round) loop(ctx context.Context) (RoundResult, error) {
	tm := rd.turnManager
	for {
		if err := ctx.Err(); err != nil {
			return RoundResult{}, fmt.Errorf("对局被取消: %w", err)
		}
		rd.checkSeats()
		seat := rd.seats[tm.Pointer]

		switch tm.State {
		case DrawTurn:
			if rd.wall.DrawableCount() == 0 {
				return rd.LeadNormalDrawEnding(), nil
			}
			rd.DropTurn(seat, rd.wall.TakeLiveTile())
		case QuadTurn:
			rd.DropTurn(seat, rd.wall.TakeDeadWallTile())
			if rd.ankanReveal {
				rd.ankanReveal = false
				rd.revealIndicator()
			}
		case CallTurn:
		}

		action := rd.requestTurnAction(ctx, seat)
		log.Debug("%s家 %s: %s", seat.Wind(), tm.State, action)

		switch action.Kind {
		case TurnTsumo:
			return rd.handleTsumo(seat), nil
		case TurnNineTiles:
			return drawResult(RoundEndDraw9Terminals, rd.situation.Deposits), nil
		case TurnAnkan, TurnKakan:
			if result, done := rd.handleKan(ctx, seat, action); done {
				return result, nil
			}
		case TurnDiscard:
			if result, done := rd.handleDiscard(ctx, seat, action); done {
				return result, nil
			}
		default:
			panic(NewInvariantError("未知行动 %v", action))
		}
	}
}

// DropTurn 摸牌
func (rd *Round) DropTurn(seat *Seat, t Tile) {
	seat.Draw(t)
	rd.pushDrawTile(seat.Wind(), t)
}

func (rd *Round) requestTurnAction(ctx context.Context, seat *Seat) TurnAction {
	w := seat.Wind()
	tm := rd.turnManager
	tctx := TurnContext{
		CallTurn:      tm.State == CallTurn,
		FirstAround:   tm.FirstAround() && len(seat.river) == 0,
		DrawableCount: rd.wall.DrawableCount(),
		KanCount:      rd.kanCount,
		Points:        rd.points[w],
	}
	if !tctx.CallTurn {
		if drawn, ok := seat.Drawn(); ok && seat.IsTarget(drawn.Type) {
			_, err := rd.scoreWin(seat, drawn, w, false)
			tctx.CanTsumo = err == nil
		}
	}

	offered := seat.TurnActions(tctx)
	choice := rd.agents[w].ChooseTurnAction(ctx, offered)
	if !slices.ContainsFunc(offered, choice.Equal) {
		panic(NewInvariantError("%s家的行动 %s 不在可选项 %v 中", w, choice, offered))
	}
	return choice
}

func (rd *Round) handleTsumo(seat *Seat) RoundResult {
	w := seat.Wind()
	drawn, _ := seat.Drawn()
	score, err := rd.scoreWin(seat, drawn, w, false)
	if err != nil {
		panic(NewInvariantError("%s家自摸无法计分: %v", w, err))
	}
	rd.wins = append(rd.wins, scoredWin{winner: w, from: w, score: score})
	return winningResult(RoundEndTsumo, w)
}

// handleKan 暗杠、加杠，先询问抢杠
func (rd *Round) handleKan(ctx context.Context, seat *Seat, action TurnAction) (RoundResult, bool) {
	w := seat.Wind()
	var (
		meld   Meld
		source CallSource
	)
	if action.Kind == TurnAnkan {
		meld = seat.Ankan(action.Tile.Type)
		source = FromAnkan
	} else {
		meld = seat.Kakan(action.Tile)
		source = FromKakan
	}
	rd.recordKan(w)
	rd.clearIppatsu()
	rd.turnManager.Interrupt()
	rd.broadcastMeld(w, meld)
	rd.pushHand(w)

	calls, offered := rd.askCalls(ctx, w, action.Tile, source)
	if rons := filterRon(calls); len(rons) > 0 {
		return rd.handleRon(rons, action.Tile, w, true), true
	}
	if action.Kind == TurnKakan {
		rd.markMissedWin(w, action.Tile)
	} else {
		// 暗杠只有国士可抢，见逃的只是被询问过荣和的家
		for _, ow := range offered {
			rd.seats[ow].PassWinningTile(action.Tile.Type)
		}
	}

	if rd.isFourKanDraw() {
		return drawResult(RoundEndDraw4Kan, rd.situation.Deposits), true
	}
	rd.ankanReveal = action.Kind == TurnAnkan
	rd.turnManager.Appoint(w, QuadTurn)
	return RoundResult{}, false
}

func (rd *Round) handleDiscard(ctx context.Context, seat *Seat, action TurnAction) (RoundResult, bool) {
	w := seat.Wind()
	tm := rd.turnManager
	firstTurn := tm.FirstAround() && len(seat.river) == 0

	t := seat.Discard(action.Tile, action.Riichi)
	rd.broadcastDiscard(w, t, action.Riichi)
	rd.pushHand(w)
	rd.revealIndicator()

	calls, _ := rd.askCalls(ctx, w, t, FromDiscard)
	if rons := filterRon(calls); len(rons) > 0 {
		return rd.handleRon(rons, t, w, false), true
	}

	if action.Riichi {
		rd.confirmRiichi(seat, firstTurn)
		if rd.readyCount == 4 {
			return drawResult(RoundEndDraw4Riichi, rd.situation.Deposits), true
		}
	}
	rd.markMissedWin(w, t)

	if len(calls) == 0 {
		if tm.RecordUncalledDiscard(t.Type) {
			return drawResult(RoundEndDraw4Wind, rd.situation.Deposits), true
		}
		tm.NextTurn()
		return RoundResult{}, false
	}
	if len(calls) > 1 {
		panic(NewInvariantError("同一张牌有多家非荣和鸣牌: %v", calls))
	}
	return rd.executeReaction(calls[0], seat, t)
}

// executeReaction 吃、碰、明杠
func (rd *Round) executeReaction(call SignedCallAction, discarder *Seat, t Tile) (RoundResult, bool) {
	caller := rd.seats[call.Wind]
	meld := caller.Call(call.Action, t, call.Wind.SideOf(discarder.Wind()))
	discarder.MarkRiverCalled()
	rd.clearIppatsu()
	rd.turnManager.Interrupt()
	rd.broadcastMeld(call.Wind, meld)
	rd.pushHand(call.Wind)

	if call.Action.Kind == CallGang {
		rd.recordKan(call.Wind)
		if rd.isFourKanDraw() {
			return drawResult(RoundEndDraw4Kan, rd.situation.Deposits), true
		}
		rd.turnManager.Appoint(call.Wind, QuadTurn)
	} else {
		rd.turnManager.Appoint(call.Wind, CallTurn)
	}
	return RoundResult{}, false
}

// askCalls 通过 Mediator 询问其余三家，同时返回被允许荣和的家
func (rd *Round) askCalls(ctx context.Context, from Wind, t Tile, source CallSource) ([]SignedCallAction, []Wind) {
	offers := make(map[Wind]Offer[CallAction], 3)
	var offered []Wind
	for _, w := range Winds {
		if w == from {
			continue
		}
		seat := rd.seats[w]
		cctx := CallContext{
			Discarder:     from,
			Tile:          t,
			Source:        source,
			DrawableCount: rd.wall.DrawableCount(),
			KanCount:      rd.kanCount,
		}
		if seat.CouldRon(t, source) {
			_, err := rd.scoreWin(seat, t, from, source != FromDiscard)
			cctx.CanRon = err == nil
		}
		choices := seat.CallActions(cctx)
		if slices.ContainsFunc(choices, func(a CallAction) bool { return a.Kind == CallRon }) {
			offered = append(offered, w)
		}
		offers[w] = Offer[CallAction]{
			Ask:     rd.agents[w].ChooseCallAction,
			Choices: choices,
		}
	}
	return ResolveCalls(ctx, rd.mediator, offers), offered
}

// handleRon 三家荣和流局，否则从放铳家下家开始依次结算
func (rd *Round) handleRon(rons []SignedCallAction, t Tile, from Wind, chankan bool) RoundResult {
	if len(rons) >= 3 {
		return drawResult(RoundEndDraw3Ron, rd.situation.Deposits)
	}
	winners := make([]Wind, 0, len(rons))
	for _, r := range rons {
		winners = append(winners, r.Wind)
	}
	slices.SortFunc(winners, func(a, b Wind) int {
		return int(from.SideOf(a)) - int(from.SideOf(b))
	})
	for _, w := range winners {
		score, err := rd.scoreWin(rd.seats[w], t, from, chankan)
		if err != nil {
			panic(NewInvariantError("%s家荣和无法计分: %v", w, err))
		}
		rd.wins = append(rd.wins, scoredWin{winner: w, from: from, score: score})
	}
	return winningResult(RoundEndRon, winners...)
}

// LeadNormalDrawEnding 荒牌流局：流局满贯优先，否则听牌家分 3000 点
func (rd *Round) LeadNormalDrawEnding() RoundResult {
	var limits []Wind
	for _, w := range Winds {
		if rd.seats[w].IsRiverLimit() {
			limits = append(limits, w)
		}
	}
	if len(limits) == 3 {
		return drawResult(RoundEndDraw3Ron, rd.situation.Deposits)
	}

	tenpai := rd.tenpaiWinds()
	if len(limits) > 0 {
		for _, w := range limits {
			rd.wins = append(rd.wins, scoredWin{winner: w, from: w, score: rd.scorer.ScoreRiverLimit(w)})
		}
		return drawResult(RoundEndDrawNagashi, rd.situation.Deposits, tenpai...)
	}
	return drawResult(RoundEndDrawExhaustive, rd.situation.Deposits, tenpai...)
}

func (rd *Round) tenpaiWinds() []Wind {
	var out []Wind
	for _, w := range Winds {
		if rd.seats[w].IsTenpai() {
			out = append(out, w)
		}
	}
	return out
}

// settle 计算并一次性应用点数变动
func (rd *Round) settle(result RoundResult) *RoundOutcome {
	outcome := &RoundOutcome{Result: result}
	var delta [4]int

	switch {
	case result.Kind == ResultWinning:
		for i, win := range rd.wins {
			var p [4]int
			if i == 0 {
				p = win.score.PaymentsFor(rd.situation.Deposits, rd.situation.Honba)
			} else {
				p = win.score.PaymentsFor(0, 0)
			}
			addPayments(&delta, p)
			outcome.Wins = append(outcome.Wins, WinRecord{Winner: win.winner, From: win.from, Payments: p})
		}
		rd.situation.Deposits = 0
	case result.EndKind == RoundEndDrawNagashi:
		for _, win := range rd.wins {
			p := win.score.PaymentsFor(0, 0)
			addPayments(&delta, p)
			outcome.Wins = append(outcome.Wins, WinRecord{Winner: win.winner, From: win.from, Payments: p})
		}
	case result.EndKind == RoundEndDrawExhaustive:
		delta = exhaustiveDrawPayments(result.Advantaged)
	}

	for i := range rd.points {
		rd.points[i] += delta[i]
	}
	outcome.Result.Deposits = rd.situation.Deposits
	outcome.Payments = delta
	outcome.After = rd.snapshot()
	return outcome
}

// exhaustiveDrawPayments 听牌家各得 ceil(3000/t)，不听家各付 ceil(3000/(4-t))
func exhaustiveDrawPayments(tenpai []Wind) [4]int {
	var delta [4]int
	t := len(tenpai)
	if t == 0 || t == 4 {
		return delta
	}
	gain := (exhaustiveDrawPool + t - 1) / t
	loss := (exhaustiveDrawPool + (4 - t) - 1) / (4 - t)
	for _, w := range Winds {
		if slices.Contains(tenpai, w) {
			delta[w] += gain
		} else {
			delta[w] -= loss
		}
	}
	return delta
}

func addPayments(dst *[4]int, p [4]int) {
	for i := range dst {
		dst[i] += p[i]
	}
}

// scoreWin 用当前场况询问点数计算
func (rd *Round) scoreWin(seat *Seat, win Tile, from Wind, chankan bool) (Score, error) {
	w := seat.Wind()
	tm := rd.turnManager
	tsumo := from == w
	flags := SituationFlags{
		Tsumo:        tsumo,
		Dealer:       w == WindEast,
		FirstAround:  tsumo && tm.FirstAround() && len(seat.river) == 0,
		AfterKan:     tsumo && tm.State == QuadTurn,
		Chankan:      chankan,
		LastTile:     !chankan && rd.wall.DrawableCount() == 0 && !(tsumo && tm.State == QuadTurn),
		Riichi:       seat.Ready() == ReadyConfirmed,
		DoubleRiichi: seat.Ready() == ReadyConfirmed && seat.IsDoubleReady(),
		Ippatsu:      seat.Ready() == ReadyConfirmed && seat.Ippatsu(),
		SeatWind:     w,
		RoundWind:    rd.situation.RoundWind,
		Dora:         rd.wall.DoraIndicators(),
	}
	if flags.Riichi {
		flags.Ura = rd.wall.UraDoraIndicators()
	}
	score, err := rd.scorer.ScoreWin(seat.WinningHand(win, from), flags)
	if err != nil {
		return nil, fmt.Errorf("%s家 %s: %w", w, win, err)
	}
	return score, nil
}

// confirmRiichi 立直宣言牌无人荣和，立直成立
func (rd *Round) confirmRiichi(seat *Seat, double bool) {
	w := seat.Wind()
	seat.ConfirmReady(double)
	rd.points[w] -= riichiCost
	rd.situation.Deposits++
	rd.readyCount++
	rd.broadcastRiichi(w)
	log.Debug("%s家立直成立，供托 %d", w, rd.situation.Deposits)
}

// markMissedWin 其他家见逃和了牌进入振听
func (rd *Round) markMissedWin(from Wind, t Tile) {
	for _, w := range Winds {
		if w != from {
			rd.seats[w].PassWinningTile(t.Type)
		}
	}
}

func (rd *Round) clearIppatsu() {
	for _, s := range rd.seats {
		s.ClearIppatsu()
	}
}

func (rd *Round) recordKan(w Wind) {
	rd.kanCount++
	rd.kanWinds[w] = struct{}{}
}

// isFourKanDraw 四杠散了：四个杠来自至少两家
func (rd *Round) isFourKanDraw() bool {
	return rd.kanCount == maxKanCount && len(rd.kanWinds) >= 2
}

func (rd *Round) revealIndicator() {
	if t, ok := rd.wall.RevealNextIndicatorIfEligible(); ok {
		rd.broadcastIndicator(t)
	}
}

func (rd *Round) checkSeats() {
	for _, s := range rd.seats {
		s.CheckCount()
	}
}

// snapshot 顺位按点数从高到低，同点按东南西北
func (rd *Round) snapshot() Snapshot {
	snap := Snapshot{Points: rd.points, Deposits: rd.situation.Deposits}
	order := []Wind{WindEast, WindSouth, WindWest, WindNorth}
	slices.SortStableFunc(order, func(a, b Wind) int {
		return rd.points[b] - rd.points[a]
	})
	for i, w := range order {
		snap.Ranks[w] = i + 1
	}
	return snap
}

func filterRon(calls []SignedCallAction) []SignedCallAction {
	var out []SignedCallAction
	for _, c := range calls {
		if c.Action.Kind == CallRon {
			out = append(out, c)
		}
	}
	return out
}

// HappenDamageError 状态机被破坏，本局作废
func (rd *Round) HappenDamageError(err error) {
	log.Error("HappenDamageError: %s%d局 %v", rd.situation.RoundWind, rd.situation.RoundNumber, err)
}

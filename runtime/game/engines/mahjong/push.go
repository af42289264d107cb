package mahjong

import (
	"gomahjong/common/log"
)

// 推送场景：
// 1. 回合开始
// 2. 手牌变化（仅本人可见）
// 3. 摸牌（他家只看到摸了一张）
// 4. 打牌
// 5. 翻宝牌指示牌
// 6. 吃、碰、杠
// 7. 立直成立
// 8. 回合结束

type EventKind string

const (
	EventRoundStarted      EventKind = "ROUND_STARTED"
	EventHandUpdated       EventKind = "HAND_UPDATED"
	EventTileDrawn         EventKind = "TILE_DRAWN"
	EventTileDiscarded     EventKind = "TILE_DISCARDED"
	EventIndicatorRevealed EventKind = "INDICATOR_REVEALED"
	EventMeldFormed        EventKind = "MELD_FORMED"
	EventReadyDeclared     EventKind = "READY_DECLARED"
	EventRoundFinished     EventKind = "ROUND_FINISHED"
)

type Event struct {
	Kind      EventKind     `json:"kind"`
	Seq       int           `json:"seq"`
	Wind      Wind          `json:"wind"`
	Tile      *Tile         `json:"tile,omitempty"`
	Riichi    bool          `json:"riichi,omitempty"`
	Hand      []Tile        `json:"hand,omitempty"`
	Meld      *Meld         `json:"meld,omitempty"`
	Situation *Situation    `json:"situation,omitempty"`
	Outcome   *RoundOutcome `json:"outcome,omitempty"`
	Masked    bool          `json:"masked,omitempty"` // 他家视角被隐藏
}

// viewFor w 家能看到的事件
func (ev Event) viewFor(w Wind) Event {
	if w == ev.Wind {
		return ev
	}
	switch ev.Kind {
	case EventTileDrawn:
		ev.Tile = nil
		ev.Masked = true
	case EventHandUpdated:
		ev.Hand = nil
		ev.Masked = true
	}
	return ev
}

// dispatch 按东南西北的顺序通知四家，再通知旁观者
func (rd *Round) dispatch(ev Event) {
	rd.seq++
	ev.Seq = rd.seq
	for _, w := range Winds {
		rd.agents[w].Notify(ev.viewFor(w))
	}
	for _, o := range rd.observers {
		o.Notify(ev)
	}
}

func (rd *Round) broadcastRoundStart() {
	situation := *rd.situation
	rd.dispatch(Event{Kind: EventRoundStarted, Wind: WindEast, Situation: &situation})
	for _, w := range Winds {
		rd.pushHand(w)
	}
	log.Debug("broadcastRoundStart: %s%d局 %d本场 供托 %d", situation.RoundWind, situation.RoundNumber, situation.Honba, situation.Deposits)
}

func (rd *Round) pushHand(w Wind) {
	rd.dispatch(Event{Kind: EventHandUpdated, Wind: w, Hand: rd.seats[w].FullHand()})
}

func (rd *Round) pushDrawTile(w Wind, t Tile) {
	rd.dispatch(Event{Kind: EventTileDrawn, Wind: w, Tile: &t})
}

func (rd *Round) broadcastDiscard(w Wind, t Tile, riichi bool) {
	rd.dispatch(Event{Kind: EventTileDiscarded, Wind: w, Tile: &t, Riichi: riichi})
	log.Debug("broadcastDiscard: %s家打出 %s", w, t)
}

func (rd *Round) broadcastIndicator(t Tile) {
	rd.dispatch(Event{Kind: EventIndicatorRevealed, Wind: WindEast, Tile: &t})
}

func (rd *Round) broadcastMeld(w Wind, m Meld) {
	rd.dispatch(Event{Kind: EventMeldFormed, Wind: w, Meld: &m})
	log.Debug("broadcastMeld: %s家 %s", w, m)
}

func (rd *Round) broadcastRiichi(w Wind) {
	rd.dispatch(Event{Kind: EventReadyDeclared, Wind: w})
}

func (rd *Round) broadcastRoundFinished(outcome *RoundOutcome) {
	rd.dispatch(Event{Kind: EventRoundFinished, Wind: WindEast, Outcome: outcome})
}

// LogObserver 把事件写进日志
type LogObserver struct{}

func (LogObserver) Notify(ev Event) {
	switch ev.Kind {
	case EventRoundFinished:
		if ev.Outcome != nil {
			log.Info("对局事件 #%d %s: %s", ev.Seq, ev.Kind, ev.Outcome.Result)
		}
	case EventTileDiscarded, EventTileDrawn, EventIndicatorRevealed:
		log.Debug("对局事件 #%d %s: %s家 %v", ev.Seq, ev.Kind, ev.Wind, ev.Tile)
	default:
		log.Debug("对局事件 #%d %s: %s家", ev.Seq, ev.Kind, ev.Wind)
	}
}

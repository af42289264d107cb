package mahjong

import (
	"context"
	"sync"
	"time"

	"gomahjong/common/log"
	"gomahjong/core/domain/entity"
	"gomahjong/core/domain/repository"
)

const saveRoundTimeout = 5 * time.Second

// RoundRecorder 收集一局的事件，回合结束后异步写入数据库
type RoundRecorder struct {
	repo    repository.GameRecordRepository
	gameID  string
	roundID string

	mu     sync.Mutex
	record *entity.RoundRecord
	wg     sync.WaitGroup
	err    error
}

func NewRoundRecorder(repo repository.GameRecordRepository, gameID, roundID string) *RoundRecorder {
	return &RoundRecorder{
		repo:    repo,
		gameID:  gameID,
		roundID: roundID,
	}
}

func (rr *RoundRecorder) Notify(ev Event) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if ev.Kind == EventRoundStarted && ev.Situation != nil {
		s := ev.Situation
		rr.record = entity.NewRoundRecord(rr.gameID, rr.roundID, s.RoundWind.String(), s.RoundNumber, s.Honba, s.Deposits)
	}
	if rr.record == nil {
		return
	}

	switch ev.Kind {
	case EventRoundStarted:
		rr.record.AddEvent(entity.EventTypeRoundStart, -1, nil)
	case EventHandUpdated:
		rr.record.AddEvent(entity.EventTypeHand, int(ev.Wind), map[string]interface{}{"hand": toEntityTiles(ev.Hand)})
	case EventTileDrawn:
		rr.record.AddEvent(entity.EventTypeDrawTile, int(ev.Wind), tileData(ev.Tile))
	case EventTileDiscarded:
		data := tileData(ev.Tile)
		data["riichi"] = ev.Riichi
		rr.record.AddEvent(entity.EventTypeDiscardTile, int(ev.Wind), data)
	case EventIndicatorRevealed:
		rr.record.AddEvent(entity.EventTypeIndicator, -1, tileData(ev.Tile))
	case EventMeldFormed:
		if ev.Meld != nil {
			rr.record.AddEvent(entity.EventTypeMeld, int(ev.Wind), map[string]interface{}{
				"type":  ev.Meld.Type.String(),
				"from":  int(ev.Meld.From),
				"tiles": toEntityTiles(ev.Meld.Tiles),
			})
		}
	case EventReadyDeclared:
		rr.record.AddEvent(entity.EventTypeRiichi, int(ev.Wind), nil)
	case EventRoundFinished:
		if ev.Outcome != nil {
			rr.record.AddEvent(entity.EventTypeRoundEnd, -1, nil)
			rr.record.CompleteRound(toRoundResult(ev.Outcome))
			rr.save(rr.record)
		}
	}
}

// save 异步写库
func (rr *RoundRecorder) save(record *entity.RoundRecord) {
	rr.wg.Add(1)
	go func() {
		defer rr.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveRoundTimeout)
		defer cancel()
		if err := rr.repo.SaveRoundRecord(ctx, record); err != nil {
			log.Error("RoundRecorder: 保存局记录失败, game:%s round:%s err:%v", rr.gameID, rr.roundID, err)
			rr.mu.Lock()
			rr.err = err
			rr.mu.Unlock()
			return
		}
		log.Debug("RoundRecorder: 局记录已保存, game:%s round:%s 事件数:%d", rr.gameID, rr.roundID, len(record.Events))
	}()
}

// Wait 等待写库完成，返回写库错误
func (rr *RoundRecorder) Wait() error {
	rr.wg.Wait()
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.err
}

// Record 当前的局记录，测试用
func (rr *RoundRecorder) Record() *entity.RoundRecord {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.record
}

func tileData(t *Tile) map[string]interface{} {
	if t == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}{"tile": toEntityTile(*t)}
}

func toEntityTile(t Tile) entity.Tile {
	return entity.Tile{Type: int(t.Type), ID: t.ID, Red: t.Red}
}

func toEntityTiles(tiles []Tile) []entity.Tile {
	out := make([]entity.Tile, 0, len(tiles))
	for _, t := range tiles {
		out = append(out, toEntityTile(t))
	}
	return out
}

func toRoundResult(o *RoundOutcome) *entity.RoundResult {
	res := &entity.RoundResult{
		EndType:  string(o.Result.EndKind),
		Delta:    o.Payments,
		Points:   o.After.Points,
		Ranks:    o.After.Ranks,
		Deposits: o.After.Deposits,
	}
	for _, w := range o.Result.Winners {
		res.Winners = append(res.Winners, int(w))
	}
	for _, w := range o.Result.Advantaged {
		res.Advantaged = append(res.Advantaged, int(w))
	}
	for _, win := range o.Wins {
		loser := int(win.From)
		if win.From == win.Winner {
			loser = -1
		}
		res.Claims = append(res.Claims, entity.HuClaim{
			WinnerSeat: int(win.Winner),
			LoserSeat:  loser,
			Payments:   win.Payments,
		})
	}
	return res
}

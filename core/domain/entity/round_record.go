package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoundRecord 局记录（每局一个文档），存该局的事件流和结果
type RoundRecord struct {
	ID          primitive.ObjectID `bson:"_id"`
	GameID      string             `bson:"game_id"`      // 关联的对局
	RoundID     string             `bson:"round_id"`     // uuid
	RoundWind   string             `bson:"round_wind"`   // 场风
	RoundNumber int                `bson:"round_number"` // 局数 (1-4)
	Honba       int                `bson:"honba"`        // 本场数
	Deposits    int                `bson:"deposits"`     // 开局时的供托
	Events      []RoundEvent       `bson:"events"`       // 事件流（按时间顺序）
	RoundResult *RoundResult       `bson:"round_result"` // 回合结果（回合结束时设置）
	StartTime   time.Time          `bson:"start_time"`
	EndTime     time.Time          `bson:"end_time"`
	Duration    int                `bson:"duration"` // 秒
	CreatedAt   time.Time          `bson:"created_at"`
}

// RoundEvent 回合事件（只存事件，不存快照）
type RoundEvent struct {
	Sequence  int                    `bson:"sequence"`   // 事件序号（该局内递增）
	EventType string                 `bson:"event_type"` // 事件类型
	Timestamp time.Time              `bson:"timestamp"`
	SeatIndex int                    `bson:"seat_index"` // 风位（-1 表示系统事件）
	Data      map[string]interface{} `bson:"data"`
}

// RoundResult 回合结果，数组都按风位索引
type RoundResult struct {
	EndType    string    `bson:"end_type"`   // "RON", "TSUMO", "DRAW_EXHAUSTIVE", ...
	Winners    []int     `bson:"winners"`    // 和了的风位（按结算顺序）
	Advantaged []int     `bson:"advantaged"` // 流局时听牌的风位
	Claims     []HuClaim `bson:"claims"`
	Delta      [4]int    `bson:"delta"`    // 结算点数变化
	Points     [4]int    `bson:"points"`   // 结束后的点数
	Ranks      [4]int    `bson:"ranks"`    // 结束后的顺位
	Deposits   int       `bson:"deposits"` // 留下的供托
}

// HuClaim 和牌信息
type HuClaim struct {
	WinnerSeat int    `bson:"winner_seat"`
	LoserSeat  int    `bson:"loser_seat"` // 自摸时为 -1
	Payments   [4]int `bson:"payments"`
}

// Tile 牌（用于存储）
type Tile struct {
	Type int  `bson:"type"`
	ID   int  `bson:"id"`
	Red  bool `bson:"red,omitempty"`
}

func NewRoundRecord(gameID, roundID, roundWind string, roundNumber, honba, deposits int) *RoundRecord {
	now := time.Now()
	return &RoundRecord{
		ID:          primitive.NewObjectID(),
		GameID:      gameID,
		RoundID:     roundID,
		RoundWind:   roundWind,
		RoundNumber: roundNumber,
		Honba:       honba,
		Deposits:    deposits,
		Events:      make([]RoundEvent, 0, 128),
		StartTime:   now,
		CreatedAt:   now,
	}
}

// AddEvent 添加事件
func (rr *RoundRecord) AddEvent(eventType string, seatIndex int, data map[string]interface{}) {
	rr.Events = append(rr.Events, RoundEvent{
		Sequence:  len(rr.Events),
		EventType: eventType,
		Timestamp: time.Now(),
		SeatIndex: seatIndex,
		Data:      data,
	})
}

// CompleteRound 设置回合结果
func (rr *RoundRecord) CompleteRound(result *RoundResult) {
	rr.EndTime = time.Now()
	rr.Duration = int(rr.EndTime.Sub(rr.StartTime).Seconds())
	rr.RoundResult = result
}

// 事件类型常量
const (
	EventTypeRoundStart  = "round_start"
	EventTypeHand        = "hand"
	EventTypeDrawTile    = "draw_tile"
	EventTypeDiscardTile = "discard_tile"
	EventTypeIndicator   = "indicator"
	EventTypeMeld        = "meld"
	EventTypeRiichi      = "riichi"
	EventTypeRoundEnd    = "round_end"
)

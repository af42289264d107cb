package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	GameStatusInProgress = "in_progress"
	GameStatusCompleted  = "completed"
	GameStatusAborted    = "aborted"
)

// GameRecord 一场对局的元数据
type GameRecord struct {
	ID          primitive.ObjectID `bson:"_id"`
	GameID      string             `bson:"game_id"`      // uuid
	GameType    string             `bson:"game_type"`    // "riichi_mahjong_4p"
	Length      string             `bson:"length"`       // "east" 东风战, "south" 半庄战
	Players     []PlayerInfo       `bson:"players"`      // 玩家信息（起家座位）
	Rounds      int                `bson:"rounds"`       // 打了多少局
	StartTime   time.Time          `bson:"start_time"`   // 开始时间
	EndTime     time.Time          `bson:"end_time"`     // 结束时间
	Duration    int                `bson:"duration"`     // 时长（秒）
	FinalResult *GameFinalResult   `bson:"final_result"` // 最终结果
	Status      string             `bson:"status"`
	Reason      string             `bson:"reason,omitempty"` // 中止原因
	CreatedAt   time.Time          `bson:"created_at"`
}

// PlayerInfo 玩家信息
type PlayerInfo struct {
	UserID    string `bson:"user_id"`
	SeatIndex int    `bson:"seat_index"` // 起家为 0
}

// GameFinalResult 最终结果
type GameFinalResult struct {
	Rankings []PlayerRanking `bson:"rankings"` // 按名次排序
	Points   [4]int          `bson:"points"`   // 按座位索引
	Deposits int             `bson:"deposits"` // 终局时剩下的供托
}

type PlayerRanking struct {
	SeatIndex int    `bson:"seat_index"`
	UserID    string `bson:"user_id"`
	Points    int    `bson:"points"`
	Rank      int    `bson:"rank"` // 1-4
}

func NewGameRecord(gameID, gameType, length string, players []PlayerInfo) *GameRecord {
	now := time.Now()
	return &GameRecord{
		ID:        primitive.NewObjectID(),
		GameID:    gameID,
		GameType:  gameType,
		Length:    length,
		Players:   players,
		StartTime: now,
		Status:    GameStatusInProgress,
		CreatedAt: now,
	}
}

// CompleteGame 正常结束
func (gr *GameRecord) CompleteGame(rounds int, finalResult *GameFinalResult) {
	gr.EndTime = time.Now()
	gr.Duration = int(gr.EndTime.Sub(gr.StartTime).Seconds())
	gr.Rounds = rounds
	gr.FinalResult = finalResult
	gr.Status = GameStatusCompleted
}

// AbortGame 中止，reason 记录原因
func (gr *GameRecord) AbortGame(rounds int, reason string) {
	gr.EndTime = time.Now()
	gr.Duration = int(gr.EndTime.Sub(gr.StartTime).Seconds())
	gr.Rounds = rounds
	gr.Reason = reason
	gr.Status = GameStatusAborted
}

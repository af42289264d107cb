package repository

import (
	"context"

	"gomahjong/core/domain/entity"
)

// GameRecordRepository 对局记录仓储
type GameRecordRepository interface {
	// SaveGameRecord 保存对局元数据，同 GameID 覆盖
	SaveGameRecord(ctx context.Context, record *entity.GameRecord) error

	// FindGameRecord 按 GameID 查找
	FindGameRecord(ctx context.Context, gameID string) (*entity.GameRecord, error)

	// SaveRoundRecord 保存局记录（每局一个文档）
	SaveRoundRecord(ctx context.Context, round *entity.RoundRecord) error

	// FindRoundRecords 一场对局的所有局记录（按开始时间排序）
	FindRoundRecords(ctx context.Context, gameID string) ([]*entity.RoundRecord, error)
}

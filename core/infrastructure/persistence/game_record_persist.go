package persistence

import (
	"context"
	"errors"
	"fmt"

	"gomahjong/common/database"
	"gomahjong/common/log"
	"gomahjong/core/domain/entity"
	"gomahjong/core/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	gameRecordCollection  = "game_records"
	roundRecordCollection = "round_records"
)

type GameRecordRepository struct {
	mongo *database.MongoManager
}

func NewGameRecordRepository(mongo *database.MongoManager) repository.GameRecordRepository {
	return &GameRecordRepository{mongo: mongo}
}

// SaveGameRecord 按 game_id upsert
func (r *GameRecordRepository) SaveGameRecord(ctx context.Context, record *entity.GameRecord) error {
	collection := r.mongo.Db.Collection(gameRecordCollection)

	opts := options.Replace().SetUpsert(true)
	_, err := collection.ReplaceOne(ctx, bson.M{"game_id": record.GameID}, record, opts)
	if err != nil {
		log.Error("保存对局记录失败: %v", err)
		return fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	return nil
}

func (r *GameRecordRepository) FindGameRecord(ctx context.Context, gameID string) (*entity.GameRecord, error) {
	collection := r.mongo.Db.Collection(gameRecordCollection)

	var record entity.GameRecord
	err := collection.FindOne(ctx, bson.M{"game_id": gameID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrRecordNotFound
		}
		log.Error("查询对局记录失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	return &record, nil
}

// SaveRoundRecord 保存局记录（每局一个文档）
func (r *GameRecordRepository) SaveRoundRecord(ctx context.Context, round *entity.RoundRecord) error {
	collection := r.mongo.Db.Collection(roundRecordCollection)

	_, err := collection.InsertOne(ctx, round)
	if err != nil {
		log.Error("保存局记录失败: %v", err)
		return fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	return nil
}

func (r *GameRecordRepository) FindRoundRecords(ctx context.Context, gameID string) ([]*entity.RoundRecord, error) {
	collection := r.mongo.Db.Collection(roundRecordCollection)

	opts := options.Find().SetSort(bson.M{"start_time": 1})
	cursor, err := collection.Find(ctx, bson.M{"game_id": gameID}, opts)
	if err != nil {
		log.Error("查询局记录失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	defer cursor.Close(ctx)

	var result []*entity.RoundRecord
	if err := cursor.All(ctx, &result); err != nil {
		log.Error("解析局记录失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	return result, nil
}

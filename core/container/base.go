package container

import (
	"errors"

	"gomahjong/common/config"
	"gomahjong/common/database"
	"gomahjong/common/log"
	"gomahjong/core/domain/repository"
	"gomahjong/core/infrastructure/message"
	"gomahjong/core/infrastructure/persistence"
)

// BaseContainer 共享的外部连接，mongo 和 nats 都是可选的
type BaseContainer struct {
	mongo *database.MongoManager
	nats  *message.NatsClient
}

// NewBase 按配置连接 mongo、nats，地址为空则跳过
func NewBase(conf *config.Config) (*BaseContainer, error) {
	c := &BaseContainer{}

	if conf.DatabaseConf.MongoConf.Url != "" {
		mongo, err := database.NewMongo(conf.DatabaseConf.MongoConf)
		if err != nil {
			return nil, err
		}
		c.mongo = mongo
		log.Info("mongodb 连接成功, db:%s", conf.DatabaseConf.MongoConf.Db)
	}

	if conf.NatsConfig.URL != "" {
		nc := message.NewNatsClient()
		if err := nc.Run(conf.NatsConfig.URL); err != nil {
			_ = c.Close()
			return nil, err
		}
		c.nats = nc
	}
	return c, nil
}

// GameRecordRepository 未配置 mongo 时返回 nil
func (c *BaseContainer) GameRecordRepository() repository.GameRecordRepository {
	if c.mongo == nil {
		return nil
	}
	return persistence.NewGameRecordRepository(c.mongo)
}

// Publisher 未配置 nats 时返回 nil
func (c *BaseContainer) Publisher() message.Publisher {
	if c.nats == nil {
		return nil
	}
	return c.nats
}

// Close 关闭所有资源
func (c *BaseContainer) Close() error {
	var errs []error
	if c.nats != nil {
		if err := c.nats.Close(); err != nil {
			log.Error("nats 关闭失败: %v", err)
			errs = append(errs, err)
		}
	}
	if c.mongo != nil {
		if err := c.mongo.Close(); err != nil {
			log.Error("mongo 关闭失败: %v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

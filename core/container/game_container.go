package container

import (
	"fmt"
	"sync"
	"time"

	"gomahjong/common/config"
	"gomahjong/common/log"
	"gomahjong/runtime/game"
	"gomahjong/runtime/game/engines/mahjong"
	"gomahjong/runtime/game/engines/mahjong/scoring"
)

const monitorInterval = 5 * time.Second

// GameContainer 模拟对局需要的全部依赖
type GameContainer struct {
	*BaseContainer
	Conf         *config.Config
	TableManager *game.TableManager
	Monitor      *game.Monitor
	Scorer       mahjong.ScoringEngine
	Searcher     *mahjong.Searcher

	closed bool
	mu     sync.Mutex
}

func NewGameContainer(conf *config.Config) (*GameContainer, error) {
	base, err := NewBase(conf)
	if err != nil {
		return nil, fmt.Errorf("基础容器初始化失败: %w", err)
	}
	tm := game.NewTableManager()
	return &GameContainer{
		BaseContainer: base,
		Conf:          conf,
		TableManager:  tm,
		Monitor:       game.NewMonitor(tm, monitorInterval),
		Scorer:        scoring.NewBasicScorer(),
		Searcher:      mahjong.DefaultSearcher(),
	}, nil
}

// TableConfig 按配置组一桌
func (c *GameContainer) TableConfig(players [4]string, agents [4]mahjong.Agent) game.TableConfig {
	return game.TableConfig{
		Players:   players,
		Agents:    agents,
		Rule:      c.Conf.Rule,
		Scorer:    c.Scorer,
		Searcher:  c.Searcher,
		Repo:      c.GameRecordRepository(),
		Publisher: c.Publisher(),
		Subject:   c.Conf.NatsConfig.Subject,
	}
}

// Close 幂等，先停 Monitor 再关连接
func (c *GameContainer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.Monitor.Stop()
	if err := c.BaseContainer.Close(); err != nil {
		return fmt.Errorf("关闭资源失败: %w", err)
	}
	log.Info("GameContainer 已关闭")
	return nil
}

package game

import (
	"context"
	"fmt"
	"sync"

	"gomahjong/common/log"

	"golang.org/x/sync/errgroup"
)

// TableManager 管理同时进行的对局，供 Monitor 统计
type TableManager struct {
	tables   map[string]*Table // gameID -> Table
	finished int
	rounds   int
	mu       sync.RWMutex
}

func NewTableManager() *TableManager {
	return &TableManager{
		tables: make(map[string]*Table),
	}
}

// AddTable 登记一个对局
func (tm *TableManager) AddTable(t *Table) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if _, exists := tm.tables[t.GameID()]; exists {
		return fmt.Errorf("对局 %s 已存在", t.GameID())
	}
	tm.tables[t.GameID()] = t
	return nil
}

// DeleteTable 对局结束后移除，rounds 为该对局打完的局数
func (tm *TableManager) DeleteTable(gameID string, rounds int) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if _, exists := tm.tables[gameID]; !exists {
		return fmt.Errorf("对局 %s 不存在", gameID)
	}
	delete(tm.tables, gameID)
	tm.finished++
	tm.rounds += rounds
	return nil
}

func (tm *TableManager) GetTable(gameID string) (*Table, bool) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	t, exists := tm.tables[gameID]
	return t, exists
}

// GetStats 进行中的对局数、已完成对局数、已打完的局数
func (tm *TableManager) GetStats() (active, finished, rounds int) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return len(tm.tables), tm.finished, tm.rounds
}

// RunTables 并发打完所有对局，parallel <= 0 表示不限制并发数
// 任意一场出错会取消其余对局
func (tm *TableManager) RunTables(ctx context.Context, cfgs []TableConfig, parallel int) ([]*TableResult, error) {
	results := make([]*TableResult, len(cfgs))
	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	for i, cfg := range cfgs {
		i, cfg := i, cfg
		g.Go(func() error {
			t, err := NewTable(cfg)
			if err != nil {
				return err
			}
			if err := tm.AddTable(t); err != nil {
				return err
			}
			res, err := t.Run(gctx)
			if derr := tm.DeleteTable(t.GameID(), len(t.rounds)); derr != nil {
				log.Warn("TableManager 移除对局失败: %v", derr)
			}
			if err != nil {
				return fmt.Errorf("对局 %s: %w", t.GameID(), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

package game

import (
	"context"
	"sync"
	"time"

	"gomahjong/common/log"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Monitor 定期采集负载信息写进日志
type Monitor struct {
	tableManager   *TableManager
	updateInterval time.Duration
	stopCh         chan struct{}
	stopOnce       sync.Once
}

func NewMonitor(tableManager *TableManager, updateInterval time.Duration) *Monitor {
	return &Monitor{
		tableManager:   tableManager,
		updateInterval: updateInterval,
		stopCh:         make(chan struct{}),
	}
}

// Start 阻塞运行，直到 ctx 取消或 Stop
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	m.reportLoad(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-m.stopCh:
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-ticker.C:
			m.reportLoad(ctx)
		}
	}
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) reportLoad(ctx context.Context) {
	info := m.collectLoadInfo(ctx)
	_, finished, _ := m.tableManager.GetStats()
	log.Info("Monitor: Load=%.2f, 进行中=%d, 已完成=%d, 局数=%d, CPU=%.2f%%, Mem=%.2f%%",
		info.CalculateLoad(), info.TableCount, finished, info.RoundCount, info.CPUUsage, info.MemUsage)
}

func (m *Monitor) collectLoadInfo(ctx context.Context) *LoadInfo {
	active, _, rounds := m.tableManager.GetStats()
	return &LoadInfo{
		TableCount: active,
		RoundCount: rounds,
		CPUUsage:   m.getCPUUsage(ctx),
		MemUsage:   m.getMemoryUsage(ctx),
	}
}

func (m *Monitor) getCPUUsage(ctx context.Context) float64 {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(percents) == 0 {
		log.Debug("Monitor 获取 CPU 使用率失败: %v", err)
		return 0
	}
	return percents[0]
}

func (m *Monitor) getMemoryUsage(ctx context.Context) float64 {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		log.Debug("Monitor 获取内存使用率失败: %v", err)
		return 0
	}
	return vm.UsedPercent
}

package game

// LoadInfo 模拟进程的负载
type LoadInfo struct {
	TableCount int     // 正在进行的对局数
	RoundCount int     // 已打完的局数
	CPUUsage   float64 // CPU 使用率（0-100）
	MemUsage   float64 // 内存使用率（0-100）
}

// CalculateLoad 综合负载评分，权重：CPU 40%、内存 30%、对局数 30%
// 返回值越小表示负载越低
func (li *LoadInfo) CalculateLoad() float64 {
	normalizedTables := float64(li.TableCount) / 100.0
	if normalizedTables > 1.0 {
		normalizedTables = 1.0
	}
	return li.CPUUsage*0.4 + li.MemUsage*0.3 + normalizedTables*100*0.3
}

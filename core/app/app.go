package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gomahjong/common/log"
	"gomahjong/core/container"
	"gomahjong/runtime/game"
	"gomahjong/runtime/game/engines/mahjong"
)

// Options 模拟参数
type Options struct {
	Games    int    // 对局数
	Parallel int    // 同时进行的对局数
	Agent    string // "random" 或 "tsumogiri"
	Seed     int64  // RandomAgent 的种子
}

// Run 1.启动负载监控。 2.并发打完所有对局。 3.收到中断信号时取消对局。
func Run(ctx context.Context, c *container.GameContainer, opts Options) ([]*game.TableResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.Monitor.Start(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(sig)
	go func() {
		select {
		case s := <-sig:
			log.Info("收到信号 %v，停止模拟", s)
			cancel()
		case <-ctx.Done():
		}
	}()

	cfgs := make([]game.TableConfig, 0, opts.Games)
	for i := 0; i < opts.Games; i++ {
		var (
			players [4]string
			agents  [4]mahjong.Agent
		)
		for seat := range agents {
			players[seat] = fmt.Sprintf("bot-%d-%d", i, seat)
			agent, err := newAgent(opts.Agent, opts.Seed, i*4+seat)
			if err != nil {
				return nil, err
			}
			agents[seat] = agent
		}
		cfgs = append(cfgs, c.TableConfig(players, agents))
	}

	log.Info("开始模拟 %d 场对局, 并发 %d, agent:%s", opts.Games, opts.Parallel, opts.Agent)
	return c.TableManager.RunTables(ctx, cfgs, opts.Parallel)
}

func newAgent(kind string, seed int64, index int) (mahjong.Agent, error) {
	switch kind {
	case "", "random":
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return mahjong.NewRandomAgent(seed + int64(index)), nil
	case "tsumogiri":
		return mahjong.TsumogiriAgent{}, nil
	default:
		return nil, fmt.Errorf("未知的 agent 类型: %s", kind)
	}
}

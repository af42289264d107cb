package mahjong

import (
	"context"
	"math/rand"
	"sync"
)

// Observer 接收对局事件，不能阻塞
type Observer interface {
	Notify(ev Event)
}

// Agent 一个座位的决策方，人或机器人。返回值必须是给出的选项之一
type Agent interface {
	Observer
	ChooseTurnAction(ctx context.Context, offered []TurnAction) TurnAction
	ChooseCallAction(ctx context.Context, offered []CallAction) CallAction
}

// TsumogiriAgent 能和就和，否则摸切，从不鸣牌
type TsumogiriAgent struct{}

func (TsumogiriAgent) Notify(Event) {}

func (TsumogiriAgent) ChooseTurnAction(_ context.Context, offered []TurnAction) TurnAction {
	for _, a := range offered {
		if a.Kind == TurnTsumo {
			return a
		}
	}
	for _, a := range offered {
		if a.Kind == TurnDiscard && !a.Riichi {
			return a
		}
	}
	return offered[0]
}

func (TsumogiriAgent) ChooseCallAction(_ context.Context, offered []CallAction) CallAction {
	for _, a := range offered {
		if a.Kind == CallRon {
			return a
		}
	}
	return offered[0]
}

// RandomAgent 在合法选项中随机选择，用于模拟和压测
type RandomAgent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomAgent(seed int64) *RandomAgent {
	return &RandomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *RandomAgent) Notify(Event) {}

func (a *RandomAgent) ChooseTurnAction(_ context.Context, offered []TurnAction) TurnAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return offered[a.rng.Intn(len(offered))]
}

func (a *RandomAgent) ChooseCallAction(_ context.Context, offered []CallAction) CallAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return offered[a.rng.Intn(len(offered))]
}

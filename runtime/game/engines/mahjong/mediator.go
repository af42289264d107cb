package mahjong

import (
	"context"
	"time"

	"gomahjong/common/log"
)

// Offer 向某个参与者提供的选项，Ask 可以阻塞任意久
type Offer[C any] struct {
	Ask     func(ctx context.Context, choices []C) C
	Choices []C
}

type Signed[K comparable, C any] struct {
	Key    K
	Choice C
}

// Mediator 同时询问多个参与者，按优先级收集，结果确定后立即返回。
// 迟到的回答写进带缓冲的 channel 后被丢弃，不会取消仍在思考的参与者。
type Mediator[K comparable, C any] struct {
	Timeout  time.Duration
	Rank     func(C) int   // 0 表示不影响结果
	Fallback func([]C) C   // 超时时的默认选择
	Equal    func(a, b C) bool
}

type answer[K comparable, C any] struct {
	key      K
	choice   C
	timedOut bool
}

// Resolve 返回最高优先级的回答集合（同级并列时全部返回），全员无有效选项时不询问任何人
func (m *Mediator[K, C]) Resolve(ctx context.Context, offers map[K]Offer[C]) []Signed[K, C] {
	maxRank := make(map[K]int, len(offers))
	for k, offer := range offers {
		if len(offer.Choices) == 0 {
			panic(NewInvariantError("参与者 %v 没有任何选项", k))
		}
		best := 0
		for _, c := range offer.Choices {
			best = max(best, m.Rank(c))
		}
		if best > 0 {
			maxRank[k] = best
		}
	}
	if len(maxRank) == 0 {
		return nil
	}

	results := make(chan answer[K, C], len(maxRank))
	for k := range maxRank {
		go m.ask(ctx, k, offers[k], results)
	}

	var (
		best    int
		winners []Signed[K, C]
	)
	pending := maxRank
	for len(pending) > 0 && !decided(pending, best) {
		a := <-results
		delete(pending, a.key)
		m.validate(a, offers[a.key].Choices)

		r := m.Rank(a.choice)
		switch {
		case r == 0:
		case r > best:
			best = r
			winners = []Signed[K, C]{{Key: a.key, Choice: a.choice}}
		case r == best:
			winners = append(winners, Signed[K, C]{Key: a.key, Choice: a.choice})
		}
	}
	return winners
}

// decided 剩下的参与者都不可能达到当前最高优先级
func decided[K comparable](pending map[K]int, best int) bool {
	if best == 0 {
		return false
	}
	for _, r := range pending {
		if r >= best {
			return false
		}
	}
	return true
}

func (m *Mediator[K, C]) ask(ctx context.Context, key K, offer Offer[C], results chan<- answer[K, C]) {
	if len(offer.Choices) == 1 {
		results <- answer[K, C]{key: key, choice: offer.Choices[0]}
		return
	}

	reply := make(chan C, 1)
	go func() {
		reply <- offer.Ask(ctx, append([]C(nil), offer.Choices...))
	}()

	waitCtx, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	select {
	case c := <-reply:
		results <- answer[K, C]{key: key, choice: c}
	case <-waitCtx.Done():
		results <- answer[K, C]{key: key, choice: m.Fallback(offer.Choices), timedOut: true}
	}
}

// validate 超时默认值与参与者的回答走同一条校验
func (m *Mediator[K, C]) validate(a answer[K, C], choices []C) {
	for _, c := range choices {
		if m.Equal(c, a.choice) {
			if a.timedOut {
				log.Debug("参与者 %v 响应超时，默认选择 %v", a.key, a.choice)
			}
			return
		}
	}
	panic(NewInvariantError("参与者 %v 的选择 %v 不在可选项 %v 中", a.key, a.choice, choices))
}

// CallMediator 鸣牌裁决：Pass < Chi < Peng = Gang < Ron
type CallMediator = Mediator[Wind, CallAction]

func NewCallMediator(timeout time.Duration) *CallMediator {
	return &CallMediator{
		Timeout: timeout,
		Rank: func(a CallAction) int {
			return a.Kind.Rank()
		},
		Fallback: func(choices []CallAction) CallAction {
			for _, c := range choices {
				if c.Kind == CallPass {
					return c
				}
			}
			return choices[0]
		},
		Equal: func(a, b CallAction) bool {
			return a.Equal(b)
		},
	}
}

// ResolveCalls 询问各家对同一张牌的响应
func ResolveCalls(ctx context.Context, m *CallMediator, offers map[Wind]Offer[CallAction]) []SignedCallAction {
	resolved := m.Resolve(ctx, offers)
	out := make([]SignedCallAction, 0, len(resolved))
	for _, r := range resolved {
		out = append(out, SignedCallAction{Wind: r.Key, Action: r.Choice})
	}
	return out
}

package game

import (
	"errors"
	"fmt"

	"gomahjong/common/log"
	"gomahjong/core/infrastructure/message"
	"gomahjong/runtime/game/engines/mahjong"
)

// PublishObserver 把对局事件发到 <subject>.<gameID>
type PublishObserver struct {
	publisher message.Publisher
	subject   string
	warned    bool
}

func NewPublishObserver(publisher message.Publisher, subject, gameID string) *PublishObserver {
	if subject == "" {
		subject = "mahjong.round"
	}
	return &PublishObserver{
		publisher: publisher,
		subject:   fmt.Sprintf("%s.%s", subject, gameID),
	}
}

func (po *PublishObserver) Subject() string {
	return po.subject
}

func (po *PublishObserver) Notify(ev mahjong.Event) {
	err := po.publisher.Publish(po.subject, ev)
	if err == nil {
		return
	}
	// 断线只提示一次
	if errors.Is(err, message.ErrNotConnected) {
		if !po.warned {
			log.Warn("PublishObserver: %s 未连接, 后续发布失败不再提示", po.subject)
			po.warned = true
		}
		return
	}
	log.Error("PublishObserver: 发布 %s 失败, seq:%d err:%v", ev.Kind, ev.Seq, err)
}

package message

import (
	"errors"
	"testing"
)

func TestNatsClient_PublishBeforeConnect(t *testing.T) {
	nc := NewNatsClient()
	if nc.IsConnected() {
		t.Fatalf("未连接时 IsConnected 应为 false")
	}
	if err := nc.Publish("mahjong.round.g1", map[string]int{"seq": 1}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("期望 ErrNotConnected, 得到 %v", err)
	}
	if err := nc.Close(); err != nil {
		t.Fatalf("未连接时 Close 不应报错: %v", err)
	}
}

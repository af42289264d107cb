package message

import (
	"encoding/json"
	"errors"
	"fmt"

	"gomahjong/common/log"

	"github.com/nats-io/nats.go"
)

var ErrNotConnected = errors.New("nats not connected")

// Publisher 事件发布
type Publisher interface {
	Publish(subject string, v any) error
	Close() error
}

// NatsClient 不能及时发现 nats 服务关闭
type NatsClient struct {
	conn *nats.Conn
}

func NewNatsClient() *NatsClient {
	return &NatsClient{}
}

func (nc *NatsClient) IsConnected() bool {
	return nc.conn != nil && nc.conn.IsConnected()
}

func (nc *NatsClient) Run(url string) error {
	log.Info("nats 服务正在连接, url:%s", url)
	var err error
	nc.conn, err = nats.Connect(url, nats.Name("gomahjong"))
	if err != nil {
		log.Error("nats 连接错误,err:%v", err)
		return err
	}
	log.Info("nats 连接成功, url:%s", url)
	return nil
}

// Publish JSON 序列化后发布
func (nc *NatsClient) Publish(subject string, v any) error {
	if !nc.IsConnected() {
		return ErrNotConnected
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}
	return nc.conn.Publish(subject, data)
}

func (nc *NatsClient) Close() error {
	if nc.conn == nil {
		return nil
	}
	if err := nc.conn.Drain(); err != nil {
		nc.conn.Close()
		return err
	}
	log.Info("NATS 连接已关闭")
	return nil
}

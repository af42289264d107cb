package config

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var Conf *Config

type Config struct {
	AppName      string       `mapstructure:"appName"`
	Log          LogConf      `mapstructure:"log"`
	MetricPort   int          `mapstructure:"metricPort"`
	Rule         RuleConf     `mapstructure:"rule"`
	DatabaseConf DatabaseConf `mapstructure:"database"`
	NatsConfig   NatsConfig   `mapstructure:"nats"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// RuleConf 对局规则
type RuleConf struct {
	CallTimeoutMs int    `mapstructure:"callTimeoutMs"` // 鸣牌响应超时（毫秒）
	InitialPoint  int    `mapstructure:"initialPoint"`  // 初始点数
	UseRedFive    bool   `mapstructure:"useRedFive"`    // 是否使用赤牌
	Length        string `mapstructure:"length"`        // "east" 东风战, "south" 半庄战
	Seed          int64  `mapstructure:"seed"`          // 洗牌种子，0 表示按时间
}

func (r RuleConf) CallTimeout() time.Duration {
	if r.CallTimeoutMs <= 0 {
		return DefaultCallTimeout
	}
	return time.Duration(r.CallTimeoutMs) * time.Millisecond
}

type DatabaseConf struct {
	MongoConf MongoConf `mapstructure:"mongo"`
}

type MongoConf struct {
	Url         string `mapstructure:"url"`
	Db          string `mapstructure:"db"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
}

type NatsConfig struct {
	URL     string `json:"url" mapstructure:"url"`
	Subject string `json:"subject" mapstructure:"subject"`
}

const (
	DefaultCallTimeout  = 5 * time.Second
	DefaultInitialPoint = 25000
)

// Default 不读配置文件时的默认配置
func Default() *Config {
	return &Config{
		AppName: "gomahjong",
		Log:     LogConf{Level: "info"},
		Rule: RuleConf{
			CallTimeoutMs: int(DefaultCallTimeout / time.Millisecond),
			InitialPoint:  DefaultInitialPoint,
			UseRedFive:    true,
			Length:        "south",
		},
		NatsConfig: NatsConfig{Subject: "mahjong.round"},
	}
}

func InitConfig(configFile string) {
	Conf = Default()
	v := viper.New()
	v.SetConfigFile(configFile)
	v.WatchConfig()
	v.OnConfigChange(func(in fsnotify.Event) {
		err := v.Unmarshal(Conf)
		if err != nil {
			panic(fmt.Errorf("解析配置文件出错 2, err:%v", err))
		}
	})

	err := v.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("读取配置文件出错, err:%v", err))
	}

	err = v.Unmarshal(Conf)
	if err != nil {
		panic(fmt.Errorf("解析配置文件出错 1, err:%v", err))
	}
}

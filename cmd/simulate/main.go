package main

import (
	"context"
	"fmt"
	"os"

	"gomahjong/common/config"
	"gomahjong/common/log"
	"gomahjong/common/metrics"
	"gomahjong/core/app"
	"gomahjong/core/container"

	"github.com/spf13/cobra"
)

// 加载配置 -> 启动监控 -> 连接 mongo/nats（可选） -> 并发模拟对局

var (
	configFile string
	logLevel   string
	opts       app.Options
)

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "simulate 立直麻将对局模拟",
	Long:  `simulate 用机器人打完若干场四人立直麻将，检查点数守恒并可选地写入 mongo、发布到 nats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := config.Default()
		if configFile != "" {
			config.InitConfig(configFile)
			conf = config.Conf
		}
		if logLevel != "" {
			conf.Log.Level = logLevel
		}
		if cmd.Flags().Changed("seed") {
			conf.Rule.Seed = opts.Seed
		}
		log.InitLog(conf.AppName, conf.Log.Level)
		log.Info("配置文件: %+v", *conf)

		if conf.MetricPort > 0 {
			go func() {
				log.Info("启动监控..., URL: http://localhost:%d/debug/statsviz/", conf.MetricPort)
				if err := metrics.Serve(fmt.Sprintf("0.0.0.0:%d", conf.MetricPort)); err != nil {
					log.Error("监控服务退出: %v", err)
				}
			}()
		}

		c, err := container.NewGameContainer(conf)
		if err != nil {
			return err
		}
		defer func() {
			if err := c.Close(); err != nil {
				log.Error("关闭 game 容器失败: %v", err)
			}
		}()

		results, err := app.Run(context.Background(), c, opts)
		if err != nil {
			return err
		}
		for _, r := range results {
			log.Info("对局 %s: %d 局, 点数 %v, 顺位 %v", r.GameID, len(r.Rounds), r.Points, r.Ranks)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "configFile", "", "resource file")
	rootCmd.Flags().StringVar(&logLevel, "logLevel", "", "debug/info/warn/error，覆盖配置文件")
	rootCmd.Flags().IntVar(&opts.Games, "games", 1, "对局数")
	rootCmd.Flags().IntVar(&opts.Parallel, "parallel", 4, "同时进行的对局数")
	rootCmd.Flags().StringVar(&opts.Agent, "agent", "random", "random 或 tsumogiri")
	rootCmd.Flags().Int64Var(&opts.Seed, "seed", 0, "洗牌和机器人的随机种子，0 表示按时间")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %v", err)
		os.Exit(1)
	}
}

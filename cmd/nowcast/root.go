package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/xsgzmj1314/zmj-iqte-Chi-GDP-Now/internal/config"
)

type rootFlags struct {
	configPath string
	port       int
	devMode    bool
	dataDir    string
	noBrowser  bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "nowcast",
		Short:         "中国 GDP 实时预测看板",
		Long:          "读取 data 目录下的预测表与来源分解表，通过网页与 JSON 接口展示。",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "配置文件路径（默认为可执行文件同目录下的 config.toml）")
	pf.StringVarP(&flags.dataDir, "data-dir", "d", "", "数据目录（覆盖配置文件）")

	root.Flags().IntVarP(&flags.port, "port", "p", 0, "服务端口（覆盖配置文件）")
	root.Flags().BoolVar(&flags.devMode, "dev", false, "开发模式")
	root.Flags().BoolVar(&flags.noBrowser, "no-browser", false, "启动后不自动打开浏览器")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newDumpCmd(flags))
	root.AddCommand(newInitCmd(flags))

	return root
}

// loadConfig 加载配置：config.toml < .env / 环境变量 < 命令行参数
func loadConfig(cmd *cobra.Command, flags *rootFlags) *config.AppConfig {
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("加载 .env 失败: %v", err)
	}

	cfg, info, err := config.LoadConfigWithInfo(flags.configPath)
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
	} else if info.Found {
		log.Printf("已加载配置: %s", info.Path)
	}
	cfg.ApplyEnv()

	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed && flags.port > 0 {
		cfg.Server.Port = flags.port
	}
	if f := cmd.Flags().Lookup("dev"); f != nil && f.Changed {
		cfg.Server.DevMode = flags.devMode
	}
	if f := cmd.Flags().Lookup("no-browser"); f != nil && f.Changed && flags.noBrowser {
		cfg.Server.OpenBrowser = false
	}
	if flags.dataDir != "" {
		cfg.Data.DataDir = flags.dataDir
	}

	return cfg
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xsgzmj1314/zmj-iqte-Chi-GDP-Now/internal/config"
	"github.com/xsgzmj1314/zmj-iqte-Chi-GDP-Now/internal/server"
	"github.com/xsgzmj1314/zmj-iqte-Chi-GDP-Now/internal/util"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动网页服务（默认命令）",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}
	cmd.Flags().IntVarP(&flags.port, "port", "p", 0, "服务端口（覆盖配置文件）")
	cmd.Flags().BoolVar(&flags.devMode, "dev", false, "开发模式")
	cmd.Flags().BoolVar(&flags.noBrowser, "no-browser", false, "启动后不自动打开浏览器")
	return cmd
}

func runServe(cmd *cobra.Command, flags *rootFlags) error {
	fmt.Println("==========================================")
	fmt.Println("  Nowcast - 中国 GDP 实时预测看板")
	fmt.Println("==========================================")

	cfg := loadConfig(cmd, flags)

	// 确保数据目录存在
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("创建数据目录失败: %v", err)
	} else {
		fmt.Printf("数据目录: %s\n", dataDir)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("创建服务失败: %w", err)
	}

	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		errCh <- srv.Run()
	}()

	// 打开浏览器
	if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("服务启动失败: %w", err)
		}
		return nil
	case <-quit:
	}

	fmt.Println("\n正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("关闭服务失败: %v", err)
	}
	return <-errCh
}

package main

import (
	"os"

	_ "canvas-portal/cmd"
	"canvas-portal/cmd/root"
	"canvas-portal/internal/config"
	"canvas-portal/internal/env"
	"canvas-portal/internal/logger"
)

func main() {
	// 检查是否是服务器模式
	isServerMode := len(os.Args) > 1 && os.Args[1] == "server"
	env.Daemon = isServerMode

	// 根据运行模式初始化日志系统
	cfg := config.App()
	logger.InitLoggerWithMode(&cfg.Log, isServerMode)

	if err := root.RootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
	os.Exit(0)
}

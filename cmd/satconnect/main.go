package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/config"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/logger"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/server"
)

var (
	port    = flag.Int("port", 0, "服务端口 (覆盖配置文件)")
	devMode = flag.Bool("dev", false, "开发模式")
	dataDir = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
)

func main() {
	flag.Parse()

	// .env 不存在时静默跳过
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
	}

	// 命令行参数覆盖配置
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	if err := logger.Init(cfg.Log.Level, cfg.Server.DevMode); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.Get()

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatal("failed to create server", zap.Error(err))
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		log.Info("server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("dataDir", cfg.Data.DataDir),
			zap.Bool("devMode", cfg.Server.DevMode))
		if err := srv.Run(addr); err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := srv.Close(); err != nil {
		log.Warn("failed to close store", zap.Error(err))
	}
}

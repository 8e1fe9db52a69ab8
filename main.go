package main

import (
	"context"

	"hellopipeline/internal/config"
	"hellopipeline/internal/server"

	"github.com/sirupsen/logrus"
)

func main() {
	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	logger, err := server.NewLogger(cfg.Log)
	if err != nil {
		logrus.Fatalf("ロガーの作成に失敗しました: %v", err)
	}

	// サーバーを作成
	srv := server.NewGreeting(cfg, logger)

	// サーバーを起動
	if err := srv.Start(context.Background()); err != nil {
		logger.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}

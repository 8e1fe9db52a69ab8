package server

import (
	"fmt"
	"os"

	"hellopipeline/internal/config"

	"github.com/sirupsen/logrus"
)

// NewLogger は設定に従って標準出力に書き込むロガーを作成する
func NewLogger(cfg config.LogConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("ログレベルの解析に失敗: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("未対応のログ形式です: %q", cfg.Format)
	}

	return logger, nil
}

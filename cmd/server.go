// Package main は静的サイトを配信するサーバーコマンドの実装です
package main

import (
	"context"
	"fmt"
	"os"

	"hellopipeline/internal/config"
	"hellopipeline/internal/server"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

func main() {
	// コマンドラインオプション
	var (
		configFile = flag.String("config", "", "設定ファイル (YAML または TOML)")
		host       = flag.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port       = flag.Int("port", 0, "サーバーのポート (デフォルト: 3000)")
		publicDir  = flag.String("public", "", "静的ファイルのディレクトリ (デフォルト: public)")
		viewsDir   = flag.String("views", "", "index.html のディレクトリ (デフォルト: views)")
		help       = flag.BoolP("help", "h", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("hellopipeline static server")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// 設定を読み込む
	path := *configFile
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		logrus.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	opts := flagOptions{
		host:      *host,
		port:      *port,
		publicDir: *publicDir,
		viewsDir:  *viewsDir,
	}
	if err := applyFlags(cfg, opts); err != nil {
		logrus.Fatalf("設定が不正です: %v", err)
	}

	logger, err := server.NewLogger(cfg.Log)
	if err != nil {
		logrus.Fatalf("ロガーの作成に失敗しました: %v", err)
	}

	srv := server.NewStatic(cfg, logger)

	// サーバーを起動
	if err := srv.Start(context.Background()); err != nil {
		logger.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}

// flagOptions は設定を上書きするコマンドラインオプション
// ゼロ値の項目は指定なしとして扱う
type flagOptions struct {
	host      string
	port      int
	publicDir string
	viewsDir  string
}

// applyFlags はコマンドラインオプションを設定に上書きし、結果を検証する
// 設定ファイルや環境変数よりもオプションを優先する
func applyFlags(cfg *config.Config, opts flagOptions) error {
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Server.Port = opts.port
	}
	if opts.publicDir != "" {
		cfg.Static.PublicDir = opts.publicDir
	}
	if opts.viewsDir != "" {
		cfg.Static.ViewsDir = opts.viewsDir
	}

	return cfg.Validate()
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"hellopipeline/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	engine     *gin.Engine
	httpServer *http.Server

	mu   sync.RWMutex
	addr net.Addr
}

// NewGreeting はルートパスで挨拶文を返すサーバーを作成する
func NewGreeting(cfg *config.Config, logger *logrus.Logger) *Server {
	s := newServer(cfg, logger)
	s.engine.GET("/", s.handleGreeting)
	s.engine.HEAD("/", s.handleGreeting)
	return s
}

// NewStatic は公開ディレクトリの静的ファイルと views の index.html を配信するサーバーを作成する
func NewStatic(cfg *config.Config, logger *logrus.Logger) *Server {
	s := newServer(cfg, logger)

	// ルートパスは静的ファイル側の index より優先する
	s.engine.GET("/", s.handleIndex)
	s.engine.HEAD("/", s.handleIndex)

	// 他のルートに一致しないリクエストは公開ディレクトリから探す
	s.engine.NoRoute(s.handleStatic)
	return s
}

// newServer は両方のサーバーに共通するミドルウェアとルートを設定する
func newServer(cfg *config.Config, logger *logrus.Logger) *Server {
	// GIN_MODE の指定がなければルート一覧などのデバッグ出力を抑える
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(requestLogger(logger), gin.Recovery())

	s := &Server{
		config: cfg,
		logger: logger,
		engine: engine,
		httpServer: &http.Server{
			Addr:         cfg.ServerAddress(),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// ヘルスチェックエンドポイント
	engine.GET("/health", s.handleHealth)

	return s
}

// Handler はルーティング済みのハンドラを返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr は起動後に実際にバインドしたアドレスを返す
// 起動前は nil
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Start はサーバーを起動する
// ポートのバインドに失敗した場合はすぐにエラーを返す
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("%s のバインドに失敗: %w", s.httpServer.Addr, err)
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	port := s.config.Server.Port
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}
	s.logger.Infof("App running on port %d", port)

	// Serve の終了結果を受け取るチャンネル
	// Shutdown が直接呼ばれた場合も Start が戻れるよう、結果は常に送る
	serveCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		err := s.httpServer.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveCh <- err
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		s.logger.Debug("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		s.logger.Infof("シグナルを受信しました: %v", sig)
	case err := <-serveCh:
		if err != nil {
			return fmt.Errorf("サーバーの実行に失敗: %w", err)
		}
		// 外部から Shutdown された
		return nil
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown() error {
	s.logger.Debug("サーバーをシャットダウンしています...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	s.logger.Debug("サーバーが正常にシャットダウンされました")
	return nil
}

package server

import (
	"errors"
	"io/fs"
	"net/http"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse はヘルスチェックの応答
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// handleHealth はヘルスチェックエンドポイント
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Truncate(time.Second),
	})
}

// handleGreeting は設定された挨拶文をそのまま返す
func (s *Server) handleGreeting(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(s.config.Greeting))
}

// handleIndex は views ディレクトリの index.html を返す
// リクエストのたびにディスクから読み込む
func (s *Server) handleIndex(c *gin.Context) {
	s.serveFile(c, s.config.IndexPath())
}

// handleStatic は公開ディレクトリ配下のファイルを返す
func (s *Server) handleStatic(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		notFound(c)
		return
	}

	name, ok := resolveStaticPath(s.config.Static.PublicDir, c.Request.URL.Path)
	if !ok {
		notFound(c)
		return
	}

	s.serveStatic(c, name)
}

// handleFileError はファイル読み込みのエラーをステータスコードに変換する
func (s *Server) handleFileError(c *gin.Context, err error) {
	if isNotFound(err) {
		notFound(c)
		return
	}

	_ = c.Error(err)
	c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	c.Abort()
}

// ヘルパー関数

func notFound(c *gin.Context) {
	c.String(http.StatusNotFound, "404 page not found")
	c.Abort()
}

// isNotFound はファイルが存在しないことを示すエラーかどうかを判定する
func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, syscall.ENOTDIR) ||
		errors.Is(err, syscall.ENAMETOOLONG)
}

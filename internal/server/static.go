package server

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// directoryIndex はディレクトリへのリクエストで返すファイル名
const directoryIndex = "index.html"

// resolveStaticPath はURLパスを公開ディレクトリ配下のファイルパスに変換する
// ドットで始まる要素を含むパスは配信しない
func resolveStaticPath(root, urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)

	for _, segment := range strings.Split(clean, "/") {
		if strings.HasPrefix(segment, ".") {
			return "", false
		}
	}

	return filepath.Join(root, filepath.FromSlash(clean)), true
}

// serveStatic は公開ディレクトリ内のファイルを返す
// ディレクトリの場合はその中の index.html を返す
// 末尾のスラッシュがなければ相対リンクが解決できるよう付けた URL へリダイレクトする
func (s *Server) serveStatic(c *gin.Context, name string) {
	info, err := os.Stat(name)
	if err != nil {
		s.handleFileError(c, err)
		return
	}

	if info.IsDir() {
		if !strings.HasSuffix(c.Request.URL.Path, "/") {
			c.Redirect(http.StatusMovedPermanently, directoryLocation(c.Request.URL))
			c.Abort()
			return
		}
		name = filepath.Join(name, directoryIndex)
	}

	s.serveFile(c, name)
}

// directoryLocation はディレクトリのURLに末尾のスラッシュを付ける
// パスは正規化するので "//host" のような外部への URL にはならない
func directoryLocation(u *url.URL) string {
	location := path.Clean("/" + u.Path)
	if location != "/" {
		location += "/"
	}
	if u.RawQuery != "" {
		location += "?" + u.RawQuery
	}
	return location
}

// serveFile はファイルの内容をそのまま返す
// Range や If-Modified-Since は http.ServeContent に任せる
func (s *Server) serveFile(c *gin.Context, name string) {
	f, err := os.Open(name)
	if err != nil {
		s.handleFileError(c, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.handleFileError(c, err)
		return
	}
	if !info.Mode().IsRegular() {
		notFound(c)
		return
	}

	contentType, err := detectContentType(f, name)
	if err != nil {
		s.handleFileError(c, err)
		return
	}
	c.Header("Content-Type", contentType)

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}

// detectContentType は拡張子からMIMEタイプを推定し、
// 不明な場合はファイル先頭の内容から判定する
func detectContentType(f io.ReadSeeker, name string) (string, error) {
	if ctype := mime.TypeByExtension(filepath.Ext(name)); ctype != "" {
		return ctype, nil
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("MIMEタイプの判定に失敗: %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("ファイルの巻き戻しに失敗: %w", err)
	}

	return mtype.String(), nil
}

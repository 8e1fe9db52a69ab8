package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv は設定に影響する環境変数をテスト中だけ空にする
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "SERVER_HOST", "PORT", "PUBLIC_DIR", "VIEWS_DIR",
		"GREETING", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestConfigLoad は設定の読み込みをテストする
func TestConfigLoad(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "public", cfg.Static.PublicDir)
	assert.Equal(t, filepath.Join("views", "index.html"), cfg.IndexPath())
	assert.Equal(t, DefaultGreeting, cfg.Greeting)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

// TestConfigValidation は設定の検証をテストする
func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name      string
		modify    func(c *Config)
		expectErr bool
	}{
		{"正常な設定", func(c *Config) {}, false},
		{"書き込みタイムアウト無効化", func(c *Config) { c.Server.WriteTimeout = 0 }, false},
		{"無効なポート番号", func(c *Config) { c.Server.Port = 99999 }, true},
		{"ポート番号ゼロ", func(c *Config) { c.Server.Port = 0 }, true},
		{"負のタイムアウト", func(c *Config) { c.Server.ReadTimeout = -time.Second }, true},
		{"シャットダウン猶予なし", func(c *Config) { c.Server.ShutdownTimeout = 0 }, true},
		{"公開ディレクトリなし", func(c *Config) { c.Static.PublicDir = "" }, true},
		{"indexファイル名なし", func(c *Config) { c.Static.IndexFile = "" }, true},
		{"挨拶文なし", func(c *Config) { c.Greeting = "" }, true},
		{"不明なログレベル", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"不明なログ形式", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)

			err := cfg.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestServerAddress はサーバーアドレスの生成をテストする
func TestServerAddress(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Host: "192.168.1.100",
			Port: 9090,
		},
	}

	assert.Equal(t, "192.168.1.100:9090", cfg.ServerAddress())
}

// TestEnvironmentVariables は環境変数の処理をテストする
func TestEnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_HOST", "test.example.com")
	t.Setenv("PORT", "9999")
	t.Setenv("PUBLIC_DIR", "assets")
	t.Setenv("GREETING", "hi")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test.example.com", cfg.Server.Host)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "assets", cfg.Static.PublicDir)
	assert.Equal(t, "hi", cfg.Greeting)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestEnvironmentVariablesInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "abc")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFileYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.yaml", `
server:
  port: 4000
  read_timeout: 3s
static:
  public_dir: www
log:
  level: debug
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	// 未指定の項目はデフォルトのまま
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "www", cfg.Static.PublicDir)
	assert.Equal(t, "views", cfg.Static.ViewsDir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFileTOML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.toml", `
greeting = "こんにちは"

[server]
host = "127.0.0.1"
shutdown_timeout = "1s"

[static]
views_dir = "templates"
index_file = "home.html"
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "こんにちは", cfg.Greeting)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, filepath.Join("templates", "home.html"), cfg.IndexPath())
}

// TestLoadFileEnvOverridesFile は環境変数が設定ファイルより優先されることをテストする
func TestLoadFileEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "5000")
	path := writeFile(t, t.TempDir(), "config.yml", "server:\n  port: 4000\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
}

func TestLoadFileErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	testCases := []struct {
		name string
		path string
	}{
		{"存在しないファイル", filepath.Join(dir, "missing.yaml")},
		{"未対応の拡張子", writeFile(t, dir, "config.json", `{}`)},
		{"未知のキー", writeFile(t, dir, "unknown.yaml", "server:\n  colour: blue\n")},
		{"不正なTOML", writeFile(t, dir, "broken.toml", "[server\n")},
		{"不正な時間", writeFile(t, dir, "duration.yaml", "server:\n  read_timeout: soon\n")},
		{"検証エラー", writeFile(t, dir, "port.toml", "[server]\nport = 70000\n")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFile(tc.path)
			assert.Error(t, err)
		})
	}
}

func TestLoadFileEmptyYAML(t *testing.T) {
	clearEnv(t)

	testCases := []struct {
		name    string
		content string
	}{
		{"空ファイル", ""},
		{"空白のみ", "\n  \n"},
		{"コメントのみ", "# all defaults\n"},
		{"コメントアウトされた設定", "# server:\n#   port: 4000\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tc.content)

			cfg, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, Default(), cfg)
		})
	}
}

// TestDotEnv は .env ファイルの読み込みをテストする
// 注意: カレントディレクトリを変更するため、parallelは使わない
func TestDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("VIEWS_DIR")
	dir := t.TempDir()
	writeFile(t, dir, ".env", "VIEWS_DIR=pages\nPORT=7000\n")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// 既に設定済みの環境変数は .env で上書きされない
	t.Setenv("PORT", "8000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "pages", cfg.Static.ViewsDir)
	assert.Equal(t, 8000, cfg.Server.Port)
}

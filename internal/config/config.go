package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultGreeting はルートパスで返す挨拶文
const DefaultGreeting = "Hello, Node.js with CI/CD Pipeline! By Muhammad Rasikh Riaz Triggered by successfully github webhook Automation."

// DefaultPort はリッスンするデフォルトのポート番号
const DefaultPort = 3000

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server   ServerConfig
	Static   StaticConfig
	Log      LogConfig
	Greeting string `validate:"required"` // ルートパスの応答本文
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string                             // リッスンするホスト
	Port int    `validate:"min=1,max=65535"` // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout     time.Duration `validate:"gte=0"` // 読み込みタイムアウト
	WriteTimeout    time.Duration `validate:"gte=0"` // 書き込みタイムアウト
	ShutdownTimeout time.Duration `validate:"gt=0"`  // グレースフルシャットダウンの猶予
}

// StaticConfig は静的ファイル配信の設定
type StaticConfig struct {
	PublicDir string `validate:"required"` // URLルートに割り当てるディレクトリ
	ViewsDir  string `validate:"required"` // index.html を置くディレクトリ
	IndexFile string `validate:"required"` // ルートパスで返すファイル名
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Level  string `validate:"required,oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"required,oneof=text json"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default はデフォルト値だけで構成された設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            DefaultPort,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Static: StaticConfig{
			PublicDir: "public",
			ViewsDir:  "views",
			IndexFile: "index.html",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Greeting: DefaultGreeting,
	}
}

// Load は設定を読み込む
// CONFIG_FILE が設定されていればそのファイルも読み込む
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile はデフォルト値、設定ファイル、.env、環境変数の順に設定を重ねて読み込む
// path が空の場合は設定ファイルを読まない
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		fc, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		if err := fc.apply(cfg); err != nil {
			return nil, fmt.Errorf("設定ファイルの適用に失敗 (%s): %w", path, err)
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("無効な設定値 %s=%v (%s)", fe.Namespace(), fe.Value(), fe.Tag())
		}
		return err
	}
	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IndexPath はルートパスで返すHTMLファイルのパスを返す
func (c *Config) IndexPath() string {
	return filepath.Join(c.Static.ViewsDir, c.Static.IndexFile)
}

// applyEnv は環境変数の値で設定を上書きする
func (c *Config) applyEnv() error {
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)

	port, err := getEnvAsIntOrDefault("PORT", c.Server.Port)
	if err != nil {
		return err
	}
	c.Server.Port = port

	c.Static.PublicDir = getEnvOrDefault("PUBLIC_DIR", c.Static.PublicDir)
	c.Static.ViewsDir = getEnvOrDefault("VIEWS_DIR", c.Static.ViewsDir)
	c.Greeting = getEnvOrDefault("GREETING", c.Greeting)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)

	return nil
}

// loadDotEnv は .env ファイルがあれば環境変数に読み込む
// 既に設定されている環境変数は上書きしない
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf(".env の確認に失敗: %w", err)
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf(".env の読み込みに失敗: %w", err)
	}
	return nil
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("環境変数 %s が整数ではありません: %q", key, value)
	}
	return intVal, nil
}

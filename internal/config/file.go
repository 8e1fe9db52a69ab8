package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// fileConfig は設定ファイルの内容をそのまま受け取るための構造体
// 未指定の項目はデフォルト値を維持するため、すべて省略可能にしている
type fileConfig struct {
	Server struct {
		Host            *string `yaml:"host" toml:"host"`
		Port            *int    `yaml:"port" toml:"port"`
		ReadTimeout     string  `yaml:"read_timeout" toml:"read_timeout"`
		WriteTimeout    string  `yaml:"write_timeout" toml:"write_timeout"`
		ShutdownTimeout string  `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	} `yaml:"server" toml:"server"`

	Static struct {
		PublicDir string `yaml:"public_dir" toml:"public_dir"`
		ViewsDir  string `yaml:"views_dir" toml:"views_dir"`
		IndexFile string `yaml:"index_file" toml:"index_file"`
	} `yaml:"static" toml:"static"`

	Log struct {
		Level  string `yaml:"level" toml:"level"`
		Format string `yaml:"format" toml:"format"`
	} `yaml:"log" toml:"log"`

	Greeting string `yaml:"greeting" toml:"greeting"`
}

// decodeFile は拡張子に応じて YAML または TOML の設定ファイルを読み込む
func decodeFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// 空ファイルやコメントだけのファイルは io.EOF になるのでデフォルトのまま扱う
		if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("YAMLの解析に失敗 (%s): %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&fc); err != nil {
			return nil, fmt.Errorf("TOMLの解析に失敗 (%s): %w", path, err)
		}
	default:
		return nil, fmt.Errorf("未対応の設定ファイル形式です: %q", ext)
	}

	return &fc, nil
}

// apply はファイルで指定された項目だけを cfg に上書きする
func (fc *fileConfig) apply(cfg *Config) error {
	if fc.Server.Host != nil {
		cfg.Server.Host = *fc.Server.Host
	}
	if fc.Server.Port != nil {
		cfg.Server.Port = *fc.Server.Port
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"server.read_timeout", fc.Server.ReadTimeout, &cfg.Server.ReadTimeout},
		{"server.write_timeout", fc.Server.WriteTimeout, &cfg.Server.WriteTimeout},
		{"server.shutdown_timeout", fc.Server.ShutdownTimeout, &cfg.Server.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("%s の値が不正です: %w", d.name, err)
		}
		*d.dst = parsed
	}

	setIfNotEmpty(&cfg.Static.PublicDir, fc.Static.PublicDir)
	setIfNotEmpty(&cfg.Static.ViewsDir, fc.Static.ViewsDir)
	setIfNotEmpty(&cfg.Static.IndexFile, fc.Static.IndexFile)
	setIfNotEmpty(&cfg.Log.Level, fc.Log.Level)
	setIfNotEmpty(&cfg.Log.Format, fc.Log.Format)
	setIfNotEmpty(&cfg.Greeting, fc.Greeting)

	return nil
}

func setIfNotEmpty(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

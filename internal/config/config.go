package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"mateina/internal/page"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid は設定が不正な場合のエラー。起動を中止する
var ErrInvalid = errors.New("無効な設定")

// 環境変数名
const (
	EnvHost     = "MATEINA_HOST"
	EnvPort     = "MATEINA_PORT"
	EnvImage    = "MATEINA_IMAGE"
	EnvNoOpen   = "MATEINA_NO_OPEN"
	EnvLogLevel = "MATEINA_LOG_LEVEL"
)

// Config はアプリケーション全体の設定を保持する構造体
// 起動時に一度だけ作成され、以降は変更しない
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Page    PageConfig    `yaml:"page"`
	Browser BrowserConfig `yaml:"browser"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host" validate:"required,hostname|ip"` // リッスンするホスト
	Port int    `yaml:"port" validate:"min=1,max=65535"`      // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gte=0"`  // 読み込みタイムアウト
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"` // 書き込みタイムアウト
}

// PageConfig はページと静的ファイルの設定
type PageConfig struct {
	ImageName  string `yaml:"image" validate:"required"`       // 構造式の画像ファイル名
	StaticRoot string `yaml:"static_root" validate:"required"` // 静的ファイルのルートディレクトリ
}

// BrowserConfig はブラウザ自動起動の設定
type BrowserConfig struct {
	AutoOpen bool `yaml:"auto_open"`
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default はデフォルト設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         8000,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Page: PageConfig{
			ImageName:  "caffeine_structure.png",
			StaticRoot: ".",
		},
		Browser: BrowserConfig{
			AutoOpen: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load は設定を読み込む
// デフォルト値、設定ファイル（pathが空でない場合）、環境変数の順に適用する
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
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

// readFile はYAMLファイルの値で設定を上書きする
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: 設定ファイルの読み込みに失敗: %w", ErrInvalid, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: 設定ファイルの解析に失敗: %s: %w", ErrInvalid, path, err)
	}
	return nil
}

// applyEnv は環境変数の値で設定を上書きする
func (c *Config) applyEnv() error {
	c.Server.Host = getEnvOrDefault(EnvHost, c.Server.Host)
	c.Page.ImageName = getEnvOrDefault(EnvImage, c.Page.ImageName)
	c.Log.Level = getEnvOrDefault(EnvLogLevel, c.Log.Level)

	port, err := getEnvAsIntOrDefault(EnvPort, c.Server.Port)
	if err != nil {
		return err
	}
	c.Server.Port = port

	noOpen, err := getEnvAsBoolOrDefault(EnvNoOpen, !c.Browser.AutoOpen)
	if err != nil {
		return err
	}
	c.Browser.AutoOpen = !noOpen

	return nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := page.ValidateImageName(c.Page.ImageName); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL はブラウザで開くURLを返す
func (c *Config) URL() string {
	return "http://" + c.ServerAddress() + "/"
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
		return 0, fmt.Errorf("%w: %s=%q は整数ではありません", ErrInvalid, key, value)
	}
	return intVal, nil
}

// getEnvAsBoolOrDefault は環境変数を真偽値として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q は真偽値ではありません", ErrInvalid, key, value)
	}
	return b, nil
}

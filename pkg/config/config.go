package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-account-ledger/pkg/database"
	"github.com/JoeShih716/go-account-ledger/pkg/logger"
)

const (
	StoreMemory = "memory"
	StoreSQLite = database.DriverSQLite
	StoreMySQL  = database.DriverMySQL
)

type Config struct {
	Server ServerConfig  `yaml:"server"`
	Log    logger.Config `yaml:"log"`
	Store  StoreConfig   `yaml:"store"`
	Remote RemoteConfig  `yaml:"remote"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StoreConfig 選擇 Record Store 的實作
type StoreConfig struct {
	Driver   string          `yaml:"driver" validate:"oneof=sqlite mysql memory"`
	Database database.Config `yaml:"database"`
	Memory   MemoryConfig    `yaml:"memory"`
}

type MemoryConfig struct {
	// Journal WAL 檔案路徑，空字串表示不落地
	Journal string `yaml:"journal"`
}

// DefaultRemoteBaseURL 本機 core 服務的 api 位址
const DefaultRemoteBaseURL = "http://localhost:8080/api"

// RemoteConfig load_client 等客戶端連線的帳務服務
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// Override 以命令列參數覆寫設定，空字串與 0 表示沿用設定檔
func (r RemoteConfig) Override(baseURL string, timeout time.Duration) RemoteConfig {
	if baseURL != "" {
		r.BaseURL = baseURL
	}
	if timeout > 0 {
		r.Timeout = timeout
	}
	return r
}

// Load 讀取設定檔
//
// 先載入工作目錄下的 .env (不存在則略過)，再以環境變數展開 yaml 內的 ${VAR}
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse 解析 yaml 內容並補上預設值後驗證
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.TimeFormat == "" {
		c.Log.TimeFormat = time.RFC3339
	}
	if c.Store.Driver == "" {
		c.Store.Driver = StoreSQLite
	}
	if c.Store.Driver != StoreMemory {
		c.Store.Database.Driver = c.Store.Driver
	}
	if c.Store.Database.Path == "" {
		c.Store.Database.Path = "data/ledger.db"
	}
	c.Store.Database.ApplyDefaults()
	if c.Remote.BaseURL == "" {
		c.Remote.BaseURL = DefaultRemoteBaseURL
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = 5 * time.Second
	}
}

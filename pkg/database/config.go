package database

import (
	"fmt"
	"time"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config 資料庫連線與連線池的配置
type Config struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite mysql"`

	// SQLite 設定
	Path        string        `yaml:"path" validate:"required_if=Driver sqlite"` // 資料庫檔案路徑
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// MySQL 設定
	Host     string `yaml:"host" validate:"required_if=Driver mysql"`
	Port     int    `yaml:"port"` // 預設 3306
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"db_name" validate:"required_if=Driver mysql"`

	// 連線池設定 (SQLite 固定使用單一連線)
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`

	// GORM Log 等級: "silent", "error", "warn", "info"
	LogLevel string `yaml:"log_level"`
}

// DSN (Data Source Name) 產生連線字串
func (c *Config) DSN() string {
	if c.Driver == DriverMySQL {
		// user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=UTC
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User,
			c.Password,
			c.Host,
			c.Port,
			c.DBName,
		)
	}
	busy := c.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", c.Path, busy.Milliseconds())
}

// ApplyDefaults 補全未設定的欄位
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverSQLite
	}
	if c.Port == 0 {
		c.Port = 3306
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 100
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 10
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 30 * time.Minute
	}
}

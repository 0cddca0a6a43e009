package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`     // 服务器配置
	Database   DatabaseConfig   `mapstructure:"database"`   // PostgreSQL配置
	Venue      VenueConfig      `mapstructure:"venue"`      // 场馆配置
	Tournament TournamentConfig `mapstructure:"tournament"` // 比赛模式配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN（URL 形式）
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
	LogLevel        string        `mapstructure:"log_level"`         // gorm 日志级别：silent/error/warn/info
}

// VenueConfig 场馆配置
type VenueConfig struct {
	Courts           []string `mapstructure:"courts"`             // 场地名称
	Timezone         string   `mapstructure:"timezone"`           // 场馆时区，用于解析离场时间与每日重置
	QueueResetHour   int      `mapstructure:"queue_reset_hour"`   // 每日清空队列的时刻（时）
	QueueResetMinute int      `mapstructure:"queue_reset_minute"` // 每日清空队列的时刻（分）
}

// TournamentConfig 比赛模式配置
type TournamentConfig struct {
	Code string `mapstructure:"code"` // 上报比赛成绩所需口令，只从 env 注入
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("./config")
}

// LoadConfigFrom 从指定目录读取 config.yaml
func LoadConfigFrom(dir string) (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	v.SetTypeByDefaultValue(true)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("venue.timezone", "Local")
	v.SetDefault("venue.queue_reset_hour", 4)
	v.SetDefault("venue.queue_reset_minute", 0)
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("TOURNAMENT_CODE"); v != "" {
		cfg.Tournament.Code = v
	}
}

// Validate 启动前校验必填项
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn 不能为空（或设置 DATABASE_DSN）")
	}
	if _, err := c.Venue.Location(); err != nil {
		return fmt.Errorf("venue.timezone 无效: %w", err)
	}
	if c.Venue.QueueResetHour < 0 || c.Venue.QueueResetHour > 23 {
		return fmt.Errorf("venue.queue_reset_hour 超出范围: %d", c.Venue.QueueResetHour)
	}
	if c.Venue.QueueResetMinute < 0 || c.Venue.QueueResetMinute > 59 {
		return fmt.Errorf("venue.queue_reset_minute 超出范围: %d", c.Venue.QueueResetMinute)
	}
	seen := make(map[string]bool, len(c.Venue.Courts))
	for _, name := range c.Venue.Courts {
		if strings.TrimSpace(name) == "" || seen[name] {
			return fmt.Errorf("venue.courts 含空白或重复场地: %q", name)
		}
		seen[name] = true
	}
	return nil
}

// Location 场馆时区；空值按本地时区
func (v *VenueConfig) Location() (*time.Location, error) {
	if v.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(v.Timezone)
}

// HasCourt 场地是否在配置中；未配置任何场地时不做限制
func (v *VenueConfig) HasCourt(name string) bool {
	if len(v.Courts) == 0 {
		return true
	}
	for _, c := range v.Courts {
		if c == name {
			return true
		}
	}
	return false
}

// GetGORMConfig 获取GORM配置（日志级别取自 log_level）
func (d *DatabaseConfig) GetGORMConfig() gorm.Config {
	level := logger.Warn
	switch strings.ToLower(d.LogLevel) {
	case "silent":
		level = logger.Silent
	case "error":
		level = logger.Error
	case "info":
		level = logger.Info
	}
	return gorm.Config{Logger: logger.Default.LogMode(level)}
}

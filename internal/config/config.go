// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName   string `toml:"appName"`
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	Mode      string `toml:"mode"`      // gin 运行模式：debug / release
	EnableTLS bool   `toml:"enableTls"` // 开启后直接监听 HTTPS，由 Nginx 终止 SSL 时保持关闭
	CertFile  string `toml:"certFile"`  // enableTls 时必填
	KeyFile   string `toml:"keyFile"`
}

// DatabaseConfig 存储选择
// driver = "mysql" 使用 MysqlConfig；driver = "sqlite" 使用单文件嵌入式库，适合单机部署
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	SqlitePath   string `toml:"sqlitePath"`
	MaxOpenConns int    `toml:"maxOpenConns"`
	MaxIdleConns int    `toml:"maxIdleConns"`
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

// RedisConfig Redis 连接与异步任务池配置
type RedisConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	Password       string `toml:"password"`
	Db             int    `toml:"db"`
	WorkerNum      int    `toml:"workerNum"`      // 异步缓存任务 worker 数
	TaskBufferSize int    `toml:"taskBufferSize"` // 任务通道缓冲区大小
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`
	FileName   string `toml:"fileName"`
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // debug, info, warn, error
}

// KafkaConfig 活动领域事件投递配置
type KafkaConfig struct {
	EventMode     string        `toml:"eventMode"` // "log" 仅写日志；"kafka" 写入 Kafka
	HostPort      string        `toml:"hostPort"`
	ActivityTopic string        `toml:"activityTopic"`
	Timeout       time.Duration `toml:"timeout"` // 秒
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret             string `toml:"secret"`
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // Access Token 有效期（分钟）
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // Refresh Token 有效期（小时）
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 0-1023，多实例部署时每台机器需唯一
}

// CommunityConfig 社区准入规则
type CommunityConfig struct {
	AllowedEmailDomains []string `toml:"allowedEmailDomains"`
	MinPasswordLength   int      `toml:"minPasswordLength"`
	ProfileCacheMinutes int      `toml:"profileCacheMinutes"`
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	DatabaseConfig  `toml:"databaseConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	JWTConfig       `toml:"jwtConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
	CommunityConfig `toml:"communityConfig"`
}

// config 全局配置单例，延迟加载
var config *Config

// searchPaths 候选配置文件路径（优先加载本地配置）
var searchPaths = []string{
	"configs/config_local.toml",
	"configs/config.toml",
	"../../configs/config_local.toml",
	"../../configs/config.toml",
}

// LoadConfig 从候选路径加载配置文件，找到第一个可用的即停止
func LoadConfig() error {
	for _, path := range searchPaths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}
	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// LoadFile 从指定路径加载配置并补齐默认值，不影响全局单例
func LoadFile(path string) (*Config, error) {
	c := new(Config)
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	c.applyDefaults()
	return c, nil
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时自动加载配置文件，找不到文件时使用默认值
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig()
		config.applyDefaults()
	}
	return config
}

// Validate 检查无法用默认值补齐的配置
func (c *Config) Validate() error {
	if c.MainConfig.EnableTLS && (c.MainConfig.CertFile == "" || c.MainConfig.KeyFile == "") {
		return fmt.Errorf("enableTls requires certFile and keyFile")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = "huddle_server"
	}
	if c.MainConfig.Host == "" {
		c.MainConfig.Host = "0.0.0.0"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.Mode == "" {
		c.Mode = "debug"
	}
	if c.Driver == "" {
		c.Driver = "sqlite"
	}
	if c.SqlitePath == "" {
		c.SqlitePath = "./data/huddle.db"
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 50
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 10
	}
	if c.RedisConfig.Host == "" {
		c.RedisConfig.Host = "127.0.0.1"
	}
	if c.RedisConfig.Port == 0 {
		c.RedisConfig.Port = 6379
	}
	if c.WorkerNum == 0 {
		c.WorkerNum = 15
	}
	if c.TaskBufferSize == 0 {
		c.TaskBufferSize = 3000
	}
	if c.LogPath == "" {
		c.LogPath = "./logs"
	}
	if c.Level == "" {
		c.Level = "info"
	}
	if c.EventMode == "" {
		c.EventMode = "log"
	}
	if c.ActivityTopic == "" {
		c.ActivityTopic = "huddle.activity.events"
	}
	if c.KafkaConfig.Timeout == 0 {
		c.KafkaConfig.Timeout = 1
	}
	if c.AccessTokenExpiry == 0 {
		c.AccessTokenExpiry = 60
	}
	if c.RefreshTokenExpiry == 0 {
		c.RefreshTokenExpiry = 168
	}
	if c.MachineID == 0 {
		c.MachineID = 1
	}
	if len(c.AllowedEmailDomains) == 0 {
		c.AllowedEmailDomains = []string{"harvard.edu", "college.harvard.edu"}
	}
	for i, d := range c.AllowedEmailDomains {
		c.AllowedEmailDomains[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "@"))
	}
	if c.MinPasswordLength == 0 {
		c.MinPasswordLength = 8
	}
	if c.ProfileCacheMinutes == 0 {
		c.ProfileCacheMinutes = 30
	}
}

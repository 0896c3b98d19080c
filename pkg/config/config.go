package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/betbot/botdash/pkg/prefstore"
)

// 运行模式
const (
	ModeAuto     = ""
	ModeTUI      = "tui"
	ModeHeadless = "headless"
	ModeWeb      = "web"
)

// FeedConfig 数据源
type FeedConfig struct {
	URL     string        // 完整的快照接口地址，例如 http://localhost:5000/api/data
	Timeout time.Duration // 单次请求超时
	Cookie  string        // 会话 Cookie（数据源需要登录时）
}

// PollConfig 轮询
type PollConfig struct {
	Interval     time.Duration // 定时拉取间隔，默认 10s
	InitialDelay time.Duration // 启动后首次拉取的延迟，默认 100ms
	Schedule     string        // 可选 cron 表达式（带秒），非空时代替 Interval
	LoginURL     string        // 401 时跳转的地址
}

// PrefsConfig 偏好存储
type PrefsConfig struct {
	Driver        string // badger / sqlite / file / memory
	Path          string
	EncryptionKey string // 仅 badger
	ThemeKey      string // 暗色模式开关的 key
}

// LogConfig 日志
type LogConfig struct {
	Level      string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// Config 应用配置
type Config struct {
	Feed  FeedConfig
	Poll  PollConfig
	Prefs PrefsConfig
	Log   LogConfig

	Mode          string // tui / headless / web，空表示按终端自动选择
	MetricsListen string // expvar/pprof 监听地址，空为关闭
	WebListen     string // 浏览器视图监听地址，空为关闭
}

// ConfigFile 配置文件结构（YAML/JSON）
type ConfigFile struct {
	Feed struct {
		URL     string `yaml:"url" json:"url"`
		Timeout string `yaml:"timeout" json:"timeout"`
		Cookie  string `yaml:"cookie" json:"cookie"`
	} `yaml:"feed" json:"feed"`
	Poll struct {
		Interval     string `yaml:"interval" json:"interval"`
		InitialDelay string `yaml:"initial_delay" json:"initial_delay"`
		Schedule     string `yaml:"schedule" json:"schedule"`
		LoginURL     string `yaml:"login_url" json:"login_url"`
	} `yaml:"poll" json:"poll"`
	Prefs struct {
		Driver        string `yaml:"driver" json:"driver"`
		Path          string `yaml:"path" json:"path"`
		EncryptionKey string `yaml:"encryption_key" json:"encryption_key"`
		ThemeKey      string `yaml:"theme_key" json:"theme_key"`
	} `yaml:"prefs" json:"prefs"`
	Log struct {
		Level      string `yaml:"level" json:"level"`
		File       string `yaml:"file" json:"file"`
		MaxSize    int    `yaml:"max_size" json:"max_size"`
		MaxBackups int    `yaml:"max_backups" json:"max_backups"`
		MaxAge     int    `yaml:"max_age" json:"max_age"`
		Compress   *bool  `yaml:"compress" json:"compress"`
	} `yaml:"log" json:"log"`
	Mode          string `yaml:"mode" json:"mode"`
	MetricsListen string `yaml:"metrics_listen" json:"metrics_listen"`
	WebListen     string `yaml:"web_listen" json:"web_listen"`
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Feed: FeedConfig{
			Timeout: 15 * time.Second,
		},
		Poll: PollConfig{
			Interval:     10 * time.Second,
			InitialDelay: 100 * time.Millisecond,
			LoginURL:     "/login",
		},
		Prefs: PrefsConfig{
			Driver:   prefstore.DriverFile,
			Path:     "data/prefs",
			ThemeKey: "darkMode",
		},
		Log: LogConfig{
			Level:      "info",
			File:       "logs/botdash.log",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
	}
}

// LoadFromFile 加载配置（优先级：环境变量 > 配置文件 > 默认值）。
// filePath 为空时只读环境变量。
func LoadFromFile(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		cf, err := loadConfigFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败 %s: %w", filePath, err)
		}
		if err := cfg.applyFile(cf); err != nil {
			return nil, fmt.Errorf("配置文件 %s: %w", filePath, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile 加载配置文件（支持 YAML 和 JSON）
func loadConfigFile(filePath string) (*ConfigFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var configFile ConfigFile
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &configFile); err != nil {
			return nil, fmt.Errorf("解析 YAML 配置文件失败: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &configFile); err != nil {
			return nil, fmt.Errorf("解析 JSON 配置文件失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的配置文件格式: %s (支持 .yaml, .yml, .json)", ext)
	}

	return &configFile, nil
}

func (c *Config) applyFile(cf *ConfigFile) error {
	var err error
	setString(&c.Feed.URL, cf.Feed.URL)
	setString(&c.Feed.Cookie, cf.Feed.Cookie)
	if c.Feed.Timeout, err = durationOr(cf.Feed.Timeout, c.Feed.Timeout); err != nil {
		return fmt.Errorf("feed.timeout: %w", err)
	}

	if c.Poll.Interval, err = durationOr(cf.Poll.Interval, c.Poll.Interval); err != nil {
		return fmt.Errorf("poll.interval: %w", err)
	}
	if c.Poll.InitialDelay, err = durationOr(cf.Poll.InitialDelay, c.Poll.InitialDelay); err != nil {
		return fmt.Errorf("poll.initial_delay: %w", err)
	}
	setString(&c.Poll.Schedule, cf.Poll.Schedule)
	setString(&c.Poll.LoginURL, cf.Poll.LoginURL)

	setString(&c.Prefs.Driver, cf.Prefs.Driver)
	setString(&c.Prefs.Path, cf.Prefs.Path)
	setString(&c.Prefs.EncryptionKey, cf.Prefs.EncryptionKey)
	setString(&c.Prefs.ThemeKey, cf.Prefs.ThemeKey)

	setString(&c.Log.Level, cf.Log.Level)
	setString(&c.Log.File, cf.Log.File)
	setInt(&c.Log.MaxSize, cf.Log.MaxSize)
	setInt(&c.Log.MaxBackups, cf.Log.MaxBackups)
	setInt(&c.Log.MaxAge, cf.Log.MaxAge)
	if cf.Log.Compress != nil {
		c.Log.Compress = *cf.Log.Compress
	}

	setString(&c.Mode, cf.Mode)
	setString(&c.MetricsListen, cf.MetricsListen)
	setString(&c.WebListen, cf.WebListen)
	return nil
}

func (c *Config) applyEnv() error {
	var err error
	c.Feed.URL = getEnv("BOTDASH_URL", c.Feed.URL)
	c.Feed.Cookie = getEnv("BOTDASH_COOKIE", c.Feed.Cookie)
	if c.Feed.Timeout, err = parseDurationEnv("BOTDASH_TIMEOUT", c.Feed.Timeout); err != nil {
		return err
	}
	if c.Poll.Interval, err = parseDurationEnv("BOTDASH_INTERVAL", c.Poll.Interval); err != nil {
		return err
	}
	if c.Poll.InitialDelay, err = parseDurationEnv("BOTDASH_INITIAL_DELAY", c.Poll.InitialDelay); err != nil {
		return err
	}
	c.Poll.Schedule = getEnv("BOTDASH_SCHEDULE", c.Poll.Schedule)
	c.Poll.LoginURL = getEnv("BOTDASH_LOGIN_URL", c.Poll.LoginURL)

	c.Prefs.Driver = getEnv("BOTDASH_PREFS_DRIVER", c.Prefs.Driver)
	c.Prefs.Path = getEnv("BOTDASH_PREFS_PATH", c.Prefs.Path)
	c.Prefs.EncryptionKey = getEnv("BOTDASH_PREFS_KEY", c.Prefs.EncryptionKey)
	c.Prefs.ThemeKey = getEnv("BOTDASH_THEME_KEY", c.Prefs.ThemeKey)

	c.Log.Level = getEnv("BOTDASH_LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("BOTDASH_LOG_FILE", c.Log.File)
	c.Log.Compress = parseBoolEnv("BOTDASH_LOG_COMPRESS", c.Log.Compress)

	c.Mode = getEnv("BOTDASH_MODE", c.Mode)
	c.MetricsListen = getEnv("BOTDASH_METRICS_LISTEN", c.MetricsListen)
	c.WebListen = getEnv("BOTDASH_WEB_LISTEN", c.WebListen)
	return nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Feed.URL) == "" {
		return fmt.Errorf("feed.url (BOTDASH_URL) 未配置")
	}
	if c.Poll.Schedule == "" && c.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval 必须大于 0")
	}
	if c.Poll.InitialDelay < 0 {
		return fmt.Errorf("poll.initial_delay 不能为负数")
	}
	if c.Feed.Timeout <= 0 {
		return fmt.Errorf("feed.timeout 必须大于 0")
	}
	switch strings.ToLower(c.Prefs.Driver) {
	case prefstore.DriverBadger, prefstore.DriverSQLite, prefstore.DriverFile, prefstore.DriverMemory:
	default:
		return fmt.Errorf("未知的偏好存储驱动: %s", c.Prefs.Driver)
	}
	if c.Prefs.ThemeKey == "" {
		return fmt.Errorf("prefs.theme_key 不能为空")
	}
	switch c.Mode {
	case ModeAuto, ModeTUI, ModeHeadless, ModeWeb:
	default:
		return fmt.Errorf("未知的运行模式: %s (支持 tui, headless, web)", c.Mode)
	}
	if c.Mode == ModeWeb && c.WebListen == "" {
		return fmt.Errorf("web 模式需要配置 web_listen")
	}
	return nil
}

func setString(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func durationOr(raw string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	return time.ParseDuration(strings.TrimSpace(raw))
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDurationEnv 解析时长环境变量，例如 "10s"、"250ms"
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// parseBoolEnv 解析布尔环境变量
func parseBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

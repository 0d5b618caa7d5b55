package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// 默认文件名，与原始数据目录约定一致
const (
	DefaultForecastFile      = "预测.xlsx"
	DefaultDecompositionFile = "来源分解.xlsx"
	ConfigFileName           = "config.toml"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Web    WebConfig    `toml:"web"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	OpenBrowser bool `toml:"open_browser"`
}

// DataConfig 数据文件配置
type DataConfig struct {
	DataDir            string `toml:"data_dir"`
	ForecastFile       string `toml:"forecast_file"`
	DecompositionFile  string `toml:"decomposition_file"`
	ForecastSheet      string `toml:"forecast_sheet"`
	DecompositionSheet string `toml:"decomposition_sheet"`
}

// WebConfig 页面与静态资源配置
type WebConfig struct {
	StaticDir string `toml:"static_dir"`
	SSL       bool   `toml:"ssl"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path  string
	Found bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        5000,
			DevMode:     false,
			OpenBrowser: true,
		},
		Data: DataConfig{
			DataDir:           "data",
			ForecastFile:      DefaultForecastFile,
			DecompositionFile: DefaultDecompositionFile,
		},
		Web: WebConfig{
			StaticDir: "static",
		},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, ConfigFileName)
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息。
// path 为空时使用可执行文件同目录下的 config.toml；文件不存在时返回默认配置。
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	info := LoadConfigInfo{Path: path}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, info, nil
		}
		return nil, info, fmt.Errorf("读取配置文件 %s: %w", path, err)
	}
	info.Found = true

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, info, fmt.Errorf("解析配置文件 %s: %w", path, err)
	}
	cfg.fillDefaults()

	return cfg, info, nil
}

// LoadConfig 从 config.toml 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	cfg, _, err := LoadConfigWithInfo(path)
	return cfg, err
}

// fillDefaults 补齐配置文件中显式置空的字段
func (c *AppConfig) fillDefaults() {
	def := DefaultConfig()
	if c.Server.Port <= 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Data.DataDir == "" {
		c.Data.DataDir = def.Data.DataDir
	}
	if c.Data.ForecastFile == "" {
		c.Data.ForecastFile = def.Data.ForecastFile
	}
	if c.Data.DecompositionFile == "" {
		c.Data.DecompositionFile = def.Data.DecompositionFile
	}
	if c.Web.StaticDir == "" {
		c.Web.StaticDir = def.Web.StaticDir
	}
}

// LoadDotEnv 加载工作目录下的 .env（不存在时忽略）
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("加载 %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv 环境变量覆盖（用于部署 / 本地运行）
func (c *AppConfig) ApplyEnv() {
	if v := os.Getenv("NOWCAST_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("NOWCAST_DATA_DIR"); v != "" {
		c.Data.DataDir = v
	}
	if v := os.Getenv("NOWCAST_STATIC_DIR"); v != "" {
		c.Web.StaticDir = v
	}
}

// SaveConfig 保存配置到指定路径，必要时创建所在目录
func SaveConfig(cfg *AppConfig, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("序列化配置: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建配置目录: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件 %s: %w", path, err)
	}
	return nil
}

// EnsureDataDir 确保数据目录存在，返回其路径
func EnsureDataDir(cfg *AppConfig) (string, error) {
	if err := os.MkdirAll(cfg.Data.DataDir, 0755); err != nil {
		return "", err
	}
	return cfg.Data.DataDir, nil
}

// ForecastPath 预测数据文件路径
func (c *AppConfig) ForecastPath() string {
	return filepath.Join(c.Data.DataDir, c.Data.ForecastFile)
}

// DecompositionPath 来源分解数据文件路径
func (c *AppConfig) DecompositionPath() string {
	return filepath.Join(c.Data.DataDir, c.Data.DecompositionFile)
}

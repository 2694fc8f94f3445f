package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	// 前端静态资源目录
	StaticDir string `mapstructure:"static_dir"`

	// 词典校验服务（外部拼写检查 API）
	DictionaryAPIURL string `mapstructure:"dictionary_api_url"`
	DictionaryAPIKey string `mapstructure:"dictionary_api_key"`
	Language         string `mapstructure:"language"`
}

var cfg *AppConfig

func GetConfig() *AppConfig {
	if cfg == nil {
		cfg = InitConfig()
	}

	return cfg
}

func InitConfig() *AppConfig {
	v := viper.New()

	v.SetConfigFile("app_config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	v.SetDefault("static_dir", "./ghost-word-fe")
	v.SetDefault("language", "fr-FR")

	if err := v.ReadInConfig(); err != nil {
		panic(fmt.Errorf("加载配置失败: %w", err))
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("解析配置失败: %w", err))
	}

	return &config
}

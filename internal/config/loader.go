// Package config 提供配置加载功能
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// DefaultDir 默认配置目录
const DefaultDir = "configs"

// 匹配 ${VAR} 或 ${VAR:default}
// g1: 变量名, g2: 默认值部分（含冒号）, g3: 默认值内容
var envPattern = regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)

// Load 从默认目录加载配置
func Load() (*Config, error) {
	return LoadFrom(DefaultDir)
}

// LoadFrom 从指定目录加载配置
// 按优先级加载：默认值 -> config.yaml -> config.{APP_ENV}.yaml -> 环境变量
// 两个配置文件都是可选的，CLI 在没有配置目录时仅依赖环境变量
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := loadConfigFile(v, filepath.Join(dir, "config.yaml")); err != nil {
		return nil, err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if err := loadConfigFile(v, filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env))); err != nil {
		return nil, err
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := bindAliases(v); err != nil {
		return nil, err
	}

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// bindAliases 绑定面向用户的短环境变量名
func bindAliases(v *viper.Viper) error {
	aliases := map[string][]string{
		"client.base_url":               {"CONTENT_API_URL", "CLIENT_BASE_URL"},
		"client.api_key":                {"CONTENT_API_KEY", "CLIENT_API_KEY"},
		"llm.providers.openai.api_key":  {"OPENAI_API_KEY", "LLM_PROVIDERS_OPENAI_API_KEY"},
		"llm.providers.gemini.api_key":  {"GEMINI_API_KEY", "LLM_PROVIDERS_GEMINI_API_KEY"},
		"llm.providers.claude.api_key":  {"ANTHROPIC_API_KEY", "LLM_PROVIDERS_CLAUDE_API_KEY"},
		"observability.logging.level":   {"LOG_LEVEL", "OBSERVABILITY_LOGGING_LEVEL"},
		"observability.tracing.enabled": {"TRACING_ENABLED", "OBSERVABILITY_TRACING_ENABLED"},
		"features.usage_ledger.enabled": {"USAGE_LEDGER_ENABLED", "FEATURES_USAGE_LEDGER_ENABLED"},
		"security.api_keys":             {"API_KEYS", "SECURITY_API_KEYS"},
		"security.rate_limit.enabled":   {"RATE_LIMIT_ENABLED", "SECURITY_RATE_LIMIT_ENABLED"},
	}
	for key, envs := range aliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

// loadConfigFile 读取文件，执行环境变量替换，并加载到 viper；文件不存在时跳过
func loadConfigFile(v *viper.Viper, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	reader := strings.NewReader(expandEnv(string(content)))
	if v.ConfigFileUsed() == "" {
		if err := v.ReadConfig(reader); err != nil {
			return fmt.Errorf("failed to read processed config %s: %w", path, err)
		}
		// 手动标记已加载文件，后续文件走 MergeConfig
		v.SetConfigFile(path)
		return nil
	}
	if err := v.MergeConfig(reader); err != nil {
		return fmt.Errorf("failed to merge processed config %s: %w", path, err)
	}
	return nil
}

// expandEnv 替换字符串中的 ${VAR:default} 占位符
func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		submatch := envPattern.FindStringSubmatch(match)
		key := submatch[1]
		hasDefault := submatch[2] != ""
		defVal := submatch[3]

		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		if hasDefault {
			return defVal
		}
		// 保留原样以便识别未定义的变量
		return match
	})
}

// MustLoad 加载配置，失败时 panic
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "benovitz-content-api")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.env", "development")

	// HTTP 服务器默认值
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8000)
	v.SetDefault("server.http.read_timeout", "30s")
	v.SetDefault("server.http.write_timeout", "120s")
	v.SetDefault("server.http.idle_timeout", "120s")

	// SDK 客户端默认值
	v.SetDefault("client.base_url", "https://benovitz-content-api.onrender.com")
	v.SetDefault("client.api_key", "")
	v.SetDefault("client.timeout", "120s")

	// 数据库默认值
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.database", "benovitz_content")
	v.SetDefault("database.postgres.ssl_mode", "disable")
	v.SetDefault("database.postgres.max_open_conns", 20)
	v.SetDefault("database.postgres.max_idle_conns", 5)
	v.SetDefault("database.postgres.conn_max_lifetime", "30m")
	v.SetDefault("database.postgres.conn_max_idle_time", "5m")

	// Redis 默认值
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 20)
	v.SetDefault("cache.redis.min_idle_conns", 2)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	// LLM 默认值
	v.SetDefault("llm.default_provider", "openai")
	v.SetDefault("llm.providers.openai.type", "openai")
	v.SetDefault("llm.providers.openai.api_key", "")
	v.SetDefault("llm.providers.openai.model", "gpt-4o")
	v.SetDefault("llm.providers.openai.max_tokens", 2000)
	v.SetDefault("llm.providers.openai.temperature", 0.7)
	v.SetDefault("llm.providers.openai.timeout", "120s")
	v.SetDefault("llm.providers.gemini.type", "gemini")
	v.SetDefault("llm.providers.gemini.api_key", "")
	v.SetDefault("llm.providers.gemini.model", "gemini-2.5-flash")
	v.SetDefault("llm.providers.gemini.max_tokens", 2000)
	v.SetDefault("llm.providers.gemini.temperature", 0.7)
	v.SetDefault("llm.providers.gemini.timeout", "120s")
	v.SetDefault("llm.providers.claude.type", "claude")
	v.SetDefault("llm.providers.claude.api_key", "")
	v.SetDefault("llm.providers.claude.model", "claude-sonnet-4-20250514")
	v.SetDefault("llm.providers.claude.max_tokens", 2000)
	v.SetDefault("llm.providers.claude.temperature", 0.7)
	v.SetDefault("llm.providers.claude.timeout", "120s")

	// 可观测性默认值
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	// 安全默认值
	v.SetDefault("security.api_keys", []string{})
	v.SetDefault("security.rate_limit.enabled", false)
	v.SetDefault("security.rate_limit.limit", 10)
	v.SetDefault("security.rate_limit.window", "1m")
	v.SetDefault("security.cors.allowed_origins", []string{"*"})
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("security.cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})

	// 功能开关默认值
	v.SetDefault("features.usage_ledger.enabled", false)
}

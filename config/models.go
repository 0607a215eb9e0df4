package config

import (
	"net"
	"time"
)

// FileMakerConfig describes the upstream OData script endpoint and how to authenticate to it.
type FileMakerConfig struct {
	ScriptURL string `mapstructure:"script_url"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	// AuthB64 is base64("user:pass"). Deprecated: set Username and Password instead.
	AuthB64 string        `mapstructure:"auth_b64"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// UsesDeprecatedAuth reports whether the pre-encoded credential is the one in effect.
func (c FileMakerConfig) UsesDeprecatedAuth() bool {
	return c.Username == "" && c.AuthB64 != ""
}

// OpenAIConfig holds the optional language-model settings. An empty APIKey disables translation.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Config holds the application configuration.
type Config struct {
	ListenAddress string          `mapstructure:"listen_address"`
	Port          string          `mapstructure:"port"`
	AllowedOrigin string          `mapstructure:"allowed_origin"`
	StaticDir     string          `mapstructure:"static_dir"`
	FileMaker     FileMakerConfig `mapstructure:"filemaker"`
	OpenAI        OpenAIConfig    `mapstructure:"openai"`
	Log           LogConfig       `mapstructure:"log"`
}

// Addr is the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ListenAddress, c.Port)
}

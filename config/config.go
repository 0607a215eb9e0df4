package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"io/fs"
	"net/url"
	"strconv"
)

const (
	DefaultScriptURL     = "https://digimidi.fmcloud.fm/fmi/odata/v4/DIGIMIDI_DEV/Script.search_pet_n8n"
	DefaultAllowedOrigin = "https://separate-felicdad-digimidi-3d636144.koyeb.app"
	DefaultModel         = "gpt-4o-mini"
)

// envBindings maps config keys to the environment variables the deployment already uses.
var envBindings = map[string]string{
	"listen_address":       "LISTEN_ADDRESS",
	"port":                 "PORT",
	"allowed_origin":       "ALLOWED_ORIGIN",
	"static_dir":           "STATIC_DIR",
	"filemaker.script_url": "FM_SCRIPT_URL",
	"filemaker.username":   "FM_USERNAME",
	"filemaker.password":   "FM_PASSWORD",
	"filemaker.auth_b64":   "FM_AUTH_B64",
	"filemaker.timeout":    "FM_TIMEOUT",
	"openai.api_key":       "OPENAI_API_KEY",
	"openai.model":         "OPENAI_MODEL",
	"openai.base_url":      "OPENAI_BASE_URL",
	"log.level":            "LOG_LEVEL",
	"log.file":             "LOG_FILE",
}

// LoadDotEnv copies variables from an env file into the process environment.
// Variables already set in the environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading env file: %w", err)
	}
	return nil
}

// Load builds the configuration from defaults, an optional YAML file and the environment.
// The result is meant to be treated as read-only and handed to each component.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_address", "0.0.0.0")
	v.SetDefault("port", "3000")
	v.SetDefault("allowed_origin", DefaultAllowedOrigin)
	v.SetDefault("filemaker.script_url", DefaultScriptURL)
	v.SetDefault("filemaker.timeout", "0s")
	v.SetDefault("openai.model", DefaultModel)
	v.SetDefault("log.level", "info")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var configuration Config
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := configuration.validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

func (c *Config) validate() error {
	if c.FileMaker.ScriptURL == "" {
		return errors.New("filemaker.script_url is required")
	}
	u, err := url.Parse(c.FileMaker.ScriptURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("filemaker.script_url must be an absolute http(s) URL, got %q", c.FileMaker.ScriptURL)
	}
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535, got %q", c.Port)
	}
	if c.FileMaker.Timeout < 0 {
		return errors.New("filemaker.timeout cannot be negative")
	}
	// Credentials and the OpenAI key are optional here: missing ones are reported per request.
	return nil
}

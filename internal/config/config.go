package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig             `mapstructure:"app"`
	Users   map[string]UserConfig `mapstructure:"users"`
	Browser BrowserConfig         `mapstructure:"browser"`
	Log     LogConfig             `mapstructure:"log"`
	Data    DataConfig            `mapstructure:"data"`
	Suite   SuiteConfig           `mapstructure:"suite"`
}

type AppConfig struct {
	URL string `mapstructure:"url"` // e.g. https://org.crm.dynamics.com
}

// UserConfig is a named login. Keys under "users" are aliases referenced from
// feature files; viper lower-cases them.
type UserConfig struct {
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	MFASecret string `mapstructure:"mfaSecret"` // base32 TOTP secret, optional
}

type BrowserConfig struct {
	ExecutablePath  string        `mapstructure:"executablePath"`
	Headless        bool          `mapstructure:"headless"`
	UserDataDir     string        `mapstructure:"userDataDir"`
	ActionTimeout   time.Duration `mapstructure:"actionTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	MaxSessions     int           `mapstructure:"maxSessions"`
	WindowWidth     int           `mapstructure:"windowWidth"`
	WindowHeight    int           `mapstructure:"windowHeight"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // console, json
	File       string `mapstructure:"file"`   // empty disables file output
	MaxSize    int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAge     int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

type SuiteConfig struct {
	Paths         []string `mapstructure:"paths"`
	Tags          string   `mapstructure:"tags"`
	Format        string   `mapstructure:"format"`
	Concurrency   int      `mapstructure:"concurrency"`
	StopOnFailure bool     `mapstructure:"stopOnFailure"`
	Strict        bool     `mapstructure:"strict"`
}

// User returns the login registered under alias.
func (c *Config) User(alias string) (UserConfig, error) {
	u, ok := c.Users[strings.ToLower(alias)]
	if !ok {
		return UserConfig{}, fmt.Errorf("no user configured with the alias '%s'", alias)
	}
	return u, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.url", "")

	v.SetDefault("browser.executablePath", "") // Attempt auto-detect if empty
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.userDataDir", "") // Empty means temporary profile
	v.SetDefault("browser.actionTimeout", "30s")
	v.SetDefault("browser.shutdownTimeout", "10s")
	v.SetDefault("browser.maxSessions", 1)
	v.SetDefault("browser.windowWidth", 1920)
	v.SetDefault("browser.windowHeight", 1080)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxSize", 50)
	v.SetDefault("log.maxBackups", 3)
	v.SetDefault("log.maxAge", 7)
	v.SetDefault("log.compress", false)

	v.SetDefault("data.dir", "data")

	v.SetDefault("suite.paths", []string{"features"})
	v.SetDefault("suite.tags", "")
	v.SetDefault("suite.format", "pretty")
	v.SetDefault("suite.concurrency", 1)
	v.SetDefault("suite.stopOnFailure", false)
	v.SetDefault("suite.strict", true)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.xrmsteps")
	}

	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("XRMSTEPS")

	err := v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Browser.MaxSessions < 1 {
		cfg.Browser.MaxSessions = 1
	}

	return &cfg, nil
}

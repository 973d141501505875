package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Store      StoreConfig      `yaml:"store"`
	Payments   PaymentsConfig   `yaml:"payments"`
	Users      []User           `yaml:"users"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

// ClassifierConfig configures the hosted intent classifier.
// An empty api_token disables the classifier entirely and the keyword
// fallback becomes the only resolution path.
type ClassifierConfig struct {
	APIURL   string `yaml:"api_url"`
	APIToken string `yaml:"api_token"`
	Model    string `yaml:"model"`
}

// StoreConfig selects the ledger backend: "memory" (default) or "bolt"
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"` // bolt database file
}

type PaymentsConfig struct {
	ConfirmDelayMs int `yaml:"confirm_delay_ms"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Wallet   string `yaml:"wallet"`
}

var GlobalConfig *Config

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Classifier.APIURL == "" {
		cfg.Classifier.APIURL = "https://api.openai.com/v1"
	}
	if cfg.Classifier.Model == "" {
		cfg.Classifier.Model = "gpt-5"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "memory"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "intentpay.db"
	}
	if cfg.Payments.ConfirmDelayMs == 0 {
		cfg.Payments.ConfirmDelayMs = 1000
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}

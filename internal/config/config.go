package config

import (
	"errors"
	"fmt"
	"strings"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
	Chatbot ChatbotConfig
	MCP     MCPConfig
	Auth    AuthConfig
	Client  ClientConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

type ChatbotConfig struct {
	Threshold   float64
	AnswersFile string // empty selects the built-in answer table
}

type MCPConfig struct {
	Enabled bool
	OwnerID string
}

type AuthConfig struct {
	JWTSecret string
}

type ClientConfig struct {
	Token string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 5000,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Chatbot: ChatbotConfig{
			Threshold: 0.5,
		},
		MCP: MCPConfig{
			OwnerID: "local",
		},
	}
}

// Load reads configuration from the JSON config file, environment
// variables and the secrets file.
//
// The config file lives at $XDG_CONFIG_HOME/dashbot/config.json. Secrets
// are never read from it: they come from DASHBOT_* environment variables
// or from $XDG_DATA_HOME/dashbot/secrets.json.
//
// Environment variables (DASHBOT_*) override file values.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), newFileSecrets(secretsFilePath()))
}

// secretReader abstracts the secrets file for testing.
type secretReader interface {
	Get(name string) (string, error)
}

func loadWith(b ConfigBackend, sec secretReader) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)
	applySecrets(&cfg, sec)

	return cfg, nil
}

// ValidateServer checks the settings needed to serve requests.
func (c Config) ValidateServer() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("missing required config: JWT secret. "+
			"Set it via environment variable DASHBOT_JWT_SECRET or in "+secretsFilePath()))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	if c.Chatbot.Threshold <= 0 || c.Chatbot.Threshold >= 1 {
		errs = append(errs, fmt.Errorf("chatbot.threshold %v must be between 0 and 1", c.Chatbot.Threshold))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return errors.Join(errs...)
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// BaseURL is where the CLI reaches the server.
func (c Config) BaseURL() string {
	host := c.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Server.Port)
}

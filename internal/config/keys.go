package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kBool
	kFloat
)

type keySpec struct {
	key        string
	typ        keyType
	env        string
	secret     bool
	secretName string // entry in the secrets file
	apply      func(cfg *Config, v any)
	extract    func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.host", typ: kString, env: "DASHBOT_SERVER_HOST",
		apply:   func(cfg *Config, v any) { cfg.Server.Host = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.Host },
	},
	{
		key: "server.port", typ: kInt, env: "DASHBOT_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "storage.data_dir", typ: kString, env: "DASHBOT_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "log.level", typ: kString, env: "DASHBOT_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
	{
		key: "chatbot.threshold", typ: kFloat, env: "DASHBOT_CHATBOT_THRESHOLD",
		apply:   func(cfg *Config, v any) { cfg.Chatbot.Threshold = v.(float64) },
		extract: func(cfg Config) any { return cfg.Chatbot.Threshold },
	},
	{
		key: "chatbot.answers_file", typ: kString, env: "DASHBOT_CHATBOT_ANSWERS_FILE",
		apply:   func(cfg *Config, v any) { cfg.Chatbot.AnswersFile = v.(string) },
		extract: func(cfg Config) any { return cfg.Chatbot.AnswersFile },
	},
	{
		key: "mcp.enabled", typ: kBool, env: "DASHBOT_MCP_ENABLED",
		apply:   func(cfg *Config, v any) { cfg.MCP.Enabled = v.(bool) },
		extract: func(cfg Config) any { return cfg.MCP.Enabled },
	},
	{
		key: "mcp.owner_id", typ: kString, env: "DASHBOT_MCP_OWNER_ID",
		apply:   func(cfg *Config, v any) { cfg.MCP.OwnerID = v.(string) },
		extract: func(cfg Config) any { return cfg.MCP.OwnerID },
	},
	{
		key: "auth.jwt_secret", typ: kString, env: "DASHBOT_JWT_SECRET",
		secret: true, secretName: "jwt_secret",
		apply:   func(cfg *Config, v any) { cfg.Auth.JWTSecret = v.(string) },
		extract: func(cfg Config) any { return cfg.Auth.JWTSecret },
	},
	{
		key: "client.token", typ: kString, env: "DASHBOT_API_TOKEN",
		secret: true, secretName: "api_token",
		apply:   func(cfg *Config, v any) { cfg.Client.Token = v.(string) },
		extract: func(cfg Config) any { return cfg.Client.Token },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kBool:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				if bv, err := strconv.ParseBool(v); err == nil {
					s.apply(cfg, bv)
				} else {
					slog.Warn("could not parse bool from config, using default", "key", s.key, "value", v, "error", err)
				}
			}
		case kFloat:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					s.apply(cfg, f)
				} else {
					slog.Warn("could not parse float from config, using default", "key", s.key, "value", v, "error", err)
				}
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				slog.Warn("could not parse integer from env, using default", "env", s.env, "value", raw, "error", err)
			}
		case kBool:
			if b, err := strconv.ParseBool(raw); err == nil {
				s.apply(cfg, b)
			} else {
				slog.Warn("could not parse bool from env, using default", "env", s.env, "value", raw, "error", err)
			}
		case kFloat:
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				s.apply(cfg, f)
			} else {
				slog.Warn("could not parse float from env, using default", "env", s.env, "value", raw, "error", err)
			}
		}
	}
}

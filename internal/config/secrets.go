package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

func secretsFilePath() string {
	return filepath.Join(defaultDataDir(), "secrets.json")
}

// fileSecrets reads secrets from a JSON object of name to value, e.g.
// {"jwt_secret": "..."}. The file is expected to be mode 0600.
type fileSecrets struct {
	path string
}

func newFileSecrets(path string) fileSecrets {
	return fileSecrets{path: path}
}

func (f fileSecrets) Get(name string) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("secrets file not available: %w", err)
	}
	var secrets map[string]string
	if err := json.Unmarshal(data, &secrets); err != nil {
		return "", fmt.Errorf("parsing secrets file: %w", err)
	}
	val, ok := secrets[name]
	if !ok {
		return "", fmt.Errorf("secret %q not found", name)
	}
	return val, nil
}

// Set stores a secret, creating the file with owner-only permissions.
func (f fileSecrets) Set(name, value string) error {
	var secrets map[string]string
	data, err := os.ReadFile(f.path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &secrets); err != nil {
			return fmt.Errorf("parsing secrets file: %w", err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("reading secrets file: %w", err)
	}
	if secrets == nil {
		secrets = make(map[string]string)
	}
	secrets[name] = value

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating secrets dir: %w", err)
	}
	out, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, out, 0o600)
}

// applySecrets fills secret keys the environment left empty.
func applySecrets(cfg *Config, sec secretReader) {
	for _, s := range specs {
		if !s.secret || s.secretName == "" {
			continue
		}
		if v, _ := s.extract(*cfg).(string); v != "" {
			continue
		}
		if v, err := sec.Get(s.secretName); err == nil && v != "" {
			s.apply(cfg, v)
		}
	}
}

// SetSecret writes a secret value to the secrets file.
func SetSecret(key, value string) error {
	for _, s := range specs {
		if s.key == key && s.secret {
			return newFileSecrets(secretsFilePath()).Set(s.secretName, value)
		}
	}
	return fmt.Errorf("unknown secret: %q", key)
}

package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yeremiapane/hostel-app/models"
	"gopkg.in/yaml.v3"
)

var ErrNoSession = errors.New("no saved session")

// Session is what survives between runs. The password is never stored.
type Session struct {
	Token      string         `yaml:"token"`
	User       models.Profile `yaml:"user"`
	LastScreen string         `yaml:"lastScreen,omitempty"`
}

// SessionFile keeps a Session as YAML readable only by its owner.
type SessionFile struct {
	Path string
}

// DefaultSessionPath is hostelctl/session.yaml under the user config dir.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "hostelctl", "session.yaml"), nil
}

func (f SessionFile) Load() (*Session, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", f.Path, err)
	}
	if s.Token == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

func (f SessionFile) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(f.Path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(f.Path, 0o600)
}

func (f SessionFile) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

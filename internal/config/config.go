package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
)

const connectionsFile = "connections.json"

// Connection is one saved server. Either URI is set, or the discrete
// fields are.
type Connection struct {
	Name     string `json:"name"`
	URI      string `json:"uri,omitempty"`
	Host     string `json:"host,omitempty"`
	Port     string `json:"port,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	Database string `json:"database,omitempty"`
}

// Target describes where the connection points, for list display.
// Passwords are stripped.
func (c Connection) Target() string {
	if c.URI != "" {
		u, err := url.Parse(c.URI)
		if err != nil || u.User == nil {
			return c.URI
		}
		if _, has := u.User.Password(); has {
			u.User = url.User(u.User.Username())
		}
		return u.String()
	}
	host := c.Host
	if c.Port != "" {
		host = net.JoinHostPort(c.Host, c.Port)
	}
	return fmt.Sprintf("%s@%s/%s", c.User, host, c.Database)
}

type Config struct {
	Connections []Connection `json:"connections"`
}

// configDir resolves to ~/.config/pgbrowse (or the XDG equivalent).
func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "pgbrowse"), nil
}

func Load() (*Config, error) {
	dir, err := configDir()
	if err != nil {
		return &Config{}, err
	}

	data, err := os.ReadFile(filepath.Join(dir, connectionsFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &Config{}, nil
	case err != nil:
		return &Config{}, fmt.Errorf("read %s: %w", connectionsFile, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return &Config{}, fmt.Errorf("parse %s: %w", connectionsFile, err)
	}
	return &cfg, nil
}

// Save writes the file through a rename so a crash mid-save cannot
// truncate the saved connections.
func (c *Config) Save() error {
	dir, err := configDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode connections: %w", err)
	}

	tmp, err := os.CreateTemp(dir, connectionsFile+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", connectionsFile, err)
	}
	_, werr := tmp.Write(data)
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Rename(tmp.Name(), filepath.Join(dir, connectionsFile))
	}
	if werr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", connectionsFile, werr)
	}
	return nil
}

// Add saves a connection, replacing any existing one with the same name.
func (c *Config) Add(conn Connection) {
	i := slices.IndexFunc(c.Connections, func(x Connection) bool {
		return x.Name == conn.Name
	})
	if i >= 0 {
		c.Connections[i] = conn
		return
	}
	c.Connections = append(c.Connections, conn)
}

// Delete removes a connection by position. Out-of-range is a no-op.
func (c *Config) Delete(i int) {
	if i < 0 || i >= len(c.Connections) {
		return
	}
	c.Connections = slices.Delete(c.Connections, i, i+1)
}

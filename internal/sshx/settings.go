// Package sshx dials remote hosts for inspection. Connection parameters
// come from the host argument (user@host:port) layered over ~/.ssh/config,
// so an alias that works with plain ssh works here too.
package sshx

import (
	"bytes"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// Settings holds resolved SSH connection parameters.
type Settings struct {
	Hostname     string
	Port         string
	User         string
	IdentityFile string
}

// Address returns the host:port string for dialing.
func (s *Settings) Address() string {
	return net.JoinHostPort(s.Hostname, s.Port)
}

// ResolveSettings parses the host string and resolves settings from
// ~/.ssh/config. The host can be an alias, a hostname, user@hostname, or
// hostname:port; explicit parts win over config values.
func ResolveSettings(host string) *Settings {
	cfg := loadUserConfig()
	return resolveFrom(host, cfg)
}

// resolveFrom is the pure core of ResolveSettings, split out for tests.
// cfg may be nil when no SSH config is readable.
func resolveFrom(host string, cfg *ssh_config.Config) *Settings {
	settings := &Settings{
		Port: "22",
		User: currentUsername(),
	}

	explicitUser := false
	if atIdx := strings.Index(host, "@"); atIdx != -1 {
		settings.User = host[:atIdx]
		host = host[atIdx+1:]
		explicitUser = true
	}

	// Only a single colon means host:port; more is an IPv6 literal.
	explicitPort := false
	if colonIdx := strings.Index(host, ":"); colonIdx != -1 && strings.Count(host, ":") == 1 {
		if port := host[colonIdx+1:]; isAllDigits(port) {
			settings.Port = port
			host = host[:colonIdx]
			explicitPort = true
		}
	}

	settings.Hostname = host

	if cfg == nil {
		return settings
	}

	if hostname, _ := cfg.Get(host, "HostName"); hostname != "" {
		settings.Hostname = hostname
	}
	if port, _ := cfg.Get(host, "Port"); port != "" && !explicitPort {
		settings.Port = port
	}
	if cfgUser, _ := cfg.Get(host, "User"); cfgUser != "" && !explicitUser {
		settings.User = cfgUser
	}
	if identity, _ := cfg.Get(host, "IdentityFile"); identity != "" {
		settings.IdentityFile = expandPath(identity)
	}

	return settings
}

// loadUserConfig reads ~/.ssh/config, returning nil when it is missing or
// unparseable. A broken config degrades to explicit settings only.
func loadUserConfig() *ssh_config.Config {
	content, err := os.ReadFile(filepath.Join(homeDir(), ".ssh", "config"))
	if err != nil {
		return nil
	}
	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return nil
	}
	return cfg
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

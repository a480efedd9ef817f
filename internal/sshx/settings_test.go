package sshx

import (
	"strings"
	"testing"

	"github.com/kevinburke/ssh_config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseConfig(t *testing.T, content string) *ssh_config.Config {
	t.Helper()
	cfg, err := ssh_config.Decode(strings.NewReader(content))
	require.NoError(t, err)
	return cfg
}

const fixtureConfig = `
Host devbox
    HostName devbox.internal.example.com
    Port 2222
    User deploy
    IdentityFile ~/.ssh/devbox_ed25519

Host bastion
    HostName 10.0.0.1
`

func TestResolveFromAlias(t *testing.T) {
	cfg := parseConfig(t, fixtureConfig)

	s := resolveFrom("devbox", cfg)
	assert.Equal(t, "devbox.internal.example.com", s.Hostname)
	assert.Equal(t, "2222", s.Port)
	assert.Equal(t, "deploy", s.User)
	assert.True(t, strings.HasSuffix(s.IdentityFile, "/.ssh/devbox_ed25519"))
	assert.Equal(t, "devbox.internal.example.com:2222", s.Address())
}

func TestResolveFromExplicitPartsWin(t *testing.T) {
	cfg := parseConfig(t, fixtureConfig)

	s := resolveFrom("root@devbox:2200", cfg)
	// Explicit user and port beat the config, but HostName still applies.
	assert.Equal(t, "devbox.internal.example.com", s.Hostname)
	assert.Equal(t, "2200", s.Port)
	assert.Equal(t, "root", s.User)
}

func TestResolveFromUnknownHost(t *testing.T) {
	cfg := parseConfig(t, fixtureConfig)

	s := resolveFrom("example.org", cfg)
	assert.Equal(t, "example.org", s.Hostname)
	assert.Equal(t, "22", s.Port)
	assert.NotEmpty(t, s.User)
}

func TestResolveFromNilConfig(t *testing.T) {
	s := resolveFrom("mara@box:2022", nil)
	assert.Equal(t, "box", s.Hostname)
	assert.Equal(t, "2022", s.Port)
	assert.Equal(t, "mara", s.User)
	assert.Empty(t, s.IdentityFile)
}

func TestResolveFromIPv6NotTreatedAsPort(t *testing.T) {
	s := resolveFrom("fe80::1", nil)
	assert.Equal(t, "fe80::1", s.Hostname)
	assert.Equal(t, "22", s.Port)
}

func TestResolveFromNonNumericPortSuffix(t *testing.T) {
	// A colon followed by non-digits is part of the hostname, not a port.
	s := resolveFrom("box:abc", nil)
	assert.Equal(t, "box:abc", s.Hostname)
	assert.Equal(t, "22", s.Port)
}

func TestResolveFromPartialConfig(t *testing.T) {
	cfg := parseConfig(t, fixtureConfig)

	s := resolveFrom("bastion", cfg)
	assert.Equal(t, "10.0.0.1", s.Hostname)
	assert.Equal(t, "22", s.Port)
}

func TestExpandPath(t *testing.T) {
	assert.Equal(t, "/abs/key", expandPath("/abs/key"))
	expanded := expandPath("~/.ssh/id_rsa")
	assert.False(t, strings.HasPrefix(expanded, "~"))
	assert.True(t, strings.HasSuffix(expanded, "/.ssh/id_rsa"))
}

func TestIsAllDigits(t *testing.T) {
	assert.True(t, isAllDigits("22"))
	assert.False(t, isAllDigits(""))
	assert.False(t, isAllDigits("2a"))
}

package sshx

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hostscope/hostscope/internal/errors"
	"github.com/hostscope/hostscope/internal/logger"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

const dialTimeout = 10 * time.Second

// StrictHostKeyChecking controls host key verification. When false,
// unknown hosts are accepted without a known_hosts entry.
var StrictHostKeyChecking = false

// Client wraps an established SSH connection to one host.
type Client struct {
	conn *ssh.Client

	// Host is the name the user asked for, before alias resolution.
	Host string

	// Settings are the resolved connection parameters.
	Settings *Settings
}

// Dial resolves the host against ~/.ssh/config and opens a connection.
// Authentication tries the SSH agent first, then the configured identity
// file, then the default key files.
func Dial(host string, log logger.Logger) (*Client, error) {
	settings := ResolveSettings(host)

	clientConfig, err := buildClientConfig(settings, log)
	if err != nil {
		return nil, err
	}

	conn, err := ssh.Dial("tcp", settings.Address(), clientConfig)
	if err != nil {
		return nil, dialError(err, host, settings)
	}

	return &Client{conn: conn, Host: host, Settings: settings}, nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Output runs a command on the remote host and returns its combined
// stdout. The context bounds the whole round trip.
func (c *Client) Output(ctx context.Context, command string) (string, error) {
	session, err := c.conn.NewSession()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't open a session on "+c.Host, "")
	}
	defer session.Close()

	var stdout bytes.Buffer
	session.Stdout = &stdout

	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case <-ctx.Done():
		session.Close()
		return "", errors.WrapWithCode(ctx.Err(), errors.ErrSSH,
			"Remote command on "+c.Host+" timed out", "")
	case err := <-done:
		if err != nil {
			return "", errors.WrapWithCode(err, errors.ErrSSH,
				"Remote command failed on "+c.Host, "")
		}
	}

	return stdout.String(), nil
}

// buildClientConfig assembles auth methods and host key policy.
func buildClientConfig(settings *Settings, log logger.Logger) (*ssh.ClientConfig, error) {
	var methods []ssh.AuthMethod
	var encryptedKeys []string

	tryKeyFile := func(path string) {
		auth, err := keyFileAuth(path)
		if err != nil {
			if _, ok := err.(*ssh.PassphraseMissingError); ok {
				encryptedKeys = append(encryptedKeys, path)
			}
			log.Debug("skipping key %s: %v", path, err)
			return
		}
		methods = append(methods, auth)
	}

	if auth := sshAgentAuth(log); auth != nil {
		methods = append(methods, auth)
	}

	if settings.IdentityFile != "" {
		tryKeyFile(settings.IdentityFile)
	} else {
		sshDir := filepath.Join(homeDir(), ".ssh")
		for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
			tryKeyFile(filepath.Join(sshDir, name))
		}
	}

	if len(methods) == 0 {
		suggestion := "Start an SSH agent and run 'ssh-add', or set IdentityFile for this host in ~/.ssh/config"
		if len(encryptedKeys) > 0 {
			suggestion = fmt.Sprintf("Your key %s is passphrase-protected. Run 'ssh-add %s' to unlock it",
				encryptedKeys[0], encryptedKeys[0])
		}
		return nil, errors.New(errors.ErrSSH,
			"No usable SSH authentication method for "+settings.Hostname, suggestion)
	}

	return &ssh.ClientConfig{
		User:            settings.User,
		Auth:            methods,
		HostKeyCallback: hostKeyCallback(log),
		Timeout:         dialTimeout,
	}, nil
}

// hostKeyCallback verifies against ~/.ssh/known_hosts when strict
// checking is on, and accepts anything otherwise.
func hostKeyCallback(log logger.Logger) ssh.HostKeyCallback {
	if !StrictHostKeyChecking {
		return ssh.InsecureIgnoreHostKey()
	}

	knownHostsFile := filepath.Join(homeDir(), ".ssh", "known_hosts")
	callback, err := knownhosts.New(knownHostsFile)
	if err != nil {
		log.Warn("couldn't read %s: %v", knownHostsFile, err)
		return ssh.InsecureIgnoreHostKey()
	}
	return callback
}

var (
	agentOnce sync.Once
	agentConn net.Conn
	agentAuth ssh.AuthMethod
)

// sshAgentAuth returns agent-backed auth when a running agent holds at
// least one key. The agent connection is shared across dials.
func sshAgentAuth(log logger.Logger) ssh.AuthMethod {
	agentOnce.Do(func() {
		sock := os.Getenv("SSH_AUTH_SOCK")
		if sock == "" {
			return
		}
		conn, err := net.Dial("unix", sock)
		if err != nil {
			log.Debug("ssh agent unreachable: %v", err)
			return
		}
		client := agent.NewClient(conn)
		signers, err := client.Signers()
		if err != nil || len(signers) == 0 {
			conn.Close()
			return
		}
		agentConn = conn
		agentAuth = ssh.PublicKeysCallback(client.Signers)
	})
	return agentAuth
}

// CloseAgent releases the shared agent connection, if any.
func CloseAgent() {
	if agentConn != nil {
		agentConn.Close()
		agentConn = nil
	}
}

func keyFileAuth(path string) (ssh.AuthMethod, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, err
	}
	return ssh.PublicKeys(signer), nil
}

// dialError turns a raw dial failure into something actionable.
func dialError(err error, host string, settings *Settings) error {
	msg := "Couldn't connect to " + host
	suggestion := ""

	errText := err.Error()
	switch {
	case strings.Contains(errText, "unable to authenticate"):
		suggestion = fmt.Sprintf("Authentication as %q failed. Check the user and keys for this host in ~/.ssh/config", settings.User)
	case strings.Contains(errText, "connection refused"):
		suggestion = fmt.Sprintf("Nothing is listening on %s. Is sshd running on the remote host?", settings.Address())
	case strings.Contains(errText, "no such host"):
		suggestion = fmt.Sprintf("Hostname %q didn't resolve. Check the spelling or your ~/.ssh/config aliases", settings.Hostname)
	case strings.Contains(errText, "i/o timeout"):
		suggestion = fmt.Sprintf("No answer from %s. Check the network path and firewall rules", settings.Address())
	}

	return errors.WrapWithCode(err, errors.ErrSSH, msg, suggestion)
}

// Package sshclient provides the SSH transport used to push configuration
// files to the administration host.
package sshclient

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/ninebynine/netconfig/pkg/utils"
)

// DefaultTimeout bounds the TCP dial and the SSH handshake.
const DefaultTimeout = 10 * time.Second

type Config struct {
	Addr           string // host:port
	User           string
	KeyFile        string // private identity key, "~" expanded
	KnownHostsFile string // empty: host key is not verified
	Timeout        time.Duration
}

// Client is an authenticated SSH connection to the administration host.
type Client struct {
	conn *ssh.Client
}

// Dial connects to cfg.Addr and authenticates with the configured identity
// key. The context bounds the TCP connect; the handshake additionally runs
// under a connection deadline so it cannot hang past the timeout.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	signer, err := loadKey(cfg.KeyFile)
	if err != nil {
		return nil, err
	}

	hostKeys := ssh.InsecureIgnoreHostKey()
	if cfg.KnownHostsFile != "" {
		khPath, err := utils.ExpandHome(cfg.KnownHostsFile)
		if err != nil {
			return nil, err
		}
		hostKeys, err = knownhosts.New(khPath)
		if err != nil {
			return nil, fmt.Errorf("load known hosts %s: %v", khPath, err)
		}
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeys,
		Timeout:         cfg.Timeout,
	}

	dialer := net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %v", cfg.Addr, err)
	}

	deadline := time.Now().Add(cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	cconn, chans, reqs, err := ssh.NewClientConn(conn, cfg.Addr, sshCfg)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s: %v", cfg.Addr, err)
	}
	_ = conn.SetDeadline(time.Time{})

	return &Client{conn: ssh.NewClient(cconn, chans, reqs)}, nil
}

// Close terminates the SSH connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// CheckKey reports whether the identity key at path exists and parses.
func CheckKey(path string) error {
	if _, err := loadKey(path); err != nil {
		return err
	}
	return nil
}

func loadKey(path string) (ssh.Signer, error) {
	keyPath, err := utils.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read identity key: %v", err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse identity key %s: %v", keyPath, err)
	}
	return signer, nil
}

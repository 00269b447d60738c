package models

import (
	"net"
	"strconv"
)

// Remote identifies the administration account that receives configuration
// files. Every job in a manifest shares the same remote and credential.
type Remote struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	KeyFile        string `yaml:"key_file"`
	KnownHostsFile string `yaml:"known_hosts_file"`
}

// Addr returns the host:port dial address.
func (r Remote) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// TransferJob is one file to push. An empty RemotePath lands the file in the
// remote account's home directory under its original name.
type TransferJob struct {
	LocalPath  string `yaml:"local"`
	RemotePath string `yaml:"remote,omitempty"`
}

// Manifest describes one deploy run: a destination and the files to push, in
// order.
type Manifest struct {
	Remote Remote        `yaml:"remote"`
	Files  []TransferJob `yaml:"files"`
}

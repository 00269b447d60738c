package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	m := Default()

	if m.Remote.Host != "luggage.atuin.ninebynine.org" {
		t.Errorf("host = %s", m.Remote.Host)
	}
	if m.Remote.User != "gk-admin" {
		t.Errorf("user = %s", m.Remote.User)
	}
	if m.Remote.KeyFile != "~/.ssh/id_rsa_luggage_gk-admin" {
		t.Errorf("key file = %s", m.Remote.KeyFile)
	}
	if m.Remote.Addr() != "luggage.atuin.ninebynine.org:22" {
		t.Errorf("addr = %s", m.Remote.Addr())
	}

	if len(m.Files) != 2 {
		t.Fatalf("got %d files, want 2", len(m.Files))
	}
	if m.Files[0].LocalPath != "atuin.ninebynine.org.dhcpd.conf" {
		t.Errorf("first file = %s", m.Files[0].LocalPath)
	}
	if m.Files[1].LocalPath != "atuin.ninebynine.org.zone.hosts" {
		t.Errorf("second file = %s", m.Files[1].LocalPath)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deploy.yaml")
	doc := `
remote:
  host: other.example.org
files:
  - local: a.conf
  - local: b.conf
    remote: conf/b.conf
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Remote.Host != "other.example.org" {
		t.Errorf("host = %s", m.Remote.Host)
	}
	if m.Remote.Port != 22 || m.Remote.User != "gk-admin" || m.Remote.KeyFile != DefaultKeyFile {
		t.Errorf("defaults not applied: %+v", m.Remote)
	}
	if m.Files[1].RemotePath != "conf/b.conf" {
		t.Errorf("remote path = %s", m.Files[1].RemotePath)
	}
}

func TestLoadRejectsEmptyFileList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deploy.yaml")
	if err := os.WriteFile(path, []byte("remote:\n  host: h\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for manifest without files")
	}
}

func TestLoadRejectsMissingLocalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deploy.yaml")
	if err := os.WriteFile(path, []byte("files:\n  - remote: x\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for file entry without local path")
	}
}

func TestLoadOrDefault(t *testing.T) {
	m, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if len(m.Files) != 2 {
		t.Errorf("expected built-in manifest, got %+v", m)
	}

	bad := filepath.Join(t.TempDir(), "deploy.yaml")
	if err := os.WriteFile(bad, []byte(":\tnot yaml"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := LoadOrDefault(bad); err == nil {
		t.Fatal("expected error for unparseable manifest")
	}
}

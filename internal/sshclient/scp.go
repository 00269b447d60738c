package sshclient

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"golang.org/x/crypto/ssh"
)

// Upload streams src to remotePath with the SCP sink protocol, the same wire
// exchange the scp binary performs: start "scp -t" on the remote, send a
// C<mode> <size> <name> header, the payload, and a terminating zero byte.
// A remotePath without a directory component lands in the remote account's
// home directory.
func (c *Client) Upload(ctx context.Context, src io.Reader, size int64, mode os.FileMode, remotePath string) error {
	dir, name := path.Split(remotePath)
	if name == "" {
		return fmt.Errorf("remote path %q has no file name", remotePath)
	}
	if dir == "" {
		dir = "."
	}

	sess, err := c.conn.NewSession()
	if err != nil {
		return fmt.Errorf("new session: %v", err)
	}
	defer sess.Close()

	stdin, err := sess.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %v", err)
	}

	sendErr := make(chan error, 1)
	go func() {
		defer stdin.Close()
		if _, err := fmt.Fprintf(stdin, "C%#o %d %s\n", mode.Perm(), size, name); err != nil {
			sendErr <- err
			return
		}
		if _, err := io.Copy(stdin, src); err != nil {
			sendErr <- err
			return
		}
		_, err := fmt.Fprint(stdin, "\x00")
		sendErr <- err
	}()

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := sess.CombinedOutput(fmt.Sprintf("scp -t %s", dir))
		done <- result{out: out, err: err}
	}()

	select {
	case <-ctx.Done():
		_ = sess.Signal(ssh.SIGKILL)
		return ctx.Err()
	case r := <-done:
		if r.err != nil {
			return fmt.Errorf("scp to %s: %v, output: %s", dir, r.err, r.out)
		}
		if err := <-sendErr; err != nil {
			return fmt.Errorf("send %s: %v", name, err)
		}
		return nil
	}
}

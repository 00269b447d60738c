// Package deploy pushes configuration files to the administration host, one
// file at a time, and reports an aggregate result.
package deploy

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/ninebynine/netconfig/internal/sshclient"
	"github.com/ninebynine/netconfig/pkg/models"
	"github.com/ninebynine/netconfig/pkg/utils"
)

// Transport uploads a single file to the remote account. sshclient.Client is
// the real implementation; tests substitute a fake.
type Transport interface {
	Upload(ctx context.Context, src io.Reader, size int64, mode os.FileMode, remotePath string) error
	Close() error
}

// Config holds deployer options.
type Config struct {
	Out      io.Writer // report destination, defaults to os.Stdout
	Progress bool      // draw a per-file byte progress bar
}

// Deployer runs a manifest's transfers strictly in order.
type Deployer struct {
	transport Transport
	manifest  *models.Manifest
	out       io.Writer
	progress  bool
}

// NewDeployer creates a deployer for the given transport and manifest.
func NewDeployer(t Transport, m *models.Manifest, cfg Config) *Deployer {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	return &Deployer{
		transport: t,
		manifest:  m,
		out:       out,
		progress:  cfg.Progress,
	}
}

// Run pushes every manifest file in order. A failed transfer is reported and
// the remaining files are still attempted; the returned error is non-nil if
// any transfer failed, so the process exit status reflects the whole run
// rather than only the last transfer.
func (d *Deployer) Run(ctx context.Context) (*models.DeployStats, error) {
	stats := &models.DeployStats{}
	start := time.Now()

	for _, job := range d.manifest.Files {
		res := d.push(ctx, job)
		stats.Results = append(stats.Results, res)
		if res.Err != nil {
			stats.FailedFiles++
			fmt.Fprintf(d.out, "failed: %s: %v\n", job.LocalPath, res.Err)
			continue
		}
		stats.PushedFiles++
		stats.PushedSize += res.Size
		fmt.Fprintf(d.out, "pushed: %s -> %s@%s:%s (%s in %s)\n",
			job.LocalPath,
			d.manifest.Remote.User,
			d.manifest.Remote.Host,
			res.Job.RemotePath,
			utils.FormatSize(res.Size),
			res.Duration.Round(time.Millisecond),
		)
	}
	stats.Elapsed = time.Since(start)

	fmt.Fprintf(d.out, "Deploy finished in %s: %d pushed (%s), %d failed\n",
		utils.FormatDuration(stats.Elapsed),
		stats.PushedFiles,
		utils.FormatSize(stats.PushedSize),
		stats.FailedFiles,
	)
	if stats.FailedFiles > 0 {
		return stats, fmt.Errorf("%d of %d transfers failed", stats.FailedFiles, len(d.manifest.Files))
	}
	return stats, nil
}

func (d *Deployer) push(ctx context.Context, job models.TransferJob) models.TransferResult {
	res := models.TransferResult{Job: job}
	start := time.Now()

	f, err := os.Open(job.LocalPath)
	if err != nil {
		res.Err = fmt.Errorf("open %s: %v", job.LocalPath, err)
		return res
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		res.Err = fmt.Errorf("stat %s: %v", job.LocalPath, err)
		return res
	}
	res.Size = info.Size()

	remote := job.RemotePath
	if remote == "" {
		remote = filepath.Base(job.LocalPath)
	}
	// Report the resolved target, not the possibly empty manifest field.
	res.Job.RemotePath = remote

	var src io.Reader = f
	var bar *pb.ProgressBar
	if d.progress {
		bar = pb.New64(info.Size())
		bar.Set(pb.Bytes, true)
		bar.Start()
		src = bar.NewProxyReader(f)
	}

	res.Err = d.transport.Upload(ctx, src, info.Size(), info.Mode(), remote)
	if bar != nil {
		bar.Finish()
	}
	res.Duration = time.Since(start)
	return res
}

// Check validates the manifest without transferring: every local file must
// exist and the identity key must parse.
func Check(m *models.Manifest, out io.Writer) error {
	var problems int
	for _, job := range m.Files {
		info, err := os.Stat(job.LocalPath)
		if err != nil {
			problems++
			fmt.Fprintf(out, "missing: %s\n", job.LocalPath)
			continue
		}
		fmt.Fprintf(out, "ok:      %s (%s)\n", job.LocalPath, utils.FormatSize(info.Size()))
	}

	if err := sshclient.CheckKey(m.Remote.KeyFile); err != nil {
		problems++
		fmt.Fprintf(out, "key:     %v\n", err)
	} else {
		fmt.Fprintf(out, "key:     ok (%s)\n", m.Remote.KeyFile)
	}

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}
	return nil
}

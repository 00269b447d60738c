package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ninebynine/netconfig/internal/deploy"
	"github.com/ninebynine/netconfig/internal/gen"
	"github.com/ninebynine/netconfig/internal/manifest"
	"github.com/ninebynine/netconfig/internal/sshclient"
	"github.com/ninebynine/netconfig/pkg/version"
)

func main() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "print the version",
	}

	app := &cli.App{
		Name:                 "netconfig",
		Usage:                "generate network DNS/DHCP configuration files and push them to the admin host",
		Version:              version.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Usage:     "Generate <base>.dhcpd.conf and <base>.zone.hosts from a tabular host description",
				ArgsUsage: "<hosts file (.csv, .tsv or .xlsx)>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "domain",
						Usage: "DNS domain appended to host names in fixed-address entries",
						Value: gen.DefaultDomain,
					},
				},
				Action: runGenerate,
			},
			{
				Name:  "deploy",
				Usage: "Push configuration files to the administration host",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Deploy manifest path; built-in defaults are used when the file does not exist",
						Value: manifest.DefaultPath,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "SSH dial and handshake timeout",
						Value: sshclient.DefaultTimeout,
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Suppress per-file progress bars",
					},
				},
				Action: runDeploy,
			},
			{
				Name:  "check",
				Usage: "Validate the deploy manifest without transferring",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Deploy manifest path",
						Value: manifest.DefaultPath,
					},
					&cli.BoolFlag{
						Name:  "connect",
						Usage: "Also dial the remote host and authenticate",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "SSH dial and handshake timeout",
						Value: sshclient.DefaultTimeout,
					},
				},
				Action: runCheck,
			},
			{
				Name:  "version",
				Usage: "Print detailed version information",
				Action: func(c *cli.Context) error {
					fmt.Printf("Version:    %s\n", version.Version)
					fmt.Printf("Git commit: %s\n", version.GitCommit)
					fmt.Printf("Built:      %s\n", version.BuildTime)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runGenerate(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("generate needs exactly one hosts file argument")
	}

	dhcpPath, zonePath, err := gen.Generate(os.Stdout, c.Args().First(), c.String("domain"))
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", dhcpPath)
	fmt.Printf("wrote %s\n", zonePath)
	return nil
}

func runDeploy(c *cli.Context) error {
	m, err := manifest.LoadOrDefault(c.String("manifest"))
	if err != nil {
		return err
	}

	client, err := sshclient.Dial(context.Background(), sshclient.Config{
		Addr:           m.Remote.Addr(),
		User:           m.Remote.User,
		KeyFile:        m.Remote.KeyFile,
		KnownHostsFile: m.Remote.KnownHostsFile,
		Timeout:        c.Duration("timeout"),
	})
	if err != nil {
		return fmt.Errorf("connect to %s: %v", m.Remote.Addr(), err)
	}
	defer client.Close()

	d := deploy.NewDeployer(client, m, deploy.Config{Progress: !c.Bool("quiet")})
	_, err = d.Run(context.Background())
	return err
}

func runCheck(c *cli.Context) error {
	m, err := manifest.LoadOrDefault(c.String("manifest"))
	if err != nil {
		return err
	}

	if err := deploy.Check(m, os.Stdout); err != nil {
		return err
	}

	if c.Bool("connect") {
		client, err := sshclient.Dial(context.Background(), sshclient.Config{
			Addr:           m.Remote.Addr(),
			User:           m.Remote.User,
			KeyFile:        m.Remote.KeyFile,
			KnownHostsFile: m.Remote.KnownHostsFile,
			Timeout:        c.Duration("timeout"),
		})
		if err != nil {
			return fmt.Errorf("connect to %s: %v", m.Remote.Addr(), err)
		}
		client.Close()
		fmt.Printf("connect: ok (%s@%s)\n", m.Remote.User, m.Remote.Host)
	}
	return nil
}

// Package cliapp defines the command-line surface: flag parsing and
// validation for the miner's required and optional arguments.
package cliapp

import (
	"errors"
	"time"

	"github.com/urfave/cli/v2"
)

// Config is the resolved, validated set of runtime parameters the app needs
// to start mining.
type Config struct {
	Threads    int
	Address    string
	Pool       string
	VDFBailout time.Duration
}

const (
	flagThreads    = "threads"
	flagAddress    = "address"
	flagPool       = "pool"
	flagVDFBailout = "vdf-bailout"
)

// New builds the urfave/cli App. run is invoked once flags are parsed and
// validated into a Config.
func New(run func(Config) error) *cli.App {
	return &cli.App{
		Name:  "shaiminer",
		Usage: "proof-of-work miner client for the Shaicoin network",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  flagThreads,
				Usage: "number of worker threads (defaults to, and is clamped to, the detected CPU count)",
			},
			&cli.StringFlag{
				Name:     flagAddress,
				Usage:    "miner address / id to submit shares under",
				Required: true,
			},
			&cli.StringFlag{
				Name:     flagPool,
				Usage:    "pool websocket URL, e.g. ws://pool.example.com:3334",
				Required: true,
			},
			&cli.IntFlag{
				Name:  flagVDFBailout,
				Usage: "Hamiltonian-cycle solver wall-clock bailout, in milliseconds",
				Value: 1000,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := parseConfig(c)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
}

func parseConfig(c *cli.Context) (Config, error) {
	address := c.String(flagAddress)
	poolURL := c.String(flagPool)
	if address == "" {
		return Config{}, errors.New("cliapp: --address is required")
	}
	if poolURL == "" {
		return Config{}, errors.New("cliapp: --pool is required")
	}

	bailoutMS := c.Int(flagVDFBailout)
	if bailoutMS <= 0 {
		bailoutMS = 1000
	}

	return Config{
		Threads:    c.Int(flagThreads),
		Address:    address,
		Pool:       poolURL,
		VDFBailout: time.Duration(bailoutMS) * time.Millisecond,
	}, nil
}

// Command shaiminer is the Shaicoin proof-of-work miner client: it connects
// to a pool over a persistent websocket, mines advertised jobs across a
// worker pool gated by the Hamiltonian-cycle puzzle, and submits solutions.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaicoin/shaiminer/internal/api"
	"github.com/shaicoin/shaiminer/internal/banner"
	"github.com/shaicoin/shaiminer/internal/cliapp"
	"github.com/shaicoin/shaiminer/internal/job"
	"github.com/shaicoin/shaiminer/internal/pool"
	"github.com/shaicoin/shaiminer/internal/telemetry"
	"github.com/shaicoin/shaiminer/internal/worker"
)

func main() {
	app := cliapp.New(run)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cfg cliapp.Config) error {
	banner.PrintStartup()

	n := worker.NumWorkers(cfg.Threads)
	if cfg.Threads > 0 && cfg.Threads != n {
		banner.PrintThreadClamp()
	}

	var current job.Current
	workers := worker.New(n, cfg.VDFBailout, &current)

	poolClient := pool.New(cfg.Pool, cfg.Address, &current, workers.Submissions)

	counters := telemetry.New(&workers.HashCount, &poolClient.Accepted, &poolClient.Rejected)

	stop := make(chan struct{})

	workers.Start(stop)
	go poolClient.Run(stop)
	go counters.RunSampler(stop)
	go counters.RunLogger(stop)
	go func() {
		if err := api.Serve(counters); err != nil {
			log.Printf("telemetry server stopped: %v", err)
		}
	}()

	waitForShutdownSignal()

	close(stop)
	banner.PrintExit()
	return nil
}

// waitForShutdownSignal blocks until SIGINT or SIGTERM arrives. Process
// shutdown prints the exit banner and exits immediately; no graceful drain
// of in-flight submissions is performed.
func waitForShutdownSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs
}

// Command rollup-node runs the L1-facing side of the rollup node: it loads
// the rollup chain configuration, connects to the L1 beacon node and
// periodically probes the current beacon slot. It does not run derivation
// and does not call an execution engine.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/ethpandaops/rollup-node/beaconclient"
	"github.com/ethpandaops/rollup-node/node"
	"github.com/ethpandaops/rollup-node/rollup"
)

func main() {
	cmd := &cli.Command{
		Name:  "rollup-node",
		Usage: "derive the L2 chain from data posted to L1",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "rollup-config",
				Usage:    "path to the rollup chain configuration file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "l1-beacon",
				Usage: "address of the L1 beacon node HTTP API",
				Value: "http://127.0.0.1:5052",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (trace, debug, info, warn, error)",
				Value: "info",
			},
			&cli.DurationFlag{
				Name:  "status-interval",
				Usage: "interval between beacon chain status probes",
				Value: 12 * time.Second,
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("rollup node failed")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	level, err := logrus.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	logrus.SetLevel(level)

	cfg, err := rollup.LoadConfig(cmd.String("rollup-config"))
	if err != nil {
		return err
	}

	log := logrus.WithField("l2_chain_id", cfg.L2ChainID)

	client, err := beaconclient.New(cmd.String("l1-beacon"), beaconclient.WithLogger(log))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(logrus.Fields{
		"l2_genesis": cfg.Genesis.L2,
		"l1_genesis": cfg.Genesis.L1,
	}).Info("starting rollup node")

	runner := node.NewRunner(log)
	runner.Register("beacon_status", node.NewBeaconStatus(log, client, cmd.Duration("status-interval")))

	return runner.Run(ctx)
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bridged/internal/config"
	"bridged/internal/hwport/serialport"
	"bridged/internal/logging"
	"bridged/internal/node"
)

func newNegotiateCmd() *cobra.Command {
	var flags struct {
		configPath string
		timeout    time.Duration
	}

	cmd := &cobra.Command{
		Use:   "negotiate",
		Short: "Open the link and report whether the peer completes a time sync",
		Long: `negotiate is a one-shot diagnostic: it opens the configured serial
device, spins the node handle until either a time sync completes or
the timeout elapses, and prints the resulting error counters.

Example:
  bridged negotiate --config bridge.toml --timeout 5s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNegotiate(flags.configPath, flags.timeout)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "bridge.toml", "path to the bridge configuration file (.toml, .yaml, .yml)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 5*time.Second, "how long to wait for the peer to complete a time sync")

	return cmd
}

func runNegotiate(configPath string, timeout time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel})

	port := serialport.New(cfg.Device, cfg.Baud, 200*time.Millisecond)
	if err := port.Init(); err != nil {
		return fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	defer port.Close()

	h := node.New(port, cfg.NodeConfig(), log)

	deadline := time.Now().Add(timeout)
	for !h.Connected() && time.Now().Before(deadline) {
		h.SpinOnce()
	}

	if !h.Connected() {
		return fmt.Errorf("no time sync from peer within %s", timeout)
	}

	c := h.Counters()
	fmt.Printf("connected: true\n")
	fmt.Printf("checksum errors:       %d\n", c.ChecksumErrors)
	fmt.Printf("framing state errors:  %d\n", c.FramingStateErrors)
	fmt.Printf("invalid size errors:   %d\n", c.InvalidSizeErrors)
	fmt.Printf("malformed msg errors:  %d\n", c.MalformedMessageErrors)
	return nil
}

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bridged/internal/codec"
	"bridged/internal/config"
	"bridged/internal/hwport/serialport"
	"bridged/internal/logging"
	"bridged/internal/node"
	"bridged/internal/registry"
)

func newRunCmd() *cobra.Command {
	var flags struct {
		configPath string
		logLevel   string
		noColor    bool
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the serial link and pump the node handle until interrupted",
		Long: `run loads a bridge configuration file, opens the configured serial
device, advertises a heartbeat publisher and an echo subscriber, and
spins the node handle until the process receives SIGINT or SIGTERM.

Example:
  bridged run --config bridge.toml
  bridged run --config bridge.yaml --log-level debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBridge(flags.configPath, flags.logLevel, flags.noColor)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "bridge.toml", "path to the bridge configuration file (.toml, .yaml, .yml)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "override the configured log level (trace, debug, info, warn, error)")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "disable colored console output")

	return cmd
}

func runBridge(configPath, logLevelOverride string, noColor bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevelOverride != "" {
		cfg.LogLevel = logLevelOverride
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel, NoColor: noColor})

	port := serialport.New(cfg.Device, cfg.Baud, 200*time.Millisecond)
	if err := port.Init(); err != nil {
		return fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	defer port.Close()

	h := node.New(port, cfg.NodeConfig(), log)

	heartbeat := registry.NewPublisher("heartbeat", "std_msgs/Int32")
	if !h.Advertise(heartbeat) {
		return fmt.Errorf("publisher table full before heartbeat could be registered")
	}

	echo := registry.NewSubscriber("echo", "std_msgs/String", func(payload []byte) bool {
		log.Info().Str("message", string(payload)).Msg("echo received")
		return true
	})
	if !h.Subscribe(echo) {
		return fmt.Errorf("subscriber table full before echo could be registered")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info().Str("device", cfg.Device).Int("baud", cfg.Baud).Msg("bridge started")

	var tick int32
	ticker := time.NewTicker(time.Duration(cfg.SyncPeriodMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return nil
		case <-ticker.C:
			tick++
			if err := h.Publish(heartbeat, &codec.Int32{Data: tick}); err != nil {
				log.Warn().Err(err).Msg("heartbeat publish failed")
			}
			if err := h.Info(fmt.Sprintf("heartbeat %d", tick)); err != nil {
				log.Debug().Err(err).Msg("wire info log publish failed")
			}
		default:
			if n := h.SpinOnce(); n == 0 {
				time.Sleep(time.Millisecond)
			}
		}
	}
}

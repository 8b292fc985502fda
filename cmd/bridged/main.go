package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "bridged",
		Short:         "Serial bridge daemon for the pub/sub node handle protocol",
		Long:          `bridged runs a node handle over a framed serial link, carrying topic negotiation, publish/subscribe traffic, and time sync with the host on the other end.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newNegotiateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

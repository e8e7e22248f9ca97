package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string
	rootCmd := &cobra.Command{
		Use:   "gxframenet",
		Short: "Send and serve 0x7E framed device protocol over the network",
		Long: `gxframenet carries sync byte delimited, length prefixed frames
over TCP or Unix domain sockets.

  serve   listen for clients and echo every frame back
  send    connect to a server, send one frame and print the reply`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	rootCmd.AddCommand(
		serveCmd(&configPath),
		sendCmd(&configPath),
	)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

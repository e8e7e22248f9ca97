package main

import (
	"fmt"

	"github.com/Gurux/gxcommon-go"
	"github.com/Gurux/gxframenet-go"
	"github.com/spf13/cobra"
)

func sendCmd(configPath *string) *cobra.Command {
	var (
		host string
		port int
		wait int
	)
	cmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Send one frame and print the reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			media := gxframenet.NewGXFrameNet(cfg.Protocol, cfg.Host, cfg.Port)
			if err := cfg.apply(media); err != nil {
				return err
			}
			attachLogger(media, newLogger())
			if err := media.Open(); err != nil {
				return err
			}
			defer media.Close()

			defer media.GetSynchronous()()
			if err := media.Send(args[0], ""); err != nil {
				return err
			}
			r := gxcommon.NewReceiveParameters[string]()
			r.AllData = true
			r.WaitTime = wait
			ret, err := media.Receive(r)
			if err != nil {
				return err
			}
			if !ret {
				return fmt.Errorf("no reply in %d ms", wait)
			}
			fmt.Printf("Reply: %s\n", r.Reply)
			return nil
		},
	}
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host name")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Host port")
	cmd.Flags().IntVarP(&wait, "wait", "w", 1000, "WaitTime in milliseconds")
	return cmd
}

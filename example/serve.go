package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gurux/gxframenet-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func serveCmd(configPath *string) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Listen for clients and echo received frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			logger := newLogger()
			media := gxframenet.NewGXFrameNetServer(cfg.Protocol, cfg.Host, cfg.Port)
			if err := cfg.apply(media); err != nil {
				return err
			}
			attachLogger(media, logger)
			media.SetOnFrame(func(m *gxframenet.GXFrameNet, c *gxframenet.GXNetClient, f *gxframenet.GXFrameBuffer) {
				logger.Info().Str("client", c.String()).Int("length", f.Length).Str("data", f.String()).Msg("frame")
				if err := c.Send(f); err != nil {
					logger.Warn().Str("client", c.String()).Err(err).Msg("echo failed")
				}
			})

			if cfg.Metrics != "" {
				reg := prometheus.NewRegistry()
				metrics := gxframenet.NewGXMetrics("gxframenet")
				if err := metrics.Register(reg); err != nil {
					return err
				}
				media.SetMetrics(metrics)
				srv := &http.Server{Addr: cfg.Metrics, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error().Err(err).Msg("metrics endpoint failed")
					}
				}()
				defer srv.Close()
			}

			if err := media.Open(); err != nil {
				return err
			}
			defer func() {
				if err := media.Close(); err != nil {
					logger.Error().Err(err).Msg("close failed")
				}
			}()
			logger.Info().Str("addr", media.Addr().String()).Msg("serving")

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port")
	return cmd
}

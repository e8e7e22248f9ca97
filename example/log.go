package main

import (
	"os"
	"time"

	"github.com/Gurux/gxcommon-go"
	"github.com/rs/zerolog"
)

func newLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Str("app", "gxframenet").Logger()
}

// attachLogger routes the media events to logger.
func attachLogger(media gxcommon.IGXMedia, logger zerolog.Logger) {
	media.SetOnError(func(m gxcommon.IGXMedia, err error) {
		logger.Error().Str("media", m.String()).Err(err).Msg("media error")
	})
	media.SetOnMediaStateChange(func(m gxcommon.IGXMedia, e gxcommon.MediaStateEventArgs) {
		logger.Info().Str("media", m.String()).Str("state", e.State().String()).Msg("media state")
	})
	media.SetOnTrace(func(m gxcommon.IGXMedia, e gxcommon.TraceEventArgs) {
		logger.Debug().Str("media", m.String()).Msg(e.String())
	})
}

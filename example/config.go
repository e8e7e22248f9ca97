package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Gurux/gxcommon-go"
	"github.com/Gurux/gxframenet-go"
	"golang.org/x/text/language"
)

type fileConfig struct {
	Protocol     string   `toml:"protocol"`
	Host         string   `toml:"host"`
	Port         int      `toml:"port"`
	IPv6         bool     `toml:"ipv6"`
	MaxFrameSize int      `toml:"max_frame_size"`
	TimeoutMS    uint32   `toml:"timeout_ms"`
	Trace        string   `toml:"trace"`
	Language     string   `toml:"language"`
	Allow        []string `toml:"allow"`
	Metrics      string   `toml:"metrics"`
}

// config holds the media settings of both commands.
type config struct {
	Protocol     gxframenet.NetworkType
	Host         string
	Port         int
	IPv6         bool
	MaxFrameSize int
	TimeoutMS    uint32
	Trace        gxcommon.TraceLevel
	Language     language.Tag
	// Allow lists accepted client hosts. Empty accepts every client.
	Allow []string
	// Metrics is the listen address of the metrics endpoint.
	Metrics string
}

func defaultConfig() config {
	return config{
		Protocol:  gxframenet.NetworkTypeTCP,
		Host:      "127.0.0.1",
		Port:      4059,
		TimeoutMS: 5000,
		Language:  currentLanguage(),
	}
}

func currentLanguage() language.Tag {
	langEnv := os.Getenv("LANG")
	if langEnv == "" {
		return language.AmericanEnglish
	}
	langEnv = strings.Split(langEnv, ".")[0]
	tag, err := language.Parse(langEnv)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}
	if meta.IsDefined("protocol") {
		p, err := gxframenet.NetworkTypeParse(strings.TrimSpace(raw.Protocol))
		if err != nil {
			return config{}, fmt.Errorf("parse protocol: %w", err)
		}
		cfg.Protocol = p
	}
	if meta.IsDefined("host") {
		cfg.Host = strings.TrimSpace(raw.Host)
	}
	if meta.IsDefined("port") {
		cfg.Port = raw.Port
	}
	if meta.IsDefined("ipv6") {
		cfg.IPv6 = raw.IPv6
	}
	if meta.IsDefined("max_frame_size") {
		cfg.MaxFrameSize = raw.MaxFrameSize
	}
	if meta.IsDefined("timeout_ms") {
		cfg.TimeoutMS = raw.TimeoutMS
	}
	if meta.IsDefined("trace") {
		tl, err := gxcommon.TraceLevelParse(strings.TrimSpace(raw.Trace))
		if err != nil {
			return config{}, fmt.Errorf("parse trace: %w", err)
		}
		cfg.Trace = tl
	}
	if meta.IsDefined("language") {
		tag, err := language.Parse(strings.TrimSpace(raw.Language))
		if err != nil {
			return config{}, fmt.Errorf("parse language: %w", err)
		}
		cfg.Language = tag
	}
	if meta.IsDefined("allow") {
		cfg.Allow = normalizeHosts(raw.Allow)
	}
	if meta.IsDefined("metrics") {
		cfg.Metrics = strings.TrimSpace(raw.Metrics)
	}
	return cfg, nil
}

func normalizeHosts(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

// apply copies the settings to media.
func (c config) apply(media *gxframenet.GXFrameNet) error {
	media.Protocol = c.Protocol
	media.HostName = c.Host
	media.Port = c.Port
	media.UseIPv6 = c.IPv6
	media.MaxFrameSize = c.MaxFrameSize
	media.Localize(c.Language)
	if err := media.SetTimeout(c.TimeoutMS); err != nil {
		return err
	}
	if err := media.SetTrace(c.Trace); err != nil {
		return err
	}
	if len(c.Allow) != 0 {
		allow := append([]string(nil), c.Allow...)
		media.SetClientFilter(func(m *gxframenet.GXFrameNet, remoteHost string) bool {
			for _, h := range allow {
				if h == remoteHost {
					return true
				}
			}
			return false
		})
	}
	return media.Validate()
}

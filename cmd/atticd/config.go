package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// appConfig mirrors the flag/env override pattern the rest of the
// corpus's headless services use, adapted to the AESP runtime's three
// TCP endpoints plus the CLI socket directory.
type appConfig struct {
	controlAddr   string
	videoAddr     string
	audioAddr     string
	sockDir       string
	logFormat     string
	logLevel      string
	metricsAddr   string
	channelBuffer int
	frameInterval time.Duration
	mdnsEnable    bool
	mdnsName      string
}

func parseFlags() (*appConfig, bool) {
	cfg := &appConfig{}
	controlAddr := flag.String("control-addr", ":47800", "Control channel TCP listen address")
	videoAddr := flag.String("video-addr", ":47801", "Video channel TCP listen address")
	audioAddr := flag.String("audio-addr", ":47802", "Audio channel TCP listen address")
	sockDir := flag.String("sock-dir", os.TempDir(), "Directory for the discoverable CLI socket file")
	logFormat := flag.String("log-format", "text", "Log format: text|json")
	logLevel := flag.String("log-level", "info", "Log level: debug|info|warn|error")
	metricsAddr := flag.String("metrics-addr", "", "Metrics HTTP listen address (e.g., :9100); empty disables")
	channelBuffer := flag.Int("channel-buffer", 64, "Per-client outbound buffer (frames) for video/audio")
	frameInterval := flag.Duration("frame-interval", time.Second/60, "Target interval between frame-loop ticks")
	mdnsEnable := flag.Bool("mdns-enable", false, "Enable mDNS advertisement of the control endpoint")
	mdnsName := flag.String("mdns-name", "", "mDNS instance name (default atticd-<hostname>)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	setFlags := map[string]struct{}{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = struct{}{} })

	cfg.controlAddr = *controlAddr
	cfg.videoAddr = *videoAddr
	cfg.audioAddr = *audioAddr
	cfg.sockDir = *sockDir
	cfg.logFormat = *logFormat
	cfg.logLevel = *logLevel
	cfg.metricsAddr = *metricsAddr
	cfg.channelBuffer = *channelBuffer
	cfg.frameInterval = *frameInterval
	cfg.mdnsEnable = *mdnsEnable
	cfg.mdnsName = *mdnsName

	if err := applyEnvOverrides(cfg, setFlags); err != nil {
		fmt.Printf("environment override error: %v\n", err)
		return nil, *showVersion
	}
	if err := cfg.validate(); err != nil {
		fmt.Printf("configuration error: %v\n", err)
		return nil, *showVersion
	}
	return cfg, *showVersion
}

func (c *appConfig) validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	switch c.logFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log-format: %s", c.logFormat)
	}
	switch c.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level: %s", c.logLevel)
	}
	if c.channelBuffer <= 0 {
		return fmt.Errorf("channel-buffer must be > 0 (got %d)", c.channelBuffer)
	}
	if c.frameInterval <= 0 {
		return fmt.Errorf("frame-interval must be > 0")
	}
	if info, err := os.Stat(c.sockDir); err != nil || !info.IsDir() {
		return fmt.Errorf("sock-dir %q is not a directory", c.sockDir)
	}
	return nil
}

// applyEnvOverrides maps ATTICD_* environment variables onto cfg unless
// the corresponding flag was explicitly set.
func applyEnvOverrides(c *appConfig, set map[string]struct{}) error {
	var firstErr error
	get := func(k string) (string, bool) { v, ok := os.LookupEnv(k); return strings.TrimSpace(v), ok }

	if _, ok := set["control-addr"]; !ok {
		if v, ok := get("ATTICD_CONTROL_ADDR"); ok && v != "" {
			c.controlAddr = v
		}
	}
	if _, ok := set["video-addr"]; !ok {
		if v, ok := get("ATTICD_VIDEO_ADDR"); ok && v != "" {
			c.videoAddr = v
		}
	}
	if _, ok := set["audio-addr"]; !ok {
		if v, ok := get("ATTICD_AUDIO_ADDR"); ok && v != "" {
			c.audioAddr = v
		}
	}
	if _, ok := set["sock-dir"]; !ok {
		if v, ok := get("ATTICD_SOCK_DIR"); ok && v != "" {
			c.sockDir = v
		}
	}
	if _, ok := set["log-format"]; !ok {
		if v, ok := get("ATTICD_LOG_FORMAT"); ok && v != "" {
			c.logFormat = v
		}
	}
	if _, ok := set["log-level"]; !ok {
		if v, ok := get("ATTICD_LOG_LEVEL"); ok && v != "" {
			c.logLevel = v
		}
	}
	if _, ok := set["metrics-addr"]; !ok {
		if v, ok := get("ATTICD_METRICS_ADDR"); ok {
			c.metricsAddr = v
		}
	}
	if _, ok := set["channel-buffer"]; !ok {
		if v, ok := get("ATTICD_CHANNEL_BUFFER"); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.channelBuffer = n
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid ATTICD_CHANNEL_BUFFER: %w", err)
			}
		}
	}
	if _, ok := set["frame-interval"]; !ok {
		if v, ok := get("ATTICD_FRAME_INTERVAL"); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				c.frameInterval = d
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid ATTICD_FRAME_INTERVAL: %w", err)
			}
		}
	}
	if _, ok := set["mdns-enable"]; !ok {
		if v, ok := get("ATTICD_MDNS_ENABLE"); ok && v != "" {
			switch strings.ToLower(v) {
			case "1", "true", "yes", "on":
				c.mdnsEnable = true
			case "0", "false", "no", "off":
				c.mdnsEnable = false
			}
		}
	}
	if _, ok := set["mdns-name"]; !ok {
		if v, ok := get("ATTICD_MDNS_NAME"); ok && v != "" {
			c.mdnsName = v
		}
	}
	return firstErr
}

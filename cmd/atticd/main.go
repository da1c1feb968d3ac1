package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/huegli/attic-sub012/internal/atari800"
	"github.com/huegli/attic-sub012/internal/channel"
	"github.com/huegli/attic-sub012/internal/cliendpoint"
	"github.com/huegli/attic-sub012/internal/connio"
	"github.com/huegli/attic-sub012/internal/control"
	"github.com/huegli/attic-sub012/internal/debugger"
	"github.com/huegli/attic-sub012/internal/logging"
	"github.com/huegli/attic-sub012/internal/metrics"
	"github.com/huegli/attic-sub012/internal/orchestrator"
	"github.com/huegli/attic-sub012/internal/aesp"
)

func main() {
	cfg, showVersion := parseFlags()
	if showVersion {
		fmt.Printf("atticd %s (commit %s, built %s)\n", version, commit, date)
		return
	}
	if cfg == nil {
		os.Exit(1)
	}

	l := logging.New(cfg.logFormat, logging.LevelFromString(cfg.logLevel), os.Stderr).With("app", "atticd")
	logging.Set(l)

	facade := atari800.NewFacade()
	facade.Reset(true)

	controlDispatcher := channel.NewDispatcher(channel.Control, cfg.channelBuffer)
	videoDispatcher := channel.NewDispatcher(channel.Video, cfg.channelBuffer)
	audioDispatcher := channel.NewDispatcher(channel.Audio, cfg.channelBuffer)

	// The debugger's isPaused callback closes over orch, which is
	// assigned below: the closure is never invoked until requests start
	// flowing, by which point orch is set.
	var orch *orchestrator.Orchestrator
	debug := debugger.New(facade, func() bool {
		return orch == nil || orch.IsPaused()
	})

	orch = orchestrator.New(facade, debug, videoDispatcher, audioDispatcher,
		orchestrator.WithFrameInterval(cfg.frameInterval),
		orchestrator.WithLogger(l),
	)
	orch.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controlHandler := &control.Handler{
		Facade:  facade,
		Debug:   debug,
		Orch:    orch,
		Control: controlDispatcher,
		Video:   videoDispatcher,
		Audio:   audioDispatcher,
	}
	controlHandler.StartEventPump(ctx.Done())

	videoHandler := &control.StreamHandler{Dispatcher: videoDispatcher, Subscribe: aesp.VideoSubscribe, Unsubscribe: aesp.VideoUnsubscribe}
	audioHandler := &control.StreamHandler{Dispatcher: audioDispatcher, Subscribe: aesp.AudioSubscribe, Unsubscribe: aesp.AudioUnsubscribe}

	controlListener, err := net.Listen("tcp", cfg.controlAddr)
	if err != nil {
		l.Error("atticd: cannot bind control listener", "addr", cfg.controlAddr, "error", err)
		os.Exit(1)
	}
	videoListener, err := net.Listen("tcp", cfg.videoAddr)
	if err != nil {
		l.Error("atticd: cannot bind video listener", "addr", cfg.videoAddr, "error", err)
		os.Exit(1)
	}
	audioListener, err := net.Listen("tcp", cfg.audioAddr)
	if err != nil {
		l.Error("atticd: cannot bind audio listener", "addr", cfg.audioAddr, "error", err)
		os.Exit(1)
	}

	go func() { mustServe(l, "control", connio.Serve(controlListener, controlDispatcher, controlHandler)) }()
	go func() { mustServe(l, "video", connio.Serve(videoListener, videoDispatcher, videoHandler)) }()
	go func() { mustServe(l, "audio", connio.Serve(audioListener, audioDispatcher, audioHandler)) }()

	sockPath := cliendpoint.SocketPath(cfg.sockDir)
	cliListener, err := net.Listen("unix", sockPath)
	if err != nil {
		l.Error("atticd: cannot bind CLI socket", "path", sockPath, "error", err)
		os.Exit(1)
	}
	defer os.Remove(sockPath)

	cliHandler := &cliendpoint.Handler{Facade: facade, Debug: debug, Orch: orch}
	cliServer := cliendpoint.NewServer(cliHandler, cliListener)
	cliHandler.Shutdown = func() {
		l.Info("atticd: shutdown requested via CLI")
		cliListener.Close()
		cancel()
	}
	go func() { mustServe(l, "cli", cliServer.Serve()) }()

	if cfg.metricsAddr != "" {
		metrics.InitBuildInfo(version, commit, date)
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsSrv := &http.Server{Addr: cfg.metricsAddr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				l.Warn("atticd: metrics server error", "error", err)
			}
		}()
		defer metricsSrv.Shutdown(context.Background())
	}

	cleanupMDNS, err := startMDNS(ctx, cfg, cfg.controlAddr)
	if err != nil {
		l.Warn("atticd: mdns start failed", "error", err)
	} else {
		defer cleanupMDNS()
	}

	l.Info("atticd: listening", "control", cfg.controlAddr, "video", cfg.videoAddr, "audio", cfg.audioAddr, "cli", sockPath)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sigCh:
		l.Info("atticd: shutdown signal", "signal", s.String())
	case <-ctx.Done():
	}

	cancel()
	orch.Stop()
	controlListener.Close()
	videoListener.Close()
	audioListener.Close()
	cliListener.Close()
}

func mustServe(l *slog.Logger, name string, err error) {
	if err != nil {
		l.Warn("atticd: listener stopped", "listener", name, "error", err)
	}
}

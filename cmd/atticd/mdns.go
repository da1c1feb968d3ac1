package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/grandcat/zeroconf"
)

// mdnsServiceType advertises the control endpoint; video and audio are
// discovered by a client that already has the control connection open
// (spec §6.2's default-port convention), so only one service is
// registered.
const mdnsServiceType = "_attic-aesp._tcp"

func startMDNS(ctx context.Context, cfg *appConfig, controlAddr string) (func(), error) {
	if !cfg.mdnsEnable {
		return func() {}, nil
	}
	instance := cfg.mdnsName
	if instance == "" {
		host, _ := os.Hostname()
		instance = fmt.Sprintf("atticd-%s", host)
	}
	_, portStr, err := net.SplitHostPort(controlAddr)
	if err != nil {
		return nil, fmt.Errorf("mdns: cannot parse control address %q: %w", controlAddr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("mdns: invalid control port %q: %w", portStr, err)
	}

	meta := []string{"version=" + version, "commit=" + commit}
	svc, err := zeroconf.Register(instance, mdnsServiceType, "local.", port, meta, nil)
	if err != nil {
		return nil, fmt.Errorf("mdns register: %w", err)
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		svc.Shutdown()
	}()
	return func() { close(done); svc.Shutdown(); time.Sleep(50 * time.Millisecond) }, nil
}

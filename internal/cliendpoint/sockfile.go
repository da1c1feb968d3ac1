package cliendpoint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/huegli/attic-sub012/internal/atticerr"
)

// socketPrefix is the implementation-chosen prefix spec §6.3 leaves
// open; the socket filename is "<prefix>-<pid>.sock".
const socketPrefix = "attic-aesp"

// SocketPath returns the filename this process's CLI endpoint listens
// on, under dir.
func SocketPath(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%d.sock", socketPrefix, os.Getpid()))
}

// Discover enumerates candidate socket files in dir, validates each
// owning process is alive via unix.Kill(pid, 0), and returns the most
// recently modified live candidate — the selection rule spec §6.3
// names verbatim.
func Discover(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", atticerr.Errorf(atticerr.KindSocketNotFound, "cliendpoint: cannot read socket directory %s: %v", dir, err)
	}

	type candidate struct {
		path    string
		modTime int64
	}
	var candidates []candidate

	prefix := socketPrefix + "-"
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".sock") {
			continue
		}
		pidStr := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".sock")
		pid, err := strconv.Atoi(pidStr)
		if err != nil {
			continue
		}
		if err := unix.Kill(pid, 0); err != nil {
			continue // process is gone; stale socket file
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{path: filepath.Join(dir, name), modTime: info.ModTime().UnixNano()})
	}

	if len(candidates) == 0 {
		return "", atticerr.Errorf(atticerr.KindSocketNotFound, "cliendpoint: no live AESP socket found in %s", dir)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].modTime > candidates[j].modTime })
	return candidates[0].path, nil
}

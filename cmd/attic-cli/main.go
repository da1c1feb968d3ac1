// attic-cli is a thin reference client for the CLI text protocol
// implemented by internal/cliendpoint, grounded on the Go port described
// in atticprotocol's doc comment (CMD:/OK:/ERR:/EVENT: line grammar,
// discover-then-connect, background event handling) and on the teacher's
// own pkg/term-based terminal front end for the interactive line editor.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/huegli/attic-sub012/internal/cliendpoint"
)

func main() {
	var (
		sockDir  = flag.String("socket-dir", os.TempDir(), "directory to search for a live attic CLI socket")
		sockPath = flag.String("socket", "", "connect to this socket path directly, skipping discovery")
	)
	flag.Parse()

	path := *sockPath
	if path == "" {
		discovered, err := cliendpoint.Discover(*sockDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "attic-cli:", err)
			os.Exit(1)
		}
		path = discovered
	}

	conn, err := net.Dial("unix", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "attic-cli: cannot connect to", path, ":", err)
		os.Exit(1)
	}
	defer conn.Close()

	done := make(chan struct{})
	go pumpReplies(conn, done)

	editor, err := newLineEditor(os.Stdin, os.Stdout)
	if err != nil {
		// Not a terminal (e.g. piped input/output) — fall back to plain
		// line-buffered reading, the same request/reply loop either way.
		runPlain(conn, done)
		return
	}
	defer editor.close()

	for {
		line, ok := editor.readLine("attic> ")
		if !ok {
			break
		}
		if line == "" {
			continue
		}
		fmt.Fprintf(conn, "CMD:%s\n", line)
		if line == "quit" || line == "shutdown" {
			break
		}
	}
	<-done
}

// pumpReplies prints every line the server sends — OK:/ERR: replies to
// our own requests interleaved with EVENT: pushes from breakpoint hits
// during free-running playback.
func pumpReplies(conn net.Conn, done chan<- struct{}) {
	defer close(done)
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		fmt.Println(scanner.Text())
	}
}

// runPlain drives the same request loop from a non-terminal stdin, used
// for scripted sessions and tests of the client binary itself.
func runPlain(conn net.Conn, done chan struct{}) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fmt.Fprintf(conn, "CMD:%s\n", line)
		if line == "quit" || line == "shutdown" {
			break
		}
	}
	<-done
}

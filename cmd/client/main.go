// File: cmd/client/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Node CLI: `client <server_addr>`. Joins the ring via the bootstrap
// server, then runs a REPL reading Out/In/Rd/Inp/Rdp/Help/Exit commands
// from stdin. Loop shape grounded on original_source/src/bin/client.rs;
// printing failures and continuing (rather than aborting) follows
// spec §7's propagation policy.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/momentics/lindaring/internal/config"
	"github.com/momentics/lindaring/internal/engine"
	"github.com/momentics/lindaring/internal/netutil"
	"github.com/momentics/lindaring/internal/parser"
	"github.com/momentics/lindaring/internal/value"
	"github.com/momentics/lindaring/internal/wire"
)

// wellKnownPort is the ring's fixed bootstrap port (spec §6).
const wellKnownPort = 1999

func main() {
	verbose := flag.Bool("v", false, "log ring join progress")
	pin := flag.Int("pin", -1, "pin the worker goroutine to this CPU (best-effort, -1 disables)")
	timeout := flag.Duration("timeout", 5*time.Second, "default blocking in/rd timeout when the command omits one")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [flags] <server_address>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	serverAddr := net.JoinHostPort(flag.Arg(0), fmt.Sprint(wellKnownPort))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("failed to bind ring listener: %v", err)
	}

	selfPort := uint16(ln.Addr().(*net.TCPAddr).Port)
	self := wire.NewSocketAddr(net.IPv4(127, 0, 0, 1), selfPort)

	if err := reportSelfToServer(serverAddr, selfPort); err != nil {
		log.Fatalf("failed to register with bootstrap server: %v", err)
	}
	if *verbose {
		log.Printf("registered with bootstrap server %s, listening on port %d", serverAddr, selfPort)
	}

	next, err := awaitNextNeighbor(ln)
	if err != nil {
		log.Fatalf("failed to receive next-neighbor assignment: %v", err)
	}
	if *verbose {
		log.Printf("next neighbor is %s", next)
	}

	nextOut, err := net.Dial("tcp", next.TCPAddr().String())
	if err != nil {
		log.Fatalf("failed to connect to next neighbor %s: %v", next, err)
	}
	if tcpConn, ok := nextOut.(*net.TCPConn); ok {
		if err := netutil.TuneRingConn(tcpConn); err != nil && *verbose {
			log.Printf("failed to tune next-neighbor connection: %v", err)
		}
	}

	prevIn, err := ln.Accept()
	if err != nil {
		log.Fatalf("failed to accept ring connection from predecessor: %v", err)
	}
	if tcpConn, ok := prevIn.(*net.TCPConn); ok {
		if err := netutil.TuneRingConn(tcpConn); err != nil && *verbose {
			log.Printf("failed to tune predecessor connection: %v", err)
		}
	}
	ln.Close()

	if *verbose {
		log.Printf("ring closed: prev=%s next=%s self=%s", prevIn.RemoteAddr(), next, self)
	}

	settings := config.DefaultSettings()
	settings.Verbose = *verbose
	settings.DefaultTimeout = *timeout
	settings.PinCPU = *pin
	cfg := config.NewStore(settings)

	eng := engine.New(self, prevIn, nextOut, cfg)
	defer eng.Close()

	repl(eng, cfg)
}

// reportSelfToServer tells the bootstrap server which ephemeral port
// this node is listening on, per spec §6's ring port discovery.
func reportSelfToServer(serverAddr string, selfPort uint16) error {
	conn, err := net.Dial("tcp", serverAddr)
	if err != nil {
		return err
	}
	defer conn.Close()
	msg := wire.NewValueMessage(
		value.Tuple[value.Value]{value.Int(int32(selfPort))},
		wire.NewSocketAddr(net.IPv4(127, 0, 0, 1), wellKnownPort),
	)
	return wire.WriteFrame(conn, msg)
}

// awaitNextNeighbor accepts the bootstrap server's one-shot notification
// connection and returns the next-neighbor address carried in its origin.
func awaitNextNeighbor(ln net.Listener) (wire.SocketAddr, error) {
	conn, err := ln.Accept()
	if err != nil {
		return wire.SocketAddr{}, err
	}
	defer conn.Close()
	msg, err := wire.ReadFrame(conn)
	if err != nil {
		return wire.SocketAddr{}, err
	}
	return msg.Origin, nil
}

// repl reads one command per line from stdin and drives eng, printing
// results or failures without aborting on non-fatal errors (spec §7).
func repl(eng *engine.Engine, cfg *config.Store) {
	fmt.Println("lindaring node ready. Type 'help' for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, err := parser.New(line).Parse()
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		if !dispatch(eng, cfg, cmd) {
			return
		}
	}
}

// dispatch executes one parsed command; it returns false when the
// session should end.
func dispatch(eng *engine.Engine, cfg *config.Store, cmd parser.Command) bool {
	switch cmd.Kind {
	case parser.CmdOut:
		if err := eng.Out(cmd.Tuple); err != nil {
			fmt.Println("error:", err)
		}
	case parser.CmdInp:
		printResult(eng.Inp(cmd.Request))
	case parser.CmdRdp:
		printResult(eng.Rdp(cmd.Request))
	case parser.CmdIn:
		printResult(eng.In(cmd.Request, effectiveTimeout(cmd.Timeout, cfg)))
	case parser.CmdRd:
		printResult(eng.Rd(cmd.Request, effectiveTimeout(cmd.Timeout, cfg)))
	case parser.CmdHelp:
		printHelp()
	case parser.CmdExit:
		return false
	}
	return true
}

func effectiveTimeout(parsed time.Duration, cfg *config.Store) time.Duration {
	if parsed > 0 {
		return parsed
	}
	return cfg.Get().DefaultTimeout
}

func printResult(t value.Tuple[value.Value], err error) {
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(t)
}

func printHelp() {
	fmt.Println(`commands:
  out (v1, v2, ...)                inject a value-tuple onto the ring
  in  (type: op value, ...) secs   blocking match, waits up to secs
  rd  (type: op value, ...) secs   like in, but re-inserts the match
  inp (type: op value, ...)        non-blocking match
  rdp (type: op value, ...)        like inp, but re-inserts the match
  help                             show this message
  exit                             leave the ring and quit`)
}

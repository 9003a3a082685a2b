// File: cmd/server/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bootstrap server CLI: `server <N>`. Listens on the well-known ring
// port (1999, spec §6), admits N clients, and closes the ring topology
// before exiting. Flag-based CLI per the teacher's examples/*/main.go
// texture.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/momentics/lindaring/internal/bootstrap"
)

// WellKnownPort is the ring's fixed bootstrap port (spec §6).
const WellKnownPort = 1999

func main() {
	verbose := flag.Bool("v", false, "log admission and notification progress")
	port := flag.Int("port", WellKnownPort, "bootstrap listen port")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [flags] <number_of_clients>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	n, err := strconv.Atoi(flag.Arg(0))
	if err != nil || n <= 0 {
		log.Fatalf("expected a positive integer number of clients, got: %s", flag.Arg(0))
	}

	addr := fmt.Sprintf("0.0.0.0:%d", *port)
	log.Printf("starting bootstrap server for %d clients on %s", n, addr)
	if err := bootstrap.Run(addr, n, *verbose); err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	log.Printf("ring of %d nodes closed, exiting", n)
}

// Package main is the entry point for the mdsyx2midi API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/carrierdown/elektron-sysex-to-midi/pkg/api"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	flag.Parse()

	fmt.Printf("Starting mdsyx2midi API server on port %d...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", *port)
	fmt.Printf("Convert a dump: curl -F file=@dump.syx http://localhost:%d/api/v1/convert/syx2midi -o patterns.zip\n", *port)

	if err := api.StartServer(*port); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// Command api runs the ADIBUS fleet administration API.
//
//	api [-c config.yaml]              # start the HTTP server
//	api migrate up|down|status [-c config.yaml]
//
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

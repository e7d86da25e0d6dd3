// langprof trains byte n-gram language profiles from labeled text.
// Single binary: train, inspect, export and import models.
package main

import (
	"os"

	"github.com/corey/langprof/cmd/langprof/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

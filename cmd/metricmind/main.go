// main is the entry point for the metricmind CLI.
package main

import (
	"github.com/marcomd/metricmind/cmd"
	"github.com/marcomd/metricmind/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}

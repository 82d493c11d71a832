package main

import (
	"os"

	"github.com/archbench/archbench-engine/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(2)
	}
}

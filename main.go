package main

import (
	"os"

	"github.com/Jingren-Tang/minitransit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

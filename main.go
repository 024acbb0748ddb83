package main

import (
	"os"

	"github.com/YuminosukeSato/cybershield/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

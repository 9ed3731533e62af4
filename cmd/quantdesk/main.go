package main

import (
	"os"

	"github.com/rustyeddy/quantdesk/cmd/quantdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

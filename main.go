package main

import (
	"os"

	"github.com/go-i2p/go-udptransport/lib/cli"
)

func main() {
	os.Exit(cli.Execute())
}

package main

import (
	"os"

	"fleetfin/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

package main

import (
	"context"
	"os"

	"tradeverify/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}

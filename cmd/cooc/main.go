package main

import (
	"os"

	"github.com/happyhackingspace/cooc"
	"github.com/happyhackingspace/cooc/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.New(version).Run(); err != nil {
		os.Exit(cooc.ExitCode(err))
	}
}

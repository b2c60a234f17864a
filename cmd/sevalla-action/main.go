package main

import (
	"os"

	"github.com/helvethink/sevalla-action/internal/cli"
)

var version = "devel"

func main() {
	cli.Run(version, os.Args)
}

package main

import (
	"github.com/doridoridoriand/pingtop/internal/cli"
)

const version = "0.1.0"

func main() {
	cli.SetVersionInfo(version)
	cli.Execute()
}

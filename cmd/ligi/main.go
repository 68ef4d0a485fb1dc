package main

import (
	"os"

	"github.com/jlrickert/cli-toolkit/toolkit"
	"github.com/jlrickert/ligi/pkg/cli"
)

func main() {
	rt, err := toolkit.NewRuntime()
	if err != nil {
		os.Exit(1)
	}

	streams := cli.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
	os.Exit(cli.Run(rt, streams, os.Args[1:]))
}

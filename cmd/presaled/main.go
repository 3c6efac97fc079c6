package main

import "github.com/LeJamon/goPresale/internal/cli"

func main() {
	cli.Execute()
}

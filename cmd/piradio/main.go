package main

import "github.com/jypelle/piradio/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/cezarfpek/clipper/internal/cli"

func main() {
	cli.Main()
}

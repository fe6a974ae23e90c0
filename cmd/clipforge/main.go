package main

import "github.com/clipforge/clipforge/internal/cli"

func main() {
	cli.Main()
}

package main

import "github.com/Bahjat/page-palette/internal/cli"

func main() {
	cli.Execute()
}

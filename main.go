package main

import "github.com/samuelfneumann/envspec/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/ttyrew/ttyrew/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/SomethingGeneric/aurdist/internal/cli"

func main() {
	cli.Execute()
}

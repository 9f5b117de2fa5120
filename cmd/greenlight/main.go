package main

import "github.com/greenlightd/greenlight/internal/cli"

func main() {
	cli.Execute()
}

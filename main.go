package main

import "github.com/makerlens/makerlens-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}

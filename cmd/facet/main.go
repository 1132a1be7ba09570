package main

import "github.com/custodia-labs/facet/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}

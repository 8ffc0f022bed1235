package main

import "github.com/forPelevin/visecut/internal/cli"

func main() {
	cli.Main()
}

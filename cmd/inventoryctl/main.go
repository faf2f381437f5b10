package main

import "inventory-system/internal/cli"

func main() {
	cli.Execute()
}

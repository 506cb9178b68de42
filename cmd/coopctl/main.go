package main

import "housing-coop-go/internal/cli/commands"

func main() {
	commands.Execute()
}

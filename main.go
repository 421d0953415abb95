package main

import "github.com/crednx/statement-engine/cmd"

func main() {
	cmd.Execute()
}

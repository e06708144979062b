package main

import "github.com/entidraw/entidraw/cmd/entidraw/commands"

func main() {
	commands.Execute()
}

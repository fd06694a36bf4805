package main

import "github.com/suwook2/project-musicgen/cmd"

func main() {
	cmd.Execute()
}

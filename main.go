package main

import "github.com/mertkc/kickoff/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/andrejsstepanovs/storyboard/cmd"

func main() {
	cmd.Execute()
}

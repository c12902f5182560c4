package main

import "github.com/Olivia010207/NPS/cmd"

func main() {
	cmd.Execute()
}

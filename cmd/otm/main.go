package main

import "github.com/OpenTraceLab/OpenTraceMap/cmd/otm/cmd"

func main() {
	cmd.Execute()
}
